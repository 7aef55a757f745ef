package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/pricing"
	"github.com/polkiloo/quickmart/internal/server/http/dto"
	"github.com/polkiloo/quickmart/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/quickmart/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	customer = model.Principal{UserID: 7, Role: model.RoleCustomer}
	supplier = model.Principal{UserID: 3, Role: model.RoleSupplier}
	admin    = model.Principal{UserID: 1, Role: model.RoleAdmin}
)

func performRequest(t *testing.T, method, pattern, target string, handler gin.HandlerFunc, principal *model.Principal, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, pattern, func(c *gin.Context) {
		if principal != nil {
			c.Set(middleware.PrincipalContextKey, *principal)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func sampleOrder() *model.Order {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &model.Order{
		ID:         uuid.New(),
		Number:     "QC-20240501-042",
		CustomerID: customer.UserID,
		Items: []model.OrderItem{{
			ProductID: 11, SupplierID: supplier.UserID, Name: "Milk",
			UnitPrice: decimal.RequireFromString("2.50"), Quantity: 2, LineTotal: decimal.RequireFromString("5.00"),
		}},
		Subtotal:        decimal.RequireFromString("5.00"),
		DeliveryFee:     decimal.RequireFromString("1.00"),
		Discount:        decimal.Zero,
		Total:           decimal.RequireFromString("6.00"),
		DeliveryAddress: model.Address{Line1: "1 Main St", City: "Pune"},
		DeliveryType:    model.DeliveryStandard,
		PaymentMethod:   model.PaymentCard,
		PaymentStatus:   model.PaymentStatusPending,
		Status:          model.OrderStatusPlaced,
		StatusHistory:   []model.StatusEntry{{Status: model.OrderStatusPlaced, Timestamp: created}},
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func TestCurrentPrincipal(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUserID(c); got != 0 {
		t.Fatalf("expected 0 when not set, got %d", got)
	}

	c.Set(middleware.PrincipalContextKey, supplier)
	if got := CurrentPrincipal(c); got != supplier {
		t.Fatalf("expected %+v, got %+v", supplier, got)
	}
	if got := CurrentUserID(c); got != supplier.UserID {
		t.Fatalf("expected %d, got %d", supplier.UserID, got)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		domainErrors.ErrNotFound:                  http.StatusNotFound,
		domainErrors.ErrValidationFailed:          http.StatusUnprocessableEntity,
		domainErrors.ErrInvalidTransition:         http.StatusConflict,
		domainErrors.ErrCancellationWindowExpired: http.StatusConflict,
		domainErrors.ErrReviewNotAllowed:          http.StatusConflict,
		domainErrors.ErrOutOfStock:                http.StatusConflict,
		domainErrors.ErrAlreadyExists:             http.StatusConflict,
		domainErrors.ErrPermissionDenied:          http.StatusForbidden,
		domainErrors.ErrInvalidCredentials:        http.StatusUnauthorized,
		errors.New("boom"):                        http.StatusInternalServerError,
	}
	for err, want := range cases {
		wrapped := fmt.Errorf("op: %w", err)
		if got := statusFor(wrapped); got != want {
			t.Errorf("statusFor(%v) = %d, want %d", err, got, want)
		}
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	email := testhelpers.RandomEmail()
	password := testhelpers.RandomASCIIString(16, 32)
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{RegisterFn: func(_ context.Context, in model.Registration) (string, error) {
		if in.Email != email || in.Password != password || in.Role != model.RoleSupplier {
			t.Fatalf("unexpected registration passed to facade: %+v", in)
		}
		return "issued", nil
	}})

	body := mustJSON(t, dto.RegisterRequest{Email: email, Password: password, Name: "Shop", Role: "supplier"})
	resp := performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") != "Bearer issued" {
		t.Fatalf("expected auth header to be set, got %q", resp.Header().Get("Authorization"))
	}
	if got := decode[dto.TokenResponse](t, resp); got.Token != "issued" {
		t.Fatalf("expected token in body, got %q", got.Token)
	}
}

func TestAuthHandlerRegisterErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"missing credentials", domainErrors.ErrInvalidCredentials, http.StatusBadRequest},
		{"duplicate email", domainErrors.ErrAlreadyExists, http.StatusConflict},
		{"weak password", fmt.Errorf("%w: short", domainErrors.ErrValidationFailed), http.StatusUnprocessableEntity},
		{"storage failure", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewAuthHandler(testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, model.Registration) (string, error) {
				return "", tc.err
			}})
			body := mustJSON(t, dto.RegisterRequest{Email: "a@example.com", Password: "secret123"})
			resp := performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, body)
			if resp.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, resp.Code)
			}
		})
	}

	resp := performRequest(t, http.MethodPost, "/register", "/register", NewAuthHandler(testhelpers.AuthFacadeStub{}).Register, nil, []byte("{"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.Code)
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{AuthenticateFn: func(_ context.Context, email, password string) (string, error) {
		if password != "right" {
			return "", domainErrors.ErrInvalidCredentials
		}
		return "token-" + email, nil
	}})

	resp := performRequest(t, http.MethodPost, "/login", "/login", handler.Login, nil, mustJSON(t, dto.LoginRequest{Email: "a@example.com", Password: "right"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") != "Bearer token-a@example.com" {
		t.Fatalf("unexpected auth header %q", resp.Header().Get("Authorization"))
	}

	resp = performRequest(t, http.MethodPost, "/login", "/login", handler.Login, nil, mustJSON(t, dto.LoginRequest{Email: "a@example.com", Password: "wrong"}))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/login", "/login", handler.Login, nil, []byte("not json"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestProductHandlerList(t *testing.T) {
	discounted := decimal.RequireFromString("80")
	stock := 0
	var gotSupplier *int64
	facade := &testhelpers.StorefrontFacadeStub{ProductsFn: func(_ context.Context, supplierID *int64) ([]model.Product, error) {
		gotSupplier = supplierID
		return []model.Product{{ID: 5, SupplierID: 3, Name: "Rice", Price: decimal.RequireFromString("100"), DiscountedPrice: &discounted, Stock: &stock}}, nil
	}}
	handler := NewProductHandler(facade)

	resp := performRequest(t, http.MethodGet, "/products", "/products?supplier_id=3", handler.List, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotSupplier == nil || *gotSupplier != 3 {
		t.Fatalf("expected supplier filter 3, got %v", gotSupplier)
	}
	products := decode[[]dto.ProductResponse](t, resp)
	if len(products) != 1 {
		t.Fatalf("expected one product, got %d", len(products))
	}
	p := products[0]
	if !p.EffectivePrice.Equal(discounted) || p.DiscountPercent != 20 || p.InStock {
		t.Fatalf("unexpected derived pricing: %+v", p)
	}

	resp = performRequest(t, http.MethodGet, "/products", "/products", handler.List, nil, nil)
	if resp.Code != http.StatusOK || gotSupplier != nil {
		t.Fatalf("expected unfiltered listing, got code %d filter %v", resp.Code, gotSupplier)
	}

	resp = performRequest(t, http.MethodGet, "/products", "/products?supplier_id=abc", handler.List, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid supplier, got %d", resp.Code)
	}
}

func TestProductHandlerCreate(t *testing.T) {
	facade := &testhelpers.StorefrontFacadeStub{}
	handler := NewProductHandler(facade)
	body := mustJSON(t, map[string]any{"name": "Bread", "price": 40, "stock": 5})

	resp := performRequest(t, http.MethodPost, "/supplier/products", "/supplier/products", handler.Create, &supplier, body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	created := decode[dto.ProductResponse](t, resp)
	if created.SupplierID != supplier.UserID || created.Name != "Bread" || !created.Price.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected product %+v", created)
	}
	if created.Stock == nil || *created.Stock != 5 || !created.InStock {
		t.Fatalf("expected stock 5, got %+v", created.Stock)
	}

	facade.CreateProductFn = func(context.Context, model.Principal, model.ProductDraft) (*model.Product, error) {
		return nil, domainErrors.ErrPermissionDenied
	}
	resp = performRequest(t, http.MethodPost, "/supplier/products", "/supplier/products", handler.Create, &customer, body)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestCartHandlerQuote(t *testing.T) {
	var got model.QuoteRequest
	facade := &testhelpers.StorefrontFacadeStub{QuoteFn: func(_ context.Context, in model.QuoteRequest) (*pricing.Quote, error) {
		got = in
		return &pricing.Quote{
			Lines:       []pricing.PricedLine{{ProductID: 1, Quantity: 2, LineTotal: decimal.NewFromInt(20)}},
			Subtotal:    decimal.NewFromInt(20),
			Discount:    decimal.NewFromInt(4),
			DeliveryFee: decimal.NewFromInt(3),
			Total:       decimal.NewFromInt(19),
		}, nil
	}}
	handler := NewCartHandler(facade)

	body := mustJSON(t, dto.QuoteRequest{Items: []dto.CartItem{{ProductID: 1, Quantity: 2}}, Zone: "north"})
	resp := performRequest(t, http.MethodPost, "/cart/quote", "/cart/quote", handler.Quote, &customer, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got.CustomerID != customer.UserID || got.DeliveryType != model.DeliveryStandard || got.Zone != "north" || len(got.Items) != 1 {
		t.Fatalf("unexpected quote request %+v", got)
	}
	quote := decode[dto.QuoteResponse](t, resp)
	if !quote.Total.Equal(decimal.NewFromInt(19)) || len(quote.Lines) != 1 {
		t.Fatalf("unexpected quote %+v", quote)
	}

	facade.QuoteFn = func(context.Context, model.QuoteRequest) (*pricing.Quote, error) {
		return nil, fmt.Errorf("product 9: %w", domainErrors.ErrOutOfStock)
	}
	resp = performRequest(t, http.MethodPost, "/cart/quote", "/cart/quote", handler.Quote, &customer, body)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if decode[dto.ErrorResponse](t, resp).Error == "" {
		t.Fatalf("expected error message in body")
	}
}

func TestOrderHandlerCheckout(t *testing.T) {
	order := sampleOrder()
	var got model.CheckoutRequest
	facade := &testhelpers.StorefrontFacadeStub{CheckoutFn: func(_ context.Context, in model.CheckoutRequest) (*model.Order, error) {
		got = in
		return order, nil
	}}
	handler := NewOrderHandler(facade, facade)

	body := mustJSON(t, dto.CheckoutRequest{
		Items:         []dto.CartItem{{ProductID: 11, Quantity: 2}},
		Address:       model.Address{Line1: "1 Main St", City: "Pune"},
		DeliveryType:  "express",
		PaymentMethod: "card",
	})
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", handler.Checkout, &customer, body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if got.CustomerID != customer.UserID || got.DeliveryType != model.DeliveryExpress || got.PaymentMethod != model.PaymentCard {
		t.Fatalf("unexpected checkout request %+v", got)
	}
	placed := decode[dto.OrderResponse](t, resp)
	if placed.ID != order.ID || placed.Number != order.Number || placed.Status != "placed" {
		t.Fatalf("unexpected order response %+v", placed)
	}
	if len(placed.StatusHistory) != 1 || len(placed.Items) != 1 || !placed.Total.Equal(order.Total) {
		t.Fatalf("expected history, items and totals in response: %+v", placed)
	}

	facade.CheckoutFn = func(context.Context, model.CheckoutRequest) (*model.Order, error) {
		return nil, fmt.Errorf("%w: order has no items", domainErrors.ErrValidationFailed)
	}
	resp = performRequest(t, http.MethodPost, "/orders", "/orders", handler.Checkout, &customer, body)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestOrderHandlerList(t *testing.T) {
	var gotStatus *model.OrderStatus
	var gotLimit int
	var gotPrincipal model.Principal
	facade := &testhelpers.StorefrontFacadeStub{OrdersFn: func(_ context.Context, p model.Principal, status *model.OrderStatus, limit int) ([]model.Order, error) {
		gotPrincipal, gotStatus, gotLimit = p, status, limit
		return []model.Order{*sampleOrder()}, nil
	}}
	handler := NewOrderHandler(facade, facade)

	resp := performRequest(t, http.MethodGet, "/orders", "/orders?status=placed&limit=10", handler.List, &customer, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotPrincipal != customer || gotStatus == nil || *gotStatus != model.OrderStatusPlaced || gotLimit != 10 {
		t.Fatalf("unexpected list arguments %+v %v %d", gotPrincipal, gotStatus, gotLimit)
	}
	if orders := decode[[]dto.OrderResponse](t, resp); len(orders) != 1 {
		t.Fatalf("expected one order, got %d", len(orders))
	}

	facade.OrdersFn = nil
	resp = performRequest(t, http.MethodGet, "/orders", "/orders", handler.List, &customer, nil)
	if resp.Code != http.StatusOK || resp.Body.String() != "[]" {
		t.Fatalf("expected empty array, got %d %q", resp.Code, resp.Body.String())
	}

	for _, target := range []string{"/orders?status=lost", "/orders?limit=-1", "/orders?limit=ten"} {
		resp = performRequest(t, http.MethodGet, "/orders", target, handler.List, &customer, nil)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", target, resp.Code)
		}
	}
}

func TestOrderHandlerSupplierList(t *testing.T) {
	var gotPrincipal model.Principal
	facade := &testhelpers.StorefrontFacadeStub{SupplierOrdersFn: func(_ context.Context, p model.Principal, _ *model.OrderStatus, _ int) ([]model.Order, error) {
		gotPrincipal = p
		return []model.Order{*sampleOrder(), *sampleOrder()}, nil
	}}
	handler := NewOrderHandler(facade, facade)

	resp := performRequest(t, http.MethodGet, "/supplier/orders", "/supplier/orders", handler.SupplierList, &supplier, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotPrincipal != supplier {
		t.Fatalf("expected supplier principal, got %+v", gotPrincipal)
	}
	if orders := decode[[]dto.OrderResponse](t, resp); len(orders) != 2 {
		t.Fatalf("expected two orders, got %d", len(orders))
	}
}

func TestOrderHandlerGet(t *testing.T) {
	order := sampleOrder()
	facade := &testhelpers.StorefrontFacadeStub{OrderFn: func(_ context.Context, p model.Principal, id uuid.UUID) (*model.Order, error) {
		if id != order.ID {
			return nil, domainErrors.ErrNotFound
		}
		if p.UserID != order.CustomerID && p.Role != model.RoleAdmin {
			return nil, domainErrors.ErrPermissionDenied
		}
		return order, nil
	}}
	handler := NewOrderHandler(facade, facade)

	resp := performRequest(t, http.MethodGet, "/orders/:id", "/orders/"+order.ID.String(), handler.Get, &customer, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decode[dto.OrderResponse](t, resp); got.ID != order.ID {
		t.Fatalf("unexpected order %s", got.ID)
	}

	stranger := model.Principal{UserID: 99, Role: model.RoleCustomer}
	resp = performRequest(t, http.MethodGet, "/orders/:id", "/orders/"+order.ID.String(), handler.Get, &stranger, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/orders/:id", "/orders/"+uuid.NewString(), handler.Get, &customer, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/orders/:id", "/orders/not-a-uuid", handler.Get, &customer, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestOrderHandlerCancel(t *testing.T) {
	order := sampleOrder()
	var gotReason string
	facade := &testhelpers.StorefrontFacadeStub{CancelFn: func(_ context.Context, _ model.Principal, _ uuid.UUID, reason string) (*model.Order, error) {
		gotReason = reason
		cancelled := *order
		cancelled.AppendStatus(model.OrderStatusCancelled, order.CreatedAt.Add(time.Minute), reason)
		return &cancelled, nil
	}}
	handler := NewOrderHandler(facade, facade)
	target := "/orders/" + order.ID.String() + "/cancel"

	resp := performRequest(t, http.MethodPost, "/orders/:id/cancel", target, handler.Cancel, &customer, mustJSON(t, dto.CancelRequest{Reason: "changed mind"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotReason != "changed mind" {
		t.Fatalf("expected reason to be forwarded, got %q", gotReason)
	}
	cancelled := decode[dto.OrderResponse](t, resp)
	if cancelled.Status != "cancelled" || len(cancelled.StatusHistory) != 2 {
		t.Fatalf("unexpected cancelled order %+v", cancelled)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:id/cancel", target, handler.Cancel, &customer, nil)
	if resp.Code != http.StatusOK || gotReason != "" {
		t.Fatalf("expected cancel without body, got %d reason %q", resp.Code, gotReason)
	}

	facade.CancelFn = func(context.Context, model.Principal, uuid.UUID, string) (*model.Order, error) {
		return nil, domainErrors.ErrCancellationWindowExpired
	}
	resp = performRequest(t, http.MethodPost, "/orders/:id/cancel", target, handler.Cancel, &customer, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestOrderHandlerReview(t *testing.T) {
	order := sampleOrder()
	facade := &testhelpers.StorefrontFacadeStub{ReviewFn: func(_ context.Context, _ model.Principal, _ uuid.UUID, rating int, text string) (*model.Order, error) {
		if rating > 5 {
			return nil, fmt.Errorf("%w: rating", domainErrors.ErrValidationFailed)
		}
		reviewed := *order
		reviewed.Review = &model.Review{Rating: rating, Text: text, CreatedAt: order.CreatedAt}
		return &reviewed, nil
	}}
	handler := NewOrderHandler(facade, facade)
	target := "/orders/" + order.ID.String() + "/review"

	resp := performRequest(t, http.MethodPost, "/orders/:id/review", target, handler.Review, &customer, mustJSON(t, dto.ReviewRequest{Rating: 4, Text: "fresh"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decode[dto.OrderResponse](t, resp); got.Review == nil || got.Review.Rating != 4 || got.Review.Text != "fresh" {
		t.Fatalf("expected review in response, got %+v", got.Review)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:id/review", target, handler.Review, &customer, mustJSON(t, dto.ReviewRequest{Rating: 9}))
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}

	facade.ReviewFn = func(context.Context, model.Principal, uuid.UUID, int, string) (*model.Order, error) {
		return nil, domainErrors.ErrReviewNotAllowed
	}
	resp = performRequest(t, http.MethodPost, "/orders/:id/review", target, handler.Review, &customer, mustJSON(t, dto.ReviewRequest{Rating: 3}))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestOrderHandlerUpdateStatus(t *testing.T) {
	order := sampleOrder()
	var gotStatus model.OrderStatus
	var gotNote string
	facade := &testhelpers.StorefrontFacadeStub{StatusFn: func(_ context.Context, _ model.Principal, _ uuid.UUID, status model.OrderStatus, note string) (*model.Order, error) {
		if status == model.OrderStatusDelivered {
			return nil, domainErrors.ErrInvalidTransition
		}
		gotStatus, gotNote = status, note
		updated := *order
		updated.AppendStatus(status, order.CreatedAt.Add(time.Minute), note)
		return &updated, nil
	}}
	handler := NewOrderHandler(facade, facade)
	target := "/orders/" + order.ID.String() + "/status"

	resp := performRequest(t, http.MethodPost, "/orders/:id/status", target, handler.UpdateStatus, &supplier, mustJSON(t, dto.StatusRequest{Status: "confirmed", Note: "accepted"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotStatus != model.OrderStatusConfirmed || gotNote != "accepted" {
		t.Fatalf("unexpected transition arguments %q %q", gotStatus, gotNote)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:id/status", target, handler.UpdateStatus, &supplier, mustJSON(t, dto.StatusRequest{Status: "delivered"}))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:id/status", target, handler.UpdateStatus, &supplier, mustJSON(t, dto.StatusRequest{Status: "teleported"}))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestReportHandlerExport(t *testing.T) {
	var gotKind string
	var gotFilter model.OrderFilter
	facade := &testhelpers.StorefrontFacadeStub{ExportFn: func(_ context.Context, kind string, filter model.OrderFilter, w io.Writer) error {
		if kind == "unknown" {
			return fmt.Errorf("%w: unknown report", domainErrors.ErrValidationFailed)
		}
		gotKind, gotFilter = kind, filter
		_, err := io.WriteString(w, "number,status\nQC-1,placed\n")
		return err
	}}
	handler := NewReportHandler(facade)

	resp := performRequest(t, http.MethodGet, "/reports/:kind", "/reports/orders?status=placed&from=2024-05-01&to=2024-05-02T00:00:00Z", handler.Export, &admin, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if resp.Body.String() != "number,status\nQC-1,placed\n" {
		t.Fatalf("unexpected csv body %q", resp.Body.String())
	}
	if gotKind != "orders" || gotFilter.Status == nil || *gotFilter.Status != model.OrderStatusPlaced {
		t.Fatalf("unexpected export arguments %q %+v", gotKind, gotFilter)
	}
	wantFrom := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if gotFilter.From == nil || !gotFilter.From.Equal(wantFrom) || gotFilter.To == nil || !gotFilter.To.Equal(wantFrom.Add(24*time.Hour)) {
		t.Fatalf("unexpected time range %v %v", gotFilter.From, gotFilter.To)
	}

	resp = performRequest(t, http.MethodGet, "/reports/:kind", "/reports/unknown", handler.Export, &admin, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/reports/:kind", "/reports/orders?from=yesterday", handler.Export, &admin, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHealth(t *testing.T) {
	facade := &testhelpers.StorefrontFacadeStub{}
	resp := performRequest(t, http.MethodGet, "/healthz", "/healthz", Health(facade), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	facade.HealthFn = func(context.Context) error { return errors.New("db down") }
	resp = performRequest(t, http.MethodGet, "/healthz", "/healthz", Health(facade), nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

var _ StorefrontFacade = (*testhelpers.StorefrontFacadeStub)(nil)
