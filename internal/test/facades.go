package test

import (
	"context"
	"io"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/pricing"
)

// StorefrontFacadeStub implements every HTTP facade through function overrides.
// Unset overrides return zero values, or ErrNotFound for single-order lookups.
type StorefrontFacadeStub struct {
	AuthFacadeStub

	ProductsFn       func(context.Context, *int64) ([]model.Product, error)
	CreateProductFn  func(context.Context, model.Principal, model.ProductDraft) (*model.Product, error)
	QuoteFn          func(context.Context, model.QuoteRequest) (*pricing.Quote, error)
	CheckoutFn       func(context.Context, model.CheckoutRequest) (*model.Order, error)
	OrderFn          func(context.Context, model.Principal, uuid.UUID) (*model.Order, error)
	OrdersFn         func(context.Context, model.Principal, *model.OrderStatus, int) ([]model.Order, error)
	SupplierOrdersFn func(context.Context, model.Principal, *model.OrderStatus, int) ([]model.Order, error)
	CancelFn         func(context.Context, model.Principal, uuid.UUID, string) (*model.Order, error)
	ReviewFn         func(context.Context, model.Principal, uuid.UUID, int, string) (*model.Order, error)
	StatusFn         func(context.Context, model.Principal, uuid.UUID, model.OrderStatus, string) (*model.Order, error)
	ExportFn         func(context.Context, string, model.OrderFilter, io.Writer) error
	HealthFn         func(context.Context) error
}

// Products lists catalogue entries.
func (s *StorefrontFacadeStub) Products(ctx context.Context, supplierID *int64) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, supplierID)
	}
	return nil, nil
}

// CreateProduct echoes the draft as a stored product.
func (s *StorefrontFacadeStub) CreateProduct(ctx context.Context, principal model.Principal, in model.ProductDraft) (*model.Product, error) {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, principal, in)
	}
	return &model.Product{ID: 1, SupplierID: principal.UserID, Name: in.Name, Price: in.Price, DiscountedPrice: in.DiscountedPrice, Stock: in.Stock}, nil
}

// Quote prices a cart.
func (s *StorefrontFacadeStub) Quote(ctx context.Context, in model.QuoteRequest) (*pricing.Quote, error) {
	if s.QuoteFn != nil {
		return s.QuoteFn(ctx, in)
	}
	return &pricing.Quote{}, nil
}

// Checkout places a cart.
func (s *StorefrontFacadeStub) Checkout(ctx context.Context, in model.CheckoutRequest) (*model.Order, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, in)
	}
	return &model.Order{ID: uuid.New(), CustomerID: in.CustomerID, Status: model.OrderStatusPlaced}, nil
}

// Order fetches a single order.
func (s *StorefrontFacadeStub) Order(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, principal, id)
	}
	return nil, domainErrors.ErrNotFound
}

// Orders lists orders visible to principal.
func (s *StorefrontFacadeStub) Orders(ctx context.Context, principal model.Principal, status *model.OrderStatus, limit int) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, principal, status, limit)
	}
	return nil, nil
}

// SupplierOrders lists orders containing the supplier's products.
func (s *StorefrontFacadeStub) SupplierOrders(ctx context.Context, principal model.Principal, status *model.OrderStatus, limit int) ([]model.Order, error) {
	if s.SupplierOrdersFn != nil {
		return s.SupplierOrdersFn(ctx, principal, status, limit)
	}
	return nil, nil
}

// CancelOrder cancels an order.
func (s *StorefrontFacadeStub) CancelOrder(ctx context.Context, principal model.Principal, id uuid.UUID, reason string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, principal, id, reason)
	}
	return nil, domainErrors.ErrNotFound
}

// ReviewOrder attaches a review.
func (s *StorefrontFacadeStub) ReviewOrder(ctx context.Context, principal model.Principal, id uuid.UUID, rating int, text string) (*model.Order, error) {
	if s.ReviewFn != nil {
		return s.ReviewFn(ctx, principal, id, rating, text)
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateOrderStatus moves an order to status.
func (s *StorefrontFacadeStub) UpdateOrderStatus(ctx context.Context, principal model.Principal, id uuid.UUID, status model.OrderStatus, note string) (*model.Order, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, principal, id, status, note)
	}
	return nil, domainErrors.ErrNotFound
}

// ExportReport writes a CSV report.
func (s *StorefrontFacadeStub) ExportReport(ctx context.Context, kind string, filter model.OrderFilter, w io.Writer) error {
	if s.ExportFn != nil {
		return s.ExportFn(ctx, kind, filter, w)
	}
	_, err := io.WriteString(w, "id\n")
	return err
}

// HealthCheck reports backing service readiness.
func (s *StorefrontFacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}
