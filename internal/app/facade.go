package app

import (
	"context"
	"io"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/pricing"
	"github.com/polkiloo/quickmart/internal/usecase"
)

// HealthChecker reports readiness of the database.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade adapts use cases to the HTTP surface.
type StorefrontFacade struct {
	auth     *usecase.AuthUseCase
	catalog  *usecase.CatalogUseCase
	checkout *usecase.CheckoutUseCase
	orders   *usecase.OrderUseCase
	reports  *usecase.ReportUseCase
	health   HealthChecker
}

func NewStorefrontFacade(
	auth *usecase.AuthUseCase,
	catalog *usecase.CatalogUseCase,
	checkout *usecase.CheckoutUseCase,
	orders *usecase.OrderUseCase,
	reports *usecase.ReportUseCase,
	health HealthChecker,
) *StorefrontFacade {
	return &StorefrontFacade{
		auth:     auth,
		catalog:  catalog,
		checkout: checkout,
		orders:   orders,
		reports:  reports,
		health:   health,
	}
}

func (f *StorefrontFacade) Register(ctx context.Context, in model.Registration) (string, error) {
	_, token, err := f.auth.Register(ctx, in)
	return token, err
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *StorefrontFacade) ParseToken(token string) (model.Principal, error) {
	return f.auth.ParseToken(token)
}

// EnsureAdmin creates the bootstrap admin account when missing.
func (f *StorefrontFacade) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := f.auth.EnsureAdmin(ctx, email, password)
	return err
}

func (f *StorefrontFacade) Products(ctx context.Context, supplierID *int64) ([]model.Product, error) {
	return f.catalog.List(ctx, supplierID)
}

func (f *StorefrontFacade) CreateProduct(ctx context.Context, principal model.Principal, in model.ProductDraft) (*model.Product, error) {
	return f.catalog.Create(ctx, principal, in)
}

func (f *StorefrontFacade) Quote(ctx context.Context, in model.QuoteRequest) (*pricing.Quote, error) {
	return f.checkout.Quote(ctx, in)
}

func (f *StorefrontFacade) Checkout(ctx context.Context, in model.CheckoutRequest) (*model.Order, error) {
	return f.checkout.Checkout(ctx, in)
}

func (f *StorefrontFacade) Order(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error) {
	return f.orders.GetAs(ctx, principal, id)
}

func (f *StorefrontFacade) Orders(ctx context.Context, principal model.Principal, status *model.OrderStatus, limit int) ([]model.Order, error) {
	return f.orders.ListFor(ctx, principal, status, limit)
}

func (f *StorefrontFacade) SupplierOrders(ctx context.Context, principal model.Principal, status *model.OrderStatus, limit int) ([]model.Order, error) {
	if principal.Role != model.RoleSupplier {
		return nil, domainErrors.ErrPermissionDenied
	}
	return f.orders.ListBySupplier(ctx, principal.UserID, status, limit)
}

func (f *StorefrontFacade) CancelOrder(ctx context.Context, principal model.Principal, id uuid.UUID, reason string) (*model.Order, error) {
	return f.orders.CancelAs(ctx, principal, id, reason)
}

func (f *StorefrontFacade) ReviewOrder(ctx context.Context, principal model.Principal, id uuid.UUID, rating int, text string) (*model.Order, error) {
	return f.orders.ReviewAs(ctx, principal, id, rating, text)
}

func (f *StorefrontFacade) UpdateOrderStatus(ctx context.Context, principal model.Principal, id uuid.UUID, status model.OrderStatus, note string) (*model.Order, error) {
	return f.orders.TransitionAs(ctx, principal, id, status, note)
}

func (f *StorefrontFacade) ExportReport(ctx context.Context, kind string, filter model.OrderFilter, w io.Writer) error {
	return f.reports.Export(ctx, kind, filter, w)
}

func (f *StorefrontFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
