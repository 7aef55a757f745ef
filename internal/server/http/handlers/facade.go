package handlers

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/pricing"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, in model.Registration) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (model.Principal, error)
}

// CatalogFacade exposes the product catalogue.
type CatalogFacade interface {
	Products(ctx context.Context, supplierID *int64) ([]model.Product, error)
	CreateProduct(ctx context.Context, principal model.Principal, in model.ProductDraft) (*model.Product, error)
}

// CartFacade prices and places carts.
type CartFacade interface {
	Quote(ctx context.Context, in model.QuoteRequest) (*pricing.Quote, error)
	Checkout(ctx context.Context, in model.CheckoutRequest) (*model.Order, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Order(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error)
	Orders(ctx context.Context, principal model.Principal, status *model.OrderStatus, limit int) ([]model.Order, error)
	SupplierOrders(ctx context.Context, principal model.Principal, status *model.OrderStatus, limit int) ([]model.Order, error)
	CancelOrder(ctx context.Context, principal model.Principal, id uuid.UUID, reason string) (*model.Order, error)
	ReviewOrder(ctx context.Context, principal model.Principal, id uuid.UUID, rating int, text string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, principal model.Principal, id uuid.UUID, status model.OrderStatus, note string) (*model.Order, error)
}

// ReportFacade streams admin CSV exports.
type ReportFacade interface {
	ExportReport(ctx context.Context, kind string, filter model.OrderFilter, w io.Writer) error
}

// HealthChecker reports readiness of backing services.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	CatalogFacade
	CartFacade
	OrderFacade
	ReportFacade
	HealthChecker
}
