package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Registration carries self-service sign up data.
type Registration struct {
	Email    string
	Password string
	Name     string
	Role     Role
}

// CartItem is a product reference with requested quantity.
type CartItem struct {
	ProductID int64
	Quantity  int
}

// QuoteRequest describes a cart to price without placing it.
type QuoteRequest struct {
	CustomerID   int64
	Items        []CartItem
	Zone         string
	DeliveryType DeliveryType
}

// CheckoutRequest describes a cart submitted for placement.
type CheckoutRequest struct {
	CustomerID    int64
	Items         []CartItem
	Address       Address
	Instructions  string
	DeliveryType  DeliveryType
	ScheduledAt   *time.Time
	PaymentMethod PaymentMethod
}

// ProductDraft describes a new catalogue entry.
type ProductDraft struct {
	// SupplierID is only honoured for admins; suppliers always create their own products.
	SupplierID      int64
	Name            string
	Price           decimal.Decimal
	DiscountedPrice *decimal.Decimal
	Stock           *int
}
