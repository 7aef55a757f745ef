package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryType selects how the delivery estimate is derived.
type DeliveryType string

const (
	DeliveryStandard  DeliveryType = "standard"
	DeliveryExpress   DeliveryType = "express"
	DeliveryScheduled DeliveryType = "scheduled"
)

// Valid reports whether delivery type is supported.
func (d DeliveryType) Valid() bool {
	return d == DeliveryStandard || d == DeliveryExpress || d == DeliveryScheduled
}

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentCard           PaymentMethod = "card"
	PaymentUPI            PaymentMethod = "upi"
	PaymentWallet         PaymentMethod = "wallet"
)

// Valid reports whether payment method is supported.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCashOnDelivery, PaymentCard, PaymentUPI, PaymentWallet:
		return true
	}
	return false
}

// PaymentStatus tracks settlement of the order amount.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Address is a delivery destination. Zone drives delivery fee tiers.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code,omitempty"`
	Zone       string `json:"zone,omitempty"`
}

// OrderItem is a snapshot of a purchased product line.
type OrderItem struct {
	ProductID  int64
	SupplierID int64
	Name       string
	UnitPrice  decimal.Decimal
	Quantity   int
	LineTotal  decimal.Decimal
}

// StatusEntry is a single audit record of a status change.
type StatusEntry struct {
	Status    OrderStatus
	Timestamp time.Time
	Note      string
}

// Review is customer feedback left on an order.
type Review struct {
	Rating    int
	Text      string
	CreatedAt time.Time
}

// Order describes a storefront order with its fulfilment history.
type Order struct {
	ID                   uuid.UUID
	Number               string
	CustomerID           int64
	Items                []OrderItem
	Subtotal             decimal.Decimal
	DeliveryFee          decimal.Decimal
	Discount             decimal.Decimal
	Total                decimal.Decimal
	DeliveryAddress      Address
	DeliveryInstructions string
	DeliveryType         DeliveryType
	PaymentMethod        PaymentMethod
	PaymentStatus        PaymentStatus
	Status               OrderStatus
	StatusHistory        []StatusEntry
	EstimatedDelivery    time.Time
	ActualDelivery       *time.Time
	Review               *Review
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ExpectedTotal computes subtotal + delivery fee - discount.
func (o *Order) ExpectedTotal() decimal.Decimal {
	return o.Subtotal.Add(o.DeliveryFee).Sub(o.Discount)
}

// AppendStatus records a status change and keeps derived fields consistent.
func (o *Order) AppendStatus(status OrderStatus, at time.Time, note string) {
	o.StatusHistory = append(o.StatusHistory, StatusEntry{Status: status, Timestamp: at, Note: note})
	o.Status = status
	o.UpdatedAt = at
	if status == OrderStatusDelivered {
		delivered := at
		o.ActualDelivery = &delivered
	}
}

// HasSupplier reports whether any line belongs to supplier.
func (o *Order) HasSupplier(supplierID int64) bool {
	for _, item := range o.Items {
		if item.SupplierID == supplierID {
			return true
		}
	}
	return false
}

// ItemCount sums quantities across lines.
func (o *Order) ItemCount() int {
	var n int
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	CustomerID *int64
	SupplierID *int64
	Status     *OrderStatus
	From       *time.Time
	To         *time.Time
	Limit      int
}
