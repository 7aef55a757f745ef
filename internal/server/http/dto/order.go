package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

// CheckoutRequest submits a cart for placement.
type CheckoutRequest struct {
	Items         []CartItem    `json:"items"`
	Address       model.Address `json:"address"`
	Instructions  string        `json:"instructions,omitempty"`
	DeliveryType  string        `json:"delivery_type,omitempty"`
	ScheduledAt   *time.Time    `json:"scheduled_at,omitempty"`
	PaymentMethod string        `json:"payment_method"`
}

// CancelRequest carries an optional cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// ReviewRequest carries customer feedback.
type ReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// StatusRequest moves an order to a new status.
type StatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// OrderItem is a purchased line snapshot.
type OrderItem struct {
	ProductID  int64           `json:"product_id"`
	SupplierID int64           `json:"supplier_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// StatusEntry is one record of the order history.
type StatusEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// Review is feedback left on a delivered order.
type Review struct {
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderResponse describes order state returned to clients.
type OrderResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Number               string          `json:"number"`
	CustomerID           int64           `json:"customer_id"`
	Status               string          `json:"status"`
	Items                []OrderItem     `json:"items"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	DeliveryFee          decimal.Decimal `json:"delivery_fee"`
	Discount             decimal.Decimal `json:"discount"`
	Total                decimal.Decimal `json:"total"`
	DeliveryAddress      model.Address   `json:"delivery_address"`
	DeliveryInstructions string          `json:"delivery_instructions,omitempty"`
	DeliveryType         string          `json:"delivery_type"`
	PaymentMethod        string          `json:"payment_method"`
	PaymentStatus        string          `json:"payment_status"`
	StatusHistory        []StatusEntry   `json:"status_history"`
	EstimatedDelivery    time.Time       `json:"estimated_delivery"`
	ActualDelivery       *time.Time      `json:"actual_delivery,omitempty"`
	Review               *Review         `json:"review,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
