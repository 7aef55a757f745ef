package model

import (
	"time"

	"github.com/google/uuid"
)

// StatusEvent is an outbox record announcing an order status change.
type StatusEvent struct {
	ID          int64
	EventID     uuid.UUID
	OrderID     uuid.UUID
	OrderNumber string
	CustomerID  int64
	Status      OrderStatus
	Note        string
	OccurredAt  time.Time
}
