package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

// OrderMutation changes an order loaded under lock. Returning an error aborts the update.
type OrderMutation func(order *model.Order) error

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	CountByCustomer(ctx context.Context, customerID int64) (int, error)
	// Mutate runs fn against the current record while holding a row lock and persists
	// the status, derived fields and newly appended history entries atomically.
	Mutate(ctx context.Context, id uuid.UUID, fn OrderMutation) (*model.Order, error)
}
