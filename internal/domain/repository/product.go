package repository

import (
	"context"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

// ProductRepository provides access to the supplier catalogue.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	List(ctx context.Context, supplierID *int64) ([]model.Product, error)
}
