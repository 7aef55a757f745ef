package usecase

import (
	"context"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/domain/repository"
)

// CatalogUseCase manages supplier products.
type CatalogUseCase struct {
	products repository.ProductRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

// List returns products, optionally of a single supplier.
func (u *CatalogUseCase) List(ctx context.Context, supplierID *int64) ([]model.Product, error) {
	return u.products.List(ctx, supplierID)
}

// GetByIDs returns products with provided identifiers. Unknown ids are skipped.
func (u *CatalogUseCase) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return u.products.GetByIDs(ctx, ids)
}

// Create adds a product on behalf of a supplier or admin.
func (u *CatalogUseCase) Create(ctx context.Context, principal model.Principal, in model.ProductDraft) (*model.Product, error) {
	supplierID := principal.UserID
	switch principal.Role {
	case model.RoleSupplier:
	case model.RoleAdmin:
		if in.SupplierID <= 0 {
			return nil, fmt.Errorf("%w: supplier is required", domainErrors.ErrValidationFailed)
		}
		supplierID = in.SupplierID
	default:
		return nil, domainErrors.ErrPermissionDenied
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domainErrors.ErrValidationFailed)
	}
	if !in.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", domainErrors.ErrValidationFailed)
	}
	if in.DiscountedPrice != nil && (!in.DiscountedPrice.IsPositive() || !in.DiscountedPrice.LessThan(in.Price)) {
		return nil, fmt.Errorf("%w: discounted price must be between zero and price", domainErrors.ErrValidationFailed)
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", domainErrors.ErrValidationFailed)
	}

	return u.products.Create(ctx, &model.Product{
		SupplierID:      supplierID,
		Name:            name,
		Price:           in.Price,
		DiscountedPrice: in.DiscountedPrice,
		Stock:           in.Stock,
	})
}
