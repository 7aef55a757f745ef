package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/domain/repository"
	"github.com/polkiloo/quickmart/internal/pricing"
)

// CheckoutUseCase turns carts into priced quotes and placed orders.
type CheckoutUseCase struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	pricer   *pricing.Calculator
	placer   *OrderUseCase
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(products repository.ProductRepository, orders repository.OrderRepository, pricer *pricing.Calculator, placer *OrderUseCase) *CheckoutUseCase {
	return &CheckoutUseCase{products: products, orders: orders, pricer: pricer, placer: placer}
}

// Quote prices the cart, clamping quantities to stock like the cart does.
func (u *CheckoutUseCase) Quote(ctx context.Context, in model.QuoteRequest) (*pricing.Quote, error) {
	catalog, err := u.loadProducts(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	var cart model.Cart
	for _, line := range in.Items {
		p := catalog[line.ProductID]
		if _, err := cart.Add(&p, line.Quantity); err != nil {
			return nil, fmt.Errorf("product %d: %w", p.ID, err)
		}
	}

	lines := make([]pricing.Line, 0, len(cart.Lines))
	for _, cl := range cart.Lines {
		lines = append(lines, pricing.Line{Product: catalog[cl.ProductID], Quantity: cl.Quantity})
	}

	firstOrder, err := u.isFirstOrder(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	quote := u.pricer.Quote(pricing.QuoteInput{
		Lines:      lines,
		Zone:       in.Zone,
		FirstOrder: firstOrder,
		Delivery:   in.DeliveryType,
	})
	return &quote, nil
}

// Checkout prices the cart strictly and places the order.
func (u *CheckoutUseCase) Checkout(ctx context.Context, in model.CheckoutRequest) (*model.Order, error) {
	merged, err := mergeLines(in.Items)
	if err != nil {
		return nil, err
	}

	catalog, err := u.loadProducts(ctx, merged)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(merged))
	for _, line := range merged {
		p := catalog[line.ProductID]
		if limit, ok := p.MaxQuantity(); ok && line.Quantity > limit {
			return nil, fmt.Errorf("product %d: %w", p.ID, domainErrors.ErrOutOfStock)
		}
		lines = append(lines, pricing.Line{Product: p, Quantity: line.Quantity})
	}

	firstOrder, err := u.isFirstOrder(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	quote := u.pricer.Quote(pricing.QuoteInput{
		Lines:      lines,
		Zone:       in.Address.Zone,
		FirstOrder: firstOrder,
		Delivery:   in.DeliveryType,
	})

	items := make([]model.OrderItem, 0, len(quote.Lines))
	for _, pl := range quote.Lines {
		items = append(items, model.OrderItem{
			ProductID:  pl.ProductID,
			SupplierID: pl.SupplierID,
			Name:       pl.Name,
			UnitPrice:  pl.ListPrice,
			Quantity:   pl.Quantity,
			LineTotal:  pl.LineTotal,
		})
	}

	return u.placer.Create(ctx, CreateOrderInput{
		CustomerID:    in.CustomerID,
		Items:         items,
		Subtotal:      quote.Subtotal,
		DeliveryFee:   quote.DeliveryFee,
		Discount:      quote.Discount,
		Total:         quote.Total,
		Address:       in.Address,
		Instructions:  in.Instructions,
		DeliveryType:  in.DeliveryType,
		ScheduledAt:   in.ScheduledAt,
		PaymentMethod: in.PaymentMethod,
	})
}

func (u *CheckoutUseCase) isFirstOrder(ctx context.Context, customerID int64) (bool, error) {
	if customerID <= 0 {
		return false, nil
	}
	count, err := u.orders.CountByCustomer(ctx, customerID)
	if err != nil {
		return false, fmt.Errorf("count orders: %w", err)
	}
	return count == 0, nil
}

func (u *CheckoutUseCase) loadProducts(ctx context.Context, lines []model.CartItem) (map[int64]model.Product, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domainErrors.ErrValidationFailed)
	}

	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}

	products, err := u.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	catalog := make(map[int64]model.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			return nil, fmt.Errorf("product %d: %w", id, domainErrors.ErrNotFound)
		}
	}
	return catalog, nil
}

func mergeLines(lines []model.CartItem) ([]model.CartItem, error) {
	merged := make([]model.CartItem, 0, len(lines))
	index := make(map[int64]int, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", domainErrors.ErrValidationFailed)
		}
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}
