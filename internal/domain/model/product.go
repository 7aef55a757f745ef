package model

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Product is a catalogue entry offered by a supplier.
type Product struct {
	ID              int64
	SupplierID      int64
	Name            string
	Price           decimal.Decimal
	DiscountedPrice *decimal.Decimal
	// Stock is nil when the supplier does not track inventory.
	Stock     *int
	CreatedAt time.Time
}

func (p *Product) hasDiscount() bool {
	return p.DiscountedPrice != nil && p.DiscountedPrice.IsPositive() && p.DiscountedPrice.LessThan(p.Price)
}

// EffectivePrice returns the price the customer pays per unit.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.hasDiscount() {
		return *p.DiscountedPrice
	}
	return p.Price
}

// DiscountPercent returns the rounded discount relative to list price.
func (p *Product) DiscountPercent() int {
	if !p.hasDiscount() || !p.Price.IsPositive() {
		return 0
	}
	return int(p.Price.Sub(*p.DiscountedPrice).Div(p.Price).Mul(hundred).Round(0).IntPart())
}

// InStock reports whether at least one unit can be sold.
func (p *Product) InStock() bool {
	return p.Stock == nil || *p.Stock > 0
}

// MaxQuantity returns the upper quantity bound and whether one applies.
func (p *Product) MaxQuantity() (int, bool) {
	if p.Stock == nil {
		return 0, false
	}
	return *p.Stock, true
}
