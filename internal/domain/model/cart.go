package model

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
)

// CartLine is a product reference held in an active shopping session.
type CartLine struct {
	ProductID     int64
	Quantity      int
	PriceSnapshot decimal.Decimal
}

// Cart is an ephemeral collection of lines owned by one shopping session.
type Cart struct {
	Lines []CartLine
}

// clampQuantity bounds q to [1, stock] when stock is tracked.
func clampQuantity(p *Product, q int) int {
	if q < 1 {
		q = 1
	}
	if limit, ok := p.MaxQuantity(); ok && q > limit {
		q = limit
	}
	return q
}

// Add puts product into the cart or increases the existing line.
func (c *Cart) Add(p *Product, quantity int) (*CartLine, error) {
	if !p.InStock() {
		return nil, domainErrors.ErrOutOfStock
	}
	if line := c.line(p.ID); line != nil {
		line.SetQuantity(p, line.Quantity+quantity)
		return line, nil
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID:     p.ID,
		Quantity:      clampQuantity(p, quantity),
		PriceSnapshot: p.EffectivePrice(),
	})
	return &c.Lines[len(c.Lines)-1], nil
}

// Remove drops the line for product.
func (c *Cart) Remove(productID int64) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear discards every line.
func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) line(productID int64) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// SetQuantity assigns quantity clamped to the product bounds.
func (l *CartLine) SetQuantity(p *Product, q int) {
	l.Quantity = clampQuantity(p, q)
}

// Increment adds one unit unless stock is exhausted.
func (l *CartLine) Increment(p *Product) {
	l.SetQuantity(p, l.Quantity+1)
}

// Decrement removes one unit but never goes below one.
func (l *CartLine) Decrement(p *Product) {
	l.SetQuantity(p, l.Quantity-1)
}
