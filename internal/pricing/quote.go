package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

// Line is a product with requested quantity.
type Line struct {
	Product  model.Product
	Quantity int
}

// PricedLine carries derived pricing for one cart line.
type PricedLine struct {
	ProductID       int64
	SupplierID      int64
	Name            string
	ListPrice       decimal.Decimal
	EffectivePrice  decimal.Decimal
	DiscountPercent int
	Quantity        int
	LineTotal       decimal.Decimal
	Savings         decimal.Decimal
}

// Quote summarises what the customer would pay for a cart.
type Quote struct {
	Lines       []PricedLine
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// QuoteInput describes everything needed to price a cart.
type QuoteInput struct {
	Lines      []Line
	Zone       string
	FirstOrder bool
	Delivery   model.DeliveryType
}

// Calculator prices carts using a fee table.
type Calculator struct {
	table FeeTable
}

// NewCalculator constructs Calculator.
func NewCalculator(table FeeTable) *Calculator {
	return &Calculator{table: table}
}

// Table returns the active fee policy.
func (c *Calculator) Table() FeeTable {
	return c.table
}

// Quote computes subtotal at list price, discount as product savings and the delivery fee.
// Total always equals subtotal + delivery fee - discount.
func (c *Calculator) Quote(in QuoteInput) Quote {
	q := Quote{
		Lines:    make([]PricedLine, 0, len(in.Lines)),
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
	}

	for _, line := range in.Lines {
		p := line.Product
		qty := decimal.NewFromInt(int64(line.Quantity))
		effective := p.EffectivePrice()
		lineTotal := p.Price.Mul(qty)
		savings := p.Price.Sub(effective).Mul(qty)

		q.Lines = append(q.Lines, PricedLine{
			ProductID:       p.ID,
			SupplierID:      p.SupplierID,
			Name:            p.Name,
			ListPrice:       p.Price,
			EffectivePrice:  effective,
			DiscountPercent: p.DiscountPercent(),
			Quantity:        line.Quantity,
			LineTotal:       lineTotal,
			Savings:         savings,
		})
		q.Subtotal = q.Subtotal.Add(lineTotal)
		q.Discount = q.Discount.Add(savings)
	}

	q.DeliveryFee = c.table.DeliveryFee(q.Subtotal.Sub(q.Discount), in.Zone, in.FirstOrder, in.Delivery)
	q.Total = q.Subtotal.Add(q.DeliveryFee).Sub(q.Discount)
	return q
}
