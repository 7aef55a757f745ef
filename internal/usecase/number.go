package usecase

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const orderNumberDateLayout = "20060102"

// OrderNumberGenerator builds human readable order numbers PREFIX-YYYYMMDD-NNN.
// Numbers are not unique; the order ID is the storage key.
type OrderNumberGenerator struct {
	prefix string
	intn   func(n int) int
}

// NewOrderNumberGenerator constructs generator with provided prefix.
func NewOrderNumberGenerator(prefix string) *OrderNumberGenerator {
	if prefix == "" {
		prefix = "QC"
	}
	return &OrderNumberGenerator{prefix: prefix, intn: rand.IntN}
}

// Next returns a number for an order created at the given instant, dated in UTC.
func (g *OrderNumberGenerator) Next(at time.Time) string {
	return fmt.Sprintf("%s-%s-%03d", g.prefix, at.UTC().Format(orderNumberDateLayout), g.intn(1000))
}
