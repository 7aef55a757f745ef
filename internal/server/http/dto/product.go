package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest describes a new catalogue entry.
type ProductRequest struct {
	Name            string           `json:"name"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	Stock           *int             `json:"stock,omitempty"`
	SupplierID      int64            `json:"supplier_id,omitempty"`
}

// ProductResponse is a catalogue entry with derived pricing.
type ProductResponse struct {
	ID              int64            `json:"id"`
	SupplierID      int64            `json:"supplier_id"`
	Name            string           `json:"name"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	EffectivePrice  decimal.Decimal  `json:"effective_price"`
	DiscountPercent int              `json:"discount_percent"`
	Stock           *int             `json:"stock,omitempty"`
	InStock         bool             `json:"in_stock"`
	CreatedAt       time.Time        `json:"created_at"`
}
