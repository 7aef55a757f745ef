package dto

import "github.com/shopspring/decimal"

// CartItem references a product with requested quantity.
type CartItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// QuoteRequest asks for a price of a cart.
type QuoteRequest struct {
	Items        []CartItem `json:"items"`
	Zone         string     `json:"zone,omitempty"`
	DeliveryType string     `json:"delivery_type,omitempty"`
}

// QuoteLine is a priced cart line.
type QuoteLine struct {
	ProductID       int64           `json:"product_id"`
	SupplierID      int64           `json:"supplier_id"`
	Name            string          `json:"name"`
	ListPrice       decimal.Decimal `json:"list_price"`
	EffectivePrice  decimal.Decimal `json:"effective_price"`
	DiscountPercent int             `json:"discount_percent"`
	Quantity        int             `json:"quantity"`
	LineTotal       decimal.Decimal `json:"line_total"`
	Savings         decimal.Decimal `json:"savings"`
}

// QuoteResponse summarises what the customer would pay.
type QuoteResponse struct {
	Lines       []QuoteLine     `json:"lines"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}
