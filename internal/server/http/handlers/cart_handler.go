package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/pricing"
	"github.com/polkiloo/quickmart/internal/server/http/dto"
)

// CartHandler prices carts before checkout.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Quote handles POST /api/cart/quote.
func (h *CartHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	quote, err := h.facade.Quote(c.Request.Context(), model.QuoteRequest{
		CustomerID:   CurrentUserID(c),
		Items:        toCartItems(req.Items),
		Zone:         req.Zone,
		DeliveryType: deliveryType(req.DeliveryType),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

func toCartItems(items []dto.CartItem) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	for _, item := range items {
		out = append(out, model.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}

func deliveryType(raw string) model.DeliveryType {
	if raw == "" {
		return model.DeliveryStandard
	}
	return model.DeliveryType(raw)
}

func toQuoteResponse(q *pricing.Quote) dto.QuoteResponse {
	lines := make([]dto.QuoteLine, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, dto.QuoteLine{
			ProductID:       l.ProductID,
			SupplierID:      l.SupplierID,
			Name:            l.Name,
			ListPrice:       l.ListPrice,
			EffectivePrice:  l.EffectivePrice,
			DiscountPercent: l.DiscountPercent,
			Quantity:        l.Quantity,
			LineTotal:       l.LineTotal,
			Savings:         l.Savings,
		})
	}
	return dto.QuoteResponse{
		Lines:       lines,
		Subtotal:    q.Subtotal,
		Discount:    q.Discount,
		DeliveryFee: q.DeliveryFee,
		Total:       q.Total,
	}
}
