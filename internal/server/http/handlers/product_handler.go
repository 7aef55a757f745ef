package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/server/http/dto"
)

// ProductHandler serves the catalogue.
type ProductHandler struct {
	facade CatalogFacade
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(facade CatalogFacade) *ProductHandler {
	return &ProductHandler{facade: facade}
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	var supplierID *int64
	if raw := c.Query("supplier_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid supplier_id")
			return
		}
		supplierID = &id
	}

	products, err := h.facade.Products(c.Request.Context(), supplierID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		response = append(response, toProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Create handles POST /api/supplier/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	product, err := h.facade.CreateProduct(c.Request.Context(), CurrentPrincipal(c), model.ProductDraft{
		SupplierID:      req.SupplierID,
		Name:            req.Name,
		Price:           req.Price,
		DiscountedPrice: req.DiscountedPrice,
		Stock:           req.Stock,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(product))
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:              p.ID,
		SupplierID:      p.SupplierID,
		Name:            p.Name,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		EffectivePrice:  p.EffectivePrice(),
		DiscountPercent: p.DiscountPercent(),
		Stock:           p.Stock,
		InStock:         p.InStock(),
		CreatedAt:       p.CreatedAt,
	}
}
