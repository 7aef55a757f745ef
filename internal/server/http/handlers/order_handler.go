package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	orders OrderFacade
	cart   CartFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders OrderFacade, cart CartFacade) *OrderHandler {
	return &OrderHandler{orders: orders, cart: cart}
}

// Checkout handles POST /api/orders.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	order, err := h.cart.Checkout(c.Request.Context(), model.CheckoutRequest{
		CustomerID:    CurrentUserID(c),
		Items:         toCartItems(req.Items),
		Address:       req.Address,
		Instructions:  req.Instructions,
		DeliveryType:  deliveryType(req.DeliveryType),
		ScheduledAt:   req.ScheduledAt,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	status, limit, ok := listParams(c)
	if !ok {
		return
	}

	orders, err := h.orders.Orders(c.Request.Context(), CurrentPrincipal(c), status, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// SupplierList handles GET /api/supplier/orders.
func (h *OrderHandler) SupplierList(c *gin.Context) {
	status, limit, ok := listParams(c)
	if !ok {
		return
	}

	orders, err := h.orders.SupplierOrders(c.Request.Context(), CurrentPrincipal(c), status, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.orders.Order(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.CancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "malformed request body")
			return
		}
	}

	order, err := h.orders.CancelOrder(c.Request.Context(), CurrentPrincipal(c), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Review handles POST /api/orders/:id/review.
func (h *OrderHandler) Review(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	order, err := h.orders.ReviewOrder(c.Request.Context(), CurrentPrincipal(c), id, req.Rating, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateStatus handles POST /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	status, err := model.ParseOrderStatus(req.Status)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), CurrentPrincipal(c), id, status, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, toOrderResponse(&orders[i]))
	}
	return response
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItem{
			ProductID:  item.ProductID,
			SupplierID: item.SupplierID,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			LineTotal:  item.LineTotal,
		})
	}

	history := make([]dto.StatusEntry, 0, len(order.StatusHistory))
	for _, entry := range order.StatusHistory {
		history = append(history, dto.StatusEntry{
			Status:    entry.Status.String(),
			Timestamp: entry.Timestamp,
			Note:      entry.Note,
		})
	}

	var review *dto.Review
	if order.Review != nil {
		review = &dto.Review{
			Rating:    order.Review.Rating,
			Text:      order.Review.Text,
			CreatedAt: order.Review.CreatedAt,
		}
	}

	return dto.OrderResponse{
		ID:                   order.ID,
		Number:               order.Number,
		CustomerID:           order.CustomerID,
		Status:               order.Status.String(),
		Items:                items,
		Subtotal:             order.Subtotal,
		DeliveryFee:          order.DeliveryFee,
		Discount:             order.Discount,
		Total:                order.Total,
		DeliveryAddress:      order.DeliveryAddress,
		DeliveryInstructions: order.DeliveryInstructions,
		DeliveryType:         string(order.DeliveryType),
		PaymentMethod:        string(order.PaymentMethod),
		PaymentStatus:        string(order.PaymentStatus),
		StatusHistory:        history,
		EstimatedDelivery:    order.EstimatedDelivery,
		ActualDelivery:       order.ActualDelivery,
		Review:               review,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}
