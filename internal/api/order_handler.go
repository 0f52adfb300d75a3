package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/core"
	"github.com/example/sunlight/internal/middleware"
	"github.com/example/sunlight/internal/models"
)

// OrderHandler serves checkout and order history.
type OrderHandler struct {
	orderService core.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders core.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orderService: orders, logger: logger}
}

// Checkout handles POST /checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Customer information and items are required")
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), middleware.UserID(c), middleware.UserEmail(c), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to place order")
		return
	}
	c.JSON(http.StatusOK, CheckoutResponse{
		Success:           true,
		Message:           "Order placed successfully",
		OrderID:           order.ID,
		EstimatedDelivery: order.EstimatedDelivery,
	})
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, OrderListResponse{Success: true, Orders: orders})
}

// GetOrder handles GET /orders/:orderId
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), middleware.UserID(c), c.Param("orderId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch order",
			errorMapping{core.ErrNotFound, http.StatusNotFound, "Order not found"})
		return
	}
	c.JSON(http.StatusOK, OrderResponse{Success: true, Data: order})
}
