package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/core"
	"github.com/example/sunlight/internal/middleware"
	"github.com/example/sunlight/internal/models"
)

// CartHandler serves /cart. Every route runs behind the auth gate.
type CartHandler struct {
	cartService core.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cs core.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{cartService: cs, logger: logger}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch cart")
		return
	}
	c.JSON(http.StatusOK, CartResponse{Success: true, Cart: cart})
}

// SyncCart handles POST /cart
func (h *CartHandler) SyncCart(c *gin.Context) {
	var req models.SyncCartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Items == nil {
		abortWithError(c, http.StatusBadRequest, "Invalid cart items format")
		return
	}

	cart, merged, err := h.cartService.SyncCart(c.Request.Context(), middleware.UserID(c), *req.Items, parseClientTimestamp(req.ClientTimestamp))
	if err != nil {
		respondError(c, h.logger, err, "Failed to sync cart")
		return
	}

	message := "Cart synced successfully"
	if !merged {
		message = "Server cart is more recent"
	}
	c.JSON(http.StatusOK, SyncCartResponse{Success: true, Cart: cart, Merged: merged, Message: message})
}

// UpdateItem handles PUT /cart/item
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		abortWithError(c, http.StatusBadRequest, "Invalid item data")
		return
	}

	cart, err := h.cartService.SetItem(c.Request.Context(), middleware.UserID(c), req.ProductID, req.Product, *req.Quantity)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update cart item",
			errorMapping{core.ErrInvalidInput, http.StatusBadRequest, "Invalid item data"})
		return
	}
	c.JSON(http.StatusOK, CartResponse{Success: true, Cart: cart, Message: "Cart updated successfully"})
}

// RemoveItem handles DELETE /cart/item/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID := models.ParseProductID(c.Param("productId"))

	cart, existed, err := h.cartService.RemoveItem(c.Request.Context(), middleware.UserID(c), productID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to remove cart item")
		return
	}

	message := "Item removed from cart"
	if !existed {
		message = "Cart is already empty"
	}
	c.JSON(http.StatusOK, CartResponse{Success: true, Cart: cart, Message: message})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	cart, err := h.cartService.ClearCart(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, CartResponse{Success: true, Cart: cart, Message: "Cart cleared successfully"})
}

// maxEpochMillis bounds epoch-millisecond timestamps to the range a
// JavaScript Date can represent.
const maxEpochMillis = 8.64e15

// parseClientTimestamp accepts an ISO 8601 string or epoch milliseconds.
// Anything missing or unparseable yields nil, which lets the client win.
func parseClientTimestamp(raw json.RawMessage) *time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil
		}
		return &t
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		if math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
			return nil
		}
		t := time.UnixMilli(int64(ms)).UTC()
		return &t
	}
	return nil
}
