package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/core"
	"github.com/example/sunlight/internal/models"
)

// NewsletterHandler serves /newsletter.
type NewsletterHandler struct {
	newsletter core.NewsletterService
	logger     *zap.Logger
}

// NewNewsletterHandler creates a new NewsletterHandler.
func NewNewsletterHandler(ns core.NewsletterService, logger *zap.Logger) *NewsletterHandler {
	return &NewsletterHandler{newsletter: ns, logger: logger}
}

// Subscribe handles POST /newsletter
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req models.NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Email is required")
		return
	}

	sub, err := h.newsletter.Subscribe(c.Request.Context(), req.Email, req.Preferences)
	if err != nil {
		respondError(c, h.logger, err, "Failed to subscribe",
			errorMapping{core.ErrConflict, http.StatusConflict, "Email is already subscribed"})
		return
	}

	resp := NewsletterResponse{Success: true, Message: "Successfully subscribed to newsletter", Email: sub.Email}
	if sub.ConfirmationToken != nil {
		resp.ConfirmationToken = *sub.ConfirmationToken
	}
	c.JSON(http.StatusOK, resp)
}

// Confirm handles GET /newsletter/confirm/:token
func (h *NewsletterHandler) Confirm(c *gin.Context) {
	_, err := h.newsletter.Confirm(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to confirm subscription",
			errorMapping{core.ErrNotFound, http.StatusNotFound, "Invalid confirmation token"},
			errorMapping{core.ErrAlreadyConfirmed, http.StatusBadRequest, "Subscription is already confirmed"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Subscription confirmed"})
}

// Stats handles GET /newsletter/stats
func (h *NewsletterHandler) Stats(c *gin.Context) {
	stats, err := h.newsletter.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch newsletter stats")
		return
	}
	c.JSON(http.StatusOK, NewsletterStatsResponse{Success: true, Data: stats})
}
