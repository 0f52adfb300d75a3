package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/models"
)

// ContactHandler accepts contact-form submissions. Messages are logged only.
type ContactHandler struct {
	logger *zap.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(logger *zap.Logger) *ContactHandler {
	return &ContactHandler{logger: logger}
}

// Submit handles POST /contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		abortWithError(c, http.StatusBadRequest, "Name, email, and message are required")
		return
	}

	h.logger.Info("Contact form submission",
		zap.String("name", req.Name),
		zap.String("email", req.Email),
		zap.String("subject", req.Subject),
		zap.Int("message_length", len(req.Message)),
	)
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Contact form submitted successfully"})
}
