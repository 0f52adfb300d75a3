package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/core"
	"github.com/example/sunlight/internal/models"
)

// errorMapping translates a service error into a status and client message.
type errorMapping struct {
	target  error
	status  int
	message string
}

// commonErrors apply to every handler after handler-specific mappings.
var commonErrors = []errorMapping{
	{core.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
	{core.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{core.ErrEmailAlreadyVerified, http.StatusBadRequest, "Email is already verified"},
	{core.ErrInvalidVerificationToken, http.StatusBadRequest, "Invalid verification token"},
	{core.ErrVerificationExpired, http.StatusBadRequest, "Verification token has expired"},
	{core.ErrNotFound, http.StatusNotFound, "Not found"},
	{core.ErrConflict, http.StatusConflict, "Conflict"},
}

// abortWithError writes the uniform error body.
func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.NewErrorResponse(message))
}

// respondError maps err to a response. Handler-specific mappings win over
// validation messages, which win over commonErrors. Anything else is logged
// and answered with a 500 carrying fallback.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string, specific ...errorMapping) {
	for _, m := range specific {
		if errors.Is(err, m.target) {
			abortWithError(c, m.status, m.message)
			return
		}
	}

	var inputErr *core.InputError
	if errors.As(err, &inputErr) {
		abortWithError(c, http.StatusBadRequest, inputErr.Message)
		return
	}

	for _, m := range commonErrors {
		if errors.Is(err, m.target) {
			abortWithError(c, m.status, m.message)
			return
		}
	}

	logger.Error(fallback,
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	_ = c.Error(err)
	abortWithError(c, http.StatusInternalServerError, fallback)
}
