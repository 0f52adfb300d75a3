package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/auth"
	"github.com/example/sunlight/internal/models"
)

// Context keys set by VerifyToken.
const (
	ContextUserIDKey    = "userID"
	ContextUserEmailKey = "userEmail"
)

// AuthMiddleware gates routes behind a bearer token.
type AuthMiddleware struct {
	verifier auth.Verifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(verifier auth.Verifier, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil {
		panic("AuthMiddleware requires a non-nil token verifier")
	}
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// VerifyToken rejects requests without a token (401) or with an invalid one (403).
// On success the user id and email are stored in the gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewErrorResponse("No token provided"))
			return
		}

		identity, err := m.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			m.logger.Debug("Token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewErrorResponse("Invalid token"))
			return
		}

		c.Set(ContextUserIDKey, identity.UserID)
		c.Set(ContextUserEmailKey, identity.Email)
		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>". Any other scheme or a
// bare scheme yields an empty string.
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// UserID returns the authenticated user id set by VerifyToken.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}

// UserEmail returns the authenticated email set by VerifyToken.
func UserEmail(c *gin.Context) string {
	return c.GetString(ContextUserEmailKey)
}
