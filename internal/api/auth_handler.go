package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/core"
	"github.com/example/sunlight/internal/models"
)

// AuthHandler serves /auth.
type AuthHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us core.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{userService: us, logger: logger}
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "All fields are required")
		return
	}

	user, token, err := h.userService.SignUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Server error",
			errorMapping{core.ErrConflict, http.StatusBadRequest, "User already exists"})
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{
		Success: true,
		Message: "User created successfully",
		Token:   token,
		User:    user.Public(),
	})
}

// SignIn handles POST /auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	user, token, err := h.userService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "Server error",
			errorMapping{core.ErrInvalidInput, http.StatusBadRequest, "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Sign in successful",
		Token:   token,
		User:    user.Public(),
	})
}

// SendVerification handles POST /auth/send-verification
func (h *AuthHandler) SendVerification(c *gin.Context) {
	var req models.SendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Email is required")
		return
	}

	token, err := h.userService.SendVerification(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.logger, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, VerificationResponse{
		Success:           true,
		Message:           "Verification email sent successfully",
		VerificationToken: token,
	})
}

// VerifyEmail handles POST /auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req models.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Email and token are required")
		return
	}

	if err := h.userService.VerifyEmail(c.Request.Context(), req.Email, req.Token); err != nil {
		respondError(c, h.logger, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Email verified successfully"})
}
