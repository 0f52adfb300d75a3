package api

import "github.com/example/sunlight/internal/models"

// MessageResponse is a success body without a payload.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CartResponse is returned by the cart endpoints.
type CartResponse struct {
	Success bool         `json:"success"`
	Cart    *models.Cart `json:"cart"`
	Message string       `json:"message,omitempty"`
}

// SyncCartResponse is returned by POST /cart.
type SyncCartResponse struct {
	Success bool         `json:"success"`
	Cart    *models.Cart `json:"cart"`
	Merged  bool         `json:"merged"`
	Message string       `json:"message"`
}

// AuthResponse is returned by sign-up and sign-in.
type AuthResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

// VerificationResponse carries the verification token while email delivery is out of band.
type VerificationResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	VerificationToken string `json:"verificationToken"`
}

// ProductListResponse is returned by the product listings.
type ProductListResponse struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Data    []models.Product `json:"data"`
}

// ProductResponse is returned by GET /products/:id.
type ProductResponse struct {
	Success bool            `json:"success"`
	Data    *models.Product `json:"data"`
}

// CheckoutResponse is returned by POST /checkout.
type CheckoutResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	OrderID           string `json:"orderId"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// OrderListResponse is returned by GET /orders.
type OrderListResponse struct {
	Success bool           `json:"success"`
	Orders  []models.Order `json:"orders"`
}

// OrderResponse is returned by GET /orders/:orderId.
type OrderResponse struct {
	Success bool          `json:"success"`
	Data    *models.Order `json:"data"`
}

// NewsletterResponse is returned by POST /newsletter.
type NewsletterResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	Email             string `json:"email"`
	ConfirmationToken string `json:"confirmationToken,omitempty"`
}

// NewsletterStatsResponse is returned by GET /newsletter/stats.
type NewsletterStatsResponse struct {
	Success bool                    `json:"success"`
	Data    *models.NewsletterStats `json:"data"`
}
