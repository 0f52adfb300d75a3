package models

import "encoding/json"

// SignUpRequest is the body of POST /auth/signup.
type SignUpRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SendVerificationRequest is the body of POST /auth/send-verification.
type SendVerificationRequest struct {
	Email string `json:"email" binding:"required"`
}

// VerifyEmailRequest is the body of POST /auth/verify-email.
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required"`
	Token string `json:"token" binding:"required"`
}

// SyncCartRequest is the body of POST /cart.
// Items is a pointer so that a missing or null field can be told apart from an empty list.
// ClientTimestamp is kept raw: clients send an ISO string, epoch milliseconds, or nothing.
type SyncCartRequest struct {
	Items           *[]CartItem     `json:"items"`
	ClientTimestamp json.RawMessage `json:"clientTimestamp"`
}

// UpdateCartItemRequest is the body of PUT /cart/item.
type UpdateCartItemRequest struct {
	ProductID ProductID    `json:"productId"`
	Product   *CartProduct `json:"product"`
	Quantity  *int         `json:"quantity"`
}

// CheckoutItem is one line of a checkout request.
type CheckoutItem struct {
	ProductID ProductID `json:"productId"`
	Name      string    `json:"name,omitempty"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// CheckoutRequest is the body of POST /checkout.
type CheckoutRequest struct {
	CustomerInfo *CustomerInfo  `json:"customerInfo"`
	Items        []CheckoutItem `json:"items"`
	Total        float64        `json:"total"`
}

// NewsletterRequest is the body of POST /newsletter.
type NewsletterRequest struct {
	Email       string          `json:"email"`
	Preferences map[string]bool `json:"preferences,omitempty"`
}

// ContactRequest is the body of POST /contact.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}
