package core

import (
	"context"
	"time"

	"github.com/example/sunlight/internal/models"
)

// CartService manages the server-side cart of each user.
type CartService interface {
	// GetCart returns the stored cart, or an empty cart stamped now without creating one.
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	// SyncCart applies the last-writer-wins merge. merged is false when the stored
	// cart is newer than clientTimestamp and was returned unchanged.
	SyncCart(ctx context.Context, userID string, items []models.CartItem, clientTimestamp *time.Time) (cart *models.Cart, merged bool, err error)
	// SetItem sets the quantity of one line; quantity 0 removes it.
	SetItem(ctx context.Context, userID string, productID models.ProductID, product *models.CartProduct, quantity int) (*models.Cart, error)
	// RemoveItem deletes one line. existed is false when the user has no cart.
	RemoveItem(ctx context.Context, userID string, productID models.ProductID) (cart *models.Cart, existed bool, err error)
	// ClearCart empties the cart.
	ClearCart(ctx context.Context, userID string) (*models.Cart, error)
}

// UserService handles registration, sign-in and email verification.
type UserService interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, string, error)
	SignIn(ctx context.Context, email, password string) (*models.User, string, error)
	// SendVerification issues a fresh verification token and returns it.
	SendVerification(ctx context.Context, email string) (string, error)
	VerifyEmail(ctx context.Context, email, token string) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// OrderService records checkouts.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID, email string, req models.CheckoutRequest) (*models.Order, error)
	ListOrders(ctx context.Context, userID string) ([]models.Order, error)
	// GetOrder returns ErrNotFound for orders of other users.
	GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error)
}

// NewsletterService manages newsletter subscriptions.
type NewsletterService interface {
	Subscribe(ctx context.Context, email string, preferences map[string]bool) (*models.NewsletterSubscriber, error)
	Confirm(ctx context.Context, token string) (*models.NewsletterSubscriber, error)
	Stats(ctx context.Context) (*models.NewsletterStats, error)
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Category     string
	FeaturedOnly bool
}

// CatalogService exposes the read-only product catalog.
type CatalogService interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id models.ProductID) (*models.Product, error)
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// EventPublisher delivers a message to a named queue.
type EventPublisher interface {
	Publish(queueName string, body []byte) error
}
