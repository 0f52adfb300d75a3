package db

import (
	"context"
	"errors"

	"github.com/example/sunlight/internal/models"
)

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when a create would violate a uniqueness rule.
	ErrAlreadyExists = errors.New("document already exists")
)

// CartMutator computes the next cart for a user from the stored one.
// current is nil when the user has no cart. Returning a nil cart leaves storage
// untouched; returning an error aborts the update.
type CartMutator func(current *models.Cart) (*models.Cart, error)

// CartRepository stores one cart per user id.
type CartRepository interface {
	// Get returns the stored cart or ErrNotFound.
	Get(ctx context.Context, userID string) (*models.Cart, error)
	// Update runs mutate atomically against the stored cart and returns the cart
	// that is stored afterwards (nil when the user still has no cart).
	Update(ctx context.Context, userID string, mutate CartMutator) (*models.Cart, error)
}

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create fails with ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, user *models.User) error
	// Update applies fn to the user with the given email under the store's lock.
	Update(ctx context.Context, email string, fn func(user *models.User) error) (*models.User, error)
}

// OrderRepository is append-only.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	ListByUserID(ctx context.Context, userID string) ([]models.Order, error)
}

// NewsletterRepository stores newsletter subscribers.
type NewsletterRepository interface {
	// Create fails with ErrAlreadyExists when an active subscriber has the same email.
	Create(ctx context.Context, subscriber *models.NewsletterSubscriber) error
	// UpdateByToken applies fn to the subscriber holding the confirmation token.
	UpdateByToken(ctx context.Context, token string, fn func(s *models.NewsletterSubscriber) error) (*models.NewsletterSubscriber, error)
	List(ctx context.Context) ([]models.NewsletterSubscriber, error)
}

// ProductRepository is a read-only catalog.
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id models.ProductID) (*models.Product, error)
}
