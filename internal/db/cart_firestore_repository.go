package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/example/sunlight/internal/models"
)

const cartsCollection = "carts"

// firestoreCartRepository implements CartRepository with one document per user
// in the carts collection.
type firestoreCartRepository struct {
	client *firestore.Client
}

// NewFirestoreCartRepository creates a Firestore-backed CartRepository.
func NewFirestoreCartRepository(client *firestore.Client) (CartRepository, error) {
	if client == nil {
		return nil, errors.New("firestore client is not initialized for CartRepository")
	}
	return &firestoreCartRepository{client: client}, nil
}

// Get retrieves the cart document of userID.
func (r *firestoreCartRepository) Get(ctx context.Context, userID string) (*models.Cart, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for Get operation")
	}
	snap, err := r.client.Collection(cartsCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("cart for user '%s': %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for user '%s': %w", userID, err)
	}

	var cart models.Cart
	if err := snap.DataTo(&cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart for user '%s': %w", userID, err)
	}
	return &cart, nil
}

// Update reads and writes the cart document inside a transaction. Firestore may
// retry the transaction, so mutate can run more than once.
func (r *firestoreCartRepository) Update(ctx context.Context, userID string, mutate CartMutator) (*models.Cart, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for Update operation")
	}
	ref := r.client.Collection(cartsCollection).Doc(userID)

	var stored *models.Cart
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var current *models.Cart
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			var c models.Cart
			if err := snap.DataTo(&c); err != nil {
				return fmt.Errorf("failed to decode cart: %w", err)
			}
			current = &c
		}

		next, err := mutate(current.Clone())
		if err != nil {
			return err
		}
		if next == nil {
			stored = current
			return nil
		}
		stored = next.Clone()
		return tx.Set(ref, next)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update cart for user '%s': %w", userID, err)
	}
	return stored, nil
}
