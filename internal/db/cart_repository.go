package db

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/example/sunlight/internal/models"
)

// CartsFile is the file name of the cart store inside the data directory.
const CartsFile = "carts.json"

// fileCartRepository implements CartRepository over a single JSON object keyed by user id.
type fileCartRepository struct {
	file *jsonFile[map[string]*models.Cart]
}

// NewFileCartRepository opens (and if needed creates) carts.json in dataDir.
func NewFileCartRepository(dataDir string) (CartRepository, error) {
	f, err := newJSONFile(filepath.Join(dataDir, CartsFile), func() map[string]*models.Cart {
		return map[string]*models.Cart{}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cart store: %w", err)
	}
	return &fileCartRepository{file: f}, nil
}

// Get returns the cart stored for userID.
func (r *fileCartRepository) Get(ctx context.Context, userID string) (*models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cart *models.Cart
	err := r.file.view(func(carts map[string]*models.Cart) error {
		cart = carts[userID].Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for user '%s': %w", userID, err)
	}
	if cart == nil {
		return nil, fmt.Errorf("cart for user '%s': %w", userID, ErrNotFound)
	}
	return cart, nil
}

// Update applies mutate to the cart of userID under the store lock.
func (r *fileCartRepository) Update(ctx context.Context, userID string, mutate CartMutator) (*models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var stored *models.Cart
	err := r.file.update(func(carts map[string]*models.Cart) (map[string]*models.Cart, bool, error) {
		current := carts[userID]
		next, err := mutate(current.Clone())
		if err != nil {
			return nil, false, err
		}
		if next == nil {
			stored = current.Clone()
			return carts, false, nil
		}
		carts[userID] = next
		stored = next.Clone()
		return carts, true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update cart for user '%s': %w", userID, err)
	}
	return stored, nil
}
