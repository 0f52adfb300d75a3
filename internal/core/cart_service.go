package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/sunlight/internal/db"
	"github.com/example/sunlight/internal/models"
)

// cartService implements the CartService interface on top of a CartRepository.
type cartService struct {
	repo   db.CartRepository
	logger *zap.Logger
	now    func() time.Time
}

// CartServiceOption configures a CartService.
type CartServiceOption func(*cartService)

// WithCartClock replaces the wall clock used to stamp updatedAt.
func WithCartClock(now func() time.Time) CartServiceOption {
	return func(s *cartService) { s.now = now }
}

// NewCartService creates a new CartService instance.
func NewCartService(repo db.CartRepository, logger *zap.Logger, opts ...CartServiceOption) CartService {
	s := &cartService{repo: repo, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *cartService) stamp() time.Time {
	return s.now().UTC()
}

func (s *cartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	if userID == "" {
		return nil, invalidInput("User id is required")
	}
	cart, err := s.repo.Get(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return models.NewEmptyCart(s.stamp()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart for user '%s': %w", userID, err)
	}
	return cart, nil
}

func (s *cartService) SyncCart(ctx context.Context, userID string, items []models.CartItem, clientTimestamp *time.Time) (*models.Cart, bool, error) {
	if userID == "" {
		return nil, false, invalidInput("User id is required")
	}
	incoming := normalizeItems(items)

	var merged bool
	cart, err := s.repo.Update(ctx, userID, func(current *models.Cart) (*models.Cart, error) {
		// the mutator may run more than once (transaction retries)
		merged = false
		if current != nil && clientTimestamp != nil && current.UpdatedAt.After(*clientTimestamp) {
			return nil, nil
		}
		merged = true
		next := &models.Cart{Items: make([]models.CartItem, len(incoming)), UpdatedAt: s.stamp()}
		copy(next.Items, incoming)
		return next, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to sync cart for user '%s': %w", userID, err)
	}

	s.logger.Debug("Cart synced",
		zap.String("userID", userID),
		zap.Bool("merged", merged),
		zap.Int("items", len(cart.Items)),
	)
	return cart, merged, nil
}

func (s *cartService) SetItem(ctx context.Context, userID string, productID models.ProductID, product *models.CartProduct, quantity int) (*models.Cart, error) {
	switch {
	case userID == "":
		return nil, invalidInput("User id is required")
	case productID.IsZero() || product == nil:
		return nil, invalidInput("Product id and product are required")
	case quantity < 0:
		return nil, invalidInput("Quantity must not be negative")
	}

	cart, err := s.repo.Update(ctx, userID, func(current *models.Cart) (*models.Cart, error) {
		if current == nil {
			current = models.NewEmptyCart(time.Time{})
		}
		idx := current.IndexOf(productID)
		switch {
		case quantity == 0:
			current.Remove(productID)
		case idx >= 0:
			current.Items[idx].Quantity = quantity
		default:
			current.Items = append(current.Items, models.CartItem{
				ID:       productID,
				Name:     product.Name,
				Price:    product.Price,
				Image:    product.Image,
				Quantity: quantity,
				Category: categoryOrDefault(product.Category),
			})
		}
		current.UpdatedAt = s.stamp()
		return current, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update item '%s' for user '%s': %w", productID, userID, err)
	}
	return cart, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID string, productID models.ProductID) (*models.Cart, bool, error) {
	if userID == "" {
		return nil, false, invalidInput("User id is required")
	}

	cart, err := s.repo.Update(ctx, userID, func(current *models.Cart) (*models.Cart, error) {
		if current == nil {
			return nil, nil
		}
		current.Remove(productID)
		current.UpdatedAt = s.stamp()
		return current, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to remove item '%s' for user '%s': %w", productID, userID, err)
	}
	if cart == nil {
		return models.NewEmptyCart(s.stamp()), false, nil
	}
	return cart, true, nil
}

func (s *cartService) ClearCart(ctx context.Context, userID string) (*models.Cart, error) {
	if userID == "" {
		return nil, invalidInput("User id is required")
	}

	cart, err := s.repo.Update(ctx, userID, func(*models.Cart) (*models.Cart, error) {
		return models.NewEmptyCart(s.stamp()), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clear cart for user '%s': %w", userID, err)
	}
	return cart, nil
}

// normalizeItems drops lines without an id or with a non-positive quantity,
// folds repeated ids into one line and fills in the default category.
func normalizeItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	index := make(map[models.ProductID]int, len(items))
	for _, it := range items {
		if it.ID.IsZero() || it.Quantity <= 0 {
			continue
		}
		if i, ok := index[it.ID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		it.Category = categoryOrDefault(it.Category)
		index[it.ID] = len(out)
		out = append(out, it)
	}
	return out
}

func categoryOrDefault(category string) string {
	if category == "" {
		return models.DefaultCategory
	}
	return category
}
