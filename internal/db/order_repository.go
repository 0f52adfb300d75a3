package db

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/example/sunlight/internal/models"
)

// OrdersFile is the file name of the order store inside the data directory.
const OrdersFile = "orders.json"

type fileOrderRepository struct {
	file *jsonFile[[]models.Order]
}

// NewFileOrderRepository opens (and if needed creates) orders.json in dataDir.
func NewFileOrderRepository(dataDir string) (OrderRepository, error) {
	f, err := newJSONFile(filepath.Join(dataDir, OrdersFile), func() []models.Order { return []models.Order{} })
	if err != nil {
		return nil, fmt.Errorf("failed to open order store: %w", err)
	}
	return &fileOrderRepository{file: f}, nil
}

func (r *fileOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.file.update(func(orders []models.Order) ([]models.Order, bool, error) {
		for _, o := range orders {
			if o.ID == order.ID {
				return nil, false, fmt.Errorf("order '%s': %w", order.ID, ErrAlreadyExists)
			}
		}
		return append(orders, *order), true, nil
	})
}

func (r *fileOrderRepository) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var found *models.Order
	err := r.file.view(func(orders []models.Order) error {
		for i := range orders {
			if orders[i].ID == orderID {
				o := orders[i]
				found = &o
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get order '%s': %w", orderID, err)
	}
	if found == nil {
		return nil, fmt.Errorf("order '%s': %w", orderID, ErrNotFound)
	}
	return found, nil
}

// ListByUserID returns the user's orders in insertion order.
func (r *fileOrderRepository) ListByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := []models.Order{}
	err := r.file.view(func(orders []models.Order) error {
		for _, o := range orders {
			if o.UserID == userID {
				out = append(out, o)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user '%s': %w", userID, err)
	}
	return out, nil
}
