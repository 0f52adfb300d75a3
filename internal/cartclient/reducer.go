package cartclient

import (
	"time"

	"github.com/example/sunlight/internal/models"
)

// State is the client view of the cart.
type State struct {
	Items     []models.CartItem `json:"items"`
	IsSyncing bool              `json:"isSyncing"`
	LastSync  *time.Time        `json:"lastSync"`
}

// The reducers below never modify their input slice.

func addItem(items []models.CartItem, product models.CartProduct) []models.CartItem {
	out := cloneItems(items)
	if i := indexOf(out, product.ID); i >= 0 {
		out[i].Quantity++
		return out
	}
	return append(out, models.CartItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Image:    product.Image,
		Quantity: 1,
		Category: product.Category,
	})
}

func removeItem(items []models.CartItem, id models.ProductID) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// updateQuantity clamps negative quantities to zero and drops empty lines.
func updateQuantity(items []models.CartItem, id models.ProductID, quantity int) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID == id {
			item.Quantity = max(0, quantity)
		}
		if item.Quantity > 0 {
			out = append(out, item)
		}
	}
	return out
}

func indexOf(items []models.CartItem, id models.ProductID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}

func asProduct(item models.CartItem) models.CartProduct {
	return models.CartProduct{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Image:    item.Image,
		Category: item.Category,
	}
}
