package models

import (
	"encoding/json"
	"time"
)

// DefaultCategory is applied to cart lines that arrive without a category.
const DefaultCategory = "lamp"

// CartItem is one line of a cart. Name, price, image and category are copied
// from the product when the line is created.
type CartItem struct {
	ID       ProductID `json:"id" firestore:"id"`
	Name     string    `json:"name" firestore:"name"`
	Price    float64   `json:"price" firestore:"price"`
	Image    string    `json:"image" firestore:"image"`
	Quantity int       `json:"quantity" firestore:"quantity"`
	Category string    `json:"category" firestore:"category"`
}

// Cart is the persisted cart of a single user.
type Cart struct {
	Items     []CartItem `json:"items" firestore:"items"`
	UpdatedAt time.Time  `json:"updatedAt" firestore:"updatedAt"`
}

// NewEmptyCart returns a cart with no items stamped at the given time.
func NewEmptyCart(now time.Time) *Cart {
	return &Cart{Items: []CartItem{}, UpdatedAt: now}
}

// IndexOf returns the position of the line for id, or -1.
func (c *Cart) IndexOf(id ProductID) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Remove deletes the line for id and reports whether it was present.
func (c *Cart) Remove(id ProductID) bool {
	idx := c.IndexOf(id)
	if idx < 0 {
		return false
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return true
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := &Cart{UpdatedAt: c.UpdatedAt, Items: make([]CartItem, len(c.Items))}
	copy(out.Items, c.Items)
	return out
}

// MarshalJSON always emits items as an array, never null.
func (c Cart) MarshalJSON() ([]byte, error) {
	type cartAlias Cart
	a := cartAlias(c)
	if a.Items == nil {
		a.Items = []CartItem{}
	}
	return json.Marshal(a)
}

// CartProduct carries the denormalized product fields sent with PUT /cart/item.
type CartProduct struct {
	ID       ProductID `json:"id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Image    string    `json:"image"`
	Category string    `json:"category"`
}
