package models

import "time"

// Order statuses.
const (
	OrderStatusProcessing = "processing"
	OrderStatusPending    = "pending"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// CustomerInfo is the shipping and contact block of a checkout.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID ProductID `json:"productId"`
	Name      string    `json:"name,omitempty"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// Order is an immutable checkout record.
type Order struct {
	ID                string       `json:"id"`
	UserID            string       `json:"userId"`
	Customer          CustomerInfo `json:"customer"`
	Items             []OrderItem  `json:"items"`
	Subtotal          float64      `json:"subtotal"`
	Total             float64      `json:"total"`
	Status            string       `json:"status"`
	TrackingNumber    string       `json:"trackingNumber"`
	Date              time.Time    `json:"date"`
	EstimatedDelivery string       `json:"estimatedDelivery"`
}

// OrderPlacedEvent is published after an order has been stored.
type OrderPlacedEvent struct {
	OrderID  string    `json:"orderId"`
	UserID   string    `json:"userId"`
	Email    string    `json:"email"`
	Total    float64   `json:"total"`
	Items    int       `json:"items"`
	PlacedAt time.Time `json:"placedAt"`
}
