package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/db"
	"github.com/example/sunlight/internal/models"
)

// EstimatedDelivery is quoted for every order.
const EstimatedDelivery = "5-7 business days"

// orderService implements the OrderService interface.
type orderService struct {
	orderRepo db.OrderRepository
	publisher EventPublisher
	queue     string
	logger    *zap.Logger
	now       func() time.Time
}

// OrderServiceOption configures an OrderService.
type OrderServiceOption func(*orderService)

// WithOrderEvents publishes an OrderPlacedEvent to queue after each stored order.
func WithOrderEvents(publisher EventPublisher, queue string) OrderServiceOption {
	return func(s *orderService) {
		s.publisher = publisher
		s.queue = queue
	}
}

// WithOrderClock replaces the wall clock used for order ids and dates.
func WithOrderClock(now func() time.Time) OrderServiceOption {
	return func(s *orderService) { s.now = now }
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(orderRepo db.OrderRepository, logger *zap.Logger, opts ...OrderServiceOption) OrderService {
	s := &orderService{orderRepo: orderRepo, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates a checkout and stores it as a new order.
func (s *orderService) PlaceOrder(ctx context.Context, userID, email string, req models.CheckoutRequest) (*models.Order, error) {
	if req.CustomerInfo == nil || len(req.Items) == 0 {
		return nil, invalidInput("Customer information and items are required")
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID.IsZero() || it.Quantity <= 0 || it.Price < 0 {
			return nil, invalidInput("Each item needs a product id, a positive quantity and a price")
		}
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(line)
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	// The client total includes shipping and tax; fall back to the item subtotal.
	total := decimal.NewFromFloat(req.Total)
	if !total.IsPositive() {
		total = subtotal
	}

	now := s.now().UTC()
	id, err := newOrderID(now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order id: %w", err)
	}
	order := &models.Order{
		ID:                id,
		UserID:            userID,
		Customer:          *req.CustomerInfo,
		Items:             items,
		Subtotal:          subtotal.Round(2).InexactFloat64(),
		Total:             total.Round(2).InexactFloat64(),
		Status:            models.OrderStatusProcessing,
		TrackingNumber:    "TRK" + id[len(id)-8:],
		Date:              now,
		EstimatedDelivery: EstimatedDelivery,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store order for user '%s': %w", userID, err)
	}

	s.logger.Info("Order placed",
		zap.String("orderID", order.ID),
		zap.String("userID", userID),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total),
	)
	s.publishPlaced(order, email)
	return order, nil
}

// publishPlaced announces a stored order. Failures are logged; the order stands.
func (s *orderService) publishPlaced(order *models.Order, email string) {
	if s.publisher == nil {
		return
	}
	if email == "" {
		email = order.Customer.Email
	}

	quantity := 0
	for _, it := range order.Items {
		quantity += it.Quantity
	}
	body, err := json.Marshal(models.OrderPlacedEvent{
		OrderID:  order.ID,
		UserID:   order.UserID,
		Email:    email,
		Total:    order.Total,
		Items:    quantity,
		PlacedAt: order.Date,
	})
	if err != nil {
		s.logger.Error("Failed to encode order event", zap.String("orderID", order.ID), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(s.queue, body); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("orderID", order.ID),
			zap.String("queue", s.queue),
			zap.Error(err),
		)
	}
}

func (s *orderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user '%s': %w", userID, err)
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("order '%s': %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order '%s': %w", orderID, err)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order '%s': %w", orderID, ErrNotFound)
	}
	return order, nil
}

// newOrderID returns ORD-<unix millis>-<9 base36 characters>.
func newOrderID(now time.Time) (string, error) {
	suffix, err := randomString(lowerAlnum, 9)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix), nil
}
