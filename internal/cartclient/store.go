// Package cartclient keeps a local cart that works offline and is
// reconciled with the server cart once the user is signed in.
package cartclient

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/models"
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the wall clock used for sync baselines.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithCallTimeout bounds each background server call. By default calls run
// until the server answers.
func WithCallTimeout(d time.Duration) StoreOption {
	return func(s *Store) { s.callTimeout = d }
}

// Store is the client cart. Mutations apply locally and immediately; when
// authenticated, the matching server call runs in the background and its
// failure is logged, never rolled back.
type Store struct {
	api     CartAPI
	storage Storage
	logger  *zap.Logger

	now         func() time.Time
	callTimeout time.Duration

	mu            sync.Mutex // guards state and authenticated
	state         State
	authenticated bool

	inflight sync.WaitGroup
}

// NewStore returns an empty store. Call Load to restore the local mirror.
func NewStore(api CartAPI, storage Storage, logger *zap.Logger, opts ...StoreOption) *Store {
	s := &Store{
		api:     api,
		storage: storage,
		logger:  logger,
		now:     time.Now,
		state:   State{Items: []models.CartItem{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores items and the sync baseline from storage. The two keys are
// independent: a device that synced without editing its cart still has a
// baseline. A corrupt cart mirror is logged and leaves the cart empty.
func (s *Store) Load() error {
	items := []models.CartItem{}
	raw, ok, err := s.storage.Get(CartKey)
	if err != nil {
		return err
	}
	if ok {
		var saved []models.CartItem
		if err := json.Unmarshal([]byte(raw), &saved); err != nil {
			s.logger.Error("Error loading cart from local storage", zap.Error(err))
		} else if saved != nil {
			items = saved
		}
	}

	var lastSync *time.Time
	rawSync, ok, err := s.storage.Get(LastSyncKey)
	if err != nil {
		return err
	}
	if ok {
		if t, err := time.Parse(time.RFC3339Nano, rawSync); err == nil {
			lastSync = &t
		} else {
			s.logger.Warn("Ignoring unreadable cart sync time", zap.String("value", rawSync))
		}
	}

	s.mu.Lock()
	s.state.Items = items
	s.state.LastSync = lastSync
	s.mu.Unlock()
	return nil
}

// AddToCart adds one unit of product.
func (s *Store) AddToCart(product models.CartProduct) {
	s.mu.Lock()
	newQuantity := 1
	if i := indexOf(s.state.Items, product.ID); i >= 0 {
		newQuantity = s.state.Items[i].Quantity + 1
	}
	s.setItemsLocked(addItem(s.state.Items, product))
	auth := s.authenticated
	s.mu.Unlock()

	if auth {
		s.background("add to cart", func(ctx context.Context) error {
			_, err := s.api.UpdateItem(ctx, product, newQuantity)
			return err
		})
	}
}

// RemoveFromCart deletes the line for id.
func (s *Store) RemoveFromCart(id models.ProductID) {
	s.mu.Lock()
	s.setItemsLocked(removeItem(s.state.Items, id))
	auth := s.authenticated
	s.mu.Unlock()

	if auth {
		s.background("remove from cart", func(ctx context.Context) error {
			_, err := s.api.RemoveItem(ctx, id)
			return err
		})
	}
}

// UpdateQuantity sets the quantity for id; zero or less removes the line.
// The server is only told about lines that existed locally.
func (s *Store) UpdateQuantity(id models.ProductID, quantity int) {
	s.mu.Lock()
	var product *models.CartProduct
	if i := indexOf(s.state.Items, id); i >= 0 {
		p := asProduct(s.state.Items[i])
		product = &p
	}
	s.setItemsLocked(updateQuantity(s.state.Items, id, quantity))
	auth := s.authenticated
	s.mu.Unlock()

	if auth && product != nil {
		s.background("quantity update", func(ctx context.Context) error {
			_, err := s.api.UpdateItem(ctx, *product, max(0, quantity))
			return err
		})
	}
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.mu.Lock()
	s.setItemsLocked([]models.CartItem{})
	auth := s.authenticated
	s.mu.Unlock()

	if auth {
		s.background("clear cart", func(ctx context.Context) error {
			_, err := s.api.ClearCart(ctx)
			return err
		})
	}
}

// SetAuthenticated records the sign-in state. Becoming authenticated starts
// a background sync with the server.
func (s *Store) SetAuthenticated(authenticated bool) {
	s.mu.Lock()
	loggedIn := authenticated && !s.authenticated
	s.authenticated = authenticated
	s.mu.Unlock()

	if loggedIn {
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			ctx, cancel := s.callContext()
			defer cancel()
			_ = s.SyncWithServer(ctx)
		}()
	}
}

// ErrNotAuthenticated is returned by SyncWithServer for a signed-out store.
var ErrNotAuthenticated = errors.New("cart sync requires a signed-in user")

// SyncWithServer reconciles the local cart with the server using
// last-writer-wins on the sync baseline. When the server cart is newer the
// local items are replaced by it; otherwise the server adopts the local items.
func (s *Store) SyncWithServer(ctx context.Context) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.state.IsSyncing = true
	items := cloneItems(s.state.Items)
	clientTimestamp := s.now()
	if s.state.LastSync != nil {
		clientTimestamp = *s.state.LastSync
	}
	s.mu.Unlock()

	result, err := s.api.SyncCart(ctx, items, clientTimestamp)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsSyncing = false
	if err != nil {
		s.logger.Error("Error syncing cart with server", zap.Error(err))
		return err
	}

	syncTime := s.now()
	if result.Cart != nil {
		if !result.Merged {
			s.setItemsLocked(cloneItems(result.Cart.Items))
		}
		if !result.Cart.UpdatedAt.IsZero() {
			syncTime = result.Cart.UpdatedAt
		}
	}
	s.state.LastSync = &syncTime
	if err := s.storage.Set(LastSyncKey, syncTime.UTC().Format(time.RFC3339Nano)); err != nil {
		s.logger.Warn("Failed to mirror cart sync time", zap.Error(err))
	}
	s.logger.Debug("Cart synced", zap.Bool("merged", result.Merged), zap.Time("lastSync", syncTime))
	return nil
}

// Wait blocks until every background server call has finished.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.state.Items)
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := State{Items: cloneItems(s.state.Items), IsSyncing: s.state.IsSyncing}
	if s.state.LastSync != nil {
		t := *s.state.LastSync
		out.LastSync = &t
	}
	return out
}

func (s *Store) IsSyncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsSyncing
}

// LastSync returns the sync baseline, or nil if the cart was never synced.
func (s *Store) LastSync() *time.Time {
	return s.Snapshot().LastSync
}

// TotalItems sums the quantities of all lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.state.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price times quantity over all lines.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.state.Items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ItemQuantity returns the quantity for id, or 0.
func (s *Store) ItemQuantity(id models.ProductID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.state.Items, id); i >= 0 {
		return s.state.Items[i].Quantity
	}
	return 0
}

// setItemsLocked replaces the items and mirrors them. Callers hold s.mu.
func (s *Store) setItemsLocked(items []models.CartItem) {
	if items == nil {
		items = []models.CartItem{}
	}
	s.state.Items = items
	raw, err := json.Marshal(items)
	if err == nil {
		err = s.storage.Set(CartKey, string(raw))
	}
	if err != nil {
		s.logger.Warn("Failed to mirror cart to local storage", zap.Error(err))
	}
}

func (s *Store) background(op string, call func(ctx context.Context) error) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := s.callContext()
		defer cancel()
		if err := call(ctx); err != nil {
			s.logger.Error("Error syncing cart change", zap.String("op", op), zap.Error(err))
		}
	}()
}

func (s *Store) callContext() (context.Context, context.CancelFunc) {
	if s.callTimeout > 0 {
		return context.WithTimeout(context.Background(), s.callTimeout)
	}
	return context.WithCancel(context.Background())
}
