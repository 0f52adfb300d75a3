package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/sunlight/internal/db"
	"github.com/example/sunlight/internal/models"
)

const cartKeyPrefix = "sunlight:cart:"

// CartRepositoryCache is a read-through cache in front of a db.CartRepository.
// The wrapped repository stays the source of truth: cache failures are logged
// and the call falls through to it. Writes drop the cached entry and only
// reads fill it, so an overlapping write can never leave an older cart cached.
type CartRepositoryCache struct {
	next   db.CartRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger

	mu     sync.Mutex // guards writes and orders cache fills against them
	writes map[string]uint64
}

// NewCartRepositoryCache wraps next with cache.
func NewCartRepositoryCache(next db.CartRepository, cache Cache, ttl time.Duration, logger *zap.Logger) *CartRepositoryCache {
	return &CartRepositoryCache{next: next, cache: cache, ttl: ttl, logger: logger, writes: map[string]uint64{}}
}

func (r *CartRepositoryCache) writeCount(userID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes[userID]
}

func (r *CartRepositoryCache) countWrite(userID string) {
	r.mu.Lock()
	r.writes[userID]++
	r.mu.Unlock()
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}

// Get serves from the cache when possible and fills it on a miss.
func (r *CartRepositoryCache) Get(ctx context.Context, userID string) (*models.Cart, error) {
	raw, err := r.cache.Get(ctx, cartKey(userID))
	switch {
	case err == nil:
		var cart models.Cart
		if jsonErr := json.Unmarshal([]byte(raw), &cart); jsonErr == nil {
			return &cart, nil
		}
		r.logger.Warn("Discarding undecodable cached cart", zap.String("userID", userID))
		r.invalidate(ctx, userID)
	case !errors.Is(err, ErrCacheMiss):
		r.logger.Warn("Cart cache read failed", zap.String("userID", userID), zap.Error(err))
	}

	before := r.writeCount(userID)
	cart, err := r.next.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Skip the fill when a write committed after the read began.
	r.mu.Lock()
	if r.writes[userID] == before {
		r.store(ctx, userID, cart)
	}
	r.mu.Unlock()
	return cart, nil
}

// Update writes through to the wrapped repository, then drops the cached entry.
func (r *CartRepositoryCache) Update(ctx context.Context, userID string, mutate db.CartMutator) (*models.Cart, error) {
	cart, err := r.next.Update(ctx, userID, mutate)
	r.countWrite(userID)
	r.invalidate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *CartRepositoryCache) store(ctx context.Context, userID string, cart *models.Cart) {
	data, err := json.Marshal(cart)
	if err != nil {
		r.logger.Warn("Failed to encode cart for cache", zap.String("userID", userID), zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, cartKey(userID), string(data), r.ttl); err != nil {
		r.logger.Warn("Cart cache write failed", zap.String("userID", userID), zap.Error(err))
	}
}

func (r *CartRepositoryCache) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Delete(ctx, cartKey(userID)); err != nil {
		r.logger.Warn("Cart cache invalidation failed", zap.String("userID", userID), zap.Error(err))
	}
}
