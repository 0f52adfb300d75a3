package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/db"
	"github.com/example/sunlight/internal/models"
)

// memoryCache is an in-process Cache for tests.
type memoryCache struct {
	mu      sync.Mutex
	values  map[string]string
	gets    int
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failGet {
		return "", errors.New("connection refused")
	}
	v, ok := m.values[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memoryCache) Close() error { return nil }

// countingRepo counts reads against the wrapped repository.
type countingRepo struct {
	db.CartRepository
	reads int
}

func (r *countingRepo) Get(ctx context.Context, userID string) (*models.Cart, error) {
	r.reads++
	return r.CartRepository.Get(ctx, userID)
}

func newCachedRepo(c *qt.C) (*CartRepositoryCache, *countingRepo, *memoryCache) {
	inner, err := db.NewFileCartRepository(c.TempDir())
	c.Assert(err, qt.IsNil)
	counting := &countingRepo{CartRepository: inner}
	mc := newMemoryCache()
	return NewCartRepositoryCache(counting, mc, time.Minute, zap.NewNop()), counting, mc
}

func putCart(qty int) db.CartMutator {
	return func(*models.Cart) (*models.Cart, error) {
		return &models.Cart{Items: []models.CartItem{{ID: "1", Quantity: qty}}, UpdatedAt: time.Now().UTC()}, nil
	}
}

func TestCartCacheWriteDropsEntry(t *testing.T) {
	c := qt.New(t)
	repo, counting, mc := newCachedRepo(c)
	ctx := context.Background()

	_, err := repo.Update(ctx, "u1", putCart(1))
	c.Assert(err, qt.IsNil)
	_, err = repo.Get(ctx, "u1")
	c.Assert(err, qt.IsNil)
	c.Assert(mc.values, qt.HasLen, 1)

	_, err = repo.Update(ctx, "u1", putCart(2))
	c.Assert(err, qt.IsNil)
	c.Assert(mc.values, qt.HasLen, 0)

	for i := 0; i < 2; i++ {
		cart, err := repo.Get(ctx, "u1")
		c.Assert(err, qt.IsNil)
		c.Assert(cart.Items[0].Quantity, qt.Equals, 2)
	}
	c.Assert(counting.reads, qt.Equals, 2)
}

func TestCartCacheFillsOnMiss(t *testing.T) {
	c := qt.New(t)
	repo, counting, mc := newCachedRepo(c)
	ctx := context.Background()

	_, err := counting.CartRepository.Update(ctx, "u1", putCart(3))
	c.Assert(err, qt.IsNil)

	for i := 0; i < 2; i++ {
		cart, err := repo.Get(ctx, "u1")
		c.Assert(err, qt.IsNil)
		c.Assert(cart.Items[0].Quantity, qt.Equals, 3)
	}
	c.Assert(counting.reads, qt.Equals, 1)
	c.Assert(mc.values, qt.HasLen, 1)
}

func TestCartCacheDoesNotCacheMissingCarts(t *testing.T) {
	c := qt.New(t)
	repo, _, mc := newCachedRepo(c)

	_, err := repo.Get(context.Background(), "ghost")
	c.Assert(errors.Is(err, db.ErrNotFound), qt.IsTrue)
	c.Assert(mc.values, qt.HasLen, 0)
}

func TestCartCacheFallsThroughOnCacheError(t *testing.T) {
	c := qt.New(t)
	repo, counting, mc := newCachedRepo(c)
	ctx := context.Background()

	_, err := repo.Update(ctx, "u1", putCart(1))
	c.Assert(err, qt.IsNil)
	mc.failGet = true

	cart, err := repo.Get(ctx, "u1")
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Items, qt.HasLen, 1)
	c.Assert(counting.reads, qt.Equals, 1)
}

func TestCartCacheInvalidatesOnFailedWrite(t *testing.T) {
	c := qt.New(t)
	repo, _, mc := newCachedRepo(c)
	ctx := context.Background()

	_, err := repo.Update(ctx, "u1", putCart(1))
	c.Assert(err, qt.IsNil)
	_, err = repo.Get(ctx, "u1")
	c.Assert(err, qt.IsNil)
	c.Assert(mc.values, qt.HasLen, 1)

	_, err = repo.Update(ctx, "u1", func(*models.Cart) (*models.Cart, error) { return nil, errors.New("rejected") })
	c.Assert(err, qt.IsNotNil)
	c.Assert(mc.values, qt.HasLen, 0)
}

// hookRepo runs a hook after the wrapped call has returned.
type hookRepo struct {
	db.CartRepository
	afterGet    func()
	afterUpdate func()
}

func (r *hookRepo) Get(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := r.CartRepository.Get(ctx, userID)
	if r.afterGet != nil {
		r.afterGet()
	}
	return cart, err
}

func (r *hookRepo) Update(ctx context.Context, userID string, mutate db.CartMutator) (*models.Cart, error) {
	cart, err := r.CartRepository.Update(ctx, userID, mutate)
	if r.afterUpdate != nil {
		r.afterUpdate()
	}
	return cart, err
}

func newHookedRepo(c *qt.C) (*CartRepositoryCache, *hookRepo) {
	inner, err := db.NewFileCartRepository(c.TempDir())
	c.Assert(err, qt.IsNil)
	hooked := &hookRepo{CartRepository: inner}
	return NewCartRepositoryCache(hooked, newMemoryCache(), time.Minute, zap.NewNop()), hooked
}

func TestCartCacheOverlappingWritesKeepNewest(t *testing.T) {
	c := qt.New(t)
	repo, hooked := newHookedRepo(c)
	ctx := context.Background()

	var calls atomic.Int32
	committed := make(chan struct{})
	release := make(chan struct{})
	hooked.afterUpdate = func() {
		if calls.Add(1) == 1 {
			close(committed)
			<-release
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := repo.Update(ctx, "u1", putCart(1))
		done <- err
	}()
	<-committed

	_, err := repo.Update(ctx, "u1", putCart(2))
	c.Assert(err, qt.IsNil)
	cart, err := repo.Get(ctx, "u1")
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Items[0].Quantity, qt.Equals, 2)

	close(release)
	c.Assert(<-done, qt.IsNil)

	stored, err := hooked.CartRepository.Get(ctx, "u1")
	c.Assert(err, qt.IsNil)
	cached, err := repo.Get(ctx, "u1")
	c.Assert(err, qt.IsNil)
	c.Assert(cached.Items, qt.DeepEquals, stored.Items)
	c.Assert(cached.UpdatedAt.Equal(stored.UpdatedAt), qt.IsTrue)
}

func TestCartCacheFillRacingWriteIsDiscarded(t *testing.T) {
	c := qt.New(t)
	repo, hooked := newHookedRepo(c)
	ctx := context.Background()

	_, err := hooked.CartRepository.Update(ctx, "u1", putCart(1))
	c.Assert(err, qt.IsNil)

	var calls atomic.Int32
	read := make(chan struct{})
	release := make(chan struct{})
	hooked.afterGet = func() {
		if calls.Add(1) == 1 {
			close(read)
			<-release
		}
	}

	done := make(chan *models.Cart, 1)
	go func() {
		cart, _ := repo.Get(ctx, "u1")
		done <- cart
	}()
	<-read

	_, err = repo.Update(ctx, "u1", putCart(2))
	c.Assert(err, qt.IsNil)
	close(release)
	c.Assert((<-done).Items[0].Quantity, qt.Equals, 1)

	cart, err := repo.Get(ctx, "u1")
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Items[0].Quantity, qt.Equals, 2)
}
