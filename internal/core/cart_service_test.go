package core

import (
	"context"
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/db"
	"github.com/example/sunlight/internal/models"
)

// testClock is a settable clock for services under test.
type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCartService(c *qt.C) (CartService, db.CartRepository, *testClock) {
	repo, err := db.NewFileCartRepository(c.TempDir())
	c.Assert(err, qt.IsNil)
	clock := &testClock{t: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)}
	return NewCartService(repo, zap.NewNop(), WithCartClock(clock.Now)), repo, clock
}

var deskLamp = &models.CartProduct{ID: "2", Name: "Ultra Wide Desk Lamp", Price: 129.99, Image: "/img/desk.png", Category: "Desk Lamp"}

func TestGetCartDoesNotCreateEntry(t *testing.T) {
	c := qt.New(t)
	svc, repo, clock := newTestCartService(c)
	ctx := context.Background()

	cart, err := svc.GetCart(ctx, "u1")
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Items, qt.HasLen, 0)
	c.Assert(cart.UpdatedAt.Equal(clock.Now()), qt.IsTrue)

	_, err = repo.Get(ctx, "u1")
	c.Assert(errors.Is(err, db.ErrNotFound), qt.IsTrue)
}

func TestSyncWithoutServerCartAcceptsClient(t *testing.T) {
	c := qt.New(t)
	svc, _, clock := newTestCartService(c)
	ctx := context.Background()
	t0 := clock.Now().Add(-time.Hour)

	cart, merged, err := svc.SyncCart(ctx, "u1", []models.CartItem{{ID: "1", Name: "Lamp", Price: 10, Quantity: 2}}, &t0)
	c.Assert(err, qt.IsNil)
	c.Assert(merged, qt.IsTrue)
	c.Assert(cart.Items, qt.HasLen, 1)
	c.Assert(cart.Items[0].Category, qt.Equals, models.DefaultCategory)
	c.Assert(cart.UpdatedAt.After(t0), qt.IsTrue)
}

func TestSyncNewerServerCartWins(t *testing.T) {
	c := qt.New(t)
	svc, _, clock := newTestCartService(c)
	ctx := context.Background()

	t1 := clock.Now()
	clock.Advance(time.Minute)
	_, err := svc.SetItem(ctx, "u1", "5", &models.CartProduct{Name: "Stickness Light", Price: 45.99}, 3)
	c.Assert(err, qt.IsNil)

	cart, merged, err := svc.SyncCart(ctx, "u1", []models.CartItem{{ID: "1", Quantity: 1}}, &t1)
	c.Assert(err, qt.IsNil)
	c.Assert(merged, qt.IsFalse)
	c.Assert(cart.Items, qt.HasLen, 1)
	c.Assert(cart.Items[0].ID, qt.Equals, models.ProductID("5"))
	c.Assert(cart.Items[0].Quantity, qt.Equals, 3)
}

func TestSyncOlderServerCartIsOverwritten(t *testing.T) {
	c := qt.New(t)
	svc, _, clock := newTestCartService(c)
	ctx := context.Background()

	_, err := svc.SetItem(ctx, "u1", "5", &models.CartProduct{Name: "Stickness Light"}, 3)
	c.Assert(err, qt.IsNil)
	clock.Advance(time.Minute)
	t2 := clock.Now()
	clock.Advance(time.Second)

	cart, merged, err := svc.SyncCart(ctx, "u1", []models.CartItem{{ID: "1", Quantity: 4}}, &t2)
	c.Assert(err, qt.IsNil)
	c.Assert(merged, qt.IsTrue)
	c.Assert(cart.Items, qt.DeepEquals, []models.CartItem{{ID: "1", Quantity: 4, Category: models.DefaultCategory}})
	c.Assert(cart.UpdatedAt.Equal(clock.Now()), qt.IsTrue)
}

func TestSyncWithoutTimestampClientWins(t *testing.T) {
	c := qt.New(t)
	svc, _, clock := newTestCartService(c)
	ctx := context.Background()

	clock.Advance(time.Hour)
	_, err := svc.SetItem(ctx, "u1", "5", deskLamp, 1)
	c.Assert(err, qt.IsNil)

	cart, merged, err := svc.SyncCart(ctx, "u1", nil, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(merged, qt.IsTrue)
	c.Assert(cart.Items, qt.HasLen, 0)
}

func TestSyncEqualTimestampsClientWins(t *testing.T) {
	c := qt.New(t)
	svc, _, clock := newTestCartService(c)
	ctx := context.Background()

	stored, err := svc.SetItem(ctx, "u1", "5", deskLamp, 1)
	c.Assert(err, qt.IsNil)
	ts := stored.UpdatedAt

	clock.Advance(time.Second)
	_, merged, err := svc.SyncCart(ctx, "u1", []models.CartItem{{ID: "9", Quantity: 1}}, &ts)
	c.Assert(err, qt.IsNil)
	c.Assert(merged, qt.IsTrue)
}

func TestSyncDropsEmptyLinesAndFoldsDuplicates(t *testing.T) {
	c := qt.New(t)
	svc, _, _ := newTestCartService(c)

	cart, _, err := svc.SyncCart(context.Background(), "u1", []models.CartItem{
		{ID: "1", Quantity: 1, Category: "Desk Lamp"},
		{ID: "2", Quantity: 0},
		{ID: "3", Quantity: -2},
		{ID: "", Quantity: 1},
		{ID: "1", Quantity: 2},
	}, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Items, qt.DeepEquals, []models.CartItem{{ID: "1", Quantity: 3, Category: "Desk Lamp"}})
}

func TestSetItemInsertUpdateRemove(t *testing.T) {
	c := qt.New(t)
	svc, _, clock := newTestCartService(c)
	ctx := context.Background()

	cart, err := svc.SetItem(ctx, "u1", "2", deskLamp, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Items, qt.DeepEquals, []models.CartItem{{
		ID: "2", Name: "Ultra Wide Desk Lamp", Price: 129.99, Image: "/img/desk.png", Quantity: 1, Category: "Desk Lamp",
	}})
	first := cart.UpdatedAt

	clock.Advance(time.Second)
	cart, err = svc.SetItem(ctx, "u1", "2", deskLamp, 4)
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Items[0].Quantity, qt.Equals, 4)
	c.Assert(cart.UpdatedAt.After(first), qt.IsTrue)

	clock.Advance(time.Second)
	cart, err = svc.SetItem(ctx, "u1", "2", deskLamp, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Items, qt.HasLen, 0)

	// quantity 0 on an absent line still touches updatedAt
	clock.Advance(time.Second)
	cart, err = svc.SetItem(ctx, "u1", "2", deskLamp, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(cart.UpdatedAt.Equal(clock.Now()), qt.IsTrue)
}

func TestSetItemRejectsInvalidInput(t *testing.T) {
	c := qt.New(t)
	svc, _, _ := newTestCartService(c)
	ctx := context.Background()

	_, err := svc.SetItem(ctx, "u1", "", deskLamp, 1)
	c.Assert(errors.Is(err, ErrInvalidInput), qt.IsTrue)
	_, err = svc.SetItem(ctx, "u1", "2", nil, 1)
	c.Assert(errors.Is(err, ErrInvalidInput), qt.IsTrue)
	_, err = svc.SetItem(ctx, "u1", "2", deskLamp, -1)
	c.Assert(errors.Is(err, ErrInvalidInput), qt.IsTrue)
}

func TestRemoveItem(t *testing.T) {
	c := qt.New(t)
	svc, repo, _ := newTestCartService(c)
	ctx := context.Background()

	cart, existed, err := svc.RemoveItem(ctx, "nobody", "1")
	c.Assert(err, qt.IsNil)
	c.Assert(existed, qt.IsFalse)
	c.Assert(cart.Items, qt.HasLen, 0)
	_, err = repo.Get(ctx, "nobody")
	c.Assert(errors.Is(err, db.ErrNotFound), qt.IsTrue)

	_, err = svc.SetItem(ctx, "u1", "1", deskLamp, 1)
	c.Assert(err, qt.IsNil)
	_, err = svc.SetItem(ctx, "u1", "2", deskLamp, 2)
	c.Assert(err, qt.IsNil)

	cart, existed, err = svc.RemoveItem(ctx, "u1", "1")
	c.Assert(err, qt.IsNil)
	c.Assert(existed, qt.IsTrue)
	c.Assert(cart.Items, qt.HasLen, 1)
	c.Assert(cart.Items[0].ID, qt.Equals, models.ProductID("2"))
}

func TestClearCart(t *testing.T) {
	c := qt.New(t)
	svc, repo, clock := newTestCartService(c)
	ctx := context.Background()

	_, err := svc.SetItem(ctx, "u1", "1", deskLamp, 1)
	c.Assert(err, qt.IsNil)
	clock.Advance(time.Minute)

	cart, err := svc.ClearCart(ctx, "u1")
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Items, qt.HasLen, 0)

	stored, err := repo.Get(ctx, "u1")
	c.Assert(err, qt.IsNil)
	c.Assert(stored.Items, qt.HasLen, 0)
	c.Assert(stored.UpdatedAt.Equal(clock.Now()), qt.IsTrue)
}

func TestCartIsolationBetweenUsers(t *testing.T) {
	c := qt.New(t)
	svc, _, _ := newTestCartService(c)
	ctx := context.Background()

	_, err := svc.SetItem(ctx, "alice", "1", deskLamp, 1)
	c.Assert(err, qt.IsNil)

	cart, err := svc.GetCart(ctx, "bob")
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Items, qt.HasLen, 0)
}
