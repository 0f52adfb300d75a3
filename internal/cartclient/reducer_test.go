package cartclient

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/example/sunlight/internal/models"
)

var (
	lampA = models.CartProduct{ID: "1", Name: "Desk Lamp", Price: 49.99, Image: "/a.jpg", Category: "desk"}
	lampB = models.CartProduct{ID: "2", Name: "Floor Lamp", Price: 120, Image: "/b.jpg", Category: "floor"}
)

func TestAddItem(t *testing.T) {
	c := qt.New(t)

	items := addItem(nil, lampA)
	c.Assert(items, qt.DeepEquals, []models.CartItem{
		{ID: "1", Name: "Desk Lamp", Price: 49.99, Image: "/a.jpg", Quantity: 1, Category: "desk"},
	})

	again := addItem(items, lampA)
	c.Assert(again[0].Quantity, qt.Equals, 2)
	c.Assert(items[0].Quantity, qt.Equals, 1, qt.Commentf("input slice must not change"))

	both := addItem(again, lampB)
	c.Assert(both, qt.HasLen, 2)
	c.Assert(both[1].Quantity, qt.Equals, 1)
}

func TestRemoveItem(t *testing.T) {
	c := qt.New(t)
	items := addItem(addItem(nil, lampA), lampB)

	c.Assert(removeItem(items, "1"), qt.DeepEquals, items[1:])
	c.Assert(removeItem(items, "9"), qt.DeepEquals, items)
	c.Assert(removeItem(nil, "1"), qt.HasLen, 0)
}

func TestUpdateQuantity(t *testing.T) {
	c := qt.New(t)
	items := addItem(addItem(nil, lampA), lampB)

	updated := updateQuantity(items, "2", 5)
	c.Assert(updated[1].Quantity, qt.Equals, 5)
	c.Assert(items[1].Quantity, qt.Equals, 1)

	c.Assert(updateQuantity(items, "1", 0), qt.DeepEquals, items[1:])
	c.Assert(updateQuantity(items, "1", -3), qt.DeepEquals, items[1:])
	c.Assert(updateQuantity(items, "9", 4), qt.DeepEquals, items)
}
