package cartclient_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/sunlight/internal/api"
	"github.com/example/sunlight/internal/auth"
	"github.com/example/sunlight/internal/cartclient"
	"github.com/example/sunlight/internal/core"
	"github.com/example/sunlight/internal/db"
	"github.com/example/sunlight/internal/middleware"
	"github.com/example/sunlight/internal/models"
)

const password = "correct horse"

// newServer starts the full API on a file store with one registered user.
func newServer(c *qt.C) string {
	gin.SetMode(gin.TestMode)
	dir := c.TempDir()
	logger := zap.NewNop()

	carts, err := db.NewFileCartRepository(dir)
	c.Assert(err, qt.IsNil)
	users, err := db.NewFileUserRepository(dir)
	c.Assert(err, qt.IsNil)
	orders, err := db.NewFileOrderRepository(dir)
	c.Assert(err, qt.IsNil)
	subscribers, err := db.NewFileNewsletterRepository(dir)
	c.Assert(err, qt.IsNil)
	jwtManager, err := auth.NewJWTManager("client-test", time.Hour)
	c.Assert(err, qt.IsNil)

	userService := core.NewUserService(users, jwtManager, logger, core.WithBcryptCost(bcrypt.MinCost))
	_, _, err = userService.SignUp(context.Background(), models.SignUpRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: password,
	})
	c.Assert(err, qt.IsNil)

	router := gin.New()
	api.SetupRoutes(router, logger, middleware.NewAuthMiddleware(jwtManager, logger), api.Services{
		Carts:      core.NewCartService(carts, logger),
		Users:      userService,
		Orders:     core.NewOrderService(orders, logger),
		Newsletter: core.NewNewsletterService(subscribers, logger),
		Catalog:    core.NewCatalogService(db.NewMemoryProductRepository(db.DefaultProducts())),
	})

	srv := httptest.NewServer(router)
	c.Cleanup(srv.Close)
	return srv.URL + "/api"
}

type device struct {
	storage *cartclient.MemoryStorage
	client  *cartclient.Client
	store   *cartclient.Store
}

func newDevice(baseURL string) *device {
	d := &device{storage: &cartclient.MemoryStorage{}}
	d.client = cartclient.NewClient(baseURL, nil, func() string {
		token, _, _ := d.storage.Get(cartclient.AuthTokenKey)
		return token
	})
	d.store = cartclient.NewStore(d.client, d.storage, zap.NewNop())
	return d
}

func (d *device) login(c *qt.C) {
	res, err := d.client.SignIn(context.Background(), "ada@example.com", password)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Token, qt.Not(qt.Equals), "")
	c.Assert(d.storage.Set(cartclient.AuthTokenKey, res.Token), qt.IsNil)
	d.store.SetAuthenticated(true)
	d.store.Wait()
}

func TestGuestCartAdoptedOnLogin(t *testing.T) {
	c := qt.New(t)
	baseURL := newServer(c)
	laptop := newDevice(baseURL)

	laptop.store.AddToCart(models.CartProduct{ID: "1", Name: "Aurora", Price: 89.99})
	laptop.store.AddToCart(models.CartProduct{ID: "1", Name: "Aurora", Price: 89.99})
	laptop.login(c)

	cart, err := laptop.client.GetCart(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Items, qt.HasLen, 1)
	c.Assert(cart.Items[0].Quantity, qt.Equals, 2)
	c.Assert(cart.Items[0].Category, qt.Equals, models.DefaultCategory)
	c.Assert(laptop.store.LastSync().Equal(cart.UpdatedAt), qt.IsTrue)

	laptop.store.AddToCart(models.CartProduct{ID: "2", Name: "Nova", Price: 120})
	laptop.store.UpdateQuantity("1", 5)
	laptop.store.Wait()

	cart, err = laptop.client.GetCart(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Items, qt.HasLen, 2)
	c.Assert(cart.Items[0].Quantity, qt.Equals, 5)
	c.Assert(cart.Items[1].ID, qt.Equals, models.ProductID("2"))
}

func TestNewerServerCartReplacesStaleDevice(t *testing.T) {
	c := qt.New(t)
	baseURL := newServer(c)

	phone := newDevice(baseURL)
	c.Assert(phone.storage.Set(cartclient.CartKey, `[{"id":3,"name":"Old","price":10,"quantity":1,"category":"lamp"}]`), qt.IsNil)
	c.Assert(phone.storage.Set(cartclient.LastSyncKey, time.Now().Add(-24*time.Hour).UTC().Format(time.RFC3339Nano)), qt.IsNil)
	c.Assert(phone.store.Load(), qt.IsNil)

	laptop := newDevice(baseURL)
	laptop.store.AddToCart(models.CartProduct{ID: "4", Name: "Fresh", Price: 25})
	laptop.login(c)

	phone.login(c)
	c.Assert(phone.store.Items(), qt.HasLen, 1)
	c.Assert(phone.store.Items()[0].ID, qt.Equals, models.ProductID("4"))
	c.Assert(phone.store.ItemQuantity("3"), qt.Equals, 0)
}

func TestClientErrors(t *testing.T) {
	c := qt.New(t)
	baseURL := newServer(c)
	d := newDevice(baseURL)

	_, err := d.client.GetCart(context.Background())
	var apiErr *cartclient.APIError
	c.Assert(errors.As(err, &apiErr), qt.IsTrue)
	c.Assert(apiErr.StatusCode, qt.Equals, 401)
	c.Assert(apiErr.Message, qt.Equals, "No token provided")

	_, err = d.client.SignIn(context.Background(), "ada@example.com", "wrong")
	c.Assert(errors.As(err, &apiErr), qt.IsTrue)
	c.Assert(apiErr.StatusCode, qt.Equals, 400)
	c.Assert(apiErr.Message, qt.Equals, "Invalid credentials")
}
