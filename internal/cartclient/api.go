package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/sunlight/internal/models"
)

// DefaultBaseURL is the API root of a locally running server.
const DefaultBaseURL = "http://localhost:5000/api"

// CartAPI is the server surface the store synchronizes against.
type CartAPI interface {
	SyncCart(ctx context.Context, items []models.CartItem, clientTimestamp time.Time) (*SyncResult, error)
	UpdateItem(ctx context.Context, product models.CartProduct, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, id models.ProductID) (*models.Cart, error)
	ClearCart(ctx context.Context) (*models.Cart, error)
}

// SyncResult is the decoded response of POST /cart.
type SyncResult struct {
	Cart    *models.Cart `json:"cart"`
	Merged  bool         `json:"merged"`
	Message string       `json:"message"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client calls the SunLight HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
}

// NewClient returns a client rooted at baseURL. token is consulted on every
// request; an empty token sends no Authorization header.
func NewClient(baseURL string, httpClient *http.Client, token func() string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient, token: token}
}

type cartEnvelope struct {
	Cart *models.Cart `json:"cart"`
}

// GetCart fetches the caller's stored cart.
func (c *Client) GetCart(ctx context.Context) (*models.Cart, error) {
	var out cartEnvelope
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return out.Cart, nil
}

// SyncCart posts the local items with the client's sync baseline.
func (c *Client) SyncCart(ctx context.Context, items []models.CartItem, clientTimestamp time.Time) (*SyncResult, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	ts, err := json.Marshal(clientTimestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	body := models.SyncCartRequest{Items: &items, ClientTimestamp: ts}

	var out SyncResult
	if err := c.do(ctx, http.MethodPost, "/cart", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateItem sets the quantity of one line; zero removes it server side.
func (c *Client) UpdateItem(ctx context.Context, product models.CartProduct, quantity int) (*models.Cart, error) {
	body := models.UpdateCartItemRequest{ProductID: product.ID, Product: &product, Quantity: &quantity}
	var out cartEnvelope
	if err := c.do(ctx, http.MethodPut, "/cart/item", body, &out); err != nil {
		return nil, err
	}
	return out.Cart, nil
}

// RemoveItem deletes one line.
func (c *Client) RemoveItem(ctx context.Context, id models.ProductID) (*models.Cart, error) {
	var out cartEnvelope
	if err := c.do(ctx, http.MethodDelete, "/cart/item/"+url.PathEscape(string(id)), nil, &out); err != nil {
		return nil, err
	}
	return out.Cart, nil
}

// ClearCart empties the stored cart.
func (c *Client) ClearCart(ctx context.Context) (*models.Cart, error) {
	var out cartEnvelope
	if err := c.do(ctx, http.MethodDelete, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return out.Cart, nil
}

// SignInResult is the decoded response of POST /auth/signin.
type SignInResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// SignIn exchanges credentials for a session token.
func (c *Client) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	var out SignInResult
	req := models.SignInRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/signin", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil || errBody.Message == "" {
			errBody.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
