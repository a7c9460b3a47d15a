package cartapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/joinvnexus/shopkoro-sub001/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenSource yields the bearer token for authenticated calls; "" means
// anonymous. The session store satisfies this.
type TokenSource interface {
	Token() string
}

type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

func NewHTTPClient(baseURL string, tokens TokenSource) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		tokens:  tokens,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
}

type addItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type errorResponseDTO struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (c *HTTPClient) AddToCart(ctx context.Context, productID string, quantity int) error {
	return c.do(ctx, http.MethodPost, "/api/cart/add", addItemRequestDTO{
		ProductID: productID,
		Quantity:  quantity,
	}, nil)
}

func (c *HTTPClient) GetCart(ctx context.Context) (ServerCart, error) {
	var cart ServerCart
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &cart); err != nil {
		return ServerCart{}, err
	}
	return cart, nil
}

func (c *HTTPClient) UpdateItem(ctx context.Context, productID string, quantity int) error {
	return c.do(ctx, http.MethodPut, "/api/cart/items/"+productID, updateQuantityRequestDTO{
		Quantity: quantity,
	}, nil)
}

func (c *HTTPClient) RemoveItem(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/items/"+productID, nil, nil)
}

func (c *HTTPClient) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/cart", nil, nil)
}

func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (domain.UserSession, error) {
	var user domain.UserSession
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &user); err != nil {
		return domain.UserSession{}, err
	}
	return user, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(method, path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response failed: %w", err)
		}
	}

	return nil
}

func apiError(method, path string, resp *http.Response) error {
	var dto errorResponseDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err == nil && dto.Error != "" {
		return fmt.Errorf("%s %s: %s (%s)", method, path, dto.Error, dto.Code)
	}
	return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
}
