// Package client talks to the storefront REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"atelier/internal/model"

	"github.com/rs/zerolog"
)

// ErrUnreachable is returned when no HTTP response was received at all.
var ErrUnreachable = errors.New("api unreachable")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       model.ErrorResponse
}

func (e *APIError) Error() string {
	msg := e.Body.Error
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Body.Message != "" {
		msg += ": " + e.Body.Message
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, msg)
}

// Client is a thin JSON client for the storefront API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	logger     zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIKey sends key in the X-API-Key header, for admin routes.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.With().Str("component", "api-client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("api response")

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// A body that is not JSON still yields a usable error from the status.
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Body)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return err
	}
	if !out.OK {
		return errors.New("api reported unhealthy")
	}
	return nil
}

// CreateOrder submits an order.
func (c *Client) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	var out model.CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOrders returns the most recent orders.
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers returns user summaries matching query, or all users when empty.
func (c *Client) ListUsers(ctx context.Context, query string) ([]model.UserSummary, error) {
	path := "/admin/users"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}

	var out model.UsersResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// ListUserOrders returns the orders of one user. The id is sent as given so
// the server can reject malformed values.
func (c *Client) ListUserOrders(ctx context.Context, userID string) ([]model.Order, error) {
	var out model.OrdersResponse
	if err := c.do(ctx, http.MethodGet, "/admin/users/"+url.PathEscape(userID)+"/orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	var out model.OrderResponse
	if err := c.do(ctx, http.MethodGet, "/admin/orders/"+url.PathEscape(orderID), nil, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

// UpdateOrderStatus changes the status of an order.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) (*model.Order, error) {
	var out model.OrderResponse
	body := model.UpdateStatusRequest{Status: status}
	if err := c.do(ctx, http.MethodPatch, "/admin/orders/"+url.PathEscape(orderID), body, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

// DeleteOrder removes a completed order.
func (c *Client) DeleteOrder(ctx context.Context, orderID string) (*model.DeleteResponse, error) {
	var out model.DeleteResponse
	if err := c.do(ctx, http.MethodDelete, "/admin/orders/"+url.PathEscape(orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes a user without orders.
func (c *Client) DeleteUser(ctx context.Context, userID string) (*model.DeleteResponse, error) {
	var out model.DeleteResponse
	if err := c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
