// Package storefront is an HTTP client for the BazzarNet storefront API.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/schema"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/dto"
)

// DefaultTimeout bounds every request made by the client.
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx answer of the storefront.
type APIError struct {
	Status     int
	Message    string
	Errors     []domainErrors.FieldError
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("storefront: %d %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("storefront: %d %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// FieldErrors returns the validation failures keyed by field.
func (e *APIError) FieldErrors() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		fields[fe.Field] = fe.Message
	}
	return fields
}

// Client calls the storefront API on behalf of one signed-in user.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a storefront client with DefaultTimeout.
func NewClient(baseURL string, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse storefront url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("storefront url must be absolute")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}, nil
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login signs in and keeps the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", schema.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	user := resp.UserResponse.Model()
	return &user, nil
}

// Profile returns the signed-in user.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &resp); err != nil {
		return nil, err
	}
	user := resp.Model()
	return &user, nil
}

// UpdateAddress saves address on the profile.
func (c *Client) UpdateAddress(ctx context.Context, address model.Address) (*model.User, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodPut, "/api/users/me/address", schema.AddressFrom(address), &resp); err != nil {
		return nil, err
	}
	user := resp.Model()
	return &user, nil
}

// ApplyCoupon prices code against subtotal.
func (c *Client) ApplyCoupon(ctx context.Context, code string, subtotal float64) (*model.AppliedCoupon, error) {
	var applied model.AppliedCoupon
	if err := c.do(ctx, http.MethodPost, "/api/coupons/apply", schema.ApplyCouponRequest{Code: code, Subtotal: subtotal}, &applied); err != nil {
		return nil, err
	}
	return &applied, nil
}

// PlaceOrder submits draft and returns the created order.
func (c *Client) PlaceOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	var resp dto.OrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", schema.PlaceOrderFrom(draft), &resp); err != nil {
		return nil, err
	}
	order, err := resp.Model()
	if err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}

func (c *Client) do(ctx context.Context, method, route string, in, out any) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, route)

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if out == nil {
			return nil
		}
		return json.Unmarshal(raw, out)
	}

	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Message string                    `json:"message"`
		Errors  []domainErrors.FieldError `json:"errors"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		apiErr.Message = payload.Message
		apiErr.Errors = payload.Errors
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	}
	c.logger.Debug("storefront request failed",
		zap.String("method", method),
		zap.String("route", route),
		zap.Int("status", resp.StatusCode),
		zap.String("message", apiErr.Message),
	)
	return apiErr
}

// IsStatus reports whether err is an APIError with status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 0
}
