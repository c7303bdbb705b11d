// Package manifest implements domain.Gateway against a hosted Manifest
// backend over its REST API.
package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/nfrund/flavorfusion/internal/domain"
)

const (
	defaultPerPage = 100
	maxPages       = 1000
	userEntity     = "users"
)

// Client is a single-session Manifest gateway. The bearer token it holds is
// the session credential; one Client serves exactly one user.
type Client struct {
	baseURL string
	http    *http.Client
	perPage int
	logger  *slog.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithPerPage sets the page size used when walking collections.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// New creates a Client for the backend at baseURL (without the /api suffix).
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		perPage: defaultPerPage,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "manifest_gateway")
	return c
}

var _ domain.Gateway = (*Client)(nil)

// Token returns the current bearer token, or "" when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken restores a previously issued bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// response is a fully read HTTP response.
type response struct {
	status int
	body   []byte
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

// do sends a request and reads the whole body. Transport failures are wrapped
// in domain.ErrNetwork.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("%w: read response: %v", domain.ErrNetwork, err)
	}
	c.logger.DebugContext(ctx, "Backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return response{status: resp.StatusCode, body: data}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any) (response, error) {
	if payload == nil {
		return c.do(ctx, method, path, nil, "")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return response{}, fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(data), "application/json")
}

// Ping implements domain.Gateway.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/health", nil, "")
	if err != nil {
		return err
	}
	if !resp.ok() {
		return fmt.Errorf("%w: health check returned %d", domain.ErrNetwork, resp.status)
	}
	return nil
}
