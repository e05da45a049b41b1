// Package httpclient provides the bounded HTTP client shared by catalog sources and service invokers.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is used when a zero timeout is passed to NewDefaultClient
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize bounds every response body read by the client
	MaxResponseSize = 100 * 1024 * 1024

	// UserAgent identifies the router in outgoing requests
	UserAgent = "service-router/1.0"

	// maxErrorBody bounds the response excerpt copied into an HTTPError
	maxErrorBody = 4096
)

// Client performs HTTP requests and returns response bodies
type Client interface {
	// Get fetches url and returns the response body
	Get(ctx context.Context, url string) ([]byte, error)

	// PostJSON marshals payload, posts it to url, and returns the response body
	PostJSON(ctx context.Context, url string, payload any) ([]byte, error)
}

// DefaultClient is the net/http backed Client
type DefaultClient struct {
	client *http.Client
}

var _ Client = (*DefaultClient)(nil)

// NewDefaultClient creates a client with the given timeout, or DefaultTimeout when zero
func NewDefaultClient(timeout time.Duration) *DefaultClient {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &DefaultClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get fetches url with JSON accept headers
func (c *DefaultClient) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

// PostJSON posts payload as JSON to url
func (c *DefaultClient) PostJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *DefaultClient) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.ContentLength > MaxResponseSize {
		return nil, sizeExceeded(resp.ContentLength)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, NewHTTPError(resp.StatusCode, req.URL.String(), string(excerpt))
	}

	// Read one byte past the limit to detect oversized bodies without Content-Length
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > MaxResponseSize {
		return nil, sizeExceeded(int64(len(data)))
	}
	return data, nil
}

func sizeExceeded(size int64) error {
	return fmt.Errorf("response size %d bytes exceeds maximum allowed size of %.2f MB",
		size, float64(MaxResponseSize)/(1024*1024))
}
