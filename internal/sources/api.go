package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/transformhub/service-router/internal/config"
	"github.com/transformhub/service-router/internal/httpclient"
)

const (
	// ServicesPath is appended to the configured endpoint
	ServicesPath = "/v1/services"

	// DefaultMaxElapsedTime bounds the retries of one fetch
	DefaultMaxElapsedTime = 30 * time.Second
)

// APISourceHandler fetches catalogs over HTTP
type APISourceHandler struct {
	httpClient      httpclient.Client
	initialInterval time.Duration
	maxElapsedTime  time.Duration
}

// APIOption configures an APISourceHandler
type APIOption func(*APISourceHandler)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(c httpclient.Client) APIOption {
	return func(h *APISourceHandler) {
		h.httpClient = c
	}
}

// WithRetryPolicy sets the first retry interval and the total retry budget
func WithRetryPolicy(initialInterval, maxElapsedTime time.Duration) APIOption {
	return func(h *APISourceHandler) {
		h.initialInterval = initialInterval
		h.maxElapsedTime = maxElapsedTime
	}
}

// NewAPISourceHandler creates a new API source handler
func NewAPISourceHandler(opts ...APIOption) *APISourceHandler {
	h := &APISourceHandler{
		httpClient:      httpclient.NewDefaultClient(0),
		initialInterval: backoff.DefaultInitialInterval,
		maxElapsedTime:  DefaultMaxElapsedTime,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Validate validates the API source configuration
func (*APISourceHandler) Validate(cfg *config.CatalogConfig) error {
	if cfg == nil {
		return fmt.Errorf("catalog configuration cannot be nil")
	}
	if cfg.API == nil {
		return fmt.Errorf("api configuration is required for source type %s", config.SourceTypeAPI)
	}
	if cfg.API.Endpoint == "" {
		return fmt.Errorf("api endpoint cannot be empty")
	}
	return nil
}

// Fetch retrieves the catalog from the API endpoint. Network errors and
// 429/5xx responses are retried; other HTTP errors fail immediately.
func (h *APISourceHandler) Fetch(ctx context.Context, cfg *config.CatalogConfig) (*FetchResult, error) {
	if err := h.Validate(cfg); err != nil {
		return nil, fmt.Errorf("source validation failed: %w", err)
	}

	url := strings.TrimSuffix(cfg.API.Endpoint, "/") + ServicesPath

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = h.initialInterval

	attempt := 0
	data, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		data, err := h.httpClient.Get(ctx, url)
		if err == nil {
			return data, nil
		}

		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && !httpErr.Temporary() {
			return nil, backoff.Permanent(err)
		}
		slog.Warn("Catalog fetch failed, retrying", "url", url, "attempt", attempt, "error", err)
		return nil, err
	}, backoff.WithBackOff(b), backoff.WithMaxElapsedTime(h.maxElapsedTime))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog from %s: %w", url, err)
	}

	slog.Debug("Fetched catalog", "url", url, "attempts", attempt, "bytes", len(data))
	return NewFetchResult(data, url), nil
}
