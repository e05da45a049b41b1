package sources_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transformhub/service-router/internal/config"
	"github.com/transformhub/service-router/internal/sources"
)

const catalogBody = `{"services":[{"name":"sds/noop","type":"noop"}]}`

func fastRetry() sources.APIOption {
	return sources.WithRetryPolicy(time.Millisecond, 2*time.Second)
}

func TestAPISourceHandler_Fetch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		responses     []int
		wantErr       string
		wantAttempts  int32
		trailingSlash bool
	}{
		{name: "first attempt succeeds", responses: []int{http.StatusOK}, wantAttempts: 1},
		{name: "endpoint with trailing slash", responses: []int{http.StatusOK}, wantAttempts: 1, trailingSlash: true},
		{
			name:         "retries transient failures",
			responses:    []int{http.StatusServiceUnavailable, http.StatusTooManyRequests, http.StatusOK},
			wantAttempts: 3,
		},
		{
			name:         "client errors are permanent",
			responses:    []int{http.StatusNotFound, http.StatusOK},
			wantErr:      "404",
			wantAttempts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var attempts atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != sources.ServicesPath {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				n := int(attempts.Add(1)) - 1
				status := tt.responses[min(n, len(tt.responses)-1)]
				w.WriteHeader(status)
				if status == http.StatusOK {
					_, _ = w.Write([]byte(catalogBody))
				}
			}))
			defer server.Close()

			endpoint := server.URL
			if tt.trailingSlash {
				endpoint += "/"
			}

			handler := sources.NewAPISourceHandler(fastRetry())
			result, err := handler.Fetch(context.Background(), &config.CatalogConfig{
				API: &config.APIConfig{Endpoint: endpoint},
			})

			assert.Equal(t, tt.wantAttempts, attempts.Load())
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, catalogBody, string(result.Data))
			assert.Equal(t, server.URL+sources.ServicesPath, result.Source)
			assert.NotEmpty(t, result.Hash)
		})
	}
}

func TestAPISourceHandler_FetchHonoursContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	handler := sources.NewAPISourceHandler(sources.WithRetryPolicy(10*time.Millisecond, time.Minute))
	_, err := handler.Fetch(ctx, &config.CatalogConfig{API: &config.APIConfig{Endpoint: server.URL}})
	assert.Error(t, err)
}

func TestAPISourceHandler_Validate(t *testing.T) {
	t.Parallel()

	handler := sources.NewAPISourceHandler()
	assert.NoError(t, handler.Validate(&config.CatalogConfig{API: &config.APIConfig{Endpoint: "http://x"}}))
	assert.ErrorContains(t, handler.Validate(nil), "cannot be nil")
	assert.ErrorContains(t, handler.Validate(&config.CatalogConfig{}), "api configuration is required")
	assert.ErrorContains(t, handler.Validate(&config.CatalogConfig{API: &config.APIConfig{}}), "endpoint cannot be empty")
}
