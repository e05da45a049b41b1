// Package helpers provides shared fixtures for the router API integration tests.
package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/onsi/gomega"

	routerapp "github.com/transformhub/service-router/internal/app"
	"github.com/transformhub/service-router/internal/config"
)

// ServerTestHelper manages the router API server lifecycle for testing
type ServerTestHelper struct {
	ctx        context.Context
	configPath string
	baseURL    string
	httpClient *http.Client
	app        *routerapp.RouterApp
	opts       []routerapp.RouterAppOptions
}

// NewServerTestHelper creates a new server test helper. Extra options are
// passed to the application builder after the loaded configuration.
func NewServerTestHelper(
	ctx context.Context, configPath string, opts ...routerapp.RouterAppOptions,
) *ServerTestHelper {
	return &ServerTestHelper{
		ctx:        ctx,
		configPath: configPath,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		opts: opts,
	}
}

// StartServer builds the router and serves it on a free loopback port
func (s *ServerTestHelper) StartServer() error {
	cfg, err := config.LoadConfig(config.WithConfigPath(s.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := append([]routerapp.RouterAppOptions{routerapp.WithConfig(cfg)}, s.opts...)
	app, err := routerapp.NewRouterApp(s.ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.app = app
	s.baseURL = "http://" + ln.Addr().String()

	go func() {
		if err := app.Serve(ln); err != nil {
			// The test fails when it tries to connect
			fmt.Fprintf(os.Stderr, "Server start failed: %v\n", err)
		}
	}()

	return nil
}

// StopServer gracefully stops the router API server
func (s *ServerTestHelper) StopServer() error {
	if s.app != nil {
		return s.app.Stop(5 * time.Second)
	}
	return nil
}

// WaitForServerReady waits for the server to accept requests
func (s *ServerTestHelper) WaitForServerReady(timeout time.Duration) {
	gomega.Eventually(func() error {
		resp, err := s.GetHealth()
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return nil
	}, timeout, 100*time.Millisecond).Should(gomega.Succeed(), "Server should be ready")
}

// GetHealth makes a GET request to /health
func (s *ServerTestHelper) GetHealth() (*http.Response, error) {
	return s.httpClient.Get(s.baseURL + "/health")
}

// GetReadiness makes a GET request to /readiness
func (s *ServerTestHelper) GetReadiness() (*http.Response, error) {
	return s.httpClient.Get(s.baseURL + "/readiness")
}

// GetServices makes a GET request to /v1/services
func (s *ServerTestHelper) GetServices() (*http.Response, error) {
	return s.httpClient.Get(s.baseURL + "/v1/services")
}

// GetService makes a GET request to /v1/services/{name}, escaping the namespace separator
func (s *ServerTestHelper) GetService(name string) (*http.Response, error) {
	return s.httpClient.Get(s.baseURL + "/v1/services/" + url.PathEscape(name))
}

// Match posts body to /v1/match. accept, when not empty, is sent as the Accept header.
func (s *ServerTestHelper) Match(body any, accept string) (*http.Response, error) {
	return s.post("/v1/match", body, accept)
}

// SubmitJob posts body to /v1/jobs
func (s *ServerTestHelper) SubmitJob(body any) (*http.Response, error) {
	return s.post("/v1/jobs", body, "")
}

func (s *ServerTestHelper) post(path string, body any, accept string) (*http.Response, error) {
	var payload []byte
	switch b := body.(type) {
	case string:
		payload = []byte(b)
	default:
		var err error
		if payload, err = json.Marshal(b); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return s.httpClient.Do(req)
}

// GetBaseURL returns the base URL of the server
func (s *ServerTestHelper) GetBaseURL() string {
	return s.baseURL
}

// DecodeJSON decodes and closes a response body
func DecodeJSON(resp *http.Response, v any) {
	defer func() {
		_ = resp.Body.Close()
	}()
	gomega.Expect(json.NewDecoder(resp.Body).Decode(v)).To(gomega.Succeed())
}
