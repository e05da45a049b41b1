// Package app provides application lifecycle management for the router server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/transformhub/service-router/internal/config"
	"github.com/transformhub/service-router/internal/service"
	"github.com/transformhub/service-router/internal/sources"
)

// RouterApp encapsulates all components needed to run the router API server
type RouterApp struct {
	config     *config.Config
	service    service.RouterService
	httpServer *http.Server

	// watcher is nil unless a watched file catalog is configured
	watcher *sources.FileWatcher
}

func (app *RouterApp) startWatcher() {
	if app.watcher != nil {
		go app.watcher.Run()
	}
}

// Start serves HTTP until the server is shut down or fails
func (app *RouterApp) Start() error {
	app.startWatcher()
	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Serve serves HTTP on an existing listener, e.g. one bound to port 0 in tests
func (app *RouterApp) Serve(ln net.Listener) error {
	app.startWatcher()
	slog.Info("Server listening", "address", ln.Addr().String())
	if err := app.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Stop gracefully stops the application with the given timeout
func (app *RouterApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server")

	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			slog.Warn("Failed to close catalog watcher", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *RouterApp) GetConfig() *config.Config {
	return app.config
}

// GetService returns the router service
func (app *RouterApp) GetService() service.RouterService {
	return app.service
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *RouterApp) GetHTTPServer() *http.Server {
	return app.httpServer
}
