package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/transformhub/service-router/internal/api"
	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/internal/config"
	"github.com/transformhub/service-router/internal/filtering"
	"github.com/transformhub/service-router/internal/invoke"
	"github.com/transformhub/service-router/internal/matching"
	"github.com/transformhub/service-router/internal/service"
	"github.com/transformhub/service-router/internal/sources"
	"github.com/transformhub/service-router/internal/telemetry"
)

const (
	defaultHTTPAddress    = ":8080"
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second

	// tracerName identifies spans created by the router service
	tracerName = "github.com/transformhub/service-router/service"
)

// RouterAppOptions is a function that configures the router app builder
type RouterAppOptions func(*routerAppConfig) error

// routerAppConfig collects the builder inputs. Overrides exist mainly for tests.
type routerAppConfig struct {
	config *config.Config

	sourceHandlerFactory sources.SourceHandlerFactory
	catalogProvider      service.CatalogProvider
	cacheDuration        time.Duration

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Telemetry components
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...RouterAppOptions) (*routerAppConfig, error) {
	cfg := &routerAppConfig{
		address:        defaultHTTPAddress,
		cacheDuration:  service.DefaultCacheDuration,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	// Job submissions block until the workflow finishes
	if cfg.config.Workflow != nil {
		workflowTimeout := cfg.config.Workflow.GetTimeout()
		cfg.requestTimeout = max(cfg.requestTimeout, workflowTimeout)
		cfg.writeTimeout = max(cfg.writeTimeout, workflowTimeout+5*time.Second)
	}

	return cfg, nil
}

// NewRouterApp creates a RouterApp from the given options
func NewRouterApp(ctx context.Context, opts ...RouterAppOptions) (*RouterApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	routerService, err := buildServiceComponents(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build service components: %w", err)
	}

	httpServer, err := buildHTTPServer(cfg, routerService)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	watcher, err := buildCatalogWatcher(cfg, routerService)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog watcher: %w", err)
	}

	return &RouterApp{
		config:     cfg.config,
		service:    routerService,
		httpServer: httpServer,
		watcher:    watcher,
	}, nil
}

// buildCatalogWatcher watches a file catalog when configured to. It returns nil
// for API catalogs and injected providers.
func buildCatalogWatcher(b *routerAppConfig, svc service.RouterService) (*sources.FileWatcher, error) {
	file := b.config.Catalog.File
	if b.catalogProvider != nil || file == nil || !file.Watch {
		return nil, nil
	}

	watcher, err := sources.NewFileWatcher(file.Path, svc.Invalidate)
	if err != nil {
		return nil, err
	}
	slog.Info("Watching catalog file for changes", "path", file.Path)
	return watcher, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) RouterAppOptions {
	return func(cfg *routerAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) RouterAppOptions {
	return func(cfg *routerAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, ok := strings.Cut(addr, ":")
		if !ok || port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) RouterAppOptions {
	return func(cfg *routerAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithSourceHandlerFactory allows injecting a custom source handler factory (for testing)
func WithSourceHandlerFactory(f sources.SourceHandlerFactory) RouterAppOptions {
	return func(cfg *routerAppConfig) error {
		cfg.sourceHandlerFactory = f
		return nil
	}
}

// WithCatalogProvider bypasses the configured catalog source
func WithCatalogProvider(p service.CatalogProvider) RouterAppOptions {
	return func(cfg *routerAppConfig) error {
		cfg.catalogProvider = p
		return nil
	}
}

// WithCacheDuration sets how long a fetched catalog is reused
func WithCacheDuration(d time.Duration) RouterAppOptions {
	return func(cfg *routerAppConfig) error {
		cfg.cacheDuration = d
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for router and HTTP metrics
func WithMeterProvider(mp metric.MeterProvider) RouterAppOptions {
	return func(cfg *routerAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider
func WithTracerProvider(tp trace.TracerProvider) RouterAppOptions {
	return func(cfg *routerAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithMetricsHandler exposes h on /metrics
func WithMetricsHandler(h http.Handler) RouterAppOptions {
	return func(cfg *routerAppConfig) error {
		cfg.metricsHandler = h
		return nil
	}
}

// buildCatalogProvider builds the provider reading the configured catalog source
func buildCatalogProvider(ctx context.Context, b *routerAppConfig) (service.CatalogProvider, error) {
	if b.catalogProvider != nil {
		return b.catalogProvider, nil
	}

	if b.sourceHandlerFactory == nil {
		b.sourceHandlerFactory = sources.NewSourceHandlerFactory()
	}

	catalogCfg := &b.config.Catalog
	handler, err := b.sourceHandlerFactory.CreateHandler(catalogCfg.GetSourceType())
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog source: %w", err)
	}
	if err := handler.Validate(catalogCfg); err != nil {
		return nil, fmt.Errorf("invalid catalog source: %w", err)
	}

	catalogMetrics, err := telemetry.NewCatalogMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog metrics: %w", err)
	}

	loadOpts := []catalog.LoadOption{catalog.WithMaxGranuleLimit(b.config.MaxGranuleLimit)}
	if catalogCfg.Filter != nil {
		loadOpts = append(loadOpts, filtering.LoadFilter(ctx, filtering.NewDefaultFilterService(), catalogCfg.Filter))
	}

	return service.NewSourceCatalogProvider(handler, catalogCfg, catalogMetrics, loadOpts...), nil
}

// buildServiceComponents builds the router service and its collaborators
func buildServiceComponents(ctx context.Context, b *routerAppConfig) (service.RouterService, error) {
	slog.Info("Initializing service components")

	provider, err := buildCatalogProvider(ctx, b)
	if err != nil {
		return nil, err
	}

	matchMetrics, err := telemetry.NewMatchMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create match metrics: %w", err)
	}
	invokeMetrics, err := telemetry.NewInvokeMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoke metrics: %w", err)
	}

	svcOpts := []service.Option{
		service.WithCacheDuration(b.cacheDuration),
		service.WithChooser(matching.NewChooser(matching.WithLogger(slog.Default()))),
		service.WithMatchMetrics(matchMetrics),
		service.WithInvokerFactory(invoke.NewFactory(
			invoke.WithWorkflowConfig(b.config.Workflow),
			invoke.WithMetrics(invokeMetrics),
		)),
	}
	if b.tracerProvider != nil {
		svcOpts = append(svcOpts, service.WithTracer(b.tracerProvider.Tracer(tracerName)))
	}

	svc, err := service.New(ctx, provider, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create router service: %w", err)
	}

	slog.Info("Service components initialized", "catalog", provider.GetSource())
	return svc, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
func buildHTTPServer(b *routerAppConfig, svc service.RouterService) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Tracing and metrics go first so they observe every request
	if b.meterProvider != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		if metricsMiddleware != nil {
			b.middlewares = append([]func(http.Handler) http.Handler{metricsMiddleware}, b.middlewares...)
			slog.Info("HTTP metrics middleware enabled")
		}
	}
	if b.tracerProvider != nil {
		b.middlewares = append([]func(http.Handler) http.Handler{telemetry.TracingMiddleware(b.tracerProvider)}, b.middlewares...)
	}

	router := api.NewServer(svc,
		api.WithMiddlewares(b.middlewares...),
		api.WithMetricsHandler(b.metricsHandler),
	)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
