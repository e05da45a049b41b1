package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry bundles the providers the router is instrumented with
type Telemetry struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	// nil unless metrics are exported for Prometheus scraping
	metricsHandler http.Handler
}

// Option configures New
type Option func(*Config)

// WithTelemetryConfig uses cfg as the telemetry configuration. A nil cfg disables telemetry.
func WithTelemetryConfig(cfg *Config) Option {
	return func(c *Config) {
		if cfg != nil {
			*c = *cfg
		}
	}
}

// New builds the tracer and meter providers described by the configuration.
// Disabled telemetry yields no-op providers. Shutdown must be called on exit.
func New(ctx context.Context, opts ...Option) (*Telemetry, error) {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.Enabled {
		slog.Debug("Telemetry disabled")
		return &Telemetry{
			tracerProvider: mustNoopTracer(ctx),
			meterProvider:  mustNoopMeter(ctx),
		}, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry configuration: %w", err)
	}

	common := []ProviderOption{
		WithService(cfg.GetServiceName(), cfg.GetServiceVersion()),
		WithExporterEndpoint(cfg.GetEndpoint(), cfg.Insecure),
	}

	tp, err := NewTracerProvider(ctx, append(common, WithTracing(cfg.Tracing))...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}

	meterOpts := append(common, WithMetrics(cfg.Metrics))
	var metricsHandler http.Handler
	if cfg.Metrics.PrometheusEnabled() {
		reg := promclient.NewRegistry()
		meterOpts = append(meterOpts, WithPrometheusRegisterer(reg))
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	mp, err := NewMeterProvider(ctx, meterOpts...)
	if err != nil {
		if sdkTP, ok := tp.(*sdktrace.TracerProvider); ok {
			_ = sdkTP.Shutdown(ctx)
		}
		return nil, fmt.Errorf("failed to create meter provider: %w", err)
	}

	slog.Info("Telemetry initialized",
		"service_name", cfg.GetServiceName(),
		"service_version", cfg.GetServiceVersion(),
		"prometheus", metricsHandler != nil)

	return &Telemetry{
		tracerProvider: tp,
		meterProvider:  mp,
		metricsHandler: metricsHandler,
	}, nil
}

// no-op providers never fail to build
func mustNoopTracer(ctx context.Context) trace.TracerProvider {
	tp, _ := NewTracerProvider(ctx)
	return tp
}

func mustNoopMeter(ctx context.Context) metric.MeterProvider {
	mp, _ := NewMeterProvider(ctx)
	return mp
}

// TracerProvider returns the tracer provider
func (t *Telemetry) TracerProvider() trace.TracerProvider {
	return t.tracerProvider
}

// MeterProvider returns the meter provider
func (t *Telemetry) MeterProvider() metric.MeterProvider {
	return t.meterProvider
}

// MetricsHandler returns the Prometheus scrape handler, or nil
func (t *Telemetry) MetricsHandler() http.Handler {
	return t.metricsHandler
}

// Shutdown flushes and stops the SDK providers. It is safe to call more than once.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if tp, ok := t.tracerProvider.(*sdktrace.TracerProvider); ok {
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer provider: %w", err))
		}
	}
	if mp, ok := t.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown meter provider: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	slog.Debug("Telemetry shut down")
	return nil
}
