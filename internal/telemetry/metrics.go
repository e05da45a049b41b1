package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// RouterMetricsMeterName is the name used for the matching and invocation meter
	RouterMetricsMeterName = "github.com/transformhub/service-router/router"

	// CatalogMetricsMeterName is the name used for the catalog meter
	CatalogMetricsMeterName = "github.com/transformhub/service-router/catalog"
)

// Match outcomes recorded by RecordMatch
const (
	OutcomeMatched   = "matched"
	OutcomeDegraded  = "degraded"
	OutcomeUnmatched = "unmatched"
)

// MatchMetrics holds the instruments for service selection
type MatchMetrics struct {
	matchesTotal  metric.Int64Counter
	matchDuration metric.Float64Histogram
}

// NewMatchMetrics creates a new MatchMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewMatchMetrics(provider metric.MeterProvider) (*MatchMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(RouterMetricsMeterName)

	matchesTotal, err := meter.Int64Counter(
		"router_matches_total",
		metric.WithDescription("Number of service selections by outcome and chosen service"),
		metric.WithUnit("{match}"),
	)
	if err != nil {
		return nil, err
	}

	matchDuration, err := meter.Float64Histogram(
		"router_match_duration_seconds",
		metric.WithDescription("Duration of service selection in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1),
	)
	if err != nil {
		return nil, err
	}

	return &MatchMetrics{
		matchesTotal:  matchesTotal,
		matchDuration: matchDuration,
	}, nil
}

// RecordMatch records one selection. service is the chosen service name or
// the no-match sentinel name.
func (m *MatchMetrics) RecordMatch(ctx context.Context, outcome, service string, duration time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("service", service),
	)
	m.matchesTotal.Add(ctx, 1, attrs)
	m.matchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
}

// InvokeMetrics holds the instruments for service invocations
type InvokeMetrics struct {
	invokeDuration metric.Float64Histogram
}

// NewInvokeMetrics creates a new InvokeMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewInvokeMetrics(provider metric.MeterProvider) (*InvokeMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	invokeDuration, err := provider.Meter(RouterMetricsMeterName).Float64Histogram(
		"router_invoke_duration_seconds",
		metric.WithDescription("Duration of service invocations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 600),
	)
	if err != nil {
		return nil, err
	}

	return &InvokeMetrics{invokeDuration: invokeDuration}, nil
}

// RecordInvocation records the duration of an invocation by service type
func (m *InvokeMetrics) RecordInvocation(ctx context.Context, serviceType string, duration time.Duration, success bool) {
	if m == nil {
		return
	}

	m.invokeDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("type", serviceType),
		attribute.Bool("success", success),
	))
}

// CatalogMetrics holds the instruments describing the loaded catalog
type CatalogMetrics struct {
	servicesTotal metric.Int64Gauge
}

// NewCatalogMetrics creates a new CatalogMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewCatalogMetrics(provider metric.MeterProvider) (*CatalogMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	servicesTotal, err := provider.Meter(CatalogMetricsMeterName).Int64Gauge(
		"router_catalog_services",
		metric.WithDescription("Number of services in the loaded catalog"),
		metric.WithUnit("{service}"),
	)
	if err != nil {
		return nil, err
	}

	return &CatalogMetrics{servicesTotal: servicesTotal}, nil
}

// RecordServices records the size of the catalog loaded from source
func (m *CatalogMetrics) RecordServices(ctx context.Context, source string, count int64) {
	if m == nil {
		return
	}

	m.servicesTotal.Record(ctx, count, metric.WithAttributes(attribute.String("source", source)))
}
