package service

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/transformhub/service-router/internal/invoke"
	"github.com/transformhub/service-router/internal/matching"
	"github.com/transformhub/service-router/internal/telemetry"
)

// DefaultCacheDuration is how long a fetched catalog is served before the provider is asked again
const DefaultCacheDuration = 30 * time.Second

// Option is a functional option for configuring the router service
type Option func(*routerSvc)

// WithCacheDuration sets how long a loaded catalog is reused
func WithCacheDuration(duration time.Duration) Option {
	return func(s *routerSvc) {
		s.cacheDuration = duration
	}
}

// WithChooser overrides the matching engine
func WithChooser(chooser *matching.Chooser) Option {
	return func(s *routerSvc) {
		s.chooser = chooser
	}
}

// WithInvokerFactory sets the factory used by Submit
func WithInvokerFactory(factory *invoke.Factory) Option {
	return func(s *routerSvc) {
		s.invokers = factory
	}
}

// WithTracer sets the tracer. A nil tracer disables span creation.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *routerSvc) {
		s.tracer = tracer
	}
}

// WithMatchMetrics records every selection
func WithMatchMetrics(metrics *telemetry.MatchMetrics) Option {
	return func(s *routerSvc) {
		s.metrics = metrics
	}
}
