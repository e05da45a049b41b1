package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/internal/invoke"
	"github.com/transformhub/service-router/internal/matching"
	"github.com/transformhub/service-router/internal/otel"
	"github.com/transformhub/service-router/internal/telemetry"
)

// routerSvc implements RouterService over a cached catalog
type routerSvc struct {
	mu       sync.RWMutex // Protects cat, lastFetch
	provider CatalogProvider

	cat       *catalog.Catalog
	lastFetch time.Time

	cacheDuration time.Duration
	chooser       *matching.Chooser
	invokers      *invoke.Factory
	tracer        trace.Tracer
	metrics       *telemetry.MatchMetrics
}

var _ RouterService = (*routerSvc)(nil)

// New creates a router service backed by provider. A failed initial load is
// logged and retried on the next request.
func New(ctx context.Context, provider CatalogProvider, opts ...Option) (RouterService, error) {
	if provider == nil {
		return nil, fmt.Errorf("catalog provider is required")
	}

	s := &routerSvc{
		provider:      provider,
		cacheDuration: DefaultCacheDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.chooser == nil {
		s.chooser = matching.NewChooser()
	}
	if s.invokers == nil {
		s.invokers = invoke.NewFactory()
	}

	if err := s.loadCatalog(ctx); err != nil {
		slog.Warn("Failed to load initial catalog", "source", provider.GetSource(), "error", err)
	}

	return s, nil
}

// loadCatalogLocked fetches the catalog. Caller must hold s.mu write lock.
func (s *routerSvc) loadCatalogLocked(ctx context.Context) error {
	cat, err := s.provider.GetCatalog(ctx)
	if err != nil {
		return err
	}
	s.cat = cat
	s.lastFetch = time.Now()
	return nil
}

func (s *routerSvc) loadCatalog(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCatalogLocked(ctx)
}

// currentCatalog returns the cached catalog, refreshing it once it expired.
// A failed refresh keeps serving the stale catalog.
func (s *routerSvc) currentCatalog(ctx context.Context) (*catalog.Catalog, error) {
	s.mu.RLock()
	cat := s.cat
	fresh := cat != nil && time.Since(s.lastFetch) <= s.cacheDuration
	s.mu.RUnlock()
	if fresh {
		return cat, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have refreshed while we waited for the lock
	if s.cat != nil && time.Since(s.lastFetch) <= s.cacheDuration {
		return s.cat, nil
	}
	if err := s.loadCatalogLocked(ctx); err != nil {
		if s.cat == nil {
			return nil, fmt.Errorf("%w: %w", ErrCatalogNotLoaded, err)
		}
		slog.Warn("Failed to refresh catalog, serving stale data", "error", err)
	}
	return s.cat, nil
}

// Invalidate implements RouterService.Invalidate. The stale catalog is still
// served if the reload fails.
func (s *routerSvc) Invalidate() {
	s.mu.Lock()
	s.lastFetch = time.Time{}
	s.mu.Unlock()
}

// CheckReadiness implements RouterService.CheckReadiness
func (s *routerSvc) CheckReadiness(ctx context.Context) error {
	_, err := s.currentCatalog(ctx)
	return err
}

// ListServices implements RouterService.ListServices
func (s *routerSvc) ListServices(ctx context.Context) ([]*catalog.ServiceDescriptor, string, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "RouterService.ListServices")
	defer span.End()

	cat, err := s.currentCatalog(ctx)
	if err != nil {
		otel.RecordError(span, err)
		return nil, "", err
	}

	services := cat.Services()
	span.SetAttributes(
		otel.AttrResultCount.Int(len(services)),
		otel.AttrCatalogSource.String(s.provider.GetSource()),
	)
	return services, s.provider.GetSource(), nil
}

// Match implements RouterService.Match
func (s *routerSvc) Match(ctx context.Context, in *MatchInput) (*matching.Result, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "RouterService.Match")
	defer span.End()

	result, err := s.match(ctx, in)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}
	return &result, nil
}

func (s *routerSvc) match(ctx context.Context, in *MatchInput) (matching.Result, error) {
	if err := in.Validate(); err != nil {
		return matching.Result{}, err
	}

	cat, err := s.currentCatalog(ctx)
	if err != nil {
		return matching.Result{}, err
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(otel.AttrCollections.StringSlice(in.Request.Collections()))

	start := time.Now()
	result := s.chooser.Choose(in.Request, in.context(), cat.Services())
	s.metrics.RecordMatch(ctx, outcome(result), result.Service.Name, time.Since(start))

	otel.AnnotateMatch(span, result.Service.Name, result.OutputFormat, result.Matched(), result.Degraded)
	return result, nil
}

// Submit implements RouterService.Submit
func (s *routerSvc) Submit(ctx context.Context, in *MatchInput) (*Submission, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "RouterService.Submit")
	defer span.End()

	result, err := s.match(ctx, in)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}

	inv, err := s.invokers.ForService(result.Service)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}

	job := invoke.NewJob(in.Request, result)
	span.SetAttributes(
		otel.AttrJobID.String(job.ID),
		otel.AttrServiceType.String(result.Service.Type.String()),
	)

	jobResult, err := inv.Invoke(ctx, job)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("job %s on %s failed: %w", job.ID, job.ServiceName, err)
	}
	span.SetAttributes(otel.AttrJobStatus.String(string(jobResult.Status)))

	slog.InfoContext(ctx, "Job dispatched",
		"job_id", job.ID,
		"service", job.ServiceName,
		"status", jobResult.Status,
		"degraded", result.Degraded)

	return &Submission{Match: result, Job: job, Result: jobResult}, nil
}

func outcome(r matching.Result) string {
	switch {
	case r.Degraded:
		return telemetry.OutcomeDegraded
	case r.Matched():
		return telemetry.OutcomeMatched
	default:
		return telemetry.OutcomeUnmatched
	}
}
