package matching

import (
	"log/slog"

	"github.com/transformhub/service-router/internal/catalog"
)

// Result is the outcome of choosing a service for a request
type Result struct {
	// Service is the chosen descriptor, or catalog.NoOpService when nothing matched.
	// After a degraded match it is a clone carrying the warning message.
	Service *catalog.ServiceDescriptor

	// OutputFormat is the negotiated format, empty when no reformatting was needed
	OutputFormat string

	// Message is the diagnostic (no match) or warning (degraded match) text
	Message string

	// Degraded reports whether soft axes were dropped to find the service
	Degraded bool

	// Requirements is the requirement log of the strict run when it failed
	Requirements []string
}

// Matched reports whether a real catalog service was chosen
func (r Result) Matched() bool {
	return r.Service != nil && !catalog.IsNoOp(r.Service)
}

// ChooserOption configures a Chooser
type ChooserOption func(*Chooser)

// WithLogger sets the logger used for decision traces
func WithLogger(logger *slog.Logger) ChooserOption {
	return func(c *Chooser) {
		c.logger = logger
	}
}

// Chooser runs the strict and fallback matching chains. It holds no per-request
// state and is safe for concurrent use.
type Chooser struct {
	logger *slog.Logger
}

// NewChooser creates a Chooser
func NewChooser(opts ...ChooserOption) *Chooser {
	c := &Chooser{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChooseServiceConfig picks the service for req among services using a default Chooser
func ChooseServiceConfig(req *Request, ctx *Context, services []*catalog.ServiceDescriptor) Result {
	return NewChooser().Choose(req, ctx, services)
}

// Choose picks the service that should handle req.
//
// The first service (in the given order) passing the strict chain wins. If none
// does, the result is catalog.NoOpService with a diagnostic message, unless the
// request mixes soft and hard operations, in which case the reduced chain may
// still produce a degraded match.
func (c *Chooser) Choose(req *Request, ctx *Context, services []*catalog.ServiceDescriptor) Result {
	log := c.log()

	strict := runChain(strictChain, req, ctx, services)
	if !strict.eliminated() {
		chosen := strict.candidates[0]
		log.Debug("Service matched",
			"service", chosen.Name,
			"outputFormat", strict.outputFormat,
			"candidates", len(strict.candidates))
		return Result{
			Service:      chosen,
			OutputFormat: strict.outputFormat,
		}
	}

	noMatch := Result{
		Service:      catalog.NoOpService,
		Message:      strict.unsupported.Message(),
		Requirements: strict.unsupported.Requirements,
	}
	log.Debug("No service satisfies the request",
		"failedStep", strict.failedStep,
		"requirements", strict.unsupported.Requirements)

	if !PermitsDegradedMatch(req, ctx) {
		return noMatch
	}

	reduced := runChain(reducedChain, req, ctx, services)
	if reduced.eliminated() {
		log.Debug("Best-effort match failed", "failedStep", reduced.failedStep)
		return noMatch
	}

	chosen := reduced.candidates[0].Clone()
	chosen.Message = DegradedMatchWarning
	log.Debug("Service matched on best effort",
		"service", chosen.Name,
		"outputFormat", reduced.outputFormat)

	return Result{
		Service:      chosen,
		OutputFormat: reduced.outputFormat,
		Message:      DegradedMatchWarning,
		Degraded:     true,
		Requirements: strict.unsupported.Requirements,
	}
}

// PermitsDegradedMatch reports whether a request may fall back to a best-effort match.
// Only requests needing at least one soft operation (spatial or shapefile subsetting)
// together with at least one hard operation (variable subsetting, reprojection or
// reformatting) qualify.
func PermitsDegradedMatch(req *Request, ctx *Context) bool {
	soft := NeedsSpatialSubsetting(req) || NeedsShapefileSubsetting(req)
	hard := NeedsVariableSubsetting(req) || NeedsReprojection(req) || NeedsReformatting(req, ctx)
	return soft && hard
}

func (c *Chooser) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}
