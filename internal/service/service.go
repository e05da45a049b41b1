// Package service provides the business logic behind the router API and CLI:
// catalog access, service selection, and job dispatch.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/internal/invoke"
	"github.com/transformhub/service-router/internal/matching"
)

var (
	// ErrInvalidRequest is returned when a request cannot be matched at all
	ErrInvalidRequest = errors.New("invalid request")
	// ErrCatalogNotLoaded is returned when no catalog could be obtained from the provider
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go RouterService

// RouterService defines the operations exposed by the router
type RouterService interface {
	// CheckReadiness checks if a catalog is available
	CheckReadiness(ctx context.Context) error

	// ListServices returns the catalog services in precedence order and the catalog source
	ListServices(ctx context.Context) ([]*catalog.ServiceDescriptor, string, error)

	// Match chooses the service for a request
	Match(ctx context.Context, in *MatchInput) (*matching.Result, error)

	// Submit chooses the service for a request and invokes it
	Submit(ctx context.Context, in *MatchInput) (*Submission, error)

	// Invalidate marks the cached catalog stale so the next request reloads it
	Invalidate()
}

// MatchInput is a request together with the client's accepted media types
type MatchInput struct {
	Request *matching.Request
	Accept  []string
}

// Validate reports whether the input can be matched
func (in *MatchInput) Validate() error {
	if in == nil || in.Request == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidRequest)
	}
	if len(in.Request.Sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", ErrInvalidRequest)
	}
	for i, src := range in.Request.Sources {
		if src.Collection == "" {
			return fmt.Errorf("%w: sources[%d].collection is required", ErrInvalidRequest, i)
		}
	}
	if bbox := in.Request.BoundingRectangle; bbox != nil {
		if len(bbox) != 4 {
			return fmt.Errorf("%w: boundingRectangle must have 4 values (west, south, east, north), got %d",
				ErrInvalidRequest, len(bbox))
		}
		if bbox[1] > bbox[3] {
			return fmt.Errorf("%w: boundingRectangle south must not exceed north", ErrInvalidRequest)
		}
	}
	return nil
}

func (in *MatchInput) context() *matching.Context {
	return &matching.Context{Accept: in.Accept}
}

// Submission is the outcome of Submit
type Submission struct {
	Match  matching.Result
	Job    *invoke.Job
	Result *invoke.JobResult
}
