package filtering

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/internal/config"
)

// FilterService coordinates name and type filtering of catalog entries
type FilterService interface {
	// ApplyFilters returns the services passing the filter, preserving order
	ApplyFilters(
		ctx context.Context,
		services []*catalog.ServiceDescriptor,
		filter *config.FilterConfig,
	) ([]*catalog.ServiceDescriptor, error)
}

// defaultFilterService implements filtering coordination using name and type filters
type defaultFilterService struct {
	nameFilter NameFilter
	typeFilter TypeFilter
}

// NewDefaultFilterService creates a new defaultFilterService with default filter implementations
func NewDefaultFilterService() FilterService {
	return &defaultFilterService{
		nameFilter: NewDefaultNameFilter(),
		typeFilter: NewDefaultTypeFilter(),
	}
}

// NewFilterService creates a new defaultFilterService with custom filter implementations
func NewFilterService(nameFilter NameFilter, typeFilter TypeFilter) FilterService {
	return &defaultFilterService{
		nameFilter: nameFilter,
		typeFilter: typeFilter,
	}
}

// ApplyFilters filters the services based on filter configuration.
// A nil filter returns the input unchanged. Malformed name patterns are
// reported as an error before any service is evaluated.
func (s *defaultFilterService) ApplyFilters(
	_ context.Context,
	services []*catalog.ServiceDescriptor,
	filter *config.FilterConfig,
) ([]*catalog.ServiceDescriptor, error) {
	if filter == nil {
		slog.Debug("No catalog filter specified")
		return services, nil
	}

	var nameInclude, nameExclude, typeInclude, typeExclude []string
	if filter.Names != nil {
		nameInclude = filter.Names.Include
		nameExclude = filter.Names.Exclude
	}
	if filter.Types != nil {
		typeInclude = filter.Types.Include
		typeExclude = filter.Types.Exclude
	}

	if err := errors.Join(ValidatePatterns(nameInclude), ValidatePatterns(nameExclude)); err != nil {
		return nil, fmt.Errorf("invalid name filter: %w", err)
	}

	slog.Info("Applying catalog filters", "originalServiceCount", len(services))

	filtered := make([]*catalog.ServiceDescriptor, 0, len(services))
	for _, svc := range services {
		included, reason := s.shouldIncludeWithReason(svc, nameInclude, nameExclude, typeInclude, typeExclude)
		if included {
			filtered = append(filtered, svc)
			slog.Debug("Including service", "name", svc.Name, "type", svc.Type, "reason", reason)
		} else {
			slog.Info("Excluding service", "name", svc.Name, "type", svc.Type, "reason", reason)
		}
	}

	slog.Info("Catalog filtering completed",
		"includedServices", len(filtered),
		"excludedServices", len(services)-len(filtered))

	return filtered, nil
}

// shouldIncludeWithReason applies the name filter then the type filter
func (s *defaultFilterService) shouldIncludeWithReason(
	svc *catalog.ServiceDescriptor,
	nameInclude, nameExclude, typeInclude, typeExclude []string,
) (bool, string) {
	nameIncluded, nameReason := s.nameFilter.ShouldInclude(svc.Name, nameInclude, nameExclude)
	if !nameIncluded {
		return false, fmt.Sprintf("name filter: %s", nameReason)
	}

	typeIncluded, typeReason := s.typeFilter.ShouldInclude(svc.Type, typeInclude, typeExclude)
	if !typeIncluded {
		return false, fmt.Sprintf("type filter: %s", typeReason)
	}

	var reasons []string
	if len(nameInclude) > 0 || len(nameExclude) > 0 {
		reasons = append(reasons, fmt.Sprintf("name filter: %s", nameReason))
	}
	if len(typeInclude) > 0 || len(typeExclude) > 0 {
		reasons = append(reasons, fmt.Sprintf("type filter: %s", typeReason))
	}

	if len(reasons) == 0 {
		return true, "no filters specified, default include"
	}
	return true, "passed all filters: " + strings.Join(reasons, " AND ")
}

// LoadFilter adapts a FilterService to a catalog load option
func LoadFilter(ctx context.Context, svc FilterService, filter *config.FilterConfig) catalog.LoadOption {
	return catalog.WithFilter(func(services []*catalog.ServiceDescriptor) ([]*catalog.ServiceDescriptor, error) {
		return svc.ApplyFilters(ctx, services, filter)
	})
}
