package filtering

import (
	"fmt"
	"slices"

	"github.com/transformhub/service-router/internal/catalog"
)

// TypeFilter handles filtering by service type using exact matching
type TypeFilter interface {
	// ShouldInclude determines if a service of the given type should be included
	// Returns (shouldInclude bool, reason string)
	ShouldInclude(serviceType catalog.ServiceType, include, exclude []string) (bool, string)
}

// DefaultTypeFilter implements type filtering using exact string matching
type DefaultTypeFilter struct{}

// NewDefaultTypeFilter creates a new DefaultTypeFilter
func NewDefaultTypeFilter() *DefaultTypeFilter {
	return &DefaultTypeFilter{}
}

// ShouldInclude determines if a service type passes the include/exclude lists.
// Exclude takes precedence; a non-empty include list must contain the type.
func (*DefaultTypeFilter) ShouldInclude(serviceType catalog.ServiceType, include, exclude []string) (bool, string) {
	t := serviceType.String()

	if slices.Contains(exclude, t) {
		return false, fmt.Sprintf("excluded type '%s'", t)
	}

	if len(include) > 0 {
		if slices.Contains(include, t) {
			return true, fmt.Sprintf("included type '%s'", t)
		}
		return false, fmt.Sprintf("type '%s' not in include list %v", t, include)
	}

	if len(exclude) > 0 {
		return true, fmt.Sprintf("type '%s' not in exclude list %v", t, exclude)
	}
	return true, "no type filters specified"
}
