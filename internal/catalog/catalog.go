package catalog

import (
	"errors"
	"slices"
)

// ErrEmptyCatalog is returned when a catalog is built without any service
var ErrEmptyCatalog = errors.New("catalog contains no services")

// Catalog is an ordered, read-only collection of service descriptors.
// Order is priority: earlier entries win ties during matching.
type Catalog struct {
	services []*ServiceDescriptor
	byName   map[string]*ServiceDescriptor
}

// New builds a catalog from already-parsed descriptors after validating them.
// The catalog takes ownership of the descriptors; callers must not modify them afterwards.
func New(services []*ServiceDescriptor) (*Catalog, error) {
	if err := Validate(services); err != nil {
		return nil, err
	}

	byName := make(map[string]*ServiceDescriptor, len(services))
	for _, svc := range services {
		byName[svc.Name] = svc
	}

	return &Catalog{
		services: slices.Clone(services),
		byName:   byName,
	}, nil
}

// Services returns the descriptors in priority order.
// The returned slice may be reordered or truncated by the caller; the descriptors may not be modified.
func (c *Catalog) Services() []*ServiceDescriptor {
	return slices.Clone(c.services)
}

// Get returns the descriptor with the given name
func (c *Catalog) Get(name string) (*ServiceDescriptor, bool) {
	svc, ok := c.byName[name]
	return svc, ok
}

// Len returns the number of services in the catalog
func (c *Catalog) Len() int {
	return len(c.services)
}

// ForCollection returns, in priority order, the services accepting the collection
func (c *Catalog) ForCollection(id string) []*ServiceDescriptor {
	var out []*ServiceDescriptor
	for _, svc := range c.services {
		if svc.SupportsCollection(id) {
			out = append(out, svc)
		}
	}
	return out
}
