package catalog

import (
	"maps"
	"slices"
)

// ServiceType is the discriminator used to pick an invocation strategy for a service.
type ServiceType string

const (
	// ServiceTypeWorkflow services are executed by submitting a job to the workflow engine
	ServiceTypeWorkflow ServiceType = "workflow"

	// ServiceTypeHTTP services are invoked with a direct HTTP call to the service
	ServiceTypeHTTP ServiceType = "http"

	// ServiceTypeNoOp services return the source data links unmodified
	ServiceTypeNoOp ServiceType = "noop"
)

// ParamURL is the params key holding the endpoint of an http service
const ParamURL = "url"

// IsValid reports whether t is one of the known service types
func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceTypeWorkflow, ServiceTypeHTTP, ServiceTypeNoOp:
		return true
	default:
		return false
	}
}

// String returns the string representation of the service type
func (t ServiceType) String() string {
	return string(t)
}

// Subsetting lists the subsetting modes a service supports
type Subsetting struct {
	Variable bool `yaml:"variable,omitempty" json:"variable"`
	BBox     bool `yaml:"bbox,omitempty" json:"bbox"`
	Shape    bool `yaml:"shape,omitempty" json:"shape"`
}

// Capabilities is the capability record advertised by a service
type Capabilities struct {
	// OutputFormats is the ordered list of media types the service can produce
	OutputFormats []string   `yaml:"outputFormats,omitempty" json:"outputFormats,omitempty"`
	Subsetting    Subsetting `yaml:"subsetting,omitempty" json:"subsetting"`
	Reprojection  bool       `yaml:"reprojection,omitempty" json:"reprojection"`
}

// ServiceDescriptor describes one configured backend service
type ServiceDescriptor struct {
	// Name uniquely identifies the service within the catalog
	Name string `yaml:"name" json:"name"`

	// Type selects the invocation strategy. It is not consulted by the matching engine.
	Type ServiceType `yaml:"type" json:"type"`

	// Params holds type-specific settings, e.g. the url of an http service
	Params map[string]string `yaml:"params,omitempty" json:"params,omitempty"`

	// Collections is the ordered set of collection identifiers the service accepts
	Collections []string `yaml:"collections" json:"collections"`

	Capabilities Capabilities `yaml:"capabilities" json:"capabilities"`

	// MaximumSyncGranules is the optional ceiling for synchronous requests
	MaximumSyncGranules *int `yaml:"maximumSyncGranules,omitempty" json:"maximumSyncGranules,omitempty"`

	// MaximumAsyncGranules is the optional ceiling for asynchronous requests
	MaximumAsyncGranules *int `yaml:"maximumAsyncGranules,omitempty" json:"maximumAsyncGranules,omitempty"`

	// Message is only ever set on a clone, never on a catalog entry
	Message string `yaml:"-" json:"message,omitempty"`
}

// NoOpService is the reserved descriptor returned when no configured service can
// handle a request. It is a singleton compared by identity and never belongs to a catalog.
var NoOpService = &ServiceDescriptor{
	Name: "router/noop",
	Type: ServiceTypeNoOp,
}

// IsNoOp reports whether s is the no-match sentinel
func IsNoOp(s *ServiceDescriptor) bool {
	return s == NoOpService
}

// SupportsCollection reports whether the service accepts the given collection
func (s *ServiceDescriptor) SupportsCollection(id string) bool {
	return slices.Contains(s.Collections, id)
}

// Param returns a type-specific parameter, or "" if unset
func (s *ServiceDescriptor) Param(key string) string {
	return s.Params[key]
}

// Clone returns a deep copy of the descriptor
func (s *ServiceDescriptor) Clone() *ServiceDescriptor {
	if s == nil {
		return nil
	}
	c := *s
	c.Params = maps.Clone(s.Params)
	c.Collections = slices.Clone(s.Collections)
	c.Capabilities.OutputFormats = slices.Clone(s.Capabilities.OutputFormats)
	if s.MaximumSyncGranules != nil {
		v := *s.MaximumSyncGranules
		c.MaximumSyncGranules = &v
	}
	if s.MaximumAsyncGranules != nil {
		v := *s.MaximumAsyncGranules
		c.MaximumAsyncGranules = &v
	}
	return &c
}
