package catalog

import (
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Document is the root of a catalog file. The /v1/services listing uses the same
// shape, so one router can load its catalog from another.
type Document struct {
	Services []*ServiceDescriptor `yaml:"services" json:"services"`
}

// LoadOption configures catalog loading
type LoadOption func(*loadConfig)

type loadConfig struct {
	maxGranules int
	filter      func([]*ServiceDescriptor) ([]*ServiceDescriptor, error)
}

// WithMaxGranuleLimit sets the system-wide granule maximum used for load-time warnings
func WithMaxGranuleLimit(limit int) LoadOption {
	return func(cfg *loadConfig) {
		cfg.maxGranules = limit
	}
}

// WithFilter applies a selection function to the parsed descriptors before the catalog is built
func WithFilter(filter func([]*ServiceDescriptor) ([]*ServiceDescriptor, error)) LoadOption {
	return func(cfg *loadConfig) {
		cfg.filter = filter
	}
}

// Parse validates a catalog document against the schema and decodes its descriptors
func Parse(data []byte) ([]*ServiceDescriptor, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	return doc.Services, nil
}

// Load parses, optionally filters, and validates a catalog document
func Load(data []byte, opts ...LoadOption) (*Catalog, error) {
	cfg := &loadConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	services, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if cfg.filter != nil {
		services, err = cfg.filter(services)
		if err != nil {
			return nil, fmt.Errorf("failed to filter catalog: %w", err)
		}
	}

	cat, err := New(services)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	CheckGranuleLimits(services, cfg.maxGranules)

	slog.Info("Catalog loaded", "services", cat.Len())
	return cat, nil
}
