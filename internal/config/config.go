// Package config provides configuration loading and management for the router server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/transformhub/service-router/internal/telemetry"
)

const (
	// SourceTypeAPI is the type for catalogs fetched from an HTTP endpoint
	SourceTypeAPI = "api"

	// SourceTypeFile is the type for catalogs stored in local files
	SourceTypeFile = "file"
)

const (
	// EnvPrefix is the prefix of environment variables overriding flags
	EnvPrefix = "ROUTER"

	// DefaultPollInterval is the workflow status polling interval when none is configured
	DefaultPollInterval = 2 * time.Second

	// DefaultWorkflowTimeout bounds a single workflow invocation when none is configured
	DefaultWorkflowTimeout = 10 * time.Minute
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks. This calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Catalog selects where the service catalog is loaded from and how it is filtered
	Catalog CatalogConfig `yaml:"catalog"`

	// MaxGranuleLimit is the system-wide granule ceiling. Services advertising a
	// larger maximum are reported at load time. Zero disables the check.
	MaxGranuleLimit int `yaml:"maxGranuleLimit,omitempty"`

	// Workflow configures the workflow engine used by workflow services
	Workflow *WorkflowConfig `yaml:"workflow,omitempty"`

	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// CatalogConfig defines the catalog source. Exactly one of File or API must be set.
type CatalogConfig struct {
	File *FileConfig `yaml:"file,omitempty"`
	API  *APIConfig  `yaml:"api,omitempty"`

	// Filter restricts the loaded catalog
	Filter *FilterConfig `yaml:"filter,omitempty"`
}

// FileConfig defines local file source configuration
type FileConfig struct {
	// Path is the path to the catalog YAML file.
	// Can be absolute or relative to the working directory
	Path string `yaml:"path"`

	// Watch invalidates the cached catalog as soon as the file changes
	// instead of waiting for the cache to expire
	Watch bool `yaml:"watch,omitempty"`
}

// APIConfig defines remote catalog configuration
type APIConfig struct {
	// Endpoint is the base URL of the catalog API. The source appends /v1/services.
	// Example: "http://router-catalog.default.svc.cluster.local/api"
	Endpoint string `yaml:"endpoint"`
}

// FilterConfig defines filtering rules for catalog entries
type FilterConfig struct {
	Names *NameFilterConfig `yaml:"names,omitempty"`
	Types *TypeFilterConfig `yaml:"types,omitempty"`
}

// NameFilterConfig defines glob based name filtering
type NameFilterConfig struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// TypeFilterConfig defines service type filtering
type TypeFilterConfig struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// WorkflowConfig defines the workflow engine connection
type WorkflowConfig struct {
	// Endpoint is the base URL of the workflow engine API
	Endpoint string `yaml:"endpoint"`

	// PollInterval is the initial interval between status polls (e.g. "2s")
	PollInterval string `yaml:"pollInterval,omitempty"`

	// Timeout bounds a single workflow from submission to terminal phase (e.g. "10m")
	Timeout string `yaml:"timeout,omitempty"`
}

// GetPollInterval returns the poll interval, using DefaultPollInterval if unset
func (w *WorkflowConfig) GetPollInterval() time.Duration {
	if w == nil || w.PollInterval == "" {
		return DefaultPollInterval
	}
	d, err := time.ParseDuration(w.PollInterval)
	if err != nil {
		return DefaultPollInterval
	}
	return d
}

// GetTimeout returns the workflow timeout, using DefaultWorkflowTimeout if unset
func (w *WorkflowConfig) GetTimeout() time.Duration {
	if w == nil || w.Timeout == "" {
		return DefaultWorkflowTimeout
	}
	d, err := time.ParseDuration(w.Timeout)
	if err != nil {
		return DefaultWorkflowTimeout
	}
	return d
}

// GetEndpoint returns the workflow endpoint or an empty string when unconfigured
func (w *WorkflowConfig) GetEndpoint() string {
	if w == nil {
		return ""
	}
	return w.Endpoint
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates configuration from YAML bytes
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	var errs []error

	if err := validateCatalogSource(&c.Catalog); err != nil {
		errs = append(errs, err)
	}

	if c.MaxGranuleLimit < 0 {
		errs = append(errs, fmt.Errorf("maxGranuleLimit must not be negative, got %d", c.MaxGranuleLimit))
	}

	if c.Workflow != nil {
		if err := validateWorkflowConfig(c.Workflow); err != nil {
			errs = append(errs, err)
		}
	}

	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}

// validateCatalogSource ensures exactly one source type is configured and complete
func validateCatalogSource(cat *CatalogConfig) error {
	switch {
	case cat.File == nil && cat.API == nil:
		return fmt.Errorf("catalog: one of file or api configuration must be specified")
	case cat.File != nil && cat.API != nil:
		return fmt.Errorf("catalog: only one of file or api configuration may be specified")
	case cat.File != nil && cat.File.Path == "":
		return fmt.Errorf("catalog: file.path is required")
	case cat.API != nil && cat.API.Endpoint == "":
		return fmt.Errorf("catalog: api.endpoint is required")
	}
	return nil
}

// validateWorkflowConfig validates workflow engine settings
func validateWorkflowConfig(w *WorkflowConfig) error {
	if w.Endpoint == "" {
		return fmt.Errorf("workflow: endpoint is required")
	}
	if w.PollInterval != "" {
		d, err := time.ParseDuration(w.PollInterval)
		if err != nil {
			return fmt.Errorf("workflow: pollInterval must be a valid duration (e.g., '2s'): %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("workflow: pollInterval must be positive")
		}
	}
	if w.Timeout != "" {
		d, err := time.ParseDuration(w.Timeout)
		if err != nil {
			return fmt.Errorf("workflow: timeout must be a valid duration (e.g., '10m'): %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("workflow: timeout must be positive")
		}
	}
	return nil
}

// GetSourceType returns the inferred type of the catalog source based on which field is present
func (c *CatalogConfig) GetSourceType() string {
	if c.API != nil {
		return SourceTypeAPI
	}
	if c.File != nil {
		return SourceTypeFile
	}
	return ""
}
