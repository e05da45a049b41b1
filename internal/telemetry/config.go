// Package telemetry provides OpenTelemetry instrumentation for the router.
// Traces are pushed over OTLP HTTP. Metrics are pushed over OTLP HTTP or
// exposed for Prometheus scraping.
package telemetry

import (
	"errors"
	"fmt"

	"github.com/transformhub/service-router/internal/versions"
)

const (
	// DefaultServiceName is reported as service.name unless configured
	DefaultServiceName = "router-api"

	// DefaultEndpoint is the OTLP HTTP collector address unless configured
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling is the trace sampling ratio unless configured
	DefaultSampling = 0.05
)

// Metrics exporters
const (
	MetricsExporterOTLP       = "otlp"
	MetricsExporterPrometheus = "prometheus"
)

// Config is the telemetry section of the router configuration
type Config struct {
	// Enabled turns on telemetry. Tracing and metrics must each be enabled too.
	Enabled bool `yaml:"enabled"`

	ServiceName string `yaml:"serviceName,omitempty"`

	// ServiceVersion defaults to the router build version
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is the collector "host:port". The /v1/traces and /v1/metrics paths are implied.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure sends telemetry over plain HTTP
	Insecure bool `yaml:"insecure,omitempty"`

	Tracing *TracingConfig `yaml:"tracing,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// TracingConfig configures trace export
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampling is the ratio of root spans recorded, in [0, 1]. Zero means DefaultSampling.
	Sampling float64 `yaml:"sampling,omitempty"`
}

// MetricsConfig configures metric export
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Exporter is MetricsExporterOTLP (default) or MetricsExporterPrometheus
	Exporter string `yaml:"exporter,omitempty"`
}

// GetServiceName returns the configured service name or DefaultServiceName
func (c *Config) GetServiceName() string {
	return valueOr(c.ServiceName, DefaultServiceName)
}

// GetServiceVersion returns the configured service version or the build version
func (c *Config) GetServiceVersion() string {
	return valueOr(c.ServiceVersion, defaultServiceVersion())
}

// GetEndpoint returns the configured endpoint or DefaultEndpoint
func (c *Config) GetEndpoint() string {
	return valueOr(c.Endpoint, DefaultEndpoint)
}

// GetSampling returns the sampling ratio. An unset (zero) ratio is DefaultSampling,
// since YAML cannot tell an explicit 0 from a missing value.
func (c *TracingConfig) GetSampling() float64 {
	if c.Sampling == 0 {
		return DefaultSampling
	}
	return c.Sampling
}

// GetExporter returns the configured exporter or MetricsExporterOTLP
func (c *MetricsConfig) GetExporter() string {
	if c == nil {
		return MetricsExporterOTLP
	}
	return valueOr(c.Exporter, MetricsExporterOTLP)
}

// PrometheusEnabled reports whether metrics are served for scraping
func (c *MetricsConfig) PrometheusEnabled() bool {
	return c != nil && c.Enabled && c.GetExporter() == MetricsExporterPrometheus
}

// Validate checks the enabled sections. A nil or disabled config is valid.
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error
	if t := c.Tracing; t != nil && t.Enabled && (t.Sampling < 0 || t.Sampling > 1) {
		errs = append(errs, fmt.Errorf("tracing: sampling must be between 0.0 and 1.0, got %g", t.Sampling))
	}
	if m := c.Metrics; m != nil && m.Enabled {
		switch m.GetExporter() {
		case MetricsExporterOTLP, MetricsExporterPrometheus:
		default:
			errs = append(errs, fmt.Errorf("metrics: exporter must be %q or %q, got %q",
				MetricsExporterOTLP, MetricsExporterPrometheus, m.Exporter))
		}
	}
	return errors.Join(errs...)
}

func defaultServiceVersion() string {
	return versions.GetVersionInfo().Version
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
