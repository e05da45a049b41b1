package helpers

import (
	"os"
	"path/filepath"

	"github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/transformhub/service-router/internal/config"
)

// ConfigOptions selects the router configuration written by WriteConfigYAML.
// Exactly one of CatalogFile or CatalogEndpoint should be set.
type ConfigOptions struct {
	CatalogFile     string
	CatalogEndpoint string

	NameInclude []string
	NameExclude []string
	TypeInclude []string
	TypeExclude []string

	WorkflowEndpoint string
	PollInterval     string
	WorkflowTimeout  string
}

// WriteConfigYAML writes a router configuration file into dir and returns its path
func WriteConfigYAML(dir string, opts ConfigOptions) string {
	cfg := config.Config{}

	if opts.CatalogFile != "" {
		cfg.Catalog.File = &config.FileConfig{Path: opts.CatalogFile}
	}
	if opts.CatalogEndpoint != "" {
		cfg.Catalog.API = &config.APIConfig{Endpoint: opts.CatalogEndpoint}
	}

	if len(opts.NameInclude)+len(opts.NameExclude) > 0 || len(opts.TypeInclude)+len(opts.TypeExclude) > 0 {
		filter := &config.FilterConfig{}
		if len(opts.NameInclude)+len(opts.NameExclude) > 0 {
			filter.Names = &config.NameFilterConfig{Include: opts.NameInclude, Exclude: opts.NameExclude}
		}
		if len(opts.TypeInclude)+len(opts.TypeExclude) > 0 {
			filter.Types = &config.TypeFilterConfig{Include: opts.TypeInclude, Exclude: opts.TypeExclude}
		}
		cfg.Catalog.Filter = filter
	}

	if opts.WorkflowEndpoint != "" {
		cfg.Workflow = &config.WorkflowConfig{
			Endpoint:     opts.WorkflowEndpoint,
			PollInterval: opts.PollInterval,
			Timeout:      opts.WorkflowTimeout,
		}
	}

	data, err := yaml.Marshal(&cfg)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	configPath := filepath.Join(dir, "config.yaml")
	gomega.Expect(os.WriteFile(configPath, data, 0600)).To(gomega.Succeed())
	return configPath
}
