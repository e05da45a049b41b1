package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/internal/config"
	"github.com/transformhub/service-router/internal/sources"
)

// addCatalogFlags registers the flags shared by the offline catalog commands
func addCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().String("catalog", "", "Path to the service catalog (YAML, required)")
	_ = cmd.MarkFlagRequired("catalog")
}

// loadCatalogFromFlags reads and validates the catalog named by --catalog
func loadCatalogFromFlags(ctx context.Context, cmd *cobra.Command) (*catalog.Catalog, string, error) {
	path, err := cmd.Flags().GetString("catalog")
	if err != nil {
		return nil, "", err
	}

	fetched, err := sources.NewFileSourceHandler().Fetch(ctx, &config.CatalogConfig{
		File: &config.FileConfig{Path: path},
	})
	if err != nil {
		return nil, "", err
	}

	cat, err := catalog.Load(fetched.Data)
	if err != nil {
		return nil, "", fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, "file:" + path, nil
}
