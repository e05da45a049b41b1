package sources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/transformhub/service-router/internal/config"
)

// fileSourceHandler reads catalogs from local files
type fileSourceHandler struct{}

// NewFileSourceHandler creates a new file source handler
func NewFileSourceHandler() SourceHandler {
	return &fileSourceHandler{}
}

// Validate validates the file source configuration
func (*fileSourceHandler) Validate(cfg *config.CatalogConfig) error {
	if cfg == nil {
		return fmt.Errorf("catalog configuration cannot be nil")
	}
	if cfg.File == nil {
		return fmt.Errorf("file configuration is required")
	}
	if cfg.File.Path == "" {
		return fmt.Errorf("file path cannot be empty")
	}
	return nil
}

// Fetch reads the catalog file
func (h *fileSourceHandler) Fetch(_ context.Context, cfg *config.CatalogConfig) (*FetchResult, error) {
	if err := h.Validate(cfg); err != nil {
		return nil, fmt.Errorf("source validation failed: %w", err)
	}

	path := cfg.File.Path
	//nolint:gosec // the path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return NewFetchResult(data, path), nil
}
