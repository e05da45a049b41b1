package sources

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/transformhub/service-router/internal/config"
)

//go:generate mockgen -destination=mocks/mock_source_handler.go -package=mocks -source=types.go SourceHandler,SourceHandlerFactory

// SourceHandler fetches catalog documents from one kind of source
type SourceHandler interface {
	// Fetch retrieves the catalog document
	Fetch(ctx context.Context, cfg *config.CatalogConfig) (*FetchResult, error)

	// Validate validates the source configuration
	Validate(cfg *config.CatalogConfig) error
}

// FetchResult contains the result of a fetch operation
type FetchResult struct {
	// Data is the raw catalog document (YAML or JSON)
	Data []byte

	// Hash is the SHA256 hash of Data, logged to tell catalog revisions apart
	Hash string

	// Source is a human readable location, e.g. a path or URL
	Source string
}

// NewFetchResult creates a FetchResult and computes its hash
func NewFetchResult(data []byte, source string) *FetchResult {
	return &FetchResult{
		Data:   data,
		Hash:   fmt.Sprintf("%x", sha256.Sum256(data)),
		Source: source,
	}
}

// SourceHandlerFactory creates source handlers based on source type
type SourceHandlerFactory interface {
	// CreateHandler creates a source handler for the given source type
	CreateHandler(sourceType string) (SourceHandler, error)
}
