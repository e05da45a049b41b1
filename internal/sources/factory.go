package sources

import (
	"fmt"

	"github.com/transformhub/service-router/internal/config"
)

// defaultSourceHandlerFactory is the default implementation of SourceHandlerFactory
type defaultSourceHandlerFactory struct {
	apiOptions []APIOption
}

var _ SourceHandlerFactory = (*defaultSourceHandlerFactory)(nil)

// NewSourceHandlerFactory creates a new source handler factory.
// apiOptions are applied to every API handler it creates.
func NewSourceHandlerFactory(apiOptions ...APIOption) SourceHandlerFactory {
	return &defaultSourceHandlerFactory{apiOptions: apiOptions}
}

// CreateHandler creates a source handler for the given source type
func (f *defaultSourceHandlerFactory) CreateHandler(sourceType string) (SourceHandler, error) {
	switch sourceType {
	case config.SourceTypeAPI:
		return NewAPISourceHandler(f.apiOptions...), nil
	case config.SourceTypeFile:
		return NewFileSourceHandler(), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}
