// Package sources retrieves raw service catalog documents.
//
// A SourceHandler validates its part of the catalog configuration and fetches
// the document bytes together with a content hash. Parsing and validation of
// the descriptors themselves belongs to the catalog package.
//
// Implementations:
//   - fileSourceHandler: reads a catalog file from the local filesystem
//   - APISourceHandler: fetches {endpoint}/v1/services from another router or a
//     catalog service, retrying transient failures with exponential backoff
//
// NewSourceHandlerFactory picks the handler from the configured source type.
package sources
