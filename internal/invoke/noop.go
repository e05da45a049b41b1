package invoke

import (
	"context"
)

// DirectDownloadMessage prefixes the message of every no-op job
const DirectDownloadMessage = "Returning direct download links"

// NoOpInvoker performs no transformation and links the source granules directly
type NoOpInvoker struct{}

var _ Invoker = NoOpInvoker{}

// Invoke returns the request's granule links unmodified
func (NoOpInvoker) Invoke(_ context.Context, job *Job) (*JobResult, error) {
	message := DirectDownloadMessage
	if job.Message != "" {
		message += ", " + job.Message
	}

	var links []Link
	if job.Request != nil {
		for _, g := range job.Request.Granules() {
			links = append(links, Link{Href: g.URL, Title: g.ID, Rel: "data"})
		}
	}

	return &JobResult{
		JobID:   job.ID,
		Status:  StatusSuccessful,
		Message: message,
		Links:   links,
	}, nil
}
