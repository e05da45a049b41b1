package invoke

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/internal/httpclient"
)

// HTTPInvoker posts jobs to services that expose a synchronous HTTP endpoint
type HTTPInvoker struct {
	client httpclient.Client
}

var _ Invoker = (*HTTPInvoker)(nil)

// NewHTTPInvoker creates an HTTPInvoker
func NewHTTPInvoker(client httpclient.Client) *HTTPInvoker {
	return &HTTPInvoker{client: client}
}

// Invoke posts the job JSON to the service's params.url and decodes the JobResult it returns
func (h *HTTPInvoker) Invoke(ctx context.Context, job *Job) (*JobResult, error) {
	url := job.Service.Param(catalog.ParamURL)
	if url == "" {
		return nil, fmt.Errorf("service %s has no %s parameter", job.ServiceName, catalog.ParamURL)
	}

	slog.DebugContext(ctx, "Invoking http service", "service", job.ServiceName, "job_id", job.ID, "url", url)

	body, err := h.client.PostJSON(ctx, url, job)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke service %s: %w", job.ServiceName, err)
	}

	var result JobResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response of service %s: %w", job.ServiceName, err)
	}
	return result.normalize(job), nil
}
