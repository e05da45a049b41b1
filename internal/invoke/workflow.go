package invoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/transformhub/service-router/internal/config"
	"github.com/transformhub/service-router/internal/httpclient"
)

// ParamTemplate is the params key naming the workflow template of a workflow service
const ParamTemplate = "template"

// Workflow phases reported by the engine
const (
	PhasePending   = "Pending"
	PhaseRunning   = "Running"
	PhaseSucceeded = "Succeeded"
	PhaseFailed    = "Failed"
	PhaseError     = "Error"
)

// maxPollInterval caps the backoff between status polls
const maxPollInterval = 30 * time.Second

// ErrWorkflowNotConfigured is returned when a workflow service is invoked without an engine endpoint
var ErrWorkflowNotConfigured = errors.New("workflow engine endpoint is not configured")

// workflowSubmission is the body posted to the engine
type workflowSubmission struct {
	Template string `json:"template"`
	Job      *Job   `json:"job"`
}

// workflowStatus is the engine's view of one workflow
type workflowStatus struct {
	ID      string `json:"id"`
	Phase   string `json:"phase"`
	Message string `json:"message,omitempty"`
	Links   []Link `json:"links,omitempty"`
}

func (s *workflowStatus) terminal() bool {
	switch s.Phase {
	case PhaseSucceeded, PhaseFailed, PhaseError:
		return true
	default:
		return false
	}
}

// WorkflowInvoker submits jobs to the workflow engine and waits for them to finish
type WorkflowInvoker struct {
	client       httpclient.Client
	endpoint     string
	pollInterval time.Duration
	timeout      time.Duration
}

var _ Invoker = (*WorkflowInvoker)(nil)

// NewWorkflowInvoker creates a WorkflowInvoker. cfg may be nil, in which case
// every invocation fails with ErrWorkflowNotConfigured.
func NewWorkflowInvoker(client httpclient.Client, cfg *config.WorkflowConfig) *WorkflowInvoker {
	return &WorkflowInvoker{
		client:       client,
		endpoint:     strings.TrimSuffix(cfg.GetEndpoint(), "/"),
		pollInterval: cfg.GetPollInterval(),
		timeout:      cfg.GetTimeout(),
	}
}

// Invoke submits the job and polls its workflow until a terminal phase, the
// configured timeout, or ctx cancellation.
func (w *WorkflowInvoker) Invoke(ctx context.Context, job *Job) (*JobResult, error) {
	if w.endpoint == "" {
		return nil, ErrWorkflowNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	submitted, err := w.submit(ctx, job)
	if err != nil {
		return nil, err
	}
	if submitted.ID == "" {
		return nil, fmt.Errorf("workflow engine returned no id for job %s", job.ID)
	}

	logger := slog.With("job_id", job.ID, "workflow_id", submitted.ID, "service", job.ServiceName)
	logger.InfoContext(ctx, "Workflow submitted")

	final := submitted
	if !submitted.terminal() {
		final, err = w.poll(ctx, submitted.ID)
		if err != nil {
			return nil, fmt.Errorf("workflow %s for job %s: %w", submitted.ID, job.ID, err)
		}
	}

	logger.InfoContext(ctx, "Workflow finished", "phase", final.Phase)
	return toJobResult(job, final), nil
}

func (w *WorkflowInvoker) submit(ctx context.Context, job *Job) (*workflowStatus, error) {
	body, err := w.client.PostJSON(ctx, w.endpoint+"/workflows", workflowSubmission{
		Template: job.Service.Param(ParamTemplate),
		Job:      job,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit workflow for job %s: %w", job.ID, err)
	}

	var status workflowStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode workflow submission response: %w", err)
	}
	return &status, nil
}

func (w *WorkflowInvoker) poll(ctx context.Context, id string) (*workflowStatus, error) {
	statusURL := w.endpoint + "/workflows/" + url.PathEscape(id)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.pollInterval
	b.MaxInterval = max(maxPollInterval, w.pollInterval)

	return backoff.Retry(ctx, func() (*workflowStatus, error) {
		body, err := w.client.Get(ctx, statusURL)
		if err != nil {
			var httpErr *httpclient.HTTPError
			if errors.As(err, &httpErr) && !httpErr.Temporary() {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		var status workflowStatus
		if err := json.Unmarshal(body, &status); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to decode workflow status: %w", err))
		}
		if !status.terminal() {
			return nil, fmt.Errorf("workflow still %s", strings.ToLower(status.Phase))
		}
		return &status, nil
	}, backoff.WithBackOff(b), backoff.WithMaxElapsedTime(w.timeout))
}

func toJobResult(job *Job, status *workflowStatus) *JobResult {
	result := &JobResult{
		JobID:   job.ID,
		Status:  StatusSuccessful,
		Message: status.Message,
		Links:   status.Links,
	}
	if status.Phase != PhaseSucceeded {
		result.Status = StatusFailed
	}
	return result.normalize(job)
}
