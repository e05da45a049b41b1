package invoke

import (
	"context"

	"github.com/google/uuid"

	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/internal/matching"
)

//go:generate mockgen -destination=mocks/mock_invoker.go -package=mocks -source=types.go Invoker

// Invoker runs a job on one kind of backend service
type Invoker interface {
	Invoke(ctx context.Context, job *Job) (*JobResult, error)
}

// JobStatus is the lifecycle state reported for a job
type JobStatus string

const (
	// StatusAccepted means the job was handed to a backend that did not report progress yet
	StatusAccepted JobStatus = "accepted"

	// StatusRunning means the backend is still working on the job
	StatusRunning JobStatus = "running"

	// StatusSuccessful means the job produced its results
	StatusSuccessful JobStatus = "successful"

	// StatusFailed means the backend gave up on the job
	StatusFailed JobStatus = "failed"
)

// Link points at one output of a job
type Link struct {
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
	Rel   string `json:"rel,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Job is one request bound to the service chosen for it
type Job struct {
	ID           string            `json:"jobID"`
	ServiceName  string            `json:"service"`
	OutputFormat string            `json:"outputFormat,omitempty"`
	Message      string            `json:"message,omitempty"`
	Request      *matching.Request `json:"request"`

	// Service is the descriptor the job runs on. It may be catalog.NoOpService
	// or a degraded clone.
	Service *catalog.ServiceDescriptor `json:"-"`
}

// NewJob creates a job with a fresh id from a request and its match result
func NewJob(req *matching.Request, result matching.Result) *Job {
	return &Job{
		ID:           uuid.NewString(),
		ServiceName:  result.Service.Name,
		OutputFormat: result.OutputFormat,
		Message:      result.Message,
		Request:      req,
		Service:      result.Service,
	}
}

// JobResult is what a backend reports for a job
type JobResult struct {
	JobID   string    `json:"jobID"`
	Status  JobStatus `json:"status"`
	Message string    `json:"message,omitempty"`
	Links   []Link    `json:"links,omitempty"`
}

// normalize fills the fields a backend may leave empty
func (r *JobResult) normalize(job *Job) *JobResult {
	if r.JobID == "" {
		r.JobID = job.ID
	}
	if r.Status == "" {
		r.Status = StatusSuccessful
	}
	if r.Message == "" {
		r.Message = job.Message
	}
	return r
}
