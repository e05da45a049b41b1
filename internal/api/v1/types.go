package v1

import (
	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/internal/invoke"
	"github.com/transformhub/service-router/internal/matching"
)

// MatchRequest is the body of POST /v1/match and POST /v1/jobs.
// When Accept is empty the HTTP Accept header is used instead.
type MatchRequest struct {
	matching.Request
	Accept []string `json:"accept,omitempty"`
}

// MatchResponse describes the service chosen for a request
type MatchResponse struct {
	Service      string              `json:"service"`
	Type         catalog.ServiceType `json:"type"`
	OutputFormat string              `json:"outputFormat,omitempty"`
	Message      string              `json:"message,omitempty"`
	Degraded     bool                `json:"degraded"`
	Matched      bool                `json:"matched"`
}

// NewMatchResponse converts a matching result to its wire form
func NewMatchResponse(r *matching.Result) MatchResponse {
	return MatchResponse{
		Service:      r.Service.Name,
		Type:         r.Service.Type,
		OutputFormat: r.OutputFormat,
		Message:      r.Message,
		Degraded:     r.Degraded,
		Matched:      r.Matched(),
	}
}

// JobResponse describes a dispatched job
type JobResponse struct {
	JobID   string           `json:"jobID"`
	Status  invoke.JobStatus `json:"status"`
	Message string           `json:"message,omitempty"`
	Links   []invoke.Link    `json:"links,omitempty"`
	Match   MatchResponse    `json:"match"`
}
