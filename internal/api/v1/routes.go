// Package v1 provides the REST API handlers for service selection and job dispatch.
package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/transformhub/service-router/internal/api/common"
	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/internal/negotiation"
	"github.com/transformhub/service-router/internal/service"
	"github.com/transformhub/service-router/internal/validators"
)

// CatalogSourceHeader carries the catalog source on /v1/services responses
const CatalogSourceHeader = "X-Catalog-Source"

// Routes defines the v1 routes with dependency injection
type Routes struct {
	service service.RouterService
}

// Router creates a new router for the v1 API
func Router(svc service.RouterService) http.Handler {
	routes := &Routes{service: svc}

	r := chi.NewRouter()
	r.Get("/services", routes.listServices)
	r.Get("/services/{serviceName}", routes.getService)
	r.Post("/match", routes.match)
	r.Post("/jobs", routes.submitJob)

	return r
}

// listServices handles GET /v1/services. The body has the catalog document
// shape so another router can use this endpoint as its catalog source.
func (rr *Routes) listServices(w http.ResponseWriter, r *http.Request) {
	services, source, err := rr.service.ListServices(r.Context())
	if err != nil {
		writeServiceError(w, r, "Failed to list services", err)
		return
	}

	if services == nil {
		services = []*catalog.ServiceDescriptor{}
	}
	w.Header().Set(CatalogSourceHeader, source)
	common.WriteJSONResponse(w, catalog.Document{Services: services}, http.StatusOK)
}

// getService handles GET /v1/services/{serviceName}
func (rr *Routes) getService(w http.ResponseWriter, r *http.Request) {
	name, err := common.GetAndValidateURLParam(r, "serviceName")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !validators.IsValidServiceName(name) {
		common.WriteErrorResponse(w, "invalid service name: "+name, http.StatusBadRequest)
		return
	}

	services, _, err := rr.service.ListServices(r.Context())
	if err != nil {
		writeServiceError(w, r, "Failed to list services", err)
		return
	}

	for _, svc := range services {
		if svc.Name == name {
			common.WriteJSONResponse(w, svc, http.StatusOK)
			return
		}
	}
	common.WriteErrorResponse(w, "service not found: "+name, http.StatusNotFound)
}

// match handles POST /v1/match
func (rr *Routes) match(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeMatchInput(w, r)
	if !ok {
		return
	}

	result, err := rr.service.Match(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, "Failed to match request", err)
		return
	}

	common.WriteJSONResponse(w, NewMatchResponse(result), http.StatusOK)
}

// submitJob handles POST /v1/jobs
func (rr *Routes) submitJob(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeMatchInput(w, r)
	if !ok {
		return
	}

	sub, err := rr.service.Submit(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, "Failed to submit job", err)
		return
	}

	common.WriteJSONResponse(w, JobResponse{
		JobID:   sub.Result.JobID,
		Status:  sub.Result.Status,
		Message: sub.Result.Message,
		Links:   sub.Result.Links,
		Match:   NewMatchResponse(&sub.Match),
	}, http.StatusOK)
}

// decodeMatchInput reads the request body and resolves the accepted media types.
// It writes the error response itself and reports whether decoding succeeded.
func decodeMatchInput(w http.ResponseWriter, r *http.Request) (*service.MatchInput, bool) {
	var body MatchRequest
	if err := common.DecodeJSONBody(w, r, &body); err != nil {
		common.WriteErrorResponse(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	accept := body.Accept
	if len(accept) == 0 {
		accept = negotiation.ParseAccept(r.Header.Get("Accept"))
	}

	in := &service.MatchInput{Request: &body.Request, Accept: accept}
	if err := in.Validate(); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return in, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if errors.Is(err, service.ErrInvalidRequest) {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	slog.ErrorContext(r.Context(), message, "error", err)
	common.WriteErrorResponse(w, message+": "+err.Error(), http.StatusInternalServerError)
}
