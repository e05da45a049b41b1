package matching

import (
	"slices"

	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/internal/negotiation"
)

// Requirement descriptions recorded in the requirement log
const (
	RequirementVariableSubsetting  = "variable subsetting"
	RequirementSpatialSubsetting   = "spatial subsetting"
	RequirementShapefileSubsetting = "shapefile subsetting"
	RequirementReprojection        = "reprojection"
	requirementReformattingPrefix  = "reformatting to "
)

// chainState is built fresh for every run of a chain
type chainState struct {
	request      *Request
	context      *Context
	candidates   []*catalog.ServiceDescriptor
	requirements []string
	outputFormat string
}

// filterStep narrows the candidates. It returns false when none survive.
type filterStep struct {
	name  string
	apply func(*chainState) bool
}

// chainOutcome is the result of a chain run: surviving candidates, or the elimination
type chainOutcome struct {
	candidates   []*catalog.ServiceDescriptor
	outputFormat string
	unsupported  *UnsupportedMatch
	failedStep   string
}

func (o chainOutcome) eliminated() bool {
	return o.unsupported != nil
}

var (
	collectionStep = filterStep{name: "collections", apply: filterByCollections}

	variableStep = capabilityStep("variable", RequirementVariableSubsetting,
		func(req *Request, _ *Context) bool { return NeedsVariableSubsetting(req) },
		SupportsVariableSubsetting)

	spatialStep = capabilityStep("spatial", RequirementSpatialSubsetting,
		func(req *Request, _ *Context) bool { return NeedsSpatialSubsetting(req) },
		SupportsSpatialSubsetting)

	shapefileStep = capabilityStep("shapefile", RequirementShapefileSubsetting,
		func(req *Request, _ *Context) bool { return NeedsShapefileSubsetting(req) },
		SupportsShapefileSubsetting)

	reprojectionStep = capabilityStep("reprojection", RequirementReprojection,
		func(req *Request, _ *Context) bool { return NeedsReprojection(req) },
		SupportsReprojection)

	// The output format step must stay last: running it earlier could drop a
	// service that a less preferred accepted type would still have matched.
	outputFormatStep = filterStep{name: "outputFormat", apply: filterByOutputFormat}
)

// strictChain enforces every axis the request needs
var strictChain = []filterStep{
	collectionStep,
	variableStep,
	spatialStep,
	shapefileStep,
	reprojectionStep,
	outputFormatStep,
}

// reducedChain omits the soft (spatial and shapefile) axes entirely
var reducedChain = []filterStep{
	collectionStep,
	variableStep,
	reprojectionStep,
	outputFormatStep,
}

// runChain applies steps in order to the given services
func runChain(steps []filterStep, req *Request, ctx *Context, services []*catalog.ServiceDescriptor) chainOutcome {
	st := &chainState{
		request:    req,
		context:    ctx,
		candidates: services,
	}

	for _, step := range steps {
		if !step.apply(st) {
			return chainOutcome{
				unsupported: &UnsupportedMatch{
					Request:      req,
					Requirements: slices.Clip(st.requirements),
				},
				failedStep: step.name,
			}
		}
	}

	return chainOutcome{
		candidates:   st.candidates,
		outputFormat: st.outputFormat,
	}
}

// capabilityStep builds a step enforcing one boolean capability when the request needs it
func capabilityStep(
	name, requirement string,
	needs func(*Request, *Context) bool,
	supports func(*catalog.ServiceDescriptor) bool,
) filterStep {
	return filterStep{
		name: name,
		apply: func(st *chainState) bool {
			if !needs(st.request, st.context) {
				return true
			}
			st.requirements = append(st.requirements, requirement)
			return st.narrow(supports)
		},
	}
}

// filterByCollections keeps services supporting every collection of the request
func filterByCollections(st *chainState) bool {
	collections := st.request.Collections()
	return st.narrow(func(svc *catalog.ServiceDescriptor) bool {
		for _, id := range collections {
			if !svc.SupportsCollection(id) {
				return false
			}
		}
		return true
	})
}

// filterByOutputFormat negotiates the output format when the request needs one
func filterByOutputFormat(st *chainState) bool {
	if !NeedsReformatting(st.request, st.context) {
		return true
	}

	patterns := requestedFormats(st.request, st.context)
	st.requirements = append(st.requirements, requirementReformattingPrefix+joinList(patterns, "or"))

	format, matching := negotiation.ResolveFormat(patterns, st.candidates)
	if len(matching) == 0 {
		st.candidates = nil
		return false
	}
	st.candidates = matching
	st.outputFormat = format
	return true
}

// narrow keeps the candidates satisfying keep, in order, and reports whether any remain
func (st *chainState) narrow(keep func(*catalog.ServiceDescriptor) bool) bool {
	var kept []*catalog.ServiceDescriptor
	for _, svc := range st.candidates {
		if keep(svc) {
			kept = append(kept, svc)
		}
	}
	st.candidates = kept
	return len(kept) > 0
}
