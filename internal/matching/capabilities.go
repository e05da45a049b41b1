package matching

import (
	"slices"

	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/internal/negotiation"
)

// NeedsVariableSubsetting reports whether any source selects variables
func NeedsVariableSubsetting(req *Request) bool {
	return slices.ContainsFunc(req.Sources, func(s Source) bool {
		return len(s.Variables) > 0
	})
}

// NeedsSpatialSubsetting reports whether a bounding rectangle was requested
func NeedsSpatialSubsetting(req *Request) bool {
	return req.BoundingRectangle != nil
}

// NeedsShapefileSubsetting reports whether a shape filter was supplied
func NeedsShapefileSubsetting(req *Request) bool {
	return req.HasShape
}

// NeedsReprojection reports whether a target CRS was requested
func NeedsReprojection(req *Request) bool {
	return req.CRS != ""
}

// NeedsReformatting reports whether the output must be produced in a particular format.
// That is the case with an explicit output format, or when the client sent accepted
// types none of which is "*/*". No accepted types at all means no reformatting.
func NeedsReformatting(req *Request, ctx *Context) bool {
	if req.OutputFormat != "" {
		return true
	}
	accept := ctx.accept()
	if len(accept) == 0 {
		return false
	}
	return !slices.ContainsFunc(accept, negotiation.IsAny)
}

// SupportsVariableSubsetting reports whether the service can subset by variable
func SupportsVariableSubsetting(svc *catalog.ServiceDescriptor) bool {
	return svc.Capabilities.Subsetting.Variable
}

// SupportsSpatialSubsetting reports whether the service can subset by bounding box
func SupportsSpatialSubsetting(svc *catalog.ServiceDescriptor) bool {
	return svc.Capabilities.Subsetting.BBox
}

// SupportsShapefileSubsetting reports whether the service can subset by shape
func SupportsShapefileSubsetting(svc *catalog.ServiceDescriptor) bool {
	return svc.Capabilities.Subsetting.Shape
}

// SupportsReprojection reports whether the service can reproject
func SupportsReprojection(svc *catalog.ServiceDescriptor) bool {
	return svc.Capabilities.Reprojection
}

// SupportsReformatting reports whether the service advertises any output format
func SupportsReformatting(svc *catalog.ServiceDescriptor) bool {
	return len(svc.Capabilities.OutputFormats) > 0
}

// requestedFormats returns the patterns the output format step negotiates with
func requestedFormats(req *Request, ctx *Context) []string {
	if req.OutputFormat != "" {
		return []string{req.OutputFormat}
	}
	return ctx.accept()
}
