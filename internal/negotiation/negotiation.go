// Package negotiation implements media-type content negotiation between the
// formats a client accepts and the output formats services advertise.
package negotiation

import (
	"cmp"
	"mime"
	"slices"
	"strconv"
	"strings"

	"github.com/transformhub/service-router/internal/catalog"
)

// AnyMediaType is the pattern accepting every media type
const AnyMediaType = "*/*"

// Accepts reports whether pattern accepts mediaType.
// "*/*" accepts anything, "type/*" accepts any subtype of type, and any other
// pattern only accepts itself. Comparison is case-insensitive; parameters are ignored.
func Accepts(pattern, mediaType string) bool {
	pattern = bareType(pattern)
	mediaType = bareType(mediaType)

	if pattern == AnyMediaType {
		return true
	}
	if major, ok := strings.CutSuffix(pattern, "/*"); ok {
		mtMajor, _, found := strings.Cut(mediaType, "/")
		return found && mtMajor == major
	}
	return pattern == mediaType
}

// ResolveFormat picks an output format and the services able to produce it.
//
// Patterns are tried in the caller's priority order. For the first pattern that at
// least one service can satisfy, the returned format is the first accepted entry of
// the first such service in candidate order, and the returned slice holds every
// service with an accepted format, in candidate order. Client preference therefore
// dominates catalog order, while catalog order breaks ties within one preference.
// If no pattern is satisfiable, ResolveFormat returns "" and nil.
func ResolveFormat(patterns []string, services []*catalog.ServiceDescriptor) (string, []*catalog.ServiceDescriptor) {
	for _, pattern := range patterns {
		var (
			format   string
			matching []*catalog.ServiceDescriptor
		)
		for _, svc := range services {
			accepted, ok := firstAccepted(pattern, svc.Capabilities.OutputFormats)
			if !ok {
				continue
			}
			if format == "" {
				format = accepted
			}
			matching = append(matching, svc)
		}
		if len(matching) > 0 {
			return format, matching
		}
	}
	return "", nil
}

func firstAccepted(pattern string, formats []string) (string, bool) {
	for _, f := range formats {
		if Accepts(pattern, f) {
			return f, true
		}
	}
	return "", false
}

// ParseAccept turns an HTTP Accept header into media ranges ordered by preference.
// Ranges with equal quality keep their header order; ranges with q=0 are dropped.
func ParseAccept(header string) []string {
	type weighted struct {
		mediaRange string
		q          float64
	}

	var ranges []weighted
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		mediaRange, params, err := mime.ParseMediaType(part)
		if err != nil {
			// mime rejects some valid ranges such as a bare "*"; fall back to the raw token
			mediaRange = bareType(part)
			params = nil
		}
		if mediaRange == "*" {
			mediaRange = AnyMediaType
		}

		q := 1.0
		if raw, ok := params["q"]; ok {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err == nil {
				q = parsed
			}
		}
		if q <= 0 {
			continue
		}
		ranges = append(ranges, weighted{mediaRange: mediaRange, q: q})
	}

	slices.SortStableFunc(ranges, func(a, b weighted) int {
		return cmp.Compare(b.q, a.q)
	})

	out := make([]string, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, r.mediaRange)
	}
	return out
}

// IsAny reports whether pattern is the accept-anything range
func IsAny(pattern string) bool {
	return bareType(pattern) == AnyMediaType
}

func bareType(s string) string {
	s, _, _ = strings.Cut(s, ";")
	return strings.ToLower(strings.TrimSpace(s))
}
