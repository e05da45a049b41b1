// Package matching selects the catalog service that should handle a
// transformation request.
//
// The engine runs an ordered chain of filters over the candidate services:
//
//  1. collections referenced by the request (always applied)
//  2. variable subsetting
//  3. spatial (bounding box) subsetting
//  4. shapefile subsetting
//  5. reprojection
//  6. output format negotiation (always last)
//
// Steps 2 to 6 only run when the request needs the corresponding operation, and
// each enforced step appends a description to the requirement log. A step that
// eliminates every candidate ends the run with an UnsupportedMatch carrying the
// log so far.
//
// When the strict chain fails for a request that mixes a "soft" operation
// (spatial or shapefile subsetting) with a "hard" one (variable subsetting,
// reprojection or reformatting), a reduced chain without the soft steps is
// attempted. A service found that way is returned as a clone annotated with a
// warning that output may extend outside the requested spatial bounds.
//
// The engine performs no I/O and never modifies the catalog or the request, so a
// single catalog can be shared by concurrent callers.
package matching
