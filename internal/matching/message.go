package matching

import (
	"fmt"
	"strings"
)

// DegradedMatchWarning is attached to services chosen by the best-effort fallback
const DegradedMatchWarning = "Data in output files may extend outside the spatial bounds you requested."

// UnsupportedMatch records why no service could satisfy a request.
// It is an expected outcome, not an error.
type UnsupportedMatch struct {
	Request *Request

	// Requirements lists the enforced operations up to and including the one that failed
	Requirements []string
}

// Message renders the human-readable explanation of the failed match
func (u *UnsupportedMatch) Message() string {
	collections := joinList(u.Request.Collections(), "and")
	if len(u.Requirements) == 0 {
		return fmt.Sprintf("no operations can be performed on %s", collections)
	}
	return fmt.Sprintf("the requested combination of operations: %s on %s is unsupported",
		joinList(u.Requirements, "and"), collections)
}

// joinList joins items in natural language: "a", "a and b", "a, b, and c"
func joinList(items []string, conjunction string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + conjunction + " " + items[1]
	default:
		last := len(items) - 1
		return strings.Join(items[:last], ", ") + ", " + conjunction + " " + items[last]
	}
}
