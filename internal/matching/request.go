package matching

// Granule is one already-resolved input file of a source collection
type Granule struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Source is one collection referenced by a request, with optional variable selectors
type Source struct {
	Collection string    `json:"collection"`
	Variables  []string  `json:"variables,omitempty"`
	Granules   []Granule `json:"granules,omitempty"`
}

// Request is a fully resolved transformation request
type Request struct {
	Sources []Source `json:"sources"`

	// BoundingRectangle is west, south, east, north. Any other length is rejected
	// when the request is validated.
	BoundingRectangle []float64 `json:"boundingRectangle,omitempty"`

	// HasShape reports whether a shape-filter payload accompanies the request
	HasShape bool `json:"hasShape,omitempty"`

	// CRS is the target coordinate reference system, if reprojection is requested
	CRS string `json:"crs,omitempty"`

	// OutputFormat is an explicit output format override
	OutputFormat string `json:"outputFormat,omitempty"`

	// Used for downstream warning text only
	CollectionsHitCount int `json:"collectionsHitCount,omitempty"`
	MaxResultsRequested int `json:"maxResultsRequested,omitempty"`
}

// Context carries the client's content preferences
type Context struct {
	// Accept lists accepted media-type patterns, highest preference first
	Accept []string `json:"accept,omitempty"`
}

// Collections returns the distinct collection ids of the request in first-seen order
func (r *Request) Collections() []string {
	seen := make(map[string]bool, len(r.Sources))
	out := make([]string, 0, len(r.Sources))
	for _, src := range r.Sources {
		if seen[src.Collection] {
			continue
		}
		seen[src.Collection] = true
		out = append(out, src.Collection)
	}
	return out
}

// Granules returns the granules of every source, in source order
func (r *Request) Granules() []Granule {
	var out []Granule
	for _, src := range r.Sources {
		out = append(out, src.Granules...)
	}
	return out
}

func (c *Context) accept() []string {
	if c == nil {
		return nil
	}
	return c.Accept
}
