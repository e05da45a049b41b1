package negotiation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/transformhub/service-router/internal/catalog"
)

func TestAccepts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pattern   string
		mediaType string
		expected  bool
	}{
		{name: "any accepts everything", pattern: "*/*", mediaType: "image/png", expected: true},
		{name: "any accepts short names", pattern: "*/*", mediaType: "tiff", expected: true},
		{name: "type wildcard same type", pattern: "image/*", mediaType: "image/tiff", expected: true},
		{name: "type wildcard other type", pattern: "image/*", mediaType: "application/x-netcdf4", expected: false},
		{name: "type wildcard without subtype", pattern: "image/*", mediaType: "image", expected: false},
		{name: "exact match", pattern: "image/png", mediaType: "image/png", expected: true},
		{name: "exact mismatch", pattern: "image/png", mediaType: "image/tiff", expected: false},
		{name: "case insensitive", pattern: "Image/PNG", mediaType: "image/png", expected: true},
		{name: "parameters ignored", pattern: "image/png; q=0.5", mediaType: "image/png", expected: true},
		{name: "short name exact", pattern: "gif", mediaType: "gif", expected: true},
		{name: "concrete pattern never matches wildcard format", pattern: "image/png", mediaType: "image/*", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Accepts(tt.pattern, tt.mediaType))
		})
	}
}

func svc(name string, formats ...string) *catalog.ServiceDescriptor {
	return &catalog.ServiceDescriptor{
		Name:         name,
		Type:         catalog.ServiceTypeNoOp,
		Collections:  []string{"C1-PROV"},
		Capabilities: catalog.Capabilities{OutputFormats: formats},
	}
}

func names(services []*catalog.ServiceDescriptor) []string {
	out := make([]string, 0, len(services))
	for _, s := range services {
		out = append(out, s.Name)
	}
	return out
}

func TestResolveFormat(t *testing.T) {
	t.Parallel()

	a := svc("t/a", "image/tiff", "application/x-netcdf4")
	b := svc("t/b", "image/png", "image/tiff")
	c := svc("t/c", "image/gif", "image/png")
	services := []*catalog.ServiceDescriptor{a, b, c}

	tests := []struct {
		name           string
		patterns       []string
		expectedFormat string
		expectedNames  []string
	}{
		{
			name:           "exact format held by several services",
			patterns:       []string{"image/png"},
			expectedFormat: "image/png",
			expectedNames:  []string{"t/b", "t/c"},
		},
		{
			name:           "first pattern wins over catalog order",
			patterns:       []string{"image/gif", "image/tiff"},
			expectedFormat: "image/gif",
			expectedNames:  []string{"t/c"},
		},
		{
			name:           "unsatisfiable pattern falls through to the next",
			patterns:       []string{"image/jpeg", "application/x-netcdf4"},
			expectedFormat: "application/x-netcdf4",
			expectedNames:  []string{"t/a"},
		},
		{
			name:           "wildcard takes first format of first service",
			patterns:       []string{"image/*"},
			expectedFormat: "image/tiff",
			expectedNames:  []string{"t/a", "t/b", "t/c"},
		},
		{
			name:           "any range",
			patterns:       []string{"*/*"},
			expectedFormat: "image/tiff",
			expectedNames:  []string{"t/a", "t/b", "t/c"},
		},
		{
			name:           "nothing matches",
			patterns:       []string{"image/jpeg", "text/csv"},
			expectedFormat: "",
			expectedNames:  []string{},
		},
		{
			name:           "no patterns",
			patterns:       nil,
			expectedFormat: "",
			expectedNames:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			format, matching := ResolveFormat(tt.patterns, services)
			assert.Equal(t, tt.expectedFormat, format)
			assert.Equal(t, tt.expectedNames, names(matching))
		})
	}
}

func TestResolveFormat_FirstServiceFormatOrder(t *testing.T) {
	t.Parallel()

	// b lists png before tiff: the wildcard picks the first entry of the first matching service
	b := svc("t/b", "image/png", "image/tiff")
	a := svc("t/a", "image/tiff")

	format, matching := ResolveFormat([]string{"image/*"}, []*catalog.ServiceDescriptor{b, a})
	assert.Equal(t, "image/png", format)
	assert.Equal(t, []string{"t/b", "t/a"}, names(matching))
}

func TestParseAccept(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   string
		expected []string
	}{
		{name: "empty", header: "", expected: []string{}},
		{name: "single", header: "image/png", expected: []string{"image/png"}},
		{
			name:     "header order kept without weights",
			header:   "image/png, image/tiff",
			expected: []string{"image/png", "image/tiff"},
		},
		{
			name:     "sorted by quality",
			header:   "image/png;q=0.5, application/x-netcdf4, */*;q=0.1",
			expected: []string{"application/x-netcdf4", "image/png", "*/*"},
		},
		{
			name:     "stable for equal quality",
			header:   "image/gif;q=0.8, image/png;q=0.8, image/tiff",
			expected: []string{"image/tiff", "image/gif", "image/png"},
		},
		{
			name:     "zero quality dropped",
			header:   "image/png;q=0, image/tiff",
			expected: []string{"image/tiff"},
		},
		{
			name:     "bare star is any",
			header:   "*",
			expected: []string{"*/*"},
		},
		{
			name:     "blank entries skipped",
			header:   "image/png,, ,image/gif",
			expected: []string{"image/png", "image/gif"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ParseAccept(tt.header))
		})
	}
}

func TestIsAny(t *testing.T) {
	t.Parallel()

	assert.True(t, IsAny("*/*"))
	assert.True(t, IsAny(" */*;q=0.2"))
	assert.False(t, IsAny("image/*"))
	assert.False(t, IsAny("image/png"))
}
