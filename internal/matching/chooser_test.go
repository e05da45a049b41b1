package matching

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/transformhub/service-router/internal/catalog"
)

func TestChooseServiceConfig_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		build            func(*Request)
		expectedService  string
		expectedFormat   string
		expectedMessage  string
		expectedDegraded bool
	}{
		{
			name:            "tiff goes to the first capable service",
			build:           func(r *Request) { r.OutputFormat = "tiff" },
			expectedService: "svc/a",
			expectedFormat:  "tiff",
		},
		{
			name:            "png goes to the earlier of two capable services",
			build:           func(r *Request) { r.OutputFormat = "png" },
			expectedService: "svc/b",
			expectedFormat:  "png",
		},
		{
			name:            "unsupported format",
			build:           func(r *Request) { r.OutputFormat = "gif" },
			expectedService: catalog.NoOpService.Name,
			expectedMessage: "the requested combination of operations: reformatting to gif on C1-PROV is unsupported",
		},
		{
			name: "spatial subsetting with netcdf4 degrades to the format-capable service",
			build: func(r *Request) {
				r.BoundingRectangle = bbox()
				r.OutputFormat = "netcdf4"
			},
			expectedService:  "svc/a",
			expectedFormat:   "netcdf4",
			expectedMessage:  DegradedMatchWarning,
			expectedDegraded: true,
		},
		{
			name: "reprojection with netcdf4 has no soft axis and does not degrade",
			build: func(r *Request) {
				r.CRS = "EPSG:4326"
				r.OutputFormat = "netcdf4"
			},
			expectedService: catalog.NoOpService.Name,
			expectedMessage: "the requested combination of operations: reprojection and reformatting to netcdf4 " +
				"on C1-PROV is unsupported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := request(testCollection)
			tt.build(req)

			result := ChooseServiceConfig(req, nil, scenarioCatalog())
			require.NotNil(t, result.Service)
			assert.Equal(t, tt.expectedService, result.Service.Name)
			assert.Equal(t, tt.expectedFormat, result.OutputFormat)
			assert.Equal(t, tt.expectedMessage, result.Message)
			assert.Equal(t, tt.expectedDegraded, result.Degraded)
			assert.Equal(t, tt.expectedService != catalog.NoOpService.Name, result.Matched())
		})
	}
}

func TestChooseServiceConfig_SingleEntryReturnedUnchanged(t *testing.T) {
	t.Parallel()

	services := mediaCatalog()
	result := ChooseServiceConfig(request(testCollection, "C2-PROV"), nil, services)

	assert.Same(t, services[0], result.Service, "strict matches return the catalog entry itself")
	assert.Empty(t, result.Message)
	assert.Empty(t, result.OutputFormat)
	assert.False(t, result.Degraded)
}

func TestChooseServiceConfig_UnsupportedAxis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		build       func(*Request)
		requirement string
	}{
		{
			name: "variable subsetting",
			build: func(r *Request) {
				r.Sources[0].Variables = []string{"sst"}
			},
			requirement: RequirementVariableSubsetting,
		},
		{
			name:        "shapefile subsetting",
			build:       func(r *Request) { r.HasShape = true },
			requirement: RequirementShapefileSubsetting,
		},
		{
			name:        "spatial subsetting",
			build:       func(r *Request) { r.BoundingRectangle = bbox() },
			requirement: RequirementSpatialSubsetting,
		},
	}

	// no service in the reprojection-only catalog supports any subsetting
	services := []*catalog.ServiceDescriptor{scenarioCatalog()[2]}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := request(testCollection)
			tt.build(req)

			result := ChooseServiceConfig(req, nil, services)
			assert.True(t, catalog.IsNoOp(result.Service))
			assert.Equal(t, []string{tt.requirement}, result.Requirements)
			assert.Contains(t, result.Message, tt.requirement)
		})
	}
}

func TestChooseServiceConfig_UnknownCollection(t *testing.T) {
	t.Parallel()

	req := request("C9-PROV", "C8-PROV")
	req.CRS = "EPSG:4326"

	result := ChooseServiceConfig(req, nil, scenarioCatalog())
	assert.True(t, catalog.IsNoOp(result.Service))
	assert.Equal(t, "no operations can be performed on C9-PROV and C8-PROV", result.Message)
	assert.Empty(t, result.Requirements)
}

func TestChooseServiceConfig_DegradedFallbackFails(t *testing.T) {
	t.Parallel()

	req := request(testCollection)
	req.BoundingRectangle = bbox()
	req.OutputFormat = "gif"

	result := ChooseServiceConfig(req, nil, scenarioCatalog())
	assert.True(t, catalog.IsNoOp(result.Service))
	assert.False(t, result.Degraded)
	assert.Equal(t,
		"the requested combination of operations: spatial subsetting and reformatting to gif on C1-PROV is unsupported",
		result.Message,
		"the strict diagnostic is kept when the reduced chain also fails")
}

func TestChooseServiceConfig_ShapeWithReprojectionDegrades(t *testing.T) {
	t.Parallel()

	req := request(testCollection)
	req.HasShape = true
	req.CRS = "EPSG:3031"

	result := ChooseServiceConfig(req, nil, scenarioCatalog())
	require.True(t, result.Matched())
	assert.Equal(t, "svc/c", result.Service.Name)
	assert.True(t, result.Degraded)
	assert.Equal(t, []string{RequirementShapefileSubsetting, RequirementReprojection}, result.Requirements)
}

func TestChooseServiceConfig_SoftAxisOnlyDoesNotDegrade(t *testing.T) {
	t.Parallel()

	req := request(testCollection)
	req.BoundingRectangle = bbox()
	req.HasShape = true

	result := ChooseServiceConfig(req, nil, scenarioCatalog())
	assert.True(t, catalog.IsNoOp(result.Service))
	assert.Equal(t,
		"the requested combination of operations: spatial subsetting and shapefile subsetting on C1-PROV is unsupported",
		result.Message)
}

func TestChooseServiceConfig_DegradedCloneIsolation(t *testing.T) {
	t.Parallel()

	services := scenarioCatalog()
	req := request(testCollection)
	req.BoundingRectangle = bbox()
	req.OutputFormat = "netcdf4"

	result := ChooseServiceConfig(req, nil, services)
	require.True(t, result.Degraded)

	assert.NotSame(t, services[0], result.Service)
	assert.Equal(t, services[0].Name, result.Service.Name)
	assert.Equal(t, DegradedMatchWarning, result.Service.Message)
	assert.Empty(t, services[0].Message, "catalog entry must stay pristine")
}

func TestChooseServiceConfig_Idempotent(t *testing.T) {
	t.Parallel()

	services := scenarioCatalog()
	builds := []func(*Request){
		func(r *Request) { r.OutputFormat = "png" },
		func(r *Request) { r.OutputFormat = "gif" },
		func(r *Request) { r.BoundingRectangle = bbox(); r.OutputFormat = "netcdf4" },
	}

	for i, build := range builds {
		req := request(testCollection)
		build(req)

		first := ChooseServiceConfig(req, nil, services)
		second := ChooseServiceConfig(req, nil, services)
		assert.Equal(t, first.Service.Name, second.Service.Name, "case %d", i)
		assert.Equal(t, first.Message, second.Message, "case %d", i)
		assert.Equal(t, first.OutputFormat, second.OutputFormat, "case %d", i)
	}
}

func TestChooseServiceConfig_AcceptPreferences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		accept          []string
		expectedService string
		expectedFormat  string
	}{
		{
			name:            "client preference beats catalog order",
			accept:          []string{"image/tiff", "application/x-netcdf4"},
			expectedService: "sds/image-reprojector",
			expectedFormat:  "image/tiff",
		},
		{
			name:            "catalog order breaks ties within a wildcard",
			accept:          []string{"application/*", "image/*"},
			expectedService: "sds/netcdf-variables",
			expectedFormat:  "application/x-netcdf4",
		},
		{
			name:            "accept anything keeps catalog order",
			accept:          []string{"*/*"},
			expectedService: "sds/netcdf-variables",
			expectedFormat:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := ChooseServiceConfig(request(testCollection), &Context{Accept: tt.accept}, mediaCatalog())
			assert.Equal(t, tt.expectedService, result.Service.Name)
			assert.Equal(t, tt.expectedFormat, result.OutputFormat)
		})
	}
}

func TestChooseServiceConfig_OverrideBeatsAccept(t *testing.T) {
	t.Parallel()

	req := request(testCollection)
	req.OutputFormat = "image/png"

	result := ChooseServiceConfig(req, &Context{Accept: []string{"application/x-netcdf4"}}, mediaCatalog())
	assert.Equal(t, "sds/image-reprojector", result.Service.Name)
	assert.Equal(t, "image/png", result.OutputFormat)
}

func TestPermitsDegradedMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		build    func(*Request)
		ctx      *Context
		expected bool
	}{
		{name: "nothing requested", build: func(*Request) {}, expected: false},
		{name: "soft only", build: func(r *Request) { r.BoundingRectangle = bbox() }, expected: false},
		{name: "hard only", build: func(r *Request) { r.CRS = "EPSG:4326" }, expected: false},
		{
			name:     "bbox and variables",
			build:    func(r *Request) { r.BoundingRectangle = bbox(); r.Sources[0].Variables = []string{"v"} },
			expected: true,
		},
		{
			name:     "shape and reprojection",
			build:    func(r *Request) { r.HasShape = true; r.CRS = "EPSG:4326" },
			expected: true,
		},
		{
			name:     "bbox and accepted types",
			build:    func(r *Request) { r.BoundingRectangle = bbox() },
			ctx:      &Context{Accept: []string{"image/png"}},
			expected: true,
		},
		{
			name:     "bbox and accept anything",
			build:    func(r *Request) { r.BoundingRectangle = bbox() },
			ctx:      &Context{Accept: []string{"*/*"}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := request(testCollection)
			tt.build(req)
			assert.Equal(t, tt.expected, PermitsDegradedMatch(req, tt.ctx))
		})
	}
}

func TestChooser_LogsDecisions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	chooser := NewChooser(WithLogger(logger))

	req := request(testCollection)
	req.OutputFormat = "gif"
	result := chooser.Choose(req, nil, scenarioCatalog())

	assert.False(t, result.Matched())
	assert.Contains(t, buf.String(), "No service satisfies the request")
	assert.Contains(t, buf.String(), "failedStep=outputFormat")
}

func TestChooser_ConcurrentUseOfSharedCatalog(t *testing.T) {
	t.Parallel()

	services := scenarioCatalog()
	formats := []string{"tiff", "png", "gif", "netcdf4"}
	expected := map[string]string{
		"tiff":    "svc/a",
		"png":     "svc/b",
		"gif":     catalog.NoOpService.Name,
		"netcdf4": "svc/a",
	}
	chooser := NewChooser(WithLogger(slog.New(slog.DiscardHandler)))

	var g errgroup.Group
	for i := range 64 {
		format := formats[i%len(formats)]
		g.Go(func() error {
			req := request(testCollection)
			req.OutputFormat = format
			req.BoundingRectangle = nil
			result := chooser.Choose(req, nil, services)
			if result.Service.Name != expected[format] {
				return fmt.Errorf("format %s: got %s, want %s", format, result.Service.Name, expected[format])
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, svc := range services {
		assert.Empty(t, svc.Message)
	}
}
