package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transformhub/service-router/internal/catalog"
)

func serviceNames(services []*catalog.ServiceDescriptor) []string {
	out := make([]string, 0, len(services))
	for _, s := range services {
		out = append(out, s.Name)
	}
	return out
}

func TestRunChain_CollectionFilter(t *testing.T) {
	t.Parallel()

	services := mediaCatalog()

	outcome := runChain(strictChain, request(testCollection, "C2-PROV"), nil, services)
	require.False(t, outcome.eliminated())
	assert.Equal(t, []string{"sds/netcdf-variables"}, serviceNames(outcome.candidates))

	outcome = runChain(strictChain, request("C9-PROV"), nil, services)
	require.True(t, outcome.eliminated())
	assert.Empty(t, outcome.unsupported.Requirements, "the collection filter is not a requirement")
	assert.Equal(t, "collections", outcome.failedStep)
}

func TestRunChain_RequirementLogOrder(t *testing.T) {
	t.Parallel()

	everything := &catalog.ServiceDescriptor{
		Name:        "t/everything",
		Collections: []string{testCollection},
		Capabilities: catalog.Capabilities{
			OutputFormats: []string{"image/png"},
			Subsetting:    catalog.Subsetting{Variable: true, BBox: true, Shape: false},
			Reprojection:  true,
		},
	}
	req := &Request{
		Sources:           []Source{{Collection: testCollection, Variables: []string{"sst"}}},
		BoundingRectangle: bbox(),
		HasShape:          true,
		CRS:               "EPSG:3413",
		OutputFormat:      "image/png",
	}

	outcome := runChain(strictChain, req, nil, []*catalog.ServiceDescriptor{everything})
	require.True(t, outcome.eliminated())
	assert.Equal(t, "shapefile", outcome.failedStep)
	assert.Equal(t, []string{
		RequirementVariableSubsetting,
		RequirementSpatialSubsetting,
		RequirementShapefileSubsetting,
	}, outcome.unsupported.Requirements, "log includes the failing step but nothing after it")

	everything.Capabilities.Subsetting.Shape = true
	outcome = runChain(strictChain, req, nil, []*catalog.ServiceDescriptor{everything})
	require.False(t, outcome.eliminated())
	assert.Equal(t, "image/png", outcome.outputFormat)
}

func TestRunChain_ReducedSkipsSoftAxes(t *testing.T) {
	t.Parallel()

	req := request(testCollection)
	req.BoundingRectangle = bbox()
	req.HasShape = true
	req.CRS = "EPSG:4326"

	outcome := runChain(reducedChain, req, nil, scenarioCatalog())
	require.False(t, outcome.eliminated())
	assert.Equal(t, []string{"svc/c"}, serviceNames(outcome.candidates))
}

func TestRunChain_AcceptPatterns(t *testing.T) {
	t.Parallel()

	ctx := &Context{Accept: []string{"image/gif", "image/*"}}
	outcome := runChain(strictChain, request(testCollection), ctx, mediaCatalog())
	require.False(t, outcome.eliminated())
	assert.Equal(t, "image/png", outcome.outputFormat)
	assert.Equal(t, []string{"sds/image-reprojector"}, serviceNames(outcome.candidates))

	ctx = &Context{Accept: []string{"image/gif", "text/csv"}}
	outcome = runChain(strictChain, request(testCollection), ctx, mediaCatalog())
	require.True(t, outcome.eliminated())
	assert.Equal(t, []string{"reformatting to image/gif or text/csv"}, outcome.unsupported.Requirements)
}

func TestRunChain_NoReformattingPassesThrough(t *testing.T) {
	t.Parallel()

	ctx := &Context{Accept: []string{"image/png", "*/*"}}
	outcome := runChain(strictChain, request(testCollection), ctx, mediaCatalog())
	require.False(t, outcome.eliminated())
	assert.Empty(t, outcome.outputFormat)
	assert.Len(t, outcome.candidates, 2)
}

func TestRunChain_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	services := scenarioCatalog()
	before := serviceNames(services)

	req := request(testCollection)
	req.CRS = "EPSG:4326"
	_ = runChain(strictChain, req, nil, services)

	assert.Equal(t, before, serviceNames(services))
}
