package matching

import (
	"github.com/transformhub/service-router/internal/catalog"
)

const testCollection = "C1-PROV"

// scenarioCatalog is the three service catalog used by the documented scenarios
func scenarioCatalog() []*catalog.ServiceDescriptor {
	return []*catalog.ServiceDescriptor{
		{
			Name:        "svc/a",
			Type:        catalog.ServiceTypeWorkflow,
			Collections: []string{testCollection},
			Capabilities: catalog.Capabilities{
				OutputFormats: []string{"tiff", "netcdf4"},
				Subsetting:    catalog.Subsetting{Shape: true},
			},
		},
		{
			Name:        "svc/b",
			Type:        catalog.ServiceTypeWorkflow,
			Collections: []string{testCollection},
			Capabilities: catalog.Capabilities{
				OutputFormats: []string{"tiff", "png"},
				Subsetting:    catalog.Subsetting{BBox: true},
			},
		},
		{
			Name:        "svc/c",
			Type:        catalog.ServiceTypeHTTP,
			Params:      map[string]string{catalog.ParamURL: "http://c.local"},
			Collections: []string{testCollection},
			Capabilities: catalog.Capabilities{
				OutputFormats: []string{"tiff", "png"},
				Reprojection:  true,
			},
		},
	}
}

// mediaCatalog advertises real media types for accept-header driven tests
func mediaCatalog() []*catalog.ServiceDescriptor {
	return []*catalog.ServiceDescriptor{
		{
			Name:        "sds/netcdf-variables",
			Type:        catalog.ServiceTypeWorkflow,
			Collections: []string{testCollection, "C2-PROV"},
			Capabilities: catalog.Capabilities{
				OutputFormats: []string{"application/x-netcdf4"},
				Subsetting:    catalog.Subsetting{Variable: true, BBox: true},
			},
		},
		{
			Name:        "sds/image-reprojector",
			Type:        catalog.ServiceTypeWorkflow,
			Collections: []string{testCollection},
			Capabilities: catalog.Capabilities{
				OutputFormats: []string{"image/png", "image/tiff"},
				Reprojection:  true,
			},
		},
	}
}

func request(collections ...string) *Request {
	req := &Request{}
	for _, c := range collections {
		req.Sources = append(req.Sources, Source{Collection: c})
	}
	return req
}

func bbox() []float64 {
	return []float64{-10, -5, 10, 5}
}
