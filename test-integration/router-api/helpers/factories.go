package helpers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/onsi/gomega"
)

// Service names of the standard test catalog, in precedence order
const (
	TiffShaper     = "sds/tiff-shaper"
	PNGCropper     = "sds/png-cropper"
	DirectDownload = "sds/direct-download"
	Experimental   = "lab/netcdf-experimental"
)

// Collections of the standard test catalog
const (
	CollectionImagery  = "C1-PROV"
	CollectionShapes   = "C2-PROV"
	CollectionDownload = "C3-PROV"
	CollectionUnknown  = "C9-PROV"
)

// StandardCatalogYAML renders the standard test catalog. httpURL is the
// endpoint of both http services.
func StandardCatalogYAML(httpURL string) string {
	return fmt.Sprintf(`
services:
  - name: %[1]s
    type: workflow
    params:
      template: shaper
    collections: [%[5]s, %[6]s]
    capabilities:
      outputFormats: [image/tiff, application/x-netcdf4]
      subsetting:
        shape: true
  - name: %[2]s
    type: http
    params:
      url: %[9]s
    collections: [%[5]s]
    capabilities:
      outputFormats: [image/tiff, image/png]
      subsetting:
        bbox: true
  - name: %[3]s
    type: noop
    collections: [%[7]s]
  - name: %[4]s
    type: http
    params:
      url: %[9]s
    collections: [%[8]s]
    capabilities:
      outputFormats: [application/x-netcdf4]
`, TiffShaper, PNGCropper, DirectDownload, Experimental,
		CollectionImagery, CollectionShapes, CollectionDownload, "C4-PROV", httpURL)
}

// WriteCatalogYAML writes a catalog file into dir and returns its path
func WriteCatalogYAML(dir, content string) string {
	path := filepath.Join(dir, "services.yaml")
	gomega.Expect(os.WriteFile(path, []byte(content), 0600)).To(gomega.Succeed())
	return path
}

// Request builds a POST /v1/match body for a single collection
func Request(collection string, fields map[string]any) map[string]any {
	body := map[string]any{
		"sources": []map[string]any{{"collection": collection}},
	}
	for k, v := range fields {
		body[k] = v
	}
	return body
}

// RequestWithGranules builds a request body whose source carries granules
func RequestWithGranules(collection string, granuleURLs ...string) map[string]any {
	granules := make([]map[string]any, 0, len(granuleURLs))
	for i, u := range granuleURLs {
		granules = append(granules, map[string]any{"id": fmt.Sprintf("G%d-PROV", i+1), "url": u})
	}
	return map[string]any{
		"sources": []map[string]any{{"collection": collection, "granules": granules}},
	}
}
