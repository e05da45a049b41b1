// Package catalog holds the statically configured set of backend transformation
// services and their advertised capabilities.
//
// A Catalog is loaded once at startup from a YAML descriptor and is read-only
// afterwards: the matching engine receives it by explicit parameter passing and
// may share one instance across concurrent requests. Entries are never mutated
// in place; callers that need to annotate an entry (for example with a warning
// message) must work on a Clone.
//
// # Descriptor format
//
//	services:
//	  - name: sds/gdal-reformatter
//	    type: workflow
//	    params:
//	      template: gdal
//	    collections: [C1234-PROV]
//	    capabilities:
//	      outputFormats: [image/tiff, application/x-netcdf4]
//	      subsetting: {variable: false, bbox: true, shape: false}
//	      reprojection: true
//	    maximumSyncGranules: 1
//
// Loading validates the document against an embedded JSON Schema first, then
// applies semantic checks (unique names, name format, collection ids, type
// specific parameters). A granule ceiling above the system-wide maximum is
// reported as a warning only.
package catalog
