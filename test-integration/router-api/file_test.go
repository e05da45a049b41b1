package integration

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/transformhub/service-router/internal/api/v1"
	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/internal/matching"
	"github.com/transformhub/service-router/test-integration/router-api/helpers"
)

var _ = Describe("File Source Integration", Label("file"), func() {
	var (
		tempDir      string
		catalogFile  string
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("file-test-")
		catalogFile = helpers.WriteCatalogYAML(tempDir, helpers.StandardCatalogYAML("http://unused.local/run"))
		configFile := helpers.WriteConfigYAML(tempDir, helpers.ConfigOptions{CatalogFile: catalogFile})

		serverHelper = helpers.NewServerTestHelper(ctx, configFile)
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
	})

	AfterEach(func() {
		_ = serverHelper.StopServer()
		cleanupTempDir(tempDir)
	})

	Context("Catalog endpoints", func() {
		It("should list services in catalog order", func() {
			resp, err := serverHelper.GetServices()
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get(v1.CatalogSourceHeader)).To(Equal("file:" + catalogFile))

			var doc catalog.Document
			helpers.DecodeJSON(resp, &doc)

			names := make([]string, 0, len(doc.Services))
			for _, svc := range doc.Services {
				names = append(names, svc.Name)
			}
			Expect(names).To(Equal([]string{
				helpers.TiffShaper, helpers.PNGCropper, helpers.DirectDownload, helpers.Experimental,
			}))
		})

		It("should return a single service by its escaped name", func() {
			resp, err := serverHelper.GetService(helpers.PNGCropper)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var svc catalog.ServiceDescriptor
			helpers.DecodeJSON(resp, &svc)
			Expect(svc.Type).To(Equal(catalog.ServiceTypeHTTP))
			Expect(svc.Capabilities.Subsetting.BBox).To(BeTrue())
		})

		It("should return 404 for an unknown service", func() {
			resp, err := serverHelper.GetService("sds/missing")
			Expect(err).NotTo(HaveOccurred())
			_ = resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("should report readiness once the catalog is loaded", func() {
			resp, err := serverHelper.GetReadiness()
			Expect(err).NotTo(HaveOccurred())
			_ = resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})
	})

	Context("Service selection", func() {
		DescribeTable("choosing a service",
			func(body map[string]any, accept, wantService, wantFormat string, wantDegraded bool) {
				resp, err := serverHelper.Match(body, accept)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var got v1.MatchResponse
				helpers.DecodeJSON(resp, &got)
				Expect(got.Service).To(Equal(wantService))
				Expect(got.OutputFormat).To(Equal(wantFormat))
				Expect(got.Degraded).To(Equal(wantDegraded))
			},
			Entry("bounding box with png output",
				helpers.Request(helpers.CollectionImagery, map[string]any{
					"boundingRectangle": []float64{-10, -10, 10, 10},
					"outputFormat":      "image/png",
				}), "", helpers.PNGCropper, "image/png", false),
			Entry("shape subsetting prefers the earlier service",
				helpers.Request(helpers.CollectionImagery, map[string]any{"hasShape": true}),
				"", helpers.TiffShaper, "", false),
			Entry("accept header picks the first supported type",
				helpers.Request(helpers.CollectionShapes, nil),
				"text/csv, application/x-netcdf4;q=0.9", helpers.TiffShaper, "application/x-netcdf4", false),
			Entry("wildcard accept needs no reformatting",
				helpers.Request(helpers.CollectionImagery, nil),
				"*/*", helpers.TiffShaper, "", false),
			Entry("shape with an unsupported format degrades to bbox service",
				helpers.Request(helpers.CollectionImagery, map[string]any{
					"hasShape":     true,
					"outputFormat": "image/png",
				}), "", helpers.PNGCropper, "image/png", true),
		)

		It("should fall back to no-op for an unknown collection", func() {
			resp, err := serverHelper.Match(helpers.Request(helpers.CollectionUnknown, nil), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var got v1.MatchResponse
			helpers.DecodeJSON(resp, &got)
			Expect(got.Type).To(Equal(catalog.ServiceTypeNoOp))
			Expect(got.Matched).To(BeFalse())
			Expect(got.Message).To(Equal("no operations can be performed on " + helpers.CollectionUnknown))
		})

		It("should explain an unsupported combination", func() {
			resp, err := serverHelper.Match(helpers.Request(helpers.CollectionShapes, map[string]any{
				"crs": "EPSG:3413",
			}), "")
			Expect(err).NotTo(HaveOccurred())

			var got v1.MatchResponse
			helpers.DecodeJSON(resp, &got)
			Expect(got.Matched).To(BeFalse())
			Expect(got.Message).To(ContainSubstring(matching.RequirementReprojection))
			Expect(got.Message).To(ContainSubstring(helpers.CollectionShapes))
		})

		It("should prefer the body accept list over the header", func() {
			body := helpers.Request(helpers.CollectionShapes, map[string]any{
				"accept": []string{"image/tiff"},
			})
			resp, err := serverHelper.Match(body, "application/x-netcdf4")
			Expect(err).NotTo(HaveOccurred())

			var got v1.MatchResponse
			helpers.DecodeJSON(resp, &got)
			Expect(got.OutputFormat).To(Equal("image/tiff"))
		})

		It("should reject malformed requests", func() {
			for _, body := range []string{`{"sources": [`, `{"sources": []}`, `{"sources": [{"collection": ""}]}`} {
				resp, err := serverHelper.Match(body, "")
				Expect(err).NotTo(HaveOccurred())
				_ = resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest), body)
			}
		})
	})
})
