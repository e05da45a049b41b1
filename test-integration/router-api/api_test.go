package integration

import (
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/transformhub/service-router/internal/api/v1"
	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/test-integration/router-api/helpers"
)

func serviceNames(doc catalog.Document) []string {
	names := make([]string, 0, len(doc.Services))
	for _, svc := range doc.Services {
		names = append(names, svc.Name)
	}
	return names
}

var _ = Describe("API Source Integration", Label("api"), func() {
	var (
		tempDir      string
		mockCatalog  *httptest.Server
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("api-test-")
	})

	AfterEach(func() {
		if serverHelper != nil {
			_ = serverHelper.StopServer()
			serverHelper = nil
		}
		if mockCatalog != nil {
			mockCatalog.Close()
			mockCatalog = nil
		}
		cleanupTempDir(tempDir)
	})

	Context("Remote catalog", func() {
		BeforeEach(func() {
			mockCatalog = helpers.NewMockCatalogServer(helpers.StandardCatalogYAML("http://cropper.local/run"))
		})

		It("should load every service from the remote endpoint", func() {
			configFile := helpers.WriteConfigYAML(tempDir, helpers.ConfigOptions{CatalogEndpoint: mockCatalog.URL})
			serverHelper = helpers.NewServerTestHelper(ctx, configFile)
			Expect(serverHelper.StartServer()).To(Succeed())
			serverHelper.WaitForServerReady(10 * time.Second)

			resp, err := serverHelper.GetServices()
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Header.Get(v1.CatalogSourceHeader)).To(Equal("api:" + mockCatalog.URL))

			var doc catalog.Document
			helpers.DecodeJSON(resp, &doc)
			Expect(serviceNames(doc)).To(HaveLen(4))
		})

		It("should apply name and type filters", func() {
			configFile := helpers.WriteConfigYAML(tempDir, helpers.ConfigOptions{
				CatalogEndpoint: mockCatalog.URL,
				NameInclude:     []string{"sds/*"},
				TypeExclude:     []string{string(catalog.ServiceTypeWorkflow)},
			})
			serverHelper = helpers.NewServerTestHelper(ctx, configFile)
			Expect(serverHelper.StartServer()).To(Succeed())
			serverHelper.WaitForServerReady(10 * time.Second)

			resp, err := serverHelper.GetServices()
			Expect(err).NotTo(HaveOccurred())

			var doc catalog.Document
			helpers.DecodeJSON(resp, &doc)
			Expect(serviceNames(doc)).To(Equal([]string{helpers.PNGCropper, helpers.DirectDownload}))

			By("matching only among the remaining services")
			resp, err = serverHelper.Match(helpers.Request(helpers.CollectionImagery, map[string]any{"hasShape": true}), "")
			Expect(err).NotTo(HaveOccurred())

			var got v1.MatchResponse
			helpers.DecodeJSON(resp, &got)
			Expect(got.Matched).To(BeFalse())
			Expect(got.Type).To(Equal(catalog.ServiceTypeNoOp))
		})
	})

	Context("Chained routers", func() {
		var primary *helpers.ServerTestHelper

		AfterEach(func() {
			if primary != nil {
				_ = primary.StopServer()
				primary = nil
			}
		})

		It("should mirror the catalog of another router", func() {
			primaryDir := createTempDir("api-primary-")
			DeferCleanup(cleanupTempDir, primaryDir)

			catalogFile := helpers.WriteCatalogYAML(primaryDir, helpers.StandardCatalogYAML("http://cropper.local/run"))
			primary = helpers.NewServerTestHelper(ctx,
				helpers.WriteConfigYAML(primaryDir, helpers.ConfigOptions{CatalogFile: catalogFile}))
			Expect(primary.StartServer()).To(Succeed())
			primary.WaitForServerReady(10 * time.Second)

			configFile := helpers.WriteConfigYAML(tempDir, helpers.ConfigOptions{
				CatalogEndpoint: primary.GetBaseURL(),
				NameExclude:     []string{"*-experimental"},
			})
			serverHelper = helpers.NewServerTestHelper(ctx, configFile)
			Expect(serverHelper.StartServer()).To(Succeed())
			serverHelper.WaitForServerReady(10 * time.Second)

			resp, err := serverHelper.GetServices()
			Expect(err).NotTo(HaveOccurred())

			var doc catalog.Document
			helpers.DecodeJSON(resp, &doc)
			Expect(serviceNames(doc)).To(Equal([]string{
				helpers.TiffShaper, helpers.PNGCropper, helpers.DirectDownload,
			}))
		})
	})

	Context("Unavailable catalog", func() {
		It("should stay alive but report not ready", func() {
			mockCatalog = helpers.NewNotFoundServer()
			configFile := helpers.WriteConfigYAML(tempDir, helpers.ConfigOptions{CatalogEndpoint: mockCatalog.URL})
			serverHelper = helpers.NewServerTestHelper(ctx, configFile)
			Expect(serverHelper.StartServer()).To(Succeed())
			serverHelper.WaitForServerReady(10 * time.Second)

			resp, err := serverHelper.GetReadiness()
			Expect(err).NotTo(HaveOccurred())
			_ = resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))

			resp, err = serverHelper.Match(helpers.Request(helpers.CollectionImagery, nil), "")
			Expect(err).NotTo(HaveOccurred())
			_ = resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		})
	})
})
