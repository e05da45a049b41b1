package integration

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/transformhub/service-router/internal/api/v1"
	"github.com/transformhub/service-router/internal/invoke"
	"github.com/transformhub/service-router/test-integration/router-api/helpers"
)

var _ = Describe("Job Dispatch Integration", Label("jobs"), func() {
	var (
		tempDir      string
		httpService  *helpers.MockHTTPService
		engine       *helpers.MockWorkflowEngine
		serverHelper *helpers.ServerTestHelper
	)

	outputLinks := []map[string]any{{"href": "https://outputs.local/wf-1/out.tif", "rel": "data"}}

	startRouter := func(phases ...string) {
		engine = helpers.NewMockWorkflowEngine(outputLinks, phases...)

		catalogFile := helpers.WriteCatalogYAML(tempDir, helpers.StandardCatalogYAML(httpService.URL+"/run"))
		configFile := helpers.WriteConfigYAML(tempDir, helpers.ConfigOptions{
			CatalogFile:      catalogFile,
			WorkflowEndpoint: engine.URL,
			PollInterval:     "10ms",
			WorkflowTimeout:  "30s",
		})

		serverHelper = helpers.NewServerTestHelper(ctx, configFile)
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
	}

	submit := func(body map[string]any) v1.JobResponse {
		resp, err := serverHelper.SubmitJob(body)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var got v1.JobResponse
		helpers.DecodeJSON(resp, &got)
		Expect(got.JobID).NotTo(BeEmpty())
		return got
	}

	BeforeEach(func() {
		tempDir = createTempDir("jobs-test-")
		httpService = helpers.NewMockHTTPService(map[string]any{
			"status": "successful",
			"links":  []map[string]any{{"href": "https://outputs.local/crop.png", "type": "image/png"}},
		})
	})

	AfterEach(func() {
		if serverHelper != nil {
			_ = serverHelper.StopServer()
			serverHelper = nil
		}
		if engine != nil {
			engine.Close()
			engine = nil
		}
		httpService.Close()
		cleanupTempDir(tempDir)
	})

	Context("No-op services", func() {
		It("should return direct download links", func() {
			startRouter("Succeeded")

			got := submit(helpers.RequestWithGranules(helpers.CollectionDownload,
				"https://data.local/G1.h5", "https://data.local/G2.h5"))

			Expect(got.Status).To(Equal(invoke.StatusSuccessful))
			Expect(got.Match.Service).To(Equal(helpers.DirectDownload))
			Expect(got.Message).To(HavePrefix(invoke.DirectDownloadMessage))
			Expect(got.Links).To(HaveLen(2))
			Expect(got.Links[0].Href).To(Equal("https://data.local/G1.h5"))
			Expect(got.Links[1].Href).To(Equal("https://data.local/G2.h5"))
		})

		It("should explain why nothing matched", func() {
			startRouter("Succeeded")

			got := submit(helpers.RequestWithGranules(helpers.CollectionUnknown, "https://data.local/G9.h5"))

			Expect(got.Match.Matched).To(BeFalse())
			Expect(got.Message).To(Equal(invoke.DirectDownloadMessage +
				", no operations can be performed on " + helpers.CollectionUnknown))
			Expect(got.Links).To(HaveLen(1))
		})
	})

	Context("HTTP services", func() {
		It("should post the job to the service url", func() {
			startRouter("Succeeded")

			got := submit(helpers.Request(helpers.CollectionImagery, map[string]any{
				"boundingRectangle": []float64{0, 0, 5, 5},
				"outputFormat":      "image/png",
			}))

			Expect(got.Status).To(Equal(invoke.StatusSuccessful))
			Expect(got.Match.Service).To(Equal(helpers.PNGCropper))
			Expect(got.Links).To(HaveLen(1))
			Expect(got.Links[0].Href).To(Equal("https://outputs.local/crop.png"))

			jobs := httpService.Jobs()
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0]["jobID"]).To(Equal(got.JobID))
			Expect(jobs[0]["service"]).To(Equal(helpers.PNGCropper))
			Expect(jobs[0]["outputFormat"]).To(Equal("image/png"))
		})
	})

	Context("Workflow services", func() {
		It("should poll the workflow until it succeeds", func() {
			startRouter("Running", "Running", "Succeeded")

			got := submit(helpers.Request(helpers.CollectionShapes, map[string]any{"hasShape": true}))

			Expect(got.Status).To(Equal(invoke.StatusSuccessful))
			Expect(got.Match.Service).To(Equal(helpers.TiffShaper))
			Expect(got.Links).To(HaveLen(1))
			Expect(got.Links[0].Href).To(Equal("https://outputs.local/wf-1/out.tif"))
			Expect(engine.Templates()).To(Equal([]string{"shaper"}))
			Expect(engine.Polls()).To(Equal(3))
		})

		It("should report a failed workflow", func() {
			startRouter("Running", "Failed")

			got := submit(helpers.Request(helpers.CollectionShapes, map[string]any{"hasShape": true}))

			Expect(got.Status).To(Equal(invoke.StatusFailed))
			Expect(got.Message).To(Equal("workflow step failed"))
			Expect(got.Links).To(BeEmpty())
		})
	})
})
