package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/onsi/gomega"
	"sigs.k8s.io/yaml"
)

// NewMockCatalogServer serves catalogYAML as JSON on /v1/services, the way a
// router exposes its own catalog
func NewMockCatalogServer(catalogYAML string) *httptest.Server {
	body, err := yaml.YAMLToJSON([]byte(catalogYAML))
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/services", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})
	return httptest.NewServer(mux)
}

// NewNotFoundServer answers every request with 404
func NewNotFoundServer() *httptest.Server {
	return httptest.NewServer(http.NotFoundHandler())
}

// MockHTTPService records posted jobs and answers with a fixed job result
type MockHTTPService struct {
	*httptest.Server

	mu   sync.Mutex
	jobs []map[string]any
}

// NewMockHTTPService starts a synchronous service answering every job with response
func NewMockHTTPService(response map[string]any) *MockHTTPService {
	m := &MockHTTPService{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var job map[string]any
		if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		m.mu.Lock()
		m.jobs = append(m.jobs, job)
		m.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	return m
}

// Jobs returns the jobs received so far
func (m *MockHTTPService) Jobs() []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]map[string]any(nil), m.jobs...)
}

// MockWorkflowEngine accepts workflow submissions and reports the given phases
// one status poll at a time, repeating the last phase once they run out.
type MockWorkflowEngine struct {
	*httptest.Server

	mu        sync.Mutex
	phases    []string
	polls     int
	templates []string
	links     []map[string]any
}

// NewMockWorkflowEngine starts an engine whose workflow passes through phases
func NewMockWorkflowEngine(links []map[string]any, phases ...string) *MockWorkflowEngine {
	m := &MockWorkflowEngine{phases: phases, links: links}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /workflows", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var submission struct {
			Template string `json:"template"`
		}
		if err := json.Unmarshal(body, &submission); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		m.mu.Lock()
		m.templates = append(m.templates, submission.Template)
		m.mu.Unlock()

		writeJSON(w, map[string]any{"id": "wf-1", "phase": "Pending"})
	})
	mux.HandleFunc("GET /workflows/{id}", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		phase := m.phases[min(m.polls, len(m.phases)-1)]
		m.polls++
		m.mu.Unlock()

		status := map[string]any{"id": r.PathValue("id"), "phase": phase}
		if phase == "Succeeded" {
			status["links"] = m.links
		} else if phase == "Failed" {
			status["message"] = "workflow step failed"
		}
		writeJSON(w, status)
	})
	m.Server = httptest.NewServer(mux)
	return m
}

// Templates returns the templates submitted so far
func (m *MockWorkflowEngine) Templates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.templates...)
}

// Polls returns the number of status polls served
func (m *MockWorkflowEngine) Polls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
