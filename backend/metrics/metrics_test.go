package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"k8s.io/client-go/util/workqueue"
)

func TestInstrumentRecordsStatus(t *testing.T) {
	reg := NewRegistry()
	m := NewHTTPMetrics(reg)

	handler := m.Instrument("GET /api/v1/agents/{id}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("missing") != "" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "ok")
	}))

	for _, target := range []string{"/api/v1/agents/1", "/api/v1/agents/2", "/api/v1/agents/3?missing=1"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	expected := `
# HELP http_requests_total HTTP requests by route, method and status code.
# TYPE http_requests_total counter
http_requests_total{code="200",method="GET",route="GET /api/v1/agents/{id}"} 2
http_requests_total{code="404",method="GET",route="GET /api/v1/agents/{id}"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_requests_total"); err != nil {
		t.Fatal(err)
	}
	if n := testutil.CollectAndCount(m.duration); n != 1 {
		t.Errorf("expected one latency series, got %d", n)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	reg := NewRegistry()
	NewHTTPMetrics(reg).Instrument("GET /health", http.NotFoundHandler()).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, name := range []string{"go_goroutines", "http_requests_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("exposition misses %s", name)
		}
	}
}

func TestWorkqueueMetricsProvider(t *testing.T) {
	reg := NewRegistry()
	queue := workqueue.NewTypedWithConfig(workqueue.TypedQueueConfig[string]{
		Name:            "executions",
		MetricsProvider: NewWorkqueueMetricsProvider(reg),
	})
	defer queue.ShutDown()

	queue.Add("a")
	queue.Add("b")

	expected := `
# HELP workqueue_adds_total Total number of adds handled by the workqueue.
# TYPE workqueue_adds_total counter
workqueue_adds_total{name="executions"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "workqueue_adds_total"); err != nil {
		t.Fatal(err)
	}
}
