package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordersIncrementCounters(t *testing.T) {
	m := New()
	m.ObserveRequest("/admin/{slug}", http.MethodGet, 200, 10*time.Millisecond)
	m.ObserveRequest("", http.MethodGet, 404, time.Millisecond)
	m.RecordRender(true)
	m.RecordRender(false)
	m.RecordRender(false)
	m.RecordSubmit("form", OutcomeSaved)

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/admin/{slug}", "GET", "200")); got != 1 {
		t.Fatalf("requests = %v", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Fatalf("unmatched requests = %v", got)
	}
	if got := testutil.ToFloat64(m.RendersTotal.WithLabelValues("rendered")); got != 2 {
		t.Fatalf("rendered = %v", got)
	}
	if got := testutil.ToFloat64(m.SubmitsTotal.WithLabelValues("form", OutcomeSaved)); got != 1 {
		t.Fatalf("submits = %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("/", "GET", 200, 0)
	m.RecordRender(false)
	m.RecordSubmit("api", OutcomeError)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RecordSubmit("api", OutcomeInvalid)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `settingsd_submissions_total{outcome="invalid",source="api"} 1`) {
		t.Fatalf("expected submission counter in output:\n%s", body)
	}
}
