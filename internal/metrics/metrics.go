// Package metrics provides Prometheus metrics for settingsd.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeSaved        = "saved"
	OutcomeForbidden    = "forbidden"
	OutcomeInvalidToken = "invalid_token"
	OutcomeInvalid      = "invalid"
	OutcomeError        = "error"
)

// Metrics holds the collectors of one server. Labels never carry request
// or user identifiers.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RendersTotal    *prometheus.CounterVec
	SubmitsTotal    *prometheus.CounterVec
}

// New registers the settingsd collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "settingsd_http_requests_total",
			Help: "Total HTTP requests, by route, method and status code.",
		}, []string{"route", "method", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "settingsd_http_request_duration_seconds",
			Help:    "HTTP request latency, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		RendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "settingsd_page_renders_total",
			Help: "Settings page renders, by result (rendered/denied).",
		}, []string{"result"}),
		SubmitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "settingsd_submissions_total",
			Help: "Settings submissions through the form or the API, by source and outcome.",
		}, []string{"source", "outcome"}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordRender counts a page render; denied renders produce no output.
func (m *Metrics) RecordRender(denied bool) {
	if m == nil {
		return
	}
	result := "rendered"
	if denied {
		result = "denied"
	}
	m.RendersTotal.WithLabelValues(result).Inc()
}

// RecordSubmit counts a submission outcome for source ("form" or "api").
func (m *Metrics) RecordSubmit(source, outcome string) {
	if m == nil {
		return
	}
	m.SubmitsTotal.WithLabelValues(source, outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
