package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics implements LabMetrics with client_golang
// collectors on a private registry, so several instances can
// coexist in one process.
type PrometheusMetrics struct {
	registry       *prometheus.Registry
	actions        *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
	detections     *prometheus.CounterVec
	solves         *prometheus.CounterVec
	completions    *prometheus.CounterVec
	assertions     *prometheus.CounterVec
	sessions       prometheus.Gauge
	httpRequests   *prometheus.CounterVec
}

// NewPrometheusMetrics creates and registers the lab collectors
// together with the Go runtime and process collectors.
func NewPrometheusMetrics() *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qalabs_actions_total",
			Help: "Total actions handled by scenario and action name.",
		}, []string{"scenario", "action"}),
		actionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qalabs_action_duration_seconds",
			Help:    "Histogram of detector evaluation time by scenario.",
			Buckets: prometheus.DefBuckets,
		}, []string{"scenario"}),
		detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qalabs_detections_total",
			Help: "Total detection events by scenario and kind.",
		}, []string{"scenario", "kind"}),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qalabs_rules_solved_total",
			Help: "Total newly solved edge cases by scenario.",
		}, []string{"scenario", "edge_case"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qalabs_completions_total",
			Help: "Total scenarios brought to 100 percent.",
		}, []string{"scenario"}),
		assertions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qalabs_assertions_total",
			Help: "Total walkthrough expectations by evaluator and outcome.",
		}, []string{"scenario", "evaluator", "status"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "qalabs_active_sessions",
			Help: "Number of live scenario sessions.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qalabs_http_requests_total",
			Help: "Total HTTP requests by route and status.",
		}, []string{"route", "status"}),
	}

	m.registry.MustRegister(
		m.actions,
		m.actionDuration,
		m.detections,
		m.solves,
		m.completions,
		m.assertions,
		m.sessions,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *PrometheusMetrics) RecordAction(scenarioID, action string, duration time.Duration) {
	m.actions.WithLabelValues(scenarioID, action).Inc()
	m.actionDuration.WithLabelValues(scenarioID).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordDetection(scenarioID, kind string) {
	m.detections.WithLabelValues(scenarioID, kind).Inc()
}

func (m *PrometheusMetrics) RecordSolve(scenarioID, edgeCaseID string) {
	m.solves.WithLabelValues(scenarioID, edgeCaseID).Inc()
}

func (m *PrometheusMetrics) RecordCompletion(scenarioID string) {
	m.completions.WithLabelValues(scenarioID).Inc()
}

func (m *PrometheusMetrics) RecordAssertion(scenarioID, evaluator string, passed bool) {
	status := "failed"
	if passed {
		status = "passed"
	}
	m.assertions.WithLabelValues(scenarioID, evaluator, status).Inc()
}

func (m *PrometheusMetrics) SetActiveSessions(count int) {
	m.sessions.Set(float64(count))
}

// Registry returns the private collector registry.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition
// format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler counts requests to next under the route label.
func (m *PrometheusMetrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		m.httpRequests.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
	})
}
