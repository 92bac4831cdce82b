package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "matchday"

// Metrics owns a private registry so tests can build as many instances as
// they need without colliding on the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	gateDecisions      *prometheus.CounterVec
	submissions        *prometheus.CounterVec
	submissionLatency  *prometheus.HistogramVec
	httpRequests       *prometheus.CounterVec
	httpRequestLatency *prometheus.HistogramVec
	liveSubscribers    prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,
		gateDecisions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Idempotency and rate-limit gate decisions by outcome.",
		}, []string{"gate", "outcome"}),
		submissions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "events",
			Name:      "submissions_total",
			Help:      "Match event submissions by type and outcome.",
		}, []string{"type", "outcome"}),
		submissionLatency: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "events",
			Name:      "submission_duration_seconds",
			Help:      "End-to-end latency of a match event submission.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpRequestLatency: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		liveSubscribers: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "livefeed",
			Name:      "subscribers",
			Help:      "Connected live scoreboard websocket clients.",
		}),
	}
}

func (m *Metrics) GateDecision(gate, outcome string) {
	if m == nil {
		return
	}
	m.gateDecisions.WithLabelValues(gate, outcome).Inc()
}

func (m *Metrics) Submission(eventType, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(eventType, outcome).Inc()
	m.submissionLatency.WithLabelValues(eventType).Observe(elapsed.Seconds())
}

func (m *Metrics) HTTPRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) SubscribersChanged(delta int) {
	if m == nil {
		return
	}
	m.liveSubscribers.Add(float64(delta))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
