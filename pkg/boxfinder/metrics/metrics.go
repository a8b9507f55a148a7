// Package metrics exposes Prometheus collectors for the onboarding service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "boxfinder"

// Metrics holds the service collectors. It satisfies workflow.Recorder and
// sessions.Gauge (through Sessions).
type Metrics struct {
	registry *prometheus.Registry

	transitions *prometheus.CounterVec
	lookups     *prometheus.CounterVec
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	imports     *prometheus.CounterVec

	// Sessions is the number of live onboarding sessions
	Sessions prometheus.Gauge
}

// New registers the collectors on a fresh registry. The Go runtime and
// process collectors are included when withRuntime is set.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_transitions_total",
			Help:      "number of workflow step transitions",
		}, []string{"from", "to"}),
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "number of completed lookups by source and outcome",
		}, []string{"source", "outcome"}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "number of HTTP requests handled",
		}, []string{"method", "route", "status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		imports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_boxes_total",
			Help:      "boxes processed by bulk import",
		}, []string{"result"}),
		Sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "number of live onboarding sessions",
		}),
	}
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Transition records a workflow step change
func (m *Metrics) Transition(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}

// Lookup records the outcome of a directory or place lookup
func (m *Metrics) Lookup(source, outcome string) {
	m.lookups.WithLabelValues(source, outcome).Inc()
}

// Imported records the results of a bulk import
func (m *Metrics) Imported(imported, skipped, failed int) {
	m.imports.WithLabelValues("imported").Add(float64(imported))
	m.imports.WithLabelValues("skipped").Add(float64(skipped))
	m.imports.WithLabelValues("failed").Add(float64(failed))
}

// Middleware counts requests and observes their latency. Routes are labelled
// by their registered pattern so path parameters do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return gin.WrapH(h)
}
