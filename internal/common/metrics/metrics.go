// Package metrics provides Prometheus metrics for qaboard.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "qaboard"

// Metrics holds all Prometheus metrics for the service.
// Each instance owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// View metrics
	ViewsOpenedTotal *prometheus.CounterVec
	ViewEventsTotal  *prometheus.CounterVec

	// Composition submit outcomes
	DraftsSubmittedTotal *prometheus.CounterVec
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	m.ViewsOpenedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_opened_total",
			Help:      "Total number of view resources opened",
		},
		[]string{"kind"},
	)

	m.ViewEventsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_events_total",
			Help:      "Total number of events applied to views",
		},
		[]string{"kind", "event", "outcome"},
	)

	m.DraftsSubmittedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_submitted_total",
			Help:      "Total number of question drafts handed to the submitter",
		},
		[]string{"outcome"},
	)

	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records a finished HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordViewOpened counts a new view of the given kind.
func (m *Metrics) RecordViewOpened(kind string) {
	m.ViewsOpenedTotal.WithLabelValues(kind).Inc()
}

// RecordViewEvent counts an event applied to a view. A nil error is "ok".
func (m *Metrics) RecordViewEvent(kind, event string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	m.ViewEventsTotal.WithLabelValues(kind, event, outcome).Inc()
}

// RecordDraftSubmitted counts a submit attempt.
func (m *Metrics) RecordDraftSubmitted(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.DraftsSubmittedTotal.WithLabelValues(outcome).Inc()
}
