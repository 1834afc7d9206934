// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Assignment outcomes.
const (
	OutcomeAssigned         = "assigned"
	OutcomeCapacityExceeded = "capacity_exceeded"
	OutcomeRaceLost         = "race_lost"
)

// Side effect results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics owns a private registry so tests can build as many instances as they need.
type Metrics struct {
	registry *prometheus.Registry

	AssignmentsTotal         *prometheus.CounterVec
	NotificationsTotal       *prometheus.CounterVec
	TimelineEventsPublished  *prometheus.CounterVec
	CapacityCountersRepaired prometheus.Counter
	HTTPRequestsTotal        *prometheus.CounterVec
	HTTPRequestDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		AssignmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fastship_partner_assignments_total",
				Help: "Delivery partner assignment attempts by outcome",
			},
			[]string{"outcome"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fastship_notifications_total",
				Help: "E-mail tasks handed to the task queue",
			},
			[]string{"template", "result"},
		),
		TimelineEventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fastship_timeline_events_published_total",
				Help: "Timeline events written to the event stream",
			},
			[]string{"result"},
		),
		CapacityCountersRepaired: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fastship_capacity_counters_repaired_total",
				Help: "Partner reservation counters corrected by the reconcile job",
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"handler", "method"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.AssignmentsTotal,
		m.NotificationsTotal,
		m.TimelineEventsPublished,
		m.CapacityCountersRepaired,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
