// Package metrics exposes Prometheus instrumentation for the HTTP API and
// the inventory workflows.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors and the registry they live in. Using an
// explicit registry keeps tests independent of global state.
type Metrics struct {
	registry *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec

	UsageLogged   prometheus.Counter
	DamageReports prometheus.Counter
	RequestsFiled *prometheus.CounterVec
	ScanJobsRun   *prometheus.CounterVec
}

// New creates a Metrics with all collectors registered, alongside the
// standard Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stationstock_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stationstock_http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		UsageLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stationstock_usage_events_total",
			Help: "Total usage events logged against inventory.",
		}),
		DamageReports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stationstock_damage_reports_total",
			Help: "Total damage reports filed.",
		}),
		RequestsFiled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stationstock_maintenance_requests_total",
			Help: "Maintenance requests filed, by category.",
		}, []string{"category"}),
		ScanJobsRun: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stationstock_scan_jobs_total",
			Help: "Stock scan jobs processed, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.RequestDuration,
		m.RequestsTotal,
		m.UsageLogged,
		m.DamageReports,
		m.RequestsFiled,
		m.ScanJobsRun,
	)
	return m
}

// Handler returns the /metrics scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
