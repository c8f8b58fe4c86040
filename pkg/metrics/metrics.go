// Package metrics defines the prometheus collectors exposed by the service:
// HTTP request counters/latencies, database query metrics, connection pool
// gauges and sweep (background scheduler) counters.
package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every collector registered by the service.
type Metrics struct {
	service string

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec

	dbQueriesTotal *prometheus.CounterVec
	dbDuration     *prometheus.HistogramVec

	dbPoolOpen  *prometheus.GaugeVec
	dbPoolInUse *prometheus.GaugeVec
	dbPoolIdle  *prometheus.GaugeVec

	sweepRunsTotal         *prometheus.CounterVec
	sweepTransitionsTotal  *prometheus.CounterVec
	sweepRemindersTotal    *prometheus.CounterVec
	sweepDuration          *prometheus.HistogramVec
}

// New registers all collectors on the default registry.
func New(service string) *Metrics {
	return &Metrics{
		service: service,

		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status code.",
		}, []string{"service", "method", "path", "status"}),

		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total database queries by operation and outcome.",
		}, []string{"service", "operation", "status"}),

		dbDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"service", "operation"}),

		dbPoolOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_open_connections",
			Help: "Open connections in the pool.",
		}, []string{"service"}),

		dbPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_in_use_connections",
			Help: "Connections currently in use.",
		}, []string{"service"}),

		dbPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_idle_connections",
			Help: "Idle connections in the pool.",
		}, []string{"service"}),

		sweepRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sweep_runs_total",
			Help: "Sweep iterations by outcome (ok|error).",
		}, []string{"service", "status"}),

		sweepTransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sweep_transitions_total",
			Help: "Automatic reservation transitions applied by the sweep.",
		}, []string{"service", "transition"}),

		sweepRemindersTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sweep_reminders_total",
			Help: "Pre-start reminders dispatched by the sweep.",
		}, []string{"service"}),

		sweepDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sweep_duration_seconds",
			Help:    "Duration of one sweep iteration.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30},
		}, []string{"service"}),
	}
}

// ObserveHTTP records one handled HTTP request.
func (m *Metrics) ObserveHTTP(method, path, status string, d time.Duration) {
	m.httpRequestsTotal.WithLabelValues(m.service, method, path, status).Inc()
	m.httpDuration.WithLabelValues(m.service, method, path).Observe(d.Seconds())
}

// ObserveDBQuery records one database query.
func (m *Metrics) ObserveDBQuery(operation string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(m.service, operation, status).Inc()
	m.dbDuration.WithLabelValues(m.service, operation).Observe(d.Seconds())
}

// SetPoolStats publishes current connection pool statistics.
func (m *Metrics) SetPoolStats(stats sql.DBStats) {
	m.dbPoolOpen.WithLabelValues(m.service).Set(float64(stats.OpenConnections))
	m.dbPoolInUse.WithLabelValues(m.service).Set(float64(stats.InUse))
	m.dbPoolIdle.WithLabelValues(m.service).Set(float64(stats.Idle))
}

// ObserveSweep records one sweep iteration.
func (m *Metrics) ObserveSweep(err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.sweepRunsTotal.WithLabelValues(m.service, status).Inc()
	m.sweepDuration.WithLabelValues(m.service).Observe(d.Seconds())
}

// IncSweepTransition counts one automatic transition (e.g. "started", "completed").
func (m *Metrics) IncSweepTransition(transition string) {
	m.sweepTransitionsTotal.WithLabelValues(m.service, transition).Inc()
}

// IncSweepReminder counts one dispatched reminder.
func (m *Metrics) IncSweepReminder() {
	m.sweepRemindersTotal.WithLabelValues(m.service).Inc()
}
