package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector manages the Prometheus metrics for BenchVault. It owns a
// dedicated registry so tests can create collectors independently
// without duplicate-registration panics.
type Collector struct {
	registry *prometheus.Registry

	// Ingest metrics
	appendsTotal *prometheus.CounterVec
	entriesTotal *prometheus.GaugeVec

	// Query metrics
	seriesQueriesTotal *prometheus.CounterVec
	queryDuration      *prometheus.HistogramVec

	// Detector metrics
	regressionsFlaggedTotal *prometheus.CounterVec

	// Snapshot metrics
	snapshotWritesTotal *prometheus.CounterVec
}

// NewCollector creates a metrics collector backed by its own registry.
// If registry is nil, a new one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		appendsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "benchvault",
				Name:      "appends_total",
				Help:      "Total number of entry append attempts by tool and status.",
			},
			[]string{"tool", "status"},
		),

		entriesTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "benchvault",
				Name:      "entries",
				Help:      "Number of entries currently held per suite.",
			},
			[]string{"suite"},
		),

		seriesQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "benchvault",
				Name:      "series_queries_total",
				Help:      "Total number of metric series queries by status.",
			},
			[]string{"status"},
		),

		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "benchvault",
				Name:      "query_duration_seconds",
				Help:      "Duration of read-side queries in seconds.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation"},
		),

		regressionsFlaggedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "benchvault",
				Name:      "regressions_flagged_total",
				Help:      "Total number of points flagged as regressions by suite.",
			},
			[]string{"suite"},
		),

		snapshotWritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "benchvault",
				Name:      "snapshot_writes_total",
				Help:      "Total number of dashboard document writes by status.",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		c.appendsTotal,
		c.entriesTotal,
		c.seriesQueriesTotal,
		c.queryDuration,
		c.regressionsFlaggedTotal,
		c.snapshotWritesTotal,
	)

	return c
}

// RecordAppend records an entry append attempt.
//
// Parameters:
//   - tool: The tool string of the entry (e.g., "customSmallerIsBetter")
//   - status: "success", "rejected", or "error"
func (c *Collector) RecordAppend(tool, status string) {
	c.appendsTotal.WithLabelValues(tool, status).Inc()
}

// SetEntries sets the current entry count for a suite.
func (c *Collector) SetEntries(suite string, count int) {
	c.entriesTotal.WithLabelValues(suite).Set(float64(count))
}

// RecordSeriesQuery records a metric series query.
func (c *Collector) RecordSeriesQuery(status string) {
	c.seriesQueriesTotal.WithLabelValues(status).Inc()
}

// ObserveQueryDuration records the duration of a read-side query.
func (c *Collector) ObserveQueryDuration(operation string, duration time.Duration) {
	c.queryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRegressionsFlagged adds flagged regression points for a suite.
func (c *Collector) RecordRegressionsFlagged(suite string, count int) {
	if count > 0 {
		c.regressionsFlaggedTotal.WithLabelValues(suite).Add(float64(count))
	}
}

// RecordSnapshotWrite records a dashboard document write.
func (c *Collector) RecordSnapshotWrite(status string) {
	c.snapshotWritesTotal.WithLabelValues(status).Inc()
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
