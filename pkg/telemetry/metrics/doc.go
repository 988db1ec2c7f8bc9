// Package metrics collects Prometheus metrics for ingest, queries,
// regression detection, and snapshot writes.
package metrics
