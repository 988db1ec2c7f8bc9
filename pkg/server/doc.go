// Package server exposes the benchmark ledger over HTTP.
//
// # Endpoints
//
//   - POST /entries: append one benchmark entry to a suite
//   - GET /series: query a metric time series
//   - GET /regressions: run the regression detector
//   - GET /download: the full persisted document, byte-stable
//   - GET /health, /ready: probes
//   - GET /metrics: Prometheus exposition
//
// Requests pass a middleware chain of recovery, request ID, logging,
// and per-request timeout, outermost first.
package server
