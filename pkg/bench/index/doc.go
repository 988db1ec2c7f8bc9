// Package index maintains derived per-metric time series over a ledger.
//
// A series is identified by (suite, metric name, extra). The metric
// vocabulary is free-text and open-ended (CI runs add and retire metric
// names over time), so keys are matched exactly rather than against an
// enum. Series hold read-only projections of ledger data: they are
// refreshed from the ledger's generation counter on every query and can
// never drift from their source.
package index
