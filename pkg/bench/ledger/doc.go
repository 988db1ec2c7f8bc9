// Package ledger implements the append-only benchmark history.
//
// A Ledger records entries per named suite in strictly non-decreasing
// date order. Appends that would reorder history are rejected with
// *bench.OutOfOrderError; re-runs on the same commit (equal dates) are
// retained as distinct observations. Nothing in this package truncates
// or rewrites history; retention is an external concern.
//
// Reads (EntriesInRange, StreamRange, Latest) are safe to run
// concurrently with an append and always observe a consistent snapshot:
// entries are immutable, and the internal slices are copied on read.
package ledger
