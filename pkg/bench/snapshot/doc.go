// Package snapshot persists the ledger to the dashboard document and
// keeps it current.
//
// The Writer serializes the ledger through the codec to the JSON
// document (optionally with the window.BENCHMARK_DATA JS wrapper),
// atomically and with an optional archive of the previous document.
// The Scheduler runs the writer on a cron schedule. The Watcher does
// the reverse: it notices external rewrites of the document and hands
// a reloaded ledger back to the caller.
package snapshot
