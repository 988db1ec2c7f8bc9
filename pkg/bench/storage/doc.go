// Package storage provides durable backends for the benchmark ledger.
//
// Two implementations are included:
//
//   - MemoryStorage: in-process slices, for tests and ephemeral runs
//   - SQLiteStorage: a single-file SQLite database in WAL mode
//
// Backends are faithful sinks: they persist entries in append order and
// reproduce them verbatim on read. The Ledger owns ordering and
// tool-consistency enforcement; LoadLedger replays persisted entries
// through Ledger.Append so violations surface at load time instead of
// corrupting queries later.
package storage
