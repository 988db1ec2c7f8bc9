package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the ledger database schema.
//
// seq is a monotonically increasing per-database row counter; reads
// order by it so same-date re-runs come back in insertion order. The
// commit descriptor and measurement list are stored as JSON columns:
// their shapes are fixed by the persisted document format and never
// filtered on individually.
const Schema = `
-- Benchmark entries table
CREATE TABLE IF NOT EXISTS entries (
    id TEXT PRIMARY KEY,
    seq INTEGER NOT NULL,

    suite TEXT NOT NULL,
    tool TEXT NOT NULL,
    date INTEGER NOT NULL,

    commit_json TEXT NOT NULL,
    benches_json TEXT NOT NULL
);

-- Suite registry, preserving first-append order
CREATE TABLE IF NOT EXISTS suites (
    name TEXT PRIMARY KEY,
    first_seq INTEGER NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for range reads
CREATE INDEX IF NOT EXISTS idx_entries_suite_date ON entries(suite, date, seq);
CREATE INDEX IF NOT EXISTS idx_entries_seq ON entries(seq);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
