package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"benchhq/benchvault/pkg/bench"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/benchvault.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger

	// mu serializes appends so the seq counter stays dense.
	mu sync.Mutex
}

// NewSQLiteStorage creates a new SQLite storage backend.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "bench.storage.sqlite")

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, bench.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return bench.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return bench.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return bench.NewStorageError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return bench.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return bench.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return bench.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	s.logger.Debug("schema version verified", "version", version)

	return nil
}

// Append persists one entry under the given suite.
func (s *SQLiteStorage) Append(ctx context.Context, suite string, entry *bench.Entry) error {
	commitJSON, err := json.Marshal(entry.Commit)
	if err != nil {
		return bench.NewStorageError("sqlite", "append", err)
	}
	benchesJSON, err := json.Marshal(entry.Benches)
	if err != nil {
		return bench.NewStorageError("sqlite", "append", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return bench.NewStorageError("sqlite", "append", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM entries").Scan(&seq); err != nil {
		return bench.NewStorageError("sqlite", "append", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries (id, seq, suite, tool, date, commit_json, benches_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), seq, suite, string(entry.Tool), entry.Date, string(commitJSON), string(benchesJSON))
	if err != nil {
		return bench.NewStorageError("sqlite", "append", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO suites (name, first_seq) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, suite, seq)
	if err != nil {
		return bench.NewStorageError("sqlite", "append", err)
	}

	if err := tx.Commit(); err != nil {
		return bench.NewStorageError("sqlite", "append", err)
	}

	return nil
}

// List retrieves a suite's entries within [from, to], ordered by date
// and then insertion sequence so same-date re-runs keep their observed
// order.
func (s *SQLiteStorage) List(ctx context.Context, suite string, from, to int64) ([]*bench.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tool, date, commit_json, benches_json
		FROM entries
		WHERE suite = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, seq ASC
	`, suite, from, to)
	if err != nil {
		return nil, bench.NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	entries := []*bench.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, bench.NewStorageError("sqlite", "scan", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, bench.NewStorageError("sqlite", "list", err)
	}

	return entries, nil
}

// Stream returns a channel of entries within [from, to].
// Both channels are closed when the stream completes or errors.
func (s *SQLiteStorage) Stream(ctx context.Context, suite string, from, to int64) (<-chan *bench.Entry, <-chan error, error) {
	entriesCh := make(chan *bench.Entry, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(entriesCh)
		defer close(errCh)

		rows, err := s.db.QueryContext(ctx, `
			SELECT tool, date, commit_json, benches_json
			FROM entries
			WHERE suite = ? AND date >= ? AND date <= ?
			ORDER BY date ASC, seq ASC
		`, suite, from, to)
		if err != nil {
			errCh <- bench.NewStorageError("sqlite", "stream", err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			entry, err := scanEntry(rows)
			if err != nil {
				errCh <- bench.NewStorageError("sqlite", "scan", err)
				return
			}

			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case entriesCh <- entry:
			}
		}

		if err := rows.Err(); err != nil {
			errCh <- bench.NewStorageError("sqlite", "stream", err)
		}
	}()

	return entriesCh, errCh, nil
}

// Count returns the number of entries persisted for a suite.
func (s *SQLiteStorage) Count(ctx context.Context, suite string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries WHERE suite = ?", suite).Scan(&count)
	if err != nil {
		return 0, bench.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Suites returns the suite names in first-append order.
func (s *SQLiteStorage) Suites(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM suites ORDER BY first_seq ASC")
	if err != nil {
		return nil, bench.NewStorageError("sqlite", "suites", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, bench.NewStorageError("sqlite", "scan", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, bench.NewStorageError("sqlite", "suites", err)
	}

	return names, nil
}

// Close releases resources held by the storage backend.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return bench.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite storage closed")
	return nil
}

// scanEntry scans a database row into an Entry.
func scanEntry(rows *sql.Rows) (*bench.Entry, error) {
	var tool string
	var date int64
	var commitJSON, benchesJSON string

	if err := rows.Scan(&tool, &date, &commitJSON, &benchesJSON); err != nil {
		return nil, err
	}

	entry := &bench.Entry{
		Date: date,
		Tool: bench.Tool(tool),
	}
	if err := json.Unmarshal([]byte(commitJSON), &entry.Commit); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(benchesJSON), &entry.Benches); err != nil {
		return nil, err
	}

	return entry, nil
}
