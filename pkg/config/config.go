package config

import "time"

// Config is the root configuration structure for BenchVault.
// It contains all configuration sections for the HTTP server, storage
// backend, snapshot writer, regression detector, and telemetry.
type Config struct {
	// Repo contains the identity of the benchmarked repository.
	Repo RepoConfig `yaml:"repo"`

	// Server contains HTTP server configuration including listen
	// address, timeouts, and connection limits.
	Server ServerConfig `yaml:"server"`

	// Storage contains configuration for the durable entry store
	// including backend selection and SQLite tuning.
	Storage StorageConfig `yaml:"storage"`

	// Snapshot contains configuration for the dashboard document
	// writer and watcher.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// Detector contains configuration for the regression detector.
	Detector DetectorConfig `yaml:"detector"`

	// Telemetry contains configuration for observability including
	// logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RepoConfig identifies the repository whose benchmarks are tracked.
type RepoConfig struct {
	// URL is the browse URL of the benchmarked repository. It is
	// carried verbatim in the persisted document.
	URL string `yaml:"url"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire
	// request, including the body. Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response. Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on
	// a kept-alive connection. Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum time to wait for in-flight
	// requests during graceful shutdown. Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout is the per-request handler timeout applied by the
	// middleware chain. Default: 30s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// StorageConfig contains configuration for the entry store.
type StorageConfig struct {
	// Backend selects the storage backend: "memory" or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific settings, used when Backend is
	// "sqlite".
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig contains SQLite backend settings.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/benchvault.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// SnapshotConfig contains configuration for the dashboard document.
type SnapshotConfig struct {
	// Path is the destination for the persisted JSON document.
	// Default: "data/benchmarks.json"
	Path string `yaml:"path"`

	// DataJSPath, when set, additionally writes the JS wrapper variant
	// consumed by static dashboard pages.
	DataJSPath string `yaml:"data_js_path"`

	// Schedule is a cron expression for periodic snapshot writes
	// (e.g., "*/5 * * * *"). Empty disables the scheduler.
	Schedule string `yaml:"schedule"`

	// Archive enables copying the previous document to a timestamped
	// sibling before it is overwritten. Default: false
	Archive bool `yaml:"archive"`

	// ArchiveDir is the directory for archived documents.
	// Default: "<dir of Path>/archive"
	ArchiveDir string `yaml:"archive_dir"`

	// Watch enables reloading the in-memory ledger when an external
	// producer rewrites the document. Default: false
	Watch bool `yaml:"watch"`
}

// DetectorConfig contains configuration for the regression detector.
type DetectorConfig struct {
	// Window is the number of prior points in the trailing moving
	// average baseline. Default: 10
	Window int `yaml:"window"`

	// Threshold is the relative deviation from the baseline at which a
	// point is flagged (0.15 means 15%). Default: 0.15
	Threshold float64 `yaml:"threshold"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	// Logging contains structured logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format selects the log output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes source file and line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled exposes the /metrics endpoint. Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path. Default: "/metrics"
	Path string `yaml:"path"`
}
