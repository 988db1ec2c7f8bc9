package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"benchhq/benchvault/pkg/bench/index"
	"benchhq/benchvault/pkg/bench/ledger"
	"benchhq/benchvault/pkg/bench/storage"
	"benchhq/benchvault/pkg/config"
	"benchhq/benchvault/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "benchvault",
	Short: "BenchVault - continuous benchmark history and regression detection",
	Long: `BenchVault stores per-commit CI benchmark results in an append-only
ledger and surfaces performance regressions over time.

It provides:
  - Append-only benchmark history per suite, keyed by commit and run date
  - Metric series projection across entries for trend queries
  - Moving-average regression detection with polarity-aware thresholds
  - A byte-stable JSON document for static dashboard pages
  - Durable SQLite or in-memory storage backends`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadRuntimeConfig loads the configuration file named by --config. A
// missing file is only an error when the flag was set explicitly; the
// default path falling through to built-in defaults lets the CLI run in
// a bare checkout.
func loadRuntimeConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if !rootCmd.PersistentFlags().Changed("config") {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("config file not found: %s", cfgFile)
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// setupLogging installs the process-wide logger from the telemetry
// configuration. --verbose overrides the configured level.
func setupLogging(cfg *config.Config) error {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:     level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	return nil
}

// openStore creates the storage backend named by the configuration.
// Callers own the returned store and must Close it.
func openStore(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		return storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path:         cfg.Storage.SQLite.Path,
			MaxOpenConns: cfg.Storage.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Storage.SQLite.MaxIdleConns,
			WALMode:      cfg.Storage.SQLite.WALMode,
			BusyTimeout:  cfg.Storage.SQLite.BusyTimeout,
		})
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}

// loadHistory rebuilds the in-memory ledger from the store and indexes
// it. Shared by every subcommand that reads benchmark history.
func loadHistory(ctx context.Context, cfg *config.Config, store storage.Storage) (*ledger.Ledger, *index.MetricIndex, error) {
	l, err := storage.LoadLedger(ctx, store, cfg.Repo.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to rebuild ledger from storage: %w", err)
	}
	return l, index.New(l), nil
}
