package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"benchhq/benchvault/pkg/bench/analysis"
	"benchhq/benchvault/pkg/bench/ledger"
	"benchhq/benchvault/pkg/bench/snapshot"
	"benchhq/benchvault/pkg/cli"
	"benchhq/benchvault/pkg/server"
	"benchhq/benchvault/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the BenchVault HTTP server",
	Long: `Start the BenchVault HTTP server with the specified configuration.

The server exposes entry ingestion, series queries, regression reports,
and the persisted dashboard document over HTTP.

Examples:
  # Start with default config
  benchvault serve

  # Start with custom config
  benchvault serve --config /etc/benchvault/config.yaml

  # Override listen address
  benchvault serve --listen 0.0.0.0:8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return cli.NewCommandError("serve", err)
	}

	// Apply flag overrides
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}

	if err := setupLogging(cfg); err != nil {
		return cli.NewCommandError("serve", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()

	l, ix, err := loadHistory(ctx, cfg, store)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	slog.Info("benchmark history loaded",
		"backend", cfg.Storage.Backend,
		"suites", len(l.Suites()),
	)

	collector := metrics.NewCollector(nil)
	for _, suite := range l.Suites() {
		collector.SetEntries(suite, l.Len(suite))
	}

	// Periodic dashboard document writes
	writer := snapshot.NewWriter(l, &snapshot.WriterConfig{
		Path:       cfg.Snapshot.Path,
		DataJSPath: cfg.Snapshot.DataJSPath,
		Archive:    cfg.Snapshot.Archive,
		ArchiveDir: cfg.Snapshot.ArchiveDir,
	})
	writer.SetCollector(collector)
	if cfg.Snapshot.Schedule != "" {
		scheduler := snapshot.NewScheduler(writer, cfg.Snapshot.Schedule)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewCommandError("serve", err)
		}
		slog.Info("snapshot scheduler started", "schedule", cfg.Snapshot.Schedule)
	}

	// Live reload when an external producer rewrites the document
	if cfg.Snapshot.Watch {
		watcher, err := snapshot.NewWatcher(&snapshot.WatcherConfig{Path: cfg.Snapshot.Path})
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		go func() {
			onReload := func(fresh *ledger.Ledger) {
				if err := l.ReplaceFromDocument(fresh.Snapshot()); err != nil {
					slog.Error("document reload rejected", "error", err)
					return
				}
				for _, suite := range l.Suites() {
					collector.SetEntries(suite, l.Len(suite))
				}
				slog.Info("benchmark document reloaded", "path", cfg.Snapshot.Path)
			}
			if err := watcher.Watch(ctx, onReload); err != nil {
				slog.Error("document watcher stopped", "error", err)
			}
		}()
	}

	srv := server.NewServer(server.Options{
		Config:        &cfg.Server,
		MetricsConfig: &cfg.Telemetry.Metrics,
		Ledger:        l,
		Index:         ix,
		Store:         store,
		DetectorConfig: analysis.Config{
			Window:    cfg.Detector.Window,
			Threshold: cfg.Detector.Threshold,
		},
		Collector: collector,
	})

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", "address", cfg.Server.ListenAddress)
		if err := srv.Start(ctx); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-errChan:
		return cli.NewCommandError("serve", err)
	case <-ctx.Done():
		fmt.Println("\nShutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
			return cli.NewCommandError("serve", err)
		}

		fmt.Println("✓ Server stopped")
		return nil
	}
}
