package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"benchhq/benchvault/pkg/bench/snapshot"
	"benchhq/benchvault/pkg/cli"
)

var snapshotFlags struct {
	path       string
	dataJSPath string
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write the dashboard document",
	Long: `Serialize the recorded benchmark history to the persisted JSON
document consumed by dashboard pages.

The document is written atomically: a temp file in the target directory
is renamed into place, so a concurrent reader never observes a partial
write. When archiving is enabled the previous document is copied to a
timestamped sibling first.

Examples:
  # Write to the configured path
  benchvault snapshot

  # Write to an explicit path with the JS wrapper variant
  benchvault snapshot --path out/benchmarks.json --data-js out/data.js`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVar(&snapshotFlags.path, "path", "", "override document path")
	snapshotCmd.Flags().StringVar(&snapshotFlags.dataJSPath, "data-js", "", "override data.js path")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return cli.NewCommandError("snapshot", err)
	}
	if err := setupLogging(cfg); err != nil {
		return cli.NewCommandError("snapshot", err)
	}

	if snapshotFlags.path != "" {
		cfg.Snapshot.Path = snapshotFlags.path
	}
	if snapshotFlags.dataJSPath != "" {
		cfg.Snapshot.DataJSPath = snapshotFlags.dataJSPath
	}

	store, err := openStore(cfg)
	if err != nil {
		return cli.NewCommandError("snapshot", err)
	}
	defer store.Close()

	l, _, err := loadHistory(cmd.Context(), cfg, store)
	if err != nil {
		return cli.NewCommandError("snapshot", err)
	}

	writer := snapshot.NewWriter(l, &snapshot.WriterConfig{
		Path:       cfg.Snapshot.Path,
		DataJSPath: cfg.Snapshot.DataJSPath,
		Archive:    cfg.Snapshot.Archive,
		ArchiveDir: cfg.Snapshot.ArchiveDir,
	})
	if err := writer.Write(); err != nil {
		return cli.NewCommandError("snapshot", err)
	}

	entries := 0
	for _, suite := range l.Suites() {
		entries += l.Len(suite)
	}
	fmt.Printf("✓ Wrote %s (%d suites, %d entries)\n", cfg.Snapshot.Path, len(l.Suites()), entries)
	return nil
}
