package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"benchhq/benchvault/pkg/bench"
	"benchhq/benchvault/pkg/cli"
)

var appendFlags struct {
	suite string
	file  string
}

var appendCmd = &cobra.Command{
	Use:   "append",
	Short: "Append a benchmark entry to a suite",
	Long: `Append a single benchmark entry from a JSON file to a suite.

The entry file holds one JSON object with the commit, run date (epoch
milliseconds), tool name, and measurement list:

  {
    "commit": {"id": "...", "timestamp": "..."},
    "date": 1754121600000,
    "tool": "customBiggerIsBetter",
    "benches": [{"name": "rate", "value": 2500000, "unit": "logs/s"}]
  }

The entry is validated against the suite's history before anything is
persisted: its tool must match the suite's recorded tool and its date
must not precede the latest recorded entry.

Examples:
  # Append an entry produced by a CI run
  benchvault append --suite "Telemetry Pipeline Benchmarks" --file entry.json`,
	RunE: runAppend,
}

func init() {
	rootCmd.AddCommand(appendCmd)

	appendCmd.Flags().StringVarP(&appendFlags.suite, "suite", "s", "", "suite name (required)")
	appendCmd.Flags().StringVarP(&appendFlags.file, "file", "f", "", "entry JSON file (required)")
	appendCmd.MarkFlagRequired("suite")
	appendCmd.MarkFlagRequired("file")
}

func runAppend(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return cli.NewCommandError("append", err)
	}
	if err := setupLogging(cfg); err != nil {
		return cli.NewCommandError("append", err)
	}

	data, err := os.ReadFile(appendFlags.file)
	if err != nil {
		return cli.NewCommandError("append", fmt.Errorf("failed to read entry file: %w", err))
	}

	var raw struct {
		Commit  bench.Commit        `json:"commit"`
		Date    int64               `json:"date"`
		Tool    string              `json:"tool"`
		Benches []bench.Measurement `json:"benches"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return cli.NewCommandError("append", fmt.Errorf("malformed entry file: %w", err))
	}

	entry, err := bench.NewEntry(raw.Commit, raw.Tool, raw.Date, raw.Benches)
	if err != nil {
		return cli.NewCommandError("append", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return cli.NewCommandError("append", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	// Replaying history first enforces the suite's ordering and tool
	// invariants before the store is touched.
	l, _, err := loadHistory(ctx, cfg, store)
	if err != nil {
		return cli.NewCommandError("append", err)
	}
	if err := l.Append(appendFlags.suite, entry); err != nil {
		return cli.NewCommandError("append", err)
	}
	if err := store.Append(ctx, appendFlags.suite, entry); err != nil {
		return cli.NewCommandError("append", err)
	}

	fmt.Printf("✓ Appended entry to %q (commit %s, %d measurements)\n",
		appendFlags.suite, entry.Commit.ID, len(entry.Benches))
	return nil
}
