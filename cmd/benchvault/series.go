package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"benchhq/benchvault/pkg/bench/export"
	"benchhq/benchvault/pkg/cli"
)

var seriesFlags struct {
	suite  string
	metric string
	extra  string
	output string
}

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Query a metric series",
	Long: `Query the recorded history of one metric as a date-ascending series.

Without --extra the series interleaves every variant of the metric;
with --extra only measurements carrying that exact label are included.

Examples:
  # Full history of a metric
  benchvault series --suite "Telemetry Pipeline Benchmarks" --metric logs_produced_total

  # One scenario variant, as CSV
  benchvault series --suite "Telemetry Pipeline Benchmarks" \
    --metric logs_produced_total --extra "CI 100kLRPS/OTLP-OTLP - Log Counts" \
    --output csv`,
	RunE: runSeries,
}

func init() {
	rootCmd.AddCommand(seriesCmd)

	seriesCmd.Flags().StringVarP(&seriesFlags.suite, "suite", "s", "", "suite name (required)")
	seriesCmd.Flags().StringVarP(&seriesFlags.metric, "metric", "m", "", "metric name (required)")
	seriesCmd.Flags().StringVar(&seriesFlags.extra, "extra", "", "variant label filter")
	seriesCmd.Flags().StringVarP(&seriesFlags.output, "output", "o", "text", "output format (text, json, csv)")
	seriesCmd.MarkFlagRequired("suite")
	seriesCmd.MarkFlagRequired("metric")
}

func runSeries(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(seriesFlags.output)
	if err != nil {
		return cli.NewCommandError("series", err)
	}

	cfg, err := loadRuntimeConfig()
	if err != nil {
		return cli.NewCommandError("series", err)
	}
	if err := setupLogging(cfg); err != nil {
		return cli.NewCommandError("series", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return cli.NewCommandError("series", err)
	}
	defer store.Close()

	_, ix, err := loadHistory(cmd.Context(), cfg, store)
	if err != nil {
		return cli.NewCommandError("series", err)
	}

	points := ix.SeriesFor(seriesFlags.suite, seriesFlags.metric, seriesFlags.extra)
	if len(points) == 0 {
		return cli.NewCommandError("series",
			fmt.Errorf("no points for suite %q metric %q", seriesFlags.suite, seriesFlags.metric))
	}

	series := &export.Series{
		Suite:  seriesFlags.suite,
		Metric: seriesFlags.metric,
		Extra:  seriesFlags.extra,
		Points: points,
	}
	if err := cli.WriteSeries(os.Stdout, format, series); err != nil {
		return cli.NewCommandError("series", err)
	}

	if format == cli.FormatText {
		fmt.Printf("\n%d points\n", len(points))
	}
	return nil
}
