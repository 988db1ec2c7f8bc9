package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"benchhq/benchvault/pkg/bench/analysis"
	"benchhq/benchvault/pkg/cli"
)

var regressionsFlags struct {
	suite     string
	metric    string
	extra     string
	window    int
	threshold float64
	output    string
}

var regressionsCmd = &cobra.Command{
	Use:   "regressions",
	Short: "Run the regression detector over a suite",
	Long: `Run the moving-average regression detector over recorded history.

Each point is compared against the mean of up to --window preceding
points; a relative deviation beyond --threshold in the suite's
unfavorable direction is flagged as a regression. Without --metric every
metric of the suite is scanned and only series containing at least one
regression are reported; with --metric the full classified series of
that one metric is reported.

Examples:
  # Scan a whole suite with the configured window and threshold
  benchvault regressions --suite "Telemetry Pipeline Benchmarks"

  # Analyze one metric with a stricter threshold, as JSON
  benchvault regressions --suite "Telemetry Pipeline Benchmarks" \
    --metric logs_produced_total --threshold 0.05 --output json`,
	RunE: runRegressions,
}

func init() {
	rootCmd.AddCommand(regressionsCmd)

	regressionsCmd.Flags().StringVarP(&regressionsFlags.suite, "suite", "s", "", "suite name (required)")
	regressionsCmd.Flags().StringVarP(&regressionsFlags.metric, "metric", "m", "", "analyze a single metric")
	regressionsCmd.Flags().StringVar(&regressionsFlags.extra, "extra", "", "variant label filter")
	regressionsCmd.Flags().IntVarP(&regressionsFlags.window, "window", "w", 0, "baseline window size (default from config)")
	regressionsCmd.Flags().Float64VarP(&regressionsFlags.threshold, "threshold", "t", 0, "relative deviation threshold (default from config)")
	regressionsCmd.Flags().StringVarP(&regressionsFlags.output, "output", "o", "text", "output format (text, json, csv)")
	regressionsCmd.MarkFlagRequired("suite")
}

func runRegressions(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(regressionsFlags.output)
	if err != nil {
		return cli.NewCommandError("regressions", err)
	}

	cfg, err := loadRuntimeConfig()
	if err != nil {
		return cli.NewCommandError("regressions", err)
	}
	if err := setupLogging(cfg); err != nil {
		return cli.NewCommandError("regressions", err)
	}

	detectorCfg := analysis.Config{
		Window:    cfg.Detector.Window,
		Threshold: cfg.Detector.Threshold,
	}
	if regressionsFlags.window > 0 {
		detectorCfg.Window = regressionsFlags.window
	}
	if regressionsFlags.threshold > 0 {
		detectorCfg.Threshold = regressionsFlags.threshold
	}

	store, err := openStore(cfg)
	if err != nil {
		return cli.NewCommandError("regressions", err)
	}
	defer store.Close()

	l, ix, err := loadHistory(cmd.Context(), cfg, store)
	if err != nil {
		return cli.NewCommandError("regressions", err)
	}

	detector := analysis.NewDetector(l, ix, detectorCfg)

	var reports []*analysis.Report
	if regressionsFlags.metric != "" {
		report, err := detector.Analyze(regressionsFlags.suite, regressionsFlags.metric, regressionsFlags.extra)
		if err != nil {
			return cli.NewCommandError("regressions", err)
		}
		reports = []*analysis.Report{report}
	} else {
		reports, err = detector.Regressions(regressionsFlags.suite)
		if err != nil {
			return cli.NewCommandError("regressions", err)
		}
	}

	if err := cli.WriteReports(os.Stdout, format, reports); err != nil {
		return cli.NewCommandError("regressions", err)
	}

	if format == cli.FormatText {
		flagged := 0
		for _, report := range reports {
			for _, p := range report.Points {
				if p.Class == analysis.Regression {
					flagged++
				}
			}
		}
		fmt.Printf("\n%d series reported, %d regression points\n", len(reports), flagged)
	}
	return nil
}
