package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"benchhq/benchvault/pkg/bench/analysis"
	"benchhq/benchvault/pkg/bench/export"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output.
	FormatCSV OutputFormat = "csv"
)

// ParseFormat parses a format flag value into an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return FormatText, fmt.Errorf("unknown output format: %s", s)
	}
}

// WriteSeries renders a metric series in the requested format.
func WriteSeries(w io.Writer, format OutputFormat, series *export.Series) error {
	switch format {
	case FormatJSON:
		return export.NewJSONExporter(true).ExportSeries(context.Background(), series, w)
	case FormatCSV:
		return export.NewCSVExporter(true).ExportSeries(context.Background(), series, w)
	default:
		return writeSeriesText(w, series)
	}
}

// WriteReports renders analysis reports in the requested format.
func WriteReports(w io.Writer, format OutputFormat, reports []*analysis.Report) error {
	switch format {
	case FormatJSON:
		return export.NewJSONExporter(true).ExportReports(context.Background(), reports, w)
	case FormatCSV:
		return export.NewCSVExporter(true).ExportReports(context.Background(), reports, w)
	default:
		return writeReportsText(w, reports)
	}
}

func writeSeriesText(w io.Writer, series *export.Series) error {
	name := series.Metric
	if series.Extra != "" {
		name += " (" + series.Extra + ")"
	}
	if _, err := fmt.Fprintf(w, "%s / %s: %d points\n", series.Suite, name, len(series.Points)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tVALUE")
	for _, p := range series.Points {
		fmt.Fprintf(tw, "%s\t%s %s\n", formatDate(p.Date), formatValue(p.Value), series.Unit)
	}
	return tw.Flush()
}

func writeReportsText(w io.Writer, reports []*analysis.Report) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "SUITE\tMETRIC\tDATE\tVALUE\tBASELINE\tDEVIATION\tCLASS")
	for _, report := range reports {
		metric := report.Metric
		if report.Extra != "" {
			metric += " (" + report.Extra + ")"
		}
		for _, p := range report.Points {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%+.1f%%\t%s\n",
				report.Suite,
				metric,
				formatDate(p.Date),
				formatValue(p.Value),
				formatValue(p.Baseline),
				p.Deviation*100,
				p.Class,
			)
		}
	}
	return tw.Flush()
}

// formatDate renders a millisecond timestamp as UTC RFC 3339.
func formatDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
