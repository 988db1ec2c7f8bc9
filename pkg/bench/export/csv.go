package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"benchhq/benchvault/pkg/bench"
	"benchhq/benchvault/pkg/bench/analysis"
)

// CSVExporter exports series and regression reports to CSV format.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

// ExportSeries writes a metric series to the provided writer in CSV
// format, one row per point.
func (e *CSVExporter) ExportSeries(ctx context.Context, series *Series, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		header := []string{"suite", "metric", "extra", "unit", "date", "value"}
		if err := writer.Write(header); err != nil {
			return bench.NewExportError("csv", 0, err)
		}
	}

	for i, p := range series.Points {
		row := []string{
			series.Suite,
			series.Metric,
			series.Extra,
			series.Unit,
			strconv.FormatInt(p.Date, 10),
			formatValue(p.Value),
		}
		if err := writer.Write(row); err != nil {
			return bench.NewExportError("csv", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return bench.NewExportError("csv", len(series.Points), err)
	}
	return nil
}

// ExportReports writes analysis reports to the provided writer in CSV
// format, one row per analyzed point.
func (e *CSVExporter) ExportReports(ctx context.Context, reports []*analysis.Report, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		header := []string{
			"suite", "metric", "extra",
			"date", "value", "baseline", "deviation", "classification",
		}
		if err := writer.Write(header); err != nil {
			return bench.NewExportError("csv", 0, err)
		}
	}

	rows := 0
	for _, report := range reports {
		for _, p := range report.Points {
			row := []string{
				report.Suite,
				report.Metric,
				report.Extra,
				strconv.FormatInt(p.Date, 10),
				formatValue(p.Value),
				formatValue(p.Baseline),
				formatValue(p.Deviation),
				p.Class.String(),
			}
			if err := writer.Write(row); err != nil {
				return bench.NewExportError("csv", rows, err)
			}
			rows++
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return bench.NewExportError("csv", rows, err)
	}
	return nil
}

// formatValue renders a float in its shortest round-trip form.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
