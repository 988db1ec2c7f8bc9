package export

import (
	"context"
	"encoding/json"
	"io"

	"benchhq/benchvault/pkg/bench"
	"benchhq/benchvault/pkg/bench/analysis"
	"benchhq/benchvault/pkg/bench/index"
)

// Series is a metric time series together with the coordinates that
// identify it, the shape consumed by dashboards and spreadsheets.
type Series struct {
	Suite  string        `json:"suite"`
	Metric string        `json:"metric"`
	Extra  string        `json:"extra,omitempty"`
	Unit   string        `json:"unit,omitempty"`
	Points []index.Point `json:"points"`
}

// JSONExporter exports series and regression reports to JSON format.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// ExportSeries writes a metric series to the provided writer.
func (e *JSONExporter) ExportSeries(ctx context.Context, series *Series, w io.Writer) error {
	return e.write(series, len(series.Points), w)
}

// ExportReports writes analysis reports to the provided writer as a
// JSON array.
func (e *JSONExporter) ExportReports(ctx context.Context, reports []*analysis.Report, w io.Writer) error {
	if len(reports) == 0 {
		if _, err := w.Write([]byte("[]")); err != nil {
			return bench.NewExportError("json", 0, err)
		}
		return nil
	}
	return e.write(reports, len(reports), w)
}

func (e *JSONExporter) write(v any, rows int, w io.Writer) error {
	var data []byte
	var err error

	if e.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return bench.NewExportError("json", rows, err)
	}

	if _, err := w.Write(data); err != nil {
		return bench.NewExportError("json", rows, err)
	}
	return nil
}

// ExportEntriesStream writes ledger entries from a channel to a JSON
// array. This is memory-efficient for large histories as it streams
// entries one at a time instead of holding them all in memory.
func (e *JSONExporter) ExportEntriesStream(ctx context.Context, entriesCh <-chan *bench.Entry, w io.Writer) error {
	if _, err := w.Write([]byte("[")); err != nil {
		return bench.NewExportError("json", 0, err)
	}

	first := true
	count := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case entry, ok := <-entriesCh:
			if !ok {
				if _, err := w.Write([]byte("]")); err != nil {
					return bench.NewExportError("json", count, err)
				}
				return nil
			}

			if !first {
				if _, err := w.Write([]byte(",")); err != nil {
					return bench.NewExportError("json", count, err)
				}
				if e.Pretty {
					if _, err := w.Write([]byte("\n")); err != nil {
						return bench.NewExportError("json", count, err)
					}
				}
			}
			first = false

			var data []byte
			var err error
			if e.Pretty {
				data, err = json.MarshalIndent(entry, "", "  ")
			} else {
				data, err = json.Marshal(entry)
			}
			if err != nil {
				return bench.NewExportError("json", count, err)
			}

			if _, err := w.Write(data); err != nil {
				return bench.NewExportError("json", count, err)
			}
			count++
		}
	}
}
