package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"benchhq/benchvault/pkg/bench"
	"benchhq/benchvault/pkg/bench/analysis"
	"benchhq/benchvault/pkg/bench/index"
)

func sampleSeries() *Series {
	return &Series{
		Suite:  "Collector Benchmarks",
		Metric: "cpu_percentage_avg",
		Extra:  "CI 100kLRPS",
		Unit:   "%",
		Points: []index.Point{
			{Date: 100, Value: 24.5},
			{Date: 200, Value: 26},
			{Date: 300, Value: 2005000},
		},
	}
}

func TestJSONExportSeries(t *testing.T) {
	var buf bytes.Buffer
	e := NewJSONExporter(false)
	if err := e.ExportSeries(context.Background(), sampleSeries(), &buf); err != nil {
		t.Fatalf("ExportSeries() failed: %v", err)
	}

	var got Series
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Suite != "Collector Benchmarks" || len(got.Points) != 3 {
		t.Errorf("round-tripped series = %+v", got)
	}
	if got.Points[2].Value != 2005000 {
		t.Errorf("point value = %v, want 2005000", got.Points[2].Value)
	}
}

func TestJSONExportSeriesPretty(t *testing.T) {
	var buf bytes.Buffer
	e := NewJSONExporter(true)
	if err := e.ExportSeries(context.Background(), sampleSeries(), &buf); err != nil {
		t.Fatalf("ExportSeries() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("pretty output has no indentation")
	}
}

func TestJSONExportReportsEmpty(t *testing.T) {
	var buf bytes.Buffer
	e := NewJSONExporter(false)
	if err := e.ExportReports(context.Background(), nil, &buf); err != nil {
		t.Fatalf("ExportReports() failed: %v", err)
	}
	if buf.String() != "[]" {
		t.Errorf("empty export = %q, want %q", buf.String(), "[]")
	}
}

func TestJSONExportEntriesStream(t *testing.T) {
	entriesCh := make(chan *bench.Entry, 3)
	for _, d := range []int64{100, 200, 300} {
		entry, err := bench.NewEntry(bench.Commit{
			ID:        "0f5a1e9c",
			Message:   "stream test",
			Timestamp: "2026-08-02T09:00:00+02:00",
			URL:       "https://example.com/commit/0f5a1e9c",
		}, "customSmallerIsBetter", d, []bench.Measurement{
			{Name: "cpu_percentage_avg", Value: 24.5, Unit: "%"},
		})
		if err != nil {
			t.Fatalf("NewEntry() failed: %v", err)
		}
		entriesCh <- entry
	}
	close(entriesCh)

	var buf bytes.Buffer
	e := NewJSONExporter(false)
	if err := e.ExportEntriesStream(context.Background(), entriesCh, &buf); err != nil {
		t.Fatalf("ExportEntriesStream() failed: %v", err)
	}

	var got []*bench.Entry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("stream output is not valid JSON: %v", err)
	}
	if len(got) != 3 || got[0].Date != 100 || got[2].Date != 300 {
		t.Errorf("streamed entries = %+v", got)
	}
}

func TestJSONExportEntriesStreamCancellation(t *testing.T) {
	entriesCh := make(chan *bench.Entry)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	e := NewJSONExporter(false)
	if err := e.ExportEntriesStream(ctx, entriesCh, &buf); err == nil {
		t.Error("ExportEntriesStream() with cancelled context succeeded, want error")
	}
}

func TestCSVExportSeries(t *testing.T) {
	var buf bytes.Buffer
	e := NewCSVExporter(true)
	if err := e.ExportSeries(context.Background(), sampleSeries(), &buf); err != nil {
		t.Fatalf("ExportSeries() failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("CSV has %d rows, want 4", len(rows))
	}
	if rows[0][0] != "suite" || rows[0][5] != "value" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][4] != "100" || rows[1][5] != "24.5" {
		t.Errorf("first data row = %v", rows[1])
	}
	if rows[3][5] != "2.005e+06" {
		t.Errorf("large value rendered as %q, want %q", rows[3][5], "2.005e+06")
	}
}

func TestCSVExportSeriesNoHeader(t *testing.T) {
	var buf bytes.Buffer
	e := NewCSVExporter(false)
	if err := e.ExportSeries(context.Background(), sampleSeries(), &buf); err != nil {
		t.Fatalf("ExportSeries() failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("CSV has %d rows, want 3", len(rows))
	}
}

func TestCSVExportReports(t *testing.T) {
	reports := []*analysis.Report{
		{
			Suite:  "Collector Benchmarks",
			Metric: "cpu_percentage_avg",
			Points: []analysis.PointReport{
				{Date: 100, Value: 10, Class: analysis.Unknown},
				{Date: 200, Value: 50, Baseline: 10, Deviation: 4, Class: analysis.Regression},
			},
		},
	}

	var buf bytes.Buffer
	e := NewCSVExporter(true)
	if err := e.ExportReports(context.Background(), reports, &buf); err != nil {
		t.Fatalf("ExportReports() failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("CSV has %d rows, want 3", len(rows))
	}
	if rows[2][7] != "regression" {
		t.Errorf("classification column = %q, want %q", rows[2][7], "regression")
	}
	if rows[2][6] != "4" {
		t.Errorf("deviation column = %q, want %q", rows[2][6], "4")
	}
}
