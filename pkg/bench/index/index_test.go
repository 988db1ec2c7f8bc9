package index

import (
	"testing"

	"benchhq/benchvault/pkg/bench"
	"benchhq/benchvault/pkg/bench/ledger"
)

const testSuite = "Telemetry Pipeline Benchmarks"

func appendEntry(t *testing.T, l *ledger.Ledger, date int64, measurements []bench.Measurement) {
	t.Helper()

	commit := bench.Commit{
		ID:        "0f5a1e9c9b2d4c6e8a0b1c2d3e4f5a6b7c8d9e0f",
		Timestamp: "2026-08-01T10:15:00+02:00",
	}
	entry, err := bench.NewEntry(commit, "customBiggerIsBetter", date, measurements)
	if err != nil {
		t.Fatalf("NewEntry() failed: %v", err)
	}
	if err := l.Append(testSuite, entry); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
}

// TestSeriesForExtraFilter checks that a (name, extra) pair that
// appears three times yields a 3-element ascending series with exactly
// those values.
func TestSeriesForExtraFilter(t *testing.T) {
	l := ledger.New("https://example.com/telemetry")
	extra := "CI 100kLRPS/OTAP-ATTR-OTAP - Log Counts"
	otherExtra := "CI 100kLRPS/OTLP-OTLP - Log Counts"

	values := []float64{2500000, 2400000, 2400000}
	for i, v := range values {
		appendEntry(t, l, int64(1000*(i+1)), []bench.Measurement{
			{Name: "logs_produced_total", Value: v, Unit: "count", Extra: extra},
			{Name: "logs_produced_total", Value: v / 2, Unit: "count", Extra: otherExtra},
		})
	}

	ix := New(l)

	series := ix.SeriesFor(testSuite, "logs_produced_total", extra)
	if len(series) != 3 {
		t.Fatalf("SeriesFor() returned %d points, want 3", len(series))
	}
	for i, p := range series {
		if p.Value != values[i] {
			t.Errorf("point[%d].Value = %v, want %v", i, p.Value, values[i])
		}
		if i > 0 && series[i-1].Date > p.Date {
			t.Errorf("series not ascending at %d: %d > %d", i, series[i-1].Date, p.Date)
		}
	}
}

func TestSeriesForAnyExtraInterleaves(t *testing.T) {
	l := ledger.New("https://example.com/telemetry")
	appendEntry(t, l, 1000, []bench.Measurement{
		{Name: "rate", Value: 1, Extra: "variant-a"},
		{Name: "rate", Value: 2, Extra: "variant-b"},
	})
	appendEntry(t, l, 2000, []bench.Measurement{
		{Name: "rate", Value: 3, Extra: "variant-a"},
	})

	ix := New(l)

	// No extra filter: all variants interleaved by date, insertion order
	// within an entry.
	series := ix.SeriesFor(testSuite, "rate", "")
	want := []float64{1, 2, 3}
	if len(series) != len(want) {
		t.Fatalf("SeriesFor() returned %d points, want %d", len(series), len(want))
	}
	for i, p := range series {
		if p.Value != want[i] {
			t.Errorf("point[%d].Value = %v, want %v", i, p.Value, want[i])
		}
	}
}

// TestSeriesForIdempotent verifies two calls against an unchanged ledger
// return identical sequences.
func TestSeriesForIdempotent(t *testing.T) {
	l := ledger.New("https://example.com/telemetry")
	for i := 0; i < 5; i++ {
		appendEntry(t, l, int64(1000*(i+1)), []bench.Measurement{
			{Name: "rate", Value: float64(i), Extra: "variant-a"},
		})
	}

	ix := New(l)

	first := ix.SeriesFor(testSuite, "rate", "variant-a")
	second := ix.SeriesFor(testSuite, "rate", "variant-a")

	if len(first) != len(second) {
		t.Fatalf("series lengths differ: %d != %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("point[%d] differs: %+v != %+v", i, first[i], second[i])
		}
	}
}

// TestSeriesForTracksAppends verifies the projection picks up entries
// appended after the index was built.
func TestSeriesForTracksAppends(t *testing.T) {
	l := ledger.New("https://example.com/telemetry")
	appendEntry(t, l, 1000, []bench.Measurement{{Name: "rate", Value: 1}})

	ix := New(l)
	if got := len(ix.SeriesFor(testSuite, "rate", "")); got != 1 {
		t.Fatalf("initial series length = %d, want 1", got)
	}

	appendEntry(t, l, 2000, []bench.Measurement{{Name: "rate", Value: 2}})

	series := ix.SeriesFor(testSuite, "rate", "")
	if len(series) != 2 {
		t.Fatalf("series length after append = %d, want 2", len(series))
	}
	if series[1].Value != 2 {
		t.Errorf("appended point value = %v, want 2", series[1].Value)
	}
}

func TestSeriesForUnknownMetric(t *testing.T) {
	l := ledger.New("https://example.com/telemetry")
	ix := New(l)

	if got := ix.SeriesFor(testSuite, "no_such_metric", ""); len(got) != 0 {
		t.Errorf("SeriesFor() unknown metric returned %d points, want 0", len(got))
	}
}

func TestLatestValue(t *testing.T) {
	l := ledger.New("https://example.com/telemetry")
	appendEntry(t, l, 1000, []bench.Measurement{{Name: "rate", Value: 10, Extra: "variant-a"}})
	appendEntry(t, l, 2000, []bench.Measurement{{Name: "rate", Value: 20, Extra: "variant-b"}})

	ix := New(l)

	if v, ok := ix.LatestValue(testSuite, "rate", ""); !ok || v != 20 {
		t.Errorf("LatestValue(any) = (%v, %v), want (20, true)", v, ok)
	}
	if v, ok := ix.LatestValue(testSuite, "rate", "variant-a"); !ok || v != 10 {
		t.Errorf("LatestValue(variant-a) = (%v, %v), want (10, true)", v, ok)
	}
	if _, ok := ix.LatestValue(testSuite, "rate", "variant-c"); ok {
		t.Error("LatestValue(variant-c) found a value, want none")
	}
	if _, ok := ix.LatestValue(testSuite, "missing", ""); ok {
		t.Error("LatestValue(missing) found a value, want none")
	}
}

func TestNames(t *testing.T) {
	l := ledger.New("https://example.com/telemetry")
	appendEntry(t, l, 1000, []bench.Measurement{
		{Name: "zeta_metric", Value: 1},
		{Name: "alpha_metric", Value: 2},
	})

	ix := New(l)

	names := ix.Names(testSuite)
	if len(names) != 2 || names[0] != "zeta_metric" || names[1] != "alpha_metric" {
		t.Errorf("Names() = %v, want first-seen order [zeta_metric alpha_metric]", names)
	}
}

func TestSeriesForAfterLedgerReplace(t *testing.T) {
	l := ledger.New("https://example.com/telemetry")
	for _, date := range []int64{1000, 2000, 3000} {
		appendEntry(t, l, date, []bench.Measurement{
			{Name: "rate", Value: float64(date), Unit: "logs/s"},
		})
	}

	ix := New(l)
	if got := len(ix.SeriesFor(testSuite, "rate", "")); got != 3 {
		t.Fatalf("SeriesFor() returned %d points before replace, want 3", got)
	}

	// Replace the history with a shorter one, as a dashboard reload does.
	short := ledger.New("https://example.com/telemetry")
	appendEntry(t, short, 5000, []bench.Measurement{
		{Name: "rate", Value: 42, Unit: "logs/s"},
	})
	if err := l.ReplaceFromDocument(short.Snapshot()); err != nil {
		t.Fatalf("ReplaceFromDocument() failed: %v", err)
	}

	series := ix.SeriesFor(testSuite, "rate", "")
	if len(series) != 1 {
		t.Fatalf("SeriesFor() returned %d points after replace, want 1", len(series))
	}
	if series[0].Value != 42 || series[0].Date != 5000 {
		t.Errorf("point = {%d, %v}, want {5000, 42}", series[0].Date, series[0].Value)
	}
}

func TestSeriesForAfterEqualLengthReplace(t *testing.T) {
	l := ledger.New("https://example.com/telemetry")
	for _, date := range []int64{1000, 2000} {
		appendEntry(t, l, date, []bench.Measurement{
			{Name: "rate", Value: float64(date) / 1000, Unit: "logs/s"},
		})
	}

	ix := New(l)
	if got := len(ix.SeriesFor(testSuite, "rate", "")); got != 2 {
		t.Fatalf("SeriesFor() returned %d points before replace, want 2", got)
	}

	// Same suite, same length, different values. An external rewrite of
	// the document can change any prefix of the history.
	next := ledger.New("https://example.com/telemetry")
	for _, v := range []struct {
		date  int64
		value float64
	}{{1000, 5}, {2000, 6}} {
		appendEntry(t, next, v.date, []bench.Measurement{
			{Name: "rate", Value: v.value, Unit: "logs/s"},
		})
	}
	if err := l.ReplaceFromDocument(next.Snapshot()); err != nil {
		t.Fatalf("ReplaceFromDocument() failed: %v", err)
	}

	series := ix.SeriesFor(testSuite, "rate", "")
	if len(series) != 2 {
		t.Fatalf("SeriesFor() returned %d points after replace, want 2", len(series))
	}
	if series[0].Value != 5 || series[1].Value != 6 {
		t.Errorf("series values = [%v, %v], want [5, 6]", series[0].Value, series[1].Value)
	}
}
