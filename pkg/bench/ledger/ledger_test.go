package ledger

import (
	"context"
	"errors"
	"testing"

	"benchhq/benchvault/pkg/bench"
)

const testSuite = "Telemetry Pipeline Benchmarks"

// makeEntry builds a valid smaller-is-better entry at the given date.
func makeEntry(t *testing.T, date int64, value float64) *bench.Entry {
	t.Helper()
	return makeToolEntry(t, "customSmallerIsBetter", date, value)
}

func makeToolEntry(t *testing.T, tool string, date int64, value float64) *bench.Entry {
	t.Helper()

	commit := bench.Commit{
		Author:    bench.Author{Name: "Ada Example", Email: "ada@example.com", Username: "ada"},
		Committer: bench.Author{Name: "Ada Example", Email: "ada@example.com", Username: "ada"},
		Distinct:  true,
		ID:        "0f5a1e9c9b2d4c6e8a0b1c2d3e4f5a6b7c8d9e0f",
		Message:   "tune exporter batch size",
		Timestamp: "2026-08-01T10:15:00+02:00",
		TreeID:    "9e0f0f5a1e9c9b2d4c6e8a0b1c2d3e4f5a6b7c8d",
		URL:       "https://example.com/telemetry/commit/0f5a1e9c",
	}

	entry, err := bench.NewEntry(commit, tool, date, []bench.Measurement{
		{Name: "cpu_percentage_avg", Value: value, Unit: "%"},
	})
	if err != nil {
		t.Fatalf("NewEntry() failed: %v", err)
	}
	return entry
}

func TestAppendAndLatest(t *testing.T) {
	l := New("https://example.com/telemetry")

	if got := l.Latest(testSuite); got != nil {
		t.Fatalf("Latest() on empty ledger = %v, want nil", got)
	}

	first := makeEntry(t, 1000, 10)
	second := makeEntry(t, 2000, 12)

	if err := l.Append(testSuite, first); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if err := l.Append(testSuite, second); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	if got := l.Latest(testSuite); got != second {
		t.Errorf("Latest() = %v, want the second entry", got)
	}
	if got := l.Len(testSuite); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if got := l.LastUpdate(); got == 0 {
		t.Error("LastUpdate() = 0 after appends")
	}
}

// TestAppendOutOfOrder checks that an entry dated before the tail
// is rejected and the ledger length is unchanged.
func TestAppendOutOfOrder(t *testing.T) {
	l := New("https://example.com/telemetry")

	if err := l.Append(testSuite, makeEntry(t, 2000, 10)); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	err := l.Append(testSuite, makeEntry(t, 1000, 11))
	if err == nil {
		t.Fatal("Append() with earlier date succeeded, want OutOfOrderError")
	}

	var ooe *bench.OutOfOrderError
	if !errors.As(err, &ooe) {
		t.Fatalf("Append() error = %T, want *OutOfOrderError", err)
	}
	if ooe.Date != 1000 || ooe.TailDate != 2000 {
		t.Errorf("OutOfOrderError dates = (%d, %d), want (1000, 2000)", ooe.Date, ooe.TailDate)
	}
	if got := l.Len(testSuite); got != 1 {
		t.Errorf("Len() = %d after rejected append, want 1", got)
	}
}

func TestAppendDuplicateDatesRetained(t *testing.T) {
	l := New("https://example.com/telemetry")

	// Two re-runs of the same commit at the same date are distinct
	// observations, never deduplicated.
	for i := 0; i < 2; i++ {
		if err := l.Append(testSuite, makeEntry(t, 5000, float64(10+i))); err != nil {
			t.Fatalf("Append() run %d failed: %v", i, err)
		}
	}

	if got := l.Len(testSuite); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestAppendToolMismatch(t *testing.T) {
	l := New("https://example.com/telemetry")

	if err := l.Append(testSuite, makeToolEntry(t, "customSmallerIsBetter", 1000, 10)); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	err := l.Append(testSuite, makeToolEntry(t, "customBiggerIsBetter", 2000, 10))
	if err == nil {
		t.Fatal("Append() with mismatched tool succeeded, want error")
	}
	var verr *bench.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Append() error = %T, want *ValidationError", err)
	}
}

// TestAppendOrderInvariant verifies that for all i<j the ledger holds
// entry[i].date <= entry[j].date, across interleaved suites.
func TestAppendOrderInvariant(t *testing.T) {
	l := New("https://example.com/telemetry")

	dates := []int64{100, 100, 250, 400, 400, 900}
	for _, d := range dates {
		if err := l.Append(testSuite, makeEntry(t, d, 1)); err != nil {
			t.Fatalf("Append(date=%d) failed: %v", d, err)
		}
		if err := l.Append("Other Suite", makeToolEntry(t, "customBiggerIsBetter", d, 1)); err != nil {
			t.Fatalf("Append(other, date=%d) failed: %v", d, err)
		}
	}

	for _, suite := range l.Suites() {
		entries := l.Entries(suite)
		for i := 1; i < len(entries); i++ {
			if entries[i-1].Date > entries[i].Date {
				t.Errorf("suite %q: entry[%d].Date=%d > entry[%d].Date=%d",
					suite, i-1, entries[i-1].Date, i, entries[i].Date)
			}
		}
	}
}

func TestEntriesInRange(t *testing.T) {
	l := New("https://example.com/telemetry")
	for _, d := range []int64{100, 200, 300, 400, 500} {
		if err := l.Append(testSuite, makeEntry(t, d, 1)); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	tests := []struct {
		name      string
		from, to  int64
		wantDates []int64
	}{
		{name: "inner range inclusive", from: 200, to: 400, wantDates: []int64{200, 300, 400}},
		{name: "full range", from: 0, to: 1000, wantDates: []int64{100, 200, 300, 400, 500}},
		{name: "single point", from: 300, to: 300, wantDates: []int64{300}},
		{name: "empty range", from: 600, to: 700, wantDates: []int64{}},
		{name: "inverted range", from: 400, to: 200, wantDates: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.EntriesInRange(testSuite, tt.from, tt.to)
			if len(got) != len(tt.wantDates) {
				t.Fatalf("EntriesInRange(%d, %d) returned %d entries, want %d",
					tt.from, tt.to, len(got), len(tt.wantDates))
			}
			for i, e := range got {
				if e.Date != tt.wantDates[i] {
					t.Errorf("entry[%d].Date = %d, want %d", i, e.Date, tt.wantDates[i])
				}
			}
		})
	}
}

func TestEntriesInRangeUnknownSuite(t *testing.T) {
	l := New("https://example.com/telemetry")

	if got := l.EntriesInRange("nope", 0, 1000); len(got) != 0 {
		t.Errorf("EntriesInRange() on unknown suite returned %d entries, want 0", len(got))
	}
}

func TestStreamRange(t *testing.T) {
	l := New("https://example.com/telemetry")
	for _, d := range []int64{100, 200, 300} {
		if err := l.Append(testSuite, makeEntry(t, d, 1)); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	ctx := context.Background()

	// The stream is restartable: consuming it twice yields the same entries.
	for round := 0; round < 2; round++ {
		entriesCh, errCh, err := l.StreamRange(ctx, testSuite, 0, 1000)
		if err != nil {
			t.Fatalf("StreamRange() failed: %v", err)
		}

		var dates []int64
		for entry := range entriesCh {
			dates = append(dates, entry.Date)
		}
		if err := <-errCh; err != nil {
			t.Fatalf("stream error: %v", err)
		}

		if len(dates) != 3 || dates[0] != 100 || dates[2] != 300 {
			t.Errorf("round %d: streamed dates = %v, want [100 200 300]", round, dates)
		}
	}
}

func TestStreamRangeCancellation(t *testing.T) {
	l := New("https://example.com/telemetry")
	for d := int64(0); d < 500; d++ {
		if err := l.Append(testSuite, makeEntry(t, d, 1)); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	entriesCh, errCh, err := l.StreamRange(ctx, testSuite, 0, 1000)
	if err != nil {
		t.Fatalf("StreamRange() failed: %v", err)
	}

	// Read one entry, then cancel mid-stream.
	<-entriesCh
	cancel()

	for range entriesCh {
	}
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("stream error = %v, want context.Canceled", err)
	}
}

func TestSuitesOrder(t *testing.T) {
	l := New("https://example.com/telemetry")

	if err := l.Append("Suite B", makeEntry(t, 100, 1)); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if err := l.Append("Suite A", makeEntry(t, 100, 1)); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	suites := l.Suites()
	if len(suites) != 2 || suites[0] != "Suite B" || suites[1] != "Suite A" {
		t.Errorf("Suites() = %v, want first-append order [Suite B, Suite A]", suites)
	}
}
