package storage

import (
	"context"
	"testing"

	"benchhq/benchvault/pkg/bench"
)

const testSuite = "Telemetry Pipeline Benchmarks"

func makeEntry(t *testing.T, date int64, value float64) *bench.Entry {
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

	entry, err := bench.NewEntry(commit, "customSmallerIsBetter", date, []bench.Measurement{
		{Name: "cpu_percentage_avg", Value: value, Unit: "%", Extra: "CI 100kLRPS/OTAP-ATTR-OTAP"},
		{Name: "ram_mib_max", Value: value * 10, Unit: "MiB", Extra: "CI 100kLRPS/OTAP-ATTR-OTAP"},
	})
	if err != nil {
		t.Fatalf("NewEntry() failed: %v", err)
	}
	return entry
}

// backendTest exercises the Storage contract shared by all backends.
func backendTest(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	if count, err := s.Count(ctx, testSuite); err != nil || count != 0 {
		t.Fatalf("Count() on empty store = (%d, %v), want (0, nil)", count, err)
	}

	for _, d := range []int64{100, 200, 300} {
		if err := s.Append(ctx, testSuite, makeEntry(t, d, float64(d))); err != nil {
			t.Fatalf("Append(date=%d) failed: %v", d, err)
		}
	}
	if err := s.Append(ctx, "Other Suite", makeEntry(t, 150, 1)); err != nil {
		t.Fatalf("Append(other) failed: %v", err)
	}

	count, err := s.Count(ctx, testSuite)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}

	suites, err := s.Suites(ctx)
	if err != nil {
		t.Fatalf("Suites() failed: %v", err)
	}
	if len(suites) != 2 || suites[0] != testSuite || suites[1] != "Other Suite" {
		t.Errorf("Suites() = %v, want first-append order", suites)
	}

	entries, err := s.List(ctx, testSuite, 150, 300)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Date != 200 || entries[1].Date != 300 {
		t.Errorf("List(150, 300) dates = %v, want [200 300]", dates(entries))
	}

	// Entries survive persistence intact, measurements included.
	got := entries[0]
	if got.Tool != bench.ToolSmallerIsBetter {
		t.Errorf("restored tool = %q", got.Tool)
	}
	if len(got.Benches) != 2 || got.Benches[0].Name != "cpu_percentage_avg" || got.Benches[0].Value != 200 {
		t.Errorf("restored benches = %+v", got.Benches)
	}
	if got.Commit.Author.Email != "ada@example.com" {
		t.Errorf("restored commit author = %+v", got.Commit.Author)
	}

	// Stream yields the same sequence as List.
	entriesCh, errCh, err := s.Stream(ctx, testSuite, 0, maxDate)
	if err != nil {
		t.Fatalf("Stream() failed: %v", err)
	}
	var streamed []int64
	for entry := range entriesCh {
		streamed = append(streamed, entry.Date)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if len(streamed) != 3 || streamed[0] != 100 || streamed[2] != 300 {
		t.Errorf("streamed dates = %v, want [100 200 300]", streamed)
	}
}

func dates(entries []*bench.Entry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.Date
	}
	return out
}

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()
	defer s.Close()

	backendTest(t, s)
}

func TestLoadLedger(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	defer s.Close()

	for _, d := range []int64{100, 200, 300} {
		if err := s.Append(ctx, testSuite, makeEntry(t, d, 5)); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	l, err := LoadLedger(ctx, s, "https://example.com/telemetry")
	if err != nil {
		t.Fatalf("LoadLedger() failed: %v", err)
	}

	if l.Len(testSuite) != 3 {
		t.Errorf("loaded ledger length = %d, want 3", l.Len(testSuite))
	}
	if l.RepoURL() != "https://example.com/telemetry" {
		t.Errorf("loaded RepoURL = %q", l.RepoURL())
	}
	if latest := l.Latest(testSuite); latest == nil || latest.Date != 300 {
		t.Errorf("loaded Latest() = %v, want date 300", latest)
	}
}

func TestLoadLedgerRejectsDisorder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	defer s.Close()

	// A store with reordered history must fail the replay, not be
	// silently re-sorted.
	if err := s.Append(ctx, testSuite, makeEntry(t, 300, 1)); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if err := s.Append(ctx, testSuite, makeEntry(t, 100, 1)); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	if _, err := LoadLedger(ctx, s, "https://example.com/telemetry"); err == nil {
		t.Error("LoadLedger() on disordered store succeeded, want error")
	}
}
