package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAppend(t *testing.T) {
	c := NewCollector(nil)

	c.RecordAppend("customSmallerIsBetter", "success")
	c.RecordAppend("customSmallerIsBetter", "success")
	c.RecordAppend("customSmallerIsBetter", "rejected")

	got := testutil.ToFloat64(c.appendsTotal.WithLabelValues("customSmallerIsBetter", "success"))
	if got != 2 {
		t.Errorf("appends success = %v, want 2", got)
	}
	got = testutil.ToFloat64(c.appendsTotal.WithLabelValues("customSmallerIsBetter", "rejected"))
	if got != 1 {
		t.Errorf("appends rejected = %v, want 1", got)
	}
}

func TestSetEntries(t *testing.T) {
	c := NewCollector(nil)

	c.SetEntries("Collector Benchmarks", 3)
	c.SetEntries("Collector Benchmarks", 4)

	got := testutil.ToFloat64(c.entriesTotal.WithLabelValues("Collector Benchmarks"))
	if got != 4 {
		t.Errorf("entries gauge = %v, want 4", got)
	}
}

func TestRecordRegressionsFlagged(t *testing.T) {
	c := NewCollector(nil)

	c.RecordRegressionsFlagged("Collector Benchmarks", 2)
	c.RecordRegressionsFlagged("Collector Benchmarks", 0) // no-op

	got := testutil.ToFloat64(c.regressionsFlaggedTotal.WithLabelValues("Collector Benchmarks"))
	if got != 2 {
		t.Errorf("regressions flagged = %v, want 2", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector(nil)
	c.RecordAppend("customBiggerIsBetter", "success")
	c.RecordSeriesQuery("success")
	c.ObserveQueryDuration("series", 5*time.Millisecond)
	c.RecordSnapshotWrite("success")

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	for _, name := range []string{
		"benchvault_appends_total",
		"benchvault_series_queries_total",
		"benchvault_query_duration_seconds",
		"benchvault_snapshot_writes_total",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("exposition missing %s", name)
		}
	}
}

func TestIndependentRegistries(t *testing.T) {
	// Two collectors must not clash; each carries its own registry.
	a := NewCollector(nil)
	b := NewCollector(nil)

	a.RecordAppend("customSmallerIsBetter", "success")

	if got := testutil.ToFloat64(b.appendsTotal.WithLabelValues("customSmallerIsBetter", "success")); got != 0 {
		t.Errorf("second collector counter = %v, want 0", got)
	}
}
