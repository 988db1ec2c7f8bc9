package index

import (
	"sync"

	"benchhq/benchvault/pkg/bench"
	"benchhq/benchvault/pkg/bench/ledger"
)

// Point is one observation in a metric series: the owning entry's date
// and the measurement value.
type Point struct {
	Date  int64   `json:"date"`
	Value float64 `json:"value"`
}

// variantPoint carries the measurement's extra label alongside the point
// so one scan serves both filtered and unfiltered queries.
type variantPoint struct {
	Point
	extra string
}

type seriesKey struct {
	suite string
	name  string
}

// MetricIndex projects raw ledger entries into per-metric time series.
//
// The index is a pure projection over one ledger and carries no
// independent identity: it tracks the ledger's generation counter and
// folds in newly appended entries before answering a query. Appends only
// extend suites, so the index never rescans history it has already
// consumed.
//
// Safe for concurrent use.
type MetricIndex struct {
	mu sync.Mutex

	ledger *ledger.Ledger

	generation uint64
	epoch      uint64
	consumed   map[string]int // entries folded in, per suite
	series     map[seriesKey][]variantPoint
	names      map[string][]string // metric names per suite, first-seen order
}

// New creates a metric index over the given ledger.
func New(l *ledger.Ledger) *MetricIndex {
	return &MetricIndex{
		ledger:   l,
		consumed: make(map[string]int),
		series:   make(map[seriesKey][]variantPoint),
		names:    make(map[string][]string),
	}
}

// SeriesFor returns the ordered (date, value) series for a metric.
//
// extra filters variants by exact string match; the empty string means
// "any extra", returning all variants interleaved by date. Callers that
// need a per-variant series must supply the variant's extra label.
//
// Ordering follows the ledger: ascending by entry date, ties in
// insertion order, never re-sorted. The result is idempotent: two calls
// against an unchanged ledger return identical slices.
func (ix *MetricIndex) SeriesFor(suite, name, extra string) []Point {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.refresh()

	points := ix.series[seriesKey{suite: suite, name: name}]
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if extra != "" && p.extra != extra {
			continue
		}
		out = append(out, p.Point)
	}
	return out
}

// LatestValue returns the most recent matching value for a metric, with
// ok == false when no measurement matches.
func (ix *MetricIndex) LatestValue(suite, name, extra string) (float64, bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.refresh()

	points := ix.series[seriesKey{suite: suite, name: name}]
	for i := len(points) - 1; i >= 0; i-- {
		if extra == "" || points[i].extra == extra {
			return points[i].Value, true
		}
	}
	return 0, false
}

// Names returns the metric names observed in a suite, in first-seen order.
func (ix *MetricIndex) Names(suite string) []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.refresh()

	out := make([]string, len(ix.names[suite]))
	copy(out, ix.names[suite])
	return out
}

// refresh folds newly appended entries into the index. Callers must hold mu.
//
// Within one ledger epoch, appends only extend suites, so the usual path
// folds entries past the consumed watermark. An epoch change means the
// ledger was replaced wholesale (document reload) and any prefix may
// differ, which invalidates the incremental state and forces a full
// rebuild.
func (ix *MetricIndex) refresh() {
	gen := ix.ledger.Generation()
	if gen == ix.generation {
		return
	}

	if epoch := ix.ledger.Epoch(); epoch != ix.epoch {
		ix.reset()
		ix.epoch = epoch
	}

	for _, suite := range ix.ledger.Suites() {
		entries := ix.ledger.Entries(suite)
		for _, entry := range entries[ix.consumed[suite]:] {
			ix.consume(suite, entry)
		}
		ix.consumed[suite] = len(entries)
	}

	ix.generation = gen
}

// reset drops all incremental state. Callers must hold mu.
func (ix *MetricIndex) reset() {
	ix.consumed = make(map[string]int)
	ix.series = make(map[seriesKey][]variantPoint)
	ix.names = make(map[string][]string)
}

func (ix *MetricIndex) consume(suite string, entry *bench.Entry) {
	for _, m := range entry.Benches {
		key := seriesKey{suite: suite, name: m.Name}
		if _, seen := ix.series[key]; !seen {
			ix.names[suite] = append(ix.names[suite], m.Name)
		}
		ix.series[key] = append(ix.series[key], variantPoint{
			Point: Point{Date: entry.Date, Value: m.Value},
			extra: m.Extra,
		})
	}
}
