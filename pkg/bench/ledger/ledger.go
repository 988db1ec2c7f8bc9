package ledger

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"benchhq/benchvault/pkg/bench"
)

// Ledger holds the full append-only benchmark history for a repository,
// organized into named suites. A suite is one tool's ordered entry
// history; its name is the display key used in the persisted document
// (for example "Telemetry Pipeline Benchmarks").
//
// The ledger is an explicit handle passed into every component rather
// than process-wide state, so multiple ledgers (one per repository) can
// coexist in one process.
//
// Concurrency: single-writer, multi-reader. Append must be serialized
// per ledger (an internal mutex enforces this); reads may run
// concurrently and always observe whole entries, never a half-written
// measurement list. Read results share the immutable entries but never
// the internal slices.
type Ledger struct {
	mu sync.RWMutex

	repoURL    string
	lastUpdate int64 // epoch millis of last append

	suites map[string][]*bench.Entry
	order  []string // suite names in first-append order

	// generation increments on every append; projections such as the
	// metric index use it to detect staleness.
	generation uint64

	// epoch increments on every wholesale replacement. Appends only
	// extend history, so projections can fold increments within one
	// epoch but must rebuild when it changes.
	epoch uint64

	logger *slog.Logger
}

// New creates an empty ledger for the given repository URL.
func New(repoURL string) *Ledger {
	return &Ledger{
		repoURL: repoURL,
		suites:  make(map[string][]*bench.Entry),
		logger:  slog.Default().With("component", "bench.ledger"),
	}
}

// RepoURL returns the repository URL the ledger records benchmarks for.
func (l *Ledger) RepoURL() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.repoURL
}

// LastUpdate returns the epoch-millisecond timestamp of the most recent
// append, or 0 if nothing has been appended.
func (l *Ledger) LastUpdate() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastUpdate
}

// Generation returns a counter that increments on every append.
func (l *Ledger) Generation() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.generation
}

// Epoch returns a counter that increments whenever the ledger's contents
// are replaced wholesale, as in a document reload. Within one epoch,
// history only grows.
func (l *Ledger) Epoch() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.epoch
}

// Suites returns the suite names in first-append order.
func (l *Ledger) Suites() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Tool returns the tool shared by all entries of a suite, or "" if the
// suite does not exist.
func (l *Ledger) Tool(suite string) bench.Tool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.suites[suite]
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Tool
}

// Append records one entry at the tail of a suite.
//
// It fails with a *bench.OutOfOrderError if the entry's date is strictly
// less than the suite's current tail date. Duplicate dates from re-runs
// on the same commit are permitted and retained: each CI re-run is a
// distinct observation, never deduplicated. All entries of a suite must
// share one tool; a mismatch is rejected as a *bench.ValidationError.
func (l *Ledger) Append(suite string, entry *bench.Entry) error {
	if entry == nil {
		return bench.NewValidationError("entry", "entry must not be nil")
	}
	if suite == "" {
		return bench.NewValidationError("suite", "suite name must not be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.suites[suite]
	if len(entries) > 0 {
		tail := entries[len(entries)-1]
		if entry.Date < tail.Date {
			return bench.NewOutOfOrderError(entry.Tool, entry.Date, tail.Date)
		}
		if entry.Tool != tail.Tool {
			return bench.NewValidationError("tool", "suite "+suite+" already records tool "+string(tail.Tool))
		}
	} else if _, ok := l.suites[suite]; !ok {
		l.order = append(l.order, suite)
	}

	l.suites[suite] = append(entries, entry)
	l.lastUpdate = time.Now().UnixMilli()
	l.generation++

	l.logger.Debug("entry appended",
		"suite", suite,
		"tool", entry.Tool,
		"commit", entry.Commit.ID,
		"date", entry.Date,
		"benches", len(entry.Benches),
	)

	return nil
}

// Len returns the number of entries recorded for a suite.
func (l *Ledger) Len(suite string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.suites[suite])
}

// Latest returns the most recently appended entry for a suite, or nil if
// the suite is empty or unknown.
func (l *Ledger) Latest(suite string) *bench.Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.suites[suite]
	if len(entries) == 0 {
		return nil
	}
	return entries[len(entries)-1]
}

// Entries returns all entries of a suite in append order.
func (l *Ledger) Entries(suite string) []*bench.Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.suites[suite]
	out := make([]*bench.Entry, len(entries))
	copy(out, entries)
	return out
}

// EntriesInRange returns the suite's entries whose date falls in the
// inclusive range [from, to], in ascending date order. An empty range
// yields an empty slice, not an error.
func (l *Ledger) EntriesInRange(suite string, from, to int64) []*bench.Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.suites[suite]

	// Dates are non-decreasing, so the range is a contiguous window.
	lo := sort.Search(len(entries), func(i int) bool { return entries[i].Date >= from })
	hi := sort.Search(len(entries), func(i int) bool { return entries[i].Date > to })
	if lo >= hi {
		return []*bench.Entry{}
	}

	out := make([]*bench.Entry, hi-lo)
	copy(out, entries[lo:hi])
	return out
}

// StreamRange returns a channel of entries for memory-efficient
// consumption of large ranges. The stream iterates a snapshot taken at
// call time; restart it by calling StreamRange again.
//
// Returns:
//   - entriesCh: channel of entries in ascending date order (buffered)
//   - errCh: channel for errors (buffered, max 1 error)
//   - error: immediate error
//
// Both channels are closed when the stream completes or errors. Callers
// should read from both until they are closed.
func (l *Ledger) StreamRange(ctx context.Context, suite string, from, to int64) (<-chan *bench.Entry, <-chan error, error) {
	snapshot := l.EntriesInRange(suite, from, to)

	entriesCh := make(chan *bench.Entry, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(entriesCh)
		defer close(errCh)

		for _, entry := range snapshot {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case entriesCh <- entry:
			}
		}
	}()

	return entriesCh, errCh, nil
}
