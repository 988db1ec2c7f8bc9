package storage

import (
	"context"

	"benchhq/benchvault/pkg/bench"
	"benchhq/benchvault/pkg/bench/ledger"
)

// Storage defines the interface for durable ledger backends.
// Implementations must be thread-safe and support concurrent access.
//
// A backend is a faithful sink: it persists entries in append order and
// reproduces them verbatim. Ordering and tool-consistency enforcement
// belong to the Ledger; rebuilding a ledger from storage replays every
// entry through Append, so a corrupted store surfaces as a load error
// rather than silently reordered history.
type Storage interface {
	// Append persists one entry under the given suite.
	Append(ctx context.Context, suite string, entry *bench.Entry) error

	// List retrieves a suite's entries whose date falls in the
	// inclusive range [from, to], in append order. An empty result is
	// an empty slice, not an error.
	List(ctx context.Context, suite string, from, to int64) ([]*bench.Entry, error)

	// Stream returns a channel of entries for memory-efficient reads
	// of large ranges.
	//
	// Returns:
	//   - entriesCh: channel of entries (buffered)
	//   - errCh: channel for errors (buffered, max 1 error)
	//   - error: immediate error
	//
	// Both channels are closed when the stream completes or errors.
	Stream(ctx context.Context, suite string, from, to int64) (<-chan *bench.Entry, <-chan error, error)

	// Count returns the number of entries persisted for a suite.
	Count(ctx context.Context, suite string) (int64, error)

	// Suites returns the suite names present in the store, in
	// first-append order.
	Suites(ctx context.Context) ([]string, error)

	// Close releases any resources held by the backend.
	Close() error
}

// LoadLedger rebuilds an in-memory ledger from a storage backend by
// replaying every persisted entry in append order.
func LoadLedger(ctx context.Context, s Storage, repoURL string) (*ledger.Ledger, error) {
	l := ledger.New(repoURL)

	suites, err := s.Suites(ctx)
	if err != nil {
		return nil, err
	}

	for _, suite := range suites {
		entries, err := s.List(ctx, suite, 0, maxDate)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if err := l.Append(suite, entry); err != nil {
				return nil, err
			}
		}
	}

	return l, nil
}

// maxDate is the upper bound used for unbounded range reads.
const maxDate = int64(1<<63 - 1)
