package storage

import (
	"context"
	"sync"

	"benchhq/benchvault/pkg/bench"
)

// MemoryStorage implements the Storage interface with in-process slices.
// This implementation is intended for testing and ephemeral deployments.
type MemoryStorage struct {
	mu     sync.RWMutex
	suites map[string][]*bench.Entry
	order  []string
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		suites: make(map[string][]*bench.Entry),
	}
}

// Append persists one entry under the given suite.
func (s *MemoryStorage) Append(ctx context.Context, suite string, entry *bench.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.suites[suite]; !ok {
		s.order = append(s.order, suite)
	}
	s.suites[suite] = append(s.suites[suite], entry)
	return nil
}

// List retrieves a suite's entries within [from, to] in append order.
func (s *MemoryStorage) List(ctx context.Context, suite string, from, to int64) ([]*bench.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*bench.Entry{}
	for _, entry := range s.suites[suite] {
		if entry.Date < from || entry.Date > to {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// Stream returns a channel of entries within [from, to].
func (s *MemoryStorage) Stream(ctx context.Context, suite string, from, to int64) (<-chan *bench.Entry, <-chan error, error) {
	snapshot, err := s.List(ctx, suite, from, to)
	if err != nil {
		return nil, nil, err
	}

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

// Count returns the number of entries persisted for a suite.
func (s *MemoryStorage) Count(ctx context.Context, suite string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.suites[suite])), nil
}

// Suites returns the suite names in first-append order.
func (s *MemoryStorage) Suites(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

// Close releases the backend's entries.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.suites = make(map[string][]*bench.Entry)
	s.order = nil
	return nil
}
