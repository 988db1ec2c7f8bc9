package ledger

import (
	"benchhq/benchvault/pkg/bench"
	"benchhq/benchvault/pkg/bench/codec"
)

// Snapshot captures the ledger's current state as a persistable
// document. The document shares the ledger's immutable entries but owns
// its slices, so a concurrent append cannot perturb an in-flight encode.
func (l *Ledger) Snapshot() *codec.Document {
	l.mu.RLock()
	defer l.mu.RUnlock()

	doc := &codec.Document{
		LastUpdate: l.lastUpdate,
		RepoURL:    l.repoURL,
		Suites:     make([]codec.Suite, 0, len(l.order)),
	}

	for _, name := range l.order {
		entries := make([]*bench.Entry, len(l.suites[name]))
		copy(entries, l.suites[name])
		doc.Suites = append(doc.Suites, codec.Suite{Name: name, Entries: entries})
	}

	return doc
}

// FromDocument rebuilds a ledger from a persisted document.
//
// Entries are replayed through Append, so a document that violates the
// append-order invariant is rejected rather than silently accepted; the
// as-observed ordering of the source ledger is the contract, not a
// property to repair on load.
func FromDocument(doc *codec.Document) (*Ledger, error) {
	l := New(doc.RepoURL)

	for _, suite := range doc.Suites {
		for _, entry := range suite.Entries {
			if err := l.Append(suite.Name, entry); err != nil {
				return nil, err
			}
		}
	}

	// Appends stamp the wall clock; restore the persisted timestamp so
	// the round trip is exact.
	l.mu.Lock()
	l.lastUpdate = doc.LastUpdate
	l.mu.Unlock()

	return l, nil
}

// ReplaceFromDocument swaps the ledger's contents for the document's,
// keeping the ledger's identity so long-lived readers (handlers, the
// metric index) observe the new history. The document is validated by
// the same replay as FromDocument before anything is replaced.
//
// The generation counter keeps advancing monotonically and the epoch
// counter is bumped, so projections notice the change and rebuild rather
// than folding the new history onto the old.
func (l *Ledger) ReplaceFromDocument(doc *codec.Document) error {
	fresh, err := FromDocument(doc)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.repoURL = fresh.repoURL
	l.lastUpdate = fresh.lastUpdate
	l.suites = fresh.suites
	l.order = fresh.order
	l.generation++
	l.epoch++

	return nil
}
