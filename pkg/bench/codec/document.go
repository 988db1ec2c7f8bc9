package codec

import (
	"benchhq/benchvault/pkg/bench"
)

// Suite is one named entry history inside a persisted document. The name
// is the display key under "entries" in the JSON layout.
type Suite struct {
	Name    string
	Entries []*bench.Entry
}

// Document is the persisted ledger layout consumed verbatim by existing
// dashboard renderers:
//
//	{
//	  "lastUpdate": <epoch millis of last append>,
//	  "repoUrl": "<repository URL>",
//	  "entries": { "<toolDisplayName>": [ <entry>, ... ], ... }
//	}
//
// Suites preserves the key order of "entries" as first seen; Go's map
// marshaling would sort keys alphabetically and break the byte-for-byte
// round-trip requirement, so the document keeps an explicit slice.
type Document struct {
	LastUpdate int64
	RepoURL    string
	Suites     []Suite
}

// Suite returns the named suite, or nil if the document has none.
func (d *Document) Suite(name string) *Suite {
	for i := range d.Suites {
		if d.Suites[i].Name == name {
			return &d.Suites[i]
		}
	}
	return nil
}

// AddEntry appends an entry to the named suite, creating the suite at
// the end of the key order if it does not exist yet.
func (d *Document) AddEntry(name string, entry *bench.Entry) {
	if s := d.Suite(name); s != nil {
		s.Entries = append(s.Entries, entry)
		return
	}
	d.Suites = append(d.Suites, Suite{Name: name, Entries: []*bench.Entry{entry}})
}

// EntryCount returns the total number of entries across all suites.
func (d *Document) EntryCount() int {
	n := 0
	for i := range d.Suites {
		n += len(d.Suites[i].Entries)
	}
	return n
}
