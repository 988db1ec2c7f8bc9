package codec

import (
	"bytes"
	"strings"
	"testing"

	"benchhq/benchvault/pkg/bench"
)

// sampleJSON mirrors the layout CI producers write: fixed field order,
// suite keys in insertion (not alphabetical) order, integer and decimal
// values, a negative counter-reset artifact, and raw "&", "<", ">"
// characters in the repo URL and commit message (the producers never
// HTML-escape them).
const sampleJSON = `{"lastUpdate":1754030100000,"repoUrl":"https://example.com/telemetry?page=1&per_page=50","entries":{"Zeta Suite":[{"commit":{"author":{"name":"Ada Example","email":"ada@example.com","username":"ada"},"committer":{"name":"Ada Example","email":"ada@example.com","username":"ada"},"distinct":true,"id":"0f5a1e9c9b2d4c6e8a0b1c2d3e4f5a6b7c8d9e0f","message":"tune exporter a->b & batch<512","timestamp":"2026-08-01T10:15:00+02:00","tree_id":"9e0f0f5a1e9c9b2d4c6e8a0b1c2d3e4f5a6b7c8d","url":"https://example.com/telemetry/commit/0f5a1e9c"},"date":1754030100000,"tool":"customSmallerIsBetter","benches":[{"name":"cpu_percentage_avg","value":41.58,"unit":"%","extra":"CI 100kLRPS/OTAP-ATTR-OTAP"},{"name":"Dropped Log Count","value":-2005000,"unit":"count","extra":"CI 100kLRPS/OTLP-OTLP - Drops"}]}],"Alpha Suite":[{"commit":{"author":{"name":"Ada Example","email":"ada@example.com","username":"ada"},"committer":{"name":"Ada Example","email":"ada@example.com","username":"ada"},"distinct":false,"id":"1a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4d","message":"bump collector","timestamp":"2026-08-02T09:00:00+02:00","tree_id":"2b3c1a2b3c4d5e6f708192a3b4c5d6e7f8091a2b","url":"https://example.com/telemetry/commit/1a2b3c4d"},"date":1754116500000,"tool":"customBiggerIsBetter","benches":[{"name":"logs_produced_total","value":2500000,"unit":"count","extra":"CI 100kLRPS/OTAP-ATTR-OTAP - Log Counts"}]}]}}`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	if doc.LastUpdate != 1754030100000 {
		t.Errorf("LastUpdate = %d, want 1754030100000", doc.LastUpdate)
	}
	if doc.RepoURL != "https://example.com/telemetry?page=1&per_page=50" {
		t.Errorf("RepoURL = %q", doc.RepoURL)
	}
	if len(doc.Suites) != 2 {
		t.Fatalf("decoded %d suites, want 2", len(doc.Suites))
	}
	// Key order preserved, not alphabetized.
	if doc.Suites[0].Name != "Zeta Suite" || doc.Suites[1].Name != "Alpha Suite" {
		t.Errorf("suite order = [%q, %q], want [Zeta Suite, Alpha Suite]",
			doc.Suites[0].Name, doc.Suites[1].Name)
	}

	entry := doc.Suites[0].Entries[0]
	if entry.Tool != bench.ToolSmallerIsBetter {
		t.Errorf("entry tool = %q", entry.Tool)
	}
	if entry.Commit.Author.Username != "ada" {
		t.Errorf("author username = %q", entry.Commit.Author.Username)
	}
	if got := entry.Benches[1].Value; got != -2005000 {
		t.Errorf("negative value = %v, want -2005000", got)
	}
}

// TestRoundTripBytes verifies the byte-for-byte stability requirement:
// decode then encode must reproduce the original document exactly, so
// existing dashboard renderers that consume it verbatim keep working.
func TestRoundTripBytes(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	if got := buf.String(); got != sampleJSON {
		t.Errorf("round trip is not byte-stable\n got: %s\nwant: %s", got, sampleJSON)
	}
}

// TestRoundTripLaw verifies deserialize(serialize(doc)) == doc.
func TestRoundTripLaw(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	redecoded, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() of re-encoded document failed: %v", err)
	}

	if redecoded.LastUpdate != doc.LastUpdate || redecoded.RepoURL != doc.RepoURL {
		t.Error("document header changed across round trip")
	}
	if len(redecoded.Suites) != len(doc.Suites) {
		t.Fatalf("suite count changed: %d != %d", len(redecoded.Suites), len(doc.Suites))
	}
	for i := range doc.Suites {
		if redecoded.Suites[i].Name != doc.Suites[i].Name {
			t.Errorf("suite[%d] name changed: %q != %q", i, redecoded.Suites[i].Name, doc.Suites[i].Name)
		}
		if len(redecoded.Suites[i].Entries) != len(doc.Suites[i].Entries) {
			t.Errorf("suite[%d] entry count changed", i)
			continue
		}
		for j, e := range doc.Suites[i].Entries {
			re := redecoded.Suites[i].Entries[j]
			if re.Date != e.Date || re.Tool != e.Tool || re.Commit != e.Commit {
				t.Errorf("suite[%d] entry[%d] fields changed", i, j)
			}
			for k := range e.Benches {
				if re.Benches[k] != e.Benches[k] {
					t.Errorf("suite[%d] entry[%d] bench[%d] changed: %+v != %+v",
						i, j, k, re.Benches[k], e.Benches[k])
				}
			}
		}
	}
}

func TestDataJSRoundTrip(t *testing.T) {
	wrapped := DataJSPrefix + sampleJSON + "\n"

	doc, err := DecodeDataJS(strings.NewReader(wrapped))
	if err != nil {
		t.Fatalf("DecodeDataJS() failed: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeDataJS(&buf, doc); err != nil {
		t.Fatalf("EncodeDataJS() failed: %v", err)
	}
	if buf.String() != wrapped {
		t.Errorf("data.js round trip is not byte-stable\n got: %q", buf.String())
	}
}

func TestDecodeDataJSMissingPrefix(t *testing.T) {
	if _, err := DecodeDataJS(strings.NewReader(sampleJSON)); err == nil {
		t.Error("DecodeDataJS() without wrapper succeeded, want error")
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "not an object", input: `[1,2,3]`},
		{name: "truncated", input: `{"lastUpdate":123,"entries":{`},
		{name: "non-numeric lastUpdate", input: `{"lastUpdate":"soon"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.input)); err == nil {
				t.Errorf("Decode(%q) succeeded, want error", tt.input)
			}
		})
	}
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"lastUpdate":5,"repoUrl":"r","futureField":{"a":[1]},"entries":{}}`))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if doc.LastUpdate != 5 || doc.RepoURL != "r" {
		t.Errorf("decoded document = %+v", doc)
	}
}

func TestDocumentAddEntry(t *testing.T) {
	doc := &Document{}

	entry := &bench.Entry{Date: 1, Tool: bench.ToolSmallerIsBetter}
	doc.AddEntry("Suite A", entry)
	doc.AddEntry("Suite A", entry)
	doc.AddEntry("Suite B", entry)

	if len(doc.Suites) != 2 {
		t.Fatalf("document has %d suites, want 2", len(doc.Suites))
	}
	if got := len(doc.Suite("Suite A").Entries); got != 2 {
		t.Errorf("Suite A has %d entries, want 2", got)
	}
	if doc.EntryCount() != 3 {
		t.Errorf("EntryCount() = %d, want 3", doc.EntryCount())
	}
}
