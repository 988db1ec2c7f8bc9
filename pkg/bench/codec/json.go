package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"benchhq/benchvault/pkg/bench"
)

// DataJSPrefix wraps the document when it is embedded in the dashboard
// site's data file: `window.BENCHMARK_DATA = {...}`.
const DataJSPrefix = "window.BENCHMARK_DATA = "

// Encode writes the document as compact JSON with fixed field order:
// lastUpdate, repoUrl, entries, then suites in first-seen key order.
// Encoding a decoded document reproduces the original bytes, so the
// store never perturbs what existing renderers consume.
func Encode(w io.Writer, doc *Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return bench.NewCodecError("encode", err)
	}
	return nil
}

// Marshal serializes the document to compact JSON.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`{"lastUpdate":`)
	buf.WriteString(strconv.FormatInt(doc.LastUpdate, 10))
	buf.WriteString(`,"repoUrl":`)
	if err := writeJSON(&buf, doc.RepoURL); err != nil {
		return nil, err
	}
	buf.WriteString(`,"entries":{`)
	for i := range doc.Suites {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, doc.Suites[i].Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		entries := doc.Suites[i].Entries
		if entries == nil {
			entries = []*bench.Entry{}
		}
		if err := writeJSON(&buf, entries); err != nil {
			return nil, err
		}
	}
	buf.WriteString("}}")

	return buf.Bytes(), nil
}

// writeJSON appends one JSON value. HTML escaping is disabled: the CI
// producers emit "&", "<", and ">" raw in commit messages and extras,
// and re-encoding must not turn them into & escapes.
func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return bench.NewCodecError("encode", err)
	}
	// Encode always terminates the value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Decode reads a persisted document, preserving the "entries" key order.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	doc := &Document{}
	for dec.More() {
		key, err := readString(dec)
		if err != nil {
			return nil, err
		}

		switch key {
		case "lastUpdate":
			tok, err := dec.Token()
			if err != nil {
				return nil, bench.NewCodecError("decode", err)
			}
			num, ok := tok.(json.Number)
			if !ok {
				return nil, bench.NewCodecError("decode", fmt.Errorf("lastUpdate is not a number: %v", tok))
			}
			millis, err := num.Int64()
			if err != nil {
				return nil, bench.NewCodecError("decode", err)
			}
			doc.LastUpdate = millis

		case "repoUrl":
			url, err := readString(dec)
			if err != nil {
				return nil, err
			}
			doc.RepoURL = url

		case "entries":
			if err := decodeSuites(dec, doc); err != nil {
				return nil, err
			}

		default:
			// Skip unknown fields for forward compatibility.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, bench.NewCodecError("decode", err)
			}
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return doc, nil
}

// decodeSuites reads the "entries" object one key at a time so the suite
// order survives the round trip.
func decodeSuites(dec *json.Decoder, doc *Document) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	for dec.More() {
		name, err := readString(dec)
		if err != nil {
			return err
		}

		var entries []*bench.Entry
		if err := dec.Decode(&entries); err != nil {
			return bench.NewCodecError("decode", err)
		}

		doc.Suites = append(doc.Suites, Suite{Name: name, Entries: entries})
	}

	return expectDelim(dec, '}')
}

// DecodeDataJS reads the dashboard site's `window.BENCHMARK_DATA = {...}`
// wrapper and returns the embedded document.
func DecodeDataJS(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, bench.NewCodecError("decode", err)
	}

	text := strings.TrimSpace(string(data))
	if !strings.HasPrefix(text, DataJSPrefix) {
		return nil, bench.NewCodecError("decode", fmt.Errorf("missing %q prefix", DataJSPrefix))
	}
	text = strings.TrimPrefix(text, DataJSPrefix)

	return Decode(strings.NewReader(text))
}

// EncodeDataJS writes the document wrapped for direct inclusion by the
// dashboard site.
func EncodeDataJS(w io.Writer, doc *Document) error {
	if _, err := io.WriteString(w, DataJSPrefix); err != nil {
		return bench.NewCodecError("encode", err)
	}
	if err := Encode(w, doc); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return bench.NewCodecError("encode", err)
	}
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return bench.NewCodecError("decode", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return bench.NewCodecError("decode", fmt.Errorf("expected %q, got %v", want, tok))
	}
	return nil
}

func readString(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", bench.NewCodecError("decode", err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", bench.NewCodecError("decode", fmt.Errorf("expected string, got %v", tok))
	}
	return s, nil
}
