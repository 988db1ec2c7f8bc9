package snapshot

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"benchhq/benchvault/pkg/bench"
	"benchhq/benchvault/pkg/bench/codec"
	"benchhq/benchvault/pkg/bench/ledger"
	"benchhq/benchvault/pkg/telemetry/metrics"
)

// WriterConfig contains configuration for the snapshot writer.
type WriterConfig struct {
	// Path is the destination for the persisted JSON document.
	Path string

	// DataJSPath, when set, additionally writes the JS wrapper variant
	// consumed by static dashboard pages.
	DataJSPath string

	// Archive enables copying the previous document to a timestamped
	// sibling before it is overwritten.
	Archive bool

	// ArchiveDir is the directory for archived documents.
	// Defaults to "<dir of Path>/archive".
	ArchiveDir string
}

// DefaultWriterConfig returns the default writer configuration.
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		Path: "data/benchmarks.json",
	}
}

// Writer serializes a ledger to the persisted document on disk.
// Writes go through a temp file plus rename so a reader never observes
// a partially written document.
type Writer struct {
	ledger    *ledger.Ledger
	config    *WriterConfig
	collector *metrics.Collector
	logger    *slog.Logger
}

// NewWriter creates a snapshot writer for the given ledger.
func NewWriter(l *ledger.Ledger, config *WriterConfig) *Writer {
	if config == nil {
		config = DefaultWriterConfig()
	}
	return &Writer{
		ledger: l,
		config: config,
		logger: slog.Default().With("component", "bench.snapshot"),
	}
}

// SetCollector attaches a metrics collector; each Write then records a
// benchvault_snapshot_writes_total sample by outcome.
func (w *Writer) SetCollector(c *metrics.Collector) {
	w.collector = c
}

// Write serializes the current ledger state to the configured path.
func (w *Writer) Write() error {
	if err := w.write(); err != nil {
		w.recordWrite("error")
		return err
	}
	w.recordWrite("success")
	return nil
}

func (w *Writer) recordWrite(status string) {
	if w.collector != nil {
		w.collector.RecordSnapshotWrite(status)
	}
}

func (w *Writer) write() error {
	doc := w.ledger.Snapshot()

	if w.config.Archive {
		if err := w.archive(); err != nil {
			return err
		}
	}

	data, err := codec.Marshal(doc)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(w.config.Path, data); err != nil {
		return bench.NewStorageError("snapshot", "write", err)
	}

	if w.config.DataJSPath != "" {
		js := append([]byte(codec.DataJSPrefix), data...)
		js = append(js, '\n')
		if err := writeFileAtomic(w.config.DataJSPath, js); err != nil {
			return bench.NewStorageError("snapshot", "write", err)
		}
	}

	w.logger.Info("snapshot written",
		"path", w.config.Path,
		"suites", len(doc.Suites),
		"entries", doc.EntryCount(),
	)
	return nil
}

// archive copies the existing document, if any, into the archive
// directory under a timestamped name.
func (w *Writer) archive() error {
	data, err := os.ReadFile(w.config.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return bench.NewStorageError("snapshot", "archive", err)
	}

	dir := w.config.ArchiveDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(w.config.Path), "archive")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return bench.NewStorageError("snapshot", "archive", err)
	}

	name := fmt.Sprintf("%s.%s.json",
		baseName(w.config.Path),
		time.Now().UTC().Format("20060102T150405"),
	)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return bench.NewStorageError("snapshot", "archive", err)
	}

	w.logger.Debug("previous snapshot archived", "archive", filepath.Join(dir, name))
	return nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a persisted document from disk and rebuilds a ledger.
func Load(path string) (*ledger.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, bench.NewStorageError("snapshot", "load", err)
	}
	defer f.Close()

	doc, err := codec.Decode(f)
	if err != nil {
		return nil, err
	}
	return ledger.FromDocument(doc)
}
