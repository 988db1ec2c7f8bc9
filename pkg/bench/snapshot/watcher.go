package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"benchhq/benchvault/pkg/bench/ledger"
)

// WatcherConfig contains configuration for the document watcher.
type WatcherConfig struct {
	// Path is the document file to watch.
	Path string

	// DebounceInterval is the time to wait after a change before
	// reloading, so a writer still flushing does not trigger a read of
	// a half-written file (default: 250ms).
	DebounceInterval time.Duration
}

// DefaultWatcherConfig returns the default watcher configuration.
func DefaultWatcherConfig() *WatcherConfig {
	return &WatcherConfig{
		DebounceInterval: 250 * time.Millisecond,
	}
}

// Watcher watches the persisted document for external rewrites, as
// happens when a CI producer commits a new document directly, and
// delivers the reloaded ledger to a callback.
type Watcher struct {
	watcher *fsnotify.Watcher
	config  *WatcherConfig
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a document watcher.
func NewWatcher(config *WatcherConfig) (*Watcher, error) {
	if config == nil {
		config = DefaultWatcherConfig()
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 250 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher: fsw,
		config:  config,
		logger:  slog.Default().With("component", "bench.snapshot.watcher"),
	}, nil
}

// Watch blocks until ctx is cancelled, invoking onReload with a freshly
// loaded ledger whenever the watched document changes. Reload failures
// are logged and skipped; the previous ledger stays in effect.
func (w *Watcher) Watch(ctx context.Context, onReload func(*ledger.Ledger)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	// Watch the directory, not the file: editors and atomic writers
	// replace the file, which drops a direct watch.
	if err := w.watcher.Add(filepath.Dir(w.config.Path)); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	w.logger.Info("document watcher started",
		"path", w.config.Path,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("document watcher stopped")
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}
			w.logger.Debug("document event detected",
				"path", event.Name,
				"op", event.Op.String(),
			)
			if timer == nil {
				timer = time.NewTimer(w.config.DebounceInterval)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(w.config.DebounceInterval)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			w.reload(onReload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.config.Path) {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename)
}

func (w *Watcher) reload(onReload func(*ledger.Ledger)) {
	l, err := Load(w.config.Path)
	if err != nil {
		w.logger.Error("document reload failed", "error", err, "path", w.config.Path)
		return
	}

	w.logger.Info("document reloaded",
		"path", w.config.Path,
		"suites", len(l.Suites()),
	)
	onReload(l)
}
