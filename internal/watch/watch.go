// Package watch re-runs a generation step when its inputs change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config configures a Watcher.
type Config struct {
	// Paths are files or directories to watch. Directories are watched
	// non-recursively, which matches the flat layout of Doxygen's xml/ output.
	Paths []string

	// DebounceDelay is how long to wait for more changes before running.
	DebounceDelay time.Duration

	// Ignore skips events for matching paths, e.g. the rendered output itself.
	Ignore func(path string) bool

	Logger *slog.Logger
}

// Watcher calls a function after batches of file changes.
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op
}

// New creates a watcher over config.Paths.
func New(config Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay == 0 {
		config.DebounceDelay = 200 * time.Millisecond
	}

	w := &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]fsnotify.Op),
	}
	for _, p := range config.Paths {
		if err := w.add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// add watches p; files are watched through their directory so editors that
// replace files by rename are still seen.
func (w *Watcher) add(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("watch %s: %w", p, err)
	}
	dir := p
	if !info.IsDir() {
		dir = filepath.Dir(p)
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("Watching directory", "path", dir)
	return nil
}

// Run blocks until ctx is done, calling fn once per debounced batch of
// changes. Errors from fn are logged; they do not stop the watcher.
func (w *Watcher) Run(ctx context.Context, fn func(changed []string) error) error {
	defer func() { _ = w.watcher.Close() }()

	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			changed := w.takePending()
			if len(changed) == 0 {
				continue
			}
			w.logger.Info("Inputs changed", "files", len(changed))
			if err := fn(changed); err != nil {
				w.logger.Error("Regeneration failed", "error", err)
			}
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return // temp files, including our own atomic writes
	}
	if w.config.Ignore != nil && w.config.Ignore(event.Name) {
		return
	}

	w.pendingMu.Lock()
	w.pending[event.Name] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("File change detected", "path", event.Name, "op", event.Op.String())
}

func (w *Watcher) takePending() []string {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if len(w.pending) == 0 {
		return nil
	}
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]fsnotify.Op)
	return changed
}
