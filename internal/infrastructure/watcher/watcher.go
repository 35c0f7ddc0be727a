// Package watcher triggers a callback when a record source changes on
// disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events one editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches the directory holding a source file, since editors
// often replace a file by renaming a temporary one over it.
type Watcher struct {
	dir      string
	name     string
	debounce time.Duration
	onChange func(ctx context.Context)
	logger   *log.Logger
}

// New creates a watcher for the file at path.
func New(path string, onChange func(ctx context.Context), logger *log.Logger) *Watcher {
	return &Watcher{
		dir:      filepath.Dir(path),
		name:     filepath.Base(path),
		debounce: DefaultDebounce,
		onChange: onChange,
		logger:   logger,
	}
}

// WithDebounce sets the quiet period after the last event before the
// callback runs.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Run watches until ctx is cancelled. The callback runs on this
// goroutine, so changes arriving during a rebuild are batched into the
// next one.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.logger.Info("watching for changes", "file", filepath.Join(w.dir, w.name))

	// Debounce timer for batching rapid changes
	ticker := time.NewTicker(w.tick())
	defer ticker.Stop()

	var lastEvent time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.matches(event) {
				continue
			}
			w.logger.Debug("source event", "op", event.Op.String(), "path", event.Name)
			lastEvent = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "err", err)

		case <-ticker.C:
			if lastEvent.IsZero() || time.Since(lastEvent) < w.debounce {
				continue
			}
			lastEvent = time.Time{}
			w.onChange(ctx)
		}
	}
}

// matches reports whether the event concerns the source file. SQLite
// sidecar files (-wal, -journal) count as changes to the database.
func (w *Watcher) matches(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false // Ignore chmod
	}
	base := filepath.Base(event.Name)
	return base == w.name || strings.HasPrefix(base, w.name+"-")
}

func (w *Watcher) tick() time.Duration {
	if t := w.debounce / 3; t > 0 {
		return t
	}
	return time.Millisecond
}
