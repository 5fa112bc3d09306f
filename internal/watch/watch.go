// Package watch reports changes to a dataset file.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/debounce"
	"github.com/fsnotify/fsnotify"
)

// Watcher calls OnChange once per burst of writes to a single file.
// The parent directory is watched so editors that replace the file on save
// are still noticed.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce *debounce.Debouncer
	onChange func(path string)
	logger   *slog.Logger
}

// New creates a Watcher for path. wait is the quiet period after the last
// event; a non-positive wait uses debounce.DefaultWait.
func New(path string, wait time.Duration, onChange func(path string), logger *slog.Logger) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: debounce.New(wait),
		onChange: onChange,
		logger:   logger,
	}, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Run dispatches events until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.debounce.Cancel()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.debounce.Cancel()
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("dataset changed", "path", event.Name, "op", event.Op.String())
			w.debounce.Schedule(func() {
				w.onChange(w.path)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.debounce.Cancel()
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// Close stops the watcher and drops any pending callback
func (w *Watcher) Close() error {
	w.debounce.Cancel()
	return w.watcher.Close()
}
