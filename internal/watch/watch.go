// Package watch reports changes to a set of style sheets.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a burst of events must be quiet before the
// handler runs.
const DefaultDebounce = 100 * time.Millisecond

// Handler is called once per changed file after each debounce window.
type Handler func(path string) error

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher watches files for writes, creations and renames.
//
// The parent directories are watched rather than the files, because
// editors commonly save by writing a new file and renaming it over the old
// one, which ends a watch held on the file itself.
type Watcher struct {
	files    map[string]bool // absolute paths
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a Watcher for paths.
func New(paths []string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	files := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		files[abs] = true
	}
	return &Watcher{files: files, debounce: opts.Debounce, logger: opts.Logger}, nil
}

// Run blocks until ctx is done, calling fn for each watched file that
// changed. Handler errors are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context, fn Handler) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.logger.Debug("watching", slog.Int("files", len(w.files)), slog.Int("dirs", len(dirs)))

	var (
		pending = make(map[string]bool)
		timer   *time.Timer
		timerC  <-chan time.Time
	)

	flush := func() {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		slices.Sort(paths)
		clear(pending)
		timer, timerC = nil, nil

		for _, p := range paths {
			if err := fn(p); err != nil {
				w.logger.Warn("handler failed", slog.String("file", p), slog.String("error", err.Error()))
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.files[event.Name] || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			w.logger.Debug("file event", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			pending[event.Name] = true

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			flush()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}
