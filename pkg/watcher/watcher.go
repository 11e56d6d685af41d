package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher signals on Changed whenever one of the watched files is written,
// created, renamed or removed. Bursts are debounced into a single signal.
type Watcher struct {
	fsw       *fsnotify.Watcher
	files     map[string]bool
	debouncer *Debouncer
	changed   chan string
	logger    *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// New watches the given files. Parent directories are watched rather than
// the files themselves because editors and bd replace files via rename,
// which drops a direct file watch.
func New(files []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fsw:     fsw,
		files:   make(map[string]bool, len(files)),
		changed: make(chan string, 1),
		logger:  logger,
		done:    make(chan struct{}),
	}
	w.debouncer = NewDebouncer(debounce, w.notify)

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolving %q: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %q: %w", dir, err)
		}
	}

	return w, nil
}

// Run forwards relevant events until ctx is cancelled or Close is called
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.isRelevant(event) {
				continue
			}
			w.logger.Debug("watched file changed",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)
			w.debouncer.Trigger(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil || !w.files[abs] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

// notify never blocks: if a signal is already pending the new one merges into it
func (w *Watcher) notify(path string) {
	select {
	case w.changed <- path:
	default:
	}
}

// Changed delivers the path of the last changed file after each quiet period
func (w *Watcher) Changed() <-chan string {
	return w.changed
}

// Close stops watching
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.debouncer.Cancel()
		err = w.fsw.Close()
	})
	return err
}
