// Package watch turns filesystem notifications for one directory into
// tracker events.
//
// The directory is watched non-recursively. Only regular files accepted by
// the match function are reported. Events are delivered to the handler one
// at a time, in the order the operating system produced them.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/roach88/linejournal/internal/logging"
	"github.com/roach88/linejournal/internal/tracker"
)

// Handler processes one change notification. An error is logged and the
// watcher moves on to the next event.
type Handler func(ctx context.Context, ev tracker.Event) error

// Watcher reports changes of the files in a single directory.
type Watcher struct {
	dir    string
	match  func(path string) bool
	logger *slog.Logger

	// ready, when set, is closed once the directory is being watched.
	ready chan struct{}
}

// New creates a Watcher for dir. A nil match accepts every file; a nil
// logger discards output.
func New(dir string, match func(path string) bool, logger *slog.Logger) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", dir)
	}
	if match == nil {
		match = func(string) bool { return true }
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Watcher{dir: dir, match: match, logger: logger}, nil
}

// Run watches the directory until ctx is cancelled, passing each relevant
// event to handle. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching directory", slog.String("dir", w.dir))
	if w.ready != nil {
		close(w.ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case raw, ok := <-fw.Events:
			if !ok {
				return errors.New("file watcher closed")
			}
			ev, ok := w.translate(raw)
			if !ok {
				continue
			}
			if err := handle(ctx, ev); err != nil {
				w.logger.Warn("change not recorded",
					slog.String("path", ev.Path),
					slog.String("kind", ev.Kind.String()),
					slog.Any("error", err))
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("file watcher closed")
			}
			w.logger.Warn("file watcher error", slog.Any("error", err))
		}
	}
}

// translate maps an fsnotify event to a tracker event. Rename is reported
// as deletion of the old name; the new name arrives as its own Create.
func (w *Watcher) translate(raw fsnotify.Event) (tracker.Event, bool) {
	if !w.match(raw.Name) {
		return tracker.Event{}, false
	}

	var kind tracker.Kind
	switch {
	case raw.Has(fsnotify.Remove), raw.Has(fsnotify.Rename):
		kind = tracker.Deleted
	case raw.Has(fsnotify.Create):
		kind = tracker.Created
	case raw.Has(fsnotify.Write):
		kind = tracker.Modified
	default:
		return tracker.Event{}, false
	}

	if kind != tracker.Deleted {
		info, err := os.Stat(raw.Name)
		if err != nil {
			// Gone before we looked; a Remove event follows.
			return tracker.Event{}, false
		}
		if info.IsDir() {
			return tracker.Event{}, false
		}
	}

	return tracker.Event{Path: raw.Name, Kind: kind}, true
}
