// Package watch reports changes to a set of files, coalescing bursts of
// filesystem events into one notification.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// Watcher watches files by watching their parent directories, so editors
// that save by renaming a temporary file are still seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	log      *slog.Logger
}

// New starts watching paths. Events within debounce of each other are
// delivered together.
func New(debounce time.Duration, paths ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{
		fs:       fs,
		files:    make(map[string]struct{}, len(paths)),
		debounce: debounce,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fs.Close()
			return nil, fmt.Errorf("watch: %w", err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, fmt.Errorf("watch: %s: %w", dir, err)
		}
	}
	return w, nil
}

// SetLogger sets the logger used for watcher errors. nil is ignored.
func (w *Watcher) SetLogger(l *slog.Logger) {
	if l != nil {
		w.log = l
	}
}

// Run calls fn with the sorted absolute paths of changed files until ctx
// is canceled or the watcher is closed. fn runs on the calling goroutine.
func (w *Watcher) Run(ctx context.Context, fn func(changed []string)) error {
	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&relevantOps == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if _, ok := w.files[name]; !ok {
				continue
			}
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			fn(changed)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch: filesystem watcher error", "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
