// Package statewatch reloads repositories when their documents are edited on
// disk while the bot is running.
package statewatch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval lets a burst of events (write + rename) settle before the
// reload.
const DebounceInterval = 200 * time.Millisecond

type Reloader interface {
	Reload(ctx context.Context) error
}

type Watcher struct {
	dir      string
	targets  map[string]Reloader
	debounce time.Duration
	started  chan struct{}
}

// New watches dir. targets maps a document file name inside dir to the
// repository that must reload it.
func New(dir string, targets map[string]Reloader) *Watcher {
	return &Watcher{
		dir:      dir,
		targets:  targets,
		debounce: DebounceInterval,
		started:  make(chan struct{}),
	}
}

// Run blocks until ctx is done. The directory is watched rather than the
// files so that atomic replaces, which change the inode, are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", w.dir, err)
	}
	slog.InfoContext(ctx, "watching state documents", "dir", w.dir)
	close(w.started)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = map[string]struct{}{}
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if _, ok := w.targets[name]; !ok {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			for name := range pending {
				w.reload(ctx, name)
			}
			clear(pending)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "fsnotify error", "error", err)
		}
	}
}

// Our own saves land here too; Reload skips content it already holds.
func (w *Watcher) reload(ctx context.Context, name string) {
	if err := w.targets[name].Reload(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to reload state document", "file", name, "error", err)
		return
	}
	slog.DebugContext(ctx, "state document reloaded", "file", name)
}
