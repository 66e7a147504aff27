// Package watcher triggers re-analysis when session files change on
// disk. Benches that log to a shared file get live reports this way.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a session file for changes
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration
}

// New creates a new file watcher
func New(path string, onChange func()) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch starts watching the file for changes
// It blocks until the context is cancelled or an error occurs
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory containing the file
	// This handles cases where the file is replaced (e.g., by editors)
	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)

	if err := watcher.Add(dir); err != nil {
		return err
	}

	slog.Info("watching session file", "path", w.path)

	var debounceTimer *time.Timer
	var lastEventTime time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Check if this event is for our file
			if filepath.Base(event.Name) != filename {
				continue
			}

			// Handle write or create events
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				now := time.Now()

				// Debounce rapid changes
				if debounceTimer != nil {
					debounceTimer.Stop()
				}

				debounceTimer = time.AfterFunc(w.debounce, func() {
					if time.Since(lastEventTime) >= w.debounce {
						slog.Info("session file changed", "path", w.path)
						w.onChange()
					}
				})

				lastEventTime = now
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "err", err)

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return ctx.Err()
		}
	}
}

// WatchMultiple watches several session files and calls onChange with
// the path that changed. Used when a baseline and an after file are
// both being edited during a porting session.
func WatchMultiple(ctx context.Context, paths []string, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Track which directories and files we're watching
	watchedDirs := make(map[string]bool)
	fileSet := make(map[string]bool)

	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}

		dir := filepath.Dir(absPath)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				slog.Warn("failed to watch directory", "dir", dir, "err", err)
				continue
			}
			watchedDirs[dir] = true
		}

		fileSet[absPath] = true
		slog.Info("watching session file", "path", absPath)
	}

	debounceTimers := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			absPath, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}

			if !fileSet[absPath] {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if timer, exists := debounceTimers[absPath]; exists {
					timer.Stop()
				}

				debounceTimers[absPath] = time.AfterFunc(500*time.Millisecond, func() {
					slog.Info("session file changed", "path", absPath)
					onChange(absPath)
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "err", err)

		case <-ctx.Done():
			for _, timer := range debounceTimers {
				timer.Stop()
			}
			return ctx.Err()
		}
	}
}
