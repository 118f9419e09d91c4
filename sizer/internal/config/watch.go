package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors paths (files or directories) and calls onChange with the
// changed paths once a burst of events has been quiet for debounce. It runs
// until ctx is cancelled.
//
// Editors often save via rename, so Write, Create and Rename events all
// count, and a file path is re-added after each change.
func Watch(ctx context.Context, paths []string, debounce time.Duration, onChange func(changed []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			return err
		}
	}

	slog.Info("config: watching for changes", "paths", paths)

	// Idle until the first event arms it.
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending[filepath.Clean(event.Name)] = true
			timer.Reset(debounce)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)

			slog.Info("config: change detected", "paths", changed)
			onChange(changed)

			// Re-add in case an atomic save replaced the inode.
			for _, p := range paths {
				_ = watcher.Add(p)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
