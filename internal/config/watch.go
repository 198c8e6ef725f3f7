package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchFile calls onChange every time path is written, created or renamed
// into place, until ctx is done. The parent directory is watched so that
// editors replacing the file atomically are still noticed.
func WatchFile(ctx context.Context, path string, logger *slog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					logger.Debug("watched file changed", "path", abs, "op", event.Op.String())
					onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("file watcher error", "path", abs, "error", err)
			}
		}
	}()
	return nil
}
