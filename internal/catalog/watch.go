package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"tokq/internal/logging"
)

// Watch reloads the catalog file at path into h whenever it changes, until
// ctx is done. The parent directory is watched so that editors which replace
// the file by rename are picked up. A file that fails to load is logged and
// the previous catalog stays in place.
func Watch(ctx context.Context, path string, h *Holder, debounce time.Duration, logger *slog.Logger) error {
	logger = logging.Default(logger).With("component", "catalog-watch", "path", path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Warn("failed to close watcher", "error", closeErr)
		}
	}()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				reload = time.After(debounce)
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", werr)

		case <-reload:
			reload = nil
			c, err := Load(abs)
			if err != nil {
				logger.Error("catalog reload failed, keeping previous catalog", "error", err)
				continue
			}
			h.Store(c)
			logger.Info("catalog reloaded", "fields", c.Len())
		}
	}
}
