package viewport

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchCatalog reloads the catalog at path whenever it is written and calls
// fn with the result or the load error. The directory is watched so editors
// that replace the file are noticed. Watching stops when ctx ends.
func WatchCatalog(ctx context.Context, path string, fn func(*Catalog, error)) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", path, err)
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
				if filepath.Clean(event.Name) != path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				slog.Debug("catalog changed", "path", path, "op", event.Op.String())
				fn(LoadCatalog(path))

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("catalog watcher error", "path", path, "error", err)
			}
		}
	}()
	return nil
}
