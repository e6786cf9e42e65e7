package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog from path whenever the file is rewritten.
// It returns a channel carrying reload errors; transient failures (for
// example a half-written file) leave the current catalog in place and are
// reported on the channel. The channel is closed when ctx is cancelled.
//
// Watching the directory rather than the file itself survives the
// rename-and-replace pattern used by most config management tools.
func (c *Catalog) Watch(ctx context.Context, path string) (<-chan error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	errs := make(chan error, 1)
	baseName := filepath.Base(path)

	go func() {
		defer close(errs)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != baseName {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := c.ReloadFile(path); err != nil {
					select {
					case errs <- err:
					default:
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				select {
				case errs <- err:
				default:
				}
			}
		}
	}()

	return errs, nil
}
