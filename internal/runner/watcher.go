package runner

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watch processes radiographs as they appear in dir, until ctx is canceled.
// Each image still goes through the pipeline one at a time; watching only
// changes how inputs arrive.
func (r *Runner) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	r.log.Info().Str("dir", dir).Msg("watching for radiographs")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Create covers files moved into the directory; Write covers
			// in-place saves finishing after the create event.
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !r.Supported(event.Name) {
				continue
			}

			if _, err := r.ProcessFile(ctx, event.Name); err != nil {
				r.log.Warn().Str("file", event.Name).Err(err).Msg("skipping file")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Error().Err(err).Msg("watcher error")
		}
	}
}
