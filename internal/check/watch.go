package check

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchOptions controls Watch.
type WatchOptions struct {
	Options

	// Debounce is the delay after the last change of a file before it is re-checked.
	Debounce time.Duration
}

const defaultDebounce = 200 * time.Millisecond

// Watch checks files, then re-checks each file after it changes until ctx is done.
// Directories containing the files are watched, so files replaced by editors are tracked too.
// fn is called from a single goroutine.
func Watch(ctx context.Context, paths []string, opts WatchOptions, fn func(Report)) error {
	logger := opts.logger()
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	watcher, e := fsnotify.NewWatcher()
	if e != nil {
		return e
	}
	defer watcher.Close()

	watched := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, e := filepath.Abs(path)
		if e != nil {
			return e
		}
		watched[abs] = path
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if e := watcher.Add(dir); e != nil {
				return e
			}
			dirs[dir] = true
		}
	}

	// Files fails only when ctx is done
	reports, e := Files(ctx, paths, opts.Options)
	if e != nil {
		return nil
	}
	for _, r := range reports {
		fn(r)
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(max(debounce/4, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path, has := watched[filepath.Clean(event.Name)]
			if !has || event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Debug("grammar file changed", zap.String("path", path), zap.Stringer("op", event.Op))
			pending[path] = time.Now()

		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(e))

		case now := <-ticker.C:
			for path, changed := range pending {
				if now.Sub(changed) < debounce {
					continue
				}
				delete(pending, path)
				r := File(path, opts.Options)
				logReport(logger, &r)
				fn(r)
			}
		}
	}
}
