package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors produce on save.
const watchDebounce = 300 * time.Millisecond

// ConfigWatcher calls onChange after the config file is written, created,
// renamed or removed. It watches the parent directory so editors that
// replace the file atomically are still seen.
type ConfigWatcher struct {
	path     string
	onChange func()
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// NewConfigWatcher starts watching the directory of path.
func NewConfigWatcher(path string, onChange func(), logger *slog.Logger) (*ConfigWatcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	return &ConfigWatcher{
		path:     path,
		onChange: onChange,
		logger:   logger,
		watcher:  w,
	}, nil
}

// Run delivers debounced change notifications until ctx is cancelled.
func (c *ConfigWatcher) Run(ctx context.Context) {
	defer c.watcher.Close()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != c.path || ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			c.logger.Debug("config file event", "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("config watcher error", "error", err)
		case <-pending:
			pending = nil
			c.logger.Info("config file changed", "path", c.path)
			c.onChange()
		}
	}
}
