package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long the file must stay quiet before it is reloaded.
const debounce = 500 * time.Millisecond

// Logger defines the logging interface needed by the config watcher.
type Logger interface {
	Infof(string, ...any)
	Errorf(string, ...any)
}

// WatchFile reloads the config at path whenever it changes. A valid reload is swapped
// into store and passed to onReload; an invalid one is logged and the old config kept.
// The parent directory is watched so atomic-rename saves are seen. The returned stop
// function shuts the watcher down.
func WatchFile(path string, store *Store, logger Logger, onReload func(*Config)) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	done := make(chan struct{})

	go func() {
		defer watcher.Close()

		// Each relevant event re-arms the timer; the file is loaded once the
		// burst has been quiet for the debounce period.
		timer := time.NewTimer(debounce)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-done:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				logger.Infof("config file change detected: %s", ev.Name)
				timer.Reset(debounce)
			case <-timer.C:
				cfg, err := Load(path)
				if err != nil {
					// a later event retries
					logger.Errorf("failed to reload config: %v", err)
					continue
				}
				store.Update(cfg)
				logger.Infof("config reloaded successfully")
				if onReload != nil {
					onReload(cfg)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Errorf("config watcher error: %v", err)
			}
		}
	}()

	return func() { close(done) }, nil
}
