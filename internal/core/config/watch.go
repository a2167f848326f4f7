package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/colonyops/preview/internal/core/logging"
)

// Watch reloads the config file at path whenever it changes and hands the
// result to fn. Reload errors are passed to fn with a nil config so the
// caller can keep its current settings. Watch blocks until ctx is done.
//
// The parent directory is watched so that editors which save by renaming a
// temp file over the original keep triggering reloads.
func Watch(ctx context.Context, path, dataDir string, delay time.Duration, fn func(*Config, error)) error {
	if path == "" {
		return fmt.Errorf("watch config: empty path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	log := logging.Component("config")

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	reload := func() {
		if ctx.Err() != nil {
			return
		}
		cfg, err := Load(path, dataDir)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("config reload failed")
			fn(nil, err)
			return
		}
		log.Info().Str("path", path).Msg("config reloaded")
		fn(cfg, nil)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(delay, reload)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("config watcher error")
		}
	}
}
