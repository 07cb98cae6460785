package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads <home>/config.yaml whenever it is written or replaced and
// passes the result to onChange, until ctx is done. The directory is watched
// rather than the file so editors that save via rename are seen. A file that
// fails to load is logged and skipped.
func Watch(ctx context.Context, home string, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	if err := watcher.Add(home); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", home, err)
	}

	target := Path(home)
	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Load(home)
				if err != nil {
					slog.Warn("config reload failed", "path", target, "err", err)
					continue
				}
				slog.Debug("config reloaded", "event", event.Op.String(), "log_level", cfg.LogLevel)
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("config watcher", "err", err)
			}
		}
	}()
	return nil
}
