package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/config"
	"github.com/AbdelazizMoustafa10m/taskdag/internal/logging"
)

// watchDebounce collapses the burst of events editors produce on save.
const watchDebounce = 150 * time.Millisecond

// watchRender renders path once, then again after every change until the
// command context is cancelled. A failing first render ends the command;
// later failures are logged and the previous output is left in place.
func watchRender(cmd *cobra.Command, path string, rc *config.ResolvedConfig) error {
	if err := renderSingle(cmd, path, rc); err != nil {
		return err
	}
	logger := logging.New("watch")
	return watchFile(cmd.Context(), path, func() {
		if err := renderSingle(cmd, path, rc); err != nil {
			logger.Error("re-render failed", "input", path, "error", err)
			return
		}
		logger.Info("re-rendered", "input", path)
	})
}

// watchFile calls onChange after path is written or created. The parent
// directory is watched rather than the file itself so editors that save by
// renaming a temporary file are still seen.
func watchFile(ctx context.Context, path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	logger := logging.New("watch")
	logger.Info("watching for changes (Ctrl+C to exit)", "input", path)

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
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
