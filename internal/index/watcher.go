package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/open-sspm/sspmdocs/internal/docs"
)

// DefaultDebounce is used when Watch is given a non-positive debounce.
const DefaultDebounce = 250 * time.Millisecond

// ChangeFunc is called once per burst of artifact changes.
type ChangeFunc func(ctx context.Context)

// Watch starts an fsnotify watcher on the source root and its metaschema
// directory and calls onChange after JSON files stop changing for debounce.
// It returns when ctx is cancelled.
//
// A metaschema directory created after start is picked up automatically.
func Watch(ctx context.Context, root string, debounce time.Duration, logger *slog.Logger, onChange ChangeFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}
	schemaDir := filepath.Join(root, docs.MetaschemaDir)
	if info, err := os.Stat(schemaDir); err == nil && info.IsDir() {
		if err := w.Add(schemaDir); err != nil {
			return err
		}
	}

	logger.Info("watcher: started", slog.String("root", root))

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			logger.Debug("watcher: change settled")
			onChange(ctx)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 && filepath.Clean(ev.Name) == schemaDir {
				if info, statErr := os.Stat(schemaDir); statErr == nil && info.IsDir() {
					if addErr := w.Add(schemaDir); addErr != nil {
						logger.Warn("watcher: add metaschema dir failed",
							slog.String("path", schemaDir),
							slog.String("error", addErr.Error()))
					}
					schedule()
				}
				continue
			}

			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
