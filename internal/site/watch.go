package site

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces bursts of filesystem events (editors typically
// fire several per save) into one regeneration.
const debounceWindow = 250 * time.Millisecond

// Watch runs an initial generation, then regenerates whenever the dataset
// file or the page template changes. A failed regeneration is logged and the
// watch continues; Watch returns when ctx is done or the watcher breaks.
func (g *Generator) Watch(ctx context.Context, opts Options) error {
	opts.applyDefaults()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range watchDirs(opts) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	if err := g.Generate(ctx, opts); err != nil {
		g.logger.Error("generation failed", slog.Any("err", err))
	}

	timer := time.NewTimer(debounceWindow)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !watchRelevant(event.Name, opts) {
				continue
			}
			g.logger.Debug("change detected", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounceWindow)
			pending = true

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Warn("watch error", slog.Any("err", err))

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := g.Generate(ctx, opts); err != nil {
				g.logger.Error("regeneration failed", slog.Any("err", err))
			}
		}
	}
}

// watchDirs returns the parent directories of the watched inputs. Watching
// the directory rather than the file survives the rename-replace dance most
// editors do on save.
func watchDirs(opts Options) []string {
	dirs := []string{filepath.Dir(opts.DataPath)}
	if templateDir := filepath.Dir(opts.TemplatePath); templateDir != dirs[0] {
		dirs = append(dirs, templateDir)
	}
	return dirs
}

func watchRelevant(name string, opts Options) bool {
	clean := filepath.Clean(name)
	return clean == filepath.Clean(opts.DataPath) || clean == filepath.Clean(opts.TemplatePath)
}
