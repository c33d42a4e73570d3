// Package watch re-runs an action when JSON files below a set of directories
// change. Bursts of events are coalesced into one run.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNoDirectories is returned when Run is given nothing to watch.
var ErrNoDirectories = errors.New("no directories to watch")

// ChangeFunc is called once per settled burst of changes with the changed
// paths in lexical order.
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher observes directory trees for JSON changes.
type Watcher struct {
	dirs     []string
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a Watcher over dirs. Empty entries are ignored. Changes are
// reported once no further event arrived for debounce.
func New(dirs []string, debounce time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var kept []string

	for _, dir := range dirs {
		if dir != "" && !slices.Contains(kept, dir) {
			kept = append(kept, dir)
		}
	}

	return &Watcher{dirs: kept, debounce: debounce, logger: logger}
}

// Run watches until ctx is done. Directories created while watching are
// added. An error returned by onChange is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	if len(w.dirs) == 0 {
		return ErrNoDirectories
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer notifier.Close()

	for _, dir := range w.dirs {
		if addErr := addTree(notifier, dir); addErr != nil {
			return addErr
		}
	}

	w.logger.InfoContext(ctx, "watching report", slog.Any("dirs", w.dirs), slog.Duration("debounce", w.debounce))

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}

			if !w.handle(ctx, notifier, event) {
				continue
			}

			pending[event.Name] = struct{}{}

			timer.Reset(w.debounce)

		case watchErr, ok := <-notifier.Errors:
			if !ok {
				return nil
			}

			w.logger.WarnContext(ctx, "watch error", slog.Any("error", watchErr))

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}

			slices.Sort(changed)
			clear(pending)

			if runErr := onChange(ctx, changed); runErr != nil {
				w.logger.ErrorContext(ctx, "re-extraction failed", slog.Any("error", runErr))
			}
		}
	}
}

// handle reacts to one event and reports whether it should trigger a run.
func (w *Watcher) handle(ctx context.Context, notifier *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if err := addTree(notifier, event.Name); err == nil && isDir(event.Name) {
			w.logger.DebugContext(ctx, "watching new directory", slog.String("dir", event.Name))

			return true
		}
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		// A removed directory takes its documents with it. Report folders
		// carry no extension.
		return IsDocument(event.Name) || filepath.Ext(event.Name) == ""
	}

	return IsDocument(event.Name)
}

// IsDocument reports whether path names a JSON document.
func IsDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// addTree watches dir and every directory below it. A path that is not a
// directory is ignored.
func addTree(notifier *fsnotify.Watcher, root string) error {
	if !isDir(root) {
		return nil
	}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.IsDir() {
			return nil
		}

		if addErr := notifier.Add(path); addErr != nil {
			return fmt.Errorf("watch %s: %w", path, addErr)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("watch tree %s: %w", root, err)
	}

	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
