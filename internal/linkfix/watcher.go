package linkfix

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called after the watcher has handled a file.
// fixed reports whether the file was rewritten.
type EventCallback func(path string, fixed bool)

// Watch repairs files as they are created or written under the content
// root until ctx is cancelled. Events are handled one at a time. Writing
// a repaired file raises a follow-up event whose content no longer
// changes, so the watcher settles instead of looping.
//
// New directories created at runtime are added to the watch list and the
// files already inside them are repaired.
func (f *Fixer) Watch(ctx context.Context, cb EventCallback) error {
	root := f.store.Root()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	f.logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						f.logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						f.logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					f.fixNewDir(root, ev.Name, cb)
					continue
				}
			}

			if !f.Matches(ev.Name) {
				continue
			}
			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil {
				continue
			}
			f.handle(rel, cb)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (f *Fixer) handle(rel string, cb EventCallback) {
	fixed, err := f.FixFile(rel)
	if err != nil {
		// A file removed right after its event is not worth a warning.
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.Warn("watcher: fix failed", slog.String("path", rel), slog.String("error", err.Error()))
		}
		return
	}
	f.logger.Debug("watcher: checked", slog.String("path", rel), slog.Bool("fixed", fixed))
	if cb != nil {
		cb(rel, fixed)
	}
}

// fixNewDir repairs the matching files already present in a new directory.
func (f *Fixer) fixNewDir(root, dirPath string, cb EventCallback) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !f.Matches(path) {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		f.handle(rel, cb)
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
