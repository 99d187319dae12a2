package preview

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Observer is a recursive fsnotify watch over the project root.
type Observer struct {
	watcher  *fsnotify.Watcher
	filter   *Filter
	recorder metrics.Recorder
	dirs     map[string]struct{}
}

// NewObserver watches every directory under root the filter does not skip.
func NewObserver(root string, filter *Filter, recorder metrics.Recorder) (*Observer, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WatchError("failed to create filesystem watcher").WithCause(err).Build()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	o := &Observer{watcher: w, filter: filter, recorder: recorder, dirs: map[string]struct{}{}}
	if err := o.addRecursive(root); err != nil {
		_ = w.Close()
		return nil, ferrors.WatchError("failed to watch project root").
			WithCause(err).
			WithContext("path", root).
			Hint("on Linux, raise fs.inotify.max_user_watches if the tree is large").
			Build()
	}
	slog.Debug("Watching project tree", logfields.Path(root), logfields.Count(len(o.dirs)))
	return o, nil
}

func (o *Observer) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && o.filter.SkipDir(path) {
			return filepath.SkipDir
		}
		if err := o.watcher.Add(path); err != nil {
			if path == root {
				return err
			}
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			return nil
		}
		o.dirs[path] = struct{}{}
		return nil
	})
}

// Run delivers the path of every qualifying change to onChange until ctx is
// done or the watcher is closed. It must be called from a single goroutine.
func (o *Observer) Run(ctx context.Context, onChange func(path string)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-o.watcher.Events:
			if !ok {
				return
			}
			if o.accept(ev) {
				slog.Debug("File change detected", logfields.Path(ev.Name), logfields.Op(ev.Op.String()))
				o.recorder.IncWatchEvent(true)
				onChange(ev.Name)
			} else {
				o.recorder.IncWatchEvent(false)
			}
		case err, ok := <-o.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// accept tracks directory lifecycle and reports whether ev is a user edit.
// Directory events do not qualify on their own. A directory moved into the
// tree arrives with content that raised no events, so it counts as a change
// when it holds a file the filter keeps.
func (o *Observer) accept(ev fsnotify.Event) bool {
	if o.filter.Ignore(ev.Name) {
		return false
	}
	if _, watched := o.dirs[ev.Name]; watched {
		if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
			delete(o.dirs, ev.Name)
		}
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if o.filter.SkipDir(ev.Name) {
				return false
			}
			if err := o.addRecursive(ev.Name); err != nil {
				slog.Warn("Watch add failed", logfields.Path(ev.Name), logfields.Error(err))
			}
			return o.holdsFiles(ev.Name)
		}
	}
	return true
}

func (o *Observer) holdsFiles(dir string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found {
			return filepath.SkipAll
		}
		if d.IsDir() {
			if path != dir && o.filter.SkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !o.filter.Ignore(path) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// Close stops the watch.
func (o *Observer) Close() error { return o.watcher.Close() }
