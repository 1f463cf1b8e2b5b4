package fscache

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// chmodMask drops events that are only CHMOD (Spotlight, backup agents).
const chmodMask fsnotify.Op = ^fsnotify.Op(0) ^ fsnotify.Chmod

// Watcher invalidates a Cache whenever something below root changes.
type Watcher struct {
	w      *fsnotify.Watcher
	root   string
	cache  *Cache
	logger *zap.Logger
}

// NewWatcher registers watches on root and every directory below it.
func NewWatcher(root string, cache *Cache, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		w:      fw,
		root:   root,
		cache:  cache,
		logger: logger,
	}
	if err := w.addDir(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes events until ctx is done or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.w.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			// Overflowed queues lose events, so nothing cached can be trusted.
			w.cache.Invalidate()
			w.logger.Warn("Filesystem watch error", zap.Error(err))
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if ev.Op&chmodMask == 0 {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if err := w.follow(ev.Name); err != nil {
					return err
				}
			}
			// Invalidate after new directories are watched, so anything
			// created inside them is either seen now or reported later.
			w.cache.Invalidate()
			w.logger.Debug("Serve root changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
		}
	}
}

// follow adds a watch for a newly created directory.
func (w *Watcher) follow(name string) error {
	name = filepath.Clean(name)
	stat, err := os.Lstat(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if !stat.IsDir() {
		return nil
	}
	return w.addDir(name)
}

func (w *Watcher) addDir(dir string) error {
	return filepath.WalkDir(dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.w.Add(name); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}
		return nil
	})
}
