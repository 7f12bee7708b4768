package vite

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.inout.gg/foundations/debug"

	"github.com/nytodev/inertia-go"
	"github.com/nytodev/inertia-go/internal/inertiaversion"
)

//nolint:gochecknoglobals
var d = debug.Debuglog("vite")

var _ inertia.VersionProvider = (*VersionWatcher)(nil)

// VersionWatcher serves the digest of the build manifest as the asset
// version, recomputing it whenever the manifest changes on disk. Rebuilding
// the frontend therefore invalidates pages held by connected clients without
// a server restart.
//
// Close the watcher when the renderer it serves is torn down.
type VersionWatcher struct {
	watcher   *fsnotify.Watcher
	done      chan struct{}
	path      string
	mu        sync.RWMutex
	version   string
	closeOnce sync.Once
}

// WatchManifest hashes the manifest at path and starts watching it for
// changes.
//
// The parent directory is watched rather than the file itself, so the
// watch survives the write-then-rename dance build tools perform on their
// output files.
func WatchManifest(path string) (*VersionWatcher, error) {
	p, err := inertiaversion.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("vite: failed to hash manifest file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("vite: failed to create manifest watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("vite: failed to watch manifest directory: %w", err)
	}

	//nolint:exhaustruct
	w := &VersionWatcher{
		watcher: watcher,
		done:    make(chan struct{}),
		path:    filepath.Clean(path),
		version: p.Version(),
	}

	go w.loop()

	return w, nil
}

// Version returns the manifest digest as of the last observed change.
func (w *VersionWatcher) Version() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.version
}

// Close stops watching the manifest. The last computed version remains
// served.
func (w *VersionWatcher) Close() error {
	var err error

	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})

	return err
}

func (w *VersionWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(ev.Name) != w.path {
				continue
			}

			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				w.refresh()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			d("manifest watcher error: %v", err)
		}
	}
}

// refresh rehashes the manifest. A failed rehash, e.g. mid-rebuild while the
// file is briefly absent, keeps the previous version.
func (w *VersionWatcher) refresh() {
	p, err := inertiaversion.FromFile(w.path)
	if err != nil {
		d("failed to rehash manifest %s: %v", w.path, err)
		return
	}

	w.mu.Lock()
	w.version = p.Version()
	w.mu.Unlock()

	d("manifest %s changed, version is now %s", w.path, p.Version())
}
