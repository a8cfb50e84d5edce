package pool

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher refreshes a FileIndex when the workspace changes on disk.
// It recursively watches the root's directories (fsnotify does not
// descend on its own) and collapses bursts of events into a single
// refresh per event-loop pass.
type Watcher struct {
	index     *FileIndex
	fsWatcher *fsnotify.Watcher
	stopChan  chan struct{}
}

// NewWatcher starts watching root for the given index.
func NewWatcher(index *FileIndex, root string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		index:     index,
		fsWatcher: fsWatcher,
		stopChan:  make(chan struct{}),
	}
	if err := w.addRecursive(root); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.loop()
	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if p != root && (name == ".git" || strings.HasPrefix(name, ".")) {
			return filepath.SkipDir
		}
		if addErr := w.fsWatcher.Add(p); addErr != nil {
			log.Warnf("cannot watch %s: %v", p, addErr)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// new directories need their own watches
			if ev.Op.Has(fsnotify.Create) {
				_ = w.addRecursive(ev.Name)
			}
			w.drain()
			if err := w.index.Refresh(); err != nil {
				log.Warnf("index refresh after fs event failed: %v", err)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warnf("fs watcher error: %v", err)
		case <-w.stopChan:
			return
		}
	}
}

// drain swallows queued events so a burst triggers one refresh.
func (w *Watcher) drain() {
	for {
		select {
		case <-w.fsWatcher.Events:
		default:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.stopChan)
	return w.fsWatcher.Close()
}
