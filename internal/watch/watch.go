// Package watch reports batches of changed source files using OS-native
// notifications from fsnotify.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op is a set of file operations.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

func (op Op) String() string {
	var parts []string
	for _, p := range []struct {
		bit  Op
		name string
	}{{OpCreate, "CREATE"}, {OpWrite, "WRITE"}, {OpRemove, "REMOVE"}, {OpRename, "RENAME"}, {OpChmod, "CHMOD"}} {
		if op&p.bit != 0 {
			parts = append(parts, p.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

func opFromFSNotify(o fsnotify.Op) Op {
	var op Op
	if o&fsnotify.Create != 0 {
		op |= OpCreate
	}
	if o&fsnotify.Write != 0 {
		op |= OpWrite
	}
	if o&fsnotify.Remove != 0 {
		op |= OpRemove
	}
	if o&fsnotify.Rename != 0 {
		op |= OpRename
	}
	if o&fsnotify.Chmod != 0 {
		op |= OpChmod
	}
	return op
}

// Event is a change to one watched file
type Event struct {
	Path string
	Op   Op
}

// Watcher watches files and directory trees. Files are watched through
// their parent directory so that editors which replace files on save are
// seen. Subdirectories created under a watched tree are added as they
// appear.
type Watcher struct {
	w        *fsnotify.Watcher
	debounce time.Duration
	match    func(path string) bool

	mu    sync.Mutex
	files map[string]bool // explicitly added files
	roots map[string]bool // directories added with Add
	dirs  map[string]bool // every directory registered with fsnotify
}

// New creates a Watcher that waits for debounce of quiet time before
// reporting a batch. match selects the paths of interest inside watched
// directories; nil accepts every path.
func New(debounce time.Duration, match func(path string) bool) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if match == nil {
		match = func(string) bool { return true }
	}
	return &Watcher{
		w:        w,
		debounce: debounce,
		match:    match,
		files:    make(map[string]bool),
		roots:    make(map[string]bool),
		dirs:     make(map[string]bool),
	}, nil
}

// Add watches a file, or a directory and everything below it.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	if info.IsDir() {
		w.mu.Lock()
		w.roots[abs] = true
		w.mu.Unlock()
		_, err := w.addTree(abs)
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[abs] = true
	return w.watchDir(filepath.Dir(abs))
}

// watchDir registers dir with fsnotify once. w.mu must be held.
func (w *Watcher) watchDir(dir string) error {
	if w.dirs[dir] {
		return nil
	}
	if err := w.w.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = true
	return nil
}

// addTree registers dir and its subdirectories and returns the matching
// files found below it.
func (w *Watcher) addTree(dir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if w.match(path) {
				found = append(found, path)
			}
			return nil
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.watchDir(path)
	})
	return found, err
}

// underRoot reports whether path lies below a directory added with Add.
func (w *Watcher) underRoot(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if w.roots[dir] {
			return true
		}
		if parent := filepath.Dir(dir); parent == dir {
			return false
		}
	}
}

// wants reports whether an event on path should be reported.
func (w *Watcher) wants(path string) bool {
	w.mu.Lock()
	explicit := w.files[path]
	w.mu.Unlock()
	return explicit || w.underRoot(path) && w.match(path)
}

// Run delivers batches of events to handle until ctx is cancelled or the
// watcher fails. Events for the same path within one batch are merged.
// handle runs on the Run goroutine.
func (w *Watcher) Run(ctx context.Context, handle func([]Event)) error {
	pending := make(map[string]Op)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			path, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				w.mu.Lock()
				delete(w.dirs, path)
				w.mu.Unlock()
			}
			if ev.Op&fsnotify.Create != 0 && w.underRoot(path) {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					// Files written before the new directory was registered
					// are reported as created.
					found, err := w.addTree(path)
					if err != nil {
						return fmt.Errorf("watch %s: %w", path, err)
					}
					for _, f := range found {
						pending[f] |= OpCreate
					}
					if len(found) > 0 {
						timer.Reset(w.debounce)
					}
					continue
				}
			}
			if !w.wants(path) {
				continue
			}
			pending[path] |= opFromFSNotify(ev.Op)
			timer.Reset(w.debounce)
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-timer.C:
			batch := make([]Event, 0, len(pending))
			for path, op := range pending {
				batch = append(batch, Event{Path: path, Op: op})
			}
			sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
			pending = make(map[string]Op)
			if len(batch) > 0 {
				handle(batch)
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.w.Close()
}
