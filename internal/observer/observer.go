// Package observer multiplexes fsnotify subscriptions across registered
// watch targets and dispatches filesystem events to their callbacks.
package observer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/stackwatch-io/stackwatch/internal/logging"
	"github.com/stackwatch-io/stackwatch/internal/trigger"
)

// Observer owns the OS-level watcher and the registered target set. Targets
// themselves are pure data; all threading lives here. Callbacks run
// synchronously on the event loop goroutine, so a blocking callback
// (validator file I/O included) legitimately delays dispatch.
type Observer struct {
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	targets map[string]trigger.WatchTarget
	watched map[string]bool // directories added to the OS watcher
}

// New creates an observer with no registered targets.
func New() (*Observer, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Observer{
		watcher: w,
		targets: make(map[string]trigger.WatchTarget),
		watched: make(map[string]bool),
	}, nil
}

// Register subscribes a watch target and returns a handle for Unregister.
// Recursive targets walk the tree and watch every directory; single-file
// targets watch only the containing directory. Directories already covered
// by an earlier registration are not re-added, and a static folder nested
// inside an already-registered static folder adds no OS watches at all.
func (o *Observer) Register(t trigger.WatchTarget) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if t.Recursive {
		// The parent is watched too, so creation or deletion of the tree
		// root itself is observable.
		o.watch(filepath.Dir(t.Path))
		if !o.coveredByStatic(t.Path) {
			if _, err := os.Stat(t.Path); err == nil {
				o.watchTree(t.Path)
			} else {
				logging.Debug("watch root absent, watching parent only", "path", t.Path)
			}
		}
	} else {
		o.watch(t.Path)
	}

	handle := uuid.NewString()
	o.targets[handle] = t
	logging.Debug("registered watch target", "handle", handle, "path", t.Path, "recursive", t.Recursive)
	return handle, nil
}

// Unregister drops a target. Directory watches shared with other targets
// stay in place; events for the dropped target stop being dispatched.
func (o *Observer) Unregister(handle string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.targets, handle)
}

// coveredByStatic reports whether path lies inside an already-registered
// static folder tree. Callers must hold o.mu.
func (o *Observer) coveredByStatic(path string) bool {
	for _, t := range o.targets {
		if t.StaticFolder && within(t.Path, path) {
			return true
		}
	}
	return false
}

// watch adds one directory to the OS watcher, deduplicating repeats.
// Callers must hold o.mu.
func (o *Observer) watch(dir string) {
	if o.watched[dir] {
		return
	}
	if err := o.watcher.Add(dir); err != nil {
		logging.Warn("failed to watch directory", "path", dir, "error", err)
		return
	}
	o.watched[dir] = true
}

// watchTree adds a directory and all its subdirectories. Callers must hold
// o.mu.
func (o *Observer) watchTree(root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			o.watch(path)
		}
		return nil
	})
	if err != nil {
		logging.Warn("failed to walk watch tree", "path", root, "error", err)
	}
}

// Run dispatches events until the context is cancelled. It owns the watcher
// lifetime and closes it on return.
func (o *Observer) Run(ctx context.Context) error {
	defer o.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-o.watcher.Events:
			if !ok {
				return nil
			}
			o.handle(event)
		case err, ok := <-o.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func (o *Observer) handle(event fsnotify.Event) {
	op := opOf(event.Op)
	if op == "" {
		return
	}
	path := filepath.Clean(event.Name)

	// New directories under a recursive target need their own OS watches.
	if op == trigger.OpCreate {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			o.mu.Lock()
			for _, t := range o.targets {
				if t.Recursive && (path == t.Path || within(t.Path, path)) {
					o.watchTree(path)
					break
				}
			}
			o.mu.Unlock()
		}
	}

	// Snapshot, then dispatch without the lock: callbacks may register or
	// unregister targets.
	o.mu.Lock()
	snapshot := make([]trigger.WatchTarget, 0, len(o.targets))
	for _, t := range o.targets {
		snapshot = append(snapshot, t)
	}
	o.mu.Unlock()

	ev := &trigger.Event{Path: path, Op: op}
	for _, t := range snapshot {
		if t.Recursive && path == t.Path {
			switch op {
			case trigger.OpCreate:
				if t.OnCreate != nil {
					t.OnCreate(ev)
				}
			case trigger.OpRemove, trigger.OpRename:
				if t.OnDelete != nil {
					t.OnDelete(ev)
				}
			}
			continue
		}
		if t.OnEvent != nil && t.Match.Matches(path) {
			t.OnEvent(ev)
		}
	}
}

func opOf(op fsnotify.Op) trigger.Op {
	switch {
	case op.Has(fsnotify.Create):
		return trigger.OpCreate
	case op.Has(fsnotify.Write):
		return trigger.OpWrite
	case op.Has(fsnotify.Remove):
		return trigger.OpRemove
	case op.Has(fsnotify.Rename):
		return trigger.OpRename
	default:
		return ""
	}
}

// within reports whether path is inside the tree rooted at root.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
