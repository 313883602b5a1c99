// Package trigger resolves declared stack resources into filesystem watch
// targets and gates change notifications so only meaningful edits reach the
// caller's callback.
package trigger

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Op classifies a filesystem change.
type Op string

const (
	OpCreate Op = "create"
	OpWrite  Op = "write"
	OpRemove Op = "remove"
	OpRename Op = "rename"
)

// Event describes a single filesystem change delivered to a callback.
type Event struct {
	Path string
	Op   Op
}

// OnChangeFunc is invoked when a watched resource changes. The event may be
// nil when the dispatcher has no detail to attach. Callbacks run on the
// dispatcher's goroutine.
type OnChangeFunc func(event *Event)

// MatchMode selects how a WatchTarget filters incoming event paths.
type MatchMode int

const (
	// MatchExactFile forwards only events whose path is exactly the watched file.
	MatchExactFile MatchMode = iota
	// MatchAnyInTree forwards events for any path within the watched tree.
	MatchAnyInTree
)

// MatchRule is the event-filtering rule attached to a WatchTarget.
type MatchRule struct {
	mode  MatchMode
	exact *regexp.Regexp
	root  string
}

func exactFileRule(absPath string) MatchRule {
	return MatchRule{
		mode:  MatchExactFile,
		exact: regexp.MustCompile("^" + regexp.QuoteMeta(absPath) + "$"),
	}
}

func anyInTreeRule(absRoot string) MatchRule {
	return MatchRule{mode: MatchAnyInTree, root: absRoot}
}

// Mode returns the rule's match mode.
func (r MatchRule) Mode() MatchMode {
	return r.mode
}

// Matches reports whether an event for the given path should be forwarded.
// Tree rules accept both absolute paths under the root and relative paths,
// which are interpreted as tree-internal.
func (r MatchRule) Matches(path string) bool {
	switch r.mode {
	case MatchExactFile:
		return r.exact.MatchString(filepath.Clean(path))
	case MatchAnyInTree:
		p := filepath.Clean(path)
		if !filepath.IsAbs(p) {
			p = filepath.Join(r.root, p)
		}
		rel, err := filepath.Rel(r.root, p)
		if err != nil {
			return false
		}
		return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
	}
	return false
}

// WatchTarget describes one registration for the filesystem observer: what
// to watch, how to traverse it, and which callbacks to invoke.
type WatchTarget struct {
	// Path is the absolute path handed to the OS-level watcher. For
	// single-file targets this is the containing directory, so creates and
	// renames of the file are observable even before it exists.
	Path string
	// Recursive is true iff the target is a directory tree.
	Recursive bool
	// StaticFolder marks the whole subtree as one logical unit, letting the
	// observer deduplicate overlapping subtree registrations.
	StaticFolder bool
	Match        MatchRule

	OnEvent  OnChangeFunc
	OnCreate OnChangeFunc // invoked when the target root itself appears
	OnDelete OnChangeFunc // invoked when the target root itself disappears
}

// ResourceTrigger resolves a declared resource into watch targets. All
// fallible work happens in the constructors; Resolve is idempotent,
// side-effect-free and never returns an empty slice.
type ResourceTrigger interface {
	Resolve() []WatchTarget
}

// singleFileTarget builds a non-recursive target for one file, watching its
// parent directory with an exact-path rule.
func singleFileTarget(path string) (WatchTarget, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return WatchTarget{}, fmt.Errorf("resolve path %s: %w", path, err)
	}
	return WatchTarget{
		Path:  filepath.Dir(abs),
		Match: exactFileRule(abs),
	}, nil
}

// dirTarget builds a recursive static-folder target for one directory tree.
func dirTarget(path string) (WatchTarget, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return WatchTarget{}, fmt.Errorf("resolve path %s: %w", path, err)
	}
	return WatchTarget{
		Path:         abs,
		Recursive:    true,
		StaticFolder: true,
		Match:        anyInTreeRule(abs),
	}, nil
}
