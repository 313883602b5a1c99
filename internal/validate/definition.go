package validate

import (
	"os"
	"reflect"
	"sync"

	"github.com/stackwatch-io/stackwatch/internal/logging"
)

// DefinitionValidator decides whether a rewrite of a template or API
// definition file is a meaningful change. It is stateful: each successful
// Validate caches the decoded content, so whitespace or comment-only
// rewrites of the same structure report false on the next call.
//
// Validate may be called from the observer's dispatch goroutine; the cache
// is guarded so callers need no external synchronization.
type DefinitionValidator struct {
	path string

	mu       sync.Mutex
	lastSeen any
	seenOnce bool
}

// NewDefinitionValidator creates a validator bound to one definition file.
// The current content, if it parses, seeds the cache so an event that
// rewrites the same structure is suppressed from the start.
func NewDefinitionValidator(path string) *DefinitionValidator {
	v := &DefinitionValidator{path: path}
	if data, err := os.ReadFile(path); err == nil {
		if decoded, err := Decode(data); err == nil {
			v.lastSeen = decoded
			v.seenOnce = true
		}
	}
	return v
}

// Path returns the definition file this validator is bound to.
func (v *DefinitionValidator) Path() string {
	return v.path
}

// Validate reads and parses the definition file. It returns true only when
// the file parses and its structure differs from the last successfully
// observed one. A missing file or parse failure returns false and leaves the
// cache untouched, so the next real change is still reported.
func (v *DefinitionValidator) Validate() bool {
	data, err := os.ReadFile(v.path)
	if err != nil {
		logging.Debug("definition not readable", "path", v.path, "error", err)
		return false
	}

	decoded, err := Decode(data)
	if err != nil {
		logging.Debug("definition failed to parse", "path", v.path, "error", err)
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.seenOnce && reflect.DeepEqual(v.lastSeen, decoded) {
		return false
	}
	v.lastSeen = decoded
	v.seenOnce = true
	return true
}
