package stack

import (
	"sort"
	"strings"
)

// ResourceIdentifier identifies a resource within a stack tree. Resources in
// nested stacks use a path form like "ChildApp/MyFunction": the final segment
// is the logical ID and the leading segments name the stack path. Equality is
// plain string equality on the composite form.
type ResourceIdentifier string

func (id ResourceIdentifier) String() string {
	return string(id)
}

// StackPath returns the nested-stack portion of the identifier, or "" when
// the identifier addresses a root-stack resource.
func (id ResourceIdentifier) StackPath() string {
	idx := strings.LastIndex(string(id), "/")
	if idx < 0 {
		return ""
	}
	return string(id)[:idx]
}

// LogicalID returns the final segment of the identifier.
func (id ResourceIdentifier) LogicalID() string {
	idx := strings.LastIndex(string(id), "/")
	return string(id)[idx+1:]
}

// Resource is a single declared resource within a stack template. Triggers
// hold read-only references to resources; nothing mutates them after loading.
type Resource struct {
	Type       string
	Properties map[string]any
	Metadata   map[string]any
}

// StringProperty returns the named property when it is declared as a plain
// string, and "" otherwise (absent, or a structured value such as an S3
// location object).
func (r *Resource) StringProperty(name string) string {
	if r == nil || r.Properties == nil {
		return ""
	}
	v, _ := r.Properties[name].(string)
	return v
}

// Stack is an immutable snapshot of one template's resources plus any nested
// child stacks. The caller supplies the snapshot for the lifetime of a
// trigger; a stale snapshot means discarding the trigger, not mutating this.
type Stack struct {
	Name      string // logical ID within the parent, "" for the root stack
	Location  string // absolute path of the template file
	Resources map[string]*Resource
	Children  []*Stack
}

// ResourceByID resolves an identifier against a set of root stacks,
// descending nested stacks along the identifier's stack path. An identifier
// without a stack path matches the first resource with that logical ID found
// in a depth-first search. Returns nil when nothing matches.
func ResourceByID(stacks []*Stack, id ResourceIdentifier) *Resource {
	logicalID := id.LogicalID()
	if logicalID == "" {
		return nil
	}

	var path []string
	if sp := id.StackPath(); sp != "" {
		path = strings.Split(sp, "/")
	}

	for _, s := range stacks {
		if r := s.find(path, logicalID); r != nil {
			return r
		}
	}
	return nil
}

func (s *Stack) find(path []string, logicalID string) *Resource {
	if len(path) > 0 {
		for _, child := range s.Children {
			if child.Name == path[0] {
				if r := child.find(path[1:], logicalID); r != nil {
					return r
				}
			}
		}
		return nil
	}

	if r, ok := s.Resources[logicalID]; ok {
		return r
	}
	for _, child := range s.Children {
		if r := child.find(nil, logicalID); r != nil {
			return r
		}
	}
	return nil
}

// AllResourceIDs lists every resource identifier declared across the given
// stacks, in sorted path order, nested stacks included.
func AllResourceIDs(stacks []*Stack) []ResourceIdentifier {
	var ids []ResourceIdentifier
	for _, s := range stacks {
		s.collectIDs("", &ids)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Stack) collectIDs(prefix string, ids *[]ResourceIdentifier) {
	for logicalID := range s.Resources {
		*ids = append(*ids, ResourceIdentifier(prefix+logicalID))
	}
	for _, child := range s.Children {
		child.collectIDs(prefix+child.Name+"/", ids)
	}
}
