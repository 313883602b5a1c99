package trigger

import "errors"

// Construction-time failures. Triggers never fail after construction:
// Resolve and callback dispatch are infallible by design, so everything a
// caller must react to surfaces from the constructors, wrapped around one of
// these sentinels.
var (
	// ErrResourceNotFound means the identifier resolved to no resource in
	// the supplied stacks. The layer trigger reuses it for its type-specific
	// lookup as well.
	ErrResourceNotFound = errors.New("resource not found in stacks")

	// ErrFunctionNotFound means the identifier resolved to a resource, but
	// not to a function record.
	ErrFunctionNotFound = errors.New("function not found in stacks")

	// ErrMissingCodeURI means a code-bearing resource declares no usable
	// local code location for its resolution strategy.
	ErrMissingCodeURI = errors.New("resource declares no local code location")

	// ErrMissingDefinitionURI means an API resource declares no definition
	// file.
	ErrMissingDefinitionURI = errors.New("api resource declares no definition file")
)
