package trigger

import (
	"fmt"

	"github.com/stackwatch-io/stackwatch/internal/stack"
)

// codeResource is the shared resolution step for triggers bound to a single
// template resource: look the record up eagerly and fail construction when
// it is absent.
type codeResource struct {
	resource *stack.Resource
	onChange OnChangeFunc
}

func resolveCodeResource(id stack.ResourceIdentifier, stacks []*stack.Stack, onChange OnChangeFunc) (codeResource, error) {
	res := stack.ResourceByID(stacks, id)
	if res == nil {
		return codeResource{}, fmt.Errorf("%s: %w", id, ErrResourceNotFound)
	}
	return codeResource{resource: res, onChange: onChange}, nil
}

// CodeLocator computes the watchable code location for a resolved function.
// The zip and image strategies are the only variation between function
// trigger kinds, so it is a function value rather than a subtype.
type CodeLocator func(fn *stack.Function) string

// ZipCodeLocator returns the function's declared CodeUri.
func ZipCodeLocator(fn *stack.Function) string {
	return fn.CodeURI
}

// ImageCodeLocator returns the docker build context from function metadata.
func ImageCodeLocator(fn *stack.Function) string {
	if fn.Metadata == nil {
		return ""
	}
	ctx, _ := fn.Metadata["DockerContext"].(string)
	return ctx
}

// FunctionCodeTrigger watches the code directory of a function resource. A
// deleted or recreated code directory re-triggers the callback through
// OnCreate/OnDelete, not only in-tree edits.
type FunctionCodeTrigger struct {
	target WatchTarget
}

func newFunctionCodeTrigger(id stack.ResourceIdentifier, stacks []*stack.Stack, onChange OnChangeFunc, locate CodeLocator) (*FunctionCodeTrigger, error) {
	base, err := resolveCodeResource(id, stacks, onChange)
	if err != nil {
		return nil, err
	}

	fn := stack.LookupFunction(stacks, id)
	if fn == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrFunctionNotFound)
	}

	codeURI := locate(fn)
	if codeURI == "" {
		return nil, fmt.Errorf("%s: %w", id, ErrMissingCodeURI)
	}

	target, err := dirTarget(codeURI)
	if err != nil {
		return nil, err
	}
	target.OnEvent = base.onChange
	target.OnCreate = base.onChange
	target.OnDelete = base.onChange
	return &FunctionCodeTrigger{target: target}, nil
}

// NewFunctionZipTrigger builds a trigger for a zip-packaged function,
// watching its CodeUri directory.
func NewFunctionZipTrigger(id stack.ResourceIdentifier, stacks []*stack.Stack, onChange OnChangeFunc) (*FunctionCodeTrigger, error) {
	return newFunctionCodeTrigger(id, stacks, onChange, ZipCodeLocator)
}

// NewFunctionImageTrigger builds a trigger for an image-packaged function,
// watching its docker build context directory.
func NewFunctionImageTrigger(id stack.ResourceIdentifier, stacks []*stack.Stack, onChange OnChangeFunc) (*FunctionCodeTrigger, error) {
	return newFunctionCodeTrigger(id, stacks, onChange, ImageCodeLocator)
}

func (t *FunctionCodeTrigger) Resolve() []WatchTarget {
	return []WatchTarget{t.target}
}
