package trigger

import (
	"fmt"

	"github.com/stackwatch-io/stackwatch/internal/stack"
)

// LayerCodeTrigger watches the content directory of a layer resource.
type LayerCodeTrigger struct {
	target WatchTarget
}

// NewLayerTrigger builds a trigger for a layer's content directory. A failed
// layer-specific lookup reports the generic ErrResourceNotFound, not a
// layer-specific kind.
func NewLayerTrigger(id stack.ResourceIdentifier, stacks []*stack.Stack, onChange OnChangeFunc) (*LayerCodeTrigger, error) {
	base, err := resolveCodeResource(id, stacks, onChange)
	if err != nil {
		return nil, err
	}

	layer := stack.LookupLayer(stacks, id)
	if layer == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrResourceNotFound)
	}
	if layer.CodeURI == "" {
		return nil, fmt.Errorf("%s: %w", id, ErrMissingCodeURI)
	}

	target, err := dirTarget(layer.CodeURI)
	if err != nil {
		return nil, err
	}
	target.OnEvent = base.onChange
	target.OnCreate = base.onChange
	target.OnDelete = base.onChange
	return &LayerCodeTrigger{target: target}, nil
}

func (t *LayerCodeTrigger) Resolve() []WatchTarget {
	return []WatchTarget{t.target}
}
