package trigger

import (
	"fmt"

	"github.com/stackwatch-io/stackwatch/internal/stack"
	"github.com/stackwatch-io/stackwatch/internal/validate"
)

// APICodeTrigger watches an API resource's definition file, gated by the
// same meaningful-change validation as the template trigger.
type APICodeTrigger struct {
	target WatchTarget
}

// NewAPITrigger builds a trigger for an API resource's DefinitionUri file.
func NewAPITrigger(id stack.ResourceIdentifier, stacks []*stack.Stack, onChange OnChangeFunc) (*APICodeTrigger, error) {
	base, err := resolveCodeResource(id, stacks, onChange)
	if err != nil {
		return nil, err
	}

	definitionFile := base.resource.StringProperty("DefinitionUri")
	if definitionFile == "" {
		return nil, fmt.Errorf("%s: %w", id, ErrMissingDefinitionURI)
	}

	target, err := singleFileTarget(definitionFile)
	if err != nil {
		return nil, err
	}
	gate := &validatorGate{
		validator: validate.NewDefinitionValidator(definitionFile),
		onChange:  base.onChange,
	}
	target.OnEvent = gate.forward
	return &APICodeTrigger{target: target}, nil
}

func (t *APICodeTrigger) Resolve() []WatchTarget {
	return []WatchTarget{t.target}
}
