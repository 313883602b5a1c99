package trigger

import (
	"fmt"

	"github.com/stackwatch-io/stackwatch/internal/stack"
)

// ForResource selects and constructs the trigger implementation for a
// resource based on its declared type. Selection among concrete trigger
// kinds is driven entirely by the type discriminant (and PackageType for
// functions). Unknown or unwatchable types return an error so the caller can
// skip that resource without aborting the rest of the watch set.
func ForResource(id stack.ResourceIdentifier, stacks []*stack.Stack, onChange OnChangeFunc) (ResourceTrigger, error) {
	res := stack.ResourceByID(stacks, id)
	if res == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrResourceNotFound)
	}

	switch res.Type {
	case stack.TypeServerlessFunction, stack.TypeLambdaFunction:
		if res.StringProperty("PackageType") == stack.PackageTypeImage {
			return NewFunctionImageTrigger(id, stacks, onChange)
		}
		return NewFunctionZipTrigger(id, stacks, onChange)
	case stack.TypeServerlessLayer, stack.TypeLambdaLayer:
		return NewLayerTrigger(id, stacks, onChange)
	case stack.TypeServerlessAPI, stack.TypeServerlessHTTPAPI, stack.TypeRestAPI, stack.TypeHTTPAPI:
		return NewAPITrigger(id, stacks, onChange)
	default:
		return nil, fmt.Errorf("no trigger for resource type %q", res.Type)
	}
}
