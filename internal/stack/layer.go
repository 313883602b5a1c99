package stack

// LayerVersion is the resolved view of a layer-typed resource.
type LayerVersion struct {
	Name    string
	CodeURI string // "" when the layer content is not a local path
}

// IsLayerType reports whether the resource type declares a layer.
func IsLayerType(resourceType string) bool {
	return resourceType == TypeServerlessLayer || resourceType == TypeLambdaLayer
}

// LookupLayer resolves an identifier into a LayerVersion view. Returns nil
// when the identifier does not resolve or resolves to a non-layer resource.
func LookupLayer(stacks []*Stack, id ResourceIdentifier) *LayerVersion {
	r := ResourceByID(stacks, id)
	if r == nil || !IsLayerType(r.Type) {
		return nil
	}

	layer := &LayerVersion{Name: id.LogicalID()}
	switch r.Type {
	case TypeServerlessLayer:
		layer.CodeURI = r.StringProperty("ContentUri")
	case TypeLambdaLayer:
		layer.CodeURI = r.StringProperty("Content")
	}
	return layer
}
