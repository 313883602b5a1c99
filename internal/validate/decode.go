package validate

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses YAML (or JSON, which YAML subsumes) into plain Go values
// suitable for structural comparison. CloudFormation intrinsic short forms
// (!Ref, !GetAtt, !Sub, ...) are tolerated by decoding them as tagged
// single-entry maps, so templates using them still parse and still compare
// structurally.
func Decode(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}
	return decodeNode(root.Content[0]), nil
}

func decodeNode(n *yaml.Node) any {
	switch n.Kind {
	case yaml.AliasNode:
		return decodeNode(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			m[key] = decodeNode(n.Content[i+1])
		}
		return wrapIntrinsic(n.Tag, m)
	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			s = append(s, decodeNode(c))
		}
		return wrapIntrinsic(n.Tag, s)
	case yaml.ScalarNode:
		return decodeScalar(n)
	default:
		return nil
	}
}

func decodeScalar(n *yaml.Node) any {
	switch n.Tag {
	case "!!null":
		return nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err == nil {
			return b
		}
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err == nil {
			return i
		}
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err == nil {
			return f
		}
	case "", "!!str":
		return n.Value
	}
	return wrapIntrinsic(n.Tag, n.Value)
}

// wrapIntrinsic converts a custom local tag into a single-entry map keyed by
// the tag name, mirroring the long form CloudFormation equivalence
// (!Ref X == {"Ref": "X"}).
func wrapIntrinsic(tag string, value any) any {
	if !strings.HasPrefix(tag, "!") || strings.HasPrefix(tag, "!!") {
		return value
	}
	name := strings.TrimPrefix(tag, "!")
	if name == "Ref" || name == "Condition" {
		return map[string]any{name: value}
	}
	return map[string]any{"Fn::" + name: value}
}
