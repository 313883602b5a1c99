package stack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stackwatch-io/stackwatch/internal/logging"
	"github.com/stackwatch-io/stackwatch/internal/validate"
)

// LoadTemplate parses a stack template file into a Stack, descending nested
// application/stack resources whose template location is a local file.
// Remote locations (s3://, https://, ARNs) are left as unexpanded leaf
// resources.
func LoadTemplate(path string) (*Stack, error) {
	return loadTemplate(path, "")
}

func loadTemplate(path, name string) (*Stack, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve template path %s: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", abs, err)
	}

	doc, err := validate.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", abs, err)
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("template %s: top level is not a mapping", abs)
	}

	s := &Stack{
		Name:      name,
		Location:  abs,
		Resources: make(map[string]*Resource),
	}

	declared, _ := root["Resources"].(map[string]any)
	for logicalID, raw := range declared {
		body, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		res := &Resource{
			Type:       asString(body["Type"]),
			Properties: asMap(body["Properties"]),
			Metadata:   asMap(body["Metadata"]),
		}
		s.Resources[logicalID] = res

		if location := nestedTemplateLocation(res); location != "" {
			if !isLocalPath(location) {
				logging.Debug("skipping remote nested stack", "id", logicalID, "location", location)
				continue
			}
			childPath := location
			if !filepath.IsAbs(childPath) {
				childPath = filepath.Join(filepath.Dir(abs), childPath)
			}
			child, err := loadTemplate(childPath, logicalID)
			if err != nil {
				return nil, fmt.Errorf("nested stack %s: %w", logicalID, err)
			}
			s.Children = append(s.Children, child)
		}
	}

	return s, nil
}

// nestedTemplateLocation returns the template location for nested
// application/stack resources, "" for everything else.
func nestedTemplateLocation(r *Resource) string {
	switch r.Type {
	case TypeServerlessApp:
		return r.StringProperty("Location")
	case TypeCloudFormationStack:
		return r.StringProperty("TemplateURL")
	}
	return ""
}

func isLocalPath(location string) bool {
	return !strings.Contains(location, "://") && !strings.HasPrefix(location, "arn:")
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
