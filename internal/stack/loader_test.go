package stack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rootTemplate = `AWSTemplateFormatVersion: "2010-09-09"
Transform: AWS::Serverless-2016-10-31
Resources:
  Fn1:
    Type: AWS::Serverless::Function
    Properties:
      CodeUri: ./src
      Handler: app.handler
      Environment:
        Variables:
          TABLE: !Ref Table
  Table:
    Type: AWS::DynamoDB::Table
  ChildApp:
    Type: AWS::Serverless::Application
    Properties:
      Location: child/template.yaml
  RemoteApp:
    Type: AWS::Serverless::Application
    Properties:
      Location: https://example.com/template.yaml
`

const childTemplate = `Resources:
  NestedFn:
    Type: AWS::Serverless::Function
    Properties:
      CodeUri: ./nested-src
`

func writeTemplate(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, filepath.Join(dir, "template.yaml"), rootTemplate)
	writeTemplate(t, filepath.Join(dir, "child", "template.yaml"), childTemplate)

	root, err := LoadTemplate(filepath.Join(dir, "template.yaml"))
	require.NoError(t, err)

	assert.Len(t, root.Resources, 4)
	require.Len(t, root.Children, 1, "remote nested app must not be descended")
	assert.Equal(t, "ChildApp", root.Children[0].Name)

	fn := root.Resources["Fn1"]
	require.NotNil(t, fn)
	assert.Equal(t, TypeServerlessFunction, fn.Type)
	assert.Equal(t, "./src", fn.StringProperty("CodeUri"))

	// Intrinsic short forms decode as their long-form equivalents.
	env, _ := fn.Properties["Environment"].(map[string]any)
	vars, _ := env["Variables"].(map[string]any)
	assert.Equal(t, map[string]any{"Ref": "Table"}, vars["TABLE"])

	// Nested resources are addressable through the identifier path.
	stacks := []*Stack{root}
	assert.NotNil(t, ResourceByID(stacks, "ChildApp/NestedFn"))
	nested := LookupFunction(stacks, "ChildApp/NestedFn")
	require.NotNil(t, nested)
	assert.Equal(t, "./nested-src", nested.CodeURI)
}

func TestLoadTemplate_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTemplate(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.yaml")
	writeTemplate(t, broken, "Resources: [unclosed\n")
	_, err = LoadTemplate(broken)
	assert.Error(t, err)

	scalar := filepath.Join(dir, "scalar.yaml")
	writeTemplate(t, scalar, "just a string\n")
	_, err = LoadTemplate(scalar)
	assert.Error(t, err)

	danglingChild := filepath.Join(dir, "dangling.yaml")
	writeTemplate(t, danglingChild, "Resources:\n  App:\n    Type: AWS::Serverless::Application\n    Properties:\n      Location: nope/template.yaml\n")
	_, err = LoadTemplate(danglingChild)
	assert.Error(t, err)
}
