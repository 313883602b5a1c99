package trigger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleFileTarget(t *testing.T) {
	target, err := singleFileTarget("/parent/file.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/parent", target.Path)
	assert.False(t, target.Recursive)
	assert.False(t, target.StaticFolder)
	assert.Equal(t, MatchExactFile, target.Match.Mode())
	assert.True(t, target.Match.Matches("/parent/file.yaml"))
	assert.False(t, target.Match.Matches("/parent/file.yam"))
	assert.False(t, target.Match.Matches("/parent/file.yamll"))
	assert.False(t, target.Match.Matches("/parent/File.yaml"))
}

func TestSingleFileTarget_PatternSpecialCharacters(t *testing.T) {
	// Literal regex metacharacters in the path must not widen the match.
	target, err := singleFileTarget("/parent/a+b(1).yaml")
	require.NoError(t, err)

	assert.True(t, target.Match.Matches("/parent/a+b(1).yaml"))
	assert.False(t, target.Match.Matches("/parent/aab(1).yaml"))
	assert.False(t, target.Match.Matches("/parent/a+b(1)xyaml"))
}

func TestSingleFileTarget_RelativePathResolved(t *testing.T) {
	target, err := singleFileTarget("template.yaml")
	require.NoError(t, err)

	abs, err := filepath.Abs("template.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(abs), target.Path)
	assert.True(t, target.Match.Matches(abs))
}

func TestDirTarget(t *testing.T) {
	target, err := dirTarget("/parent/code")
	require.NoError(t, err)

	assert.Equal(t, "/parent/code", target.Path)
	assert.True(t, target.Recursive)
	assert.True(t, target.StaticFolder)
	assert.Equal(t, MatchAnyInTree, target.Match.Mode())
}

func TestMatchRule_AnyInTree(t *testing.T) {
	rule := anyInTreeRule("/parent/code")

	tests := []struct {
		name    string
		path    string
		matches bool
	}{
		{"root itself", "/parent/code", true},
		{"direct child", "/parent/code/main.go", true},
		{"nested child", "/parent/code/pkg/deep/util.go", true},
		{"relative path", "pkg/util.go", true},
		{"sibling", "/parent/other/main.go", false},
		{"parent", "/parent", false},
		{"prefix but not subtree", "/parent/codex/main.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, rule.Matches(tt.path))
		})
	}
}
