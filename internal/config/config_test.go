package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, []string{"nuts_getopts_state"}, c.Typedefs)
	assert.Equal(t, ".xml", c.RefSuffix)
	assert.Equal(t, "*.c", c.Examples.Pattern)
	assert.Error(t, c.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doxmd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input: build/xml/nuts-getopts_8h.xml
template: docs/api.md.tmpl
output: /tmp/API.md
github: true
typedefs: [a_state, b_state]
examples:
  dir: src/examples
`), 0o644))

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, filepath.Join(dir, "build/xml/nuts-getopts_8h.xml"), c.Input)
	assert.Equal(t, filepath.Join(dir, "docs/api.md.tmpl"), c.Template)
	assert.Equal(t, "/tmp/API.md", c.Output)
	assert.True(t, c.GitHub)
	assert.Equal(t, []string{"a_state", "b_state"}, c.Typedefs)
	assert.Equal(t, ".xml", c.RefSuffix)
	assert.Equal(t, filepath.Join(dir, "src/examples"), c.Examples.Dir)
	assert.Equal(t, "*.c", c.Examples.Pattern)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: [unclosed"), 0o644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	c := DefaultConfig()
	c.Input = "a.xml"
	c.Template = "t.tmpl"

	c.Merge(&Config{Input: "b.xml", Output: "out.md", Examples: ExamplesConfig{Pattern: "**/*.c"}})
	c.Merge(nil)

	assert.Equal(t, "b.xml", c.Input)
	assert.Equal(t, "t.tmpl", c.Template)
	assert.Equal(t, "out.md", c.Output)
	assert.Equal(t, "**/*.c", c.Examples.Pattern)
	assert.Equal(t, []string{"nuts_getopts_state"}, c.Typedefs)
	require.NoError(t, c.Validate())
}

func TestValidate_EmptySuffix(t *testing.T) {
	c := &Config{Input: "a", Template: "b", Output: "c"}
	assert.ErrorContains(t, c.Validate(), "ref_suffix")
}
