package examples

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleC = `#include <stdio.h>
#include "nuts-getopts.h"

static struct nuts_getopts_option options[] = {
  { 'h', "help", NUTS_GETOPTS_NONE },
  { 0 }
};

static const char *progname(const char *argv0) {
  return argv0;
}

#ifdef HAVE_MAIN
int main(int argc, char *argv[]) {
  struct nuts_getopts_state state;
  return 0;
}
#endif
`

func TestSnippetFromSource(t *testing.T) {
	got, err := SnippetFromSource([]byte(exampleC), "main")
	require.NoError(t, err)
	assert.Contains(t, got, "int main(int argc, char *argv[])")
	assert.Contains(t, got, "return 0;")
	assert.NotContains(t, got, "#endif")

	got, err = SnippetFromSource([]byte(exampleC), "progname")
	require.NoError(t, err)
	assert.Contains(t, got, "return argv0;")
}

func TestSnippetFromSource_Missing(t *testing.T) {
	_, err := SnippetFromSource([]byte(exampleC), "options")
	assert.ErrorIs(t, err, ErrNoSuchFunction)
}

func TestFunctions(t *testing.T) {
	names, err := Functions([]byte(exampleC))
	require.NoError(t, err)
	assert.Equal(t, []string{"progname", "main"}, names)
}

func TestSnippet_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "getopts.c")
	require.NoError(t, os.WriteFile(path, []byte(exampleC), 0o644))

	got, err := Snippet(path, "main")
	require.NoError(t, err)
	assert.Contains(t, got, "nuts_getopts_state")

	_, err = Snippet(filepath.Join(t.TempDir(), "none.c"), "main")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
