package selector

import (
	"testing"

	"github.com/agentic-research/doxmd/internal/entity"
	"github.com/agentic-research/doxmd/internal/ingest"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rootXML = `<?xml version='1.0' encoding='UTF-8' standalone='no'?>
<doxygen version="1.9.8">
  <compounddef id="nuts-getopts_8h" kind="file">
    <compoundname>nuts-getopts.h</compoundname>
    <innerclass refid="classA" prot="public">option</innerclass>
    <innerclass refid="classB" prot="public">state</innerclass>
    <sectiondef kind="enum">
      <memberdef kind="enum" id="e1"><name>nuts_getopts_flags</name></memberdef>
    </sectiondef>
    <sectiondef kind="func">
      <memberdef kind="function" id="f1"><name>foo</name></memberdef>
      <memberdef kind="function" id="f2"><name>bar</name><location file="a.h" line="3"/></memberdef>
    </sectiondef>
  </compounddef>
</doxygen>`

func compound(name string) string {
	return `<doxygen><compounddef id="` + name + `" kind="struct"><compoundname>` + name + `</compoundname></compounddef></doxygen>`
}

func writeFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func newSelector(t *testing.T, files map[string]string, opts ...Option) (*Selector, *ingest.Loader) {
	t.Helper()
	loader := ingest.NewLoader(writeFS(t, files), nil)
	return New(loader, "xml/index.xml", opts...), loader
}

func TestSelectFunctions_SingleWithoutLocation(t *testing.T) {
	s, _ := newSelector(t, map[string]string{
		"xml/index.xml": `<doxygen><compounddef><sectiondef kind="func"><memberdef><name>foo</name></memberdef></sectiondef></compounddef></doxygen>`,
	})

	fns, err := s.SelectFunctions()
	require.NoError(t, err)
	require.Len(t, fns, 1)
	assert.Same(t, entity.Function, fns[0].Kind())

	name, err := fns[0].Get("name")
	require.NoError(t, err)
	assert.Equal(t, "foo", name)

	loc, err := fns[0].One("location")
	require.NoError(t, err)
	file, err := loc.Get("file")
	require.NoError(t, err)
	assert.Nil(t, file)
}

func TestSelectFunctions_DocumentOrder(t *testing.T) {
	s, _ := newSelector(t, map[string]string{"xml/index.xml": rootXML})

	fns, err := s.SelectFunctions()
	require.NoError(t, err)
	require.Len(t, fns, 2)
	first, _ := fns[0].Scalar("name")
	second, _ := fns[1].Scalar("name")
	assert.Equal(t, "foo", first)
	assert.Equal(t, "bar", second)
}

func TestSelectEnums(t *testing.T) {
	s, _ := newSelector(t, map[string]string{"xml/index.xml": rootXML})

	enums, err := s.SelectEnums()
	require.NoError(t, err)
	require.Len(t, enums, 1)
	assert.Same(t, entity.Enum, enums[0].Kind())
	name, _ := enums[0].Scalar("name")
	assert.Equal(t, "nuts_getopts_flags", name)
}

func TestSelect_Idempotent(t *testing.T) {
	s, loader := newSelector(t, map[string]string{"xml/index.xml": rootXML})

	a, err := s.SelectFunctions()
	require.NoError(t, err)
	b, err := s.SelectFunctions()
	require.NoError(t, err)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Same(t, a[i].Node(), b[i].Node())
	}
	assert.Equal(t, 1, loader.Loaded())
}

func TestSelectStructs_ReferenceOrder(t *testing.T) {
	s, loader := newSelector(t, map[string]string{
		"xml/index.xml":  rootXML,
		"xml/classA.xml": compound("nuts_getopts_option"),
		"xml/classB.xml": compound("nuts_getopts_state"),
	})

	structs, err := s.SelectStructs()
	require.NoError(t, err)
	require.Len(t, structs, 2)

	first, _ := structs[0].Scalar("name")
	second, _ := structs[1].Scalar("name")
	assert.Equal(t, "nuts_getopts_option", first)
	assert.Equal(t, "nuts_getopts_state", second)

	assert.False(t, structs[0].IsTypedef())
	assert.True(t, structs[1].IsTypedef())
	assert.Equal(t, 3, loader.Loaded())
}

func TestSelectStructs_CustomTypedefsAndSuffix(t *testing.T) {
	s, _ := newSelector(t, map[string]string{
		"xml/index.xml":   rootXML,
		"xml/classA.dox":  compound("nuts_getopts_option"),
		"xml/classB.dox":  compound("nuts_getopts_state"),
		"xml/classA.xml":  "not used",
		"xml/unrelated.x": "",
	}, WithRefSuffix(".dox"), WithTypedefs([]string{"nuts_getopts_option"}))

	structs, err := s.SelectStructs()
	require.NoError(t, err)
	require.Len(t, structs, 2)
	assert.True(t, structs[0].IsTypedef())
	assert.False(t, structs[1].IsTypedef())
}

func TestSelectStructs_MissingSibling(t *testing.T) {
	s, _ := newSelector(t, map[string]string{
		"xml/index.xml":  rootXML,
		"xml/classA.xml": compound("nuts_getopts_option"),
	})

	structs, err := s.SelectStructs()
	require.Error(t, err)
	assert.Nil(t, structs)
	assert.ErrorIs(t, err, ErrMissingReference)
	assert.ErrorIs(t, err, ingest.ErrDocument)
	assert.Contains(t, err.Error(), "classB")
}

func TestSelectStructs_SiblingWithoutCompounddef(t *testing.T) {
	s, _ := newSelector(t, map[string]string{
		"xml/index.xml":  rootXML,
		"xml/classA.xml": compound("nuts_getopts_option"),
		"xml/classB.xml": `<doxygen/>`,
	})

	_, err := s.SelectStructs()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingReference)
	assert.Contains(t, err.Error(), "no compounddef")
}

func TestSelectStructs_None(t *testing.T) {
	s, _ := newSelector(t, map[string]string{
		"xml/index.xml": `<doxygen><compounddef/></doxygen>`,
	})
	structs, err := s.SelectStructs()
	require.NoError(t, err)
	assert.Empty(t, structs)
}

func TestSelect_MissingRootDocument(t *testing.T) {
	s, _ := newSelector(t, map[string]string{})
	_, err := s.SelectFunctions()
	assert.ErrorIs(t, err, ingest.ErrDocument)
}

func TestSelect_ByName(t *testing.T) {
	s, _ := newSelector(t, map[string]string{
		"xml/index.xml":  rootXML,
		"xml/classA.xml": compound("a"),
		"xml/classB.xml": compound("b"),
	})

	v, err := s.Select("functions")
	require.NoError(t, err)
	assert.Len(t, v, 2)

	v, err = s.Select("enums")
	require.NoError(t, err)
	assert.Len(t, v, 1)

	v, err = s.Select("structs")
	require.NoError(t, err)
	assert.IsType(t, []*entity.Struct{}, v)

	_, err = s.Select("macros")
	assert.ErrorIs(t, err, ErrUnknownSelection)
}
