package schema

import (
	"testing"

	"github.com/agentic-research/doxmd/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclare_SourceDefaultsToIdentifier(t *testing.T) {
	k, err := NewKind("Location").
		Attribute("file").
		Text("name", Source("compoundname")).
		Build()
	require.NoError(t, err)

	f, ok := k.Lookup("file")
	require.True(t, ok)
	assert.Equal(t, "file", f.Source)
	assert.Equal(t, api.Attribute, f.Access)

	f, ok = k.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, "compoundname", f.Source)
	assert.Equal(t, api.Text, f.Access)
}

func TestDeclare_InvalidAccessKindFails(t *testing.T) {
	_, err := NewKind("Broken").
		Attribute("id").
		Declare("name", api.AccessKind(42)).
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrInvalidAccessKind)
	assert.Contains(t, err.Error(), "Broken.name")

	_, err = NewKind("Zero").Declare("x", api.AccessKind(0)).Build()
	assert.ErrorIs(t, err, api.ErrInvalidAccessKind)
}

func TestDeclare_FirstErrorWins(t *testing.T) {
	_, err := NewKind("Broken").
		Declare("a", api.AccessKind(9)).
		Attribute("a").
		Attribute("a").
		Build()
	assert.ErrorIs(t, err, api.ErrInvalidAccessKind)
}

func TestDeclare_DuplicateField(t *testing.T) {
	_, err := NewKind("Dup").Attribute("id").Text("id").Build()
	assert.ErrorIs(t, err, ErrDuplicateField)
}

func TestDeclare_ChildNeedsNestedKind(t *testing.T) {
	_, err := NewKind("Parent").Declare("child", api.Child).Build()
	assert.ErrorIs(t, err, ErrMissingNested)
}

func TestDeclare_ChildCardinality(t *testing.T) {
	leaf := NewKind("Leaf").Attribute("v").MustBuild()
	k := NewKind("Parent").
		One("single", leaf).
		List("many", leaf, Source("a/b")).
		MustBuild()

	single, ok := k.Lookup("single")
	require.True(t, ok)
	assert.Equal(t, api.Single, single.Cardinality)
	assert.Same(t, leaf, single.NestedKind())
	assert.Equal(t, "Leaf", single.Nested)

	many, ok := k.Lookup("many")
	require.True(t, ok)
	assert.Equal(t, api.Many, many.Cardinality)
	assert.Equal(t, "a/b", many.Source)
}

func TestDeclare_NonChildDropsNestedOptions(t *testing.T) {
	leaf := NewKind("Leaf").MustBuild()
	k := NewKind("K").Text("t", Nested(leaf), Many()).MustBuild()
	f, _ := k.Lookup("t")
	assert.Nil(t, f.NestedKind())
	assert.Equal(t, api.Single, f.Cardinality)
	assert.Empty(t, f.Nested)
}

func TestKind_FieldsKeepDeclarationOrder(t *testing.T) {
	k := NewKind("K").Text("c").Attribute("a").Text("b").MustBuild()
	var ids []string
	for _, f := range k.Fields() {
		ids = append(ids, f.Identifier)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
	assert.Equal(t, "K", k.Name())
}

func TestKind_LookupUnknown(t *testing.T) {
	k := NewKind("K").Attribute("id").MustBuild()
	_, ok := k.Lookup("nope")
	assert.False(t, ok)
}

func TestBuilder_SealedAfterBuild(t *testing.T) {
	b := NewKind("K").Attribute("id")
	k, err := b.Build()
	require.NoError(t, err)

	b.Attribute("late")
	_, ok := k.Lookup("late")
	assert.False(t, ok)

	_, err = b.Build()
	assert.ErrorIs(t, err, ErrSealed)
}

func TestMustBuild_Panics(t *testing.T) {
	assert.Panics(t, func() {
		NewKind("K").Declare("x", api.AccessKind(-1)).MustBuild()
	})
}

func TestAccessKind_Text(t *testing.T) {
	var k api.AccessKind
	require.NoError(t, k.UnmarshalText([]byte("child")))
	assert.Equal(t, api.Child, k)

	assert.ErrorIs(t, k.UnmarshalText([]byte("element")), api.ErrInvalidAccessKind)

	_, err := api.AccessKind(7).MarshalText()
	assert.ErrorIs(t, err, api.ErrInvalidAccessKind)
}
