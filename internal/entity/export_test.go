package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_Function(t *testing.T) {
	m, err := Export(NewView(Function, memberdef(t, "fn_parse")))
	require.NoError(t, err)

	assert.Equal(t, "fn_parse", m["id"])
	assert.Equal(t, "nuts_getopts", m["name"])
	assert.Nil(t, m["inbodydescription"])

	loc, ok := m["location"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "42", loc["line"])

	params, ok := m["param"].([]any)
	require.True(t, ok)
	assert.Len(t, params, 2)
}

func TestExport_AbsentChildren(t *testing.T) {
	m, err := Export(NewView(Function, memberdef(t, "fn_bare")))
	require.NoError(t, err)

	assert.Nil(t, m["location"])
	assert.Equal(t, []any{}, m["param"])
}

func TestExportStruct_TypedefFlag(t *testing.T) {
	m, err := ExportStruct(NewStruct(compounddef(t, stateXML), nil))
	require.NoError(t, err)
	assert.Equal(t, true, m["typedef"])
	assert.Len(t, m["member"], 2)
}
