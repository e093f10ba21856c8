package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
	"types": [
		{"name": "Base"},
		{
			"name": "Widget",
			"base": "Base",
			"namespace": "UI",
			"functions": [
				{
					"name": "GetValue",
					"mangled": "Widget_GetValue",
					"return": {"kind": "int32"}
				},
				{
					"name": "SetLabel",
					"mangled": "Widget_SetLabel",
					"params": [
						{"name": "label", "type": {"kind": "string"}, "real": true}
					],
					"return": {"kind": "void"}
				}
			],
			"fields": [
				{"name": "Count", "mangled": "Widget_Count", "type": {"kind": "int32"}}
			]
		},
		{"name": "WindowHandle", "pointerOnly": true}
	]
}`

func TestParseSampleDocument(t *testing.T) {
	g, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)
	require.Len(t, g.Types, 3)

	widget, ok := g.Lookup("Widget")
	require.True(t, ok)
	assert.Equal(t, "UI", widget.Namespace)
	require.Len(t, widget.Chain, 1)
	assert.Equal(t, "Base", widget.Chain[0].Name)

	require.Len(t, widget.Functions, 2)
	assert.Equal(t, Int32, widget.Functions[0].Return.Kind)
	setLabel := widget.Functions[1]
	require.Len(t, setLabel.Params, 1)
	assert.Equal(t, String, setLabel.Params[0].Type.Kind)
	assert.True(t, setLabel.Params[0].IsReal)
	assert.True(t, setLabel.Return.IsVoid())

	handle, ok := g.Lookup("WindowHandle")
	require.True(t, ok)
	assert.True(t, handle.IsPointerOnly)
}

func TestParseRejectsUnknownKind(t *testing.T) {
	_, err := Parse([]byte(`{"types":[{"name":"T","fields":[{"name":"X","mangled":"T_X","type":{"kind":"complex128"}}]}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding definition graph")
}

func TestParseRejectsInvalidGraph(t *testing.T) {
	_, err := Parse([]byte(`{"types":[{"name":"A","base":"B"},{"name":"B","base":"A"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid definition graph")
}

func TestMarshalRoundTrip(t *testing.T) {
	g, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	data, err := g.Marshal()
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, again.Types, len(g.Types))
	widget, ok := again.Lookup("Widget")
	require.True(t, ok)
	assert.Len(t, widget.Functions, 2)
}
