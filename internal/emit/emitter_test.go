package emit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobind/internal/config"
	"gobind/internal/graph"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Package = "bindings"
	cfg.Runtime = "gobind/bindrt"
	return cfg
}

func widgetGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := &graph.Graph{Types: []*graph.TypeNode{
		{Name: "Base"},
		{
			Name:      "Widget",
			Namespace: "UI",
			Base:      "Base",
			Functions: []*graph.FunctionMember{
				{
					Name:    "GetValue",
					Mangled: "Widget_GetValue",
					Return:  graph.TypeRef{Kind: graph.Int32},
				},
			},
			Fields: []*graph.FieldMember{
				{Name: "Count", Mangled: "Widget_Count", Type: graph.TypeRef{Kind: graph.Int32}},
			},
		},
	}}
	require.NoError(t, g.Resolve())
	return g
}

func render(t *testing.T, g *graph.Graph, cfg config.Config, typeName string) string {
	t.Helper()
	node, ok := g.Lookup(typeName)
	require.True(t, ok)
	src, err := New(g, cfg).Render(node)
	require.NoError(t, err)
	return src
}

func TestRenderValueWrapperIdentity(t *testing.T) {
	src := render(t, widgetGraph(t), testConfig(), "Widget")

	assert.True(t, strings.HasPrefix(src, "// Code generated by gobind. DO NOT EDIT."))
	assert.Contains(t, src, "package bindings")
	assert.Contains(t, src, "type Widget struct {")
	assert.Contains(t, src, "handle bindrt.Handle")
	assert.Contains(t, src, "func WidgetFromHandle(h bindrt.Handle) Widget")
	assert.Contains(t, src, "return Widget{handle: h}")
	assert.Contains(t, src, "func (obj Widget) Handle() bindrt.Handle")
	assert.Contains(t, src, "func (obj Widget) IsValid() bool")
	assert.Contains(t, src, "obj.handle != bindrt.NullHandle")
	assert.Contains(t, src, "func (obj Widget) Equal(other Widget) bool")
	assert.Contains(t, src, `fmt.Sprintf("Widget(0x%x)", uintptr(obj.handle))`)
}

func TestRenderCastsGoThroughSlots(t *testing.T) {
	src := render(t, widgetGraph(t), testConfig(), "Widget")

	assert.Contains(t, src, "func (obj Widget) AsBase() Base")
	assert.Contains(t, src, "func WidgetFromBase(v Base) Widget")
	assert.Contains(t, src, "widgetSlots.To_Base_From_Widget.Call(self)")
	assert.Contains(t, src, "widgetSlots.From_Base_To_Widget.Call(self)")
	assert.Contains(t, src, `bindrt.NewSlot("Widget", "To_Base_From_Widget", bindrt.Fast)`)
	assert.Contains(t, src, `bindrt.NewSlot("Widget", "From_Base_To_Widget", bindrt.Fast)`)
	assert.NotContains(t, src, "unsafe.Pointer(obj.handle)", "casts never reinterpret the identity")
}

func TestRenderFunctionWrapper(t *testing.T) {
	src := render(t, widgetGraph(t), testConfig(), "Widget")

	assert.Contains(t, src, "func (obj Widget) GetValue() int32")
	assert.Contains(t, src, `self := bindrt.MustHandle(obj.handle, "Widget", "GetValue")`)
	assert.Contains(t, src, "return int32(widgetSlots.Widget_GetValue.Call(self))")
}

func TestRenderFieldAccessorPair(t *testing.T) {
	src := render(t, widgetGraph(t), testConfig(), "Widget")

	assert.Contains(t, src, "func (obj Widget) GetCount() int32")
	assert.Contains(t, src, "func (obj Widget) SetCount(value int32)")
	assert.Contains(t, src, "widgetSlots.Get__Widget_Count.Call(self)")
	assert.Contains(t, src, "widgetSlots.Set__Widget_Count.Call(self, uintptr(value))")
	assert.Contains(t, src, `bindrt.NewSlot("Widget", "Get__Widget_Count", bindrt.Default)`)
	assert.Contains(t, src, `bindrt.NewSlot("Widget", "Set__Widget_Count", bindrt.Default)`)
}

func TestRenderSlotTableExport(t *testing.T) {
	src := render(t, widgetGraph(t), testConfig(), "Widget")

	assert.Contains(t, src, "var widgetSlots = struct {")
	assert.Contains(t, src, "Widget_GetValue bindrt.Slot")
	assert.Contains(t, src, "func init() {")
	assert.Contains(t, src, `bindrt.Export("Widget", map[string]*bindrt.Slot{`)
	assert.Contains(t, src, `"Widget_GetValue": &widgetSlots.Widget_GetValue,`)
	assert.Contains(t, src, `"Get__Widget_Count": &widgetSlots.Get__Widget_Count,`)
}

func TestRenderDeterministic(t *testing.T) {
	g := widgetGraph(t)
	cfg := testConfig()
	first := render(t, g, cfg, "Widget")
	second := render(t, g, cfg, "Widget")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("emission is not deterministic (-first +second):\n%s", diff)
	}
}

func TestRenderBalancedBlocks(t *testing.T) {
	src := render(t, widgetGraph(t), testConfig(), "Widget")
	assert.Equal(t, strings.Count(src, "{"), strings.Count(src, "}"))
}

func TestRenderStringParameterMarshaling(t *testing.T) {
	g := &graph.Graph{Types: []*graph.TypeNode{{
		Name: "Widget",
		Functions: []*graph.FunctionMember{{
			Name:    "SetLabel",
			Mangled: "Widget_SetLabel",
			Params: []*graph.Param{
				{Name: "label", Type: graph.TypeRef{Kind: graph.String}, IsReal: true},
			},
		}},
	}}}
	require.NoError(t, g.Resolve())
	src := render(t, g, testConfig(), "Widget")

	assert.Contains(t, src, "func (obj Widget) SetLabel(label string)")
	assert.Contains(t, src, "labelPtr := bindrt.CString(label)")
	assert.Contains(t, src, "uintptr(unsafe.Pointer(labelPtr))")
	assert.Contains(t, src, "runtime.KeepAlive(labelPtr)")
}

func TestRenderOutParameterWriteBack(t *testing.T) {
	g := &graph.Graph{Types: []*graph.TypeNode{{
		Name: "Widget",
		Functions: []*graph.FunctionMember{{
			Name:    "Measure",
			Mangled: "Widget_Measure",
			Params: []*graph.Param{
				{Name: "size", Type: graph.TypeRef{Kind: graph.Int32}, IsReal: true, IsOut: true},
			},
			Return: graph.TypeRef{Kind: graph.Bool},
		}},
	}}}
	require.NoError(t, g.Resolve())
	src := render(t, g, testConfig(), "Widget")

	assert.Contains(t, src, "func (obj Widget) Measure(size *int32) bool")
	assert.Contains(t, src, "var sizeOut uintptr")
	assert.Contains(t, src, "uintptr(unsafe.Pointer(&sizeOut))")
	assert.Contains(t, src, "*size = int32(sizeOut)")
	assert.Contains(t, src, "return bindrt.BoolRet(ret)")
}

func TestRenderByReferenceReturn(t *testing.T) {
	g := &graph.Graph{Types: []*graph.TypeNode{{
		Name: "Widget",
		Functions: []*graph.FunctionMember{{
			Name:    "GetScale",
			Mangled: "Widget_GetScale",
			Return:  graph.TypeRef{Kind: graph.Float32, ByRef: true},
		}},
	}}}
	require.NoError(t, g.Resolve())
	src := render(t, g, testConfig(), "Widget")

	assert.Contains(t, src, "func (obj Widget) GetScale() *float32")
	assert.Contains(t, src, "(*float32)(unsafe.Pointer(widgetSlots.Widget_GetScale.Call(self)))")
}

func TestRenderMarshalingOnlyParamsDropped(t *testing.T) {
	g := &graph.Graph{Types: []*graph.TypeNode{{
		Name: "Widget",
		Functions: []*graph.FunctionMember{{
			Name:    "Poke",
			Mangled: "Widget_Poke",
			Params: []*graph.Param{
				{Name: "__result", Type: graph.TypeRef{Kind: graph.UPtr}},
				{Name: "depth", Type: graph.TypeRef{Kind: graph.Int32}, IsReal: true},
			},
		}},
	}}}
	require.NoError(t, g.Resolve())
	src := render(t, g, testConfig(), "Widget")

	assert.Contains(t, src, "func (obj Widget) Poke(depth int32)")
	assert.NotContains(t, src, "__result")
}

func TestGenerateWritesOneFilePerType(t *testing.T) {
	g := widgetGraph(t)
	cfg := testConfig()
	dir := t.TempDir()

	require.NoError(t, New(g, cfg).Generate(dir))

	base, err := os.ReadFile(filepath.Join(dir, "base.go"))
	require.NoError(t, err)
	assert.Contains(t, string(base), "type Base struct {")

	widget, err := os.ReadFile(filepath.Join(dir, "ui_widget.go"))
	require.NoError(t, err)
	assert.Contains(t, string(widget), "type Widget struct {")
}

func TestSkippedTypeEmitsNothing(t *testing.T) {
	g := widgetGraph(t)
	cfg := testConfig()
	cfg.Skip = []string{"Widget"}

	node, ok := g.Lookup("Widget")
	require.True(t, ok)
	src, err := New(g, cfg).Render(node)
	require.NoError(t, err)
	assert.Empty(t, src)

	dir := t.TempDir()
	require.NoError(t, New(g, cfg).Generate(dir))
	_, err = os.Stat(filepath.Join(dir, "ui_widget.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestSkippedMemberOmitsWrapperAndSlot(t *testing.T) {
	g := widgetGraph(t)
	cfg := testConfig()
	cfg.Skip = []string{"Widget.GetValue"}

	src := render(t, g, cfg, "Widget")
	assert.NotContains(t, src, "GetValue")
	assert.NotContains(t, src, "Widget_GetValue")
	assert.Contains(t, src, "GetCount", "other members survive")
}
