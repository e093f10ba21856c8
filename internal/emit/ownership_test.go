package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobind/internal/graph"
)

func textureGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := &graph.Graph{Types: []*graph.TypeNode{
		{
			Name:            "Texture",
			SharedOwnership: true,
			Functions: []*graph.FunctionMember{
				{Name: "Dispose", Mangled: "Texture_Dispose"},
				{
					Name:             "Consume",
					Mangled:          "Texture_Consume",
					ReleasesReceiver: true,
				},
				{
					Name:    "GetWidth",
					Mangled: "Texture_GetWidth",
					Return:  graph.TypeRef{Kind: graph.Float32},
				},
			},
		},
		{
			Name:           "Device",
			IsAccessorOnly: true,
			Functions: []*graph.FunctionMember{
				{
					Name:         "CreateTexture",
					Mangled:      "Device_CreateTexture",
					Return:       graph.TypeRef{Kind: graph.Object, Name: "Texture", Owned: true},
					NoTransition: true,
				},
			},
		},
	}}
	require.NoError(t, g.Resolve())
	return g
}

func TestRenderOwnedWrapperLifecycle(t *testing.T) {
	src := render(t, textureGraph(t), testConfig(), "Texture")

	assert.Contains(t, src, "func NewTexture(h bindrt.Handle) *Texture")
	assert.Contains(t, src, "runtime.SetFinalizer(obj, finalizeTexture)")
	assert.Contains(t, src, "func finalizeTexture(obj *Texture)")
	assert.Contains(t, src, `bindrt.EnqueueDispose("Texture", obj.handle, releaseTexture)`)
	assert.Contains(t, src, "func releaseTexture(h bindrt.Handle)")
	assert.Contains(t, src, "textureSlots.Texture_Dispose.Call(uintptr(h))")

	// The wrapper is the sole legitimate holder: no raw conversions, no
	// structural equality.
	assert.NotContains(t, src, "TextureFromHandle")
	assert.NotContains(t, src, "func (obj *Texture) Handle()")
	assert.NotContains(t, src, "func (obj *Texture) Equal(")
}

func TestRenderDisposeIsIdempotent(t *testing.T) {
	src := render(t, textureGraph(t), testConfig(), "Texture")

	assert.Contains(t, src, "func (obj *Texture) Dispose()")
	assert.Contains(t, src, "if obj.handle == bindrt.NullHandle {")
	assert.Contains(t, src, "self := uintptr(obj.handle)")
	assert.Contains(t, src, "obj.handle = bindrt.NullHandle")
	assert.Contains(t, src, "runtime.SetFinalizer(obj, nil)")
	assert.Contains(t, src, "textureSlots.Texture_Dispose.Call(self)")

	assert.Contains(t, src, "func (obj *Texture) Close() error")
	assert.Contains(t, src, "obj.Dispose()")
}

func TestRenderReleasingCallClearsIdentity(t *testing.T) {
	src := render(t, textureGraph(t), testConfig(), "Texture")

	assert.Contains(t, src, "func (obj *Texture) Consume()")
	assert.Contains(t, src, `self := bindrt.MustHandle(obj.handle, "Texture", "Consume")`)
	assert.Contains(t, src, "defer func() {")
}

func TestRenderFacadeSurface(t *testing.T) {
	src := render(t, textureGraph(t), testConfig(), "Device")

	assert.Contains(t, src, "var Device deviceAPI")
	assert.Contains(t, src, "type deviceAPI struct{}")
	assert.Contains(t, src, "func (deviceAPI) CreateTexture() *Texture")
	assert.NotContains(t, src, "MustHandle", "static calls are guarded by the slot, not a receiver")
	assert.Contains(t, src, "return NewTexture(bindrt.Handle(deviceSlots.Device_CreateTexture.Call()))")
	assert.Contains(t, src, `bindrt.NewSlot("Device", "Device_CreateTexture", bindrt.Fast)`)
}

func TestRenderOpaquePointerOnlyWrapper(t *testing.T) {
	g := &graph.Graph{Types: []*graph.TypeNode{{Name: "WindowHandle", IsPointerOnly: true}}}
	require.NoError(t, g.Resolve())
	src := render(t, g, testConfig(), "WindowHandle")

	assert.Contains(t, src, "type WindowHandle struct {")
	assert.Contains(t, src, "func WindowHandleFromHandle(h bindrt.Handle) WindowHandle")
	assert.Contains(t, src, "func (obj WindowHandle) Handle() bindrt.Handle")

	assert.NotContains(t, src, "IsValid")
	assert.NotContains(t, src, "Equal")
	assert.NotContains(t, src, "MustHandle")
	assert.NotContains(t, src, "init()")
}

func TestRenderInstrumentedCalls(t *testing.T) {
	cfg := testConfig()
	cfg.Instrument = true
	src := render(t, textureGraph(t), cfg, "Texture")

	assert.Contains(t, src, `bindrt.RecordCall("Texture", "GetWidth")`)
	assert.Contains(t, src, `bindrt.RecordCall("Texture", "Dispose")`)

	plain := render(t, textureGraph(t), testConfig(), "Texture")
	assert.NotContains(t, plain, "RecordCall", "instrumentation is off by default")
}

func TestRenderInstrumentedTags(t *testing.T) {
	g := &graph.Graph{Types: []*graph.TypeNode{{
		Name: "Widget",
		Functions: []*graph.FunctionMember{{
			Name:         "Tick",
			Mangled:      "Widget_Tick",
			IsStatic:     true,
			NoTransition: true,
			Tags:         []string{"deprecated"},
		}},
	}}}
	require.NoError(t, g.Resolve())

	cfg := testConfig()
	cfg.Instrument = true
	src := render(t, g, cfg, "Widget")

	assert.Contains(t, src, "func WidgetTick()")
	assert.Contains(t, src, `bindrt.RecordCall("Widget", "Tick", "deprecated", "static", "fast")`)
}
