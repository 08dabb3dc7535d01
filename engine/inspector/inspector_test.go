package inspector

import (
	"testing"

	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/Carmen-Shannon/oxyscope/engine/gfx/gfxtest"
	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/Carmen-Shannon/oxyscope/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (Inspector, registry.Registry, *gfxtest.Device, Binder) {
	t.Helper()
	device := &gfxtest.Device{}
	binder := NewBinder()
	reg := registry.NewRegistry(device, registry.WithTextureBinder(binder))
	return NewInspector(reg), reg, device, binder
}

func TestBinderIssuesStableIds(t *testing.T) {
	b := NewBinder()

	first := new(wgpu.TextureView)
	second := new(wgpu.TextureView)
	id1 := b.BindTexture(first)
	id2 := b.BindTexture(second)
	assert.NotZero(t, id1)
	assert.NotEqual(t, id1, id2)

	got, ok := b.View(id1)
	require.True(t, ok)
	assert.Same(t, first, got)

	replacement := new(wgpu.TextureView)
	b.RebindTexture(id1, replacement)
	got, _ = b.View(id1)
	assert.Same(t, replacement, got)

	_, ok = b.View(999)
	assert.False(t, ok)
}

func TestBinderIgnoresUnknownRebind(t *testing.T) {
	b := NewBinder()
	b.RebindTexture(42, new(wgpu.TextureView))
	_, ok := b.View(42)
	assert.False(t, ok)
}

func TestTextureListingCarriesBinderIds(t *testing.T) {
	ins, reg, _, binder := setup(t)

	handle, err := reg.RegisterRenderTexture("viewport", common.NewSize2d(800, 600), wgpu.TextureFormatRGBA8Unorm)
	require.NoError(t, err)

	rows := ins.Textures()
	require.Len(t, rows, 1)
	assert.Equal(t, handle, rows[0].Handle)
	assert.Equal(t, "viewport", rows[0].Name)
	assert.Equal(t, common.NewSize2d(800, 600), rows[0].Size)

	tex, _ := reg.GetTexture(handle)
	view, ok := binder.View(rows[0].BinderID)
	require.True(t, ok)
	assert.Same(t, tex.View(), view)
}

func TestBinderIdSurvivesResize(t *testing.T) {
	ins, reg, _, binder := setup(t)

	handle, err := reg.RegisterRenderTexture("viewport", common.NewSize2d(800, 600), wgpu.TextureFormatRGBA8Unorm)
	require.NoError(t, err)
	id := ins.Textures()[0].BinderID

	require.NoError(t, ins.ResizeTexture(handle, common.NewSize2d(1920, 1080)))

	tex, _ := reg.GetTexture(handle)
	view, ok := binder.View(id)
	require.True(t, ok)
	assert.Same(t, tex.View(), view, "id points at the post-resize view")
	assert.Equal(t, common.NewSize2d(1920, 1080), ins.Textures()[0].Size)
}

func TestSetUniformField(t *testing.T) {
	ins, reg, device, _ := setup(t)

	handle, err := reg.RegisterUniform("material", uniform.Data{Fields: []uniform.Field{
		uniform.NewRgb("base_color", [3]float32{1, 0, 0}),
		uniform.NewVec2("uv_scale", [2]float32{1, 1}),
	}})
	require.NoError(t, err)

	require.NoError(t, ins.SetUniformField(handle, "base_color", []float32{0, 1, 0}))

	uni, _ := reg.GetUniform(handle)
	fields := uni.Data().Fields
	assert.Equal(t, float32(1), fields[0].Values[1])
	assert.Equal(t, uniform.Rgb, fields[0].Kind, "kind is preserved")
	assert.Equal(t, float32(1), fields[1].Values[0], "other fields untouched")

	written := device.BufferContents[uni.Buffer()]
	assert.Len(t, written, uni.Size(), "GPU buffer rewritten at the fixed length")
}

func TestSetUniformFieldUnknownField(t *testing.T) {
	ins, reg, _, _ := setup(t)

	handle, err := reg.RegisterUniform("material", uniform.Data{Fields: []uniform.Field{
		uniform.NewRgb("base_color", [3]float32{1, 0, 0}),
	}})
	require.NoError(t, err)

	err = ins.SetUniformField(handle, "missing", []float32{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no field named "missing"`)
}

func TestSetUniformFieldWrongLaneCount(t *testing.T) {
	ins, reg, _, _ := setup(t)

	handle, err := reg.RegisterUniform("material", uniform.Data{Fields: []uniform.Field{
		uniform.NewRgb("base_color", [3]float32{1, 0, 0}),
	}})
	require.NoError(t, err)

	err = ins.SetUniformField(handle, "base_color", []float32{1, 2, 3, 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "takes 3 values, got 4")

	// The stored data is untouched after a rejected edit.
	uni, _ := reg.GetUniform(handle)
	assert.Equal(t, float32(1), uni.Data().Fields[0].Values[0])
}

func TestSetUniformFieldDanglingHandle(t *testing.T) {
	ins, _, _, _ := setup(t)

	err := ins.SetUniformField(registry.UniformHandle{}, "any", []float32{1})
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestListingsFollowRegistrationOrder(t *testing.T) {
	ins, reg, _, _ := setup(t)

	for _, label := range []string{"first", "second", "third"} {
		_, err := reg.RegisterUniform(label, uniform.Data{Fields: []uniform.Field{
			uniform.NewVec2(label, [2]float32{}),
		}})
		require.NoError(t, err)
	}

	rows := ins.Uniforms()
	require.Len(t, rows, 3)
	assert.Equal(t, "first", rows[0].Label)
	assert.Equal(t, "second", rows[1].Label)
	assert.Equal(t, "third", rows[2].Label)
}
