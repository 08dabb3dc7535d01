package registry

import (
	"testing"

	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/Carmen-Shannon/oxyscope/engine/gfx/gfxtest"
	"github.com/Carmen-Shannon/oxyscope/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBinder captures bind/rebind traffic for assertions.
type recordingBinder struct {
	next    uint64
	views   map[uint64]*wgpu.TextureView
	rebinds []uint64
}

func newRecordingBinder() *recordingBinder {
	return &recordingBinder{next: 1, views: map[uint64]*wgpu.TextureView{}}
}

func (b *recordingBinder) BindTexture(view *wgpu.TextureView) uint64 {
	id := b.next
	b.next++
	b.views[id] = view
	return id
}

func (b *recordingBinder) RebindTexture(id uint64, view *wgpu.TextureView) {
	b.rebinds = append(b.rebinds, id)
	b.views[id] = view
}

func TestNewRegistryRequiresDevice(t *testing.T) {
	assert.Panics(t, func() { NewRegistry(nil) })
}

func TestRegisterShader(t *testing.T) {
	device := &gfxtest.Device{}
	reg := NewRegistry(device)

	h, err := reg.RegisterShader("tonemap", "@fragment fn main() {}")
	require.NoError(t, err)

	shader, ok := reg.GetShader(h)
	require.True(t, ok)
	assert.Equal(t, "tonemap", shader.Label())
	assert.Equal(t, "@fragment fn main() {}", shader.Source())
	require.NotNil(t, shader.Module())
	assert.Equal(t, "@fragment fn main() {}", device.ShaderSources[shader.Module()])
}

func TestRegisterShaderCompileFailureIsFatal(t *testing.T) {
	device := &gfxtest.Device{FailShaderCompile: true}
	reg := NewRegistry(device)

	_, err := reg.RegisterShader("broken", "not wgsl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Zero(t, reg.Device().(*gfxtest.Device).Submitted)
}

func TestRegisterRenderTextureClampsDegenerateSize(t *testing.T) {
	device := &gfxtest.Device{}
	reg := NewRegistry(device)

	h, err := reg.RegisterRenderTexture("viewport", common.Size2d{Width: 0, Height: 0}, wgpu.TextureFormatRGBA8Unorm)
	require.NoError(t, err)

	tex, ok := reg.GetTexture(h)
	require.True(t, ok)
	assert.Equal(t, common.Size2d{Width: 1, Height: 1}, tex.Size())
}

func TestRegisterRenderTextureBindsExternally(t *testing.T) {
	device := &gfxtest.Device{}
	binder := newRecordingBinder()
	reg := NewRegistry(device, WithTextureBinder(binder))

	h, err := reg.RegisterRenderTexture("hdr", common.NewSize2d(640, 480), wgpu.TextureFormatRGBA16Float)
	require.NoError(t, err)

	tex, ok := reg.GetTexture(h)
	require.True(t, ok)
	assert.Equal(t, uint64(1), tex.BinderID())
	assert.Same(t, tex.View(), binder.views[1])
}

func TestResizeTextureReplacesGPUObjectsInPlace(t *testing.T) {
	device := &gfxtest.Device{}
	binder := newRecordingBinder()
	reg := NewRegistry(device, WithTextureBinder(binder))

	h, err := reg.RegisterRenderTexture("viewport", common.NewSize2d(100, 100), wgpu.TextureFormatRGBA8Unorm)
	require.NoError(t, err)
	before, _ := reg.GetTexture(h)
	oldTexture, oldView, oldSampler := before.GPUTexture(), before.View(), before.Sampler()

	require.NoError(t, reg.ResizeTexture(h, common.NewSize2d(300, 200)))

	after, ok := reg.GetTexture(h)
	require.True(t, ok, "resize must preserve the handle")
	assert.Equal(t, common.Size2d{Width: 300, Height: 200}, after.Size())
	assert.NotSame(t, oldTexture, after.GPUTexture())
	assert.NotSame(t, oldView, after.View())
	assert.Same(t, oldSampler, after.Sampler(), "samplers survive resizes")

	// Same external id, repointed at the new view.
	assert.Equal(t, []uint64{after.BinderID()}, binder.rebinds)
	assert.Same(t, after.View(), binder.views[after.BinderID()])

	// The replaced GPU objects were released.
	released := func(target any) bool {
		for _, r := range device.Released {
			if any(r) == target {
				return true
			}
		}
		return false
	}
	assert.True(t, released(oldTexture))
	assert.True(t, released(oldView))
}

func TestResizeTextureClampsDegenerateSize(t *testing.T) {
	device := &gfxtest.Device{}
	reg := NewRegistry(device)

	h, err := reg.RegisterRenderTexture("viewport", common.NewSize2d(100, 100), wgpu.TextureFormatRGBA8Unorm)
	require.NoError(t, err)

	require.NoError(t, reg.ResizeTexture(h, common.Size2d{Width: 0, Height: 5}))

	tex, _ := reg.GetTexture(h)
	assert.Equal(t, common.Size2d{Width: 1, Height: 5}, tex.Size())
}

func TestResizeTextureStaleHandle(t *testing.T) {
	device := &gfxtest.Device{}
	reg := NewRegistry(device)

	err := reg.ResizeTexture(TextureHandle{}, common.NewSize2d(10, 10))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResizeTextureRebuildsDependentBindGroups(t *testing.T) {
	device := &gfxtest.Device{}
	reg := NewRegistry(device)

	hdr, err := reg.RegisterRenderTexture("hdr", common.NewSize2d(640, 480), wgpu.TextureFormatRGBA16Float)
	require.NoError(t, err)
	other, err := reg.RegisterRenderTexture("shadow", common.NewSize2d(512, 512), wgpu.TextureFormatRGBA8Unorm)
	require.NoError(t, err)

	dependent, err := reg.RegisterBindGroup("tonemap", []BindGroupEntry{
		{Binding: 0, Resource: TextureResource(hdr, wgpu.TextureViewDimension2D)},
		{Binding: 1, Resource: SamplerResource(hdr, wgpu.SamplerBindingTypeFiltering)},
	})
	require.NoError(t, err)
	independent, err := reg.RegisterBindGroup("shadow", []BindGroupEntry{
		{Binding: 0, Resource: TextureResource(other, wgpu.TextureViewDimension2D)},
	})
	require.NoError(t, err)

	depBefore, _ := reg.GetBindGroup(dependent)
	indBefore, _ := reg.GetBindGroup(independent)
	depGroup, depLayout := depBefore.Group(), depBefore.Layout()
	indGroup := indBefore.Group()

	require.NoError(t, reg.ResizeTexture(hdr, common.NewSize2d(1280, 720)))

	depAfter, _ := reg.GetBindGroup(dependent)
	assert.NotSame(t, depGroup, depAfter.Group(), "dependent group must be rebuilt")
	assert.NotSame(t, depLayout, depAfter.Layout(), "layout and group rebuild together")

	indAfter, _ := reg.GetBindGroup(independent)
	assert.Same(t, indGroup, indAfter.Group(), "unrelated groups stay untouched")

	// The rebuilt group binds the texture's new view.
	tex, _ := reg.GetTexture(hdr)
	desc := device.GroupDescriptors[depAfter.Group()]
	require.Len(t, desc.Entries, 2)
	assert.Same(t, tex.View(), desc.Entries[0].TextureView)
	assert.Same(t, tex.Sampler(), desc.Entries[1].Sampler)
}

func TestResizeTextureReleasesOldObjectsWhenRebuildFails(t *testing.T) {
	device := &gfxtest.Device{}
	reg := NewRegistry(device)

	hdr, err := reg.RegisterRenderTexture("hdr", common.NewSize2d(640, 480), wgpu.TextureFormatRGBA16Float)
	require.NoError(t, err)
	_, err = reg.RegisterBindGroup("tonemap", []BindGroupEntry{
		{Binding: 0, Resource: TextureResource(hdr, wgpu.TextureViewDimension2D)},
	})
	require.NoError(t, err)

	before, _ := reg.GetTexture(hdr)
	oldTexture, oldView := before.GPUTexture(), before.View()

	device.FailBindGroupCreate = true
	require.Error(t, reg.ResizeTexture(hdr, common.NewSize2d(1280, 720)))

	// The entry was already repointed at the new texture, so the replaced
	// objects must be released even though the rebuild failed.
	released := func(target any) bool {
		for _, r := range device.Released {
			if any(r) == target {
				return true
			}
		}
		return false
	}
	assert.True(t, released(oldTexture))
	assert.True(t, released(oldView))

	after, _ := reg.GetTexture(hdr)
	assert.NotSame(t, oldTexture, after.GPUTexture())
}

func TestRegisterUniformFixesBufferLength(t *testing.T) {
	device := &gfxtest.Device{}
	reg := NewRegistry(device)

	data := uniform.Data{Fields: []uniform.Field{
		uniform.NewVec2("uv", [2]float32{1, 2}),
		uniform.NewVec4("tint", [4]float32{3, 4, 5, 6}),
	}}

	h, err := reg.RegisterUniform("material", data)
	require.NoError(t, err)

	u, ok := reg.GetUniform(h)
	require.True(t, ok)
	assert.Equal(t, "material", u.Label())
	assert.Equal(t, 32, u.Size())
	assert.Equal(t, data.Bytes(), device.BufferContents[u.Buffer()])
}

func TestUpdateUniformRoundTrip(t *testing.T) {
	device := &gfxtest.Device{}
	reg := NewRegistry(device)

	h, err := reg.RegisterUniform("material", uniform.Data{Fields: []uniform.Field{
		uniform.NewRgb("color", [3]float32{1, 0, 0}),
	}})
	require.NoError(t, err)

	updated := uniform.Data{Fields: []uniform.Field{
		uniform.NewRgb("color", [3]float32{0, 0.5, 1}),
	}}
	require.NoError(t, reg.UpdateUniform(h, updated))

	u, _ := reg.GetUniform(h)
	assert.Equal(t, updated.Fields, u.Data().Fields)
	assert.Equal(t, updated.Bytes(), device.BufferContents[u.Buffer()])
}

func TestUpdateUniformRejectsLengthMismatch(t *testing.T) {
	device := &gfxtest.Device{}
	reg := NewRegistry(device)

	original := uniform.Data{Fields: []uniform.Field{
		uniform.NewVec2("uv", [2]float32{1, 2}),
	}}
	h, err := reg.RegisterUniform("material", original)
	require.NoError(t, err)
	writesBefore := len(device.Calls)

	err = reg.UpdateUniform(h, uniform.Data{Fields: []uniform.Field{
		uniform.NewMat4("m", [16]float32{}),
	}})
	assert.ErrorIs(t, err, ErrUniformSizeMismatch)

	// Neither the logical data nor the GPU buffer changed.
	u, _ := reg.GetUniform(h)
	assert.Equal(t, original.Fields, u.Data().Fields)
	assert.Equal(t, writesBefore, len(device.Calls), "no GPU write on rejected update")
}

func TestUpdateUniformStaleHandle(t *testing.T) {
	device := &gfxtest.Device{}
	reg := NewRegistry(device)

	err := reg.UpdateUniform(UniformHandle{}, uniform.Data{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUniformsIsStable(t *testing.T) {
	device := &gfxtest.Device{}
	reg := NewRegistry(device)

	var want []string
	for _, label := range []string{"camera", "light", "material"} {
		_, err := reg.RegisterUniform(label, uniform.Data{})
		require.NoError(t, err)
		want = append(want, label)
	}

	for range 3 {
		var got []string
		for _, u := range reg.ListUniforms() {
			got = append(got, u.Label())
		}
		assert.Equal(t, want, got)
	}
}
