package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxyscope/engine/gfx/gfxtest"
	"github.com/Carmen-Shannon/oxyscope/engine/model"
	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/Carmen-Shannon/oxyscope/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testShader = `
@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }
@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }
`

func setup(t *testing.T) (*gfxtest.Device, registry.Registry, registry.ShaderHandle) {
	t.Helper()
	device := &gfxtest.Device{}
	reg := registry.NewRegistry(device)
	shader, err := reg.RegisterShader("test", testShader)
	require.NoError(t, err)
	return device, reg, shader
}

func uniformGroup(t *testing.T, reg registry.Registry, label string) registry.BindGroupHandle {
	t.Helper()
	uni, err := reg.RegisterUniform(label, uniform.Data{Fields: []uniform.Field{
		uniform.NewVec4(label, [4]float32{}),
	}})
	require.NoError(t, err)
	group, err := reg.RegisterBindGroup(label, []registry.BindGroupEntry{
		{Binding: 0, Resource: registry.UniformResource(uni)},
	})
	require.NoError(t, err)
	return group
}

func callCount(device *gfxtest.Device, name string) int {
	n := 0
	for _, call := range device.Calls {
		if call == name {
			n++
		}
	}
	return n
}

func TestBuildAssemblesDescriptor(t *testing.T) {
	device, reg, shader := setup(t)
	camera := uniformGroup(t, reg, "camera")
	material := uniformGroup(t, reg, "material")

	p, err := Build(reg, "scene",
		WithShader(shader),
		WithBindGroup(0, camera),
		WithBindGroup(1, material),
		WithVertexLayouts(model.VertexBufferLayout()),
		WithColorFormats(wgpu.TextureFormatRGBA16Float),
	)
	require.NoError(t, err)
	require.NotNil(t, p.GPUPipeline())

	desc := device.PipelineDescriptors[p.GPUPipeline()]
	assert.Equal(t, "scene", desc.Label)
	assert.Equal(t, "vs_main", desc.Vertex.EntryPoint)
	assert.Equal(t, "fs_main", desc.Fragment.EntryPoint)
	require.Len(t, desc.Vertex.Buffers, 1)
	assert.Equal(t, uint64(32), desc.Vertex.Buffers[0].ArrayStride)
	require.Len(t, desc.Fragment.Targets, 1)
	assert.Equal(t, wgpu.TextureFormatRGBA16Float, desc.Fragment.Targets[0].Format)
	assert.Nil(t, desc.Fragment.Targets[0].Blend, "blending defaults off")
	assert.Nil(t, desc.DepthStencil, "depth defaults off")
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, desc.Primitive.Topology)
	assert.Equal(t, wgpu.CullModeNone, desc.Primitive.CullMode)
	assert.Equal(t, uint32(1), desc.Multisample.Count)

	cameraGroup, _ := reg.GetBindGroup(camera)
	materialGroup, _ := reg.GetBindGroup(material)
	assert.Equal(t, []*wgpu.BindGroupLayout{cameraGroup.Layout(), materialGroup.Layout()},
		device.PipelineLayouts[desc.Layout])
}

func TestBuildRejectsSparseBindGroupIndices(t *testing.T) {
	device, reg, shader := setup(t)
	camera := uniformGroup(t, reg, "camera")
	material := uniformGroup(t, reg, "material")

	before := callCount(device, "CreatePipelineLayout")
	_, err := Build(reg, "scene",
		WithShader(shader),
		WithBindGroup(0, camera),
		WithBindGroup(2, material),
		WithColorFormats(wgpu.TextureFormatRGBA16Float),
	)
	assert.ErrorIs(t, err, ErrNonContiguousBindGroups)
	assert.Equal(t, before, callCount(device, "CreatePipelineLayout"), "nothing created on validation failure")
}

func TestBuildRejectsMissingIndexZero(t *testing.T) {
	_, reg, shader := setup(t)
	camera := uniformGroup(t, reg, "camera")

	_, err := Build(reg, "scene",
		WithShader(shader),
		WithBindGroup(1, camera),
		WithColorFormats(wgpu.TextureFormatRGBA16Float),
	)
	assert.ErrorIs(t, err, ErrNonContiguousBindGroups)
}

func TestBuildDanglingShader(t *testing.T) {
	_, reg, _ := setup(t)

	_, err := Build(reg, "scene",
		WithShader(registry.ShaderHandle{}),
		WithColorFormats(wgpu.TextureFormatRGBA16Float),
	)
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestBuildDanglingBindGroup(t *testing.T) {
	_, reg, shader := setup(t)

	_, err := Build(reg, "scene",
		WithShader(shader),
		WithBindGroup(0, registry.BindGroupHandle{}),
		WithColorFormats(wgpu.TextureFormatRGBA16Float),
	)
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestBuildDepthState(t *testing.T) {
	device, reg, shader := setup(t)

	p, err := Build(reg, "scene",
		WithShader(shader),
		WithColorFormats(wgpu.TextureFormatRGBA16Float),
		WithDepthFormat(wgpu.TextureFormatDepth32Float),
	)
	require.NoError(t, err)

	desc := device.PipelineDescriptors[p.GPUPipeline()]
	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, desc.DepthStencil.Format)
	assert.True(t, desc.DepthStencil.DepthWriteEnabled)
	assert.Equal(t, wgpu.CompareFunctionLess, desc.DepthStencil.DepthCompare)
	assert.Equal(t, wgpu.CompareFunctionAlways, desc.DepthStencil.StencilFront.Compare)
	assert.Equal(t, wgpu.CompareFunctionAlways, desc.DepthStencil.StencilBack.Compare)
}

func TestBuildBlendAndEntryPointOverrides(t *testing.T) {
	device, reg, shader := setup(t)

	p, err := Build(reg, "tonemap",
		WithShader(shader),
		WithEntryPoints("fullscreen_vs", "tonemap_fs"),
		WithColorFormats(wgpu.TextureFormatRGBA8Unorm),
		WithBlendEnabled(true),
		WithCullMode(wgpu.CullModeBack),
	)
	require.NoError(t, err)

	desc := device.PipelineDescriptors[p.GPUPipeline()]
	assert.Equal(t, "fullscreen_vs", desc.Vertex.EntryPoint)
	assert.Equal(t, "tonemap_fs", desc.Fragment.EntryPoint)
	require.NotNil(t, desc.Fragment.Targets[0].Blend)
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, desc.Fragment.Targets[0].Blend.Color.SrcFactor)
	assert.Equal(t, wgpu.CullModeBack, desc.Primitive.CullMode)
}

func TestBindGroupLookup(t *testing.T) {
	_, reg, shader := setup(t)
	camera := uniformGroup(t, reg, "camera")

	p, err := Build(reg, "scene",
		WithShader(shader),
		WithBindGroup(0, camera),
		WithColorFormats(wgpu.TextureFormatRGBA16Float),
	)
	require.NoError(t, err)

	got, ok := p.BindGroup(0)
	require.True(t, ok)
	assert.Equal(t, camera, got)

	_, ok = p.BindGroup(1)
	assert.False(t, ok)
}
