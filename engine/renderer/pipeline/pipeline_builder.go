package pipeline

import (
	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/cogentcore/webgpu/wgpu"
)

// BuilderOption is a functional option used to configure a pipeline during Build.
type BuilderOption func(*pipeline)

// WithShader sets the WGSL module the pipeline's vertex and fragment stages
// are taken from.
//
// Parameters:
//   - shader: the registry shader to use
//
// Returns:
//   - BuilderOption: a function that sets the shader for this pipeline
func WithShader(shader registry.ShaderHandle) BuilderOption {
	return func(p *pipeline) {
		p.shader = shader
	}
}

// WithEntryPoints overrides the default vs_main/fs_main entry point names.
//
// Parameters:
//   - vertex: the vertex stage entry point
//   - fragment: the fragment stage entry point
//
// Returns:
//   - BuilderOption: a function that sets the entry points for this pipeline
func WithEntryPoints(vertex, fragment string) BuilderOption {
	return func(p *pipeline) {
		p.vertexEntry = vertex
		p.fragmentEntry = fragment
	}
}

// WithBindGroup attaches a registry bind group's layout at the given pipeline
// group index. Indices must end up contiguous from 0 or Build fails.
//
// Parameters:
//   - index: the pipeline group index
//   - group: the registry bind group occupying the index
//
// Returns:
//   - BuilderOption: a function that attaches the bind group for this pipeline
func WithBindGroup(index uint32, group registry.BindGroupHandle) BuilderOption {
	return func(p *pipeline) {
		p.bindGroups[index] = group
	}
}

// WithVertexLayouts sets the vertex buffer layouts consumed by the vertex stage.
//
// Parameters:
//   - layouts: the vertex buffer layouts, in slot order
//
// Returns:
//   - BuilderOption: a function that sets the vertex layouts for this pipeline
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) BuilderOption {
	return func(p *pipeline) {
		p.vertexLayouts = layouts
	}
}

// WithColorFormats sets the color target formats the pipeline renders into.
//
// Parameters:
//   - formats: the color target formats, in attachment order
//
// Returns:
//   - BuilderOption: a function that sets the color formats for this pipeline
func WithColorFormats(formats ...wgpu.TextureFormat) BuilderOption {
	return func(p *pipeline) {
		p.colorFormats = formats
	}
}

// WithDepthFormat enables depth testing against a depth attachment of the
// given format.
//
// Parameters:
//   - format: the depth attachment format (e.g., wgpu.TextureFormatDepth32Float)
//
// Returns:
//   - BuilderOption: a function that enables depth for this pipeline
func WithDepthFormat(format wgpu.TextureFormat) BuilderOption {
	return func(p *pipeline) {
		p.depthFormat = format
		p.depthEnabled = true
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth writing should be enabled
//
// Returns:
//   - BuilderOption: a function that sets the depth write enabled state for this pipeline
func WithDepthWriteEnabled(enabled bool) BuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithDepthBias sets the depth bias parameters for this pipeline.
//
// Parameters:
//   - bias: the constant depth bias to apply
//   - slopeScale: the slope scale depth bias to apply
//
// Returns:
//   - BuilderOption: a function that sets the depth bias parameters for this pipeline
func WithDepthBias(bias int32, slopeScale float32) BuilderOption {
	return func(p *pipeline) {
		p.depthBias = bias
		p.depthBiasSlopeScale = slopeScale
	}
}

// WithBlendEnabled sets whether blending is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether blending should be enabled
//
// Returns:
//   - BuilderOption: a function that sets the blend enabled state for this pipeline
func WithBlendEnabled(enabled bool) BuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithBlendState sets the blend state used when blending is enabled.
//
// Parameters:
//   - blendState: the blend state to use for this pipeline
//
// Returns:
//   - BuilderOption: a function that sets the blend state for this pipeline
func WithBlendState(blendState *wgpu.BlendState) BuilderOption {
	return func(p *pipeline) {
		p.blendState = blendState
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode to use (e.g., wgpu.CullModeNone, wgpu.CullModeBack)
//
// Returns:
//   - BuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode wgpu.CullMode) BuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology to use (e.g., wgpu.PrimitiveTopologyTriangleList)
//
// Returns:
//   - BuilderOption: a function that sets the primitive topology for this pipeline
func WithTopology(topology wgpu.PrimitiveTopology) BuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithFrontFace sets the front face winding order for this pipeline.
//
// Parameters:
//   - frontFace: the front face winding order (e.g., wgpu.FrontFaceCCW)
//
// Returns:
//   - BuilderOption: a function that sets the front face for this pipeline
func WithFrontFace(frontFace wgpu.FrontFace) BuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithWriteMask sets the color write mask for this pipeline.
//
// Parameters:
//   - writeMask: the color write mask (e.g., wgpu.ColorWriteMaskAll)
//
// Returns:
//   - BuilderOption: a function that sets the color write mask for this pipeline
func WithWriteMask(writeMask wgpu.ColorWriteMask) BuilderOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}
