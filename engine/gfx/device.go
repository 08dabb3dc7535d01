// package gfx wraps the WebGPU device behind a narrow interface so that the
// registry, bind group resolution, and render pass submission can be exercised
// without a live GPU adapter.
package gfx

import (
	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Releasable is any GPU-side object with an explicit release method.
// All wgpu handle types satisfy it.
type Releasable interface {
	Release()
}

// Device is the graphics device abstraction used by the registry and the
// render pass submission engine. Every GPU allocation, queue write, and
// command encoding in the engine goes through this interface.
type Device interface {
	// CreateShaderModule compiles WGSL source into a shader module.
	//
	// Parameters:
	//   - label: debug label attached to the module
	//   - source: WGSL source text
	//
	// Returns:
	//   - *wgpu.ShaderModule: the compiled module
	//   - error: error if compilation fails
	CreateShaderModule(label, source string) (*wgpu.ShaderModule, error)

	// CreateUniformBuffer creates a uniform buffer and uploads the initial contents.
	// The buffer's size is fixed to len(contents) for its lifetime.
	//
	// Parameters:
	//   - label: debug label attached to the buffer
	//   - contents: initial byte contents, defines the buffer size
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: error if allocation fails
	CreateUniformBuffer(label string, contents []byte) (*wgpu.Buffer, error)

	// CreateVertexBuffer creates a vertex buffer and uploads the initial contents.
	//
	// Parameters:
	//   - label: debug label attached to the buffer
	//   - contents: vertex data bytes
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: error if allocation fails
	CreateVertexBuffer(label string, contents []byte) (*wgpu.Buffer, error)

	// CreateIndexBuffer creates an index buffer and uploads the initial contents.
	//
	// Parameters:
	//   - label: debug label attached to the buffer
	//   - contents: uint32 index data bytes
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: error if allocation fails
	CreateIndexBuffer(label string, contents []byte) (*wgpu.Buffer, error)

	// WriteBuffer writes data into an existing buffer at the given offset.
	//
	// Parameters:
	//   - buffer: destination buffer
	//   - offset: byte offset into the buffer
	//   - data: bytes to write
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte)

	// CreateRenderTexture creates a 2D texture usable as both a render target
	// and a sampled binding.
	//
	// Parameters:
	//   - label: debug label attached to the texture
	//   - size: texture extent in pixels
	//   - format: pixel format
	//
	// Returns:
	//   - *wgpu.Texture: the created texture
	//   - error: error if allocation fails
	CreateRenderTexture(label string, size common.Size2d, format wgpu.TextureFormat) (*wgpu.Texture, error)

	// CreateDepthTexture creates a 2D depth texture usable as a depth attachment.
	//
	// Parameters:
	//   - label: debug label attached to the texture
	//   - size: texture extent in pixels
	//   - format: depth format (e.g. Depth32Float)
	//
	// Returns:
	//   - *wgpu.Texture: the created texture
	//   - error: error if allocation fails
	CreateDepthTexture(label string, size common.Size2d, format wgpu.TextureFormat) (*wgpu.Texture, error)

	// CreatePixelTexture creates a 2D sampled texture and uploads RGBA pixel data.
	//
	// Parameters:
	//   - label: debug label attached to the texture
	//   - staging: pixel data with dimensions
	//   - format: pixel format (4 bytes per pixel)
	//
	// Returns:
	//   - *wgpu.Texture: the created texture
	//   - error: error if allocation or upload fails
	CreatePixelTexture(label string, staging common.TextureStagingData, format wgpu.TextureFormat) (*wgpu.Texture, error)

	// CreateTextureView creates a view over a texture. A nil descriptor creates
	// the default full view; a descriptor with a Format set reinterprets the
	// texture's pixel format (used for sRGB reinterpretation of linear targets).
	//
	// Parameters:
	//   - texture: the texture to view
	//   - descriptor: view configuration, or nil for the default view
	//
	// Returns:
	//   - *wgpu.TextureView: the created view
	//   - error: error if view creation fails
	CreateTextureView(texture *wgpu.Texture, descriptor *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error)

	// CreateSampler creates a sampler from staging data. Zero-valued staging
	// fields fall back to linear filtering with repeat addressing.
	//
	// Parameters:
	//   - label: debug label attached to the sampler
	//   - staging: sampler configuration
	//
	// Returns:
	//   - *wgpu.Sampler: the created sampler
	//   - error: error if creation fails
	CreateSampler(label string, staging common.SamplerStagingData) (*wgpu.Sampler, error)

	// CreateBindGroupLayout creates a bind group layout from a descriptor.
	//
	// Parameters:
	//   - descriptor: the layout descriptor
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the created layout
	//   - error: error if creation fails
	CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)

	// CreateBindGroup creates a bind group from a descriptor.
	//
	// Parameters:
	//   - descriptor: the bind group descriptor
	//
	// Returns:
	//   - *wgpu.BindGroup: the created bind group
	//   - error: error if creation fails
	CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)

	// CreatePipelineLayout creates a pipeline layout over ordered bind group layouts.
	//
	// Parameters:
	//   - label: debug label attached to the layout
	//   - layouts: bind group layouts in group-index order (0..N)
	//
	// Returns:
	//   - *wgpu.PipelineLayout: the created layout
	//   - error: error if creation fails
	CreatePipelineLayout(label string, layouts []*wgpu.BindGroupLayout) (*wgpu.PipelineLayout, error)

	// CreateRenderPipeline creates a render pipeline from a descriptor.
	//
	// Parameters:
	//   - descriptor: the pipeline descriptor
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the created pipeline
	//   - error: error if creation fails
	CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error)

	// CreateCommandEncoder creates a command encoder for one frame's work.
	//
	// Returns:
	//   - CommandEncoder: the encoder
	//   - error: error if creation fails
	CreateCommandEncoder() (CommandEncoder, error)

	// Submit submits finished command buffers to the device queue in order.
	//
	// Parameters:
	//   - buffers: command buffers to submit
	Submit(buffers ...*wgpu.CommandBuffer)

	// Release releases GPU-side objects that are no longer referenced.
	// Nil entries are skipped.
	//
	// Parameters:
	//   - resources: objects to release
	Release(resources ...Releasable)
}

// CommandEncoder records render passes into a command buffer.
type CommandEncoder interface {
	// BeginRenderPass opens a render pass against the descriptor's attachments.
	// Passes must be ended before the encoder is finished.
	//
	// Parameters:
	//   - descriptor: color/depth attachment configuration
	//
	// Returns:
	//   - RenderPassEncoder: the open pass
	BeginRenderPass(descriptor *wgpu.RenderPassDescriptor) RenderPassEncoder

	// Finish closes the encoder and produces a submittable command buffer.
	//
	// Returns:
	//   - *wgpu.CommandBuffer: the recorded commands
	//   - error: error if encoding failed
	Finish() (*wgpu.CommandBuffer, error)

	// Release releases the encoder once its command buffer has been submitted.
	Release()
}

// RenderPassEncoder records draw commands into an open render pass.
type RenderPassEncoder interface {
	// SetPipeline binds a render pipeline for subsequent draws.
	SetPipeline(pipeline *wgpu.RenderPipeline)

	// SetBindGroup binds a bind group at the given group index.
	SetBindGroup(index uint32, group *wgpu.BindGroup)

	// SetVertexBuffer binds a whole vertex buffer at the given slot.
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer)

	// SetIndexBuffer binds a whole uint32 index buffer.
	SetIndexBuffer(buffer *wgpu.Buffer)

	// DrawIndexed issues an indexed draw.
	//
	// Parameters:
	//   - indexCount: number of indices to draw
	//   - instanceCount: number of instances
	//   - firstInstance: first instance index
	DrawIndexed(indexCount, instanceCount, firstInstance uint32)

	// Draw issues a non-indexed draw.
	//
	// Parameters:
	//   - vertexCount: number of vertices to draw
	//   - instanceCount: number of instances
	//   - firstVertex: first vertex index
	//   - firstInstance: first instance index
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)

	// End closes the render pass.
	End()
}
