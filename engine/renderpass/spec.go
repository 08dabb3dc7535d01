// package renderpass implements the declarative render pass specification: a
// data-only tree of passes and draw steps, resolved against the registry and
// the currently iterated mesh at submission time.
package renderpass

import (
	"github.com/Carmen-Shannon/oxyscope/engine/model"
	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/cogentcore/webgpu/wgpu"
)

// Set is an ordered list of passes submitted as one unit. Passes execute
// strictly in list order; a pass that reads another's output texture must be
// listed after it.
type Set struct {
	Passes []Pass
}

// Pass describes one render pass: its color target, an optional depth target,
// and an ordered list of pipeline draw steps. The spec borrows registry
// handles only; nothing is resolved until submission.
type Pass struct {
	// Label is attached to the GPU pass for debugging.
	Label string

	// Target is the color target specification.
	Target TargetSpec

	// Depth is the optional depth target specification.
	Depth *DepthSpec

	// Steps are the pipeline draw steps, executed in order.
	Steps []PipelineDraw
}

// TargetView selects how the target texture's view is obtained.
type TargetView uint8

const (
	// UseExistingView renders into the texture's default view.
	UseExistingView TargetView = iota

	// NewViewSrgb creates a fresh view that reinterprets the texture's format
	// with an sRGB suffix, so linear pipeline output lands gamma-encoded in a
	// texture that is sampled or presented as non-sRGB.
	NewViewSrgb
)

// TargetSpec names a pass's color target by texture handle and load policy.
type TargetSpec struct {
	// Texture is the registry texture rendered into.
	Texture registry.TextureHandle

	// View selects the default view or an sRGB-reinterpreted one.
	View TargetView

	// LoadOp is the color load policy (clear or load).
	LoadOp wgpu.LoadOp

	// ClearColor is the clear value when LoadOp is LoadOpClear.
	ClearColor wgpu.Color
}

// DepthSpec names a pass's depth target by texture handle and load policy.
type DepthSpec struct {
	// Texture is the registry depth texture.
	Texture registry.TextureHandle

	// LoadOp is the depth load policy (clear or load).
	LoadOp wgpu.LoadOp

	// ClearDepth is the clear value when LoadOp is LoadOpClear.
	ClearDepth float32
}

// PipelineDraw binds one pipeline and issues its draw, resolving vertex
// buffer and bind group references in their listed order first.
type PipelineDraw struct {
	// Pipeline is the render pipeline to bind.
	Pipeline *wgpu.RenderPipeline

	// VertexBuffers are the vertex buffer bindings, fixed or late-bound.
	VertexBuffers []VertexBufferRef

	// BindGroups are the bind group bindings, fixed or late-bound.
	BindGroups []BindGroupRef

	// Draw describes what to draw.
	Draw DrawSpec
}

type vertexBufferKind uint8

const (
	vertexBufferFixed vertexBufferKind = iota
	vertexBufferModelMesh
)

// VertexBufferRef binds a vertex buffer at a slot. Built with
// FixedVertexBuffer or MeshVertexBuffer.
type VertexBufferRef struct {
	kind   vertexBufferKind
	slot   uint32
	buffer *wgpu.Buffer
}

// FixedVertexBuffer binds a specific GPU buffer at the slot.
//
// Parameters:
//   - slot: the vertex buffer slot
//   - buffer: the buffer to bind
//
// Returns:
//   - VertexBufferRef: the reference
func FixedVertexBuffer(slot uint32, buffer *wgpu.Buffer) VertexBufferRef {
	return VertexBufferRef{kind: vertexBufferFixed, slot: slot, buffer: buffer}
}

// MeshVertexBuffer binds the currently iterated mesh's vertex buffer at the
// slot. Only valid inside a Model draw.
//
// Parameters:
//   - slot: the vertex buffer slot
//
// Returns:
//   - VertexBufferRef: the late-bound reference
func MeshVertexBuffer(slot uint32) VertexBufferRef {
	return VertexBufferRef{kind: vertexBufferModelMesh, slot: slot}
}

type bindGroupKind uint8

const (
	bindGroupFixed bindGroupKind = iota
	bindGroupModelMaterial
)

// BindGroupRef binds a bind group at a group index. Built with FixedBindGroup
// or MaterialBindGroup.
type BindGroupRef struct {
	kind  bindGroupKind
	slot  uint32
	group registry.BindGroupHandle
}

// FixedBindGroup binds a registry bind group at the group index. The handle
// is resolved at submission, so the binding tracks rebuilds (e.g. after a
// texture resize).
//
// Parameters:
//   - slot: the bind group index
//   - group: the registry bind group
//
// Returns:
//   - BindGroupRef: the reference
func FixedBindGroup(slot uint32, group registry.BindGroupHandle) BindGroupRef {
	return BindGroupRef{kind: bindGroupFixed, slot: slot, group: group}
}

// MaterialBindGroup binds the currently iterated mesh's material bind group
// at the group index. Only valid inside a Model draw.
//
// Parameters:
//   - slot: the bind group index
//
// Returns:
//   - BindGroupRef: the late-bound reference
func MaterialBindGroup(slot uint32) BindGroupRef {
	return BindGroupRef{kind: bindGroupModelMaterial, slot: slot}
}

type drawKind uint8

const (
	drawModel drawKind = iota
	drawSingle
)

// Range is a half-open [First, First+Count) range of vertices or instances.
type Range struct {
	First uint32
	Count uint32
}

// DrawSpec describes a draw: either every mesh of a model (indexed) or a
// single non-indexed draw. Built with ModelDraw or SingleDraw.
type DrawSpec struct {
	kind      drawKind
	model     model.Model
	vertices  Range
	instances Range
}

// ModelDraw draws every mesh of the model in stored order with an indexed
// draw, resolving late-bound references per mesh.
//
// Parameters:
//   - m: the model to draw
//   - instances: the instance range
//
// Returns:
//   - DrawSpec: the draw description
func ModelDraw(m model.Model, instances Range) DrawSpec {
	return DrawSpec{kind: drawModel, model: m, instances: instances}
}

// SingleDraw issues one non-indexed draw with explicit vertex and instance
// ranges. Late-bound references are invalid in a single draw.
//
// Parameters:
//   - vertices: the vertex range
//   - instances: the instance range
//
// Returns:
//   - DrawSpec: the draw description
func SingleDraw(vertices, instances Range) DrawSpec {
	return DrawSpec{kind: drawSingle, vertices: vertices, instances: instances}
}
