// package model holds the minimal mesh/material containers the render pass
// engine iterates when resolving late-bound draw references.
package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/Carmen-Shannon/oxyscope/engine/gfx"
	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/cogentcore/webgpu/wgpu"
)

// Mesh is one indexed draw unit: a vertex buffer, a uint32 index buffer, and
// the index of the owning model's material it is shaded with.
type Mesh struct {
	// Label is the mesh's display name.
	Label string

	// VertexBuffer holds the mesh's Vertex data.
	VertexBuffer *wgpu.Buffer

	// IndexBuffer holds the mesh's uint32 indices.
	IndexBuffer *wgpu.Buffer

	// IndexCount is the number of indices to draw.
	IndexCount uint32

	// MaterialIndex selects the owning model's material for this mesh.
	MaterialIndex int
}

// Material pairs a display name with the registry bind group that shades
// meshes using it.
type Material struct {
	// Label is the material's display name.
	Label string

	// BindGroup references the material's bind group in the registry.
	BindGroup registry.BindGroupHandle
}

// Model provides an ordered set of meshes and the materials they reference.
// Meshes are drawn in their stored order.
type Model interface {
	// Label returns the model's display name.
	Label() string

	// Meshes returns the model's meshes in draw order.
	Meshes() []*Mesh

	// Materials returns the model's materials.
	Materials() []*Material

	// Material returns the material at the given index.
	//
	// Parameters:
	//   - index: the material index (from Mesh.MaterialIndex)
	//
	// Returns:
	//   - *Material: the material, or nil if out of range
	//   - bool: false if the index is out of range
	Material(index int) (*Material, bool)
}

// engineModel is the implementation of the Model interface.
type engineModel struct {
	label     string
	meshes    []*Mesh
	materials []*Material
}

var _ Model = &engineModel{}

// NewModel creates a Model with the specified options.
// Applies default values first, then each option in order.
// Panics if no meshes are configured, since a model with nothing to draw
// indicates a wiring error.
//
// Parameters:
//   - label: the model's display name
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the configured model
func NewModel(label string, options ...ModelBuilderOption) Model {
	m := &engineModel{
		label: label,
	}
	for _, opt := range options {
		opt(m)
	}
	if len(m.meshes) == 0 {
		panic("model: at least one mesh is required")
	}
	return m
}

func (m *engineModel) Label() string {
	return m.label
}

func (m *engineModel) Meshes() []*Mesh {
	return m.meshes
}

func (m *engineModel) Materials() []*Material {
	return m.materials
}

func (m *engineModel) Material(index int) (*Material, bool) {
	if index < 0 || index >= len(m.materials) {
		return nil, false
	}
	return m.materials[index], true
}

// NewMesh uploads vertex and index data to the device and wraps the buffers
// in a Mesh.
//
// Parameters:
//   - device: the graphics device to allocate against
//   - label: the mesh's display name
//   - vertices: the mesh's vertices
//   - indices: uint32 triangle indices
//   - materialIndex: index into the owning model's materials
//
// Returns:
//   - *Mesh: the uploaded mesh
//   - error: error if buffer allocation fails
func NewMesh(device gfx.Device, label string, vertices []Vertex, indices []uint32, materialIndex int) (*Mesh, error) {
	vertexBuffer, err := device.CreateVertexBuffer(label+" Vertex Buffer", common.SliceToBytes(vertices))
	if err != nil {
		return nil, fmt.Errorf("model: mesh %q: %w", label, err)
	}
	indexBuffer, err := device.CreateIndexBuffer(label+" Index Buffer", common.SliceToBytes(indices))
	if err != nil {
		return nil, fmt.Errorf("model: mesh %q: %w", label, err)
	}

	return &Mesh{
		Label:         label,
		VertexBuffer:  vertexBuffer,
		IndexBuffer:   indexBuffer,
		IndexCount:    uint32(len(indices)),
		MaterialIndex: materialIndex,
	}, nil
}
