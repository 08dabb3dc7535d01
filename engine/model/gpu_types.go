package model

import "github.com/cogentcore/webgpu/wgpu"

// Vertex is the GPU vertex layout shared by all meshes: position, normal, and
// texture coordinates, tightly packed (32 bytes).
type Vertex struct {
	// Position is the vertex position in model space.
	Position [3]float32

	// Normal is the vertex normal in model space.
	Normal [3]float32

	// Uv is the texture coordinate.
	Uv [2]float32
}

// VertexBufferLayout returns the wgpu vertex buffer layout matching Vertex.
//
// Returns:
//   - wgpu.VertexBufferLayout: layout with position, normal, and uv attributes
//     at shader locations 0, 1, and 2
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 8 * 4,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{
				Format:         wgpu.VertexFormatFloat32x3,
				Offset:         0,
				ShaderLocation: 0,
			},
			{
				Format:         wgpu.VertexFormatFloat32x3,
				Offset:         3 * 4,
				ShaderLocation: 1,
			},
			{
				Format:         wgpu.VertexFormatFloat32x2,
				Offset:         6 * 4,
				ShaderLocation: 2,
			},
		},
	}
}
