package model

// ModelBuilderOption is a function that modifies the model configuration
// during construction.
type ModelBuilderOption func(*engineModel)

// WithMeshes appends meshes to the model in draw order.
//
// Parameters:
//   - meshes: meshes to append
//
// Returns:
//   - ModelBuilderOption: the option to apply
func WithMeshes(meshes ...*Mesh) ModelBuilderOption {
	return func(m *engineModel) {
		m.meshes = append(m.meshes, meshes...)
	}
}

// WithMaterials appends materials to the model. Mesh material indices refer
// to the final material order.
//
// Parameters:
//   - materials: materials to append
//
// Returns:
//   - ModelBuilderOption: the option to apply
func WithMaterials(materials ...*Material) ModelBuilderOption {
	return func(m *engineModel) {
		m.materials = append(m.materials, materials...)
	}
}
