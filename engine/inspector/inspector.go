package inspector

import (
	"fmt"

	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/Carmen-Shannon/oxyscope/engine/uniform"
)

// ShaderRow is one shader as listed by the inspector.
type ShaderRow struct {
	Handle registry.ShaderHandle
	Label  string
	Source string
}

// TextureRow is one texture as listed by the inspector. BinderID is the
// stable id a UI uses to display the texture's contents.
type TextureRow struct {
	Handle   registry.TextureHandle
	Name     string
	Size     common.Size2d
	BinderID uint64
}

// UniformRow is one uniform block as listed by the inspector, with its
// current field values.
type UniformRow struct {
	Handle registry.UniformHandle
	Label  string
	Fields []uniform.Field
}

// BindGroupRow is one bind group as listed by the inspector.
type BindGroupRow struct {
	Handle  registry.BindGroupHandle
	Label   string
	Entries []registry.BindGroupEntry
}

// inspector is the implementation of the Inspector interface.
type inspector struct {
	registry registry.Registry
}

// Inspector is the read/edit surface over a registry. Listings are snapshots
// in registration order; edits go through the registry so GPU state and
// dependent bind groups stay consistent.
type Inspector interface {
	// Shaders lists every registered shader in registration order.
	//
	// Returns:
	//   - []ShaderRow: the shader listing
	Shaders() []ShaderRow

	// Textures lists every registered texture in registration order.
	//
	// Returns:
	//   - []TextureRow: the texture listing
	Textures() []TextureRow

	// Uniforms lists every registered uniform in registration order.
	//
	// Returns:
	//   - []UniformRow: the uniform listing
	Uniforms() []UniformRow

	// BindGroups lists every registered bind group in registration order.
	//
	// Returns:
	//   - []BindGroupRow: the bind group listing
	BindGroups() []BindGroupRow

	// SetUniformField replaces one field's values and writes the uniform to
	// the GPU. The field keeps its kind; values must carry exactly the kind's
	// lane count.
	//
	// Parameters:
	//   - handle: the uniform to edit
	//   - name: the field to replace
	//   - values: the new values, one per lane
	//
	// Returns:
	//   - error: error if the uniform or field is unknown, or the value count
	//     does not match the field's kind
	SetUniformField(handle registry.UniformHandle, name string, values []float32) error

	// ResizeTexture resizes a registry texture, rebuilding every bind group
	// that references it.
	//
	// Parameters:
	//   - handle: the texture to resize
	//   - size: the new size in pixels
	//
	// Returns:
	//   - error: error if the texture is unknown or the rebuild fails
	ResizeTexture(handle registry.TextureHandle, size common.Size2d) error
}

var _ Inspector = &inspector{}

// NewInspector creates an Inspector over the given registry.
//
// Parameters:
//   - reg: the registry to inspect and edit
//
// Returns:
//   - Inspector: the inspector
func NewInspector(reg registry.Registry) Inspector {
	if reg == nil {
		panic("inspector: a registry is required")
	}
	return &inspector{registry: reg}
}

func (i *inspector) Shaders() []ShaderRow {
	var rows []ShaderRow
	for handle, shader := range i.registry.ListShaders() {
		rows = append(rows, ShaderRow{
			Handle: handle,
			Label:  shader.Label(),
			Source: shader.Source(),
		})
	}
	return rows
}

func (i *inspector) Textures() []TextureRow {
	var rows []TextureRow
	for handle, texture := range i.registry.ListTextures() {
		rows = append(rows, TextureRow{
			Handle:   handle,
			Name:     texture.Name(),
			Size:     texture.Size(),
			BinderID: texture.BinderID(),
		})
	}
	return rows
}

func (i *inspector) Uniforms() []UniformRow {
	var rows []UniformRow
	for handle, uni := range i.registry.ListUniforms() {
		fields := append([]uniform.Field(nil), uni.Data().Fields...)
		rows = append(rows, UniformRow{
			Handle: handle,
			Label:  uni.Label(),
			Fields: fields,
		})
	}
	return rows
}

func (i *inspector) BindGroups() []BindGroupRow {
	var rows []BindGroupRow
	for handle, group := range i.registry.ListBindGroups() {
		rows = append(rows, BindGroupRow{
			Handle:  handle,
			Label:   group.Label(),
			Entries: append([]registry.BindGroupEntry(nil), group.Entries()...),
		})
	}
	return rows
}

func (i *inspector) SetUniformField(handle registry.UniformHandle, name string, values []float32) error {
	uni, ok := i.registry.GetUniform(handle)
	if !ok {
		return fmt.Errorf("edit uniform: %w", registry.ErrNotFound)
	}

	fields := append([]uniform.Field(nil), uni.Data().Fields...)
	index := -1
	for f := range fields {
		if fields[f].Name == name {
			index = f
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("edit uniform %q: no field named %q", uni.Label(), name)
	}

	lanes := fields[index].Kind.Lanes()
	if len(values) != lanes {
		return fmt.Errorf("edit uniform %q: field %q takes %d values, got %d",
			uni.Label(), name, lanes, len(values))
	}

	var packed [16]float32
	copy(packed[:], values)
	fields[index].Values = packed

	return i.registry.UpdateUniform(handle, uniform.Data{Fields: fields})
}

func (i *inspector) ResizeTexture(handle registry.TextureHandle, size common.Size2d) error {
	return i.registry.ResizeTexture(handle, size)
}
