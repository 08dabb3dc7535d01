package registry

import "github.com/cogentcore/webgpu/wgpu"

// BindGroup is a registry-owned GPU bind group together with the declarative
// entries it was derived from. The layout and bound set are rebuilt together
// by the Registry whenever a referenced resource's GPU object changes identity.
type BindGroup interface {
	// Label returns the bind group's display name.
	Label() string

	// Entries returns the declarative (binding slot, resource) pairs, in the
	// order they were registered.
	Entries() []BindGroupEntry

	// Layout returns the current GPU bind group layout.
	Layout() *wgpu.BindGroupLayout

	// Group returns the current GPU bind group.
	Group() *wgpu.BindGroup
}

type bindGroupEntry struct {
	label   string
	entries []BindGroupEntry
	layout  *wgpu.BindGroupLayout
	group   *wgpu.BindGroup
}

var _ BindGroup = &bindGroupEntry{}

func (b *bindGroupEntry) Label() string {
	return b.label
}

func (b *bindGroupEntry) Entries() []BindGroupEntry {
	return b.entries
}

func (b *bindGroupEntry) Layout() *wgpu.BindGroupLayout {
	return b.layout
}

func (b *bindGroupEntry) Group() *wgpu.BindGroup {
	return b.group
}

// references reports whether any entry binds the given texture, either as a
// sampled view or through its sampler.
func (b *bindGroupEntry) references(handle TextureHandle) bool {
	for _, entry := range b.entries {
		switch entry.Resource.kind {
		case resourceTexture, resourceSampler:
			if entry.Resource.texture == handle {
				return true
			}
		}
	}
	return false
}

// BindGroupEntry pairs a binding slot with a resource reference. Slots within
// one bind group must be unique.
type BindGroupEntry struct {
	// Binding is the slot index matching the shader's @binding attribute.
	Binding uint32

	// Resource is the declarative reference resolved against the registry.
	Resource Resource
}

type resourceKind uint8

const (
	resourceTexture resourceKind = iota
	resourceSampler
	resourceUniform
)

// Resource is a declarative reference to a registry entry, built with
// TextureResource, SamplerResource, or UniformResource. Comparable, so entry
// lists can be checked for equality in tests.
type Resource struct {
	kind          resourceKind
	texture       TextureHandle
	viewDimension wgpu.TextureViewDimension
	samplerType   wgpu.SamplerBindingType
	uniform       UniformHandle
}

// TextureResource references a texture's sampled view.
//
// Parameters:
//   - handle: the texture to bind
//   - viewDimension: the shader-visible view dimension (2D, cube, ...)
//
// Returns:
//   - Resource: the reference
func TextureResource(handle TextureHandle, viewDimension wgpu.TextureViewDimension) Resource {
	return Resource{
		kind:          resourceTexture,
		texture:       handle,
		viewDimension: viewDimension,
	}
}

// SamplerResource references a texture's sampler.
//
// Parameters:
//   - handle: the texture whose sampler to bind
//   - samplerType: the shader-visible sampler binding type
//
// Returns:
//   - Resource: the reference
func SamplerResource(handle TextureHandle, samplerType wgpu.SamplerBindingType) Resource {
	return Resource{
		kind:        resourceSampler,
		texture:     handle,
		samplerType: samplerType,
	}
}

// UniformResource references a uniform buffer.
//
// Parameters:
//   - handle: the uniform to bind
//
// Returns:
//   - Resource: the reference
func UniformResource(handle UniformHandle) Resource {
	return Resource{
		kind:    resourceUniform,
		uniform: handle,
	}
}

// layoutEntry derives the GPU layout entry for this binding. All bindings are
// visible to both the vertex and fragment stages.
func (e BindGroupEntry) layoutEntry() wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    e.Binding,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}

	switch e.Resource.kind {
	case resourceTexture:
		entry.Texture = wgpu.TextureBindingLayout{
			SampleType:    wgpu.TextureSampleTypeFloat,
			ViewDimension: e.Resource.viewDimension,
			Multisampled:  false,
		}
	case resourceSampler:
		entry.Sampler = wgpu.SamplerBindingLayout{
			Type: e.Resource.samplerType,
		}
	case resourceUniform:
		entry.Buffer = wgpu.BufferBindingLayout{
			Type:             wgpu.BufferBindingTypeUniform,
			HasDynamicOffset: false,
			MinBindingSize:   0,
		}
	}

	return entry
}
