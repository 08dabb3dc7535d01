package registry

import (
	"fmt"
	"iter"

	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/Carmen-Shannon/oxyscope/engine/gfx"
	"github.com/Carmen-Shannon/oxyscope/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderHandle references a Shader in a Registry.
type ShaderHandle = Handle[Shader]

// TextureHandle references a Texture in a Registry.
type TextureHandle = Handle[Texture]

// UniformHandle references a Uniform in a Registry.
type UniformHandle = Handle[Uniform]

// BindGroupHandle references a BindGroup in a Registry.
type BindGroupHandle = Handle[BindGroup]

// TextureBinder exposes registry textures to an external viewer (the inspector
// UI's texture table). Implementations hand out stable ids that keep pointing
// at valid GPU state across texture rebuilds.
type TextureBinder interface {
	// BindTexture registers a texture view and returns its externally-visible id.
	//
	// Parameters:
	//   - view: the texture view to expose
	//
	// Returns:
	//   - uint64: the stable external id
	BindTexture(view *wgpu.TextureView) uint64

	// RebindTexture repoints an existing external id at a new view, preserving
	// the id. Called when a texture resize replaces the underlying GPU texture.
	//
	// Parameters:
	//   - id: the id returned by BindTexture
	//   - view: the replacement view
	RebindTexture(id uint64, view *wgpu.TextureView)
}

// Registry is the combined shader/texture/uniform/bind-group store for one
// running project. It exclusively owns the GPU objects behind its entries;
// everything else refers to them by handle. One instance per project, passed
// explicitly — never a singleton.
type Registry interface {
	// Device returns the graphics device the registry allocates against.
	//
	// Returns:
	//   - gfx.Device: the device
	Device() gfx.Device

	// RegisterShader compiles WGSL source into a shader module and stores it.
	//
	// Parameters:
	//   - label: shader display name
	//   - source: WGSL source text
	//
	// Returns:
	//   - ShaderHandle: handle to the stored shader
	//   - error: error if compilation fails
	RegisterShader(label, source string) (ShaderHandle, error)

	// GetShader looks up a shader by handle.
	//
	// Returns:
	//   - Shader: the shader, or nil on a miss
	//   - bool: false for stale or foreign handles
	GetShader(handle ShaderHandle) (Shader, bool)

	// ListShaders iterates (handle, shader) pairs in slot order.
	ListShaders() iter.Seq2[ShaderHandle, Shader]

	// RegisterRenderTexture creates a render-target texture (also sampleable)
	// and stores it. The size is clamped to at least 1x1.
	//
	// Parameters:
	//   - name: texture display name
	//   - size: extent in pixels
	//   - format: pixel format
	//
	// Returns:
	//   - TextureHandle: handle to the stored texture
	//   - error: error if GPU allocation fails
	RegisterRenderTexture(name string, size common.Size2d, format wgpu.TextureFormat) (TextureHandle, error)

	// RegisterPixelTexture creates a sampled texture from RGBA pixel data and
	// stores it.
	//
	// Parameters:
	//   - name: texture display name
	//   - staging: pixel data with dimensions
	//   - format: pixel format
	//   - sampler: sampler configuration for the texture's sampler
	//
	// Returns:
	//   - TextureHandle: handle to the stored texture
	//   - error: error if GPU allocation or upload fails
	RegisterPixelTexture(name string, staging common.TextureStagingData, format wgpu.TextureFormat, sampler common.SamplerStagingData) (TextureHandle, error)

	// GetTexture looks up a texture by handle.
	//
	// Returns:
	//   - Texture: the texture, or nil on a miss
	//   - bool: false for stale or foreign handles
	GetTexture(handle TextureHandle) (Texture, bool)

	// ListTextures iterates (handle, texture) pairs in slot order.
	ListTextures() iter.Seq2[TextureHandle, Texture]

	// ResizeTexture rebuilds a texture's GPU objects at a new size, keeping the
	// same handle and external binder id. Bind groups referencing the texture
	// are rebuilt so their bound views track the new GPU texture. The size is
	// clamped to at least 1x1.
	//
	// Parameters:
	//   - handle: the texture to resize
	//   - size: new extent in pixels
	//
	// Returns:
	//   - error: error if the handle is stale or GPU allocation fails
	ResizeTexture(handle TextureHandle, size common.Size2d) error

	// RegisterUniform serializes the data through the layout engine, creates
	// the backing GPU buffer with the serialized contents, and stores the
	// uniform. The buffer's byte length is fixed for the uniform's lifetime.
	//
	// Parameters:
	//   - label: uniform display name
	//   - data: initial logical contents
	//
	// Returns:
	//   - UniformHandle: handle to the stored uniform
	//   - error: error if GPU allocation fails
	RegisterUniform(label string, data uniform.Data) (UniformHandle, error)

	// GetUniform looks up a uniform by handle.
	//
	// Returns:
	//   - Uniform: the uniform, or nil on a miss
	//   - bool: false for stale or foreign handles
	GetUniform(handle UniformHandle) (Uniform, bool)

	// ListUniforms iterates (handle, uniform) pairs in slot order.
	ListUniforms() iter.Seq2[UniformHandle, Uniform]

	// UpdateUniform replaces a uniform's logical data and writes the
	// re-serialized bytes into the existing GPU buffer. The serialized length
	// must equal the buffer's fixed length; a mismatch fails with
	// ErrUniformSizeMismatch before any GPU write.
	//
	// Parameters:
	//   - handle: the uniform to update
	//   - data: replacement contents (same field list and types)
	//
	// Returns:
	//   - error: error if the handle is stale or the length differs
	UpdateUniform(handle UniformHandle, data uniform.Data) error

	// RegisterBindGroup resolves a declarative entry list into a GPU bind group
	// layout and bind group, and stores them. Duplicate binding slots and
	// dangling resource handles are rejected before any GPU object is created.
	//
	// Parameters:
	//   - label: bind group display name
	//   - entries: ordered (binding slot, resource reference) pairs
	//
	// Returns:
	//   - BindGroupHandle: handle to the stored bind group
	//   - error: error on duplicate slots, dangling handles, or GPU failure
	RegisterBindGroup(label string, entries []BindGroupEntry) (BindGroupHandle, error)

	// GetBindGroup looks up a bind group by handle.
	//
	// Returns:
	//   - BindGroup: the bind group, or nil on a miss
	//   - bool: false for stale or foreign handles
	GetBindGroup(handle BindGroupHandle) (BindGroup, bool)

	// ListBindGroups iterates (handle, bind group) pairs in slot order.
	ListBindGroups() iter.Seq2[BindGroupHandle, BindGroup]
}

// resourceRegistry is the implementation of the Registry interface.
type resourceRegistry struct {
	device gfx.Device
	binder TextureBinder

	shaders    Store[Shader]
	textures   Store[Texture]
	uniforms   Store[Uniform]
	bindGroups Store[BindGroup]
}

var _ Registry = &resourceRegistry{}

// NewRegistry creates a Registry bound to a graphics device.
// Applies default values first, then each option in order.
// Panics if no device is provided, since every registration allocates
// GPU-side state.
//
// Parameters:
//   - device: the graphics device to allocate against
//   - options: functional options to configure the registry
//
// Returns:
//   - Registry: the configured registry
func NewRegistry(device gfx.Device, options ...RegistryBuilderOption) Registry {
	if device == nil {
		panic("registry: a graphics device is required")
	}
	r := &resourceRegistry{
		device: device,
		binder: &noopTextureBinder{},
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *resourceRegistry) Device() gfx.Device {
	return r.device
}

func (r *resourceRegistry) RegisterShader(label, source string) (ShaderHandle, error) {
	module, err := r.device.CreateShaderModule(label, source)
	if err != nil {
		return ShaderHandle{}, fmt.Errorf("registry: shader %q: %w", label, err)
	}

	return r.shaders.Insert(&shaderEntry{
		label:  label,
		source: source,
		module: module,
	}), nil
}

func (r *resourceRegistry) GetShader(handle ShaderHandle) (Shader, bool) {
	return r.shaders.Get(handle)
}

func (r *resourceRegistry) ListShaders() iter.Seq2[ShaderHandle, Shader] {
	return r.shaders.Items()
}

func (r *resourceRegistry) RegisterRenderTexture(name string, size common.Size2d, format wgpu.TextureFormat) (TextureHandle, error) {
	size = common.NewSize2d(size.Width, size.Height)

	tex, err := r.createTarget(name, size, format)
	if err != nil {
		return TextureHandle{}, fmt.Errorf("registry: texture %q: %w", name, err)
	}
	view, err := r.device.CreateTextureView(tex, nil)
	if err != nil {
		r.device.Release(tex)
		return TextureHandle{}, fmt.Errorf("registry: texture %q view: %w", name, err)
	}
	sampler, err := r.device.CreateSampler(name+" Sampler", common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
	})
	if err != nil {
		r.device.Release(view, tex)
		return TextureHandle{}, fmt.Errorf("registry: texture %q sampler: %w", name, err)
	}

	entry := &textureEntry{
		name:    name,
		size:    size,
		format:  format,
		texture: tex,
		view:    view,
		sampler: sampler,
	}
	// Depth targets are not viewable in the inspector's texture table.
	if !isDepthFormat(format) {
		entry.binderID = r.binder.BindTexture(view)
	}
	return r.textures.Insert(entry), nil
}

// createTarget creates the GPU texture for a render target, picking the
// depth-attachment path for depth formats.
func (r *resourceRegistry) createTarget(name string, size common.Size2d, format wgpu.TextureFormat) (*wgpu.Texture, error) {
	if isDepthFormat(format) {
		return r.device.CreateDepthTexture(name, size, format)
	}
	return r.device.CreateRenderTexture(name, size, format)
}

func isDepthFormat(format wgpu.TextureFormat) bool {
	switch format {
	case wgpu.TextureFormatDepth16Unorm,
		wgpu.TextureFormatDepth24Plus,
		wgpu.TextureFormatDepth24PlusStencil8,
		wgpu.TextureFormatDepth32Float:
		return true
	default:
		return false
	}
}

func (r *resourceRegistry) RegisterPixelTexture(name string, staging common.TextureStagingData, format wgpu.TextureFormat, sampler common.SamplerStagingData) (TextureHandle, error) {
	size := common.NewSize2d(staging.Width, staging.Height)

	tex, err := r.device.CreatePixelTexture(name, staging, format)
	if err != nil {
		return TextureHandle{}, fmt.Errorf("registry: texture %q: %w", name, err)
	}
	view, err := r.device.CreateTextureView(tex, nil)
	if err != nil {
		r.device.Release(tex)
		return TextureHandle{}, fmt.Errorf("registry: texture %q view: %w", name, err)
	}
	samp, err := r.device.CreateSampler(name+" Sampler", sampler)
	if err != nil {
		r.device.Release(view, tex)
		return TextureHandle{}, fmt.Errorf("registry: texture %q sampler: %w", name, err)
	}

	return r.textures.Insert(&textureEntry{
		name:     name,
		size:     size,
		format:   format,
		texture:  tex,
		view:     view,
		sampler:  samp,
		binderID: r.binder.BindTexture(view),
	}), nil
}

func (r *resourceRegistry) GetTexture(handle TextureHandle) (Texture, bool) {
	return r.textures.Get(handle)
}

func (r *resourceRegistry) ListTextures() iter.Seq2[TextureHandle, Texture] {
	return r.textures.Items()
}

func (r *resourceRegistry) ResizeTexture(handle TextureHandle, size common.Size2d) error {
	entry, ok := r.textures.Get(handle)
	if !ok {
		return fmt.Errorf("registry: resize: %w", ErrNotFound)
	}
	tex := entry.(*textureEntry)

	size = common.NewSize2d(size.Width, size.Height)

	newTexture, err := r.createTarget(tex.name, size, tex.format)
	if err != nil {
		return fmt.Errorf("registry: resize texture %q: %w", tex.name, err)
	}
	newView, err := r.device.CreateTextureView(newTexture, nil)
	if err != nil {
		r.device.Release(newTexture)
		return fmt.Errorf("registry: resize texture %q view: %w", tex.name, err)
	}

	oldTexture, oldView := tex.texture, tex.view
	tex.texture = newTexture
	tex.view = newView
	tex.size = size

	// Keep the externally-visible id pointing at live GPU state.
	if !isDepthFormat(tex.format) {
		r.binder.RebindTexture(tex.binderID, newView)
	}

	// Bind groups holding the old view are now stale; rebuild layout and
	// group together so the bound set tracks the new GPU texture.
	for _, bg := range r.bindGroups.Items() {
		group := bg.(*bindGroupEntry)
		if !group.references(handle) {
			continue
		}
		if err := r.rebuildBindGroup(group); err != nil {
			// The entry already points at the new texture; the old objects
			// have no remaining referent and must still be released.
			r.device.Release(oldView, oldTexture)
			return fmt.Errorf("registry: resize texture %q: %w", tex.name, err)
		}
	}

	r.device.Release(oldView, oldTexture)
	return nil
}

func (r *resourceRegistry) RegisterUniform(label string, data uniform.Data) (UniformHandle, error) {
	contents := data.Bytes()

	buffer, err := r.device.CreateUniformBuffer(label, contents)
	if err != nil {
		return UniformHandle{}, fmt.Errorf("registry: uniform %q: %w", label, err)
	}

	return r.uniforms.Insert(&uniformEntry{
		label:  label,
		data:   data,
		buffer: buffer,
		size:   len(contents),
	}), nil
}

func (r *resourceRegistry) GetUniform(handle UniformHandle) (Uniform, bool) {
	return r.uniforms.Get(handle)
}

func (r *resourceRegistry) ListUniforms() iter.Seq2[UniformHandle, Uniform] {
	return r.uniforms.Items()
}

func (r *resourceRegistry) UpdateUniform(handle UniformHandle, data uniform.Data) error {
	entry, ok := r.uniforms.Get(handle)
	if !ok {
		return fmt.Errorf("registry: update: %w", ErrNotFound)
	}
	u := entry.(*uniformEntry)

	contents := data.Bytes()
	if len(contents) != u.size {
		return fmt.Errorf("registry: uniform %q: serialized %d bytes into a %d byte buffer: %w",
			u.label, len(contents), u.size, ErrUniformSizeMismatch)
	}

	u.data = data
	r.device.WriteBuffer(u.buffer, 0, contents)
	return nil
}

func (r *resourceRegistry) RegisterBindGroup(label string, entries []BindGroupEntry) (BindGroupHandle, error) {
	if err := validateBindings(entries); err != nil {
		return BindGroupHandle{}, fmt.Errorf("registry: bind group %q: %w", label, err)
	}

	group := &bindGroupEntry{
		label:   label,
		entries: append([]BindGroupEntry(nil), entries...),
	}
	if err := r.rebuildBindGroup(group); err != nil {
		return BindGroupHandle{}, fmt.Errorf("registry: bind group %q: %w", label, err)
	}

	return r.bindGroups.Insert(group), nil
}

func (r *resourceRegistry) GetBindGroup(handle BindGroupHandle) (BindGroup, bool) {
	return r.bindGroups.Get(handle)
}

func (r *resourceRegistry) ListBindGroups() iter.Seq2[BindGroupHandle, BindGroup] {
	return r.bindGroups.Items()
}

// rebuildBindGroup derives the layout and bound set for a bind group from its
// declarative entries and swaps them in, releasing any previous GPU objects.
// Handles are dereferenced before any GPU object is created, so dangling
// references fail without leaking.
func (r *resourceRegistry) rebuildBindGroup(group *bindGroupEntry) error {
	resolved, err := r.resolveBindings(group.entries)
	if err != nil {
		return err
	}

	layoutEntries := make([]wgpu.BindGroupLayoutEntry, len(group.entries))
	for i, entry := range group.entries {
		layoutEntries[i] = entry.layoutEntry()
	}

	layout, err := r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   group.label + " Layout",
		Entries: layoutEntries,
	})
	if err != nil {
		return err
	}

	created, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   group.label,
		Layout:  layout,
		Entries: resolved,
	})
	if err != nil {
		r.device.Release(layout)
		return err
	}

	r.device.Release(group.group, group.layout)
	group.layout = layout
	group.group = created
	return nil
}

// resolveBindings dereferences every entry's resource handle against the live
// stores. This is the only place declarative references become GPU bindings.
func (r *resourceRegistry) resolveBindings(entries []BindGroupEntry) ([]wgpu.BindGroupEntry, error) {
	resolved := make([]wgpu.BindGroupEntry, len(entries))
	for i, entry := range entries {
		switch entry.Resource.kind {
		case resourceTexture:
			tex, ok := r.textures.Get(entry.Resource.texture)
			if !ok {
				return nil, fmt.Errorf("binding %d references a texture that is not in the registry: %w", entry.Binding, ErrNotFound)
			}
			resolved[i] = wgpu.BindGroupEntry{
				Binding:     entry.Binding,
				TextureView: tex.View(),
			}
		case resourceSampler:
			tex, ok := r.textures.Get(entry.Resource.texture)
			if !ok {
				return nil, fmt.Errorf("binding %d references a texture that is not in the registry: %w", entry.Binding, ErrNotFound)
			}
			resolved[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Sampler: tex.Sampler(),
			}
		case resourceUniform:
			uni, ok := r.uniforms.Get(entry.Resource.uniform)
			if !ok {
				return nil, fmt.Errorf("binding %d references a uniform that is not in the registry: %w", entry.Binding, ErrNotFound)
			}
			resolved[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  uni.Buffer(),
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		default:
			return nil, fmt.Errorf("binding %d has an unknown resource kind", entry.Binding)
		}
	}
	return resolved, nil
}

// validateBindings rejects duplicate binding slots. Runs before any handle
// resolution or GPU allocation.
func validateBindings(entries []BindGroupEntry) error {
	seen := make(map[uint32]struct{}, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.Binding]; dup {
			return fmt.Errorf("binding %d: %w", entry.Binding, ErrDuplicateBinding)
		}
		seen[entry.Binding] = struct{}{}
	}
	return nil
}

// noopTextureBinder is the default TextureBinder when none is configured.
// All textures share id 0 and rebinds are ignored.
type noopTextureBinder struct{}

var _ TextureBinder = &noopTextureBinder{}

func (n *noopTextureBinder) BindTexture(view *wgpu.TextureView) uint64  { return 0 }
func (n *noopTextureBinder) RebindTexture(id uint64, view *wgpu.TextureView) {}
