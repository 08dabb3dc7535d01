package registry

import (
	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Texture is a registry-owned GPU texture with its default view and sampler.
// Mutable: a resize through the Registry replaces the underlying GPU objects
// while the handle and the external binder id stay valid.
type Texture interface {
	// Name returns the texture's display name.
	Name() string

	// Size returns the logical extent in pixels (always at least 1x1).
	Size() common.Size2d

	// Format returns the pixel format.
	Format() wgpu.TextureFormat

	// GPUTexture returns the current underlying GPU texture. The returned
	// object changes identity across resizes.
	GPUTexture() *wgpu.Texture

	// View returns the current default view over the texture.
	View() *wgpu.TextureView

	// Sampler returns the texture's sampler. Samplers survive resizes.
	Sampler() *wgpu.Sampler

	// BinderID returns the externally-visible id issued by the registry's
	// TextureBinder at registration.
	BinderID() uint64
}

type textureEntry struct {
	name     string
	size     common.Size2d
	format   wgpu.TextureFormat
	texture  *wgpu.Texture
	view     *wgpu.TextureView
	sampler  *wgpu.Sampler
	binderID uint64
}

var _ Texture = &textureEntry{}

func (t *textureEntry) Name() string {
	return t.name
}

func (t *textureEntry) Size() common.Size2d {
	return t.size
}

func (t *textureEntry) Format() wgpu.TextureFormat {
	return t.format
}

func (t *textureEntry) GPUTexture() *wgpu.Texture {
	return t.texture
}

func (t *textureEntry) View() *wgpu.TextureView {
	return t.view
}

func (t *textureEntry) Sampler() *wgpu.Sampler {
	return t.sampler
}

func (t *textureEntry) BinderID() uint64 {
	return t.binderID
}
