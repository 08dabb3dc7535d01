package renderer

import (
	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/Carmen-Shannon/oxyscope/engine/gfx"
	"github.com/Carmen-Shannon/oxyscope/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend

	device gfx.Device

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Renderer owns the GPU connection and the presentation surface. Offscreen
// resources (textures, buffers, bind groups) are created through the Device it
// exposes; the renderer itself only handles surface configuration and the
// acquire/present cycle of swapchain frames.
type Renderer interface {
	// Device returns the graphics device shared by everything that creates GPU
	// resources.
	//
	// Returns:
	//   - gfx.Device: the device wrapper around the GPU connection
	Device() gfx.Device

	// SurfaceFormat returns the texture format the surface was configured with.
	// Only valid after the first Resize.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface's preferred format
	SurfaceFormat() wgpu.TextureFormat

	// Resize reconfigures the surface for a new size. Must be called once
	// before the first frame and again whenever the window size changes.
	//
	// Parameters:
	//   - size: the new surface size in pixels
	Resize(size common.Size2d)

	// SetPresentMode sets the surface present mode which controls how frames
	// are delivered to the display. A call to Resize is required after
	// changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// AcquireFrame acquires the next swapchain texture and returns a view over
	// it. Must be paired with PresentFrame; acquiring twice without presenting
	// is an error.
	//
	// Returns:
	//   - *wgpu.TextureView: the view to render the frame into
	//   - error: error if the swapchain texture could not be acquired
	AcquireFrame() (*wgpu.TextureView, error)

	// PresentFrame presents the acquired frame to the display and releases the
	// swapchain texture. Must be called once per acquired frame, after the
	// frame's command buffers are submitted.
	PresentFrame()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given window. The GPU instance,
// surface, adapter, and device are initialized immediately; the surface is
// configured to the window's current size.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window supplying the platform surface descriptor
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(common.NewSize2d(uint32(window.Width()), uint32(window.Height())))
	r.device = gfx.NewDevice(r.backend.Device(), r.backend.Queue())
	return r
}

func (r *renderer) Device() gfx.Device {
	return r.device
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) Resize(size common.Size2d) {
	r.backend.ConfigureSurface(size)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) AcquireFrame() (*wgpu.TextureView, error) {
	return r.backend.AcquireFrame()
}

func (r *renderer) PresentFrame() {
	r.backend.PresentFrame()
}
