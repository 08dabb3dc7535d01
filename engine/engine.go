// package engine ties the window, renderer, registry, and scene together into
// the inspector application loop: poll input, sync the camera, submit the
// scene's passes, then blit the viewport texture onto the window surface.
package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/Carmen-Shannon/oxyscope/engine/gfx"
	"github.com/Carmen-Shannon/oxyscope/engine/inspector"
	"github.com/Carmen-Shannon/oxyscope/engine/project"
	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/Carmen-Shannon/oxyscope/engine/renderer"
	"github.com/Carmen-Shannon/oxyscope/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxyscope/engine/scene"
	"github.com/Carmen-Shannon/oxyscope/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// blitShaderSource copies the viewport texture onto the window surface with a
// fullscreen triangle. The viewport already holds display-ready values from
// the tonemap pass, so this is a plain copy.
const blitShaderSource = `
@group(0) @binding(0) var viewport_texture: texture_2d<f32>;
@group(0) @binding(1) var viewport_sampler: sampler;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> VertexOutput {
    var out: VertexOutput;
    let x = f32(i32(index) - 1);
    let y = f32(i32(index & 1u) * 2 - 1);
    out.position = vec4<f32>(x * 3.0, y * 3.0, 0.0, 1.0);
    out.uv = vec2<f32>(out.position.x * 0.5 + 0.5, 1.0 - (out.position.y * 0.5 + 0.5));
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(viewport_texture, viewport_sampler, in.uv);
}
`

const (
	orbitSpeed = 0.005
	panSpeed   = 0.01
	zoomSpeed  = 0.5
)

// engine is the implementation of the Engine interface.
type engine struct {
	window    window.Window
	renderer  renderer.Renderer
	registry  registry.Registry
	binder    inspector.Binder
	inspector inspector.Inspector
	scene     scene.Scene
	project   project.Project

	blitPipeline pipeline.Pipeline
	blitGroup    registry.BindGroupHandle

	// Mouse drag state for camera control. Input callbacks and the render
	// loop both run on the main thread, so no locking is needed.
	dragButton window.MouseButton
	dragging   bool
	lastX      int32
	lastY      int32

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time

	// Pre-creation config collected from builder options
	windowOptions   []window.WindowBuilderOption
	rendererOptions []renderer.RendererBuilderOption
	sceneOptions    []scene.SceneBuilderOption
	projectPath     string
	projectWorkers  int
}

// Engine is the main entry point for the inspector. It owns the window,
// renderer, and scene, and runs the frame loop until the window closes.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Registry returns the resource registry every GPU resource lives in.
	//
	// Returns:
	//   - registry.Registry: the registry
	Registry() registry.Registry

	// Scene returns the inspected scene.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Inspector returns the inspection facade over the registry. UI layers
	// use it to list resources and edit uniforms.
	//
	// Returns:
	//   - inspector.Inspector: the inspector
	Inspector() inspector.Inspector

	// Project returns the loaded project, or nil if the engine was built
	// without a project file.
	//
	// Returns:
	//   - project.Project: the project, or nil
	Project() project.Project

	// Run starts the main loop (blocks until the window closes).
	Run()

	// Quit closes the window, ending the main loop. Safe to call multiple
	// times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates the window, GPU connection, registry, and scene, loads
// the project file if one was configured, and wires input callbacks to the
// scene camera.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: error if scene creation or project loading fails
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{}
	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		e.window = window.NewWindow(e.windowOptions...)
	}
	e.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU, e.window, e.rendererOptions...)

	e.binder = inspector.NewBinder()
	e.registry = registry.NewRegistry(e.renderer.Device(), registry.WithTextureBinder(e.binder))
	e.inspector = inspector.NewInspector(e.registry)

	size := common.NewSize2d(uint32(e.window.Width()), uint32(e.window.Height()))
	s, err := scene.NewScene(e.registry, size, e.sceneOptions...)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.scene = s

	if e.projectPath != "" {
		doc, err := project.Load(e.projectPath)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		var populateOptions []project.PopulateOption
		if e.projectWorkers > 0 {
			populateOptions = append(populateOptions, project.WithWorkers(e.projectWorkers))
		}
		proj, err := project.Populate(e.registry, doc, populateOptions...)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.project = proj
	}

	if err := e.createBlitState(); err != nil {
		return nil, err
	}
	e.wireInput()
	return e, nil
}

// createBlitState builds the pipeline that copies the scene's viewport
// texture onto the window surface each frame.
func (e *engine) createBlitState() error {
	shader, err := e.registry.RegisterShader("surface blit", blitShaderSource)
	if err != nil {
		return fmt.Errorf("engine: blit shader: %w", err)
	}

	group, err := e.registry.RegisterBindGroup("surface blit", []registry.BindGroupEntry{
		{Binding: 0, Resource: registry.TextureResource(e.scene.Viewport(), wgpu.TextureViewDimension2D)},
		{Binding: 1, Resource: registry.SamplerResource(e.scene.Viewport(), wgpu.SamplerBindingTypeFiltering)},
	})
	if err != nil {
		return fmt.Errorf("engine: blit bind group: %w", err)
	}
	e.blitGroup = group

	e.blitPipeline, err = pipeline.Build(e.registry, "surface blit",
		pipeline.WithShader(shader),
		pipeline.WithBindGroup(0, group),
		pipeline.WithColorFormats(e.renderer.SurfaceFormat()),
	)
	if err != nil {
		return fmt.Errorf("engine: blit pipeline: %w", err)
	}
	return nil
}

// wireInput connects window events to the scene camera: left drag orbits,
// middle drag pans, scroll zooms, resize reconfigures the surface and the
// offscreen targets.
func (e *engine) wireInput() {
	e.window.SetResizeCallback(func(width, height int) {
		if width <= 0 || height <= 0 {
			return
		}
		size := common.NewSize2d(uint32(width), uint32(height))
		e.renderer.Resize(size)
		if err := e.scene.Resize(size); err != nil {
			log.Printf("engine: resize: %v", err)
		}
	})

	e.window.SetScrollCallback(func(delta float32) {
		e.scene.Camera().Zoom(delta * zoomSpeed)
	})

	e.window.SetMouseDownCallback(func(button window.MouseButton, x, y int32) {
		e.dragging = true
		e.dragButton = button
		e.lastX, e.lastY = x, y
	})

	e.window.SetMouseUpCallback(func(button window.MouseButton, x, y int32) {
		if e.dragging && button == e.dragButton {
			e.dragging = false
		}
	})

	e.window.SetMouseMoveCallback(func(x, y int32) {
		if !e.dragging {
			return
		}
		dx := float32(x - e.lastX)
		dy := float32(y - e.lastY)
		e.lastX, e.lastY = x, y

		switch e.dragButton {
		case window.MouseButtonLeft:
			e.scene.Camera().Orbit(dx*orbitSpeed, dy*orbitSpeed)
		case window.MouseButtonMiddle:
			e.scene.Camera().Pan(-dx*panSpeed, dy*panSpeed)
		}
	})
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Registry() registry.Registry {
	return e.registry
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Inspector() inspector.Inspector {
	return e.inspector
}

func (e *engine) Project() project.Project {
	return e.project
}

func (e *engine) Run() {
	e.lastFrame = time.Now()
	e.window.SetUpdateCallback(func() {
		if err := e.renderFrame(); err != nil {
			log.Printf("engine: frame: %v", err)
			e.Quit()
		}
	})
	e.window.ProcessMessages()
}

func (e *engine) Quit() {
	if err := e.window.Close(); err != nil {
		log.Printf("engine: close: %v", err)
	}
}

// renderFrame runs one frame: submit the scene's passes, then record the blit
// pass against the acquired surface view and present.
func (e *engine) renderFrame() error {
	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(e.lastFrame); remaining > 0 {
			time.Sleep(remaining)
		}
	}
	e.lastFrame = time.Now()

	set, err := e.scene.Frame()
	if err != nil {
		return err
	}

	device := e.renderer.Device()
	encoder, err := device.CreateCommandEncoder()
	if err != nil {
		return err
	}
	defer encoder.Release()

	if err := set.Submit(encoder, e.registry); err != nil {
		return err
	}

	surfaceView, err := e.renderer.AcquireFrame()
	if err != nil {
		return err
	}
	if err := e.recordBlit(encoder, surfaceView); err != nil {
		return err
	}

	buffer, err := encoder.Finish()
	if err != nil {
		return err
	}
	device.Submit(buffer)
	e.renderer.PresentFrame()
	return nil
}

// recordBlit records the fullscreen pass that copies the viewport texture
// onto the surface view. The surface view is not a registry texture, so this
// pass is recorded directly rather than going through a pass specification.
func (e *engine) recordBlit(encoder gfx.CommandEncoder, surfaceView *wgpu.TextureView) error {
	group, ok := e.registry.GetBindGroup(e.blitGroup)
	if !ok {
		return fmt.Errorf("engine: blit bind group no longer registered")
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "surface blit",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       surfaceView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	pass.SetPipeline(e.blitPipeline.GPUPipeline())
	pass.SetBindGroup(0, group.Group())
	pass.Draw(3, 1, 0, 0)
	pass.End()
	return nil
}
