// package scene wires registry resources into the inspector's two-pass frame:
// a lit HDR pass over the scene's models followed by a tonemap pass into the
// viewport texture the UI displays.
package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/Carmen-Shannon/oxyscope/engine/camera"
	"github.com/Carmen-Shannon/oxyscope/engine/model"
	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/Carmen-Shannon/oxyscope/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxyscope/engine/renderpass"
	"github.com/Carmen-Shannon/oxyscope/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	hdrFormat      = wgpu.TextureFormatRGBA16Float
	viewportFormat = wgpu.TextureFormatRGBA8Unorm
	depthFormat    = wgpu.TextureFormatDepth32Float
)

// scene is the implementation of the Scene interface.
type scene struct {
	registry registry.Registry
	camera   camera.Camera

	hdrTarget   registry.TextureHandle
	viewport    registry.TextureHandle
	depthTarget registry.TextureHandle

	lightUniform registry.UniformHandle
	frameGroup   registry.BindGroupHandle
	tonemapInput registry.BindGroupHandle

	scenePipeline   pipeline.Pipeline
	tonemapPipeline pipeline.Pipeline

	models []model.Model

	clearColor wgpu.Color

	cameraOptions  []camera.CameraBuilderOption
	lightDirection [3]float32
	lightColor     [3]float32
}

// Scene owns the offscreen render targets and frame-level GPU state of one
// inspected scene. Frame returns the declarative pass set for the current
// model list; submission is the caller's job so the scene stays GPU-free in
// tests.
type Scene interface {
	// Camera returns the scene's orbit camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Viewport returns the texture the tonemap pass renders into. This is
	// what a UI samples or blits to the screen.
	//
	// Returns:
	//   - registry.TextureHandle: the viewport texture
	Viewport() registry.TextureHandle

	// AddModels appends models to the draw list. A model's materials must
	// bind the same layout shape as the scene's material bind group.
	//
	// Parameters:
	//   - models: the models to add
	AddModels(models ...model.Model)

	// Models returns the current draw list in draw order.
	//
	// Returns:
	//   - []model.Model: the models
	Models() []model.Model

	// SetLight updates the directional light.
	//
	// Parameters:
	//   - direction: the light direction in world space
	//   - color: the light color
	//
	// Returns:
	//   - error: error if the uniform update fails
	SetLight(direction, color [3]float32) error

	// Resize resizes the offscreen targets and the camera projection.
	// Dependent bind groups are rebuilt by the registry.
	//
	// Parameters:
	//   - size: the new viewport size in pixels
	//
	// Returns:
	//   - error: error if a texture resize fails
	Resize(size common.Size2d) error

	// Frame syncs the camera and builds the pass set for the current frame:
	// the lit HDR pass over every model, then the tonemap pass into the
	// viewport through an sRGB view.
	//
	// Returns:
	//   - renderpass.Set: the passes to submit
	//   - error: error if the camera sync fails
	Frame() (renderpass.Set, error)
}

var _ Scene = &scene{}

// NewScene creates a scene's GPU state on the registry: the HDR, viewport,
// and depth targets, the camera and light uniforms, the frame and tonemap
// bind groups, and both pipelines.
//
// Parameters:
//   - reg: the registry everything is registered with
//   - size: the initial viewport size in pixels
//   - options: variadic list of SceneBuilderOption functions to configure the scene
//
// Returns:
//   - Scene: the scene
//   - error: error if any registration or pipeline build fails
func NewScene(reg registry.Registry, size common.Size2d, options ...SceneBuilderOption) (Scene, error) {
	s := &scene{
		registry:       reg,
		clearColor:     wgpu.Color{R: 0.03, G: 0.03, B: 0.04, A: 1},
		lightDirection: [3]float32{-0.5, -1, -0.3},
		lightColor:     [3]float32{1, 1, 1},
	}
	for _, opt := range options {
		opt(s)
	}

	cam, err := camera.NewCamera(reg, "camera",
		append([]camera.CameraBuilderOption{camera.WithAspectRatio(size.AspectRatio())}, s.cameraOptions...)...)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	s.camera = cam

	if err := s.createTargets(size); err != nil {
		return nil, err
	}
	if err := s.createFrameState(); err != nil {
		return nil, err
	}
	if err := s.createPipelines(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *scene) createTargets(size common.Size2d) error {
	var err error
	if s.hdrTarget, err = s.registry.RegisterRenderTexture("scene hdr", size, hdrFormat); err != nil {
		return fmt.Errorf("scene: hdr target: %w", err)
	}
	if s.viewport, err = s.registry.RegisterRenderTexture("viewport", size, viewportFormat); err != nil {
		return fmt.Errorf("scene: viewport: %w", err)
	}
	if s.depthTarget, err = s.registry.RegisterRenderTexture("scene depth", size, depthFormat); err != nil {
		return fmt.Errorf("scene: depth target: %w", err)
	}
	return nil
}

func (s *scene) createFrameState() error {
	light, err := s.registry.RegisterUniform("light", s.lightData())
	if err != nil {
		return fmt.Errorf("scene: light uniform: %w", err)
	}
	s.lightUniform = light

	frameGroup, err := s.registry.RegisterBindGroup("frame", []registry.BindGroupEntry{
		{Binding: 0, Resource: registry.UniformResource(s.camera.Uniform())},
		{Binding: 1, Resource: registry.UniformResource(s.lightUniform)},
	})
	if err != nil {
		return fmt.Errorf("scene: frame bind group: %w", err)
	}
	s.frameGroup = frameGroup

	tonemapInput, err := s.registry.RegisterBindGroup("tonemap input", []registry.BindGroupEntry{
		{Binding: 0, Resource: registry.TextureResource(s.hdrTarget, wgpu.TextureViewDimension2D)},
		{Binding: 1, Resource: registry.SamplerResource(s.hdrTarget, wgpu.SamplerBindingTypeFiltering)},
	})
	if err != nil {
		return fmt.Errorf("scene: tonemap bind group: %w", err)
	}
	s.tonemapInput = tonemapInput
	return nil
}

func (s *scene) createPipelines() error {
	sceneShader, err := s.registry.RegisterShader("scene", sceneShaderSource)
	if err != nil {
		return fmt.Errorf("scene: shader: %w", err)
	}
	tonemapShader, err := s.registry.RegisterShader("tonemap", tonemapShaderSource)
	if err != nil {
		return fmt.Errorf("scene: tonemap shader: %w", err)
	}

	// The scene pipeline's group 1 layout comes from a representative
	// material bind group; every model material must share its shape.
	defaultMaterial, err := s.registry.RegisterUniform("default material", uniform.Data{Fields: []uniform.Field{
		uniform.NewRgba("base_color", [4]float32{0.8, 0.8, 0.8, 1}),
	}})
	if err != nil {
		return fmt.Errorf("scene: default material: %w", err)
	}
	materialGroup, err := s.registry.RegisterBindGroup("default material", []registry.BindGroupEntry{
		{Binding: 0, Resource: registry.UniformResource(defaultMaterial)},
	})
	if err != nil {
		return fmt.Errorf("scene: default material bind group: %w", err)
	}

	s.scenePipeline, err = pipeline.Build(s.registry, "scene",
		pipeline.WithShader(sceneShader),
		pipeline.WithBindGroup(0, s.frameGroup),
		pipeline.WithBindGroup(1, materialGroup),
		pipeline.WithVertexLayouts(model.VertexBufferLayout()),
		pipeline.WithColorFormats(hdrFormat),
		pipeline.WithDepthFormat(depthFormat),
		pipeline.WithCullMode(wgpu.CullModeBack),
	)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	// The tonemap pass renders through an sRGB-reinterpreted view of the
	// viewport, so the pipeline's color target must carry the view's format,
	// not the texture's.
	s.tonemapPipeline, err = pipeline.Build(s.registry, "tonemap",
		pipeline.WithShader(tonemapShader),
		pipeline.WithBindGroup(0, s.tonemapInput),
		pipeline.WithColorFormats(renderpass.SrgbVariant(viewportFormat)),
	)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return nil
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}

func (s *scene) Viewport() registry.TextureHandle {
	return s.viewport
}

func (s *scene) AddModels(models ...model.Model) {
	s.models = append(s.models, models...)
}

func (s *scene) Models() []model.Model {
	return s.models
}

func (s *scene) SetLight(direction, color [3]float32) error {
	s.lightDirection = direction
	s.lightColor = color
	if err := s.registry.UpdateUniform(s.lightUniform, s.lightData()); err != nil {
		return fmt.Errorf("scene: light update: %w", err)
	}
	return nil
}

func (s *scene) lightData() uniform.Data {
	return uniform.Data{Fields: []uniform.Field{
		uniform.NewVec3("direction", s.lightDirection),
		uniform.NewRgb("color", s.lightColor),
	}}
}

func (s *scene) Resize(size common.Size2d) error {
	for _, target := range []registry.TextureHandle{s.hdrTarget, s.viewport, s.depthTarget} {
		if err := s.registry.ResizeTexture(target, size); err != nil {
			return fmt.Errorf("scene resize: %w", err)
		}
	}
	s.camera.Resize(size)
	return nil
}

func (s *scene) Frame() (renderpass.Set, error) {
	if err := s.camera.Sync(); err != nil {
		return renderpass.Set{}, fmt.Errorf("scene frame: %w", err)
	}

	steps := make([]renderpass.PipelineDraw, 0, len(s.models))
	for _, m := range s.models {
		steps = append(steps, renderpass.PipelineDraw{
			Pipeline:      s.scenePipeline.GPUPipeline(),
			VertexBuffers: []renderpass.VertexBufferRef{renderpass.MeshVertexBuffer(0)},
			BindGroups: []renderpass.BindGroupRef{
				renderpass.FixedBindGroup(0, s.frameGroup),
				renderpass.MaterialBindGroup(1),
			},
			Draw: renderpass.ModelDraw(m, renderpass.Range{First: 0, Count: 1}),
		})
	}

	return renderpass.Set{Passes: []renderpass.Pass{
		{
			Label:  "scene",
			Target: renderpass.TargetSpec{Texture: s.hdrTarget, LoadOp: wgpu.LoadOpClear, ClearColor: s.clearColor},
			Depth:  &renderpass.DepthSpec{Texture: s.depthTarget, LoadOp: wgpu.LoadOpClear, ClearDepth: 1},
			Steps:  steps,
		},
		{
			Label:  "tonemap",
			Target: renderpass.TargetSpec{Texture: s.viewport, View: renderpass.NewViewSrgb, LoadOp: wgpu.LoadOpClear},
			Steps: []renderpass.PipelineDraw{{
				Pipeline:   s.tonemapPipeline.GPUPipeline(),
				BindGroups: []renderpass.BindGroupRef{renderpass.FixedBindGroup(0, s.tonemapInput)},
				Draw:       renderpass.SingleDraw(renderpass.Range{Count: 3}, renderpass.Range{Count: 1}),
			}},
		},
	}}, nil
}
