package scene

import (
	"github.com/Carmen-Shannon/oxyscope/engine/camera"
	"github.com/Carmen-Shannon/oxyscope/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
)

// SceneBuilderOption is a functional option used to configure a scene during construction.
type SceneBuilderOption func(*scene)

// WithClearColor sets the HDR pass clear color.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - SceneBuilderOption: the option to apply
func WithClearColor(color wgpu.Color) SceneBuilderOption {
	return func(s *scene) {
		s.clearColor = color
	}
}

// WithLight sets the starting directional light.
//
// Parameters:
//   - direction: the light direction in world space
//   - color: the light color
//
// Returns:
//   - SceneBuilderOption: the option to apply
func WithLight(direction, color [3]float32) SceneBuilderOption {
	return func(s *scene) {
		s.lightDirection = direction
		s.lightColor = color
	}
}

// WithCameraOptions forwards options to the scene's camera constructor.
//
// Parameters:
//   - options: camera options to apply
//
// Returns:
//   - SceneBuilderOption: the option to apply
func WithCameraOptions(options ...camera.CameraBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.cameraOptions = append(s.cameraOptions, options...)
	}
}

// WithModels seeds the draw list.
//
// Parameters:
//   - models: the models to draw
//
// Returns:
//   - SceneBuilderOption: the option to apply
func WithModels(models ...model.Model) SceneBuilderOption {
	return func(s *scene) {
		s.models = append(s.models, models...)
	}
}
