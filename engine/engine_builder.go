package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxyscope/engine/renderer"
	"github.com/Carmen-Shannon/oxyscope/engine/scene"
	"github.com/Carmen-Shannon/oxyscope/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithWindowOptions forwards options to the window the engine creates.
// Ignored when WithWindow supplies a pre-configured window.
//
// Parameters:
//   - options: window options to apply
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindowOptions(options ...window.WindowBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.windowOptions = append(e.windowOptions, options...)
	}
}

// WithRendererOptions forwards options to the renderer the engine creates.
//
// Parameters:
//   - options: renderer options to apply
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, options...)
	}
}

// WithSceneOptions forwards options to the scene the engine creates.
//
// Parameters:
//   - options: scene options to apply
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSceneOptions(options ...scene.SceneBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.sceneOptions = append(e.sceneOptions, options...)
	}
}

// WithProjectFile loads the given project document during engine construction
// and populates the registry from it.
//
// Parameters:
//   - path: path to the project YAML file
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProjectFile(path string) EngineBuilderOption {
	return func(e *engine) {
		e.projectPath = path
	}
}

// WithProjectWorkers sets the number of workers used to load project assets
// concurrently. Values <= 0 keep the project loader's default.
//
// Parameters:
//   - workers: worker count for asset loading
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProjectWorkers(workers int) EngineBuilderOption {
	return func(e *engine) {
		e.projectWorkers = workers
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}
