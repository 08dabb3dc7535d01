package registry

import "github.com/cogentcore/webgpu/wgpu"

// Shader is a registry-owned WGSL shader: its label, source text, and the
// compiled GPU module. Immutable after registration.
type Shader interface {
	// Label returns the shader's display name.
	Label() string

	// Source returns the WGSL source the module was compiled from.
	Source() string

	// Module returns the compiled shader module.
	Module() *wgpu.ShaderModule
}

type shaderEntry struct {
	label  string
	source string
	module *wgpu.ShaderModule
}

var _ Shader = &shaderEntry{}

func (s *shaderEntry) Label() string {
	return s.label
}

func (s *shaderEntry) Source() string {
	return s.source
}

func (s *shaderEntry) Module() *wgpu.ShaderModule {
	return s.module
}
