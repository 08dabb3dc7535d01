// package project implements the on-disk project format: a YAML document
// naming the shaders, textures, uniforms, and bind groups of a scene, and the
// loader that populates a registry from it.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxyscope/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
	"gopkg.in/yaml.v3"
)

// Document is the root of a project file. Resources reference each other by
// name; bind group entries may only name resources declared in the same
// document.
type Document struct {
	Name       string         `yaml:"name"`
	Shaders    []ShaderDef    `yaml:"shaders,omitempty"`
	Textures   []TextureDef   `yaml:"textures,omitempty"`
	Uniforms   []UniformDef   `yaml:"uniforms,omitempty"`
	BindGroups []BindGroupDef `yaml:"bind_groups,omitempty"`

	// baseDir resolves relative asset paths; set by Load.
	baseDir string
}

// ShaderDef declares a WGSL shader, either inline or loaded from a file.
type ShaderDef struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path,omitempty"`
	Source string `yaml:"source,omitempty"`
}

// SizeDef is a texture extent in pixels.
type SizeDef struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
}

// SamplerDef configures a pixel texture's sampler.
type SamplerDef struct {
	Filter      string `yaml:"filter,omitempty"`       // linear (default) or nearest
	AddressMode string `yaml:"address_mode,omitempty"` // repeat (default), clamp, or mirror
}

// TextureDef declares a texture: a render target when Size is set, or an
// image-backed pixel texture when Path is set.
type TextureDef struct {
	Name    string      `yaml:"name"`
	Path    string      `yaml:"path,omitempty"`
	Size    *SizeDef    `yaml:"size,omitempty"`
	Format  string      `yaml:"format,omitempty"`
	Sampler *SamplerDef `yaml:"sampler,omitempty"`
}

// FieldDef declares one field of a uniform block.
type FieldDef struct {
	Name   string    `yaml:"name"`
	Kind   string    `yaml:"kind"`
	Values []float32 `yaml:"values,omitempty"`
}

// UniformDef declares a uniform block and its initial values.
type UniformDef struct {
	Name   string     `yaml:"name"`
	Fields []FieldDef `yaml:"fields"`
}

// EntryDef declares one bind group entry. Exactly one of Texture, Sampler, or
// Uniform names the bound resource.
type EntryDef struct {
	Binding uint32 `yaml:"binding"`
	Texture string `yaml:"texture,omitempty"`
	Sampler string `yaml:"sampler,omitempty"`
	Uniform string `yaml:"uniform,omitempty"`
}

// BindGroupDef declares a bind group over previously declared resources.
type BindGroupDef struct {
	Name    string     `yaml:"name"`
	Entries []EntryDef `yaml:"entries"`
}

// Load reads and parses a project document. Relative asset paths inside the
// document resolve against the document's directory.
//
// Parameters:
//   - path: the project file path
//
// Returns:
//   - *Document: the parsed document
//   - error: error if the file cannot be read or parsed
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("project %s: %w", path, err)
	}
	doc.baseDir = filepath.Dir(path)
	return &doc, nil
}

// resolvePath makes a document-relative asset path absolute.
func (d *Document) resolvePath(path string) string {
	if d.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(d.baseDir, path)
}

// parseKind maps a document kind string to a uniform field kind.
func parseKind(kind string) (uniform.FieldKind, error) {
	switch kind {
	case "vec2":
		return uniform.Vec2f, nil
	case "vec3":
		return uniform.Vec3f, nil
	case "vec4":
		return uniform.Vec4f, nil
	case "rgb":
		return uniform.Rgb, nil
	case "rgba":
		return uniform.Rgba, nil
	case "mat4":
		return uniform.Mat4x4f, nil
	default:
		return 0, fmt.Errorf("unknown field kind %q", kind)
	}
}

// parseFormat maps a document format string to a texture format. An empty
// string defaults to rgba8-unorm.
func parseFormat(format string) (wgpu.TextureFormat, error) {
	switch format {
	case "", "rgba8-unorm":
		return wgpu.TextureFormatRGBA8Unorm, nil
	case "bgra8-unorm":
		return wgpu.TextureFormatBGRA8Unorm, nil
	case "rgba16-float":
		return wgpu.TextureFormatRGBA16Float, nil
	case "depth32-float":
		return wgpu.TextureFormatDepth32Float, nil
	case "depth24-plus":
		return wgpu.TextureFormatDepth24Plus, nil
	default:
		return 0, fmt.Errorf("unknown texture format %q", format)
	}
}
