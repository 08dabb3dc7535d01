package project

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/Carmen-Shannon/oxyscope/engine/gfx/gfxtest"
	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/Carmen-Shannon/oxyscope/engine/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectYAML = `
name: demo
shaders:
  - name: scene
    path: scene.wgsl
  - name: inline
    source: "@vertex fn vs_main() {}"
textures:
  - name: viewport
    size: {width: 800, height: 600}
    format: rgba16-float
  - name: wood
    path: wood.png
    sampler: {filter: nearest, address_mode: clamp}
uniforms:
  - name: material
    fields:
      - {name: base_color, kind: rgb, values: [1, 0.5, 0.25]}
      - {name: uv_scale, kind: vec2, values: [2, 2]}
bind_groups:
  - name: material
    entries:
      - {binding: 0, uniform: material}
      - {binding: 1, texture: wood}
      - {binding: 2, sampler: wood}
`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.yaml"), []byte(projectYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.wgsl"), []byte("// scene shader"), 0o644))

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	file, err := os.Create(filepath.Join(dir, "wood.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, img))
	require.NoError(t, file.Close())

	return filepath.Join(dir, "project.yaml")
}

func TestLoadAndPopulate(t *testing.T) {
	path := writeFixture(t)
	device := &gfxtest.Device{}
	reg := registry.NewRegistry(device)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", doc.Name)

	proj, err := Populate(reg, doc, WithWorkers(2))
	require.NoError(t, err)
	assert.Equal(t, "demo", proj.Name())

	sceneShader, ok := proj.Shader("scene")
	require.True(t, ok)
	shader, ok := reg.GetShader(sceneShader)
	require.True(t, ok)
	assert.Equal(t, "// scene shader", shader.Source())

	inline, ok := proj.Shader("inline")
	require.True(t, ok)
	shader, _ = reg.GetShader(inline)
	assert.Contains(t, shader.Source(), "vs_main")

	viewport, ok := proj.Texture("viewport")
	require.True(t, ok)
	tex, _ := reg.GetTexture(viewport)
	assert.Equal(t, common.NewSize2d(800, 600), tex.Size())

	wood, ok := proj.Texture("wood")
	require.True(t, ok)
	tex, _ = reg.GetTexture(wood)
	assert.Equal(t, common.NewSize2d(2, 2), tex.Size())

	material, ok := proj.Uniform("material")
	require.True(t, ok)
	uni, _ := reg.GetUniform(material)
	require.Len(t, uni.Data().Fields, 2)
	assert.Equal(t, uniform.Rgb, uni.Data().Fields[0].Kind)
	assert.Equal(t, float32(0.5), uni.Data().Fields[0].Values[1])

	group, ok := proj.BindGroup("material")
	require.True(t, ok)
	bg, _ := reg.GetBindGroup(group)
	require.Len(t, bg.Entries(), 3)

	_, ok = proj.Shader("missing")
	assert.False(t, ok)
}

func TestPopulateUnknownBindGroupResource(t *testing.T) {
	reg := registry.NewRegistry(&gfxtest.Device{})
	doc := &Document{
		Name: "broken",
		BindGroups: []BindGroupDef{{
			Name:    "bad",
			Entries: []EntryDef{{Binding: 0, Uniform: "nope"}},
		}},
	}

	_, err := Populate(reg, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown uniform "nope"`)
}

func TestPopulateAmbiguousEntry(t *testing.T) {
	reg := registry.NewRegistry(&gfxtest.Device{})
	doc := &Document{
		Name: "broken",
		BindGroups: []BindGroupDef{{
			Name:    "bad",
			Entries: []EntryDef{{Binding: 0, Uniform: "a", Texture: "b"}},
		}},
	}

	_, err := Populate(reg, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of")
}

func TestPopulateDuplicateName(t *testing.T) {
	reg := registry.NewRegistry(&gfxtest.Device{})
	doc := &Document{
		Name: "broken",
		Uniforms: []UniformDef{
			{Name: "dup", Fields: []FieldDef{{Name: "a", Kind: "vec2"}}},
			{Name: "dup", Fields: []FieldDef{{Name: "b", Kind: "vec2"}}},
		},
	}

	_, err := Populate(reg, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate uniform "dup"`)
}

func TestPopulateBadFieldKind(t *testing.T) {
	reg := registry.NewRegistry(&gfxtest.Device{})
	doc := &Document{
		Name: "broken",
		Uniforms: []UniformDef{
			{Name: "u", Fields: []FieldDef{{Name: "a", Kind: "vec7"}}},
		},
	}

	_, err := Populate(reg, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field kind "vec7"`)
}

func TestPopulateWrongValueCount(t *testing.T) {
	reg := registry.NewRegistry(&gfxtest.Device{})
	doc := &Document{
		Name: "broken",
		Uniforms: []UniformDef{
			{Name: "u", Fields: []FieldDef{{Name: "a", Kind: "vec2", Values: []float32{1, 2, 3}}}},
		},
	}

	_, err := Populate(reg, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "takes 2 values, got 3")
}

func TestPopulateTextureNeedsPathOrSize(t *testing.T) {
	reg := registry.NewRegistry(&gfxtest.Device{})
	doc := &Document{
		Name:     "broken",
		Textures: []TextureDef{{Name: "empty"}},
	}

	_, err := Populate(reg, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs either a path or a size")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestPopulateMissingShaderFile(t *testing.T) {
	dir := t.TempDir()
	reg := registry.NewRegistry(&gfxtest.Device{})
	doc := &Document{
		Name:    "broken",
		Shaders: []ShaderDef{{Name: "gone", Path: "gone.wgsl"}},
		baseDir: dir,
	}

	_, err := Populate(reg, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `shader "gone"`)
}
