package project

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/Carmen-Shannon/oxyscope/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

// project is the implementation of the Project interface.
type project struct {
	name       string
	shaders    map[string]registry.ShaderHandle
	textures   map[string]registry.TextureHandle
	uniforms   map[string]registry.UniformHandle
	bindGroups map[string]registry.BindGroupHandle
}

// Project maps a populated document's resource names to the registry handles
// they were registered under.
type Project interface {
	// Name returns the document's project name.
	//
	// Returns:
	//   - string: the project name
	Name() string

	// Shader returns the handle registered for the named shader.
	//
	// Parameters:
	//   - name: the shader's document name
	//
	// Returns:
	//   - registry.ShaderHandle: the handle
	//   - bool: false if the document declared no such shader
	Shader(name string) (registry.ShaderHandle, bool)

	// Texture returns the handle registered for the named texture.
	//
	// Parameters:
	//   - name: the texture's document name
	//
	// Returns:
	//   - registry.TextureHandle: the handle
	//   - bool: false if the document declared no such texture
	Texture(name string) (registry.TextureHandle, bool)

	// Uniform returns the handle registered for the named uniform.
	//
	// Parameters:
	//   - name: the uniform's document name
	//
	// Returns:
	//   - registry.UniformHandle: the handle
	//   - bool: false if the document declared no such uniform
	Uniform(name string) (registry.UniformHandle, bool)

	// BindGroup returns the handle registered for the named bind group.
	//
	// Parameters:
	//   - name: the bind group's document name
	//
	// Returns:
	//   - registry.BindGroupHandle: the handle
	//   - bool: false if the document declared no such bind group
	BindGroup(name string) (registry.BindGroupHandle, bool)
}

var _ Project = &project{}

// populateConfig collects Populate's builder options.
type populateConfig struct {
	workers int
}

// PopulateOption is a functional option applied during Populate.
type PopulateOption func(*populateConfig)

// WithWorkers overrides the number of goroutines used for loading shader
// files and decoding images. Defaults to NumCPU-1.
//
// Parameters:
//   - n: the worker count (minimum 1)
//
// Returns:
//   - PopulateOption: the option to apply
func WithWorkers(n int) PopulateOption {
	return func(c *populateConfig) {
		c.workers = max(n, 1)
	}
}

// Populate registers every resource a document declares with the registry, in
// document order per section: shaders, textures, uniforms, then bind groups.
// File reads and image decodes run concurrently; registration itself is
// serial because the registry owns a single GPU device.
//
// A document error (unknown name, bad kind, duplicate resource name) aborts
// the whole populate.
//
// Parameters:
//   - reg: the registry to populate
//   - doc: the loaded document
//   - options: variadic list of PopulateOption functions
//
// Returns:
//   - Project: the name-to-handle mapping of everything registered
//   - error: error if loading, validation, or registration fails
func Populate(reg registry.Registry, doc *Document, options ...PopulateOption) (Project, error) {
	cfg := &populateConfig{workers: max(runtime.NumCPU()-1, 1)}
	for _, opt := range options {
		opt(cfg)
	}

	shaderSources, stagedTextures, err := loadAssets(doc, cfg.workers)
	if err != nil {
		return nil, err
	}

	p := &project{
		name:       doc.Name,
		shaders:    map[string]registry.ShaderHandle{},
		textures:   map[string]registry.TextureHandle{},
		uniforms:   map[string]registry.UniformHandle{},
		bindGroups: map[string]registry.BindGroupHandle{},
	}

	for i, def := range doc.Shaders {
		if _, exists := p.shaders[def.Name]; exists {
			return nil, fmt.Errorf("project %q: duplicate shader %q", doc.Name, def.Name)
		}
		handle, err := reg.RegisterShader(def.Name, shaderSources[i])
		if err != nil {
			return nil, fmt.Errorf("project %q: shader %q: %w", doc.Name, def.Name, err)
		}
		p.shaders[def.Name] = handle
	}

	for i, def := range doc.Textures {
		if _, exists := p.textures[def.Name]; exists {
			return nil, fmt.Errorf("project %q: duplicate texture %q", doc.Name, def.Name)
		}
		handle, err := registerTexture(reg, def, stagedTextures[i])
		if err != nil {
			return nil, fmt.Errorf("project %q: texture %q: %w", doc.Name, def.Name, err)
		}
		p.textures[def.Name] = handle
	}

	for _, def := range doc.Uniforms {
		if _, exists := p.uniforms[def.Name]; exists {
			return nil, fmt.Errorf("project %q: duplicate uniform %q", doc.Name, def.Name)
		}
		data, err := uniformData(def)
		if err != nil {
			return nil, fmt.Errorf("project %q: uniform %q: %w", doc.Name, def.Name, err)
		}
		handle, err := reg.RegisterUniform(def.Name, data)
		if err != nil {
			return nil, fmt.Errorf("project %q: uniform %q: %w", doc.Name, def.Name, err)
		}
		p.uniforms[def.Name] = handle
	}

	for _, def := range doc.BindGroups {
		if _, exists := p.bindGroups[def.Name]; exists {
			return nil, fmt.Errorf("project %q: duplicate bind group %q", doc.Name, def.Name)
		}
		entries, err := p.bindGroupEntries(def)
		if err != nil {
			return nil, fmt.Errorf("project %q: bind group %q: %w", doc.Name, def.Name, err)
		}
		handle, err := reg.RegisterBindGroup(def.Name, entries)
		if err != nil {
			return nil, fmt.Errorf("project %q: bind group %q: %w", doc.Name, def.Name, err)
		}
		p.bindGroups[def.Name] = handle
	}

	return p, nil
}

// loadAssets reads shader files and decodes texture images concurrently.
// Results line up with the document's shader and texture slices; shaders
// declared inline and size-only textures pass through untouched.
func loadAssets(doc *Document, workers int) ([]string, []common.TextureStagingData, error) {
	sources := make([]string, len(doc.Shaders))
	staged := make([]common.TextureStagingData, len(doc.Textures))
	errs := make([]error, len(doc.Shaders)+len(doc.Textures))

	pool := worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)
	var wg sync.WaitGroup

	taskID := 0
	for i, def := range doc.Shaders {
		if def.Path == "" {
			sources[i] = def.Source
			continue
		}
		slot, path := i, doc.resolvePath(def.Path)
		name := def.Name
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				raw, err := os.ReadFile(path)
				if err != nil {
					errs[slot] = fmt.Errorf("shader %q: %w", name, err)
					return nil, err
				}
				sources[slot] = string(raw)
				return nil, nil
			},
		})
		taskID++
	}

	for i, def := range doc.Textures {
		if def.Path == "" {
			continue
		}
		slot, path := i, doc.resolvePath(def.Path)
		name := def.Name
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				imported := common.ImportedTexture{Name: name, Path: path}
				pixels, width, height, err := imported.Decode()
				if err != nil {
					errs[len(doc.Shaders)+slot] = fmt.Errorf("texture %q: %w", name, err)
					return nil, err
				}
				staged[slot] = common.TextureStagingData{Pixels: pixels, Width: width, Height: height}
				return nil, nil
			},
		})
		taskID++
	}

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, nil, fmt.Errorf("project %q: %w", doc.Name, err)
		}
	}
	return sources, staged, nil
}

func registerTexture(reg registry.Registry, def TextureDef, staging common.TextureStagingData) (registry.TextureHandle, error) {
	format, err := parseFormat(def.Format)
	if err != nil {
		return registry.TextureHandle{}, err
	}

	switch {
	case def.Path != "":
		return reg.RegisterPixelTexture(def.Name, staging, format, samplerStaging(def.Sampler))
	case def.Size != nil:
		return reg.RegisterRenderTexture(def.Name, common.NewSize2d(def.Size.Width, def.Size.Height), format)
	default:
		return registry.TextureHandle{}, fmt.Errorf("needs either a path or a size")
	}
}

func samplerStaging(def *SamplerDef) common.SamplerStagingData {
	staging := common.SamplerStagingData{}
	if def == nil {
		return staging
	}

	if def.Filter == "nearest" {
		staging.MagFilter = wgpu.FilterModeNearest
		staging.MinFilter = wgpu.FilterModeNearest
	}
	switch def.AddressMode {
	case "clamp":
		staging.AddressModeU = wgpu.AddressModeClampToEdge
		staging.AddressModeV = wgpu.AddressModeClampToEdge
		staging.AddressModeW = wgpu.AddressModeClampToEdge
	case "mirror":
		staging.AddressModeU = wgpu.AddressModeMirrorRepeat
		staging.AddressModeV = wgpu.AddressModeMirrorRepeat
		staging.AddressModeW = wgpu.AddressModeMirrorRepeat
	}
	return staging
}

func uniformData(def UniformDef) (uniform.Data, error) {
	fields := make([]uniform.Field, 0, len(def.Fields))
	for _, fieldDef := range def.Fields {
		kind, err := parseKind(fieldDef.Kind)
		if err != nil {
			return uniform.Data{}, fmt.Errorf("field %q: %w", fieldDef.Name, err)
		}
		if len(fieldDef.Values) != 0 && len(fieldDef.Values) != kind.Lanes() {
			return uniform.Data{}, fmt.Errorf("field %q: kind %s takes %d values, got %d",
				fieldDef.Name, kind, kind.Lanes(), len(fieldDef.Values))
		}

		var values [16]float32
		copy(values[:], fieldDef.Values)
		fields = append(fields, uniform.Field{Name: fieldDef.Name, Kind: kind, Values: values})
	}
	return uniform.Data{Fields: fields}, nil
}

func (p *project) bindGroupEntries(def BindGroupDef) ([]registry.BindGroupEntry, error) {
	entries := make([]registry.BindGroupEntry, 0, len(def.Entries))
	for _, entryDef := range def.Entries {
		resource, err := p.entryResource(entryDef)
		if err != nil {
			return nil, err
		}
		entries = append(entries, registry.BindGroupEntry{Binding: entryDef.Binding, Resource: resource})
	}
	return entries, nil
}

func (p *project) entryResource(def EntryDef) (registry.Resource, error) {
	named := 0
	for _, name := range []string{def.Texture, def.Sampler, def.Uniform} {
		if name != "" {
			named++
		}
	}
	if named != 1 {
		return registry.Resource{}, fmt.Errorf("binding %d: exactly one of texture, sampler, or uniform must be set", def.Binding)
	}

	switch {
	case def.Texture != "":
		handle, ok := p.textures[def.Texture]
		if !ok {
			return registry.Resource{}, fmt.Errorf("binding %d: unknown texture %q", def.Binding, def.Texture)
		}
		return registry.TextureResource(handle, wgpu.TextureViewDimension2D), nil
	case def.Sampler != "":
		handle, ok := p.textures[def.Sampler]
		if !ok {
			return registry.Resource{}, fmt.Errorf("binding %d: unknown texture %q", def.Binding, def.Sampler)
		}
		return registry.SamplerResource(handle, wgpu.SamplerBindingTypeFiltering), nil
	default:
		handle, ok := p.uniforms[def.Uniform]
		if !ok {
			return registry.Resource{}, fmt.Errorf("binding %d: unknown uniform %q", def.Binding, def.Uniform)
		}
		return registry.UniformResource(handle), nil
	}
}

func (p *project) Name() string {
	return p.name
}

func (p *project) Shader(name string) (registry.ShaderHandle, bool) {
	handle, ok := p.shaders[name]
	return handle, ok
}

func (p *project) Texture(name string) (registry.TextureHandle, bool) {
	handle, ok := p.textures[name]
	return handle, ok
}

func (p *project) Uniform(name string) (registry.UniformHandle, bool) {
	handle, ok := p.uniforms[name]
	return handle, ok
}

func (p *project) BindGroup(name string) (registry.BindGroupHandle, bool) {
	handle, ok := p.bindGroups[name]
	return handle, ok
}
