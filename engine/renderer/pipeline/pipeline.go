package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNonContiguousBindGroups is returned when the bind groups attached to a
// pipeline do not occupy indices 0..N-1 without gaps. WebGPU pipeline layouts
// are positional, so a sparse assignment cannot be expressed.
var ErrNonContiguousBindGroups = errors.New("pipeline: bind group indices must be contiguous from 0")

// pipeline is the implementation of the Pipeline interface. It holds the
// built WebGPU objects alongside the configuration they were built from.
type pipeline struct {
	label string

	shader        registry.ShaderHandle
	vertexEntry   string
	fragmentEntry string

	// bindGroups maps pipeline group index to the registry bind group whose
	// layout occupies that slot.
	bindGroups map[uint32]registry.BindGroupHandle

	vertexLayouts []wgpu.VertexBufferLayout
	colorFormats  []wgpu.TextureFormat
	depthFormat   wgpu.TextureFormat
	depthEnabled  bool

	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState

	layout         *wgpu.PipelineLayout
	renderPipeline *wgpu.RenderPipeline
}

// Pipeline is a built render pipeline together with the registry references
// it was derived from. Rebuild it (via Build) after any referenced bind group
// changes its layout shape.
type Pipeline interface {
	// Label returns the pipeline's debug label.
	//
	// Returns:
	//   - string: the label supplied at build time
	Label() string

	// GPUPipeline returns the underlying WebGPU render pipeline.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the built pipeline object
	GPUPipeline() *wgpu.RenderPipeline

	// BindGroup returns the registry bind group occupying the given pipeline
	// group index, if one was attached.
	//
	// Parameters:
	//   - index: the pipeline group index
	//
	// Returns:
	//   - registry.BindGroupHandle: the attached bind group
	//   - bool: false if no bind group occupies the index
	BindGroup(index uint32) (registry.BindGroupHandle, bool)
}

var _ Pipeline = &pipeline{}

// Build resolves the pipeline's shader and bind groups against the registry
// and creates the pipeline layout and render pipeline on its device.
//
// Bind group indices must be contiguous from 0; a gap is a construction error
// and nothing is created on the GPU. A shader or bind group handle that no
// longer resolves fails the build the same way.
//
// Parameters:
//   - reg: the registry the pipeline's handles were issued from
//   - label: the debug label attached to the created GPU objects
//   - opts: a variadic list of BuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the built pipeline
//   - error: error if validation fails or GPU object creation fails
func Build(reg registry.Registry, label string, opts ...BuilderOption) (Pipeline, error) {
	p := &pipeline{
		label:             label,
		vertexEntry:       "vs_main",
		fragmentEntry:     "fs_main",
		bindGroups:        map[uint32]registry.BindGroupHandle{},
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	shader, ok := reg.GetShader(p.shader)
	if !ok {
		return nil, fmt.Errorf("pipeline %q: shader: %w", label, registry.ErrNotFound)
	}

	layouts, err := p.groupLayouts(reg)
	if err != nil {
		return nil, err
	}

	layout, err := reg.Device().CreatePipelineLayout(label+" Layout", layouts)
	if err != nil {
		return nil, fmt.Errorf("pipeline %q: layout: %w", label, err)
	}
	p.layout = layout

	targets := make([]wgpu.ColorTargetState, 0, len(p.colorFormats))
	for _, format := range p.colorFormats {
		target := wgpu.ColorTargetState{
			Format:    format,
			WriteMask: p.writeMask,
		}
		if p.blendEnabled {
			target.Blend = p.blendState
		}
		targets = append(targets, target)
	}

	descriptor := &wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader.Module(),
			EntryPoint: p.vertexEntry,
			Buffers:    p.vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader.Module(),
			EntryPoint: p.fragmentEntry,
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if p.depthEnabled {
		descriptor.DepthStencil = &wgpu.DepthStencilState{
			Format:              p.depthFormat,
			DepthWriteEnabled:   p.depthWriteEnabled,
			DepthCompare:        wgpu.CompareFunctionLess,
			DepthBias:           p.depthBias,
			DepthBiasSlopeScale: p.depthBiasSlopeScale,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	rp, err := reg.Device().CreateRenderPipeline(descriptor)
	if err != nil {
		reg.Device().Release(layout)
		return nil, fmt.Errorf("pipeline %q: %w", label, err)
	}
	p.renderPipeline = rp
	return p, nil
}

// groupLayouts collects the attached bind groups' layouts in index order,
// rejecting sparse assignments before anything touches the device.
func (p *pipeline) groupLayouts(reg registry.Registry) ([]*wgpu.BindGroupLayout, error) {
	indices := make([]uint32, 0, len(p.bindGroups))
	for index := range p.bindGroups {
		indices = append(indices, index)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	for slot, index := range indices {
		if index != uint32(slot) {
			return nil, fmt.Errorf("pipeline %q: group index %d with %d groups attached: %w",
				p.label, index, len(indices), ErrNonContiguousBindGroups)
		}
	}

	layouts := make([]*wgpu.BindGroupLayout, 0, len(indices))
	for _, index := range indices {
		group, ok := reg.GetBindGroup(p.bindGroups[index])
		if !ok {
			return nil, fmt.Errorf("pipeline %q: bind group at index %d: %w", p.label, index, registry.ErrNotFound)
		}
		layouts = append(layouts, group.Layout())
	}
	return layouts, nil
}

func (p *pipeline) Label() string {
	return p.label
}

func (p *pipeline) GPUPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroup(index uint32) (registry.BindGroupHandle, bool) {
	group, ok := p.bindGroups[index]
	return group, ok
}
