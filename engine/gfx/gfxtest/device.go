// package gfxtest provides a recording, GPU-free implementation of the gfx
// interfaces for tests. Created objects are distinct empty wgpu handles, so
// identity comparisons (e.g. "the texture changed after resize") behave the
// same way they do against a live device.
package gfxtest

import (
	"fmt"

	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/Carmen-Shannon/oxyscope/engine/gfx"
	"github.com/cogentcore/webgpu/wgpu"
)

// Device records every call made against it and returns fresh handle objects.
// The zero value is ready to use.
type Device struct {
	// Calls is the ordered log of method names invoked on the device.
	Calls []string

	// ShaderSources maps created shader modules to the WGSL source they were
	// compiled from.
	ShaderSources map[*wgpu.ShaderModule]string

	// BufferContents maps created buffers to their last-written contents.
	BufferContents map[*wgpu.Buffer][]byte

	// TextureSizes maps created textures to their requested extents.
	TextureSizes map[*wgpu.Texture]common.Size2d

	// TextureViews maps created views back to the texture they view.
	TextureViews map[*wgpu.TextureView]*wgpu.Texture

	// ViewFormats maps created views to the reinterpreted format requested at
	// creation, or the zero format for default views.
	ViewFormats map[*wgpu.TextureView]wgpu.TextureFormat

	// LayoutDescriptors maps created bind group layouts to their descriptors.
	LayoutDescriptors map[*wgpu.BindGroupLayout]wgpu.BindGroupLayoutDescriptor

	// GroupDescriptors maps created bind groups to their descriptors.
	GroupDescriptors map[*wgpu.BindGroup]wgpu.BindGroupDescriptor

	// PipelineLayouts maps created pipeline layouts to the bind group layouts
	// they were built from, in index order.
	PipelineLayouts map[*wgpu.PipelineLayout][]*wgpu.BindGroupLayout

	// PipelineDescriptors maps created render pipelines to their descriptors.
	PipelineDescriptors map[*wgpu.RenderPipeline]wgpu.RenderPipelineDescriptor

	// Released holds every object passed to Release.
	Released []gfx.Releasable

	// Submitted counts command buffers submitted to the queue.
	Submitted int

	// FailShaderCompile makes CreateShaderModule return an error when set.
	FailShaderCompile bool

	// FailBindGroupCreate makes CreateBindGroup return an error when set.
	FailBindGroupCreate bool

	// Ops is the flattened log of render pass commands recorded by encoders
	// created from this device, in execution order.
	Ops []string
}

var _ gfx.Device = &Device{}

func (d *Device) record(call string) {
	d.Calls = append(d.Calls, call)
}

func (d *Device) CreateShaderModule(label, source string) (*wgpu.ShaderModule, error) {
	d.record("CreateShaderModule")
	if d.FailShaderCompile {
		return nil, fmt.Errorf("shader %q failed to compile", label)
	}
	module := new(wgpu.ShaderModule)
	if d.ShaderSources == nil {
		d.ShaderSources = map[*wgpu.ShaderModule]string{}
	}
	d.ShaderSources[module] = source
	return module, nil
}

func (d *Device) CreateUniformBuffer(label string, contents []byte) (*wgpu.Buffer, error) {
	d.record("CreateUniformBuffer")
	return d.newBuffer(contents), nil
}

func (d *Device) CreateVertexBuffer(label string, contents []byte) (*wgpu.Buffer, error) {
	d.record("CreateVertexBuffer")
	return d.newBuffer(contents), nil
}

func (d *Device) CreateIndexBuffer(label string, contents []byte) (*wgpu.Buffer, error) {
	d.record("CreateIndexBuffer")
	return d.newBuffer(contents), nil
}

func (d *Device) newBuffer(contents []byte) *wgpu.Buffer {
	buf := new(wgpu.Buffer)
	if d.BufferContents == nil {
		d.BufferContents = map[*wgpu.Buffer][]byte{}
	}
	d.BufferContents[buf] = append([]byte(nil), contents...)
	return buf
}

func (d *Device) WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) {
	d.record("WriteBuffer")
	if d.BufferContents == nil {
		d.BufferContents = map[*wgpu.Buffer][]byte{}
	}
	existing := d.BufferContents[buffer]
	needed := int(offset) + len(data)
	if len(existing) < needed {
		grown := make([]byte, needed)
		copy(grown, existing)
		existing = grown
	}
	copy(existing[offset:], data)
	d.BufferContents[buffer] = existing
}

func (d *Device) CreateRenderTexture(label string, size common.Size2d, format wgpu.TextureFormat) (*wgpu.Texture, error) {
	d.record("CreateRenderTexture")
	return d.newTexture(size), nil
}

func (d *Device) CreateDepthTexture(label string, size common.Size2d, format wgpu.TextureFormat) (*wgpu.Texture, error) {
	d.record("CreateDepthTexture")
	return d.newTexture(size), nil
}

func (d *Device) CreatePixelTexture(label string, staging common.TextureStagingData, format wgpu.TextureFormat) (*wgpu.Texture, error) {
	d.record("CreatePixelTexture")
	return d.newTexture(common.Size2d{Width: staging.Width, Height: staging.Height}), nil
}

func (d *Device) newTexture(size common.Size2d) *wgpu.Texture {
	tex := new(wgpu.Texture)
	if d.TextureSizes == nil {
		d.TextureSizes = map[*wgpu.Texture]common.Size2d{}
	}
	d.TextureSizes[tex] = size
	return tex
}

func (d *Device) CreateTextureView(texture *wgpu.Texture, descriptor *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error) {
	d.record("CreateTextureView")
	view := new(wgpu.TextureView)
	if d.TextureViews == nil {
		d.TextureViews = map[*wgpu.TextureView]*wgpu.Texture{}
	}
	d.TextureViews[view] = texture
	if d.ViewFormats == nil {
		d.ViewFormats = map[*wgpu.TextureView]wgpu.TextureFormat{}
	}
	if descriptor != nil {
		d.ViewFormats[view] = descriptor.Format
	}
	return view, nil
}

func (d *Device) CreateSampler(label string, staging common.SamplerStagingData) (*wgpu.Sampler, error) {
	d.record("CreateSampler")
	return new(wgpu.Sampler), nil
}

func (d *Device) CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	d.record("CreateBindGroupLayout")
	layout := new(wgpu.BindGroupLayout)
	if d.LayoutDescriptors == nil {
		d.LayoutDescriptors = map[*wgpu.BindGroupLayout]wgpu.BindGroupLayoutDescriptor{}
	}
	d.LayoutDescriptors[layout] = *descriptor
	return layout, nil
}

func (d *Device) CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	d.record("CreateBindGroup")
	if d.FailBindGroupCreate {
		return nil, fmt.Errorf("bind group %q failed to create", descriptor.Label)
	}
	group := new(wgpu.BindGroup)
	if d.GroupDescriptors == nil {
		d.GroupDescriptors = map[*wgpu.BindGroup]wgpu.BindGroupDescriptor{}
	}
	d.GroupDescriptors[group] = *descriptor
	return group, nil
}

func (d *Device) CreatePipelineLayout(label string, layouts []*wgpu.BindGroupLayout) (*wgpu.PipelineLayout, error) {
	d.record("CreatePipelineLayout")
	layout := new(wgpu.PipelineLayout)
	if d.PipelineLayouts == nil {
		d.PipelineLayouts = map[*wgpu.PipelineLayout][]*wgpu.BindGroupLayout{}
	}
	d.PipelineLayouts[layout] = append([]*wgpu.BindGroupLayout(nil), layouts...)
	return layout, nil
}

func (d *Device) CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	d.record("CreateRenderPipeline")
	pipeline := new(wgpu.RenderPipeline)
	if d.PipelineDescriptors == nil {
		d.PipelineDescriptors = map[*wgpu.RenderPipeline]wgpu.RenderPipelineDescriptor{}
	}
	d.PipelineDescriptors[pipeline] = *descriptor
	return pipeline, nil
}

func (d *Device) CreateCommandEncoder() (gfx.CommandEncoder, error) {
	d.record("CreateCommandEncoder")
	return &Encoder{device: d}, nil
}

func (d *Device) Submit(buffers ...*wgpu.CommandBuffer) {
	d.record("Submit")
	d.Submitted += len(buffers)
}

func (d *Device) Release(resources ...gfx.Releasable) {
	for _, r := range resources {
		if r != nil {
			d.Released = append(d.Released, r)
		}
	}
}

// Encoder is the recording CommandEncoder produced by Device.CreateCommandEncoder.
type Encoder struct {
	device *Device

	// Passes holds the descriptors of every render pass begun on this encoder.
	Passes []wgpu.RenderPassDescriptor
}

var _ gfx.CommandEncoder = &Encoder{}

func (e *Encoder) BeginRenderPass(descriptor *wgpu.RenderPassDescriptor) gfx.RenderPassEncoder {
	e.Passes = append(e.Passes, *descriptor)
	e.device.Ops = append(e.device.Ops, fmt.Sprintf("begin pass %q", descriptor.Label))
	return &PassEncoder{device: e.device}
}

func (e *Encoder) Finish() (*wgpu.CommandBuffer, error) {
	e.device.Ops = append(e.device.Ops, "finish")
	return new(wgpu.CommandBuffer), nil
}

func (e *Encoder) Release() {}

// PassEncoder records render pass commands into the owning device's op log.
type PassEncoder struct {
	device *Device

	// Pipelines holds every pipeline bound on this pass, in order.
	Pipelines []*wgpu.RenderPipeline

	// BoundGroups holds every bind group bound on this pass, in order.
	BoundGroups []*wgpu.BindGroup
}

var _ gfx.RenderPassEncoder = &PassEncoder{}

func (p *PassEncoder) SetPipeline(pipeline *wgpu.RenderPipeline) {
	p.Pipelines = append(p.Pipelines, pipeline)
	p.device.Ops = append(p.device.Ops, "set pipeline")
}

func (p *PassEncoder) SetBindGroup(index uint32, group *wgpu.BindGroup) {
	p.BoundGroups = append(p.BoundGroups, group)
	p.device.Ops = append(p.device.Ops, fmt.Sprintf("set bind group %d", index))
}

func (p *PassEncoder) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer) {
	p.device.Ops = append(p.device.Ops, fmt.Sprintf("set vertex buffer %d", slot))
}

func (p *PassEncoder) SetIndexBuffer(buffer *wgpu.Buffer) {
	p.device.Ops = append(p.device.Ops, "set index buffer")
}

func (p *PassEncoder) DrawIndexed(indexCount, instanceCount, firstInstance uint32) {
	p.device.Ops = append(p.device.Ops, fmt.Sprintf("draw indexed %d x%d", indexCount, instanceCount))
}

func (p *PassEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.device.Ops = append(p.device.Ops, fmt.Sprintf("draw %d x%d", vertexCount, instanceCount))
}

func (p *PassEncoder) End() {
	p.device.Ops = append(p.device.Ops, "end pass")
}
