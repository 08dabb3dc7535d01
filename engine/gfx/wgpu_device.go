package gfx

import (
	"github.com/Carmen-Shannon/oxyscope/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuDevice is the implementation of the Device interface over a live
// wgpu device and queue.
type wgpuDevice struct {
	device *wgpu.Device
	queue  *wgpu.Queue
}

var _ Device = &wgpuDevice{}

// NewDevice wraps a wgpu device and queue in the Device interface.
// Panics if either is nil, since no GPU operation can proceed without them.
//
// Parameters:
//   - device: the wgpu device
//   - queue: the device's submission queue
//
// Returns:
//   - Device: the wrapped device
func NewDevice(device *wgpu.Device, queue *wgpu.Queue) Device {
	if device == nil || queue == nil {
		panic("gfx: device and queue are required")
	}
	return &wgpuDevice{
		device: device,
		queue:  queue,
	}
}

func (d *wgpuDevice) CreateShaderModule(label, source string) (*wgpu.ShaderModule, error) {
	return d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
}

func (d *wgpuDevice) CreateUniformBuffer(label string, contents []byte) (*wgpu.Buffer, error) {
	return d.createBuffer(label, contents, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
}

func (d *wgpuDevice) CreateVertexBuffer(label string, contents []byte) (*wgpu.Buffer, error) {
	return d.createBuffer(label, contents, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
}

func (d *wgpuDevice) CreateIndexBuffer(label string, contents []byte) (*wgpu.Buffer, error) {
	return d.createBuffer(label, contents, wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
}

func (d *wgpuDevice) createBuffer(label string, contents []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             uint64(len(contents)),
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	if len(contents) > 0 {
		d.queue.WriteBuffer(buf, 0, contents)
	}
	return buf, nil
}

func (d *wgpuDevice) WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) {
	d.queue.WriteBuffer(buffer, offset, data)
}

func (d *wgpuDevice) CreateRenderTexture(label string, size common.Size2d, format wgpu.TextureFormat) (*wgpu.Texture, error) {
	return d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              size.Width,
			Height:             size.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
}

func (d *wgpuDevice) CreateDepthTexture(label string, size common.Size2d, format wgpu.TextureFormat) (*wgpu.Texture, error) {
	return d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              size.Width,
			Height:             size.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
}

func (d *wgpuDevice) CreatePixelTexture(label string, staging common.TextureStagingData, format wgpu.TextureFormat) (*wgpu.Texture, error) {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
	)

	return tex, nil
}

func (d *wgpuDevice) CreateTextureView(texture *wgpu.Texture, descriptor *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error) {
	return texture.CreateView(descriptor)
}

func (d *wgpuDevice) CreateSampler(label string, staging common.SamplerStagingData) (*wgpu.Sampler, error) {
	return d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  common.Coalesce(staging.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(staging.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(staging.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(staging.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(staging.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(staging.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(staging.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, 1),
		Compare:       staging.Compare,
	})
}

func (d *wgpuDevice) CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	return d.device.CreateBindGroupLayout(descriptor)
}

func (d *wgpuDevice) CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	return d.device.CreateBindGroup(descriptor)
}

func (d *wgpuDevice) CreatePipelineLayout(label string, layouts []*wgpu.BindGroupLayout) (*wgpu.PipelineLayout, error) {
	return d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: layouts,
	})
}

func (d *wgpuDevice) CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	return d.device.CreateRenderPipeline(descriptor)
}

func (d *wgpuDevice) CreateCommandEncoder() (CommandEncoder, error) {
	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}
	return &wgpuCommandEncoder{encoder: encoder}, nil
}

func (d *wgpuDevice) Submit(buffers ...*wgpu.CommandBuffer) {
	d.queue.Submit(buffers...)
}

func (d *wgpuDevice) Release(resources ...Releasable) {
	for _, r := range resources {
		if r != nil {
			r.Release()
		}
	}
}

// wgpuCommandEncoder adapts *wgpu.CommandEncoder to the CommandEncoder interface.
type wgpuCommandEncoder struct {
	encoder *wgpu.CommandEncoder
}

var _ CommandEncoder = &wgpuCommandEncoder{}

func (e *wgpuCommandEncoder) BeginRenderPass(descriptor *wgpu.RenderPassDescriptor) RenderPassEncoder {
	return &wgpuRenderPassEncoder{pass: e.encoder.BeginRenderPass(descriptor)}
}

func (e *wgpuCommandEncoder) Finish() (*wgpu.CommandBuffer, error) {
	return e.encoder.Finish(nil)
}

func (e *wgpuCommandEncoder) Release() {
	e.encoder.Release()
}

// wgpuRenderPassEncoder adapts *wgpu.RenderPassEncoder to the RenderPassEncoder interface.
type wgpuRenderPassEncoder struct {
	pass *wgpu.RenderPassEncoder
}

var _ RenderPassEncoder = &wgpuRenderPassEncoder{}

func (p *wgpuRenderPassEncoder) SetPipeline(pipeline *wgpu.RenderPipeline) {
	p.pass.SetPipeline(pipeline)
}

func (p *wgpuRenderPassEncoder) SetBindGroup(index uint32, group *wgpu.BindGroup) {
	p.pass.SetBindGroup(index, group, nil)
}

func (p *wgpuRenderPassEncoder) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer) {
	p.pass.SetVertexBuffer(slot, buffer, 0, wgpu.WholeSize)
}

func (p *wgpuRenderPassEncoder) SetIndexBuffer(buffer *wgpu.Buffer) {
	p.pass.SetIndexBuffer(buffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
}

func (p *wgpuRenderPassEncoder) DrawIndexed(indexCount, instanceCount, firstInstance uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, 0, 0, firstInstance)
}

func (p *wgpuRenderPassEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *wgpuRenderPassEncoder) End() {
	p.pass.End()
}
