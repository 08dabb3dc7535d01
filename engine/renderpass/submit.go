package renderpass

import (
	"fmt"

	"github.com/Carmen-Shannon/oxyscope/engine/gfx"
	"github.com/Carmen-Shannon/oxyscope/engine/model"
	"github.com/Carmen-Shannon/oxyscope/engine/registry"
	"github.com/cogentcore/webgpu/wgpu"
)

// Submit walks the set and records every pass into the encoder, resolving all
// handles against the registry. The registry must not be mutated for the
// duration of the call.
//
// A reference that does not resolve is a wiring error and fails the whole
// submission; nothing is retried.
//
// Parameters:
//   - encoder: the command encoder to record into
//   - reg: the registry the spec's handles were issued from
//
// Returns:
//   - error: error if any handle fails to resolve or view creation fails
func (s *Set) Submit(encoder gfx.CommandEncoder, reg registry.Registry) error {
	for i := range s.Passes {
		if err := s.Passes[i].submit(encoder, reg); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pass) submit(encoder gfx.CommandEncoder, reg registry.Registry) error {
	target, ok := reg.GetTexture(p.Target.Texture)
	if !ok {
		return fmt.Errorf("render pass %q: target texture: %w", p.Label, registry.ErrNotFound)
	}

	view := target.View()
	var createdView *wgpu.TextureView
	if p.Target.View == NewViewSrgb {
		v, err := reg.Device().CreateTextureView(target.GPUTexture(), &wgpu.TextureViewDescriptor{
			Format:          SrgbVariant(target.Format()),
			Dimension:       wgpu.TextureViewDimension2D,
			BaseMipLevel:    0,
			MipLevelCount:   1,
			BaseArrayLayer:  0,
			ArrayLayerCount: 1,
			Aspect:          wgpu.TextureAspectAll,
		})
		if err != nil {
			return fmt.Errorf("render pass %q: srgb view over %q: %w", p.Label, target.Name(), err)
		}
		view = v
		createdView = v
	}

	descriptor := &wgpu.RenderPassDescriptor{
		Label: p.Label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     p.Target.LoadOp,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: p.Target.ClearColor,
			},
		},
	}

	if p.Depth != nil {
		depth, ok := reg.GetTexture(p.Depth.Texture)
		if !ok {
			if createdView != nil {
				reg.Device().Release(createdView)
			}
			return fmt.Errorf("render pass %q: depth texture: %w", p.Label, registry.ErrNotFound)
		}
		descriptor.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            depth.View(),
			DepthLoadOp:     p.Depth.LoadOp,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: p.Depth.ClearDepth,
		}
	}

	pass := encoder.BeginRenderPass(descriptor)
	err := p.runSteps(pass, reg)
	pass.End()

	if createdView != nil {
		reg.Device().Release(createdView)
	}
	return err
}

func (p *Pass) runSteps(pass gfx.RenderPassEncoder, reg registry.Registry) error {
	for i := range p.Steps {
		if err := p.Steps[i].draw(pass, reg); err != nil {
			return fmt.Errorf("render pass %q: step %d: %w", p.Label, i, err)
		}
	}
	return nil
}

func (d *PipelineDraw) draw(pass gfx.RenderPassEncoder, reg registry.Registry) error {
	pass.SetPipeline(d.Pipeline)

	switch d.Draw.kind {
	case drawModel:
		for _, mesh := range d.Draw.model.Meshes() {
			for _, ref := range d.VertexBuffers {
				if err := ref.set(pass, mesh); err != nil {
					return err
				}
			}
			for _, ref := range d.BindGroups {
				if err := ref.set(pass, reg, d.Draw.model, mesh); err != nil {
					return err
				}
			}

			pass.SetIndexBuffer(mesh.IndexBuffer)
			pass.DrawIndexed(mesh.IndexCount, d.Draw.instances.Count, d.Draw.instances.First)
		}
	case drawSingle:
		for _, ref := range d.VertexBuffers {
			if err := ref.set(pass, nil); err != nil {
				return err
			}
		}
		for _, ref := range d.BindGroups {
			if err := ref.set(pass, reg, nil, nil); err != nil {
				return err
			}
		}

		pass.Draw(d.Draw.vertices.Count, d.Draw.instances.Count, d.Draw.vertices.First, d.Draw.instances.First)
	}

	return nil
}

func (r VertexBufferRef) set(pass gfx.RenderPassEncoder, currentMesh *model.Mesh) error {
	switch r.kind {
	case vertexBufferFixed:
		pass.SetVertexBuffer(r.slot, r.buffer)
	case vertexBufferModelMesh:
		if currentMesh == nil {
			return fmt.Errorf("vertex buffer slot %d: mesh reference outside a model draw", r.slot)
		}
		pass.SetVertexBuffer(r.slot, currentMesh.VertexBuffer)
	}
	return nil
}

func (r BindGroupRef) set(pass gfx.RenderPassEncoder, reg registry.Registry, currentModel model.Model, currentMesh *model.Mesh) error {
	switch r.kind {
	case bindGroupFixed:
		group, ok := reg.GetBindGroup(r.group)
		if !ok {
			return fmt.Errorf("bind group slot %d: %w", r.slot, registry.ErrNotFound)
		}
		pass.SetBindGroup(r.slot, group.Group())
	case bindGroupModelMaterial:
		if currentMesh == nil || currentModel == nil {
			return fmt.Errorf("bind group slot %d: material reference outside a model draw", r.slot)
		}
		material, ok := currentModel.Material(currentMesh.MaterialIndex)
		if !ok {
			return fmt.Errorf("bind group slot %d: mesh %q references material %d which the model does not have",
				r.slot, currentMesh.Label, currentMesh.MaterialIndex)
		}
		group, ok := reg.GetBindGroup(material.BindGroup)
		if !ok {
			return fmt.Errorf("bind group slot %d: material %q: %w", r.slot, material.Label, registry.ErrNotFound)
		}
		pass.SetBindGroup(r.slot, group.Group())
	}
	return nil
}

// SrgbVariant maps a linear color format to its sRGB-suffixed counterpart.
// Formats without an sRGB variant are returned unchanged.
//
// Parameters:
//   - format: the linear format
//
// Returns:
//   - wgpu.TextureFormat: the sRGB counterpart, or the input format
func SrgbVariant(format wgpu.TextureFormat) wgpu.TextureFormat {
	switch format {
	case wgpu.TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8UnormSrgb
	case wgpu.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8UnormSrgb
	default:
		return format
	}
}
