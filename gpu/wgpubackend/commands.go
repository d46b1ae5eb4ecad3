package wgpubackend

import (
	"github.com/aedm/bitang/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// CommandEncoder wraps a wgpu.CommandEncoder.
type CommandEncoder struct {
	enc *wgpu.CommandEncoder
}

func (e *CommandEncoder) BeginRenderPass(desc gpu.RenderPassDescriptor) gpu.RenderPass {
	colors := make([]wgpu.RenderPassColorAttachment, len(desc.Colors))
	for i, c := range desc.Colors {
		colors[i] = wgpu.RenderPassColorAttachment{
			View:    c.View.(*TextureView).Raw(),
			LoadOp:  toWGPULoadOp(c.Load),
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: float64(c.ClearR), G: float64(c.ClearG), B: float64(c.ClearB), A: float64(c.ClearA)},
		}
	}
	rpd := &wgpu.RenderPassDescriptor{ColorAttachments: colors}
	if desc.Depth != nil {
		rpd.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:       desc.Depth.View.(*TextureView).Raw(),
			DepthLoadOp: toWGPULoadOp(desc.Depth.Load),
			DepthStoreOp: wgpu.StoreOpStore,
		}
	}
	rp := e.enc.BeginRenderPass(rpd)
	return &RenderPass{pass: rp}
}

func (e *CommandEncoder) BeginComputePass() gpu.ComputePass {
	cp := e.enc.BeginComputePass(nil)
	return &ComputePass{pass: cp}
}

func (e *CommandEncoder) CopyTextureToBuffer(src gpu.TextureView, dst gpu.ReadbackBuffer) {
	rb := dst.(*ReadbackBuffer)
	buf, bytesPerRow := rb.Raw()
	e.enc.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  src.(*TextureView).ownerTex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
		},
		&wgpu.ImageCopyBuffer{
			Buffer: buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  bytesPerRow,
				RowsPerImage: rb.Height(),
			},
		},
		&wgpu.Extent3D{Width: rb.Width(), Height: rb.Height(), DepthOrArrayLayers: 1},
	)
}

func (e *CommandEncoder) Finish() gpu.CommandBuffer {
	cb, err := e.enc.Finish(nil)
	if err != nil {
		panic(err)
	}
	return &CommandBuffer{buf: cb}
}

func toWGPULoadOp(op gpu.LoadOp) wgpu.LoadOp {
	if op == gpu.LoadOpClear {
		return wgpu.LoadOpClear
	}
	return wgpu.LoadOpLoad
}

// CommandBuffer wraps a wgpu.CommandBuffer.
type CommandBuffer struct {
	buf *wgpu.CommandBuffer
}

// RenderPass wraps a wgpu.RenderPassEncoder.
type RenderPass struct {
	pass *wgpu.RenderPassEncoder
}

func (p *RenderPass) SetPipeline(rp gpu.RenderPipeline) {
	p.pass.SetPipeline(rp.(*RenderPipeline).pipeline)
}

func (p *RenderPass) SetDescriptorSet(set gpu.DescriptorSet) {
	p.pass.SetBindGroup(set.(*DescriptorSet).index, set.(*DescriptorSet).group, nil)
}

func (p *RenderPass) SetVertexBuffer(b gpu.Buffer) {
	p.pass.SetVertexBuffer(0, b.(*Buffer).Raw(), 0, wgpu.WholeSize)
}

func (p *RenderPass) SetIndexBuffer(b gpu.Buffer) {
	p.pass.SetIndexBuffer(b.(*Buffer).Raw(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
}

func (p *RenderPass) SetViewport(x, y, width, height float32) {
	p.pass.SetViewport(x, y, width, height, 0, 1)
}

func (p *RenderPass) Draw(vertexCount, instanceCount uint32) {
	p.pass.Draw(vertexCount, instanceCount, 0, 0)
}

func (p *RenderPass) DrawIndexed(indexCount, instanceCount uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, 0, 0, 0)
}

func (p *RenderPass) End() { p.pass.End() }

// ComputePass wraps a wgpu.ComputePassEncoder.
type ComputePass struct {
	pass *wgpu.ComputePassEncoder
}

func (p *ComputePass) SetPipeline(cp gpu.ComputePipeline) {
	p.pass.SetPipeline(cp.(*ComputePipeline).pipeline)
}

func (p *ComputePass) SetDescriptorSet(set gpu.DescriptorSet) {
	p.pass.SetBindGroup(set.(*DescriptorSet).index, set.(*DescriptorSet).group, nil)
}

func (p *ComputePass) Dispatch(x, y, z uint32) {
	p.pass.DispatchWorkgroups(x, y, z)
}

func (p *ComputePass) End() { p.pass.End() }
