package steps

import "github.com/aedm/bitang/gpu"

// fakeDevice and its companions record just enough call history for the
// tests in this package to assert on; none of them touch a real GPU.

type fakeDevice struct {
	writes []fakeWrite
}

type fakeWrite struct {
	buffer gpu.Buffer
	data   []byte
}

func (d *fakeDevice) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	return &fakeTexture{desc: desc}, nil
}
func (d *fakeDevice) CreateBuffer(gpu.BufferUsage, uint64) (gpu.Buffer, error)      { return &fakeBuffer{}, nil }
func (d *fakeDevice) CreateReadbackBuffer(width, height uint32) (gpu.ReadbackBuffer, error) {
	return &fakeReadbackBuffer{width: width, height: height}, nil
}
func (d *fakeDevice) CreateSampler(gpu.SamplerMode) (gpu.Sampler, error)            { return nil, nil }
func (d *fakeDevice) CreateShaderModule(gpu.Stage, string) (gpu.ShaderModule, error) { return nil, nil }
func (d *fakeDevice) CreateRenderPipeline(gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	return &fakeRenderPipeline{}, nil
}
func (d *fakeDevice) CreateComputePipeline(gpu.ComputePipelineDescriptor) (gpu.ComputePipeline, error) {
	return &fakeComputePipeline{}, nil
}
func (d *fakeDevice) CreateDescriptorSet(gpu.DescriptorSetLayout) (gpu.DescriptorSet, error) {
	return &fakeDescriptorSet{}, nil
}
func (d *fakeDevice) CreateCommandEncoder() gpu.CommandEncoder { return &fakeEncoder{} }
func (d *fakeDevice) Queue() gpu.Queue                         { return &fakeQueue{device: d} }

type fakeQueue struct{ device *fakeDevice }

func (q *fakeQueue) Submit(...gpu.CommandBuffer) {}
func (q *fakeQueue) WriteBuffer(b gpu.Buffer, offset uint64, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	q.device.writes = append(q.device.writes, fakeWrite{buffer: b, data: cp})
}
func (q *fakeQueue) WriteTexture(tex gpu.Texture, width, height uint32, pixels []byte) {}

type fakeBuffer struct{ size uint64 }

func (b *fakeBuffer) Size() uint64 { return b.size }
func (b *fakeBuffer) Release()     {}

type fakeReadbackBuffer struct{ width, height uint32 }

func (b *fakeReadbackBuffer) Size() uint64   { return uint64(b.width) * uint64(b.height) * 4 }
func (b *fakeReadbackBuffer) Release()       {}
func (b *fakeReadbackBuffer) Width() uint32  { return b.width }
func (b *fakeReadbackBuffer) Height() uint32 { return b.height }
func (b *fakeReadbackBuffer) Read() ([]byte, error) {
	return make([]byte, b.width*b.height*4), nil
}

type fakeTextureView struct{ name string }

func (v *fakeTextureView) Release() {}

type fakeTexture struct{ desc gpu.TextureDescriptor }

func (t *fakeTexture) Width() uint32            { return t.desc.Width }
func (t *fakeTexture) Height() uint32           { return t.desc.Height }
func (t *fakeTexture) MipLevelCount() uint32    { return t.desc.MipLevelCount }
func (t *fakeTexture) Format() gpu.PixelFormat  { return t.desc.Format }
func (t *fakeTexture) ViewMip(level uint32) gpu.TextureView {
	return &fakeTextureView{name: "mip"}
}
func (t *fakeTexture) ViewAll() gpu.TextureView { return &fakeTextureView{name: "all"} }
func (t *fakeTexture) Release()                 {}

var _ gpu.Texture = (*fakeTexture)(nil)

type fakeRenderPipeline struct{}

func (p *fakeRenderPipeline) Release() {}

type fakeComputePipeline struct{}

func (p *fakeComputePipeline) Release() {}

type fakeDescriptorSet struct{ name string }

func (s *fakeDescriptorSet) Release() {}

type fakeCommandBuffer struct{}

type fakeEncoder struct {
	renderPasses  []*fakeRenderPass
	computePasses []*fakeComputePass
}

func (e *fakeEncoder) BeginRenderPass(desc gpu.RenderPassDescriptor) gpu.RenderPass {
	rp := &fakeRenderPass{desc: desc}
	e.renderPasses = append(e.renderPasses, rp)
	return rp
}
func (e *fakeEncoder) BeginComputePass() gpu.ComputePass {
	cp := &fakeComputePass{}
	e.computePasses = append(e.computePasses, cp)
	return cp
}
func (e *fakeEncoder) CopyTextureToBuffer(gpu.TextureView, gpu.ReadbackBuffer) {}
func (e *fakeEncoder) Finish() gpu.CommandBuffer                                      { return &fakeCommandBuffer{} }

type fakeDrawCall struct {
	indexed                      bool
	vertexCount, indexCount      uint32
	instanceCount                uint32
}

type fakeRenderPass struct {
	desc             gpu.RenderPassDescriptor
	viewportW, viewportH float32
	pipeline         gpu.RenderPipeline
	descriptorSets   []gpu.DescriptorSet
	draws            []fakeDrawCall
	ended            bool
}

func (p *fakeRenderPass) SetPipeline(rp gpu.RenderPipeline)        { p.pipeline = rp }
func (p *fakeRenderPass) SetDescriptorSet(s gpu.DescriptorSet)     { p.descriptorSets = append(p.descriptorSets, s) }
func (p *fakeRenderPass) SetVertexBuffer(gpu.Buffer)               {}
func (p *fakeRenderPass) SetIndexBuffer(gpu.Buffer)                {}
func (p *fakeRenderPass) SetViewport(x, y, w, h float32)           { p.viewportW, p.viewportH = w, h }
func (p *fakeRenderPass) Draw(vertexCount, instanceCount uint32) {
	p.draws = append(p.draws, fakeDrawCall{vertexCount: vertexCount, instanceCount: instanceCount})
}
func (p *fakeRenderPass) DrawIndexed(indexCount, instanceCount uint32) {
	p.draws = append(p.draws, fakeDrawCall{indexed: true, indexCount: indexCount, instanceCount: instanceCount})
}
func (p *fakeRenderPass) End() { p.ended = true }

type fakeComputePass struct {
	pipeline       gpu.ComputePipeline
	descriptorSets []gpu.DescriptorSet
	dispatchX, dispatchY, dispatchZ uint32
	ended          bool
}

func (p *fakeComputePass) SetPipeline(cp gpu.ComputePipeline)    { p.pipeline = cp }
func (p *fakeComputePass) SetDescriptorSet(s gpu.DescriptorSet)  { p.descriptorSets = append(p.descriptorSets, s) }
func (p *fakeComputePass) Dispatch(x, y, z uint32)               { p.dispatchX, p.dispatchY, p.dispatchZ = x, y, z }
func (p *fakeComputePass) End()                                   { p.ended = true }

var _ gpu.Device = (*fakeDevice)(nil)
var _ gpu.CommandEncoder = (*fakeEncoder)(nil)
var _ gpu.RenderPass = (*fakeRenderPass)(nil)
var _ gpu.ComputePass = (*fakeComputePass)(nil)
