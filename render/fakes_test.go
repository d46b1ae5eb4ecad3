package render

import (
	"github.com/aedm/bitang/globals"
	"github.com/aedm/bitang/gpu"
)

// fakeDevice, fakeEncoder and their companions provide just enough of the
// gpu contracts for Chart/Player tests to record call order without
// touching a real GPU, mirroring the steps package's fakes_test.go.

type fakeDevice struct{}

func (d *fakeDevice) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	return &fakeTexture{desc: desc}, nil
}
func (d *fakeDevice) CreateBuffer(gpu.BufferUsage, uint64) (gpu.Buffer, error) { return &fakeBuffer{}, nil }
func (d *fakeDevice) CreateReadbackBuffer(width, height uint32) (gpu.ReadbackBuffer, error) {
	return &fakeReadbackBuffer{width: width, height: height}, nil
}
func (d *fakeDevice) CreateSampler(gpu.SamplerMode) (gpu.Sampler, error)       { return nil, nil }
func (d *fakeDevice) CreateShaderModule(gpu.Stage, string) (gpu.ShaderModule, error) {
	return nil, nil
}
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
func (d *fakeDevice) Queue() gpu.Queue                         { return &fakeQueue{} }

type fakeQueue struct{}

func (q *fakeQueue) Submit(...gpu.CommandBuffer)                           {}
func (q *fakeQueue) WriteBuffer(gpu.Buffer, uint64, []byte)                {}
func (q *fakeQueue) WriteTexture(gpu.Texture, uint32, uint32, []byte)      {}

type fakeBuffer struct{}

func (b *fakeBuffer) Size() uint64 { return 0 }
func (b *fakeBuffer) Release()     {}

type fakeReadbackBuffer struct{ width, height uint32 }

func (b *fakeReadbackBuffer) Size() uint64   { return uint64(b.width) * uint64(b.height) * 4 }
func (b *fakeReadbackBuffer) Release()       {}
func (b *fakeReadbackBuffer) Width() uint32  { return b.width }
func (b *fakeReadbackBuffer) Height() uint32 { return b.height }
func (b *fakeReadbackBuffer) Read() ([]byte, error) {
	return make([]byte, b.width*b.height*4), nil
}

type fakeTexture struct{ desc gpu.TextureDescriptor }

func (t *fakeTexture) Width() uint32                        { return t.desc.Width }
func (t *fakeTexture) Height() uint32                       { return t.desc.Height }
func (t *fakeTexture) MipLevelCount() uint32                { return t.desc.MipLevelCount }
func (t *fakeTexture) Format() gpu.PixelFormat              { return t.desc.Format }
func (t *fakeTexture) ViewMip(level uint32) gpu.TextureView { return &fakeTextureView{} }
func (t *fakeTexture) ViewAll() gpu.TextureView             { return &fakeTextureView{} }
func (t *fakeTexture) Release()                             {}

type fakeTextureView struct{}

func (v *fakeTextureView) Release() {}

type fakeRenderPipeline struct{}

func (p *fakeRenderPipeline) Release() {}

type fakeComputePipeline struct{}

func (p *fakeComputePipeline) Release() {}

type fakeDescriptorSet struct{}

func (s *fakeDescriptorSet) Release() {}

type fakeCommandBuffer struct{}

// fakeEncoder records the order in which render/compute passes are opened,
// which is how the tests assert Draw/Compute/Mipmap steps ran in
// declaration order and that Compute steps are skipped during RenderFrame.
type fakeEncoder struct {
	events        []string
	computePasses []*fakeComputePass
}

func (e *fakeEncoder) BeginRenderPass(gpu.RenderPassDescriptor) gpu.RenderPass {
	e.events = append(e.events, "render")
	return &fakeRenderPass{}
}
func (e *fakeEncoder) BeginComputePass() gpu.ComputePass {
	e.events = append(e.events, "compute")
	cp := &fakeComputePass{}
	e.computePasses = append(e.computePasses, cp)
	return cp
}
func (e *fakeEncoder) CopyTextureToBuffer(gpu.TextureView, gpu.ReadbackBuffer) {}
func (e *fakeEncoder) Finish() gpu.CommandBuffer                                      { return &fakeCommandBuffer{} }

type fakeRenderPass struct{}

func (p *fakeRenderPass) SetPipeline(gpu.RenderPipeline)               {}
func (p *fakeRenderPass) SetDescriptorSet(gpu.DescriptorSet)           {}
func (p *fakeRenderPass) SetVertexBuffer(gpu.Buffer)                   {}
func (p *fakeRenderPass) SetIndexBuffer(gpu.Buffer)                    {}
func (p *fakeRenderPass) SetViewport(x, y, w, h float32)               {}
func (p *fakeRenderPass) Draw(vertexCount, instanceCount uint32)       {}
func (p *fakeRenderPass) DrawIndexed(indexCount, instanceCount uint32) {}
func (p *fakeRenderPass) End()                                         {}

type fakeComputePass struct {
	pipeline gpu.ComputePipeline
}

func (p *fakeComputePass) SetPipeline(cp gpu.ComputePipeline)  { p.pipeline = cp }
func (p *fakeComputePass) SetDescriptorSet(gpu.DescriptorSet) {}
func (p *fakeComputePass) Dispatch(x, y, z uint32)             {}
func (p *fakeComputePass) End()                                {}

// fakeCamera is a no-op camera.Camera implementation; Chart tests only care
// that the render phase calls into it without error, not its matrix output.
type fakeCamera struct {
	setGlobalsCalls       int
	setShadowGlobalsCalls int
}

func (c *fakeCamera) SetGlobals(g *globals.Globals, appTime float32, canvasW, canvasH uint32) {
	c.setGlobalsCalls++
}

func (c *fakeCamera) SetShadowGlobals(g *globals.Globals, lightDirWorldspace [3]float32, shadowMapSize float32) {
	c.setShadowGlobalsCalls++
}

var _ gpu.Device = (*fakeDevice)(nil)
var _ gpu.CommandEncoder = (*fakeEncoder)(nil)
var _ gpu.RenderPass = (*fakeRenderPass)(nil)
var _ gpu.ComputePass = (*fakeComputePass)(nil)
