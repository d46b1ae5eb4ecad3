// Package gpu defines the contracts the render graph programs against. The
// GPU API itself — devices, queues, textures, buffers, pipelines, and command
// encoders — is treated as an external collaborator; this package only
// specifies its shape. gpu/wgpubackend supplies the default implementation
// over github.com/cogentcore/webgpu.
package gpu

// PixelFormat enumerates the attachment/texture formats the render graph can
// request in an Image descriptor.
type PixelFormat int

const (
	Rgba16F PixelFormat = iota
	Rgba32F
	Depth32F
	Rgba8U
	Rgba8Srgb
	Bgra8Srgb
	Bgra8Unorm
)

// SamplerMode enumerates the pre-declared sampler names a shader can bind.
type SamplerMode int

const (
	Repeat SamplerMode = iota
	ClampToEdge
	MirroredRepeat
	Envmap
	Shadow
)

// Stage identifies a shader stage.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageCompute
)

// TextureDescriptor describes a 2D texture (attachment or immutable) to create.
type TextureDescriptor struct {
	Width, Height uint32
	MipLevelCount uint32
	Format        PixelFormat
	RenderTarget  bool // usable as a color/depth attachment
	Sampled       bool // usable as a sampler binding
	CopyDst       bool // can receive queue writes / blit targets
	CopySrc       bool // can be the source of a copy (frame-dump readback)
}

// Texture is a GPU-resident 2D image with one or more mip levels.
type Texture interface {
	Width() uint32
	Height() uint32
	MipLevelCount() uint32
	Format() PixelFormat
	// ViewMip returns a view of a single mip level, usable as a render target
	// or a blit source/destination.
	ViewMip(level uint32) TextureView
	// ViewAll returns a view spanning every mip level, usable as a sampler
	// binding.
	ViewAll() TextureView
	Release()
}

// TextureView is a view into a Texture (or an externally supplied swapchain
// image) usable as a render target or sampler binding.
type TextureView interface {
	Release()
}

// BufferUsage is a bitmask of how a Buffer will be used.
type BufferUsage int

const (
	BufferUsageUniform BufferUsage = 1 << iota
	BufferUsageStorage
	BufferUsageVertex
	BufferUsageIndex
	BufferUsageCopyDst
	BufferUsageCopySrc
	BufferUsageIndirect
)

// Buffer is a GPU-resident linear allocation.
type Buffer interface {
	Size() uint64
	Release()
}

// ReadbackBuffer is a host-visible buffer sized to receive one
// CommandEncoder.CopyTextureToBuffer copy of a WxH RGBA8 texture, the
// frame-dump mode's only use (§6). Any row padding the backend's copy
// alignment requires is handled internally; Read returns tightly packed
// width*height*4 bytes in row-major top-to-bottom order.
type ReadbackBuffer interface {
	Buffer
	Width() uint32
	Height() uint32
	// Read blocks until the copy submitted before it is visible to the
	// host, then returns the tightly packed RGBA8 pixels. The buffer may
	// be reused for another CopyTextureToBuffer after Read returns.
	Read() ([]byte, error)
}

// Sampler is a GPU-resident texture sampler configured for one SamplerMode.
type Sampler interface {
	Release()
}

// DescriptorSetEntry is one binding within a descriptor set: a uniform
// buffer, storage buffer, sampler, or sampled texture view.
type DescriptorSetEntry struct {
	Binding     uint32
	Buffer      Buffer
	Sampler     Sampler
	TextureView TextureView
}

// DescriptorSetLayout enumerates the bindings a descriptor set must supply,
// as extracted by shader reflection.
type DescriptorSetLayout struct {
	SetIndex uint32
	Entries  []DescriptorSetEntry
}

// DescriptorSet is a GPU-resident bind group created from a DescriptorSetLayout.
type DescriptorSet interface {
	Release()
}

// ShaderModule is a compiled GPU shader program ready for pipeline creation.
type ShaderModule interface {
	Release()
}

// PipelineBlendMode controls color blending for a render pipeline.
type PipelineBlendMode int

const (
	BlendNone PipelineBlendMode = iota // replace
	BlendAlpha
	BlendAdditive
)

// RenderPipelineDescriptor configures a draw call's fixed-function state.
type RenderPipelineDescriptor struct {
	VertexShader   ShaderModule
	FragmentShader ShaderModule
	ColorFormats   []PixelFormat
	DepthFormat    *PixelFormat
	Blend          PipelineBlendMode
	DepthTest      bool
	DepthWrite     bool
}

// ComputePipelineDescriptor configures a compute dispatch's shader.
type ComputePipelineDescriptor struct {
	Shader ShaderModule
}

// RenderPipeline and ComputePipeline are opaque, backend-created pipeline
// objects bound before issuing draw/dispatch commands.
type RenderPipeline interface{ Release() }
type ComputePipeline interface{ Release() }

// LoadOp controls how a render pass attachment is initialized.
type LoadOp int

const (
	LoadOpLoad LoadOp = iota
	LoadOpClear
)

// ColorAttachment binds one color target for a render pass.
type ColorAttachment struct {
	View      TextureView
	Load      LoadOp
	ClearR, ClearG, ClearB, ClearA float32
}

// DepthAttachment binds the depth target for a render pass.
type DepthAttachment struct {
	View TextureView
	Load LoadOp
}

// RenderPassDescriptor configures a single render pass.
type RenderPassDescriptor struct {
	Colors []ColorAttachment
	Depth  *DepthAttachment
}

// RenderPass is an open render pass accepting draw commands.
type RenderPass interface {
	SetPipeline(p RenderPipeline)
	SetDescriptorSet(set DescriptorSet)
	SetVertexBuffer(b Buffer)
	SetIndexBuffer(b Buffer)
	SetViewport(x, y, width, height float32)
	Draw(vertexCount, instanceCount uint32)
	DrawIndexed(indexCount, instanceCount uint32)
	End()
}

// ComputePass is an open compute pass accepting dispatch commands.
type ComputePass interface {
	SetPipeline(p ComputePipeline)
	SetDescriptorSet(set DescriptorSet)
	Dispatch(x, y, z uint32)
	End()
}

// CommandEncoder records a sequence of render/compute passes and copies,
// submitted as one unit of work to the Queue.
type CommandEncoder interface {
	BeginRenderPass(desc RenderPassDescriptor) RenderPass
	BeginComputePass() ComputePass
	// CopyTextureToBuffer copies src (the full extent of dst's Width/Height)
	// into dst, a buffer previously created with Device.CreateReadbackBuffer.
	CopyTextureToBuffer(src TextureView, dst ReadbackBuffer)
	Finish() CommandBuffer
}

// CommandBuffer is a finished, submittable sequence of GPU commands.
type CommandBuffer interface{}

// Queue submits recorded command buffers and performs small host->device
// writes outside of a render/compute pass.
type Queue interface {
	Submit(buffers ...CommandBuffer)
	WriteBuffer(b Buffer, offset uint64, data []byte)
	// WriteTexture uploads tightly-packed RGBA8 pixels into mip level 0 of
	// tex, the inverse of CommandEncoder.CopyTextureToBuffer.
	WriteTexture(tex Texture, width, height uint32, pixels []byte)
}

// Device creates every GPU-resident resource the render graph needs.
type Device interface {
	CreateTexture(desc TextureDescriptor) (Texture, error)
	CreateBuffer(usage BufferUsage, size uint64) (Buffer, error)
	// CreateReadbackBuffer allocates a host-visible buffer sized for one
	// WxH RGBA8 CopyTextureToBuffer copy (frame-dump mode, §6).
	CreateReadbackBuffer(width, height uint32) (ReadbackBuffer, error)
	CreateSampler(mode SamplerMode) (Sampler, error)
	CreateShaderModule(stage Stage, source string) (ShaderModule, error)
	CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error)
	CreateComputePipeline(desc ComputePipelineDescriptor) (ComputePipeline, error)
	CreateDescriptorSet(layout DescriptorSetLayout) (DescriptorSet, error)
	CreateCommandEncoder() CommandEncoder
	Queue() Queue
}
