// Package wgpubackend is the default implementation of the gpu package's
// contracts, backed by github.com/cogentcore/webgpu. It is adapted from the
// teacher's single-threaded wgpuRendererBackendImpl: one goroutine (the
// render thread) owns the wgpu.Device and every wgpu.Queue submission.
package wgpubackend

import (
	"fmt"

	"github.com/aedm/bitang/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// Device wraps a wgpu.Device/wgpu.Queue pair and implements gpu.Device.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *Queue
}

// New creates a wgpu instance, requests an adapter and device, and returns a
// Device ready to create resources. surface may be nil for headless
// (frame-dump) rendering.
func New(surface *wgpu.Surface, forceFallbackAdapter bool) (*Device, error) {
	return NewWithInstance(wgpu.CreateInstance(nil), surface, forceFallbackAdapter)
}

// NewWithInstance is New, but against a caller-supplied instance. A live
// window needs the surface created from the same instance the adapter is
// requested against (cmd/bitang creates the surface from the window's
// descriptor before the device exists), so New's own instance creation
// can't be used there.
func NewWithInstance(instance *wgpu.Instance, surface *wgpu.Surface, forceFallbackAdapter bool) (*Device, error) {
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    surface,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}

	limits := wgpu.DefaultLimits()
	limits.MaxBindGroups = 8
	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "bitang device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: limits},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}

	return &Device{
		instance: instance,
		adapter:  adapter,
		device:   dev,
		queue:    &Queue{queue: dev.GetQueue()},
	}, nil
}

// Raw exposes the underlying *wgpu.Device for the present package's swapchain
// configuration, which needs adapter/surface/device together.
func (d *Device) Raw() (*wgpu.Instance, *wgpu.Adapter, *wgpu.Device) {
	return d.instance, d.adapter, d.device
}

func (d *Device) Queue() gpu.Queue { return d.queue }

func (d *Device) CreateBuffer(usage gpu.BufferUsage, size uint64) (gpu.Buffer, error) {
	b, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "buffer",
		Usage: toWGPUBufferUsage(usage),
		Size:  size,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create buffer: %w", err)
	}
	return &Buffer{buf: b, size: size}, nil
}

// CreateReadbackBuffer allocates a MapRead|CopyDst buffer padded to wgpu's
// row-pitch alignment, sized for one CopyTextureToBuffer of a width x height
// RGBA8 texture (frame-dump mode, §6).
func (d *Device) CreateReadbackBuffer(width, height uint32) (gpu.ReadbackBuffer, error) {
	tightRow := width * bytesPerPixel
	bytesPerRow := roundUpRow(tightRow, bufferRowAlignment)
	size := uint64(bytesPerRow) * uint64(height)

	b, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "frame-dump readback",
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create readback buffer: %w", err)
	}
	return &ReadbackBuffer{
		device:      d.device,
		buf:         b,
		width:       width,
		height:      height,
		bytesPerRow: bytesPerRow,
		size:        size,
	}, nil
}

func roundUpRow(row, align uint32) uint32 {
	return (row + align - 1) / align * align
}

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	usage := wgpu.TextureUsageTextureBinding
	if desc.RenderTarget {
		usage |= wgpu.TextureUsageRenderAttachment
	}
	if desc.CopyDst {
		usage |= wgpu.TextureUsageCopyDst
	}
	if desc.CopySrc {
		usage |= wgpu.TextureUsageCopySrc
	}
	mips := desc.MipLevelCount
	if mips == 0 {
		mips = 1
	}
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "texture",
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: mips,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        toWGPUFormat(desc.Format),
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture: %w", err)
	}
	return &Texture{tex: tex, desc: desc}, nil
}

func (d *Device) CreateSampler(mode gpu.SamplerMode) (gpu.Sampler, error) {
	sd := &wgpu.SamplerDescriptor{
		MagFilter: wgpu.FilterModeLinear,
		MinFilter: wgpu.FilterModeLinear,
	}
	switch mode {
	case gpu.Repeat:
		sd.AddressModeU, sd.AddressModeV, sd.AddressModeW = wgpu.AddressModeRepeat, wgpu.AddressModeRepeat, wgpu.AddressModeRepeat
	case gpu.ClampToEdge:
		sd.AddressModeU, sd.AddressModeV, sd.AddressModeW = wgpu.AddressModeClampToEdge, wgpu.AddressModeClampToEdge, wgpu.AddressModeClampToEdge
	case gpu.MirroredRepeat:
		sd.AddressModeU, sd.AddressModeV, sd.AddressModeW = wgpu.AddressModeMirrorRepeat, wgpu.AddressModeMirrorRepeat, wgpu.AddressModeMirrorRepeat
	case gpu.Envmap:
		sd.AddressModeU, sd.AddressModeV, sd.AddressModeW = wgpu.AddressModeClampToEdge, wgpu.AddressModeClampToEdge, wgpu.AddressModeClampToEdge
	case gpu.Shadow:
		sd.AddressModeU, sd.AddressModeV, sd.AddressModeW = wgpu.AddressModeClampToEdge, wgpu.AddressModeClampToEdge, wgpu.AddressModeClampToEdge
		sd.Compare = wgpu.CompareFunctionLess
	}
	s, err := d.device.CreateSampler(sd)
	if err != nil {
		return nil, fmt.Errorf("gpu: create sampler: %w", err)
	}
	return &Sampler{sampler: s}, nil
}

func (d *Device) CreateShaderModule(stage gpu.Stage, source string) (gpu.ShaderModule, error) {
	m, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create shader module: %w", err)
	}
	return &ShaderModule{module: m}, nil
}

func (d *Device) CreateCommandEncoder() gpu.CommandEncoder {
	enc, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		panic(fmt.Errorf("gpu: create command encoder: %w", err))
	}
	return &CommandEncoder{enc: enc}
}

func toWGPUBufferUsage(u gpu.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u&gpu.BufferUsageUniform != 0 {
		out |= wgpu.BufferUsageUniform
	}
	if u&gpu.BufferUsageStorage != 0 {
		out |= wgpu.BufferUsageStorage
	}
	if u&gpu.BufferUsageVertex != 0 {
		out |= wgpu.BufferUsageVertex
	}
	if u&gpu.BufferUsageIndex != 0 {
		out |= wgpu.BufferUsageIndex
	}
	if u&gpu.BufferUsageCopyDst != 0 {
		out |= wgpu.BufferUsageCopyDst
	}
	if u&gpu.BufferUsageCopySrc != 0 {
		out |= wgpu.BufferUsageCopySrc
	}
	if u&gpu.BufferUsageIndirect != 0 {
		out |= wgpu.BufferUsageIndirect
	}
	return out
}

func toWGPUFormat(f gpu.PixelFormat) wgpu.TextureFormat {
	switch f {
	case gpu.Rgba16F:
		return wgpu.TextureFormatRGBA16Float
	case gpu.Rgba32F:
		return wgpu.TextureFormatRGBA32Float
	case gpu.Depth32F:
		return wgpu.TextureFormatDepth32Float
	case gpu.Rgba8U:
		return wgpu.TextureFormatRGBA8Uint
	case gpu.Rgba8Srgb:
		return wgpu.TextureFormatRGBA8UnormSrgb
	case gpu.Bgra8Srgb:
		return wgpu.TextureFormatBGRA8UnormSrgb
	case gpu.Bgra8Unorm:
		return wgpu.TextureFormatBGRA8Unorm
	default:
		return wgpu.TextureFormatRGBA8Unorm
	}
}
