package wgpubackend

import (
	"fmt"

	"github.com/aedm/bitang/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// Buffer wraps a wgpu.Buffer.
type Buffer struct {
	buf  *wgpu.Buffer
	size uint64
}

func (b *Buffer) Size() uint64 { return b.size }
func (b *Buffer) Release()     { b.buf.Release() }

// Raw exposes the underlying *wgpu.Buffer for the Queue's WriteBuffer call.
func (b *Buffer) Raw() *wgpu.Buffer { return b.buf }

// bufferRowAlignment is wgpu's required row pitch alignment for
// CopyTextureToBuffer (COPY_BYTES_PER_ROW_ALIGNMENT).
const bufferRowAlignment = 256

// bytesPerPixel is fixed because frame-dump mode always reads back an
// Rgba8Srgb/Rgba8U attachment.
const bytesPerPixel = 4

// ReadbackBuffer wraps a wgpu.Buffer created with MapRead|CopyDst usage,
// padding each row up to bufferRowAlignment the way wgpu's copy requires and
// stripping that padding back out again in Read.
type ReadbackBuffer struct {
	device       *wgpu.Device
	buf          *wgpu.Buffer
	width        uint32
	height       uint32
	bytesPerRow  uint32
	size         uint64
}

func (b *ReadbackBuffer) Size() uint64   { return b.size }
func (b *ReadbackBuffer) Release()       { b.buf.Release() }
func (b *ReadbackBuffer) Width() uint32  { return b.width }
func (b *ReadbackBuffer) Height() uint32 { return b.height }

// Raw exposes the underlying *wgpu.Buffer and its padded row pitch for the
// CommandEncoder's CopyTextureToBuffer call.
func (b *ReadbackBuffer) Raw() (*wgpu.Buffer, uint32) { return b.buf, b.bytesPerRow }

// Read blocks until the copy submitted before it is visible to the host,
// maps the buffer read-only, copies out the tightly packed pixels (dropping
// wgpu's row-pitch padding), then unmaps so the buffer can be reused.
func (b *ReadbackBuffer) Read() ([]byte, error) {
	tightRow := b.width * bytesPerPixel
	out := make([]byte, uint64(tightRow)*uint64(b.height))

	var mapErr error
	done := false
	err := b.buf.MapAsync(wgpu.MapModeRead, 0, b.size, func(status wgpu.BufferMapAsyncStatus) {
		done = true
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("gpu: map readback buffer: status %v", status)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: map readback buffer: %w", err)
	}
	for !done {
		b.device.Poll(true, nil)
	}
	if mapErr != nil {
		return nil, mapErr
	}
	defer b.buf.Unmap()

	mapped, err := b.buf.GetMappedRange(0, b.size)
	if err != nil {
		return nil, fmt.Errorf("gpu: get mapped range: %w", err)
	}
	for row := uint32(0); row < b.height; row++ {
		src := mapped[uint64(row)*uint64(b.bytesPerRow) : uint64(row)*uint64(b.bytesPerRow)+uint64(tightRow)]
		copy(out[uint64(row)*uint64(tightRow):], src)
	}
	return out, nil
}

// Texture wraps a wgpu.Texture and lazily creates per-mip views.
type Texture struct {
	tex  *wgpu.Texture
	desc gpu.TextureDescriptor
}

func (t *Texture) Width() uint32         { return t.desc.Width }
func (t *Texture) Height() uint32        { return t.desc.Height }
func (t *Texture) MipLevelCount() uint32 { return max1(t.desc.MipLevelCount) }
func (t *Texture) Format() gpu.PixelFormat { return t.desc.Format }

func (t *Texture) ViewMip(level uint32) gpu.TextureView {
	v, err := t.tex.CreateView(&wgpu.TextureViewDescriptor{
		BaseMipLevel: level,
		MipLevelCount: 1,
	})
	if err != nil {
		panic(err)
	}
	return &TextureView{view: v, ownerTex: t.tex}
}

func (t *Texture) ViewAll() gpu.TextureView {
	v, err := t.tex.CreateView(&wgpu.TextureViewDescriptor{
		BaseMipLevel:  0,
		MipLevelCount: max1(t.desc.MipLevelCount),
	})
	if err != nil {
		panic(err)
	}
	return &TextureView{view: v, ownerTex: t.tex}
}

func (t *Texture) Release() { t.tex.Release() }

func max1(n uint32) uint32 {
	if n == 0 {
		return 1
	}
	return n
}

// TextureView wraps a wgpu.TextureView. ownerTex is kept alongside because
// wgpu's CopyTextureToBuffer addresses the source texture directly, not a
// view of it (frame-dump readback, §6).
type TextureView struct {
	view     *wgpu.TextureView
	ownerTex *wgpu.Texture
}

func (v *TextureView) Release() { v.view.Release() }

// Raw exposes the underlying *wgpu.TextureView for pass attachment binding.
func (v *TextureView) Raw() *wgpu.TextureView { return v.view }

// Sampler wraps a wgpu.Sampler.
type Sampler struct {
	sampler *wgpu.Sampler
}

func (s *Sampler) Release() { s.sampler.Release() }

// ShaderModule wraps a wgpu.ShaderModule.
type ShaderModule struct {
	module *wgpu.ShaderModule
}

func (m *ShaderModule) Release() { m.module.Release() }
