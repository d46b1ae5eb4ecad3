package wgpubackend

import (
	"fmt"

	"github.com/aedm/bitang/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// Swapchain owns the wgpu.Surface a live window presents into, adapted from
// the teacher's ConfigureSurface/GetCurrentTexture/Present trio in
// wgpu_renderer_backend.go. Frame-dump mode never constructs one: it
// renders straight into an owned attachment and reads it back instead.
type Swapchain struct {
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	format   wgpu.TextureFormat
	width    uint32
	height   uint32

	current *wgpu.Texture
	view    *TextureView
}

// NewSwapchain configures surface for presentation at width x height against
// device/adapter, picking the surface's first reported format and alpha mode.
func NewSwapchain(surface *wgpu.Surface, adapter *wgpu.Adapter, device *wgpu.Device, width, height uint32) (*Swapchain, error) {
	s := &Swapchain{surface: surface, adapter: adapter, device: device}
	if err := s.Configure(width, height); err != nil {
		return nil, err
	}
	return s, nil
}

// Format returns the gpu.PixelFormat the swapchain presents in, so
// render-graph pipelines bound to the Screen target can be created with a
// matching color format.
func (s *Swapchain) Format() gpu.PixelFormat {
	switch s.format {
	case wgpu.TextureFormatBGRA8UnormSrgb:
		return gpu.Bgra8Srgb
	default:
		return gpu.Bgra8Unorm
	}
}

// Configure (re)configures the surface at a new size, called on window
// resize.
func (s *Swapchain) Configure(width, height uint32) error {
	caps := s.surface.GetCapabilities(s.adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return fmt.Errorf("gpu: surface reports no supported formats")
	}
	s.format = caps.Formats[0]
	s.surface.Configure(s.adapter, s.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      s.format,
		Width:       width,
		Height:      height,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	})
	s.width, s.height = width, height
	return nil
}

// AcquireView blocks until the next swapchain image is available and
// returns a view into it, to be installed on the chart's Swapchain image
// via image.Image.SetSwapchainImageView before rendering the frame.
func (s *Swapchain) AcquireView() (gpu.TextureView, error) {
	tex, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("gpu: acquire swapchain texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("gpu: create swapchain view: %w", err)
	}
	s.current = tex
	s.view = &TextureView{view: view, ownerTex: tex}
	return s.view, nil
}

// Present shows the frame rendered into the most recent AcquireView result
// and releases the acquired image.
func (s *Swapchain) Present() {
	if s.current == nil {
		return
	}
	s.surface.Present()
	s.view.Release()
	s.current.Release()
	s.current = nil
	s.view = nil
}
