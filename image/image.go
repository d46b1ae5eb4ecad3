// Package image implements BitangImage: the three flavors of GPU image a
// chart can declare (immutable content, attachment, swapchain) and the size
// rule an attachment resolves against the canvas each frame.
package image

import (
	"math"

	"github.com/aedm/bitang/apperr"
	"github.com/aedm/bitang/gpu"
)

// SizeRuleKind tags which variant of SizeRule is active.
type SizeRuleKind int

const (
	Fixed SizeRuleKind = iota
	CanvasRelative
	At4k
)

// SizeRule is a tagged union: Fixed(W,H) | CanvasRelative(Ratio) | At4k(W,H).
type SizeRule struct {
	Kind  SizeRuleKind
	W, H  uint32
	Ratio float32
}

// Resolve computes the pixel extent a rule yields against canvasW/canvasH.
func (r SizeRule) Resolve(canvasW, canvasH uint32) (uint32, uint32) {
	switch r.Kind {
	case Fixed:
		return r.W, r.H
	case CanvasRelative:
		w := roundMax1(float32(canvasW) * r.Ratio)
		h := roundMax1(float32(canvasH) * r.Ratio)
		return w, h
	case At4k:
		scale := 3840.0 / float32(canvasW)
		w := roundMax1(float32(r.W) * scale)
		h := roundMax1(float32(r.H) * scale)
		return w, h
	default:
		return 1, 1
	}
}

func roundMax1(v float32) uint32 {
	r := uint32(math.Round(float64(v)))
	if r < 1 {
		return 1
	}
	return r
}

// MipLevelCount returns the number of mip levels an image of size (w,h)
// should have: the maximum possible chain if hasMipmaps, else 1.
func MipLevelCount(w, h uint32, hasMipmaps bool) uint32 {
	if !hasMipmaps {
		return 1
	}
	m := w
	if h > m {
		m = h
	}
	levels := uint32(1)
	for m > 1 {
		m /= 2
		levels++
	}
	return levels
}

// Kind tags which BitangImage variant an Image is.
type Kind int

const (
	Immutable Kind = iota
	Attachment
	Swapchain
)

// Image is a GPU-resident 2D image in one of three roles. Immutable images
// are content-addressed and created once; Attachment images resolve their
// size against the canvas every frame and are re-created when it changes;
// Swapchain images receive an externally supplied view per frame.
type Image struct {
	ID   string
	Kind Kind

	Format       gpu.PixelFormat
	SizeRule     SizeRule
	HasMipmaps   bool

	device gpu.Device
	tex    gpu.Texture
	width  uint32
	height uint32

	swapchainView gpu.TextureView
}

// NewAttachment creates an Image that resolves its extent from rule every
// frame via EnforceSizeRule.
func NewAttachment(id string, device gpu.Device, format gpu.PixelFormat, rule SizeRule, hasMipmaps bool) *Image {
	return &Image{ID: id, Kind: Attachment, device: device, Format: format, SizeRule: rule, HasMipmaps: hasMipmaps}
}

// NewImmutable creates a fixed-size, content-addressed Image and uploads no
// data itself; callers write into it via the device's queue after creation.
func NewImmutable(id string, device gpu.Device, format gpu.PixelFormat, w, h uint32, hasMipmaps bool) (*Image, error) {
	img := &Image{ID: id, Kind: Immutable, device: device, Format: format, HasMipmaps: hasMipmaps}
	mips := MipLevelCount(w, h, hasMipmaps)
	tex, err := device.CreateTexture(gpu.TextureDescriptor{
		Width: w, Height: h, MipLevelCount: mips, Format: format,
		Sampled: true, CopyDst: true,
	})
	if err != nil {
		return nil, apperr.New(apperr.GPU, id, err)
	}
	img.tex, img.width, img.height = tex, w, h
	return img, nil
}

// NewSwapchain creates an Image whose view is supplied fresh every frame via
// SetSwapchainImageView.
func NewSwapchain(id string) *Image {
	return &Image{ID: id, Kind: Swapchain}
}

// EnforceSizeRule resolves SizeRule against the canvas extent and
// re-creates the backing texture if the computed size differs from the
// current one. Only meaningful for Attachment images.
func (img *Image) EnforceSizeRule(canvasW, canvasH uint32) error {
	if img.Kind != Attachment {
		return nil
	}
	w, h := img.SizeRule.Resolve(canvasW, canvasH)
	if img.tex != nil && w == img.width && h == img.height {
		return nil
	}
	if img.tex != nil {
		img.tex.Release()
	}
	mips := MipLevelCount(w, h, img.HasMipmaps)
	tex, err := img.device.CreateTexture(gpu.TextureDescriptor{
		Width: w, Height: h, MipLevelCount: mips, Format: img.Format,
		RenderTarget: true, Sampled: true, CopySrc: true,
	})
	if err != nil {
		return apperr.New(apperr.GPU, img.ID, err)
	}
	img.tex, img.width, img.height = tex, w, h
	return nil
}

// MipLevels returns the number of mip levels the current texture has.
func (img *Image) MipLevels() uint32 {
	if img.tex == nil {
		return 1
	}
	return img.tex.MipLevelCount()
}

// Width and Height return the current resolved extent (0,0 before the first
// EnforceSizeRule call on an Attachment image not yet sized).
func (img *Image) Width() uint32  { return img.width }
func (img *Image) Height() uint32 { return img.height }

// ViewAsRenderTarget returns a single-mip-level-0 view, usable as a render
// pass attachment. Fails for Immutable images, which are never render
// targets.
func (img *Image) ViewAsRenderTarget() (gpu.TextureView, error) {
	if img.Kind == Immutable {
		return nil, apperr.New(apperr.Validate, img.ID, errImmutableNotRenderTarget)
	}
	if img.Kind == Swapchain {
		if img.swapchainView == nil {
			return nil, apperr.New(apperr.Validate, img.ID, errSwapchainNoView)
		}
		return img.swapchainView, nil
	}
	return img.tex.ViewMip(0), nil
}

// ViewAsSampler returns a view spanning every mip level, usable as a sampler
// binding. Fails for Swapchain images, which are never sampled.
func (img *Image) ViewAsSampler() (gpu.TextureView, error) {
	if img.Kind == Swapchain {
		return nil, apperr.New(apperr.Validate, img.ID, errSwapchainNotSampleable)
	}
	return img.tex.ViewAll(), nil
}

// ViewMipLevel returns a view of a single mip level.
func (img *Image) ViewMipLevel(n uint32) (gpu.TextureView, error) {
	if img.tex == nil {
		return nil, apperr.New(apperr.Validate, img.ID, errNoBackingTexture)
	}
	return img.tex.ViewMip(n), nil
}

// WritePixels uploads tightly-packed RGBA8 pixels into mip level 0. Only
// meaningful for Immutable images; callers generate the remaining mip
// levels through a GenerateMipLevels step afterward.
func (img *Image) WritePixels(pixels []byte) {
	img.device.Queue().WriteTexture(img.tex, img.width, img.height, pixels)
}

// SetSwapchainImageView installs the view for the current frame on a
// Swapchain image.
func (img *Image) SetSwapchainImageView(v gpu.TextureView, w, h uint32) {
	img.swapchainView = v
	img.width, img.height = w, h
}
