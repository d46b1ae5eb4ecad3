package image

import "errors"

var (
	errImmutableNotRenderTarget = errors.New("image: immutable images cannot be used as a render target")
	errSwapchainNoView          = errors.New("image: swapchain image has no view set for this frame")
	errSwapchainNotSampleable   = errors.New("image: swapchain images cannot be sampled")
	errNoBackingTexture         = errors.New("image: no backing texture created yet")
)
