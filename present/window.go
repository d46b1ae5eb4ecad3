// Package present hosts the platform window the renderer presents its
// swapchain into — an external collaborator per §1 (windowing and
// swapchain presentation are out of this engine's core), specified here
// only as far as cmd/bitang needs to drive a real frame loop: open a
// window, report its framebuffer size and wgpu surface descriptor, and
// forward key events to the engine's hotkeys (§6). Adapted from the
// teacher's engine/window package, trimmed of the orbit-camera-oriented
// scroll/middle-mouse callbacks this engine's camera (control-driven, not
// mouse-driven) has no use for.
package present

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is the platform window the renderer's swapchain presents into.
type Window interface {
	// SetUpdateCallback sets the function called once per message-loop
	// iteration (the render tick).
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is
	// resized, in pixels.
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the hotkey dispatch callback (§6 Hotkeys).
	// ctrl reports whether either Control key was held at the time of the
	// press, needed to distinguish plain S from Ctrl+S (save parameters).
	SetKeyDownCallback(callback func(keyCode uint32, ctrl bool))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for
	// creating a WebGPU surface, platform-appropriate (X11, Wayland,
	// Win32, Metal).
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	IsRunning() bool

	// Close destroys the window and releases platform resources.
	Close() error

	// Run blocks, polling platform events and invoking the update
	// callback once per iteration, until the window closes.
	Run()

	// Width and Height return the current framebuffer size in pixels.
	Width() int
	Height() int
}

// hostWindow is the GLFW-backed implementation of Window.
type hostWindow struct {
	title                              string
	width, height                      int
	minWidth, minHeight                int
	maxWidth, maxHeight                int

	internalWindow any

	onUpdate  func()
	onResize  func(width, height int)
	onKeyDown func(keyCode uint32, ctrl bool)
}

var _ Window = &hostWindow{}

// New creates a Window with the given options, opening the platform window
// immediately.
func New(options ...Option) Window {
	w := &hostWindow{
		title:     "bitang",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  320,
		minHeight: 240,
		width:     1920,
		height:    1080,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("present: create window: %v", err))
	}
	return w
}

func (w *hostWindow) SetUpdateCallback(callback func())             { w.onUpdate = callback }
func (w *hostWindow) SetResizeCallback(callback func(int, int))     { w.onResize = callback }
func (w *hostWindow) SetKeyDownCallback(callback func(uint32, bool)) { w.onKeyDown = callback }
func (w *hostWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor    { return platformGetSurfaceDescriptor(w) }
func (w *hostWindow) IsRunning() bool                               { return platformIsRunningCheck(w) }
func (w *hostWindow) Close() error                                  { return platformCloseWindow(w) }
func (w *hostWindow) Width() int                                    { return w.width }
func (w *hostWindow) Height() int                                   { return w.height }

// Run polls platform messages and calls onUpdate once per iteration until
// the window closes, yielding the OS thread between iterations so the
// async load pipeline's goroutines get scheduled.
func (w *hostWindow) Run() {
	for w.IsRunning() {
		if !platformProcessMessages(w) {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}
