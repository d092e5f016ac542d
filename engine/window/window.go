package window

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/observable"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides the platform window the viewer renders into, its polled input state and a
// channel publishing framebuffer resizes.
type Window interface {
	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// PollEvents processes pending window events and starts a new frame: presses from the
	// previous frame are forgotten, new events are applied and the frame delta is measured.
	//
	// Returns:
	//   - float32: seconds since the previous PollEvents
	PollEvents() float32

	// Delta returns the frame delta measured by the last PollEvents.
	//
	// Returns:
	//   - float32: seconds
	Delta() float32

	// Input returns the keyboard and cursor state.
	//
	// Returns:
	//   - Input: the input state, updated by PollEvents
	Input() Input

	// Sizes returns the channel that publishes the framebuffer size on every resize. Its last
	// value is the current size, so observers attached late start from the right viewport.
	//
	// Returns:
	//   - *observable.Observable[common.Size]: the resize channel
	Sizes() *observable.Observable[common.Size]

	// Size returns the current framebuffer size in pixels.
	//
	// Returns:
	//   - common.Size: the size
	Size() common.Size

	// SetCursorCaptured hides and locks the cursor for mouse look, or releases it.
	//
	// Parameters:
	//   - captured: true to capture the cursor
	SetCursorCaptured(captured bool)

	// CursorCaptured reports whether the cursor is captured.
	//
	// Returns:
	//   - bool: true if captured
	CursorCaptured() bool

	// SetTitle replaces the window title.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the window to close; IsRunning reports false afterwards.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state and the input it collects.
type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height are the requested client size until the platform window reports the
	// framebuffer size.
	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	input    *inputState
	clock    *frameClock
	sizes    *observable.Observable[common.Size]
	captured bool
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window
//   - error: error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "oxy-viewer",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
		input:     newInputState(),
	}
	for _, opt := range options {
		opt(w)
	}
	if w.width < w.minWidth || w.height < w.minHeight {
		return nil, fmt.Errorf("window size %dx%d is below the minimum %dx%d", w.width, w.height, w.minWidth, w.minHeight)
	}

	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	w.sizes = observable.New(common.Size{Width: w.width, Height: w.height})
	w.clock = newFrameClock(platformNow)
	return w, nil
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) PollEvents() float32 {
	w.input.nextFrame()
	platformProcessMessages(w)
	w.clock.tick()
	return w.clock.seconds()
}

func (w *engineWindow) Delta() float32 {
	return w.clock.seconds()
}

func (w *engineWindow) Input() Input {
	return w.input
}

func (w *engineWindow) Sizes() *observable.Observable[common.Size] {
	return w.sizes
}

func (w *engineWindow) Size() common.Size {
	return common.Size{Width: w.width, Height: w.height}
}

func (w *engineWindow) SetCursorCaptured(captured bool) {
	if w.captured == captured {
		return
	}
	w.captured = captured
	platformSetCursorCaptured(w, captured)
}

func (w *engineWindow) CursorCaptured() bool {
	return w.captured
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

// resized records a framebuffer size change and publishes it. Minimised windows report a
// zero size, which is not published so projections keep their last valid viewport.
func (w *engineWindow) resized(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height
	w.sizes.Notify(common.Size{Width: width, Height: height})
}
