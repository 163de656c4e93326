// Package window opens the GLFW window the viewer presents to and turns its events into input.State.
package window

import (
	"github.com/Carmen-Shannon/oxy-cube/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is the viewer's on-screen surface and its event source. It satisfies engine.EventSource.
type Window interface {
	// PollEvents pumps pending events without blocking.
	//
	// Returns:
	//   - bool: false once the window has been asked to close
	PollEvents() bool

	// Input returns the input gathered since the previous call.
	Input() input.State

	// SetResizeCallback registers the function told about framebuffer size changes. A minimized
	// window (0x0) is not reported.
	SetResizeCallback(callback func(width, height int))

	// SurfaceDescriptor describes the native window for wgpu surface creation. It is nil before
	// the window opens and after it closes.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	IsRunning() bool

	// Width and Height are the framebuffer size in pixels, which exceeds the window size on
	// high-DPI displays.
	Width() int
	Height() int

	// Close destroys the window and shuts GLFW down.
	Close() error
}

type sizeLimits struct {
	minWidth, minHeight int
	maxWidth, maxHeight int
}

type glfwWindow struct {
	title  string
	width  int
	height int
	limits sizeLimits

	handle  *glfw.Window
	closing bool

	tracker  *input.Tracker
	onResize func(width, height int)
}

var _ Window = &glfwWindow{}

// NewWindow opens an 800x600 window titled "oxy-cube" unless options say otherwise.
// It must run on the main goroutine, which stays locked to its OS thread.
//
// Parameters:
//   - options: functional options applied over the defaults
//
// Returns:
//   - Window: the open window
//   - error: an error wrapping common.ErrResourceCreation if GLFW or the window fails
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &glfwWindow{
		title:   "oxy-cube",
		width:   800,
		height:  600,
		limits:  sizeLimits{minWidth: 200, minHeight: 150, maxWidth: 3840, maxHeight: 2160},
		tracker: input.NewTracker(),
	}
	for _, opt := range options {
		opt(w)
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *glfwWindow) Input() input.State {
	return w.tracker.Flush()
}

func (w *glfwWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *glfwWindow) Width() int  { return w.width }
func (w *glfwWindow) Height() int { return w.height }

// resized stores the framebuffer size and forwards it unless the window is minimized.
func (w *glfwWindow) resized(width, height int) {
	w.width, w.height = width, height
	if width == 0 || height == 0 || w.onResize == nil {
		return
	}
	w.onResize(width, height)
}
