package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var errNotOpen = errors.New("window is not open")

func (w *glfwWindow) open() error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initialize GLFW: %w: %w", common.ErrResourceCreation, err)
	}
	// no GL context, wgpu drives the surface
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	handle, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create window %q: %w: %w", w.title, common.ErrResourceCreation, err)
	}
	l := w.limits
	handle.SetSizeLimits(l.minWidth, l.minHeight, l.maxWidth, l.maxHeight)
	w.handle = handle
	w.installCallbacks()

	// the surface is sized in pixels, so track the framebuffer rather than the window
	w.width, w.height = handle.GetFramebufferSize()
	common.Logger().Info("window created", "title", w.title, "width", w.width, "height", w.height)
	return nil
}

func (w *glfwWindow) installCallbacks() {
	w.handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if handleKey(w.tracker, key, action) {
			w.closing = true
			w.handle.SetShouldClose(true)
		}
	})
	w.handle.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		handleMouseButton(w.tracker, button, action)
	})
	w.handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.tracker.CursorMoved(float32(x), float32(y))
	})
	w.handle.SetScrollCallback(func(_ *glfw.Window, _, dy float64) {
		w.tracker.Scrolled(float32(dy))
	})
	w.handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resized(width, height)
	})
}

func (w *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.handle == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.handle)
}

func (w *glfwWindow) IsRunning() bool {
	return w.handle != nil && !w.closing && !w.handle.ShouldClose()
}

func (w *glfwWindow) PollEvents() bool {
	if w.handle == nil {
		return false
	}
	glfw.PollEvents()
	return w.IsRunning()
}

func (w *glfwWindow) Close() error {
	if w.handle == nil {
		return errNotOpen
	}
	w.closing = true
	w.handle.Destroy()
	w.handle = nil
	glfw.Terminate()
	return nil
}

// handleKey feeds a key event to tracker and reports whether it asks to close the window.
// Escape closes; every other press or repeat is recorded.
func handleKey(tracker *input.Tracker, key glfw.Key, action glfw.Action) bool {
	if action == glfw.Release {
		return false
	}
	if key == glfw.KeyEscape {
		return action == glfw.Press
	}
	tracker.KeyDown(uint32(key))
	return false
}

func handleMouseButton(tracker *input.Tracker, button glfw.MouseButton, action glfw.Action) {
	if action == glfw.Press || action == glfw.Release {
		tracker.ButtonChanged(int(button), action == glfw.Press)
	}
}
