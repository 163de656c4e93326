package renderer

import (
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

type wgpuRendererBackend interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue
	SurfaceFormat() wgpu.TextureFormat
	DepthFormat() wgpu.TextureFormat
	Size() (int, int)

	// ConfigureTarget sizes the render target. Windowed backends configure the surface,
	// headless backends recreate the offscreen color texture. The depth texture is recreated in both cases.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error wrapping common.ErrResourceCreation if a texture could not be created
	ConfigureTarget(width, height int) error

	// SetPresentMode sets the surface present mode. It takes effect on the next ConfigureTarget.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the frame's color view, creates a command encoder, and begins
	// the main render pass cleared to the clear color and depth 1.0. Must be paired with EndFrame.
	//
	// Returns:
	//   - *wgpu.RenderPassEncoder: the open render pass
	//   - error: an error if the target texture could not be acquired
	BeginFrame() (*wgpu.RenderPassEncoder, error)

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame() error

	// Present presents the surface to the display and releases the swapchain texture.
	// Headless backends have nothing to present.
	Present()

	// ReadFrame copies the last rendered offscreen frame back to the CPU.
	//
	// Returns:
	//   - *image.RGBA: the frame pixels
	//   - error: an error if the backend is windowed or the copy fails
	ReadFrame() (*image.RGBA, error)

	// ReadBuffer copies size bytes of a CopySrc buffer back to the CPU.
	//
	// Parameters:
	//   - src: the buffer to read
	//   - size: the number of bytes, a multiple of 4
	//
	// Returns:
	//   - []byte: the buffer contents
	//   - error: an error if the copy or the mapping fails
	ReadBuffer(src *wgpu.Buffer, size uint64) ([]byte, error)

	// Release frees every GPU object owned by the backend.
	Release()
}
