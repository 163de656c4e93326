package renderer

import (
	"fmt"
	"image"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
// It owns the GPU backend and forwards frame and target management to it.
type renderer struct {
	backend RendererBackend

	forceFallbackAdapter bool
	presentMode          PresentMode
	clearColor           wgpu.Color
	depthFormat          wgpu.TextureFormat
}

// Renderer is the host side of the GPU: it owns the device, queue and render target, and drives
// the per-frame BeginFrame / EndFrame / Present sequence. It also serves as the Context passed
// to setup code.
type Renderer interface {
	Context

	// Resize reconfigures the render target and depth texture for a new size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if the target could not be recreated
	Resize(width, height int) error

	// SetPresentMode sets the surface present mode; it applies on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// BeginFrame opens the frame's render pass, cleared to the clear color and depth 1.0.
	//
	// Returns:
	//   - RenderPass: the render pass to record draws into
	//   - error: an error if the target texture could not be acquired
	BeginFrame() (RenderPass, error)

	// EndFrame ends the render pass and submits the recorded commands.
	//
	// Returns:
	//   - error: an error if the commands could not be finished
	EndFrame() error

	// Present displays the submitted frame. Headless renderers have nothing to present.
	Present()

	// ReadFrame copies the last rendered frame of a headless renderer back to the CPU.
	//
	// Returns:
	//   - *image.RGBA: the frame pixels
	//   - error: an error if the renderer is windowed or the copy fails
	ReadFrame() (*image.RGBA, error)

	// ReadBuffer copies the contents of a buffer created with wgpu.BufferUsageCopySrc back to the CPU.
	//
	// Parameters:
	//   - buf: the buffer to read
	//   - size: the number of bytes to read, a multiple of 4
	//
	// Returns:
	//   - []byte: the buffer contents
	//   - error: an error if the copy or the mapping fails
	ReadBuffer(buf *wgpu.Buffer, size uint64) ([]byte, error)

	// Release frees the device and every object the renderer owns. Resources created through the
	// Context must be released before this.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a windowed Renderer presenting to the surface described by surfaceDescriptor.
//
// Parameters:
//   - surfaceDescriptor: the window surface, see window.Window.SurfaceDescriptor
//   - width: the initial framebuffer width in pixels
//   - height: the initial framebuffer height in pixels
//   - options: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer
//   - error: an error wrapping common.ErrResourceCreation if the device or target could not be created
func NewRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...RendererBuilderOption) (Renderer, error) {
	if surfaceDescriptor == nil {
		return nil, fmt.Errorf("nil surface descriptor: %w", common.ErrConfiguration)
	}
	return newRenderer(surfaceDescriptor, width, height, options...)
}

// NewHeadless creates a Renderer drawing into an offscreen RGBA8 texture that can be read back with ReadFrame.
//
// Parameters:
//   - width: the target width in pixels
//   - height: the target height in pixels
//   - options: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer
//   - error: an error wrapping common.ErrResourceCreation if no adapter is available or the target could not be created
func NewHeadless(width, height int, options ...RendererBuilderOption) (Renderer, error) {
	return newRenderer(nil, width, height, options...)
}

func newRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		presentMode: PresentModeVSync,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
		depthFormat: wgpu.TextureFormatDepth24Plus,
	}
	for _, opt := range options {
		opt(r)
	}

	backend, err := newWGPURendererBackend(surfaceDescriptor, backendConfig{
		forceFallbackAdapter: r.forceFallbackAdapter,
		presentMode:          r.presentMode,
		clearColor:           r.clearColor,
		depthFormat:          r.depthFormat,
	})
	if err != nil {
		return nil, err
	}
	r.backend = backend

	if err := r.backend.ConfigureTarget(width, height); err != nil {
		r.backend.Release()
		return nil, err
	}
	return r, nil
}

func (r *renderer) Device() Device {
	return r.backend.Device()
}

func (r *renderer) Queue() Queue {
	return r.backend.Queue()
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) DepthFormat() wgpu.TextureFormat {
	return r.backend.DepthFormat()
}

func (r *renderer) Size() (int, int) {
	return r.backend.Size()
}

func (r *renderer) Resize(width, height int) error {
	return r.backend.ConfigureTarget(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) BeginFrame() (RenderPass, error) {
	pass, err := r.backend.BeginFrame()
	if err != nil {
		return nil, err
	}
	return pass, nil
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) ReadFrame() (*image.RGBA, error) {
	return r.backend.ReadFrame()
}

func (r *renderer) ReadBuffer(buf *wgpu.Buffer, size uint64) ([]byte, error) {
	return r.backend.ReadBuffer(buf, size)
}

func (r *renderer) Release() {
	r.backend.Release()
}
