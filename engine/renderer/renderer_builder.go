package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBuilderOption configures NewRenderer or NewHeadless.
type RendererBuilderOption func(*renderer)

// WithPresentMode picks between vsync'd FIFO presentation and immediate presentation. It has no
// effect on a headless renderer.
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithForceSoftwareRenderer requests the fallback adapter, which needs a software Vulkan driver
// such as lavapipe or SwiftShader on the host.
//
// Parameters:
//   - force: true to skip hardware adapters
//
// Returns:
//   - RendererBuilderOption: the option
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithClearColor sets the color every frame starts from.
func WithClearColor(color wgpu.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = color
	}
}

// WithDepthFormat overrides the Depth24Plus default of the depth attachment.
func WithDepthFormat(format wgpu.TextureFormat) RendererBuilderOption {
	return func(r *renderer) {
		r.depthFormat = format
	}
}
