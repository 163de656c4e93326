package renderer

import "github.com/cogentcore/webgpu/wgpu"

// Device is the part of *wgpu.Device used to create the resources a frame draws with.
// Everything that builds GPU state goes through it so tests can substitute a fake device.
type Device interface {
	CreateBuffer(descriptor *wgpu.BufferDescriptor) (*wgpu.Buffer, error)
	CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)
	CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)
	CreateShaderModule(descriptor *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error)
	CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error)
	CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error)
}

// Queue is the part of *wgpu.Queue used to upload buffer contents.
type Queue interface {
	WriteBuffer(buffer *wgpu.Buffer, bufferOffset uint64, data []byte) error
}

// RenderPass is the part of *wgpu.RenderPassEncoder a draw call records into.
type RenderPass interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset uint64, size uint64)
	SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat, offset uint64, size uint64)
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32)
	DrawIndexed(indexCount uint32, instanceCount uint32, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

// Context is what the host hands to setup code: the device and queue plus the formats and
// size of the render target the pipelines must match.
type Context interface {
	// Device returns the device resources are created on.
	//
	// Returns:
	//   - Device: the device
	Device() Device

	// Queue returns the queue used for uploads.
	//
	// Returns:
	//   - Queue: the queue
	Queue() Queue

	// SurfaceFormat returns the color format of the render target.
	//
	// Returns:
	//   - wgpu.TextureFormat: the color target format
	SurfaceFormat() wgpu.TextureFormat

	// DepthFormat returns the format of the depth attachment.
	//
	// Returns:
	//   - wgpu.TextureFormat: the depth format
	DepthFormat() wgpu.TextureFormat

	// Size returns the render target size in pixels.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)
}

var (
	_ Device     = (*wgpu.Device)(nil)
	_ Queue      = (*wgpu.Queue)(nil)
	_ RenderPass = (*wgpu.RenderPassEncoder)(nil)
)
