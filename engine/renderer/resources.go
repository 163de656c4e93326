package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// InitMeshBuffers creates the vertex and index buffers for a mesh, uploads the data through the
// queue and stores both buffers and the index count on the provider. On failure nothing is stored
// and any buffer already created is released.
//
// Parameters:
//   - ctx: the render context providing the device and queue
//   - provider: the BindGroupProvider to store the created vertex and index buffers on
//   - vertexData: the raw vertex data bytes to upload to the GPU
//   - indexData: the raw index data bytes to upload to the GPU
//   - indexCount: the number of indices represented in the indexData, used for draw calls
//   - extraUsage: usage flags added to both buffers, e.g. wgpu.BufferUsageCopySrc for readback
//
// Returns:
//   - error: an error wrapping common.ErrResourceCreation if a buffer could not be created or written
func InitMeshBuffers(ctx Context, provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int, extraUsage wgpu.BufferUsage) error {
	if len(vertexData) == 0 || len(indexData) == 0 {
		return fmt.Errorf("%s: empty mesh data: %w", provider.Label(), common.ErrResourceCreation)
	}

	vb, err := createBuffer(ctx, "Vertex Buffer", vertexData, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst|extraUsage)
	if err != nil {
		return fmt.Errorf("%s: %w", provider.Label(), err)
	}
	ib, err := createBuffer(ctx, "Index Buffer", indexData, wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst|extraUsage)
	if err != nil {
		vb.Release()
		return fmt.Errorf("%s: %w", provider.Label(), err)
	}

	provider.SetVertexBuffer(vb)
	provider.SetIndexBuffer(ib)
	provider.SetIndexCount(indexCount)
	return nil
}

// createBuffer creates a buffer sized to data and uploads data into it.
func createBuffer(ctx Context, label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := ctx.Device().CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             uint64(len(data)),
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w: %w", label, common.ErrResourceCreation, err)
	}
	if err := ctx.Queue().WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return nil, fmt.Errorf("write %s: %w: %w", label, common.ErrResourceCreation, err)
	}
	return buf, nil
}

// InitUniformBindGroup creates a uniform buffer of the given size at binding 0, the bind group layout
// from descriptor, and a bind group tying the two together. All three are stored on the provider,
// which owns them from then on.
//
// Parameters:
//   - ctx: the render context providing the device
//   - provider: the BindGroupProvider receiving the buffer, layout and bind group
//   - descriptor: the layout descriptor; its first entry must be the uniform buffer binding
//   - size: the uniform buffer size in bytes
//
// Returns:
//   - error: an error wrapping common.ErrResourceCreation if any object could not be created
func InitUniformBindGroup(ctx Context, provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, size uint64) error {
	if len(descriptor.Entries) == 0 {
		return fmt.Errorf("%s: bind group layout has no entries: %w", provider.Label(), common.ErrResourceCreation)
	}
	binding := descriptor.Entries[0].Binding
	device := ctx.Device()

	layout, err := device.CreateBindGroupLayout(&descriptor)
	if err != nil {
		return fmt.Errorf("%s: create bind group layout: %w: %w", provider.Label(), common.ErrResourceCreation, err)
	}

	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		layout.Release()
		return fmt.Errorf("%s: create uniform buffer: %w: %w", provider.Label(), common.ErrResourceCreation, err)
	}

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  provider.Label() + " Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		buf.Release()
		layout.Release()
		return fmt.Errorf("%s: create bind group: %w: %w", provider.Label(), common.ErrResourceCreation, err)
	}

	provider.SetBindGroupLayout(layout)
	provider.SetBuffer(int(binding), buf)
	provider.SetBindGroup(bindGroup)
	return nil
}

// WriteBuffers pushes writes built with BindGroupProvider.Stage through the queue in order.
// Writes to bindings without a buffer are skipped.
//
// Parameters:
//   - ctx: the render context providing the queue
//   - writes: the staged writes
//
// Returns:
//   - error: the first queue error, wrapping common.ErrResourceCreation
func WriteBuffers(ctx Context, writes []bind_group_provider.BufferWrite) error {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		if err := ctx.Queue().WriteBuffer(buf, w.Offset, w.Data); err != nil {
			return fmt.Errorf("%s: write binding %d: %w: %w", w.Provider.Label(), w.Binding, common.ErrResourceCreation, err)
		}
	}
	return nil
}
