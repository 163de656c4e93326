package cube

import (
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// Resources owns the cube's vertex and index buffers. They are written once at creation and
// never again.
type Resources struct {
	mesh       bind_group_provider.BindGroupProvider
	extraUsage wgpu.BufferUsage
}

// ResourcesOption is a functional option for configuring Resources.
type ResourcesOption func(*Resources)

// WithBufferUsage adds usage flags to both mesh buffers, e.g. wgpu.BufferUsageCopySrc to read
// them back.
//
// Parameters:
//   - usage: the extra usage flags
//
// Returns:
//   - ResourcesOption: option function to apply
func WithBufferUsage(usage wgpu.BufferUsage) ResourcesOption {
	return func(r *Resources) {
		r.extraUsage |= usage
	}
}

// NewResources creates the "Vertex Buffer" and "Index Buffer" and uploads the cube through
// the queue.
//
// Parameters:
//   - ctx: the render context providing the device and queue
//   - options: functional options for buffer creation
//
// Returns:
//   - *Resources: the uploaded mesh
//   - error: an error wrapping common.ErrResourceCreation if a buffer could not be created or written
func NewResources(ctx renderer.Context, options ...ResourcesOption) (*Resources, error) {
	r := &Resources{
		mesh: bind_group_provider.NewBindGroupProvider("Cube Mesh"),
	}
	for _, opt := range options {
		opt(r)
	}

	if err := renderer.InitMeshBuffers(ctx, r.mesh, VertexBytes(), IndexBytes(), IndexCount, r.extraUsage); err != nil {
		return nil, err
	}
	return r, nil
}

// Mesh returns the provider holding both buffers, as consumed by renderer.DrawCall.
func (r *Resources) Mesh() bind_group_provider.BindGroupProvider {
	return r.mesh
}

// VertexBuffer returns the vertex buffer.
func (r *Resources) VertexBuffer() *wgpu.Buffer {
	return r.mesh.VertexBuffer()
}

// IndexBuffer returns the index buffer.
func (r *Resources) IndexBuffer() *wgpu.Buffer {
	return r.mesh.IndexBuffer()
}

// IndexCount returns the number of indices drawn per frame.
func (r *Resources) IndexCount() int {
	return r.mesh.IndexCount()
}

// Release frees both buffers.
func (r *Resources) Release() {
	r.mesh.Release()
}
