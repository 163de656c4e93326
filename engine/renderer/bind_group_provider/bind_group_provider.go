package bind_group_provider

import (
	"maps"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// BufferWrite is one queued upload into a provider's binding buffer.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// BindGroupProvider holds the GPU objects one drawable concern needs at draw time.
//
// A uniform provider (the camera) carries a layout, a bind group and one buffer per binding.
// A mesh provider (the cube) carries a vertex buffer, an index buffer and the index count.
// The renderer fills either kind in, and whoever created the provider releases it.
type BindGroupProvider interface {
	Label() string

	// BindGroup returns nil until the renderer has created the group.
	BindGroup() *wgpu.BindGroup
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer bound at binding, or nil.
	Buffer(binding int) *wgpu.Buffer

	// Bindings lists the binding indices that hold a buffer, in ascending order.
	Bindings() []int

	// Stage builds a write of data into the buffer at binding, starting at offset.
	//
	// Parameters:
	//   - binding: the binding index to write to
	//   - offset: the byte offset into the buffer
	//   - data: the bytes to upload
	//
	// Returns:
	//   - BufferWrite: the write, ready for renderer.WriteBuffers
	Stage(binding int, offset uint64, data []byte) BufferWrite

	VertexBuffer() *wgpu.Buffer
	IndexBuffer() *wgpu.Buffer
	IndexCount() int

	SetBindGroup(bg *wgpu.BindGroup)
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)
	SetBuffer(binding int, buf *wgpu.Buffer)
	SetVertexBuffer(buf *wgpu.Buffer)
	SetIndexBuffer(buf *wgpu.Buffer)
	SetIndexCount(count int)

	// Release frees every GPU object the provider holds. Calling it twice is a no-op.
	Release()
}

type bindGroupProvider struct {
	label string

	group  *wgpu.BindGroup
	layout *wgpu.BindGroupLayout
	// binding index -> uniform or storage buffer
	uniforms map[int]*wgpu.Buffer

	vertices   *wgpu.Buffer
	indices    *wgpu.Buffer
	indexCount int
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider returns an empty provider. The label also names the GPU objects the
// renderer creates for it.
//
// Parameters:
//   - label: the debug label
//   - options: functional options presetting GPU objects the caller already owns
//
// Returns:
//   - BindGroupProvider: the provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{label: label, uniforms: map[int]*wgpu.Buffer{}}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string                          { return p.label }
func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup             { return p.group }
func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout { return p.layout }
func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer        { return p.uniforms[binding] }
func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer             { return p.vertices }
func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer              { return p.indices }
func (p *bindGroupProvider) IndexCount() int                        { return p.indexCount }

func (p *bindGroupProvider) Bindings() []int {
	return slices.Sorted(maps.Keys(p.uniforms))
}

func (p *bindGroupProvider) Stage(binding int, offset uint64, data []byte) BufferWrite {
	return BufferWrite{Provider: p, Binding: binding, Offset: offset, Data: data}
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup)              { p.group = bg }
func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) { p.layout = bgl }
func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer)             { p.vertices = buf }
func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer)              { p.indices = buf }
func (p *bindGroupProvider) SetIndexCount(count int)                      { p.indexCount = count }

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if buf == nil {
		delete(p.uniforms, binding)
		return
	}
	p.uniforms[binding] = buf
}

func (p *bindGroupProvider) Release() {
	// the group references the buffers and the layout, so it goes first
	if p.group != nil {
		p.group.Release()
		p.group = nil
	}
	for _, binding := range p.Bindings() {
		p.uniforms[binding].Release()
		delete(p.uniforms, binding)
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.vertices != nil {
		p.vertices.Release()
		p.vertices = nil
	}
	if p.indices != nil {
		p.indices.Release()
		p.indices = nil
	}
	p.indexCount = 0
}
