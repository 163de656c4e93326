package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption presets a GPU object on a new provider.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBuffer binds buf at the given binding index. A nil buf is ignored.
//
// Parameters:
//   - binding: the binding index
//   - buf: the buffer
//
// Returns:
//   - BindGroupProviderOption: the option
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.SetBuffer(binding, buf)
	}
}

// WithMesh presets the vertex and index buffers and how many indices a draw reads from ib.
func WithMesh(vb, ib *wgpu.Buffer, indexCount int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertices = vb
		p.indices = ib
		p.indexCount = indexCount
	}
}
