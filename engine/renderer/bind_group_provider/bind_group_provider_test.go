package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformProvider(t *testing.T) {
	bg := &wgpu.BindGroup{}
	bgl := &wgpu.BindGroupLayout{}
	uniform := &wgpu.Buffer{}

	p := NewBindGroupProvider("Camera", WithBuffer(0, uniform))
	p.SetBindGroup(bg)
	p.SetBindGroupLayout(bgl)

	assert.Equal(t, "Camera", p.Label())
	assert.Same(t, bg, p.BindGroup())
	assert.Same(t, bgl, p.BindGroupLayout())
	assert.Same(t, uniform, p.Buffer(0))
	assert.Nil(t, p.Buffer(1))
	assert.Equal(t, []int{0}, p.Bindings())
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.IndexBuffer())
	assert.Zero(t, p.IndexCount())
}

func TestBindingsSortedAndNilClears(t *testing.T) {
	p := NewBindGroupProvider("Lights", WithBuffer(0, nil))
	assert.Empty(t, p.Bindings())

	p.SetBuffer(3, &wgpu.Buffer{})
	p.SetBuffer(1, &wgpu.Buffer{})
	assert.Equal(t, []int{1, 3}, p.Bindings())

	p.SetBuffer(3, nil)
	assert.Equal(t, []int{1}, p.Bindings())
}

func TestStage(t *testing.T) {
	p := NewBindGroupProvider("Camera")
	data := []byte{1, 2, 3, 4}

	w := p.Stage(0, 64, data)
	require.NotNil(t, w.Provider)
	assert.Equal(t, "Camera", w.Provider.Label())
	assert.Equal(t, 0, w.Binding)
	assert.Equal(t, uint64(64), w.Offset)
	assert.Equal(t, data, w.Data)
}

func TestMeshProvider(t *testing.T) {
	vb, ib := &wgpu.Buffer{}, &wgpu.Buffer{}

	p := NewBindGroupProvider("Cube", WithMesh(vb, ib, 36))
	assert.Same(t, vb, p.VertexBuffer())
	assert.Same(t, ib, p.IndexBuffer())
	assert.Equal(t, 36, p.IndexCount())
	assert.Empty(t, p.Bindings())

	other := &wgpu.Buffer{}
	p.SetVertexBuffer(other)
	p.SetIndexCount(6)
	assert.Same(t, other, p.VertexBuffer())
	assert.Equal(t, 6, p.IndexCount())
}

func TestReleaseEmptyProvider(t *testing.T) {
	p := NewBindGroupProvider("empty")
	assert.NotPanics(t, p.Release)
	assert.NotPanics(t, p.Release)
	assert.Nil(t, p.BindGroup())
}
