package renderer_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeadlessOrSkip(t *testing.T, width, height int, opts ...renderer.RendererBuilderOption) renderer.Renderer {
	t.Helper()
	r, err := renderer.NewHeadless(width, height, opts...)
	if err != nil {
		t.Skipf("Need software GPU on CI: %v", err)
	}
	t.Cleanup(r.Release)
	return r
}

func TestNewRendererRequiresSurface(t *testing.T) {
	_, err := renderer.NewRenderer(nil, 800, 600)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestHeadlessClearReadback(t *testing.T) {
	r := newHeadlessOrSkip(t, 64, 32, renderer.WithClearColor(wgpu.Color{R: 1, G: 0, B: 0, A: 1}))

	w, h := r.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb, r.SurfaceFormat())
	assert.Equal(t, wgpu.TextureFormatDepth24Plus, r.DepthFormat())

	_, err := r.BeginFrame()
	require.NoError(t, err)
	require.NoError(t, r.EndFrame())
	r.Present()

	img, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
	assert.Equal(t, []byte{255, 0, 0, 255}, img.Pix[0:4])
	last := len(img.Pix) - 4
	assert.Equal(t, []byte{255, 0, 0, 255}, img.Pix[last:])
}

func TestHeadlessResize(t *testing.T) {
	r := newHeadlessOrSkip(t, 16, 16)

	require.NoError(t, r.Resize(40, 20))
	w, h := r.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 20, h)
}

func TestHeadlessReadBuffer(t *testing.T) {
	r := newHeadlessOrSkip(t, 8, 8)

	data := common.SliceToBytes([]uint32{7, 8, 9, 10})
	buf, err := r.Device().CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Readback Source",
		Size:  uint64(len(data)),
		Usage: wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
	})
	require.NoError(t, err)
	defer buf.Release()
	require.NoError(t, r.Queue().WriteBuffer(buf, 0, data))

	got, err := r.ReadBuffer(buf, uint64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
