package cube

import (
	"errors"
	"image"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine"
	"github.com/Carmen-Shannon/oxy-cube/engine/camera"
	"github.com/Carmen-Shannon/oxy-cube/engine/input"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/renderertest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCamera records the calls the adapter makes.
type fakeCamera struct {
	calls      []string
	projection [4]float32
	target     mgl32.Vec3
	polar      mgl32.Vec3
	aspect     float32
	inputs     []input.State

	projectionErr error
	updateErr     error

	group  *wgpu.BindGroup
	layout *wgpu.BindGroupLayout
}

var _ OrbitCamera = &fakeCamera{}

func newFakeCamera() *fakeCamera {
	return &fakeCamera{group: &wgpu.BindGroup{}, layout: &wgpu.BindGroupLayout{}}
}

func (f *fakeCamera) SetProjection(fovDegrees, aspect, near, far float32) error {
	f.calls = append(f.calls, "SetProjection")
	f.projection = [4]float32{fovDegrees, aspect, near, far}
	return f.projectionErr
}

func (f *fakeCamera) SetTarget(target mgl32.Vec3) camera.OrbitCamera {
	f.calls = append(f.calls, "SetTarget")
	f.target = target
	return nil
}

func (f *fakeCamera) SetPolar(polar mgl32.Vec3) camera.OrbitCamera {
	f.calls = append(f.calls, "SetPolar")
	f.polar = polar
	return nil
}

func (f *fakeCamera) SetAspect(aspect float32) {
	f.calls = append(f.calls, "SetAspect")
	f.aspect = aspect
}

func (f *fakeCamera) Input(state input.State) {
	f.calls = append(f.calls, "Input")
	f.inputs = append(f.inputs, state)
}

func (f *fakeCamera) Update() error {
	f.calls = append(f.calls, "Update")
	return f.updateErr
}

func (f *fakeCamera) BindGroup() *wgpu.BindGroup {
	return f.group
}

func (f *fakeCamera) BindGroupLayout() *wgpu.BindGroupLayout {
	return f.layout
}

func TestCameraAdapterConfigure(t *testing.T) {
	cam := newFakeCamera()
	a := NewCameraAdapter(cam)

	err := a.Configure(45, 4.0/3.0, 0.1, 100, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{2, 0.5, 0.25})
	require.NoError(t, err)

	assert.Equal(t, []string{"SetProjection", "SetTarget", "SetPolar", "Update"}, cam.calls)
	assert.Equal(t, [4]float32{45, 4.0 / 3.0, 0.1, 100}, cam.projection)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cam.target)
	assert.Equal(t, mgl32.Vec3{2, 0.5, 0.25}, cam.polar)
	assert.Same(t, cam.group, a.BindGroup())
	assert.Same(t, cam.layout, a.BindGroupLayout())
}

func TestCameraAdapterConfigureErrors(t *testing.T) {
	cam := newFakeCamera()
	cam.projectionErr = common.ErrConfiguration
	err := NewCameraAdapter(cam).Configure(0, 1, 0.1, 100, mgl32.Vec3{}, mgl32.Vec3{2, 0, 0})
	assert.ErrorIs(t, err, common.ErrConfiguration)
	assert.Equal(t, []string{"SetProjection"}, cam.calls)

	cam = newFakeCamera()
	cam.updateErr = common.ErrResourceCreation
	err = NewCameraAdapter(cam).Configure(45, 1, 0.1, 100, mgl32.Vec3{}, mgl32.Vec3{2, 0, 0})
	assert.ErrorIs(t, err, common.ErrResourceCreation)
}

func TestCameraAdapterOnInput(t *testing.T) {
	cam := newFakeCamera()
	cam.updateErr = errors.New("queue gone")
	a := NewCameraAdapter(cam)

	state := input.State{DeltaX: 4, Buttons: map[int]bool{common.MouseButtonLeft: true}}
	a.OnInput(state)

	assert.Equal(t, []string{"Input", "Update"}, cam.calls)
	assert.Equal(t, float32(4), cam.inputs[0].DeltaX)
}

func TestCameraAdapterResize(t *testing.T) {
	cam := newFakeCamera()
	a := NewCameraAdapter(cam)

	a.Resize(0, 600)
	a.Resize(800, 0)
	assert.Empty(t, cam.calls)

	a.Resize(1024, 512)
	assert.Equal(t, []string{"SetAspect", "Update"}, cam.calls)
	assert.Equal(t, float32(2), cam.aspect)

	require.NoError(t, a.SetPolar(mgl32.Vec3{3, 1, 0}))
	assert.Equal(t, mgl32.Vec3{3, 1, 0}, cam.polar)
}

func TestNewResources(t *testing.T) {
	ctx := renderertest.NewContext()

	res, err := NewResources(ctx)
	require.NoError(t, err)

	require.Len(t, ctx.Dev.Buffers, 2)
	vbDesc, ibDesc := ctx.Dev.Buffers[0], ctx.Dev.Buffers[1]
	assert.Equal(t, "Vertex Buffer", vbDesc.Label)
	assert.Equal(t, uint64(576), vbDesc.Size)
	assert.Equal(t, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst, vbDesc.Usage)
	assert.Equal(t, "Index Buffer", ibDesc.Label)
	assert.Equal(t, uint64(144), ibDesc.Size)
	assert.Equal(t, wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst, ibDesc.Usage)

	assert.Same(t, ctx.Dev.CreatedBuffers[0], res.VertexBuffer())
	assert.Same(t, ctx.Dev.CreatedBuffers[1], res.IndexBuffer())
	assert.Equal(t, 36, res.IndexCount())

	vbWrites := ctx.Q.WritesTo(res.VertexBuffer())
	require.Len(t, vbWrites, 1)
	assert.Equal(t, VertexBytes(), vbWrites[0].Data)
	ibWrites := ctx.Q.WritesTo(res.IndexBuffer())
	require.Len(t, ibWrites, 1)
	assert.Equal(t, IndexBytes(), ibWrites[0].Data)
}

func TestNewResourcesExtraUsage(t *testing.T) {
	ctx := renderertest.NewContext()

	_, err := NewResources(ctx, WithBufferUsage(wgpu.BufferUsageCopySrc))
	require.NoError(t, err)

	assert.Equal(t, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst|wgpu.BufferUsageCopySrc, ctx.Dev.Buffers[0].Usage)
	assert.Equal(t, wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst|wgpu.BufferUsageCopySrc, ctx.Dev.Buffers[1].Usage)
}

func TestNewResourcesDeviceFailure(t *testing.T) {
	ctx := renderertest.NewContext()
	ctx.Dev.FailOn = renderertest.MethodCreateBuffer

	res, err := NewResources(ctx)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, common.ErrResourceCreation)
	assert.ErrorIs(t, err, renderertest.ErrInjected)
	assert.Empty(t, ctx.Q.Writes)
}

func TestFrameRecorderUsesCameraGroupDirectly(t *testing.T) {
	ctx := renderertest.NewContext()
	res, err := NewResources(ctx)
	require.NoError(t, err)
	p, err := BuildPipeline(ctx, &wgpu.BindGroupLayout{})
	require.NoError(t, err)

	group := &wgpu.BindGroup{}
	rec := NewFrameRecorder(p, res, group)
	assert.Same(t, group, rec.camera, "the recorder keeps the camera's group, not a wrapper that could release it")

	pass := &renderertest.RenderPass{}
	rec.Record(pass)
	rec.Record(pass)

	draws := 0
	for _, cmd := range pass.Commands {
		switch cmd.Name {
		case "SetBindGroup":
			require.Len(t, cmd.Args, 2)
			assert.Equal(t, uint32(0), cmd.Args[0])
			assert.Same(t, group, cmd.Args[1])
		case "DrawIndexed":
			draws++
		}
	}
	assert.Equal(t, 2, draws)
}

func TestBuildPipeline(t *testing.T) {
	ctx := renderertest.NewContext()
	layout := &wgpu.BindGroupLayout{}

	p, err := BuildPipeline(ctx, layout)
	require.NoError(t, err)
	assert.Same(t, ctx.Dev.CreatedPipelines[0], p.RenderPipeline())

	require.Len(t, ctx.Dev.PipelineLayouts, 1)
	assert.Equal(t, "Render Pipeline Layout", ctx.Dev.PipelineLayouts[0].Label)
	require.Len(t, ctx.Dev.PipelineLayouts[0].BindGroupLayouts, 1)
	assert.Same(t, layout, ctx.Dev.PipelineLayouts[0].BindGroupLayouts[0])

	require.Len(t, ctx.Dev.RenderPipelines, 1)
	desc := ctx.Dev.RenderPipelines[0]
	assert.Equal(t, "Render Pipeline", desc.Label)
	assert.Equal(t, "vs_main", desc.Vertex.EntryPoint)
	assert.Equal(t, []wgpu.VertexBufferLayout{VertexLayout()}, desc.Vertex.Buffers)

	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, desc.Primitive.Topology)
	assert.Equal(t, wgpu.FrontFaceCCW, desc.Primitive.FrontFace)
	assert.Equal(t, wgpu.CullModeBack, desc.Primitive.CullMode)

	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.TextureFormatDepth24Plus, desc.DepthStencil.Format)
	assert.True(t, desc.DepthStencil.DepthWriteEnabled)
	assert.Equal(t, wgpu.CompareFunctionLess, desc.DepthStencil.DepthCompare)
	assert.Equal(t, wgpu.CompareFunctionAlways, desc.DepthStencil.StencilFront.Compare)
	assert.Zero(t, desc.DepthStencil.DepthBias)

	assert.Equal(t, uint32(1), desc.Multisample.Count)
	assert.Equal(t, uint32(0xFFFFFFFF), desc.Multisample.Mask)
	assert.False(t, desc.Multisample.AlphaToCoverageEnabled)

	require.NotNil(t, desc.Fragment)
	assert.Equal(t, "fs_main", desc.Fragment.EntryPoint)
	require.Len(t, desc.Fragment.Targets, 1)
	target := desc.Fragment.Targets[0]
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, target.Format)
	assert.Equal(t, wgpu.ColorWriteMaskAll, target.WriteMask)
	require.NotNil(t, target.Blend)
	assert.Equal(t, wgpu.BlendStateReplace, *target.Blend)
}

func TestBuildPipelineConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		layout *wgpu.BindGroupLayout
		format wgpu.TextureFormat
		depth  wgpu.TextureFormat
	}{
		{name: "nil camera layout", format: wgpu.TextureFormatBGRA8UnormSrgb, depth: wgpu.TextureFormatDepth24Plus},
		{name: "undefined color format", layout: &wgpu.BindGroupLayout{}, format: wgpu.TextureFormatUndefined, depth: wgpu.TextureFormatDepth24Plus},
		{name: "integer color format", layout: &wgpu.BindGroupLayout{}, format: wgpu.TextureFormatRGBA32Uint, depth: wgpu.TextureFormatDepth24Plus},
		{name: "depth as color format", layout: &wgpu.BindGroupLayout{}, format: wgpu.TextureFormatDepth32Float, depth: wgpu.TextureFormatDepth24Plus},
		{name: "color as depth format", layout: &wgpu.BindGroupLayout{}, format: wgpu.TextureFormatBGRA8UnormSrgb, depth: wgpu.TextureFormatRGBA8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := renderertest.NewContext()
			ctx.Format = tt.format
			ctx.Depth = tt.depth

			p, err := BuildPipeline(ctx, tt.layout)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, common.ErrConfiguration)
			assert.Empty(t, ctx.Dev.Calls, "nothing reaches the device")
		})
	}
}

func TestBuildPipelineDeviceFailure(t *testing.T) {
	ctx := renderertest.NewContext()
	ctx.Dev.FailOn = renderertest.MethodCreateShaderModule

	_, err := BuildPipeline(ctx, &wgpu.BindGroupLayout{})
	assert.ErrorIs(t, err, common.ErrPipelineCreation)
	assert.ErrorIs(t, err, renderertest.ErrInjected)
}

// hostEvents is a window that stays open and reports no input.
type hostEvents struct {
	onResize func(width, height int)
}

func (h *hostEvents) PollEvents() bool { return true }
func (h *hostEvents) Input() input.State { return input.State{} }
func (h *hostEvents) SetResizeCallback(cb func(width, height int)) { h.onResize = cb }

// hostTarget hands out one recording pass per frame.
type hostTarget struct {
	passes []*renderertest.RenderPass
}

func (h *hostTarget) Resize(int, int) error { return nil }
func (h *hostTarget) EndFrame() error { return nil }
func (h *hostTarget) Present() {}

func (h *hostTarget) BeginFrame() (renderer.RenderPass, error) {
	pass := &renderertest.RenderPass{}
	h.passes = append(h.passes, pass)
	return pass, nil
}

func (h *hostTarget) ReadFrame() (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func TestEndToEnd800x600(t *testing.T) {
	ctx := renderertest.NewContext()
	cam, err := camera.NewOrbitCamera(ctx, 45, 1, 0.1, 100)
	require.NoError(t, err)

	app, err := NewApp(ctx, cam, DefaultView())
	require.NoError(t, err)

	// Configure derived the aspect from the 800x600 context and uploaded the camera once.
	camWrites := ctx.Q.WritesTo(cam.BindGroupProvider().Buffer(0))
	require.Len(t, camWrites, 1)
	assert.Len(t, camWrites[0].Data, 80)
	assert.InDelta(t, 2, cam.Position().Z(), 1e-5)

	target := &hostTarget{}
	e := engine.NewEngine(&hostEvents{}, target, engine.WithMaxFrames(1))
	require.NoError(t, e.Run(app))

	require.Len(t, target.passes, 1)
	pass := target.passes[0]
	assert.Equal(t, []string{"SetPipeline", "SetVertexBuffer", "SetIndexBuffer", "SetBindGroup", "DrawIndexed"}, pass.Names())

	cmds := pass.Commands
	assert.Same(t, app.Pipeline().RenderPipeline(), cmds[0].Args[0])
	assert.Equal(t, []any{uint32(0), app.Resources().VertexBuffer(), uint64(0), uint64(wgpu.WholeSize)}, cmds[1].Args)
	assert.Equal(t, []any{app.Resources().IndexBuffer(), wgpu.IndexFormatUint32, uint64(0), uint64(wgpu.WholeSize)}, cmds[2].Args)
	assert.Equal(t, []any{uint32(0), cam.BindGroup()}, cmds[3].Args)
	assert.Equal(t, []any{uint32(36), uint32(1), uint32(0), int32(0), uint32(0)}, cmds[4].Args)

	var draws int
	for _, name := range pass.Names() {
		if name == "DrawIndexed" {
			draws++
		}
	}
	assert.Equal(t, 1, draws)
}

func TestEndToEndResizeAndInput(t *testing.T) {
	ctx := renderertest.NewContext()
	cam := newFakeCamera()
	app, err := NewApp(ctx, cam, DefaultView())
	require.NoError(t, err)
	assert.InDelta(t, 800.0/600.0, cam.projection[1], 1e-6)

	cam.calls = nil
	app.OnResize(1200, 600)
	app.OnInput(input.State{Scroll: 1})

	assert.Equal(t, []string{"SetAspect", "Update", "Input", "Update"}, cam.calls)
	assert.Equal(t, float32(2), cam.aspect)
}

func TestIncompatibleFormatNeverRenders(t *testing.T) {
	ctx := renderertest.NewContext()
	ctx.Format = wgpu.TextureFormatRGBA32Uint
	cam := newFakeCamera()

	app, err := NewApp(ctx, cam, DefaultView())
	assert.ErrorIs(t, err, common.ErrConfiguration)
	assert.Nil(t, app)
	assert.Empty(t, ctx.Dev.Calls, "no GPU object is created")
	assert.Empty(t, cam.calls, "the camera is not configured")
}

func TestTurntableFrames(t *testing.T) {
	ctx := renderertest.NewContext()
	cam := newFakeCamera()
	app, err := NewApp(ctx, cam, DefaultView())
	require.NoError(t, err)

	target := &hostTarget{}
	frame := TurntableFrames(target, app, 3, 0.4)
	img, err := frame(2, 1.5)
	require.NoError(t, err)

	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, mgl32.Vec3{3, 1.5, 0.4}, cam.polar)
	require.Len(t, target.passes, 1)
	assert.Contains(t, target.passes[0].Names(), "DrawIndexed")
}
