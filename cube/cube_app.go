package cube

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/input"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
)

// View is the initial camera setup.
type View struct {
	FovDegrees float32
	Near       float32
	Far        float32
	Target     mgl32.Vec3
	Polar      mgl32.Vec3 // (radius, azimuth, elevation)
}

// DefaultView looks at the origin from (0, 0, 2) with a 45 degree field of view, so the red
// +Z face is in front.
func DefaultView() View {
	return View{
		FovDegrees: 45,
		Near:       0.1,
		Far:        100,
		Polar:      mgl32.Vec3{2, 0, 0},
	}
}

// App draws the cube each frame and feeds input to its camera.
type App struct {
	camera    *CameraAdapter
	resources *Resources
	pipeline  pipeline.Pipeline
	recorder  *FrameRecorder
}

// NewApp validates the pipeline configuration against cam's layout, uploads the cube, registers
// the pipeline and configures cam from view with ctx's aspect ratio. Nothing is left allocated
// on failure, and cam stays owned by the caller either way.
//
// Parameters:
//   - ctx: the render context
//   - cam: the orbit camera the cube is viewed through
//   - view: the initial camera setup
//   - options: functional options for the mesh buffers
//
// Returns:
//   - *App: the ready app
//   - error: an error wrapping common.ErrResourceCreation, common.ErrPipelineCreation or
//     common.ErrConfiguration
func NewApp(ctx renderer.Context, cam OrbitCamera, view View, options ...ResourcesOption) (*App, error) {
	adapter := NewCameraAdapter(cam)

	// Configuration errors surface before anything is allocated.
	p, err := PipelineConfig(ctx, adapter.BindGroupLayout())
	if err != nil {
		return nil, fmt.Errorf("cube setup: %w", err)
	}

	resources, err := NewResources(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("cube setup: %w", err)
	}

	if err := renderer.RegisterRenderPipeline(ctx, p); err != nil {
		resources.Release()
		return nil, fmt.Errorf("cube setup: %w", err)
	}

	width, height := ctx.Size()
	if height <= 0 {
		height = 1
	}
	if err := adapter.Configure(view.FovDegrees, float32(width)/float32(height), view.Near, view.Far, view.Target, view.Polar); err != nil {
		p.Release()
		resources.Release()
		return nil, fmt.Errorf("cube setup: %w", err)
	}

	common.Logger().Info("cube ready", "width", width, "height", height, "color_format", ctx.SurfaceFormat())
	return &App{
		camera:    adapter,
		resources: resources,
		pipeline:  p,
		recorder:  NewFrameRecorder(p, resources, adapter.BindGroup()),
	}, nil
}

func (a *App) OnInput(state input.State) {
	a.camera.OnInput(state)
}

func (a *App) OnRender(pass renderer.RenderPass) {
	a.recorder.Record(pass)
}

func (a *App) OnResize(width, height int) {
	a.camera.Resize(width, height)
}

// Camera returns the adapter driving the camera.
func (a *App) Camera() *CameraAdapter {
	return a.camera
}

// Resources returns the cube's buffers.
func (a *App) Resources() *Resources {
	return a.resources
}

// Pipeline returns the cube's registered pipeline.
func (a *App) Pipeline() pipeline.Pipeline {
	return a.pipeline
}

// Release frees the pipeline and the buffers. The camera is released by its owner.
func (a *App) Release() {
	a.pipeline.Release()
	a.resources.Release()
}
