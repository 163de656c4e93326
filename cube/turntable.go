package cube

import (
	"fmt"
	"image"

	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/snapshot"
	"github.com/go-gl/mathgl/mgl32"
)

// OffscreenTarget is the part of a headless renderer.Renderer a turntable drives.
type OffscreenTarget interface {
	BeginFrame() (renderer.RenderPass, error)
	EndFrame() error
	Present()
	ReadFrame() (*image.RGBA, error)
}

var _ OffscreenTarget = renderer.Renderer(nil)

// TurntableFrames returns a snapshot.FrameFunc that moves app's camera to the frame's azimuth
// at a fixed radius and elevation, draws one frame into target and reads it back.
//
// Parameters:
//   - target: the offscreen renderer
//   - app: the cube app drawing into target
//   - radius: orbit distance from the target
//   - elevation: orbit elevation in radians
//
// Returns:
//   - snapshot.FrameFunc: the per-frame render function
func TurntableFrames(target OffscreenTarget, app *App, radius, elevation float32) snapshot.FrameFunc {
	return func(_ int, azimuth float32) (*image.RGBA, error) {
		if err := app.Camera().SetPolar(mgl32.Vec3{radius, azimuth, elevation}); err != nil {
			return nil, err
		}
		pass, err := target.BeginFrame()
		if err != nil {
			return nil, fmt.Errorf("begin frame: %w", err)
		}
		app.OnRender(pass)
		if err := target.EndFrame(); err != nil {
			return nil, fmt.Errorf("end frame: %w", err)
		}
		target.Present()
		return target.ReadFrame()
	}
}
