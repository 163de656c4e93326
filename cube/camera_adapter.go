package cube

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/camera"
	"github.com/Carmen-Shannon/oxy-cube/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera is the part of camera.OrbitCamera the adapter drives.
type OrbitCamera interface {
	SetProjection(fovDegrees, aspect, near, far float32) error
	SetTarget(target mgl32.Vec3) camera.OrbitCamera
	SetPolar(polar mgl32.Vec3) camera.OrbitCamera
	SetAspect(aspect float32)
	Input(state input.State)
	Update() error
	BindGroup() *wgpu.BindGroup
	BindGroupLayout() *wgpu.BindGroupLayout
}

var _ OrbitCamera = camera.OrbitCamera(nil)

// CameraAdapter is the only writer of the camera uniform. It applies configuration and input
// to the camera and uploads the result.
type CameraAdapter struct {
	camera OrbitCamera
}

// NewCameraAdapter wraps cam.
func NewCameraAdapter(cam OrbitCamera) *CameraAdapter {
	return &CameraAdapter{camera: cam}
}

// Configure sets the projection, target and orbit position, then uploads the uniform.
//
// Parameters:
//   - fovDegrees: vertical field of view in degrees
//   - aspect: width / height
//   - near: near plane distance
//   - far: far plane distance
//   - target: the point orbited
//   - polar: (radius, azimuth, elevation), angles in radians
//
// Returns:
//   - error: an error wrapping common.ErrConfiguration for bad projection parameters, or
//     common.ErrResourceCreation if the upload failed
func (a *CameraAdapter) Configure(fovDegrees, aspect, near, far float32, target, polar mgl32.Vec3) error {
	if err := a.camera.SetProjection(fovDegrees, aspect, near, far); err != nil {
		return fmt.Errorf("configure camera: %w", err)
	}
	a.camera.SetTarget(target)
	a.camera.SetPolar(polar)
	if err := a.camera.Update(); err != nil {
		return fmt.Errorf("configure camera: %w", err)
	}
	return nil
}

// OnInput applies one frame of input and uploads the result. A failed upload is logged and
// retried on the next update.
func (a *CameraAdapter) OnInput(state input.State) {
	a.camera.Input(state)
	a.update()
}

// SetPolar moves the camera to polar and uploads the result.
//
// Parameters:
//   - polar: (radius, azimuth, elevation), angles in radians
//
// Returns:
//   - error: an error wrapping common.ErrResourceCreation if the upload failed
func (a *CameraAdapter) SetPolar(polar mgl32.Vec3) error {
	a.camera.SetPolar(polar)
	return a.camera.Update()
}

// Resize updates the aspect ratio for a target of width x height. Zero sizes are ignored.
func (a *CameraAdapter) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.camera.SetAspect(float32(width) / float32(height))
	a.update()
}

// BindGroup returns the camera's bind group, set at group 0 when drawing.
func (a *CameraAdapter) BindGroup() *wgpu.BindGroup {
	return a.camera.BindGroup()
}

// BindGroupLayout returns the camera's bind group layout, the pipeline's only layout.
func (a *CameraAdapter) BindGroupLayout() *wgpu.BindGroupLayout {
	return a.camera.BindGroupLayout()
}

func (a *CameraAdapter) update() {
	if err := a.camera.Update(); err != nil {
		common.Logger().Warn("camera update failed", "error", err)
	}
}
