// Package camera provides an orbit camera that owns its uniform buffer and bind group.
package camera

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/input"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

// glToWGPU remaps clip-space depth from OpenGL's [-1, 1] to WebGPU's [0, 1].
var glToWGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

type orbitCamera struct {
	mu  *sync.Mutex
	ctx renderer.Context

	up     mgl32.Vec3
	fov    float32 // radians
	aspect float32
	near   float32
	far    float32

	controller orbitController
	// R restores these
	homeTarget mgl32.Vec3
	homePolar  mgl32.Vec3

	mouseSensitivity float32
	zoomSpeed        float32
	orbitStep        float32
	panSpeed         float32

	uniform GPUCameraUniform
	dirty   bool

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// OrbitCamera is a perspective camera orbiting a target point. It owns a uniform buffer holding
// the view-projection matrix and the bind group exposing it to shaders at @group(0) @binding(0).
type OrbitCamera interface {
	// SetTarget sets the point the camera orbits and looks at.
	//
	// Parameters:
	//   - target: the world-space target
	//
	// Returns:
	//   - OrbitCamera: the camera, for chaining
	SetTarget(target mgl32.Vec3) OrbitCamera

	// SetPolar sets the spherical eye position relative to the target and makes it the
	// position the reset key returns to.
	//
	// Parameters:
	//   - polar: (radius, azimuth, elevation), angles in radians
	//
	// Returns:
	//   - OrbitCamera: the camera, for chaining
	SetPolar(polar mgl32.Vec3) OrbitCamera

	// SetProjection replaces the perspective parameters.
	//
	// Parameters:
	//   - fovDegrees: vertical field of view in degrees, in (0, 180)
	//   - aspect: width / height, positive
	//   - near: near plane distance, positive
	//   - far: far plane distance, greater than near
	//
	// Returns:
	//   - error: an error wrapping common.ErrConfiguration if a parameter is out of range
	SetProjection(fovDegrees, aspect, near, far float32) error

	// SetAspect updates the aspect ratio after a resize. Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// Input applies one frame of pointer and keyboard input to the orbit state.
	// Left-drag orbits, middle-drag pans, the wheel zooms, arrow keys step the orbit and R resets it.
	//
	// Parameters:
	//   - state: the frame's input snapshot
	Input(state input.State)

	// Update recomputes the view-projection matrix and uploads the uniform if anything changed
	// since the last upload.
	//
	// Returns:
	//   - error: an error wrapping common.ErrResourceCreation if the upload failed
	Update() error

	// Position returns the world-space eye position.
	Position() mgl32.Vec3

	// Target returns the world-space target.
	Target() mgl32.Vec3

	// Polar returns the current (radius, azimuth, elevation).
	Polar() mgl32.Vec3

	// ViewProjection returns the view-projection matrix last computed by Update.
	ViewProjection() mgl32.Mat4

	// Uniform returns the uniform contents last computed by Update.
	Uniform() GPUCameraUniform

	// BindGroup returns the camera's bind group.
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the camera's bind group layout, for pipeline layouts.
	BindGroupLayout() *wgpu.BindGroupLayout

	// BindGroupProvider returns the provider owning the camera's GPU resources.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Release frees the uniform buffer, bind group and layout.
	Release()
}

var _ OrbitCamera = &orbitCamera{}

// NewOrbitCamera creates an orbit camera and its GPU resources: an 80-byte uniform buffer,
// a vertex-visible bind group layout and the bind group over the buffer.
// The camera starts at target (0,0,0) and polar (1,0,0); nothing is uploaded until Update.
//
// Parameters:
//   - ctx: the render context providing the device and queue
//   - fovDegrees: vertical field of view in degrees
//   - aspect: width / height
//   - near: near plane distance
//   - far: far plane distance
//   - options: functional options to configure the camera
//
// Returns:
//   - OrbitCamera: the camera
//   - error: an error wrapping common.ErrConfiguration for bad projection parameters, or
//     common.ErrResourceCreation if a GPU object could not be created
func NewOrbitCamera(ctx renderer.Context, fovDegrees, aspect, near, far float32, options ...OrbitCameraOption) (OrbitCamera, error) {
	c := &orbitCamera{
		mu:               &sync.Mutex{},
		ctx:              ctx,
		up:               mgl32.Vec3{0, 1, 0},
		mouseSensitivity: 0.005,
		zoomSpeed:        0.1,
		orbitStep:        0.05,
		panSpeed:         0.002,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"Camera " + strconv.FormatUint(cameraCount.Add(1)-1, 10),
		),
	}
	if err := c.SetProjection(fovDegrees, aspect, near, far); err != nil {
		return nil, err
	}
	c.controller.radius = 1
	c.homePolar = c.controller.polar()
	for _, option := range options {
		option(c)
	}

	if err := renderer.InitUniformBindGroup(ctx, c.bindGroupProvider, BindGroupLayoutDescriptor(), GPUCameraUniformSize); err != nil {
		return nil, err
	}
	common.Logger().Debug("camera created", "label", c.bindGroupProvider.Label())
	return c, nil
}

func (c *orbitCamera) SetTarget(target mgl32.Vec3) OrbitCamera {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller.target = target
	c.homeTarget = target
	c.dirty = true
	return c
}

func (c *orbitCamera) SetPolar(polar mgl32.Vec3) OrbitCamera {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller.setPolar(polar)
	c.homePolar = c.controller.polar()
	c.dirty = true
	return c
}

func (c *orbitCamera) SetProjection(fovDegrees, aspect, near, far float32) error {
	if fovDegrees <= 0 || fovDegrees >= 180 {
		return fmt.Errorf("camera fov %v outside (0, 180): %w", fovDegrees, common.ErrConfiguration)
	}
	if aspect <= 0 {
		return fmt.Errorf("camera aspect %v not positive: %w", aspect, common.ErrConfiguration)
	}
	if near <= 0 || far <= near {
		return fmt.Errorf("camera planes near %v far %v: %w", near, far, common.ErrConfiguration)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = mgl32.DegToRad(fovDegrees)
	c.aspect = aspect
	c.near = near
	c.far = far
	c.controller.minRadius = near
	c.controller.maxRadius = far
	c.controller.radius = c.controller.clampRadius(c.controller.radius)
	c.dirty = true
	return nil
}

func (c *orbitCamera) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aspect != aspect {
		c.aspect = aspect
		c.dirty = true
	}
}

func (c *orbitCamera) Input(state input.State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.controller
	if state.ButtonDown(common.MouseButtonLeft) {
		c.controller.orbit(-state.DeltaX*c.mouseSensitivity, state.DeltaY*c.mouseSensitivity)
	}
	if state.ButtonDown(common.MouseButtonMiddle) {
		scale := c.panSpeed * c.controller.radius
		c.controller.pan(-state.DeltaX*scale, state.DeltaY*scale)
	}
	if state.Scroll != 0 {
		c.controller.zoom(state.Scroll * c.zoomSpeed)
	}
	if state.KeyPressed(common.KeyLeft) {
		c.controller.orbit(-c.orbitStep, 0)
	}
	if state.KeyPressed(common.KeyRight) {
		c.controller.orbit(c.orbitStep, 0)
	}
	if state.KeyPressed(common.KeyUp) {
		c.controller.orbit(0, c.orbitStep)
	}
	if state.KeyPressed(common.KeyDown) {
		c.controller.orbit(0, -c.orbitStep)
	}
	if state.KeyPressed(common.KeyR) {
		c.controller.target = c.homeTarget
		c.controller.setPolar(c.homePolar)
	}
	if c.controller != before {
		c.dirty = true
	}
}

func (c *orbitCamera) Update() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	eye := c.controller.position()
	view := mgl32.LookAtV(eye, c.controller.target, c.up)
	proj := mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
	c.uniform = GPUCameraUniform{
		ViewProj:       glToWGPU.Mul4(proj).Mul4(view),
		CameraPosition: eye,
	}

	writes := []bind_group_provider.BufferWrite{c.bindGroupProvider.Stage(0, 0, c.uniform.Marshal())}
	if err := renderer.WriteBuffers(c.ctx, writes); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

func (c *orbitCamera) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller.position()
}

func (c *orbitCamera) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller.target
}

func (c *orbitCamera) Polar() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller.polar()
}

func (c *orbitCamera) ViewProjection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uniform.ViewProj
}

func (c *orbitCamera) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uniform
}

func (c *orbitCamera) BindGroup() *wgpu.BindGroup {
	return c.bindGroupProvider.BindGroup()
}

func (c *orbitCamera) BindGroupLayout() *wgpu.BindGroupLayout {
	return c.bindGroupProvider.BindGroupLayout()
}

func (c *orbitCamera) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return c.bindGroupProvider
}

func (c *orbitCamera) Release() {
	c.bindGroupProvider.Release()
}
