package camera

// OrbitCameraOption is a functional option applied to an orbit camera during NewOrbitCamera.
type OrbitCameraOption func(*orbitCamera)

// WithMouseSensitivity sets the radians of orbit per pixel of left-drag.
//
// Parameters:
//   - sensitivity: radians per pixel
//
// Returns:
//   - OrbitCameraOption: a function that sets the mouse sensitivity
func WithMouseSensitivity(sensitivity float32) OrbitCameraOption {
	return func(c *orbitCamera) {
		if sensitivity > 0 {
			c.mouseSensitivity = sensitivity
		}
	}
}

// WithZoomSpeed sets the radius change per unit of scroll.
//
// Parameters:
//   - speed: world units per scroll step
//
// Returns:
//   - OrbitCameraOption: a function that sets the zoom speed
func WithZoomSpeed(speed float32) OrbitCameraOption {
	return func(c *orbitCamera) {
		if speed > 0 {
			c.zoomSpeed = speed
		}
	}
}

// WithOrbitStep sets the angle an arrow key press orbits by.
//
// Parameters:
//   - step: radians per key press
//
// Returns:
//   - OrbitCameraOption: a function that sets the orbit step
func WithOrbitStep(step float32) OrbitCameraOption {
	return func(c *orbitCamera) {
		if step > 0 {
			c.orbitStep = step
		}
	}
}

// WithPanSpeed sets the middle-drag pan rate, in world units per pixel per unit of radius.
func WithPanSpeed(speed float32) OrbitCameraOption {
	return func(c *orbitCamera) {
		if speed > 0 {
			c.panSpeed = speed
		}
	}
}
