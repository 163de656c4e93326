package common

import "errors"

// Setup errors. Every failure surfaced while building GPU state wraps one of these,
// so callers can classify it with errors.Is regardless of the wrapped device error.
var (
	// ErrResourceCreation is returned when the device rejects a buffer, texture, bind group
	// or other resource allocation.
	ErrResourceCreation = errors.New("resource creation failed")

	// ErrPipelineCreation is returned when shader compilation or render pipeline creation
	// fails at the device level.
	ErrPipelineCreation = errors.New("pipeline creation failed")

	// ErrConfiguration is returned when the host supplies formats, layouts or settings
	// that cannot be combined into a valid pipeline.
	ErrConfiguration = errors.New("invalid configuration")
)
