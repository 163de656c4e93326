package engine

import "time"

// EngineBuilderOption configures the loop built by NewEngine.
type EngineBuilderOption func(*engine)

// WithProfiling logs frame rate and memory statistics once per second while Run is active.
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithRenderFrameLimit caps Run at fps frames per second by sleeping out the rest of each
// frame's budget. A value of zero or less leaves the loop uncapped.
//
// Parameters:
//   - fps: the frame cap
//
// Returns:
//   - EngineBuilderOption: the option
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = 0
		if fps > 0 {
			e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
		}
	}
}

// WithMaxFrames stops Run after n frames. Zero, the default, runs until the window closes.
func WithMaxFrames(n int) EngineBuilderOption {
	return func(e *engine) {
		e.maxFrames = max(n, 0)
	}
}
