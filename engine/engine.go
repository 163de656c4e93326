// Package engine runs the host loop: it pumps window events, hands the frame's input to the app,
// and brackets the app's draw calls with the renderer's frame lifecycle.
package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/input"
	"github.com/Carmen-Shannon/oxy-cube/engine/profiler"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
)

// App is what the engine drives each frame.
type App interface {
	// OnInput receives the frame's input. It is skipped on frames where nothing happened.
	OnInput(state input.State)

	// OnRender records the frame's draw calls into the open render pass.
	OnRender(pass renderer.RenderPass)

	// OnResize is called after the render target has been resized.
	OnResize(width, height int)
}

// EventSource is the part of window.Window the loop polls.
type EventSource interface {
	PollEvents() bool
	Input() input.State
	SetResizeCallback(callback func(width, height int))
}

// FrameTarget is the part of renderer.Renderer the loop drives.
type FrameTarget interface {
	Resize(width, height int) error
	BeginFrame() (renderer.RenderPass, error)
	EndFrame() error
	Present()
}

var _ FrameTarget = renderer.Renderer(nil)

// engine implements the Engine interface.
type engine struct {
	events EventSource
	target FrameTarget

	quit atomic.Bool

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	maxFrames        int           // 0 = until the window closes

	pendingResize *[2]int
	frames        int
}

// Engine is the single-threaded host loop.
type Engine interface {
	// Run drives app until the window closes, Quit is called, or the frame limit is reached.
	// Must be called from the goroutine that created the window.
	//
	// Parameters:
	//   - app: the application to drive
	//
	// Returns:
	//   - error: an error if the render target could not be resized
	Run(app App) error

	// Frame runs one iteration of the loop: pending resize, input, then render.
	//
	// Parameters:
	//   - app: the application to drive
	//
	// Returns:
	//   - error: an error if the render target could not be resized
	Frame(app App) error

	// Frames returns the number of frames rendered so far.
	Frames() int

	// Quit stops Run after the current frame. Safe to call from any goroutine.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine over an event source and a frame target, typically a window.Window
// and the renderer.Renderer presenting to it.
//
// Parameters:
//   - events: the window events to poll
//   - target: the renderer to draw with
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(events EventSource, target FrameTarget, options ...EngineBuilderOption) Engine {
	e := &engine{
		events:   events,
		target:   target,
		profiler: profiler.NewProfiler(time.Second),
	}
	for _, opt := range options {
		opt(e)
	}

	// GLFW delivers resizes during PollEvents; they are applied at the start of the next frame.
	e.events.SetResizeCallback(func(width, height int) {
		e.pendingResize = &[2]int{width, height}
	})
	return e
}

func (e *engine) Run(app App) error {
	for !e.quit.Load() {
		if e.maxFrames > 0 && e.frames >= e.maxFrames {
			return nil
		}
		if !e.events.PollEvents() {
			return nil
		}

		start := time.Now()
		if err := e.Frame(app); err != nil {
			return err
		}
		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
	return nil
}

func (e *engine) Frame(app App) error {
	if size := e.pendingResize; size != nil {
		e.pendingResize = nil
		if err := e.target.Resize(size[0], size[1]); err != nil {
			return fmt.Errorf("resize to %dx%d: %w", size[0], size[1], err)
		}
		app.OnResize(size[0], size[1])
	}

	if state := e.events.Input(); !state.IsZero() {
		app.OnInput(state)
	}

	pass, err := e.target.BeginFrame()
	if err != nil {
		// Surfaces can be briefly unavailable (minimized, outdated); the frame is dropped.
		common.Logger().Warn("frame skipped", "error", err)
		return nil
	}
	app.OnRender(pass)
	if err := e.target.EndFrame(); err != nil {
		common.Logger().Warn("frame submit failed", "error", err)
		return nil
	}
	e.target.Present()
	e.frames++

	if e.profilingEnabled {
		e.profiler.Tick()
	}
	return nil
}

func (e *engine) Frames() int {
	return e.frames
}

func (e *engine) Quit() {
	e.quit.Store(true)
}
