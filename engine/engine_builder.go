package engine

import (
	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/profiler"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler, e.g. to change its logging interval.
//
// Parameters:
//   - p: the profiler to tick every frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithFrameCallback registers the function that submits each frame's quads.
//
// Parameters:
//   - callback: the function to call once per frame before Render
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameCallback(callback FrameCallback) EngineBuilderOption {
	return func(e *engine) {
		e.frameCallback = callback
	}
}

// WithClearColor sets the color every frame is cleared to. Defaults to opaque black.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClearColor(c common.Color) EngineBuilderOption {
	return func(e *engine) {
		e.clearColor = c
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}
