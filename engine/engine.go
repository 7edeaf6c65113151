package engine

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/batch"
	"github.com/Carmen-Shannon/oxy-quad/engine/profiler"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer"
	"github.com/Carmen-Shannon/oxy-quad/engine/window"
)

// minimizedFrameDelay throttles the loop while the window has no framebuffer, since no present
// waits on vsync.
const minimizedFrameDelay = 10 * time.Millisecond

// maxSkippedFrames is how many consecutive frames may lose their surface before the loop gives up.
const maxSkippedFrames = 60

// FrameCallback submits the quads of one frame. It runs on the render thread right before the
// batch is flushed and receives the time since the previous frame in seconds.
type FrameCallback func(deltaTime float32, r renderer.Renderer) error

// engine implements the Engine interface.
// Every frame runs on the goroutine that called Run: window messages, the frame callback, then Render.
type engine struct {
	window   window.Window
	renderer renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback FrameCallback
	clearColor    common.Color

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time
	skippedFrames    int // consecutive frames lost to transient surface errors

	// err is the first fatal frame error; it stops the loop and is returned by Run
	err error
}

// Engine is the main entry point for the engine.
// It drives the window message loop and flushes the renderer once per frame.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer flushed every frame.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameCallback registers the function that submits each frame's quads.
	//
	// Parameters:
	//   - callback: the function to call once per frame before Render (or nil to draw nothing)
	SetFrameCallback(callback FrameCallback)

	// SetClearColor sets the color every frame is cleared to.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c common.Color)

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default). The present mode still applies on top.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the frame loop on the calling goroutine and blocks until the window closes, Quit is
	// called, or a frame fails. The renderer and window are released before it returns.
	//
	// Returns:
	//   - error: the fatal frame error, or nil after a normal shutdown
	Run() error

	// Quit asks the frame loop to stop after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine around a window and a renderer built for it.
//
// Parameters:
//   - w: the window whose message loop drives the frames
//   - r: the renderer flushed every frame
//   - options: functional options for engine configuration (profiling, frame limit, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(w window.Window, r renderer.Renderer, options ...EngineBuilderOption) Engine {
	e := &engine{
		window:     w,
		renderer:   r,
		profiler:   profiler.NewProfiler(),
		clearColor: common.Black(),
	}

	for _, opt := range options {
		opt(e)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() error {
	e.lastFrame = time.Now()
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
	e.window.SetUpdateCallback(nil)

	e.renderer.Release()
	if err := e.window.Close(); err != nil {
		return errors.Join(e.err, err)
	}
	return e.err
}

func (e *engine) Quit() {
	e.window.RequestClose()
}

// fail records the first fatal error and stops the loop.
func (e *engine) fail(err error) {
	if e.err == nil {
		e.err = err
	}
	e.window.RequestClose()
}

// frame runs one submit-and-flush cycle. Capacity errors from the callback are logged and the
// frame is still drawn with the quads that fit; any other error ends the loop.
func (e *engine) frame() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] frame recovered from panic: %v", r)
			e.fail(fmt.Errorf("frame panic: %v", r))
		}
	}()

	now := time.Now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	// A minimized window has a zero framebuffer: skip the whole frame so nothing is submitted
	// into a batch that cannot be flushed.
	if e.window.Width() <= 0 || e.window.Height() <= 0 {
		time.Sleep(minimizedFrameDelay)
		return
	}

	if e.frameCallback != nil {
		if err := e.frameCallback(dt, e.renderer); err != nil {
			if !errors.Is(err, batch.ErrCapacityExceeded) {
				e.fail(fmt.Errorf("frame callback: %w", err))
				return
			}
			log.Printf("[Engine] frame dropped quads: %v", err)
		}
	}

	quads := e.renderer.QuadsToRender()
	err := e.renderer.Render(e.window.Width(), e.window.Height(), e.clearColor, nil)
	switch {
	case errors.Is(err, renderer.ErrInvalidSurface):
		// resized to zero between the size check and Render
	case isTransientSurfaceError(err):
		e.skippedFrames++
		if e.skippedFrames > maxSkippedFrames {
			e.fail(fmt.Errorf("render: %d consecutive frames skipped: %w", e.skippedFrames, err))
			return
		}
		log.Printf("[Engine] frame skipped: %v", err)
	case err != nil:
		e.fail(fmt.Errorf("render: %w", err))
		return
	default:
		e.skippedFrames = 0
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(quads)
	}

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback FrameCallback) {
	e.frameCallback = callback
}

func (e *engine) SetClearColor(c common.Color) {
	e.clearColor = c
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

// isTransientSurfaceError reports whether a render error only lost the current frame, such as a
// swapchain that went out of date during a resize.
func isTransientSurfaceError(err error) bool {
	var surfaceErr *renderer.SurfaceError
	return errors.As(err, &surfaceErr) && surfaceErr.Transient
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
