package window

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// ClientAPI selects the graphics API the window's surface is created for.
type ClientAPI int

const (
	// ClientAPINone creates a window without a GL context, for the WebGPU backend.
	ClientAPINone ClientAPI = iota

	// ClientAPIOpenGL creates a window with a current OpenGL 4.1 core context.
	ClientAPIOpenGL
)

func (c ClientAPI) String() string {
	switch c {
	case ClientAPINone:
		return "none"
	case ClientAPIOpenGL:
		return "opengl"
	default:
		return fmt.Sprintf("ClientAPI(%d)", int(c))
	}
}

// Window provides platform windowing, input callbacks and the presentable surface the renderer
// draws into. Wraps platform-specific window implementations with a common interface.
// A Window must be created and driven from the same OS-thread-locked goroutine.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving mouse x, y position in window pixels
	SetMouseMoveCallback(callback func(x, y int32))

	// ClientAPI returns the graphics API the window was created for.
	//
	// Returns:
	//   - ClientAPI: ClientAPINone for WebGPU, ClientAPIOpenGL for a GL context
	ClientAPI() ClientAPI

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// MakeContextCurrent binds the window's GL context to the calling thread.
	// It is a no-op for ClientAPINone windows.
	MakeContextCurrent()

	// ProcAddress resolves an OpenGL function pointer through the window's context.
	// Used to load the GL function table.
	//
	// Parameters:
	//   - name: the GL function name, e.g. "glDrawElements"
	//
	// Returns:
	//   - unsafe.Pointer: the function address, or nil if unavailable
	ProcAddress(name string) unsafe.Pointer

	// SwapBuffers presents the back buffer of a GL window.
	// It is a no-op for ClientAPINone windows.
	SwapBuffers()

	// SwapInterval sets how many vertical blanks SwapBuffers waits for. 1 enables vsync,
	// 0 presents immediately. Requires a current GL context.
	//
	// Parameters:
	//   - interval: the number of vblanks to wait
	SwapInterval(interval int)

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	title string

	// size limits applied while resizing, 0 leaves a bound unset
	maxWidth, maxHeight int
	minWidth, minHeight int

	// width and height track the framebuffer size in pixels
	width, height int

	resizable bool
	clientAPI ClientAPI

	// closeOnEscape closes the window when Escape is pressed, after the key callback ran
	closeOnEscape bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate    func()
	onResize    func(width, height int)
	onKeyDown   func(keyCode uint32)
	onKeyUp     func(keyCode uint32)
	onMouseMove func(x, y int32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order. The calling goroutine is locked to its
// OS thread, and every later call on the window must come from it.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: error if the platform window or its context could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:         "oxy-quad",
		minWidth:      200,
		minHeight:     150,
		width:         800,
		height:        600,
		resizable:     true,
		clientAPI:     ClientAPINone,
		closeOnEscape: true,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// dispatchKey forwards a key event to the key callbacks and reports whether the window should close.
func (w *engineWindow) dispatchKey(keyCode uint32, down, escape bool) bool {
	if down {
		if w.onKeyDown != nil {
			w.onKeyDown(keyCode)
		}
		return escape && w.closeOnEscape
	}
	if w.onKeyUp != nil {
		w.onKeyUp(keyCode)
	}
	return false
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y int32)) {
	w.onMouseMove = callback
}

func (w *engineWindow) ClientAPI() ClientAPI {
	return w.clientAPI
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) MakeContextCurrent() {
	platformMakeContextCurrent(w)
}

func (w *engineWindow) ProcAddress(name string) unsafe.Pointer {
	return platformProcAddress(w, name)
}

func (w *engineWindow) SwapBuffers() {
	platformSwapBuffers(w)
}

func (w *engineWindow) SwapInterval(interval int) {
	platformSwapInterval(w, interval)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
