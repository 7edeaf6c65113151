package renderer

import (
	"errors"
	"fmt"
)

var (
	// ErrTextureNotLoaded is returned when quads are rendered or mirrored before a texture is loaded.
	ErrTextureNotLoaded = errors.New("no texture loaded")

	// ErrInvalidTexture is returned when texture data is not tightly packed RGBA8 of the given size.
	ErrInvalidTexture = errors.New("invalid texture data")

	// ErrInvalidSurface is returned when a frame is rendered against a surface with a non-positive size.
	ErrInvalidSurface = errors.New("invalid surface dimensions")

	// ErrNotInitialized is returned when a backend is used before its resources exist.
	ErrNotInitialized = errors.New("renderer backend not initialized")
)

// PipelineError reports a pipeline that failed to validate, compile or link. Log carries the
// diagnostic text produced by the shader compiler or driver.
type PipelineError struct {
	Pipeline string
	Stage    string
	Log      string
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline %q failed to %s: %s", e.Pipeline, e.Stage, e.Log)
}

// ResourceError reports a GPU object (device, buffer, texture, sampler) that could not be created.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("failed to create %s: %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// SurfaceError reports a presentable surface that could not hand out a frame. A transient error,
// such as a swapchain that went out of date during a resize, loses only the current frame; the
// backend has already reconfigured the surface for the next one.
type SurfaceError struct {
	Err       error
	Transient bool
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("surface unavailable: %v", e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}
