package renderer

import (
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/pipeline"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithMaxQuads sets the batch capacity: the most quads that can be submitted between two Render calls.
// When not specified, DefaultMaxQuads is used.
//
// Parameters:
//   - maxQuads: the slot count, must be positive
//
// Returns:
//   - RendererBuilderOption: a function that applies the capacity option to a renderer
func WithMaxQuads(maxQuads int) RendererBuilderOption {
	return func(r *renderer) {
		r.maxQuads = maxQuads
	}
}

// WithPipeline replaces the built-in quad pipeline. The pipeline's shaders must be in the backend's
// language and satisfy the quad shader contract (mvp and texture_dimensions uniforms, inputs at
// locations 0, 1 and 2).
//
// Parameters:
//   - p: the Pipeline to build instead of the built-in one
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline option to a renderer
func WithPipeline(p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pipeline = p
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithInvertTextureVertically mirrors the V coordinate of every submitted quad around the loaded
// texture's height, for textures stored bottom row first. Submitting requires a loaded texture
// while this is on.
//
// Parameters:
//   - invert: true to mirror V at submission time
//
// Returns:
//   - RendererBuilderOption: a function that applies the flip option to a renderer
func WithInvertTextureVertically(invert bool) RendererBuilderOption {
	return func(r *renderer) {
		r.invertTextureV = invert
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe). Ignored by the OpenGL backend.
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithBackend injects a RendererBackend instead of creating one for the backend type.
// The backend type still selects the built-in pipeline's shading language.
//
// Parameters:
//   - b: the backend to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}
