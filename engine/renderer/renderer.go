package renderer

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/batch"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-quad/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMaxQuads is the batch capacity used when WithMaxQuads is not given.
const DefaultMaxQuads = 1000

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend
	pipeline    pipeline.Pipeline
	batch       batch.Batch

	textureWidth, textureHeight int

	// Pre-creation config collected from builder options
	maxQuads             int
	presentMode          PresentMode
	invertTextureV       bool
	forceFallbackAdapter bool
}

// Renderer is a fixed-capacity quad batch renderer working in surface pixel space.
//
// Each frame the caller submits up to MaxQuads quads and then calls Render, which clears the surface,
// draws every submitted quad with a single indexed draw against the loaded texture, presents, and
// resets the submission count. Pixel (0, 0) is the top-left corner of the surface.
//
// A Renderer is not safe for concurrent use. It belongs to the goroutine that created it, which must
// stay locked to its OS thread for the lifetime of the GPU context.
type Renderer interface {
	// LoadTexture uploads the texture every quad samples from, replacing any previous one.
	// Sampling is nearest-neighbour with clamp-to-edge addressing and no mipmaps.
	//
	// Parameters:
	//   - pixels: tightly packed RGBA8 data, row 0 at the top, len must be width*height*4
	//   - width: the texture width in pixels
	//   - height: the texture height in pixels
	//
	// Returns:
	//   - error: ErrInvalidTexture for malformed data, or a *ResourceError from the backend
	LoadTexture(pixels []byte, width, height int) error

	// SubmitQuad writes one quad into the next free slot of the batch.
	//
	// Parameters:
	//   - position: the top-left corner in surface pixels
	//   - size: the width and height in surface pixels
	//   - region: the texture area in texture pixels
	//   - color: the tint multiplied with the sampled texel
	//
	// Returns:
	//   - error: batch.ErrCapacityExceeded when every slot is taken
	SubmitQuad(position, size mgl32.Vec2, region batch.TextureRegion, color common.Color) error

	// Submit writes a quad description into the next free slot of the batch.
	//
	// Parameters:
	//   - desc: the quad to submit
	//
	// Returns:
	//   - error: batch.ErrCapacityExceeded when every slot is taken
	Submit(desc batch.QuadDescription) error

	// Render flushes the batch to a surface: clear, project, upload, draw, present, and reset the
	// submission count. With no quads submitted it only clears and presents. The submission count is
	// reset even when the backend reports an error.
	//
	// Parameters:
	//   - surfaceWidth: the surface width in pixels
	//   - surfaceHeight: the surface height in pixels
	//   - clearColor: the color the surface is cleared to
	//   - surface: the surface to present, nil for the backend's default Surface()
	//
	// Returns:
	//   - error: ErrInvalidSurface or ErrTextureNotLoaded (batch left intact), or a backend error
	Render(surfaceWidth, surfaceHeight int, clearColor common.Color, surface DrawSurface) error

	// QuadsToRender returns the number of quads submitted since the last Render.
	//
	// Returns:
	//   - int: the submission count, within [0, MaxQuads()]
	QuadsToRender() int

	// MaxQuads returns the batch capacity fixed at construction.
	//
	// Returns:
	//   - int: the slot count
	MaxQuads() int

	// TextureDimensions returns the size of the loaded texture, zero when none is loaded.
	//
	// Returns:
	//   - int: the texture width in pixels
	//   - int: the texture height in pixels
	TextureDimensions() (int, int)

	// Surface returns the backend's default presentable.
	//
	// Returns:
	//   - DrawSurface: the default surface
	Surface() DrawSurface

	// SetPresentMode sets how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Release frees every GPU resource owned by the renderer. The renderer must not be used afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given backend type and window and initializes it: the batch
// and its index sequence, the GPU index and vertex buffers, and the quad pipeline.
// Initialization is all-or-nothing: on failure every resource created so far is released.
//
// Parameters:
//   - backendType: the type of rendering backend to use (WGPU or OpenGL)
//   - win: the window providing the surface or GL context, unused when WithBackend is given
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the initialized renderer
//   - error: batch.ErrInvalidCapacity, a *ResourceError or a *PipelineError
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		backendType: backendType,
		maxQuads:    DefaultMaxQuads,
		presentMode: PresentModeVSync,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	b, err := batch.NewBatch(r.maxQuads)
	if err != nil {
		return nil, err
	}
	r.batch = b

	if r.pipeline == nil {
		r.pipeline = pipeline.NewQuadPipeline(backendLanguage(backendType))
	}
	if err := r.pipeline.Validate(); err != nil {
		return nil, &PipelineError{Pipeline: r.pipeline.PipelineKey(), Stage: "validate", Log: err.Error()}
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeOpenGL:
			r.backend, err = newGLRendererBackend(win)
		case BackendTypeWGPU:
			fallthrough
		default:
			r.backend, err = newWGPURendererBackend(win, r.forceFallbackAdapter)
		}
		if err != nil {
			return nil, err
		}
	}
	r.backend.SetPresentMode(r.presentMode)

	if err := r.backend.RegisterPipeline(r.pipeline); err != nil {
		r.backend.Release()
		return nil, err
	}
	vertexBufferSize := r.maxQuads * batch.VerticesPerQuad * batch.VertexStride
	if err := r.backend.InitQuadBuffers(r.batch.Indices(), vertexBufferSize); err != nil {
		r.backend.Release()
		return nil, err
	}

	log.Printf("[Renderer] %s backend ready: %d quads, pipeline %q, present mode %s", backendType, r.maxQuads, r.pipeline.PipelineKey(), r.presentMode)
	return r, nil
}

// backendLanguage returns the shading language the built-in pipeline uses for a backend.
func backendLanguage(backendType RendererBackendType) shader.Language {
	if backendType == BackendTypeOpenGL {
		return shader.LanguageGLSL
	}
	return shader.LanguageWGSL
}

func (r *renderer) LoadTexture(pixels []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidTexture, width, height)
	}
	staging := common.TextureStagingData{
		Pixels: pixels,
		Width:  uint32(width),
		Height: uint32(height),
	}
	if err := staging.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTexture, err)
	}
	if r.backend == nil {
		return ErrNotInitialized
	}
	if err := r.backend.LoadTexture(staging, common.NearestSampler()); err != nil {
		// the backend drops the previous texture before creating the new one
		r.textureWidth, r.textureHeight = 0, 0
		return err
	}
	r.textureWidth, r.textureHeight = width, height
	return nil
}

func (r *renderer) SubmitQuad(position, size mgl32.Vec2, region batch.TextureRegion, color common.Color) error {
	return r.Submit(batch.QuadDescription{
		Position: position,
		Size:     size,
		Region:   region,
		Color:    color,
	})
}

func (r *renderer) Submit(desc batch.QuadDescription) error {
	if r.invertTextureV {
		if !r.textureLoaded() {
			return ErrTextureNotLoaded
		}
		// mirroring both edges turns the region upside down inside the texture
		h := float32(r.textureHeight)
		desc.Region.Y = common.MirrorV(desc.Region.Y, h)
		desc.Region.Height = -desc.Region.Height
	}
	return r.batch.Submit(desc)
}

func (r *renderer) Render(surfaceWidth, surfaceHeight int, clearColor common.Color, surface DrawSurface) error {
	if r.backend == nil {
		return ErrNotInitialized
	}
	if surfaceWidth <= 0 || surfaceHeight <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSurface, surfaceWidth, surfaceHeight)
	}
	quads := r.batch.Len()
	if quads > 0 && !r.textureLoaded() {
		return ErrTextureNotLoaded
	}
	if surface == nil {
		surface = r.backend.Surface()
	}
	defer r.batch.Reset()

	if err := r.backend.BeginFrame(surfaceWidth, surfaceHeight, clearColor); err != nil {
		return err
	}

	var drawErr error
	if quads > 0 {
		uniforms := QuadUniforms{
			MVP:               common.PixelProjection(surfaceWidth, surfaceHeight),
			TextureDimensions: [2]float32{float32(r.textureWidth), float32(r.textureHeight)},
		}
		drawErr = r.backend.DrawQuads(r.batch.Bytes(), uniforms, r.batch.IndexCount())
	}

	// the frame is always closed and presented so the next BeginFrame can acquire a target
	endErr := r.backend.EndFrame()
	presentErr := surface.Present()
	return errors.Join(drawErr, endErr, presentErr)
}

func (r *renderer) textureLoaded() bool {
	return r.textureWidth > 0 && r.textureHeight > 0
}

func (r *renderer) QuadsToRender() int {
	return r.batch.Len()
}

func (r *renderer) MaxQuads() int {
	return r.batch.Capacity()
}

func (r *renderer) TextureDimensions() (int, int) {
	return r.textureWidth, r.textureHeight
}

func (r *renderer) Surface() DrawSurface {
	if r.backend == nil {
		return nil
	}
	return r.backend.Surface()
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.presentMode = mode
	if r.backend != nil {
		r.backend.SetPresentMode(mode)
	}
}

func (r *renderer) Release() {
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
	r.textureWidth, r.textureHeight = 0, 0
}
