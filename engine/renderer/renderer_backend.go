package renderer

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeOpenGL selects the OpenGL 4.1 core rendering backend. The window must be
	// created with window.ClientAPIOpenGL.
	BackendTypeOpenGL
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeOpenGL:
		return "opengl"
	default:
		return "unknown"
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

func (m PresentMode) String() string {
	if m == PresentModeUncapped {
		return "uncapped"
	}
	return "vsync"
}

// DrawSurface is the presentable target of a frame: the swapchain for WebGPU, the default
// framebuffer for OpenGL. The renderer never allocates one, it only presents to it.
type DrawSurface interface {
	// Present displays the finished frame. With PresentModeVSync this blocks until vertical blank.
	//
	// Returns:
	//   - error: an error if the surface could not be presented
	Present() error
}

// QuadUniforms is the uniform block shared by every quad in a frame. Its memory layout matches
// the WGSL Uniforms struct of the quad shader, including the trailing padding.
type QuadUniforms struct {
	// MVP maps surface pixels to clip space, column-major.
	MVP mgl32.Mat4
	// TextureDimensions is the bound texture's width and height in pixels.
	TextureDimensions [2]float32
	_                 [2]float32
}

// QuadUniformsSize is the size in bytes of the uniform buffer backing QuadUniforms.
const QuadUniformsSize = 80

var _ [QuadUniformsSize]byte = [unsafe.Sizeof(QuadUniforms{})]byte{}

// RendererBackend is the GPU-facing half of the Renderer. The Renderer owns the batch and frame
// rules; the backend owns GPU objects and turns one frame into clear, upload, draw and present.
type RendererBackend interface {
	// InitQuadBuffers creates the static index buffer and a vertex buffer able to hold a full batch.
	//
	// Parameters:
	//   - indices: the complete index sequence, uploaded once
	//   - vertexBufferSize: the vertex buffer size in bytes
	//
	// Returns:
	//   - error: a *ResourceError if a buffer could not be created
	InitQuadBuffers(indices []uint32, vertexBufferSize int) error

	// RegisterPipeline creates the backend pipeline object from a Pipeline and stores the handle
	// on it via SetPipeline.
	//
	// Parameters:
	//   - p: the pipeline to build
	//
	// Returns:
	//   - error: a *PipelineError carrying the compiler or linker diagnostic on failure
	RegisterPipeline(p pipeline.Pipeline) error

	// LoadTexture uploads RGBA8 pixel data and creates its sampler, replacing any previous texture.
	//
	// Parameters:
	//   - texture: the validated pixel data and dimensions
	//   - sampler: the sampler configuration
	//
	// Returns:
	//   - error: a *ResourceError if the texture or sampler could not be created
	LoadTexture(texture common.TextureStagingData, sampler common.SamplerStagingData) error

	// BeginFrame starts a frame sized to the surface and clears it.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//   - clear: the clear color
	//
	// Returns:
	//   - error: an error if the frame target could not be acquired
	BeginFrame(width, height int, clear common.Color) error

	// DrawQuads uploads the active vertex region and uniforms and issues one indexed draw.
	// Must be called between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - vertexData: the vertices of the submitted quads as contiguous bytes
	//   - uniforms: the frame's projection and texture dimensions
	//   - indexCount: the number of indices to draw
	//
	// Returns:
	//   - error: an error if the draw could not be encoded
	DrawQuads(vertexData []byte, uniforms QuadUniforms, indexCount int) error

	// EndFrame finishes and submits the frame's commands. It does not present.
	//
	// Returns:
	//   - error: an error if the commands could not be submitted
	EndFrame() error

	// Surface returns the backend's default presentable.
	//
	// Returns:
	//   - DrawSurface: the surface frames are presented to
	Surface() DrawSurface

	// SetPresentMode sets how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Release frees every GPU object held by the backend.
	Release()
}
