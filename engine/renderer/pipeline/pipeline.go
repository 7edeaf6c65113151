package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// QuadPipelineKey is the key of the built-in quad pipeline.
const QuadPipelineKey = "quad"

// pipeline is the implementation of the Pipeline interface.
// It holds the shader pair, the fixed-function state used at creation, and the backend handle
// once the pipeline has been built.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for labels and diagnostics
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// handle is the backend object: *wgpu.RenderPipeline for WebGPU, the program name for OpenGL
	handle any

	cullMode   wgpu.CullMode
	topology   wgpu.PrimitiveTopology
	frontFace  wgpu.FrontFace
	writeMask  wgpu.ColorWriteMask
	blendState *wgpu.BlendState
}

// Pipeline defines the interface for a render pipeline: a vertex and fragment shader pair plus the
// fixed-function state (blend, cull, topology) required to create it on a backend. The backend
// stores its own handle on the Pipeline after creation.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader for the given stage, nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader for the stage, or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// Language returns the shading language of the pipeline's vertex shader.
	//
	// Returns:
	//   - shader.Language: the language, LanguageWGSL when no vertex shader is set
	Language() shader.Language

	// Pipeline returns the backend object created from this pipeline, or nil before creation.
	// Note: The caller is responsible for type asserting the returned value for its backend.
	//
	// Returns:
	//   - any: the backend pipeline object
	Pipeline() any

	// SetPipeline stores the backend object created from this pipeline.
	//
	// Parameters:
	//   - handle: the backend pipeline object
	SetPipeline(handle any)

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode (wgpu.CullModeNone by default)
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the topology (wgpu.PrimitiveTopologyTriangleList by default)
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding (wgpu.FrontFaceCCW by default)
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask (wgpu.ColorWriteMaskAll by default)
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline. The default blends color
	// as src-alpha / one-minus-src-alpha and alpha as one / zero.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state, or nil if blending is disabled
	BlendState() *wgpu.BlendState

	// Validate checks that both stages are present, share a language, and each satisfies the
	// quad shader contract.
	//
	// Returns:
	//   - error: the first problem found, or nil
	Validate() error
}

var _ Pipeline = &pipeline{}

// DefaultBlendState returns the quad blend state: color = src*srcAlpha + dst*(1-srcAlpha),
// alpha = src*1 + dst*0.
//
// Returns:
//   - *wgpu.BlendState: a new blend state
func DefaultBlendState() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorZero,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// NewPipeline is the entry point to create a new Pipeline interface.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey: pipelineKey,
		cullMode:    wgpu.CullModeNone,
		topology:    wgpu.PrimitiveTopologyTriangleList,
		frontFace:   wgpu.FrontFaceCCW,
		writeMask:   wgpu.ColorWriteMaskAll,
		blendState:  DefaultBlendState(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewQuadPipeline returns the built-in quad pipeline for a shading language, using the embedded
// quad shaders.
//
// Parameters:
//   - lang: LanguageWGSL for the WebGPU backend, LanguageGLSL for OpenGL
//   - opts: further options applied after the built-in shaders
//
// Returns:
//   - Pipeline: the quad pipeline keyed QuadPipelineKey
func NewQuadPipeline(lang shader.Language, opts ...PipelineBuilderOption) Pipeline {
	base := []PipelineBuilderOption{
		WithShaders(
			shader.NewQuadShader(lang, shader.ShaderTypeVertex),
			shader.NewQuadShader(lang, shader.ShaderTypeFragment),
		),
	}
	return NewPipeline(QuadPipelineKey, append(base, opts...)...)
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) Language() shader.Language {
	if p.vertexShader == nil {
		return shader.LanguageWGSL
	}
	return p.vertexShader.Language()
}

func (p *pipeline) Pipeline() any {
	return p.handle
}

func (p *pipeline) SetPipeline(handle any) {
	p.handle = handle
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) Validate() error {
	if p.vertexShader == nil || p.fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}
	if p.vertexShader.Language() != p.fragmentShader.Language() {
		return fmt.Errorf("vertex shader is %s but fragment shader is %s", p.vertexShader.Language(), p.fragmentShader.Language())
	}
	if err := p.vertexShader.Validate(); err != nil {
		return err
	}
	return p.fragmentShader.Validate()
}
