package pipeline

import (
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithShaders sets the vertex and fragment stages. Both must share a language for Validate to pass.
//
// Parameters:
//   - vertex: the vertex stage
//   - fragment: the fragment stage
//
// Returns:
//   - PipelineBuilderOption: a function that sets both shader stages
func WithShaders(vertex, fragment shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = vertex
		p.fragmentShader = fragment
	}
}

// WithCulling sets which faces are discarded and which winding counts as front facing.
// Quads are drawn with cull mode none by default, so the winding only matters once culling is on.
//
// Parameters:
//   - mode: the faces to discard
//   - frontFace: the winding order of front faces
//
// Returns:
//   - PipelineBuilderOption: a function that sets the culling state
func WithCulling(mode wgpu.CullMode, frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
		p.frontFace = frontFace
	}
}

// WithTopology overrides the triangle-list topology.
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithWriteMask limits which color channels the pipeline writes.
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}

// WithBlendState replaces the straight-alpha blend state. Pass nil to write fragments unblended.
//
// Parameters:
//   - blendState: the color and alpha blend equations
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state
func WithBlendState(blendState *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = blendState
	}
}
