package shader

import (
	_ "embed"
	"fmt"
)

var (
	//go:embed sources/quad.wgsl
	quadWGSL string

	//go:embed sources/quad.vert.glsl
	quadVertexGLSL string

	//go:embed sources/quad.frag.glsl
	quadFragmentGLSL string
)

// QuadSource returns the built-in quad shader source for a language and stage. WGSL keeps both
// stages in one module, so the same source is returned for either stage.
//
// Parameters:
//   - lang: the shading language
//   - stage: the pipeline stage
//
// Returns:
//   - string: the embedded source, or empty for an unknown combination
func QuadSource(lang Language, stage ShaderType) string {
	switch {
	case lang == LanguageWGSL:
		return quadWGSL
	case lang == LanguageGLSL && stage == ShaderTypeVertex:
		return quadVertexGLSL
	case lang == LanguageGLSL && stage == ShaderTypeFragment:
		return quadFragmentGLSL
	default:
		return ""
	}
}

// NewQuadShader returns the built-in quad shader for a language and stage.
//
// Parameters:
//   - lang: the shading language
//   - stage: the pipeline stage
//
// Returns:
//   - Shader: the parsed built-in shader, keyed "quad.<lang>.<stage>"
func NewQuadShader(lang Language, stage ShaderType) Shader {
	return NewShaderFromSource(fmt.Sprintf("quad.%s.%s", lang, stage), stage, lang, QuadSource(lang, stage))
}
