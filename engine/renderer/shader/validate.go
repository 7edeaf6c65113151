package shader

import (
	"fmt"
	"slices"

	"github.com/gogpu/naga"
)

// Names and locations every quad vertex shader must declare.
const (
	UniformMVP               = "mvp"
	UniformTextureDimensions = "texture_dimensions"
)

// RequiredInputLocations are the vertex input locations of position, texture coordinate and color.
var RequiredInputLocations = []int{0, 1, 2}

// ValidationError describes why a shader source does not satisfy the quad pipeline contract
// or failed to compile.
type ValidationError struct {
	// Shader is the key of the offending shader.
	Shader string
	// Stage is the pipeline stage of the offending shader.
	Stage ShaderType
	// Log is the diagnostic, either a contract violation or compiler output.
	Log string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("shader %s (%s): %s", e.Shader, e.Stage, e.Log)
}

func (s *shader) Validate() error {
	fail := func(format string, args ...any) error {
		return &ValidationError{Shader: s.key, Stage: s.shaderType, Log: fmt.Sprintf(format, args...)}
	}

	switch s.language {
	case LanguageWGSL:
		if s.entryPoint == "" {
			return fail("no @%s entry point declared", s.shaderType)
		}
		if _, err := naga.Compile(s.source); err != nil {
			return fail("compile failed: %v", err)
		}
	case LanguageGLSL:
		if !glslMainRegex.MatchString(stripComments(s.source)) {
			return fail("no main function declared")
		}
	default:
		return fail("unsupported shading language %s", s.language)
	}

	if s.shaderType != ShaderTypeVertex {
		return nil
	}
	for _, name := range []string{UniformMVP, UniformTextureDimensions} {
		if !slices.Contains(s.uniforms, name) {
			return fail("missing uniform %q", name)
		}
	}
	for _, loc := range RequiredInputLocations {
		if !slices.Contains(s.inputLocations, loc) {
			return fail("missing vertex input at location %d", loc)
		}
	}
	return nil
}
