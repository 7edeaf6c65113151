package shader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader runs in.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// Language identifies the shading language of a shader source.
type Language int

const (
	// LanguageWGSL is the WebGPU shading language, consumed by the WebGPU backend.
	LanguageWGSL Language = iota

	// LanguageGLSL is GLSL 4.10 core, consumed by the OpenGL backend.
	LanguageGLSL
)

func (l Language) String() string {
	switch l {
	case LanguageWGSL:
		return "wgsl"
	case LanguageGLSL:
		return "glsl"
	default:
		return fmt.Sprintf("Language(%d)", int(l))
	}
}

// shader is the implementation of the Shader interface.
// It holds the source and the metadata parsed from it at construction.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	language   Language
	entryPoint string

	// uniforms are the uniform names visible to this stage, struct members included
	uniforms []string
	// inputLocations are the vertex input locations, populated for vertex shaders only
	inputLocations []int

	vertexLayouts              []wgpu.VertexBufferLayout
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a loaded and parsed shader stage. It exposes the shader's
// unique key, source code, entry point, and the layout metadata the backends need to build a
// pipeline from it.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for labels and diagnostics.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the shader source code.
	//
	// Returns:
	//   - string: the source code of the shader
	Source() string

	// ShaderType returns the pipeline stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Language returns the shading language of the source.
	//
	// Returns:
	//   - Language: LanguageWGSL or LanguageGLSL
	Language() Language

	// EntryPoint returns the entry point name for this shader. WGSL entry points are parsed from
	// the @vertex / @fragment function; GLSL entry points are always "main".
	//
	// Returns:
	//   - string: the entry point name, or empty if the WGSL source declares none for this stage
	EntryPoint() string

	// Uniforms returns the uniform names declared by the source, including the members of
	// WGSL uniform structs.
	//
	// Returns:
	//   - []string: uniform names in declaration order
	Uniforms() []string

	// InputLocations returns the vertex input locations the source declares.
	// Always empty for fragment shaders.
	//
	// Returns:
	//   - []int: the declared locations in ascending order
	InputLocations() []int

	// VertexLayouts returns the vertex buffer layouts parsed from a WGSL vertex shader's input struct.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts, or nil for fragment or GLSL shaders
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptors retrieves all bind group layout descriptors parsed from WGSL source.
	// These are the CPU-side descriptors which the WebGPU backend uses to create the actual
	// wgpu.BindGroupLayout GPU objects.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index, empty for GLSL
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// Module returns the wgpu.ShaderModuleDescriptor for a WGSL shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor, or nil for GLSL shaders
	Module() *wgpu.ShaderModuleDescriptor

	// Validate checks the source against the quad pipeline contract. Vertex shaders must declare the
	// uniforms "mvp" and "texture_dimensions" and vertex inputs at locations 0, 1 and 2. WGSL sources
	// are additionally compiled to catch syntax and type errors before they reach the GPU driver.
	//
	// Returns:
	//   - error: a *ValidationError describing the first problem found, or nil
	Validate() error
}

var _ Shader = &shader{}

// NewShader reads a shader source file and parses it. The language is selected from the file
// extension: ".wgsl" for WGSL and ".glsl", ".vert" or ".frag" for GLSL.
//
// Parameters:
//   - key: a unique identifier for the shader, used for labels and diagnostics
//   - shaderType: the pipeline stage of the shader
//   - sourcePath: the file path to read the source from
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if the file cannot be read or its extension is not recognised
func NewShader(key string, shaderType ShaderType, sourcePath string) (Shader, error) {
	lang, err := languageFromPath(sourcePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to read source file %q: %w", key, sourcePath, err)
	}
	return NewShaderFromSource(key, shaderType, lang, string(data)), nil
}

// NewShaderFromSource parses an in-memory shader source.
//
// Parameters:
//   - key: a unique identifier for the shader, used for labels and diagnostics
//   - shaderType: the pipeline stage of the shader
//   - lang: the shading language of the source
//   - source: the shader source code
//
// Returns:
//   - Shader: the parsed shader
func NewShaderFromSource(key string, shaderType ShaderType, lang Language, source string) Shader {
	s := &shader{
		key:                        key,
		source:                     source,
		shaderType:                 shaderType,
		language:                   lang,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
	}
	switch lang {
	case LanguageWGSL:
		s.parseWGSL()
	case LanguageGLSL:
		s.parseGLSL()
	}
	return s
}

func languageFromPath(path string) (Language, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wgsl":
		return LanguageWGSL, nil
	case ".glsl", ".vert", ".frag":
		return LanguageGLSL, nil
	default:
		return 0, fmt.Errorf("shader: cannot infer shading language of %q", path)
	}
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Language() Language {
	return s.language
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Uniforms() []string {
	return s.uniforms
}

func (s *shader) InputLocations() []int {
	return s.inputLocations
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

// parseWGSL builds the module descriptor and extracts the entry point, uniforms, and the
// vertex and bind group layouts for the shader's stage.
func (s *shader) parseWGSL() {
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	s.entryPoint = parseEntryPoint(s.source, s.shaderType)
	s.uniforms = parseWGSLUniforms(s.source)

	visibility := wgpu.ShaderStageFragment
	if s.shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(s.source)
		s.inputLocations = vertexLayoutLocations(s.vertexLayouts)
	}
	s.bindGroupLayoutDescriptors = parseBindGroupLayouts(s.source, visibility)
}

// parseGLSL extracts uniform names and, for vertex shaders, the layout-qualified input locations.
func (s *shader) parseGLSL() {
	s.entryPoint = "main"
	s.uniforms = parseGLSLUniforms(s.source)
	if s.shaderType == ShaderTypeVertex {
		s.inputLocations = parseGLSLInputLocations(s.source)
	}
}
