package renderer

import (
	"cmp"
	"fmt"
	"log"
	"runtime"
	"strings"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/batch"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-quad/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// glSamplerUniform is the name of the sampler2D uniform in the quad fragment shader.
const glSamplerUniform = "sprite_texture"

type glRendererBackendImpl struct {
	win window.Window

	program  uint32
	pipeline pipeline.Pipeline
	// uniform locations resolved after linking, -1 when the program does not use them
	mvpLocation, textureDimensionsLocation, samplerLocation int32

	vao, vbo, ebo    uint32
	vertexBufferSize int

	texture uint32
}

var _ RendererBackend = &glRendererBackendImpl{}

// glDrawSurface presents the default framebuffer by swapping the window's buffers.
type glDrawSurface struct {
	win window.Window
}

func (s *glDrawSurface) Present() error {
	s.win.SwapBuffers()
	return nil
}

func newGLRendererBackend(win window.Window) (*glRendererBackendImpl, error) {
	if win == nil {
		return nil, &ResourceError{Resource: "OpenGL context", Err: ErrNotInitialized}
	}
	if win.ClientAPI() != window.ClientAPIOpenGL {
		return nil, &ResourceError{Resource: "OpenGL context", Err: fmt.Errorf("window was created with client API %s", win.ClientAPI())}
	}

	runtime.LockOSThread()
	win.MakeContextCurrent()
	if err := gl.InitWithProcAddrFunc(win.ProcAddress); err != nil {
		return nil, &ResourceError{Resource: "OpenGL context", Err: err}
	}
	log.Printf("[Renderer] OpenGL %s on %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	return &glRendererBackendImpl{
		win:                       win,
		mvpLocation:               -1,
		textureDimensionsLocation: -1,
		samplerLocation:           -1,
	}, nil
}

func (b *glRendererBackendImpl) RegisterPipeline(p pipeline.Pipeline) error {
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return &PipelineError{Pipeline: p.PipelineKey(), Stage: "create", Log: "both vertex and fragment shaders must be set"}
	}
	if p.Language() != shader.LanguageGLSL {
		return &PipelineError{Pipeline: p.PipelineKey(), Stage: "create", Log: fmt.Sprintf("the OpenGL backend needs GLSL shaders, got %s", p.Language())}
	}

	vs, infoLog := compileGLShader(vertexShader.Source(), gl.VERTEX_SHADER)
	if vs == 0 {
		return &PipelineError{Pipeline: p.PipelineKey(), Stage: "compile", Log: vertexShader.Key() + ": " + infoLog}
	}
	fs, infoLog := compileGLShader(fragmentShader.Source(), gl.FRAGMENT_SHADER)
	if fs == 0 {
		gl.DeleteShader(vs)
		return &PipelineError{Pipeline: p.PipelineKey(), Stage: "compile", Log: fragmentShader.Key() + ": " + infoLog}
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &infoLog[0])
		gl.DeleteProgram(program)
		return &PipelineError{Pipeline: p.PipelineKey(), Stage: "link", Log: strings.TrimRight(string(infoLog), "\x00")}
	}

	if b.program != 0 {
		gl.DeleteProgram(b.program)
	}
	b.program = program
	b.pipeline = p
	b.mvpLocation = gl.GetUniformLocation(program, gl.Str(shader.UniformMVP+"\x00"))
	b.textureDimensionsLocation = gl.GetUniformLocation(program, gl.Str(shader.UniformTextureDimensions+"\x00"))
	b.samplerLocation = gl.GetUniformLocation(program, gl.Str(glSamplerUniform+"\x00"))
	p.SetPipeline(program)

	return nil
}

// compileGLShader compiles one stage. On failure it returns 0 and the driver's info log.
func compileGLShader(source string, stage uint32) (uint32, string) {
	s := gl.CreateShader(stage)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(s, 1, csource, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := make([]byte, logLength+1)
		gl.GetShaderInfoLog(s, logLength, nil, &infoLog[0])
		gl.DeleteShader(s)
		return 0, strings.TrimRight(string(infoLog), "\x00")
	}
	return s, ""
}

func (b *glRendererBackendImpl) InitQuadBuffers(indices []uint32, vertexBufferSize int) error {
	if len(indices) == 0 || vertexBufferSize <= 0 {
		return &ResourceError{Resource: "quad buffers", Err: fmt.Errorf("%d indices, vertex buffer of %d bytes", len(indices), vertexBufferSize)}
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.GenBuffers(1, &b.ebo)

	gl.BindVertexArray(b.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, vertexBufferSize, nil, gl.DYNAMIC_DRAW)
	b.vertexBufferSize = vertexBufferSize

	gl.VertexAttribPointerWithOffset(batch.PositionLocation, 2, gl.FLOAT, false, batch.VertexStride, batch.PositionOffset)
	gl.EnableVertexAttribArray(batch.PositionLocation)
	gl.VertexAttribPointerWithOffset(batch.TexCoordLocation, 2, gl.FLOAT, false, batch.VertexStride, batch.TexCoordOffset)
	gl.EnableVertexAttribArray(batch.TexCoordLocation)
	gl.VertexAttribPointerWithOffset(batch.ColorLocation, 4, gl.FLOAT, false, batch.VertexStride, batch.ColorOffset)
	gl.EnableVertexAttribArray(batch.ColorLocation)

	// the element buffer binding is VAO state and stays attached after unbinding
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return &ResourceError{Resource: "quad buffers", Err: fmt.Errorf("GL error 0x%x", code)}
	}
	return nil
}

func (b *glRendererBackendImpl) LoadTexture(stagingData common.TextureStagingData, samplerStagingData common.SamplerStagingData) error {
	if b.texture != 0 {
		gl.DeleteTextures(1, &b.texture)
		b.texture = 0
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(cmp.Or(samplerStagingData.MinFilter, wgpu.FilterModeNearest)))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(cmp.Or(samplerStagingData.MagFilter, wgpu.FilterModeNearest)))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glAddressMode(cmp.Or(samplerStagingData.AddressModeU, wgpu.AddressModeClampToEdge)))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glAddressMode(cmp.Or(samplerStagingData.AddressModeV, wgpu.AddressModeClampToEdge)))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(stagingData.Width), int32(stagingData.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(stagingData.Pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return &ResourceError{Resource: "texture", Err: fmt.Errorf("GL error 0x%x", code)}
	}
	b.texture = tex
	return nil
}

func (b *glRendererBackendImpl) BeginFrame(width, height int, clear common.Color) error {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	return nil
}

func (b *glRendererBackendImpl) DrawQuads(vertexData []byte, uniforms QuadUniforms, indexCount int) error {
	if b.program == 0 || b.vao == 0 {
		return ErrNotInitialized
	}
	if b.texture == 0 {
		return ErrTextureNotLoaded
	}
	if len(vertexData) == 0 || indexCount == 0 {
		return nil
	}
	if len(vertexData) > b.vertexBufferSize {
		return fmt.Errorf("vertex data of %d bytes exceeds the %d byte vertex buffer", len(vertexData), b.vertexBufferSize)
	}

	gl.UseProgram(b.program)
	b.applyPipelineState()

	gl.UniformMatrix4fv(b.mvpLocation, 1, false, &uniforms.MVP[0])
	gl.Uniform2f(b.textureDimensionsLocation, uniforms.TextureDimensions[0], uniforms.TextureDimensions[1])
	gl.Uniform1i(b.samplerLocation, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, b.texture)

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertexData), gl.Ptr(vertexData))
	gl.DrawElements(glTopology(b.pipeline.Topology()), int32(indexCount), gl.UNSIGNED_INT, gl.PtrOffset(0))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// applyPipelineState sets blend, cull and write mask state from the registered pipeline.
func (b *glRendererBackendImpl) applyPipelineState() {
	if blend := b.pipeline.BlendState(); blend != nil {
		gl.Enable(gl.BLEND)
		gl.BlendFuncSeparate(
			glBlendFactor(blend.Color.SrcFactor), glBlendFactor(blend.Color.DstFactor),
			glBlendFactor(blend.Alpha.SrcFactor), glBlendFactor(blend.Alpha.DstFactor),
		)
		gl.BlendEquationSeparate(glBlendOperation(blend.Color.Operation), glBlendOperation(blend.Alpha.Operation))
	} else {
		gl.Disable(gl.BLEND)
	}

	if face, ok := glCullFace(b.pipeline.CullMode()); ok {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(face)
		gl.FrontFace(glFrontFace(b.pipeline.FrontFace()))
	} else {
		gl.Disable(gl.CULL_FACE)
	}

	mask := b.pipeline.WriteMask()
	gl.ColorMask(
		mask&wgpu.ColorWriteMaskRed != 0,
		mask&wgpu.ColorWriteMaskGreen != 0,
		mask&wgpu.ColorWriteMaskBlue != 0,
		mask&wgpu.ColorWriteMaskAlpha != 0,
	)
}

func (b *glRendererBackendImpl) EndFrame() error {
	gl.Flush()
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("GL error 0x%x", code)
	}
	return nil
}

func (b *glRendererBackendImpl) Surface() DrawSurface {
	return &glDrawSurface{win: b.win}
}

func (b *glRendererBackendImpl) SetPresentMode(mode PresentMode) {
	if mode == PresentModeUncapped {
		b.win.SwapInterval(0)
		return
	}
	b.win.SwapInterval(1)
}

func (b *glRendererBackendImpl) Release() {
	if b.texture != 0 {
		gl.DeleteTextures(1, &b.texture)
		b.texture = 0
	}
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
		b.ebo = 0
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	if b.program != 0 {
		gl.DeleteProgram(b.program)
		b.program = 0
	}
}

// glBlendFactor maps a WebGPU blend factor to its OpenGL equivalent. Unknown factors map to GL_ONE.
func glBlendFactor(f wgpu.BlendFactor) uint32 {
	switch f {
	case wgpu.BlendFactorZero:
		return gl.ZERO
	case wgpu.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case wgpu.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case wgpu.BlendFactorDstAlpha:
		return gl.DST_ALPHA
	case wgpu.BlendFactorOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	default:
		return gl.ONE
	}
}

func glBlendOperation(op wgpu.BlendOperation) uint32 {
	switch op {
	case wgpu.BlendOperationSubtract:
		return gl.FUNC_SUBTRACT
	case wgpu.BlendOperationReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case wgpu.BlendOperationMin:
		return gl.MIN
	case wgpu.BlendOperationMax:
		return gl.MAX
	default:
		return gl.FUNC_ADD
	}
}

// glCullFace returns the face to cull, and false when culling is off.
func glCullFace(mode wgpu.CullMode) (uint32, bool) {
	switch mode {
	case wgpu.CullModeFront:
		return gl.FRONT, true
	case wgpu.CullModeBack:
		return gl.BACK, true
	default:
		return 0, false
	}
}

func glFrontFace(face wgpu.FrontFace) uint32 {
	if face == wgpu.FrontFaceCW {
		return gl.CW
	}
	return gl.CCW
}

func glTopology(topology wgpu.PrimitiveTopology) uint32 {
	switch topology {
	case wgpu.PrimitiveTopologyPointList:
		return gl.POINTS
	case wgpu.PrimitiveTopologyLineList:
		return gl.LINES
	case wgpu.PrimitiveTopologyLineStrip:
		return gl.LINE_STRIP
	case wgpu.PrimitiveTopologyTriangleStrip:
		return gl.TRIANGLE_STRIP
	default:
		return gl.TRIANGLES
	}
}

func glFilter(mode wgpu.FilterMode) int32 {
	if mode == wgpu.FilterModeLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func glAddressMode(mode wgpu.AddressMode) int32 {
	switch mode {
	case wgpu.AddressModeRepeat:
		return gl.REPEAT
	case wgpu.AddressModeMirrorRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}
