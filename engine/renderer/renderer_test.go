package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/batch"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDraw struct {
	vertexData []byte
	uniforms   QuadUniforms
	indexCount int
}

// fakeBackend records every call the renderer makes.
type fakeBackend struct {
	calls []string

	indices          []uint32
	vertexBufferSize int
	pipeline         pipeline.Pipeline
	texture          common.TextureStagingData
	sampler          common.SamplerStagingData
	clear            common.Color
	frameSize        [2]int
	draws            []fakeDraw
	presentMode      PresentMode
	released         bool

	registerErr, initErr, textureErr, drawErr error
}

var _ RendererBackend = &fakeBackend{}

type fakeSurface struct {
	backend  *fakeBackend
	presents int
}

func (s *fakeSurface) Present() error {
	s.presents++
	s.backend.calls = append(s.backend.calls, "present")
	return nil
}

func (b *fakeBackend) InitQuadBuffers(indices []uint32, vertexBufferSize int) error {
	b.calls = append(b.calls, "init")
	b.indices = indices
	b.vertexBufferSize = vertexBufferSize
	return b.initErr
}

func (b *fakeBackend) RegisterPipeline(p pipeline.Pipeline) error {
	b.calls = append(b.calls, "register")
	b.pipeline = p
	return b.registerErr
}

func (b *fakeBackend) LoadTexture(texture common.TextureStagingData, sampler common.SamplerStagingData) error {
	b.calls = append(b.calls, "texture")
	b.texture = texture
	b.sampler = sampler
	return b.textureErr
}

func (b *fakeBackend) BeginFrame(width, height int, clear common.Color) error {
	b.calls = append(b.calls, "begin")
	b.frameSize = [2]int{width, height}
	b.clear = clear
	return nil
}

func (b *fakeBackend) DrawQuads(vertexData []byte, uniforms QuadUniforms, indexCount int) error {
	b.calls = append(b.calls, "draw")
	b.draws = append(b.draws, fakeDraw{
		vertexData: append([]byte(nil), vertexData...),
		uniforms:   uniforms,
		indexCount: indexCount,
	})
	return b.drawErr
}

func (b *fakeBackend) EndFrame() error {
	b.calls = append(b.calls, "end")
	return nil
}

func (b *fakeBackend) Surface() DrawSurface {
	return &fakeSurface{backend: b}
}

func (b *fakeBackend) SetPresentMode(mode PresentMode) {
	b.presentMode = mode
}

func (b *fakeBackend) Release() {
	b.released = true
}

func newTestRenderer(t *testing.T, options ...RendererBuilderOption) (Renderer, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{}
	r, err := NewRenderer(BackendTypeOpenGL, nil, append([]RendererBuilderOption{WithBackend(fb)}, options...)...)
	require.NoError(t, err)
	fb.calls = nil
	return r, fb
}

func whitePixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	for i := range pixels {
		pixels[i] = 0xFF
	}
	return pixels
}

func TestNewRendererDefaults(t *testing.T) {
	fb := &fakeBackend{}
	r, err := NewRenderer(BackendTypeOpenGL, nil, WithBackend(fb))
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxQuads, r.MaxQuads())
	assert.Equal(t, 0, r.QuadsToRender())
	assert.Equal(t, []string{"register", "init"}, fb.calls)
	assert.Len(t, fb.indices, DefaultMaxQuads*batch.IndicesPerQuad)
	assert.Equal(t, DefaultMaxQuads*batch.VerticesPerQuad*batch.VertexStride, fb.vertexBufferSize)
	assert.Equal(t, PresentModeVSync, fb.presentMode)

	require.NotNil(t, fb.pipeline)
	assert.Equal(t, pipeline.QuadPipelineKey, fb.pipeline.PipelineKey())
	assert.Equal(t, shader.LanguageGLSL, fb.pipeline.Language())
}

func TestNewRendererOptions(t *testing.T) {
	fb := &fakeBackend{}
	r, err := NewRenderer(BackendTypeOpenGL, nil,
		WithBackend(fb),
		WithMaxQuads(16),
		WithPresentMode(PresentModeUncapped),
	)
	require.NoError(t, err)

	assert.Equal(t, 16, r.MaxQuads())
	assert.Equal(t, batch.QuadIndices(16), fb.indices)
	assert.Equal(t, PresentModeUncapped, fb.presentMode)
}

func TestNewRendererInvalidCapacity(t *testing.T) {
	for _, maxQuads := range []int{0, -1} {
		fb := &fakeBackend{}
		r, err := NewRenderer(BackendTypeOpenGL, nil, WithBackend(fb), WithMaxQuads(maxQuads))
		assert.ErrorIs(t, err, batch.ErrInvalidCapacity)
		assert.Nil(t, r)
		assert.Empty(t, fb.calls)
	}
}

func TestNewRendererReleasesOnFailure(t *testing.T) {
	registerErr := &PipelineError{Pipeline: "quad", Stage: "link", Log: "undefined symbol"}
	initErr := &ResourceError{Resource: "vertex buffer", Err: errors.New("out of memory")}

	tests := []struct {
		name    string
		backend *fakeBackend
		want    error
	}{
		{name: "pipeline", backend: &fakeBackend{registerErr: registerErr}, want: registerErr},
		{name: "buffers", backend: &fakeBackend{initErr: initErr}, want: initErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRenderer(BackendTypeOpenGL, nil, WithBackend(tt.backend))
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, r)
			assert.True(t, tt.backend.released)
		})
	}
}

func TestNewRendererRejectsInvalidPipeline(t *testing.T) {
	vertex := shader.NewShaderFromSource("broken", shader.ShaderTypeVertex, shader.LanguageGLSL, `#version 410 core
layout(location = 0) in vec2 position;
void main() { gl_Position = vec4(position, 0.0, 1.0); }
`)
	p := pipeline.NewPipeline("broken",
		pipeline.WithShaders(vertex, shader.NewQuadShader(shader.LanguageGLSL, shader.ShaderTypeFragment)),
	)

	fb := &fakeBackend{}
	_, err := NewRenderer(BackendTypeOpenGL, nil, WithBackend(fb), WithPipeline(p))

	var pipelineErr *PipelineError
	require.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, "broken", pipelineErr.Pipeline)
	assert.Equal(t, "validate", pipelineErr.Stage)
	assert.NotEmpty(t, pipelineErr.Log)
	assert.Empty(t, fb.calls)
}

func TestRenderEndToEnd(t *testing.T) {
	r, fb := newTestRenderer(t, WithMaxQuads(1))

	require.NoError(t, r.LoadTexture(whitePixels(2, 2), 2, 2))
	desc := batch.QuadDescription{
		Position: mgl32.Vec2{10, 10},
		Size:     mgl32.Vec2{50, 50},
		Region:   batch.FullRegion(2, 2),
		Color:    common.White(),
	}
	require.NoError(t, r.SubmitQuad(desc.Position, desc.Size, desc.Region, desc.Color))
	require.Equal(t, 1, r.QuadsToRender())

	require.NoError(t, r.Render(500, 600, common.Black(), nil))

	assert.Equal(t, []string{"texture", "begin", "draw", "end", "present"}, fb.calls)
	assert.Equal(t, [2]int{500, 600}, fb.frameSize)
	assert.Equal(t, common.Black(), fb.clear)
	require.Len(t, fb.draws, 1)

	draw := fb.draws[0]
	assert.Equal(t, 6, draw.indexCount)
	assert.InDelta(t, 0.004, draw.uniforms.MVP[0], 1e-7)
	assert.InDelta(t, -2.0/600.0, draw.uniforms.MVP[5], 1e-7)
	assert.InDelta(t, -1, draw.uniforms.MVP[12], 1e-7)
	assert.InDelta(t, 1, draw.uniforms.MVP[13], 1e-7)
	assert.Equal(t, [2]float32{2, 2}, draw.uniforms.TextureDimensions)

	expected := batch.BuildQuad(desc)
	assert.Equal(t, common.SliceToBytes(expected[:]), draw.vertexData)
	assert.Equal(t, 0, r.QuadsToRender())
}

func TestRenderWithoutQuadsClearsAndPresents(t *testing.T) {
	r, fb := newTestRenderer(t)

	require.NoError(t, r.Render(800, 600, common.Blue(), nil))

	assert.Equal(t, []string{"begin", "end", "present"}, fb.calls)
	assert.Empty(t, fb.draws)
	assert.Equal(t, common.Blue(), fb.clear)
}

func TestRenderUsesGivenSurface(t *testing.T) {
	r, fb := newTestRenderer(t)
	surface := &fakeSurface{backend: fb}

	require.NoError(t, r.Render(800, 600, common.Black(), surface))
	require.NoError(t, r.Render(800, 600, common.Black(), surface))

	assert.Equal(t, 2, surface.presents)
}

func TestRenderWithoutTexture(t *testing.T) {
	r, fb := newTestRenderer(t)
	require.NoError(t, r.Submit(batch.QuadDescription{Size: mgl32.Vec2{1, 1}, Color: common.White()}))

	err := r.Render(800, 600, common.Black(), nil)

	assert.ErrorIs(t, err, ErrTextureNotLoaded)
	assert.Equal(t, 1, r.QuadsToRender())
	assert.Empty(t, fb.calls)
}

func TestRenderInvalidSurface(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{name: "zero width", width: 0, height: 600},
		{name: "zero height", width: 800, height: 0},
		{name: "negative", width: -1, height: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fb := newTestRenderer(t)
			err := r.Render(tt.width, tt.height, common.Black(), nil)
			assert.ErrorIs(t, err, ErrInvalidSurface)
			assert.Empty(t, fb.calls)
		})
	}
}

func TestSubmitCapacity(t *testing.T) {
	r, fb := newTestRenderer(t, WithMaxQuads(3))
	require.NoError(t, r.LoadTexture(whitePixels(1, 1), 1, 1))

	for i := 0; i < 3; i++ {
		require.NoError(t, r.SubmitQuad(mgl32.Vec2{float32(i), 0}, mgl32.Vec2{1, 1}, batch.FullRegion(1, 1), common.Red()))
	}
	err := r.SubmitQuad(mgl32.Vec2{99, 99}, mgl32.Vec2{1, 1}, batch.FullRegion(1, 1), common.Green())
	assert.ErrorIs(t, err, batch.ErrCapacityExceeded)
	assert.Equal(t, 3, r.QuadsToRender())

	require.NoError(t, r.Render(100, 100, common.Black(), nil))
	require.Len(t, fb.draws, 1)
	assert.Equal(t, 18, fb.draws[0].indexCount)
	assert.Len(t, fb.draws[0].vertexData, 3*batch.VerticesPerQuad*batch.VertexStride)
	assert.Equal(t, 0, r.QuadsToRender())

	// slots are free again after the flush
	require.NoError(t, r.SubmitQuad(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}, batch.FullRegion(1, 1), common.Red()))
}

func TestRenderResetsCounter(t *testing.T) {
	for _, quads := range []int{0, 2, 4} {
		r, _ := newTestRenderer(t, WithMaxQuads(4))
		require.NoError(t, r.LoadTexture(whitePixels(1, 1), 1, 1))
		for i := 0; i < quads; i++ {
			require.NoError(t, r.SubmitQuad(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}, batch.FullRegion(1, 1), common.White()))
		}

		require.NoError(t, r.Render(64, 64, common.Black(), nil))
		assert.Equal(t, 0, r.QuadsToRender(), "quads=%d", quads)
	}
}

func TestRenderResetsCounterOnBackendError(t *testing.T) {
	r, fb := newTestRenderer(t)
	fb.drawErr = errors.New("device lost")
	require.NoError(t, r.LoadTexture(whitePixels(1, 1), 1, 1))
	require.NoError(t, r.SubmitQuad(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}, batch.FullRegion(1, 1), common.White()))

	err := r.Render(64, 64, common.Black(), nil)

	assert.ErrorIs(t, err, fb.drawErr)
	assert.Equal(t, 0, r.QuadsToRender())
	assert.Equal(t, []string{"texture", "begin", "draw", "end", "present"}, fb.calls)
}

func TestLoadTexture(t *testing.T) {
	r, fb := newTestRenderer(t)

	require.NoError(t, r.LoadTexture(whitePixels(4, 2), 4, 2))
	w, h := r.TextureDimensions()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, uint32(4), fb.texture.Width)
	assert.Equal(t, uint32(2), fb.texture.Height)
	assert.Equal(t, common.NearestSampler(), fb.sampler)
}

func TestLoadTextureInvalid(t *testing.T) {
	tests := []struct {
		name          string
		pixels        []byte
		width, height int
	}{
		{name: "short", pixels: make([]byte, 15), width: 2, height: 2},
		{name: "long", pixels: make([]byte, 17), width: 2, height: 2},
		{name: "zero width", pixels: nil, width: 0, height: 2},
		{name: "negative height", pixels: make([]byte, 8), width: 2, height: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fb := newTestRenderer(t)
			err := r.LoadTexture(tt.pixels, tt.width, tt.height)
			assert.ErrorIs(t, err, ErrInvalidTexture)
			assert.Empty(t, fb.calls)
			w, h := r.TextureDimensions()
			assert.Zero(t, w)
			assert.Zero(t, h)
		})
	}
}

func TestLoadTextureBackendFailureForgetsTexture(t *testing.T) {
	r, fb := newTestRenderer(t)
	require.NoError(t, r.LoadTexture(whitePixels(1, 1), 1, 1))

	fb.textureErr = &ResourceError{Resource: "texture", Err: errors.New("out of memory")}
	err := r.LoadTexture(whitePixels(2, 2), 2, 2)

	var resourceErr *ResourceError
	require.ErrorAs(t, err, &resourceErr)
	assert.Equal(t, "texture", resourceErr.Resource)
	w, h := r.TextureDimensions()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestInvertTextureVertically(t *testing.T) {
	r, fb := newTestRenderer(t, WithInvertTextureVertically(true))
	region := batch.TextureRegion{X: 1, Y: 2, Width: 3, Height: 4}

	err := r.SubmitQuad(mgl32.Vec2{0, 0}, mgl32.Vec2{8, 8}, region, common.White())
	require.ErrorIs(t, err, ErrTextureNotLoaded)
	assert.Equal(t, 0, r.QuadsToRender())

	require.NoError(t, r.LoadTexture(whitePixels(4, 8), 4, 8))
	require.NoError(t, r.SubmitQuad(mgl32.Vec2{0, 0}, mgl32.Vec2{8, 8}, region, common.White()))
	require.NoError(t, r.Render(64, 64, common.Black(), nil))

	require.Len(t, fb.draws, 1)
	quad := batch.BuildQuad(batch.QuadDescription{
		Size:   mgl32.Vec2{8, 8},
		Region: batch.TextureRegion{X: 1, Y: 6, Width: 3, Height: -4},
		Color:  common.White(),
	})
	assert.Equal(t, float32(6), quad[batch.TopLeft].V)
	assert.Equal(t, float32(2), quad[batch.BottomLeft].V)
	assert.Equal(t, common.SliceToBytes(quad[:]), fb.draws[0].vertexData)
}

func TestSetPresentModeAndRelease(t *testing.T) {
	r, fb := newTestRenderer(t)

	r.SetPresentMode(PresentModeUncapped)
	assert.Equal(t, PresentModeUncapped, fb.presentMode)

	r.Release()
	assert.True(t, fb.released)
}

func TestUseAfterReleaseReturnsNotInitialized(t *testing.T) {
	r, fb := newTestRenderer(t)
	require.NoError(t, r.LoadTexture(whitePixels(2, 2), 2, 2))
	r.Release()
	fb.released = false

	assert.ErrorIs(t, r.LoadTexture(whitePixels(2, 2), 2, 2), ErrNotInitialized)
	require.NoError(t, r.SubmitQuad(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}, batch.FullRegion(2, 2), common.White()))
	assert.ErrorIs(t, r.Render(10, 10, common.Black(), nil), ErrNotInitialized)
	assert.Nil(t, r.Surface())
	assert.NotPanics(t, func() {
		r.SetPresentMode(PresentModeUncapped)
		r.Release()
	})
	assert.False(t, fb.released, "a released backend is not released twice")
}

func TestErrorsFormatting(t *testing.T) {
	pipelineErr := &PipelineError{Pipeline: "quad", Stage: "compile", Log: "0:1: syntax error"}
	assert.Equal(t, `pipeline "quad" failed to compile: 0:1: syntax error`, pipelineErr.Error())

	resourceErr := &ResourceError{Resource: "device", Err: ErrNotInitialized}
	assert.Equal(t, "failed to create device: renderer backend not initialized", resourceErr.Error())
	assert.ErrorIs(t, resourceErr, ErrNotInitialized)

	outdated := errors.New("outdated")
	surfaceErr := &SurfaceError{Err: outdated, Transient: true}
	assert.Equal(t, "surface unavailable: outdated", surfaceErr.Error())
	assert.ErrorIs(t, surfaceErr, outdated)
}
