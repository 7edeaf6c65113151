package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-quad/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGLBlendFactorMatchesDefaultBlend(t *testing.T) {
	blend := pipeline.DefaultBlendState()

	assert.Equal(t, uint32(gl.SRC_ALPHA), glBlendFactor(blend.Color.SrcFactor))
	assert.Equal(t, uint32(gl.ONE_MINUS_SRC_ALPHA), glBlendFactor(blend.Color.DstFactor))
	assert.Equal(t, uint32(gl.ONE), glBlendFactor(blend.Alpha.SrcFactor))
	assert.Equal(t, uint32(gl.ZERO), glBlendFactor(blend.Alpha.DstFactor))
	assert.Equal(t, uint32(gl.FUNC_ADD), glBlendOperation(blend.Color.Operation))
}

func TestGLStateMapping(t *testing.T) {
	_, cull := glCullFace(wgpu.CullModeNone)
	assert.False(t, cull)
	face, cull := glCullFace(wgpu.CullModeBack)
	assert.True(t, cull)
	assert.Equal(t, uint32(gl.BACK), face)

	assert.Equal(t, uint32(gl.CCW), glFrontFace(wgpu.FrontFaceCCW))
	assert.Equal(t, uint32(gl.CW), glFrontFace(wgpu.FrontFaceCW))

	assert.Equal(t, uint32(gl.TRIANGLES), glTopology(wgpu.PrimitiveTopologyTriangleList))
	assert.Equal(t, uint32(gl.LINES), glTopology(wgpu.PrimitiveTopologyLineList))

	assert.Equal(t, int32(gl.NEAREST), glFilter(wgpu.FilterModeNearest))
	assert.Equal(t, int32(gl.LINEAR), glFilter(wgpu.FilterModeLinear))
	assert.Equal(t, int32(gl.CLAMP_TO_EDGE), glAddressMode(wgpu.AddressModeClampToEdge))
	assert.Equal(t, int32(gl.REPEAT), glAddressMode(wgpu.AddressModeRepeat))
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "quad", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "quad", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 2, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
			{Binding: 1, Visibility: wgpu.ShaderStageFragment},
		}},
		1: {Label: "extra", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)

	require.Len(t, merged, 2)
	entries := merged[0].Entries
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, uint32(i), e.Binding)
	}
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, entries[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageFragment, entries[1].Visibility)
	assert.Equal(t, "extra", merged[1].Label)
}

func TestBackendTypeAndPresentModeStrings(t *testing.T) {
	assert.Equal(t, "wgpu", BackendTypeWGPU.String())
	assert.Equal(t, "opengl", BackendTypeOpenGL.String())
	assert.Equal(t, "vsync", PresentModeVSync.String())
	assert.Equal(t, "uncapped", PresentModeUncapped.String())
}

func TestLinearSurfaceFormat(t *testing.T) {
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, linearSurfaceFormat([]wgpu.TextureFormat{
		wgpu.TextureFormatBGRA8UnormSrgb,
		wgpu.TextureFormatBGRA8Unorm,
		wgpu.TextureFormatRGBA8Unorm,
	}))
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, linearSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm}))
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, linearSurfaceFormat([]wgpu.TextureFormat{
		wgpu.TextureFormatBGRA8UnormSrgb,
		wgpu.TextureFormatRGBA8UnormSrgb,
	}), "all-sRGB adapters keep their preferred format")
}
