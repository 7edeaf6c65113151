package batch

import (
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestVertexLayout(t *testing.T) {
	var v Vertex
	assert.Equal(t, uintptr(VertexStride), unsafe.Sizeof(v))
	assert.Equal(t, uintptr(PositionOffset), unsafe.Offsetof(v.X))
	assert.Equal(t, uintptr(TexCoordOffset), unsafe.Offsetof(v.U))
	assert.Equal(t, uintptr(ColorOffset), unsafe.Offsetof(v.R))
}

func TestVertexFloats(t *testing.T) {
	v := Vertex{X: 1, Y: 2, U: 3, V: 4, R: 0.1, G: 0.2, B: 0.3, A: 0.4}
	assert.Equal(t, [8]float32{1, 2, 3, 4, 0.1, 0.2, 0.3, 0.4}, v.Floats())
	assert.Equal(t, common.RGBA(0.1, 0.2, 0.3, 0.4), v.Color())
}

func TestBuildQuadFullTexture(t *testing.T) {
	q := BuildQuad(QuadDescription{
		Position: mgl32.Vec2{0, 0},
		Size:     mgl32.Vec2{64, 64},
		Region:   FullRegion(64, 64),
		Color:    common.Green(),
	})

	assert.Equal(t, [2]float32{0, 64}, [2]float32{q[BottomLeft].X, q[BottomLeft].Y})
	assert.Equal(t, [2]float32{0, 64}, [2]float32{q[BottomLeft].U, q[BottomLeft].V})
	assert.Equal(t, [2]float32{64, 0}, [2]float32{q[TopRight].U, q[TopRight].V})
	for _, v := range q {
		assert.Equal(t, common.Green(), v.Color())
	}
}

func TestBuildQuadZeroSize(t *testing.T) {
	q := BuildQuad(QuadDescription{Position: mgl32.Vec2{5, 5}})
	for _, v := range q {
		assert.Equal(t, float32(5), v.X)
		assert.Equal(t, float32(5), v.Y)
	}
}
