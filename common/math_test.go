package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelProjectionCorners(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"500x600", 500, 600},
		{"1280x720", 1280, 720},
		{"1x1", 1, 1},
		{"odd", 333, 77},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := PixelProjection(tt.width, tt.height)

			x, y := TransformPoint(m, 0, 0)
			assert.InDelta(t, -1, x, 1e-6)
			assert.InDelta(t, 1, y, 1e-6)

			x, y = TransformPoint(m, float32(tt.width), float32(tt.height))
			assert.InDelta(t, 1, x, 1e-5)
			assert.InDelta(t, -1, y, 1e-5)

			x, y = TransformPoint(m, float32(tt.width)/2, float32(tt.height)/2)
			assert.InDelta(t, 0, x, 1e-5)
			assert.InDelta(t, 0, y, 1e-5)
		})
	}
}

func TestPixelProjectionColumnMajor(t *testing.T) {
	m := PixelProjection(500, 600)

	// Column-major: scale on the diagonal, translation in elements 12 and 13.
	assert.InDelta(t, 0.004, m[0], 1e-7)
	assert.InDelta(t, -2.0/600.0, m[5], 1e-7)
	assert.Equal(t, float32(1), m[10])
	assert.Equal(t, float32(1), m[15])
	assert.Equal(t, float32(-1), m[12])
	assert.Equal(t, float32(1), m[13])
	assert.Equal(t, float32(0), m[14])

	for _, i := range []int{1, 2, 3, 4, 6, 7, 8, 9, 11} {
		assert.Equalf(t, float32(0), m[i], "element %d", i)
	}
}

func TestPixelProjectionKeepsZ(t *testing.T) {
	m := PixelProjection(640, 480)
	v := m.Mul4x1(mgl32.Vec4{10, 20, 0.25, 1})
	assert.Equal(t, float32(0.25), v.Z())
	assert.Equal(t, float32(1), v.W())
}

func TestMirrorV(t *testing.T) {
	assert.Equal(t, float32(32), MirrorV(0, 32))
	assert.Equal(t, float32(0), MirrorV(32, 32))
	assert.Equal(t, float32(24), MirrorV(8, 32))
}

func TestSliceToBytes(t *testing.T) {
	require.Nil(t, SliceToBytes([]float32{}))

	b := SliceToBytes([]float32{1, 2, 3})
	assert.Len(t, b, 12)

	u := SliceToBytes([]uint32{0x01020304})
	require.Len(t, u, 4)
}

func TestStructToBytes(t *testing.T) {
	type pair struct{ A, B float32 }
	p := pair{1, 2}
	assert.Len(t, StructToBytes(&p), 8)
}
