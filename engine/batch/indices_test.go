package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuadIndices(t *testing.T) {
	assert.Nil(t, QuadIndices(0))
	assert.Nil(t, QuadIndices(-3))

	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, QuadIndices(1))
	assert.Equal(t, []uint32{
		0, 1, 2, 0, 2, 3,
		4, 5, 6, 4, 6, 7,
		8, 9, 10, 8, 10, 11,
	}, QuadIndices(3))
}

func TestQuadIndicesSlotPattern(t *testing.T) {
	const n = 1000
	idx := QuadIndices(n)
	assert.Len(t, idx, n*IndicesPerQuad)
	for i := 0; i < n; i++ {
		base := uint32(4 * i)
		got := idx[i*6 : i*6+6]
		assert.Equal(t, []uint32{base, base + 1, base + 2, base, base + 2, base + 3}, got)
	}
}
