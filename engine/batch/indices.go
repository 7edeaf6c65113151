package batch

// QuadIndices returns the index sequence for maxQuads quad slots. Slot i contributes
// {4i, 4i+1, 4i+2, 4i, 4i+2, 4i+3}. The result depends only on the slot count.
//
// Parameters:
//   - maxQuads: the number of quad slots
//
// Returns:
//   - []uint32: 6*maxQuads indices, or nil if maxQuads <= 0
func QuadIndices(maxQuads int) []uint32 {
	if maxQuads <= 0 {
		return nil
	}
	indices := make([]uint32, maxQuads*IndicesPerQuad)
	for i := 0; i < maxQuads; i++ {
		vertex := uint32(i * VerticesPerQuad)
		index := i * IndicesPerQuad
		indices[index+0] = vertex + 0
		indices[index+1] = vertex + 1
		indices[index+2] = vertex + 2
		indices[index+3] = vertex + 0
		indices[index+4] = vertex + 2
		indices[index+5] = vertex + 3
	}
	return indices
}
