package batch

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-quad/common"
)

var (
	// ErrCapacityExceeded is returned when a quad is submitted to a full batch.
	ErrCapacityExceeded = errors.New("quad batch capacity exceeded")

	// ErrInvalidCapacity is returned when a batch is created with an unusable slot count.
	ErrInvalidCapacity = errors.New("invalid quad batch capacity")
)

// MaxCapacity is the largest slot count whose vertex indices still fit in a uint32.
const MaxCapacity = math.MaxUint32 / VerticesPerQuad

// batch is the implementation of the Batch interface.
type batch struct {
	maxQuads int

	// vertices is the fixed backing store of maxQuads*4 vertices. Slots are overwritten
	// every frame, never reallocated.
	vertices []Vertex
	// indices is computed once at construction and never written again.
	indices []uint32

	quadsToRender int
}

// Batch is a fixed-capacity CPU-side quad buffer with an immutable index layout.
// It is not safe for concurrent use; it is owned by the render goroutine.
type Batch interface {
	// Capacity returns the maximum number of quads the batch holds between resets.
	//
	// Returns:
	//   - int: the slot count fixed at construction
	Capacity() int

	// Len returns the number of quads submitted since the last reset.
	//
	// Returns:
	//   - int: the current submission count, always within [0, Capacity()]
	Len() int

	// Submit lays out a quad description and writes it into the next free slot.
	//
	// Parameters:
	//   - desc: the quad to submit
	//
	// Returns:
	//   - error: ErrCapacityExceeded if every slot is taken
	Submit(desc QuadDescription) error

	// SubmitQuad writes pre-built vertices into the next free slot.
	//
	// Parameters:
	//   - q: the quad vertices in winding order
	//
	// Returns:
	//   - error: ErrCapacityExceeded if every slot is taken
	SubmitQuad(q Quad) error

	// Quad returns a copy of the vertices in slot i.
	//
	// Parameters:
	//   - i: the slot index, must be within [0, Capacity())
	//
	// Returns:
	//   - Quad: the slot contents
	Quad(i int) Quad

	// Vertices returns the submitted region of the vertex store (Len()*4 vertices).
	// The slice aliases the batch storage and is only valid until the next Submit or Reset.
	//
	// Returns:
	//   - []Vertex: the active vertices
	Vertices() []Vertex

	// Bytes returns the submitted region of the vertex store as contiguous bytes for upload.
	// The slice aliases the batch storage and is only valid until the next Submit or Reset.
	//
	// Returns:
	//   - []byte: Len()*4*VertexStride bytes, or nil when the batch is empty
	Bytes() []byte

	// Indices returns a copy of the full index sequence (Capacity()*6 entries).
	//
	// Returns:
	//   - []uint32: the index sequence
	Indices() []uint32

	// IndexCount returns the number of indices covering the submitted quads.
	//
	// Returns:
	//   - int: Len()*6
	IndexCount() int

	// Reset sets the submission count back to zero. Slot contents are left in place and
	// overwritten by later submissions.
	Reset()
}

var _ Batch = &batch{}

// NewBatch allocates a batch with room for maxQuads quads and derives its index sequence.
//
// Parameters:
//   - maxQuads: the slot count, must be in [1, MaxCapacity]
//
// Returns:
//   - Batch: the allocated batch
//   - error: ErrInvalidCapacity if maxQuads is out of range
func NewBatch(maxQuads int) (Batch, error) {
	if maxQuads <= 0 || maxQuads > MaxCapacity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, maxQuads)
	}
	return &batch{
		maxQuads: maxQuads,
		vertices: make([]Vertex, maxQuads*VerticesPerQuad),
		indices:  QuadIndices(maxQuads),
	}, nil
}

func (b *batch) Capacity() int {
	return b.maxQuads
}

func (b *batch) Len() int {
	return b.quadsToRender
}

func (b *batch) Submit(desc QuadDescription) error {
	return b.SubmitQuad(BuildQuad(desc))
}

func (b *batch) SubmitQuad(q Quad) error {
	if b.quadsToRender >= b.maxQuads {
		return fmt.Errorf("%w: all %d slots are in use", ErrCapacityExceeded, b.maxQuads)
	}
	copy(b.vertices[b.quadsToRender*VerticesPerQuad:], q[:])
	b.quadsToRender++
	return nil
}

func (b *batch) Quad(i int) Quad {
	var q Quad
	copy(q[:], b.vertices[i*VerticesPerQuad:(i+1)*VerticesPerQuad])
	return q
}

func (b *batch) Vertices() []Vertex {
	return b.vertices[:b.quadsToRender*VerticesPerQuad]
}

func (b *batch) Bytes() []byte {
	return common.SliceToBytes(b.Vertices())
}

func (b *batch) Indices() []uint32 {
	out := make([]uint32, len(b.indices))
	copy(out, b.indices)
	return out
}

func (b *batch) IndexCount() int {
	return b.quadsToRender * IndicesPerQuad
}

func (b *batch) Reset() {
	b.quadsToRender = 0
}
