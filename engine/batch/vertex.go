package batch

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// VertexComponents is the number of float32 values that make up one Vertex.
	VertexComponents = 8
	// VertexStride is the size of one Vertex in bytes.
	VertexStride = VertexComponents * 4
	// VerticesPerQuad is the number of vertices written per quad slot.
	VerticesPerQuad = 4
	// IndicesPerQuad is the number of indices consumed per quad slot (two triangles).
	IndicesPerQuad = 6
)

// Vertex attribute locations and byte offsets within a Vertex.
const (
	PositionLocation = 0
	TexCoordLocation = 1
	ColorLocation    = 2

	PositionOffset = 0
	TexCoordOffset = 2 * 4
	ColorOffset    = 4 * 4
)

// Vertex is a single quad corner. Position is in surface pixels, the texture coordinate is
// in pixels of the bound texture (not normalised) and color components are 0..1.
// The field order is the GPU layout: 2 floats position, 2 floats texcoord, 4 floats color.
type Vertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32
}

var _ [VertexStride]byte = [unsafe.Sizeof(Vertex{})]byte{}

// Floats returns the vertex as a flat array in upload order.
func (v Vertex) Floats() [VertexComponents]float32 {
	return [VertexComponents]float32{v.X, v.Y, v.U, v.V, v.R, v.G, v.B, v.A}
}

// Color returns the vertex color.
func (v Vertex) Color() common.Color {
	return common.Color{R: v.R, G: v.G, B: v.B, A: v.A}
}

// Quad is four vertices in the fixed winding order bottom-left(0), bottom-right(1),
// top-right(2), top-left(3). Each quad is drawn as the triangles (0,1,2) and (0,2,3).
//
//	3---2
//	| / |
//	0---1
type Quad [VerticesPerQuad]Vertex

// Corner indices into a Quad.
const (
	BottomLeft = iota
	BottomRight
	TopRight
	TopLeft
)

// TextureRegion is a rectangle of the bound texture in pixels, with its origin at the
// region's top-left corner.
type TextureRegion struct {
	X, Y          float32
	Width, Height float32
}

// FullRegion returns the region covering an entire texture of the given size.
func FullRegion(width, height int) TextureRegion {
	return TextureRegion{Width: float32(width), Height: float32(height)}
}

// QuadDescription describes one sprite: where it goes on the surface, which part of the
// texture it shows, and the color it is tinted with.
type QuadDescription struct {
	// Position is the top-left corner of the quad in surface pixels.
	Position mgl32.Vec2
	// Size is the quad width and height in surface pixels.
	Size mgl32.Vec2
	// Region is the texture area mapped onto the quad.
	Region TextureRegion
	// Color multiplies the sampled texel.
	Color common.Color
}

// BuildQuad lays out the four vertices of a quad description in winding order.
//
// Parameters:
//   - desc: the quad to lay out
//
// Returns:
//   - Quad: the four vertices, bottom-left first
func BuildQuad(desc QuadDescription) Quad {
	x0, y0 := desc.Position.X(), desc.Position.Y()
	x1, y1 := x0+desc.Size.X(), y0+desc.Size.Y()

	u0, v0 := desc.Region.X, desc.Region.Y
	u1, v1 := u0+desc.Region.Width, v0+desc.Region.Height

	c := desc.Color
	return Quad{
		BottomLeft:  {X: x0, Y: y1, U: u0, V: v1, R: c.R, G: c.G, B: c.B, A: c.A},
		BottomRight: {X: x1, Y: y1, U: u1, V: v1, R: c.R, G: c.G, B: c.B, A: c.A},
		TopRight:    {X: x1, Y: y0, U: u1, V: v0, R: c.R, G: c.G, B: c.B, A: c.A},
		TopLeft:     {X: x0, Y: y0, U: u0, V: v0, R: c.R, G: c.G, B: c.B, A: c.A},
	}
}
