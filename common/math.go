package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// PixelProjection builds the transform from surface pixel space into clip space.
// Pixel (0, 0) is the top-left corner of the surface and (width, height) the bottom-right;
// clip space spans left=-1, right=+1, top=+1, bottom=-1.
//
// With w = 2/width and h = 2/height the mapping is:
//
//	x' = w*x - 1
//	y' = -h*y + 1
//	z' = z
//
// which is a scale of (w, -h, 1) followed by a translation of (-1, +1, 0).
// The returned mgl32.Mat4 is stored column-major and can be uploaded as-is to GL
// (transpose=false) and to WGSL mat4x4<f32> uniforms.
//
// Parameters:
//   - width: the surface width in pixels (must be > 0)
//   - height: the surface height in pixels (must be > 0)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func PixelProjection(width, height int) mgl32.Mat4 {
	w := 2 / float32(width)
	h := 2 / float32(height)
	return mgl32.Translate3D(-1, 1, 0).Mul4(mgl32.Scale3D(w, -h, 1))
}

// TransformPoint applies a 4x4 transform to a 2D point on the z=0 plane and returns the
// resulting x and y.
//
// Parameters:
//   - m: the column-major transform
//   - x, y: the point to transform
//
// Returns:
//   - float32: transformed x
//   - float32: transformed y
func TransformPoint(m mgl32.Mat4, x, y float32) (float32, float32) {
	v := m.Mul4x1(mgl32.Vec4{x, y, 0, 1})
	return v.X(), v.Y()
}

// MirrorV flips a pixel-space texture coordinate around the horizontal centre line of a
// texture with the given height.
func MirrorV(v, textureHeight float32) float32 {
	return textureHeight - v
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}
