package common

// Color is a straight (non-premultiplied) RGBA color with components in 0..1.
type Color struct {
	R, G, B, A float32
}

// RGBA returns an opaque or translucent color from its components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

func Red() Color         { return Color{R: 1, A: 1} }
func Green() Color       { return Color{G: 1, A: 1} }
func Blue() Color        { return Color{B: 1, A: 1} }
func Cyan() Color        { return Color{G: 1, B: 1, A: 1} }
func Yellow() Color      { return Color{R: 1, G: 1, A: 1} }
func White() Color       { return Color{R: 1, G: 1, B: 1, A: 1} }
func Black() Color       { return Color{A: 1} }
func Transparent() Color { return Color{} }

// RGBA8 converts the color to 8-bit channels, clamping each component to 0..1.
func (c Color) RGBA8() [4]uint8 {
	return [4]uint8{toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)}
}

// Array returns the components as a flat array in RGBA order.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
