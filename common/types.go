// package common contains common types that are used throughout this module. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the tightly packed RGBA8 pixel data, 4 bytes per pixel, row-major. Row 0 is the top row
	// unless the producer documents otherwise.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// Validate reports whether the staging data describes a non-empty, tightly packed RGBA8 image.
//
// Returns:
//   - error: an error describing the mismatch, or nil if the data is well formed
func (t TextureStagingData) Validate() error {
	if t.Width == 0 || t.Height == 0 {
		return fmt.Errorf("texture dimensions must be positive, got %dx%d", t.Width, t.Height)
	}
	want := int(t.Width) * int(t.Height) * 4
	if len(t.Pixels) != want {
		return fmt.Errorf("texture %dx%d needs %d bytes of RGBA8 data, got %d", t.Width, t.Height, want, len(t.Pixels))
	}
	return nil
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// Zero-valued fields are replaced with defaults by the backend that consumes it.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// NearestSampler returns the sampler configuration used for sprite textures: nearest-neighbour
// filtering and clamp-to-edge addressing so pixel art stays crisp and regions never bleed.
//
// Returns:
//   - SamplerStagingData: the nearest/clamp sampler configuration
func NearestSampler() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeNearest,
		MinFilter:    wgpu.FilterModeNearest,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
		LodMaxClamp:  1,
	}
}
