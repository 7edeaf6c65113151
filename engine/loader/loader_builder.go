package loader

import (
	"github.com/Carmen-Shannon/oxy-quad/common"
)

// TextureOption configures how a decoded image is turned into texture data.
type TextureOption func(*textureConfig)

type textureConfig struct {
	flipVertical bool
	scale        int
}

// WithFlipVertical stores the image bottom row first, for pipelines that expect a bottom-up origin.
//
// Parameters:
//   - flip: true to reverse the row order
//
// Returns:
//   - TextureOption: a function that applies the flip option
func WithFlipVertical(flip bool) TextureOption {
	return func(c *textureConfig) {
		c.flipVertical = flip
	}
}

// WithScale upscales the image by an integer factor with nearest-neighbour sampling, keeping
// pixel art crisp. Factors below 1 are treated as 1.
//
// Parameters:
//   - factor: the integer scale factor
//
// Returns:
//   - TextureOption: a function that applies the scale option
func WithScale(factor int) TextureOption {
	return func(c *textureConfig) {
		c.scale = max(factor, 1)
	}
}

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithTextureOptions sets the options applied to every texture the Loader decodes.
//
// Parameters:
//   - options: the texture options
//
// Returns:
//   - LoaderBuilderOption: a function that applies the texture options to a loader
func WithTextureOptions(options ...TextureOption) LoaderBuilderOption {
	return func(l *loader) {
		l.textureOptions = append(l.textureOptions, options...)
	}
}

// WithWorkers sets how many files LoadAll decodes at once. Values below 1 are treated as 1.
// The default is one less than the number of CPUs.
//
// Parameters:
//   - n: the number of decode workers
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.decodeWorkers = max(n, 1)
	}
}

// WithTexture is an option builder that pre-populates the texture cache.
//
// Parameters:
//   - key: the cache key for the texture
//   - texture: the texture data to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the texture option to a loader
func WithTexture(key string, texture common.TextureStagingData) LoaderBuilderOption {
	return func(l *loader) {
		l.textureCache[key] = texture
	}
}
