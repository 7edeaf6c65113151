package loader

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned when a file extension has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported texture format")

// loaderBackend decodes one image file format.
type loaderBackend interface {
	// Decode reads a complete image from r.
	//
	// Parameters:
	//   - r: the encoded image stream
	//
	// Returns:
	//   - image.Image: the decoded image
	//   - error: error if the stream is not a valid image of this format
	Decode(r io.Reader) (image.Image, error)

	// Format returns the short format name used in errors and logs.
	Format() string
}

// imageLoaderBackend adapts a standard decode function to loaderBackend.
type imageLoaderBackend struct {
	format string
	decode func(io.Reader) (image.Image, error)
}

func (b imageLoaderBackend) Decode(r io.Reader) (image.Image, error) {
	return b.decode(r)
}

func (b imageLoaderBackend) Format() string {
	return b.format
}

// sniffLoaderBackend detects the format from the stream header. BMP registers itself with the
// image package through the x/image/bmp import.
type sniffLoaderBackend struct{}

func (sniffLoaderBackend) Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

func (sniffLoaderBackend) Format() string {
	return "auto"
}

var backendsByExtension = map[string]loaderBackend{
	".png":  imageLoaderBackend{format: "png", decode: png.Decode},
	".jpg":  imageLoaderBackend{format: "jpeg", decode: jpeg.Decode},
	".jpeg": imageLoaderBackend{format: "jpeg", decode: jpeg.Decode},
	".bmp":  imageLoaderBackend{format: "bmp", decode: bmp.Decode},
}

// resolveBackend picks the decoder for a file by its extension.
func resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if b, ok := backendsByExtension[ext]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}
