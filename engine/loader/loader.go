package loader

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-quad/common"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"golang.org/x/image/draw"
)

const (
	// decodeQueueSize bounds the pending decode tasks before SubmitTask blocks.
	decodeQueueSize = 256
	// decodeIdleTimeout is how long an idle decode worker lives before the pool reaps it.
	decodeIdleTimeout = 1 * time.Second
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	textureCache   map[string]common.TextureStagingData
	textureOptions []TextureOption

	// decodePool runs the per-file decodes of LoadAll
	decodePool    worker.DynamicWorkerPool
	decodeWorkers int
}

// Loader decodes image files into RGBA texture data and caches the results by name.
// The decoder is chosen from the file extension (.png, .jpg/.jpeg, .bmp); reader streams
// are sniffed from their header.
type Loader interface {
	// Load decodes an image file and caches the result under its path.
	// If the path is already cached, the cached texture is returned.
	//
	// Parameters:
	//   - path: the file path to the image
	//
	// Returns:
	//   - common.TextureStagingData: the decoded texture
	//   - error: error if the format is unsupported or decoding fails
	Load(path string) (common.TextureStagingData, error)

	// LoadReader decodes an image from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the texture
	//   - r: the reader providing encoded image data
	//
	// Returns:
	//   - common.TextureStagingData: the decoded texture
	//   - error: error if decoding fails
	LoadReader(name string, r io.Reader) (common.TextureStagingData, error)

	// LoadAll decodes several image files in parallel and caches each one under its path.
	// Files that fail do not stop the others; their errors are joined.
	//
	// Parameters:
	//   - paths: the file paths to the images
	//
	// Returns:
	//   - map[string]common.TextureStagingData: the textures that loaded, keyed by path
	//   - error: the joined errors of the files that failed, or nil
	LoadAll(paths ...string) (map[string]common.TextureStagingData, error)

	// Get retrieves a cached texture by name.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - common.TextureStagingData: the cached texture
	//   - bool: true if the texture was found
	Get(name string) (common.TextureStagingData, bool)

	// Textures returns a copy of the texture cache.
	//
	// Returns:
	//   - map[string]common.TextureStagingData: all cached textures keyed by name
	Textures() map[string]common.TextureStagingData
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the provided options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader instance
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		textureCache:  make(map[string]common.TextureStagingData),
		decodeWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(l)
	}
	l.decodePool = worker.NewDynamicWorkerPool(l.decodeWorkers, decodeQueueSize, decodeIdleTimeout)
	return l
}

func (l *loader) Load(path string) (common.TextureStagingData, error) {
	if cached, ok := l.Get(path); ok {
		return cached, nil
	}

	tex, err := LoadTexture(path, l.textureOptions...)
	if err != nil {
		return common.TextureStagingData{}, err
	}
	log.Printf("[Loader] loaded %s (%dx%d)", path, tex.Width, tex.Height)

	l.store(path, tex)
	return tex, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (common.TextureStagingData, error) {
	if cached, ok := l.Get(name); ok {
		return cached, nil
	}

	tex, err := DecodeTexture(r, l.textureOptions...)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.store(name, tex)
	return tex, nil
}

func (l *loader) LoadAll(paths ...string) (map[string]common.TextureStagingData, error) {
	textures := make([]common.TextureStagingData, len(paths))
	errs := make([]error, len(paths))

	// each task writes only its own slot, so the slices need no lock
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		l.decodePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				textures[i], errs[i] = l.Load(path)
				return nil, nil
			},
		})
	}
	wg.Wait()

	result := make(map[string]common.TextureStagingData, len(paths))
	for i, path := range paths {
		if errs[i] == nil {
			result[path] = textures[i]
		}
	}
	return result, errors.Join(errs...)
}

func (l *loader) Get(name string) (common.TextureStagingData, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tex, ok := l.textureCache[name]
	return tex, ok
}

func (l *loader) Textures() map[string]common.TextureStagingData {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]common.TextureStagingData, len(l.textureCache))
	for k, v := range l.textureCache {
		result[k] = v
	}
	return result
}

func (l *loader) store(name string, tex common.TextureStagingData) {
	l.mu.Lock()
	l.textureCache[name] = tex
	l.mu.Unlock()
}

// LoadTexture decodes an image file into RGBA texture data without caching.
//
// Parameters:
//   - path: the file path to the image
//   - options: texture options such as WithFlipVertical
//
// Returns:
//   - common.TextureStagingData: the decoded texture, top row first unless flipped
//   - error: error if the format is unsupported, the file cannot be read, or decoding fails
func LoadTexture(path string, options ...TextureOption) (common.TextureStagingData, error) {
	backend, err := resolveBackend(path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	defer f.Close()

	img, err := backend.Decode(f)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to load %s as %s: %w", path, backend.Format(), err)
	}
	return imageToTexture(img, options...)
}

// DecodeTexture decodes an image stream of any supported format into RGBA texture data.
//
// Parameters:
//   - r: the encoded image stream
//   - options: texture options such as WithFlipVertical
//
// Returns:
//   - common.TextureStagingData: the decoded texture
//   - error: error if the stream is not a supported image
func DecodeTexture(r io.Reader, options ...TextureOption) (common.TextureStagingData, error) {
	img, err := sniffLoaderBackend{}.Decode(r)
	if err != nil {
		return common.TextureStagingData{}, err
	}
	return imageToTexture(img, options...)
}

// WhiteTexture returns a 1x1 opaque white texture. Tinted quads drawn with it render as flat colour.
//
// Returns:
//   - common.TextureStagingData: the white texture
func WhiteTexture() common.TextureStagingData {
	return common.TextureStagingData{
		Pixels: []byte{0xff, 0xff, 0xff, 0xff},
		Width:  1,
		Height: 1,
	}
}

// imageToTexture converts any image into tightly packed non-premultiplied RGBA8 rows.
func imageToTexture(img image.Image, options ...TextureOption) (common.TextureStagingData, error) {
	cfg := textureConfig{scale: 1}
	for _, option := range options {
		option(&cfg)
	}

	src := img.Bounds()
	if src.Empty() {
		return common.TextureStagingData{}, fmt.Errorf("image has no pixels")
	}

	dst := image.NewNRGBA(image.Rect(0, 0, src.Dx()*cfg.scale, src.Dy()*cfg.scale))
	if cfg.scale == 1 {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	} else {
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	}

	if cfg.flipVertical {
		flipRows(dst.Pix, dst.Stride, dst.Bounds().Dy())
	}

	return common.TextureStagingData{
		Pixels: dst.Pix,
		Width:  uint32(dst.Bounds().Dx()),
		Height: uint32(dst.Bounds().Dy()),
	}, nil
}

func flipRows(pix []byte, stride, rows int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, rows-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
