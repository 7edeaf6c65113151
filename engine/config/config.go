// Package config reads the quad demo settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Backend names accepted in the renderer section.
const (
	BackendWGPU   = "wgpu"
	BackendOpenGL = "opengl"
)

// Present mode names accepted in the renderer section.
const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

// Config is the full demo configuration. Zero-valued sections are filled from Default.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Scene    SceneConfig    `toml:"scene"`
	Profiler ProfilerConfig `toml:"profiler"`
}

// WindowConfig holds the initial window title and client size.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// RendererConfig selects the backend and sizes the quad batch.
type RendererConfig struct {
	Backend                 string  `toml:"backend"`
	MaxQuads                int     `toml:"max_quads"`
	PresentMode             string  `toml:"present_mode"`
	FrameLimit              float64 `toml:"frame_limit"`
	InvertTextureVertically bool    `toml:"invert_texture_vertically"`
	ForceSoftware           bool    `toml:"force_software"`
}

// SceneConfig describes what the demo draws.
type SceneConfig struct {
	// Texture is the sprite image path. Empty draws flat colored quads.
	Texture    string     `toml:"texture"`
	Sprites    int        `toml:"sprites"`
	SpriteSize float32    `toml:"sprite_size"`
	Speed      float32    `toml:"speed"`
	ClearColor [4]float32 `toml:"clear_color"`
}

// ProfilerConfig toggles the periodic frame statistics log.
type ProfilerConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
}

// Duration is a time.Duration written as a Go duration string ("1s", "500ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Quad Renderer",
			Width:  800,
			Height: 600,
		},
		Renderer: RendererConfig{
			Backend:     BackendWGPU,
			MaxQuads:    1000,
			PresentMode: PresentModeVSync,
		},
		Scene: SceneConfig{
			Sprites:    200,
			SpriteSize: 32,
			Speed:      120,
			ClearColor: [4]float32{0.1, 0.1, 0.12, 1},
		},
		Profiler: ProfilerConfig{
			Interval: Duration{time.Second},
		},
	}
}

// Load reads a TOML file over the defaults and validates the result.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the file cannot be read, has unknown keys, or fails validation
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults. Keys that match no field are an error.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the TOML is malformed, has unknown keys, or fails validation
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write encodes the configuration as TOML.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: error if encoding fails
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	switch c.Renderer.Backend {
	case BackendWGPU, BackendOpenGL:
	default:
		errs = append(errs, fmt.Errorf("unknown renderer backend %q", c.Renderer.Backend))
	}
	switch c.Renderer.PresentMode {
	case PresentModeVSync, PresentModeUncapped:
	default:
		errs = append(errs, fmt.Errorf("unknown present mode %q", c.Renderer.PresentMode))
	}
	if c.Renderer.MaxQuads <= 0 {
		errs = append(errs, fmt.Errorf("max_quads must be positive, got %d", c.Renderer.MaxQuads))
	}
	if c.Renderer.FrameLimit < 0 {
		errs = append(errs, fmt.Errorf("frame_limit must not be negative, got %g", c.Renderer.FrameLimit))
	}
	if c.Scene.Sprites < 0 {
		errs = append(errs, fmt.Errorf("sprites must not be negative, got %d", c.Scene.Sprites))
	}
	if c.Scene.SpriteSize <= 0 {
		errs = append(errs, fmt.Errorf("sprite_size must be positive, got %g", c.Scene.SpriteSize))
	}
	if c.Profiler.Interval.Duration < 0 {
		errs = append(errs, errors.New("profiler interval must not be negative"))
	}
	return errors.Join(errs...)
}
