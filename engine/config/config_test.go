package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1000, cfg.Renderer.MaxQuads)
	assert.Equal(t, BackendWGPU, cfg.Renderer.Backend)
	assert.Equal(t, time.Second, cfg.Profiler.Interval.Duration)
}

func TestDecode_OverridesDefaults(t *testing.T) {
	src := `
[window]
title = "sprites"

[renderer]
backend = "opengl"
max_quads = 16
present_mode = "uncapped"

[scene]
sprites = 40
clear_color = [0.0, 0.0, 0.0, 1.0]

[profiler]
enabled = true
interval = "250ms"
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "sprites", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, BackendOpenGL, cfg.Renderer.Backend)
	assert.Equal(t, 16, cfg.Renderer.MaxQuads)
	assert.Equal(t, PresentModeUncapped, cfg.Renderer.PresentMode)
	assert.Equal(t, 40, cfg.Scene.Sprites)
	assert.Equal(t, float32(32), cfg.Scene.SpriteSize)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, cfg.Scene.ClearColor)
	assert.True(t, cfg.Profiler.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Profiler.Interval.Duration)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"unknown key", "[renderer]\nmax_quad = 4\n", "renderer.max_quad"},
		{"unknown section", "[audio]\nvolume = 1\n", "audio"},
		{"bad backend", "[renderer]\nbackend = \"vulkan\"\n", `"vulkan"`},
		{"bad present mode", "[renderer]\npresent_mode = \"mailbox\"\n", `"mailbox"`},
		{"zero capacity", "[renderer]\nmax_quads = 0\n", "max_quads"},
		{"bad duration", "[profiler]\ninterval = \"soon\"\n", "soon"},
		{"malformed", "[window\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Scene.Sprites = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "sprites")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scene]\nsprites = 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scene.Sprites)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWrite_RoundTrips(t *testing.T) {
	cfg := Default()
	cfg.Renderer.Backend = BackendOpenGL
	cfg.Profiler.Interval = Duration{2 * time.Second}

	var buf bytes.Buffer
	require.NoError(t, cfg.Write(&buf))
	assert.Contains(t, buf.String(), `interval = "2s"`)

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, decoded)
}
