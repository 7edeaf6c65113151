package main

import (
	"errors"
	"flag"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/batch"
	"github.com/Carmen-Shannon/oxy-quad/engine/config"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newTestContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range demoFlags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(app, set, nil)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newTestContext(t))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.toml")
	src := "[renderer]\nbackend = \"opengl\"\nmax_quads = 8\n\n[scene]\nsprites = 5\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := loadConfig(newTestContext(t,
		"--config", path,
		"--max-quads", "64",
		"--present-mode", "uncapped",
		"--profile",
	))
	require.NoError(t, err)

	assert.Equal(t, config.BackendOpenGL, cfg.Renderer.Backend)
	assert.Equal(t, 64, cfg.Renderer.MaxQuads)
	assert.Equal(t, config.PresentModeUncapped, cfg.Renderer.PresentMode)
	assert.Equal(t, 5, cfg.Scene.Sprites)
	assert.True(t, cfg.Profiler.Enabled)
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	_, err := loadConfig(newTestContext(t, "--backend", "metal"))
	assert.Error(t, err)

	_, err = loadConfig(newTestContext(t, "--config", filepath.Join(t.TempDir(), "none.toml")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBackendType(t *testing.T) {
	b, err := backendType(config.BackendWGPU)
	require.NoError(t, err)
	assert.Equal(t, renderer.BackendTypeWGPU, b)

	b, err = backendType(config.BackendOpenGL)
	require.NoError(t, err)
	assert.Equal(t, renderer.BackendTypeOpenGL, b)

	_, err = backendType("dx12")
	assert.Error(t, err)

	assert.Equal(t, renderer.PresentModeUncapped, presentMode(config.PresentModeUncapped))
	assert.Equal(t, renderer.PresentModeVSync, presentMode(config.PresentModeVSync))
}

func TestBounce(t *testing.T) {
	tests := []struct {
		name         string
		p, v, limit  float32
		wantP, wantV float32
	}{
		{"inside", 5, 3, 10, 5, 3},
		{"past start", -2, -3, 10, 0, 3},
		{"past end", 12, 3, 10, 10, -3},
		{"surface smaller than sprite", 4, 3, -6, 0, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, v := bounce(tt.p, tt.v, tt.limit)
			assert.Equal(t, tt.wantP, p)
			assert.Equal(t, tt.wantV, v)
		})
	}
}

func TestSpriteField_StaysInBounds(t *testing.T) {
	f := newSpriteField(50, 16, 400, 200, 100, batch.FullRegion(1, 1), rand.New(rand.NewSource(1)))
	for range 100 {
		f.update(0.05, 200, 100)
	}
	for _, s := range f.sprites {
		assert.GreaterOrEqual(t, s.pos.X(), float32(0))
		assert.LessOrEqual(t, s.pos.X(), float32(184))
		assert.GreaterOrEqual(t, s.pos.Y(), float32(0))
		assert.LessOrEqual(t, s.pos.Y(), float32(84))
	}
}

func TestSpriteField_SubmitStopsAtCapacity(t *testing.T) {
	b, err := batch.NewBatch(3)
	require.NoError(t, err)

	f := newSpriteField(5, 8, 0, 100, 100, batch.FullRegion(2, 2), rand.New(rand.NewSource(1)))
	err = f.submit(b)
	assert.True(t, errors.Is(err, batch.ErrCapacityExceeded))
	assert.Equal(t, 3, b.Len())

	q := b.Quad(0)
	assert.Equal(t, common.Red(), q[batch.TopLeft].Color())
	assert.Equal(t, f.sprites[0].pos, mgl32.Vec2{q[batch.TopLeft].X, q[batch.TopLeft].Y})
}

func TestQuitOnEscape(t *testing.T) {
	quits := 0
	onKeyDown := quitOnEscape(func() { quits++ })

	onKeyDown(uint32(glfw.KeySpace))
	assert.Equal(t, 0, quits)

	onKeyDown(uint32(glfw.KeyEscape))
	assert.Equal(t, 1, quits)
}
