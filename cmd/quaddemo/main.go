// Command quaddemo draws bouncing sprites through the batched quad renderer.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine"
	"github.com/Carmen-Shannon/oxy-quad/engine/batch"
	"github.com/Carmen-Shannon/oxy-quad/engine/loader"
	"github.com/Carmen-Shannon/oxy-quad/engine/profiler"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer"
	"github.com/Carmen-Shannon/oxy-quad/engine/window"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/urfave/cli/v2"
)

var app = &cli.App{
	Name:   "quaddemo",
	Usage:  "bouncing sprites drawn with one batched draw call per frame",
	Flags:  demoFlags,
	Action: runDemo,
	Commands: []*cli.Command{
		{
			Name:   "dumpconfig",
			Usage:  "print the effective configuration as TOML",
			Flags:  demoFlags,
			Action: dumpConfig,
		},
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return cfg.Write(ctx.App.Writer)
}

// quitOnEscape returns a key down callback that calls quit when Escape is pressed.
func quitOnEscape(quit func()) func(keyCode uint32) {
	return func(keyCode uint32) {
		if glfw.Key(keyCode) == glfw.KeyEscape {
			quit()
		}
	}
}

func runDemo(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	backend, err := backendType(cfg.Renderer.Backend)
	if err != nil {
		return err
	}

	// ── Texture ──────────────────────────────────────────────────────
	tex := loader.WhiteTexture()
	if cfg.Scene.Texture != "" {
		if tex, err = loader.LoadTexture(cfg.Scene.Texture); err != nil {
			return err
		}
	}

	// ── Window ───────────────────────────────────────────────────────
	clientAPI := window.ClientAPINone
	if backend == renderer.BackendTypeOpenGL {
		clientAPI = window.ClientAPIOpenGL
	}
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithClientAPI(clientAPI),
		window.WithCloseOnEscape(false),
	)
	if err != nil {
		return err
	}

	// ── Renderer ─────────────────────────────────────────────────────
	r, err := renderer.NewRenderer(
		backend,
		win,
		renderer.WithMaxQuads(cfg.Renderer.MaxQuads),
		renderer.WithPresentMode(presentMode(cfg.Renderer.PresentMode)),
		renderer.WithInvertTextureVertically(cfg.Renderer.InvertTextureVertically),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
	)
	if err != nil {
		win.Close()
		return err
	}
	if err := r.LoadTexture(tex.Pixels, int(tex.Width), int(tex.Height)); err != nil {
		r.Release()
		win.Close()
		return err
	}

	// ── Scene ────────────────────────────────────────────────────────
	field := newSpriteField(
		cfg.Scene.Sprites,
		cfg.Scene.SpriteSize,
		cfg.Scene.Speed,
		win.Width(), win.Height(),
		batch.FullRegion(int(tex.Width), int(tex.Height)),
		rand.New(rand.NewSource(time.Now().UnixNano())),
	)
	if cfg.Scene.Sprites > cfg.Renderer.MaxQuads {
		log.Printf("[QuadDemo] %d sprites exceed the batch capacity of %d, the rest are dropped each frame",
			cfg.Scene.Sprites, cfg.Renderer.MaxQuads)
	}

	c := cfg.Scene.ClearColor
	eng := engine.NewEngine(win, r,
		engine.WithClearColor(common.RGBA(c[0], c[1], c[2], c[3])),
		engine.WithRenderFrameLimit(cfg.Renderer.FrameLimit),
		engine.WithProfiling(cfg.Profiler.Enabled),
		engine.WithProfiler(profiler.NewProfiler(profiler.WithUpdateInterval(cfg.Profiler.Interval.Duration))),
		engine.WithFrameCallback(func(dt float32, r renderer.Renderer) error {
			field.update(dt, win.Width(), win.Height())
			return field.submit(r)
		}),
	)
	win.SetKeyDownCallback(quitOnEscape(eng.Quit))

	log.Printf("[QuadDemo] running %s backend, %d sprites, press Esc to quit", backend, cfg.Scene.Sprites)
	if err := eng.Run(); err != nil {
		return fmt.Errorf("frame loop stopped: %w", err)
	}
	return nil
}
