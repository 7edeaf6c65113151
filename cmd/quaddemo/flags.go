package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-quad/engine/config"
	"github.com/Carmen-Shannon/oxy-quad/engine/renderer"

	"github.com/urfave/cli/v2"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "TOML configuration file",
		EnvVars: []string{"QUADDEMO_CONFIG"},
	}
	backendFlag = &cli.StringFlag{
		Name:  "backend",
		Usage: "renderer backend (wgpu, opengl)",
	}
	maxQuadsFlag = &cli.IntFlag{
		Name:  "max-quads",
		Usage: "quad batch capacity",
	}
	presentModeFlag = &cli.StringFlag{
		Name:  "present-mode",
		Usage: "swap behaviour (vsync, uncapped)",
	}
	frameLimitFlag = &cli.Float64Flag{
		Name:  "frame-limit",
		Usage: "maximum frames per second, 0 for no limit",
	}
	spritesFlag = &cli.IntFlag{
		Name:  "sprites",
		Usage: "number of bouncing sprites; more than max-quads shows capacity handling",
	}
	textureFlag = &cli.StringFlag{
		Name:  "texture",
		Usage: "sprite image (png, jpeg, bmp); empty draws flat quads",
	}
	widthFlag = &cli.IntFlag{
		Name:  "width",
		Usage: "window width in pixels",
	}
	heightFlag = &cli.IntFlag{
		Name:  "height",
		Usage: "window height in pixels",
	}
	profileFlag = &cli.BoolFlag{
		Name:  "profile",
		Usage: "log frame statistics every profiler interval",
	}
	softwareFlag = &cli.BoolFlag{
		Name:  "software",
		Usage: "force the WebGPU fallback (software) adapter",
	}

	demoFlags = []cli.Flag{
		configFlag,
		backendFlag,
		maxQuadsFlag,
		presentModeFlag,
		frameLimitFlag,
		spritesFlag,
		textureFlag,
		widthFlag,
		heightFlag,
		profileFlag,
		softwareFlag,
	}
)

// loadConfig reads the config file named by --config, if any, and applies explicitly set flags on top.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.String(configFlag.Name); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if ctx.IsSet(backendFlag.Name) {
		cfg.Renderer.Backend = ctx.String(backendFlag.Name)
	}
	if ctx.IsSet(maxQuadsFlag.Name) {
		cfg.Renderer.MaxQuads = ctx.Int(maxQuadsFlag.Name)
	}
	if ctx.IsSet(presentModeFlag.Name) {
		cfg.Renderer.PresentMode = ctx.String(presentModeFlag.Name)
	}
	if ctx.IsSet(frameLimitFlag.Name) {
		cfg.Renderer.FrameLimit = ctx.Float64(frameLimitFlag.Name)
	}
	if ctx.IsSet(softwareFlag.Name) {
		cfg.Renderer.ForceSoftware = ctx.Bool(softwareFlag.Name)
	}
	if ctx.IsSet(spritesFlag.Name) {
		cfg.Scene.Sprites = ctx.Int(spritesFlag.Name)
	}
	if ctx.IsSet(textureFlag.Name) {
		cfg.Scene.Texture = ctx.String(textureFlag.Name)
	}
	if ctx.IsSet(widthFlag.Name) {
		cfg.Window.Width = ctx.Int(widthFlag.Name)
	}
	if ctx.IsSet(heightFlag.Name) {
		cfg.Window.Height = ctx.Int(heightFlag.Name)
	}
	if ctx.IsSet(profileFlag.Name) {
		cfg.Profiler.Enabled = ctx.Bool(profileFlag.Name)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func backendType(name string) (renderer.RendererBackendType, error) {
	switch name {
	case config.BackendWGPU:
		return renderer.BackendTypeWGPU, nil
	case config.BackendOpenGL:
		return renderer.BackendTypeOpenGL, nil
	default:
		return 0, fmt.Errorf("unknown renderer backend %q", name)
	}
}

func presentMode(name string) renderer.PresentMode {
	if name == config.PresentModeUncapped {
		return renderer.PresentModeUncapped
	}
	return renderer.PresentModeVSync
}
