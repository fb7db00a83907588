// whitted - Recursive Ray Tracer
// Render triangle-mesh scenes with shadows and mirror reflections to an
// image file, the terminal, or a desktop window.
//
// Usage:
//
//	whitted -preset sphere -out sphere.png
//	whitted -config scene.json -width 640 -height 480 -out scene.webp
//	whitted -preset mirrors -view
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/taigrr/whitted/pkg/config"
	"github.com/taigrr/whitted/pkg/render"
	"github.com/taigrr/whitted/pkg/setup"
)

var (
	configPath = flag.String("config", "", "Path to a JSON scene config")
	presetName = flag.String("preset", "", "Built-in scene ("+strings.Join(setup.Presets(), ", ")+")")
	outPath    = flag.String("out", "", "Output image (.png, .webp or .tga)")
	width      = flag.Int("width", 0, "Image width in pixels")
	height     = flag.Int("height", 0, "Image height in pixels")
	workers    = flag.Int("workers", 0, "Render goroutines (default: CPU count)")
	maxDepth   = flag.Int("depth", 0, "Ray generations per pixel (default 3)")
	viewMode   = flag.Bool("view", false, "Interactive terminal viewer")
	windowMode = flag.Bool("window", false, "Show the result in a window")
	showBounds = flag.Bool("bounds", false, "Outline mesh bounds and the light")
	targetFPS  = flag.Int("fps", 30, "Target FPS for the terminal viewer")
	quiet      = flag.Bool("q", false, "Suppress progress output")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "whitted - Recursive Ray Tracer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: whitted [options] (-config scene.json | -preset name)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nViewer controls:\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Orbit pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Move closer/farther\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  B           - Toggle bounds overlay\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if *configPath == "" && *presetName == "" {
		if flag.NArg() > 0 && setup.IsPreset(flag.Arg(0)) {
			*presetName = flag.Arg(0)
		} else {
			flag.Usage()
			os.Exit(1)
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file or preset and applies CLI overrides.
func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = setup.Preset(*presetName)
	}
	if err != nil {
		return cfg, err
	}

	cfg.Resolve(config.Flags{
		Output:   *outPath,
		Width:    *width,
		Height:   *height,
		Workers:  *workers,
		MaxDepth: *maxDepth,
	})
	return cfg, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := setup.Build(cfg)
	if err != nil {
		return err
	}

	// Context for clean shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *viewMode {
		return runViewer(ctx, s, *targetFPS)
	}

	fmt.Printf("Scene: %d meshes, %d triangles, %dx%d, depth %d, %d workers\n",
		len(s.Scene.Meshes), s.Scene.TriangleCount(), cfg.Width, cfg.Height, cfg.MaxDepth, cfg.Workers)

	var progress io.Writer
	if !*quiet {
		progress = os.Stdout
	}
	r := s.Renderer(progress)

	fb := render.NewFramebuffer(cfg.Width, cfg.Height)
	start := time.Now()
	if err := r.Render(ctx, fb); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	elapsed := time.Since(start)

	if *showBounds {
		render.NewOverlay(s.Camera, fb).DrawScene(s.Scene, s.Light, render.RGB(0, 255, 128))
	}

	stats := r.Stats()
	fmt.Printf("Rendered in %v: %d rays (%d primary, %d shadow, %d reflection), %.0f rays/s\n",
		elapsed.Round(time.Millisecond), stats.Total(), stats.Primary, stats.Shadow, stats.Reflection,
		float64(stats.Total())/elapsed.Seconds())

	img := fb.ToImage()
	if err := render.Save(cfg.Output, img); err != nil {
		return err
	}
	fmt.Printf("Saved: %s\n", filepath.Clean(cfg.Output))

	if *windowMode {
		return showWindow(img, filepath.Base(cfg.Output))
	}
	return nil
}
