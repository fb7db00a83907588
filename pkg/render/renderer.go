package render

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/scene"
)

const (
	// Epsilon offsets secondary rays from the surface they leave.
	Epsilon = 1e-5
	// EyeTMax bounds eye and reflection rays.
	EyeTMax = 100
	// ShadowTMax bounds shadow rays. Shadow rays are not normalized, so the
	// light itself sits at t = 1.
	ShadowTMax = 1000

	// DefaultMaxDepth is the number of ray generations traced per pixel.
	DefaultMaxDepth = 3
)

// SkyColor is the default background, (99, 215, 228) in 8-bit RGB.
var SkyColor = math3d.V3(99.0/255, 215.0/255, 228.0/255)

// Options configures a Renderer. Colors are linear RGB in [0, 1].
type Options struct {
	Ambient       math3d.Vec3
	Background    math3d.Vec3
	MaxDepth      int     // 0 means DefaultMaxDepth
	Workers       int     // 0 means runtime.NumCPU()
	FocalDistance float64 // Image plane distance for perspective rays; 0 means 1

	// Progress receives periodic progress lines when non-nil.
	Progress         io.Writer
	ProgressInterval time.Duration // 0 means 2s
}

// DefaultOptions returns the sky background with a dim white ambient term.
func DefaultOptions() Options {
	return Options{
		Ambient:       math3d.V3(0.1, 0.1, 0.1),
		Background:    SkyColor,
		MaxDepth:      DefaultMaxDepth,
		Workers:       runtime.NumCPU(),
		FocalDistance: 1,
	}
}

// RayStats counts the rays traced since the renderer was created.
type RayStats struct {
	Primary    int64
	Shadow     int64
	Reflection int64
}

// Total returns the number of rays of every kind.
func (s RayStats) Total() int64 {
	return s.Primary + s.Shadow + s.Reflection
}

// Renderer traces a scene through a camera with one point light.
// The scene, camera and light must not change during Render.
type Renderer struct {
	scene  *scene.Scene
	camera Camera
	light  *scene.PointLight
	opts   Options

	primary    atomic.Int64
	shadow     atomic.Int64
	reflection atomic.Int64
}

// NewRenderer creates a renderer, filling unset options with defaults.
func NewRenderer(s *scene.Scene, camera Camera, light *scene.PointLight, opts Options) *Renderer {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.FocalDistance == 0 {
		opts.FocalDistance = 1
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = 2 * time.Second
	}
	return &Renderer{
		scene:  s,
		camera: camera,
		light:  light,
		opts:   opts,
	}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Stats returns a snapshot of the ray counters.
func (r *Renderer) Stats() RayStats {
	return RayStats{
		Primary:    r.primary.Load(),
		Shadow:     r.shadow.Load(),
		Reflection: r.reflection.Load(),
	}
}

// RayColor returns the color seen along a world-space ray. depth counts
// the generations already traced; at maxDepth the ray contributes black.
func (r *Renderer) RayColor(ray math3d.Ray, depth, maxDepth int) math3d.Vec3 {
	if depth >= maxDepth {
		return math3d.Zero3()
	}

	tMin := 0.0
	if depth > 0 {
		tMin = Epsilon
	}
	rec, ok := r.scene.Hit(ray, tMin, EyeTMax)
	if !ok {
		return r.opts.Background
	}

	mat := rec.Material
	n := rec.Normal
	c := r.opts.Ambient.Scale(mat.Ka)

	toLight := r.light.Position().Sub(rec.Point)
	if dist := toLight.Len(); dist > 0 {
		r.shadow.Add(1)
		if _, blocked := r.scene.Hit(math3d.NewRay(rec.Point, toLight), Epsilon, ShadowTMax); blocked {
			return c.Clamp(0, 1)
		}

		l := toLight.Div(dist)
		e := r.light.Radiance(dist).Scale(math.Max(0, n.Dot(l)))

		diffuse := mat.DiffuseColor.Scale(mat.Kd / math.Pi)
		h := l.Add(ray.Direction.Negate().Normalize()).Normalize()
		specular := mat.SpecularColor.Scale(mat.Ks * math.Pow(math.Max(0, n.Dot(h)), mat.P))

		c = c.Add(e.Mul(diffuse.Add(specular)))
	}

	if mat.Reflective() {
		r.reflection.Add(1)
		reflected := math3d.NewRay(rec.Point, ray.Direction.Reflect(n))
		c = c.Add(r.RayColor(reflected, depth+1, maxDepth).Scale(mat.Km))
	}

	return c.Clamp(0, 1)
}

// PixelColor traces the primary ray through pixel (i, j) of a w×h image.
func (r *Renderer) PixelColor(i, j, w, h int) math3d.Vec3 {
	r.primary.Add(1)
	ray := r.camera.ToWorld(r.camera.RayAtPixel(i, j, w, h, r.opts.FocalDistance))
	return r.RayColor(ray, 0, r.opts.MaxDepth)
}

// Render traces every pixel of fb on a pool of Options.Workers goroutines.
// If ctx is cancelled, no further pixels are dispatched and ctx.Err() is
// returned; the partial image should be discarded.
func (r *Renderer) Render(ctx context.Context, fb *Framebuffer) error {
	w, h := fb.Width, fb.Height
	total := w * h
	var processed atomic.Int64

	start := time.Now()

	report := func(p int64) {
		rate := float64(p) / time.Since(start).Seconds()
		fmt.Fprintf(r.opts.Progress, "  [%d/%d] %.1f%% (%.0f px/s)\n",
			p, total, 100*float64(p)/float64(total), rate)
	}

	// Progress reporter
	done := make(chan struct{})
	var reporter sync.WaitGroup
	if r.opts.Progress != nil {
		reporter.Go(func() {
			ticker := time.NewTicker(r.opts.ProgressInterval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if p := processed.Load(); p > 0 {
						report(p)
					}
				}
			}
		})
	}

	// Worker pool
	pixelChan := make(chan int, r.opts.Workers*2)
	var wg sync.WaitGroup

	for range r.opts.Workers {
		wg.Go(func() {
			for idx := range pixelChan {
				i, j := idx%w, idx/w
				fb.Pixels[(h-1-j)*w+i] = toRGBA(r.PixelColor(i, j, w, h))
				processed.Add(1)
			}
		})
	}

	// Send work
	var err error
dispatch:
	for idx := range total {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case pixelChan <- idx:
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		}
	}
	close(pixelChan)

	wg.Wait()
	close(done)
	reporter.Wait()

	// A finished render always ends on the completion line.
	if err == nil && r.opts.Progress != nil {
		report(processed.Load())
	}
	return err
}

// toRGBA converts a [0, 1] color to 8-bit RGBA, truncating.
func toRGBA(c math3d.Vec3) color.RGBA {
	c = c.Clamp(0, 1)
	return color.RGBA{uint8(c.X * 255), uint8(c.Y * 255), uint8(c.Z * 255), 255}
}
