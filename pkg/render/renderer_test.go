package render

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/models"
	"github.com/taigrr/whitted/pkg/scene"
)

var black = math3d.Vec3{}

// sphereScene is a unit sphere three units in front of an orthographic
// camera whose image plane spans [-1.5, 1.5]².
func sphereScene() (*scene.Scene, Camera, *scene.PointLight) {
	sphere := models.NewUVSphere(16, 32)
	sphere.Material.Ka = 0.2
	sphere.Material.DiffuseColor = math3d.V3(1, 0, 1)
	sphere.Transform.SetPosition(0, 3, 0)

	light := scene.NewPointLight(50, math3d.V3(1, 1, 1))
	light.Transform.SetPosition(0, 1, 3)

	cam := NewOrthographicCamera(-1.5, 1.5, -1.5, 1.5, 1, 60)
	return scene.New(sphere), cam, light
}

func TestRenderSphere(t *testing.T) {
	s, cam, light := sphereScene()
	r := NewRenderer(s, cam, light, Options{Ambient: math3d.V3(1, 1, 1), Background: black, Workers: 4})

	const size = 24
	fb := NewFramebuffer(size, size)
	if err := r.Render(context.Background(), fb); err != nil {
		t.Fatalf("Render: %v", err)
	}

	bg := toRGBA(black)
	for j := range size {
		for i := range size {
			u := -1.5 + 3*(float64(i)+0.5)/size
			v := -1.5 + 3*(float64(j)+0.5)/size
			radius := math.Hypot(u, v)
			px := fb.GetPixel(i, size-1-j)

			switch {
			case radius < 0.9:
				if px.R < 51 || px.B < 51 {
					t.Errorf("pixel (%d, %d) inside the sphere = %v, want at least ambient", i, j, px)
				}
			case radius > 1.01:
				if px != bg {
					t.Errorf("pixel (%d, %d) outside the sphere = %v, want background", i, j, px)
				}
			}
		}
	}

	if got := r.Stats().Primary; got != size*size {
		t.Errorf("Primary rays = %d, want %d", got, size*size)
	}
}

func TestRenderOrientation(t *testing.T) {
	// A strip covering only the upper half of the view.
	strip := models.NewQuad(2, 1)
	strip.Transform.SetPosition(0, 5, 0.5)

	light := scene.NewPointLight(10, math3d.V3(1, 1, 1))
	cam := NewOrthographicCamera(-1, 1, -1, 1, 1, 20)
	r := NewRenderer(scene.New(strip), cam, light, Options{Ambient: math3d.V3(1, 1, 1), Background: black})

	fb := NewFramebuffer(8, 8)
	if err := r.Render(context.Background(), fb); err != nil {
		t.Fatal(err)
	}
	if fb.GetPixel(3, 1) == toRGBA(black) {
		t.Error("top row should show the strip")
	}
	if fb.GetPixel(3, 6) != toRGBA(black) {
		t.Error("bottom row should show the background")
	}
}

func TestRayColorMissAndDepth(t *testing.T) {
	s, cam, light := sphereScene()
	r := NewRenderer(s, cam, light, DefaultOptions())

	away := math3d.NewRay(math3d.Zero3(), math3d.V3(0, -1, 0))
	if got := r.RayColor(away, 0, 3); got != SkyColor {
		t.Errorf("miss = %v, want sky %v", got, SkyColor)
	}

	toward := math3d.NewRay(math3d.V3(0.1, 0, 0.1), math3d.V3(0, 1, 0))
	if got := r.RayColor(toward, 3, 3); got != black {
		t.Errorf("depth at limit = %v, want black", got)
	}
}

func TestShadowNeverBrightens(t *testing.T) {
	wall := models.NewQuad(4, 4)
	wall.Transform.SetPosition(0, 5, 0)
	light := scene.NewPointLight(40, math3d.V3(1, 1, 1))
	light.Transform.SetPosition(0, 1, 4)
	cam := NewOrthographicCamera(-1, 1, -1, 1, 1, 20)
	opts := Options{Ambient: math3d.V3(0.2, 0.2, 0.2), Background: black}

	// The blocker sits on the segment between (0, 5, 0) and the light,
	// well above every eye ray traced below.
	blocker := models.NewCube()
	blocker.TransformVertices(math3d.ScaleUniform(0.5))
	blocker.Transform.SetPosition(0, 3, 2)

	open := NewRenderer(scene.New(wall), cam, light, opts)
	shadowed := NewRenderer(scene.New(wall, blocker), cam, light, opts)

	// A shadowed point keeps only the ambient term.
	ambient := opts.Ambient.Scale(wall.Material.Ka)

	darker := 0
	for x := -0.5; x <= 0.5; x += 0.1 {
		for z := -0.5; z <= 0.5; z += 0.1 {
			ray := math3d.NewRay(math3d.V3(x, 0, z), math3d.V3(0, 1, 0))
			lit := open.RayColor(ray, 0, 3)
			dim := shadowed.RayColor(ray, 0, 3)
			if dim.X > lit.X || dim.Y > lit.Y || dim.Z > lit.Z {
				t.Fatalf("occluder brightened (%v, %v): %v > %v", x, z, dim, lit)
			}
			if dim != lit {
				darker++
				if dim != ambient {
					t.Errorf("shadowed (%v, %v) = %v, want ambient %v", x, z, dim, ambient)
				}
			}
		}
	}
	if darker == 0 {
		t.Error("blocker never cast a shadow")
	}

	ray := math3d.NewRay(math3d.V3(0.05, 0, 0.1), math3d.V3(0, 1, 0))
	lit := open.RayColor(ray, 0, 3)
	dim := shadowed.RayColor(ray, 0, 3)
	if dim != ambient {
		t.Errorf("point behind blocker = %v, want ambient %v", dim, ambient)
	}
	if lit == ambient {
		t.Errorf("unblocked point = %v, want direct light on top of ambient", lit)
	}
}

func TestReflectionDepthBound(t *testing.T) {
	// Two mirrors facing each other would reflect forever without the
	// depth limit.
	front := models.NewQuad(4, 4)
	front.Material.Km = 1
	front.Transform.SetPosition(0, 5, 0)

	back := models.NewQuad(4, 4)
	back.Material.Km = 1
	back.Transform.SetRotation(0, 0, 180)
	back.Transform.SetPosition(0, -5, 0)

	light := scene.NewPointLight(40, math3d.V3(1, 1, 1))
	light.Transform.SetPosition(0, 0, 4)
	cam := NewOrthographicCamera(-1, 1, -1, 1, 1, 20)

	for _, depth := range []int{1, 2, 3, 6} {
		r := NewRenderer(scene.New(front, back), cam, light, Options{Ambient: math3d.V3(0.1, 0.1, 0.1)})
		c := r.RayColor(math3d.NewRay(math3d.V3(0.1, 0, 0.3), math3d.V3(0, 1, 0)), 0, depth)

		if c.X < 0 || c.X > 1 || c.Y < 0 || c.Y > 1 || c.Z < 0 || c.Z > 1 {
			t.Errorf("depth %d: color %v outside [0, 1]", depth, c)
		}
		if got := r.Stats().Reflection; got != int64(depth) {
			t.Errorf("depth %d: %d reflection rays, want %d", depth, got, depth)
		}
	}
}

func TestRenderCancelled(t *testing.T) {
	s, cam, light := sphereScene()
	r := NewRenderer(s, cam, light, DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Render(ctx, NewFramebuffer(32, 32))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render = %v, want context.Canceled", err)
	}
	if got := r.Stats().Primary; got != 0 {
		t.Errorf("%d pixels traced after cancel", got)
	}
}

func TestRenderProgressWriter(t *testing.T) {
	s, cam, light := sphereScene()
	var buf bytes.Buffer
	r := NewRenderer(s, cam, light, Options{Progress: &buf, Workers: 2})

	if err := r.Render(context.Background(), NewFramebuffer(16, 16)); err != nil {
		t.Fatal(err)
	}
	if r.Options().MaxDepth != DefaultMaxDepth || r.Options().FocalDistance != 1 {
		t.Errorf("defaults not applied: %+v", r.Options())
	}

	out := buf.String()
	if !strings.Contains(out, "[256/256] 100.0%") {
		t.Errorf("progress output %q lacks the completion line", out)
	}
	if !strings.HasSuffix(out, "px/s)\n") {
		t.Errorf("progress output %q should end with a rate line", out)
	}
}

func TestRenderProgressSilentOnCancel(t *testing.T) {
	s, cam, light := sphereScene()
	var buf bytes.Buffer
	r := NewRenderer(s, cam, light, Options{Progress: &buf, Workers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Render(ctx, NewFramebuffer(16, 16)); err == nil {
		t.Fatal("cancelled render should fail")
	}
	if strings.Contains(buf.String(), "100.0%") {
		t.Errorf("cancelled render reported completion: %q", buf.String())
	}
}

func BenchmarkRenderSphere(b *testing.B) {
	s, cam, light := sphereScene()
	r := NewRenderer(s, cam, light, DefaultOptions())
	fb := NewFramebuffer(32, 32)

	for b.Loop() {
		_ = r.Render(context.Background(), fb)
	}
}
