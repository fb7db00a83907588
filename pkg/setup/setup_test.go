package setup

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/whitted/pkg/config"
	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/models"
	"github.com/taigrr/whitted/pkg/render"
)

func TestPresetsBuild(t *testing.T) {
	for _, name := range Presets() {
		t.Run(name, func(t *testing.T) {
			cfg, err := Preset(name)
			if err != nil {
				t.Fatal(err)
			}
			cfg.Width, cfg.Height = 16, 12
			cfg.Resolve(config.Flags{Workers: 2})

			s, err := Build(cfg)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if len(s.Scene.Meshes) != len(cfg.Meshes) {
				t.Errorf("meshes = %d, want %d", len(s.Scene.Meshes), len(cfg.Meshes))
			}

			fb := render.NewFramebuffer(cfg.Width, cfg.Height)
			r := s.Renderer(nil)
			if err := r.Render(context.Background(), fb); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got := r.Stats().Primary; got != int64(cfg.Width*cfg.Height) {
				t.Errorf("primary rays = %d", got)
			}
		})
	}
}

func TestPresetUnknown(t *testing.T) {
	if _, err := Preset("teapot"); err == nil || !strings.Contains(err.Error(), "sphere") {
		t.Errorf("err = %v, want list of presets", err)
	}
	if IsPreset("teapot") || !IsPreset("mirrors") {
		t.Error("IsPreset mismatch")
	}
}

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name    string
		cam     config.Camera
		ratio   float64
		wantErr bool
	}{
		{"ortho", config.Camera{Type: config.Orthographic, Bounds: &[6]float64{-2, 2, -1, 1, 1, 10}}, 2, false},
		{"perspective bounds", config.Camera{Type: config.Perspective, Bounds: &[6]float64{-1, 1, -1, 1, 1, 10}}, 1, false},
		{"perspective fov", config.Camera{Type: config.Perspective, FOV: 90, Ratio: 1.5}, 1.5, false},
		{"ortho without bounds", config.Camera{Type: config.Orthographic}, 0, true},
		{"perspective without fov", config.Camera{Type: config.Perspective}, 0, true},
		{"unknown", config.Camera{Type: "pinhole"}, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam, err := NewCamera(tc.cam)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if err == nil && math.Abs(cam.Ratio()-tc.ratio) > 1e-9 {
				t.Errorf("ratio = %v, want %v", cam.Ratio(), tc.ratio)
			}
		})
	}
}

func TestNewCameraFOVClip(t *testing.T) {
	tests := []struct {
		name      string
		cam       config.Camera
		near, far float64
	}{
		{"defaults", config.Camera{Type: config.Perspective, FOV: 60}, config.DefaultNear, config.DefaultFar},
		{"explicit", config.Camera{Type: config.Perspective, FOV: 60, Near: 0.5, Far: 500}, 0.5, 500},
		{"near only", config.Camera{Type: config.Perspective, FOV: 60, Near: 2}, 2, config.DefaultFar},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam, err := NewCamera(tc.cam)
			if err != nil {
				t.Fatal(err)
			}
			persp, ok := cam.(*render.PerspectiveCamera)
			if !ok {
				t.Fatalf("camera is %T, want *render.PerspectiveCamera", cam)
			}
			if near, far := persp.Clip(); near != tc.near || far != tc.far {
				t.Errorf("Clip() = [%v, %v], want [%v, %v]", near, far, tc.near, tc.far)
			}
			// The image plane is sized at near so the FOV holds.
			_, right, _, _ := persp.Bounds()
			if want := math.Tan(math3d.Radians(30)) * tc.near; math.Abs(right-want) > 1e-9 {
				t.Errorf("right = %v, want %v", right, want)
			}
		})
	}
}

func TestNewLightIntensity(t *testing.T) {
	if got := NewLight(config.Light{}).Intensity; got != 1 {
		t.Errorf("unset intensity = %v, want 1", got)
	}
	if got := NewLight(config.Light{Intensity: f(0)}).Intensity; got != 0 {
		t.Errorf("explicit zero intensity = %v, want 0", got)
	}
}

func TestNewCameraPlacement(t *testing.T) {
	cam, err := NewCamera(config.Camera{
		Bounds:   &[6]float64{-1, 1, -1, 1, 1, 10},
		Position: [3]float64{1, 2, 3},
		Rotation: [3]float64{0, 0, 90},
	})
	if err != nil {
		t.Fatal(err)
	}
	if p := cam.Transform().Position(); p != math3d.V3(1, 2, 3) {
		t.Errorf("position = %v", p)
	}
	// Rotating 90° about Z turns the +Y view axis to -X.
	ray := cam.ToWorld(math3d.NewRay(math3d.Zero3(), math3d.Forward()))
	if ray.Direction.Sub(math3d.V3(-1, 0, 0)).Len() > 1e-9 {
		t.Errorf("view direction = %v, want (-1, 0, 0)", ray.Direction)
	}
}

func TestNewMeshMaterialAndPlacement(t *testing.T) {
	m, err := NewMesh(config.Mesh{
		Name:        "box",
		Primitive:   "cube",
		Fit:         2,
		Position:    [3]float64{0, 4, 0},
		Axis:        &[3]float64{0, 0, 2},
		AxisDegrees: 45,
		Material:    &config.Material{Km: f(0.5), DiffuseColor: rgb(0, 1, 0)},
	})
	if err != nil {
		t.Fatal(err)
	}

	if m.Name != "box" {
		t.Errorf("name = %q", m.Name)
	}
	if m.Material.Km != 0.5 || m.Material.DiffuseColor != math3d.V3(0, 1, 0) {
		t.Errorf("material = %+v", m.Material)
	}
	if m.Material.Kd != models.DefaultMaterial().Kd {
		t.Error("unset material fields should keep defaults")
	}
	if size := m.Size(); math.Abs(size.X-2) > 1e-9 {
		t.Errorf("fit size = %v, want 2", size)
	}

	// A 2-wide cube turned 45° about Z spans ±√2 in X.
	b := m.WorldBounds()
	if math.Abs(b.Max.X-math.Sqrt2) > 1e-6 || math.Abs(b.Center().Y-4) > 1e-6 {
		t.Errorf("world bounds = %+v", b)
	}
}

func TestNewMeshFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.stl")
	stl := `solid tri
facet normal 0 -1 0
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 0 1
  endloop
endfacet
endsolid tri
`
	if err := os.WriteFile(path, []byte(stl), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewMesh(config.Mesh{File: path, HardEdges: true})
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}
	if m.TriangleCount() != 1 || !m.HardEdges {
		t.Errorf("mesh = %d triangles, hard edges %v", m.TriangleCount(), m.HardEdges)
	}

	if _, err := NewMesh(config.Mesh{File: filepath.Join(t.TempDir(), "missing.stl")}); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := NewMesh(config.Mesh{Primitive: "torus"}); err == nil {
		t.Error("expected error for unknown primitive")
	}
}

func TestBuildAppliesOptions(t *testing.T) {
	cfg := config.Config{
		MaxDepth:   2,
		Ambient:    rgb(0.3, 0.3, 0.3),
		Background: rgb(0, 0, 0),
		Light:      config.Light{Intensity: f(5), Color: rgb(1, 0, 0), Position: [3]float64{0, 1, 2}},
		Meshes:     []config.Mesh{{Primitive: "quad"}},
	}
	cfg.Resolve(config.Flags{})

	s, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if s.Options.MaxDepth != 2 || s.Options.Ambient != math3d.V3(0.3, 0.3, 0.3) || s.Options.Background != math3d.Zero3() {
		t.Errorf("options = %+v", s.Options)
	}
	if s.Light.Intensity != 5 || s.Light.Color != math3d.V3(1, 0, 0) || s.Light.Position() != math3d.V3(0, 1, 2) {
		t.Errorf("light = %+v", s.Light)
	}

	if _, err := Build(config.Config{}); err == nil {
		t.Error("expected error for empty config")
	}
}
