package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"width": 320,
		"height": 200,
		"ambient": [0.2, 0.2, 0.2],
		"camera": {"type": "perspective", "fov": 45, "position": [0, -2, 0]},
		"light": {"intensity": 50, "position": [0, -1, -1]},
		"meshes": [
			{"name": "ball", "primitive": "sphere", "position": [0, 3, 0],
			 "material": {"km": 0.5, "diffuse_color": [1, 0, 1]}},
			{"file": "models/cube.stl", "axis": [0, 0, 1], "axis_degrees": 45}
		]
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Width != 320 || cfg.Height != 200 {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Camera.Type != Perspective || cfg.Camera.FOV != 45 {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	if cfg.Light.Intensity == nil || *cfg.Light.Intensity != 50 {
		t.Errorf("light intensity = %v, want 50", cfg.Light.Intensity)
	}
	if len(cfg.Meshes) != 2 {
		t.Fatalf("meshes = %d, want 2", len(cfg.Meshes))
	}
	if m := cfg.Meshes[0].Material; m == nil || m.Km == nil || *m.Km != 0.5 || m.Ka != nil {
		t.Errorf("material = %+v", m)
	}
	want := filepath.Join(filepath.Dir(path), "models", "cube.stl")
	if cfg.Meshes[1].File != want {
		t.Errorf("file = %q, want %q", cfg.Meshes[1].File, want)
	}
	if cfg.Meshes[1].Axis == nil || cfg.Meshes[1].AxisDegrees != 45 {
		t.Errorf("axis rotation not parsed: %+v", cfg.Meshes[1])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing", filepath.Join(t.TempDir(), "nope.json"), "config: read"},
		{"malformed", writeConfig(t, `{"width": "wide"}`), "config: parse"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	if cfg.Width != 256 || cfg.Height != 256 {
		t.Errorf("size = %dx%d, want 256x256", cfg.Width, cfg.Height)
	}
	if cfg.Output != "render.png" {
		t.Errorf("output = %q", cfg.Output)
	}
	if cfg.MaxDepth != 3 {
		t.Errorf("max depth = %d, want 3", cfg.MaxDepth)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if cfg.Camera.Type != Orthographic || cfg.Camera.Bounds == nil {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	if cfg.Camera.Ratio != 1 {
		t.Errorf("ratio = %v, want 1", cfg.Camera.Ratio)
	}
	if cfg.Light.Intensity == nil || *cfg.Light.Intensity != 1 || cfg.Light.Color == nil {
		t.Errorf("light = %+v", cfg.Light)
	}
}

func TestResolveKeepsExplicitZero(t *testing.T) {
	off := 0.0
	cfg := Config{Light: Light{Intensity: &off}}
	cfg.Resolve(Flags{})
	if cfg.Light.Intensity == nil || *cfg.Light.Intensity != 0 {
		t.Errorf("intensity = %v, want explicit 0 kept", cfg.Light.Intensity)
	}
}

func TestResolveFOVClip(t *testing.T) {
	tests := []struct {
		name      string
		cam       Camera
		near, far float64
	}{
		{"defaults", Camera{Type: Perspective, FOV: 45}, DefaultNear, DefaultFar},
		{"explicit", Camera{Type: Perspective, FOV: 45, Near: 0.1, Far: 1000}, 0.1, 1000},
		{"bounds untouched", Camera{Type: Perspective, Bounds: &[6]float64{-1, 1, -1, 1, 2, 20}}, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Camera: tc.cam}
			cfg.Resolve(Flags{})
			if cfg.Camera.Near != tc.near || cfg.Camera.Far != tc.far {
				t.Errorf("clip = [%v, %v], want [%v, %v]", cfg.Camera.Near, cfg.Camera.Far, tc.near, tc.far)
			}
		})
	}
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{Width: 100, Height: 50, Output: "a.png", Workers: 2, MaxDepth: 1}
	cfg.Resolve(Flags{Width: 640, Output: "b.webp", MaxDepth: 5})

	if cfg.Width != 640 || cfg.Height != 50 {
		t.Errorf("size = %dx%d, want 640x50", cfg.Width, cfg.Height)
	}
	if cfg.Output != "b.webp" || cfg.Workers != 2 || cfg.MaxDepth != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Camera.Ratio != 640.0/50 {
		t.Errorf("ratio = %v", cfg.Camera.Ratio)
	}
}

func TestValidate(t *testing.T) {
	sphere := []Mesh{{Primitive: "sphere"}}
	neg := -1.0

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{Meshes: sphere}, false},
		{"perspective fov", Config{Camera: Camera{Type: Perspective, FOV: 60}, Meshes: sphere}, false},
		{"no meshes", Config{}, true},
		{"both sources", Config{Meshes: []Mesh{{File: "a.stl", Primitive: "cube"}}}, true},
		{"no source", Config{Meshes: []Mesh{{Name: "empty"}}}, true},
		{"zero axis", Config{Meshes: []Mesh{{Primitive: "cube", Axis: &[3]float64{}}}}, true},
		{"unknown camera", Config{Camera: Camera{Type: "fisheye"}, Meshes: sphere}, true},
		{"flat bounds", Config{Camera: Camera{Bounds: &[6]float64{1, 1, -1, 1, 1, 10}}, Meshes: sphere}, true},
		{"inverted clip", Config{Camera: Camera{Type: Perspective, FOV: 60, Near: 10, Far: 1}, Meshes: sphere}, true},
		{"negative light", Config{Camera: Camera{Type: Perspective, FOV: 60, Near: 1, Far: 10}, Light: Light{Intensity: &neg}, Meshes: sphere}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Resolve(Flags{})
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
