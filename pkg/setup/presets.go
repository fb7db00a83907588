package setup

import (
	"fmt"
	"slices"
	"sort"

	"github.com/taigrr/whitted/pkg/config"
)

// presets are ready-made scenes that need no model files.
var presets = map[string]func() config.Config{
	"sphere":  sphereScene,
	"pair":    pairScene,
	"mirrors": mirrorScene,
}

// Presets returns the preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns the unresolved config of a named preset.
func Preset(name string) (config.Config, error) {
	fn, ok := presets[name]
	if !ok {
		return config.Config{}, fmt.Errorf("unknown preset %q (have %v)", name, Presets())
	}
	return fn(), nil
}

func f(v float64) *float64 { return &v }

func rgb(r, g, b float64) *[3]float64 { return &[3]float64{r, g, b} }

// gray converts an 8-bit gray level to a linear color.
func gray(level float64) *[3]float64 { return rgb(level/255, level/255, level/255) }

// sphereScene is a glossy magenta sphere lit from below and behind the
// eye, seen through an orthographic camera.
func sphereScene() config.Config {
	return config.Config{
		Width:      200,
		Height:     200,
		Ambient:    rgb(0.1, 0.1, 0.1),
		Background: gray(80),
		Camera: config.Camera{
			Type:   config.Orthographic,
			Bounds: &[6]float64{-1, 1, -1, 1, 1, 60},
		},
		Light: config.Light{Intensity: f(50), Position: [3]float64{0, -1, -1}},
		Meshes: []config.Mesh{{
			Name:      "sphere",
			Primitive: "sphere",
			Position:  [3]float64{0, 3, 0},
			Material: &config.Material{
				Ka: f(0), Kd: f(1), Ks: f(1), P: f(100),
				DiffuseColor:  rgb(1, 0, 1),
				SpecularColor: rgb(1, 1, 1),
			},
		}},
	}
}

// pairScene places two rotated meshes side by side.
func pairScene() config.Config {
	mat := func(r, g, b float64) *config.Material {
		return &config.Material{
			Ka: f(0.05), Kd: f(1), Ks: f(0.2), P: f(100),
			DiffuseColor:  rgb(r, g, b),
			SpecularColor: rgb(1, 1, 1),
		}
	}
	return config.Config{
		Width:      500,
		Height:     500,
		Ambient:    rgb(0.2, 0.2, 0.2),
		Background: gray(15),
		Camera: config.Camera{
			Type:   config.Orthographic,
			Bounds: &[6]float64{-2, 2, -2, 2, 1, 20},
		},
		Light: config.Light{Intensity: f(50), Position: [3]float64{-4, -4, -3}},
		Meshes: []config.Mesh{
			{
				Name:      "ball",
				Primitive: "sphere",
				Fit:       1.6,
				Rotation:  [3]float64{-10, 0, 220},
				Position:  [3]float64{-0.5, 2, 0},
				Material:  mat(1, 0, 1),
			},
			{
				Name:      "box",
				Primitive: "cube",
				Rotation:  [3]float64{25, 0, 220},
				Position:  [3]float64{1, 3.5, 0.5},
				Material:  mat(0.6, 0, 1),
			},
		},
	}
}

// mirrorScene puts two spheres between a mirror wall and a floor, seen
// through a perspective camera.
func mirrorScene() config.Config {
	return config.Config{
		Width:   320,
		Height:  240,
		Ambient: rgb(0.1, 0.1, 0.1),
		Camera: config.Camera{
			Type:     config.Perspective,
			FOV:      60,
			Position: [3]float64{0, -1, 0.5},
		},
		Light: config.Light{Intensity: f(40), Position: [3]float64{0, 2, 4}},
		Meshes: []config.Mesh{
			{
				Name:      "floor",
				Primitive: "quad",
				Fit:       12,
				Rotation:  [3]float64{-90, 0, 0},
				Position:  [3]float64{0, 5, -1},
				Material:  &config.Material{Kd: f(0.8), Ks: f(0), DiffuseColor: rgb(0.9, 0.9, 0.8)},
			},
			{
				Name:      "mirror",
				Primitive: "quad",
				Fit:       12,
				Position:  [3]float64{0, 9, 2},
				Material:  &config.Material{Kd: f(0.1), Km: f(0.8), DiffuseColor: rgb(0.7, 0.8, 1)},
			},
			{
				Name:      "red",
				Primitive: "sphere",
				Position:  [3]float64{-1.2, 5, 0},
				Material:  &config.Material{DiffuseColor: rgb(1, 0.1, 0.1), Km: f(0.2)},
			},
			{
				Name:      "blue",
				Primitive: "sphere",
				Fit:       1.4,
				Position:  [3]float64{1.3, 6, -0.3},
				Material:  &config.Material{DiffuseColor: rgb(0.1, 0.2, 1), Ks: f(0.6)},
			},
		},
	}
}

// IsPreset reports whether name is a known preset.
func IsPreset(name string) bool {
	return slices.Contains(Presets(), name)
}
