// Package config reads the JSON description of a render: image size,
// camera, light and meshes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds everything needed to set up and run one render.
type Config struct {
	// Output
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Output   string `json:"output"`
	MaxDepth int    `json:"max_depth"`
	Workers  int    `json:"workers"`

	// Shading, linear RGB in 0-1 range
	Ambient    *[3]float64 `json:"ambient"`
	Background *[3]float64 `json:"background"`

	Camera Camera `json:"camera"`
	Light  Light  `json:"light"`
	Meshes []Mesh `json:"meshes"`
}

// Camera describes the eye. Bounds are [left, right, bottom, top, near,
// far]; when FOV is set a symmetric perspective camera is derived from it,
// Ratio and the Near/Far clip range instead.
type Camera struct {
	Type     string      `json:"type"` // "orthographic" or "perspective"
	Bounds   *[6]float64 `json:"bounds"`
	FOV      float64     `json:"fov"`
	Ratio    float64     `json:"ratio"`
	Near     float64     `json:"near"`
	Far      float64     `json:"far"`
	Position [3]float64  `json:"position"`
	Rotation [3]float64  `json:"rotation"` // degrees, applied as Rx·Ry·Rz
}

// Default clip range of a camera built from FOV.
const (
	DefaultNear = 1.0
	DefaultFar  = 100.0
)

// Light describes the single point light. A nil Intensity defaults to 1;
// an explicit 0 turns the light off.
type Light struct {
	Intensity *float64    `json:"intensity"`
	Color     *[3]float64 `json:"color"`
	Position  [3]float64  `json:"position"`
}

// Mesh places one model in the scene. Exactly one of File and Primitive
// is set.
type Mesh struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	Primitive string `json:"primitive"` // "sphere", "cube" or "quad"

	Position    [3]float64  `json:"position"`
	Rotation    [3]float64  `json:"rotation"`
	Axis        *[3]float64 `json:"axis"`
	AxisDegrees float64     `json:"axis_degrees"`

	HardEdges bool      `json:"hard_edges"`
	Fit       float64   `json:"fit"` // rescale the largest dimension to this size
	Material  *Material `json:"material"`
}

// Material overrides the mesh material. Unset fields keep the default.
type Material struct {
	Ka            *float64    `json:"ka"`
	Kd            *float64    `json:"kd"`
	Ks            *float64    `json:"ks"`
	Km            *float64    `json:"km"`
	P             *float64    `json:"p"`
	DiffuseColor  *[3]float64 `json:"diffuse_color"`
	SpecularColor *[3]float64 `json:"specular_color"`
}

// Camera types.
const (
	Orthographic = "orthographic"
	Perspective  = "perspective"
)

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values. Relative mesh file
// paths are resolved against the config file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range cfg.Meshes {
		if f := cfg.Meshes[i].File; f != "" && !filepath.IsAbs(f) {
			cfg.Meshes[i].File = filepath.Join(dir, f)
		}
	}
	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.MaxDepth > 0 {
		c.MaxDepth = flags.MaxDepth
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 256
	}
	if c.Height <= 0 {
		c.Height = c.Width
	}
	if c.Output == "" {
		c.Output = "render.png"
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = 3
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	if c.Camera.Type == "" {
		c.Camera.Type = Orthographic
	}
	if c.Camera.Bounds == nil && c.Camera.FOV <= 0 {
		c.Camera.Bounds = &[6]float64{-1, 1, -1, 1, 1, 100}
	}
	if c.Camera.Ratio <= 0 {
		c.Camera.Ratio = float64(c.Width) / float64(c.Height)
	}
	if c.Camera.FOV > 0 {
		if c.Camera.Near == 0 {
			c.Camera.Near = DefaultNear
		}
		if c.Camera.Far == 0 {
			c.Camera.Far = DefaultFar
		}
	}

	if c.Light.Intensity == nil {
		one := 1.0
		c.Light.Intensity = &one
	}
	if c.Light.Color == nil {
		c.Light.Color = &[3]float64{1, 1, 1}
	}
}

// Validate reports settings that cannot be rendered. Call it after Resolve.
func (c *Config) Validate() error {
	switch c.Camera.Type {
	case Orthographic:
		if c.Camera.Bounds == nil {
			return fmt.Errorf("config: orthographic camera needs bounds")
		}
	case Perspective:
	default:
		return fmt.Errorf("config: unknown camera type %q", c.Camera.Type)
	}
	if b := c.Camera.Bounds; b != nil && (b[0] == b[1] || b[2] == b[3]) {
		return fmt.Errorf("config: degenerate camera bounds %v", *b)
	}
	if cam := c.Camera; cam.Bounds == nil && cam.FOV > 0 && (cam.Near <= 0 || cam.Far <= cam.Near) {
		return fmt.Errorf("config: clip range [%v, %v] needs 0 < near < far", cam.Near, cam.Far)
	}
	if i := c.Light.Intensity; i != nil && *i < 0 {
		return fmt.Errorf("config: negative light intensity %v", *i)
	}

	if len(c.Meshes) == 0 {
		return fmt.Errorf("config: no meshes")
	}
	for i, m := range c.Meshes {
		if (m.File == "") == (m.Primitive == "") {
			return fmt.Errorf("config: mesh %d: set exactly one of file and primitive", i)
		}
		if a := m.Axis; a != nil && a[0] == 0 && a[1] == 0 && a[2] == 0 {
			return fmt.Errorf("config: mesh %d: zero rotation axis", i)
		}
	}
	return nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Output   string
	Width    int
	Height   int
	Workers  int
	MaxDepth int
}
