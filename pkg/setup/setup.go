// Package setup turns a config.Config into the scene, camera, light and
// renderer options of a render.
package setup

import (
	"fmt"
	"io"
	"strings"

	"github.com/taigrr/whitted/pkg/config"
	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/models"
	"github.com/taigrr/whitted/pkg/render"
	"github.com/taigrr/whitted/pkg/scene"
)

// Sphere tessellation used for the "sphere" primitive.
const (
	SphereStacks = 24
	SphereSlices = 48
)

// Setup is everything a Renderer needs.
type Setup struct {
	Scene   *scene.Scene
	Camera  render.Camera
	Light   *scene.PointLight
	Options render.Options
}

// Build creates the scene described by cfg. cfg should already be resolved.
func Build(cfg config.Config) (*Setup, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cam, err := NewCamera(cfg.Camera)
	if err != nil {
		return nil, err
	}

	s := scene.New()
	for i, mc := range cfg.Meshes {
		m, err := NewMesh(mc)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		s.Add(m)
	}

	opts := render.DefaultOptions()
	opts.MaxDepth = cfg.MaxDepth
	opts.Workers = cfg.Workers
	if cfg.Ambient != nil {
		opts.Ambient = vec(*cfg.Ambient)
	}
	if cfg.Background != nil {
		opts.Background = vec(*cfg.Background)
	}

	return &Setup{
		Scene:   s,
		Camera:  cam,
		Light:   NewLight(cfg.Light),
		Options: opts,
	}, nil
}

// Renderer creates a renderer for the setup, reporting progress to w when
// it is non-nil.
func (s *Setup) Renderer(w io.Writer) *render.Renderer {
	opts := s.Options
	opts.Progress = w
	return render.NewRenderer(s.Scene, s.Camera, s.Light, opts)
}

// NewCamera builds an orthographic or perspective camera and places it.
func NewCamera(c config.Camera) (render.Camera, error) {
	var cam render.Camera
	switch c.Type {
	case config.Orthographic, "":
		if c.Bounds == nil {
			return nil, fmt.Errorf("orthographic camera needs bounds")
		}
		b := c.Bounds
		cam = render.NewOrthographicCamera(b[0], b[1], b[2], b[3], b[4], b[5])
	case config.Perspective:
		switch {
		case c.Bounds != nil:
			b := c.Bounds
			cam = render.NewPerspectiveCamera(b[0], b[1], b[2], b[3], b[4], b[5])
		case c.FOV > 0:
			ratio := c.Ratio
			if ratio <= 0 {
				ratio = 1
			}
			near, far := c.Near, c.Far
			if near == 0 {
				near = config.DefaultNear
			}
			if far == 0 {
				far = config.DefaultFar
			}
			cam = render.NewPerspectiveCameraFromFOV(c.FOV, near, far, ratio)
		default:
			return nil, fmt.Errorf("perspective camera needs bounds or fov")
		}
	default:
		return nil, fmt.Errorf("unknown camera type %q", c.Type)
	}

	place(cam.Transform(), c.Position, c.Rotation, nil, 0)
	return cam, nil
}

// NewLight builds the point light.
func NewLight(l config.Light) *scene.PointLight {
	color := math3d.V3(1, 1, 1)
	if l.Color != nil {
		color = vec(*l.Color)
	}
	intensity := 1.0
	if l.Intensity != nil {
		intensity = *l.Intensity
	}
	light := scene.NewPointLight(intensity, color)
	light.Transform.SetPosition(l.Position[0], l.Position[1], l.Position[2])
	return light
}

// NewMesh loads or generates one mesh, applies fit, material and placement.
func NewMesh(mc config.Mesh) (*models.Mesh, error) {
	var (
		m   *models.Mesh
		err error
	)
	switch {
	case mc.File != "":
		m, err = models.Load(mc.File)
		if err != nil {
			return nil, err
		}
	case mc.Primitive != "":
		m, err = NewPrimitive(mc.Primitive)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no file or primitive")
	}

	if mc.Name != "" {
		m.Name = mc.Name
	}
	if mc.HardEdges {
		m.HardEdges = true
	}
	if mc.Fit > 0 {
		m.Fit(mc.Fit)
	}
	if mc.Material != nil {
		ApplyMaterial(&m.Material, *mc.Material)
	}

	place(&m.Transform, mc.Position, mc.Rotation, mc.Axis, mc.AxisDegrees)
	return m, nil
}

// NewPrimitive generates a built-in shape by name.
func NewPrimitive(name string) (*models.Mesh, error) {
	switch strings.ToLower(name) {
	case "sphere":
		return models.NewUVSphere(SphereStacks, SphereSlices), nil
	case "cube":
		return models.NewCube(), nil
	case "quad":
		return models.NewQuad(1, 1), nil
	default:
		return nil, fmt.Errorf("unknown primitive %q", name)
	}
}

// ApplyMaterial overwrites the fields of dst that mc sets.
func ApplyMaterial(dst *models.Material, mc config.Material) {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&dst.Ka, mc.Ka)
	set(&dst.Kd, mc.Kd)
	set(&dst.Ks, mc.Ks)
	set(&dst.Km, mc.Km)
	set(&dst.P, mc.P)
	if mc.DiffuseColor != nil {
		dst.DiffuseColor = vec(*mc.DiffuseColor)
	}
	if mc.SpecularColor != nil {
		dst.SpecularColor = vec(*mc.SpecularColor)
	}
}

// place sets rotation then position. An axis rotation replaces the Euler
// angles when given.
func place(t *math3d.Transform, pos, rot [3]float64, axis *[3]float64, degrees float64) {
	if axis != nil {
		t.SetAxisRotation(vec(*axis), degrees)
	} else {
		t.SetRotation(rot[0], rot[1], rot[2])
	}
	t.SetPosition(pos[0], pos[1], pos[2])
}

func vec(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}
