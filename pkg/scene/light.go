package scene

import "github.com/taigrr/whitted/pkg/math3d"

// PointLight emits Intensity·Color from the origin of its Transform,
// falling off with the squared distance.
type PointLight struct {
	Intensity float64
	Color     math3d.Vec3
	Transform math3d.Transform
}

// NewPointLight creates a light at the world origin.
func NewPointLight(intensity float64, color math3d.Vec3) *PointLight {
	return &PointLight{
		Intensity: intensity,
		Color:     color,
		Transform: math3d.NewTransform(),
	}
}

// Position returns the world-space light position.
func (l *PointLight) Position() math3d.Vec3 {
	return l.Transform.ApplyToPoint(math3d.Zero3())
}

// Radiance returns the light arriving at distance d, Intensity·Color/d².
func (l *PointLight) Radiance(d float64) math3d.Vec3 {
	return l.Color.Scale(l.Intensity / (d * d))
}
