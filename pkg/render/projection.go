package render

import "github.com/taigrr/whitted/pkg/math3d"

// Projection maps camera-space points to a normalized space and back.
type Projection interface {
	Apply(p math3d.Vec3) math3d.Vec3
	ApplyInverse(p math3d.Vec3) math3d.Vec3
}

// OrthographicProjection is the affine map of the view volume
// X in [Left, Right], Y in [Near, Far], Z in [Bottom, Top] onto [-1, 1]³.
type OrthographicProjection struct {
	Left, Right, Bottom, Top, Near, Far float64

	m   math3d.Mat4
	inv math3d.Mat4
}

// NewOrthographicProjection creates the projection for a view volume.
func NewOrthographicProjection(left, right, bottom, top, near, far float64) OrthographicProjection {
	m := math3d.Orthographic(left, right, bottom, top, near, far)
	return OrthographicProjection{
		Left: left, Right: right, Bottom: bottom, Top: top, Near: near, Far: far,
		m:   m,
		inv: m.Inverse(),
	}
}

// Apply normalizes a camera-space point.
func (o OrthographicProjection) Apply(p math3d.Vec3) math3d.Vec3 {
	return o.m.MulVec3(p)
}

// ApplyInverse maps a normalized point back to camera space.
func (o OrthographicProjection) ApplyInverse(p math3d.Vec3) math3d.Vec3 {
	return o.inv.MulVec3(p)
}

// PerspectiveProjection squashes the frustum between Near and Far into a
// box: X and Z shrink by Near/Y and depth keeps its [Near, Far] range.
type PerspectiveProjection struct {
	Near, Far float64

	m   math3d.Mat4
	inv math3d.Mat4
}

// NewPerspectiveProjection creates the projection for depths [near, far].
func NewPerspectiveProjection(near, far float64) PerspectiveProjection {
	m := math3d.Perspective(near, far)
	return PerspectiveProjection{
		Near: near,
		Far:  far,
		m:    m,
		inv:  m.Inverse(),
	}
}

// Apply projects a camera-space point, dividing by its depth.
func (p PerspectiveProjection) Apply(v math3d.Vec3) math3d.Vec3 {
	return p.m.MulVec4(math3d.V4FromV3(v, 1)).PerspectiveDivide()
}

// ApplyInverse undoes Apply. The divide discarded w (the camera-space depth),
// which is recovered from the projected depth as near·far/(near+far-y').
func (p PerspectiveProjection) ApplyInverse(v math3d.Vec3) math3d.Vec3 {
	w := p.Near * p.Far / (p.Near + p.Far - v.Y)
	return p.inv.MulVec4(math3d.V4FromV3(v, 1).Scale(w)).PerspectiveDivide()
}
