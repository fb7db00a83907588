package render

import (
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
)

// Camera generates primary rays and maps points between world space and
// normalized view space. Camera space looks down +Y with Z up.
type Camera interface {
	// Ratio is |right-left| / |top-bottom|, fixed at construction.
	Ratio() float64
	Transform() *math3d.Transform

	// RayAtPixel returns the camera-space ray through the centre of pixel
	// (i, j) of a w×h image; j = 0 is the bottom row.
	RayAtPixel(i, j, w, h int, focal float64) math3d.Ray
	// ToWorld places a camera-space ray in the world.
	ToWorld(ray math3d.Ray) math3d.Ray

	// ProjectPoint maps a world point into the camera's projected space:
	// camera space for the orthographic camera, normalized [-1, 1]³ after
	// the perspective divide for the perspective camera.
	ProjectPoint(p math3d.Vec3) math3d.Vec3
	InverseProjectPoint(p math3d.Vec3) math3d.Vec3
	// NormalizePoint maps a world point to [-1, 1]³ over the view volume.
	NormalizePoint(p math3d.Vec3) math3d.Vec3
	ProjectRay(ray math3d.Ray) math3d.Ray
	InverseProjectRay(ray math3d.Ray) math3d.Ray
}

// viewVolume holds what both cameras share: the image-plane bounds, the
// depth range and the camera placement.
type viewVolume struct {
	left, right, bottom, top float64
	near, far                float64
	ratio                    float64
	transform                math3d.Transform
	ortho                    OrthographicProjection
}

func newViewVolume(left, right, bottom, top, near, far float64) viewVolume {
	return viewVolume{
		left: left, right: right, bottom: bottom, top: top,
		near: near, far: far,
		ratio:     math.Abs(right-left) / math.Abs(top-bottom),
		transform: math3d.NewTransform(),
		ortho:     NewOrthographicProjection(left, right, bottom, top, near, far),
	}
}

func (v *viewVolume) Ratio() float64 {
	return v.ratio
}

func (v *viewVolume) Transform() *math3d.Transform {
	return &v.transform
}

// Bounds returns the image-plane extents.
func (v *viewVolume) Bounds() (left, right, bottom, top float64) {
	return v.left, v.right, v.bottom, v.top
}

// Clip returns the depth range.
func (v *viewVolume) Clip() (near, far float64) {
	return v.near, v.far
}

// pixel maps a pixel centre onto the image plane.
func (v *viewVolume) pixel(i, j, w, h int) (u, vv float64) {
	u = v.left + (v.right-v.left)*(float64(i)+0.5)/float64(w)
	vv = v.bottom + (v.top-v.bottom)*(float64(j)+0.5)/float64(h)
	return u, vv
}

func (v *viewVolume) ToWorld(ray math3d.Ray) math3d.Ray {
	return math3d.NewRay(v.transform.ApplyToPoint(ray.Origin), v.transform.ApplyToNormal(ray.Direction))
}

// mapRay maps the origin and origin+direction of a ray through f.
func mapRay(ray math3d.Ray, f func(math3d.Vec3) math3d.Vec3) math3d.Ray {
	origin := f(ray.Origin)
	tip := f(ray.Origin.Add(ray.Direction))
	return math3d.NewRay(origin, tip.Sub(origin))
}

// OrthographicCamera casts parallel rays along +Y from the image plane.
type OrthographicCamera struct {
	viewVolume
}

// NewOrthographicCamera creates a camera at the origin whose image plane
// spans [left, right]×[bottom, top].
func NewOrthographicCamera(left, right, bottom, top, near, far float64) *OrthographicCamera {
	return &OrthographicCamera{viewVolume: newViewVolume(left, right, bottom, top, near, far)}
}

// RayAtPixel ignores focal; every ray points straight down +Y.
func (c *OrthographicCamera) RayAtPixel(i, j, w, h int, focal float64) math3d.Ray {
	u, v := c.pixel(i, j, w, h)
	return math3d.NewRay(math3d.V3(u, 0, v), math3d.Forward())
}

// ProjectPoint returns p in camera space. The orthographic camera has no
// divide, so its projected space is camera space itself.
func (c *OrthographicCamera) ProjectPoint(p math3d.Vec3) math3d.Vec3 {
	return c.transform.ApplyInverseToPoint(p)
}

func (c *OrthographicCamera) InverseProjectPoint(p math3d.Vec3) math3d.Vec3 {
	return c.transform.ApplyToPoint(p)
}

func (c *OrthographicCamera) NormalizePoint(p math3d.Vec3) math3d.Vec3 {
	return c.ortho.Apply(c.ProjectPoint(p))
}

func (c *OrthographicCamera) ProjectRay(ray math3d.Ray) math3d.Ray {
	return mapRay(ray, c.ProjectPoint)
}

func (c *OrthographicCamera) InverseProjectRay(ray math3d.Ray) math3d.Ray {
	return mapRay(ray, c.InverseProjectPoint)
}

// PerspectiveCamera casts rays from its origin through the image plane.
type PerspectiveCamera struct {
	viewVolume
	persp PerspectiveProjection
}

// NewPerspectiveCamera creates a camera at the origin with the image plane
// bounds given at depth near.
func NewPerspectiveCamera(left, right, bottom, top, near, far float64) *PerspectiveCamera {
	return &PerspectiveCamera{
		viewVolume: newViewVolume(left, right, bottom, top, near, far),
		persp:      NewPerspectiveProjection(near, far),
	}
}

// NewPerspectiveCameraFromFOV creates a symmetric perspective camera with a
// horizontal field of view in degrees and ratio = width/height.
func NewPerspectiveCameraFromFOV(fov, near, far, ratio float64) *PerspectiveCamera {
	right := math.Tan(math3d.Radians(fov)/2) * math.Abs(near)
	top := right / ratio
	return NewPerspectiveCamera(-right, right, -top, top, near, far)
}

// RayAtPixel returns a unit ray from the camera origin through the pixel
// on an image plane at distance focal.
func (c *PerspectiveCamera) RayAtPixel(i, j, w, h int, focal float64) math3d.Ray {
	u, v := c.pixel(i, j, w, h)
	return math3d.NewRay(math3d.Zero3(), math3d.V3(u, focal, v).Normalize())
}

func (c *PerspectiveCamera) ProjectPoint(p math3d.Vec3) math3d.Vec3 {
	return c.ortho.Apply(c.persp.Apply(c.transform.ApplyInverseToPoint(p)))
}

func (c *PerspectiveCamera) NormalizePoint(p math3d.Vec3) math3d.Vec3 {
	return c.ProjectPoint(p)
}

func (c *PerspectiveCamera) InverseProjectPoint(p math3d.Vec3) math3d.Vec3 {
	return c.transform.ApplyToPoint(c.persp.ApplyInverse(c.ortho.ApplyInverse(p)))
}

func (c *PerspectiveCamera) ProjectRay(ray math3d.Ray) math3d.Ray {
	return mapRay(ray, c.ProjectPoint)
}

func (c *PerspectiveCamera) InverseProjectRay(ray math3d.Ray) math3d.Ray {
	return mapRay(ray, c.InverseProjectPoint)
}
