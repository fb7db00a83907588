package models

import "github.com/taigrr/whitted/pkg/math3d"

// largeInverse stands in for 1/0 when a ray direction component is zero.
// It stays finite so 0·largeInverse never produces NaN.
const largeInverse = 1e30

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// BoundPoints returns the smallest AABB containing all points.
// An empty slice yields the zero box.
func BoundPoints(points []math3d.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Expand grows the box by pad on every side.
func (b AABB) Expand(pad float64) AABB {
	d := math3d.V3(pad, pad, pad)
	return AABB{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Corners returns the 8 corner points.
func (b AABB) Corners() [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// Hit tests the ray against the box with the slab method, shrinking the
// window [tMin, tMax] axis by axis. It reports a miss as soon as the
// window inverts.
func (b AABB) Hit(ray math3d.Ray, tMin, tMax float64) bool {
	for axis := range 3 {
		invD := largeInverse
		if d := ray.Direction.Axis(axis); d != 0 {
			invD = 1 / d
		}

		origin := ray.Origin.Axis(axis)
		t0 := (b.Min.Axis(axis) - origin) * invD
		t1 := (b.Max.Axis(axis) - origin) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax < tMin {
			return false
		}
	}
	return true
}
