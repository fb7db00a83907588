package models

import (
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
)

// ParallelEpsilon is the smallest determinant magnitude accepted by
// IntersectTriangle. Smaller values mean the ray is (nearly) parallel to
// the triangle plane, or the triangle is degenerate.
const ParallelEpsilon = 1e-5

// IntersectionResult is the outcome of a ray-triangle test.
//
// For a triangle (A, B, C) the hit point is Alpha·A + Beta·B + Gamma·C.
// Only Beta and Gamma are stored; Alpha is derived. The fields other than
// Hit are meaningless when Hit is false.
type IntersectionResult struct {
	Hit   bool
	T     float64
	Beta  float64 // weight of vertex B
	Gamma float64 // weight of vertex C
}

// Alpha returns the weight of vertex A, 1 - Beta - Gamma.
func (r IntersectionResult) Alpha() float64 {
	return 1 - r.Beta - r.Gamma
}

// IntersectTriangle intersects a ray with triangle (a, b, c) by solving
//
//	a + Beta(b-a) + Gamma(c-a) = origin + t·direction
//
// with Cramer's rule. Only hits with t in [tMin, tMax] and all three
// weights in [0, 1] are reported.
func IntersectTriangle(ray math3d.Ray, a, b, c math3d.Vec3, tMin, tMax float64) IntersectionResult {
	// Columns of the 3x3 system: (a-b), (a-c), direction; right side a-origin.
	ea, eb, ec := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	ed, ee, ef := a.X-c.X, a.Y-c.Y, a.Z-c.Z
	g, h, i := ray.Direction.X, ray.Direction.Y, ray.Direction.Z
	j, k, l := a.X-ray.Origin.X, a.Y-ray.Origin.Y, a.Z-ray.Origin.Z

	eiMinusHf := ee*i - h*ef
	gfMinusDi := g*ef - ed*i
	dhMinusEg := ed*h - ee*g

	det := ea*eiMinusHf + eb*gfMinusDi + ec*dhMinusEg
	if math.Abs(det) < ParallelEpsilon {
		return IntersectionResult{}
	}

	akMinusJb := ea*k - j*eb
	jcMinusAl := j*ec - ea*l
	blMinusKc := eb*l - k*ec

	t := -(ef*akMinusJb + ee*jcMinusAl + ed*blMinusKc) / det
	if t < tMin || t > tMax {
		return IntersectionResult{}
	}

	gamma := (i*akMinusJb + h*jcMinusAl + g*blMinusKc) / det
	if gamma < 0 || gamma > 1 {
		return IntersectionResult{}
	}

	beta := (j*eiMinusHf + k*gfMinusDi + l*dhMinusEg) / det
	if beta < 0 || beta > 1-gamma {
		return IntersectionResult{}
	}

	return IntersectionResult{Hit: true, T: t, Beta: beta, Gamma: gamma}
}
