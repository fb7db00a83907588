package math3d

// Ray is a half-line Origin + t·Direction. Direction is not required to be
// unit length; callers that need it call Normalize.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a ray.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Normalize makes the direction unit length in place.
func (r *Ray) Normalize() {
	r.Direction = r.Direction.Normalize()
}
