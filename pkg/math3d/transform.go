package math3d

import "math"

// Transform is a rigid body placement: a rotation block and a translation
// column in one homogeneous matrix. The rigid inverse is kept alongside and
// refreshed on every setter.
//
// The zero value is not a valid transform; use NewTransform.
type Transform struct {
	m   Mat4
	inv Mat4
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{m: Identity(), inv: Identity()}
}

// SetPosition overwrites the translation column.
func (t *Transform) SetPosition(x, y, z float64) {
	t.m.SetTranslation(V3(x, y, z))
	t.inv = t.m.RigidInverse()
}

// SetRotation builds the rotation block as Rx·Ry·Rz from angles in degrees
// and overwrites the 3x3 block. Translation is left untouched.
func (t *Transform) SetRotation(x, y, z float64) {
	r := RotateX(Radians(x)).Mul(RotateY(Radians(y))).Mul(RotateZ(Radians(z)))
	t.m.SetRotation(r)
	t.inv = t.m.RigidInverse()
}

// SetAxisRotation sets the rotation block to a rotation of degrees about
// axis. Translation is left untouched.
func (t *Transform) SetAxisRotation(axis Vec3, degrees float64) {
	t.m.SetRotation(Rotate(axis, Radians(degrees)))
	t.inv = t.m.RigidInverse()
}

// SetRotationMatrix copies the 3x3 block of r, which must be orthonormal.
// Translation is left untouched.
func (t *Transform) SetRotationMatrix(r Mat4) {
	t.m.SetRotation(r)
	t.inv = t.m.RigidInverse()
}

// Matrix returns the local-to-world matrix.
func (t Transform) Matrix() Mat4 {
	return t.m
}

// InverseMatrix returns the world-to-local matrix.
func (t Transform) InverseMatrix() Mat4 {
	return t.inv
}

// Position returns the translation, i.e. the local origin in world space.
func (t Transform) Position() Vec3 {
	return t.m.Translation()
}

// ApplyToPoint maps a local point to world space.
func (t Transform) ApplyToPoint(p Vec3) Vec3 {
	return t.m.MulVec3(p)
}

// ApplyInverseToPoint maps a world point to local space.
func (t Transform) ApplyInverseToPoint(p Vec3) Vec3 {
	return t.inv.MulVec3(p)
}

// ApplyToNormal maps a local direction to world space (w = 0). Correct for
// normals only because the rotation block is orthonormal.
func (t Transform) ApplyToNormal(n Vec3) Vec3 {
	return t.m.MulVec3Dir(n)
}

// ApplyInverseToNormal maps a world direction to local space.
func (t Transform) ApplyInverseToNormal(n Vec3) Vec3 {
	return t.inv.MulVec3Dir(n)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
