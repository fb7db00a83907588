package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkMat4Inverse(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(ScaleUniform(2))

	for b.Loop() {
		_ = m.Inverse()
	}
}

func BenchmarkMat4RigidInverse(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))

	for b.Loop() {
		_ = m.RigidInverse()
	}
}

func BenchmarkTransformApplyToPoint(b *testing.B) {
	tr := NewTransform()
	tr.SetRotation(10, 20, 30)
	tr.SetPosition(1, 2, 3)
	p := V3(0.5, -0.5, 2)

	for b.Loop() {
		_ = tr.ApplyToPoint(p)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkVec3Dot(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Dot(v2)
	}
}
