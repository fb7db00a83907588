package models

import "github.com/taigrr/whitted/pkg/math3d"

// Material holds the Phong/Blinn-Phong coefficients of a surface.
type Material struct {
	Name string

	Ka float64 // ambient coefficient
	Kd float64 // diffuse coefficient
	Ks float64 // specular coefficient
	Km float64 // mirror reflectance, 0 disables reflection rays
	P  float64 // specular exponent

	DiffuseColor  math3d.Vec3 // linear RGB in 0-1 range
	SpecularColor math3d.Vec3 // linear RGB in 0-1 range
}

// DefaultMaterial returns a light gray, mildly glossy, non-reflective material.
func DefaultMaterial() Material {
	return Material{
		Name:          "default",
		Ka:            0.1,
		Kd:            1.0,
		Ks:            0.2,
		P:             50,
		DiffuseColor:  math3d.V3(0.8, 0.8, 0.8),
		SpecularColor: math3d.V3(1, 1, 1),
	}
}

// Reflective reports whether the material spawns mirror rays.
func (m Material) Reflective() bool {
	return m.Km > 0
}
