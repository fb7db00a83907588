// Package models provides the triangle mesh representation, ray-mesh
// intersection, and thin mesh loaders (STL, glTF) for whitted.
package models

import (
	"fmt"
	"sync"

	"github.com/taigrr/whitted/pkg/math3d"
)

// boundsPad widens the cached world box so rounding in the slab test can
// never reject a ray that hits a face lying on the box boundary.
const boundsPad = 1e-9

// Mesh is an indexed triangle mesh placed in the world by a Transform.
//
// Faces wind counter-clockwise when seen from the front; FaceNormals (one
// per face) and VertexNormals (one per vertex, optional) are local-space.
// The Transform must not change after the first call to Hit: world-space
// geometry and bounds are computed once and cached.
type Mesh struct {
	Name          string
	Vertices      []math3d.Vec3
	Faces         [][3]int // Indices into Vertices
	FaceNormals   []math3d.Vec3
	VertexNormals []math3d.Vec3
	HardEdges     bool // Shade with face normals even when vertex normals exist
	Material      Material
	Transform     math3d.Transform

	// Local-space bounding box (CalculateBounds)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3

	worldOnce sync.Once
	world     worldGeometry
}

// worldGeometry is the cached world-space copy of the mesh.
type worldGeometry struct {
	vertices      []math3d.Vec3
	vertexNormals []math3d.Vec3
	faceNormals   []math3d.Vec3
	bounds        AABB
}

// HitRecord describes the nearest intersection of a ray with a mesh.
type HitRecord struct {
	Point    math3d.Vec3 // World-space hit point
	Normal   math3d.Vec3 // World-space shading normal, unit length
	Result   IntersectionResult
	Material Material
}

// NewMesh creates an empty mesh with an identity transform and the default
// material.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Vertices:  make([]math3d.Vec3, 0),
		Faces:     make([][3]int, 0),
		Material:  DefaultMaterial(),
		Transform: math3d.NewTransform(),
	}
}

// Validate checks that every face indexes existing vertices and that the
// normal slices, when present, have matching lengths.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("mesh %q: face %d index %d out of range [0, %d)", m.Name, i, idx, n)
			}
		}
	}
	if len(m.FaceNormals) != 0 && len(m.FaceNormals) != len(m.Faces) {
		return fmt.Errorf("mesh %q: %d face normals for %d faces", m.Name, len(m.FaceNormals), len(m.Faces))
	}
	if len(m.VertexNormals) != 0 && len(m.VertexNormals) != n {
		return fmt.Errorf("mesh %q: %d vertex normals for %d vertices", m.Name, len(m.VertexNormals), n)
	}
	return nil
}

// CalculateBounds computes the local-space axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}
	box := BoundPoints(m.Vertices)
	m.BoundsMin = box.Min
	m.BoundsMax = box.Max
}

// CalculateFaceNormals recomputes every face normal from the
// counter-clockwise winding of its vertices.
func (m *Mesh) CalculateFaceNormals() {
	m.FaceNormals = make([]math3d.Vec3, len(m.Faces))
	for i, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		m.FaceNormals[i] = b.Sub(a).Cross(c.Sub(a)).Normalize()
	}
}

// Center returns the center of the local bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the local bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TransformVertices bakes mat into the local vertex positions and normals.
// mat may only rotate, translate and scale uniformly. It must be called
// before the mesh is first hit.
func (m *Mesh) TransformVertices(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(m.Vertices[i])
	}
	for i := range m.FaceNormals {
		m.FaceNormals[i] = mat.MulVec3Dir(m.FaceNormals[i]).Normalize()
	}
	for i := range m.VertexNormals {
		m.VertexNormals[i] = mat.MulVec3Dir(m.VertexNormals[i]).Normalize()
	}
	m.CalculateBounds()
}

// Fit centers the mesh on the origin and scales it uniformly so its
// largest dimension equals size.
func (m *Mesh) Fit(size float64) {
	m.CalculateBounds()
	dims := m.Size()
	maxDim := max(dims.X, dims.Y, dims.Z)
	if maxDim <= 0 {
		return
	}
	scale := size / maxDim
	m.TransformVertices(math3d.ScaleUniform(scale).Mul(math3d.Translate(m.Center().Negate())))
}

// Clone creates a deep copy of the mesh geometry, material and transform.
// The world-space cache is not copied.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:          m.Name,
		Vertices:      append([]math3d.Vec3(nil), m.Vertices...),
		Faces:         append([][3]int(nil), m.Faces...),
		FaceNormals:   append([]math3d.Vec3(nil), m.FaceNormals...),
		VertexNormals: append([]math3d.Vec3(nil), m.VertexNormals...),
		HardEdges:     m.HardEdges,
		Material:      m.Material,
		Transform:     m.Transform,
		BoundsMin:     m.BoundsMin,
		BoundsMax:     m.BoundsMax,
	}
	return clone
}

// WorldBounds returns the world-space bounding box, computing the world
// cache if needed.
func (m *Mesh) WorldBounds() AABB {
	return m.worldGeometry().bounds
}

// worldGeometry transforms the mesh to world space on first use.
func (m *Mesh) worldGeometry() *worldGeometry {
	m.worldOnce.Do(func() {
		if err := m.Validate(); err != nil {
			panic(err)
		}

		w := &m.world
		w.vertices = make([]math3d.Vec3, len(m.Vertices))
		for i, v := range m.Vertices {
			w.vertices[i] = m.Transform.ApplyToPoint(v)
		}

		if len(m.VertexNormals) == len(m.Vertices) {
			w.vertexNormals = make([]math3d.Vec3, len(m.VertexNormals))
			for i, n := range m.VertexNormals {
				w.vertexNormals[i] = m.Transform.ApplyToNormal(n).Normalize()
			}
		}

		w.faceNormals = make([]math3d.Vec3, len(m.Faces))
		for i, f := range m.Faces {
			var n math3d.Vec3
			if len(m.FaceNormals) == len(m.Faces) {
				n = m.Transform.ApplyToNormal(m.FaceNormals[i]).Normalize()
			}
			if n == (math3d.Vec3{}) {
				a, b, c := w.vertices[f[0]], w.vertices[f[1]], w.vertices[f[2]]
				n = b.Sub(a).Cross(c.Sub(a)).Normalize()
			}
			w.faceNormals[i] = n
		}

		w.bounds = BoundPoints(w.vertices).Expand(boundsPad)
	})
	return &m.world
}

// Hit returns the nearest front-facing intersection with t in
// [tMin, tMax]. Ties keep the lowest face index.
func (m *Mesh) Hit(ray math3d.Ray, tMin, tMax float64) (HitRecord, bool) {
	w := m.worldGeometry()
	if len(m.Faces) == 0 || !w.bounds.Hit(ray, tMin, tMax) {
		return HitRecord{}, false
	}

	var closest IntersectionResult
	face := -1
	for i, f := range m.Faces {
		// Back-facing
		if w.faceNormals[i].Dot(ray.Direction) > 0 {
			continue
		}

		res := IntersectTriangle(ray, w.vertices[f[0]], w.vertices[f[1]], w.vertices[f[2]], tMin, tMax)
		if res.Hit && (face < 0 || res.T < closest.T) {
			closest = res
			face = i
		}
	}
	if face < 0 {
		return HitRecord{}, false
	}

	return HitRecord{
		Point:    ray.At(closest.T),
		Normal:   m.shadingNormal(w, face, closest),
		Result:   closest,
		Material: m.Material,
	}, true
}

// shadingNormal interpolates the vertex normals at the hit, or falls back
// to the face normal for hard-edged meshes.
func (m *Mesh) shadingNormal(w *worldGeometry, face int, res IntersectionResult) math3d.Vec3 {
	if m.HardEdges || w.vertexNormals == nil {
		return w.faceNormals[face]
	}

	f := m.Faces[face]
	n := w.vertexNormals[f[0]].Scale(res.Alpha()).
		Add(w.vertexNormals[f[1]].Scale(res.Beta)).
		Add(w.vertexNormals[f[2]].Scale(res.Gamma)).
		Normalize()
	if n == (math3d.Vec3{}) {
		return w.faceNormals[face]
	}
	return n
}
