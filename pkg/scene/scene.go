// Package scene groups the meshes and the light the renderer traces.
package scene

import (
	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/models"
)

// Scene is an ordered collection of meshes. It is read-only while a
// render is running.
type Scene struct {
	Meshes []*models.Mesh
}

// New creates a scene from meshes.
func New(meshes ...*models.Mesh) *Scene {
	return &Scene{Meshes: meshes}
}

// Add appends a mesh.
func (s *Scene) Add(m *models.Mesh) {
	s.Meshes = append(s.Meshes, m)
}

// Hit returns the nearest hit across all meshes. Every mesh is queried with
// the full [tMin, tMax] window; on equal t the earlier mesh wins.
func (s *Scene) Hit(ray math3d.Ray, tMin, tMax float64) (models.HitRecord, bool) {
	var (
		closest models.HitRecord
		found   bool
	)
	for _, m := range s.Meshes {
		rec, ok := m.Hit(ray, tMin, tMax)
		if ok && (!found || rec.Result.T < closest.Result.T) {
			closest = rec
			found = true
		}
	}
	return closest, found
}

// Bounds returns the union of the world bounds of every mesh.
func (s *Scene) Bounds() models.AABB {
	if len(s.Meshes) == 0 {
		return models.AABB{}
	}
	box := s.Meshes[0].WorldBounds()
	for _, m := range s.Meshes[1:] {
		b := m.WorldBounds()
		box = models.NewAABB(box.Min.Min(b.Min), box.Max.Max(b.Max))
	}
	return box
}

// TriangleCount returns the number of triangles in the scene.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, m := range s.Meshes {
		n += m.TriangleCount()
	}
	return n
}
