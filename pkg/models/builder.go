package models

import "github.com/taigrr/whitted/pkg/math3d"

// Builder assembles an indexed mesh from loose triangles. Vertices with
// exactly equal coordinates are merged, which is what lets per-vertex
// normals average across neighbouring faces.
type Builder struct {
	name     string
	vertices []math3d.Vec3
	faces    [][3]int
	normals  []math3d.Vec3
	index    map[math3d.Vec3]int
}

// NewBuilder creates an empty builder for a mesh called name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:  name,
		index: make(map[math3d.Vec3]int),
	}
}

// vertex returns the index of v, adding it on first sight.
func (b *Builder) vertex(v math3d.Vec3) int {
	if idx, ok := b.index[v]; ok {
		return idx
	}
	idx := len(b.vertices)
	b.vertices = append(b.vertices, v)
	b.index[v] = idx
	return idx
}

// AddTriangle appends triangle (a, b, c). A zero normal is replaced by the
// normal implied by the counter-clockwise winding.
func (b *Builder) AddTriangle(a, bv, c, normal math3d.Vec3) {
	if normal == (math3d.Vec3{}) {
		normal = bv.Sub(a).Cross(c.Sub(a))
	}
	b.faces = append(b.faces, [3]int{b.vertex(a), b.vertex(bv), b.vertex(c)})
	b.normals = append(b.normals, normal.Normalize())
}

// TriangleCount returns the number of triangles added so far.
func (b *Builder) TriangleCount() int {
	return len(b.faces)
}

// Build returns the mesh with face normals and per-vertex normals (the
// normalised sum of the normals of every face sharing the vertex).
func (b *Builder) Build() *Mesh {
	vertexNormals := make([]math3d.Vec3, len(b.vertices))
	for i, f := range b.faces {
		for _, idx := range f {
			vertexNormals[idx] = vertexNormals[idx].Add(b.normals[i])
		}
	}
	for i := range vertexNormals {
		vertexNormals[i] = vertexNormals[i].Normalize()
	}

	mesh := NewMesh(b.name)
	mesh.Vertices = b.vertices
	mesh.Faces = b.faces
	mesh.FaceNormals = b.normals
	mesh.VertexNormals = vertexNormals
	mesh.CalculateBounds()
	return mesh
}
