package models

import (
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
)

// NewUVSphere builds a unit sphere centred on the origin with Z as the
// polar axis. stacks is clamped to at least 2 and slices to at least 3.
// Vertex normals are the exact sphere normals.
func NewUVSphere(stacks, slices int) *Mesh {
	stacks = max(stacks, 2)
	slices = max(slices, 3)

	mesh := NewMesh("sphere")
	mesh.Vertices = append(mesh.Vertices, math3d.V3(0, 0, 1))
	for i := 1; i < stacks; i++ {
		theta := math.Pi * float64(i) / float64(stacks)
		sinT, cosT := math.Sincos(theta)
		for j := range slices {
			phi := 2 * math.Pi * float64(j) / float64(slices)
			sinP, cosP := math.Sincos(phi)
			mesh.Vertices = append(mesh.Vertices, math3d.V3(sinT*cosP, sinT*sinP, cosT))
		}
	}
	mesh.Vertices = append(mesh.Vertices, math3d.V3(0, 0, -1))

	top := 0
	bottom := len(mesh.Vertices) - 1
	ring := func(i, j int) int {
		return 1 + (i-1)*slices + j%slices
	}

	for j := range slices {
		mesh.Faces = append(mesh.Faces, [3]int{top, ring(1, j), ring(1, j+1)})
	}
	for i := 1; i < stacks-1; i++ {
		for j := range slices {
			a, b := ring(i, j), ring(i+1, j)
			c, d := ring(i+1, j+1), ring(i, j+1)
			mesh.Faces = append(mesh.Faces, [3]int{a, b, c}, [3]int{a, c, d})
		}
	}
	for j := range slices {
		mesh.Faces = append(mesh.Faces, [3]int{ring(stacks-1, j), bottom, ring(stacks-1, j+1)})
	}

	mesh.VertexNormals = append([]math3d.Vec3(nil), mesh.Vertices...)
	mesh.CalculateFaceNormals()
	mesh.CalculateBounds()
	return mesh
}

// cubeSides lists each face normal of the cube with two in-plane axes
// chosen so that u × v = n.
var cubeSides = [6][3]math3d.Vec3{
	{{X: 1}, {Y: 1}, {Z: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {Z: 1}, {X: 1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {Y: 1}, {X: 1}},
}

// NewCube builds an axis-aligned cube of side 1 centred on the origin.
// Each side has its own four vertices and the mesh shades flat.
func NewCube() *Mesh {
	mesh := NewMesh("cube")
	for _, side := range cubeSides {
		n, u, v := side[0], side[1], side[2]
		addQuad(mesh, n.Scale(0.5), u.Scale(0.5), v.Scale(0.5), n)
	}
	mesh.HardEdges = true
	mesh.CalculateBounds()
	return mesh
}

// NewQuad builds a w×h rectangle in the XZ plane centred on the origin,
// facing -Y (towards a camera at the origin looking down +Y when the quad
// is moved forward).
func NewQuad(w, h float64) *Mesh {
	mesh := NewMesh("quad")
	addQuad(mesh, math3d.Zero3(), math3d.V3(w/2, 0, 0), math3d.V3(0, 0, h/2), math3d.V3(0, -1, 0))
	mesh.HardEdges = true
	mesh.CalculateBounds()
	return mesh
}

// addQuad appends the rectangle centre ± u ± v as two counter-clockwise
// triangles with face normal n.
func addQuad(mesh *Mesh, centre, u, v, n math3d.Vec3) {
	base := len(mesh.Vertices)
	mesh.Vertices = append(mesh.Vertices,
		centre.Sub(u).Sub(v),
		centre.Add(u).Sub(v),
		centre.Add(u).Add(v),
		centre.Sub(u).Add(v),
	)
	mesh.Faces = append(mesh.Faces,
		[3]int{base, base + 1, base + 2},
		[3]int{base, base + 2, base + 3},
	)
	mesh.FaceNormals = append(mesh.FaceNormals, n, n)
}
