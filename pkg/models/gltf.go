package models

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/whitted/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// SmoothNormals keeps interpolated vertex normals; when false the mesh
	// is shaded with hard edges.
	SmoothNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		SmoothNormals: true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// Load loads a GLTF or GLB file and returns a single Mesh holding the
// triangles of every mesh in the document.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf: open %s: %w", path, err)
	}

	mesh, err := l.Decode(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("gltf: decode %s: %w", path, err)
	}
	return mesh, nil
}

// Decode converts an already parsed document.
func (l *GLTFLoader) Decode(doc *gltf.Document, name string) (*Mesh, error) {
	b := NewBuilder(name)
	material := -1

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if material < 0 && prim.Material != nil {
				material = *prim.Material
			}
			if err := processPrimitive(doc, prim, b); err != nil {
				return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
			}
		}
	}
	if b.TriangleCount() == 0 {
		return nil, fmt.Errorf("no triangles")
	}

	mesh := b.Build()
	mesh.HardEdges = !l.SmoothNormals
	if material >= 0 && material < len(doc.Materials) && doc.Materials[material] != nil {
		applyMaterial(&mesh.Material, doc.Materials[material])
	}
	return mesh, nil
}

// applyMaterial copies the PBR base colour into the diffuse colour.
func applyMaterial(dst *Material, src *gltf.Material) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		c := *pbr.BaseColorFactor
		dst.DiffuseColor = math3d.V3(c[0], c[1], c[2])
	}
}

// processPrimitive feeds the triangles of one primitive to the builder.
func processPrimitive(doc *gltf.Document, prim *gltf.Primitive, b *Builder) error {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		// Skip non-triangle primitives (lines, points, etc)
		return nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}

	positions, err := readVec3Accessor(doc, posIdx)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var indices []int
	if prim.Indices != nil {
		indices, err = readIndices(doc, *prim.Indices)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		// No indices, assume sequential triangles
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	// GLTF front faces wind counter-clockwise, same as ours.
	for i := 0; i+2 < len(indices); i += 3 {
		var tri [3]math3d.Vec3
		for k := range 3 {
			idx := indices[i+k]
			if idx < 0 || idx >= len(positions) {
				return fmt.Errorf("index %d out of range [0, %d)", idx, len(positions))
			}
			tri[k] = positions[idx]
		}
		b.AddTriangle(tri[0], tri[1], tri[2], math3d.Vec3{})
	}
	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v / %v", accessor.Type, accessor.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		offset := start + i*stride
		if offset+12 > len(data) {
			return nil, fmt.Errorf("accessor overruns buffer")
		}
		result[i] = readVec3(data[offset:])
	}
	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range result {
		offset := start + i*stride
		if offset+size > len(data) {
			return nil, fmt.Errorf("accessor overruns buffer")
		}
		switch size {
		case 1:
			result[i] = int(data[offset])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[offset:]))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(data[offset:]))
		}
	}
	return result, nil
}

// accessorBytes returns the backing buffer, the first element offset and
// the element stride of an accessor.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}

	viewIdx := *accessor.BufferView
	if viewIdx < 0 || viewIdx >= len(doc.BufferViews) || doc.BufferViews[viewIdx] == nil {
		return nil, 0, 0, fmt.Errorf("buffer view %d out of range", viewIdx)
	}
	bufferView := doc.BufferViews[viewIdx]
	if bufferView.Buffer < 0 || bufferView.Buffer >= len(doc.Buffers) || doc.Buffers[bufferView.Buffer] == nil {
		return nil, 0, 0, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer %d has no data", bufferView.Buffer)
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := bufferView.ByteOffset + accessor.ByteOffset
	if start < 0 || stride < 0 {
		return nil, 0, 0, fmt.Errorf("negative offset %d or stride %d", start, stride)
	}
	return buffer.Data, start, stride, nil
}
