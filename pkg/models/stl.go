package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/whitted/pkg/math3d"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50 // normal + 3 vertices (12 float32) + attribute count
)

// LoadSTL loads a binary or ASCII STL file. Shared vertices are merged and
// per-vertex normals are averaged from the stored face normals.
func LoadSTL(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stl: read %s: %w", path, err)
	}

	mesh, err := ParseSTL(data, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("stl: parse %s: %w", path, err)
	}
	return mesh, nil
}

// ParseSTL decodes STL data. Binary layout is detected by the triangle
// count matching the data length; anything else starting with "solid" is
// read as ASCII.
func ParseSTL(data []byte, name string) (*Mesh, error) {
	if len(data) >= stlHeaderSize+4 {
		count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
		if int64(len(data)) == stlHeaderSize+4+int64(count)*stlTriangleSize {
			return parseBinarySTL(data, int(count), name)
		}
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid")) {
		return parseASCIISTL(bytes.NewReader(data), name)
	}
	return nil, fmt.Errorf("not an STL file (%d bytes)", len(data))
}

func parseBinarySTL(data []byte, count int, name string) (*Mesh, error) {
	b := NewBuilder(name)
	offset := stlHeaderSize + 4
	for range count {
		var v [4]math3d.Vec3
		for k := range v {
			v[k] = readVec3(data[offset+k*12:])
		}
		b.AddTriangle(v[1], v[2], v[3], v[0])
		offset += stlTriangleSize
	}
	if b.TriangleCount() == 0 {
		return nil, fmt.Errorf("no triangles")
	}
	return b.Build(), nil
}

// readVec3 reads three little-endian float32 values.
func readVec3(p []byte) math3d.Vec3 {
	return math3d.V3(
		float64(math.Float32frombits(binary.LittleEndian.Uint32(p[0:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(p[4:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(p[8:]))),
	)
}

func parseASCIISTL(r io.Reader, name string) (*Mesh, error) {
	b := NewBuilder(name)
	scanner := bufio.NewScanner(r)

	var (
		normal math3d.Vec3
		verts  []math3d.Vec3
		line   int
	)
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "facet":
			if len(fields) != 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("line %d: malformed facet", line)
			}
			n, err := parseFloats(fields[2:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			normal = n
			verts = verts[:0]
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %d: malformed vertex", line)
			}
			v, err := parseFloats(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			verts = append(verts, v)
		case "endfacet":
			if len(verts) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices, want 3", line, len(verts))
			}
			b.AddTriangle(verts[0], verts[1], verts[2], normal)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if b.TriangleCount() == 0 {
		return nil, fmt.Errorf("no triangles")
	}
	return b.Build(), nil
}

func parseFloats(fields []string) (math3d.Vec3, error) {
	var f [3]float64
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("parse %q: %w", s, err)
		}
		f[i] = v
	}
	return math3d.V3(f[0], f[1], f[2]), nil
}
