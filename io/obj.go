// Package io holds the mesh- and image-format collaborators named in
// spec.md §6: OBJ/glTF mesh import and BMP/PPM image export.
package io

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"pathtracer/core"
	remath "pathtracer/math"
)

// LoadOBJ parses a Wavefront .obj file into a MeshData. Recognized
// directives: "v x y z", "vt u v", "vn x y z", and "f" with face components
// of form v, v/t, v//n, or v/t/n. Quads and larger n-gons are fan-
// triangulated in the order (0,1,2), (0,2,3), .... When a face supplies no
// vertex normals, the face normal is derived from winding and used for all
// of that face's corners; when UVs are absent, (0,0) is used.
func LoadOBJ(path string) (*core.MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load obj %q: %w", path, err)
	}
	defer f.Close()

	var positions []remath.Vec3
	var normals []remath.Vec3
	var uvs []remath.Vec2
	mesh := &core.MeshData{}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			positions = append(positions, parseVec3(fields[1:]))
		case "vn":
			normals = append(normals, parseVec3(fields[1:]))
		case "vt":
			uvs = append(uvs, parseVec2(fields[1:]))
		case "f":
			if err := appendFace(mesh, fields[1:], positions, normals, uvs); err != nil {
				return nil, fmt.Errorf("load obj %q: %w", path, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load obj %q: %w", path, err)
	}
	if len(mesh.Indices) == 0 {
		return nil, fmt.Errorf("load obj %q: no faces found", path)
	}
	return mesh, nil
}

func parseVec3(fields []string) remath.Vec3 {
	return remath.Vec3{X: parseFloat(fields, 0), Y: parseFloat(fields, 1), Z: parseFloat(fields, 2)}
}

func parseVec2(fields []string) remath.Vec2 {
	return remath.Vec2{X: parseFloat(fields, 0), Y: parseFloat(fields, 1)}
}

func parseFloat(fields []string, i int) float32 {
	if i >= len(fields) {
		return 0
	}
	v, _ := strconv.ParseFloat(fields[i], 32)
	return float32(v)
}

// appendFace fan-triangulates one face directive and appends its corners
// and triangle indices to mesh, deriving a face normal per-triangle when the
// directive supplied no vn components.
func appendFace(mesh *core.MeshData, components []string, positions, normals []remath.Vec3, uvs []remath.Vec2) error {
	corners := make([]core.Vertex, len(components))
	hasNormal := make([]bool, len(components))
	for i, c := range components {
		v, gotNormal, err := parseFaceVertex(c, positions, normals, uvs)
		if err != nil {
			return err
		}
		corners[i], hasNormal[i] = v, gotNormal
	}

	for i := 2; i < len(corners); i++ {
		a, b, c := corners[0], corners[i-1], corners[i]
		if !hasNormal[0] || !hasNormal[i-1] || !hasNormal[i] {
			faceNormal := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position)).Normalize()
			if !hasNormal[0] {
				a.Normal = faceNormal
			}
			if !hasNormal[i-1] {
				b.Normal = faceNormal
			}
			if !hasNormal[i] {
				c.Normal = faceNormal
			}
		}

		base := uint32(len(mesh.Vertices))
		mesh.Vertices = append(mesh.Vertices, a, b, c)
		mesh.Indices = append(mesh.Indices, base, base+1, base+2)
	}
	return nil
}

// parseFaceVertex parses one face component ("v", "v/vt", "v//vn", or
// "v/vt/vn") with support for negative (relative-to-end) indices. The
// second return reports whether a normal index was present.
func parseFaceVertex(spec string, positions, normals []remath.Vec3, uvs []remath.Vec2) (core.Vertex, bool, error) {
	parts := strings.Split(spec, "/")

	posIdx, err := resolveIndex(parts[0], len(positions))
	if err != nil {
		return core.Vertex{}, false, fmt.Errorf("face vertex %q: %w", spec, err)
	}
	v := core.Vertex{Position: positions[posIdx]}

	if len(parts) >= 2 && parts[1] != "" {
		idx, err := resolveIndex(parts[1], len(uvs))
		if err != nil {
			return core.Vertex{}, false, fmt.Errorf("face vertex %q: %w", spec, err)
		}
		v.UV = uvs[idx]
	}

	hasNormal := len(parts) >= 3 && parts[2] != ""
	if hasNormal {
		idx, err := resolveIndex(parts[2], len(normals))
		if err != nil {
			return core.Vertex{}, false, fmt.Errorf("face vertex %q: %w", spec, err)
		}
		v.Normal = normals[idx]
	}

	return v, hasNormal, nil
}

// resolveIndex converts a 1-based (or negative, relative-to-end) OBJ index
// into a 0-based slice index.
func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q: %w", s, err)
	}
	if i < 0 {
		i = count + i + 1
	}
	if i < 1 || i > count {
		return 0, fmt.Errorf("index %d out of range [1,%d]", i, count)
	}
	return i - 1, nil
}
