package io

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"pathtracer/core"
	remath "pathtracer/math"
)

// LoadGLTF opens a .glb or .gltf file and returns one MeshData per mesh
// primitive in document order, flattening the node hierarchy: a primitive's
// vertices are left in the coordinate space the accessor stores them in
// (node transforms are not applied, since Scene.AddTriangleMesh takes its
// own placement core.Transform). Only POSITION, NORMAL, TEXCOORD_0, and
// indices are read — materials, skins, and animations are out of scope for
// this renderer.
func LoadGLTF(path string) ([]*core.MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load gltf %q: %w", path, err)
	}

	var meshes []*core.MeshData
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			mesh, err := loadGLTFPrimitive(doc, *prim)
			if err != nil {
				return nil, fmt.Errorf("load gltf %q: mesh %d primitive %d: %w", path, mi, pi, err)
			}
			meshes = append(meshes, mesh)
		}
	}
	return meshes, nil
}

func loadGLTFPrimitive(doc *gltf.Document, prim gltf.Primitive) (*core.MeshData, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	vertices := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{Position: remath.Vec3{X: p[0], Y: p[1], Z: p[2]}}
		if i < len(normals) {
			n := normals[i]
			v.Normal = remath.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
		if i < len(uvs) {
			v.UV = remath.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		vertices[i] = v
	}

	if len(indices) == 0 {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	derivePrimitiveNormals(vertices, indices, normals != nil)

	return &core.MeshData{Vertices: vertices, Indices: indices}, nil
}

// derivePrimitiveNormals fills in face normals for any vertex that had no
// NORMAL accessor, mirroring LoadOBJ's treatment of normal-less faces.
func derivePrimitiveNormals(vertices []core.Vertex, indices []uint32, hadNormals bool) {
	if hadNormals {
		return
	}
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := &vertices[indices[i]], &vertices[indices[i+1]], &vertices[indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position)).Normalize()
		a.Normal, b.Normal, c.Normal = n, n, n
	}
}
