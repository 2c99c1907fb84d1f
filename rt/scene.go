package rt

import (
	"fmt"

	"pathtracer/core"
	remath "pathtracer/math"
)

// object pairs a surface with the material that shades it.
type object struct {
	surface  Surface
	material *Material
}

// Scene is an immutable container of objects plus a prepared KD-tree. No
// primitive in this core reports itself unbounded, so the unbounded list
// exists for completeness but is always empty; closest-hit queries scan it
// linearly alongside the KD-tree result.
type Scene struct {
	skybox    *Skybox
	objects   []object
	bounded   []int
	unbounded []int
	tree      *KDTree
	prepared  bool
}

// NewScene builds an empty scene with the given skybox (may be nil, in
// which case missed rays return black).
func NewScene(skybox *Skybox) *Scene {
	return &Scene{skybox: skybox}
}

// AddObject registers a surface/material pair. Every surface in this core is
// bounded (spheres and triangles both have finite boxes), so it always joins
// the bounded set that the KD-tree indexes.
func (s *Scene) AddObject(surface Surface, material *Material) {
	if s.prepared {
		panic("rt: AddObject called after Prepare — scene is immutable during rendering")
	}
	idx := len(s.objects)
	s.objects = append(s.objects, object{surface: surface, material: material})
	s.bounded = append(s.bounded, idx)
}

// AddTriangleMesh bakes a parsed mesh's vertices into world space via
// transform and adds one Triangle object per face.
func (s *Scene) AddTriangleMesh(mesh core.MeshData, transform core.Transform, material *Material) {
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a := bakeVertex(mesh.Vertices[mesh.Indices[i]], transform)
		b := bakeVertex(mesh.Vertices[mesh.Indices[i+1]], transform)
		c := bakeVertex(mesh.Vertices[mesh.Indices[i+2]], transform)
		s.AddObject(NewTriangle(a, b, c), material)
	}
}

func bakeVertex(v core.Vertex, t core.Transform) core.Vertex {
	pos, normal := t.Apply(v.Position, v.Normal)
	return core.Vertex{Position: pos, Normal: normal, UV: v.UV}
}

// Prepare builds the KD-tree over the scene's bounded objects. Must be
// called exactly once, after which the scene is immutable.
func (s *Scene) Prepare() error {
	if s.prepared {
		return fmt.Errorf("rt: Prepare called twice")
	}
	if len(s.bounded) == 0 {
		s.prepared = true
		return nil
	}

	boxes := make([]core.BoundingBox, len(s.bounded))
	for i, idx := range s.bounded {
		boxes[i] = s.objects[idx].surface.Bounds()
	}

	tree, err := BuildKDTree(s.bounded, boxes)
	if err != nil {
		return fmt.Errorf("rt: prepare scene: %w", err)
	}
	s.tree = tree
	s.prepared = true
	return nil
}

// ClosestHit returns the nearest intersection of ray with any object in
// (tMin, tMax), querying the KD-tree for bounded objects and linearly
// scanning the (always empty, in this core) unbounded set.
func (s *Scene) ClosestHit(ray core.Ray, tMin, tMax float32) (core.HitInfo, *Material, bool) {
	var (
		best    core.HitInfo
		bestMat *Material
		any     bool
	)

	if s.tree != nil {
		if hit, mat, ok := s.tree.Hit(ray, tMin, tMax, func(objPtr int) (Surface, *Material) {
			o := s.objects[objPtr]
			return o.surface, o.material
		}); ok {
			best, bestMat, any = hit, mat, true
			tMax = hit.TIntersect
		}
	}

	for _, idx := range s.unbounded {
		o := s.objects[idx]
		if hit, ok := o.surface.Hit(ray, tMin, tMax); ok {
			best, bestMat, any = hit, o.material, true
			tMax = hit.TIntersect
		}
	}

	return best, bestMat, any
}

// SkyColor returns the skybox color in direction dir, for rays that escape
// the scene without hitting anything.
func (s *Scene) SkyColor(dir remath.Vec3) core.Color {
	return s.skybox.ColorAt(dir)
}
