package core

import "pathtracer/math"

// Ray carries origin, direction, and cached per-axis 1/dir and origin/dir
// values used by KD-tree plane intersection. The cache must be recomputed
// whenever Origin or Dir changes; NewRay is the only place that computes it.
type Ray struct {
	Origin       math.Vec3
	Dir          math.Vec3
	InvDir       math.Vec3
	OriginDivDir math.Vec3
}

// NewRay builds a Ray and its intersection caches. If dir[a] == 0, invDir[a]
// is ±Inf, which the KD-tree traversal treats as near-parallel via an
// epsilon rather than relying on IEEE division semantics directly.
func NewRay(origin, dir math.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		InvDir: math.Vec3{
			X: 1 / dir.X,
			Y: 1 / dir.Y,
			Z: 1 / dir.Z,
		},
		OriginDivDir: math.Vec3{
			X: origin.X / dir.X,
			Y: origin.Y / dir.Y,
			Z: origin.Z / dir.Z,
		},
	}
}

// At evaluates the ray's position at parameter t.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// HitInfo describes a ray-surface intersection.
type HitInfo struct {
	Position   math.Vec3
	UnitNormal math.Vec3
	UV         math.Vec2
	TIntersect float32
	FrontFace  bool
}

// FaceNormal orients outwardNormal against rayDir: the result always points
// against the incoming ray, and FrontFace records which side of the surface
// was hit so dielectric materials can choose the correct relative index of
// refraction.
func FaceNormal(rayDir, outwardNormal math.Vec3) (normal math.Vec3, frontFace bool) {
	frontFace = rayDir.Dot(outwardNormal) < 0
	if frontFace {
		return outwardNormal, true
	}
	return outwardNormal.Negate(), false
}

// BoundingBox is an axis-aligned box with Min[a] <= Max[a] on every axis.
type BoundingBox struct {
	Min, Max math.Vec3
}

// boxEpsilon inflates a primitive's bounds to guard against degenerate
// flatness on an axis (a sphere's or axis-aligned triangle's bounding box can
// have zero extent on one axis).
const boxEpsilon = 0.001

// Inflate returns b grown by boxEpsilon on every axis.
func (b BoundingBox) Inflate() BoundingBox {
	eps := math.Vec3{X: boxEpsilon, Y: boxEpsilon, Z: boxEpsilon}
	return BoundingBox{Min: b.Min.Sub(eps), Max: b.Max.Add(eps)}
}

// Union returns the smallest box containing both a and b.
func (a BoundingBox) Union(b BoundingBox) BoundingBox {
	return BoundingBox{
		Min: math.Vec3{X: math.Min32(a.Min.X, b.Min.X), Y: math.Min32(a.Min.Y, b.Min.Y), Z: math.Min32(a.Min.Z, b.Min.Z)},
		Max: math.Vec3{X: math.Max32(a.Max.X, b.Max.X), Y: math.Max32(a.Max.Y, b.Max.Y), Z: math.Max32(a.Max.Z, b.Max.Z)},
	}
}

// SurfaceArea is 2*(dx*dy + dx*dz + dy*dz), used by the SAH split search.
func (b BoundingBox) SurfaceArea() float32 {
	d := b.Max.Sub(b.Min)
	return 2 * (d.X*d.Y + d.X*d.Z + d.Y*d.Z)
}

// AxisMin and AxisMax return the box's Min and Max corner along axis a
// (0=X, 1=Y, 2=Z).
func (b BoundingBox) AxisMin(a int) float32 { return axisOf(b.Min, a) }
func (b BoundingBox) AxisMax(a int) float32 { return axisOf(b.Max, a) }

func axisOf(v math.Vec3, a int) float32 {
	switch a {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Split partitions b into a left box (axis clamped to <= split) and a right
// box (axis clamped to >= split), the operation the SAH bucket search uses
// to evaluate candidate splits without touching the primitive list.
func (b BoundingBox) Split(axis int, split float32) (left, right BoundingBox) {
	left, right = b, b
	switch axis {
	case 0:
		left.Max.X = math.Min32(left.Max.X, split)
		right.Min.X = math.Max32(right.Min.X, split)
	case 1:
		left.Max.Y = math.Min32(left.Max.Y, split)
		right.Min.Y = math.Max32(right.Min.Y, split)
	default:
		left.Max.Z = math.Min32(left.Max.Z, split)
		right.Min.Z = math.Max32(right.Min.Z, split)
	}
	return left, right
}
