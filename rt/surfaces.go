package rt

import (
	"math"

	"pathtracer/core"
	remath "pathtracer/math"
)

// Surface is a tagged union over the two primitive kinds the accelerator
// understands: Sphere and Triangle, told apart by the isTriangle field.
type Surface struct {
	isTriangle bool

	// Sphere fields.
	center remath.Vec3
	radius float32

	// Triangle fields: per-corner position and UV. The shading normal is
	// always the flat face normal derived from the winding, not interpolated
	// from per-vertex normals.
	v0, v1, v2    remath.Vec3
	uv0, uv1, uv2 remath.Vec2
}

// NewSphere builds a spherical surface.
func NewSphere(center remath.Vec3, radius float32) Surface {
	return Surface{center: center, radius: radius}
}

// NewTriangle builds a triangle surface from three vertices. Per-vertex
// normals, if present, are ignored for shading: the hit normal is always the
// flat face normal derived from the winding.
func NewTriangle(a, b, c core.Vertex) Surface {
	return Surface{
		isTriangle: true,
		v0:         a.Position, v1: b.Position, v2: c.Position,
		uv0: a.UV, uv1: b.UV, uv2: c.UV,
	}
}

// Bounds returns the surface's axis-aligned bounding box, inflated by the
// standard epsilon to guard against degenerate flatness on an axis.
func (s Surface) Bounds() core.BoundingBox {
	if !s.isTriangle {
		r := remath.Vec3{X: s.radius, Y: s.radius, Z: s.radius}
		return core.BoundingBox{Min: s.center.Sub(r), Max: s.center.Add(r)}.Inflate()
	}

	min := remath.Vec3{
		X: remath.Min32(s.v0.X, remath.Min32(s.v1.X, s.v2.X)),
		Y: remath.Min32(s.v0.Y, remath.Min32(s.v1.Y, s.v2.Y)),
		Z: remath.Min32(s.v0.Z, remath.Min32(s.v1.Z, s.v2.Z)),
	}
	max := remath.Vec3{
		X: remath.Max32(s.v0.X, remath.Max32(s.v1.X, s.v2.X)),
		Y: remath.Max32(s.v0.Y, remath.Max32(s.v1.Y, s.v2.Y)),
		Z: remath.Max32(s.v0.Z, remath.Max32(s.v1.Z, s.v2.Z)),
	}
	return core.BoundingBox{Min: min, Max: max}.Inflate()
}

const triangleEpsilon = 1e-7

// Hit intersects ray against the surface in the parametric window
// (tMin, tMax), reporting the closer of the two sphere roots or the unique
// triangle root.
func (s Surface) Hit(ray core.Ray, tMin, tMax float32) (core.HitInfo, bool) {
	if s.isTriangle {
		return s.hitTriangle(ray, tMin, tMax)
	}
	return s.hitSphere(ray, tMin, tMax)
}

func (s Surface) hitSphere(ray core.Ray, tMin, tMax float32) (core.HitInfo, bool) {
	oc := ray.Origin.Sub(s.center)
	a := ray.Dir.Dot(ray.Dir)
	halfB := oc.Dot(ray.Dir)
	c := oc.Dot(oc) - s.radius*s.radius
	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return core.HitInfo{}, false
	}
	sqrtD := float32(math.Sqrt(float64(discriminant)))

	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return core.HitInfo{}, false
		}
	}

	pos := ray.At(root)
	outward := pos.Sub(s.center).Div(s.radius)
	normal, frontFace := core.FaceNormal(ray.Dir, outward)

	u, v := sphereUV(outward)

	return core.HitInfo{
		Position:   pos,
		UnitNormal: normal,
		UV:         remath.Vec2{X: u, Y: v},
		TIntersect: root,
		FrontFace:  frontFace,
	}, true
}

// sphereUV maps a point on the unit sphere to (u, v) via the standard
// spherical-to-equirectangular projection.
func sphereUV(p remath.Vec3) (u, v float32) {
	theta := float32(math.Acos(float64(-p.Y)))
	phi := float32(math.Atan2(float64(-p.Z), float64(p.X))) + math.Pi
	return phi / (2 * math.Pi), theta / math.Pi
}

func (s Surface) hitTriangle(ray core.Ray, tMin, tMax float32) (core.HitInfo, bool) {
	e1 := s.v1.Sub(s.v0)
	e2 := s.v2.Sub(s.v0)
	h := ray.Dir.Cross(e2)
	a := e1.Dot(h)
	if remath.Abs32(a) < triangleEpsilon {
		return core.HitInfo{}, false
	}
	invA := 1.0 / a

	originToV0 := ray.Origin.Sub(s.v0)
	u := originToV0.Dot(h) * invA
	if u < 0 || u > 1 {
		return core.HitInfo{}, false
	}

	q := originToV0.Cross(e1)
	v := ray.Dir.Dot(q) * invA
	if v < 0 || u+v > 1 {
		return core.HitInfo{}, false
	}

	t := e2.Dot(q) * invA
	if t <= tMin || t >= tMax {
		return core.HitInfo{}, false
	}

	w := 1 - u - v
	faceNormal := e1.Cross(e2).Normalize()
	uv := remath.Vec2{
		X: s.uv0.X*w + s.uv1.X*u + s.uv2.X*v,
		Y: s.uv0.Y*w + s.uv1.Y*u + s.uv2.Y*v,
	}

	normal, frontFace := core.FaceNormal(ray.Dir, faceNormal)

	return core.HitInfo{
		Position:   ray.At(t),
		UnitNormal: normal,
		UV:         uv,
		TIntersect: t,
		FrontFace:  frontFace,
	}, true
}
