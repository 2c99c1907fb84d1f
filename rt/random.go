// Package rt implements the rendering core: surfaces, materials, the KD-tree
// accelerator, the camera, the scene container, and the tiled parallel
// renderer.
package rt

import (
	"math"

	remath "pathtracer/math"
)

// RNG is a xoshiro128+ generator, kept as a 128-bit state. Every worker
// goroutine owns a private RNG — never shared across goroutines — seeded
// from a hardware entropy source and then advanced with Jump so concurrent
// workers draw from non-overlapping subsequences.
type RNG struct {
	s [4]uint32
}

// jumpPoly is the precomputed jump polynomial, equivalent to 2^64 calls to
// next(); advancing by it is how parallel workers get non-overlapping
// subsequences from the same seed.
var jumpPoly = [4]uint32{0x8764000b, 0xf542d2d3, 0x6fa035c3, 0x77f2db5b}

func rotl(x uint32, k uint) uint32 {
	return (x << k) | (x >> (32 - k))
}

// NewRNG seeds a generator from two 64-bit values and immediately applies
// Jump, matching Random_Seed in the reference implementation.
func NewRNG(seed1, seed2 uint64) *RNG {
	r := &RNG{s: [4]uint32{
		uint32(seed1),
		uint32(seed1 >> 32),
		uint32(seed2),
		uint32(seed2 >> 32),
	}}
	r.Jump()
	return r
}

func (r *RNG) next() uint32 {
	result := r.s[0] + r.s[3]
	t := r.s[1] << 9

	r.s[2] ^= r.s[0]
	r.s[3] ^= r.s[1]
	r.s[1] ^= r.s[2]
	r.s[0] ^= r.s[3]

	r.s[2] ^= t
	r.s[3] = rotl(r.s[3], 11)

	return result
}

// Jump advances the state by 2^64 calls to next(). Used once at seed time so
// that distinct workers seeded from distinct entropy draws never overlap,
// and is otherwise not called again during a render.
func (r *RNG) Jump() {
	var s0, s1, s2, s3 uint32
	for _, jw := range jumpPoly {
		for b := uint(0); b < 32; b++ {
			if jw&(1<<b) != 0 {
				s0 ^= r.s[0]
				s1 ^= r.s[1]
				s2 ^= r.s[2]
				s3 ^= r.s[3]
			}
			r.next()
		}
	}
	r.s[0], r.s[1], r.s[2], r.s[3] = s0, s1, s2, s3
}

// Float returns a uniform value in [0, 1) by assembling the top 23 bits of
// the next u32 directly into an IEEE-754 float's mantissa (Random_Unilateral
// in the reference).
func (r *RNG) Float() float32 {
	bits := (r.next() >> 9) | 0x3f800000
	return math.Float32frombits(bits) - 1.0
}

// FloatRange returns a uniform value in [min, max).
func (r *RNG) FloatRange(min, max float32) float32 {
	return min + (max-min)*r.Float()
}

// OnUnitSphere returns a uniformly distributed point on the unit sphere via
// spherical-to-Cartesian conversion of two uniform draws.
func (r *RNG) OnUnitSphere() remath.Vec3 {
	z := r.FloatRange(-1, 1)
	a := r.FloatRange(0, 2*math.Pi)
	radius := remath.Max32(0, float32(math.Sqrt(float64(1-z*z))))
	return remath.Vec3{
		X: radius * float32(math.Cos(float64(a))),
		Y: radius * float32(math.Sin(float64(a))),
		Z: z,
	}
}

// InUnitDisc returns a uniformly distributed point in the unit disc in the
// XY plane (Z always 0), used by the thin-lens camera for depth of field.
func (r *RNG) InUnitDisc() remath.Vec3 {
	for {
		p := remath.Vec3{X: r.FloatRange(-1, 1), Y: r.FloatRange(-1, 1), Z: 0}
		if p.LengthSqr() < 1 {
			return p
		}
	}
}

// CosineHemisphere draws a direction from the cosine-weighted hemisphere
// around unitNormal, used by the Disney diffuse lobe.
func (r *RNG) CosineHemisphere(unitNormal remath.Vec3) remath.Vec3 {
	e0 := r.Float()
	e1 := r.Float()

	sinTheta := float32(math.Sqrt(float64(1 - e0)))
	cosTheta := float32(math.Sqrt(float64(e0)))
	phi := 2 * math.Pi * float64(e1)

	local := remath.Vec3{
		X: sinTheta * float32(math.Cos(phi)),
		Y: sinTheta * float32(math.Sin(phi)),
		Z: cosTheta,
	}

	basis := shadingFrame(unitNormal)
	return remath.Reorient(local, basis)
}

// shadingFrame builds an orthonormal frame whose +Z axis is unitNormal, by
// taking the Frisvad basis (whose X axis is the input vector) and rotating
// the slots so the normal lands on Z — the convention every Disney lobe
// samples in (spec.md §4.4: "all local-frame sampling is in a basis whose +z
// is the shading normal").
func shadingFrame(unitNormal remath.Vec3) remath.Basis3 {
	b := remath.OrthonormalBasis(unitNormal)
	return remath.Basis3{X: b.Y, Y: b.Z, Z: b.X}
}
