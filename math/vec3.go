package math

import "math"

type Vec3 struct {
	X, Y, Z float32
}

var (
	Vec3Zero  = Vec3{0, 0, 0}
	Vec3One   = Vec3{1, 1, 1}
	Vec3Up    = Vec3{0, 1, 0}
	Vec3Down  = Vec3{0, -1, 0}
	Vec3Right = Vec3{1, 0, 0}
	Vec3Left  = Vec3{-1, 0, 0}
	Vec3Front = Vec3{0, 0, 1}
	Vec3Back  = Vec3{0, 0, -1}
)

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

func (v Vec3) Mul(scalar float32) Vec3 {
	return Vec3{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

func (v Vec3) MulVec(other Vec3) Vec3 {
	return Vec3{X: v.X * other.X, Y: v.Y * other.Y, Z: v.Z * other.Z}
}

func (v Vec3) Div(scalar float32) Vec3 {
	return v.Mul(1.0 / scalar)
}

func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

func (v Vec3) LengthSqr() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length > 0 {
		return v.Mul(1.0 / length)
	}
	return v
}

func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return v.Add(other.Sub(v).Mul(t))
}

func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) ToVec4(w float32) Vec4 {
	return Vec4{X: v.X, Y: v.Y, Z: v.Z, W: w}
}

// NearZero reports whether every component is within eps of zero.
func (v Vec3) NearZero(eps float32) bool {
	return Abs32(v.X) < eps && Abs32(v.Y) < eps && Abs32(v.Z) < eps
}

func Abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Reflect mirrors v about the unit normal n: v - 2(v·n)n.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// Refract bends unit vector v through a unit normal n with relative index of
// refraction eta (= etaIncident / etaTransmitted). Assumes cosTheta = min(-v·n, 1).
func (v Vec3) Refract(n Vec3, eta float32) Vec3 {
	cosTheta := Min32(-v.Dot(n), 1.0)
	perp := v.Add(n.Mul(cosTheta)).Mul(eta)
	parallelLenSq := 1.0 - perp.LengthSqr()
	if parallelLenSq < 0 {
		parallelLenSq = 0
	}
	parallel := n.Mul(-float32(math.Sqrt(float64(parallelLenSq))))
	return perp.Add(parallel)
}

func Min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func Max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func Pow32(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}

func Clamp32(v, lo, hi float32) float32 {
	return Max32(lo, Min32(hi, v))
}

// Basis3 is a right-handed orthonormal frame: X, Y span the tangent plane and
// Z is the frame's normal axis.
type Basis3 struct {
	X, Y, Z Vec3
}

// OrthonormalBasis builds a right-handed basis whose X axis is bx, using
// Frisvad's branch-free construction with a single fallback for the
// degenerate south-pole case (bx.Z near -1).
func OrthonormalBasis(bx Vec3) Basis3 {
	if bx.Z < -0.9999999 {
		return Basis3{
			X: bx,
			Y: Vec3{X: 0, Y: -1, Z: 0},
			Z: Vec3{X: -1, Y: 0, Z: 0},
		}
	}

	a := 1.0 / (1.0 + bx.Z)
	b := -bx.X * bx.Y * a

	by := Vec3{X: b, Y: 1 - bx.Y*bx.Y*a, Z: -bx.Y}
	bz := Vec3{X: 1 - bx.X*bx.X*a, Y: b, Z: -bx.X}

	return Basis3{X: bx, Y: bz, Z: by}
}

// Reorient maps local-frame coordinates n = (nx, ny, nz) into world space
// using basis.X, basis.Y, basis.Z as the local x/y/z axes.
func Reorient(n Vec3, basis Basis3) Vec3 {
	return basis.X.Mul(n.X).Add(basis.Y.Mul(n.Y)).Add(basis.Z.Mul(n.Z))
}

// ToLocal is the inverse of Reorient: since basis is orthonormal its inverse
// is its transpose, so the local coordinates are just dot products against
// each axis.
func ToLocal(world Vec3, basis Basis3) Vec3 {
	return Vec3{X: world.Dot(basis.X), Y: world.Dot(basis.Y), Z: world.Dot(basis.Z)}
}
