package core

import (
	"pathtracer/math"
)

// Color is a linear-space RGB color. Shading never carries an alpha channel
// or a spectral dimension (spec.md §1 Non-goals); alpha belongs to the output
// image formats only.
type Color struct {
	R, G, B float32
}

var (
	ColorWhite = Color{1, 1, 1}
	ColorBlack = Color{0, 0, 0}
)

func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

func (c Color) Sub(o Color) Color {
	return Color{c.R - o.R, c.G - o.G, c.B - o.B}
}

func Gray(v float32) Color {
	return Color{v, v, v}
}

func (c Color) Mul(s float32) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Tint multiplies two colors component-wise (the ⊗ operator of spec.md §4.7).
func (c Color) Tint(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}

func (c Color) ToVec3() math.Vec3 {
	return math.Vec3{X: c.R, Y: c.G, Z: c.B}
}

func ColorFromVec3(v math.Vec3) Color {
	return Color{R: v.X, G: v.Y, B: v.Z}
}

// Vertex is a triangle corner: position, shading normal, and texture UV.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// MeshData is the intermediate mesh form produced by OBJ/glTF import, before
// baking into world-space Triangle surfaces via a Transform.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

// Transform places a parsed mesh into world space once, at scene-build time.
// It plays no further role once the mesh's triangles are baked and added to
// the Scene — the scene is immutable during rendering (spec.md §1 Non-goals).
type Transform struct {
	Position math.Vec3
	Rotation math.Quaternion
	Scale    math.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: math.Vec3Zero,
		Rotation: math.QuaternionIdentity(),
		Scale:    math.Vec3One,
	}
}

func (t Transform) Matrix() math.Mat4 {
	translation := math.Mat4Translation(t.Position)
	rotation := t.Rotation.ToMat4()
	scale := math.Mat4Scale(t.Scale)
	// Row-vector convention (v * M): scale, then rotate, then translate.
	return scale.Mul(rotation).Mul(translation)
}

// Apply bakes a vertex position and normal into world space. Normals use the
// rotation only; meshes are placed with uniform scale, so no inverse-transpose
// correction is needed.
func (t Transform) Apply(position, normal math.Vec3) (math.Vec3, math.Vec3) {
	worldPos := t.Matrix().MulVec3(position)
	worldNormal := t.Rotation.RotateVector(normal).Normalize()
	return worldPos, worldNormal
}
