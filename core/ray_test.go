package core

import (
	"testing"

	remath "pathtracer/math"
)

func TestFaceNormalOrientsAgainstRay(t *testing.T) {
	rayDir := remath.Vec3{X: 0, Y: 0, Z: 1}
	outward := remath.Vec3{X: 0, Y: 0, Z: -1}

	normal, front := FaceNormal(rayDir, outward)
	if !front {
		t.Fatalf("expected front face when ray opposes outward normal")
	}
	if normal != outward {
		t.Errorf("expected normal unchanged on front face, got %v", normal)
	}

	normal, front = FaceNormal(rayDir, rayDir)
	if front {
		t.Fatalf("expected back face when ray aligns with outward normal")
	}
	if normal != rayDir.Negate() {
		t.Errorf("expected normal negated on back face, got %v", normal)
	}
}

func TestBoundingBoxUnion(t *testing.T) {
	a := BoundingBox{Min: remath.Vec3{X: -1, Y: -1, Z: -1}, Max: remath.Vec3{X: 1, Y: 1, Z: 1}}
	b := BoundingBox{Min: remath.Vec3{X: 0, Y: 0, Z: 0}, Max: remath.Vec3{X: 3, Y: 3, Z: 3}}

	u := a.Union(b)
	want := BoundingBox{Min: remath.Vec3{X: -1, Y: -1, Z: -1}, Max: remath.Vec3{X: 3, Y: 3, Z: 3}}
	if u != want {
		t.Errorf("Union: expected %v, got %v", want, u)
	}
}

func TestBoundingBoxSplit(t *testing.T) {
	box := BoundingBox{Min: remath.Vec3{X: 0, Y: 0, Z: 0}, Max: remath.Vec3{X: 10, Y: 10, Z: 10}}
	left, right := box.Split(0, 4)

	if left.Max.X != 4 || left.Min.X != 0 {
		t.Errorf("Split left X range: got [%v, %v]", left.Min.X, left.Max.X)
	}
	if right.Min.X != 4 || right.Max.X != 10 {
		t.Errorf("Split right X range: got [%v, %v]", right.Min.X, right.Max.X)
	}
	// Non-split axes are untouched.
	if left.Max.Y != 10 || right.Max.Y != 10 {
		t.Errorf("Split should not alter other axes")
	}
}

func TestBoundingBoxSurfaceArea(t *testing.T) {
	box := BoundingBox{Min: remath.Vec3Zero, Max: remath.Vec3{X: 2, Y: 3, Z: 4}}
	want := float32(2 * (2*3 + 2*4 + 3*4))
	if got := box.SurfaceArea(); got != want {
		t.Errorf("SurfaceArea: expected %v, got %v", want, got)
	}
}

func TestRayAt(t *testing.T) {
	r := NewRay(remath.Vec3{X: 1, Y: 0, Z: 0}, remath.Vec3{X: 0, Y: 1, Z: 0})
	p := r.At(2)
	want := remath.Vec3{X: 1, Y: 2, Z: 0}
	if p != want {
		t.Errorf("Ray.At: expected %v, got %v", want, p)
	}
}

func TestInflateGrowsBox(t *testing.T) {
	box := BoundingBox{Min: remath.Vec3Zero, Max: remath.Vec3Zero}
	inflated := box.Inflate()
	if inflated.Min.X >= 0 || inflated.Max.X <= 0 {
		t.Errorf("Inflate: expected box to grow past zero on every axis, got %v", inflated)
	}
}
