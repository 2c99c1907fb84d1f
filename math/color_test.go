package math

import "testing"

func TestSRGBToLinearEndpoints(t *testing.T) {
	if got := SRGBToLinear(0); got != 0 {
		t.Errorf("SRGBToLinear(0): expected 0, got %v", got)
	}
	if got := SRGBToLinear(1); got < 0.999 || got > 1.001 {
		t.Errorf("SRGBToLinear(1): expected ~1, got %v", got)
	}
}

func TestSRGBToLinearMonotonic(t *testing.T) {
	prev := float32(-1)
	for i := 0; i <= 10; i++ {
		c := float32(i) / 10
		v := SRGBToLinear(c)
		if v < prev {
			t.Fatalf("SRGBToLinear not monotonic at c=%v: got %v after %v", c, v, prev)
		}
		prev = v
	}
}

func TestSRGBToLinearBelowToeIsLinear(t *testing.T) {
	// Below the 0.04045 threshold the curve is exactly c/12.92.
	c := float32(0.02)
	want := c / 12.92
	if got := SRGBToLinear(c); got != want {
		t.Errorf("SRGBToLinear(%v): expected %v, got %v", c, want, got)
	}
}

func TestToLocalReorientRoundTrip(t *testing.T) {
	basis := OrthonormalBasis(Vec3{X: 0.267, Y: 0.535, Z: 0.802}.Normalize())
	local := Vec3{X: 0.3, Y: -0.4, Z: 0.8}

	world := Reorient(local, basis)
	back := ToLocal(world, basis)

	const eps = 1e-4
	if Abs32(back.X-local.X) > eps || Abs32(back.Y-local.Y) > eps || Abs32(back.Z-local.Z) > eps {
		t.Errorf("ToLocal(Reorient(v)): expected %v, got %v", local, back)
	}
}

func TestOrthonormalBasisRightHanded(t *testing.T) {
	for _, bx := range []Vec3{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0.577, Y: 0.577, Z: 0.577},
		{X: 0, Y: 0, Z: -1}, // south pole fallback
	} {
		b := OrthonormalBasis(bx.Normalize())

		const eps = 1e-3
		if l := b.X.Length(); Abs32(l-1) > eps {
			t.Errorf("basis X not unit length for %v: %v", bx, l)
		}
		if l := b.Y.Length(); Abs32(l-1) > eps {
			t.Errorf("basis Y not unit length for %v: %v", bx, l)
		}
		if Abs32(b.X.Dot(b.Y)) > eps {
			t.Errorf("basis not orthogonal for %v: X.Y = %v", bx, b.X.Dot(b.Y))
		}

		// Right-handed: X cross Y should equal Z.
		cross := b.X.Cross(b.Y)
		if Abs32(cross.X-b.Z.X) > eps || Abs32(cross.Y-b.Z.Y) > eps || Abs32(cross.Z-b.Z.Z) > eps {
			t.Errorf("basis not right-handed for %v: X x Y = %v, Z = %v", bx, cross, b.Z)
		}
	}
}

func TestReflectIdentity(t *testing.T) {
	n := Vec3{X: 0, Y: 1, Z: 0}
	v := Vec3{X: 1, Y: -1, Z: 0}.Normalize()
	r := v.Reflect(n)

	// Reflecting about the normal preserves the tangential component and
	// flips the normal component.
	want := Vec3{X: v.X, Y: -v.Y, Z: v.Z}
	const eps = 1e-5
	if Abs32(r.X-want.X) > eps || Abs32(r.Y-want.Y) > eps || Abs32(r.Z-want.Z) > eps {
		t.Errorf("Reflect: expected %v, got %v", want, r)
	}
}

func TestRefractPreservesSnellAngleAtNormalIncidence(t *testing.T) {
	n := Vec3{X: 0, Y: -1, Z: 0}
	v := Vec3{X: 0, Y: 1, Z: 0}
	out := v.Refract(n, 1.0/1.5)

	// Normal incidence: no bend, direction unchanged.
	const eps = 1e-4
	if Abs32(out.X-v.X) > eps || Abs32(out.Y-v.Y) > eps || Abs32(out.Z-v.Z) > eps {
		t.Errorf("Refract at normal incidence: expected %v, got %v", v, out)
	}
}
