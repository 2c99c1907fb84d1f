package rt

import (
	"testing"

	"pathtracer/core"
	remath "pathtracer/math"
)

func hitAt(pos, normal remath.Vec3) core.HitInfo {
	return core.HitInfo{Position: pos, UnitNormal: normal, FrontFace: true}
}

func TestBounceDiffuseScattersIntoHemisphere(t *testing.T) {
	m := NewDiffuse(NewSolidTexture(core.ColorWhite))
	rng := NewRNG(1, 1)
	n := remath.Vec3{X: 0, Y: 1, Z: 0}
	hit := hitAt(remath.Vec3Zero, n)

	for i := 0; i < 200; i++ {
		scattered, surface, emitted, rayOut := Bounce(m, core.Ray{Dir: remath.Vec3{X: 0, Y: -1, Z: 0}}, hit, rng)
		if !scattered {
			t.Fatalf("draw %d: diffuse should always scatter", i)
		}
		if emitted != core.ColorBlack {
			t.Errorf("draw %d: diffuse should not emit", i)
		}
		if surface != core.ColorWhite {
			t.Errorf("draw %d: expected white albedo sample, got %v", i, surface)
		}
		if rayOut.Dir.Dot(n) < 0 {
			t.Errorf("draw %d: scattered direction %v is below the surface", i, rayOut.Dir)
		}
	}
}

func TestBounceMetalReflectsAboutNormal(t *testing.T) {
	m := NewMetal(NewSolidTexture(core.ColorWhite), 0)
	rng := NewRNG(2, 2)
	n := remath.Vec3{X: 0, Y: 1, Z: 0}
	hit := hitAt(remath.Vec3Zero, n)
	rayIn := core.Ray{Dir: remath.Vec3{X: 1, Y: -1, Z: 0}.Normalize()}

	scattered, _, _, rayOut := Bounce(m, rayIn, hit, rng)
	if !scattered {
		t.Fatalf("expected zero-fuzz metal to scatter above the surface")
	}
	want := remath.Vec3{X: 1, Y: 1, Z: 0}.Normalize()
	got := rayOut.Dir.Normalize()
	const eps = 1e-4
	if remath.Abs32(got.X-want.X) > eps || remath.Abs32(got.Y-want.Y) > eps {
		t.Errorf("reflected direction: expected %v, got %v", want, got)
	}
}

func TestBounceDielectricAlwaysScatters(t *testing.T) {
	m := NewDielectric(NewSolidTexture(core.ColorWhite), 1.5)
	rng := NewRNG(3, 3)
	n := remath.Vec3{X: 0, Y: 1, Z: 0}
	hit := hitAt(remath.Vec3Zero, n)
	hit.FrontFace = true
	rayIn := core.Ray{Dir: remath.Vec3{X: 0, Y: -1, Z: 0}}

	for i := 0; i < 50; i++ {
		scattered, _, _, _ := Bounce(m, rayIn, hit, rng)
		if !scattered {
			t.Fatalf("draw %d: dielectric should always scatter (reflect or refract)", i)
		}
	}
}

func TestBounceDiffuseLightEmitsAndStops(t *testing.T) {
	m := NewDiffuseLight(NewSolidTexture(core.ColorWhite), 3)
	hit := hitAt(remath.Vec3Zero, remath.Vec3{X: 0, Y: 1, Z: 0})

	scattered, surface, emitted, _ := Bounce(m, core.Ray{}, hit, nil)
	if scattered {
		t.Errorf("expected diffuse light to terminate the path")
	}
	if surface != core.ColorBlack {
		t.Errorf("expected no surface weight from a light, got %v", surface)
	}
	want := core.Color{R: 3, G: 3, B: 3}
	if emitted != want {
		t.Errorf("expected emitted = albedo * brightness = %v, got %v", want, emitted)
	}
}

func TestUnimplementedDisneyKindsReturnError(t *testing.T) {
	if _, err := NewDisneyGlass(1.5, 0.2); err == nil {
		t.Errorf("expected NewDisneyGlass to always error")
	}
	if _, err := NewDisneySheen(0.2); err == nil {
		t.Errorf("expected NewDisneySheen to always error")
	}
	if _, err := NewDisneyBSDF(NewSolidTexture(core.ColorWhite), 0, 0, 0, 0, 0, 0, 0, 0); err == nil {
		t.Errorf("expected NewDisneyBSDF to always error")
	}
}

func TestBounceDisneyMetalStaysAboveSurfaceWhenScattered(t *testing.T) {
	m := NewDisneyMetal(NewSolidTexture(core.ColorWhite), 0.3, 0)
	rng := NewRNG(4, 4)
	n := remath.Vec3{X: 0, Y: 1, Z: 0}
	hit := hitAt(remath.Vec3Zero, n)
	rayIn := core.Ray{Dir: remath.Vec3{X: 0.2, Y: -1, Z: 0.1}.Normalize()}

	for i := 0; i < 200; i++ {
		scattered, _, _, rayOut := Bounce(m, rayIn, hit, rng)
		if scattered && rayOut.Dir.Dot(n) <= 0 {
			t.Fatalf("draw %d: scattered direction should be on the normal's side, got dot=%v", i, rayOut.Dir.Dot(n))
		}
	}
}
