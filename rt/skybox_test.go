package rt

import (
	"testing"

	"pathtracer/core"
	remath "pathtracer/math"
)

func solidSkybox(colors [6]core.Color) *Skybox {
	var sb Skybox
	for i, c := range colors {
		sb.faces[i] = NewSolidTexture(c)
	}
	return &sb
}

func TestNilSkyboxColorAtIsBlack(t *testing.T) {
	var sb *Skybox
	if c := sb.ColorAt(remath.Vec3{X: 0, Y: 1, Z: 0}); c != core.ColorBlack {
		t.Errorf("expected black from a nil skybox, got %v", c)
	}
}

func TestSkyboxColorAtSelectsDominantAxisFace(t *testing.T) {
	colors := [6]core.Color{
		faceXPos: {R: 1},
		faceXNeg: {G: 1},
		faceYPos: {B: 1},
		faceYNeg: {R: 1, G: 1},
		faceZPos: {R: 1, B: 1},
		faceZNeg: {G: 1, B: 1},
	}
	sb := solidSkybox(colors)

	cases := []struct {
		dir  remath.Vec3
		want core.Color
	}{
		{remath.Vec3{X: 1, Y: 0, Z: 0}, colors[faceXPos]},
		{remath.Vec3{X: -1, Y: 0, Z: 0}, colors[faceXNeg]},
		{remath.Vec3{X: 0, Y: 1, Z: 0}, colors[faceYPos]},
		{remath.Vec3{X: 0, Y: -1, Z: 0}, colors[faceYNeg]},
		{remath.Vec3{X: 0, Y: 0, Z: 1}, colors[faceZPos]},
		{remath.Vec3{X: 0, Y: 0, Z: -1}, colors[faceZNeg]},
	}
	for _, c := range cases {
		if got := sb.ColorAt(c.dir); got != c.want {
			t.Errorf("ColorAt(%v): expected %v, got %v", c.dir, c.want, got)
		}
	}
}

// TestSkyboxColorAtOffAxisMatchesUCVCTable exercises the per-face uc,vc
// projection with a non-axis-aligned direction, where a sign or axis swap in
// the formula would land on the wrong pixel of a non-solid texture.
func TestSkyboxColorAtOffAxisMatchesUCVCTable(t *testing.T) {
	var sb Skybox
	for i := range sb.faces {
		sb.faces[i] = newTextureFromPixels(2, 2, []core.Color{
			{R: 1}, {R: 2},
			{R: 3}, {R: 4},
		})
	}

	dir := remath.Vec3{X: 0.8, Y: 0.3, Z: -0.2}.Normalize()
	absX := remath.Abs32(dir.X)

	// +x is dominant: uc=dir.y, vc=dir.z.
	uc, vc := dir.Y, dir.Z
	u, v := uc/absX, vc/absX
	want := sb.faces[faceXPos].Sample((u+1)/2, (v+1)/2)

	if got := sb.ColorAt(dir); got != want {
		t.Errorf("ColorAt(%v): expected %v from uc=dir.y,vc=dir.z table entry, got %v", dir, want, got)
	}
}
