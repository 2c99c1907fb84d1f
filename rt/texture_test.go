package rt

import (
	"testing"

	"pathtracer/core"
)

func TestSolidTextureSamplesConstant(t *testing.T) {
	c := core.Color{R: 0.1, G: 0.2, B: 0.3}
	tex := NewSolidTexture(c)

	for _, uv := range [][2]float32{{0, 0}, {0.5, 0.5}, {1, 1}, {-1, 2}} {
		if got := tex.Sample(uv[0], uv[1]); got != c {
			t.Errorf("Sample(%v): expected constant %v, got %v", uv, c, got)
		}
	}
}

func TestNilTextureSamplesWhite(t *testing.T) {
	var tex *Texture
	if got := tex.Sample(0.5, 0.5); got != core.ColorWhite {
		t.Errorf("nil texture Sample: expected white fallback, got %v", got)
	}
}

func TestTextureSampleClampsOutOfRangeUV(t *testing.T) {
	pixels := []core.Color{
		{R: 1}, {R: 2},
		{R: 3}, {R: 4},
	}
	tex := newTextureFromPixels(2, 2, pixels)

	// u=-1 clamps to column 0; v=-1 clamps to the bottom row (v is flipped:
	// row index = (1-v)*(h-1)), landing on pixel (0,1) = R3.
	if got := tex.Sample(-1, -1); got.R != 3 {
		t.Errorf("Sample(-1,-1): expected clamped to pixel R=3, got %v", got.R)
	}
}
