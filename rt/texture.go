package rt

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"

	"pathtracer/core"
	remath "pathtracer/math"
)

// Texture owns a linear-color image, one float32 triple per texel, row-major
// from the top-left corner.
type Texture struct {
	width, height int
	pixels        []core.Color
}

// NewSolidTexture builds a 1x1 texture, used for materials given a constant
// albedo rather than an image file.
func NewSolidTexture(c core.Color) *Texture {
	return &Texture{width: 1, height: 1, pixels: []core.Color{c}}
}

// LoadTexture decodes an image file through the standard image.Decode
// registry (PNG, JPEG, and — via the blank-imported golang.org/x/image/bmp —
// BMP) and converts it to a linear-color Texture. sRGB gamma is removed so
// texture lookups compose correctly with the renderer's linear math.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load texture %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Color, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pixels[y*w+x] = core.Color{
				R: remath.SRGBToLinear(float32(r) / 65535),
				G: remath.SRGBToLinear(float32(g) / 65535),
				B: remath.SRGBToLinear(float32(b) / 65535),
			}
		}
	}
	return &Texture{width: w, height: h, pixels: pixels}, nil
}

// newTextureFromPixels wraps pixels already in linear color space (e.g. from
// io.LoadBMP) as a Texture, without decoding through image.Decode.
func newTextureFromPixels(width, height int, pixels []core.Color) *Texture {
	return &Texture{width: width, height: height, pixels: pixels}
}

// Sample looks up the texture at (u, v) in [0,1]^2: (u, 1-v) is multiplied
// by (width-1, height-1) and truncated to a pixel index, flipping v since
// the image origin is top-left but texture coordinates are bottom-left.
func (t *Texture) Sample(u, v float32) core.Color {
	if t == nil || len(t.pixels) == 0 {
		return core.ColorWhite
	}
	x := clampInt(int(u*float32(t.width-1)), 0, t.width-1)
	y := clampInt(int((1-v)*float32(t.height-1)), 0, t.height-1)
	return t.pixels[y*t.width+x]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
