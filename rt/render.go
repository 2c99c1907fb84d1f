package rt

import (
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"pathtracer/core"
	remath "pathtracer/math"
)

// TileWidth and TileHeight match the reference renderer's 2x2 tiles;
// implementers may tune these, so they are vars rather than consts.
var (
	TileWidth  = 2
	TileHeight = 2
)

// tileClaims is the atomic per-tile claim bitmap: one bit per tile, set with
// a relaxed fetch-or so a worker only proceeds when it observes the prior
// bit clear.
type tileClaims struct {
	words []atomic.Uint32
}

func newTileClaims(numTiles int) *tileClaims {
	return &tileClaims{words: make([]atomic.Uint32, (numTiles+31)/32)}
}

// claim attempts to set bit `index`, returning true if this call was the one
// that set it (i.e. it was previously clear).
func (c *tileClaims) claim(index int) bool {
	word := index / 32
	bit := uint32(1) << uint(index%32)
	for {
		old := c.words[word].Load()
		if old&bit != 0 {
			return false
		}
		if c.words[word].CompareAndSwap(old, old|bit) {
			return true
		}
	}
}

// RenderParams bundles the per-render tunables named in spec.md §4.7/§6.
type RenderParams struct {
	SamplesPerPixel int
	MaxBounces      int
	NumWorkers      int
}

// Render partitions img into TileWidth x TileHeight tiles, spawns
// params.NumWorkers goroutines that atomically claim and shade tiles, and
// blocks until every tile is complete. Each worker owns a private RNG seeded
// from hardware entropy.
func Render(scene *Scene, cam Camera, img *core.Image, params RenderParams) error {
	numTilesW := ceilDiv(img.Width, TileWidth)
	numTilesH := ceilDiv(img.Height, TileHeight)
	claims := newTileClaims(numTilesW * numTilesH)

	workers := params.NumWorkers
	if workers < 1 {
		workers = 1
	}

	var group errgroup.Group
	for w := 0; w < workers; w++ {
		group.Go(func() error {
			rng, err := NewEntropySeededRNG()
			if err != nil {
				return err
			}
			renderWorker(scene, cam, img, params, claims, numTilesW, numTilesH, rng)
			return nil
		})
	}
	return group.Wait()
}

func renderWorker(scene *Scene, cam Camera, img *core.Image, params RenderParams, claims *tileClaims, numTilesW, numTilesH int, rng *RNG) {
	for ty := 0; ty < numTilesH; ty++ {
		for tx := 0; tx < numTilesW; tx++ {
			tileIndex := ty*numTilesW + tx
			if !claims.claim(tileIndex) {
				continue
			}
			renderTile(scene, cam, img, params, rng, tx, ty)
		}
	}
}

func renderTile(scene *Scene, cam Camera, img *core.Image, params RenderParams, rng *RNG, tx, ty int) {
	x0, y0 := tx*TileWidth, ty*TileHeight
	x1, y1 := minInt(x0+TileWidth, img.Width), minInt(y0+TileHeight, img.Height)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.Set(x, y, renderPixel(scene, cam, params, rng, img.Width, img.Height, x, y))
		}
	}
}

func renderPixel(scene *Scene, cam Camera, params RenderParams, rng *RNG, width, height, x, y int) core.Color {
	var accum remath.Vec3
	for i := 0; i < params.SamplesPerPixel; i++ {
		s := (float32(x) + rng.Float()) / float32(width-1)
		t := (float32(y) + rng.Float()) / float32(height-1)
		ray := cam.GetRay(s, t, rng)
		accum = accum.Add(rayColor(scene, ray, params.MaxBounces, rng).ToVec3())
	}
	avg := accum.Div(float32(params.SamplesPerPixel))
	return encodeGamma(core.ColorFromVec3(avg))
}

// rayColor walks a single path: terminates at depth 0 returning black; on a
// miss returns the sky color; on a hit, composes emitted + surface-tinted
// recursive contribution if the material scattered.
func rayColor(scene *Scene, ray core.Ray, depth int, rng *RNG) core.Color {
	if depth == 0 {
		return core.ColorBlack
	}

	hit, mat, ok := scene.ClosestHit(ray, 0.001, float32(math.Inf(1)))
	if !ok {
		return scene.SkyColor(ray.Dir)
	}

	scattered, surface, emitted, rayOut := Bounce(mat, ray, hit, rng)
	if !scattered {
		return emitted
	}
	return emitted.Add(surface.Tint(rayColor(scene, rayOut, depth-1, rng)))
}

// encodeGamma clamps each channel to [0, 0.999] and applies the gamma-2
// (square-root) encoding spec.md's output path uses; the 255 scale and
// 8-bit truncation happen in the BMP/PPM encoders, which need the same
// clamped-and-gamma'd float to agree on rounding.
func encodeGamma(c core.Color) core.Color {
	return core.Color{
		R: float32(math.Sqrt(float64(remath.Clamp32(c.R, 0, 0.999)))),
		G: float32(math.Sqrt(float64(remath.Clamp32(c.G, 0, 0.999)))),
		B: float32(math.Sqrt(float64(remath.Clamp32(c.B, 0, 0.999)))),
	}
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
