package rt

import (
	"math"

	"pathtracer/core"
	remath "pathtracer/math"
)

// Camera is a thin-lens camera producing rays from normalized film
// coordinates (s, t) in [0,1]^2, with depth-of-field controlled by aperture
// and focus distance.
type Camera struct {
	origin           remath.Vec3
	bottomLeftCorner remath.Vec3
	horizontal       remath.Vec3
	vertical         remath.Vec3
	u, v, w          remath.Vec3
	lensRadius       float32
}

// NewCamera builds a camera from a look-at description. vertFovDeg is the
// vertical field of view in degrees; aperture and focusDist control the
// depth-of-field lens.
func NewCamera(lookFrom, lookTo, vup remath.Vec3, aspect, vertFovDeg, aperture, focusDist float32) Camera {
	theta := float64(vertFovDeg) * math.Pi / 180
	halfHeight := float32(math.Tan(theta / 2))
	viewportHeight := 2 * halfHeight
	viewportWidth := aspect * viewportHeight

	w := lookFrom.Sub(lookTo).Normalize()
	u := vup.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Mul(viewportWidth * focusDist)
	vertical := v.Mul(viewportHeight * focusDist)
	bottomLeftCorner := lookFrom.
		Sub(horizontal.Add(vertical).Div(2)).
		Sub(w.Mul(focusDist))

	return Camera{
		origin:           lookFrom,
		bottomLeftCorner: bottomLeftCorner,
		horizontal:       horizontal,
		vertical:         vertical,
		u:                u,
		v:                v,
		w:                w,
		lensRadius:       aperture / 2,
	}
}

// GetRay samples a ray through normalized film coordinates (s, t), jittering
// the origin over the lens disc for depth of field. The resulting ray is NOT
// normalized; intersection routines and BSDFs tolerate non-unit directions.
func (c Camera) GetRay(s, t float32, rng *RNG) core.Ray {
	rd := rng.InUnitDisc().Mul(c.lensRadius)
	offset := remath.Vec3{X: s * rd.X, Y: t * rd.Y, Z: 0}

	origin := c.origin.Add(offset)
	dir := c.bottomLeftCorner.
		Add(c.horizontal.Mul(s)).
		Add(c.vertical.Mul(t)).
		Sub(origin)

	return core.NewRay(origin, dir)
}
