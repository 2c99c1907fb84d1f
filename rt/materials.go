package rt

import (
	"fmt"
	"math"

	"pathtracer/core"
	remath "pathtracer/math"
)

const pi32 float32 = math.Pi

// materialKind discriminates the tagged-union Material type. The three
// Disney* kinds following kindDisneyClearcoat are recognized constants but have
// no working constructor — see NewDisneyGlass, NewDisneySheen, NewDisneyBSDF.
type materialKind int

const (
	kindDiffuse materialKind = iota
	kindMetal
	kindDielectric
	kindDiffuseLight
	kindSkybox
	kindDisneyDiffuse
	kindDisneyMetal
	kindDisneyClearcoat
	kindDisneyGlass
	kindDisneySheen
	kindDisneyBSDF
)

// Material is a tagged variant over the scattering models named in
// spec.md §4.4. It is immutable once constructed and shared by every Object
// that references it.
type Material struct {
	kind materialKind

	albedo          *Texture
	fuzz            float32
	refractiveIndex float32
	brightness      float32
	skybox          *Skybox

	subsurface     float32
	roughness      float32
	anisotropic    float32
	clearcoatGloss float32
}

func NewDiffuse(albedo *Texture) *Material {
	return &Material{kind: kindDiffuse, albedo: albedo}
}

func NewMetal(albedo *Texture, fuzz float32) *Material {
	return &Material{kind: kindMetal, albedo: albedo, fuzz: remath.Clamp32(fuzz, 0, 1)}
}

func NewDielectric(albedo *Texture, refractiveIndex float32) *Material {
	return &Material{kind: kindDielectric, albedo: albedo, refractiveIndex: refractiveIndex}
}

func NewDiffuseLight(albedo *Texture, brightness float32) *Material {
	return &Material{kind: kindDiffuseLight, albedo: albedo, brightness: brightness}
}

func NewSkyboxMaterial(sb *Skybox) *Material {
	return &Material{kind: kindSkybox, skybox: sb}
}

func NewDisneyDiffuse(albedo *Texture, subsurface, roughness float32) *Material {
	return &Material{kind: kindDisneyDiffuse, albedo: albedo, subsurface: subsurface, roughness: roughness}
}

func NewDisneyMetal(albedo *Texture, roughness, anisotropic float32) *Material {
	return &Material{kind: kindDisneyMetal, albedo: albedo, roughness: roughness, anisotropic: anisotropic}
}

func NewDisneyClearcoat(gloss float32) *Material {
	return &Material{kind: kindDisneyClearcoat, clearcoatGloss: gloss}
}

// NewDisneyGlass always fails: the reference material layer declares
// MATERIAL_DISNEY_GLASS and a Bounce signature for it but never implements
// the bounce function, so there is no scattering law to port. Rejected at
// scene-build time rather than silently falling through to a default bounce.
func NewDisneyGlass(float32, float32) (*Material, error) {
	return nil, fmt.Errorf("disney glass: material kind is declared but unimplemented in the reference renderer")
}

// NewDisneySheen always fails, for the same reason as NewDisneyGlass.
func NewDisneySheen(float32) (*Material, error) {
	return nil, fmt.Errorf("disney sheen: material kind is declared but unimplemented in the reference renderer")
}

// NewDisneyBSDF always fails: the composite BSDF that blends metal, sheen,
// clearcoat, and specular lobes by weight has a declared Bounce signature
// but, like glass and sheen, no implementation to ground a port on.
func NewDisneyBSDF(*Texture, float32, float32, float32, float32, float32, float32, float32, float32) (*Material, error) {
	return nil, fmt.Errorf("disney bsdf: material kind is declared but unimplemented in the reference renderer")
}

// Bounce implements the shared bounce contract: scattered reports whether
// the path continues; the caller composes
// emitted + surface ⊗ recurse(rayOut) when scattered, else just emitted.
func Bounce(m *Material, rayIn core.Ray, hit core.HitInfo, rng *RNG) (scattered bool, surface, emitted core.Color, rayOut core.Ray) {
	switch m.kind {
	case kindDiffuse:
		return bounceDiffuse(m, hit, rng)
	case kindMetal:
		return bounceMetal(m, rayIn, hit, rng)
	case kindDielectric:
		return bounceDielectric(m, rayIn, hit, rng)
	case kindDiffuseLight:
		return bounceDiffuseLight(m, hit)
	case kindSkybox:
		return bounceSkybox(m, rayIn, hit, rng)
	case kindDisneyDiffuse:
		return bounceDisneyDiffuse(m, rayIn, hit, rng)
	case kindDisneyMetal:
		return bounceDisneyMetal(m, rayIn, hit, rng)
	case kindDisneyClearcoat:
		return bounceDisneyClearcoat(m, rayIn, hit, rng)
	default:
		panic(fmt.Sprintf("rt: material kind %d has no bounce implementation", m.kind))
	}
}

// scatterOrFallback returns unitNormal + a random sphere sample, falling
// back to unitNormal itself when the sampled direction is degenerate.
func scatterOrFallback(unitNormal remath.Vec3, rng *RNG) remath.Vec3 {
	dir := unitNormal.Add(rng.OnUnitSphere())
	if dir.NearZero(1e-8) {
		return unitNormal
	}
	return dir
}

func bounceDiffuse(m *Material, hit core.HitInfo, rng *RNG) (bool, core.Color, core.Color, core.Ray) {
	dir := scatterOrFallback(hit.UnitNormal, rng)
	rayOut := core.NewRay(hit.Position, dir)
	return true, m.albedo.Sample(hit.UV.X, hit.UV.Y), core.ColorBlack, rayOut
}

func bounceMetal(m *Material, rayIn core.Ray, hit core.HitInfo, rng *RNG) (bool, core.Color, core.Color, core.Ray) {
	reflected := rayIn.Dir.Normalize().Reflect(hit.UnitNormal)
	dir := reflected.Add(rng.OnUnitSphere().Mul(m.fuzz))
	rayOut := core.NewRay(hit.Position, dir)
	scattered := dir.Dot(hit.UnitNormal) > 0
	return scattered, m.albedo.Sample(hit.UV.X, hit.UV.Y), core.ColorBlack, rayOut
}

// schlickReflectance is the Fresnel-Schlick approximation used by the
// dielectric bounce: r0 + (1-r0)(1-cosine)^5.
func schlickReflectance(cosine, refractiveIndex float32) float32 {
	r0 := (1 - refractiveIndex) / (1 + refractiveIndex)
	r0 *= r0
	return r0 + (1-r0)*remath.Pow32(1-cosine, 5)
}

func bounceDielectric(m *Material, rayIn core.Ray, hit core.HitInfo, rng *RNG) (bool, core.Color, core.Color, core.Ray) {
	eta := m.refractiveIndex
	if hit.FrontFace {
		eta = 1.0 / m.refractiveIndex
	}

	unitDir := rayIn.Dir.Normalize()
	cosTheta := remath.Min32(-unitDir.Dot(hit.UnitNormal), 1.0)
	sinTheta := float32(math.Sqrt(float64(1 - cosTheta*cosTheta)))

	cannotRefract := eta*sinTheta > 1.0
	var dir remath.Vec3
	if cannotRefract || schlickReflectance(cosTheta, eta) > rng.Float() {
		dir = unitDir.Reflect(hit.UnitNormal)
	} else {
		dir = unitDir.Refract(hit.UnitNormal, eta)
	}

	rayOut := core.NewRay(hit.Position, dir)
	return true, m.albedo.Sample(hit.UV.X, hit.UV.Y), core.ColorBlack, rayOut
}

func bounceDiffuseLight(m *Material, hit core.HitInfo) (bool, core.Color, core.Color, core.Ray) {
	emitted := m.albedo.Sample(hit.UV.X, hit.UV.Y).Mul(m.brightness)
	return false, core.ColorBlack, emitted, core.Ray{}
}

func bounceSkybox(m *Material, rayIn core.Ray, hit core.HitInfo, rng *RNG) (bool, core.Color, core.Color, core.Ray) {
	dir := scatterOrFallback(hit.UnitNormal, rng)
	rayOut := core.NewRay(hit.Position, dir)
	return true, m.skybox.ColorAt(rayIn.Dir), core.ColorBlack, rayOut
}

// halfVector returns normalize(wIn + wOut), shared by the Disney diffuse
// Fresnel terms.
func halfVector(wIn, wOut remath.Vec3) remath.Vec3 {
	return wIn.Add(wOut).Normalize()
}

func bounceDisneyDiffuse(m *Material, rayIn core.Ray, hit core.HitInfo, rng *RNG) (bool, core.Color, core.Color, core.Ray) {
	n := hit.UnitNormal
	wIn := rayIn.Dir.Normalize().Negate()
	wOut := rng.CosineHemisphere(n)
	h := halfVector(wIn, wOut)

	fD90 := 0.5 + 2*m.roughness*h.Dot(wOut)*h.Dot(wOut)
	fD := func(w remath.Vec3) float32 {
		return 1 + (fD90-1)*remath.Pow32(1-remath.Abs32(n.Dot(w)), 5)
	}
	baseDiffuse := m.albedo.Sample(hit.UV.X, hit.UV.Y).Mul((1 / pi32) * fD(wIn) * fD(wOut))

	fSS90 := m.roughness * h.Dot(wOut) * h.Dot(wOut)
	fSS := func(w remath.Vec3) float32 {
		return 1 + (fSS90-1)*remath.Pow32(1-remath.Abs32(n.Dot(w)), 5)
	}
	subsurfaceTerm := fSS(wIn)*fSS(wOut)*(1/(remath.Abs32(n.Dot(wIn))+remath.Abs32(n.Dot(wOut)))-0.5) + 0.5
	subsurfaceLobe := m.albedo.Sample(hit.UV.X, hit.UV.Y).Mul((1.25 / pi32) * subsurfaceTerm)

	brdfDiffuse := lerpColor(baseDiffuse, subsurfaceLobe, m.subsurface)
	// invPdf = pi cancels the cosine term omitted from the BRDF above.
	surface := brdfDiffuse.Mul(pi32)

	rayOut := core.NewRay(hit.Position, wOut)
	return true, surface, core.ColorBlack, rayOut
}

func lerpColor(a, b core.Color, t float32) core.Color {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// ggxLambda is the Smith masking auxiliary function shared by G1 and G2.
func ggxLambda(w remath.Vec3, aX, aY float32) float32 {
	t := ((w.X*aX)*(w.X*aX) + (w.Y*aY)*(w.Y*aY)) / (w.Z * w.Z)
	return (float32(math.Sqrt(float64(1+t))) - 1) / 2
}

func ggxG1(w remath.Vec3, aX, aY float32) float32 {
	return 1 / (1 + ggxLambda(w, aX, aY))
}

func ggxG2(wIn, wOut remath.Vec3, aX, aY float32) float32 {
	if wIn.Z <= 0 || wOut.Z <= 0 {
		return 0
	}
	return 1 / (1 + ggxLambda(wIn, aX, aY) + ggxLambda(wOut, aX, aY))
}

// fresnelSchlickChromatic is the vector Fresnel-Schlick term used by the
// Disney metal lobe, with the metal's own albedo standing in for r0.
func fresnelSchlickChromatic(r0 core.Color, cosTheta float32) core.Color {
	factor := remath.Pow32(1-cosTheta, 5)
	return r0.Add(core.ColorWhite.Sub(r0).Mul(factor))
}

// sampleGGXVNDF draws a visible micronormal from the anisotropic GGX
// distribution, following Heitz 2018 ("Sampling the GGX Distribution of
// Visible Normals").
func sampleGGXVNDF(wIn remath.Vec3, aX, aY, u1, u2 float32) remath.Vec3 {
	// Section 3.2: transform the view direction into the hemisphere
	// configuration.
	vh := remath.Vec3{X: aX * wIn.X, Y: aY * wIn.Y, Z: wIn.Z}.Normalize()

	// Section 4.1: build an orthonormal basis, with a special case to avoid
	// a degenerate basis when vh is near the pole.
	lenSq := vh.X*vh.X + vh.Y*vh.Y
	var t1 remath.Vec3
	if lenSq > 0 {
		inv := 1 / float32(math.Sqrt(float64(lenSq)))
		t1 = remath.Vec3{X: -vh.Y * inv, Y: vh.X * inv, Z: 0}
	} else {
		t1 = remath.Vec3{X: 1, Y: 0, Z: 0}
	}
	t2 := vh.Cross(t1)

	// Section 4.2: parameterize the projected area.
	r := float32(math.Sqrt(float64(u1)))
	phi := 2 * pi32 * u2
	p1 := r * float32(math.Cos(float64(phi)))
	p2f := r * float32(math.Sin(float64(phi)))
	s := 0.5 * (1 + vh.Z)
	p2 := (1-s)*float32(math.Sqrt(float64(1-p1*p1))) + s*p2f

	// Section 4.3: reproject onto the hemisphere.
	nh := t1.Mul(p1).Add(t2.Mul(p2)).Add(vh.Mul(float32(math.Sqrt(float64(remath.Max32(0, 1-p1*p1-p2*p2))))))

	// Section 3.4: transform back to the ellipsoid configuration.
	return remath.Vec3{X: aX * nh.X, Y: aY * nh.Y, Z: remath.Max32(0, nh.Z)}.Normalize()
}

func bounceDisneyMetal(m *Material, rayIn core.Ray, hit core.HitInfo, rng *RNG) (bool, core.Color, core.Color, core.Ray) {
	aspect := float32(math.Sqrt(float64(1 - 0.9*m.anisotropic)))
	const aMin = 0.0001
	aX := remath.Max32(aMin, m.roughness*m.roughness/aspect)
	aY := remath.Max32(aMin, m.roughness*m.roughness*aspect)

	frame := shadingFrame(hit.UnitNormal)
	wIn := remath.ToLocal(rayIn.Dir.Normalize().Negate(), frame)
	if wIn.Z <= 0 {
		return false, core.ColorBlack, core.ColorBlack, core.Ray{}
	}

	wm := sampleGGXVNDF(wIn, aX, aY, rng.Float(), rng.Float())
	wOut := wIn.Negate().Reflect(wm)

	surface := fresnelSchlickChromatic(m.albedo.Sample(hit.UV.X, hit.UV.Y), wOut.Dot(wm)).
		Mul(ggxG2(wIn, wOut, aX, aY) / ggxG1(wIn, aX, aY))

	scattered := wOut.Z > 0
	rayOut := core.NewRay(hit.Position, remath.Reorient(wOut, frame))
	return scattered, surface, core.ColorBlack, rayOut
}

// gtr1D evaluates the GTR1 ("generalized Trowbridge-Reitz", γ=1) normal
// distribution the clearcoat lobe uses.
func gtr1D(wm remath.Vec3, aG float32) float32 {
	aG2 := aG * aG
	return (aG2 - 1) / (pi32 * float32(math.Log(float64(aG2))) * (1 + (aG2-1)*wm.Z*wm.Z))
}

// clearcoatFixedRoughness is the fixed isotropic roughness (0.25) used by the
// clearcoat lobe's Smith masking term, independent of the gloss parameter
// that drives gtr1D.
const clearcoatFixedRoughness = 0.25

func bounceDisneyClearcoat(m *Material, rayIn core.Ray, hit core.HitInfo, rng *RNG) (bool, core.Color, core.Color, core.Ray) {
	aG := (1-m.clearcoatGloss)*0.1 + m.clearcoatGloss*0.001

	frame := shadingFrame(hit.UnitNormal)
	wIn := remath.ToLocal(rayIn.Dir.Normalize().Negate(), frame)
	if wIn.Z <= 0 {
		return false, core.ColorBlack, core.ColorBlack, core.Ray{}
	}

	u0, u1 := rng.Float(), rng.Float()
	aG2 := aG * aG
	cosElev := float32(math.Sqrt(float64((1 - remath.Pow32(aG2, 1-u0)) / (1 - aG2))))
	sinElev := float32(math.Sqrt(float64(remath.Max32(0, 1-cosElev*cosElev))))
	azimuth := 2 * pi32 * u1
	wm := remath.Vec3{
		X: sinElev * float32(math.Cos(float64(azimuth))),
		Y: sinElev * float32(math.Sin(float64(azimuth))),
		Z: cosElev,
	}

	wOut := wIn.Negate().Reflect(wm)
	scattered := wOut.Z > 0

	const eta = 1.5
	r0 := (eta - 1) * (eta - 1) / ((eta + 1) * (eta + 1))
	fc := r0 + (1-r0)*remath.Pow32(1-remath.Abs32(wm.Dot(wOut)), 5)

	dc := gtr1D(wm, aG)
	g2 := clearcoatG2(wIn, wOut)

	brdf := fc * dc * g2 / (4 * remath.Abs32(wIn.Z))
	pdf := dc * remath.Abs32(wm.Z) / (4 * remath.Abs32(wm.Dot(wOut)))

	weight := brdf / pdf
	rayOut := core.NewRay(hit.Position, remath.Reorient(wOut, frame))
	return scattered, core.Gray(weight), core.ColorBlack, rayOut
}

func clearcoatLambda(w remath.Vec3) float32 {
	const a = clearcoatFixedRoughness
	t := ((w.X*a)*(w.X*a) + (w.Y*a)*(w.Y*a)) / (w.Z * w.Z)
	return (float32(math.Sqrt(float64(1+t))) - 1) / 2
}

func clearcoatG2(wIn, wOut remath.Vec3) float32 {
	if wIn.Z <= 0 || wOut.Z <= 0 {
		return 0
	}
	return 1 / (1 + clearcoatLambda(wIn) + clearcoatLambda(wOut))
}
