package rt

import (
	"fmt"
	"path/filepath"

	"pathtracer/core"
	pathio "pathtracer/io"
	remath "pathtracer/math"
)

// skyboxFace indexes the six faces of a cube skybox in the fixed order the
// folder loader expects them.
type skyboxFace int

const (
	faceXPos skyboxFace = iota
	faceXNeg
	faceYPos
	faceYNeg
	faceZPos
	faceZNeg
)

var skyboxFileNames = [6]string{
	faceXPos: "xpos.bmp",
	faceXNeg: "xneg.bmp",
	faceYPos: "ypos.bmp",
	faceYNeg: "yneg.bmp",
	faceZPos: "zpos.bmp",
	faceZNeg: "zneg.bmp",
}

// Skybox is a six-face cube environment map.
type Skybox struct {
	faces [6]*Texture
}

// LoadSkybox reads xpos/xneg/ypos/yneg/zpos/zneg.bmp from dir, decoding each
// face with the same hand-rolled BMP reader used for round-trip output
// fidelity (io.LoadBMP) rather than the generic image.Decode path. Any
// missing face aborts construction with an error, matching the strict
// all-or-nothing contract of the original folder format.
func LoadSkybox(dir string) (*Skybox, error) {
	var sb Skybox
	for face, name := range skyboxFileNames {
		w, h, pixels, err := pathio.LoadBMP(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("load skybox face %q: %w", name, err)
		}
		sb.faces[face] = newTextureFromPixels(w, h, pixels)
	}
	return &sb, nil
}

// ColorAt returns the skybox color in direction dir, selecting the face by
// dominant axis and projecting onto that face's (uc, vc) plane.
func (sb *Skybox) ColorAt(dir remath.Vec3) core.Color {
	if sb == nil {
		return core.ColorBlack
	}

	absX, absY, absZ := remath.Abs32(dir.X), remath.Abs32(dir.Y), remath.Abs32(dir.Z)

	var face skyboxFace
	var uc, vc, maxAxis float32

	switch {
	case absX >= absY && absX >= absZ:
		maxAxis = absX
		if dir.X > 0 {
			face, uc, vc = faceXPos, dir.Y, dir.Z
		} else {
			face, uc, vc = faceXNeg, -dir.Y, dir.Z
		}
	case absY >= absX && absY >= absZ:
		maxAxis = absY
		if dir.Y > 0 {
			face, uc, vc = faceYPos, -dir.X, dir.Z
		} else {
			face, uc, vc = faceYNeg, dir.X, dir.Z
		}
	default:
		maxAxis = absZ
		if dir.Z > 0 {
			face, uc, vc = faceZPos, -dir.X, -dir.Y
		} else {
			face, uc, vc = faceZNeg, -dir.X, dir.Y
		}
	}

	u, v := uc/maxAxis, vc/maxAxis

	return sb.faces[face].Sample((u+1)/2, (v+1)/2)
}
