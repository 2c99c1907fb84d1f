// Package config loads the YAML render-config file the CLI entry point reads
// instead of hand-assembling a scene in code: output image size, sampling
// parameters, camera pose, skybox folder, and the list of meshes/spheres to
// populate the scene with.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RenderConfig is the root of a render-config YAML document.
// SamplesPerPixel, MaxBounces and Workers are decoded and defaulted by Load
// (32, 10, 16), but cmd/raytrace does not read them: it takes these three
// values from its positional arguments.
type RenderConfig struct {
	Width           int             `yaml:"width"`
	Height          int             `yaml:"height"`
	SamplesPerPixel int             `yaml:"samplesPerPixel"`
	MaxBounces      int             `yaml:"maxBounces"`
	Workers         int             `yaml:"workers"`
	Output          string          `yaml:"output"`
	SkyboxDir       string          `yaml:"skyboxDir"`
	Camera          CameraConfig    `yaml:"camera"`
	Spheres         []SphereConfig  `yaml:"spheres"`
	Meshes          []MeshConfig    `yaml:"meshes"`
}

// CameraConfig describes a thin-lens camera look-at pose.
type CameraConfig struct {
	LookFrom  [3]float32 `yaml:"lookFrom"`
	LookTo    [3]float32 `yaml:"lookTo"`
	Up        [3]float32 `yaml:"up"`
	VertFOV   float32    `yaml:"vertFov"`
	Aperture  float32    `yaml:"aperture"`
	FocusDist float32    `yaml:"focusDist"`
}

// SphereConfig places one sphere with a named material.
type SphereConfig struct {
	Center   [3]float32 `yaml:"center"`
	Radius   float32    `yaml:"radius"`
	Material MaterialConfig `yaml:"material"`
}

// MeshConfig loads and instances an OBJ or glTF mesh.
type MeshConfig struct {
	Path     string         `yaml:"path"`
	Format   string         `yaml:"format"` // "obj" or "gltf"; empty infers from extension
	Position [3]float32     `yaml:"position"`
	Rotation [4]float32     `yaml:"rotation"` // quaternion x,y,z,w; zero value defaults to identity
	Scale    [3]float32     `yaml:"scale"`    // zero value defaults to (1,1,1)
	Material MaterialConfig `yaml:"material"`
}

// MaterialConfig names a material kind and its parameters. Unused fields for
// a given kind are ignored.
type MaterialConfig struct {
	Kind            string     `yaml:"kind"`
	Albedo          [3]float32 `yaml:"albedo"`
	AlbedoTexture   string     `yaml:"albedoTexture"`
	Fuzz            float32    `yaml:"fuzz"`
	RefractiveIndex float32    `yaml:"refractiveIndex"`
	Brightness      float32    `yaml:"brightness"`
	Subsurface      float32    `yaml:"subsurface"`
	Roughness       float32    `yaml:"roughness"`
	Anisotropic     float32    `yaml:"anisotropic"`
	ClearcoatGloss  float32    `yaml:"clearcoatGloss"`
}

// Load reads and parses a render-config YAML document from path.
func Load(path string) (*RenderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %q: %w", path, err)
	}

	cfg := &RenderConfig{
		SamplesPerPixel: 32,
		MaxBounces:      10,
		Workers:         16,
		Output:          "out.bmp",
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("config: %q: width and height must be positive", path)
	}
	return cfg, nil
}
