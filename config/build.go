package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"pathtracer/core"
	pathio "pathtracer/io"
	remath "pathtracer/math"
	"pathtracer/rt"
)

// BuildScene constructs and prepares a Scene and Camera from cfg. Mesh files
// and textures are resolved relative to baseDir (typically the config file's
// own directory).
func BuildScene(cfg *RenderConfig, baseDir string) (*rt.Scene, rt.Camera, error) {
	var skybox *rt.Skybox
	if cfg.SkyboxDir != "" {
		sb, err := rt.LoadSkybox(resolve(baseDir, cfg.SkyboxDir))
		if err != nil {
			return nil, rt.Camera{}, fmt.Errorf("config: build scene: %w", err)
		}
		skybox = sb
	}

	scene := rt.NewScene(skybox)

	for i, sc := range cfg.Spheres {
		mat, err := buildMaterial(sc.Material, baseDir, skybox)
		if err != nil {
			return nil, rt.Camera{}, fmt.Errorf("config: sphere %d: %w", i, err)
		}
		center := toVec3(sc.Center)
		scene.AddObject(rt.NewSphere(center, sc.Radius), mat)
	}

	for i, mc := range cfg.Meshes {
		if err := addMesh(scene, mc, baseDir, skybox); err != nil {
			return nil, rt.Camera{}, fmt.Errorf("config: mesh %d (%s): %w", i, mc.Path, err)
		}
	}

	if err := scene.Prepare(); err != nil {
		return nil, rt.Camera{}, fmt.Errorf("config: build scene: %w", err)
	}

	aspect := float32(cfg.Width) / float32(cfg.Height)
	cam := rt.NewCamera(
		toVec3(cfg.Camera.LookFrom),
		toVec3(cfg.Camera.LookTo),
		toVec3(cfg.Camera.Up),
		aspect, cfg.Camera.VertFOV, cfg.Camera.Aperture, cfg.Camera.FocusDist,
	)

	return scene, cam, nil
}

func addMesh(scene *rt.Scene, mc MeshConfig, baseDir string, skybox *rt.Skybox) error {
	mat, err := buildMaterial(mc.Material, baseDir, skybox)
	if err != nil {
		return err
	}

	path := resolve(baseDir, mc.Path)
	format := mc.Format
	if format == "" {
		format = inferMeshFormat(path)
	}

	transform := meshTransform(mc)

	switch format {
	case "obj":
		mesh, err := pathio.LoadOBJ(path)
		if err != nil {
			return err
		}
		scene.AddTriangleMesh(*mesh, transform, mat)
	case "gltf", "glb":
		meshes, err := pathio.LoadGLTF(path)
		if err != nil {
			return err
		}
		for _, mesh := range meshes {
			scene.AddTriangleMesh(*mesh, transform, mat)
		}
	default:
		return fmt.Errorf("unknown mesh format %q", format)
	}
	return nil
}

func meshTransform(mc MeshConfig) core.Transform {
	t := core.NewTransform()
	t.Position = toVec3(mc.Position)
	if mc.Rotation != [4]float32{} {
		t.Rotation = remath.NewQuaternion(mc.Rotation[0], mc.Rotation[1], mc.Rotation[2], mc.Rotation[3])
	}
	if mc.Scale != [3]float32{} {
		t.Scale = toVec3(mc.Scale)
	}
	return t
}

func inferMeshFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return "obj"
	case ".gltf", ".glb":
		return "gltf"
	default:
		return ""
	}
}

func buildMaterial(mc MaterialConfig, baseDir string, skybox *rt.Skybox) (*rt.Material, error) {
	albedo, err := buildTexture(mc, baseDir)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(mc.Kind) {
	case "", "diffuse":
		return rt.NewDiffuse(albedo), nil
	case "metal":
		return rt.NewMetal(albedo, mc.Fuzz), nil
	case "dielectric":
		return rt.NewDielectric(albedo, mc.RefractiveIndex), nil
	case "diffuselight":
		return rt.NewDiffuseLight(albedo, mc.Brightness), nil
	case "skybox":
		return rt.NewSkyboxMaterial(skybox), nil
	case "disneydiffuse":
		return rt.NewDisneyDiffuse(albedo, mc.Subsurface, mc.Roughness), nil
	case "disneymetal":
		return rt.NewDisneyMetal(albedo, mc.Roughness, mc.Anisotropic), nil
	case "disneyclearcoat":
		return rt.NewDisneyClearcoat(mc.ClearcoatGloss), nil
	case "disneyglass":
		return okOrErr(rt.NewDisneyGlass(mc.RefractiveIndex, mc.Roughness))
	case "disneysheen":
		return okOrErr(rt.NewDisneySheen(mc.Roughness))
	default:
		return nil, fmt.Errorf("unknown material kind %q", mc.Kind)
	}
}

func okOrErr(m *rt.Material, err error) (*rt.Material, error) {
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return m, nil
}

func buildTexture(mc MaterialConfig, baseDir string) (*rt.Texture, error) {
	if mc.AlbedoTexture != "" {
		return rt.LoadTexture(resolve(baseDir, mc.AlbedoTexture))
	}
	return rt.NewSolidTexture(core.Color{R: mc.Albedo[0], G: mc.Albedo[1], B: mc.Albedo[2]}), nil
}

func toVec3(v [3]float32) remath.Vec3 {
	return remath.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
