package loaders

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/pkg/shape"
	"github.com/stretchr/testify/require"
)

const testSceneJSON = `{
	"_type": "Scene",
	"name": "Test Scene",
	"camera": {
		"_type": "Camera",
		"frame": {"o": [0, 0, 5], "x": [1, 0, 0], "y": [0, 1, 0], "z": [0, 0, 1]},
		"image_width": 2,
		"image_height": 1,
		"focus_dist": 5
	},
	"lights": {
		"_type": "LightGroup",
		"lights": [
			{"_type": "PointLight", "_id": 1, "frame": {"o": [0, 10, 0]}, "intensity": [100, 100, 100]},
			{"_type": "AreaLight", "shape": {"_type": "Quad", "width": 2, "height": 3}, "shadow_samples": 4}
		]
	},
	"prims": {
		"_type": "PrimitiveGroup",
		"intersect_accelerator_use": false,
		"prims": [
			{
				"_type": "Surface",
				"material": {"_type": "Lambert", "_id": 10, "diffuse": [0.5, 0.25, 1]},
				"shape": {"_type": "Sphere", "radius": 1}
			},
			{
				"_type": "Surface",
				"frame": {"o": [0, -1, 0], "x": [1, 0, 0], "y": [0, 0, -1], "z": [0, 1, 0]},
				"material": {"_ref": 10},
				"shape": {
					"_type": "Mesh",
					"intersect_accelerator_use": false,
					"pos": [-10, -10, 0, 10, -10, 0, 10, 10, 0, -10, 10, 0, 0, 0, 1],
					"triangle": [0, 1, 4],
					"quad": [0, 1, 2, 3]
				}
			},
			{
				"_type": "TransformedSurface",
				"material": {"_type": "Phong", "exponent": 50, "reflection": [0.5, 0.5, 0.5], "use_reflected": true},
				"shape": {"_type": "Cylinder", "radius": 0.5, "height": 2},
				"translation": [3, 0, 0],
				"anim_translation": {"_type": "KeyframedValue", "times": [0, 1], "values": [0, 0, 0, 0, 2, 0]}
			}
		]
	},
	"raytrace_opts": {"_type": "RaytraceOptions", "res": 64, "samples": 9, "shadows": false},
	"distribution_opts": {
		"_type": "DistributionRaytraceOptions",
		"res": 32,
		"DOF": true,
		"disk": true,
		"samples_ambient": 4,
		"samples_reflect": 2,
		"cameralights": true,
		"cameralights_dir": [0, 0, -1],
		"cameralights_col": [1, 1, 1]
	}
}`

func TestReadScene(t *testing.T) {
	f, err := ReadScene([]byte(testSceneJSON), t.TempDir())
	require.NoError(t, err)
	s := f.Scene

	require.Equal(t, core.NewVec3(0, 0, 5), s.Camera.Frame.O)
	require.Equal(t, 2.0, s.Camera.ImageWidth)
	require.Equal(t, 1.0, s.Camera.ImageDist, "missing members keep their defaults")

	require.Len(t, s.Lights, 2)
	point, ok := s.Lights[0].(*lights.PointLight)
	require.True(t, ok)
	require.Equal(t, core.NewVec3(0, 10, 0), point.Frame.O)
	require.Equal(t, core.Splat(100), point.Intensity)
	area, ok := s.Lights[1].(*lights.AreaLight)
	require.True(t, ok)
	require.Equal(t, 3.0, area.Shape.Height)
	require.Equal(t, 4, area.ShadowSamples)

	require.False(t, s.Prims.AcceleratorUse)
	require.Len(t, s.Prims.Prims, 3)
	sphere := s.Prims.Prims[0].(*scene.Surface)
	ground := s.Prims.Prims[1].(*scene.Surface)
	require.Same(t, sphere.Material, ground.Material, "_ref shares the object")
	require.Equal(t, core.NewVec3(0.5, 0.25, 1), sphere.Material.(*material.Lambert).Diffuse)

	mesh, ok := ground.Shape.(*shape.Mesh)
	require.True(t, ok)
	require.False(t, mesh.AcceleratorUse)
	require.Len(t, mesh.Pos, 5)
	require.Equal(t, [][3]int{{0, 1, 4}}, mesh.Triangle)
	require.Equal(t, [][4]int{{0, 1, 2, 3}}, mesh.Quad)
	require.Equal(t, 3, shape.ElementCount(mesh))

	moving := s.Prims.Prims[2].(*scene.TransformedSurface)
	require.True(t, moving.Animated())
	require.Equal(t, core.NewVec3(0, 2, 0), moving.AnimTranslation.Values[1])
	require.Equal(t, 1, moving.AnimTranslation.Degree)
	phong := moving.Material.(*material.Phong)
	require.True(t, phong.UseReflected)
	require.Equal(t, core.Splat(0.25), phong.Specular)

	require.NotNil(t, f.Raytrace)
	require.Equal(t, 64, f.Raytrace.Res)
	require.Equal(t, 9, f.Raytrace.Samples)
	require.False(t, f.Raytrace.Shadows)
	require.True(t, f.Raytrace.Reflections)
	require.NotNil(t, f.Raytrace.Rng)

	require.NotNil(t, f.Distribution)
	require.Equal(t, 32, f.Distribution.Res)
	require.True(t, f.Distribution.DOF)
	require.True(t, f.Distribution.Disk)
	require.Equal(t, 4, f.Distribution.SamplesAmbient)
	require.Equal(t, 2, f.Distribution.SamplesReflect)
	require.Equal(t, []core.Vec3{core.NewVec3(0, 0, -1)}, f.Distribution.CameraLightsDir)
}

func TestReadScene_Traceable(t *testing.T) {
	f, err := ReadScene([]byte(testSceneJSON), t.TempDir())
	require.NoError(t, err)

	opts := *f.Raytrace
	renderer.PrepareScene(f.Scene, &opts)

	ray := f.Scene.Camera.Ray(core.NewVec2(0.5, 0.5))
	hit, ok := f.Scene.IntersectFirst(ray)
	require.True(t, ok)
	require.InDelta(t, 4.0, hit.T, 1e-9)

	// straight down from above the sphere's side hits the ground quad
	hit, ok = f.Scene.IntersectFirst(core.NewRay(core.NewVec3(-5, 5, -5), core.NewVec3(0, -1, 0)))
	require.True(t, ok)
	require.InDelta(t, 6.0, hit.T, 1e-9)
}

func TestReadScene_Untyped(t *testing.T) {
	f, err := ReadScene([]byte(`{"prims": {"_type": "PrimitiveGroup", "prims": []}}`), t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, f.Scene.Camera)
	require.Empty(t, f.Scene.Prims.Prims)
	require.Empty(t, f.Scene.Lights)
	require.Nil(t, f.Raytrace)
	require.Nil(t, f.Distribution)
}

func TestLoadScene_IncludesAndFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "parts")
	require.NoError(t, os.Mkdir(sub, 0o755))

	require.NoError(t, WriteImage(filepath.Join(sub, "checker.png"), testImage()))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "square.ply"), binaryPLY(t, binary.LittleEndian, true), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "material.json"), []byte(`{
		"_type": "Lambert",
		"diffuse_texture": {"_type": "Texture", "filename": "checker.png", "flipy": false}
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.json"), []byte(`{
		"_type": "Scene",
		"prims": {"_type": "PrimitiveGroup", "prims": [
			{"_type": "Surface", "material": {"_include": "parts/material.json"}, "shape": {"_type": "PlyMesh", "filename": "parts/square.ply"}}
		]}
	}`), 0o644))

	f, err := LoadScene(filepath.Join(dir, "scene.json"))
	require.NoError(t, err)
	require.Nil(t, f.Raytrace)

	surface := f.Scene.Prims.Prims[0].(*scene.Surface)
	lambert := surface.Material.(*material.Lambert)
	require.NotNil(t, lambert.DiffuseTexture)
	require.Equal(t, filepath.Join(sub, "checker.png"), lambert.DiffuseTexture.Filename)
	require.Equal(t, core.NewVec3(1, 1, 1), lambert.DiffuseTexture.Lookup(core.NewVec2(0.25, 0.25)))

	mesh := surface.Shape.(*shape.Mesh)
	require.Len(t, mesh.Triangle, 2)
	require.Len(t, mesh.Norm, 4)
}

func TestReadScene_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"_type": "Scene"`},
		{"not an object", `[1, 2, 3]`},
		{"not a scene", `{"_type": "Sphere"}`},
		{"unknown type", `{"prims": {"_type": "Octree"}}`},
		{"missing type", `{"camera": {"image_width": 2}}`},
		{"unknown reference", `{"camera": {"_ref": 4}}`},
		{"wrong kind", `{"camera": {"_type": "Lambert"}}`},
		{"bad vector", `{"camera": {"_type": "Camera", "frame": {"o": [1, 2]}}}`},
		{"bad member type", `{"camera": {"_type": "Camera", "image_width": "wide"}}`},
		{"missing include", `{"camera": {"_include": "missing.json"}}`},
		{"missing texture", `{"prims": {"_type": "PrimitiveGroup", "prims": [
			{"_type": "Surface", "shape": {"_type": "Sphere"},
			 "material": {"_type": "Lambert", "diffuse_texture": {"_type": "Texture", "filename": "missing.png"}}}]}}`},
		{"no material", `{"prims": {"_type": "PrimitiveGroup", "prims": [{"_type": "Surface", "shape": {"_type": "Sphere"}}]}}`},
		{"ragged triangles", `{"prims": {"_type": "PrimitiveGroup", "prims": [{"_type": "Surface", "material": {"_type": "Lambert"},
			"shape": {"_type": "TriangleMesh", "pos": [0, 0, 0, 1, 0, 0, 0, 1, 0], "triangle": [0, 1]}}]}}`},
		{"index out of range", `{"prims": {"_type": "PrimitiveGroup", "prims": [{"_type": "Surface", "material": {"_type": "Lambert"},
			"shape": {"_type": "TriangleMesh", "pos": [0, 0, 0, 1, 0, 0, 0, 1, 0], "triangle": [0, 1, 3]}}]}}`},
		{"radius count", `{"prims": {"_type": "PrimitiveGroup", "prims": [{"_type": "Surface", "material": {"_type": "Lambert"},
			"shape": {"_type": "PointSet", "pos": [0, 0, 0, 1, 0, 0], "radius": [0.1]}}]}}`},
		{"keyframe values", animatedSphere(`{"_type": "KeyframedValue", "degree": 3, "times": [0, 1], "values": [0, 0, 0, 1, 0, 0]}`)},
		{"keyframe single time", animatedSphere(`{"_type": "KeyframedValue", "times": [0], "values": [0, 0, 0, 1, 0, 0]}`)},
		{"keyframe negative degree", animatedSphere(`{"_type": "KeyframedValue", "degree": -1, "times": [0, 1], "values": []}`)},
		{"keyframe times decrease", animatedSphere(`{"_type": "KeyframedValue", "times": [1, 0], "values": [0, 0, 0, 1, 0, 0]}`)},
		{"zero samples", `{"raytrace_opts": {"_type": "RaytraceOptions", "samples": 0}}`},
		{"camera light mismatch", `{"raytrace_opts": {"_type": "RaytraceOptions", "cameralights_dir": [0, 0, -1]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadScene([]byte(tt.input), t.TempDir())
			require.Error(t, err)
			require.Equal(t, ErrTypeInvalidScene, errors.Type(err))
		})
	}
}

func animatedSphere(keyframes string) string {
	return `{"prims": {"_type": "PrimitiveGroup", "prims": [{"_type": "TransformedSurface",
		"material": {"_type": "Lambert"}, "shape": {"_type": "Sphere"}, "anim_translation": ` + keyframes + `}]}}`
}

func TestLoadScene_NotFound(t *testing.T) {
	_, err := LoadScene(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
