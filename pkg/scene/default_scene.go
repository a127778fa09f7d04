package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/shape"
)

// NewDefaultScene creates a few shapes on a ground quad: a mirror sphere, a
// glossy sphere, a diffuse cylinder, a tesselated sphere and a bouncing sphere
// animated over [0, 1]
func NewDefaultScene() *Scene {
	s := NewScene()
	s.Camera = fovCamera(core.NewVec3(0, 0.75, 3), core.NewVec3(0, 0.5, -1), core.NewVec3(0, 1, 0), 40, 16.0/9.0)
	s.Camera.FocusAperture = 0.05

	sun := lights.NewPointLight(core.NewVec3(10, 15, 10))
	sun.Intensity = core.NewVec3(300, 280, 260)
	sky := lights.NewDirectionalLight()
	lights.LookAt(sky, core.NewVec3(0, 10, 0), core.Vec3{}, core.NewVec3(0, 0, 1))
	sky.Intensity = core.NewVec3(0.15, 0.2, 0.3)
	s.Lights = append(s.Lights, sun, sky)

	s.Add(quadSurface(core.Vec3{}, core.NewVec3(0, 1, 0), 100, 100, lambert(core.NewVec3(0.48, 0.48, 0))))

	mirror := material.NewPhong()
	mirror.Diffuse = core.Splat(0.05)
	mirror.Specular = core.Splat(0.8)
	mirror.Exponent = 500
	mirror.Reflection = core.Splat(0.8)

	glossy := material.NewPhong()
	glossy.Diffuse = core.NewVec3(0.8, 0.6, 0.2).Multiply(0.5)
	glossy.Specular = core.NewVec3(0.8, 0.6, 0.2)
	glossy.Exponent = 40
	glossy.Reflection = core.NewVec3(0.4, 0.3, 0.1)
	glossy.BlurSize = 0.15

	s.Add(
		NewSurface(shape.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5), mirror),
		NewSurface(shape.NewSphere(core.NewVec3(1, 0.5, -1), 0.5), glossy),
	)

	// cylinder axis is +Z locally, stood upright
	cylinder := NewTransformedSurface(shape.NewCylinder(0.25, 0.8), lambert(core.NewVec3(0.1, 0.2, 0.5)))
	cylinder.Translation = core.NewVec3(0, 0, -1.5)
	cylinder.RotationEuler = core.NewVec3(-math.Pi/2, 0, 0)
	s.Add(cylinder)

	tesselated := shape.NewSphere(core.NewVec3(0.5, 0.25, -0.4), 0.25)
	shape.Tesselate(tesselated, 2)
	s.Add(NewSurface(tesselated, lambert(core.NewVec3(0.65, 0.25, 0.2))))

	bouncing := NewTransformedSurface(shape.NewSphere(core.Vec3{}, 0.2), lambert(core.NewVec3(0.2, 0.7, 0.3)))
	bouncing.Translation = core.NewVec3(-0.5, 0.2, -0.4)
	bouncing.AnimTranslation = &KeyframedValue{
		Times:  []float64{0, 0.5, 1},
		Values: []core.Vec3{{}, {Y: 0.8}, {Y: 0.8}, {}},
		Degree: 1,
	}
	s.Add(bouncing)

	return s
}
