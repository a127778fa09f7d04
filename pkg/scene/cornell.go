package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/shape"
)

// fovCamera creates a camera looking from eye to center with a vertical field
// of view in degrees and the given aspect ratio
func fovCamera(eye, center, up core.Vec3, vfov, aspect float64) *Camera {
	c := NewCamera()
	c.LookAt(eye, center, up)
	c.ImageHeight = 2 * math.Tan(vfov*math.Pi/360) * c.ImageDist
	c.ImageWidth = c.ImageHeight * aspect
	c.FocusDist = c.ViewDist
	return c
}

// quadSurface places a width x height quad centered at center facing normal
func quadSurface(center, normal core.Vec3, width, height float64, m material.Material) *Surface {
	s := NewSurface(shape.NewQuad(width, height), m)
	s.Frame = core.FrameFromZ(center, normal)
	return s
}

func lambert(diffuse core.Vec3) *material.Lambert {
	m := material.NewLambert()
	m.Diffuse = diffuse
	return m
}

// NewCornellScene creates a classic Cornell box with quad walls, an area light
// in the ceiling, a mirror sphere and a diffuse sphere
func NewCornellScene() *Scene {
	s := NewScene()
	s.Camera = fovCamera(core.NewVec3(278, 278, -800), core.NewVec3(278, 278, 0), core.NewVec3(0, 1, 0), 40, 1)

	white := lambert(core.NewVec3(0.73, 0.73, 0.73))
	red := lambert(core.NewVec3(0.65, 0.05, 0.05))
	green := lambert(core.NewVec3(0.12, 0.45, 0.15))

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0
	half := boxSize / 2

	s.Add(
		quadSurface(core.NewVec3(half, 0, half), core.NewVec3(0, 1, 0), boxSize, boxSize, white),        // floor
		quadSurface(core.NewVec3(half, boxSize, half), core.NewVec3(0, -1, 0), boxSize, boxSize, white), // ceiling
		quadSurface(core.NewVec3(half, half, boxSize), core.NewVec3(0, 0, -1), boxSize, boxSize, white), // back wall
		quadSurface(core.NewVec3(0, half, half), core.NewVec3(1, 0, 0), boxSize, boxSize, red),          // left wall
		quadSurface(core.NewVec3(boxSize, half, half), core.NewVec3(-1, 0, 0), boxSize, boxSize, green), // right wall
	)

	// visible light panel just under the ceiling, behind the area light
	lightSize := 130.0
	emitter := material.NewLambertEmission()
	emitter.Emission = core.Splat(15)
	s.Add(quadSurface(core.NewVec3(half, boxSize-0.5, half), core.NewVec3(0, -1, 0), lightSize, lightSize, emitter))

	area := lights.NewAreaLight()
	area.Shape = shape.NewQuad(lightSize, lightSize)
	area.Intensity = core.Splat(15)
	lights.LookAt(area, core.NewVec3(half, boxSize-1, half), core.NewVec3(half, 0, half), core.NewVec3(0, 0, 1))
	s.Lights = append(s.Lights, area)

	mirror := material.NewPhong()
	mirror.Diffuse = core.NewVec3(0.1, 0.1, 0.1)
	mirror.Specular = core.NewVec3(0.8, 0.8, 0.9)
	mirror.Exponent = 200
	mirror.Reflection = core.NewVec3(0.8, 0.8, 0.9)

	s.Add(
		NewSurface(shape.NewSphere(core.NewVec3(185, 82.5, 169), 82.5), mirror),
		NewSurface(shape.NewSphere(core.NewVec3(370, 90, 351), 90), lambert(core.NewVec3(0.73, 0.73, 0.73))),
	)

	return s
}
