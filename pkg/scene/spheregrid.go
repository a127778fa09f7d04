package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/shape"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewVec3(r, g, blue)
}

// NewSphereGridScene creates a grid of glossy spheres colored across hue and
// chroma, lit by a warm key light and a cool fill light
func NewSphereGridScene() *Scene {
	s := NewScene()
	s.Camera = fovCamera(core.NewVec3(4.5, 6, 18), core.NewVec3(4.5, 0.8, 4.5), core.NewVec3(0, 1, 0), 40, 16.0/9.0)

	key := lights.NewPointLight(core.NewVec3(20, 25, 20))
	key.Intensity = core.NewVec3(1200, 1150, 1000)
	fill := lights.NewDirectionalLight()
	lights.LookAt(fill, core.NewVec3(-10, 10, 10), core.NewVec3(4.5, 0, 4.5), core.NewVec3(0, 1, 0))
	fill.Intensity = core.NewVec3(0.2, 0.25, 0.35)
	s.Lights = append(s.Lights, key, fill)

	s.Add(quadSurface(core.NewVec3(4.5, 0, 4.5), core.NewVec3(0, 1, 0), 200, 200, lambert(core.Splat(0.5))))

	gridSize := 10
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	baseLightness := 0.65
	minChroma, maxChroma := 0.05, 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5

			// hue varies along x, chroma along z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			phong := material.NewPhong()
			phong.Diffuse = color.Multiply(0.6)
			phong.Specular = color.Multiply(0.4)
			phong.Exponent = 50
			phong.Reflection = color.Multiply(0.3)
			phong.BlurSize = 0.05 * float64((i+j)%3)

			s.Add(NewSurface(shape.NewSphere(core.NewVec3(x, sphereRadius, z), sphereRadius), phong))
		}
	}

	return s
}
