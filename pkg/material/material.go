// Package material holds the surface reflectance models and their evaluation:
// BRDF times cosine, emission, diffuse albedo and mirror or glossy reflection
// sampling.
package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Material is implemented only by *Lambert, *Phong and *LambertEmission
type Material interface {
	material()
}

// Lambert is a perfectly diffuse surface
type Lambert struct {
	Diffuse        core.Vec3
	DiffuseTexture *ImageTexture
}

// NewLambert creates a Lambert material with the default diffuse color
func NewLambert() *Lambert {
	return &Lambert{Diffuse: core.Splat(0.75)}
}

func (*Lambert) material() {}

// Phong is a diffuse plus specular lobe with optional mirror reflection
type Phong struct {
	Diffuse        core.Vec3
	Specular       core.Vec3
	Exponent       float64
	Reflection     core.Vec3
	BlurSize       float64 // side of the square that perturbs reflected rays
	UseReflected   bool    // lobe around the mirror direction instead of the half vector
	DiffuseTexture *ImageTexture
}

// NewPhong creates a Phong material with the default coefficients
func NewPhong() *Phong {
	return &Phong{
		Diffuse:  core.Splat(0.75),
		Specular: core.Splat(0.25),
		Exponent: 10,
	}
}

func (*Phong) material() {}

// LambertEmission is a diffuse surface that also emits light on its front side
type LambertEmission struct {
	Emission       core.Vec3
	Diffuse        core.Vec3
	DiffuseTexture *ImageTexture
}

// NewLambertEmission creates an emitter with unit emission and diffuse color
func NewLambertEmission() *LambertEmission {
	return &LambertEmission{Emission: core.Splat(1), Diffuse: core.Splat(1)}
}

func (*LambertEmission) material() {}
