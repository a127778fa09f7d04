// Package lights defines the light sources of a scene and how a shading point
// samples them for direct illumination.
package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/shape"
)

type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
	LightTypeArea        LightType = "area"
	LightTypeEnv         LightType = "env"
)

// Light is implemented only by *PointLight, *DirectionalLight, *AreaLight and *EnvLight
type Light interface {
	Type() LightType
	frame() *core.Frame
}

// PointLight emits Intensity from the origin of its frame
type PointLight struct {
	Frame     core.Frame
	Intensity core.Vec3
}

// NewPointLight creates a unit point light at position
func NewPointLight(position core.Vec3) *PointLight {
	f := core.IdentityFrame()
	f.O = position
	return &PointLight{Frame: f, Intensity: core.Splat(1)}
}

func (l *PointLight) Type() LightType { return LightTypePoint }
func (l *PointLight) frame() *core.Frame { return &l.Frame }

// DirectionalLight shines along the +Z axis of its frame from infinitely far away
type DirectionalLight struct {
	Frame     core.Frame
	Intensity core.Vec3
}

// NewDirectionalLight creates a unit directional light
func NewDirectionalLight() *DirectionalLight {
	return &DirectionalLight{Frame: core.IdentityFrame(), Intensity: core.Splat(1)}
}

func (l *DirectionalLight) Type() LightType { return LightTypeDirectional }
func (l *DirectionalLight) frame() *core.Frame { return &l.Frame }

// AreaLight is a quad emitting toward the +Z side of its frame
type AreaLight struct {
	Frame         core.Frame
	Intensity     core.Vec3
	Shape         *shape.Quad
	ShadowSamples int
}

// NewAreaLight creates a unit area light over a unit quad
func NewAreaLight() *AreaLight {
	return &AreaLight{
		Frame:         core.IdentityFrame(),
		Intensity:     core.Splat(1),
		Shape:         shape.NewQuad(1, 1),
		ShadowSamples: 16,
	}
}

func (l *AreaLight) Type() LightType { return LightTypeArea }
func (l *AreaLight) frame() *core.Frame { return &l.Frame }

// EnvLight surrounds the scene; it is sampled toward its frame origin
type EnvLight struct {
	Frame         core.Frame
	Intensity     core.Vec3
	ShadowSamples int
}

// NewEnvLight creates a unit environment light
func NewEnvLight() *EnvLight {
	return &EnvLight{Frame: core.IdentityFrame(), Intensity: core.Splat(1), ShadowSamples: 16}
}

func (l *EnvLight) Type() LightType { return LightTypeEnv }
func (l *EnvLight) frame() *core.Frame { return &l.Frame }

// FrameOf returns the frame of any light
func FrameOf(l Light) core.Frame {
	return *l.frame()
}

// SetFrame replaces the frame of any light
func SetFrame(l Light, f core.Frame) {
	*l.frame() = f
}

// ShadowSamples returns how many shadow rays the light asks for
func ShadowSamples(l Light) int {
	switch l := l.(type) {
	case *AreaLight:
		return l.ShadowSamples
	case *EnvLight:
		return l.ShadowSamples
	default:
		return 1
	}
}

// LookAt places the light at eye with its +Z axis toward center
func LookAt(l Light, eye, center, up core.Vec3) {
	SetFrame(l, core.LookAtFrame(eye, center, up, false))
}

// ShadowSample is one light direction seen from a shading point
type ShadowSample struct {
	Dir      core.Vec3 // world direction from the shading point toward the light
	Dist     float64
	Radiance core.Vec3
	PDF      float64
}

// SampleShadow returns the direction, distance, radiance and density of the
// light as seen from p. With montecarlo set, sample in [0,1)^2 picks a point on
// an area light's quad; otherwise the light's origin is used.
func SampleShadow(l Light, p core.Vec3, sample core.Vec2, montecarlo bool) ShadowSample {
	f := FrameOf(l)
	if area, ok := l.(*AreaLight); ok && montecarlo {
		f.O = f.O.Add(f.X.Multiply((sample.X - 0.5) * area.Shape.Width)).
			Add(f.Y.Multiply((sample.Y - 0.5) * area.Shape.Height))
	}
	pl := f.InverseTransformPoint(p)

	var ss ShadowSample
	switch l := l.(type) {
	case *PointLight:
		ss.Dir = pl.Negate().Normalize()
		ss.Dist = pl.Length()
		ss.Radiance = l.Intensity.Divide(pl.LengthSquared())
		ss.PDF = 1
	case *DirectionalLight:
		ss.Dir = core.NewVec3(0, 0, -1)
		ss.Dist = core.RayInfinity
		ss.Radiance = l.Intensity
		ss.PDF = 1
	case *AreaLight:
		ss.Dir = pl.Negate().Normalize()
		ss.Dist = pl.Length()
		// points behind the emitting side receive nothing
		cos := math.Max(0, pl.Z/ss.Dist)
		ss.Radiance = l.Intensity.Multiply(cos / pl.LengthSquared())
		ss.PDF = 1 / (l.Shape.Width * l.Shape.Height)
	case *EnvLight:
		ss.Dir = pl.Negate().Normalize()
		ss.Dist = core.RayInfinity
		ss.Radiance = l.Intensity.Multiply(math.Pi)
		ss.PDF = 1
	default:
		panic(fmt.Sprintf("lights: unsupported light kind %T", l))
	}
	ss.Dir = f.TransformDirection(ss.Dir)
	return ss
}

// Background returns the radiance an escaping ray in direction wo receives
// from the light; only environment lights contribute.
func Background(l Light, wo core.Vec3) core.Vec3 {
	if env, ok := l.(*EnvLight); ok {
		return env.Intensity
	}
	return core.Vec3{}
}
