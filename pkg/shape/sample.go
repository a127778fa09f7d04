package shape

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sample is a point drawn on a shape's surface
type Sample struct {
	Frame core.Frame
	Area  float64
}

// SampleUniform maps uv in [0,1)^2 to a uniformly distributed surface point.
// Only spheres and quads can be sampled.
func SampleUniform(s Shape, uv core.Vec2) Sample {
	switch s := s.(type) {
	case *Sphere:
		z := 1 - 2*uv.Y
		rxy := math.Sqrt(math.Max(0, 1-z*z))
		phi := 2 * math.Pi * uv.X
		pl := core.NewVec3(rxy*math.Cos(phi), rxy*math.Sin(phi), z)
		return Sample{
			Frame: core.FrameFromZ(s.Center.Add(pl.Multiply(s.Radius)), pl),
			Area:  Area(s),
		}
	case *Quad:
		return Sample{Frame: s.Frame(uv), Area: Area(s)}
	default:
		panic(fmt.Sprintf("shape: cannot sample shape kind %T", s))
	}
}

// Area returns the surface area of a sphere or quad
func Area(s Shape) float64 {
	switch s := s.(type) {
	case *Sphere:
		return 4 * math.Pi * s.Radius * s.Radius
	case *Quad:
		return s.Width * s.Height
	default:
		panic(fmt.Sprintf("shape: no area for shape kind %T", s))
	}
}
