package core

const (
	// RayEpsilon is the default lower bound of a ray's parametric range
	RayEpsilon = 1e-4
	// RayInfinity is the default upper bound of a ray's parametric range
	RayInfinity = 1e6
)

// Ray is a half-line restricted to the parametric interval [TMin, TMax].
// Traversal shrinks TMax as closer hits are found.
type Ray struct {
	Origin    Vec3
	Direction Vec3
	TMin      float64
	TMax      float64
}

// NewRay creates a ray with the default parametric range
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, TMin: RayEpsilon, TMax: RayInfinity}
}

// NewRayRange creates a ray with an explicit parametric range
func NewRayRange(origin, direction Vec3, tMin, tMax float64) Ray {
	return Ray{Origin: origin, Direction: direction, TMin: tMin, TMax: tMax}
}

// NewSegment creates a ray covering the open segment between a and b,
// shortened by RayEpsilon at both ends
func NewSegment(a, b Vec3) Ray {
	return Ray{
		Origin:    a,
		Direction: b.Subtract(a).Normalize(),
		TMin:      RayEpsilon,
		TMax:      a.Distance(b) - 2*RayEpsilon,
	}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// InRange reports whether t lies in [TMin, TMax]
func (r Ray) InRange(t float64) bool {
	return t >= r.TMin && t <= r.TMax
}
