package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// IntersectSphere tests the ray against a sphere and returns the nearest root
// inside the ray's range
func IntersectSphere(ray core.Ray, center core.Vec3, radius float64) (float64, bool) {
	oc := ray.Origin.Subtract(center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - radius*radius

	return nearestRoot(ray, a, b, c, func(float64) bool { return true })
}

// nearestRoot solves the quadratic and returns the smaller root accepted by
// valid and inside the ray range, else the larger one
func nearestRoot(ray core.Ray, a, b, c float64, valid func(t float64) bool) (float64, bool) {
	if a == 0 {
		return 0, false
	}
	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	tNear := (-b - sqrtD) / (2 * a)
	tFar := (-b + sqrtD) / (2 * a)

	if ray.InRange(tNear) && valid(tNear) {
		return tNear, true
	}
	if ray.InRange(tFar) && valid(tFar) {
		return tFar, true
	}
	return 0, false
}

// SphereBounds returns the box enclosing a sphere
func SphereBounds(center core.Vec3, radius float64) core.AABB {
	r := core.Splat(radius)
	return core.NewAABB(center.Subtract(r), center.Add(r))
}

// Atan2Pos returns atan2(y, x) mapped to [0, 2π)
func Atan2Pos(y, x float64) float64 {
	a := math.Atan2(y, x)
	if a >= 0 {
		return a
	}
	return 2*math.Pi + a
}
