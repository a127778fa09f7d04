package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// IntersectCylinder tests the ray against an open cylinder of the given radius
// whose axis runs along +Z from z=0 to z=height
func IntersectCylinder(ray core.Ray, radius, height float64) (float64, bool) {
	e, d := ray.Origin, ray.Direction

	a := d.X*d.X + d.Y*d.Y
	b := 2 * (e.X*d.X + e.Y*d.Y)
	c := e.X*e.X + e.Y*e.Y - radius*radius

	return nearestRoot(ray, a, b, c, func(t float64) bool {
		z := ray.At(t).Z
		return z >= 0 && z <= height
	})
}

// CylinderBounds returns the box enclosing a local-frame cylinder
func CylinderBounds(radius, height float64) core.AABB {
	return core.NewAABB(core.NewVec3(-radius, -radius, 0), core.NewVec3(radius, radius, height))
}
