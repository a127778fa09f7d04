package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// IntersectTriangle tests the ray against triangle v0 v1 v2 and returns the hit
// parameter with the barycentric weights of v0 (ba) and v1 (bb). A ray in the
// triangle's plane is a miss.
func IntersectTriangle(ray core.Ray, v0, v1, v2 core.Vec3) (t, ba, bb float64, ok bool) {
	a := v0.Subtract(v2)
	b := v1.Subtract(v2)
	e := ray.Origin.Subtract(v2)
	i := ray.Direction

	ib := i.Cross(b)
	d := ib.Dot(a)
	if d == 0 {
		return 0, 0, 0, false
	}

	t = e.Cross(a).Dot(b) / d
	if !ray.InRange(t) {
		return 0, 0, 0, false
	}

	ba = ib.Dot(e) / d
	bb = a.Cross(i).Dot(e) / d
	if ba < 0 || bb < 0 || ba+bb > 1 {
		return 0, 0, 0, false
	}
	return t, ba, bb, true
}

// TriangleBounds returns the box enclosing a triangle
func TriangleBounds(v0, v1, v2 core.Vec3) core.AABB {
	return core.NewAABBFromPoints(v0, v1, v2)
}

// TriangleNormal returns the unit normal of a counter-clockwise triangle
func TriangleNormal(v0, v1, v2 core.Vec3) core.Vec3 {
	return v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
}
