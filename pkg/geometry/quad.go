package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// IntersectQuad tests the ray against a width x height rectangle centered at the
// origin of the z=0 plane. It returns the hit parameter and planar coordinates
// in [0,1]. Rays parallel to the plane never hit.
func IntersectQuad(ray core.Ray, width, height float64) (t, u, v float64, ok bool) {
	if ray.Direction.Z == 0 {
		return 0, 0, 0, false
	}

	t = -ray.Origin.Z / ray.Direction.Z
	if !ray.InRange(t) {
		return 0, 0, 0, false
	}

	p := ray.At(t)
	if math.Abs(p.X) > width/2 || math.Abs(p.Y) > height/2 {
		return 0, 0, 0, false
	}

	return t, p.X/width + 0.5, p.Y/height + 0.5, true
}

// QuadBounds returns the flat box enclosing a local-frame quad
func QuadBounds(width, height float64) core.AABB {
	return core.NewAABB(core.NewVec3(-width/2, -height/2, 0), core.NewVec3(width/2, height/2, 0))
}

// QuadNormal returns the averaged normal of the two triangles of a planar quad
func QuadNormal(v0, v1, v2, v3 core.Vec3) core.Vec3 {
	return TriangleNormal(v0, v1, v2).Add(TriangleNormal(v0, v2, v3)).Normalize()
}
