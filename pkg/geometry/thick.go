package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// IntersectPointApprox treats the point p as a ball of radius r and tests the
// ray's closest approach to it. The ray direction must be normalized.
func IntersectPointApprox(ray core.Ray, p core.Vec3, r float64) (float64, bool) {
	t := p.Subtract(ray.Origin).Dot(ray.Direction)
	t = clamp(t, ray.TMin, ray.TMax)
	if p.Distance(ray.At(t)) > r {
		return 0, false
	}
	return t, true
}

// IntersectLineApprox treats the segment v0 v1 as a capsule whose radius is
// interpolated from r0 to r1 and tests the ray's closest approach to it. It
// returns the ray parameter and the normalized segment parameter s in [0,1].
func IntersectLineApprox(ray core.Ray, v0, v1 core.Vec3, r0, r1 float64) (t, s float64, ok bool) {
	seg := core.NewSegment(v0, v1)

	// closest points between two lines; parallel lines are a miss
	if math.Abs(ray.Direction.Dot(seg.Direction)) == 1 {
		return 0, 0, false
	}

	w := ray.Origin.Subtract(seg.Origin)
	a := ray.Direction.Dot(ray.Direction)
	b := ray.Direction.Dot(seg.Direction)
	c := seg.Direction.Dot(seg.Direction)
	d := ray.Direction.Dot(w)
	e := seg.Direction.Dot(w)
	det := a*c - b*b
	if det == 0 {
		return 0, 0, false
	}

	t = clamp((b*e-c*d)/det, ray.TMin, ray.TMax)
	s = clamp((a*e-b*d)/det, seg.TMin, seg.TMax)

	ss := s / v1.Distance(v0)
	radius := r0*(1-ss) + r1*ss
	if ray.At(t).Distance(seg.At(s)) > radius {
		return 0, 0, false
	}
	return t, ss, true
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
