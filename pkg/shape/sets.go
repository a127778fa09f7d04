package shape

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// PointSet renders each point as a small sphere, or as a camera-facing disc
// when Approximate is set
type PointSet struct {
	Base
	Pos         []core.Vec3
	Radius      []float64
	Texcoord    []core.Vec2
	Approximate bool
}

// NewPointSet creates a point set with one radius per point
func NewPointSet(pos []core.Vec3, radius []float64) *PointSet {
	return &PointSet{Base: newBase(), Pos: pos, Radius: radius}
}

func (ps *PointSet) numElements() int { return len(ps.Pos) }

func (ps *PointSet) elementBounds(i int) core.AABB {
	return geometry.SphereBounds(ps.Pos[i], ps.Radius[i])
}

func (ps *PointSet) texcoord(i int) core.Vec2 {
	if len(ps.Texcoord) == 0 {
		return core.Vec2{}
	}
	return ps.Texcoord[i]
}

func (ps *PointSet) intersectElement(i int, ray core.Ray) (Hit, bool) {
	if ps.Approximate {
		t, ok := geometry.IntersectPointApprox(ray, ps.Pos[i], ps.Radius[i])
		if !ok {
			return Hit{}, false
		}
		frame := core.FrameFromZ(ray.At(t), ray.Direction.Negate())
		return Hit{T: t, Frame: frame, Normal: frame.Z, Texcoord: ps.texcoord(i)}, true
	}

	t, ok := geometry.IntersectSphere(ray, ps.Pos[i], ps.Radius[i])
	if !ok {
		return Hit{}, false
	}
	uv := sphericalUV(ray.At(t).Subtract(ps.Pos[i]).Divide(ps.Radius[i]))
	frame := sphericalFrame(ps.Pos[i], ps.Radius[i], uv)
	return Hit{T: t, Frame: frame, Normal: frame.Z, UV: uv, Texcoord: ps.texcoord(i)}, true
}

func (ps *PointSet) intersectElementAny(i int, ray core.Ray) bool {
	if ps.Approximate {
		_, ok := geometry.IntersectPointApprox(ray, ps.Pos[i], ps.Radius[i])
		return ok
	}
	_, ok := geometry.IntersectSphere(ray, ps.Pos[i], ps.Radius[i])
	return ok
}

// LineSet renders each segment as a cylinder, or as a camera-facing capsule
// when Approximate is set
type LineSet struct {
	Base
	Pos         []core.Vec3
	Radius      []float64
	Texcoord    []core.Vec2
	Line        [][2]int
	Approximate bool
}

// NewLineSet creates a line set with one radius per vertex
func NewLineSet(pos []core.Vec3, radius []float64, lines [][2]int) *LineSet {
	return &LineSet{Base: newBase(), Pos: pos, Radius: radius, Line: lines}
}

func (ls *LineSet) numElements() int { return len(ls.Line) }

// cylinder returns the frame, radius and height of the tube around line i
func (ls *LineSet) cylinder(i int) (core.Frame, float64, float64) {
	l := ls.Line[i]
	axis := ls.Pos[l[1]].Subtract(ls.Pos[l[0]])
	f := core.Frame{O: ls.Pos[l[0]], X: core.NewVec3(1, 0, 0), Y: core.NewVec3(0, 1, 0), Z: axis.Normalize()}
	if math.Abs(f.Z.Y) > 0.999 {
		// the y axis cannot seed a frame around a vertical line
		f.Y = core.NewVec3(1, 0, 0)
	}
	f = f.Orthonormalize()
	r := (ls.Radius[l[0]] + ls.Radius[l[1]]) / 2
	return f, r, axis.Length()
}

func (ls *LineSet) elementBounds(i int) core.AABB {
	if ls.Approximate {
		l := ls.Line[i]
		r := math.Max(ls.Radius[l[0]], ls.Radius[l[1]])
		return core.NewAABBFromPoints(ls.Pos[l[0]], ls.Pos[l[1]]).Expand(r)
	}
	f, r, h := ls.cylinder(i)
	return f.TransformAABB(geometry.CylinderBounds(r, h))
}

// texcoord blends the vertex texcoords along the line, or uses s directly
func (ls *LineSet) texcoord(i int, s float64) core.Vec2 {
	if len(ls.Texcoord) == 0 {
		return core.NewVec2(s, 0)
	}
	l := ls.Line[i]
	return ls.Texcoord[l[0]].Multiply(1 - s).Add(ls.Texcoord[l[1]].Multiply(s))
}

func (ls *LineSet) intersectElement(i int, ray core.Ray) (Hit, bool) {
	l := ls.Line[i]
	p0, p1 := ls.Pos[l[0]], ls.Pos[l[1]]

	if ls.Approximate {
		t, s, ok := geometry.IntersectLineApprox(ray, p0, p1, ls.Radius[l[0]], ls.Radius[l[1]])
		if !ok {
			return Hit{}, false
		}
		z := ray.Direction.Negate().Normalize()
		x := p1.Subtract(p0).Normalize()
		y := z.Cross(x).Normalize()
		frame := core.Frame{O: ray.At(t), X: y.Cross(z), Y: y, Z: z}
		if y.IsZero() {
			frame = core.FrameFromZ(ray.At(t), z)
		}
		return Hit{T: t, Frame: frame, Normal: frame.Z, UV: core.NewVec2(s, 0), Texcoord: ls.texcoord(i, s)}, true
	}

	f, r, h := ls.cylinder(i)
	local := f.InverseTransformRay(ray)
	t, ok := geometry.IntersectCylinder(local, r, h)
	if !ok {
		return Hit{}, false
	}
	pl := local.At(t)
	uv := core.NewVec2(geometry.Atan2Pos(pl.Y, pl.X)/(2*math.Pi), pl.Z/h)

	phi := 2 * math.Pi * uv.X
	cp, sp := math.Cos(phi), math.Sin(phi)
	lf := core.Frame{
		O: core.NewVec3(r*cp, r*sp, h*uv.Y),
		X: core.NewVec3(0, 0, 1),
		Y: core.NewVec3(sp, -cp, 0),
		Z: core.NewVec3(cp, sp, 0),
	}
	frame := f.TransformFrame(lf.Orthonormalize())
	return Hit{T: t, Frame: frame, Normal: frame.Z, UV: uv, Texcoord: ls.texcoord(i, uv.Y)}, true
}

func (ls *LineSet) intersectElementAny(i int, ray core.Ray) bool {
	if ls.Approximate {
		l := ls.Line[i]
		_, _, ok := geometry.IntersectLineApprox(ray, ls.Pos[l[0]], ls.Pos[l[1]], ls.Radius[l[0]], ls.Radius[l[1]])
		return ok
	}
	f, r, h := ls.cylinder(i)
	_, ok := geometry.IntersectCylinder(f.InverseTransformRay(ray), r, h)
	return ok
}
