package shape

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// Sphere is a sphere given in its primitive's frame
type Sphere struct {
	Base
	Center core.Vec3
	Radius float64
}

// NewSphere creates a sphere; NewSphere(core.Vec3{}, 1) is the default sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Base: newBase(), Center: center, Radius: radius}
}

// Frame returns the parametric frame at uv
func (s *Sphere) Frame(uv core.Vec2) core.Frame {
	return sphericalFrame(s.Center, s.Radius, uv)
}

func (s *Sphere) numElements() int { return 1 }
func (s *Sphere) elementBounds(int) core.AABB { return geometry.SphereBounds(s.Center, s.Radius) }

func (s *Sphere) intersectElement(_ int, ray core.Ray) (Hit, bool) {
	t, ok := geometry.IntersectSphere(ray, s.Center, s.Radius)
	if !ok {
		return Hit{}, false
	}
	uv := sphericalUV(ray.At(t).Subtract(s.Center).Divide(s.Radius))
	frame := s.Frame(uv)
	return Hit{T: t, Frame: frame, Normal: frame.Z, UV: uv, Texcoord: uv}, true
}

func (s *Sphere) intersectElementAny(_ int, ray core.Ray) bool {
	_, ok := geometry.IntersectSphere(ray, s.Center, s.Radius)
	return ok
}

// sphericalUV maps a point on the unit sphere to (longitude, colatitude) in [0,1]^2
func sphericalUV(p core.Vec3) core.Vec2 {
	z := math.Max(-1, math.Min(1, p.Z))
	return core.NewVec2(geometry.Atan2Pos(p.Y, p.X)/(2*math.Pi), math.Acos(z)/math.Pi)
}

func sphericalFrame(center core.Vec3, radius float64, uv core.Vec2) core.Frame {
	phi := 2 * math.Pi * uv.X
	theta := math.Pi * uv.Y
	ct, st := math.Cos(theta), math.Sin(theta)
	cp, sp := math.Cos(phi), math.Sin(phi)
	return core.Frame{
		O: center.Add(core.NewVec3(st*cp, st*sp, ct).Multiply(radius)),
		X: core.NewVec3(-sp, cp, 0),
		Y: core.NewVec3(ct*cp, ct*sp, -st),
		Z: core.NewVec3(st*cp, st*sp, ct),
	}
}

// Cylinder is an open tube around +Z from z=0 to z=Height
type Cylinder struct {
	Base
	Radius float64
	Height float64
}

// NewCylinder creates a cylinder; NewCylinder(1, 1) is the default cylinder
func NewCylinder(radius, height float64) *Cylinder {
	return &Cylinder{Base: newBase(), Radius: radius, Height: height}
}

// Frame returns the parametric frame at uv
func (c *Cylinder) Frame(uv core.Vec2) core.Frame {
	phi := 2 * math.Pi * uv.X
	cp, sp := math.Cos(phi), math.Sin(phi)
	return core.Frame{
		O: core.NewVec3(c.Radius*cp, c.Radius*sp, c.Height*uv.Y),
		X: core.NewVec3(-sp, cp, 0),
		Y: core.NewVec3(0, 0, 1),
		Z: core.NewVec3(cp, sp, 0),
	}
}

func (c *Cylinder) numElements() int { return 1 }
func (c *Cylinder) elementBounds(int) core.AABB { return geometry.CylinderBounds(c.Radius, c.Height) }

func (c *Cylinder) intersectElement(_ int, ray core.Ray) (Hit, bool) {
	t, ok := geometry.IntersectCylinder(ray, c.Radius, c.Height)
	if !ok {
		return Hit{}, false
	}
	p := ray.At(t)
	uv := core.NewVec2(geometry.Atan2Pos(p.Y, p.X)/(2*math.Pi), p.Z/c.Height)
	frame := c.Frame(uv)
	return Hit{T: t, Frame: frame, Normal: frame.Z, UV: uv, Texcoord: uv}, true
}

func (c *Cylinder) intersectElementAny(_ int, ray core.Ray) bool {
	_, ok := geometry.IntersectCylinder(ray, c.Radius, c.Height)
	return ok
}

// Quad is a Width x Height rectangle centered in the z=0 plane, facing +Z
type Quad struct {
	Base
	Width  float64
	Height float64
}

// NewQuad creates a quad; NewQuad(1, 1) is the default quad
func NewQuad(width, height float64) *Quad {
	return &Quad{Base: newBase(), Width: width, Height: height}
}

// Frame returns the planar frame at uv
func (q *Quad) Frame(uv core.Vec2) core.Frame {
	f := core.IdentityFrame()
	f.O = f.X.Multiply((uv.X - 0.5) * q.Width).Add(f.Y.Multiply((uv.Y - 0.5) * q.Height))
	return f
}

func (q *Quad) numElements() int { return 1 }
func (q *Quad) elementBounds(int) core.AABB { return geometry.QuadBounds(q.Width, q.Height) }

func (q *Quad) intersectElement(_ int, ray core.Ray) (Hit, bool) {
	t, u, v, ok := geometry.IntersectQuad(ray, q.Width, q.Height)
	if !ok {
		return Hit{}, false
	}
	uv := core.NewVec2(u, v)
	frame := q.Frame(uv)
	return Hit{T: t, Frame: frame, Normal: frame.Z, UV: uv, Texcoord: uv}, true
}

func (q *Quad) intersectElementAny(_ int, ray core.Ray) bool {
	_, _, _, ok := geometry.IntersectQuad(ray, q.Width, q.Height)
	return ok
}

// Triangle is a single triangle with counter-clockwise vertices
type Triangle struct {
	Base
	V0, V1, V2 core.Vec3
}

// NewTriangle creates a triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3) *Triangle {
	return &Triangle{Base: newBase(), V0: v0, V1: v1, V2: v2}
}

// DefaultTriangle returns the triangle inscribed in the unit circle with
// vertices at 90, 210 and 330 degrees
func DefaultTriangle() *Triangle {
	vertex := func(deg float64) core.Vec3 {
		a := deg * math.Pi / 180
		return core.NewVec3(math.Cos(a), math.Sin(a), 0)
	}
	return NewTriangle(vertex(90), vertex(210), vertex(330))
}

// Frame returns the frame at barycentric uv, the weights of V0 and V1
func (tr *Triangle) Frame(uv core.Vec2) core.Frame {
	return triangleFrame([3]core.Vec3{tr.V0, tr.V1, tr.V2}, geometry.TriangleNormal(tr.V0, tr.V1, tr.V2), uv)
}

func (tr *Triangle) numElements() int { return 1 }
func (tr *Triangle) elementBounds(int) core.AABB {
	return geometry.TriangleBounds(tr.V0, tr.V1, tr.V2)
}

func (tr *Triangle) intersectElement(_ int, ray core.Ray) (Hit, bool) {
	t, ba, bb, ok := geometry.IntersectTriangle(ray, tr.V0, tr.V1, tr.V2)
	if !ok {
		return Hit{}, false
	}
	uv := core.NewVec2(ba, bb)
	texcoord := core.NewVec2(bb, 1-ba-bb)
	return Hit{T: t, Frame: tr.Frame(uv), Normal: geometry.TriangleNormal(tr.V0, tr.V1, tr.V2), UV: uv, Texcoord: texcoord}, true
}

func (tr *Triangle) intersectElementAny(_ int, ray core.Ray) bool {
	_, _, _, ok := geometry.IntersectTriangle(ray, tr.V0, tr.V1, tr.V2)
	return ok
}

// triangleFrame builds the frame at barycentric uv from the first edges and the normal z
func triangleFrame(p [3]core.Vec3, z core.Vec3, uv core.Vec2) core.Frame {
	f := core.Frame{
		O: interpolate3(p, uv),
		X: p[1].Subtract(p[0]).Normalize(),
		Y: p[2].Subtract(p[0]).Normalize(),
		Z: z,
	}
	return f.Orthonormalize()
}

// interpolate3 blends triangle values with the weights u, v and 1-u-v
func interpolate3(v [3]core.Vec3, uv core.Vec2) core.Vec3 {
	return v[0].Multiply(uv.X).Add(v[1].Multiply(uv.Y)).Add(v[2].Multiply(1 - uv.X - uv.Y))
}

func interpolate2(v [3]core.Vec2, uv core.Vec2) core.Vec2 {
	return v[0].Multiply(uv.X).Add(v[1].Multiply(uv.Y)).Add(v[2].Multiply(1 - uv.X - uv.Y))
}
