package core

import "math"

// Mat4 is a row-major 4x4 matrix for affine and projective transforms
type Mat4 [4][4]float64

// Identity returns the identity matrix
func Identity() Mat4 {
	return Mat4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

// Translation returns a matrix translating by t
func Translation(t Vec3) Mat4 {
	return Mat4{{1, 0, 0, t.X}, {0, 1, 0, t.Y}, {0, 0, 1, t.Z}, {0, 0, 0, 1}}
}

// Scaling returns a matrix scaling each axis by s
func Scaling(s Vec3) Mat4 {
	return Mat4{{s.X, 0, 0, 0}, {0, s.Y, 0, 0}, {0, 0, s.Z, 0}, {0, 0, 0, 1}}
}

// Rotation returns a matrix rotating by angle radians around axis
func Rotation(angle float64, axis Vec3) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	v := axis.Normalize()
	return Mat4{
		{c + (1-c)*v.X*v.X, (1-c)*v.X*v.Y - s*v.Z, (1-c)*v.X*v.Z + s*v.Y, 0},
		{(1-c)*v.X*v.Y + s*v.Z, c + (1-c)*v.Y*v.Y, (1-c)*v.Y*v.Z - s*v.X, 0},
		{(1-c)*v.X*v.Z - s*v.Y, (1-c)*v.Y*v.Z + s*v.X, c + (1-c)*v.Z*v.Z, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns the matrix product m * o
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

// Transpose returns the transposed matrix
func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// TransformPoint applies m to a point, dividing by the homogeneous coordinate
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3]
	z := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3]
	w := m[3][0]*p.X + m[3][1]*p.Y + m[3][2]*p.Z + m[3][3]
	return Vec3{x / w, y / w, z / w}
}

// TransformVector applies the linear part of m to a vector
func (m Mat4) TransformVector(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// TransformNormal maps a normal through m given its inverse mi
func TransformNormal(mi Mat4, n Vec3) Vec3 {
	return mi.Transpose().TransformVector(n).Normalize()
}

// TransformFrame applies m to a frame and re-orthonormalizes the result
func (m Mat4) TransformFrame(f Frame) Frame {
	out := Frame{
		O: m.TransformPoint(f.O),
		X: m.TransformVector(f.X).Normalize(),
		Y: m.TransformVector(f.Y).Normalize(),
	}
	out.Z = out.X.Cross(out.Y)
	return out.Orthonormalize()
}

// TransformRay applies m to a ray, keeping its range
func (m Mat4) TransformRay(r Ray) Ray {
	return Ray{Origin: m.TransformPoint(r.Origin), Direction: m.TransformVector(r.Direction), TMin: r.TMin, TMax: r.TMax}
}

// TransformAABB returns the box enclosing the transformed corners of box
func (m Mat4) TransformAABB(box AABB) AABB {
	if box.IsEmpty() {
		return box
	}
	out := EmptyAABB()
	for _, c := range box.Corners() {
		out = out.Grow(m.TransformPoint(c))
	}
	return out
}
