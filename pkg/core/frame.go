package core

// Frame is a rigid coordinate system: an origin plus three orthonormal axes
type Frame struct {
	O Vec3
	X Vec3
	Y Vec3
	Z Vec3
}

// IdentityFrame returns the world frame
func IdentityFrame() Frame {
	return Frame{O: Vec3{}, X: Vec3{1, 0, 0}, Y: Vec3{0, 1, 0}, Z: Vec3{0, 0, 1}}
}

// TransformPoint maps a point from frame-local to world coordinates
func (f Frame) TransformPoint(p Vec3) Vec3 {
	return f.O.Add(f.TransformVector(p))
}

// TransformVector maps a vector from frame-local to world coordinates
func (f Frame) TransformVector(v Vec3) Vec3 {
	return f.X.Multiply(v.X).Add(f.Y.Multiply(v.Y)).Add(f.Z.Multiply(v.Z))
}

// TransformDirection maps a vector to world coordinates and normalizes it
func (f Frame) TransformDirection(v Vec3) Vec3 {
	return f.TransformVector(v).Normalize()
}

// TransformFrame maps a frame-local frame to world coordinates
func (f Frame) TransformFrame(local Frame) Frame {
	return Frame{
		O: f.TransformPoint(local.O),
		X: f.TransformVector(local.X),
		Y: f.TransformVector(local.Y),
		Z: f.TransformVector(local.Z),
	}
}

// TransformRay maps a frame-local ray to world coordinates, keeping its range
func (f Frame) TransformRay(r Ray) Ray {
	return Ray{Origin: f.TransformPoint(r.Origin), Direction: f.TransformVector(r.Direction), TMin: r.TMin, TMax: r.TMax}
}

// TransformAABB returns the world box enclosing a frame-local box
func (f Frame) TransformAABB(box AABB) AABB {
	if box.IsEmpty() {
		return box
	}
	out := EmptyAABB()
	for _, c := range box.Corners() {
		out = out.Grow(f.TransformPoint(c))
	}
	return out
}

// InverseTransformPoint maps a world point into frame-local coordinates
func (f Frame) InverseTransformPoint(p Vec3) Vec3 {
	return f.InverseTransformVector(p.Subtract(f.O))
}

// InverseTransformVector maps a world vector into frame-local coordinates
func (f Frame) InverseTransformVector(v Vec3) Vec3 {
	return Vec3{v.Dot(f.X), v.Dot(f.Y), v.Dot(f.Z)}
}

// InverseTransformDirection maps a world vector into frame-local coordinates and normalizes it
func (f Frame) InverseTransformDirection(v Vec3) Vec3 {
	return f.InverseTransformVector(v).Normalize()
}

// InverseTransformFrame maps a world frame into frame-local coordinates
func (f Frame) InverseTransformFrame(world Frame) Frame {
	return Frame{
		O: f.InverseTransformPoint(world.O),
		X: f.InverseTransformVector(world.X),
		Y: f.InverseTransformVector(world.Y),
		Z: f.InverseTransformVector(world.Z),
	}
}

// InverseTransformRay maps a world ray into frame-local coordinates, keeping its range
func (f Frame) InverseTransformRay(r Ray) Ray {
	return Ray{Origin: f.InverseTransformPoint(r.Origin), Direction: f.InverseTransformVector(r.Direction), TMin: r.TMin, TMax: r.TMax}
}

// Orthonormalize rebuilds X and Y around Z so the axes are orthonormal
func (f Frame) Orthonormalize() Frame {
	f.Z = f.Z.Normalize()
	f.X = f.Y.Cross(f.Z).Normalize()
	f.Y = f.Z.Cross(f.X).Normalize()
	return f
}

// FaceForward flips the frame so that Z points against the incoming direction d
func (f Frame) FaceForward(d Vec3) Frame {
	if d.Dot(f.Z) >= 0 {
		f.Z = f.Z.Negate()
		f.Y = f.Y.Negate()
	}
	return f
}

// LookAtFrame builds a frame at eye with Z toward center (away from it when flipped)
func LookAtFrame(eye, center, up Vec3, flipped bool) Frame {
	f := Frame{O: eye, Y: up, Z: center.Subtract(eye).Normalize()}
	if flipped {
		f.Z = f.Z.Negate()
	}
	return f.Orthonormalize()
}

// ToMatrix returns the affine matrix mapping local to world coordinates
func (f Frame) ToMatrix() Mat4 {
	return Mat4{
		{f.X.X, f.Y.X, f.Z.X, f.O.X},
		{f.X.Y, f.Y.Y, f.Z.Y, f.O.Y},
		{f.X.Z, f.Y.Z, f.Z.Z, f.O.Z},
		{0, 0, 0, 1},
	}
}

// ToMatrixInverse returns the affine matrix mapping world to local coordinates
func (f Frame) ToMatrixInverse() Mat4 {
	return Mat4{
		{f.X.X, f.X.Y, f.X.Z, -f.X.Dot(f.O)},
		{f.Y.X, f.Y.Y, f.Y.Z, -f.Y.Dot(f.O)},
		{f.Z.X, f.Z.Y, f.Z.Z, -f.Z.Dot(f.O)},
		{0, 0, 0, 1},
	}
}

// FrameFromZ builds an orthonormal frame at o around the axis z, picking the
// tangents from whichever world axis is farthest from z
func FrameFromZ(o, z Vec3) Frame {
	z = z.Normalize()
	var nt Vec3
	if z.X > 0.9 || z.X < -0.9 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	x := nt.Cross(z).Normalize()
	y := z.Cross(x)
	return Frame{O: o, X: x, Y: y, Z: z}
}
