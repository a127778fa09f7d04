package core

import (
	"math"
	"testing"
)

func testFrame() Frame {
	return LookAtFrame(NewVec3(1, 2, 3), NewVec3(0, 0, 0), NewVec3(0, 1, 0), false)
}

func TestFrame_Orthonormal(t *testing.T) {
	frames := map[string]Frame{
		"look at":         testFrame(),
		"from z":          FrameFromZ(NewVec3(0, 0, 0), NewVec3(1, 1, 0)),
		"from x":          FrameFromZ(NewVec3(0, 0, 0), NewVec3(1, 0, 0)),
		"identity":        IdentityFrame(),
		"orthonormalized": Frame{Y: NewVec3(0.2, 1, 0), Z: NewVec3(0, 0.1, 1)}.Orthonormalize(),
	}

	for name, f := range frames {
		t.Run(name, func(t *testing.T) {
			for _, axis := range []Vec3{f.X, f.Y, f.Z} {
				if math.Abs(axis.Length()-1) > epsilon {
					t.Errorf("Expected unit axis, got %v", axis)
				}
			}
			if math.Abs(f.X.Dot(f.Y))+math.Abs(f.Y.Dot(f.Z))+math.Abs(f.Z.Dot(f.X)) > epsilon {
				t.Errorf("Expected orthogonal axes, got %v", f)
			}
			if !vecNear(f.X.Cross(f.Y), f.Z) {
				t.Errorf("Expected right-handed frame, got %v", f)
			}
		})
	}
}

func TestFrame_Transforms(t *testing.T) {
	f := testFrame()
	p := NewVec3(0.5, -2, 4)

	world := f.TransformPoint(p)
	if got := f.InverseTransformPoint(world); !vecNear(got, p) {
		t.Errorf("Expected point round trip %v, got %v", p, got)
	}
	if got := f.ToMatrix().TransformPoint(p); !vecNear(got, world) {
		t.Errorf("Expected matrix to agree with the frame: %v, got %v", world, got)
	}
	if got := f.ToMatrixInverse().TransformPoint(world); !vecNear(got, p) {
		t.Errorf("Expected inverse matrix to undo the frame: %v, got %v", p, got)
	}
	if got := f.ToMatrix().Mul(f.ToMatrixInverse()).TransformPoint(p); !vecNear(got, p) {
		t.Errorf("Expected identity product, got %v", got)
	}

	local := Frame{O: NewVec3(1, 0, 0), X: NewVec3(0, 1, 0), Y: NewVec3(-1, 0, 0), Z: NewVec3(0, 0, 1)}
	back := f.InverseTransformFrame(f.TransformFrame(local))
	if !vecNear(back.O, local.O) || !vecNear(back.X, local.X) || !vecNear(back.Z, local.Z) {
		t.Errorf("Expected frame round trip %v, got %v", local, back)
	}

	ray := NewRayRange(NewVec3(0, 0, 0), NewVec3(0, 0, -1), 0.5, 10)
	wr := f.TransformRay(ray)
	if wr.TMin != 0.5 || wr.TMax != 10 {
		t.Errorf("Expected ray range to be kept, got [%f, %f]", wr.TMin, wr.TMax)
	}
	if got := wr.At(2); !vecNear(got, f.TransformPoint(ray.At(2))) {
		t.Errorf("Expected transformed ray to pass through %v, got %v", f.TransformPoint(ray.At(2)), got)
	}
}

func TestFrame_FaceForward(t *testing.T) {
	f := IdentityFrame()
	if got := f.FaceForward(NewVec3(0, 0, -1)); got.Z != f.Z {
		t.Errorf("Expected frame facing the ray to be kept, got %v", got.Z)
	}
	flipped := f.FaceForward(NewVec3(0, 0, 1))
	if !vecNear(flipped.Z, NewVec3(0, 0, -1)) || !vecNear(flipped.X.Cross(flipped.Y), flipped.Z) {
		t.Errorf("Expected flipped right-handed frame, got %v", flipped)
	}
}

func TestMat4_Transforms(t *testing.T) {
	m := Translation(NewVec3(1, 2, 3)).Mul(Rotation(math.Pi/2, NewVec3(0, 0, 1))).Mul(Scaling(NewVec3(2, 2, 2)))

	if got := m.TransformPoint(NewVec3(1, 0, 0)); !vecNear(got, NewVec3(1, 4, 3)) {
		t.Errorf("Expected (1, 4, 3), got %v", got)
	}
	if got := m.TransformVector(NewVec3(1, 0, 0)); !vecNear(got, NewVec3(0, 2, 0)) {
		t.Errorf("Expected (0, 2, 0), got %v", got)
	}
	if got := Identity().Mul(m); got != m {
		t.Errorf("Expected identity product to keep the matrix")
	}
	if got := m.Transpose().Transpose(); got != m {
		t.Errorf("Expected double transpose to keep the matrix")
	}

	// non-uniform scaling bends normals the other way
	s := Scaling(NewVec3(2, 1, 1))
	si := Scaling(NewVec3(0.5, 1, 1))
	n := TransformNormal(si, NewVec3(1, 1, 0).Normalize())
	if !vecNear(n, NewVec3(0.5, 1, 0).Normalize()) {
		t.Errorf("Expected normal (0.5, 1, 0) normalized, got %v", n)
	}
	if tangent := s.TransformVector(NewVec3(1, -1, 0)); math.Abs(tangent.Dot(n)) > epsilon {
		t.Errorf("Expected transformed normal to stay perpendicular to %v, got %v", tangent, n)
	}
}
