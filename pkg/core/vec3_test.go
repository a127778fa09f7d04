package core

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func vecNear(a, b Vec3) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

func TestVec3_Operations(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"Divide", b.Divide(2), NewVec3(2, -2.5, 3)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"DivideVec", b.DivideVec(a), NewVec3(4, -2.5, 2)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Min", a.Min(b), NewVec3(1, -5, 3)},
		{"Max", a.Max(b), NewVec3(4, 2, 6)},
		{"Clamp", NewVec3(-1, 0.5, 2).Clamp(0, 1), NewVec3(0, 0.5, 1)},
		{"Normalize", NewVec3(3, 0, 4).Normalize(), NewVec3(0.6, 0, 0.8)},
		{"Normalize zero", Vec3{}.Normalize(), Vec3{}},
		{"Reflect", Reflect(NewVec3(1, -1, 0), NewVec3(0, 1, 0)), NewVec3(1, 1, 0)},
		{"Pow", NewVec3(4, 9, 16).Pow(0.5), NewVec3(2, 3, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !vecNear(tt.got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVec3_Scalars(t *testing.T) {
	a := NewVec3(1, 2, 2)

	if got := a.Length(); math.Abs(got-3) > epsilon {
		t.Errorf("Expected length 3, got %f", got)
	}
	if got := a.LengthSquared(); math.Abs(got-9) > epsilon {
		t.Errorf("Expected squared length 9, got %f", got)
	}
	if got := a.Dot(NewVec3(2, 0, -1)); got != 0 {
		t.Errorf("Expected dot 0, got %f", got)
	}
	if got := a.Distance(NewVec3(1, 2, 5)); math.Abs(got-3) > epsilon {
		t.Errorf("Expected distance 3, got %f", got)
	}
	for axis, expected := range []float64{1, 2, 2} {
		if got := a.Axis(axis); got != expected {
			t.Errorf("Expected axis %d = %f, got %f", axis, expected, got)
		}
	}
	if !(Vec3{}).IsZero() || a.IsZero() {
		t.Error("Expected only the zero vector to be zero")
	}
	if got := Splat(1).Luminance(); math.Abs(got-1) > epsilon {
		t.Errorf("Expected white luminance 1, got %f", got)
	}
}

func TestVec2_Operations(t *testing.T) {
	a := NewVec2(3, 4)
	if got := a.Length(); got != 5 {
		t.Errorf("Expected length 5, got %f", got)
	}
	if got := a.Add(NewVec2(1, 1)).Subtract(NewVec2(2, 2)).Multiply(2); got != NewVec2(4, 6) {
		t.Errorf("Expected (4, 6), got %v", got)
	}
}
