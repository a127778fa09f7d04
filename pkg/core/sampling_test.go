package core

import (
	"math"
	"testing"
)

func TestRng_Deterministic(t *testing.T) {
	a := NewRng(7)
	b := NewRng(7)
	for i := 0; i < 100; i++ {
		if x, y := a.NextFloat(), b.NextFloat(); x != y {
			t.Fatalf("Expected equal sequences, got %f and %f at %d", x, y, i)
		}
	}

	first := NewRng(3).NextVec2()
	r := NewRng(9)
	r.Seed(3)
	if got := r.NextVec2(); got != first {
		t.Errorf("Expected reseeded generator to restart at %v, got %v", first, got)
	}
}

func TestRng_Ranges(t *testing.T) {
	r := NewRng(1)
	for i := 0; i < 1000; i++ {
		if f := r.NextFloat(); f < 0 || f >= 1 {
			t.Fatalf("Expected float in [0, 1), got %f", f)
		}
		d := r.NextVec2InDisk()
		if d.Multiply(2).Subtract(NewVec2(1, 1)).Length() > 1 {
			t.Fatalf("Expected disk sample inside the unit disk, got %v", d)
		}
	}
}

func TestSampleHemisphericalCos(t *testing.T) {
	r := NewRng(42)
	sum := 0.0
	const n = 20000
	for i := 0; i < n; i++ {
		s := SampleHemisphericalCos(r.NextVec2())
		if math.Abs(s.Dir.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit direction, got length %f", s.Dir.Length())
		}
		if s.Dir.Z < 0 {
			t.Fatalf("Expected direction in the +Z hemisphere, got %v", s.Dir)
		}
		if math.Abs(s.PDF-HemisphericalCosPDF(s.Dir)) > 1e-9 {
			t.Fatalf("Expected pdf %f, got %f", HemisphericalCosPDF(s.Dir), s.PDF)
		}
		sum += s.Dir.Z
	}

	// E[cos] under a cosine density is 2/3
	if mean := sum / n; math.Abs(mean-2.0/3.0) > 0.01 {
		t.Errorf("Expected mean cosine near 2/3, got %f", mean)
	}
	if pdf := HemisphericalCosPDF(NewVec3(0, 0, -1)); pdf != 0 {
		t.Errorf("Expected zero pdf below the hemisphere, got %f", pdf)
	}
}

func TestSampleOnUnitSphere(t *testing.T) {
	r := NewRng(5)
	var mean Vec3
	const n = 20000
	for i := 0; i < n; i++ {
		d := SampleOnUnitSphere(r.NextVec2())
		if math.Abs(d.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit direction, got length %f", d.Length())
		}
		mean = mean.Add(d)
	}
	if mean.Divide(n).Length() > 0.02 {
		t.Errorf("Expected uniform directions to average near zero, got %v", mean.Divide(n))
	}
}
