package core

import (
	"math"
	"math/rand"
)

// Rng is the random number generator carried by the render options.
// Successive calls mutate its state; it is not safe for concurrent use.
type Rng struct {
	random *rand.Rand
}

// NewRng creates a generator with the given seed
func NewRng(seed int64) *Rng {
	return &Rng{random: rand.New(rand.NewSource(seed))}
}

// Seed resets the generator state
func (r *Rng) Seed(seed int64) {
	r.random.Seed(seed)
}

// NextFloat returns a random float64 in [0, 1)
func (r *Rng) NextFloat() float64 {
	return r.random.Float64()
}

// NextVec2 returns two random float64 values in [0, 1)
func (r *Rng) NextVec2() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// NextVec2InDisk draws pairs in [0, 1)^2 until the pair maps inside the unit disk
// centered at (0.5, 0.5)
func (r *Rng) NextVec2InDisk() Vec2 {
	for {
		s := r.NextVec2()
		if s.Multiply(2).Subtract(NewVec2(1, 1)).Length() <= 1 {
			return s
		}
	}
}

// DirectionSample is a sampled direction with its probability density
type DirectionSample struct {
	Dir Vec3
	PDF float64
}

// SampleHemisphericalCos samples a cosine-weighted direction around +Z
func SampleHemisphericalCos(sample Vec2) DirectionSample {
	z := math.Sqrt(sample.Y)
	r := math.Sqrt(1 - z*z)
	phi := 2 * math.Pi * sample.X
	return DirectionSample{Dir: NewVec3(r*math.Cos(phi), r*math.Sin(phi), z), PDF: z / math.Pi}
}

// HemisphericalCosPDF returns the density of SampleHemisphericalCos for w
func HemisphericalCosPDF(w Vec3) float64 {
	if w.Z <= 0 {
		return 0
	}
	return w.Z / math.Pi
}

// SampleOnUnitSphere generates a uniform direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}
