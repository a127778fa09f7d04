package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// keyframeEpsilon keeps the last key time inside the final segment
const keyframeEpsilon = 1e-8

// KeyframedValue is a piecewise Bezier curve over time. Segment i spans
// Times[i] to Times[i+1] and owns Degree+1 control values.
type KeyframedValue struct {
	Times  []float64
	Values []core.Vec3
	Degree int
}

// Segments returns the number of curve segments
func (k *KeyframedValue) Segments() int {
	return len(k.Values) / (k.Degree + 1)
}

// Interval returns the first and last key times
func (k *KeyframedValue) Interval() (float64, float64) {
	if len(k.Times) == 0 {
		return 0, 0
	}
	return k.Times[0], k.Times[len(k.Times)-1]
}

// Value evaluates the curve at time, clamped to the key range
func (k *KeyframedValue) Value(time float64) core.Vec3 {
	if len(k.Times) < 2 || len(k.Values) == 0 {
		if len(k.Values) > 0 {
			return k.Values[0]
		}
		return core.Vec3{}
	}

	lo, hi := k.Interval()
	time = math.Max(lo, math.Min(time, hi-keyframeEpsilon))

	seg := 0
	for seg < len(k.Times)-2 && seg < k.Segments()-1 && k.Times[seg+1] < time {
		seg++
	}
	t := (time - k.Times[seg]) / (k.Times[seg+1] - k.Times[seg])

	var value core.Vec3
	for i := 0; i <= k.Degree; i++ {
		value = value.Add(k.Values[seg*(k.Degree+1)+i].Multiply(bernstein(t, i, k.Degree)))
	}
	return value
}

// bernstein is the i-th Bernstein basis polynomial of degree n
func bernstein(t float64, i, n int) float64 {
	return float64(binomial(n, i)) * math.Pow(t, float64(i)) * math.Pow(1-t, float64(n-i))
}

func binomial(n, k int) int {
	r := 1
	for i := 1; i <= k; i++ {
		r = r * (n - k + i) / i
	}
	return r
}
