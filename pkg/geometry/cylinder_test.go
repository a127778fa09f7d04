package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestIntersectCylinder(t *testing.T) {
	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{
			name:      "Side hit from outside",
			ray:       core.NewRay(core.NewVec3(-5, 0, 0.5), core.NewVec3(1, 0, 0)),
			shouldHit: true,
			expectedT: 4,
		},
		{
			name:      "Hit below base is rejected",
			ray:       core.NewRay(core.NewVec3(-5, 0, -0.5), core.NewVec3(1, 0, 0)),
			shouldHit: false,
		},
		{
			name:      "Hit above top is rejected",
			ray:       core.NewRay(core.NewVec3(-5, 0, 1.5), core.NewVec3(1, 0, 0)),
			shouldHit: false,
		},
		{
			name:      "Ray along the axis never hits the open tube",
			ray:       core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Entering through the open top hits the far wall",
			ray:       core.NewRay(core.NewVec3(-2, 0, 3.5), core.NewVec3(1, 0, -1).Normalize()),
			shouldHit: true,
			expectedT: math.Sqrt(2) * 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tHit, ok := IntersectCylinder(tt.ray, 1, 1)
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, ok)
			}
			if ok && math.Abs(tHit-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, tHit)
			}
		})
	}
}
