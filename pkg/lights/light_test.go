package lights

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestSampleShadow_PointLight(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 4, 0))
	light.Intensity = core.Splat(8)

	ss := SampleShadow(light, core.NewVec3(0, 0, 0), core.Vec2{}, false)

	if ss.Dir.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-9 {
		t.Errorf("Expected direction (0,1,0), got %v", ss.Dir)
	}
	if math.Abs(ss.Dist-4) > 1e-9 {
		t.Errorf("Expected distance 4, got %v", ss.Dist)
	}
	if math.Abs(ss.Radiance.X-0.5) > 1e-9 {
		t.Errorf("Expected radiance 8/16, got %v", ss.Radiance)
	}
	require.Equal(t, 1.0, ss.PDF)
}

func TestSampleShadow_DirectionalLight(t *testing.T) {
	light := NewDirectionalLight()
	LookAt(light, core.NewVec3(0, 10, 0), core.Vec3{}, core.NewVec3(0, 0, 1))

	ss := SampleShadow(light, core.NewVec3(3, -2, 5), core.Vec2{}, false)
	if ss.Dir.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-9 {
		t.Errorf("Expected direction toward the light (0,1,0), got %v", ss.Dir)
	}
	require.Equal(t, core.RayInfinity, ss.Dist)
	require.Equal(t, light.Intensity, ss.Radiance)
}

func TestSampleShadow_AreaLight(t *testing.T) {
	light := NewAreaLight()
	light.Shape.Width, light.Shape.Height = 2, 2
	LookAt(light, core.NewVec3(0, 2, 0), core.Vec3{}, core.NewVec3(0, 0, 1))

	tests := []struct {
		name      string
		point     core.Vec3
		expectRad float64
	}{
		{"below the light", core.NewVec3(0, 0, 0), 0.25},
		{"behind the light", core.NewVec3(0, 4, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss := SampleShadow(light, tt.point, core.Vec2{}, false)
			if math.Abs(ss.Radiance.X-tt.expectRad) > 1e-9 {
				t.Errorf("Expected radiance %v, got %v", tt.expectRad, ss.Radiance.X)
			}
			if math.Abs(ss.PDF-0.25) > 1e-9 {
				t.Errorf("Expected pdf 1/4, got %v", ss.PDF)
			}
		})
	}
}

func TestSampleShadow_AreaLightMonteCarloStaysOnQuad(t *testing.T) {
	light := NewAreaLight()
	light.Shape.Width, light.Shape.Height = 2, 1
	LookAt(light, core.NewVec3(0, 2, 0), core.Vec3{}, core.NewVec3(0, 0, 1))

	p := core.Vec3{}
	random := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		ss := SampleShadow(light, p, core.NewVec2(random.Float64(), random.Float64()), true)
		onLight := p.Add(ss.Dir.Multiply(ss.Dist))

		require.InDelta(t, 2.0, onLight.Y, 1e-9)
		local := light.Frame.InverseTransformPoint(onLight)
		require.LessOrEqual(t, math.Abs(local.X), 1.0+1e-9)
		require.LessOrEqual(t, math.Abs(local.Y), 0.5+1e-9)
	}
}

func TestSampleShadow_EnvLight(t *testing.T) {
	light := NewEnvLight()
	ss := SampleShadow(light, core.NewVec3(0, 0, -3), core.Vec2{}, false)
	if ss.Dir.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Expected direction (0,0,1), got %v", ss.Dir)
	}
	require.InDelta(t, math.Pi, ss.Radiance.X, 1e-9)
	require.Equal(t, light.Intensity, Background(light, core.NewVec3(1, 0, 0)))
	require.True(t, Background(NewPointLight(core.Vec3{}), core.NewVec3(1, 0, 0)).IsZero())
}

func TestShadowSamples(t *testing.T) {
	tests := []struct {
		name     string
		light    Light
		expected int
	}{
		{"point", NewPointLight(core.Vec3{}), 1},
		{"directional", NewDirectionalLight(), 1},
		{"area", NewAreaLight(), 16},
		{"env", NewEnvLight(), 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShadowSamples(tt.light); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}
