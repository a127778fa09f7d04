package renderer

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/stretchr/testify/require"
)

func TestImageBuffer(t *testing.T) {
	buf := NewImageBuffer(2, 2)
	require.Equal(t, core.Vec3{}, buf.Color(0, 0))

	buf.AddSample(1, 0, core.NewVec3(1, 0, 0))
	buf.AddSample(1, 0, core.NewVec3(0, 1, 0))
	buf.AddSample(0, 1, core.Splat(4))

	require.Equal(t, 2, buf.SampleCount(1, 0))
	require.Equal(t, core.NewVec3(0.5, 0.5, 0), buf.Color(1, 0))

	img := buf.Image(1)
	require.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(0, 0))
	require.Equal(t, color.RGBA{128, 128, 0, 255}, img.RGBAAt(1, 0))
	require.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(0, 1), "values above one clamp")

	gamma := buf.Image(0.5)
	require.Equal(t, uint8(180), gamma.RGBAAt(1, 0).R)

	buf.Clear()
	require.Equal(t, 0, buf.SampleCount(1, 0))
	require.Equal(t, core.Vec3{}, buf.Accum[1])
}

func TestImageBuffer_AverageLuminance(t *testing.T) {
	tests := []struct {
		name     string
		colors   []core.Vec3
		expected float64
	}{
		{"white", []core.Vec3{core.Splat(1), core.Splat(1)}, 1},
		{"black and white", []core.Vec3{{}, core.Splat(1)}, 0.5},
		{"primaries", []core.Vec3{{X: 1}, {Y: 1}}, (0.299 + 0.587) / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewImageBuffer(len(tt.colors), 1)
			for x, c := range tt.colors {
				buf.AddSample(x, 0, c)
			}
			require.InDelta(t, tt.expected, buf.AverageLuminance(), 1e-9)
		})
	}
}

func TestComputeStats(t *testing.T) {
	buf := NewImageBuffer(2, 1)
	buf.AddSample(0, 0, core.Vec3{})
	buf.AddSample(0, 0, core.Vec3{})
	buf.AddSample(0, 0, core.Vec3{})
	buf.AddSample(1, 0, core.Vec3{})

	stats := computeStats(buf)
	require.Equal(t, 2, stats.TotalPixels)
	require.Equal(t, 4, stats.TotalSamples)
	require.Equal(t, 1, stats.MinSamples)
	require.Equal(t, 3, stats.MaxSamplesUsed)
	require.InDelta(t, 2.0, stats.AverageSamples, 1e-9)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultRaytraceOptions()
	require.Equal(t, 512, opts.Res)
	require.Equal(t, 4, opts.Samples)
	require.True(t, opts.DoubleSided)
	require.True(t, opts.Shadows)
	require.True(t, opts.Reflections)
	require.False(t, opts.CameraLights)
	require.Equal(t, 4, opts.MaxDepth)
	require.Equal(t, core.Splat(0.1), opts.Ambient)
	require.Len(t, opts.CameraLightsDir, 3)
	require.Len(t, opts.CameraLightsColor, 3)
	require.NotNil(t, opts.Rng)

	dist := DefaultDistributionRaytraceOptions()
	require.Equal(t, 0, dist.SamplesAmbient)
	require.Equal(t, 1, dist.SamplesReflect)
	require.False(t, dist.SoftShadows)
	require.False(t, dist.DOF)
	require.False(t, dist.Disk)
	require.Equal(t, 512, dist.Res)
}

func testRenderer(samples int) *Renderer {
	s := scene.NewDefaultScene()
	opts := DefaultRaytraceOptions()
	opts.Res = 12
	opts.Samples = samples
	opts.CameraLights = true
	return NewRenderer(s, opts, log.New("renderer-test"))
}

func TestRenderer_Render(t *testing.T) {
	r := testRenderer(4)
	require.Equal(t, 12, r.Buffer().Height)
	require.Equal(t, 4, r.Passes)

	var passes []int
	stats, err := r.Render(context.Background(), func(result PassResult) error {
		passes = append(passes, result.PassNumber)
		require.Equal(t, result.PassNumber, result.Stats.MinSamples)
		require.Equal(t, r.Buffer().Width, result.Image.Bounds().Dx())
		require.Equal(t, result.PassNumber == 4, result.IsLast)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4}, passes)
	require.Equal(t, 4, stats.Passes)
	require.InDelta(t, 4.0, stats.AverageSamples, 1e-9)
	require.Greater(t, r.Buffer().AverageLuminance(), 0.0)
}

func TestRenderer_StopsOnCallbackError(t *testing.T) {
	r := testRenderer(4)
	stop := errors.New("stop")

	stats, err := r.Render(context.Background(), func(result PassResult) error {
		if result.PassNumber == 2 {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 2, stats.Passes)
}

func TestRenderer_Cancelled(t *testing.T) {
	r := testRenderer(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, r.Buffer().SampleCount(0, 0))
}

func TestRenderer_RenderProgressive(t *testing.T) {
	r := testRenderer(2)
	passChan, errChan := r.RenderProgressive(context.Background())

	var results []PassResult
	for result := range passChan {
		results = append(results, result)
	}
	require.NoError(t, <-errChan)
	require.Len(t, results, 2)
	require.True(t, results[1].IsLast)
}

func TestNewDistributionRenderer(t *testing.T) {
	s := scene.NewDefaultScene()
	opts := DefaultDistributionRaytraceOptions()
	opts.Res = 8
	opts.Samples = 1
	opts.SamplesAmbient = 2

	r := NewDistributionRenderer(s, &opts, log.New("renderer-test"))
	_, err := r.Render(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, r.Buffer().SampleCount(0, 0))

	// the animated sphere was frozen before acceleration
	_, _, animated := s.AnimationInterval()
	require.False(t, animated)
}

func TestWriteReport(t *testing.T) {
	s := scene.NewCornellScene()
	s.Accelerate()

	var buf bytes.Buffer
	WriteReport(&buf, RenderStats{TotalPixels: 4, TotalSamples: 8, AverageSamples: 2, Passes: 2}, s.Stats())
	out := buf.String()
	for _, expected := range []string{"Pixels", "Passes", "Primitives", "Group BVH", "Render time"} {
		if !strings.Contains(out, expected) {
			t.Errorf("Expected report to contain %q:\n%s", expected, out)
		}
	}
}
