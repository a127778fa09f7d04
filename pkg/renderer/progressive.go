package renderer

import (
	"context"
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/google/uuid"
)

// DefaultGamma is the display gamma applied to pass images
const DefaultGamma = 1 / 2.2

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// Renderer drives one of the progressive integrators over a scene, one pass
// per call, until the requested number of passes is reached. The buffer and
// the options' generator are owned by the renderer for its lifetime.
type Renderer struct {
	ID     uuid.UUID
	Gamma  float64
	Passes int

	scene      *scene.Scene
	buffer     *ImageBuffer
	integrator string
	pass       func()
	logger     log.Logger
}

// NewRenderer prepares s for Whitted ray tracing with opts and allocates a
// buffer of opts.Res rows
func NewRenderer(s *scene.Scene, opts RaytraceOptions, logger log.Logger) *Renderer {
	r := newRenderer(s, &opts, integratorWhitted, logger)
	r.pass = func() { RaytraceSceneProgressive(r.buffer, s, opts) }
	return r
}

// NewDistributionRenderer prepares s for distribution ray tracing with opts
func NewDistributionRenderer(s *scene.Scene, opts *DistributionRaytraceOptions, logger log.Logger) *Renderer {
	r := newRenderer(s, &opts.RaytraceOptions, integratorDistribution, logger)
	r.pass = func() { DistraytraceSceneProgressive(r.buffer, s, opts) }
	return r
}

func newRenderer(s *scene.Scene, opts *RaytraceOptions, integrator string, logger log.Logger) *Renderer {
	PrepareScene(s, opts)
	width, height := s.Camera.ImageSize(opts.Res)
	return &Renderer{
		ID:         uuid.New(),
		Gamma:      DefaultGamma,
		Passes:     max(1, opts.Samples),
		scene:      s,
		buffer:     NewImageBuffer(width, height),
		integrator: integrator,
		logger:     logger,
	}
}

// PrepareScene freezes the scene animation at opts.Time, refreshes the
// camera lights when they are used and rebuilds the accelerators
func PrepareScene(s *scene.Scene, opts *RaytraceOptions) {
	s.AnimationSnapshot(opts.Time)
	if opts.CameraLights {
		s.UpdateCameraLights(opts.CameraLightsDir, opts.CameraLightsColor)
	}
	s.Accelerate()
}

// Buffer returns the accumulation buffer
func (r *Renderer) Buffer() *ImageBuffer {
	return r.buffer
}

// Render runs the passes in order, calling onPass after each one. It stops
// early when ctx is cancelled between passes or when onPass returns an error.
func (r *Renderer) Render(ctx context.Context, onPass func(PassResult) error) (RenderStats, error) {
	r.logger.Infof("render %s: %dx%d, %d passes, %s integrator", r.ID, r.buffer.Width, r.buffer.Height, r.Passes, r.integrator)

	start := time.Now()
	var stats RenderStats
	for pass := 1; pass <= r.Passes; pass++ {
		select {
		case <-ctx.Done():
			r.logger.Warningf("render %s cancelled before pass %d", r.ID, pass)
			return stats, ctx.Err()
		default:
		}

		passStart := time.Now()
		r.pass()
		instrumentPassLatency(r.integrator, passStart)

		stats = computeStats(r.buffer)
		stats.Passes = pass
		stats.Elapsed = time.Since(start)
		r.logger.Debugf("pass %02d/%02d completed in %v", pass, r.Passes, time.Since(passStart))

		if onPass == nil {
			continue
		}
		result := PassResult{
			PassNumber: pass,
			Image:      r.buffer.Image(r.Gamma),
			Stats:      stats,
			IsLast:     pass == r.Passes,
		}
		if err := onPass(result); err != nil {
			return stats, err
		}
	}

	r.logger.Infof("render %s finished in %v (%.1f samples/pixel)", r.ID, stats.Elapsed, stats.AverageSamples)
	return stats, nil
}

// RenderProgressive runs Render in a goroutine and streams the pass results.
// Both channels are closed when rendering stops; at most one error is sent.
func (r *Renderer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		_, err := r.Render(ctx, func(result PassResult) error {
			select {
			case passChan <- result:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errChan <- err
		}
	}()

	return passChan, errChan
}
