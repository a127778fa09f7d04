package renderer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	integratorLabel = "integrator"

	integratorWhitted      = "whitted"
	integratorDistribution = "distribution"
)

var (
	raysTraced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raytracer_rays_traced",
		Help: "The number of camera, shadow, occlusion and reflection rays traced.",
	}, []string{
		integratorLabel,
	})

	samplesTaken = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raytracer_samples",
		Help: "The number of pixel samples accumulated.",
	}, []string{
		integratorLabel,
	})

	passesRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raytracer_passes",
		Help: "The number of progressive passes over the image.",
	}, []string{
		integratorLabel,
	})

	passLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "raytracer_pass_latency",
		Help:    "The time to render one progressive pass.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
	}, []string{
		integratorLabel,
	})
)

func recordPass(integrator string, samples, rays int) {
	labels := prometheus.Labels{integratorLabel: integrator}
	passesRendered.With(labels).Inc()
	samplesTaken.With(labels).Add(float64(samples))
	raysTraced.With(labels).Add(float64(rays))
}

func instrumentPassLatency(integrator string, start time.Time) {
	passLatency.With(prometheus.Labels{
		integratorLabel: integrator,
	}).Observe(time.Since(start).Seconds())
}
