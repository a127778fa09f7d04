package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// tracer shades rays for one integrator call. dist is nil for the Whitted
// tracer, which then never touches the random generator.
type tracer struct {
	scene *scene.Scene
	opts  *RaytraceOptions
	dist  *DistributionRaytraceOptions
	rays  int
}

// RaytraceSceneProgressive adds one Whitted sample to every pixel of buf.
// Successive calls walk a sqrt(Samples) x sqrt(Samples) stratified grid inside
// each pixel, so Samples calls cover every stratum once.
func RaytraceSceneProgressive(buf *ImageBuffer, s *scene.Scene, opts RaytraceOptions) {
	t := &tracer{scene: s, opts: &opts}
	t.stratifiedPass(buf)
	recordPass(integratorWhitted, buf.Width*buf.Height, t.rays)
}

// DistraytraceSceneProgressive adds distribution ray traced samples to every
// pixel of buf: one stratified sample, or sqrt(Samples) lens samples when
// depth of field is enabled. opts.Rng advances with every random decision.
func DistraytraceSceneProgressive(buf *ImageBuffer, s *scene.Scene, opts *DistributionRaytraceOptions) {
	if opts.Rng == nil {
		opts.Rng = core.NewRng(DefaultSeed)
	}
	t := &tracer{scene: s, opts: &opts.RaytraceOptions, dist: opts}
	if !opts.DOF {
		t.stratifiedPass(buf)
		recordPass(integratorDistribution, buf.Width*buf.Height, t.rays)
		return
	}

	w, h := buf.Width, buf.Height
	s2 := strata(opts.Samples)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			for k := 0; k < s2; k++ {
				buf.AddSample(i, h-1-j, t.trace(t.lensRay(i, j, w, h), 0))
			}
		}
	}
	recordPass(integratorDistribution, w*h*s2, t.rays)
}

// strata is the side of the per-pixel sample grid
func strata(samples int) int {
	return max(1, int(math.Sqrt(float64(samples))))
}

// stratumUV returns the image point of the stratum after count samples of
// pixel (i, j), counted from the bottom left
func stratumUV(i, j, w, h, s2, count int) core.Vec2 {
	cs := count % (s2 * s2)
	ii, jj := cs%s2, cs/s2
	return core.NewVec2(
		(float64(i)+(float64(ii)+0.5)/float64(s2))/float64(w),
		(float64(j)+(float64(jj)+0.5)/float64(s2))/float64(h),
	)
}

func (t *tracer) stratifiedPass(buf *ImageBuffer) {
	w, h := buf.Width, buf.Height
	s2 := strata(t.opts.Samples)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			uv := stratumUV(i, j, w, h, s2, buf.SampleCount(i, h-1-j))
			buf.AddSample(i, h-1-j, t.trace(t.scene.Camera.Ray(uv), 0))
		}
	}
}

// lensRay jitters the pixel footprint and the lens position of pixel (i, j)
func (t *tracer) lensRay(i, j, w, h int) core.Ray {
	rng := t.opts.Rng
	var ri, si core.Vec2
	if t.dist.Disk {
		ri = rng.NextVec2InDisk()
		si = rng.NextVec2InDisk()
	} else {
		ri = rng.NextVec2()
		si = rng.NextVec2()
	}
	uv := core.NewVec2((float64(i)+ri.X)/float64(w), (float64(j)+ri.Y)/float64(h))
	return t.scene.Camera.LensRay(uv, si)
}

// trace returns the radiance along ray, recursing on mirror and glossy
// reflections until depth reaches MaxDepth
func (t *tracer) trace(ray core.Ray, depth int) core.Vec3 {
	t.rays++
	isec, ok := t.scene.IntersectFirst(ray)
	if !ok {
		return t.opts.Background
	}

	frame := isec.Frame
	wo := ray.Direction.Negate()
	if t.opts.DoubleSided {
		frame = frame.FaceForward(ray.Direction)
	}
	brdf := material.ShadingTextures(isec.Material, isec.Texcoord)

	c := t.ambient(frame, brdf)
	c = c.Add(material.Emission(brdf, frame, wo))
	for _, l := range t.scene.ActiveLights(t.opts.CameraLights) {
		c = c.Add(t.direct(l, frame, brdf, wo))
	}

	if t.opts.Reflections && depth < t.opts.MaxDepth {
		c = c.Add(t.reflection(frame, brdf, wo, depth))
	}
	return c
}

// ambient is the ambient term, scaled by the unoccluded fraction of the
// hemisphere when ambient occlusion is on
func (t *tracer) ambient(frame core.Frame, brdf material.Material) core.Vec3 {
	albedo := t.opts.Ambient.MultiplyVec(material.DiffuseAlbedo(brdf))
	if t.dist == nil || t.dist.SamplesAmbient <= 0 {
		return albedo
	}

	escaped := 0
	for i := 0; i < t.dist.SamplesAmbient; i++ {
		ds := core.SampleHemisphericalCos(t.opts.Rng.NextVec2())
		t.rays++
		if !t.scene.IntersectAny(core.NewRay(frame.O, frame.TransformDirection(ds.Dir))) {
			escaped++
		}
	}
	return albedo.Multiply(float64(escaped) / float64(t.dist.SamplesAmbient))
}

// direct is the light reaching the shading point from l. Area lights are
// averaged over ShadowSamples points when soft shadows are on.
func (t *tracer) direct(l lights.Light, frame core.Frame, brdf material.Material, wo core.Vec3) core.Vec3 {
	if _, area := l.(*lights.AreaLight); area && t.dist != nil && t.dist.SoftShadows {
		n := max(1, lights.ShadowSamples(l))
		var acc core.Vec3
		for i := 0; i < n; i++ {
			acc = acc.Add(t.shadowed(l, frame, brdf, wo, t.opts.Rng.NextVec2(), true))
		}
		return acc.Divide(float64(n))
	}
	return t.shadowed(l, frame, brdf, wo, core.Vec2{}, false)
}

func (t *tracer) shadowed(l lights.Light, frame core.Frame, brdf material.Material, wo core.Vec3, sample core.Vec2, montecarlo bool) core.Vec3 {
	ss := lights.SampleShadow(l, frame.O, sample, montecarlo)
	if ss.Radiance.IsZero() {
		return core.Vec3{}
	}
	cl := ss.Radiance.MultiplyVec(material.BRDFCos(brdf, frame, ss.Dir, wo)).Divide(ss.PDF)
	if cl.IsZero() {
		return core.Vec3{}
	}
	if t.opts.Shadows {
		t.rays++
		if t.scene.IntersectAny(core.NewSegment(frame.O, frame.O.Add(ss.Dir.Multiply(ss.Dist)))) {
			return core.Vec3{}
		}
	}
	return cl
}

// reflection traces the mirror direction, or averages SamplesReflect glossy
// directions for blurry Phong materials in the distribution tracer
func (t *tracer) reflection(frame core.Frame, brdf material.Material, wo core.Vec3, depth int) core.Vec3 {
	if p, ok := brdf.(*material.Phong); ok && t.dist != nil && p.BlurSize > 0 {
		n := max(1, t.dist.SamplesReflect)
		var acc core.Vec3
		for i := 0; i < n; i++ {
			bs := material.SampleBlurryReflection(brdf, frame, wo, t.opts.Rng.NextVec2())
			if bs.BRDFCos.IsZero() {
				continue
			}
			acc = acc.Add(t.trace(core.NewRay(frame.O, bs.Wi), depth+1).MultiplyVec(bs.BRDFCos))
		}
		return acc.Divide(float64(n))
	}

	bs := material.SampleReflection(brdf, frame, wo)
	if bs.BRDFCos.IsZero() {
		return core.Vec3{}
	}
	return t.trace(core.NewRay(frame.O, bs.Wi), depth+1).MultiplyVec(bs.BRDFCos)
}
