package loaders

import (
	"fmt"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/pkg/shape"
	"github.com/segmentio/encoding/json"
)

// memberReader reads the members of one object into values that already hold
// their defaults. Missing and null members are skipped; the first failure is
// kept in err and turns later reads into no-ops.
type memberReader struct {
	d   *sceneDecoder
	m   members
	typ string
	err error
}

func (r *memberReader) raw(name string) (json.RawMessage, bool) {
	if r.err != nil {
		return nil, false
	}
	raw, ok := r.m[name]
	if !ok || isNull(raw) {
		return nil, false
	}
	return raw, true
}

func (r *memberReader) fail(name string, err error) {
	if r.err != nil {
		return
	}
	r.err = errors.New("invalid scene member").
		WithType(ErrTypeInvalidScene).
		WithTag("type", r.typ).
		WithTag("member", name).
		Wrap(err)
}

func (r *memberReader) value(name string, v any) bool {
	raw, ok := r.raw(name)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		r.fail(name, err)
		return false
	}
	return true
}

func (r *memberReader) bool(name string, v *bool) { r.value(name, v) }
func (r *memberReader) int(name string, v *int) { r.value(name, v) }
func (r *memberReader) float(name string, v *float64) { r.value(name, v) }
func (r *memberReader) string(name string, v *string) { r.value(name, v) }
func (r *memberReader) floats(name string, v *[]float64) { r.value(name, v) }

// flat reads a flat number array whose length is a multiple of stride
func (r *memberReader) flat(name string, stride int) ([]float64, bool) {
	var a []float64
	if !r.value(name, &a) {
		return nil, false
	}
	if len(a)%stride != 0 {
		r.fail(name, errors.Newf("expected a multiple of %d values, got %d", stride, len(a)))
		return nil, false
	}
	return a, true
}

func (r *memberReader) vec3(name string, v *core.Vec3) {
	a, ok := r.flat(name, 3)
	if !ok {
		return
	}
	if len(a) != 3 {
		r.fail(name, errors.Newf("expected 3 values, got %d", len(a)))
		return
	}
	*v = core.NewVec3(a[0], a[1], a[2])
}

// vec3s reads a list of points stored as one flat array
func (r *memberReader) vec3s(name string, v *[]core.Vec3) {
	a, ok := r.flat(name, 3)
	if !ok {
		return
	}
	out := make([]core.Vec3, len(a)/3)
	for i := range out {
		out[i] = core.NewVec3(a[3*i], a[3*i+1], a[3*i+2])
	}
	*v = out
}

func (r *memberReader) vec2s(name string, v *[]core.Vec2) {
	a, ok := r.flat(name, 2)
	if !ok {
		return
	}
	out := make([]core.Vec2, len(a)/2)
	for i := range out {
		out[i] = core.NewVec2(a[2*i], a[2*i+1])
	}
	*v = out
}

// frame reads {"o": [...], "x": [...], "y": [...], "z": [...]} and
// orthonormalizes the axes
func (r *memberReader) frame(name string, v *core.Frame) {
	var raw struct {
		O []float64 `json:"o"`
		X []float64 `json:"x"`
		Y []float64 `json:"y"`
		Z []float64 `json:"z"`
	}
	if !r.value(name, &raw) {
		return
	}

	f := *v
	for _, axis := range []struct {
		values []float64
		dst    *core.Vec3
	}{{raw.O, &f.O}, {raw.X, &f.X}, {raw.Y, &f.Y}, {raw.Z, &f.Z}} {
		if axis.values == nil {
			continue
		}
		if len(axis.values) != 3 {
			r.fail(name, errors.Newf("expected 3 values per frame axis, got %d", len(axis.values)))
			return
		}
		*axis.dst = core.NewVec3(axis.values[0], axis.values[1], axis.values[2])
	}
	*v = f.Orthonormalize()
}

// readTuples reads index tuples stored as one flat array
func readTuples[T [2]int | [3]int | [4]int](r *memberReader, name string, v *[]T) {
	var zero T
	stride := len(zero)
	var a []int
	if !r.value(name, &a) {
		return
	}
	if len(a)%stride != 0 {
		r.fail(name, errors.Newf("expected a multiple of %d indices, got %d", stride, len(a)))
		return
	}
	out := make([]T, len(a)/stride)
	for i := range out {
		for j := 0; j < stride; j++ {
			out[i][j] = a[stride*i+j]
		}
	}
	*v = out
}

// readNode decodes the object member name into v, checking its kind
func readNode[T any](r *memberReader, name string, v *T) {
	raw, ok := r.raw(name)
	if !ok {
		return
	}
	obj, err := r.d.node(raw)
	if err != nil {
		r.fail(name, err)
		return
	}
	if obj == nil {
		return
	}
	t, ok := obj.(T)
	if !ok {
		r.fail(name, errors.Newf("unexpected object %s", typeName(obj)))
		return
	}
	*v = t
}

// readNodes decodes the object array member name into v
func readNodes[T any](r *memberReader, name string, v *[]T) {
	raw, ok := r.raw(name)
	if !ok {
		return
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		r.fail(name, err)
		return
	}

	out := make([]T, 0, len(list))
	for i, item := range list {
		obj, err := r.d.node(item)
		if err != nil {
			r.fail(name, err)
			return
		}
		t, ok := obj.(T)
		if !ok {
			r.fail(name, errors.Newf("unexpected object %s at %d", typeName(obj), i))
			return
		}
		out = append(out, t)
	}
	*v = out
}

func typeName(obj any) string {
	if obj == nil {
		return "null"
	}
	return fmt.Sprintf("%T", obj)
}

func (r *memberReader) texture() any {
	var filename string
	flipY := true
	r.string("filename", &filename)
	r.bool("flipy", &flipY)
	if r.err != nil {
		return nil
	}
	if filename == "" {
		r.fail("filename", errors.New("texture has no file name"))
		return nil
	}

	texture, err := LoadTexture(r.d.resolve(filename), flipY)
	if err != nil {
		r.fail("filename", err)
		return nil
	}
	return texture
}

// plyMesh reads {"_type": "PlyMesh", "filename": ..., "smooth": ...} into a
// mesh; smooth computes vertex normals when the file has none
func (r *memberReader) plyMesh() any {
	var filename string
	var smooth bool
	accelerate := true
	r.string("filename", &filename)
	r.bool("smooth", &smooth)
	r.bool("intersect_accelerator_use", &accelerate)
	if r.err != nil {
		return nil
	}

	data, err := LoadPLY(r.d.resolve(filename))
	if err != nil {
		r.fail("filename", err)
		return nil
	}
	m := data.Mesh()
	m.AcceleratorUse = accelerate
	if smooth && m.Norm == nil {
		shape.SmoothFrames(m)
	}
	return m
}

func (r *memberReader) raytraceOptions(opts *renderer.RaytraceOptions) {
	r.int("res", &opts.Res)
	r.int("samples", &opts.Samples)
	r.bool("doublesided", &opts.DoubleSided)
	r.float("time", &opts.Time)
	r.vec3("background", &opts.Background)
	r.vec3("ambient", &opts.Ambient)
	r.bool("cameralights", &opts.CameraLights)
	r.vec3s("cameralights_dir", &opts.CameraLightsDir)
	r.vec3s("cameralights_col", &opts.CameraLightsColor)
	r.int("max_depth", &opts.MaxDepth)
	r.bool("shadows", &opts.Shadows)
	r.bool("reflections", &opts.Reflections)

	if r.err == nil && len(opts.CameraLightsDir) != len(opts.CameraLightsColor) {
		r.fail("cameralights_col", errors.New("camera light directions and colors differ in count"))
	}
	if r.err == nil && (opts.Res <= 0 || opts.Samples <= 0) {
		r.fail("res", errors.Newf("resolution and samples must be positive, got %d and %d", opts.Res, opts.Samples))
	}
}

// keyframes checks that every segment between two key times owns exactly
// degree+1 values
func (r *memberReader) keyframes(k *scene.KeyframedValue) {
	if r.err != nil {
		return
	}
	switch {
	case k.Degree < 0:
		r.fail("degree", errors.Newf("degree must not be negative, got %d", k.Degree))
	case len(k.Times) < 2:
		r.fail("times", errors.Newf("expected at least 2 key times, got %d", len(k.Times)))
	case len(k.Values) != (len(k.Times)-1)*(k.Degree+1):
		r.fail("values", errors.Newf("expected %d values for %d segments of degree %d, got %d",
			(len(k.Times)-1)*(k.Degree+1), len(k.Times)-1, k.Degree, len(k.Values)))
	}
	for i := 1; r.err == nil && i < len(k.Times); i++ {
		if k.Times[i] <= k.Times[i-1] {
			r.fail("times", errors.Newf("key times must increase, got %g after %g", k.Times[i], k.Times[i-1]))
		}
	}
}

// distributionOptions also accepts "occlusion", which only documents intent:
// ambient occlusion runs whenever samples_ambient is positive
func (r *memberReader) distributionOptions(opts *renderer.DistributionRaytraceOptions) {
	r.raytraceOptions(&opts.RaytraceOptions)
	r.bool("DOF", &opts.DOF)
	r.bool("disk", &opts.Disk)
	r.bool("soft_shadows", &opts.SoftShadows)
	r.int("samples_ambient", &opts.SamplesAmbient)
	r.int("samples_reflect", &opts.SamplesReflect)

	var occlusion bool
	r.bool("occlusion", &occlusion)
	if r.err == nil && occlusion && opts.SamplesAmbient == 0 {
		logger.Warningf("occlusion requested without samples_ambient; ambient occlusion stays off")
	}
}
