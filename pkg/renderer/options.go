package renderer

import "github.com/df07/go-whitted-raytracer/pkg/core"

// DefaultSeed seeds the generator of default options
const DefaultSeed = 1

// RaytraceOptions configures the Whitted ray tracer
type RaytraceOptions struct {
	Res         int     // image height in pixels; the width follows the camera aspect
	Samples     int     // samples per pixel, stratified on a sqrt(Samples) grid
	DoubleSided bool    // shade back faces as front faces
	Time        float64 // animation time of the rendered frame

	Background core.Vec3
	Ambient    core.Vec3

	CameraLights      bool
	CameraLightsDir   []core.Vec3 // in the camera frame
	CameraLightsColor []core.Vec3

	Shadows     bool
	Reflections bool
	MaxDepth    int // reflection recursion bound

	Rng *core.Rng
}

// DefaultRaytraceOptions returns the default Whitted options
func DefaultRaytraceOptions() RaytraceOptions {
	return RaytraceOptions{
		Res:         512,
		Samples:     4,
		DoubleSided: true,
		Ambient:     core.Splat(0.1),
		CameraLightsDir: []core.Vec3{
			core.NewVec3(1, -1, -1),
			core.NewVec3(-1, -1, -1),
			core.NewVec3(-1, 1, 0),
		},
		CameraLightsColor: []core.Vec3{core.Splat(1), core.Splat(0.5), core.Splat(0.25)},
		Shadows:           true,
		Reflections:       true,
		MaxDepth:          4,
		Rng:               core.NewRng(DefaultSeed),
	}
}

// DistributionRaytraceOptions extends the Whitted options with the Monte-Carlo
// effects of the distribution ray tracer
type DistributionRaytraceOptions struct {
	RaytraceOptions

	SamplesAmbient int  // ambient occlusion rays per hit, 0 disables occlusion
	SamplesReflect int  // glossy reflection rays per hit
	SoftShadows    bool // sample area lights over their surface
	DOF            bool // thin-lens depth of field
	Disk           bool // sample the lens and pixel footprint in a disk
}

// DefaultDistributionRaytraceOptions returns the default distribution options
func DefaultDistributionRaytraceOptions() DistributionRaytraceOptions {
	return DistributionRaytraceOptions{
		RaytraceOptions: DefaultRaytraceOptions(),
		SamplesReflect:  1,
	}
}
