// Package scene assembles cameras, lights and primitives into a renderable
// scene and answers nearest-hit and visibility queries against it.
package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/accel"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/shape"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera *Camera
	Lights []lights.Light
	Prims  *PrimitiveGroup

	// CameraLights replace Lights when a renderer asks for camera lighting
	CameraLights []lights.Light
}

// NewScene creates an empty scene with a default camera
func NewScene() *Scene {
	return &Scene{Camera: NewCamera(), Prims: NewPrimitiveGroup()}
}

// Add appends primitives to the scene
func (s *Scene) Add(prims ...Primitive) {
	s.Prims.Prims = append(s.Prims.Prims, prims...)
}

// Accelerate (re)builds every accelerator in the scene. It must be called
// after any geometry edit and before tracing.
func (s *Scene) Accelerate() {
	s.Prims.Accelerate()
}

// Bounds returns the world box of all primitives
func (s *Scene) Bounds() core.AABB {
	return s.Prims.Bounds()
}

// IntersectFirst returns the nearest hit of the ray with the scene
func (s *Scene) IntersectFirst(ray core.Ray) (Intersection, bool) {
	return s.Prims.IntersectFirst(ray)
}

// IntersectAny reports whether anything blocks the ray within its range
func (s *Scene) IntersectAny(ray core.Ray) bool {
	return s.Prims.IntersectAny(ray)
}

// ActiveLights returns the camera lights when requested, else the scene lights
func (s *Scene) ActiveLights(cameraLights bool) []lights.Light {
	if cameraLights {
		return s.CameraLights
	}
	return s.Lights
}

// UpdateCameraLights makes one directional light per direction, with
// directions given in the camera frame
func (s *Scene) UpdateCameraLights(dirs, colors []core.Vec3) {
	if len(s.CameraLights) != len(dirs) {
		s.CameraLights = make([]lights.Light, len(dirs))
		for i := range dirs {
			s.CameraLights[i] = lights.NewDirectionalLight()
		}
	}
	for i, dir := range dirs {
		f := s.Camera.Frame
		f.Z = s.Camera.Frame.TransformDirection(dir.Normalize())
		light := s.CameraLights[i].(*lights.DirectionalLight)
		light.Frame = f.Orthonormalize()
		light.Intensity = colors[i]
	}
}

// AnimationInterval returns the union of all primitive animation intervals;
// ok is false for a static scene
func (s *Scene) AnimationInterval() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range s.Prims.Prims {
		ts, isTransformed := p.(*TransformedSurface)
		if !isTransformed {
			continue
		}
		if plo, phi, animated := ts.AnimationInterval(); animated {
			lo, hi, ok = math.Min(lo, plo), math.Max(hi, phi), true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// AnimationSnapshot freezes every animated primitive at time
func (s *Scene) AnimationSnapshot(time float64) {
	for _, p := range s.Prims.Prims {
		if ts, ok := p.(*TransformedSurface); ok {
			ts.Snapshot(time)
		}
	}
}

// Tesselate replaces every sphere, cylinder and quad by a mesh at level; a
// negative level restores the analytic shapes
func (s *Scene) Tesselate(level int) {
	for _, p := range s.Prims.Prims {
		var sh shape.Shape
		switch p := p.(type) {
		case *Surface:
			sh = p.Shape
		case *TransformedSurface:
			sh = p.Shape
		}
		if level < 0 {
			shape.ClearTesselation(sh)
		} else {
			shape.Tesselate(sh, level)
		}
	}
}

// Stats summarizes the geometry of a scene
type Stats struct {
	Primitives  int
	Elements    int
	Lights      int
	Accelerated bool
	GroupBVH    accel.Stats
}

// Stats counts primitives, shape elements and lights and reports the group BVH
func (s *Scene) Stats() Stats {
	stats := Stats{Primitives: len(s.Prims.Prims), Lights: len(s.Lights)}
	for _, p := range s.Prims.Prims {
		switch p := p.(type) {
		case *Surface:
			stats.Elements += shape.ElementCount(p.Shape)
		case *TransformedSurface:
			stats.Elements += shape.ElementCount(p.Shape)
		}
	}
	stats.GroupBVH, stats.Accelerated = s.Prims.AcceleratorStats()
	return stats
}
