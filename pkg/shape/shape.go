// Package shape defines the closed set of shape kinds and their intersection
// dispatch. Shapes live in their own local frame; primitives place them in the
// world.
package shape

import (
	"github.com/df07/go-whitted-raytracer/pkg/accel"
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Shape is implemented only by the kinds in this package: *PointSet, *LineSet,
// *TriangleMesh, *Mesh, *FaceMesh, *Sphere, *Cylinder, *Quad and *Triangle.
type Shape interface {
	base() *Base
}

// Base holds the state every shape kind shares
type Base struct {
	// AcceleratorUse enables building a BVH over the shape's elements
	AcceleratorUse bool
	// Tesselation, when set, replaces the shape for every bounds and
	// intersection query
	Tesselation Shape

	accelerator *accel.BVH[Hit]
}

func (b *Base) base() *Base { return b }

func newBase() Base {
	return Base{AcceleratorUse: true}
}

// Hit is a shape-local intersection record
type Hit struct {
	T        float64
	Frame    core.Frame // shading frame at the hit point
	Normal   core.Vec3  // geometric normal
	UV       core.Vec2  // shape parametric coordinates
	Texcoord core.Vec2
}

// Distance returns the ray parameter of the hit
func (h Hit) Distance() float64 { return h.T }
