package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/accel"
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PrimitiveGroup is a list of primitives with an optional BVH over their world bounds
type PrimitiveGroup struct {
	Prims          []Primitive
	AcceleratorUse bool

	accelerator *accel.BVH[Intersection]
}

// NewPrimitiveGroup creates a group that builds a BVH when accelerated
func NewPrimitiveGroup(prims ...Primitive) *PrimitiveGroup {
	return &PrimitiveGroup{Prims: prims, AcceleratorUse: true}
}

// groupElements exposes the primitives of a group to the BVH
type groupElements struct {
	prims []Primitive
}

func (e groupElements) Len() int { return len(e.prims) }
func (e groupElements) Bounds(i int) core.AABB { return e.prims[i].Bounds() }
func (e groupElements) IntersectFirst(i int, ray core.Ray) (Intersection, bool) {
	return e.prims[i].IntersectFirst(ray)
}
func (e groupElements) IntersectAny(i int, ray core.Ray) bool {
	return e.prims[i].IntersectAny(ray)
}

// Accelerate rebuilds every primitive's shape accelerator and then the group's
// own BVH. The previous tree is released even when no new one is built.
func (g *PrimitiveGroup) Accelerate() {
	for _, p := range g.Prims {
		p.Accelerate()
	}
	g.accelerator = nil
	if g.AcceleratorUse && len(g.Prims) > accel.MinPrims {
		g.accelerator = accel.Build[Intersection](groupElements{prims: g.Prims})
	}
}

// Accelerated reports whether the group holds a BVH
func (g *PrimitiveGroup) Accelerated() bool {
	return g.accelerator != nil
}

// AcceleratorStats returns the statistics of the group's BVH, if any
func (g *PrimitiveGroup) AcceleratorStats() (accel.Stats, bool) {
	if g.accelerator == nil {
		return accel.Stats{}, false
	}
	return g.accelerator.Stats(), true
}

// Bounds returns the world box of the group
func (g *PrimitiveGroup) Bounds() core.AABB {
	if g.accelerator != nil {
		return g.accelerator.Bounds()
	}
	box := core.EmptyAABB()
	for _, p := range g.Prims {
		box = box.Union(p.Bounds())
	}
	return box
}

// IntersectFirst returns the nearest hit over all primitives
func (g *PrimitiveGroup) IntersectFirst(ray core.Ray) (Intersection, bool) {
	if g.accelerator != nil {
		return g.accelerator.IntersectFirst(ray)
	}
	return g.IntersectFirstLinear(ray)
}

// IntersectFirstLinear tests every primitive without the group BVH
func (g *PrimitiveGroup) IntersectFirstLinear(ray core.Ray) (Intersection, bool) {
	var best Intersection
	found := false
	for _, p := range g.Prims {
		if hit, ok := p.IntersectFirst(ray); ok && (!found || hit.T < best.T) {
			best, found = hit, true
			ray.TMax = hit.T
		}
	}
	return best, found
}

// IntersectAny reports whether any primitive is hit within the ray's range
func (g *PrimitiveGroup) IntersectAny(ray core.Ray) bool {
	if g.accelerator != nil {
		return g.accelerator.IntersectAny(ray)
	}
	for _, p := range g.Prims {
		if p.IntersectAny(ray) {
			return true
		}
	}
	return false
}
