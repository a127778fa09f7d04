package shape

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/accel"
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// elementSet is the per-kind view of a shape as a list of elements
type elementSet interface {
	Shape
	numElements() int
	elementBounds(i int) core.AABB
	intersectElement(i int, ray core.Ray) (Hit, bool)
	intersectElementAny(i int, ray core.Ray) bool
}

// elements adapts one shape kind to accel.Elements
type elements[S elementSet] struct {
	shape S
}

func (e elements[S]) Len() int { return e.shape.numElements() }
func (e elements[S]) Bounds(i int) core.AABB { return e.shape.elementBounds(i) }
func (e elements[S]) IntersectFirst(i int, ray core.Ray) (Hit, bool) {
	return e.shape.intersectElement(i, ray)
}
func (e elements[S]) IntersectAny(i int, ray core.Ray) bool {
	return e.shape.intersectElementAny(i, ray)
}

func elementsOf(s Shape) accel.Elements[Hit] {
	switch s := s.(type) {
	case *PointSet:
		return elements[*PointSet]{s}
	case *LineSet:
		return elements[*LineSet]{s}
	case *TriangleMesh:
		return elements[*TriangleMesh]{s}
	case *Mesh:
		return elements[*Mesh]{s}
	case *FaceMesh:
		return elements[*FaceMesh]{s}
	case *Sphere:
		return elements[*Sphere]{s}
	case *Cylinder:
		return elements[*Cylinder]{s}
	case *Quad:
		return elements[*Quad]{s}
	case *Triangle:
		return elements[*Triangle]{s}
	default:
		panic(fmt.Sprintf("shape: unsupported shape kind %T", s))
	}
}

// Accelerate (re)builds the shape's BVH. The previous tree is always released.
// A tree is built only when AcceleratorUse is set and the shape has more than
// accel.MinPrims elements; a tesselated shape accelerates its tesselation.
func Accelerate(s Shape) {
	b := s.base()
	b.accelerator = nil

	if b.Tesselation != nil {
		Accelerate(b.Tesselation)
		return
	}
	if !b.AcceleratorUse {
		return
	}

	e := elementsOf(s)
	if e.Len() <= accel.MinPrims {
		return
	}
	b.accelerator = accel.Build[Hit](e)
}

// Accelerated reports whether the shape, or its tesselation, holds a BVH
func Accelerated(s Shape) bool {
	b := s.base()
	if b.Tesselation != nil {
		return Accelerated(b.Tesselation)
	}
	return b.accelerator != nil
}

// AcceleratorStats returns the statistics of the shape's BVH, if any
func AcceleratorStats(s Shape) (accel.Stats, bool) {
	b := s.base()
	if b.Tesselation != nil {
		return AcceleratorStats(b.Tesselation)
	}
	if b.accelerator == nil {
		return accel.Stats{}, false
	}
	return b.accelerator.Stats(), true
}

// ElementCount returns the number of intersectable elements of the shape
func ElementCount(s Shape) int {
	if t := s.base().Tesselation; t != nil {
		return ElementCount(t)
	}
	return elementsOf(s).Len()
}

// IntersectFirst returns the nearest hit of the ray with the shape
func IntersectFirst(s Shape, ray core.Ray) (Hit, bool) {
	b := s.base()
	if b.Tesselation != nil {
		return IntersectFirst(b.Tesselation, ray)
	}
	if b.accelerator != nil {
		return b.accelerator.IntersectFirst(ray)
	}
	return scanFirst(elementsOf(s), ray)
}

// IntersectAny reports whether the ray hits the shape anywhere in its range
func IntersectAny(s Shape, ray core.Ray) bool {
	b := s.base()
	if b.Tesselation != nil {
		return IntersectAny(b.Tesselation, ray)
	}
	if b.accelerator != nil {
		return b.accelerator.IntersectAny(ray)
	}
	e := elementsOf(s)
	for i := 0; i < e.Len(); i++ {
		if e.IntersectAny(i, ray) {
			return true
		}
	}
	return false
}

// Bounds returns the local-frame box of the shape
func Bounds(s Shape) core.AABB {
	b := s.base()
	if b.Tesselation != nil {
		return Bounds(b.Tesselation)
	}
	if b.accelerator != nil {
		return b.accelerator.Bounds()
	}
	e := elementsOf(s)
	box := core.EmptyAABB()
	for i := 0; i < e.Len(); i++ {
		box = box.Union(e.Bounds(i))
	}
	return box
}

// IntersectFirstLinear tests every element without the BVH
func IntersectFirstLinear(s Shape, ray core.Ray) (Hit, bool) {
	if t := s.base().Tesselation; t != nil {
		return IntersectFirstLinear(t, ray)
	}
	return scanFirst(elementsOf(s), ray)
}

// scanFirst is the brute force nearest hit, shrinking the ray as hits are found
func scanFirst(e accel.Elements[Hit], ray core.Ray) (Hit, bool) {
	var best Hit
	found := false
	for i := 0; i < e.Len(); i++ {
		if hit, ok := e.IntersectFirst(i, ray); ok && (!found || hit.T < best.T) {
			best, found = hit, true
			ray.TMax = hit.T
		}
	}
	return best, found
}
