// Package accel implements a bounding volume hierarchy that is agnostic of the
// elements it indexes. Elements are reached only through the Elements interface.
package accel

import (
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// MinPrims is the largest element range stored in a single leaf. Collections
// of at most MinPrims elements are not worth a tree and are scanned linearly.
const MinPrims = 4

// boxEpsilon inflates every element box so thin or flat elements are not missed
const boxEpsilon = 1e-4

// Hit is a nearest-hit result; Distance is the ray parameter of the hit
type Hit interface {
	Distance() float64
}

// Elements is the indexable collection a BVH is built over
type Elements[H Hit] interface {
	Len() int
	Bounds(i int) core.AABB
	IntersectFirst(i int, ray core.Ray) (H, bool)
	IntersectAny(i int, ray core.Ray) bool
}

// node is either a leaf over sortedPrims[start:end] or an internal node with
// two children addressed by index into the node arena
type node struct {
	bbox        core.AABB
	leaf        bool
	start, end  int
	left, right int
}

// BVH is a binary tree of boxes stored as a flat arena
type BVH[H Hit] struct {
	elements    Elements[H]
	nodes       []node
	sortedPrims []int
}

// Build constructs the hierarchy with count-median splits along the longest axis
func Build[H Hit](elements Elements[H]) *BVH[H] {
	n := elements.Len()
	bvh := &BVH[H]{
		elements:    elements,
		nodes:       make([]node, 0, 2*(n/MinPrims+1)),
		sortedPrims: make([]int, n),
	}

	boxes := make([]core.AABB, n)
	centroids := make([]core.Vec3, n)
	for i := 0; i < n; i++ {
		boxes[i] = elements.Bounds(i).ScaleAboutCenter(1 + boxEpsilon)
		centroids[i] = boxes[i].Center()
		bvh.sortedPrims[i] = i
	}

	bvh.buildNode(boxes, centroids, 0, n)
	return bvh
}

// buildNode appends the node covering sortedPrims[start:end] and returns its index
func (bvh *BVH[H]) buildNode(boxes []core.AABB, centroids []core.Vec3, start, end int) int {
	bbox := core.EmptyAABB()
	for _, p := range bvh.sortedPrims[start:end] {
		bbox = bbox.Union(boxes[p])
	}

	idx := len(bvh.nodes)
	bvh.nodes = append(bvh.nodes, node{bbox: bbox})

	if end-start <= MinPrims {
		bvh.nodes[idx].leaf = true
		bvh.nodes[idx].start = start
		bvh.nodes[idx].end = end
		return idx
	}

	axis := bbox.LongestAxis()
	prims := bvh.sortedPrims[start:end]
	sort.Slice(prims, func(i, j int) bool {
		return centroids[prims[i]].Axis(axis) < centroids[prims[j]].Axis(axis)
	})

	mid := (start + end) / 2
	left := bvh.buildNode(boxes, centroids, start, mid)
	right := bvh.buildNode(boxes, centroids, mid, end)

	// the arena may have grown, so write through the index
	bvh.nodes[idx].left = left
	bvh.nodes[idx].right = right
	return idx
}

// Bounds returns the box of the root node
func (bvh *BVH[H]) Bounds() core.AABB {
	if len(bvh.nodes) == 0 {
		return core.EmptyAABB()
	}
	return bvh.nodes[0].bbox
}

// IntersectFirst returns the nearest element hit within the ray's range
func (bvh *BVH[H]) IntersectFirst(ray core.Ray) (H, bool) {
	return bvh.intersectFirst(0, &ray)
}

func (bvh *BVH[H]) intersectFirst(idx int, ray *core.Ray) (H, bool) {
	var best H
	found := false

	n := &bvh.nodes[idx]
	if !n.bbox.Hit(*ray) {
		return best, false
	}

	if n.leaf {
		for _, p := range bvh.sortedPrims[n.start:n.end] {
			if hit, ok := bvh.elements.IntersectFirst(p, *ray); ok {
				if !found || hit.Distance() < best.Distance() {
					best, found = hit, true
					ray.TMax = hit.Distance()
				}
			}
		}
		return best, found
	}

	// both children are visited; ray.TMax carries the pruning between them
	for _, child := range [2]int{n.left, n.right} {
		if hit, ok := bvh.intersectFirst(child, ray); ok {
			if !found || hit.Distance() < best.Distance() {
				best, found = hit, true
				ray.TMax = hit.Distance()
			}
		}
	}
	return best, found
}

// IntersectAny reports whether any element is hit within the ray's range
func (bvh *BVH[H]) IntersectAny(ray core.Ray) bool {
	return bvh.intersectAny(0, ray)
}

func (bvh *BVH[H]) intersectAny(idx int, ray core.Ray) bool {
	n := &bvh.nodes[idx]
	if !n.bbox.Hit(ray) {
		return false
	}
	if n.leaf {
		for _, p := range bvh.sortedPrims[n.start:n.end] {
			if bvh.elements.IntersectAny(p, ray) {
				return true
			}
		}
		return false
	}
	return bvh.intersectAny(n.left, ray) || bvh.intersectAny(n.right, ray)
}

// Stats describes the shape of a built hierarchy
type Stats struct {
	TotalNodes  int
	LeafNodes   int
	MaxDepth    int
	AvgDepth    float64
	MaxLeafSize int
	Elements    int
}

// Stats walks the tree and collects node and depth statistics
func (bvh *BVH[H]) Stats() Stats {
	var stats Stats
	if len(bvh.nodes) == 0 {
		return stats
	}
	bvh.collectStats(0, 0, &stats)
	if stats.LeafNodes > 0 {
		stats.AvgDepth /= float64(stats.LeafNodes)
	}
	return stats
}

func (bvh *BVH[H]) collectStats(idx, depth int, stats *Stats) {
	n := bvh.nodes[idx]
	stats.TotalNodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	if n.leaf {
		size := n.end - n.start
		stats.LeafNodes++
		stats.Elements += size
		stats.AvgDepth += float64(depth)
		if size > stats.MaxLeafSize {
			stats.MaxLeafSize = size
		}
		return
	}
	bvh.collectStats(n.left, depth+1, stats)
	bvh.collectStats(n.right, depth+1, stats)
}
