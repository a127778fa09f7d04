package shape

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// TriangleMesh is an indexed triangle mesh with optional per-vertex normals
// and texture coordinates
type TriangleMesh struct {
	Base
	Pos      []core.Vec3
	Norm     []core.Vec3
	Texcoord []core.Vec2
	Triangle [][3]int
}

// NewTriangleMesh creates a triangle mesh
func NewTriangleMesh(pos []core.Vec3, triangles [][3]int) *TriangleMesh {
	return &TriangleMesh{Base: newBase(), Pos: pos, Triangle: triangles}
}

func (m *TriangleMesh) numElements() int { return len(m.Triangle) }

func (m *TriangleMesh) elementBounds(i int) core.AABB {
	f := m.Triangle[i]
	return geometry.TriangleBounds(m.Pos[f[0]], m.Pos[f[1]], m.Pos[f[2]])
}

func (m *TriangleMesh) intersectElement(i int, ray core.Ray) (Hit, bool) {
	return meshHit(ray, m.Pos, m.Norm, m.Texcoord, m.Triangle[i], nil)
}

func (m *TriangleMesh) intersectElementAny(i int, ray core.Ray) bool {
	f := m.Triangle[i]
	_, _, _, ok := geometry.IntersectTriangle(ray, m.Pos[f[0]], m.Pos[f[1]], m.Pos[f[2]])
	return ok
}

// Mesh holds triangles and quads sharing one vertex list. Quad q contributes
// the elements (x,y,z) and (x,z,w) after all triangles.
type Mesh struct {
	Base
	Pos      []core.Vec3
	Norm     []core.Vec3
	Texcoord []core.Vec2
	Triangle [][3]int
	Quad     [][4]int
}

// NewMesh creates a mesh of triangles and quads
func NewMesh(pos []core.Vec3, triangles [][3]int, quads [][4]int) *Mesh {
	return &Mesh{Base: newBase(), Pos: pos, Triangle: triangles, Quad: quads}
}

// face returns the vertex indices of element i and, for quad halves, the quad
func (m *Mesh) face(i int) ([3]int, *[4]int) {
	return splitFace(m.Triangle, m.Quad, i)
}

func (m *Mesh) numElements() int { return len(m.Triangle) + 2*len(m.Quad) }

func (m *Mesh) elementBounds(i int) core.AABB {
	f, _ := m.face(i)
	return geometry.TriangleBounds(m.Pos[f[0]], m.Pos[f[1]], m.Pos[f[2]])
}

func (m *Mesh) intersectElement(i int, ray core.Ray) (Hit, bool) {
	f, quad := m.face(i)
	return meshHit(ray, m.Pos, m.Norm, m.Texcoord, f, quad)
}

func (m *Mesh) intersectElementAny(i int, ray core.Ray) bool {
	f, _ := m.face(i)
	_, _, _, ok := geometry.IntersectTriangle(ray, m.Pos[f[0]], m.Pos[f[1]], m.Pos[f[2]])
	return ok
}

// FaceMesh indexes faces into Vertex, whose entries hold the position,
// normal and texcoord indices of a corner
type FaceMesh struct {
	Base
	Pos      []core.Vec3
	Norm     []core.Vec3
	Texcoord []core.Vec2
	Vertex   [][3]int
	Triangle [][3]int
	Quad     [][4]int
}

// NewFaceMesh creates a face-indexed mesh
func NewFaceMesh(pos []core.Vec3, vertex [][3]int, triangles [][3]int, quads [][4]int) *FaceMesh {
	return &FaceMesh{Base: newBase(), Pos: pos, Vertex: vertex, Triangle: triangles, Quad: quads}
}

func (m *FaceMesh) numElements() int { return len(m.Triangle) + 2*len(m.Quad) }

// corners resolves element i into position, normal and texcoord index triples
func (m *FaceMesh) corners(i int) (pos, norm, tex [3]int, quad *[4]int) {
	f, q := splitFace(m.Triangle, m.Quad, i)
	for k := 0; k < 3; k++ {
		v := m.Vertex[f[k]]
		pos[k], norm[k], tex[k] = v[0], v[1], v[2]
	}
	if q != nil {
		quad = &[4]int{}
		for k := 0; k < 4; k++ {
			quad[k] = m.Vertex[q[k]][0]
		}
	}
	return pos, norm, tex, quad
}

func (m *FaceMesh) elementBounds(i int) core.AABB {
	p, _, _, _ := m.corners(i)
	return geometry.TriangleBounds(m.Pos[p[0]], m.Pos[p[1]], m.Pos[p[2]])
}

func (m *FaceMesh) intersectElement(i int, ray core.Ray) (Hit, bool) {
	p, n, tx, quad := m.corners(i)
	hit, ok := meshHit(ray, m.Pos, nil, nil, p, quad)
	if !ok {
		return Hit{}, false
	}
	if len(m.Norm) > 0 {
		z := interpolate3([3]core.Vec3{m.Norm[n[0]], m.Norm[n[1]], m.Norm[n[2]]}, hit.UV).Normalize()
		hit.Frame = triangleFrame([3]core.Vec3{m.Pos[p[0]], m.Pos[p[1]], m.Pos[p[2]]}, z, hit.UV)
	}
	if len(m.Texcoord) > 0 {
		hit.Texcoord = interpolate2([3]core.Vec2{m.Texcoord[tx[0]], m.Texcoord[tx[1]], m.Texcoord[tx[2]]}, hit.UV)
	}
	return hit, true
}

func (m *FaceMesh) intersectElementAny(i int, ray core.Ray) bool {
	p, _, _, _ := m.corners(i)
	_, _, _, ok := geometry.IntersectTriangle(ray, m.Pos[p[0]], m.Pos[p[1]], m.Pos[p[2]])
	return ok
}

// splitFace maps element i onto a triangle or one half of a quad
func splitFace(triangles [][3]int, quads [][4]int, i int) ([3]int, *[4]int) {
	if i < len(triangles) {
		return triangles[i], nil
	}
	j := i - len(triangles)
	q := &quads[j/2]
	if j%2 == 0 {
		return [3]int{q[0], q[1], q[2]}, q
	}
	return [3]int{q[0], q[2], q[3]}, q
}

// meshHit intersects one mesh triangle. The shading normal is interpolated
// from norm when present, else the face normal (of the whole quad for quad
// halves); texcoords are interpolated when present, else the uv is used.
func meshHit(ray core.Ray, pos, norm []core.Vec3, texcoord []core.Vec2, f [3]int, quad *[4]int) (Hit, bool) {
	p := [3]core.Vec3{pos[f[0]], pos[f[1]], pos[f[2]]}
	t, ba, bb, ok := geometry.IntersectTriangle(ray, p[0], p[1], p[2])
	if !ok {
		return Hit{}, false
	}
	uv := core.NewVec2(ba, bb)
	geomNormal := geometry.TriangleNormal(p[0], p[1], p[2])

	var z core.Vec3
	switch {
	case len(norm) > 0:
		z = interpolate3([3]core.Vec3{norm[f[0]], norm[f[1]], norm[f[2]]}, uv).Normalize()
	case quad != nil:
		z = geometry.QuadNormal(pos[quad[0]], pos[quad[1]], pos[quad[2]], pos[quad[3]])
	default:
		z = geomNormal
	}

	tc := uv
	if len(texcoord) > 0 {
		tc = interpolate2([3]core.Vec2{texcoord[f[0]], texcoord[f[1]], texcoord[f[2]]}, uv)
	}

	return Hit{T: t, Frame: triangleFrame(p, z, uv), Normal: geomNormal, UV: uv, Texcoord: tc}, true
}
