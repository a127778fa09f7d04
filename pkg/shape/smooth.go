package shape

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// SmoothFrames replaces the vertex normals of a mesh with the normalized sum of
// the normals of the faces around each vertex. Shapes without vertex normals
// are left untouched.
func SmoothFrames(s Shape) {
	switch s := s.(type) {
	case *TriangleMesh:
		s.Norm = smoothNormals(s.Pos, s.Triangle, nil)
	case *Mesh:
		s.Norm = smoothNormals(s.Pos, s.Triangle, s.Quad)
	case *FaceMesh, *PointSet, *LineSet, *Sphere, *Cylinder, *Quad, *Triangle:
	default:
		panic(fmt.Sprintf("shape: unsupported shape kind %T", s))
	}
}

// ClearFrames drops the vertex normals of a mesh so face normals are used
func ClearFrames(s Shape) {
	switch s := s.(type) {
	case *TriangleMesh:
		s.Norm = nil
	case *Mesh:
		s.Norm = nil
	case *FaceMesh:
		s.Norm = nil
	case *PointSet, *LineSet, *Sphere, *Cylinder, *Quad, *Triangle:
	default:
		panic(fmt.Sprintf("shape: unsupported shape kind %T", s))
	}
}

func smoothNormals(pos []core.Vec3, triangles [][3]int, quads [][4]int) []core.Vec3 {
	norm := make([]core.Vec3, len(pos))
	for _, f := range triangles {
		n := geometry.TriangleNormal(pos[f[0]], pos[f[1]], pos[f[2]])
		for _, v := range f {
			norm[v] = norm[v].Add(n)
		}
	}
	for _, f := range quads {
		n := geometry.QuadNormal(pos[f[0]], pos[f[1]], pos[f[2]], pos[f[3]])
		for _, v := range f {
			norm[v] = norm[v].Add(n)
		}
	}
	for i := range norm {
		norm[i] = norm[i].Normalize()
	}
	return norm
}

// MeshFromTriangleMesh wraps the triangles of m into a Mesh without quads
func MeshFromTriangleMesh(m *TriangleMesh) *Mesh {
	out := NewMesh(m.Pos, m.Triangle, nil)
	out.Norm = m.Norm
	out.Texcoord = m.Texcoord
	out.AcceleratorUse = m.AcceleratorUse
	return out
}

// TriangleMeshFromMesh splits every quad of m into two triangles
func TriangleMeshFromMesh(m *Mesh) *TriangleMesh {
	triangles := make([][3]int, 0, m.numElements())
	for i := 0; i < m.numElements(); i++ {
		f, _ := m.face(i)
		triangles = append(triangles, f)
	}
	out := NewTriangleMesh(m.Pos, triangles)
	out.Norm = m.Norm
	out.Texcoord = m.Texcoord
	out.AcceleratorUse = m.AcceleratorUse
	return out
}
