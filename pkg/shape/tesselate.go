package shape

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Tesselate replaces an analytic shape with a polygonal mesh for every later
// query. Level 0 is the coarsest grid; each level doubles the resolution.
// Sets and meshes are already polygonal and are not tesselated.
func Tesselate(s Shape, level int) {
	switch s := s.(type) {
	case *Sphere:
		s.Tesselation = tesselateGrid(8<<level, 4<<level, s.Frame)
	case *Cylinder:
		s.Tesselation = tesselateGrid(8<<level, 1<<level, s.Frame)
	case *Quad:
		s.Tesselation = tesselateGrid(1<<level, 1<<level, s.Frame)
	case *Triangle:
		mesh := NewTriangleMesh([]core.Vec3{s.V0, s.V1, s.V2}, [][3]int{{0, 1, 2}})
		mesh.Texcoord = []core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
		s.Tesselation = mesh
	case *PointSet, *LineSet, *TriangleMesh, *Mesh, *FaceMesh:
	default:
		panic(fmt.Sprintf("shape: unsupported shape kind %T", s))
	}
}

// ClearTesselation restores direct intersection of the shape
func ClearTesselation(s Shape) {
	s.base().Tesselation = nil
	s.base().accelerator = nil
}

// tesselateGrid samples frame on a (usteps+1) x (vsteps+1) uv grid and
// connects the samples with quads
func tesselateGrid(usteps, vsteps int, frame func(core.Vec2) core.Frame) *Mesh {
	pos := make([]core.Vec3, 0, (usteps+1)*(vsteps+1))
	norm := make([]core.Vec3, 0, cap(pos))
	texcoord := make([]core.Vec2, 0, cap(pos))
	for j := 0; j <= vsteps; j++ {
		for i := 0; i <= usteps; i++ {
			uv := core.NewVec2(float64(i)/float64(usteps), float64(j)/float64(vsteps))
			f := frame(uv)
			pos = append(pos, f.O)
			norm = append(norm, f.Z)
			texcoord = append(texcoord, uv)
		}
	}

	vid := func(i, j int) int { return j*(usteps+1) + i }
	quads := make([][4]int, 0, usteps*vsteps)
	for j := 0; j < vsteps; j++ {
		for i := 0; i < usteps; i++ {
			quads = append(quads, [4]int{vid(i, j), vid(i+1, j), vid(i+1, j+1), vid(i, j+1)})
		}
	}

	mesh := NewMesh(pos, nil, quads)
	mesh.Norm = norm
	mesh.Texcoord = texcoord
	return mesh
}
