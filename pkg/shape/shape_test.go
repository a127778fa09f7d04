package shape

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/stretchr/testify/require"
)

// randomSoup builds n small random triangles inside the unit cube
func randomSoup(n int, random *rand.Rand) *TriangleMesh {
	pos := make([]core.Vec3, 0, 3*n)
	triangles := make([][3]int, 0, n)
	for i := 0; i < n; i++ {
		c := core.NewVec3(random.Float64(), random.Float64(), random.Float64())
		for k := 0; k < 3; k++ {
			offset := core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5).Multiply(0.2)
			pos = append(pos, c.Add(offset))
		}
		triangles = append(triangles, [3]int{3 * i, 3*i + 1, 3*i + 2})
	}
	return NewTriangleMesh(pos, triangles)
}

func randomRay(random *rand.Rand) core.Ray {
	origin := core.NewVec3(random.Float64()*4-2, random.Float64()*4-2, -3)
	target := core.NewVec3(random.Float64(), random.Float64(), random.Float64())
	return core.NewRay(origin, target.Subtract(origin).Normalize())
}

func TestAccelerate_MatchesLinearScan(t *testing.T) {
	random := rand.New(rand.NewSource(7))

	shapes := []struct {
		name  string
		shape Shape
	}{
		{"triangle mesh", randomSoup(300, random)},
		{"point set", func() Shape {
			pos := make([]core.Vec3, 100)
			radius := make([]float64, 100)
			for i := range pos {
				pos[i] = core.NewVec3(random.Float64(), random.Float64(), random.Float64())
				radius[i] = 0.05
			}
			return NewPointSet(pos, radius)
		}()},
		{"line set", func() Shape {
			pos := make([]core.Vec3, 0, 100)
			lines := make([][2]int, 0, 50)
			radius := make([]float64, 0, 100)
			for i := 0; i < 50; i++ {
				a := core.NewVec3(random.Float64(), random.Float64(), random.Float64())
				b := a.Add(core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5).Multiply(0.3))
				pos = append(pos, a, b)
				radius = append(radius, 0.02, 0.03)
				lines = append(lines, [2]int{2 * i, 2*i + 1})
			}
			return NewLineSet(pos, radius, lines)
		}()},
	}

	for _, tt := range shapes {
		t.Run(tt.name, func(t *testing.T) {
			Accelerate(tt.shape)
			require.True(t, Accelerated(tt.shape))

			hits := 0
			for k := 0; k < 400; k++ {
				ray := randomRay(random)
				expected, expectedOK := IntersectFirstLinear(tt.shape, ray)
				got, gotOK := IntersectFirst(tt.shape, ray)
				require.Equal(t, expectedOK, gotOK)
				require.Equal(t, gotOK, IntersectAny(tt.shape, ray))
				if gotOK {
					hits++
					if math.Abs(expected.T-got.T) > 1e-9 {
						t.Errorf("Expected t=%v, got t=%v", expected.T, got.T)
					}
				}
			}
			require.Positive(t, hits)
		})
	}
}

func TestAccelerate_Threshold(t *testing.T) {
	random := rand.New(rand.NewSource(8))

	small := randomSoup(4, random)
	Accelerate(small)
	require.False(t, Accelerated(small))

	large := randomSoup(5, random)
	Accelerate(large)
	require.True(t, Accelerated(large))

	large.AcceleratorUse = false
	Accelerate(large)
	require.False(t, Accelerated(large), "disabling the accelerator must release the old tree")
}

func TestAccelerate_RebuildAfterEdit(t *testing.T) {
	random := rand.New(rand.NewSource(9))
	mesh := randomSoup(50, random)
	Accelerate(mesh)

	// move everything far away and rebuild
	for i := range mesh.Pos {
		mesh.Pos[i] = mesh.Pos[i].Add(core.NewVec3(100, 0, 0))
	}
	Accelerate(mesh)

	bounds := Bounds(mesh)
	require.Greater(t, bounds.Min.X, 99.0)

	ray := core.NewRay(core.NewVec3(0.5, 0.5, -3), core.NewVec3(0, 0, 1))
	_, ok := IntersectFirst(mesh, ray)
	require.False(t, ok)
}

func TestMesh_QuadElements(t *testing.T) {
	pos := []core.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 2, Y: 0, Z: 0}}
	mesh := NewMesh(pos, [][3]int{{1, 4, 2}}, [][4]int{{0, 1, 2, 3}})
	require.Equal(t, 3, ElementCount(mesh))

	tests := []struct {
		name   string
		origin core.Vec3
	}{
		{"first quad half", core.NewVec3(0.75, 0.25, 1)},
		{"second quad half", core.NewVec3(0.25, 0.75, 1)},
		{"triangle", core.NewVec3(1.25, 0.25, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := IntersectFirst(mesh, core.NewRay(tt.origin, core.NewVec3(0, 0, -1)))
			require.True(t, ok)
			if math.Abs(hit.T-1) > 1e-9 {
				t.Errorf("Expected t=1, got %v", hit.T)
			}
			if hit.Frame.Z.Distance(core.NewVec3(0, 0, 1)) > 1e-9 {
				t.Errorf("Expected +Z shading normal, got %v", hit.Frame.Z)
			}
		})
	}
}

func TestFaceMesh_MatchesMesh(t *testing.T) {
	pos := []core.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}}
	texcoord := []core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	fm := NewFaceMesh(pos, [][3]int{{0, 0, 0}, {1, 0, 1}, {2, 0, 2}, {3, 0, 3}}, nil, [][4]int{{0, 1, 2, 3}})
	fm.Norm = []core.Vec3{{X: 0, Y: 0, Z: 1}}
	fm.Texcoord = texcoord

	hit, ok := IntersectFirst(fm, core.NewRay(core.NewVec3(0.25, 0.5, 2), core.NewVec3(0, 0, -1)))
	require.True(t, ok)
	if hit.Texcoord.Subtract(core.NewVec2(0.25, 0.5)).Length() > 1e-9 {
		t.Errorf("Expected texcoord (0.25,0.5), got %v", hit.Texcoord)
	}
	if hit.Frame.O.Distance(core.NewVec3(0.25, 0.5, 0)) > 1e-9 {
		t.Errorf("Expected frame origin at the hit point, got %v", hit.Frame.O)
	}
}

func TestSphere_HitFrame(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, 0), 2)
	hit, ok := IntersectFirst(s, core.NewRay(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0)))
	require.True(t, ok)
	if math.Abs(hit.T-3) > 1e-9 {
		t.Errorf("Expected t=3, got %v", hit.T)
	}
	if hit.Frame.O.Distance(core.NewVec3(2, 0, 0)) > 1e-9 {
		t.Errorf("Expected frame origin (2,0,0), got %v", hit.Frame.O)
	}
	if hit.Frame.Z.Distance(core.NewVec3(1, 0, 0)) > 1e-9 {
		t.Errorf("Expected outward normal +X, got %v", hit.Frame.Z)
	}
	if math.Abs(hit.UV.Y-0.5) > 1e-9 {
		t.Errorf("Expected equator v=0.5, got %v", hit.UV.Y)
	}
}

func TestTesselation_RedirectsQueries(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, 0), 1)
	Tesselate(s, 2)
	require.NotNil(t, s.Tesselation)
	Accelerate(s)
	require.True(t, Accelerated(s))
	require.Nil(t, s.accelerator, "the sphere itself never owns a tree once tesselated")

	ray := core.NewRay(core.NewVec3(0, 0.1, -5), core.NewVec3(0, 0, 1))
	hit, ok := IntersectFirst(s, ray)
	require.True(t, ok)
	analytic, _ := IntersectFirstLinear(NewSphere(core.NewVec3(0, 0, 0), 1), ray)
	require.InDelta(t, analytic.T, hit.T, 0.05)

	ClearTesselation(s)
	hit, ok = IntersectFirst(s, ray)
	require.True(t, ok)
	require.InDelta(t, analytic.T, hit.T, 1e-9)
}

func TestSmoothFrames(t *testing.T) {
	pos := []core.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}
	mesh := NewTriangleMesh(pos, [][3]int{{0, 1, 2}, {0, 3, 1}})
	SmoothFrames(mesh)
	require.Len(t, mesh.Norm, 4)

	// vertex 2 touches only the first face
	if mesh.Norm[2].Distance(core.NewVec3(0, 0, 1)) > 1e-9 {
		t.Errorf("Expected +Z normal, got %v", mesh.Norm[2])
	}
	// vertex 0 averages both faces
	expected := core.NewVec3(0, 1, 1).Normalize()
	if mesh.Norm[0].Distance(expected) > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, mesh.Norm[0])
	}

	ClearFrames(mesh)
	require.Nil(t, mesh.Norm)
}

func TestMeshConversions(t *testing.T) {
	pos := []core.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}}
	mesh := NewMesh(pos, nil, [][4]int{{0, 1, 2, 3}})

	tm := TriangleMeshFromMesh(mesh)
	require.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}}, tm.Triangle)

	back := MeshFromTriangleMesh(tm)
	require.Equal(t, 2, ElementCount(back))
}

func TestSampleUniform(t *testing.T) {
	random := rand.New(rand.NewSource(10))
	s := NewSphere(core.NewVec3(1, 2, 3), 2)
	for i := 0; i < 50; i++ {
		sample := SampleUniform(s, core.NewVec2(random.Float64(), random.Float64()))
		require.InDelta(t, 2.0, sample.Frame.O.Distance(s.Center), 1e-9)
		require.InDelta(t, 16*math.Pi, sample.Area, 1e-9)
	}

	q := NewQuad(2, 4)
	sample := SampleUniform(q, core.NewVec2(1, 0))
	if sample.Frame.O.Distance(core.NewVec3(1, -2, 0)) > 1e-9 {
		t.Errorf("Expected corner (1,-2,0), got %v", sample.Frame.O)
	}
	require.InDelta(t, 8.0, sample.Area, 1e-9)
}
