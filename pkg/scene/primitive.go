package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/shape"
)

// Intersection is a world-space hit with the material of the primitive hit
type Intersection struct {
	shape.Hit
	Material material.Material
}

// Primitive places a shape in the world with a material. It is implemented
// only by *Surface and *TransformedSurface.
type Primitive interface {
	// Bounds returns the world-space box of the primitive
	Bounds() core.AABB
	// IntersectFirst returns the nearest world-space hit
	IntersectFirst(ray core.Ray) (Intersection, bool)
	// IntersectAny reports whether the ray hits the primitive within its range
	IntersectAny(ray core.Ray) bool
	// Accelerate rebuilds the accelerator of the underlying shape
	Accelerate()

	primitive()
}

// Surface is a shape placed by a rigid frame
type Surface struct {
	Frame    core.Frame
	Material material.Material
	Shape    shape.Shape
}

// NewSurface creates a surface at the world origin
func NewSurface(s shape.Shape, m material.Material) *Surface {
	return &Surface{Frame: core.IdentityFrame(), Material: m, Shape: s}
}

func (*Surface) primitive() {}

func (s *Surface) Bounds() core.AABB {
	return s.Frame.TransformAABB(shape.Bounds(s.Shape))
}

func (s *Surface) Accelerate() { shape.Accelerate(s.Shape) }

func (s *Surface) IntersectFirst(ray core.Ray) (Intersection, bool) {
	hit, ok := shape.IntersectFirst(s.Shape, s.Frame.InverseTransformRay(ray))
	if !ok {
		return Intersection{}, false
	}
	return s.toWorld(hit), true
}

func (s *Surface) IntersectAny(ray core.Ray) bool {
	return shape.IntersectAny(s.Shape, s.Frame.InverseTransformRay(ray))
}

func (s *Surface) toWorld(hit shape.Hit) Intersection {
	hit.Frame = s.Frame.TransformFrame(hit.Frame)
	hit.Normal = s.Frame.TransformVector(hit.Normal).Normalize()
	return Intersection{Hit: hit, Material: s.Material}
}

// TransformedSurface is a surface with an extra scale, rotation and translation
// about a pivot, each optionally animated by a keyframed value
type TransformedSurface struct {
	Frame    core.Frame
	Material material.Material
	Shape    shape.Shape

	Pivot         core.Frame
	Translation   core.Vec3
	RotationEuler core.Vec3 // radians around x, y then z
	Scale         core.Vec3

	AnimTranslation   *KeyframedValue // added to Translation
	AnimRotationEuler *KeyframedValue // added to RotationEuler
	AnimScale         *KeyframedValue // multiplied into Scale
}

// NewTransformedSurface creates a transformed surface with the identity transform
func NewTransformedSurface(s shape.Shape, m material.Material) *TransformedSurface {
	return &TransformedSurface{
		Frame:    core.IdentityFrame(),
		Material: m,
		Shape:    s,
		Pivot:    core.IdentityFrame(),
		Scale:    core.Splat(1),
	}
}

func (*TransformedSurface) primitive() {}

// Animated reports whether any transform component is keyframed
func (ts *TransformedSurface) Animated() bool {
	return ts.AnimTranslation != nil || ts.AnimRotationEuler != nil || ts.AnimScale != nil
}

// components returns translation, rotation and scale at time
func (ts *TransformedSurface) components(time float64) (core.Vec3, core.Vec3, core.Vec3) {
	translation, rotation, scale := ts.Translation, ts.RotationEuler, ts.Scale
	if ts.AnimTranslation != nil {
		translation = translation.Add(ts.AnimTranslation.Value(time))
	}
	if ts.AnimRotationEuler != nil {
		rotation = rotation.Add(ts.AnimRotationEuler.Value(time))
	}
	if ts.AnimScale != nil {
		scale = scale.MultiplyVec(ts.AnimScale.Value(time))
	}
	return translation, rotation, scale
}

// Matrix returns pivot * T * Rz * Ry * Rx * S * pivot^-1 at time
func (ts *TransformedSurface) Matrix(time float64) core.Mat4 {
	translation, rotation, scale := ts.components(time)
	return ts.Pivot.ToMatrix().
		Mul(core.Translation(translation)).
		Mul(core.Rotation(rotation.Z, core.NewVec3(0, 0, 1))).
		Mul(core.Rotation(rotation.Y, core.NewVec3(0, 1, 0))).
		Mul(core.Rotation(rotation.X, core.NewVec3(1, 0, 0))).
		Mul(core.Scaling(scale)).
		Mul(ts.Pivot.ToMatrixInverse())
}

// MatrixInverse returns the inverse of Matrix(time)
func (ts *TransformedSurface) MatrixInverse(time float64) core.Mat4 {
	translation, rotation, scale := ts.components(time)
	return ts.Pivot.ToMatrix().
		Mul(core.Scaling(core.NewVec3(1/scale.X, 1/scale.Y, 1/scale.Z))).
		Mul(core.Rotation(-rotation.X, core.NewVec3(1, 0, 0))).
		Mul(core.Rotation(-rotation.Y, core.NewVec3(0, 1, 0))).
		Mul(core.Rotation(-rotation.Z, core.NewVec3(0, 0, 1))).
		Mul(core.Translation(translation.Negate())).
		Mul(ts.Pivot.ToMatrixInverse())
}

// AnimationInterval returns the union of the keyframed intervals; ok is false
// when nothing is animated
func (ts *TransformedSurface) AnimationInterval() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, k := range []*KeyframedValue{ts.AnimTranslation, ts.AnimRotationEuler, ts.AnimScale} {
		if k == nil {
			continue
		}
		klo, khi := k.Interval()
		lo, hi, ok = math.Min(lo, klo), math.Max(hi, khi), true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// Snapshot folds the animation at time into the static transform and drops
// the keyframes
func (ts *TransformedSurface) Snapshot(time float64) {
	if !ts.Animated() {
		return
	}
	ts.Translation, ts.RotationEuler, ts.Scale = ts.components(time)
	ts.AnimTranslation, ts.AnimRotationEuler, ts.AnimScale = nil, nil, nil
}

func (ts *TransformedSurface) mustBeStatic() {
	if ts.Animated() {
		panic("scene: intersection does not support animated surfaces, take a snapshot first")
	}
}

func (ts *TransformedSurface) Bounds() core.AABB {
	ts.mustBeStatic()
	return ts.Frame.TransformAABB(ts.Matrix(0).TransformAABB(shape.Bounds(ts.Shape)))
}

func (ts *TransformedSurface) Accelerate() { shape.Accelerate(ts.Shape) }

func (ts *TransformedSurface) IntersectFirst(ray core.Ray) (Intersection, bool) {
	ts.mustBeStatic()
	mi := ts.MatrixInverse(0)
	hit, ok := shape.IntersectFirst(ts.Shape, mi.TransformRay(ts.Frame.InverseTransformRay(ray)))
	if !ok {
		return Intersection{}, false
	}
	m := ts.Matrix(0)
	hit.Frame = ts.Frame.TransformFrame(m.TransformFrame(hit.Frame))
	hit.Normal = ts.Frame.TransformVector(core.TransformNormal(mi, hit.Normal)).Normalize()
	return Intersection{Hit: hit, Material: ts.Material}, true
}

func (ts *TransformedSurface) IntersectAny(ray core.Ray) bool {
	ts.mustBeStatic()
	return shape.IntersectAny(ts.Shape, ts.MatrixInverse(0).TransformRay(ts.Frame.InverseTransformRay(ray)))
}
