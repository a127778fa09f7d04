package material

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// BRDFSample is a sampled incoming direction with its weight and density
type BRDFSample struct {
	Wi      core.Vec3
	BRDFCos core.Vec3
	PDF     float64
}

// HasTextures reports whether any texture of m is still unresolved
func HasTextures(m Material) bool {
	switch m := m.(type) {
	case *Lambert:
		return m.DiffuseTexture != nil
	case *Phong:
		return m.DiffuseTexture != nil
	case *LambertEmission:
		return m.DiffuseTexture != nil
	default:
		panic(fmt.Sprintf("material: unsupported material kind %T", m))
	}
}

// ShadingTextures returns a copy of m with its textures looked up at texcoord
// and multiplied into the matching coefficients. The copy carries no textures.
func ShadingTextures(m Material, texcoord core.Vec2) Material {
	switch m := m.(type) {
	case *Lambert:
		ret := *m
		ret.Diffuse = modulate(m.Diffuse, m.DiffuseTexture, texcoord)
		ret.DiffuseTexture = nil
		return &ret
	case *Phong:
		ret := *m
		ret.Diffuse = modulate(m.Diffuse, m.DiffuseTexture, texcoord)
		ret.DiffuseTexture = nil
		return &ret
	case *LambertEmission:
		ret := *m
		ret.Diffuse = modulate(m.Diffuse, m.DiffuseTexture, texcoord)
		ret.DiffuseTexture = nil
		return &ret
	default:
		panic(fmt.Sprintf("material: unsupported material kind %T", m))
	}
}

func modulate(value core.Vec3, texture *ImageTexture, texcoord core.Vec2) core.Vec3 {
	if texture == nil {
		return value
	}
	return value.MultiplyVec(texture.Lookup(texcoord))
}

// DiffuseAlbedo returns the diffuse coefficient, used for the ambient term
func DiffuseAlbedo(m Material) core.Vec3 {
	switch m := m.(type) {
	case *Lambert:
		return m.Diffuse
	case *Phong:
		return m.Diffuse
	case *LambertEmission:
		return m.Diffuse
	default:
		panic(fmt.Sprintf("material: unsupported material kind %T", m))
	}
}

// Emission returns the radiance emitted toward wo; only the front side emits
func Emission(m Material, frame core.Frame, wo core.Vec3) core.Vec3 {
	if e, ok := m.(*LambertEmission); ok && wo.Dot(frame.Z) > 0 {
		return e.Emission
	}
	return core.Vec3{}
}

// BRDFCos evaluates the BRDF times the cosine of wi with the shading normal.
// Both directions point away from the surface; if either lies below it the
// result is zero.
func BRDFCos(m Material, frame core.Frame, wi, wo core.Vec3) core.Vec3 {
	cosi := wi.Dot(frame.Z)
	if cosi <= 0 || wo.Dot(frame.Z) <= 0 {
		return core.Vec3{}
	}

	switch m := m.(type) {
	case *Lambert:
		return m.Diffuse.Multiply(cosi / math.Pi)
	case *LambertEmission:
		return m.Diffuse.Multiply(cosi / math.Pi)
	case *Phong:
		var lobe float64
		if m.UseReflected {
			lobe = wo.Dot(core.Reflect(wi.Negate(), frame.Z))
		} else {
			lobe = frame.Z.Dot(wi.Add(wo).Normalize())
		}
		spec := (m.Exponent + 8) * math.Pow(math.Max(lobe, 0), m.Exponent) / (8 * math.Pi)
		return m.Diffuse.Multiply(1 / math.Pi).Add(m.Specular.Multiply(spec)).Multiply(cosi)
	default:
		panic(fmt.Sprintf("material: unsupported material kind %T", m))
	}
}

// SampleReflection returns the mirror reflection of wo weighted by the
// reflection coefficient. Materials without reflection return a zero sample.
func SampleReflection(m Material, frame core.Frame, wo core.Vec3) BRDFSample {
	p, ok := m.(*Phong)
	if !ok || wo.Dot(frame.Z) <= 0 {
		return BRDFSample{}
	}
	return BRDFSample{
		Wi:      core.Reflect(wo.Negate(), frame.Z),
		BRDFCos: p.Reflection,
		PDF:     1,
	}
}

// SampleBlurryReflection perturbs the mirror direction inside a square of side
// BlurSize placed perpendicular to it; suv picks the point in the square.
// With a zero BlurSize it is the mirror reflection.
func SampleBlurryReflection(m Material, frame core.Frame, wo core.Vec3, suv core.Vec2) BRDFSample {
	p, ok := m.(*Phong)
	if !ok || p.BlurSize <= 0 {
		return SampleReflection(m, frame, wo)
	}
	if wo.Dot(frame.Z) <= 0 {
		return BRDFSample{}
	}

	wi := core.Reflect(wo.Negate(), frame.Z)
	u := wi.Cross(wo)
	if u.LengthSquared() == 0 {
		// wo is along the normal, so any tangent works
		u = frame.X
	}
	u = u.Normalize()
	v := wi.Cross(u).Normalize()

	sl := p.BlurSize
	wi = wi.Add(u.Multiply((0.5 - suv.X) * sl)).Add(v.Multiply((0.5 - suv.Y) * sl)).Normalize()
	return BRDFSample{Wi: wi, BRDFCos: p.Reflection, PDF: 1 / (sl * sl)}
}
