package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/pkg/shape"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Texcoord     [2]float64             `json:"texcoord"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties"`
}

func vec3(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambert:
		properties["diffuse"] = vec3(m.Diffuse)
		properties["color"] = hexColor(m.Diffuse)
		if m.DiffuseTexture != nil {
			properties["texture"] = m.DiffuseTexture.Filename
		}
		return "lambert", properties

	case *material.Phong:
		properties["diffuse"] = vec3(m.Diffuse)
		properties["color"] = hexColor(m.Diffuse)
		properties["specular"] = vec3(m.Specular)
		properties["exponent"] = m.Exponent
		properties["reflection"] = vec3(m.Reflection)
		properties["blurSize"] = m.BlurSize
		properties["useReflected"] = m.UseReflected
		if m.DiffuseTexture != nil {
			properties["texture"] = m.DiffuseTexture.Filename
		}
		return "phong", properties

	case *material.LambertEmission:
		properties["emission"] = vec3(m.Emission)
		properties["diffuse"] = vec3(m.Diffuse)
		properties["color"] = hexColor(m.Emission)
		return "emissive", properties

	default:
		panic(fmt.Sprintf("server: unsupported material kind %T", mat))
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(s shape.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	var name string
	switch geom := s.(type) {
	case *shape.Sphere:
		properties["center"] = vec3(geom.Center)
		properties["radius"] = geom.Radius
		name = "sphere"

	case *shape.Cylinder:
		properties["radius"] = geom.Radius
		properties["height"] = geom.Height
		name = "cylinder"

	case *shape.Quad:
		properties["width"] = geom.Width
		properties["height"] = geom.Height
		name = "quad"

	case *shape.Triangle:
		properties["vertices"] = [][3]float64{vec3(geom.V0), vec3(geom.V1), vec3(geom.V2)}
		name = "triangle"

	case *shape.TriangleMesh:
		properties["vertexCount"] = len(geom.Pos)
		name = "triangle_mesh"

	case *shape.Mesh:
		properties["vertexCount"] = len(geom.Pos)
		properties["quadCount"] = len(geom.Quad)
		name = "mesh"

	case *shape.FaceMesh:
		properties["vertexCount"] = len(geom.Pos)
		name = "face_mesh"

	case *shape.PointSet:
		properties["approximate"] = geom.Approximate
		name = "point_set"

	case *shape.LineSet:
		properties["approximate"] = geom.Approximate
		name = "line_set"

	default:
		panic(fmt.Sprintf("server: unsupported shape kind %T", s))
	}

	properties["elements"] = shape.ElementCount(s)
	return name, properties
}

// InspectResult contains the hit of an inspection ray and the primitive it
// came from
type InspectResult struct {
	Hit          bool
	Ray          core.Ray
	Intersection scene.Intersection
	Primitive    scene.Primitive
}

// inspectPixel casts the ray through the center of pixel (x, y), counted
// from the top left, of a width x height image
func inspectPixel(s *scene.Scene, width, height, x, y int) InspectResult {
	uv := core.NewVec2((float64(x)+0.5)/float64(width), 1-(float64(y)+0.5)/float64(height))
	ray := s.Camera.Ray(uv)

	hit, ok := s.IntersectFirst(ray)
	if !ok {
		return InspectResult{Ray: ray}
	}

	// the group does not report which primitive it hit
	result := InspectResult{Hit: true, Ray: ray, Intersection: hit}
	for _, p := range s.Prims.Prims {
		if primHit, ok := p.IntersectFirst(ray); ok && primHit.T == hit.T {
			result.Primitive = p
			break
		}
	}
	return result
}

func primitiveShape(p scene.Primitive) shape.Shape {
	switch p := p.(type) {
	case *scene.Surface:
		return p.Shape
	case *scene.TransformedSurface:
		return p.Shape
	}
	return nil
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	ref := values.Get("scene")
	if ref == "" {
		ref = "cornell-box"
	}
	res, err := parseIntParam(values, "res", 0, 1, s.Limits.MaxRes)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(values.Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(values.Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	f, err := loaders.OpenScene(ref, s.SceneDir)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown or invalid scene: " + ref})
		return
	}
	opts, _ := f.Options(res, 0)
	renderer.PrepareScene(f.Scene, &opts)

	width, height := f.Scene.Camera.ImageSize(opts.Res)
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(f.Scene, width, height, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	hit := result.Intersection
	materialType, materialProps := extractMaterialInfo(hit.Material)
	geometryType, geometryProps := "unknown", map[string]interface{}{}
	if sh := primitiveShape(result.Primitive); sh != nil {
		geometryType, geometryProps = extractGeometryInfo(sh)
	}

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vec3(result.Ray.At(hit.T)),
		Normal:       vec3(hit.Normal),
		Texcoord:     [2]float64{hit.Texcoord.X, hit.Texcoord.Y},
		Distance:     hit.T,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
