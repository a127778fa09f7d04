package loaders

import (
	"os"
	"path/filepath"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/pkg/shape"
	"github.com/segmentio/encoding/json"
)

// maxIncludeDepth bounds nested "_include" files
const maxIncludeDepth = 16

// SceneFile is a scene read from JSON together with the render options the
// file carries. Options absent from the file are nil.
type SceneFile struct {
	Scene        *scene.Scene
	Raytrace     *renderer.RaytraceOptions
	Distribution *renderer.DistributionRaytraceOptions
}

// LoadScene reads a JSON scene file. Included files and texture file names
// are resolved relative to the directory of the file that names them.
func LoadScene(filename string) (*SceneFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New("reading scene file failed").
			WithTag("filename", filename).
			Wrap(err)
	}

	f, err := ReadScene(data, filepath.Dir(filename))
	if err != nil {
		return nil, errors.New("loading scene failed").
			WithType(ErrTypeInvalidScene).
			WithTag("filename", filename).
			Wrap(err)
	}

	stats := f.Scene.Stats()
	logger.Infof("loaded %s: %d primitives, %d lights", filename, stats.Primitives, stats.Lights)
	return f, nil
}

// ReadScene decodes a JSON scene whose relative paths start at dir. The
// top-level object is a "Scene", with or without its "_type" member.
func ReadScene(data []byte, dir string) (*SceneFile, error) {
	d := &sceneDecoder{dir: dir, objects: make(map[int]any)}

	var m members
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.New("scene is not a json object").
			WithType(ErrTypeInvalidScene).
			Wrap(err)
	}
	if _, ok := m["_type"]; !ok {
		f, err := d.sceneFile(m)
		if err != nil {
			return nil, err
		}
		return f, f.validate()
	}

	obj, err := d.node(data)
	if err != nil {
		return nil, err
	}
	f, ok := obj.(*SceneFile)
	if !ok {
		return nil, errors.New("top-level object is not a scene").
			WithType(ErrTypeInvalidScene).
			WithTag("type", typeName(obj))
	}
	return f, f.validate()
}

// validate checks that every primitive has a shape and a material and that
// element indices stay inside their arrays
func (f *SceneFile) validate() error {
	for i, p := range f.Scene.Prims.Prims {
		var s shape.Shape
		var m material.Material
		switch p := p.(type) {
		case *scene.Surface:
			s, m = p.Shape, p.Material
		case *scene.TransformedSurface:
			s, m = p.Shape, p.Material
		}
		if s == nil || m == nil {
			return errors.New("primitive needs a shape and a material").
				WithType(ErrTypeInvalidScene).
				WithTag("prim", i)
		}
		if err := validateShape(s); err != nil {
			return errors.New("invalid primitive shape").
				WithType(ErrTypeInvalidScene).
				WithTag("prim", i).
				Wrap(err)
		}
	}
	return nil
}

func validateShape(s shape.Shape) error {
	switch s := s.(type) {
	case *shape.TriangleMesh:
		return checkIndices(len(s.Pos), flatten(s.Triangle))
	case *shape.Mesh:
		if err := checkIndices(len(s.Pos), flatten(s.Triangle)); err != nil {
			return err
		}
		return checkIndices(len(s.Pos), flatten(s.Quad))
	case *shape.FaceMesh:
		if err := checkIndices(len(s.Vertex), flatten(s.Triangle)); err != nil {
			return err
		}
		if err := checkIndices(len(s.Vertex), flatten(s.Quad)); err != nil {
			return err
		}
		for _, v := range s.Vertex {
			if v[0] < 0 || v[0] >= len(s.Pos) {
				return errors.New("face vertex position out of range").WithTag("index", v[0])
			}
		}
	case *shape.LineSet:
		if len(s.Radius) != len(s.Pos) {
			return errors.New("line set needs one radius per point")
		}
		return checkIndices(len(s.Pos), flatten(s.Line))
	case *shape.PointSet:
		if len(s.Radius) != len(s.Pos) {
			return errors.New("point set needs one radius per point")
		}
	}
	return nil
}

func flatten[T [2]int | [3]int | [4]int](faces []T) []int {
	var out []int
	for _, f := range faces {
		switch f := any(f).(type) {
		case [2]int:
			out = append(out, f[:]...)
		case [3]int:
			out = append(out, f[:]...)
		case [4]int:
			out = append(out, f[:]...)
		}
	}
	return out
}

func checkIndices(n int, indices []int) error {
	for _, i := range indices {
		if i < 0 || i >= n {
			return errors.New("element index out of range").
				WithTag("index", i).
				WithTag("count", n)
		}
	}
	return nil
}

// sceneDecoder turns JSON objects into scene values. Objects are written
// as {"_type": name, "_id": n, ...members}, {"_ref": n} to reuse an object
// with that id, or {"_include": file} to read the object from another file.
type sceneDecoder struct {
	dir      string
	objects  map[int]any
	includes int
}

type members map[string]json.RawMessage

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// node decodes one object; JSON null yields nil
func (d *sceneDecoder) node(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, nil
	}

	var m members
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.New("expected a json object").
			WithType(ErrTypeInvalidScene).
			Wrap(err)
	}

	if include, ok := m["_include"]; ok {
		return d.include(include)
	}

	if ref, ok := m["_ref"]; ok {
		var id int
		if err := json.Unmarshal(ref, &id); err != nil {
			return nil, errors.New("invalid object reference").
				WithType(ErrTypeInvalidScene).
				Wrap(err)
		}
		obj, ok := d.objects[id]
		if !ok {
			return nil, errors.New("unknown object reference").
				WithType(ErrTypeInvalidScene).
				WithTag("ref", id)
		}
		return obj, nil
	}

	var typ string
	if raw, ok := m["_type"]; ok {
		if err := json.Unmarshal(raw, &typ); err != nil {
			return nil, errors.New("invalid object type").
				WithType(ErrTypeInvalidScene).
				Wrap(err)
		}
	}
	if typ == "" {
		return nil, errors.New("object has no type").
			WithType(ErrTypeInvalidScene)
	}

	obj, err := d.decode(typ, m)
	if err != nil {
		return nil, err
	}

	if raw, ok := m["_id"]; ok {
		var id int
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, errors.New("invalid object id").
				WithType(ErrTypeInvalidScene).
				WithTag("type", typ).
				Wrap(err)
		}
		d.objects[id] = obj
	}
	return obj, nil
}

func (d *sceneDecoder) include(raw json.RawMessage) (any, error) {
	var filename string
	if err := json.Unmarshal(raw, &filename); err != nil {
		return nil, errors.New("invalid include").
			WithType(ErrTypeInvalidScene).
			Wrap(err)
	}
	if d.includes >= maxIncludeDepth {
		return nil, errors.New("includes nested too deeply").
			WithType(ErrTypeInvalidScene).
			WithTag("filename", filename)
	}

	path := d.resolve(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("reading included file failed").
			WithType(ErrTypeInvalidScene).
			WithTag("filename", path).
			Wrap(err)
	}

	dir := d.dir
	d.dir = filepath.Dir(path)
	d.includes++
	defer func() {
		d.dir = dir
		d.includes--
	}()
	return d.node(data)
}

func (d *sceneDecoder) resolve(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(d.dir, filename)
}

func (d *sceneDecoder) decode(typ string, m members) (any, error) {
	r := &memberReader{d: d, m: m, typ: typ}
	var obj any

	switch typ {
	case "Sphere":
		s := shape.NewSphere(core.Vec3{}, 1)
		r.bool("intersect_accelerator_use", &s.AcceleratorUse)
		r.vec3("center", &s.Center)
		r.float("radius", &s.Radius)
		obj = s
	case "Cylinder":
		s := shape.NewCylinder(1, 1)
		r.bool("intersect_accelerator_use", &s.AcceleratorUse)
		r.float("radius", &s.Radius)
		r.float("height", &s.Height)
		obj = s
	case "Quad":
		s := shape.NewQuad(1, 1)
		r.bool("intersect_accelerator_use", &s.AcceleratorUse)
		r.float("width", &s.Width)
		r.float("height", &s.Height)
		obj = s
	case "Triangle":
		s := shape.DefaultTriangle()
		r.bool("intersect_accelerator_use", &s.AcceleratorUse)
		r.vec3("v0", &s.V0)
		r.vec3("v1", &s.V1)
		r.vec3("v2", &s.V2)
		obj = s
	case "PointSet":
		s := shape.NewPointSet(nil, nil)
		r.bool("intersect_accelerator_use", &s.AcceleratorUse)
		r.vec3s("pos", &s.Pos)
		r.floats("radius", &s.Radius)
		r.vec2s("texcoord", &s.Texcoord)
		r.bool("approximate", &s.Approximate)
		obj = s
	case "LineSet":
		s := shape.NewLineSet(nil, nil, nil)
		r.bool("intersect_accelerator_use", &s.AcceleratorUse)
		r.vec3s("pos", &s.Pos)
		r.floats("radius", &s.Radius)
		r.vec2s("texcoord", &s.Texcoord)
		r.bool("approximate", &s.Approximate)
		readTuples(r, "line", &s.Line)
		obj = s
	case "TriangleMesh":
		s := shape.NewTriangleMesh(nil, nil)
		r.bool("intersect_accelerator_use", &s.AcceleratorUse)
		r.vec3s("pos", &s.Pos)
		r.vec3s("norm", &s.Norm)
		r.vec2s("texcoord", &s.Texcoord)
		readTuples(r, "triangle", &s.Triangle)
		obj = s
	case "Mesh":
		s := shape.NewMesh(nil, nil, nil)
		r.bool("intersect_accelerator_use", &s.AcceleratorUse)
		r.vec3s("pos", &s.Pos)
		r.vec3s("norm", &s.Norm)
		r.vec2s("texcoord", &s.Texcoord)
		readTuples(r, "triangle", &s.Triangle)
		readTuples(r, "quad", &s.Quad)
		obj = s
	case "FaceMesh":
		s := shape.NewFaceMesh(nil, nil, nil, nil)
		r.bool("intersect_accelerator_use", &s.AcceleratorUse)
		r.vec3s("pos", &s.Pos)
		r.vec3s("norm", &s.Norm)
		r.vec2s("texcoord", &s.Texcoord)
		readTuples(r, "vertex", &s.Vertex)
		readTuples(r, "triangle", &s.Triangle)
		readTuples(r, "quad", &s.Quad)
		obj = s
	case "PlyMesh":
		obj = r.plyMesh()

	case "Lambert":
		m := material.NewLambert()
		r.vec3("diffuse", &m.Diffuse)
		readNode(r, "diffuse_texture", &m.DiffuseTexture)
		obj = m
	case "Phong":
		m := material.NewPhong()
		r.vec3("diffuse", &m.Diffuse)
		r.vec3("specular", &m.Specular)
		r.vec3("reflection", &m.Reflection)
		r.float("blur_size", &m.BlurSize)
		r.float("exponent", &m.Exponent)
		r.bool("use_reflected", &m.UseReflected)
		readNode(r, "diffuse_texture", &m.DiffuseTexture)
		obj = m
	case "LambertEmission":
		m := material.NewLambertEmission()
		r.vec3("diffuse", &m.Diffuse)
		r.vec3("emission", &m.Emission)
		readNode(r, "diffuse_texture", &m.DiffuseTexture)
		obj = m
	case "Texture":
		obj = r.texture()

	case "Camera":
		c := scene.NewCamera()
		r.frame("frame", &c.Frame)
		r.float("view_dist", &c.ViewDist)
		r.float("image_width", &c.ImageWidth)
		r.float("image_height", &c.ImageHeight)
		r.float("image_dist", &c.ImageDist)
		r.float("focus_dist", &c.FocusDist)
		r.float("focus_aperture", &c.FocusAperture)
		r.bool("orthographic", &c.Orthographic)
		obj = c

	case "PointLight":
		l := lights.NewPointLight(core.Vec3{})
		r.frame("frame", &l.Frame)
		r.vec3("intensity", &l.Intensity)
		obj = l
	case "DirectionalLight":
		l := lights.NewDirectionalLight()
		r.frame("frame", &l.Frame)
		r.vec3("intensity", &l.Intensity)
		obj = l
	case "AreaLight":
		l := lights.NewAreaLight()
		r.frame("frame", &l.Frame)
		r.vec3("intensity", &l.Intensity)
		readNode(r, "shape", &l.Shape)
		r.int("shadow_samples", &l.ShadowSamples)
		obj = l
	case "EnvLight":
		l := lights.NewEnvLight()
		r.frame("frame", &l.Frame)
		r.vec3("intensity", &l.Intensity)
		r.int("shadow_samples", &l.ShadowSamples)
		obj = l
	case "LightGroup":
		var group lightGroup
		readNodes(r, "lights", (*[]lights.Light)(&group))
		obj = group

	case "Surface":
		s := scene.NewSurface(nil, nil)
		r.frame("frame", &s.Frame)
		readNode(r, "material", &s.Material)
		readNode(r, "shape", &s.Shape)
		obj = s
	case "TransformedSurface":
		s := scene.NewTransformedSurface(nil, nil)
		r.frame("frame", &s.Frame)
		readNode(r, "material", &s.Material)
		readNode(r, "shape", &s.Shape)
		r.frame("pivot", &s.Pivot)
		r.vec3("translation", &s.Translation)
		r.vec3("scale", &s.Scale)
		r.vec3("rotation_euler", &s.RotationEuler)
		readNode(r, "anim_translation", &s.AnimTranslation)
		readNode(r, "anim_scale", &s.AnimScale)
		readNode(r, "anim_rotation_euler", &s.AnimRotationEuler)
		obj = s
	case "PrimitiveGroup":
		g := scene.NewPrimitiveGroup()
		readNodes(r, "prims", &g.Prims)
		r.bool("intersect_accelerator_use", &g.AcceleratorUse)
		obj = g
	case "KeyframedValue":
		k := &scene.KeyframedValue{Degree: 1}
		r.vec3s("values", &k.Values)
		r.floats("times", &k.Times)
		r.int("degree", &k.Degree)
		r.keyframes(k)
		obj = k

	case "RaytraceOptions":
		opts := renderer.DefaultRaytraceOptions()
		r.raytraceOptions(&opts)
		obj = &opts
	case "DistributionRaytraceOptions":
		opts := renderer.DefaultDistributionRaytraceOptions()
		r.distributionOptions(&opts)
		obj = &opts

	case "Scene":
		f, err := d.sceneFile(m)
		if err != nil {
			return nil, err
		}
		obj = f

	default:
		return nil, errors.New("unknown object type").
			WithType(ErrTypeInvalidScene).
			WithTag("type", typ)
	}

	if r.err != nil {
		return nil, r.err
	}
	return obj, nil
}

// lightGroup is the decoded form of a "LightGroup" object
type lightGroup []lights.Light

func (d *sceneDecoder) sceneFile(m members) (*SceneFile, error) {
	r := &memberReader{d: d, m: m, typ: "Scene"}
	s := scene.NewScene()
	f := &SceneFile{Scene: s}

	readNode(r, "camera", &s.Camera)
	var group lightGroup
	readNode(r, "lights", &group)
	s.Lights = group
	readNode(r, "prims", &s.Prims)
	readNode(r, "raytrace_opts", &f.Raytrace)
	readNode(r, "distribution_opts", &f.Distribution)
	if r.err != nil {
		return nil, r.err
	}

	if s.Camera == nil {
		s.Camera = scene.NewCamera()
	}
	if s.Prims == nil {
		s.Prims = scene.NewPrimitiveGroup()
	}
	return f, nil
}
