package loaders

import (
	"path/filepath"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ErrTypeUnknownScene is attached when a scene reference names nothing
const ErrTypeUnknownScene = "unknown-scene"

// OpenScene resolves a scene reference:
//   - "json:<name>" is the file <name>.json in dir, as listed by scene.ListJSONScenes
//   - a reference ending in ".json" is a scene file path
//   - anything else is a built-in scene id, optionally prefixed with "builtin:"
//
// Built-in scenes carry no render options.
func OpenScene(ref, dir string) (*SceneFile, error) {
	switch {
	case strings.HasPrefix(ref, "json:"):
		return LoadScene(filepath.Join(dir, strings.TrimPrefix(ref, "json:")+".json"))
	case strings.EqualFold(filepath.Ext(ref), ".json"):
		return LoadScene(ref)
	}

	id := strings.TrimPrefix(ref, "builtin:")
	s, ok := scene.Builtin(id)
	if !ok {
		return nil, errors.New("unknown scene").
			WithType(ErrTypeUnknownScene).
			WithTag("scene", ref)
	}
	return &SceneFile{Scene: s}, nil
}

// SceneName returns the base name used for output files of a scene reference
func SceneName(ref string) string {
	name := ref
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	name = filepath.Base(name)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Options returns the options of both integrators, taken from the file when
// it has them and from the defaults otherwise. Positive res and samples
// override either.
func (f *SceneFile) Options(res, samples int) (renderer.RaytraceOptions, renderer.DistributionRaytraceOptions) {
	opts := renderer.DefaultRaytraceOptions()
	if f.Raytrace != nil {
		opts = *f.Raytrace
	}
	dist := renderer.DefaultDistributionRaytraceOptions()
	if f.Distribution != nil {
		dist = *f.Distribution
	}

	if res > 0 {
		opts.Res = res
		dist.Res = res
	}
	if samples > 0 {
		opts.Samples = samples
		dist.Samples = samples
	}
	return opts, dist
}
