// Package loaders reads scenes, meshes and images from disk and writes
// rendered images back.
package loaders

import "github.com/df07/go-whitted-raytracer/pkg/log"

// Error types attached to loader errors, checked with errors.Type.
const (
	ErrTypeInvalidScene      = "invalid-scene"
	ErrTypeInvalidMesh       = "invalid-mesh"
	ErrTypeUnsupportedFormat = "unsupported-format"
)

var logger = log.New("loaders")
