package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Camera is a pinhole or thin-lens camera looking down the -Z axis of its frame.
// The image plane sits ImageDist in front of the origin and is ImageWidth by
// ImageHeight in size.
type Camera struct {
	Frame         core.Frame
	ViewDist      float64 // distance to the point the camera orbits around
	ImageWidth    float64
	ImageHeight   float64
	ImageDist     float64
	FocusDist     float64
	FocusAperture float64
	Orthographic  bool
}

// NewCamera creates a camera at the origin with a unit image plane
func NewCamera() *Camera {
	return &Camera{
		Frame:       core.IdentityFrame(),
		ViewDist:    1,
		ImageWidth:  1,
		ImageHeight: 1,
		ImageDist:   1,
		FocusDist:   1,
	}
}

// LookAt places the camera at eye looking toward center
func (c *Camera) LookAt(eye, center, up core.Vec3) {
	c.Frame = core.LookAtFrame(eye, center, up, true)
	c.ViewDist = eye.Distance(center)
}

// ImageSize returns the pixel size of an image res pixels high with the
// camera's aspect ratio
func (c *Camera) ImageSize(res int) (width, height int) {
	return int(math.Round(float64(res) * c.ImageWidth / c.ImageHeight)), res
}

// SetAspectRatio adjusts ImageWidth so the image plane matches width x height pixels
func (c *Camera) SetAspectRatio(width, height int) {
	c.ImageWidth = c.ImageHeight * float64(width) / float64(height)
}

// Ray returns the world ray through the image point uv in [0,1]^2, with
// (0,0) at the bottom left
func (c *Camera) Ray(uv core.Vec2) core.Ray {
	var local core.Ray
	if !c.Orthographic {
		q := core.NewVec3((uv.X-0.5)*c.ImageWidth, (uv.Y-0.5)*c.ImageHeight, -c.ImageDist)
		local = core.NewRay(core.Vec3{}, q.Normalize())
	} else {
		l := core.NewVec3((uv.X-0.5)*c.ImageWidth, (uv.Y-0.5)*c.ImageHeight, 0)
		local = core.NewRay(l, core.NewVec3(0, 0, -1))
	}
	return c.Frame.TransformRay(local)
}

// LensRay returns a thin-lens ray through uv that leaves the aperture at auv
// in [0,1]^2 and converges on the focus plane
func (c *Camera) LensRay(uv, auv core.Vec2) core.Ray {
	if c.Orthographic {
		return c.Ray(uv)
	}
	e := core.NewVec3(0.5-auv.X, 0.5-auv.Y, 0).Multiply(c.FocusAperture)
	scale := c.FocusDist / c.ImageDist
	q := core.NewVec3((uv.X-0.5)*c.ImageWidth*scale, (uv.Y-0.5)*c.ImageHeight*scale, -c.FocusDist)
	return c.Frame.TransformRay(core.NewRay(e, q.Subtract(e).Normalize()))
}
