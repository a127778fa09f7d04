package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ImageBuffer accumulates color samples per pixel. Accum divided by Samples is
// a valid estimate of the image after any number of passes.
// Pixels are stored row by row with row 0 at the top of the image.
type ImageBuffer struct {
	Width   int
	Height  int
	Accum   []core.Vec3
	Samples []int
}

// NewImageBuffer creates an empty buffer of the given size
func NewImageBuffer(width, height int) *ImageBuffer {
	return &ImageBuffer{
		Width:   width,
		Height:  height,
		Accum:   make([]core.Vec3, width*height),
		Samples: make([]int, width*height),
	}
}

func (b *ImageBuffer) index(x, y int) int {
	return y*b.Width + x
}

// AddSample adds one color sample to pixel (x, y)
func (b *ImageBuffer) AddSample(x, y int, c core.Vec3) {
	k := b.index(x, y)
	b.Accum[k] = b.Accum[k].Add(c)
	b.Samples[k]++
}

// SampleCount returns the number of samples of pixel (x, y)
func (b *ImageBuffer) SampleCount(x, y int) int {
	return b.Samples[b.index(x, y)]
}

// Color returns the averaged color of pixel (x, y), black before any sample
func (b *ImageBuffer) Color(x, y int) core.Vec3 {
	k := b.index(x, y)
	if b.Samples[k] == 0 {
		return core.Vec3{}
	}
	return b.Accum[k].Divide(float64(b.Samples[k]))
}

// Clear drops every accumulated sample
func (b *ImageBuffer) Clear() {
	for k := range b.Accum {
		b.Accum[k] = core.Vec3{}
		b.Samples[k] = 0
	}
}

// Image converts the averaged colors to 8-bit RGBA, raising each channel to
// gamma before clamping to [0, 1]
func (b *ImageBuffer) Image(gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			img.SetRGBA(x, y, toRGBA(b.Color(x, y), gamma))
		}
	}
	return img
}

func toRGBA(c core.Vec3, gamma float64) color.RGBA {
	if gamma != 1 {
		c = c.Max(core.Vec3{}).Pow(gamma)
	}
	c = c.Clamp(0, 1)
	return color.RGBA{
		R: uint8(255*c.X + 0.5),
		G: uint8(255*c.Y + 0.5),
		B: uint8(255*c.Z + 0.5),
		A: 255,
	}
}

// AverageLuminance returns the mean luminance of the averaged colors
func (b *ImageBuffer) AverageLuminance() float64 {
	if len(b.Accum) == 0 {
		return 0
	}
	total := 0.0
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			total += b.Color(x, y).Luminance()
		}
	}
	return total / float64(len(b.Accum))
}
