package material

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestImageTexture_Lookup(t *testing.T) {
	// 2x2 checkerboard, top row first:
	//   white black
	//   black white
	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)
	texture := NewImageTexture(2, 2, []core.Vec3{white, black, black, white})

	tests := []struct {
		name     string
		uv       core.Vec2
		expected core.Vec3
	}{
		{"bottom left", core.NewVec2(0.1, 0.1), black},
		{"bottom right", core.NewVec2(0.9, 0.1), white},
		{"top left", core.NewVec2(0.1, 0.9), white},
		{"top right", core.NewVec2(0.9, 0.9), black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := texture.Lookup(tt.uv)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestImageTexture_Wrapping(t *testing.T) {
	red := core.NewVec3(1, 0, 0)
	texture := NewImageTexture(1, 1, []core.Vec3{red})

	for _, uv := range []core.Vec2{
		core.NewVec2(0.5, 0.5),
		core.NewVec2(1.5, 0.5),
		core.NewVec2(0.5, 1.5),
		core.NewVec2(-0.5, -0.5),
		core.NewVec2(2.3, 3.7),
	} {
		if result := texture.Lookup(uv); result != red {
			t.Errorf("UV%v: expected %v, got %v", uv, red, result)
		}
	}
}

func TestImageTexture_FromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 255, A: 255})

	texture := NewImageTextureFromImage(img)
	if texture.Width != 2 || texture.Height != 1 {
		t.Fatalf("Expected 2x1 texture, got %dx%d", texture.Width, texture.Height)
	}

	left := texture.Lookup(core.NewVec2(0.25, 0.5))
	right := texture.Lookup(core.NewVec2(0.75, 0.5))
	if math.Abs(left.X-1) > 1e-9 || left.Z != 0 {
		t.Errorf("Expected red on the left, got %v", left)
	}
	if math.Abs(right.Z-1) > 1e-9 || right.X != 0 {
		t.Errorf("Expected blue on the right, got %v", right)
	}
}

func TestImageTexture_Empty(t *testing.T) {
	texture := NewImageTexture(0, 0, nil)
	if result := texture.Lookup(core.NewVec2(0.5, 0.5)); !result.IsZero() {
		t.Errorf("Expected zero for an empty texture, got %v", result)
	}
}
