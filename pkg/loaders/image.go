package loaders

import (
	"image"
	_ "image/jpeg" // JPEG decoder
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// LoadImage decodes a PNG, JPEG, TIFF or BMP file
func LoadImage(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.New("opening image file failed").
			WithTag("filename", filename).
			Wrap(err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.New("decoding image failed").
			WithType(ErrTypeUnsupportedFormat).
			WithTag("filename", filename).
			Wrap(err)
	}
	return img, nil
}

// LoadTexture loads an image texture. Texture lookups put v=0 on the last
// image row; with flipY unset the rows are reversed so v=0 is the first row.
func LoadTexture(filename string, flipY bool) (*material.ImageTexture, error) {
	img, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}

	texture := material.NewImageTextureFromImage(img)
	texture.Filename = filename
	if !flipY {
		flipRows(texture.Pixels, texture.Width, texture.Height)
	}
	return texture, nil
}

func flipRows(pixels []core.Vec3, width, height int) {
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pixels[top*width : (top+1)*width]
		b := pixels[bottom*width : (bottom+1)*width]
		for x := range a {
			a[x], b[x] = b[x], a[x]
		}
	}
}

// WriteImage encodes img to filename, picking PNG, TIFF or BMP from the
// file extension
func WriteImage(filename string, img image.Image) error {
	encode, err := encoderFor(filename)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return errors.New("creating image file failed").
			WithTag("filename", filename).
			Wrap(err)
	}

	if err := encode(file, img); err != nil {
		file.Close()
		return errors.New("encoding image failed").
			WithTag("filename", filename).
			Wrap(err)
	}
	return file.Close()
}

func encoderFor(filename string) (func(*os.File, image.Image) error, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return func(f *os.File, img image.Image) error { return png.Encode(f, img) }, nil
	case ".tif", ".tiff":
		return func(f *os.File, img image.Image) error {
			return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	case ".bmp":
		return func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }, nil
	default:
		return nil, errors.New("unsupported image format").
			WithType(ErrTypeUnsupportedFormat).
			WithTag("filename", filename)
	}
}
