// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotAnImage is returned by DecodeImage when the bytes are not a recognized image format.
var ErrNotAnImage = errors.New("common: data is not a supported image")

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It is in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// CubemapStagingData holds the six faces of a cubemap in +X, -X, +Y, -Y, +Z, -Z order.
// All faces must share the same square size.
type CubemapStagingData struct {
	Faces [6]TextureStagingData
}

// Size returns the edge length of the cubemap faces, or an error if the faces disagree.
//
// Returns:
//   - uint32: the face edge length in pixels
//   - error: error if any face differs in size or is not square
func (c *CubemapStagingData) Size() (uint32, error) {
	size := c.Faces[0].Width
	for i, f := range c.Faces {
		if f.Width != size || f.Height != size {
			return 0, fmt.Errorf("cubemap face %d is %dx%d, expected %dx%d", i, f.Width, f.Height, size, size)
		}
	}
	return size, nil
}

// DecodeImage decodes PNG, JPEG, BMP, TIFF or WebP bytes into tightly packed RGBA pixels.
// The format is sniffed from the magic bytes before decoding so that non-image assets fail
// with ErrNotAnImage instead of a decoder-specific error.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - data: the encoded image bytes
//   - flipY: when true, rows are flipped so that the first row is the bottom of the image
//
// Returns:
//   - TextureStagingData: the decoded RGBA pixels and dimensions
//   - error: error if the data is not an image or decoding fails
func DecodeImage(data []byte, flipY bool) (TextureStagingData, error) {
	if !filetype.IsImage(data) {
		return TextureStagingData{}, ErrNotAnImage
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	if flipY {
		rgba = transform.FlipV(rgba)
	}

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(rgba.Bounds().Dx()),
		Height: uint32(rgba.Bounds().Dy()),
	}, nil
}

// Size is a framebuffer size in pixels.
type Size struct {
	Width  int
	Height int
}
