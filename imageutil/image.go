// Package imageutil provides the pixel-level pieces of the ASCII art
// pipeline: an RGB canvas, loading, luma, power-of-two padding and
// resizing.
package imageutil

import (
	"image"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// White is the fill used for padded borders.
var White = RGB{R: 255, G: 255, B: 255}

// ToColor converts RGB to color.RGBA for use with standard library.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBFromColor converts a color.Color to RGB.
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
// The alpha channel is carried but never read by the pipeline.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to an RGBAImage whose
// bounds start at the origin.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.SetRGB(x-bounds.Min.X, y-bounds.Min.Y, RGBFromColor(img.At(x, y)))
		}
	}
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// Empty reports whether the image is nil or has no pixels.
func (img *RGBAImage) Empty() bool {
	return img == nil || img.RGBA == nil || img.Width() < 1 || img.Height() < 1
}

// GetRGB returns the RGB value at (x, y), relative to the image origin.
func (img *RGBAImage) GetRGB(x, y int) RGB {
	min := img.Bounds().Min
	c := img.RGBAAt(min.X+x, min.Y+y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets the RGB value at (x, y), relative to the image origin.
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	min := img.Bounds().Min
	img.SetRGBA(min.X+x, min.Y+y, c.ToColor())
}

// Fill sets every pixel to c.
func (img *RGBAImage) Fill(c RGB) {
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			img.SetRGB(x, y, c)
		}
	}
}

// Window returns a view of the rectangle r, given relative to the image
// origin. The view shares pixels with img.
func (img *RGBAImage) Window(r image.Rectangle) *RGBAImage {
	r = r.Add(img.Bounds().Min)
	return &RGBAImage{RGBA: img.SubImage(r).(*image.RGBA)}
}

// Clone creates a deep copy of the image.
func (img *RGBAImage) Clone() *RGBAImage {
	clone := NewRGBAImage(img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			clone.SetRGB(x, y, img.GetRGB(x, y))
		}
	}
	return clone
}
