package imageutil

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest
)

// ErrUnknownInterpolation is returned by ParseInterpolation.
var ErrUnknownInterpolation = errors.New("unknown interpolation")

func (interp Interpolation) String() string {
	switch interp {
	case InterpolationArea:
		return "area"
	case InterpolationLinear:
		return "linear"
	case InterpolationNearest:
		return "nearest"
	}
	return fmt.Sprintf("Interpolation(%d)", int(interp))
}

// ParseInterpolation maps "area", "linear" or "nearest" to an
// Interpolation.
func ParseInterpolation(name string) (Interpolation, error) {
	for _, interp := range []Interpolation{InterpolationArea, InterpolationLinear, InterpolationNearest} {
		if interp.String() == name {
			return interp, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInterpolation, name)
}

func (interp Interpolation) scaler() draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resize resizes an RGBA image to the specified dimensions using the
// given interpolation method.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	dst := NewRGBAImage(width, height)
	dstRect := image.Rect(0, 0, width, height)
	interp.scaler().Scale(dst.RGBA, dstRect, img.RGBA, img.Bounds(), draw.Src, nil)
	return dst
}

// ResizeToWidth resizes an image to the specified width while maintaining
// aspect ratio. The height never drops below one pixel.
func ResizeToWidth(img *RGBAImage, width int, interp Interpolation) *RGBAImage {
	aspectRatio := float64(img.Width()) / float64(img.Height())
	height := int(float64(width) / aspectRatio)
	if height < 1 {
		height = 1
	}
	return Resize(img, width, height, interp)
}

// FitWidth downscales img to maxWidth with interp if it is wider, and
// returns it unchanged otherwise. A maxWidth of zero or less disables the
// limit.
func FitWidth(img *RGBAImage, maxWidth int, interp Interpolation) *RGBAImage {
	if maxWidth <= 0 || img.Width() <= maxWidth {
		return img
	}
	return ResizeToWidth(img, maxWidth, interp)
}
