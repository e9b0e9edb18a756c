package imageutil

import "errors"

// ErrEmptyImage is returned when an image is nil or has no pixels.
var ErrEmptyImage = errors.New("image is empty")

// NextPowerOfTwo returns the smallest power of two that is >= n.
// NextPowerOfTwo(1) and anything below it return 1.
func NextPowerOfTwo(n int) int {
	power := 1
	for power < n {
		power <<= 1
	}
	return power
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// PadToPowerOfTwo pads img with white so that both of its dimensions are
// powers of two. See PadToPowerOfTwoWith.
func PadToPowerOfTwo(img *RGBAImage) (*RGBAImage, error) {
	return PadToPowerOfTwoWith(img, White)
}

// PadToPowerOfTwoWith returns a new canvas whose width and height are the
// next powers of two of img's, filled with bg, with img copied into the
// center. The offsets are floor((padded-original)/2) on each axis, so an
// image that is already power-of-two sized comes back pixel-for-pixel
// equal at offset zero.
func PadToPowerOfTwoWith(img *RGBAImage, bg RGB) (*RGBAImage, error) {
	if img.Empty() {
		return nil, ErrEmptyImage
	}
	width, height := img.Width(), img.Height()
	if IsPowerOfTwo(width) && IsPowerOfTwo(height) {
		return img.Clone(), nil
	}
	paddedWidth := NextPowerOfTwo(width)
	paddedHeight := NextPowerOfTwo(height)

	padded := NewRGBAImage(paddedWidth, paddedHeight)
	padded.Fill(bg)

	startX := (paddedWidth - width) / 2
	startY := (paddedHeight - height) / 2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			padded.SetRGB(startX+x, startY+y, img.GetRGB(x, y))
		}
	}
	return padded, nil
}
