package img2ascii

import (
	"github.com/wbrown/img2ascii/imageutil"
)

// LoadPadded loads an image, optionally downscales it to maxWidth with
// interp (zero disables), and pads it to power-of-two sides.
func LoadPadded(path string, maxWidth int, interp imageutil.Interpolation) (*imageutil.RGBAImage, error) {
	img, err := imageutil.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return imageutil.PadToPowerOfTwo(imageutil.FitWidth(img, maxWidth, interp))
}

// NewTileCacheFromFile loads, pads and wraps an image in a TileCache.
func NewTileCacheFromFile(path string, maxWidth int, interp imageutil.Interpolation) (*TileCache, error) {
	padded, err := LoadPadded(path, maxWidth, interp)
	if err != nil {
		return nil, err
	}
	return NewTileCache(padded)
}

// SaveGridToPNG draws grid with the glyph bitmaps in fonts and saves it
// as a PNG.
func SaveGridToPNG(grid [][]rune, fonts *FontBitmaps, path string, scale int) error {
	return imageutil.SavePNG(fonts.RenderGrid(grid, scale), path)
}
