package img2ascii

import (
	"errors"

	"github.com/wbrown/img2ascii/imageutil"
)

var (
	// ErrInvalidResolution is returned when a resolution does not evenly
	// divide the padded width or falls outside the allowed bounds.
	ErrInvalidResolution = errors.New("invalid resolution")

	// ErrInsufficientCharset is returned when rendering is attempted
	// with fewer than two glyphs.
	ErrInsufficientCharset = errors.New("charset is too small")

	// ErrInvalidRoundingPolicy is returned for an unrecognized policy.
	ErrInvalidRoundingPolicy = errors.New("invalid rounding policy")

	// ErrNotPadded is returned when a tile cache is built over an image
	// whose sides are not powers of two.
	ErrNotPadded = errors.New("image is not padded to a power of two")

	// ErrUnknownGlyph is returned when a glyph source has no bitmap for
	// a requested character.
	ErrUnknownGlyph = errors.New("no bitmap for glyph")

	// ErrEmptyImage is returned for nil or zero-area images.
	ErrEmptyImage = imageutil.ErrEmptyImage
)
