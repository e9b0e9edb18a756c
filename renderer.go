package img2ascii

import (
	"fmt"
	"io"
	"log"
	"time"
)

const (
	// DefaultResolution is the number of characters per row a new
	// Renderer starts with.
	DefaultResolution = 2
)

// DefaultCharset is the glyph set a new Renderer starts with.
var DefaultCharset = []rune{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}

// Run converts the tiles of one padded image into a character grid of
// tiles.Height()/side rows by resolution columns. Each tile's brightness
// is resolved through index. The index must hold at least two glyphs;
// otherwise ErrInsufficientCharset is returned and no grid is produced.
func Run(tiles *TileCache, resolution int, index *BrightnessIndex) ([][]rune, error) {
	if index.Len() < 2 {
		return nil, fmt.Errorf("%w: %d glyphs", ErrInsufficientCharset, index.Len())
	}

	grid, err := tiles.Tiles(resolution)
	if err != nil {
		return nil, err
	}

	out := make([][]rune, grid.Rows)
	for row := range grid.Tiles {
		out[row] = make([]rune, grid.Resolution)
		for col, tile := range grid.Tiles[row] {
			r, err := index.Resolve(tile.Brightness())
			if err != nil {
				return nil, err
			}
			out[row][col] = r
		}
	}
	return out, nil
}

// Renderer holds the settings a user adjusts between renders: the glyph
// index, its rounding policy and the resolution. One Renderer can render
// any number of images, each through its own TileCache.
type Renderer struct {
	fonts      *FontBitmaps
	index      *BrightnessIndex
	resolution int
	logger     *log.Logger

	// Stats (private)
	renders    int
	renderTime time.Duration

	// Pending settings applied once the index exists
	charset []rune
	policy  Policy
}

// RendererOption is a functional option for configuring a Renderer.
type RendererOption func(*Renderer)

// NewRenderer creates a new Renderer with the given options.
// Default values: Go Mono glyph bitmaps, charset '0'-'9', resolution 2,
// Nearest rounding and a discarding logger.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{
		resolution: DefaultResolution,
		logger:     log.New(io.Discard, "", 0),
		charset:    DefaultCharset,
		policy:     Nearest,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.fonts == nil {
		fonts, err := DefaultFontBitmaps()
		if err != nil {
			return nil, err
		}
		r.fonts = fonts
	}

	r.index = NewBrightnessIndex(r.fonts)
	if err := r.index.AddGlyphs(r.charset...); err != nil {
		return nil, err
	}
	if err := r.index.SetPolicy(r.policy); err != nil {
		return nil, err
	}
	r.charset = nil

	r.logger.Printf("renderer: font %q, %d glyphs, resolution %d, rounding %v",
		r.fonts.Name(), r.index.Len(), r.resolution, r.index.Policy())
	return r, nil
}

// WithFontBitmaps sets the source of glyph coverage bitmaps.
func WithFontBitmaps(fonts *FontBitmaps) RendererOption {
	return func(r *Renderer) {
		r.fonts = fonts
	}
}

// WithCharset sets the initial glyph set.
func WithCharset(charset []rune) RendererOption {
	return func(r *Renderer) {
		r.charset = charset
	}
}

// WithPolicy sets the initial rounding policy.
func WithPolicy(p Policy) RendererOption {
	return func(r *Renderer) {
		r.policy = p
	}
}

// WithResolution sets the initial characters per row. It is validated
// against each image when rendering.
func WithResolution(resolution int) RendererOption {
	return func(r *Renderer) {
		r.resolution = resolution
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *log.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// Index returns the glyph index. Glyph and policy changes made through it
// apply to the next render.
func (r *Renderer) Index() *BrightnessIndex {
	return r.index
}

// Fonts returns the glyph bitmaps backing the index.
func (r *Renderer) Fonts() *FontBitmaps {
	return r.fonts
}

// Resolution returns the current characters per row.
func (r *Renderer) Resolution() int {
	return r.resolution
}

// SetResolution changes the characters per row after checking it against
// tiles. On error the previous resolution is kept.
func (r *Renderer) SetResolution(tiles *TileCache, resolution int) error {
	if err := tiles.ValidateResolution(resolution); err != nil {
		return err
	}
	r.resolution = resolution
	return nil
}

// Render converts the image behind tiles at the current resolution.
func (r *Renderer) Render(tiles *TileCache) ([][]rune, error) {
	start := time.Now()
	grid, err := Run(tiles, r.resolution, r.index)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	r.renders++
	r.renderTime += elapsed
	r.logger.Printf("rendered %dx%d grid in %v", r.resolution, len(grid), elapsed)
	return grid, nil
}

// Stats returns the number of successful renders and the total time spent
// in them.
func (r *Renderer) Stats() (renders int, total time.Duration) {
	return r.renders, r.renderTime
}
