package img2ascii

import (
	"fmt"
	"image"
	"sync"

	"github.com/wbrown/img2ascii/imageutil"
)

// Tile is one square sampling region of a padded canvas. It maps to
// exactly one output character.
type Tile struct {
	Row, Col int
	// Bounds is the tile's rectangle in canvas coordinates.
	Bounds image.Rectangle

	pixels *imageutil.RGBAImage
}

// Pixels returns the tile's pixels as a view into the canvas.
func (t Tile) Pixels() *imageutil.RGBAImage {
	return t.pixels
}

// Brightness returns the mean Rec. 709 luma of the tile in [0, 1].
func (t Tile) Brightness() float64 {
	return imageutil.MeanBrightness(t.pixels)
}

// TileGrid is a row-major grid of equally sized square tiles.
type TileGrid struct {
	Resolution int
	Side       int
	Rows       int
	Tiles      [][]Tile
}

// At returns the tile at row, col.
func (g *TileGrid) At(row, col int) Tile {
	return g.Tiles[row][col]
}

// TileCache partitions one padded canvas into tiles and remembers the
// most recent partition. Asking for the same resolution again returns the
// cached grid; asking for another resolution replaces it.
//
// A TileCache belongs to a single image. Build one per image with
// NewTileCache and hand it to Run.
type TileCache struct {
	canvas *imageutil.RGBAImage

	mu         sync.Mutex
	resolution int
	grid       *TileGrid
}

// NewTileCache creates a cache over a canvas whose sides are powers of
// two, as produced by imageutil.PadToPowerOfTwo.
func NewTileCache(padded *imageutil.RGBAImage) (*TileCache, error) {
	if padded.Empty() {
		return nil, ErrEmptyImage
	}
	if !imageutil.IsPowerOfTwo(padded.Width()) || !imageutil.IsPowerOfTwo(padded.Height()) {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotPadded, padded.Width(), padded.Height())
	}
	return &TileCache{canvas: padded}, nil
}

// Canvas returns the padded canvas the cache partitions.
func (c *TileCache) Canvas() *imageutil.RGBAImage {
	return c.canvas
}

// Width returns the canvas width, which is also the largest resolution.
func (c *TileCache) Width() int {
	return c.canvas.Width()
}

// Height returns the canvas height.
func (c *TileCache) Height() int {
	return c.canvas.Height()
}

// Resolution returns the resolution of the cached grid, or 0 if nothing
// has been partitioned yet.
func (c *TileCache) Resolution() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolution
}

// MinResolution returns the smallest resolution whose tiles still fit the
// canvas height, max(1, width/height).
func (c *TileCache) MinResolution() int {
	return max(1, c.canvas.Width()/c.canvas.Height())
}

// ValidateResolution reports whether resolution yields at least one row of
// exact square tiles on this canvas.
func (c *TileCache) ValidateResolution(resolution int) error {
	width := c.canvas.Width()
	if resolution < 1 || resolution > width || width%resolution != 0 {
		return fmt.Errorf("%w: %d does not divide width %d",
			ErrInvalidResolution, resolution, width)
	}
	if resolution < c.MinResolution() {
		return fmt.Errorf("%w: %d is below the minimum %d",
			ErrInvalidResolution, resolution, c.MinResolution())
	}
	return nil
}

// Tiles returns the tile grid for resolution, computing it if the cache
// holds a different resolution. An invalid resolution leaves the cache
// untouched.
func (c *TileCache) Tiles(resolution int) (*TileGrid, error) {
	if err := c.ValidateResolution(resolution); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.grid != nil && c.resolution == resolution {
		return c.grid, nil
	}
	c.grid = partition(c.canvas, resolution)
	c.resolution = resolution
	return c.grid, nil
}

func partition(canvas *imageutil.RGBAImage, resolution int) *TileGrid {
	side := canvas.Width() / resolution
	rows := canvas.Height() / side

	grid := &TileGrid{
		Resolution: resolution,
		Side:       side,
		Rows:       rows,
		Tiles:      make([][]Tile, rows),
	}
	for row := 0; row < rows; row++ {
		grid.Tiles[row] = make([]Tile, resolution)
		for col := 0; col < resolution; col++ {
			bounds := image.Rect(col*side, row*side, (col+1)*side, (row+1)*side)
			grid.Tiles[row][col] = Tile{
				Row:    row,
				Col:    col,
				Bounds: bounds,
				pixels: canvas.Window(bounds),
			}
		}
	}
	return grid
}
