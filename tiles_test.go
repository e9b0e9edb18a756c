package img2ascii

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/img2ascii/imageutil"
)

func paddedCache(t *testing.T, img *imageutil.RGBAImage) *TileCache {
	t.Helper()
	padded, err := imageutil.PadToPowerOfTwo(img)
	require.NoError(t, err)
	tiles, err := NewTileCache(padded)
	require.NoError(t, err)
	return tiles
}

func TestTilesScenario10x12(t *testing.T) {
	tiles := paddedCache(t, imageutil.CreateGradientImage(10, 12))
	require.Equal(t, 16, tiles.Width())
	require.Equal(t, 16, tiles.Height())

	grid, err := tiles.Tiles(4)
	require.NoError(t, err)
	assert.Equal(t, 4, grid.Side)
	assert.Equal(t, 4, grid.Rows)
	require.Len(t, grid.Tiles, 4)
	for row, tilesInRow := range grid.Tiles {
		require.Len(t, tilesInRow, 4)
		for col, tile := range tilesInRow {
			assert.Equal(t, row, tile.Row)
			assert.Equal(t, col, tile.Col)
			assert.Equal(t, image.Rect(col*4, row*4, col*4+4, row*4+4), tile.Bounds)
			assert.Equal(t, 4, tile.Pixels().Width())
			assert.Equal(t, 4, tile.Pixels().Height())
		}
	}

	_, err = tiles.Tiles(3)
	assert.ErrorIs(t, err, ErrInvalidResolution)
	assert.Equal(t, 4, tiles.Resolution(), "a rejected request keeps the cache")

	again, err := tiles.Tiles(4)
	require.NoError(t, err)
	assert.Same(t, grid, again)
}

func TestTilesSquareCanvasShapes(t *testing.T) {
	tiles := paddedCache(t, imageutil.CreateGradientImage(64, 64))

	for _, resolution := range []int{1, 2, 4, 8, 16, 32, 64} {
		grid, err := tiles.Tiles(resolution)
		require.NoError(t, err)
		assert.Equal(t, 64/resolution, grid.Side)
		assert.Equal(t, resolution, grid.Rows)
		assert.Len(t, grid.Tiles[0], resolution)
	}
}

func TestTilesCacheReplacedOnNewResolution(t *testing.T) {
	tiles := paddedCache(t, imageutil.CreateGradientImage(16, 16))
	assert.Equal(t, 0, tiles.Resolution())

	first, err := tiles.Tiles(4)
	require.NoError(t, err)
	second, err := tiles.Tiles(8)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 8, tiles.Resolution())

	third, err := tiles.Tiles(4)
	require.NoError(t, err)
	assert.NotSame(t, first, third, "only one resolution is cached")
	assert.Equal(t, first.Tiles, third.Tiles)
}

func TestTilesWideCanvas(t *testing.T) {
	tiles := paddedCache(t, imageutil.CreateGradientImage(32, 8))
	assert.Equal(t, 4, tiles.MinResolution())

	grid, err := tiles.Tiles(8)
	require.NoError(t, err)
	assert.Equal(t, 4, grid.Side)
	assert.Equal(t, 2, grid.Rows)

	_, err = tiles.Tiles(2)
	assert.ErrorIs(t, err, ErrInvalidResolution, "tiles taller than the canvas")
}

func TestTilesTallCanvas(t *testing.T) {
	tiles := paddedCache(t, imageutil.CreateGradientImage(4, 16))
	assert.Equal(t, 1, tiles.MinResolution())

	grid, err := tiles.Tiles(1)
	require.NoError(t, err)
	assert.Equal(t, 4, grid.Side)
	assert.Equal(t, 4, grid.Rows)
}

func TestTilesRejectsOutOfRange(t *testing.T) {
	tiles := paddedCache(t, imageutil.CreateGradientImage(16, 16))
	for _, resolution := range []int{-1, 0, 3, 17, 32} {
		_, err := tiles.Tiles(resolution)
		assert.ErrorIs(t, err, ErrInvalidResolution, "resolution %d", resolution)
	}
	assert.Equal(t, 0, tiles.Resolution())
}

func TestNewTileCacheRequiresPadding(t *testing.T) {
	_, err := NewTileCache(imageutil.NewRGBAImage(10, 16))
	assert.ErrorIs(t, err, ErrNotPadded)

	_, err = NewTileCache(nil)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestTileBrightness(t *testing.T) {
	tiles := paddedCache(t, imageutil.CreateCheckerboardImage(16, 16, 4))
	grid, err := tiles.Tiles(4)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, grid.At(0, 0).Brightness(), 1e-9)
	assert.Equal(t, 0.0, grid.At(0, 1).Brightness())
	assert.Equal(t, 0.0, grid.At(1, 0).Brightness())
	assert.InDelta(t, 1.0, grid.At(1, 1).Brightness(), 1e-9)

	// One tile covering the whole board is half lit.
	whole, err := tiles.Tiles(1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, whole.At(0, 0).Brightness(), 1e-9)
}

func TestTileBrightnessIncludesPadding(t *testing.T) {
	// A 2x2 black image pads to itself, a 3x3 one gains a white border.
	tiles := paddedCache(t, imageutil.CreateSolidImage(3, 3, imageutil.RGB{}))
	grid, err := tiles.Tiles(1)
	require.NoError(t, err)
	assert.InDelta(t, 7.0/16.0, grid.At(0, 0).Brightness(), 1e-9)
}
