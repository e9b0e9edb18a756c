package img2ascii

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newABIndex(t *testing.T) *BrightnessIndex {
	t.Helper()
	idx := NewBrightnessIndex(abFonts())
	require.NoError(t, idx.AddGlyphs('a', 'b'))
	return idx
}

func resolve(t *testing.T, idx *BrightnessIndex, brightness float64) rune {
	t.Helper()
	r, err := idx.Resolve(brightness)
	require.NoError(t, err)
	return r
}

func TestIndexNormalizesToUnitRange(t *testing.T) {
	idx := newABIndex(t)

	raw, ok := idx.Raw('a')
	require.True(t, ok)
	assert.Equal(t, 0.25, raw)

	na, _ := idx.Normalized('a')
	nb, _ := idx.Normalized('b')
	assert.Equal(t, 0.0, na)
	assert.Equal(t, 1.0, nb)
}

func TestIndexNormalizesMiddleGlyphs(t *testing.T) {
	idx := NewBrightnessIndex(testFonts(map[rune]int{'x': 8, 'y': 16, 'w': 40}))
	require.NoError(t, idx.AddGlyphs('x', 'y', 'w'))

	nx, _ := idx.Normalized('x')
	ny, _ := idx.Normalized('y')
	nw, _ := idx.Normalized('w')
	assert.Equal(t, 0.0, nx)
	assert.InDelta(t, 0.25, ny, 1e-12)
	assert.Equal(t, 1.0, nw)
}

func TestIndexSingletonNormalizesToZero(t *testing.T) {
	idx := NewBrightnessIndex(abFonts())
	require.NoError(t, idx.AddGlyph('b'))

	n, ok := idx.Normalized('b')
	require.True(t, ok)
	assert.Equal(t, 0.0, n)

	for _, brightness := range []float64{-1, 0, 0.3, 1, 2} {
		assert.Equal(t, 'b', resolve(t, idx, brightness))
	}
}

func TestIndexEqualRawNormalizesToZero(t *testing.T) {
	idx := NewBrightnessIndex(abFonts())
	require.NoError(t, idx.AddGlyphs('c', 'a'))

	for _, r := range []rune{'a', 'c'} {
		n, _ := idx.Normalized(r)
		assert.Equal(t, 0.0, n)
	}
	assert.Equal(t, 'a', resolve(t, idx, 0.9))
}

func TestIndexEmptyResolveFails(t *testing.T) {
	idx := NewBrightnessIndex(abFonts())
	_, err := idx.Resolve(0.5)
	assert.ErrorIs(t, err, ErrInsufficientCharset)

	require.NoError(t, idx.AddGlyph('a'))
	idx.RemoveGlyph('a')
	_, err = idx.Resolve(0.5)
	assert.ErrorIs(t, err, ErrInsufficientCharset)
}

func TestIndexNearestScenario(t *testing.T) {
	idx := newABIndex(t)
	require.Equal(t, Nearest, idx.Policy())

	assert.Equal(t, 'a', resolve(t, idx, 0.4))
	assert.Equal(t, 'b', resolve(t, idx, 0.6))
	assert.Equal(t, 'a', resolve(t, idx, 0.5), "an exact tie goes to the darker glyph")
}

func TestIndexRoundingPolicies(t *testing.T) {
	idx := newABIndex(t)

	require.NoError(t, idx.SetPolicy(RoundUp))
	assert.Equal(t, 'b', resolve(t, idx, 0.1))
	assert.Equal(t, 'b', resolve(t, idx, 0.5))

	require.NoError(t, idx.SetPolicy(RoundDown))
	assert.Equal(t, 'a', resolve(t, idx, 0.9))
	assert.Equal(t, 'a', resolve(t, idx, 0.5))
}

func TestIndexBoundariesIgnorePolicy(t *testing.T) {
	idx := newABIndex(t)

	for _, p := range []Policy{Nearest, RoundUp, RoundDown} {
		require.NoError(t, idx.SetPolicy(p))
		assert.Equal(t, 'a', resolve(t, idx, 0.0), "policy %v at minimum", p)
		assert.Equal(t, 'b', resolve(t, idx, 1.0), "policy %v at maximum", p)
		assert.Equal(t, 'a', resolve(t, idx, -0.5), "policy %v below minimum", p)
		assert.Equal(t, 'b', resolve(t, idx, 1.5), "policy %v above maximum", p)
	}
}

func TestIndexEqualBrightnessPicksLowestCodepoint(t *testing.T) {
	idx := NewBrightnessIndex(abFonts())
	require.NoError(t, idx.AddGlyphs('c', 'b', 'a'))

	assert.Equal(t, 'a', resolve(t, idx, 0.0))

	idx.RemoveGlyph('a')
	assert.Equal(t, 'c', resolve(t, idx, 0.0))
}

func TestIndexAddRemoveRestoresContent(t *testing.T) {
	idx := newABIndex(t)
	glyphs := idx.Glyphs()
	nb, _ := idx.Normalized('b')

	require.NoError(t, idx.AddGlyph('m'))
	shifted, _ := idx.Normalized('b')
	assert.NotEqual(t, nb, shifted, "a new maximum renormalizes the others")

	idx.RemoveGlyph('m')
	assert.Equal(t, glyphs, idx.Glyphs())
	for _, r := range glyphs {
		before, _ := newABIndex(t).Normalized(r)
		after, ok := idx.Normalized(r)
		require.True(t, ok)
		assert.Equal(t, before, after, "glyph %q", r)
	}
	assert.False(t, idx.Contains('m'))
}

func TestIndexAddIsIdempotent(t *testing.T) {
	idx := newABIndex(t)
	require.NoError(t, idx.AddGlyph('a'))
	assert.Equal(t, 2, idx.Len())

	idx.RemoveGlyph('q')
	assert.Equal(t, 2, idx.Len())
}

func TestIndexUnknownGlyph(t *testing.T) {
	idx := newABIndex(t)
	err := idx.AddGlyphs('m', '☃')
	assert.ErrorIs(t, err, ErrUnknownGlyph)
	assert.Equal(t, []rune{'a', 'b'}, idx.Glyphs(), "a failed batch adds nothing")
}

func TestIndexGlyphsSorted(t *testing.T) {
	idx := NewBrightnessIndex(abFonts())
	require.NoError(t, idx.AddGlyphs('z', '#', 'b', ' ', 'a'))
	assert.Equal(t, []rune{' ', '#', 'a', 'b', 'z'}, idx.Glyphs())

	idx.Clear()
	assert.Empty(t, idx.Glyphs())
}

func TestSetPolicyRejectsUnknown(t *testing.T) {
	idx := newABIndex(t)
	require.NoError(t, idx.SetPolicy(RoundDown))

	err := idx.SetPolicy(Policy(7))
	assert.ErrorIs(t, err, ErrInvalidRoundingPolicy)
	assert.Equal(t, RoundDown, idx.Policy())
}

func TestParsePolicy(t *testing.T) {
	for name, want := range map[string]Policy{
		"abs": Nearest, "nearest": Nearest, "up": RoundUp, "down": RoundDown,
	} {
		p, err := ParsePolicy(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, p, name)
	}

	for _, name := range []string{"sideways", "UP", "Abs", ""} {
		_, err := ParsePolicy(name)
		assert.ErrorIs(t, err, ErrInvalidRoundingPolicy, name)
	}

	assert.Equal(t, "abs", Nearest.String())
	assert.Equal(t, "up", RoundUp.String())
	assert.Equal(t, "down", RoundDown.String())
}

func TestIndexConcurrentResolve(t *testing.T) {
	idx := newABIndex(t)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				assert.NoError(t, idx.AddGlyph('m'))
			} else {
				idx.RemoveGlyph('m')
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			r, err := idx.Resolve(float64(i%11) / 10)
			assert.NoError(t, err)
			assert.Contains(t, []rune{'a', 'b', 'm'}, r)
		}
	}()
	wg.Wait()
}
