package img2ascii

// litBitmap returns a bitmap with the first n cells lit.
func litBitmap(n int) GlyphBitmap {
	if n >= GlyphCells {
		return ^GlyphBitmap(0)
	}
	return GlyphBitmap(1)<<n - 1
}

// testFonts builds a glyph source from lit-cell counts.
func testFonts(lit map[rune]int) *FontBitmaps {
	glyphs := make(map[rune]GlyphBitmap, len(lit))
	for r, n := range lit {
		glyphs[r] = litBitmap(n)
	}
	return NewFontBitmaps("test", glyphs)
}

// abFonts has 'a' at raw brightness 0.25 and 'b' at 0.75, plus spares.
func abFonts() *FontBitmaps {
	return testFonts(map[rune]int{
		'a': 16, // 0.25
		'b': 48, // 0.75
		'c': 16, // ties with 'a'
		'm': 64, // brighter than everything
		'z': 0,  // darker than everything
		' ': 0,
		'#': 64,
	})
}
