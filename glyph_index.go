package img2ascii

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
)

// Policy selects which brightness level a lookup lands on when the query
// falls strictly between two indexed levels.
type Policy int32

const (
	// Nearest picks the closer level, preferring the darker one on a tie.
	Nearest Policy = iota
	// RoundUp always picks the brighter level.
	RoundUp
	// RoundDown always picks the darker level.
	RoundDown
)

func (p Policy) String() string {
	switch p {
	case Nearest:
		return "abs"
	case RoundUp:
		return "up"
	case RoundDown:
		return "down"
	}
	return fmt.Sprintf("Policy(%d)", int32(p))
}

// Valid reports whether p is one of the three defined policies.
func (p Policy) Valid() bool {
	return p == Nearest || p == RoundUp || p == RoundDown
}

// ParsePolicy maps a policy name to a Policy. "abs" and "nearest" both
// name Nearest.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "abs", "nearest":
		return Nearest, nil
	case "up":
		return RoundUp, nil
	case "down":
		return RoundDown, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRoundingPolicy, name)
}

// level is one distinct normalized brightness and the glyphs sharing it,
// in ascending codepoint order.
type level struct {
	value  float64
	glyphs []rune
}

// indexSnapshot is an immutable view of the index. Mutations build a new
// snapshot and publish it whole.
type indexSnapshot struct {
	raw    map[rune]float64
	norm   map[rune]float64
	levels []level // ascending by value
}

// BrightnessIndex maps tile brightness to glyphs. Each glyph's raw
// coverage is min-max normalized against the current set, and the whole
// index is rebuilt on every mutation because a new extreme shifts every
// other glyph's normalized value.
//
// Resolve never blocks. AddGlyph and RemoveGlyph serialize among
// themselves and publish the rebuilt index atomically.
type BrightnessIndex struct {
	source GlyphSource

	mu       sync.Mutex
	snapshot atomic.Pointer[indexSnapshot]
	policy   atomic.Int32
}

// NewBrightnessIndex creates an empty index drawing bitmaps from source.
func NewBrightnessIndex(source GlyphSource) *BrightnessIndex {
	idx := &BrightnessIndex{source: source}
	idx.snapshot.Store(buildSnapshot(map[rune]float64{}))
	idx.policy.Store(int32(Nearest))
	return idx
}

// AddGlyph adds r to the index. Adding a glyph that is already present is
// a no-op. ErrUnknownGlyph is returned if the source has no bitmap for r.
func (idx *BrightnessIndex) AddGlyph(r rune) error {
	return idx.AddGlyphs(r)
}

// AddGlyphs adds every rune in rs and rebuilds the index once. Nothing is
// added if any rune lacks a bitmap.
func (idx *BrightnessIndex) AddGlyphs(rs ...rune) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	cur := idx.snapshot.Load()
	var raw map[rune]float64
	for _, r := range rs {
		if _, ok := cur.raw[r]; ok {
			continue
		}
		bitmap, ok := idx.source.GetGlyph(r)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownGlyph, r)
		}
		if raw == nil {
			raw = copyRaw(cur.raw)
		}
		raw[r] = bitmap.Coverage()
	}
	if raw != nil {
		idx.snapshot.Store(buildSnapshot(raw))
	}
	return nil
}

// RemoveGlyph removes r from the index. Removing an absent glyph is a
// no-op.
func (idx *BrightnessIndex) RemoveGlyph(r rune) {
	idx.RemoveGlyphs(r)
}

// RemoveGlyphs removes every rune in rs and rebuilds the index once.
func (idx *BrightnessIndex) RemoveGlyphs(rs ...rune) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	cur := idx.snapshot.Load()
	var raw map[rune]float64
	for _, r := range rs {
		if _, ok := cur.raw[r]; !ok {
			continue
		}
		if raw == nil {
			raw = copyRaw(cur.raw)
		}
		delete(raw, r)
	}
	if raw != nil {
		idx.snapshot.Store(buildSnapshot(raw))
	}
}

// Clear removes every glyph.
func (idx *BrightnessIndex) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.snapshot.Store(buildSnapshot(map[rune]float64{}))
}

// SetPolicy sets the active rounding policy. An undefined policy is
// rejected and the previous one kept.
func (idx *BrightnessIndex) SetPolicy(p Policy) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidRoundingPolicy, p)
	}
	idx.policy.Store(int32(p))
	return nil
}

// Policy returns the active rounding policy.
func (idx *BrightnessIndex) Policy() Policy {
	return Policy(idx.policy.Load())
}

// Len returns the number of glyphs in the index.
func (idx *BrightnessIndex) Len() int {
	return len(idx.snapshot.Load().raw)
}

// Contains reports whether r is in the index.
func (idx *BrightnessIndex) Contains(r rune) bool {
	_, ok := idx.snapshot.Load().raw[r]
	return ok
}

// Glyphs returns the glyphs in ascending codepoint order.
func (idx *BrightnessIndex) Glyphs() []rune {
	raw := idx.snapshot.Load().raw
	rs := make([]rune, 0, len(raw))
	for r := range raw {
		rs = append(rs, r)
	}
	slices.Sort(rs)
	return rs
}

// Raw returns the raw coverage of r.
func (idx *BrightnessIndex) Raw(r rune) (float64, bool) {
	v, ok := idx.snapshot.Load().raw[r]
	return v, ok
}

// Normalized returns the normalized brightness of r.
func (idx *BrightnessIndex) Normalized(r rune) (float64, bool) {
	v, ok := idx.snapshot.Load().norm[r]
	return v, ok
}

// Resolve returns the glyph whose normalized brightness best matches
// brightness under the active policy.
//
// Below the darkest level or above the brightest, the extreme glyph is
// returned whatever the policy. Between two levels, RoundUp and RoundDown
// pick the brighter and darker level, and Nearest picks the closer one,
// taking the darker level on an exact tie. Within a level the lowest
// codepoint wins.
func (idx *BrightnessIndex) Resolve(brightness float64) (rune, error) {
	return idx.snapshot.Load().resolve(brightness, idx.Policy())
}

func (s *indexSnapshot) resolve(brightness float64, policy Policy) (rune, error) {
	if len(s.levels) == 0 {
		return 0, ErrInsufficientCharset
	}

	// ceil is the first level >= brightness; floor is the last <= it.
	ceil := sort.Search(len(s.levels), func(i int) bool {
		return s.levels[i].value >= brightness
	})
	floor := ceil - 1
	if ceil < len(s.levels) && s.levels[ceil].value == brightness {
		floor = ceil
	}

	if floor < 0 {
		return s.levels[ceil].glyphs[0], nil
	}
	if ceil >= len(s.levels) {
		return s.levels[floor].glyphs[0], nil
	}

	lo, hi := s.levels[floor], s.levels[ceil]
	switch policy {
	case RoundUp:
		return hi.glyphs[0], nil
	case RoundDown:
		return lo.glyphs[0], nil
	}
	if math.Abs(brightness-hi.value) < math.Abs(brightness-lo.value) {
		return hi.glyphs[0], nil
	}
	return lo.glyphs[0], nil
}

func buildSnapshot(raw map[rune]float64) *indexSnapshot {
	s := &indexSnapshot{
		raw:  raw,
		norm: make(map[rune]float64, len(raw)),
	}
	if len(raw) == 0 {
		return s
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range raw {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	groups := make(map[float64][]rune)
	for r, v := range raw {
		// A set with no spread has nothing to normalize against.
		var n float64
		if hi > lo {
			n = (v - lo) / (hi - lo)
		}
		s.norm[r] = n
		groups[n] = append(groups[n], r)
	}

	s.levels = make([]level, 0, len(groups))
	for v, rs := range groups {
		slices.Sort(rs)
		s.levels = append(s.levels, level{value: v, glyphs: rs})
	}
	sort.Slice(s.levels, func(i, j int) bool {
		return s.levels[i].value < s.levels[j].value
	})
	return s
}

func copyRaw(m map[rune]float64) map[rune]float64 {
	c := make(map[rune]float64, len(m)+1)
	for k, v := range m {
		c[k] = v
	}
	return c
}
