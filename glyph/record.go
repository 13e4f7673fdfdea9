package glyph

import (
	"github.com/gogpu/vtext/atlas"
	"github.com/gogpu/vtext/bezier"
)

// Record is the resolved, immutable form of a (font, codepoint) pair.
// All values are in font design units.
type Record struct {
	size    bezier.Vec2
	offset  bezier.Vec2
	advance float32
	locator atlas.Locator
	curves  int
}

// Size returns the glyph bounding box (width, height).
func (r *Record) Size() bezier.Vec2 { return r.size }

// Offset returns the bottom-left corner of the bounding box relative to the
// pen position on the baseline: (bearingX, bearingY - height).
func (r *Record) Offset() bezier.Vec2 { return r.offset }

// Advance returns the horizontal advance.
func (r *Record) Advance() float32 { return r.advance }

// Locator returns where the glyph's curve data lives in the atlas.
func (r *Record) Locator() atlas.Locator { return r.locator }

// Curves returns the number of quadratic curves in the glyph outline.
func (r *Record) Curves() int { return r.curves }

// Blank reports whether the glyph has no curve data and renders as an
// empty quad.
func (r *Record) Blank() bool { return !r.locator.Valid() }
