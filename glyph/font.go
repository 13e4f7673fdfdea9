package glyph

import "github.com/gogpu/vtext/bezier"

// Font provides glyph outlines and metrics in font design units.
type Font interface {
	// Name returns a human-readable font name, used in diagnostics.
	Name() string

	// Outline returns the outline of the glyph mapped to r, with Y up.
	// It returns ErrNoGlyph if the font has no glyph for r.
	Outline(r rune) (*Outline, error)

	// Metrics returns font-wide metrics.
	Metrics() Metrics
}

// Outline is a glyph outline in font design units.
type Outline struct {
	// Segments is the path, Y up. Empty for blank glyphs such as space.
	Segments []bezier.Segment

	// Advance is the horizontal advance width.
	Advance float32
}

// Metrics holds font-wide metrics in font design units.
type Metrics struct {
	// UnitsPerEm is the size of the em square.
	UnitsPerEm int

	// Ascent is the distance from the baseline to the top (positive).
	Ascent float32

	// Descent is the distance from the baseline to the bottom (negative).
	Descent float32

	// LineGap is the recommended gap between lines.
	LineGap float32
}

// LineHeight returns the baseline-to-baseline distance.
func (m Metrics) LineHeight() float32 {
	return m.Ascent - m.Descent + m.LineGap
}
