package glyph

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/vtext/bezier"
)

// SFNTFont is a Font backed by golang.org/x/image/font/sfnt.
// It is not safe for concurrent use.
type SFNTFont struct {
	font    *sfnt.Font
	buf     sfnt.Buffer
	name    string
	ppem    fixed.Int26_6
	metrics Metrics
}

// ParseSFNT parses TrueType or OpenType data.
func ParseSFNT(data []byte) (*SFNTFont, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, &FontError{Parser: "sfnt", Err: err}
	}
	s := &SFNTFont{font: f}

	// A ppem of unitsPerEm/64 makes every 26.6 value equal to font units,
	// and keeps the int32 scaling math far from overflow.
	upem := int(f.UnitsPerEm())
	s.ppem = fixed.Int26_6(upem)

	m, err := f.Metrics(&s.buf, s.ppem, font.HintingNone)
	if err != nil {
		return nil, &FontError{Parser: "sfnt", Err: fmt.Errorf("metrics: %w", err)}
	}
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	s.metrics = Metrics{
		UnitsPerEm: upem,
		Ascent:     ascent,
		Descent:    -descent,
		LineGap:    fixedToFloat(m.Height) - ascent - descent,
	}

	if name, err := f.Name(&s.buf, sfnt.NameIDFull); err == nil {
		s.name = name
	}
	return s, nil
}

// Name returns the full font name, or "" if the font has none.
func (s *SFNTFont) Name() string { return s.name }

// Metrics returns font-wide metrics.
func (s *SFNTFont) Metrics() Metrics { return s.metrics }

// Outline returns the outline of the glyph mapped to r.
func (s *SFNTFont) Outline(r rune) (*Outline, error) {
	gid, err := s.font.GlyphIndex(&s.buf, r)
	if err != nil {
		return nil, fmt.Errorf("glyph index %U: %w", r, err)
	}
	if gid == 0 {
		return nil, fmt.Errorf("%U: %w", r, ErrNoGlyph)
	}

	segs, err := s.font.LoadGlyph(&s.buf, gid, s.ppem, nil)
	if err != nil {
		return nil, fmt.Errorf("load glyph %U: %w", r, err)
	}
	adv, err := s.font.GlyphAdvance(&s.buf, gid, s.ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("advance %U: %w", r, err)
	}

	out := &Outline{
		Segments: make([]bezier.Segment, 0, len(segs)),
		Advance:  fixedToFloat(adv),
	}
	for _, seg := range segs {
		var op bezier.SegmentOp
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			op = bezier.SegmentMoveTo
		case sfnt.SegmentOpLineTo:
			op = bezier.SegmentLineTo
		case sfnt.SegmentOpQuadTo:
			op = bezier.SegmentQuadTo
		case sfnt.SegmentOpCubeTo:
			op = bezier.SegmentCubeTo
		default:
			continue
		}
		out.Segments = append(out.Segments, bezier.Segment{
			Op: op,
			Points: [3]bezier.Vec2{
				fixedPointToVec(seg.Args[0]),
				fixedPointToVec(seg.Args[1]),
				fixedPointToVec(seg.Args[2]),
			},
		})
	}
	return out, nil
}

// fixedPointToVec converts a Y-down point to Y-up font units.
func fixedPointToVec(p fixed.Point26_6) bezier.Vec2 {
	return bezier.Vec2{
		X: fixedToFloat(p.X),
		Y: -fixedToFloat(p.Y),
	}
}

// fixedToFloat reads a value loaded at s.ppem as font units.
func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v)
}
