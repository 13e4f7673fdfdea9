package glyph

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"

	"github.com/gogpu/vtext/bezier"
)

// GoTextFont is a Font backed by github.com/go-text/typesetting.
// It reads CFF and CFF2 outlines as well as glyf.
type GoTextFont struct {
	face    *font.Face
	name    string
	metrics Metrics
}

// ParseGoText parses TrueType or OpenType data.
func ParseGoText(data []byte) (*GoTextFont, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, &FontError{Parser: "gotext", Err: err}
	}
	g := &GoTextFont{
		face: face,
		name: face.Describe().Family,
	}
	g.metrics.UnitsPerEm = int(face.Upem())
	if ext, ok := face.FontHExtents(); ok {
		g.metrics.Ascent = ext.Ascender
		g.metrics.Descent = ext.Descender
		g.metrics.LineGap = ext.LineGap
	}
	return g, nil
}

// Name returns the font family name.
func (g *GoTextFont) Name() string { return g.name }

// Metrics returns font-wide metrics.
func (g *GoTextFont) Metrics() Metrics { return g.metrics }

// Outline returns the outline of the glyph mapped to r. Bitmap, SVG and
// color glyphs report ErrNoGlyph.
func (g *GoTextFont) Outline(r rune) (*Outline, error) {
	gid, ok := g.face.NominalGlyph(r)
	if !ok || gid == 0 {
		return nil, fmt.Errorf("%U: %w", r, ErrNoGlyph)
	}
	data, ok := g.face.GlyphData(gid).(font.GlyphOutline)
	if !ok {
		return nil, fmt.Errorf("%U has no vector outline: %w", r, ErrNoGlyph)
	}

	out := &Outline{
		Segments: make([]bezier.Segment, 0, len(data.Segments)),
		Advance:  g.face.HorizontalAdvance(gid),
	}
	for _, seg := range data.Segments {
		var op bezier.SegmentOp
		switch seg.Op {
		case opentype.SegmentOpMoveTo:
			op = bezier.SegmentMoveTo
		case opentype.SegmentOpLineTo:
			op = bezier.SegmentLineTo
		case opentype.SegmentOpQuadTo:
			op = bezier.SegmentQuadTo
		case opentype.SegmentOpCubeTo:
			op = bezier.SegmentCubeTo
		default:
			continue
		}
		var pts [3]bezier.Vec2
		for i, p := range seg.Args {
			pts[i] = bezier.Vec2{X: p.X, Y: p.Y}
		}
		out.Segments = append(out.Segments, bezier.Segment{Op: op, Points: pts})
	}
	return out, nil
}
