package vtext

import (
	"encoding/binary"
	"image/color"
	"math"

	"github.com/gogpu/vtext/bezier"
	"github.com/gogpu/vtext/glyph"
	"github.com/gogpu/vtext/gpu"
)

// TabWidth is the horizontal distance a tab advances, in font units.
const TabWidth = 2000

// MaxLocator is the largest curve-buffer offset a VertexCode can carry.
const MaxLocator = 1<<30 - 1

// Corner identifies a quad corner: bit 1 is set on the right edge, bit 0 on
// the top edge.
type Corner uint8

// Quad corners.
const (
	CornerBottomLeft  Corner = 0
	CornerTopLeft     Corner = 1
	CornerBottomRight Corner = 2
	CornerTopRight    Corner = 3
)

// IsRight reports whether c is on the right edge of the quad.
func (c Corner) IsRight() bool { return c&2 != 0 }

// IsTop reports whether c is on the top edge of the quad.
func (c Corner) IsTop() bool { return c&1 != 0 }

// VertexCode packs a glyph's curve-buffer texel offset and the vertex
// corner into 32 bits:
//
//	bits 0..1   corner
//	bits 2..31  texel offset of the glyph header in its group's curve buffer
type VertexCode uint32

// PackVertexCode builds a VertexCode. Offsets above MaxLocator are
// truncated; atlas.Config.Validate keeps real offsets in range.
func PackVertexCode(locator uint32, corner Corner) VertexCode {
	return VertexCode(locator<<2 | uint32(corner&3))
}

// Locator returns the curve-buffer texel offset.
func (c VertexCode) Locator() uint32 { return uint32(c) >> 2 }

// Corner returns the quad corner.
func (c VertexCode) Corner() Corner { return Corner(c & 3) }

// Vertex is one corner of a glyph quad. Its memory layout matches
// gpu.VertexLayout: position at 0, code at 8, color at 12.
type Vertex struct {
	Pos   bezier.Vec2
	Code  VertexCode
	Color color.RGBA
}

// quadCorners lists the corner of each of the six quad vertices, two
// triangles sharing the bottom-right to top-left diagonal.
var quadCorners = [6]Corner{
	CornerBottomLeft, CornerBottomRight, CornerTopLeft,
	CornerTopRight, CornerTopLeft, CornerBottomRight,
}

// placeQuad fills q with the quad of rec with its pen position at cursor.
func placeQuad(q []Vertex, rec *glyph.Record, cursor bezier.Vec2, c color.RGBA) {
	origin := cursor.Add(rec.Offset())
	size := rec.Size()
	loc := rec.Locator().Offset
	for j, corner := range quadCorners {
		p := origin
		if corner.IsRight() {
			p.X += size.X
		}
		if corner.IsTop() {
			p.Y += size.Y
		}
		q[j] = Vertex{Pos: p, Code: PackVertexCode(loc, corner), Color: c}
	}
}

// fillDegenerate collapses q to a zero-area quad at p. The shader never
// produces fragments for it, but its first vertex still records where the
// slot sits in the layout.
func fillDegenerate(q []Vertex, p bezier.Vec2, c color.RGBA) {
	for j := range q {
		q[j] = Vertex{Pos: p, Color: c}
	}
}

// encodeVertices appends the GPU representation of verts to dst.
func encodeVertices(dst []byte, verts []Vertex) []byte {
	for _, v := range verts {
		var b [gpu.VertexStride]byte
		binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.Pos.X))
		binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Pos.Y))
		binary.LittleEndian.PutUint32(b[8:], uint32(v.Code))
		b[12], b[13], b[14], b[15] = v.Color.R, v.Color.G, v.Color.B, v.Color.A
		dst = append(dst, b[:]...)
	}
	return dst
}
