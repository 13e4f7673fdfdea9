package vtext

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"slices"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/vtext/bezier"
	"github.com/gogpu/vtext/glyph"
	"github.com/gogpu/vtext/gpu"
)

// CaretColor is the color of the caret quad.
var CaretColor = color.RGBA{R: 0, G: 0, B: 255, A: 100}

// Label is an editable run of text laid out as glyph quads.
//
// Each rune owns exactly one slot of six vertices. Glyphs with curves get a
// real quad; control characters, blank glyphs and runes the font cannot map
// get a zero-area quad whose first vertex still marks the slot position.
// Insert and Remove repair the layout of the text that follows instead of
// laying out the whole label again, then upload only the vertices from the
// edit point on.
//
// A Label is not safe for concurrent use.
type Label struct {
	m    *Manager
	name string

	text   []rune
	glyphs []*glyph.Record
	verts  []Vertex

	buf      gpu.VertexBuffer
	gpuCap   int
	needFull bool
	scratch  []byte

	showCaret bool
	caretPos  int
	caretTime float64
	prevTime  float64
	caretBuf  gpu.VertexBuffer

	closed bool
}

// Name returns the label name.
func (l *Label) Name() string { return l.name }

// Len returns the number of runes in the label.
func (l *Label) Len() int { return len(l.text) }

// Text returns the label text.
func (l *Label) Text() string { return string(l.text) }

// Glyph returns the glyph record of slot i, or nil for control
// characters, unmapped runes and out of range indices.
func (l *Label) Glyph(i int) *glyph.Record {
	if i < 0 || i >= len(l.glyphs) {
		return nil
	}
	return l.glyphs[i]
}

// Quad returns the six vertices of slot i.
func (l *Label) Quad(i int) [6]Vertex {
	var q [6]Vertex
	if i >= 0 && i < len(l.text) {
		copy(q[:], l.verts[i*6:i*6+6])
	}
	return q
}

// Vertices returns a copy of all vertices, six per rune.
func (l *Label) Vertices() []Vertex {
	return slices.Clone(l.verts)
}

// trailingEdge returns the pen position after slot i, where the next glyph
// would start. It is the origin for i < 0.
func (l *Label) trailingEdge(i int) bezier.Vec2 {
	if i < 0 {
		return bezier.Vec2{}
	}
	p := l.verts[i*6].Pos
	if g := l.glyphs[i]; g != nil {
		p = p.Sub(g.Offset())
		p.X += g.Advance()
	}
	return p
}

// CaretOffset returns the pen position before slot i.
func (l *Label) CaretOffset(i int) bezier.Vec2 {
	i = min(max(i, 0), len(l.text))
	return l.trailingEdge(i - 1)
}

// Insert lays out runes at index with the given color and font. index is
// clamped to [0, Len()] and a nil font means the manager's default font.
func (l *Label) Insert(index int, runes []rune, c color.RGBA, f glyph.Font) {
	l.caretTime = 0
	if len(runes) == 0 {
		return
	}
	index = min(max(index, 0), len(l.text))
	if f == nil {
		f = l.m.font
	}
	n := len(runes)

	l.text = slices.Insert(l.text, index, runes...)
	l.glyphs = slices.Insert(l.glyphs, index, make([]*glyph.Record, n)...)
	l.verts = slices.Insert(l.verts, index*6, make([]Vertex, n*6)...)

	start := l.trailingEdge(index - 1)
	cursor := start
	lineHeight := f.Metrics().LineHeight()

	for i, r := range runes {
		slot := index + i
		q := l.verts[slot*6 : slot*6+6]
		switch r {
		case '\r':
			fillDegenerate(q, cursor, c)
			continue
		case '\n':
			cursor = bezier.Vec2{X: 0, Y: cursor.Y - lineHeight}
			fillDegenerate(q, cursor, c)
			continue
		case '\t':
			cursor.X += TabWidth
			fillDegenerate(q, cursor, c)
			continue
		}

		rec, err := l.m.Resolve(f, r)
		if err != nil {
			if !errors.Is(err, glyph.ErrNoGlyph) {
				Logger().Warn("vtext: resolve failed",
					slog.String("label", l.name),
					slog.String("rune", fmt.Sprintf("%U", r)),
					slog.Any("error", err))
			}
			fillDegenerate(q, cursor, c)
			continue
		}
		l.glyphs[slot] = rec
		if rec.Blank() {
			fillDegenerate(q, cursor.Add(rec.Offset()), c)
		} else {
			placeQuad(q, rec, cursor, c)
		}
		cursor.X += rec.Advance()
	}

	// Shift the following text by how far the pen moved. A newline resets
	// the line start, so only the vertical part of the move carries past
	// it, and nothing after it moves if the pen stayed on the same line.
	delta := cursor.Sub(start)
	for i := index + n; i < len(l.text) && delta != (bezier.Vec2{}); i++ {
		if l.text[i] == '\n' {
			if delta.Y == 0 {
				break
			}
			delta.X = 0
		}
		l.shift(i, delta)
	}

	l.syncVertices(index * 6)
}

// InsertString inserts s in Unicode normalization form C, so composed and
// decomposed input lay out identically.
func (l *Label) InsertString(index int, s string, c color.RGBA, f glyph.Font) {
	l.Insert(index, []rune(norm.NFC.String(s)), c, f)
}

// Append inserts runes at the end of the label.
func (l *Label) Append(runes []rune, c color.RGBA, f glyph.Font) {
	l.Insert(len(l.text), runes, c, f)
}

// AppendString inserts s at the end of the label.
func (l *Label) AppendString(s string, c color.RGBA, f glyph.Font) {
	l.InsertString(len(l.text), s, c, f)
}

// Remove deletes length runes starting at index. The range is clamped to
// the label; an empty range does nothing.
func (l *Label) Remove(index, length int) {
	l.caretTime = 0
	index = max(index, 0)
	if index >= len(l.text) {
		return
	}
	length = min(length, len(l.text)-index)
	if length <= 0 {
		return
	}

	start := l.trailingEdge(index - 1)
	end := l.trailingEdge(index + length - 1)

	l.text = slices.Delete(l.text, index, index+length)
	l.glyphs = slices.Delete(l.glyphs, index, index+length)
	l.verts = slices.Delete(l.verts, index*6, (index+length)*6)

	delta := end.Sub(start)
	for i := index; i < len(l.text) && delta != (bezier.Vec2{}); i++ {
		if l.text[i] == '\n' {
			if delta.Y == 0 {
				break
			}
			delta.X = 0
		}
		l.shift(i, delta.Scale(-1))
	}

	l.syncVertices(index * 6)
}

// Clear removes all text.
func (l *Label) Clear() {
	l.Remove(0, len(l.text))
}

func (l *Label) shift(slot int, d bezier.Vec2) {
	q := l.verts[slot*6 : slot*6+6]
	for j := range q {
		q[j].Pos = q[j].Pos.Add(d)
	}
}

// syncVertices uploads vertices from index from to the end. If the vertex
// count outgrew the GPU buffer, or an earlier upload failed, everything is
// uploaded instead.
func (l *Label) syncVertices(from int) {
	if l.buf == nil || l.m.closed {
		return
	}
	if len(l.verts) > l.gpuCap || l.needFull {
		if err := l.uploadAll(); err != nil {
			Logger().Warn("vtext: vertex upload failed",
				slog.String("label", l.name), slog.Any("error", err))
		}
		return
	}
	if from >= len(l.verts) {
		return
	}
	l.scratch = encodeVertices(l.scratch[:0], l.verts[from:])
	if err := l.buf.Write(from*gpu.VertexStride, l.scratch); err != nil {
		l.needFull = true
		Logger().Warn("vtext: vertex upload failed",
			slog.String("label", l.name), slog.Int("from", from), slog.Any("error", err))
		return
	}
	Logger().Debug("vtext: vertices uploaded",
		slog.String("label", l.name), slog.Int("from", from), slog.Int("count", len(l.verts)-from))
}

// uploadAll resizes the GPU buffer to the CPU capacity if needed and
// writes every vertex.
func (l *Label) uploadAll() error {
	l.needFull = true
	if len(l.verts) > l.gpuCap {
		size := cap(l.verts) * gpu.VertexStride
		if err := l.buf.Resize(size); err != nil {
			return err
		}
		l.gpuCap = l.buf.Size() / gpu.VertexStride
		Logger().Debug("vtext: vertex buffer resized",
			slog.String("label", l.name), slog.Int("vertices", l.gpuCap))
	}
	l.scratch = encodeVertices(l.scratch[:0], l.verts)
	if err := l.buf.Write(0, l.scratch); err != nil {
		return err
	}
	l.needFull = false
	return nil
}

// SetCaretVisible turns the blinking caret on or off.
func (l *Label) SetCaretVisible(v bool) { l.showCaret = v }

// CaretVisible reports whether the caret is turned on.
func (l *Label) CaretVisible() bool { return l.showCaret }

// SetCaretPosition places the caret before slot i, clamped to [0, Len()].
func (l *Label) SetCaretPosition(i int) { l.caretPos = i }

// CaretPosition returns the caret slot, clamped to [0, Len()].
func (l *Label) CaretPosition() int {
	return min(max(l.caretPos, 0), len(l.text))
}

// Close releases the label's GPU buffers. The label must not be used
// afterwards.
func (l *Label) Close() {
	if l.closed {
		return
	}
	l.releaseBuffers()
	delete(l.m.labels, l)
	l.closed = true
}

func (l *Label) releaseBuffers() {
	if l.buf != nil {
		l.buf.Destroy()
		l.buf = nil
	}
	if l.caretBuf != nil {
		l.caretBuf.Destroy()
		l.caretBuf = nil
	}
	l.gpuCap = 0
}
