package vtext

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vtext/glyph"
	"github.com/gogpu/vtext/gpu"
)

// Uniforms is the per-frame uniform block of the glyph shader.
type Uniforms struct {
	// Transform is a column-major mat4x4 mapping font units to clip space.
	Transform [16]float32

	AtlasSize     float32
	GridAtlasSize float32
	GridCellSize  float32
}

// Bytes returns the std140 layout of u, gpu.UniformSize bytes long.
func (u Uniforms) Bytes() []byte {
	b := make([]byte, gpu.UniformSize)
	for i, f := range u.Transform {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	binary.LittleEndian.PutUint32(b[64:], math.Float32bits(u.AtlasSize))
	binary.LittleEndian.PutUint32(b[68:], math.Float32bits(u.GridAtlasSize))
	binary.LittleEndian.PutUint32(b[72:], math.Float32bits(u.GridCellSize))
	return b
}

// Caret is the caret quad of a frame.
type Caret struct {
	Vertices [6]Vertex
	Buffer   gpu.VertexBuffer
	Group    int
}

// Frame is everything needed to draw a label once.
type Frame struct {
	Uniforms Uniforms

	// Vertices is the label's vertex buffer, holding Count vertices.
	Vertices gpu.VertexBuffer
	Count    int

	// Draws lists, per atlas group in ascending order, the vertex ranges
	// whose glyphs read that group. Slots without curves are left out.
	Draws []gpu.DrawCall

	// Caret is nil when the caret is off or in the hidden blink phase.
	Caret *Caret
}

// caretVisible reports whether the caret blink is in its visible phase at
// caret time t, in seconds. The caret blinks at 0.75 Hz.
func caretVisible(t float64) bool {
	return int(t*3/2)%2 == 0
}

// Render prepares a frame at time t, in seconds, with transform mapping
// font units to clip space.
//
// It uploads dirty atlas groups first, retries a vertex upload that failed
// during an edit, then collects the draw ranges and the caret.
func (l *Label) Render(t float64, transform Matrix) (*Frame, error) {
	l.caretTime += t - l.prevTime
	l.prevTime = t

	if l.closed || l.m.closed || l.buf == nil {
		return nil, ErrManagerClosed
	}
	if err := l.m.SyncAtlases(); err != nil {
		return nil, err
	}
	if l.needFull {
		if err := l.uploadAll(); err != nil {
			return nil, fmt.Errorf("vtext: upload vertices: %w", err)
		}
	}

	cfg := l.m.alloc.Config()
	f := &Frame{
		Uniforms: Uniforms{
			Transform:     transform.Mat4(),
			AtlasSize:     float32(cfg.AtlasSize),
			GridAtlasSize: float32(cfg.GridAtlasSize),
			GridCellSize:  float32(cfg.GridCellSize),
		},
		Vertices: l.buf,
		Count:    len(l.verts),
		Draws:    l.drawCalls(),
	}

	if l.showCaret && caretVisible(l.caretTime) {
		caret, err := l.caret()
		if err != nil {
			return nil, err
		}
		f.Caret = caret
	}
	return f, nil
}

// drawCalls groups the slots with curves by atlas group, merging
// neighboring slots into one range.
func (l *Label) drawCalls() []gpu.DrawCall {
	var draws []gpu.DrawCall
	index := make(map[int]int)
	for i, g := range l.glyphs {
		if g == nil || g.Blank() {
			continue
		}
		group := int(g.Locator().Group)
		di, ok := index[group]
		if !ok {
			di = len(draws)
			index[group] = di
			draws = append(draws, gpu.DrawCall{Group: group})
		}
		d := &draws[di]
		if n := len(d.Ranges); n > 0 && d.Ranges[n-1].First+d.Ranges[n-1].Count == i*6 {
			d.Ranges[n-1].Count += 6
			continue
		}
		d.Ranges = append(d.Ranges, gpu.Range{First: i * 6, Count: 6})
	}
	slices.SortFunc(draws, func(a, b gpu.DrawCall) int { return a.Group - b.Group })
	return draws
}

// caret builds the caret quad from the default font's '|' glyph and
// uploads it to the caret buffer. It returns nil if the font has no '|'
// glyph or the glyph has no curves.
func (l *Label) caret() (*Caret, error) {
	rec, err := l.m.Resolve(nil, '|')
	if errors.Is(err, glyph.ErrNoGlyph) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vtext: resolve caret: %w", err)
	}
	if rec.Blank() {
		return nil, nil
	}
	// Resolving may have written a new glyph.
	if err := l.m.SyncAtlases(); err != nil {
		return nil, err
	}

	c := &Caret{Group: int(rec.Locator().Group)}
	placeQuad(c.Vertices[:], rec, l.CaretOffset(l.CaretPosition()), CaretColor)

	if l.caretBuf == nil {
		buf, err := l.m.device.NewVertexBuffer(l.name+"_caret", 6*gpu.VertexStride)
		if err != nil {
			return nil, fmt.Errorf("vtext: create caret buffer: %w", err)
		}
		l.caretBuf = buf
	}
	if err := l.caretBuf.Write(0, encodeVertices(nil, c.Vertices[:])); err != nil {
		return nil, fmt.Errorf("vtext: upload caret: %w", err)
	}
	c.Buffer = l.caretBuf
	return c, nil
}

// Draw records the frame into rp with a pipeline created on the manager's
// HAL device.
func (f *Frame) Draw(rp hal.RenderPassEncoder, p *gpu.Pipeline) error {
	uniforms := f.Uniforms.Bytes()
	if err := p.Draw(rp, uniforms, f.Vertices, f.Draws); err != nil {
		return err
	}
	if f.Caret == nil {
		return nil
	}
	return p.Draw(rp, uniforms, f.Caret.Buffer, []gpu.DrawCall{{
		Group:  f.Caret.Group,
		Ranges: []gpu.Range{{First: 0, Count: 6}},
	}})
}
