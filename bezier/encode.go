package bezier

import (
	"encoding/binary"
	"fmt"

	"github.com/chewxy/math32"
)

const (
	// TexelBytes is the size of one curve-buffer texel: two uint16 words.
	TexelBytes = 4

	headerTexels = 2
	curveTexels  = 3
	maxWord      = 65535
)

// GridRect locates a glyph's grid inside the grid atlas, in cells.
type GridRect struct {
	X, Y          uint16
	Width, Height uint16
}

// TexelCount returns the number of curve-buffer texels used by a glyph with
// the given number of curves.
func TexelCount(curves int) int {
	return headerTexels + curveTexels*curves
}

// Encode writes the grid location and curves into dst using the layout
// described in the package documentation. Curve coordinates must lie in
// [0, size] per axis, as produced by [Reduce]; values outside are clamped.
// It returns the number of bytes written.
//
// Encode is a pure function of its inputs.
func Encode(dst []byte, curves []Bezier2, size Vec2, grid GridRect) (int, error) {
	n := TexelCount(len(curves)) * TexelBytes
	if len(dst) < n {
		return 0, fmt.Errorf("encode %d curves into %d bytes: %w", len(curves), len(dst), ErrShortBuffer)
	}

	le := binary.LittleEndian
	le.PutUint16(dst[0:], grid.X)
	le.PutUint16(dst[2:], grid.Y)
	le.PutUint16(dst[4:], grid.Width)
	le.PutUint16(dst[6:], grid.Height)

	off := headerTexels * TexelBytes
	for _, c := range curves {
		for _, p := range [3]Vec2{c.E0, c.C, c.E1} {
			le.PutUint16(dst[off:], quantize(p.X, size.X))
			le.PutUint16(dst[off+2:], quantize(p.Y, size.Y))
			off += 4
		}
	}
	return n, nil
}

// Decode reads a header and n curves written by [Encode]. Each decoded
// coordinate is within size/65536 of the encoded one.
func Decode(src []byte, n int, size Vec2) (GridRect, []Bezier2, error) {
	if n < 0 || len(src) < TexelCount(n)*TexelBytes {
		return GridRect{}, nil, fmt.Errorf("decode %d curves from %d bytes: %w", n, len(src), ErrShortBuffer)
	}

	le := binary.LittleEndian
	grid := GridRect{
		X:      le.Uint16(src[0:]),
		Y:      le.Uint16(src[2:]),
		Width:  le.Uint16(src[4:]),
		Height: le.Uint16(src[6:]),
	}

	curves := make([]Bezier2, n)
	off := headerTexels * TexelBytes
	for i := range curves {
		var pts [3]Vec2
		for j := range pts {
			pts[j] = Vec2{
				X: dequantize(le.Uint16(src[off:]), size.X),
				Y: dequantize(le.Uint16(src[off+2:]), size.Y),
			}
			off += 4
		}
		curves[i] = Bezier2{E0: pts[0], C: pts[1], E1: pts[2]}
	}
	return grid, curves, nil
}

func quantize(v, dim float32) uint16 {
	if dim <= 0 {
		return 0
	}
	q := math32.Round(v * maxWord / dim)
	switch {
	case q <= 0:
		return 0
	case q >= maxWord:
		return maxWord
	}
	return uint16(q)
}

func dequantize(q uint16, dim float32) float32 {
	if dim <= 0 {
		return 0
	}
	return float32(q) * dim / maxWord
}
