// Package bezier holds the quadratic curve geometry behind vector glyphs.
//
// A glyph outline arrives from a font engine as a list of segments in font
// design units. [Reduce] turns it into closed quadratic curves relative to
// the glyph's bounding box, [BuildGrid] buckets those curves into a coarse
// spatial grid, and [Encode] writes both the grid location and the curves
// into the fixed-point layout read by the glyph shader.
//
// # Curve layout
//
// The curve buffer is addressed in texels of 4 bytes, each holding two
// little-endian uint16 words:
//
//	texel 0: gridX, gridY   cell origin in the grid atlas
//	texel 1: gridW, gridH   grid dimensions in cells
//	texel 2+3i .. 4+3i:     e0.x e0.y c.x c.y e1.x e1.y of curve i
//
// Coordinates are scaled from [0, dimension] to [0, 65535] per axis, so the
// quantization error is at most dimension/65536 font units.
//
// # Grid layout
//
// Each grid cell is one RGBA8 texel. A channel value of 0 is unused, 1 marks
// the cell center as inside the glyph, and v >= 2 references curve v-2.
// When all four channels hold curves the inside flag is carried by order:
// the cell center is inside when channel 0 is greater than channel 1.
package bezier
