package bezier

import (
	"fmt"
	"sort"
)

const (
	// CellChannels is the number of curve references one grid cell holds.
	CellChannels = 4

	// MaxGridCurves is the number of curves a grid can reference. Curves past
	// this index are not referenced by any cell.
	MaxGridCurves = 256 - firstCurveRef

	insideRef     = 1
	firstCurveRef = 2

	windingSteps = 16
)

// Grid is a spatial acceleration structure over a glyph's curves: a
// Width x Height array of RGBA8 cells, row 0 at the bottom of the glyph.
type Grid struct {
	Width, Height int
	Cells         []byte
}

// Builder builds the spatial grid for a glyph. curves are relative to the
// glyph's bounding box of the given size.
type Builder interface {
	Build(curves []Bezier2, size Vec2, width, height int) *Grid
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(curves []Bezier2, size Vec2, width, height int) *Grid

// Build calls f.
func (f BuilderFunc) Build(curves []Bezier2, size Vec2, width, height int) *Grid {
	return f(curves, size, width, height)
}

// DefaultBuilder is the grid builder used when none is configured.
var DefaultBuilder Builder = BuilderFunc(BuildGrid)

// BuildGrid assigns to every cell the curves whose control box touches it,
// keeping the CellChannels curves nearest to the cell center when more
// qualify, and records whether the cell center is inside the glyph under the
// nonzero winding rule.
func BuildGrid(curves []Bezier2, size Vec2, width, height int) *Grid {
	if width <= 0 || height <= 0 {
		return &Grid{}
	}
	g := &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]byte, width*height*CellChannels),
	}

	n := len(curves)
	if n > MaxGridCurves {
		n = MaxGridCurves
	}
	bounds := make([]Rect, n)
	for i := range bounds {
		bounds[i] = curves[i].Bounds()
	}

	cw := size.X / float32(width)
	ch := size.Y / float32(height)
	type candidate struct {
		index int
		dist  float32
	}
	var cands []candidate

	for cy := 0; cy < height; cy++ {
		for cx := 0; cx < width; cx++ {
			cell := Rect{
				Min: Vec2{float32(cx) * cw, float32(cy) * ch},
				Max: Vec2{float32(cx+1) * cw, float32(cy+1) * ch},
			}
			center := cell.Min.Lerp(cell.Max, 0.5)

			cands = cands[:0]
			for i, b := range bounds {
				if b.Overlaps(cell) {
					cands = append(cands, candidate{index: i, dist: b.Distance(center)})
				}
			}
			if len(cands) > CellChannels {
				sort.SliceStable(cands, func(a, b int) bool { return cands[a].dist < cands[b].dist })
				cands = cands[:CellChannels]
			}

			refs := make([]int, len(cands))
			for i, c := range cands {
				refs[i] = c.index
			}
			sort.Ints(refs)
			g.setCell(cx, cy, refs, Winding(curves, center) != 0)
		}
	}
	return g
}

func (g *Grid) setCell(x, y int, refs []int, inside bool) {
	var px [CellChannels]byte
	for i, r := range refs {
		px[i] = byte(r + firstCurveRef)
	}
	switch {
	case len(refs) == CellChannels:
		// refs are sorted ascending, so swapping encodes inside.
		if inside {
			px[0], px[1] = px[1], px[0]
		}
	case inside:
		px[len(refs)] = insideRef
	}
	copy(g.Cells[(y*g.Width+x)*CellChannels:], px[:])
}

// Cell returns the raw RGBA value of a cell.
func (g *Grid) Cell(x, y int) [CellChannels]byte {
	var px [CellChannels]byte
	copy(px[:], g.Cells[(y*g.Width+x)*CellChannels:])
	return px
}

// CellCurves returns the curve indices referenced by a cell.
func (g *Grid) CellCurves(x, y int) []int {
	var refs []int
	for _, v := range g.Cell(x, y) {
		if v >= firstCurveRef {
			refs = append(refs, int(v)-firstCurveRef)
		}
	}
	sort.Ints(refs)
	return refs
}

// Inside reports whether the center of a cell lies inside the glyph.
func (g *Grid) Inside(x, y int) bool {
	px := g.Cell(x, y)
	full := true
	for _, v := range px {
		if v == insideRef {
			return true
		}
		if v < firstCurveRef {
			full = false
		}
	}
	return full && px[0] > px[1]
}

// WriteTo copies the grid into an RGBA8 image with the given row stride in
// bytes, placing cell (0,0) at pixel (x,y).
func (g *Grid) WriteTo(dst []byte, stride, x, y int) error {
	if g.Width <= 0 || g.Height <= 0 {
		return ErrInvalidGrid
	}
	rowBytes := g.Width * CellChannels
	last := (y+g.Height-1)*stride + x*CellChannels + rowBytes
	if x < 0 || y < 0 || x*CellChannels+rowBytes > stride || last > len(dst) {
		return fmt.Errorf("write %dx%d grid at (%d,%d): %w", g.Width, g.Height, x, y, ErrShortBuffer)
	}
	for row := 0; row < g.Height; row++ {
		src := g.Cells[row*rowBytes : (row+1)*rowBytes]
		copy(dst[(y+row)*stride+x*CellChannels:], src)
	}
	return nil
}

// Winding returns the nonzero winding number of the closed curves around p.
// Curves are flattened into short line segments before counting crossings
// of a ray towards +X.
func Winding(curves []Bezier2, p Vec2) int {
	wn := 0
	for _, c := range curves {
		a := c.E0
		for i := 1; i <= windingSteps; i++ {
			b := c.Eval(float32(i) / windingSteps)
			if a.Y <= p.Y {
				if b.Y > p.Y && isLeft(a, b, p) > 0 {
					wn++
				}
			} else if b.Y <= p.Y && isLeft(a, b, p) < 0 {
				wn--
			}
			a = b
		}
	}
	return wn
}

func isLeft(a, b, p Vec2) float32 {
	return (b.X-a.X)*(p.Y-a.Y) - (p.X-a.X)*(b.Y-a.Y)
}
