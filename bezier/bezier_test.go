package bezier

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

func square() []Segment {
	return []Segment{
		{Op: SegmentMoveTo, Points: [3]Vec2{{10, 20}}},
		{Op: SegmentLineTo, Points: [3]Vec2{{110, 20}}},
		{Op: SegmentLineTo, Points: [3]Vec2{{110, 220}}},
		{Op: SegmentLineTo, Points: [3]Vec2{{10, 220}}},
	}
}

func triangle() []Segment {
	return []Segment{
		{Op: SegmentMoveTo, Points: [3]Vec2{{0, 0}}},
		{Op: SegmentLineTo, Points: [3]Vec2{{100, 0}}},
		{Op: SegmentLineTo, Points: [3]Vec2{{0, 100}}},
		{Op: SegmentLineTo, Points: [3]Vec2{{0, 0}}},
	}
}

// --- Reduce Tests ---

func TestReduce_ClosesContour(t *testing.T) {
	curves, bounds := Reduce(square())

	if len(curves) != 4 {
		t.Fatalf("expected 4 curves, got %d", len(curves))
	}
	if bounds.Min != (Vec2{10, 20}) || bounds.Max != (Vec2{110, 220}) {
		t.Errorf("unexpected bounds %+v", bounds)
	}
	last := curves[3]
	if last.E0 != (Vec2{0, 200}) || last.E1 != (Vec2{0, 0}) {
		t.Errorf("closing curve = %+v, want (0,200)->(0,0)", last)
	}
	if last.C != (Vec2{0, 100}) {
		t.Errorf("line control = %+v, want midpoint (0,100)", last.C)
	}
}

func TestReduce_SkipsDegenerateClose(t *testing.T) {
	curves, _ := Reduce(triangle())
	if len(curves) != 3 {
		t.Errorf("expected 3 curves for explicitly closed triangle, got %d", len(curves))
	}
}

func TestReduce_Empty(t *testing.T) {
	curves, bounds := Reduce(nil)
	if curves != nil {
		t.Errorf("expected no curves, got %d", len(curves))
	}
	if bounds != (Rect{}) {
		t.Errorf("expected zero bounds, got %+v", bounds)
	}

	curves, _ = Reduce([]Segment{{Op: SegmentMoveTo, Points: [3]Vec2{{5, 5}}}})
	if len(curves) != 0 {
		t.Errorf("lone MoveTo produced %d curves", len(curves))
	}
}

func TestReduce_Cubic(t *testing.T) {
	curves, bounds := Reduce([]Segment{
		{Op: SegmentMoveTo, Points: [3]Vec2{{0, 0}}},
		{Op: SegmentCubeTo, Points: [3]Vec2{{0, 100}, {100, 100}, {100, 0}}},
	})

	// two halves of the cubic plus the closing line
	if len(curves) != 3 {
		t.Fatalf("expected 3 curves, got %d", len(curves))
	}
	if curves[0].E1 != curves[1].E0 {
		t.Errorf("cubic halves are not joined: %+v %+v", curves[0].E1, curves[1].E0)
	}
	size := bounds.Size()
	for i, c := range curves {
		for _, p := range [3]Vec2{c.E0, c.C, c.E1} {
			if p.X < 0 || p.Y < 0 || p.X > size.X || p.Y > size.Y {
				t.Errorf("curve %d point %+v outside [0,%v]", i, p, size)
			}
		}
	}
	// the cubic peaks at y=75
	mid := curves[0].E1.Y + bounds.Min.Y
	if math32.Abs(mid-75) > 1e-3 {
		t.Errorf("split point y = %v, want 75", mid)
	}
}

// --- Encode Tests ---

func TestTexelCount(t *testing.T) {
	tests := []struct {
		curves, want int
	}{
		{0, 2},
		{1, 5},
		{10, 32},
	}
	for _, tt := range tests {
		if got := TexelCount(tt.curves); got != tt.want {
			t.Errorf("TexelCount(%d) = %d, want %d", tt.curves, got, tt.want)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	size := Vec2{1234, 1789}
	curves := make([]Bezier2, 40)
	for i := range curves {
		pt := func() Vec2 { return Vec2{rng.Float32() * size.X, rng.Float32() * size.Y} }
		curves[i] = Bezier2{E0: pt(), C: pt(), E1: pt()}
	}
	curves[0].E0 = Vec2{0, 0}
	curves[0].E1 = size

	grid := GridRect{X: 40, Y: 220, Width: 20, Height: 20}
	buf := make([]byte, TexelCount(len(curves))*TexelBytes)
	n, err := Encode(buf, curves, size, grid)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n != len(buf) {
		t.Errorf("wrote %d bytes, want %d", n, len(buf))
	}

	gotGrid, got, err := Decode(buf, len(curves), size)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if gotGrid != grid {
		t.Errorf("grid = %+v, want %+v", gotGrid, grid)
	}

	tolX, tolY := size.X/65536, size.Y/65536
	for i := range curves {
		want := [3]Vec2{curves[i].E0, curves[i].C, curves[i].E1}
		have := [3]Vec2{got[i].E0, got[i].C, got[i].E1}
		for j := range want {
			if math32.Abs(want[j].X-have[j].X) > tolX || math32.Abs(want[j].Y-have[j].Y) > tolY {
				t.Errorf("curve %d point %d: got %+v, want %+v", i, j, have[j], want[j])
			}
		}
	}
}

func TestEncode_Deterministic(t *testing.T) {
	curves, bounds := Reduce(square())
	a := make([]byte, TexelCount(len(curves))*TexelBytes)
	b := make([]byte, len(a))
	grid := GridRect{Width: 20, Height: 20}

	if _, err := Encode(a, curves, bounds.Size(), grid); err != nil {
		t.Fatal(err)
	}
	if _, err := Encode(b, curves, bounds.Size(), grid); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two encodes of the same input differ")
	}
}

func TestEncode_HeaderAndScale(t *testing.T) {
	curves := []Bezier2{{E0: Vec2{0, 0}, C: Vec2{50, 25}, E1: Vec2{100, 50}}}
	buf := make([]byte, TexelCount(1)*TexelBytes)
	if _, err := Encode(buf, curves, Vec2{100, 50}, GridRect{X: 1, Y: 2, Width: 3, Height: 4}); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		1, 0, 2, 0, 3, 0, 4, 0,
		0, 0, 0, 0,
		0x00, 0x80, 0x00, 0x80, // round(32767.5) = 32768
		0xff, 0xff, 0xff, 0xff,
	}
	if !bytes.Equal(buf, want) {
		t.Errorf("layout = % x\nwant     % x", buf, want)
	}
}

func TestEncode_ZeroDimension(t *testing.T) {
	curves := []Bezier2{{E0: Vec2{0, 0}, C: Vec2{0, 5}, E1: Vec2{0, 10}}}
	buf := make([]byte, TexelCount(1)*TexelBytes)
	if _, err := Encode(buf, curves, Vec2{0, 10}, GridRect{}); err != nil {
		t.Fatal(err)
	}
	_, got, err := Decode(buf, 1, Vec2{0, 10})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].C.X != 0 || got[0].E1.Y != 10 {
		t.Errorf("decoded %+v", got[0])
	}
}

func TestEncode_ShortBuffer(t *testing.T) {
	curves := make([]Bezier2, 3)
	_, err := Encode(make([]byte, 10), curves, Vec2{1, 1}, GridRect{})
	if !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer, got %v", err)
	}
	_, _, err = Decode(make([]byte, 10), 3, Vec2{1, 1})
	if !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer from Decode, got %v", err)
	}
}

// --- Grid Tests ---

func TestBuildGrid_Square(t *testing.T) {
	curves, bounds := Reduce(square())
	g := BuildGrid(curves, bounds.Size(), 4, 4)

	if g.Width != 4 || g.Height != 4 || len(g.Cells) != 64 {
		t.Fatalf("unexpected grid %dx%d with %d bytes", g.Width, g.Height, len(g.Cells))
	}

	// bottom and left edges
	refs := g.CellCurves(0, 0)
	if len(refs) != 2 || refs[0] != 0 || refs[1] != 3 {
		t.Errorf("corner cell refs = %v, want [0 3]", refs)
	}
	if !g.Inside(0, 0) {
		t.Error("corner cell center should be inside")
	}

	if refs := g.CellCurves(1, 1); len(refs) != 0 {
		t.Errorf("interior cell refs = %v, want none", refs)
	}
	if !g.Inside(1, 1) {
		t.Error("interior cell should be inside")
	}
	if px := g.Cell(1, 1); px != [4]byte{1, 0, 0, 0} {
		t.Errorf("interior cell = %v, want inside sentinel", px)
	}
}

func TestBuildGrid_Outside(t *testing.T) {
	curves, bounds := Reduce(triangle())
	g := BuildGrid(curves, bounds.Size(), 4, 4)

	if !g.Inside(0, 0) {
		t.Error("cell near the right angle should be inside")
	}
	if g.Inside(3, 3) {
		t.Error("cell beyond the hypotenuse should be outside")
	}
}

func TestBuildGrid_FullCellOrder(t *testing.T) {
	g := &Grid{Width: 1, Height: 1, Cells: make([]byte, 4)}

	g.setCell(0, 0, []int{0, 1, 2, 3}, true)
	if !g.Inside(0, 0) {
		t.Error("full cell lost inside flag")
	}
	if refs := g.CellCurves(0, 0); len(refs) != 4 {
		t.Errorf("refs = %v", refs)
	}

	g.setCell(0, 0, []int{0, 1, 2, 3}, false)
	if g.Inside(0, 0) {
		t.Error("full cell reports inside")
	}
}

func TestBuildGrid_CapsCellCurves(t *testing.T) {
	var curves []Bezier2
	for i := 0; i < 8; i++ {
		x := float32(i)
		curves = append(curves, Bezier2{E0: Vec2{x, 0}, C: Vec2{x, 5}, E1: Vec2{x, 10}})
	}
	g := BuildGrid(curves, Vec2{10, 10}, 1, 1)
	if refs := g.CellCurves(0, 0); len(refs) != CellChannels {
		t.Errorf("expected %d refs, got %v", CellChannels, refs)
	}
}

func TestGrid_WriteTo(t *testing.T) {
	curves, bounds := Reduce(square())
	g := BuildGrid(curves, bounds.Size(), 2, 2)

	const size = 8
	dst := make([]byte, size*size*4)
	if err := g.WriteTo(dst, size*4, 3, 5); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			off := ((5+y)*size + 3 + x) * 4
			want := g.Cell(x, y)
			if !bytes.Equal(dst[off:off+4], want[:]) {
				t.Errorf("cell (%d,%d) = %v, want %v", x, y, dst[off:off+4], want)
			}
		}
	}

	if err := g.WriteTo(dst, size*4, 7, 0); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer past the row end, got %v", err)
	}
	if err := g.WriteTo(dst, size*4, 0, 7); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer past the last row, got %v", err)
	}
}

func TestWinding(t *testing.T) {
	curves, _ := Reduce(square())
	if w := Winding(curves, Vec2{50, 100}); w == 0 {
		t.Error("center of square should have nonzero winding")
	}
	if w := Winding(curves, Vec2{150, 100}); w != 0 {
		t.Errorf("point right of square has winding %d", w)
	}
}
