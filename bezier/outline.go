package bezier

// SegmentOp is the type of an outline path operation.
type SegmentOp uint8

const (
	// SegmentMoveTo starts a new contour at Points[0].
	SegmentMoveTo SegmentOp = iota

	// SegmentLineTo draws a line to Points[0].
	SegmentLineTo

	// SegmentQuadTo draws a quadratic curve with control Points[0] to Points[1].
	SegmentQuadTo

	// SegmentCubeTo draws a cubic curve with controls Points[0], Points[1]
	// to Points[2].
	SegmentCubeTo
)

// String returns a string representation of the operation.
func (op SegmentOp) String() string {
	switch op {
	case SegmentMoveTo:
		return "MoveTo"
	case SegmentLineTo:
		return "LineTo"
	case SegmentQuadTo:
		return "QuadTo"
	case SegmentCubeTo:
		return "CubeTo"
	default:
		return "Unknown"
	}
}

// Segment is one outline path operation in font design units, Y up.
type Segment struct {
	Op     SegmentOp
	Points [3]Vec2
}

// Reduce converts outline segments into closed quadratic curves.
//
// Lines become quadratics with a midpoint control, cubics are split in half
// and each half is approximated by one quadratic, and every contour is
// closed back to its starting point. The returned curves are translated so
// that the control box of the reduced curves starts at the origin; bounds is
// that control box in the original coordinates. An outline without drawing
// segments yields no curves and a zero Rect.
func Reduce(segments []Segment) (curves []Bezier2, bounds Rect) {
	var (
		start, pen Vec2
		open       bool
		seen       bool
	)

	addPoint := func(p Vec2) {
		if !seen {
			bounds = Rect{Min: p, Max: p}
			seen = true
			return
		}
		bounds = bounds.extend(p)
	}
	addLine := func(a, b Vec2) {
		if a == b {
			return
		}
		curves = append(curves, Bezier2{E0: a, C: a.Lerp(b, 0.5), E1: b})
	}
	closeContour := func() {
		if open {
			addLine(pen, start)
		}
		open = false
	}

	for _, seg := range segments {
		switch seg.Op {
		case SegmentMoveTo:
			closeContour()
			start, pen = seg.Points[0], seg.Points[0]
			open = true
		case SegmentLineTo:
			p := seg.Points[0]
			addPoint(pen)
			addPoint(p)
			addLine(pen, p)
			pen = p
		case SegmentQuadTo:
			c, p := seg.Points[0], seg.Points[1]
			addPoint(pen)
			addPoint(c)
			addPoint(p)
			curves = append(curves, Bezier2{E0: pen, C: c, E1: p})
			pen = p
		case SegmentCubeTo:
			c1, c2, p := seg.Points[0], seg.Points[1], seg.Points[2]
			for _, q := range cubicToQuads(pen, c1, c2, p) {
				addPoint(q.E0)
				addPoint(q.C)
				addPoint(q.E1)
				curves = append(curves, q)
			}
			pen = p
		}
	}
	closeContour()

	if len(curves) == 0 {
		return nil, Rect{}
	}
	shift := Vec2{-bounds.Min.X, -bounds.Min.Y}
	for i := range curves {
		curves[i] = curves[i].Translate(shift)
	}
	return curves, bounds
}

// cubicToQuads splits a cubic at t=0.5 and fits one quadratic per half.
func cubicToQuads(p0, c1, c2, p3 Vec2) []Bezier2 {
	// de Casteljau at t=0.5
	p01 := p0.Lerp(c1, 0.5)
	p12 := c1.Lerp(c2, 0.5)
	p23 := c2.Lerp(p3, 0.5)
	p012 := p01.Lerp(p12, 0.5)
	p123 := p12.Lerp(p23, 0.5)
	mid := p012.Lerp(p123, 0.5)

	return []Bezier2{
		{E0: p0, C: quadControl(p0, p01, p012, mid), E1: mid},
		{E0: mid, C: quadControl(mid, p123, p23, p3), E1: p3},
	}
}

// quadControl averages the quadratic controls obtained by degree reduction
// from each end of the cubic.
func quadControl(p0, c1, c2, p3 Vec2) Vec2 {
	a := p0.Add(c1.Sub(p0).Scale(1.5))
	b := p3.Add(c2.Sub(p3).Scale(1.5))
	return a.Lerp(b, 0.5)
}
