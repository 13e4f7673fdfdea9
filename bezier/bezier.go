package bezier

import "github.com/chewxy/math32"

// Vec2 is a 2D vector in font design units, Y up.
type Vec2 struct {
	X, Y float32
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Lerp interpolates between v and o.
func (v Vec2) Lerp(o Vec2, t float32) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Bezier2 is a quadratic bezier curve with endpoints E0, E1 and control C.
type Bezier2 struct {
	E0, C, E1 Vec2
}

// Eval returns the point on the curve at parameter t.
func (b Bezier2) Eval(t float32) Vec2 {
	a := b.E0.Lerp(b.C, t)
	c := b.C.Lerp(b.E1, t)
	return a.Lerp(c, t)
}

// Translate returns the curve moved by d.
func (b Bezier2) Translate(d Vec2) Bezier2 {
	return Bezier2{E0: b.E0.Add(d), C: b.C.Add(d), E1: b.E1.Add(d)}
}

// Bounds returns the control box of the curve. It always contains the curve.
func (b Bezier2) Bounds() Rect {
	r := Rect{Min: b.E0, Max: b.E0}
	r = r.extend(b.C)
	return r.extend(b.E1)
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min, Max Vec2
}

// Width returns the horizontal extent.
func (r Rect) Width() float32 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }

// Size returns (Width, Height).
func (r Rect) Size() Vec2 { return Vec2{r.Width(), r.Height()} }

// Overlaps reports whether r and o share any point, edges included.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X &&
		r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// Distance returns the distance from p to the nearest point of r.
func (r Rect) Distance(p Vec2) float32 {
	dx := math32.Max(0, math32.Max(r.Min.X-p.X, p.X-r.Max.X))
	dy := math32.Max(0, math32.Max(r.Min.Y-p.Y, p.Y-r.Max.Y))
	return math32.Sqrt(dx*dx + dy*dy)
}

func (r Rect) extend(p Vec2) Rect {
	r.Min.X = math32.Min(r.Min.X, p.X)
	r.Min.Y = math32.Min(r.Min.Y, p.Y)
	r.Max.X = math32.Max(r.Max.X, p.X)
	r.Max.Y = math32.Max(r.Max.Y, p.Y)
	return r
}
