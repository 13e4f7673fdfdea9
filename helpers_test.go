package vtext

import (
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/vtext/bezier"
	"github.com/gogpu/vtext/glyph"
	"github.com/gogpu/vtext/gpu"
)

var black = color.RGBA{A: 255}

// testFont is a font with integer metrics, so layout arithmetic in tests is
// exact. Letters are boxes whose advance depends on the letter, space is
// blank and '?' is unmapped. A nil entry in extra unmaps its rune.
type testFont struct {
	extra map[rune]*glyph.Outline
	calls int
}

func newTestFont() *testFont {
	return &testFont{extra: make(map[rune]*glyph.Outline)}
}

func (f *testFont) Name() string { return "test" }

func (f *testFont) Metrics() glyph.Metrics {
	return glyph.Metrics{UnitsPerEm: 1000, Ascent: 800, Descent: -200, LineGap: 100}
}

func (f *testFont) Outline(r rune) (*glyph.Outline, error) {
	f.calls++
	if o, ok := f.extra[r]; ok {
		if o == nil {
			return nil, glyph.ErrNoGlyph
		}
		return o, nil
	}
	switch {
	case r == ' ':
		return &glyph.Outline{Advance: 250}, nil
	case r == '|':
		return boxOutline(40, -200, 60, 800, 100), nil
	case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
		w := float32(300 + (r%7)*40)
		return boxOutline(20, 0, 20+w, 700, w+40), nil
	}
	return nil, glyph.ErrNoGlyph
}

// advance returns the advance of a letter, as laid out by testFont.
func advance(r rune) float32 {
	return float32(300+(r%7)*40) + 40
}

func boxOutline(x0, y0, x1, y1, adv float32) *glyph.Outline {
	return &glyph.Outline{
		Advance: adv,
		Segments: []bezier.Segment{
			{Op: bezier.SegmentMoveTo, Points: [3]bezier.Vec2{{X: x0, Y: y0}}},
			{Op: bezier.SegmentLineTo, Points: [3]bezier.Vec2{{X: x1, Y: y0}}},
			{Op: bezier.SegmentLineTo, Points: [3]bezier.Vec2{{X: x1, Y: y1}}},
			{Op: bezier.SegmentLineTo, Points: [3]bezier.Vec2{{X: x0, Y: y1}}},
		},
	}
}

// zigzagOutline is a closed outline of n line segments.
func zigzagOutline(n int) *glyph.Outline {
	o := &glyph.Outline{Advance: 500}
	o.Segments = append(o.Segments, bezier.Segment{Op: bezier.SegmentMoveTo})
	for i := 1; i < n; i++ {
		o.Segments = append(o.Segments, bezier.Segment{
			Op:     bezier.SegmentLineTo,
			Points: [3]bezier.Vec2{{X: float32(i * 10), Y: float32((i % 2) * 50)}},
		})
	}
	return o
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *testFont) {
	t.Helper()
	f := newTestFont()
	m, err := NewManager(append([]Option{WithDefaultFont(f)}, opts...)...)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(m.Close)
	return m, f
}

func newTestLabel(t *testing.T, m *Manager, opts ...LabelOption) *Label {
	t.Helper()
	l, err := m.NewLabel(opts...)
	if err != nil {
		t.Fatalf("NewLabel: %v", err)
	}
	return l
}

// memoryBuffer returns the MemoryDevice buffer backing l.
func memoryBuffer(t *testing.T, l *Label) *gpu.MemoryBuffer {
	t.Helper()
	dev, ok := l.m.Device().(*gpu.MemoryDevice)
	if !ok {
		t.Fatalf("device is %T, want *gpu.MemoryDevice", l.m.Device())
	}
	b := dev.Buffer(l.Name())
	if b == nil {
		t.Fatalf("no buffer labeled %q", l.Name())
	}
	return b
}

// relayout lays out text from scratch in a new label.
func relayout(t *testing.T, m *Manager, text string) []Vertex {
	t.Helper()
	l := newTestLabel(t, m)
	defer l.Close()
	l.Insert(0, []rune(text), black, nil)
	return l.Vertices()
}

func vec(x, y float32) bezier.Vec2 { return bezier.Vec2{X: x, Y: y} }

// newHALDevice returns a gpu.HALDevice on the noop backend.
func newHALDevice(t *testing.T) *gpu.HALDevice {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	d, err := gpu.NewHALDevice(openDev.Device, openDev.Queue)
	if err != nil {
		t.Fatalf("NewHALDevice: %v", err)
	}
	return d
}
