package vtext

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/vtext/atlas"
	"github.com/gogpu/vtext/glyph"
	"github.com/gogpu/vtext/gpu"
)

// Manager is the shared context for a set of labels: it owns the atlas
// allocator, the glyph cache, the GPU device and the default font.
//
// Create one Manager per device and pass it to every label. A Manager and
// its labels are not safe for concurrent use.
type Manager struct {
	alloc  *atlas.Allocator
	cache  *glyph.Cache
	device gpu.Device
	font   glyph.Font

	labels map[*Label]struct{}
	nextID int
	closed bool
}

// Stats combines cache and atlas statistics.
type Stats struct {
	Cache  glyph.CacheStats
	Atlas  atlas.Stats
	Labels int
}

// NewManager creates a Manager.
//
// Without WithDevice the manager uploads into a gpu.MemoryDevice, which is
// enough for layout and for headless tools. Without WithDefaultFont it
// loads Go Regular.
func NewManager(opts ...Option) (*Manager, error) {
	o := defaultManagerOptions()
	for _, opt := range opts {
		opt(&o)
	}

	alloc, err := atlas.NewAllocator(o.atlas)
	if err != nil {
		return nil, err
	}

	font := o.font
	if font == nil {
		font, err = glyph.DefaultFont()
		if err != nil {
			return nil, fmt.Errorf("vtext: load default font: %w", err)
		}
	}

	device := o.device
	if device == nil {
		device = gpu.NewMemoryDevice()
	}

	m := &Manager{
		alloc:  alloc,
		cache:  glyph.NewCache(alloc, o.cacheOpts...),
		device: device,
		font:   font,
		labels: make(map[*Label]struct{}),
	}
	Logger().Debug("vtext: manager created",
		slog.String("font", font.Name()),
		slog.Int("atlas_size", o.atlas.AtlasSize),
		slog.Int("grid_atlas_size", o.atlas.GridAtlasSize))
	return m, nil
}

// DefaultFont returns the font used for nil font arguments and the caret.
func (m *Manager) DefaultFont() glyph.Font { return m.font }

// Device returns the device the manager uploads to.
func (m *Manager) Device() gpu.Device { return m.device }

// Allocator returns the atlas allocator.
func (m *Manager) Allocator() *atlas.Allocator { return m.alloc }

// Cache returns the glyph cache.
func (m *Manager) Cache() *glyph.Cache { return m.cache }

// Resolve returns the glyph record for r in f, writing it into the atlas
// on first use. A nil font means the default font.
func (m *Manager) Resolve(f glyph.Font, r rune) (*glyph.Record, error) {
	if f == nil {
		f = m.font
	}
	return m.cache.Resolve(f, r)
}

// LoadASCII preloads printable ASCII for f. A nil font
// means the default font.
func (m *Manager) LoadASCII(f glyph.Font) (int, error) {
	if f == nil {
		f = m.font
	}
	return m.cache.LoadASCII(f)
}

// SyncAtlases uploads every dirty atlas group to the device. Render calls
// it before assembling a frame.
func (m *Manager) SyncAtlases() error {
	if m.closed {
		return ErrManagerClosed
	}
	if _, err := m.alloc.Sync(m.device); err != nil {
		return fmt.Errorf("vtext: sync atlases: %w", err)
	}
	return nil
}

// Stats returns cache and atlas statistics.
func (m *Manager) Stats() Stats {
	return Stats{
		Cache:  m.cache.Stats(),
		Atlas:  m.alloc.Stats(),
		Labels: len(m.labels),
	}
}

// NewLabel creates an empty label drawing with this manager's atlas.
func (m *Manager) NewLabel(opts ...LabelOption) (*Label, error) {
	if m.closed {
		return nil, ErrManagerClosed
	}
	m.nextID++
	o := labelOptions{name: fmt.Sprintf("vtext_label_%d", m.nextID)}
	for _, opt := range opts {
		opt(&o)
	}

	l := &Label{
		m:     m,
		name:  o.name,
		verts: make([]Vertex, 0, o.capacity*6),
	}
	l.text = make([]rune, 0, o.capacity)
	l.glyphs = make([]*glyph.Record, 0, o.capacity)

	buf, err := m.device.NewVertexBuffer(l.name, cap(l.verts)*gpu.VertexStride)
	if err != nil {
		return nil, fmt.Errorf("vtext: create vertex buffer: %w", err)
	}
	l.buf = buf
	l.gpuCap = buf.Size() / gpu.VertexStride

	m.labels[l] = struct{}{}
	return l, nil
}

// Close releases the labels' GPU buffers and every device resource. Labels
// keep their text and layout but can no longer render.
// Safe to call multiple times.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	for l := range m.labels {
		l.releaseBuffers()
	}
	m.labels = nil
	m.device.Destroy()
	m.closed = true
}
