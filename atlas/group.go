package atlas

// NoGroup is the group index of glyphs without curve data.
const NoGroup int32 = -1

// Locator addresses a glyph's curve data: a texel offset inside the curve
// buffer of one group. Group == NoGroup means the glyph has no curve data.
type Locator struct {
	Offset uint32
	Group  int32
}

// Valid reports whether the locator references curve data.
func (l Locator) Valid() bool { return l.Group >= 0 }

// Group is one unit of GPU-resident storage: a linear curve buffer paired
// with a grid image.
type Group struct {
	index int

	curves []byte
	grid   []byte

	curveCursor  int // next free texel
	gridX, gridY int // next free cell origin

	full   bool
	dirty  bool
	glyphs int

	atlasSize int
	gridSize  int
}

func newGroup(index int, cfg *Config) *Group {
	return &Group{
		index:     index,
		curves:    make([]byte, cfg.AtlasSize*cfg.AtlasSize*cfg.Channels),
		grid:      make([]byte, cfg.GridAtlasSize*cfg.GridAtlasSize*cfg.Channels),
		atlasSize: cfg.AtlasSize,
		gridSize:  cfg.GridAtlasSize,
	}
}

// Index returns the position of the group in its allocator.
func (g *Group) Index() int { return g.index }

// Curves returns the curve buffer. Writers must call MarkDirty.
func (g *Group) Curves() []byte { return g.curves }

// Grid returns the RGBA8 grid image. Writers must call MarkDirty.
func (g *Group) Grid() []byte { return g.grid }

// GridStride returns the row stride of the grid image in bytes.
func (g *Group) GridStride() int { return g.gridSize * Channels }

// CurveSpan returns the bytes of the curve buffer reserved by a.
func (g *Group) CurveSpan(a Allocation) []byte {
	start := int(a.Offset) * Channels
	return g.curves[start : start+a.Texels*Channels]
}

// CurveCursor returns the next free texel offset.
func (g *Group) CurveCursor() int { return g.curveCursor }

// GridCursor returns the next free grid cell origin.
func (g *Group) GridCursor() (x, y int) { return g.gridX, g.gridY }

// Full returns true once the group accepts no more glyphs.
func (g *Group) Full() bool { return g.full }

// Dirty returns true if the group changed since its last upload.
func (g *Group) Dirty() bool { return g.dirty }

// MarkDirty flags the group for upload on the next Sync.
func (g *Group) MarkDirty() { g.dirty = true }

// Glyphs returns the number of glyphs allocated in the group.
func (g *Group) Glyphs() int { return g.glyphs }

// Utilization returns the fraction of curve texels in use (0.0 to 1.0).
func (g *Group) Utilization() float64 {
	return float64(g.curveCursor) / float64(g.atlasSize*g.atlasSize)
}
