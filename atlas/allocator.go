package atlas

import (
	"fmt"
	"log/slog"
)

// Allocation is the space reserved for one glyph.
type Allocation struct {
	// Group is the index of the group holding the glyph.
	Group int

	// Offset is the first reserved curve texel.
	Offset uint32

	// Texels is the number of reserved curve texels.
	Texels int

	// GridX, GridY is the origin of the glyph's grid in the grid image,
	// in cells.
	GridX, GridY int
}

// Locator returns the locator stored in glyph records and vertex codes.
func (a Allocation) Locator() Locator {
	return Locator{Offset: a.Offset, Group: int32(a.Group)}
}

// Allocator owns the ordered list of groups and hands out space in the
// last one. It is not safe for concurrent use.
type Allocator struct {
	cfg    Config
	groups []*Group
}

// NewAllocator creates an allocator. Groups are created lazily on the first
// allocation.
func NewAllocator(cfg Config) (*Allocator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Allocator{cfg: cfg}, nil
}

// Config returns the allocator configuration.
func (a *Allocator) Config() Config { return a.cfg }

// Capacity returns the number of curve texels in one group.
func (a *Allocator) Capacity() int { return a.cfg.Capacity() }

// Len returns the number of groups.
func (a *Allocator) Len() int { return len(a.groups) }

// Group returns the group at index i, or nil if there is none.
func (a *Allocator) Group(i int) *Group {
	if i < 0 || i >= len(a.groups) {
		return nil
	}
	return a.groups[i]
}

// Allocate reserves texels curve texels and one grid slot.
//
// Allocation always happens in the last group. If that group is full, or
// cannot fit the curve data, it is marked full and dirty and a new group is
// appended; a fresh group always fits, so this happens at most once per
// call. A request larger than a whole group returns ErrGlyphTooLarge and
// leaves every cursor untouched.
func (a *Allocator) Allocate(texels int) (Allocation, error) {
	if texels <= 0 {
		return Allocation{}, fmt.Errorf("atlas: invalid texel count %d", texels)
	}
	capacity := a.Capacity()
	if texels > capacity {
		return Allocation{}, fmt.Errorf("allocate %d texels (capacity %d): %w", texels, capacity, ErrGlyphTooLarge)
	}

	g := a.openGroup()
	if g.curveCursor+texels > capacity {
		a.markFull(g, "curve")
		g = a.appendGroup()
	}

	alloc := Allocation{
		Group:  g.index,
		Offset: uint32(g.curveCursor),
		Texels: texels,
		GridX:  g.gridX,
		GridY:  g.gridY,
	}

	cell := a.cfg.GridCellSize
	g.curveCursor += texels
	g.glyphs++
	g.dirty = true
	g.gridX += cell
	if g.gridX+cell > a.cfg.GridAtlasSize {
		g.gridX = 0
		g.gridY += cell
	}
	if g.gridY+cell > a.cfg.GridAtlasSize {
		a.markFull(g, "grid")
	}

	slogger().Debug("atlas: allocated",
		slog.Int("group", alloc.Group),
		slog.Uint64("offset", uint64(alloc.Offset)),
		slog.Int("texels", texels),
		slog.Int("gridX", alloc.GridX),
		slog.Int("gridY", alloc.GridY))
	return alloc, nil
}

func (a *Allocator) openGroup() *Group {
	if n := len(a.groups); n > 0 && !a.groups[n-1].full {
		return a.groups[n-1]
	}
	return a.appendGroup()
}

func (a *Allocator) appendGroup() *Group {
	g := newGroup(len(a.groups), &a.cfg)
	a.groups = append(a.groups, g)
	slogger().Info("atlas: new group", slog.Int("group", g.index))
	return g
}

func (a *Allocator) markFull(g *Group, reason string) {
	g.full = true
	g.dirty = true
	slogger().Debug("atlas: group full",
		slog.Int("group", g.index),
		slog.String("reason", reason),
		slog.Int("glyphs", g.glyphs))
}

// DirtyGroups returns the indices of groups awaiting upload.
func (a *Allocator) DirtyGroups() []int {
	var dirty []int
	for _, g := range a.groups {
		if g.dirty {
			dirty = append(dirty, g.index)
		}
	}
	return dirty
}

// Stats holds allocator statistics.
type Stats struct {
	Groups      int
	FullGroups  int
	DirtyGroups int
	Glyphs      int
	CurveTexels int
}

// Stats returns current allocator statistics.
func (a *Allocator) Stats() Stats {
	var s Stats
	s.Groups = len(a.groups)
	for _, g := range a.groups {
		if g.full {
			s.FullGroups++
		}
		if g.dirty {
			s.DirtyGroups++
		}
		s.Glyphs += g.glyphs
		s.CurveTexels += g.curveCursor
	}
	return s
}
