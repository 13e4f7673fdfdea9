package glyph

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/vtext/atlas"
	"github.com/gogpu/vtext/bezier"
)

// cacheKey identifies a glyph in the cache. Fonts are compared by identity.
type cacheKey struct {
	font Font
	r    rune
}

// Warning describes a glyph that was too large for the atlas and resolved
// to a blank record.
type Warning struct {
	Font     string
	Rune     rune
	Curves   int
	Texels   int
	Capacity int
}

func (w Warning) String() string {
	return fmt.Sprintf("glyph %U of %q has too many curves (%d texels, capacity %d)",
		w.Rune, w.Font, w.Texels, w.Capacity)
}

// CacheOption configures a Cache.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	builder   bezier.Builder
	onWarning func(Warning)
}

// WithGridBuilder replaces the spatial grid builder.
func WithGridBuilder(b bezier.Builder) CacheOption {
	return func(c *cacheConfig) {
		c.builder = b
	}
}

// WithWarningHandler registers a callback for glyphs that overflow the atlas.
// Warnings are also logged at warn level.
func WithWarningHandler(fn func(Warning)) CacheOption {
	return func(c *cacheConfig) {
		c.onWarning = fn
	}
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Records   int
	Hits      uint64
	Misses    uint64
	Blanks    uint64
	Overflows uint64
	Missing   uint64
}

// Cache maps (font, codepoint) pairs to glyph records, writing new glyphs
// into a shared atlas. Records are never evicted. A Cache is not safe for
// concurrent use.
type Cache struct {
	alloc     *atlas.Allocator
	builder   bezier.Builder
	onWarning func(Warning)

	records map[cacheKey]*Record
	missing map[cacheKey]struct{}
	stats   CacheStats
}

// NewCache creates a cache that allocates glyph data from alloc.
func NewCache(alloc *atlas.Allocator, opts ...CacheOption) *Cache {
	cfg := cacheConfig{builder: bezier.DefaultBuilder}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Cache{
		alloc:     alloc,
		builder:   cfg.builder,
		onWarning: cfg.onWarning,
		records:   make(map[cacheKey]*Record),
		missing:   make(map[cacheKey]struct{}),
	}
}

// Allocator returns the atlas allocator backing the cache.
func (c *Cache) Allocator() *atlas.Allocator { return c.alloc }

// Lookup returns a cached record without resolving.
func (c *Cache) Lookup(f Font, r rune) (*Record, bool) {
	rec, ok := c.records[cacheKey{f, r}]
	return rec, ok
}

// Len returns the number of cached records.
func (c *Cache) Len() int { return len(c.records) }

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	s := c.stats
	s.Records = len(c.records)
	return s
}

// Resolve returns the record for r in f, creating it on first use.
//
// Glyphs without curves, and glyphs whose curve data exceeds an atlas
// group, resolve to blank records with metrics only; the latter also emit
// a Warning. If the font has no glyph for r, Resolve returns an error
// wrapping ErrNoGlyph.
func (c *Cache) Resolve(f Font, r rune) (*Record, error) {
	if f == nil {
		return nil, ErrNilFont
	}
	key := cacheKey{f, r}
	if rec, ok := c.records[key]; ok {
		c.stats.Hits++
		return rec, nil
	}
	if _, ok := c.missing[key]; ok {
		c.stats.Hits++
		return nil, fmt.Errorf("%U: %w", r, ErrNoGlyph)
	}
	c.stats.Misses++

	outline, err := f.Outline(r)
	if err != nil {
		if errors.Is(err, ErrNoGlyph) {
			c.missing[key] = struct{}{}
			c.stats.Missing++
		}
		return nil, err
	}

	curves, bounds := bezier.Reduce(outline.Segments)
	rec := &Record{
		size:    bounds.Size(),
		offset:  bounds.Min,
		advance: outline.Advance,
		locator: atlas.Locator{Group: atlas.NoGroup},
		curves:  len(curves),
	}
	if len(curves) == 0 {
		c.stats.Blanks++
		c.records[key] = rec
		return rec, nil
	}

	texels := bezier.TexelCount(len(curves))
	if texels > c.alloc.Capacity() {
		c.warn(Warning{
			Font:     f.Name(),
			Rune:     r,
			Curves:   len(curves),
			Texels:   texels,
			Capacity: c.alloc.Capacity(),
		})
		c.stats.Blanks++
		c.stats.Overflows++
		c.records[key] = rec
		return rec, nil
	}

	// The grid is checked before any atlas space is taken, so a failing
	// builder leaves the allocator untouched.
	grid, err := c.buildGrid(curves, rec.size)
	if err != nil {
		return nil, fmt.Errorf("glyph: grid %U: %w", r, err)
	}
	alloc, err := c.alloc.Allocate(texels)
	if err != nil {
		return nil, err
	}
	if err := c.write(alloc, curves, rec.size, grid); err != nil {
		return nil, fmt.Errorf("glyph: write %U: %w", r, err)
	}
	rec.locator = alloc.Locator()
	c.records[key] = rec

	slogger().Debug("glyph: resolved",
		slog.String("font", f.Name()),
		slog.String("rune", fmt.Sprintf("%U", r)),
		slog.Int("curves", len(curves)),
		slog.Int("group", alloc.Group))
	return rec, nil
}

func (c *Cache) buildGrid(curves []bezier.Bezier2, size bezier.Vec2) (*bezier.Grid, error) {
	cell := c.alloc.Config().GridCellSize
	grid := c.builder.Build(curves, size, cell, cell)
	if grid == nil {
		return nil, fmt.Errorf("grid builder returned nil: %w", bezier.ErrInvalidGrid)
	}
	if grid.Width != cell || grid.Height != cell || len(grid.Cells) < cell*cell*bezier.CellChannels {
		return nil, fmt.Errorf("grid builder returned %dx%d grid, want %dx%d: %w",
			grid.Width, grid.Height, cell, cell, bezier.ErrInvalidGrid)
	}
	return grid, nil
}

// write encodes curves and blits grid into the allocated space.
func (c *Cache) write(alloc atlas.Allocation, curves []bezier.Bezier2, size bezier.Vec2, grid *bezier.Grid) error {
	cell := c.alloc.Config().GridCellSize
	group := c.alloc.Group(alloc.Group)
	if group == nil {
		return atlas.ErrNoGroup
	}

	rect := bezier.GridRect{
		X:      uint16(alloc.GridX),
		Y:      uint16(alloc.GridY),
		Width:  uint16(cell),
		Height: uint16(cell),
	}
	if _, err := bezier.Encode(group.CurveSpan(alloc), curves, size, rect); err != nil {
		return err
	}
	if err := grid.WriteTo(group.Grid(), group.GridStride(), alloc.GridX, alloc.GridY); err != nil {
		return err
	}
	group.MarkDirty()
	return nil
}

func (c *Cache) warn(w Warning) {
	slogger().Warn("glyph: too many curves",
		slog.String("font", w.Font),
		slog.String("rune", fmt.Sprintf("%U", w.Rune)),
		slog.Int("texels", w.Texels),
		slog.Int("capacity", w.Capacity))
	if c.onWarning != nil {
		c.onWarning(w)
	}
}

// LoadASCII resolves the printable ASCII range 32..127 so
// common text needs no atlas writes later. Codepoints missing from the font
// are skipped; it returns the number of records available afterwards.
func (c *Cache) LoadASCII(f Font) (int, error) {
	n := 0
	for _, r := range asciiRange() {
		_, err := c.Resolve(f, r)
		switch {
		case err == nil:
			n++
		case errors.Is(err, ErrNoGlyph):
		default:
			return n, err
		}
	}
	return n, nil
}

func asciiRange() []rune {
	rs := make([]rune, 0, 96)
	for r := rune(32); r < 128; r++ {
		rs = append(rs, r)
	}
	return rs
}
