package atlas

import (
	"errors"
	"math/rand"
	"testing"
)

// tiny has 16 curve texels and four 2x2 grid slots per group.
func tiny() Config {
	return Config{AtlasSize: 4, GridAtlasSize: 4, GridCellSize: 2, Channels: 4}
}

func newTiny(t *testing.T) *Allocator {
	t.Helper()
	a, err := NewAllocator(tiny())
	if err != nil {
		t.Fatalf("NewAllocator: %v", err)
	}
	return a
}

// --- Config Tests ---

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Config)
		field string
	}{
		{"default", func(*Config) {}, ""},
		{"channels", func(c *Config) { c.Channels = 3 }, "Channels"},
		{"atlas size", func(c *Config) { c.AtlasSize = 0 }, "AtlasSize"},
		{"atlas overflow", func(c *Config) { c.AtlasSize = 1 << 16 }, "AtlasSize"},
		{"grid size", func(c *Config) { c.GridAtlasSize = 0 }, "GridAtlasSize"},
		{"cell size", func(c *Config) { c.GridCellSize = 0 }, "GridCellSize"},
		{"cell too big", func(c *Config) { c.GridCellSize = c.GridAtlasSize + 1 }, "GridCellSize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if ce.Field != tt.field {
				t.Errorf("field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Capacity() != 65536 {
		t.Errorf("capacity = %d, want 65536", cfg.Capacity())
	}
	if _, err := NewAllocator(Config{}); err == nil {
		t.Error("expected error for zero config")
	}
}

// --- Allocator Tests ---

func TestAllocator_LazyGroups(t *testing.T) {
	a := newTiny(t)
	if a.Len() != 0 {
		t.Errorf("expected no groups before first allocation, got %d", a.Len())
	}
	if a.Group(0) != nil {
		t.Error("expected nil group")
	}
}

func TestAllocator_Basic(t *testing.T) {
	a := newTiny(t)

	first, err := a.Allocate(5)
	if err != nil {
		t.Fatal(err)
	}
	if first.Group != 0 || first.Offset != 0 || first.GridX != 0 || first.GridY != 0 {
		t.Errorf("first allocation = %+v", first)
	}

	second, err := a.Allocate(5)
	if err != nil {
		t.Fatal(err)
	}
	if second.Offset != 5 || second.GridX != 2 || second.GridY != 0 {
		t.Errorf("second allocation = %+v", second)
	}

	g := a.Group(0)
	if g.CurveCursor() != 10 {
		t.Errorf("curve cursor = %d, want 10", g.CurveCursor())
	}
	if x, y := g.GridCursor(); x != 0 || y != 2 {
		t.Errorf("grid cursor = (%d,%d), want (0,2) after wrap", x, y)
	}
	if !g.Dirty() {
		t.Error("group should be dirty after allocation")
	}
	if len(g.CurveSpan(second)) != 5*Channels {
		t.Errorf("curve span = %d bytes", len(g.CurveSpan(second)))
	}
	if loc := second.Locator(); loc.Offset != 5 || loc.Group != 0 || !loc.Valid() {
		t.Errorf("locator = %+v", loc)
	}
}

func TestAllocator_CurveSpill(t *testing.T) {
	a := newTiny(t)
	for i := 0; i < 3; i++ {
		if _, err := a.Allocate(5); err != nil {
			t.Fatal(err)
		}
	}

	// 15 of 16 texels used; the grid still has a free slot.
	alloc, err := a.Allocate(5)
	if err != nil {
		t.Fatal(err)
	}
	if alloc.Group != 1 || alloc.Offset != 0 {
		t.Errorf("expected spill to group 1 at 0, got %+v", alloc)
	}
	g0 := a.Group(0)
	if !g0.Full() || !g0.Dirty() {
		t.Errorf("group 0 full=%v dirty=%v, want both", g0.Full(), g0.Dirty())
	}
	if g0.CurveCursor() != 15 {
		t.Errorf("spill moved group 0 cursor to %d", g0.CurveCursor())
	}
}

func TestAllocator_GridSpill(t *testing.T) {
	a := newTiny(t)
	for i := 0; i < 4; i++ {
		alloc, err := a.Allocate(2)
		if err != nil {
			t.Fatal(err)
		}
		if alloc.Group != 0 {
			t.Fatalf("allocation %d landed in group %d", i, alloc.Group)
		}
	}
	if !a.Group(0).Full() {
		t.Fatal("group 0 should be full once its grid is exhausted")
	}

	alloc, err := a.Allocate(2)
	if err != nil {
		t.Fatal(err)
	}
	if alloc.Group != 1 || alloc.GridX != 0 || alloc.GridY != 0 {
		t.Errorf("expected fresh group, got %+v", alloc)
	}
}

func TestAllocator_TooLarge(t *testing.T) {
	a := newTiny(t)

	_, err := a.Allocate(17)
	if !errors.Is(err, ErrGlyphTooLarge) {
		t.Fatalf("expected ErrGlyphTooLarge, got %v", err)
	}
	if a.Len() != 0 {
		t.Errorf("rejected glyph created %d groups", a.Len())
	}

	alloc, err := a.Allocate(2)
	if err != nil {
		t.Fatal(err)
	}
	if alloc.Group != 0 || alloc.Offset != 0 {
		t.Errorf("allocation after rejection = %+v", alloc)
	}

	// A request exactly the size of a group fits in a fresh one.
	alloc, err = a.Allocate(16)
	if err != nil {
		t.Fatal(err)
	}
	if alloc.Group != 1 {
		t.Errorf("full-size glyph landed in group %d", alloc.Group)
	}

	if _, err := a.Allocate(0); err == nil {
		t.Error("expected error for zero texels")
	}
}

func TestAllocator_MonotonicNoOverlap(t *testing.T) {
	cfg := Config{AtlasSize: 16, GridAtlasSize: 10, GridCellSize: 3, Channels: 4}
	a, err := NewAllocator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))

	type cell struct{ group, x, y int }
	type span struct{ start, end int }
	cells := make(map[cell]bool)
	spans := make(map[int][]span)
	lastOffset := make(map[int]int)
	lastCell := make(map[int]int)

	for i := 0; i < 500; i++ {
		texels := 2 + 3*rng.Intn(20)
		alloc, err := a.Allocate(texels)
		if err != nil {
			t.Fatalf("allocation %d: %v", i, err)
		}

		if prev, ok := lastOffset[alloc.Group]; ok && int(alloc.Offset) < prev {
			t.Fatalf("curve offset decreased in group %d: %d < %d", alloc.Group, alloc.Offset, prev)
		}
		lastOffset[alloc.Group] = int(alloc.Offset)

		linear := alloc.GridY*cfg.GridAtlasSize + alloc.GridX
		if prev, ok := lastCell[alloc.Group]; ok && linear <= prev {
			t.Fatalf("grid cursor did not advance in group %d", alloc.Group)
		}
		lastCell[alloc.Group] = linear

		if alloc.GridX+cfg.GridCellSize > cfg.GridAtlasSize || alloc.GridY+cfg.GridCellSize > cfg.GridAtlasSize {
			t.Fatalf("grid slot %+v out of bounds", alloc)
		}
		c := cell{alloc.Group, alloc.GridX, alloc.GridY}
		if cells[c] {
			t.Fatalf("grid slot %+v reused", c)
		}
		cells[c] = true

		s := span{int(alloc.Offset), int(alloc.Offset) + texels}
		if s.end > cfg.Capacity() {
			t.Fatalf("curve span %+v exceeds capacity", s)
		}
		for _, o := range spans[alloc.Group] {
			if s.start < o.end && o.start < s.end {
				t.Fatalf("curve span %+v overlaps %+v in group %d", s, o, alloc.Group)
			}
		}
		spans[alloc.Group] = append(spans[alloc.Group], s)
	}

	for i := 0; i < a.Len()-1; i++ {
		if !a.Group(i).Full() {
			t.Errorf("group %d is not the last group but is not full", i)
		}
	}
	st := a.Stats()
	if st.Glyphs != 500 || st.Groups != a.Len() {
		t.Errorf("stats = %+v", st)
	}
}

// --- Sync Tests ---

func TestAllocator_Sync(t *testing.T) {
	a := newTiny(t)
	for i := 0; i < 5; i++ {
		if _, err := a.Allocate(2); err != nil {
			t.Fatal(err)
		}
	}

	var got []int
	up := UploaderFunc(func(u Upload) error {
		got = append(got, u.Index)
		if len(u.Curves) != 4*4*Channels || len(u.Grid) != 4*4*Channels {
			t.Errorf("unexpected upload sizes %d, %d", len(u.Curves), len(u.Grid))
		}
		return nil
	})

	n, err := a.Sync(up)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("uploaded %d groups %v, want [0 1]", n, got)
	}
	if len(a.DirtyGroups()) != 0 {
		t.Errorf("groups still dirty: %v", a.DirtyGroups())
	}

	got = nil
	if n, _ := a.Sync(up); n != 0 || got != nil {
		t.Errorf("clean sync uploaded %v", got)
	}

	if _, err := a.Allocate(2); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Sync(up); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected only group 1 re-uploaded, got %v", got)
	}
}

func TestAllocator_SyncFailure(t *testing.T) {
	a := newTiny(t)
	if _, err := a.Allocate(2); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("device lost")

	_, err := a.Sync(UploaderFunc(func(Upload) error { return boom }))
	var ue *UploadError
	if !errors.As(err, &ue) || ue.Group != 0 {
		t.Fatalf("expected UploadError for group 0, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Error("UploadError does not unwrap to the cause")
	}
	if !a.Group(0).Dirty() {
		t.Error("failed upload cleared the dirty flag")
	}
}
