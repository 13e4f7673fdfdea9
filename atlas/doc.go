// Package atlas packs the curve data and spatial grids of many glyphs into
// shared GPU-resident storage.
//
// Storage is organized in groups. Each [Group] pairs a linear curve buffer
// of AtlasSize² texels with a GridAtlasSize² RGBA8 grid image split into
// GridCellSize² cells. Allocation is append-only: cursors only move
// forward, regions never overlap, and nothing is ever evicted. When the
// current group cannot fit a glyph it is marked full and a fresh group is
// appended.
//
// Groups are synchronized to the GPU on demand: every write marks its group
// dirty, and [Allocator.Sync] uploads dirty groups once per frame.
package atlas
