package atlas

import "log/slog"

// Upload is the CPU-side content of one group handed to an Uploader.
type Upload struct {
	// Index is the group index.
	Index int

	// Curves is the curve buffer, AtlasSize² texels of 4 bytes.
	Curves []byte

	// AtlasSize is the dimension of the curve buffer in texels.
	AtlasSize int

	// Grid is the RGBA8 grid image, GridSize² texels.
	Grid []byte

	// GridSize is the dimension of the grid image.
	GridSize int

	// UsedTexels is the number of curve texels holding data.
	UsedTexels int
}

// Uploader copies group contents into GPU-resident storage.
type Uploader interface {
	UploadAtlas(Upload) error
}

// UploaderFunc adapts a function to the Uploader interface.
type UploaderFunc func(Upload) error

// UploadAtlas calls f.
func (f UploaderFunc) UploadAtlas(u Upload) error { return f(u) }

// Sync uploads every dirty group in index order and clears its dirty flag.
// It stops at the first failure, leaving that group and the ones after it
// dirty, and returns the number of groups uploaded.
//
// Call Sync once per frame before drawing anything that reads atlas data.
func (a *Allocator) Sync(u Uploader) (int, error) {
	uploaded := 0
	for _, g := range a.groups {
		if !g.dirty {
			continue
		}
		err := u.UploadAtlas(Upload{
			Index:      g.index,
			Curves:     g.curves,
			AtlasSize:  g.atlasSize,
			Grid:       g.grid,
			GridSize:   g.gridSize,
			UsedTexels: g.curveCursor,
		})
		if err != nil {
			slogger().Warn("atlas: upload failed", slog.Int("group", g.index), slog.Any("error", err))
			return uploaded, &UploadError{Group: g.index, Err: err}
		}
		g.dirty = false
		uploaded++
	}
	if uploaded > 0 {
		slogger().Debug("atlas: synced", slog.Int("groups", uploaded))
	}
	return uploaded, nil
}
