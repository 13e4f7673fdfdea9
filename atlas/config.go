package atlas

const (
	// AtlasSize is the dimension of the square curve buffer, in texels.
	AtlasSize = 256

	// GridAtlasSize is the dimension of the square grid image, in cells.
	GridAtlasSize = 256

	// GridCellSize is the width and height of one glyph's grid, in cells.
	GridCellSize = 20

	// Channels is the number of 8-bit channels per texel. The curve layout
	// and the grid encoding both require 4.
	Channels = 4

	// maxLocator is the largest texel offset that fits the 30 bits left
	// beside the corner bits of a vertex code.
	maxLocator = 1<<30 - 1
)

// Config holds atlas dimensions. Production code uses [DefaultConfig];
// smaller values exist so exhaustion can be exercised cheaply.
type Config struct {
	// AtlasSize is the curve buffer dimension. Capacity is AtlasSize² texels.
	AtlasSize int

	// GridAtlasSize is the grid image dimension in cells.
	GridAtlasSize int

	// GridCellSize is the per-glyph grid dimension in cells.
	GridCellSize int

	// Channels must be 4.
	Channels int
}

// DefaultConfig returns the build-time atlas dimensions.
func DefaultConfig() Config {
	return Config{
		AtlasSize:     AtlasSize,
		GridAtlasSize: GridAtlasSize,
		GridCellSize:  GridCellSize,
		Channels:      Channels,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Channels != Channels {
		return &ConfigError{Field: "Channels", Reason: "must be 4"}
	}
	if c.AtlasSize < 1 {
		return &ConfigError{Field: "AtlasSize", Reason: "must be positive"}
	}
	if c.AtlasSize*c.AtlasSize > maxLocator {
		return &ConfigError{Field: "AtlasSize", Reason: "texel offsets must fit in 30 bits"}
	}
	if c.GridAtlasSize < 1 || c.GridAtlasSize > 65535 {
		return &ConfigError{Field: "GridAtlasSize", Reason: "must be in [1, 65535]"}
	}
	if c.GridCellSize < 1 {
		return &ConfigError{Field: "GridCellSize", Reason: "must be positive"}
	}
	if c.GridCellSize > c.GridAtlasSize {
		return &ConfigError{Field: "GridCellSize", Reason: "must be at most GridAtlasSize"}
	}
	return nil
}

// Capacity returns the number of curve texels in one group.
func (c *Config) Capacity() int {
	return c.AtlasSize * c.AtlasSize
}
