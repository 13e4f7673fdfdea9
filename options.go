package vtext

import (
	"github.com/gogpu/vtext/atlas"
	"github.com/gogpu/vtext/bezier"
	"github.com/gogpu/vtext/glyph"
	"github.com/gogpu/vtext/gpu"
)

// Option configures a Manager during creation.
//
// Example:
//
//	// Headless manager with a CPU memory device and Go Regular
//	m, err := vtext.NewManager()
//
//	// Shared GPU device from the host application
//	dev, err := gpu.FromProvider(provider)
//	m, err := vtext.NewManager(vtext.WithDevice(dev))
type Option func(*managerOptions)

type managerOptions struct {
	device    gpu.Device
	font      glyph.Font
	atlas     atlas.Config
	cacheOpts []glyph.CacheOption
}

func defaultManagerOptions() managerOptions {
	return managerOptions{
		atlas: atlas.DefaultConfig(),
	}
}

// WithDevice sets the device that receives atlas and vertex uploads.
// Without it the manager uploads into a gpu.MemoryDevice.
func WithDevice(d gpu.Device) Option {
	return func(o *managerOptions) {
		o.device = d
	}
}

// WithDefaultFont sets the font used when Insert is called with a nil
// font, and for the caret. The default is Go Regular.
func WithDefaultFont(f glyph.Font) Option {
	return func(o *managerOptions) {
		o.font = f
	}
}

// WithAtlasConfig overrides the atlas dimensions.
func WithAtlasConfig(cfg atlas.Config) Option {
	return func(o *managerOptions) {
		o.atlas = cfg
	}
}

// WithWarningHandler registers a callback for glyphs too large for an
// atlas group. Such glyphs render blank.
func WithWarningHandler(fn func(glyph.Warning)) Option {
	return func(o *managerOptions) {
		o.cacheOpts = append(o.cacheOpts, glyph.WithWarningHandler(fn))
	}
}

// WithGridBuilder replaces the spatial grid builder.
func WithGridBuilder(b bezier.Builder) Option {
	return func(o *managerOptions) {
		o.cacheOpts = append(o.cacheOpts, glyph.WithGridBuilder(b))
	}
}

// LabelOption configures a Label during creation.
type LabelOption func(*labelOptions)

type labelOptions struct {
	name     string
	capacity int
}

// WithLabelName sets the label name, used as the vertex buffer label.
func WithLabelName(name string) LabelOption {
	return func(o *labelOptions) {
		o.name = name
	}
}

// WithLabelCapacity reserves room for n glyphs, on the CPU and on the GPU,
// so that edits up to that size never reallocate the vertex buffer.
func WithLabelCapacity(n int) LabelOption {
	return func(o *labelOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}
