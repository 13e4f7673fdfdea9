// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vtext/atlas"
)

// halGroup holds the GPU resources of one atlas group.
type halGroup struct {
	curves    hal.Buffer
	grid      hal.Texture
	view      hal.TextureView
	atlasSize int
	gridSize  int
}

// HALDevice is a Device backed by a wgpu HAL device and queue.
//
// The device and queue are borrowed: Destroy releases the resources created
// here but never the hal.Device itself. HALDevice is not safe for
// concurrent use.
type HALDevice struct {
	device hal.Device
	queue  hal.Queue

	groups  []*halGroup
	buffers []*HALVertexBuffer
	shader  hal.ShaderModule
	closed  bool
}

// NewHALDevice wraps device and queue.
func NewHALDevice(device hal.Device, queue hal.Queue) (*HALDevice, error) {
	if device == nil || queue == nil {
		return nil, ErrNoHALDevice
	}
	return &HALDevice{device: device, queue: queue}, nil
}

// HalDevice returns the wrapped device.
func (d *HALDevice) HalDevice() hal.Device { return d.device }

// HalQueue returns the wrapped queue.
func (d *HALDevice) HalQueue() hal.Queue { return d.queue }

// Groups returns the number of groups with GPU resources.
func (d *HALDevice) Groups() int { return len(d.groups) }

// CurveBuffer returns the curve storage buffer of group i, or nil.
func (d *HALDevice) CurveBuffer(i int) hal.Buffer {
	if i < 0 || i >= len(d.groups) || d.groups[i] == nil {
		return nil
	}
	return d.groups[i].curves
}

// GridView returns the grid texture view of group i, or nil.
func (d *HALDevice) GridView(i int) hal.TextureView {
	if i < 0 || i >= len(d.groups) || d.groups[i] == nil {
		return nil
	}
	return d.groups[i].view
}

// UploadAtlas writes the used part of the curve buffer and the whole grid
// image of one group, creating the group's resources on first use.
func (d *HALDevice) UploadAtlas(u atlas.Upload) error {
	if d.closed {
		return ErrDeviceClosed
	}
	g, err := d.ensureGroup(u)
	if err != nil {
		return err
	}

	used := u.UsedTexels * atlas.Channels
	if used > len(u.Curves) {
		used = len(u.Curves)
	}
	if used > 0 {
		if err := d.queue.WriteBuffer(g.curves, 0, u.Curves[:used]); err != nil {
			return fmt.Errorf("gpu: write curve buffer %d: %w", u.Index, err)
		}
	}

	size := uint32(g.gridSize)
	err = d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  g.grid,
			MipLevel: 0,
			Origin:   hal.Origin3D{},
			Aspect:   gputypes.TextureAspectAll,
		},
		u.Grid,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  size * atlas.Channels,
			RowsPerImage: size,
		},
		&hal.Extent3D{Width: size, Height: size, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("gpu: write grid texture %d: %w", u.Index, err)
	}
	slogger().Debug("gpu: atlas uploaded", slog.Int("group", u.Index), slog.Int("bytes", used+len(u.Grid)))
	return nil
}

func (d *HALDevice) ensureGroup(u atlas.Upload) (*halGroup, error) {
	for len(d.groups) <= u.Index {
		d.groups = append(d.groups, nil)
	}
	if g := d.groups[u.Index]; g != nil {
		return g, nil
	}

	g := &halGroup{atlasSize: u.AtlasSize, gridSize: u.GridSize}
	curves, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: fmt.Sprintf("vtext_curves_%d", u.Index),
		Size:  uint64(len(u.Curves)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create curve buffer %d: %w", u.Index, err)
	}
	g.curves = curves

	grid, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: fmt.Sprintf("vtext_grid_%d", u.Index),
		Size: hal.Extent3D{
			Width:              uint32(u.GridSize),
			Height:             uint32(u.GridSize),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		d.device.DestroyBuffer(curves)
		return nil, fmt.Errorf("gpu: create grid texture %d: %w", u.Index, err)
	}
	g.grid = grid

	view, err := d.device.CreateTextureView(grid, &hal.TextureViewDescriptor{
		Label:         fmt.Sprintf("vtext_grid_view_%d", u.Index),
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(grid)
		d.device.DestroyBuffer(curves)
		return nil, fmt.Errorf("gpu: create grid view %d: %w", u.Index, err)
	}
	g.view = view

	d.groups[u.Index] = g
	slogger().Info("gpu: group resources created", slog.Int("group", u.Index),
		slog.Int("atlas_size", u.AtlasSize), slog.Int("grid_size", u.GridSize))
	return g, nil
}

// NewVertexBuffer creates a vertex buffer usable as a copy destination.
func (d *HALDevice) NewVertexBuffer(label string, size int) (VertexBuffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	b := &HALVertexBuffer{dev: d, label: label}
	if err := b.Resize(size); err != nil {
		return nil, err
	}
	d.buffers = append(d.buffers, b)
	return b, nil
}

// ShaderModule returns the glyph shader module, compiling it on first use.
func (d *HALDevice) ShaderModule() (hal.ShaderModule, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if d.shader != nil {
		return d.shader, nil
	}
	spirv, err := compileShaderToSPIRV(glyphShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile glyph shader: %w", err)
	}
	shader, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "vtext_glyph_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("create glyph shader module: %w", err)
	}
	d.shader = shader
	return shader, nil
}

// Destroy releases every group, vertex buffer and the shader module.
// Safe to call multiple times.
func (d *HALDevice) Destroy() {
	if d.closed {
		return
	}
	for _, b := range d.buffers {
		b.Destroy()
	}
	d.buffers = nil
	for _, g := range d.groups {
		if g == nil {
			continue
		}
		d.device.DestroyTextureView(g.view)
		d.device.DestroyTexture(g.grid)
		d.device.DestroyBuffer(g.curves)
	}
	d.groups = nil
	if d.shader != nil {
		d.device.DestroyShaderModule(d.shader)
		d.shader = nil
	}
	d.closed = true
}

// HALVertexBuffer is a VertexBuffer on a HALDevice.
type HALVertexBuffer struct {
	dev   *HALDevice
	label string
	buf   hal.Buffer
	size  int
}

// Buffer returns the underlying hal.Buffer, or nil after Destroy.
func (b *HALVertexBuffer) Buffer() hal.Buffer { return b.buf }

// Size returns the buffer size in bytes.
func (b *HALVertexBuffer) Size() int { return b.size }

// Resize replaces the buffer with a new one of size bytes. WebGPU requires
// buffer sizes to be a multiple of 4; size is rounded up accordingly.
func (b *HALVertexBuffer) Resize(size int) error {
	if b.dev.closed {
		return ErrDeviceClosed
	}
	if size < 0 {
		return fmt.Errorf("gpu: negative vertex buffer size %d", size)
	}
	size = (size + 3) &^ 3
	if size == 0 {
		size = VertexStride
	}
	buf, err := b.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: b.label,
		Size:  uint64(size),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create vertex buffer %q: %w", b.label, err)
	}
	if b.buf != nil {
		b.dev.device.DestroyBuffer(b.buf)
	}
	b.buf = buf
	b.size = size
	return nil
}

// Write copies data into the buffer at offset.
func (b *HALVertexBuffer) Write(offset int, data []byte) error {
	if b.buf == nil || b.dev.closed {
		return ErrDeviceClosed
	}
	if offset < 0 || offset+len(data) > b.size {
		return fmt.Errorf("%w: %d+%d > %d", ErrOutOfRange, offset, len(data), b.size)
	}
	if len(data) == 0 {
		return nil
	}
	return b.dev.queue.WriteBuffer(b.buf, uint64(offset), data)
}

// Destroy releases the buffer.
func (b *HALVertexBuffer) Destroy() {
	if b.buf == nil {
		return
	}
	if !b.dev.closed {
		b.dev.device.DestroyBuffer(b.buf)
	}
	b.buf = nil
	b.size = 0
}
