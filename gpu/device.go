// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/vtext/atlas"
)

// VertexStride is the size of one glyph vertex in bytes: a float32x2
// position, a uint32 vertex code and an unorm8x4 color.
const VertexStride = 16

// UniformSize is the size of the per-frame uniform block: a column-major
// mat4x4 followed by a vec4 holding the atlas dimensions.
const UniformSize = 80

// Device owns the GPU-side copies of atlas groups and vertex data.
type Device interface {
	atlas.Uploader

	// NewVertexBuffer creates a vertex buffer of size bytes.
	NewVertexBuffer(label string, size int) (VertexBuffer, error)

	// Destroy releases every resource created through the device.
	Destroy()
}

// VertexBuffer is a resizable GPU vertex buffer.
type VertexBuffer interface {
	// Size returns the buffer size in bytes.
	Size() int

	// Resize reallocates the buffer to size bytes. Contents are not
	// preserved.
	Resize(size int) error

	// Write copies data into the buffer at offset bytes.
	Write(offset int, data []byte) error

	// Destroy releases the buffer. Further writes fail with
	// ErrDeviceClosed.
	Destroy()
}

// Range is a contiguous run of vertices.
type Range struct {
	First int
	Count int
}

// DrawCall is the set of vertex ranges that sample one atlas group.
type DrawCall struct {
	Group  int
	Ranges []Range
}

// Vertices returns the total vertex count of d.
func (d DrawCall) Vertices() int {
	n := 0
	for _, r := range d.Ranges {
		n += r.Count
	}
	return n
}

// VertexLayout describes the glyph vertex for pipeline creation.
func VertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
			{Format: gputypes.VertexFormatUint32, Offset: 8, ShaderLocation: 1},    // code
			{Format: gputypes.VertexFormatUnorm8x4, Offset: 12, ShaderLocation: 2}, // color
		},
	}
}
