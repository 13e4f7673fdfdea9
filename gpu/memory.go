// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/vtext/atlas"
)

// MemoryDevice is a Device that keeps everything in host memory.
//
// It mirrors the contents of each uploaded group and every vertex buffer,
// and records the byte ranges written so callers can check how much data
// an edit actually moved. It is not safe for concurrent use.
type MemoryDevice struct {
	groups  []*MemoryGroup
	uploads []int
	buffers []*MemoryBuffer
	closed  bool

	// UploadErr, when set, is called before each atlas upload. A non-nil
	// result fails the upload.
	UploadErr func(group int) error
}

// MemoryGroup is the host copy of one atlas group.
type MemoryGroup struct {
	Curves []byte
	Grid   []byte
}

// WriteRecord is one Write call on a MemoryBuffer.
type WriteRecord struct {
	Offset int
	Size   int
}

// NewMemoryDevice returns an empty MemoryDevice.
func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{}
}

// UploadAtlas copies the group contents.
func (d *MemoryDevice) UploadAtlas(u atlas.Upload) error {
	if d.closed {
		return ErrDeviceClosed
	}
	if d.UploadErr != nil {
		if err := d.UploadErr(u.Index); err != nil {
			return err
		}
	}
	for len(d.groups) <= u.Index {
		d.groups = append(d.groups, nil)
	}
	g := d.groups[u.Index]
	if g == nil {
		g = &MemoryGroup{}
		d.groups[u.Index] = g
	}
	g.Curves = append(g.Curves[:0], u.Curves...)
	g.Grid = append(g.Grid[:0], u.Grid...)
	d.uploads = append(d.uploads, u.Index)
	slogger().Debug("gpu: memory upload", slog.Int("group", u.Index), slog.Int("texels", u.UsedTexels))
	return nil
}

// Group returns the host copy of group i, or nil if it was never uploaded.
func (d *MemoryDevice) Group(i int) *MemoryGroup {
	if i < 0 || i >= len(d.groups) {
		return nil
	}
	return d.groups[i]
}

// Uploads returns the group indices uploaded so far, in order.
func (d *MemoryDevice) Uploads() []int {
	return append([]int(nil), d.uploads...)
}

// NewVertexBuffer creates a MemoryBuffer.
func (d *MemoryDevice) NewVertexBuffer(label string, size int) (VertexBuffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if size < 0 {
		return nil, fmt.Errorf("gpu: negative vertex buffer size %d", size)
	}
	b := &MemoryBuffer{label: label, data: make([]byte, size)}
	d.buffers = append(d.buffers, b)
	return b, nil
}

// Buffer returns the most recently created buffer with the given label,
// or nil.
func (d *MemoryDevice) Buffer(label string) *MemoryBuffer {
	for i := len(d.buffers) - 1; i >= 0; i-- {
		if d.buffers[i].label == label {
			return d.buffers[i]
		}
	}
	return nil
}

// Destroy marks the device and all of its buffers closed.
func (d *MemoryDevice) Destroy() {
	for _, b := range d.buffers {
		b.Destroy()
	}
	d.closed = true
}

// MemoryBuffer is a VertexBuffer backed by a byte slice.
type MemoryBuffer struct {
	label     string
	data      []byte
	writes    []WriteRecord
	resizes   int
	destroyed bool
	failNext  error
}

// Label returns the label the buffer was created with.
func (b *MemoryBuffer) Label() string { return b.label }

// Size returns the buffer size in bytes.
func (b *MemoryBuffer) Size() int { return len(b.data) }

// Bytes returns the buffer contents. The slice aliases the buffer.
func (b *MemoryBuffer) Bytes() []byte { return b.data }

// Resizes returns how many times Resize was called.
func (b *MemoryBuffer) Resizes() int { return b.resizes }

// Writes returns the writes recorded since the last ResetWrites.
func (b *MemoryBuffer) Writes() []WriteRecord {
	return append([]WriteRecord(nil), b.writes...)
}

// ResetWrites clears the write log.
func (b *MemoryBuffer) ResetWrites() { b.writes = b.writes[:0] }

// FailNext makes the next Write return err without touching the buffer.
func (b *MemoryBuffer) FailNext(err error) { b.failNext = err }

// Destroyed reports whether Destroy was called.
func (b *MemoryBuffer) Destroyed() bool { return b.destroyed }

// Resize reallocates the buffer.
func (b *MemoryBuffer) Resize(size int) error {
	if b.destroyed {
		return ErrDeviceClosed
	}
	if size < 0 {
		return fmt.Errorf("gpu: negative vertex buffer size %d", size)
	}
	b.data = make([]byte, size)
	b.resizes++
	return nil
}

// Write copies data into the buffer.
func (b *MemoryBuffer) Write(offset int, data []byte) error {
	if b.destroyed {
		return ErrDeviceClosed
	}
	if err := b.failNext; err != nil {
		b.failNext = nil
		return err
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		return fmt.Errorf("%w: %d+%d > %d", ErrOutOfRange, offset, len(data), len(b.data))
	}
	copy(b.data[offset:], data)
	b.writes = append(b.writes, WriteRecord{Offset: offset, Size: len(data)})
	return nil
}

// Destroy releases the buffer.
func (b *MemoryBuffer) Destroy() {
	b.destroyed = true
	b.data = nil
}
