// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "errors"

var (
	// ErrDeviceClosed is returned by operations on a destroyed device or
	// on a buffer that was destroyed.
	ErrDeviceClosed = errors.New("gpu: device closed")

	// ErrNoHALDevice is returned when a provider does not expose a
	// hal.Device and hal.Queue.
	ErrNoHALDevice = errors.New("gpu: provider does not expose a HAL device")

	// ErrOutOfRange is returned by VertexBuffer.Write when the data does
	// not fit in the buffer.
	ErrOutOfRange = errors.New("gpu: write out of buffer range")
)
