// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu moves glyph atlas groups and label vertices into GPU memory.
//
// A Device receives atlas uploads (it satisfies atlas.Uploader) and creates
// vertex buffers. Two implementations are provided:
//
//   - HALDevice writes through a gogpu/wgpu hal.Device and hal.Queue. Curve
//     data lives in a read-only storage buffer, the cell grid in an RGBA8
//     texture. Both are created per group on first upload.
//   - MemoryDevice keeps a CPU copy of everything written to it, which is
//     what headless tools and tests use.
//
// The glyph shader (shaders/glyph.wgsl) decodes the curve header and the
// grid cell under each fragment, then counts crossings between the fragment
// and the cell midpoint to derive coverage. Pipeline wires it into a render
// pipeline that draws a label's vertex buffer one atlas group at a time.
package gpu
