// Package vtext renders scalable text from vector glyph outlines stored on
// the GPU.
//
// # Overview
//
// Glyph outlines are reduced to quadratic bezier curves and packed into
// shared atlas groups: a curve buffer read by the shader as an array of
// texels, plus a grid image that tells the shader which curves touch each
// part of the glyph. Text drawn this way stays sharp under any scale,
// rotation or translation.
//
// # Quick Start
//
//	m, err := vtext.NewManager()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close()
//
//	label, err := m.NewLabel()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	label.InsertString(0, "Hello, world", color.RGBA{0, 0, 0, 255}, nil)
//
//	frame, err := label.Render(t, vtext.Scale(0.01, 0.01))
//
// # Architecture
//
// The module is organized into:
//   - bezier: curve types, outline reduction, the curve encoder and grids
//   - atlas: group allocation and dirty tracking
//   - glyph: font backends and the glyph cache
//   - gpu: devices, vertex buffers, the glyph shader and pipeline
//   - vtext: Manager, Label (the incremental text buffer) and Frame
//
// A Manager owns the atlas, the cache and the device. Labels borrow the
// manager and keep their quads up to date on every Insert and Remove,
// re-uploading only the vertices that moved.
//
// # Coordinates
//
// Layout happens in font design units with Y up. The baseline of the first
// line is y = 0 and each newline moves down by the font's line height.
// Pass a Matrix to Render to map font units to clip space.
package vtext
