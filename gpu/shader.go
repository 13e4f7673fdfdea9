// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

// glyphShaderSource is the WGSL for glyph quads. Entry points are vs_main
// and fs_main.
//
//go:embed shaders/glyph.wgsl
var glyphShaderSource string

// GlyphShaderSource returns the WGSL source of the glyph shader.
func GlyphShaderSource() string { return glyphShaderSource }

// compileShaderToSPIRV compiles WGSL to little-endian SPIR-V words.
func compileShaderToSPIRV(source string) ([]uint32, error) {
	if source == "" {
		return nil, fmt.Errorf("shader source is empty")
	}
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, err
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("spir-v output is %d bytes, not a whole number of words", len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
