package glyph

import (
	"sync"

	"golang.org/x/image/font/gofont/goregular"
)

var (
	defaultOnce sync.Once
	defaultFont Font
	defaultErr  error
)

// DefaultFont returns the Go Regular font, parsed once per process.
func DefaultFont() (Font, error) {
	defaultOnce.Do(func() {
		defaultFont, defaultErr = ParseSFNT(goregular.TTF)
	})
	return defaultFont, defaultErr
}
