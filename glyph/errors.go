package glyph

import "errors"

// Sentinel errors for the glyph package.
var (
	// ErrNoGlyph is returned when a font has no outline for a codepoint.
	ErrNoGlyph = errors.New("glyph: no glyph for codepoint")

	// ErrUnknownParser is returned when a font parser name is not registered.
	ErrUnknownParser = errors.New("glyph: unknown font parser")

	// ErrNilFont is returned when a nil font is resolved.
	ErrNilFont = errors.New("glyph: nil font")
)

// FontError represents a failure to load a font.
type FontError struct {
	Parser string
	Err    error
}

func (e *FontError) Error() string {
	return "glyph: load font with " + e.Parser + ": " + e.Err.Error()
}

func (e *FontError) Unwrap() error { return e.Err }
