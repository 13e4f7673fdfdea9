package atlas

import (
	"errors"
	"fmt"
)

// Sentinel errors for the atlas package.
var (
	// ErrGlyphTooLarge is returned when a glyph needs more curve texels than
	// a whole group holds. It is terminal for that glyph.
	ErrGlyphTooLarge = errors.New("atlas: glyph exceeds group capacity")

	// ErrNoGroup is returned when a group index is out of range.
	ErrNoGroup = errors.New("atlas: no such group")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}

// UploadError reports a failed group upload.
type UploadError struct {
	Group int
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("atlas: upload group %d: %v", e.Group, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
