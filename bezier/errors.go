package bezier

import "errors"

// Sentinel errors for the bezier package.
var (
	// ErrShortBuffer is returned when a destination or source buffer is too
	// small for the curve or grid layout.
	ErrShortBuffer = errors.New("bezier: buffer too small for layout")

	// ErrInvalidGrid is returned for grids with non-positive dimensions.
	ErrInvalidGrid = errors.New("bezier: invalid grid dimensions")
)
