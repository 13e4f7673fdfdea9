package vtext

import "errors"

// ErrManagerClosed is returned by operations on a closed Manager, and by
// Render on labels whose manager was closed.
var ErrManagerClosed = errors.New("vtext: manager closed")
