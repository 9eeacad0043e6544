package blocks

import "errors"

// ErrOutOfRange is returned when a coordinate or slot index falls outside
// the addressable area. Callers are expected to bounds-check first.
var ErrOutOfRange = errors.New("out of range")

// ErrInvalidShape is returned by NewShape for malformed masks.
var ErrInvalidShape = errors.New("invalid shape")
