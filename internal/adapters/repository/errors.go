package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound          = errors.New("key not found")
	ErrCorrupt           = errors.New("stored collection is corrupt")
	ErrUnsupportedDriver = errors.New("unsupported store driver")
)
