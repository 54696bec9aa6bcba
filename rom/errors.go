package rom

import "errors"

var (
	// ErrOutOfBounds indicates a read or write reaching outside the image or
	// outside the declared address range.
	ErrOutOfBounds = errors.New("rom: out of bounds")
	// ErrInvalidRange indicates an address range whose start lies after its end
	// or below zero.
	ErrInvalidRange = errors.New("rom: invalid address range")
	// ErrNotCartridge indicates a file without the iNES header signature.
	ErrNotCartridge = errors.New("rom: missing iNES header")
)
