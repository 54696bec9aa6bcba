package table

import "errors"

var (
	// ErrShape indicates a layout or record whose shape does not match the table.
	ErrShape = errors.New("table: shape mismatch")
	// ErrReserved indicates a live record that encodes as an empty slot.
	ErrReserved = errors.New("table: record uses the empty-slot marker")
)
