// Package buf holds overflow-safe offset arithmetic shared by the ROM codecs.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative ints, returning ok = false on
// overflow or when either operand is negative.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// CheckSpan validates that n bytes starting at off fit inside [lo, hi).
// It returns the exclusive end offset.
func CheckSpan(lo, hi, off, n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("negative length: %d", n)
	}
	if off < lo {
		return 0, fmt.Errorf("offset 0x%X below 0x%X", off, lo)
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", off, n)
	}
	if end > hi {
		return 0, fmt.Errorf("bounds: end=0x%X > limit=0x%X", end, hi)
	}
	return end, nil
}

// CheckColumns validates that columns parallel arrays of length bytes each,
// laid out back to back from off, fit inside [lo, hi). It returns the
// exclusive end offset of the last column.
//
//	end, err := buf.CheckColumns(r.Start, r.End, r.Start, 4, capacity)
//	if err != nil {
//	    return fmt.Errorf("table: %w", err)
//	}
func CheckColumns(lo, hi, off, columns, length int) (int, error) {
	if columns < 0 || length < 0 {
		return 0, fmt.Errorf("negative shape: columns=%d length=%d", columns, length)
	}
	total, ok := MulOverflowSafe(columns, length)
	if !ok {
		return 0, fmt.Errorf("overflow: columns=%d * length=%d", columns, length)
	}
	return CheckSpan(lo, hi, off, total)
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}
