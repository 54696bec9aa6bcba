package rom

import "fmt"

// HeaderBias is the size of the iNES header that precedes PRG data in a
// cartridge file. File offsets minus HeaderBias give buffer offsets.
const HeaderBias = 0x10

// AddressRange is the half-open buffer span [Start, End).
type AddressRange struct {
	Start int
	End   int
}

// NewRange builds a validated range.
func NewRange(start, end int) (AddressRange, error) {
	r := AddressRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return AddressRange{}, err
	}
	return r, nil
}

// Validate reports ErrInvalidRange when start > end or start < 0.
func (r AddressRange) Validate() error {
	if r.Start < 0 || r.Start > r.End {
		return fmt.Errorf("%w: [0x%X, 0x%X)", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// Len returns End - Start.
func (r AddressRange) Len() int { return r.End - r.Start }

// Contains reports whether off lies inside the range.
func (r AddressRange) Contains(off int) bool { return off >= r.Start && off < r.End }

func (r AddressRange) String() string {
	return fmt.Sprintf("[0x%05X, 0x%05X)", r.Start, r.End)
}

// FileOffset converts a cartridge file offset into a buffer offset.
//
// This is the only place the header bias is applied; everything below the
// caller boundary works on buffer offsets.
func FileOffset(off int) int { return off - HeaderBias }

// FileRange converts a file-offset span into a buffer range.
func FileRange(start, end int) (AddressRange, error) {
	return NewRange(FileOffset(start), FileOffset(end))
}
