package varblock

import "errors"

var (
	// ErrMalformedStream indicates a group whose bytes run past the region
	// before reaching the terminator.
	ErrMalformedStream = errors.New("varblock: malformed group stream")
	// ErrUnknownOwner indicates an arena operation on an owner it does not hold.
	ErrUnknownOwner = errors.New("varblock: unknown owner")
	// ErrUnknownGroup indicates a group handle not issued by the arena.
	ErrUnknownGroup = errors.New("varblock: unknown group")
	// ErrIndexRange indicates a group position that cannot be stored in a GroupIndex.
	ErrIndexRange = errors.New("varblock: group index out of range")
	// ErrTooManyRecords indicates a trigger run longer than its count byte can express.
	ErrTooManyRecords = errors.New("varblock: too many records for one trigger")
	// ErrLayout indicates an inconsistent layout.
	ErrLayout = errors.New("varblock: invalid layout")
)
