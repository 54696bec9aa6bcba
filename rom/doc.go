// Package rom provides byte-level access to the PRG data of an iNES cartridge.
//
// # Overview
//
// An Image holds the cartridge's PRG bytes with the 16-byte iNES header split
// off. Every offset handled by this package and by the codecs built on it
// (rom/table, rom/varblock) is a buffer offset. Cartridge file offsets are
// converted exactly once, at the caller boundary, with FileOffset or
// FileRange:
//
//	r, err := rom.FileRange(0x39C50, 0x39DBC)
//	// r.Start == 0x39C40
//
// # Access Patterns
//
// The image supports three access styles:
//
//   - Positioned single bytes: GetAt / PutAt
//   - A cursor: Seek, Get, GetN, Put
//   - Parallel columns: GetColumns / PutColumns read or write N arrays of L
//     bytes stored back to back at an offset, the layout used by the
//     cartridge's record tables
//
// All accesses are bounds checked and fail with ErrOutOfBounds.
//
// # Dirty Tracking
//
// Attach a DirtyTracker with Track to learn which spans were written. The
// rom/dirty package uses this to write only modified bytes back to a file.
//
// # Thread Safety
//
// An Image is not safe for concurrent use. Independent images may be
// processed concurrently.
package rom
