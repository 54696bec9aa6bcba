// Package varblock encodes and decodes pointer-indexed, variable-length record
// groups such as the cartridge's event tiles.
//
// # Wire Format
//
// A group is a stream of trigger-prefixed runs closed by a zero byte:
//
//	trigger count (x y payload)*count  trigger count ...  0x00
//
// Trigger 0 is the terminator and never a live key. Each group is located by
// a GroupIndex, a byte offset relative to the layout's pointer base. Owners
// (maps, in the cartridge) each store one GroupIndex; several owners may store
// the same one and so share a group.
//
// # Sharing
//
// Decode builds an Arena. Every distinct GroupIndex becomes exactly one Group
// in the arena and every owner that stored that index holds a handle to it,
// so an edit through one owner is seen by all of them. Owners with different
// indices never share, even when their content is equal.
//
// Encode walks the owners in ascending ID order, writes each distinct group
// once at the next free position, and rewrites the index of every owner
// holding it. Deduplication follows identity only: two equal but distinct
// groups are written twice.
//
// # Budgets
//
// The region's length is the byte budget. Exceeding it is reported as an
// AddressOverflow event and the data is still written; the caller decides
// whether to shrink content or abandon the build.
package varblock
