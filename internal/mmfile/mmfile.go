// Package mmfile provides platform-specific helpers for mapping cartridge images.
package mmfile

// MaxSize caps the images Map accepts. Cartridge dumps are at most a few
// megabytes; anything larger is not a ROM image.
const MaxSize = 64 << 20
