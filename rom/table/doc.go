// Package table encodes and decodes capacity-bounded tables of short fixed
// records stored as parallel byte columns.
//
// A table of capacity C with F fields occupies F*C bytes: C bytes of field 0,
// then C bytes of field 1, and so on. Slot i is the tuple of byte i from every
// column. Field 0 is the discriminator; by default a slot whose discriminator
// equals Sentinel (0xFF) is empty. Layout.Pad selects all-zero empty slots
// or tables with no empty state instead.
//
// Decode returns every slot, empty or not. Encode writes the live records in
// order, drops anything past capacity (reported as Truncated), and pads the
// remaining slots with the empty-slot marker.
//
//	slots, err := table.Decode(img, l)
//	live := l.Occupied(slots)
//	// ... edit live ...
//	err = table.Encode(img, l, live, report)
package table
