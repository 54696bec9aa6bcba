package table

import (
	"fmt"

	"github.com/joshuapare/romkit/internal/buf"
	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/diag"
)

// Sentinel marks an empty slot in the discriminator column.
const Sentinel byte = 0xFF

// Padding says how a table marks its empty slots.
type Padding int

const (
	// PadSentinel marks an empty slot with Sentinel in the discriminator
	// column and zeroes in the others.
	PadSentinel Padding = iota
	// PadZero marks an empty slot with zeroes in every column.
	PadZero
	// PadNone has no empty state: every slot holds a record and Encode needs
	// at least Capacity records.
	PadNone
)

func (p Padding) String() string {
	switch p {
	case PadSentinel:
		return "sentinel"
	case PadZero:
		return "zero"
	case PadNone:
		return "none"
	default:
		return fmt.Sprintf("Padding(%d)", int(p))
	}
}

// ColumnReader is the part of the ROM buffer Decode needs.
type ColumnReader interface {
	GetColumns(off, length int, cols ...[]byte) error
}

// ColumnWriter is the part of the ROM buffer Encode needs.
type ColumnWriter interface {
	PutColumns(off, length int, cols ...[]byte) error
}

// Layout locates one table.
type Layout struct {
	Name     string           // Resource name used in diagnostics
	Range    rom.AddressRange // Buffer range holding the columns
	Capacity int              // Slots per column
	Fields   int              // Number of columns
	Pad      Padding          // Empty-slot marking; zero value is PadSentinel
}

// Size returns Capacity * Fields.
func (l Layout) Size() int { return l.Capacity * l.Fields }

// Validate checks that the layout is well formed and that its columns fit in
// the range.
func (l Layout) Validate() error {
	if err := l.Range.Validate(); err != nil {
		return fmt.Errorf("table %s: %w", l.Name, err)
	}
	if l.Capacity < 0 || l.Fields < 1 {
		return fmt.Errorf("%w: %s capacity=%d fields=%d", ErrShape, l.Name, l.Capacity, l.Fields)
	}
	if l.Pad < PadSentinel || l.Pad > PadNone {
		return fmt.Errorf("%w: %s padding %s", ErrShape, l.Name, l.Pad)
	}
	if _, err := buf.CheckColumns(l.Range.Start, l.Range.End, l.Range.Start, l.Fields, l.Capacity); err != nil {
		return fmt.Errorf("%w: table %s %s holds %d bytes, need %d x %d: %v",
			rom.ErrOutOfBounds, l.Name, l.Range, l.Range.Len(), l.Fields, l.Capacity, err)
	}
	return nil
}

// Slot is one record: Fields bytes, one per column.
type Slot []byte

// Equal reports byte-wise equality.
func (s Slot) Equal(o Slot) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

func (s Slot) String() string { return fmt.Sprintf("% X", []byte(s)) }

// IsEmpty reports whether s is an empty slot under the layout's padding.
func (l Layout) IsEmpty(s Slot) bool {
	switch l.Pad {
	case PadSentinel:
		return len(s) > 0 && s[0] == Sentinel
	case PadZero:
		for _, b := range s {
			if b != 0 {
				return false
			}
		}
		return len(s) > 0
	default:
		return false
	}
}

// Occupied returns the non-empty slots in order.
func (l Layout) Occupied(slots []Slot) []Slot {
	live := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if !l.IsEmpty(s) {
			live = append(live, s)
		}
	}
	return live
}

// Decode reads every slot of the table.
func Decode(src ColumnReader, l Layout) ([]Slot, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	cols := newColumns(l)
	if err := src.GetColumns(l.Range.Start, l.Capacity, cols...); err != nil {
		return nil, fmt.Errorf("table %s: %w", l.Name, err)
	}

	slots := make([]Slot, l.Capacity)
	backing := make([]byte, l.Size())
	for i := range slots {
		s := Slot(backing[i*l.Fields : (i+1)*l.Fields : (i+1)*l.Fields])
		for f, col := range cols {
			s[f] = col[i]
		}
		slots[i] = s
	}
	return slots, nil
}

// Encode writes records into the table and pads the rest with empty slots.
//
// Records past capacity are dropped and reported as one Truncated event;
// unused slots are reported as Slack. Neither is an error. Encode fails
// before writing anything when a record has the wrong width, looks like an
// empty slot, a PadNone table gets fewer than Capacity records, or the
// layout does not fit its range.
func Encode(dst ColumnWriter, l Layout, records []Slot, sink diag.Sink) error {
	if err := l.Validate(); err != nil {
		return err
	}
	sink = diag.OrDiscard(sink)

	if l.Pad == PadNone && len(records) < l.Capacity {
		return fmt.Errorf("%w: %s needs %d records, got %d", ErrShape, l.Name, l.Capacity, len(records))
	}
	written := min(len(records), l.Capacity)
	for i, r := range records[:written] {
		if len(r) != l.Fields {
			return fmt.Errorf("%w: %s record %d has %d fields, want %d", ErrShape, l.Name, i, len(r), l.Fields)
		}
		if l.IsEmpty(r) {
			return fmt.Errorf("%w: %s record %d (%s)", ErrReserved, l.Name, i, r)
		}
	}

	cols := newColumns(l)
	for i, r := range records[:written] {
		for f := range cols {
			cols[f][i] = r[f]
		}
	}
	if l.Pad == PadSentinel {
		for i := written; i < l.Capacity; i++ {
			cols[0][i] = Sentinel
		}
	}

	if err := dst.PutColumns(l.Range.Start, l.Capacity, cols...); err != nil {
		return fmt.Errorf("table %s: %w", l.Name, err)
	}

	switch {
	case len(records) > l.Capacity:
		sink.Report(diag.Truncated(l.Name, len(records)-l.Capacity, describeDropped(records[l.Capacity:])))
	case len(records) < l.Capacity:
		sink.Report(diag.SlotSlack(l.Name, l.Capacity-len(records)))
	}
	return nil
}

func newColumns(l Layout) [][]byte {
	backing := make([]byte, l.Size())
	cols := make([][]byte, l.Fields)
	for f := range cols {
		cols[f] = backing[f*l.Capacity : (f+1)*l.Capacity : (f+1)*l.Capacity]
	}
	return cols
}

// describeDropped lists at most a handful of dropped records for the report.
func describeDropped(dropped []Slot) string {
	const limit = 4
	s := ""
	for i, r := range dropped {
		if i == limit {
			s += fmt.Sprintf(", ... %d more", len(dropped)-limit)
			break
		}
		if i > 0 {
			s += ", "
		}
		s += "[" + r.String() + "]"
	}
	return s
}
