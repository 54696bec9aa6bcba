package resources

import (
	"fmt"

	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/diag"
	"github.com/joshuapare/romkit/rom/table"
)

// RandomTreasureFields is the column count of the random treasure table:
// item, chance.
const RandomTreasureFields = 2

// RandomTreasure is an item a search may turn up, with its chance.
type RandomTreasure struct {
	Item   byte `json:"item"`
	Chance byte `json:"chance"`
}

func (r RandomTreasure) String() string {
	return fmt.Sprintf("item=%02X chance=%02X", r.Item, r.Chance)
}

// RandomLayout locates the random treasure table, padded with zeroes, and
// the two default bytes stored apart from it.
type RandomLayout struct {
	Table         table.Layout
	DefaultItem   int // Buffer offset of the item found when no roll succeeds
	DefaultChance int // Buffer offset of the chance to roll the table at all
}

// RandomReader is the part of the ROM buffer LoadRandomTreasures needs.
type RandomReader interface {
	table.ColumnReader
	Len() int
	GetAt(off int) (byte, error)
}

// RandomWriter is the part of the ROM buffer RandomTreasures.Apply needs.
type RandomWriter interface {
	table.ColumnWriter
	Len() int
	PutAt(off int, b byte) error
}

// RandomTreasures is the editable random treasure list. Default.Item is
// what a search finds otherwise; Default.Chance is the chance of rolling
// Items instead.
type RandomTreasures struct {
	layout  RandomLayout
	Default RandomTreasure
	Items   []RandomTreasure
}

// LoadRandomTreasures decodes the table and the default bytes.
func LoadRandomTreasures(src RandomReader, l RandomLayout, sink diag.Sink) (*RandomTreasures, error) {
	if err := l.checkDefaults(src.Len()); err != nil {
		return nil, err
	}
	slots, err := table.Decode(src, l.Table)
	if err != nil {
		return nil, err
	}
	table.ReportDuplicates(l.Table, slots, sink)

	r := &RandomTreasures{layout: l}
	if r.Default.Item, err = src.GetAt(l.DefaultItem); err != nil {
		return nil, err
	}
	if r.Default.Chance, err = src.GetAt(l.DefaultChance); err != nil {
		return nil, err
	}
	for _, s := range l.Table.Occupied(slots) {
		r.Items = append(r.Items, RandomTreasure{Item: s[0], Chance: s[1]})
	}
	return r, nil
}

// Layout returns the layout.
func (r *RandomTreasures) Layout() RandomLayout { return r.layout }

// Apply encodes the list and the default bytes. Nothing is written when the
// table cannot be encoded.
func (r *RandomTreasures) Apply(dst RandomWriter, sink diag.Sink) error {
	if err := r.layout.checkDefaults(dst.Len()); err != nil {
		return err
	}
	slots := make([]table.Slot, len(r.Items))
	for i, it := range r.Items {
		slots[i] = table.Slot{it.Item, it.Chance}
	}
	if err := table.Encode(dst, r.layout.Table, slots, sink); err != nil {
		return err
	}
	if err := dst.PutAt(r.layout.DefaultItem, r.Default.Item); err != nil {
		return err
	}
	return dst.PutAt(r.layout.DefaultChance, r.Default.Chance)
}

func (l RandomLayout) checkDefaults(imageLen int) error {
	for _, off := range []int{l.DefaultItem, l.DefaultChance} {
		if off < 0 || off >= imageLen {
			return fmt.Errorf("%w: %s default byte at 0x%X, image holds 0x%X",
				rom.ErrOutOfBounds, l.Table.Name, off, imageLen)
		}
	}
	return nil
}
