package resources

import (
	"fmt"

	"github.com/joshuapare/romkit/rom/diag"
	"github.com/joshuapare/romkit/rom/table"
)

// TreasureFields is the column count of the treasure table: map, x, y, item.
const TreasureFields = 4

// Treasure is an item placed on a map tile.
type Treasure struct {
	Map  byte `json:"map"`
	X    byte `json:"x"`
	Y    byte `json:"y"`
	Item byte `json:"item"`
}

func (t Treasure) String() string {
	return fmt.Sprintf("map=%02X (%d,%d) item=%02X", t.Map, t.X, t.Y, t.Item)
}

func (t Treasure) slot() table.Slot { return table.Slot{t.Map, t.X, t.Y, t.Item} }

func treasureFromSlot(s table.Slot) Treasure {
	return Treasure{Map: s[0], X: s[1], Y: s[2], Item: s[3]}
}

// Treasures is the editable treasure list.
type Treasures struct {
	layout table.Layout
	Items  []Treasure
}

// LoadTreasures decodes the table, reports duplicate placements, and keeps
// the occupied slots in table order.
func LoadTreasures(src table.ColumnReader, l table.Layout, sink diag.Sink) (*Treasures, error) {
	slots, err := table.Decode(src, l)
	if err != nil {
		return nil, err
	}
	table.ReportDuplicates(l, slots, sink)

	t := &Treasures{layout: l}
	for _, s := range l.Occupied(slots) {
		t.Items = append(t.Items, treasureFromSlot(s))
	}
	return t, nil
}

// Layout returns the table layout.
func (t *Treasures) Layout() table.Layout { return t.layout }

// OnMap returns the treasures placed on mapID.
func (t *Treasures) OnMap(mapID byte) []Treasure {
	var out []Treasure
	for _, it := range t.Items {
		if it.Map == mapID {
			out = append(out, it)
		}
	}
	return out
}

// Apply encodes the list back into the table.
func (t *Treasures) Apply(dst table.ColumnWriter, sink diag.Sink) error {
	slots := make([]table.Slot, len(t.Items))
	for i, it := range t.Items {
		slots[i] = it.slot()
	}
	return table.Encode(dst, t.layout, slots, sink)
}
