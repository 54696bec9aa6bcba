package resources

import (
	"fmt"
	"slices"

	"github.com/joshuapare/romkit/rom/diag"
	"github.com/joshuapare/romkit/rom/table"
)

// ComputerFields is the column count of the computer table: map, type, x, y.
const ComputerFields = 4

// Computer is an interactive terminal placed on a map.
type Computer struct {
	Map  byte `json:"map"`
	Type byte `json:"type"`
	X    byte `json:"x"`
	Y    byte `json:"y"`
}

func (c Computer) String() string {
	return fmt.Sprintf("map=%02X type=%02X (%d,%d)", c.Map, c.Type, c.X, c.Y)
}

func (c Computer) slot() table.Slot { return table.Slot{c.Map, c.Type, c.X, c.Y} }

// Computers is an insertion-ordered set of computers.
type Computers struct {
	layout table.Layout
	items  []Computer
}

// LoadComputers decodes the table. Duplicate slots are reported and folded
// into one set member; the table keeps both until the next Apply.
func LoadComputers(src table.ColumnReader, l table.Layout, sink diag.Sink) (*Computers, error) {
	slots, err := table.Decode(src, l)
	if err != nil {
		return nil, err
	}
	table.ReportDuplicates(l, slots, sink)

	c := &Computers{layout: l}
	for _, s := range l.Occupied(slots) {
		c.Add(Computer{Map: s[0], Type: s[1], X: s[2], Y: s[3]})
	}
	return c, nil
}

// Layout returns the table layout.
func (c *Computers) Layout() table.Layout { return c.layout }

// All returns the computers in order.
func (c *Computers) All() []Computer { return slices.Clone(c.items) }

// Len returns the number of computers.
func (c *Computers) Len() int { return len(c.items) }

// Contains reports membership.
func (c *Computers) Contains(v Computer) bool { return slices.Contains(c.items, v) }

// Add appends v unless present and reports whether it was added.
func (c *Computers) Add(v Computer) bool {
	if c.Contains(v) {
		return false
	}
	c.items = append(c.items, v)
	return true
}

// Remove deletes v and reports whether it was present.
func (c *Computers) Remove(v Computer) bool {
	i := slices.Index(c.items, v)
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	return true
}

// Replace removes old and appends repl, so repl moves to the end of the
// order. It reports true when repl is already present or the replacement
// happened, false when old is missing.
func (c *Computers) Replace(old, repl Computer) bool {
	if c.Contains(repl) {
		return true
	}
	if !c.Remove(old) {
		return false
	}
	return c.Add(repl)
}

// Apply encodes the set back into the table.
func (c *Computers) Apply(dst table.ColumnWriter, sink diag.Sink) error {
	slots := make([]table.Slot, len(c.items))
	for i, v := range c.items {
		slots[i] = v.slot()
	}
	return table.Encode(dst, c.layout, slots, sink)
}
