package resources

import (
	"github.com/joshuapare/romkit/rom/diag"
	"github.com/joshuapare/romkit/rom/varblock"
)

// EventTile replaces the tile at (X, Y) with Payload while its event is set.
// On the world map one tile covers a 4x4 block and X, Y are below 0x40.
type EventTile = varblock.SubRecord

// EventTiles holds the event tile groups of every map that uses them.
type EventTiles struct {
	layout varblock.Layout
	arena  *varblock.Arena
}

// LoadEventTiles decodes the groups referenced by owners.
func LoadEventTiles(src varblock.Reader, l varblock.Layout, owners []varblock.Owner, sink diag.Sink) (*EventTiles, error) {
	a, err := varblock.Decode(src, l, owners, sink)
	if err != nil {
		return nil, err
	}
	return &EventTiles{layout: l, arena: a}, nil
}

// Layout returns the block layout.
func (e *EventTiles) Layout() varblock.Layout { return e.layout }

// Arena exposes the groups and their owners.
func (e *EventTiles) Arena() *varblock.Arena { return e.arena }

// Tiles returns the group used by mapID. Maps sharing an index share the
// returned group.
func (e *EventTiles) Tiles(mapID int) (*varblock.Group, bool) {
	return e.arena.Lookup(varblock.OwnerID(mapID))
}

// Maps returns the owners with their current index.
func (e *EventTiles) Maps() []varblock.Owner { return e.arena.Owners() }

// Apply encodes all groups and rewrites the owners' indices. Content twins
// are reported first so the caller can decide whether to merge them.
func (e *EventTiles) Apply(dst varblock.Writer, sink diag.Sink) (varblock.Result, error) {
	varblock.ReportContentTwins(e.layout, e.arena, sink)
	return varblock.Encode(dst, e.layout, e.arena, sink)
}
