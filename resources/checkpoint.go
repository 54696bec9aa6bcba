package resources

import (
	"fmt"

	"github.com/joshuapare/romkit/rom/diag"
	"github.com/joshuapare/romkit/rom/table"
)

// CheckPointFields is the column count of the check point table: map, x, y.
const CheckPointFields = 3

// CheckPoint names a slot of the check point table.
type CheckPoint int

const (
	CheckEntrance CheckPoint = iota
	CheckText
	CheckReviveCapsule
	CheckUrumi
	CheckDrawers
	CheckText2
)

func (c CheckPoint) String() string {
	switch c {
	case CheckEntrance:
		return "entrance"
	case CheckText:
		return "text"
	case CheckReviveCapsule:
		return "revive_capsule"
	case CheckUrumi:
		return "urumi"
	case CheckDrawers:
		return "drawers"
	case CheckText2:
		return "text2"
	default:
		return fmt.Sprintf("check_point_%d", int(c))
	}
}

// MapPoint is a tile on a map.
type MapPoint struct {
	Map byte `json:"map"`
	X   byte `json:"x"`
	Y   byte `json:"y"`
}

func (p MapPoint) String() string {
	return fmt.Sprintf("map=%02X (%d,%d)", p.Map, p.X, p.Y)
}

// CheckPoints holds the map tiles the game checks for scripted searches.
// Every slot is in use; there is no empty marker.
type CheckPoints struct {
	layout table.Layout
	Points []MapPoint
}

// LoadCheckPoints decodes every slot of the table.
func LoadCheckPoints(src table.ColumnReader, l table.Layout, sink diag.Sink) (*CheckPoints, error) {
	slots, err := table.Decode(src, l)
	if err != nil {
		return nil, err
	}
	table.ReportDuplicates(l, slots, sink)

	c := &CheckPoints{layout: l, Points: make([]MapPoint, len(slots))}
	for i, s := range slots {
		c.Points[i] = MapPoint{Map: s[0], X: s[1], Y: s[2]}
	}
	return c, nil
}

// Layout returns the table layout.
func (c *CheckPoints) Layout() table.Layout { return c.layout }

// Point returns the tile of check point p.
func (c *CheckPoints) Point(p CheckPoint) (MapPoint, bool) {
	if p < 0 || int(p) >= len(c.Points) {
		return MapPoint{}, false
	}
	return c.Points[p], true
}

// Set moves check point p to pt.
func (c *CheckPoints) Set(p CheckPoint, pt MapPoint) bool {
	if p < 0 || int(p) >= len(c.Points) {
		return false
	}
	c.Points[p] = pt
	return true
}

// Apply encodes the points. The table needs one point per slot.
func (c *CheckPoints) Apply(dst table.ColumnWriter, sink diag.Sink) error {
	slots := make([]table.Slot, len(c.Points))
	for i, p := range c.Points {
		slots[i] = table.Slot{p.Map, p.X, p.Y}
	}
	return table.Encode(dst, c.layout, slots, sink)
}
