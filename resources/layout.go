package resources

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/table"
	"github.com/joshuapare/romkit/rom/varblock"
)

// Resource names used in diagnostics and errors.
const (
	NameTreasures       = "treasures"
	NameComputers       = "computers"
	NameEventTiles      = "event_tiles"
	NameCheckPoints     = "check_points"
	NameRandomTreasures = "random_treasures"
)

//go:embed default_layout.yaml
var defaultLayout []byte

// Hex is an integer written in YAML as 0x-prefixed hex. Decimal and quoted
// forms are accepted on input.
type Hex int

// MarshalYAML renders h as 0x-prefixed upper-case hex.
func (h Hex) MarshalYAML() ([]byte, error) {
	return []byte(fmt.Sprintf("0x%X", int(h))), nil
}

// UnmarshalYAML parses decimal, 0x hex, 0o octal or 0b binary.
func (h *Hex) UnmarshalYAML(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"'`)
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrLayout, s)
	}
	*h = Hex(v)
	return nil
}

// TableSpec locates a fixed table.
type TableSpec struct {
	Start    Hex `yaml:"start" json:"start"`
	End      Hex `yaml:"end" json:"end"`
	Capacity Hex `yaml:"capacity" json:"capacity"`
}

// RandomTreasureSpec locates the random treasure table and the two bytes
// describing the default find.
type RandomTreasureSpec struct {
	Start         Hex `yaml:"start" json:"start"`
	End           Hex `yaml:"end" json:"end"`
	Capacity      Hex `yaml:"capacity" json:"capacity"`
	DefaultItem   Hex `yaml:"default_item" json:"default_item"`
	DefaultChance Hex `yaml:"default_chance" json:"default_chance"`
}

// OwnerSpec is one map using event tiles and the index its properties store.
type OwnerSpec struct {
	Map   Hex `yaml:"map" json:"map"`
	Index Hex `yaml:"index" json:"index"`
}

// BlockSpec locates a pointer-indexed block.
type BlockSpec struct {
	PointerBase Hex         `yaml:"pointer_base" json:"pointer_base"`
	Start       Hex         `yaml:"start" json:"start"`
	End         Hex         `yaml:"end" json:"end"`
	Owners      []OwnerSpec `yaml:"owners,omitempty" json:"owners,omitempty"`
}

// Layout is the on-disk description of where the resources live, in
// cartridge file offsets.
type Layout struct {
	Name            string             `yaml:"name" json:"name"`
	Treasures       TableSpec          `yaml:"treasures" json:"treasures"`
	RandomTreasures RandomTreasureSpec `yaml:"random_treasures" json:"random_treasures"`
	CheckPoints     TableSpec          `yaml:"check_points" json:"check_points"`
	Computers       TableSpec          `yaml:"computers" json:"computers"`
	EventTiles      BlockSpec          `yaml:"event_tiles" json:"event_tiles"`
}

// DefaultLayout returns the built-in layout for the Japanese cartridge.
func DefaultLayout() *Layout {
	l, err := ParseLayout(defaultLayout)
	if err != nil {
		panic(fmt.Sprintf("resources: embedded layout: %v", err))
	}
	return l
}

// ParseLayout decodes a YAML layout.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.UnmarshalWithOptions(data, &l, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayout, err)
	}
	return &l, nil
}

// LoadLayout reads a YAML layout file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resources: read layout: %w", err)
	}
	l, err := ParseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Marshal encodes the layout as YAML.
func (l *Layout) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}

// SetOwners replaces the event tile owners.
func (l *Layout) SetOwners(owners []varblock.Owner) {
	specs := make([]OwnerSpec, len(owners))
	for i, o := range owners {
		specs[i] = OwnerSpec{Map: Hex(o.ID), Index: Hex(o.Index)}
	}
	l.EventTiles.Owners = specs
}

// Resolved is a layout converted to buffer offsets, ready for the codecs.
type Resolved struct {
	Treasures       table.Layout
	RandomTreasures RandomLayout
	CheckPoints     table.Layout
	Computers       table.Layout
	EventTiles      varblock.Layout
	Owners          []varblock.Owner
}

// Resolve applies the header bias and fills in each table's shape.
//
// Ranges and capacities are not checked here: each resource validates its
// own layout when it loads, so one bad entry fails only that resource. The
// only error is an owner index that does not fit a GroupIndex.
func (l *Layout) Resolve() (Resolved, error) {
	r := Resolved{
		Treasures: l.Treasures.resolve(NameTreasures, TreasureFields, table.PadSentinel),
		RandomTreasures: RandomLayout{
			Table: TableSpec{
				Start:    l.RandomTreasures.Start,
				End:      l.RandomTreasures.End,
				Capacity: l.RandomTreasures.Capacity,
			}.resolve(NameRandomTreasures, RandomTreasureFields, table.PadZero),
			DefaultItem:   rom.FileOffset(int(l.RandomTreasures.DefaultItem)),
			DefaultChance: rom.FileOffset(int(l.RandomTreasures.DefaultChance)),
		},
		CheckPoints: l.CheckPoints.resolve(NameCheckPoints, CheckPointFields, table.PadNone),
		Computers:   l.Computers.resolve(NameComputers, ComputerFields, table.PadSentinel),
		EventTiles: varblock.Layout{
			Name:   NameEventTiles,
			Base:   rom.FileOffset(int(l.EventTiles.PointerBase)),
			Region: fileRange(l.EventTiles.Start, l.EventTiles.End),
		},
	}
	for _, o := range l.EventTiles.Owners {
		if o.Index < 0 || o.Index > varblock.MaxGroupIndex {
			return Resolved{}, fmt.Errorf("%w: map 0x%02X index 0x%X out of range", ErrLayout, int(o.Map), int(o.Index))
		}
		r.Owners = append(r.Owners, varblock.Owner{ID: varblock.OwnerID(o.Map), Index: varblock.GroupIndex(o.Index)})
	}
	return r, nil
}

func (s TableSpec) resolve(name string, fields int, pad table.Padding) table.Layout {
	return table.Layout{
		Name:     name,
		Range:    fileRange(s.Start, s.End),
		Capacity: int(s.Capacity),
		Fields:   fields,
		Pad:      pad,
	}
}

// fileRange converts file offsets without validating; the codecs reject
// inverted or negative ranges.
func fileRange(start, end Hex) rom.AddressRange {
	return rom.AddressRange{Start: rom.FileOffset(int(start)), End: rom.FileOffset(int(end))}
}
