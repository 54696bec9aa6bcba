package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/table"
	"github.com/joshuapare/romkit/rom/varblock"
)

func TestDefaultLayoutResolves(t *testing.T) {
	r, err := DefaultLayout().Resolve()
	require.NoError(t, err)

	require.Equal(t, rom.AddressRange{Start: 0x39C40, End: 0x39DAC}, r.Treasures.Range)
	require.Equal(t, 0x5B, r.Treasures.Capacity)
	require.Equal(t, TreasureFields, r.Treasures.Fields)

	require.Equal(t, rom.AddressRange{Start: 0x35AD5, End: 0x35AE1}, r.RandomTreasures.Table.Range)
	require.Equal(t, 6, r.RandomTreasures.Table.Capacity)
	require.Equal(t, table.PadZero, r.RandomTreasures.Table.Pad)
	require.Equal(t, 0x35AD4, r.RandomTreasures.DefaultItem)
	require.Equal(t, 0x35ABD, r.RandomTreasures.DefaultChance)

	require.Equal(t, rom.AddressRange{Start: 0x35CA5, End: 0x35CB7}, r.CheckPoints.Range)
	require.Equal(t, table.PadNone, r.CheckPoints.Pad)

	for _, tl := range []table.Layout{r.Treasures, r.RandomTreasures.Table, r.CheckPoints, r.Computers} {
		require.NoError(t, tl.Validate(), tl.Name)
	}

	require.Equal(t, rom.AddressRange{Start: 0x39DC2, End: 0x39FAE}, r.Computers.Range)
	require.Equal(t, 0x7B, r.Computers.Capacity)

	require.Equal(t, 0x14000, r.EventTiles.Base)
	require.Equal(t, rom.AddressRange{Start: 0x1DCBF, End: 0x1DEA0}, r.EventTiles.Region)
	require.Equal(t, 0x1E1, r.EventTiles.Capacity())
	require.Empty(t, r.Owners)
}

func TestParseLayout(t *testing.T) {
	doc := `
name: test
treasures: {start: 0x20, end: 0x30, capacity: 4}
computers: {start: "0x30", end: 64, capacity: 0x4}
event_tiles:
  pointer_base: 0x10
  start: 0x40
  end: 0x50
  owners:
    - {map: 0x03, index: 0x30}
    - {map: 1, index: 0x30}
`
	l, err := ParseLayout([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, Hex(0x30), l.Computers.Start)
	require.Equal(t, Hex(64), l.Computers.End)

	r, err := l.Resolve()
	require.NoError(t, err)
	require.Equal(t, rom.AddressRange{Start: 0x10, End: 0x20}, r.Treasures.Range)
	require.Equal(t, []varblock.Owner{{ID: 3, Index: 0x30}, {ID: 1, Index: 0x30}}, r.Owners)
	require.Equal(t, 0, r.EventTiles.Base)
}

func TestParseLayout_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown field": "name: x\nbogus: 1\n",
		"not a number":  "treasures: {start: nope}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLayout([]byte(doc))
			require.ErrorIs(t, err, ErrLayout)
		})
	}
}

func TestResolve_BadIndex(t *testing.T) {
	badIndex := DefaultLayout()
	badIndex.EventTiles.Owners = []OwnerSpec{{Map: 1, Index: 0x10000}}
	_, err := badIndex.Resolve()
	require.ErrorIs(t, err, ErrLayout)
}

func TestResolve_LeavesTableChecksToTheCodecs(t *testing.T) {
	l := DefaultLayout()
	l.Treasures.Capacity = 0x5C
	l.Computers.Start = 0x04

	r, err := l.Resolve()
	require.NoError(t, err)
	require.ErrorIs(t, r.Treasures.Validate(), rom.ErrOutOfBounds)
	require.ErrorIs(t, r.Computers.Validate(), rom.ErrInvalidRange)
}

func TestLayout_MarshalRoundTrip(t *testing.T) {
	l := DefaultLayout()
	l.SetOwners([]varblock.Owner{{ID: 2, Index: 0x9CBF}})

	data, err := l.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	back, err := LoadLayout(path)
	require.NoError(t, err)
	require.Equal(t, l, back)
}

func TestLoadLayout_Missing(t *testing.T) {
	_, err := LoadLayout(filepath.Join(t.TempDir(), "none.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
