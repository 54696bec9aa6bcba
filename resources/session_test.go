package resources

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/diag"
	"github.com/joshuapare/romkit/rom/dirty"
	"github.com/joshuapare/romkit/rom/varblock"
)

func TestSession_LoadApply(t *testing.T) {
	l := DefaultLayout()
	r := resolvedDefault(t)
	img := blankImage(t, r)

	start := r.EventTiles.Region.Start
	require.NoError(t, img.WriteAt(start, []byte{0x01, 0x01, 0x02, 0x03, 0x09, 0x00}))
	l.SetOwners([]varblock.Owner{{ID: 1, Index: varblock.GroupIndex(start - r.EventTiles.Base)}})

	report := diag.NewReport()
	s, err := Load(img, l, report)
	require.NoError(t, err)
	require.Empty(t, s.Treasures.Items)
	require.Zero(t, s.Computers.Len())

	s.Treasures.Items = append(s.Treasures.Items, Treasure{Map: 0x10, X: 3, Y: 4, Item: 0x55})
	require.True(t, s.Computers.Add(Computer{Map: 0x11, Type: 2, X: 5, Y: 6}))

	tracker := dirty.NewTracker(img)
	img.Track(tracker)
	res, err := s.Apply(report)
	require.NoError(t, err)
	require.NotNil(t, res.EventTiles)
	require.Equal(t, 6, res.EventTiles.Used)
	require.False(t, report.HasErrors())

	random := r.RandomTreasures
	require.Equal(t, []dirty.Range{
		{Off: start, Len: 6},
		{Off: random.DefaultChance, Len: 1},
		{Off: random.DefaultItem, Len: 1 + random.Table.Range.Len()},
		{Off: r.CheckPoints.Range.Start, Len: r.CheckPoints.Range.Len()},
		{Off: r.Treasures.Range.Start, Len: r.Treasures.Range.Len()},
		{Off: r.Computers.Range.Start, Len: r.Computers.Range.Len()},
	}, tracker.Ranges())

	again, err := Load(img, l, nil)
	require.NoError(t, err)
	require.Equal(t, s.Treasures.Items, again.Treasures.Items)
	require.Equal(t, s.Computers.All(), again.Computers.All())
}

func TestSession_ResourceIsolation(t *testing.T) {
	l := DefaultLayout()
	r := resolvedDefault(t)
	img := blankImage(t, r)
	// Index 0 resolves to the pointer base, below the event tile region.
	l.SetOwners([]varblock.Owner{{ID: 1, Index: 0}})

	s, err := Load(img, l, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, rom.ErrOutOfBounds)

	var re *ResourceError
	require.True(t, errors.As(err, &re))
	require.Equal(t, NameEventTiles, re.Resource)

	require.NotNil(t, s.Treasures)
	require.NotNil(t, s.Computers)
	require.Nil(t, s.EventTiles)

	res, err := s.Apply(nil)
	require.NoError(t, err)
	require.Nil(t, res.EventTiles)
}

func TestSession_TableRangeIsolation(t *testing.T) {
	l := DefaultLayout()
	l.Treasures.End = l.Treasures.Start + 4
	img := blankImage(t, resolvedDefault(t))

	s, err := Load(img, l, nil)
	require.NotNil(t, s)
	require.ErrorIs(t, err, rom.ErrOutOfBounds)

	var re *ResourceError
	require.True(t, errors.As(err, &re))
	require.Equal(t, NameTreasures, re.Resource)

	require.Nil(t, s.Treasures)
	require.NotNil(t, s.RandomTreasures)
	require.NotNil(t, s.CheckPoints)
	require.NotNil(t, s.Computers)
	require.NotNil(t, s.EventTiles)

	_, err = s.Apply(nil)
	require.NoError(t, err)
}

func TestSession_BadOwnerIndex(t *testing.T) {
	l := DefaultLayout()
	l.EventTiles.Owners = []OwnerSpec{{Map: 1, Index: 0x10000}}
	s, err := Load(rom.New(make([]byte, imageSize)), l, nil)
	require.Nil(t, s)
	require.ErrorIs(t, err, ErrLayout)
}
