package dirty_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/dirty"
)

func setupCartridge(t testing.TB, prgLen int) (string, *rom.Image) {
	t.Helper()

	file := make([]byte, rom.HeaderBias+prgLen)
	copy(file, []byte{'N', 'E', 'S', 0x1A})
	for i := rom.HeaderBias; i < len(file); i++ {
		file[i] = 0xEA
	}
	path := filepath.Join(t.TempDir(), "cart.nes")
	require.NoError(t, os.WriteFile(path, file, 0o644))

	img, err := rom.Open(path)
	require.NoError(t, err)
	return path, img
}

func TestTracker_Ranges_Coalesce(t *testing.T) {
	tracker := dirty.NewTracker(rom.New(make([]byte, 0x100)))

	tracker.Add(0x40, 1)
	tracker.Add(0x10, 4)
	tracker.Add(0x14, 2) // adjacent
	tracker.Add(0x12, 1) // inside
	tracker.Add(0x80, 0) // empty

	require.Equal(t, []dirty.Range{{Off: 0x10, Len: 6}, {Off: 0x40, Len: 1}}, tracker.Ranges())
	require.Equal(t, 7, tracker.Bytes())

	tracker.Reset()
	require.Nil(t, tracker.Ranges())
}

func TestTracker_Flush_WritesOnlyDirtySpans(t *testing.T) {
	path, img := setupCartridge(t, 0x40)
	tracker := dirty.NewTracker(img)
	img.Track(tracker)

	// Change the buffer behind the tracker's back; this must not be flushed.
	img.Bytes()[0x30] = 0x00

	require.NoError(t, img.WriteAt(0x08, []byte{1, 2, 3}))
	require.NoError(t, img.PutAt(0x20, 4))

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, tracker.Flush(context.Background(), f))
	require.Nil(t, tracker.Ranges(), "flush clears the tracker")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got[rom.HeaderBias+0x08:rom.HeaderBias+0x0B])
	require.Equal(t, byte(4), got[rom.HeaderBias+0x20])
	require.Equal(t, byte(0xEA), got[rom.HeaderBias+0x30])
	require.Equal(t, []byte{'N', 'E', 'S', 0x1A}, got[:4])
}

func TestTracker_Flush_PreCancelled(t *testing.T) {
	path, img := setupCartridge(t, 0x10)
	tracker := dirty.NewTracker(img)
	img.Track(tracker)
	require.NoError(t, img.PutAt(0, 1))

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = tracker.Flush(ctx, f)
	require.True(t, errors.Is(err, context.Canceled), "expected context.Canceled, got: %v", err)
	require.Len(t, tracker.Ranges(), 1, "cancelled flush keeps ranges for retry")
}

func TestTracker_Flush_Empty(t *testing.T) {
	tracker := dirty.NewTracker(rom.New(nil))
	require.NoError(t, tracker.Flush(context.Background(), nil))
}
