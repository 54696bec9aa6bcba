package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/romkit/resources"
	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/table"
	"github.com/joshuapare/romkit/rom/varblock"
)

var testHeader = []byte{'N', 'E', 'S', 0x1A, 0x10, 0x10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

// testROM describes the cartridge written by writeTestROM.
type testROM struct {
	path       string
	layoutPath string
	resolved   resources.Resolved
	groupStart int // buffer offset of the only event tile group
}

// writeTestROM builds a small cartridge with four treasures (one repeated),
// one random treasure, one computer and one event tile group stored four
// bytes into its region. The check points are all zero.
func writeTestROM(t *testing.T) testROM {
	t.Helper()
	l := resources.DefaultLayout()
	r, err := l.Resolve()
	require.NoError(t, err)

	img := rom.New(make([]byte, 0x40000))
	require.NoError(t, table.Encode(img, r.Treasures, []table.Slot{
		{0x1A, 3, 4, 0x41},
		{0x1A, 5, 6, 0x10},
		{0x1A, 3, 4, 0x41},
		{0x02, 1, 1, 0x50},
	}, nil))
	require.NoError(t, table.Encode(img, r.RandomTreasures.Table, []table.Slot{{0x33, 0x80}}, nil))
	require.NoError(t, img.PutAt(r.RandomTreasures.DefaultItem, 0x44))
	require.NoError(t, img.PutAt(r.RandomTreasures.DefaultChance, 0x20))
	require.NoError(t, table.Encode(img, r.Computers, []table.Slot{{0x05, 1, 7, 8}}, nil))

	start := r.EventTiles.Region.Start
	require.NoError(t, img.WriteAt(start, []byte{0xAA, 0xBB, 0xCC, 0xDD, 0x01, 0x01, 0x02, 0x03, 0x09, 0x00}))
	l.SetOwners([]varblock.Owner{{ID: 0x07, Index: varblock.GroupIndex(start + 4 - r.EventTiles.Base)}})

	dir := t.TempDir()
	tr := testROM{
		path:       filepath.Join(dir, "test.nes"),
		layoutPath: filepath.Join(dir, "layout.yaml"),
		resolved:   r,
		groupStart: start + 4,
	}
	file := append(append([]byte(nil), testHeader...), img.Bytes()...)
	require.NoError(t, os.WriteFile(tr.path, file, 0o644))
	data, err := l.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(tr.layoutPath, data, 0o644))
	return tr
}

// resetFlags restores every flag to its default.
func resetFlags() {
	verbose, quiet, jsonOut, noColor = false, false, false, true
	layoutPath, logFile = "", ""
	dumpWhere = ""
	checkDiff = false
	rebuildOutput, rebuildLayoutOut = "", ""
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	return string(<-done), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	require.NoError(t, json.Unmarshal([]byte(output), &result), "output: %s", output)
}
