// Package dirty tracks which buffer spans of a cartridge image were rewritten
// and writes only those spans back to a file.
//
// # Usage
//
//	tracker := dirty.NewTracker(img)
//	img.Track(tracker)
//	// ... encoders write through img ...
//	f, _ := os.OpenFile(out, os.O_RDWR, 0)
//	err := tracker.Flush(ctx, f)
//
// Spans are recorded as buffer offsets and converted back to file offsets
// (the iNES header length is added) only when flushing.
//
// # Range Coalescing
//
// Ranges() sorts the recorded spans and merges overlapping or adjacent ones:
//
//	Add(0x10, 4), Add(0x14, 2), Add(0x40, 1) -> [0x10-0x16, 0x40-0x41]
//
// Unlike page-level trackers there is no alignment; cartridge edits are a few
// hundred bytes and are written exactly.
//
// # Thread Safety
//
// A Tracker is not safe for concurrent use.
package dirty
