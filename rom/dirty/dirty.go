package dirty

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/joshuapare/romkit/rom"
)

// defaultRangeCapacity covers one span per resource for a full rebuild.
const defaultRangeCapacity = 16

// Range is a dirty buffer span.
type Range struct {
	Off int // Buffer offset
	Len int // Length in bytes
}

// End returns the exclusive end offset.
func (r Range) End() int { return r.Off + r.Len }

// Tracker accumulates dirty spans of one image.
type Tracker struct {
	img    *rom.Image
	ranges []Range
}

var _ rom.DirtyTracker = (*Tracker)(nil)

// NewTracker creates a tracker for img. It does not attach itself; call
// img.Track(tracker).
func NewTracker(img *rom.Image) *Tracker {
	return &Tracker{
		img:    img,
		ranges: make([]Range, 0, defaultRangeCapacity),
	}
}

// Add records a dirty span. Empty spans are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: off, Len: length})
}

// Ranges returns the recorded spans sorted and merged.
func (t *Tracker) Ranges() []Range {
	if len(t.ranges) == 0 {
		return nil
	}
	sorted := make([]Range, len(t.ranges))
	copy(sorted, t.ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Off < sorted[j].Off })

	merged := make([]Range, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Off <= current.End() {
			if next.End() > current.End() {
				current.Len = next.End() - current.Off
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// Bytes returns the total number of distinct dirty bytes.
func (t *Tracker) Bytes() int {
	n := 0
	for _, r := range t.Ranges() {
		n += r.Len
	}
	return n
}

// Reset clears all recorded spans.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Flush writes every dirty span of the image to f at its file offset, syncs
// the file, and clears the tracker.
//
// The context is checked between spans. A cancelled flush leaves the file
// partially updated and the tracker untouched, so the caller can retry.
func (t *Tracker) Flush(ctx context.Context, f *os.File) error {
	ranges := t.Ranges()
	if len(ranges) == 0 {
		return nil
	}
	data := t.img.Bytes()
	bias := len(t.img.Header())

	for _, r := range ranges {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Off < 0 || r.End() > len(data) {
			return fmt.Errorf("dirty: span [0x%X, 0x%X) outside image: %w", r.Off, r.End(), rom.ErrOutOfBounds)
		}
		if _, err := f.WriteAt(data[r.Off:r.End()], int64(r.Off+bias)); err != nil {
			return fmt.Errorf("dirty: write span at 0x%X: %w", r.Off+bias, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fdatasync(f); err != nil {
		return fmt.Errorf("dirty: sync %s: %w", f.Name(), err)
	}
	t.Reset()
	return nil
}
