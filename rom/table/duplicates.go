package table

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/joshuapare/romkit/rom/diag"
)

// Duplicate pairs a repeated slot with its first occurrence.
type Duplicate struct {
	Index int // Slot that repeats an earlier one
	First int // Earliest slot with the same bytes
}

// FindDuplicates returns every non-empty slot that is byte-identical to an
// earlier non-empty slot, in slot order.
func FindDuplicates(l Layout, slots []Slot) []Duplicate {
	seen := make(map[uint64][]int, len(slots))
	var dups []Duplicate
	for i, s := range slots {
		if l.IsEmpty(s) {
			continue
		}
		h := xxhash.Sum64(s)
		first := -1
		for _, j := range seen[h] {
			if slots[j].Equal(s) {
				first = j
				break
			}
		}
		if first >= 0 {
			dups = append(dups, Duplicate{Index: i, First: first})
			continue
		}
		seen[h] = append(seen[h], i)
	}
	return dups
}

// ReportDuplicates emits one DuplicateRecord event per repeated slot and
// returns how many it found. Both copies stay in the table.
func ReportDuplicates(l Layout, slots []Slot, sink diag.Sink) int {
	sink = diag.OrDiscard(sink)
	dups := FindDuplicates(l, slots)
	for _, d := range dups {
		sink.Report(diag.Duplicate(l.Name, d.Index,
			fmt.Sprintf("[%s] same as slot %d", slots[d.Index], d.First)))
	}
	return len(dups)
}
