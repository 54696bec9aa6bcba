package varblock

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/diag"
)

// Reader is the part of the ROM buffer Decode needs.
type Reader interface {
	Len() int
	Seek(off int) error
	Get() (byte, error)
	GetN(p []byte) error
}

// Writer is the part of the ROM buffer Encode needs.
type Writer interface {
	Len() int
	WriteAt(off int, p []byte) error
}

// Layout locates a variable block.
type Layout struct {
	Name string // Resource name used in diagnostics

	// Base is the buffer offset GroupIndex values are relative to.
	Base int

	// Region is where groups live; encoding starts at Region.Start and its
	// length is the byte budget.
	Region rom.AddressRange
}

// Capacity returns the region's byte budget.
func (l Layout) Capacity() int { return l.Region.Len() }

// Validate checks the layout against an image of imageLen bytes.
func (l Layout) Validate(imageLen int) error {
	if err := l.Region.Validate(); err != nil {
		return fmt.Errorf("varblock %s: %w", l.Name, err)
	}
	if l.Base < 0 || l.Base > l.Region.Start {
		return fmt.Errorf("%w: %s base 0x%X must lie at or before region %s", ErrLayout, l.Name, l.Base, l.Region)
	}
	if l.Region.End > imageLen {
		return fmt.Errorf("%w: varblock %s region %s past image end 0x%X", rom.ErrOutOfBounds, l.Name, l.Region, imageLen)
	}
	return nil
}

// Decode reads the group of every distinct index in owners, in ascending
// index order, and returns an arena in which owners with equal indices share
// one group.
func Decode(src Reader, l Layout, owners []Owner, sink diag.Sink) (*Arena, error) {
	if err := l.Validate(src.Len()); err != nil {
		return nil, err
	}
	sink = diag.OrDiscard(sink)

	byIndex := make(map[GroupIndex][]OwnerID)
	seen := make(map[OwnerID]bool, len(owners))
	for _, o := range owners {
		if seen[o.ID] {
			return nil, fmt.Errorf("%w: %s owner %d listed twice", ErrLayout, l.Name, o.ID)
		}
		seen[o.ID] = true
		byIndex[o.Index] = append(byIndex[o.Index], o.ID)
	}
	indices := make([]GroupIndex, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	a := NewArena()
	for _, idx := range indices {
		g, err := ReadGroup(src, l, idx, sink)
		if err != nil {
			return nil, err
		}
		id := a.AddGroup(g)
		for _, owner := range byIndex[idx] {
			if err := a.Attach(owner, id); err != nil {
				return nil, err
			}
			i, _ := a.search(owner)
			a.setIndex(i, idx)
		}
	}
	return a, nil
}

// ReadGroup decodes the single group at idx.
//
// The stream is read as ReadTrigger -> (0: done) -> ReadCount ->
// ReadSubRecords x count -> ReadTrigger. Any read that would cross the region
// end fails with ErrMalformedStream. A trigger repeated within the group
// overwrites the earlier run in place and is reported as a duplicate.
func ReadGroup(src Reader, l Layout, idx GroupIndex, sink diag.Sink) (*Group, error) {
	sink = diag.OrDiscard(sink)
	start := l.Base + int(idx)
	if !l.Region.Contains(start) {
		return nil, fmt.Errorf("%w: %s index 0x%04X resolves to 0x%X outside %s",
			rom.ErrOutOfBounds, l.Name, idx, start, l.Region)
	}
	if err := src.Seek(start); err != nil {
		return nil, fmt.Errorf("varblock %s: %w", l.Name, err)
	}

	end := l.Region.End
	pos := start
	g := &Group{}
	for {
		if pos >= end {
			return nil, malformed(l, idx, pos, "missing terminator")
		}
		t, err := src.Get()
		if err != nil {
			return nil, fmt.Errorf("varblock %s: %w", l.Name, err)
		}
		pos++
		if Trigger(t) == Terminator {
			return g, nil
		}

		if pos >= end {
			return nil, malformed(l, idx, pos, fmt.Sprintf("trigger %d has no count", t))
		}
		n, err := src.Get()
		if err != nil {
			return nil, fmt.Errorf("varblock %s: %w", l.Name, err)
		}
		pos++

		size := int(n) * SubRecordSize
		if pos+size > end {
			return nil, malformed(l, idx, pos, fmt.Sprintf("trigger %d: %d sub-records cross region end", t, n))
		}
		raw := make([]byte, size)
		if err := src.GetN(raw); err != nil {
			return nil, fmt.Errorf("varblock %s: %w", l.Name, err)
		}
		pos += size

		records := make([]SubRecord, n)
		for i := range records {
			records[i] = SubRecord{X: raw[i*3], Y: raw[i*3+1], Payload: raw[i*3+2]}
		}
		if g.Put(Trigger(t), records...) {
			sink.Report(diag.Duplicate(l.Name, int(idx),
				fmt.Sprintf("trigger %d repeated in group 0x%04X, later run kept", t, idx)))
		}
	}
}

func malformed(l Layout, idx GroupIndex, pos int, why string) error {
	return fmt.Errorf("%w: %s group 0x%04X at 0x%X: %s", ErrMalformedStream, l.Name, idx, pos, why)
}

// Result describes an encode.
type Result struct {
	Used     int                    // Bytes written from Region.Start
	Capacity int                    // Region length
	Groups   int                    // Distinct groups written
	Owners   []Owner                // Owners whose group was written, with their new index
	Released []OwnerID              // Owners skipped because they hold no live group
	Placed   map[GroupID]GroupIndex // New index of each written group
}

// Free returns Capacity - Used; negative on overflow.
func (r Result) Free() int { return r.Capacity - r.Used }

// Encode writes every distinct live group referenced by an owner, starting at
// Region.Start, and rewrites the stored index of every owner holding it.
//
// Groups are visited in first-reference order over owners sorted by ID and
// written once each. Terminator-keyed entries are skipped. Owners whose group
// has nothing live are left untouched and listed in Result.Released.
//
// The whole block is assembled before anything is written, so a failure
// leaves both the image and the owners unchanged. Exceeding the region is not
// a failure: the bytes are written and AddressOverflow is reported. Writing
// past the end of the image is a failure.
func Encode(dst Writer, l Layout, a *Arena, sink diag.Sink) (Result, error) {
	if err := l.Validate(dst.Len()); err != nil {
		return Result{}, err
	}
	sink = diag.OrDiscard(sink)

	res := Result{Capacity: l.Capacity(), Placed: make(map[GroupID]GroupIndex)}
	block := make([]byte, 0, l.Capacity())
	for _, o := range a.owners {
		if o.group == NoGroup || !a.groups[o.group].Live() {
			res.Released = append(res.Released, o.id)
			continue
		}
		if _, done := res.Placed[o.group]; done {
			continue
		}
		off := l.Region.Start + len(block)
		rel := off - l.Base
		if rel > MaxGroupIndex {
			return Result{}, fmt.Errorf("%w: %s group at 0x%X is 0x%X past base", ErrIndexRange, l.Name, off, rel)
		}
		var err error
		block, err = a.groups[o.group].AppendBinary(block)
		if err != nil {
			return Result{}, fmt.Errorf("varblock %s: owner %d: %w", l.Name, o.id, err)
		}
		res.Placed[o.group] = GroupIndex(rel)
	}

	if err := dst.WriteAt(l.Region.Start, block); err != nil {
		return Result{}, fmt.Errorf("varblock %s: %w", l.Name, err)
	}

	for i, o := range a.owners {
		idx, ok := res.Placed[o.group]
		if !ok || o.group == NoGroup {
			continue
		}
		a.setIndex(i, idx)
		res.Owners = append(res.Owners, Owner{ID: o.id, Index: idx})
	}
	res.Used = len(block)
	res.Groups = len(res.Placed)

	if len(res.Released) > 0 {
		sink.Report(diag.Released(l.Name, len(res.Released), describeOwners(res.Released)))
	}
	switch {
	case res.Used > res.Capacity:
		sink.Report(diag.Overflow(l.Name, l.Region.End, res.Used-res.Capacity))
	case res.Used < res.Capacity:
		sink.Report(diag.ByteSlack(l.Name, l.Region.Start+res.Used, res.Capacity-res.Used))
	}
	return res, nil
}

// ReportContentTwins emits one ContentTwin event per set of distinct groups
// with equal content and returns the number of sets.
func ReportContentTwins(l Layout, a *Arena, sink diag.Sink) int {
	sink = diag.OrDiscard(sink)
	twins := a.ContentTwins()
	for _, set := range twins {
		var owners []OwnerID
		for _, id := range set {
			owners = append(owners, a.Sharers(id)...)
		}
		sink.Report(diag.ContentTwin(l.Name, len(set), "owners "+describeOwners(owners)))
	}
	return len(twins)
}

func describeOwners(ids []OwnerID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("0x%02X", int(id))
	}
	return strings.Join(parts, ", ")
}
