package varblock

import "fmt"

// Trigger keys one run of sub-records within a group.
type Trigger uint8

// Terminator closes a group on the wire. It is never a live trigger.
const Terminator Trigger = 0

// SubRecordSize is the wire size of a SubRecord.
const SubRecordSize = 3

// MaxRun is the largest number of sub-records one trigger can carry.
const MaxRun = 0xFF

// SubRecord is one (x, y, payload) tuple.
type SubRecord struct {
	X       byte `json:"x" yaml:"x"`
	Y       byte `json:"y" yaml:"y"`
	Payload byte `json:"payload" yaml:"payload"`
}

func (r SubRecord) String() string {
	return fmt.Sprintf("(%d,%d,%02X)", r.X, r.Y, r.Payload)
}

// Entry is one trigger and its sub-records.
type Entry struct {
	Trigger Trigger     `json:"trigger" yaml:"trigger"`
	Records []SubRecord `json:"records" yaml:"records"`
}

// Group is an ordered mapping from Trigger to sub-records. Iteration order is
// insertion order and is the order entries are encoded in.
type Group struct {
	entries []Entry
}

// NewGroup creates a group from entries, applying Put to each in order.
func NewGroup(entries ...Entry) *Group {
	g := &Group{}
	for _, e := range entries {
		g.Put(e.Trigger, e.Records...)
	}
	return g
}

// Put sets the records for t. An existing trigger is overwritten in place and
// keeps its position; a new one is appended. It reports whether t already
// existed.
func (g *Group) Put(t Trigger, records ...SubRecord) bool {
	recs := append([]SubRecord(nil), records...)
	if i := g.find(t); i >= 0 {
		g.entries[i].Records = recs
		return true
	}
	g.entries = append(g.entries, Entry{Trigger: t, Records: recs})
	return false
}

// Append adds records to t's run, creating it at the end if missing.
func (g *Group) Append(t Trigger, records ...SubRecord) {
	if i := g.find(t); i >= 0 {
		g.entries[i].Records = append(g.entries[i].Records, records...)
		return
	}
	g.Put(t, records...)
}

// Get returns a copy of t's records.
func (g *Group) Get(t Trigger) ([]SubRecord, bool) {
	i := g.find(t)
	if i < 0 {
		return nil, false
	}
	return append([]SubRecord(nil), g.entries[i].Records...), true
}

// Delete removes t and reports whether it was present.
func (g *Group) Delete(t Trigger) bool {
	i := g.find(t)
	if i < 0 {
		return false
	}
	g.entries = append(g.entries[:i], g.entries[i+1:]...)
	return true
}

// Triggers returns the keys in order.
func (g *Group) Triggers() []Trigger {
	ts := make([]Trigger, len(g.entries))
	for i, e := range g.entries {
		ts[i] = e.Trigger
	}
	return ts
}

// Entries returns a deep copy of the entries in order.
func (g *Group) Entries() []Entry {
	out := make([]Entry, len(g.entries))
	for i, e := range g.entries {
		out[i] = Entry{Trigger: e.Trigger, Records: append([]SubRecord(nil), e.Records...)}
	}
	return out
}

// Len returns the number of entries, including any Terminator-keyed ones.
func (g *Group) Len() int { return len(g.entries) }

// Live reports whether the group has at least one non-terminator entry, that
// is, whether encoding it writes anything besides the terminator.
func (g *Group) Live() bool {
	for _, e := range g.entries {
		if e.Trigger != Terminator {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (g *Group) Clone() *Group {
	return &Group{entries: g.Entries()}
}

// EncodedSize returns the number of bytes Encode writes for g, terminator
// included. Terminator-keyed entries are not counted.
func (g *Group) EncodedSize() int {
	n := 1
	for _, e := range g.entries {
		if e.Trigger == Terminator {
			continue
		}
		n += 2 + len(e.Records)*SubRecordSize
	}
	return n
}

// AppendBinary appends the wire form of g to b. Terminator-keyed entries are
// skipped; the group itself is not modified.
func (g *Group) AppendBinary(b []byte) ([]byte, error) {
	for _, e := range g.entries {
		if e.Trigger == Terminator {
			continue
		}
		if len(e.Records) > MaxRun {
			return b, fmt.Errorf("%w: trigger %d has %d records, max %d",
				ErrTooManyRecords, e.Trigger, len(e.Records), MaxRun)
		}
		b = append(b, byte(e.Trigger), byte(len(e.Records)))
		for _, r := range e.Records {
			b = append(b, r.X, r.Y, r.Payload)
		}
	}
	return append(b, byte(Terminator)), nil
}

func (g *Group) find(t Trigger) int {
	for i, e := range g.entries {
		if e.Trigger == t {
			return i
		}
	}
	return -1
}
