package varblock

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// GroupIndex is a group's position relative to the layout's pointer base.
type GroupIndex uint16

// MaxGroupIndex is the largest storable GroupIndex.
const MaxGroupIndex = 0xFFFF

// OwnerID identifies an owner, a map in the cartridge.
type OwnerID int

// Owner pairs an owner with its stored GroupIndex.
type Owner struct {
	ID    OwnerID    `json:"id" yaml:"id"`
	Index GroupIndex `json:"index" yaml:"index"`
}

// GroupID is an arena handle.
type GroupID int

// NoGroup is the handle of an owner without a group.
const NoGroup GroupID = -1

type ownerSlot struct {
	id    OwnerID
	index GroupIndex
	group GroupID
}

// Arena holds groups and the owners referencing them. Owners refer to groups
// by handle, so owners holding the same handle share one *Group.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	groups []*Group
	owners []ownerSlot // sorted by id
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// AddGroup stores g and returns its handle.
func (a *Arena) AddGroup(g *Group) GroupID {
	if g == nil {
		g = &Group{}
	}
	a.groups = append(a.groups, g)
	return GroupID(len(a.groups) - 1)
}

// Group returns the group behind id.
func (a *Arena) Group(id GroupID) (*Group, error) {
	if id < 0 || int(id) >= len(a.groups) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGroup, id)
	}
	return a.groups[id], nil
}

// Attach points owner at id, registering owner if needed.
func (a *Arena) Attach(owner OwnerID, id GroupID) error {
	if _, err := a.Group(id); err != nil {
		return err
	}
	i, ok := a.search(owner)
	if ok {
		a.owners[i].group = id
		return nil
	}
	a.owners = append(a.owners, ownerSlot{})
	copy(a.owners[i+1:], a.owners[i:])
	a.owners[i] = ownerSlot{id: owner, group: id}
	return nil
}

// Release detaches owner from its group. The owner stays registered and is
// skipped by Encode.
func (a *Arena) Release(owner OwnerID) error {
	i, ok := a.search(owner)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownOwner, owner)
	}
	a.owners[i].group = NoGroup
	return nil
}

// Share points owner at the group other holds.
func (a *Arena) Share(owner, other OwnerID) error {
	j, ok := a.search(other)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownOwner, other)
	}
	if a.owners[j].group == NoGroup {
		return fmt.Errorf("%w: owner %d holds no group", ErrUnknownGroup, other)
	}
	return a.Attach(owner, a.owners[j].group)
}

// Detach gives owner a private copy of its group when other owners share it,
// and returns owner's (possibly new) handle. Later edits through owner no
// longer affect the former sharers.
func (a *Arena) Detach(owner OwnerID) (GroupID, error) {
	i, ok := a.search(owner)
	if !ok {
		return NoGroup, fmt.Errorf("%w: %d", ErrUnknownOwner, owner)
	}
	id := a.owners[i].group
	if id == NoGroup {
		return NoGroup, fmt.Errorf("%w: owner %d holds no group", ErrUnknownGroup, owner)
	}
	if len(a.Sharers(id)) == 1 {
		return id, nil
	}
	clone := a.AddGroup(a.groups[id].Clone())
	a.owners[i].group = clone
	return clone, nil
}

// Lookup returns owner's group.
func (a *Arena) Lookup(owner OwnerID) (*Group, bool) {
	i, ok := a.search(owner)
	if !ok || a.owners[i].group == NoGroup {
		return nil, false
	}
	return a.groups[a.owners[i].group], true
}

// Handle returns owner's group handle.
func (a *Arena) Handle(owner OwnerID) (GroupID, bool) {
	i, ok := a.search(owner)
	if !ok {
		return NoGroup, false
	}
	return a.owners[i].group, true
}

// Index returns owner's stored GroupIndex.
func (a *Arena) Index(owner OwnerID) (GroupIndex, bool) {
	i, ok := a.search(owner)
	if !ok {
		return 0, false
	}
	return a.owners[i].index, true
}

// Sharers returns the owners holding id, in ID order.
func (a *Arena) Sharers(id GroupID) []OwnerID {
	var out []OwnerID
	for _, o := range a.owners {
		if o.group == id {
			out = append(out, o.id)
		}
	}
	return out
}

// Owners returns every owner with its stored index, in ID order.
func (a *Arena) Owners() []Owner {
	out := make([]Owner, len(a.owners))
	for i, o := range a.owners {
		out[i] = Owner{ID: o.id, Index: o.index}
	}
	return out
}

// Referenced returns the handles held by at least one owner, in
// first-reference order (owners in ID order).
func (a *Arena) Referenced() []GroupID {
	seen := make(map[GroupID]bool, len(a.groups))
	var out []GroupID
	for _, o := range a.owners {
		if o.group == NoGroup || seen[o.group] {
			continue
		}
		seen[o.group] = true
		out = append(out, o.group)
	}
	return out
}

// ContentTwins returns sets of distinct referenced groups whose encoded
// content is identical. Encode writes each of them separately; merging them
// is a caller decision.
func (a *Arena) ContentTwins() [][]GroupID {
	type candidate struct {
		id  GroupID
		raw []byte
	}
	buckets := make(map[uint64][]candidate)
	var order []uint64
	for _, id := range a.Referenced() {
		g := a.groups[id]
		if !g.Live() {
			continue
		}
		raw, err := g.AppendBinary(nil)
		if err != nil {
			continue
		}
		h := xxhash.Sum64(raw)
		if _, ok := buckets[h]; !ok {
			order = append(order, h)
		}
		buckets[h] = append(buckets[h], candidate{id: id, raw: raw})
	}

	var twins [][]GroupID
	for _, h := range order {
		cands := buckets[h]
		used := make([]bool, len(cands))
		for i := range cands {
			if used[i] {
				continue
			}
			set := []GroupID{cands[i].id}
			for j := i + 1; j < len(cands); j++ {
				if !used[j] && bytes.Equal(cands[i].raw, cands[j].raw) {
					used[j] = true
					set = append(set, cands[j].id)
				}
			}
			if len(set) > 1 {
				twins = append(twins, set)
			}
		}
	}
	return twins
}

func (a *Arena) setIndex(i int, idx GroupIndex) { a.owners[i].index = idx }

// search returns the position of owner, or where it would be inserted.
func (a *Arena) search(owner OwnerID) (int, bool) {
	i := sort.Search(len(a.owners), func(i int) bool { return a.owners[i].id >= owner })
	return i, i < len(a.owners) && a.owners[i].id == owner
}
