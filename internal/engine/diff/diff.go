package diff

import (
	"errors"
	"fmt"
	"sort"

	"atomedit/internal/engine/structure"
)

// Errors returned by diff restoration (deserialization).
var (
	ErrEntryExists   = errors.New("entry id already in use")
	ErrEntryInvalid  = errors.New("invalid entry id")
	ErrEntryNotFound = errors.New("entry not found")
)

// Diff is one editing stage's accumulated edits: atom entries plus a bond
// overlay keyed by entry-id pairs. The zero value is not usable; call New.
//
// Like Structure, a Diff is not safe for concurrent mutation; sessions
// serialize access to it.
type Diff struct {
	entries    []*Entry // index = id-1; nil slot = removed entry
	numEntries int
	bonds      map[structure.BondKey]structure.BondOrder
}

// New creates an empty diff.
func New() *Diff {
	return &Diff{
		bonds: make(map[structure.BondKey]structure.BondOrder),
	}
}

func (d *Diff) entryRef(id structure.AtomID) *Entry {
	if id == 0 {
		return nil
	}
	idx := int(id) - 1
	if idx >= len(d.entries) {
		return nil
	}
	return d.entries[idx]
}

func (d *Diff) append(e Entry) structure.AtomID {
	e.ID = structure.AtomID(len(d.entries) + 1)
	d.entries = append(d.entries, &e)
	d.numEntries++
	return e.ID
}

// AddAtom records a genuine addition: a new atom with no base
// counterpart.
func (d *Diff) AddAtom(elem structure.Element, pos structure.Vec3) structure.AtomID {
	return d.append(Entry{Kind: KindAddition, Element: elem, Pos: pos})
}

// MarkDelete records a delete marker for the base atom at pos.
func (d *Diff) MarkDelete(pos structure.Vec3) structure.AtomID {
	return d.append(Entry{Kind: KindDelete, Pos: pos})
}

// Replace records an element change for the base atom at pos.
func (d *Diff) Replace(elem structure.Element, pos structure.Vec3) structure.AtomID {
	return d.append(Entry{Kind: KindReplacement, Element: elem, Pos: pos})
}

// Move records a repositioned base atom: anchor is where the base atom is
// now, pos is where it should end up.
func (d *Diff) Move(elem structure.Element, anchor, pos structure.Vec3) structure.AtomID {
	return d.append(Entry{Kind: KindMove, Element: elem, Anchor: anchor, Pos: pos})
}

// IdentityEntry records a replacement that changes nothing. It exists to
// give a base atom a diff-side id, so that bond edits between two base
// atoms become expressible in the overlay.
func (d *Diff) IdentityEntry(elem structure.Element, pos structure.Vec3) structure.AtomID {
	return d.Replace(elem, pos)
}

// Entry returns a copy of the entry with the given id.
func (d *Diff) Entry(id structure.AtomID) (Entry, bool) {
	e := d.entryRef(id)
	if e == nil {
		return Entry{}, false
	}
	return *e, true
}

// Remove deletes an entry and any overlay bonds incident to it. Removing
// an unknown id is a no-op.
func (d *Diff) Remove(id structure.AtomID) {
	e := d.entryRef(id)
	if e == nil {
		return
	}
	for key := range d.bonds {
		if key.A == id || key.B == id {
			delete(d.bonds, key)
		}
	}
	d.entries[int(id)-1] = nil
	d.numEntries--
}

// NumEntries returns the number of live entries.
func (d *Diff) NumEntries() int {
	return d.numEntries
}

// NumBonds returns the number of overlay bonds (including deletions).
func (d *Diff) NumBonds() int {
	return len(d.bonds)
}

// Empty reports whether the diff records no edits at all.
func (d *Diff) Empty() bool {
	return d.numEntries == 0 && len(d.bonds) == 0
}

// EntryIDs returns all live entry ids in ascending order.
func (d *Diff) EntryIDs() []structure.AtomID {
	ids := make([]structure.AtomID, 0, d.numEntries)
	for _, e := range d.entries {
		if e != nil {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// EachEntry calls fn for every live entry in ascending id order until fn
// returns false.
func (d *Diff) EachEntry(fn func(e Entry) bool) {
	for _, e := range d.entries {
		if e == nil {
			continue
		}
		if !fn(*e) {
			return
		}
	}
}

// SetElement changes an entry's element. Returns false for unknown ids
// and for delete markers, which carry no element.
func (d *Diff) SetElement(id structure.AtomID, elem structure.Element) bool {
	e := d.entryRef(id)
	if e == nil || e.Kind == KindDelete {
		return false
	}
	e.Element = elem
	return true
}

// SetFlags replaces an entry's flag bits.
func (d *Diff) SetFlags(id structure.AtomID, flags structure.AtomFlags) bool {
	e := d.entryRef(id)
	if e == nil {
		return false
	}
	e.Flags = flags
	return true
}

// Translate shifts an entry's target position by delta. A replacement
// becomes a move (its anchor stays at the original place); a move keeps
// its anchor. Returns false for unknown ids and delete markers.
func (d *Diff) Translate(id structure.AtomID, delta structure.Vec3) bool {
	e := d.entryRef(id)
	if e == nil || e.Kind == KindDelete {
		return false
	}
	if e.Kind == KindReplacement {
		e.Kind = KindMove
		e.Anchor = e.Pos
	}
	e.Pos = e.Pos.Add(delta)
	return true
}

// ConvertToDelete turns an entry that tracks a base atom into a delete
// marker at its match position. Additions cannot be converted (there is
// no base atom to delete); remove them instead. Converting an existing
// delete marker is a no-op.
func (d *Diff) ConvertToDelete(id structure.AtomID) bool {
	e := d.entryRef(id)
	if e == nil || e.Kind == KindAddition {
		return false
	}
	if e.Kind == KindDelete {
		return true
	}
	e.Pos = e.MatchPos()
	e.Kind = KindDelete
	e.Element = 0
	e.Anchor = structure.Vec3{}
	return true
}

// Bond Overlay

// SetBond records a bond of the given order between two entries. Used
// both for bonds between new atoms and for overriding a base bond's
// order. Rejects the deletion sentinel (use MarkBondDeleted), self
// bonds, and unknown entries.
func (d *Diff) SetBond(a, b structure.AtomID, order structure.BondOrder) bool {
	if a == b || order == structure.OrderDeleted {
		return false
	}
	if d.entryRef(a) == nil || d.entryRef(b) == nil {
		return false
	}
	d.bonds[structure.MakeBondKey(a, b)] = order
	return true
}

// MarkBondDeleted records the deletion sentinel between two entries,
// marking the corresponding base bond for removal.
func (d *Diff) MarkBondDeleted(a, b structure.AtomID) bool {
	if a == b || d.entryRef(a) == nil || d.entryRef(b) == nil {
		return false
	}
	d.bonds[structure.MakeBondKey(a, b)] = structure.OrderDeleted
	return true
}

// RemoveBond drops an overlay bond entirely (undoing the edit, not
// deleting the base bond). Returns false if no overlay bond exists.
func (d *Diff) RemoveBond(a, b structure.AtomID) bool {
	key := structure.MakeBondKey(a, b)
	if _, ok := d.bonds[key]; !ok {
		return false
	}
	delete(d.bonds, key)
	return true
}

// BondOrderBetween returns the overlay order between two entries. The
// deletion sentinel is returned like any other order.
func (d *Diff) BondOrderBetween(a, b structure.AtomID) (structure.BondOrder, bool) {
	order, ok := d.bonds[structure.MakeBondKey(a, b)]
	return order, ok
}

// BondKeys returns all overlay bond keys sorted ascending by (A, B).
func (d *Diff) BondKeys() []structure.BondKey {
	keys := make([]structure.BondKey, 0, len(d.bonds))
	for key := range d.bonds {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// EachBond calls fn for every overlay bond in ascending key order until
// fn returns false.
func (d *Diff) EachBond(fn func(key structure.BondKey, order structure.BondOrder) bool) {
	for _, key := range d.BondKeys() {
		if !fn(key, d.bonds[key]) {
			return
		}
	}
}

// Clone returns a deep copy of the diff.
func (d *Diff) Clone() *Diff {
	c := &Diff{
		entries:    make([]*Entry, len(d.entries)),
		numEntries: d.numEntries,
		bonds:      make(map[structure.BondKey]structure.BondOrder, len(d.bonds)),
	}
	for i, e := range d.entries {
		if e != nil {
			copied := *e
			c.entries[i] = &copied
		}
	}
	for key, order := range d.bonds {
		c.bonds[key] = order
	}
	return c
}

// Restoration (deserialization support)

// Restore places an entry at its recorded id, extending the id space as
// needed. Intended for loading persisted diffs; normal editing goes
// through the typed constructors.
func (d *Diff) Restore(e Entry) error {
	if e.ID == 0 {
		return ErrEntryInvalid
	}
	idx := int(e.ID) - 1
	for len(d.entries) <= idx {
		d.entries = append(d.entries, nil)
	}
	if d.entries[idx] != nil {
		return fmt.Errorf("%w: %d", ErrEntryExists, e.ID)
	}
	copied := e
	d.entries[idx] = &copied
	d.numEntries++
	return nil
}

// RestoreBond places an overlay bond between two restored entries. The
// deletion sentinel is accepted like any other order.
func (d *Diff) RestoreBond(a, b structure.AtomID, order structure.BondOrder) error {
	if a == b {
		return fmt.Errorf("%w: bond endpoints %d, %d", ErrEntryInvalid, a, b)
	}
	if d.entryRef(a) == nil {
		return fmt.Errorf("%w: bond endpoint %d", ErrEntryNotFound, a)
	}
	if d.entryRef(b) == nil {
		return fmt.Errorf("%w: bond endpoint %d", ErrEntryNotFound, b)
	}
	d.bonds[structure.MakeBondKey(a, b)] = order
	return nil
}
