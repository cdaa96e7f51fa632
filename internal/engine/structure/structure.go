package structure

import "sort"

// positionEpsilon is the distance below which a position change is
// considered insignificant and skipped. Far below physical significance
// but above numerical error.
const positionEpsilon = 1e-5

// Structure is an in-memory collection of atoms and bonds with a spatial
// index over atom positions. The zero value is not usable; call New.
//
// Structure is not safe for concurrent mutation; the engine treats its
// inputs as read-only snapshots and higher layers (session, pipeline)
// serialize access.
type Structure struct {
	atoms    []*Atom // index = id-1; nil slot = deleted atom
	numAtoms int
	bonds    map[BondKey]BondOrder
	grid     map[cellKey][]AtomID
}

// New creates an empty structure.
func New() *Structure {
	return &Structure{
		bonds: make(map[BondKey]BondOrder),
		grid:  make(map[cellKey][]AtomID),
	}
}

// atomRef returns the internal atom record, or nil.
func (s *Structure) atomRef(id AtomID) *Atom {
	if id == 0 {
		return nil
	}
	idx := int(id) - 1
	if idx >= len(s.atoms) {
		return nil
	}
	return s.atoms[idx]
}

// Atom returns a copy of the atom with the given id.
func (s *Structure) Atom(id AtomID) (Atom, bool) {
	a := s.atomRef(id)
	if a == nil {
		return Atom{}, false
	}
	return *a, true
}

// NumAtoms returns the number of live atoms.
func (s *Structure) NumAtoms() int {
	return s.numAtoms
}

// NumBonds returns the number of bonds.
func (s *Structure) NumBonds() int {
	return len(s.bonds)
}

// AddAtom adds an atom and returns its id. Ids are assigned sequentially
// and never reused.
func (s *Structure) AddAtom(elem Element, pos Vec3) AtomID {
	id := AtomID(len(s.atoms) + 1)
	s.atoms = append(s.atoms, &Atom{ID: id, Element: elem, Pos: pos})
	s.numAtoms++
	s.addToGrid(id, pos)
	return id
}

// DeleteAtom removes an atom and all bonds incident to it. Deleting an
// unknown or already-deleted id is a no-op.
func (s *Structure) DeleteAtom(id AtomID) {
	a := s.atomRef(id)
	if a == nil {
		return
	}

	for key := range s.bonds {
		if key.A == id || key.B == id {
			delete(s.bonds, key)
		}
	}

	s.removeFromGrid(id, a.Pos)
	s.atoms[int(id)-1] = nil
	s.numAtoms--
}

// SetAtomPosition moves an atom, relocating it in the spatial grid.
// Returns false if the atom does not exist.
func (s *Structure) SetAtomPosition(id AtomID, pos Vec3) bool {
	a := s.atomRef(id)
	if a == nil {
		return false
	}
	if a.Pos.DistSq(pos) < positionEpsilon*positionEpsilon {
		return true
	}

	s.removeFromGrid(id, a.Pos)
	a.Pos = pos
	s.addToGrid(id, pos)
	return true
}

// ReplaceAtom changes an atom's element in place. Returns false if the
// atom does not exist.
func (s *Structure) ReplaceAtom(id AtomID, elem Element) bool {
	a := s.atomRef(id)
	if a == nil {
		return false
	}
	a.Element = elem
	return true
}

// SetAtomFlags replaces an atom's flag bits. Returns false if the atom
// does not exist.
func (s *Structure) SetAtomFlags(id AtomID, flags AtomFlags) bool {
	a := s.atomRef(id)
	if a == nil {
		return false
	}
	a.Flags = flags
	return true
}

// SetSelected sets or clears the selected flag on an atom.
func (s *Structure) SetSelected(id AtomID, selected bool) bool {
	a := s.atomRef(id)
	if a == nil {
		return false
	}
	if selected {
		a.Flags |= FlagSelected
	} else {
		a.Flags &^= FlagSelected
	}
	return true
}

// SetBond creates or updates the bond between a and b. Returns false if
// either atom does not exist, a == b, or order is the deletion sentinel
// (a real structure never holds deleted bonds; that sentinel belongs to
// diff documents).
func (s *Structure) SetBond(a, b AtomID, order BondOrder) bool {
	if a == b || order == OrderDeleted {
		return false
	}
	if s.atomRef(a) == nil || s.atomRef(b) == nil {
		return false
	}
	s.bonds[MakeBondKey(a, b)] = order
	return true
}

// DeleteBond removes the bond between a and b. Returns false if no such
// bond exists.
func (s *Structure) DeleteBond(a, b AtomID) bool {
	key := MakeBondKey(a, b)
	if _, ok := s.bonds[key]; !ok {
		return false
	}
	delete(s.bonds, key)
	return true
}

// BondOrderBetween returns the order of the bond between a and b.
func (s *Structure) BondOrderBetween(a, b AtomID) (BondOrder, bool) {
	order, ok := s.bonds[MakeBondKey(a, b)]
	return order, ok
}

// HasBond reports whether a bond exists between a and b.
func (s *Structure) HasBond(a, b AtomID) bool {
	_, ok := s.bonds[MakeBondKey(a, b)]
	return ok
}

// AtomIDs returns all live atom ids in ascending order.
func (s *Structure) AtomIDs() []AtomID {
	ids := make([]AtomID, 0, s.numAtoms)
	for _, a := range s.atoms {
		if a != nil {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// EachAtom calls fn for every live atom in ascending id order until fn
// returns false.
func (s *Structure) EachAtom(fn func(a Atom) bool) {
	for _, a := range s.atoms {
		if a == nil {
			continue
		}
		if !fn(*a) {
			return
		}
	}
}

// BondKeys returns all bond keys sorted ascending by (A, B).
func (s *Structure) BondKeys() []BondKey {
	keys := make([]BondKey, 0, len(s.bonds))
	for key := range s.bonds {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// EachBond calls fn for every bond in ascending key order until fn
// returns false.
func (s *Structure) EachBond(fn func(key BondKey, order BondOrder) bool) {
	for _, key := range s.BondKeys() {
		if !fn(key, s.bonds[key]) {
			return
		}
	}
}

// Clone returns a deep copy of the structure.
func (s *Structure) Clone() *Structure {
	c := &Structure{
		atoms:    make([]*Atom, len(s.atoms)),
		numAtoms: s.numAtoms,
		bonds:    make(map[BondKey]BondOrder, len(s.bonds)),
		grid:     make(map[cellKey][]AtomID, len(s.grid)),
	}
	for i, a := range s.atoms {
		if a != nil {
			copied := *a
			c.atoms[i] = &copied
		}
	}
	for key, order := range s.bonds {
		c.bonds[key] = order
	}
	for cell, ids := range s.grid {
		c.grid[cell] = append([]AtomID(nil), ids...)
	}
	return c
}

// Equal reports whether two structures hold the same atoms (id, element,
// position, flags) and the same bonds. Positions compare exactly.
func (s *Structure) Equal(o *Structure) bool {
	if s.numAtoms != o.numAtoms || len(s.bonds) != len(o.bonds) {
		return false
	}
	for _, a := range s.atoms {
		if a == nil {
			continue
		}
		other := o.atomRef(a.ID)
		if other == nil || *a != *other {
			return false
		}
	}
	for key, order := range s.bonds {
		if otherOrder, ok := o.bonds[key]; !ok || otherOrder != order {
			return false
		}
	}
	return true
}

// Merge copies all atoms and bonds of other into s, assigning fresh ids.
// Returns the mapping from other's atom ids to the new ids in s.
func (s *Structure) Merge(other *Structure) map[AtomID]AtomID {
	remap := make(map[AtomID]AtomID, other.NumAtoms())

	other.EachAtom(func(a Atom) bool {
		id := s.AddAtom(a.Element, a.Pos)
		s.SetAtomFlags(id, a.Flags)
		remap[a.ID] = id
		return true
	})

	other.EachBond(func(key BondKey, order BondOrder) bool {
		s.SetBond(remap[key.A], remap[key.B], order)
		return true
	})

	return remap
}
