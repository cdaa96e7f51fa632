package session

import "atomedit/internal/engine/structure"

// Selection tracks what the user has selected, split by origin so it
// survives re-evaluation: base atoms and diff entries keep their own id
// spaces, while bond selection lives in result space and is cleared on
// any diff mutation.
type Selection struct {
	BaseAtoms   map[structure.AtomID]bool
	DiffEntries map[structure.AtomID]bool
	Bonds       map[structure.BondKey]bool
}

func newSelection() Selection {
	return Selection{
		BaseAtoms:   make(map[structure.AtomID]bool),
		DiffEntries: make(map[structure.AtomID]bool),
		Bonds:       make(map[structure.BondKey]bool),
	}
}

// Empty reports whether nothing is selected.
func (sel *Selection) Empty() bool {
	return len(sel.BaseAtoms) == 0 && len(sel.DiffEntries) == 0 && len(sel.Bonds) == 0
}

func (sel *Selection) clearAtoms() {
	sel.BaseAtoms = make(map[structure.AtomID]bool)
	sel.DiffEntries = make(map[structure.AtomID]bool)
}

func (sel *Selection) clearBonds() {
	sel.Bonds = make(map[structure.BondKey]bool)
}

// pruneEntries drops selected diff entries that no longer exist.
func (sel *Selection) pruneEntries(exists func(structure.AtomID) bool) {
	for id := range sel.DiffEntries {
		if !exists(id) {
			delete(sel.DiffEntries, id)
		}
	}
}
