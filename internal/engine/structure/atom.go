package structure

// AtomID identifies an atom within a single structure. IDs are 1-indexed;
// 0 is never a valid id.
type AtomID uint32

// Element is an atomic number. The store does no chemical validation; any
// positive value is accepted.
type Element int16

// AtomFlags is a small bitset of per-atom boolean flags.
type AtomFlags uint8

const (
	// FlagSelected marks the atom as part of the active selection.
	FlagSelected AtomFlags = 1 << iota

	// FlagPassivated marks the atom as hydrogen-passivated.
	FlagPassivated
)

// Atom is a single atom record. Atoms are held by value; mutate them
// through Structure methods so the spatial grid stays consistent.
type Atom struct {
	ID      AtomID
	Element Element
	Pos     Vec3
	Flags   AtomFlags
}

// Selected reports whether the selected flag is set.
func (a Atom) Selected() bool {
	return a.Flags&FlagSelected != 0
}

// Passivated reports whether the hydrogen-passivation flag is set.
func (a Atom) Passivated() bool {
	return a.Flags&FlagPassivated != 0
}
