package structure

import (
	"fmt"
	"strings"
)

// detailLimit caps how many atoms and bonds DetailString lists.
const detailLimit = 10

// DetailString returns a stable multi-line summary of the structure,
// suitable for snapshot comparisons in tests and for CLI inspection.
// Lists counts plus the first few atoms and bonds in id order.
func (s *Structure) DetailString() string {
	var lines []string

	lines = append(lines, fmt.Sprintf("atoms: %d", s.numAtoms))
	lines = append(lines, fmt.Sprintf("bonds: %d", len(s.bonds)))

	shown := 0
	s.EachAtom(func(a Atom) bool {
		if shown == 0 {
			n := s.numAtoms
			if n > detailLimit {
				n = detailLimit
			}
			lines = append(lines, fmt.Sprintf("first %d atoms:", n))
		}
		lines = append(lines, fmt.Sprintf(
			"  [%d] Z=%d pos=(%.6f, %.6f, %.6f) flags=%d",
			a.ID, a.Element, a.Pos.X, a.Pos.Y, a.Pos.Z, a.Flags))
		shown++
		return shown < detailLimit
	})
	if s.numAtoms > detailLimit {
		lines = append(lines, fmt.Sprintf("  ... and %d more atoms", s.numAtoms-detailLimit))
	}

	shown = 0
	s.EachBond(func(key BondKey, order BondOrder) bool {
		if shown == 0 {
			n := len(s.bonds)
			if n > detailLimit {
				n = detailLimit
			}
			lines = append(lines, fmt.Sprintf("first %d bonds:", n))
		}
		lines = append(lines, fmt.Sprintf("  %d -- %d (order=%d)", key.A, key.B, order))
		shown++
		return shown < detailLimit
	})
	if len(s.bonds) > detailLimit {
		lines = append(lines, fmt.Sprintf("  ... and %d more bonds", len(s.bonds)-detailLimit))
	}

	return strings.Join(lines, "\n")
}
