package structio

import "atomedit/internal/engine/structure"

// BondDistanceMultiplier scales the sum of covalent radii when deciding
// whether two atoms are close enough to bond.
const BondDistanceMultiplier = 1.15

// AutoBond adds single bonds between atoms whose distance is at most
// the sum of their covalent radii times mult (non-positive mult means
// BondDistanceMultiplier). Existing bonds keep their order. Returns the
// number of bonds added.
func AutoBond(s *structure.Structure, mult float64) int {
	if mult <= 0 {
		mult = BondDistanceMultiplier
	}

	added := 0
	s.EachAtom(func(a structure.Atom) bool {
		ra := CovalentRadius(a.Element)
		// The partner's radius is unknown until we look it up, so
		// search as if it had the largest radius in the table.
		search := (ra + maxCovalentRadius) * mult
		for _, otherID := range s.AtomsInRadius(a.Pos, search) {
			// Each pair once.
			if otherID <= a.ID {
				continue
			}
			other, ok := s.Atom(otherID)
			if !ok {
				continue
			}
			limit := (ra + CovalentRadius(other.Element)) * mult
			if a.Pos.Dist(other.Pos) > limit {
				continue
			}
			if s.HasBond(a.ID, otherID) {
				continue
			}
			if s.SetBond(a.ID, otherID, structure.OrderSingle) {
				added++
			}
		}
		return true
	})
	return added
}
