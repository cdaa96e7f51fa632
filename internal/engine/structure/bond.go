package structure

// BondOrder is the order of a bond (single = 1, double = 2, ...). Orders
// are small unsigned integers; nothing prevents an unrealistic value.
type BondOrder uint8

// Bond order values. OrderDeleted is a sentinel used only in diff
// documents: it marks an existing base bond for removal and never appears
// in a base or result structure.
const (
	OrderDeleted   BondOrder = 0
	OrderSingle    BondOrder = 1
	OrderDouble    BondOrder = 2
	OrderTriple    BondOrder = 3
	OrderQuadruple BondOrder = 4
	OrderAromatic  BondOrder = 5
	OrderDative    BondOrder = 6
	OrderMetallic  BondOrder = 7
)

// BondKey is the canonical unordered pair of atom ids identifying a bond.
// A is always the smaller id.
type BondKey struct {
	A, B AtomID
}

// MakeBondKey returns the canonical key for the pair (a, b).
func MakeBondKey(a, b AtomID) BondKey {
	if a < b {
		return BondKey{A: a, B: b}
	}
	return BondKey{A: b, B: a}
}

// Other returns the endpoint of the bond that is not id. Returns 0 when
// id is not an endpoint.
func (k BondKey) Other(id AtomID) AtomID {
	switch id {
	case k.A:
		return k.B
	case k.B:
		return k.A
	default:
		return 0
	}
}

// Less orders bond keys by (A, B) ascending, used for deterministic
// iteration.
func (k BondKey) Less(o BondKey) bool {
	if k.A != o.A {
		return k.A < o.A
	}
	return k.B < o.B
}
