package structure

import (
	"strings"
	"testing"
)

// ============================================================================
// Atom Operations
// ============================================================================

func TestAddAtom(t *testing.T) {
	s := New()

	id := s.AddAtom(6, Vec3{X: 1, Y: 2, Z: 3})
	if id != 1 {
		t.Errorf("expected first id 1, got %d", id)
	}
	if s.NumAtoms() != 1 {
		t.Errorf("expected 1 atom, got %d", s.NumAtoms())
	}

	a, ok := s.Atom(id)
	if !ok {
		t.Fatal("expected atom to exist")
	}
	if a.Element != 6 {
		t.Errorf("expected element 6, got %d", a.Element)
	}
	if a.Pos != (Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("unexpected position %v", a.Pos)
	}
}

func TestAtomIDsSequential(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		s.AddAtom(1, Vec3{X: float64(i)})
	}

	ids := s.AtomIDs()
	if len(ids) != 5 {
		t.Fatalf("expected 5 ids, got %d", len(ids))
	}
	for i, id := range ids {
		if id != AtomID(i+1) {
			t.Errorf("expected id %d at index %d, got %d", i+1, i, id)
		}
	}
}

func TestAtomZeroID(t *testing.T) {
	s := New()
	s.AddAtom(6, Vec3{})

	if _, ok := s.Atom(0); ok {
		t.Error("id 0 should never resolve to an atom")
	}
}

func TestDeleteAtom(t *testing.T) {
	s := New()
	a := s.AddAtom(6, Vec3{})
	b := s.AddAtom(1, Vec3{X: 1})
	s.SetBond(a, b, OrderSingle)

	s.DeleteAtom(a)

	if s.NumAtoms() != 1 {
		t.Errorf("expected 1 atom after delete, got %d", s.NumAtoms())
	}
	if s.NumBonds() != 0 {
		t.Errorf("expected incident bond removed, got %d bonds", s.NumBonds())
	}
	if _, ok := s.Atom(a); ok {
		t.Error("deleted atom should not resolve")
	}

	// Ids are not reused after deletion.
	c := s.AddAtom(8, Vec3{X: 2})
	if c != 3 {
		t.Errorf("expected fresh id 3, got %d", c)
	}
}

func TestDeleteAtomTwice(t *testing.T) {
	s := New()
	id := s.AddAtom(6, Vec3{})

	s.DeleteAtom(id)
	s.DeleteAtom(id) // no-op

	if s.NumAtoms() != 0 {
		t.Errorf("expected 0 atoms, got %d", s.NumAtoms())
	}
}

func TestSetAtomPosition(t *testing.T) {
	s := New()
	id := s.AddAtom(6, Vec3{})

	if !s.SetAtomPosition(id, Vec3{X: 10}) {
		t.Fatal("expected SetAtomPosition to succeed")
	}
	a, _ := s.Atom(id)
	if a.Pos.X != 10 {
		t.Errorf("expected x=10, got %v", a.Pos.X)
	}

	// The grid must track the move.
	if got := s.AtomsInRadius(Vec3{X: 10}, 0.1); len(got) != 1 || got[0] != id {
		t.Errorf("expected atom at new position, got %v", got)
	}
	if got := s.AtomsInRadius(Vec3{}, 0.1); len(got) != 0 {
		t.Errorf("expected no atom at old position, got %v", got)
	}
}

func TestSetAtomPositionMissing(t *testing.T) {
	s := New()
	if s.SetAtomPosition(42, Vec3{}) {
		t.Error("expected false for unknown atom")
	}
}

func TestReplaceAtom(t *testing.T) {
	s := New()
	id := s.AddAtom(6, Vec3{})

	if !s.ReplaceAtom(id, 14) {
		t.Fatal("expected ReplaceAtom to succeed")
	}
	a, _ := s.Atom(id)
	if a.Element != 14 {
		t.Errorf("expected element 14, got %d", a.Element)
	}
}

func TestAtomFlags(t *testing.T) {
	s := New()
	id := s.AddAtom(6, Vec3{})

	s.SetSelected(id, true)
	a, _ := s.Atom(id)
	if !a.Selected() {
		t.Error("expected selected flag set")
	}

	s.SetSelected(id, false)
	a, _ = s.Atom(id)
	if a.Selected() {
		t.Error("expected selected flag cleared")
	}

	s.SetAtomFlags(id, FlagPassivated)
	a, _ = s.Atom(id)
	if !a.Passivated() || a.Selected() {
		t.Errorf("expected only passivated flag, got %d", a.Flags)
	}
}

// ============================================================================
// Bond Operations
// ============================================================================

func TestSetBond(t *testing.T) {
	s := New()
	a := s.AddAtom(6, Vec3{})
	b := s.AddAtom(6, Vec3{X: 1.5})

	if !s.SetBond(a, b, OrderSingle) {
		t.Fatal("expected SetBond to succeed")
	}
	if s.NumBonds() != 1 {
		t.Errorf("expected 1 bond, got %d", s.NumBonds())
	}
	if !s.HasBond(b, a) {
		t.Error("bond should be order-independent")
	}

	// Updating the order must not create a second bond.
	s.SetBond(b, a, OrderDouble)
	if s.NumBonds() != 1 {
		t.Errorf("expected 1 bond after update, got %d", s.NumBonds())
	}
	order, ok := s.BondOrderBetween(a, b)
	if !ok || order != OrderDouble {
		t.Errorf("expected order 2, got %d (ok=%v)", order, ok)
	}
}

func TestSetBondInvalid(t *testing.T) {
	s := New()
	a := s.AddAtom(6, Vec3{})

	if s.SetBond(a, a, OrderSingle) {
		t.Error("self-bond should be rejected")
	}
	if s.SetBond(a, 99, OrderSingle) {
		t.Error("bond to missing atom should be rejected")
	}
	if s.SetBond(a, a+1, OrderDeleted) {
		t.Error("deletion sentinel should be rejected in a structure")
	}
}

func TestDeleteBond(t *testing.T) {
	s := New()
	a := s.AddAtom(6, Vec3{})
	b := s.AddAtom(6, Vec3{X: 1.5})
	s.SetBond(a, b, OrderSingle)

	if !s.DeleteBond(b, a) {
		t.Fatal("expected DeleteBond to succeed")
	}
	if s.DeleteBond(a, b) {
		t.Error("expected false for missing bond")
	}
	if s.NumBonds() != 0 {
		t.Errorf("expected 0 bonds, got %d", s.NumBonds())
	}
}

func TestBondKeyCanonical(t *testing.T) {
	if MakeBondKey(5, 3) != (BondKey{A: 3, B: 5}) {
		t.Error("expected canonical ordering with smaller id first")
	}
	if MakeBondKey(3, 5) != MakeBondKey(5, 3) {
		t.Error("expected key to be order-independent")
	}

	key := MakeBondKey(3, 5)
	if key.Other(3) != 5 || key.Other(5) != 3 {
		t.Error("Other should return the opposite endpoint")
	}
	if key.Other(7) != 0 {
		t.Error("Other should return 0 for a non-endpoint")
	}
}

// ============================================================================
// Iteration, Clone, Equal, Merge
// ============================================================================

func TestEachAtomOrder(t *testing.T) {
	s := New()
	s.AddAtom(1, Vec3{})
	mid := s.AddAtom(2, Vec3{X: 1})
	s.AddAtom(3, Vec3{X: 2})
	s.DeleteAtom(mid)

	var got []AtomID
	s.EachAtom(func(a Atom) bool {
		got = append(got, a.ID)
		return true
	})
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("expected [1 3], got %v", got)
	}
}

func TestBondKeysSorted(t *testing.T) {
	s := New()
	for i := 0; i < 4; i++ {
		s.AddAtom(6, Vec3{X: float64(i)})
	}
	s.SetBond(3, 4, OrderSingle)
	s.SetBond(1, 2, OrderSingle)
	s.SetBond(1, 4, OrderSingle)

	keys := s.BondKeys()
	want := []BondKey{{A: 1, B: 2}, {A: 1, B: 4}, {A: 3, B: 4}}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %v, got %v", i, want[i], keys[i])
		}
	}
}

func TestCloneIndependence(t *testing.T) {
	s := New()
	a := s.AddAtom(6, Vec3{})
	b := s.AddAtom(1, Vec3{X: 1})
	s.SetBond(a, b, OrderSingle)

	c := s.Clone()
	if !s.Equal(c) {
		t.Fatal("clone should equal original")
	}

	c.DeleteAtom(a)
	if s.NumAtoms() != 2 || s.NumBonds() != 1 {
		t.Error("mutating the clone must not affect the original")
	}
	if s.Equal(c) {
		t.Error("structures should differ after clone mutation")
	}
}

func TestEqual(t *testing.T) {
	build := func() *Structure {
		s := New()
		a := s.AddAtom(6, Vec3{})
		b := s.AddAtom(8, Vec3{X: 1.2})
		s.SetBond(a, b, OrderDouble)
		return s
	}

	s1, s2 := build(), build()
	if !s1.Equal(s2) {
		t.Fatal("identically built structures should be equal")
	}

	s2.ReplaceAtom(1, 7)
	if s1.Equal(s2) {
		t.Error("expected inequality after element change")
	}
}

func TestMerge(t *testing.T) {
	s := New()
	s.AddAtom(6, Vec3{})

	other := New()
	oa := other.AddAtom(7, Vec3{X: 5})
	ob := other.AddAtom(8, Vec3{X: 6})
	other.SetBond(oa, ob, OrderTriple)
	other.SetAtomFlags(oa, FlagPassivated)

	idMap := s.Merge(other)
	if s.NumAtoms() != 3 {
		t.Fatalf("expected 3 atoms after merge, got %d", s.NumAtoms())
	}
	if s.NumBonds() != 1 {
		t.Fatalf("expected 1 bond after merge, got %d", s.NumBonds())
	}

	na, ok := s.Atom(idMap[oa])
	if !ok || na.Element != 7 || !na.Passivated() {
		t.Errorf("merged atom lost data: %+v (ok=%v)", na, ok)
	}
	order, ok := s.BondOrderBetween(idMap[oa], idMap[ob])
	if !ok || order != OrderTriple {
		t.Errorf("expected merged bond order 3, got %d (ok=%v)", order, ok)
	}

	// Source must be untouched.
	if other.NumAtoms() != 2 || other.NumBonds() != 1 {
		t.Error("merge must not mutate the source structure")
	}
}

// ============================================================================
// DetailString
// ============================================================================

func TestDetailString(t *testing.T) {
	s := New()
	a := s.AddAtom(6, Vec3{X: 1})
	b := s.AddAtom(1, Vec3{X: 2})
	s.SetBond(a, b, OrderSingle)

	detail := s.DetailString()
	for _, want := range []string{"atoms: 2", "bonds: 1", "[1] Z=6", "1 -- 2 (order=1)"} {
		if !strings.Contains(detail, want) {
			t.Errorf("expected detail to contain %q, got:\n%s", want, detail)
		}
	}
}

func TestDetailStringTruncates(t *testing.T) {
	s := New()
	for i := 0; i < 15; i++ {
		s.AddAtom(6, Vec3{X: float64(i) * 2})
	}

	detail := s.DetailString()
	if !strings.Contains(detail, "... and 5 more atoms") {
		t.Errorf("expected truncation marker, got:\n%s", detail)
	}
}
