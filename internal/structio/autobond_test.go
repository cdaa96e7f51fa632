package structio

import (
	"strings"
	"testing"

	"atomedit/internal/engine/structure"
)

func TestAutoBondMethane(t *testing.T) {
	s, err := ReadXYZ(strings.NewReader(methaneXYZ))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	added := AutoBond(s, 0)
	if added != 4 {
		t.Errorf("expected 4 C-H bonds, got %d", added)
	}
	if s.NumBonds() != 4 {
		t.Errorf("expected 4 bonds in structure, got %d", s.NumBonds())
	}
	// All bonds involve the carbon; no H-H bonds.
	s.EachBond(func(key structure.BondKey, order structure.BondOrder) bool {
		if key.A != 1 {
			t.Errorf("unexpected bond %d-%d", key.A, key.B)
		}
		if order != structure.OrderSingle {
			t.Errorf("expected single bond, got order %d", order)
		}
		return true
	})
}

func TestAutoBondKeepsExistingOrder(t *testing.T) {
	s := structure.New()
	a := s.AddAtom(6, structure.Vec3{})
	b := s.AddAtom(6, structure.Vec3{X: 1.3})
	s.SetBond(a, b, structure.OrderDouble)

	if added := AutoBond(s, 0); added != 0 {
		t.Errorf("expected no new bonds, got %d", added)
	}
	if order, _ := s.BondOrderBetween(a, b); order != structure.OrderDouble {
		t.Errorf("existing bond order changed to %d", order)
	}
}

func TestAutoBondRespectsDistance(t *testing.T) {
	s := structure.New()
	s.AddAtom(6, structure.Vec3{})
	s.AddAtom(6, structure.Vec3{X: 2.0}) // beyond (0.76+0.76)*1.15

	if added := AutoBond(s, 0); added != 0 {
		t.Errorf("expected no bonds, got %d", added)
	}
}

func TestAutoBondLargeRadiusPair(t *testing.T) {
	s := structure.New()
	k1 := s.AddAtom(19, structure.Vec3{})
	k2 := s.AddAtom(19, structure.Vec3{X: 4.3}) // within (2.03+2.03)*1.15

	if added := AutoBond(s, 0); added != 1 {
		t.Fatalf("expected 1 K-K bond, got %d", added)
	}
	if !s.HasBond(k1, k2) {
		t.Error("expected K-K bond in structure")
	}
}

func TestAutoBondCustomMultiplier(t *testing.T) {
	s := structure.New()
	s.AddAtom(6, structure.Vec3{})
	s.AddAtom(6, structure.Vec3{X: 2.0})

	if added := AutoBond(s, 1.4); added != 1 {
		t.Errorf("expected 1 bond with loose multiplier, got %d", added)
	}
}

func TestAutoBondEmpty(t *testing.T) {
	if added := AutoBond(structure.New(), 0); added != 0 {
		t.Errorf("expected 0, got %d", added)
	}
}
