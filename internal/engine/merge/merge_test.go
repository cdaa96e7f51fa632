package merge

import (
	"testing"

	"atomedit/internal/engine/diff"
	"atomedit/internal/engine/match"
	"atomedit/internal/engine/structure"
)

const tol = 0.1

func apply(base *structure.Structure, d *diff.Diff) *Build {
	m := match.Match(base, d, tol)
	b := BuildAtoms(base, d, m)
	ResolveBonds(base, d, b)
	return b
}

// ============================================================================
// Atom Passes
// ============================================================================

func TestMatchedDeleteMarker(t *testing.T) {
	base := structure.New()
	b1 := base.AddAtom(6, structure.Vec3{})
	b2 := base.AddAtom(1, structure.Vec3{X: 1})
	base.SetBond(b1, b2, structure.OrderSingle)

	d := diff.New()
	d.MarkDelete(structure.Vec3{})

	b := apply(base, d)
	if b.Result.NumAtoms() != 1 {
		t.Fatalf("expected 1 atom, got %d", b.Result.NumAtoms())
	}
	if b.Result.NumBonds() != 0 {
		t.Errorf("expected incident bond dropped, got %d", b.Result.NumBonds())
	}
	if !b.Diagnostics.IsZero() {
		t.Errorf("expected no diagnostics, got %v", b.Diagnostics)
	}
	if b.Stats.AtomsDeleted != 1 || b.Stats.BondsDeleted != 1 {
		t.Errorf("expected 1 atom + 1 bond deleted, got %+v", b.Stats)
	}

	// The surviving atom is the untouched passthrough.
	id, ok := b.Provenance.BaseToResult[b2]
	if !ok {
		t.Fatal("expected passthrough mapping for surviving base atom")
	}
	a, _ := b.Result.Atom(id)
	if a.Element != 1 {
		t.Errorf("expected element 1, got %d", a.Element)
	}
}

func TestMatchedReplacement(t *testing.T) {
	base := structure.New()
	b1 := base.AddAtom(6, structure.Vec3{})

	d := diff.New()
	e1 := d.Replace(14, structure.Vec3{})

	b := apply(base, d)
	if b.Result.NumAtoms() != 1 {
		t.Fatalf("expected 1 atom, got %d", b.Result.NumAtoms())
	}

	id := b.Provenance.DiffToResult[e1]
	a, ok := b.Result.Atom(id)
	if !ok || a.Element != 14 {
		t.Errorf("expected replaced element 14, got %+v (ok=%v)", a, ok)
	}

	src := b.Provenance.Sources[id]
	if src.Kind != SourceDiffMatchedBase || src.BaseID != b1 || src.DiffID != e1 {
		t.Errorf("unexpected provenance %+v", src)
	}
	if b.Stats.AtomsModified != 1 {
		t.Errorf("expected 1 modified, got %+v", b.Stats)
	}
}

func TestMatchedMoveEmitsTargetPosition(t *testing.T) {
	base := structure.New()
	base.AddAtom(6, structure.Vec3{})

	d := diff.New()
	e1 := d.Move(6, structure.Vec3{}, structure.Vec3{X: 2.5})

	b := apply(base, d)
	id := b.Provenance.DiffToResult[e1]
	a, _ := b.Result.Atom(id)
	if a.Pos.X != 2.5 {
		t.Errorf("expected moved atom at x=2.5, got %v", a.Pos)
	}
}

func TestUnmatchedAddition(t *testing.T) {
	base := structure.New()

	d := diff.New()
	e1 := d.AddAtom(7, structure.Vec3{X: 3})

	b := apply(base, d)
	if b.Result.NumAtoms() != 1 {
		t.Fatalf("expected 1 atom, got %d", b.Result.NumAtoms())
	}
	if !b.Diagnostics.IsZero() {
		t.Errorf("expected no diagnostics, got %v", b.Diagnostics)
	}

	id := b.Provenance.DiffToResult[e1]
	if src := b.Provenance.Sources[id]; src.Kind != SourceDiffAdded {
		t.Errorf("expected DiffAdded source, got %+v", src)
	}
	if b.Stats.AtomsAdded != 1 {
		t.Errorf("expected 1 added, got %+v", b.Stats)
	}
}

func TestOrphanedTrackedEntryDropped(t *testing.T) {
	// The base atom this entry tracked was moved upstream; nothing is
	// within tolerance of the anchor anymore.
	base := structure.New()
	b1 := base.AddAtom(6, structure.Vec3{X: 5})

	d := diff.New()
	d.Move(6, structure.Vec3{}, structure.Vec3{X: 0.5})

	b := apply(base, d)
	if b.Diagnostics.OrphanedTrackedAtoms != 1 {
		t.Errorf("expected 1 orphaned tracked atom, got %v", b.Diagnostics)
	}
	if b.Result.NumAtoms() != 1 {
		t.Fatalf("expected only the passthrough atom, got %d", b.Result.NumAtoms())
	}

	id := b.Provenance.BaseToResult[b1]
	a, _ := b.Result.Atom(id)
	if a.Pos.X != 5 {
		t.Errorf("expected base atom untouched at x=5, got %v", a.Pos)
	}
}

func TestUnmatchedDeleteMarkerIsNoOp(t *testing.T) {
	base := structure.New()
	base.AddAtom(6, structure.Vec3{X: 5})

	d := diff.New()
	d.MarkDelete(structure.Vec3{})

	b := apply(base, d)
	if b.Diagnostics.UnmatchedDeleteMarkers != 1 {
		t.Errorf("expected 1 unmatched delete marker, got %v", b.Diagnostics)
	}
	if b.Result.NumAtoms() != 1 {
		t.Errorf("expected base atom untouched, got %d atoms", b.Result.NumAtoms())
	}
	if b.Stats.AtomsDeleted != 0 {
		t.Errorf("expected nothing deleted, got %+v", b.Stats)
	}
}

func TestPassthroughKeepsFlags(t *testing.T) {
	base := structure.New()
	b1 := base.AddAtom(6, structure.Vec3{})
	base.SetAtomFlags(b1, structure.FlagPassivated)

	b := apply(base, diff.New())
	id := b.Provenance.BaseToResult[b1]
	a, _ := b.Result.Atom(id)
	if !a.Passivated() {
		t.Error("expected passthrough to keep flags")
	}
}

// ============================================================================
// Bond Resolution
// ============================================================================

func twoBondedAtoms() (*structure.Structure, structure.AtomID, structure.AtomID) {
	base := structure.New()
	b1 := base.AddAtom(6, structure.Vec3{})
	b2 := base.AddAtom(6, structure.Vec3{X: 1.5})
	base.SetBond(b1, b2, structure.OrderSingle)
	return base, b1, b2
}

func TestBaseBondSurvives(t *testing.T) {
	base, _, _ := twoBondedAtoms()

	b := apply(base, diff.New())
	if b.Result.NumBonds() != 1 {
		t.Fatalf("expected 1 bond, got %d", b.Result.NumBonds())
	}
}

func TestBondOverride(t *testing.T) {
	base, _, _ := twoBondedAtoms()

	d := diff.New()
	e1 := d.IdentityEntry(6, structure.Vec3{})
	e2 := d.IdentityEntry(6, structure.Vec3{X: 1.5})
	d.SetBond(e1, e2, structure.OrderDouble)

	b := apply(base, d)
	if b.Result.NumBonds() != 1 {
		t.Fatalf("expected single override bond, got %d", b.Result.NumBonds())
	}

	r1 := b.Provenance.DiffToResult[e1]
	r2 := b.Provenance.DiffToResult[e2]
	order, ok := b.Result.BondOrderBetween(r1, r2)
	if !ok || order != structure.OrderDouble {
		t.Errorf("expected override to order 2, got %d (ok=%v)", order, ok)
	}
	if b.Stats.BondsAdded != 0 {
		t.Errorf("override must not count as added bond, got %+v", b.Stats)
	}
}

func TestBondExplicitDeletion(t *testing.T) {
	base, _, _ := twoBondedAtoms()

	d := diff.New()
	e1 := d.IdentityEntry(6, structure.Vec3{})
	e2 := d.IdentityEntry(6, structure.Vec3{X: 1.5})
	d.MarkBondDeleted(e1, e2)

	b := apply(base, d)
	if b.Result.NumBonds() != 0 {
		t.Fatalf("expected bond explicitly deleted, got %d", b.Result.NumBonds())
	}
	if b.Stats.BondsDeleted != 1 {
		t.Errorf("expected 1 bond deleted, got %+v", b.Stats)
	}
	if !b.Diagnostics.IsZero() {
		t.Errorf("expected no diagnostics, got %v", b.Diagnostics)
	}
}

func TestBaseBondSurvivesWithOneMatchedEndpoint(t *testing.T) {
	base, _, _ := twoBondedAtoms()

	// Only one endpoint gets a diff entry; the overlay bond between the
	// entry and an addition elsewhere must not affect the base bond.
	d := diff.New()
	d.IdentityEntry(6, structure.Vec3{})

	b := apply(base, d)
	if b.Result.NumBonds() != 1 {
		t.Fatalf("expected base bond to survive, got %d bonds", b.Result.NumBonds())
	}
}

func TestNewDiffBond(t *testing.T) {
	base := structure.New()

	d := diff.New()
	e1 := d.AddAtom(6, structure.Vec3{})
	e2 := d.AddAtom(6, structure.Vec3{X: 1.5})
	d.SetBond(e1, e2, structure.OrderTriple)

	b := apply(base, d)
	if b.Result.NumBonds() != 1 {
		t.Fatalf("expected 1 new bond, got %d", b.Result.NumBonds())
	}
	if b.Stats.BondsAdded != 1 {
		t.Errorf("expected 1 bond added, got %+v", b.Stats)
	}
}

func TestOrphanedBond(t *testing.T) {
	// e2 tracks a base atom that no longer exists, so it is dropped and
	// the bond referencing it cannot be mapped.
	base := structure.New()

	d := diff.New()
	e1 := d.AddAtom(6, structure.Vec3{})
	e2 := d.Move(6, structure.Vec3{X: 5}, structure.Vec3{X: 1.5})
	d.SetBond(e1, e2, structure.OrderSingle)

	b := apply(base, d)
	if b.Diagnostics.OrphanedBonds != 1 {
		t.Errorf("expected 1 orphaned bond, got %v", b.Diagnostics)
	}
	if b.Diagnostics.OrphanedTrackedAtoms != 1 {
		t.Errorf("expected 1 orphaned tracked atom, got %v", b.Diagnostics)
	}
	if b.Result.NumBonds() != 0 {
		t.Errorf("expected no bonds, got %d", b.Result.NumBonds())
	}
}

func TestDeletionSentinelWithoutBaseBond(t *testing.T) {
	// The deletion sentinel targets a bond that does not exist in the
	// base: harmless no-op, intentionally uncounted.
	base := structure.New()
	base.AddAtom(6, structure.Vec3{})
	base.AddAtom(6, structure.Vec3{X: 1.5})

	d := diff.New()
	e1 := d.IdentityEntry(6, structure.Vec3{})
	e2 := d.IdentityEntry(6, structure.Vec3{X: 1.5})
	d.MarkBondDeleted(e1, e2)

	b := apply(base, d)
	if !b.Diagnostics.IsZero() {
		t.Errorf("expected no diagnostics, got %v", b.Diagnostics)
	}
	if b.Result.NumBonds() != 0 {
		t.Errorf("expected no bonds, got %d", b.Result.NumBonds())
	}
}

func TestBondToDeletedAtomDropped(t *testing.T) {
	base, _, _ := twoBondedAtoms()

	d := diff.New()
	d.MarkDelete(structure.Vec3{})

	b := apply(base, d)
	if b.Result.NumBonds() != 0 {
		t.Errorf("expected bond dropped with its endpoint, got %d", b.Result.NumBonds())
	}
	if b.Stats.BondsDeleted != 1 {
		t.Errorf("expected 1 bond deleted, got %+v", b.Stats)
	}
}

// ============================================================================
// Diagnostics
// ============================================================================

func TestDiagnosticsAccumulate(t *testing.T) {
	var d Diagnostics
	d.Add(Diagnostics{OrphanedTrackedAtoms: 1, OrphanedBonds: 2})
	d.Add(Diagnostics{UnmatchedDeleteMarkers: 3})

	if d.Total() != 6 {
		t.Errorf("expected total 6, got %d", d.Total())
	}
	if d.IsZero() {
		t.Error("expected non-zero diagnostics")
	}
	if (Diagnostics{}).Total() != 0 || !(Diagnostics{}).IsZero() {
		t.Error("zero value should report zero")
	}
}
