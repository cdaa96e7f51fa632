// Package merge builds the result of applying a diff to a base structure
// from a committed positional matching.
//
// The atom builder runs three disjoint passes (matched entries, unmatched
// entries, unmatched base atoms); the bond resolver then reconciles base
// bonds and overlay bonds over the freshly built atom set. Both never
// mutate their inputs and absorb every degenerate case into diagnostics
// counters instead of failing.
package merge

import (
	"atomedit/internal/engine/diff"
	"atomedit/internal/engine/match"
	"atomedit/internal/engine/structure"
)

// Build is the accumulated output of applying a diff: the result
// structure under construction plus everything downstream consumers need
// to interpret it.
type Build struct {
	Result      *structure.Structure
	Provenance  *Provenance
	Diagnostics Diagnostics
	Stats       Stats

	// deletedBase marks base atoms removed by matched delete markers.
	deletedBase map[structure.AtomID]bool
	// baseToDiff maps matched base atoms to their diff entries.
	baseToDiff map[structure.AtomID]structure.AtomID
}

// BuildAtoms combines matched and unmatched atoms from both sides into
// the output atom set. The three passes are independent of each other:
// no pass reads another's output.
func BuildAtoms(base *structure.Structure, d *diff.Diff, m match.Result) *Build {
	b := &Build{
		Result:      structure.New(),
		Provenance:  NewProvenance(),
		deletedBase: make(map[structure.AtomID]bool),
		baseToDiff:  make(map[structure.AtomID]structure.AtomID, len(m.Pairs)),
	}

	// Pass 1: matched diff entries. A delete marker drops its base atom;
	// anything else emits the entry's element and position while the
	// base atom's identity is retained through provenance.
	for _, p := range m.Pairs {
		b.baseToDiff[p.BaseID] = p.DiffID

		e, ok := d.Entry(p.DiffID)
		if !ok {
			continue
		}

		if e.Kind == diff.KindDelete {
			b.deletedBase[p.BaseID] = true
			b.Stats.AtomsDeleted++
			continue
		}

		id := b.Result.AddAtom(e.Element, e.Pos)
		b.Result.SetAtomFlags(id, e.Flags)
		b.Provenance.Sources[id] = Source{Kind: SourceDiffMatchedBase, BaseID: p.BaseID, DiffID: p.DiffID}
		b.Provenance.BaseToResult[p.BaseID] = id
		b.Provenance.DiffToResult[p.DiffID] = id
		b.Stats.AtomsModified++
	}

	// Pass 2: unmatched diff entries. Delete markers with nothing to
	// delete are no-ops; tracked entries whose anchor target vanished
	// are dropped rather than reattached to an unrelated atom; genuine
	// additions are emitted unchanged.
	for _, diffID := range m.UnmatchedDiff {
		e, ok := d.Entry(diffID)
		if !ok {
			continue
		}

		switch {
		case e.Kind == diff.KindDelete:
			b.Diagnostics.UnmatchedDeleteMarkers++

		case e.TracksBase():
			b.Diagnostics.OrphanedTrackedAtoms++

		default:
			id := b.Result.AddAtom(e.Element, e.Pos)
			b.Result.SetAtomFlags(id, e.Flags)
			b.Provenance.Sources[id] = Source{Kind: SourceDiffAdded, DiffID: diffID}
			b.Provenance.DiffToResult[diffID] = id
			b.Stats.AtomsAdded++
		}
	}

	// Pass 3: unmatched base atoms pass through unchanged.
	for _, baseID := range m.UnmatchedBase {
		a, ok := base.Atom(baseID)
		if !ok {
			continue
		}
		id := b.Result.AddAtom(a.Element, a.Pos)
		b.Result.SetAtomFlags(id, a.Flags)
		b.Provenance.Sources[id] = Source{Kind: SourceBasePassthrough, BaseID: baseID}
		b.Provenance.BaseToResult[baseID] = id
	}

	return b
}

// ResolveBonds reconciles base bonds and diff overlay bonds into the
// result bond set, honoring explicit deletions and overrides.
func ResolveBonds(base *structure.Structure, d *diff.Diff, b *Build) {
	// Overlay bonds consumed while carrying over base bonds must not be
	// added again in pass B.
	consumed := make(map[structure.BondKey]bool)

	// Pass A: base bond carry-over.
	base.EachBond(func(key structure.BondKey, order structure.BondOrder) bool {
		if b.deletedBase[key.A] || b.deletedBase[key.B] {
			b.Stats.BondsDeleted++
			return true
		}

		resultA, okA := b.Provenance.BaseToResult[key.A]
		resultB, okB := b.Provenance.BaseToResult[key.B]
		if !okA || !okB {
			return true
		}

		diffA, matchedA := b.baseToDiff[key.A]
		diffB, matchedB := b.baseToDiff[key.B]
		if !matchedA || !matchedB {
			// At most one endpoint matched: the base bond survives
			// unchanged regardless of overlay bonds.
			b.Result.SetBond(resultA, resultB, order)
			return true
		}

		diffKey := structure.MakeBondKey(diffA, diffB)
		overlayOrder, hasOverlay := d.BondOrderBetween(diffA, diffB)
		if !hasOverlay {
			b.Result.SetBond(resultA, resultB, order)
			return true
		}

		consumed[diffKey] = true
		if overlayOrder == structure.OrderDeleted {
			b.Stats.BondsDeleted++
		} else {
			b.Result.SetBond(resultA, resultB, overlayOrder)
		}
		return true
	})

	// Pass B: new diff bonds.
	d.EachBond(func(key structure.BondKey, order structure.BondOrder) bool {
		if consumed[key] {
			return true
		}
		if order == structure.OrderDeleted {
			// Deletion sentinel with no corresponding base bond:
			// harmless no-op, intentionally uncounted.
			return true
		}

		resultA, okA := b.Provenance.DiffToResult[key.A]
		resultB, okB := b.Provenance.DiffToResult[key.B]
		if !okA || !okB {
			b.Diagnostics.OrphanedBonds++
			return true
		}

		b.Result.SetBond(resultA, resultB, order)
		b.Stats.BondsAdded++
		return true
	})
}
