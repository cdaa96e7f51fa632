// Package match computes the positional correspondence between a diff and
// a base structure.
//
// Every diff entry is matched against base atoms within a tolerance of its
// match position. All candidate pairs are ranked globally by distance and
// committed greedily, so the result is a maximal greedy approximation of
// nearest-neighbor bipartite matching. That is acceptable because the
// tolerance is small relative to inter-atomic spacing: ambiguity is rare
// and locality dominates correctness.
package match

import (
	"math"
	"sort"

	"atomedit/internal/engine/diff"
	"atomedit/internal/engine/structure"
)

// Pair is a committed correspondence between a diff entry and a base atom.
type Pair struct {
	DiffID structure.AtomID
	BaseID structure.AtomID
	// Dist is the distance between the entry's match position and the
	// base atom.
	Dist float64
}

// Result is the outcome of matching: committed pairs plus the entries and
// base atoms left unclaimed. Unmatched lists are in ascending id order.
type Result struct {
	Pairs         []Pair
	UnmatchedDiff []structure.AtomID
	UnmatchedBase []structure.AtomID
}

// DiffFor returns the diff entry matched to a base atom, if any.
func (r Result) DiffFor(baseID structure.AtomID) (structure.AtomID, bool) {
	for _, p := range r.Pairs {
		if p.BaseID == baseID {
			return p.DiffID, true
		}
	}
	return 0, false
}

// candidate is one potential (diff, base) pairing within tolerance.
type candidate struct {
	diffID structure.AtomID
	baseID structure.AtomID
	distSq float64
}

// Match computes the one-to-one correspondence between diff entries and
// base atoms under the given tolerance. Callers must validate
// tolerance > 0.
//
// Candidates are ordered by distance ascending with an explicit tie-break
// of ascending diff id then ascending base id, so the result is fully
// deterministic regardless of map iteration order.
func Match(base *structure.Structure, d *diff.Diff, tolerance float64) Result {
	toleranceSq := tolerance * tolerance

	var candidates []candidate
	d.EachEntry(func(e diff.Entry) bool {
		pos := e.MatchPos()
		for _, baseID := range base.AtomsInRadius(pos, tolerance) {
			baseAtom, ok := base.Atom(baseID)
			if !ok {
				continue
			}
			distSq := pos.DistSq(baseAtom.Pos)
			if distSq <= toleranceSq {
				candidates = append(candidates, candidate{
					diffID: e.ID,
					baseID: baseID,
					distSq: distSq,
				})
			}
		}
		return true
	})

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.distSq != b.distSq {
			return a.distSq < b.distSq
		}
		if a.diffID != b.diffID {
			return a.diffID < b.diffID
		}
		return a.baseID < b.baseID
	})

	claimedDiff := make(map[structure.AtomID]bool)
	claimedBase := make(map[structure.AtomID]bool)

	var result Result
	for _, c := range candidates {
		if claimedDiff[c.diffID] || claimedBase[c.baseID] {
			continue
		}
		claimedDiff[c.diffID] = true
		claimedBase[c.baseID] = true
		result.Pairs = append(result.Pairs, Pair{
			DiffID: c.diffID,
			BaseID: c.baseID,
			Dist:   math.Sqrt(c.distSq),
		})
	}

	for _, id := range d.EntryIDs() {
		if !claimedDiff[id] {
			result.UnmatchedDiff = append(result.UnmatchedDiff, id)
		}
	}
	for _, id := range base.AtomIDs() {
		if !claimedBase[id] {
			result.UnmatchedBase = append(result.UnmatchedBase, id)
		}
	}

	return result
}
