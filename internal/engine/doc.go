// Package engine provides the core diff-application engine for Atomedit.
//
// The engine package serves as the main facade, combining positional
// matching, result building, and bond resolution into a single Apply
// operation that layers a structure diff onto a base structure without
// mutating either input.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - structure: spatially indexed atomic structure store
//   - diff: sparse overlay of additions, deletions, replacements, and moves
//   - match: greedy nearest-first pairing of diff entries with base atoms
//   - merge: three-pass atom builder and two-pass bond resolver
//
// # Basic Usage
//
// Apply a diff to a base structure:
//
//	e := engine.New()
//
//	res, err := e.Apply(base, d)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Structure.NumAtoms(), res.Diagnostics)
//
// Or use the package-level convenience with an explicit tolerance:
//
//	tol, _ := engine.NewTolerance(0.05)
//	res, _ := engine.ApplyDiff(base, d, tol)
//
// # Determinism
//
// Apply is a pure function of its inputs: the same base, diff, and
// tolerance always produce an identical structure, identical diagnostics,
// and identical provenance. Ambiguous pairings are broken by (distance,
// diff id, base id) ascending, so no hidden iteration order leaks into
// the result.
//
// # Diagnostics
//
// Apply never fails on a stale diff. Entries whose base atoms have
// disappeared, delete markers with nothing to delete, and bonds
// referencing dropped atoms are skipped and counted in the returned
// Diagnostics instead.
//
// # Error Handling
//
//   - ErrNonPositiveTolerance: tolerance must be > 0
//   - ErrNilStructure: base structure is nil
//   - ErrNilDiff: diff is nil
package engine
