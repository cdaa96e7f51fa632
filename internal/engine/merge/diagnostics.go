package merge

import "fmt"

// Diagnostics counts the degenerate cases absorbed during a diff
// application. None of them abort the computation; callers surface them
// as non-fatal warnings.
//
// Two further degenerate cases stay intentionally uncounted because they
// are harmless or unavoidable after upstream edits: stale identifiers in
// a separately-maintained selection set, and a deletion-sentinel bond
// with no matching base bond.
type Diagnostics struct {
	// OrphanedTrackedAtoms counts diff entries that track a base atom
	// (replacement or move) whose target no longer exists.
	OrphanedTrackedAtoms int

	// UnmatchedDeleteMarkers counts delete markers whose target no
	// longer exists.
	UnmatchedDeleteMarkers int

	// OrphanedBonds counts diff bonds with an endpoint that could not be
	// mapped into the result.
	OrphanedBonds int
}

// Add accumulates another set of counters into d.
func (d *Diagnostics) Add(o Diagnostics) {
	d.OrphanedTrackedAtoms += o.OrphanedTrackedAtoms
	d.UnmatchedDeleteMarkers += o.UnmatchedDeleteMarkers
	d.OrphanedBonds += o.OrphanedBonds
}

// Total returns the sum of all counters.
func (d Diagnostics) Total() int {
	return d.OrphanedTrackedAtoms + d.UnmatchedDeleteMarkers + d.OrphanedBonds
}

// IsZero reports whether no degenerate cases were encountered.
func (d Diagnostics) IsZero() bool {
	return d.Total() == 0
}

// String returns a short human-readable summary.
func (d Diagnostics) String() string {
	return fmt.Sprintf("orphaned tracked atoms: %d, unmatched delete markers: %d, orphaned bonds: %d",
		d.OrphanedTrackedAtoms, d.UnmatchedDeleteMarkers, d.OrphanedBonds)
}

// Stats summarizes the effect of a diff application. Unlike Diagnostics
// these describe the expected work done, not degenerate cases.
type Stats struct {
	AtomsAdded    int
	AtomsDeleted  int
	AtomsModified int
	BondsAdded    int
	BondsDeleted  int
}

// Add accumulates another set of stats into s.
func (s *Stats) Add(o Stats) {
	s.AtomsAdded += o.AtomsAdded
	s.AtomsDeleted += o.AtomsDeleted
	s.AtomsModified += o.AtomsModified
	s.BondsAdded += o.BondsAdded
	s.BondsDeleted += o.BondsDeleted
}
