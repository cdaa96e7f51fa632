package engine

import (
	"log/slog"
	"math"
	"sync"

	"atomedit/internal/engine/diff"
	"atomedit/internal/engine/match"
	"atomedit/internal/engine/merge"
	"atomedit/internal/engine/structure"
)

// Re-export commonly used types for convenience.
type (
	// Structure is the spatially indexed atomic structure store.
	Structure = structure.Structure

	// Atom is a single atom with identity, element, position, and flags.
	Atom = structure.Atom

	// AtomID identifies an atom within a structure or a diff.
	AtomID = structure.AtomID

	// Element is an atomic number.
	Element = structure.Element

	// Vec3 is a 3D position in angstroms.
	Vec3 = structure.Vec3

	// BondKey is a canonical unordered atom pair.
	BondKey = structure.BondKey

	// BondOrder is the multiplicity of a bond.
	BondOrder = structure.BondOrder

	// Diff is a sparse overlay of edits against an unspecified base.
	Diff = diff.Diff

	// Entry is a single diff record.
	Entry = diff.Entry

	// Diagnostics counts the stale diff references skipped during apply.
	Diagnostics = merge.Diagnostics

	// Provenance maps result atoms back to the inputs that produced them.
	Provenance = merge.Provenance

	// Source describes where one result atom came from.
	Source = merge.Source

	// Stats summarizes the changes an apply made relative to its base.
	Stats = merge.Stats
)

// Re-export constants.
const (
	OrderDeleted = structure.OrderDeleted
	OrderSingle  = structure.OrderSingle
	OrderDouble  = structure.OrderDouble
	OrderTriple  = structure.OrderTriple

	SourceBasePassthrough = merge.SourceBasePassthrough
	SourceDiffMatchedBase = merge.SourceDiffMatchedBase
	SourceDiffAdded       = merge.SourceDiffAdded
)

// Tolerance is a validated matching radius in angstroms. Diff entries
// pair with base atoms no farther than this from their match position.
type Tolerance float64

// DefaultTolerance is the matching radius used when none is configured.
const DefaultTolerance Tolerance = 0.1

// NewTolerance validates v and returns it as a Tolerance.
func NewTolerance(v float64) (Tolerance, error) {
	t := Tolerance(v)
	if !t.Valid() {
		return 0, ErrNonPositiveTolerance
	}
	return t, nil
}

// Valid reports whether the tolerance is positive and finite.
func (t Tolerance) Valid() bool {
	f := float64(t)
	return f > 0 && !math.IsInf(f, 1) && !math.IsNaN(f)
}

// Float returns the tolerance as a float64.
func (t Tolerance) Float() float64 { return float64(t) }

// Result is the outcome of applying a diff to a base structure.
type Result struct {
	// Structure is the merged structure. It shares no state with the
	// base; mutating it does not affect the inputs.
	Structure *structure.Structure

	// Diagnostics counts stale references the apply skipped.
	Diagnostics merge.Diagnostics

	// Provenance records the origin of every result atom.
	Provenance *merge.Provenance

	// Stats summarizes what changed relative to the base.
	Stats merge.Stats
}

// Engine applies structure diffs onto base structures.
//
// An Engine holds only configuration; Apply reads that configuration
// under a lock and is safe to call from multiple goroutines.
type Engine struct {
	mu        sync.RWMutex
	tolerance Tolerance
	logger    *slog.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		tolerance: DefaultTolerance,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tolerance returns the engine's current matching tolerance.
func (e *Engine) Tolerance() Tolerance {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tolerance
}

// SetTolerance changes the matching tolerance for subsequent applies.
func (e *Engine) SetTolerance(tol Tolerance) error {
	if !tol.Valid() {
		return ErrNonPositiveTolerance
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tolerance = tol
	return nil
}

// Apply layers d onto base using the engine's tolerance and returns the
// merged structure. Neither input is mutated. Stale diff references are
// skipped and counted in the result's Diagnostics rather than failing
// the apply.
func (e *Engine) Apply(base *structure.Structure, d *diff.Diff) (*Result, error) {
	e.mu.RLock()
	tol := e.tolerance
	logger := e.logger
	e.mu.RUnlock()

	res, err := ApplyDiff(base, d, tol)
	if err != nil {
		return nil, err
	}
	if !res.Diagnostics.IsZero() {
		logger.Warn("diff applied with stale references",
			"orphaned_atoms", res.Diagnostics.OrphanedTrackedAtoms,
			"unmatched_deletes", res.Diagnostics.UnmatchedDeleteMarkers,
			"orphaned_bonds", res.Diagnostics.OrphanedBonds)
	}
	return res, nil
}

// ApplyDiff layers d onto base with an explicit tolerance.
//
// The result is a pure function of (base, d, tol): repeated calls with
// equal inputs produce identical structures, diagnostics, and provenance.
func ApplyDiff(base *structure.Structure, d *diff.Diff, tol Tolerance) (*Result, error) {
	if base == nil {
		return nil, ErrNilStructure
	}
	if d == nil {
		return nil, ErrNilDiff
	}
	if !tol.Valid() {
		return nil, ErrNonPositiveTolerance
	}

	m := match.Match(base, d, tol.Float())
	b := merge.BuildAtoms(base, d, m)
	merge.ResolveBonds(base, d, b)

	return &Result{
		Structure:   b.Result,
		Diagnostics: b.Diagnostics,
		Provenance:  b.Provenance,
		Stats:       b.Stats,
	}, nil
}
