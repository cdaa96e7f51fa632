package session

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"atomedit/internal/engine"
	"atomedit/internal/engine/diff"
	"atomedit/internal/engine/structure"
)

// Errors returned by session operations.
var (
	// ErrAtomNotFound indicates a result atom id that does not exist in
	// the current result.
	ErrAtomNotFound = errors.New("result atom not found")

	// ErrBondNotFound indicates neither a base bond nor an overlay bond
	// exists between the given atoms.
	ErrBondNotFound = errors.New("bond not found")
)

// Session is a thread-safe editing session over one base structure and
// one diff. All edits go through the session so that memoization and
// selection stay consistent.
type Session struct {
	mu sync.RWMutex

	id        uuid.UUID
	base      *structure.Structure
	diff      *diff.Diff
	tolerance engine.Tolerance
	logger    *slog.Logger

	// revision increments on every mutation; the cached result is keyed
	// on (revision, tolerance).
	revision  uint64
	cached    *engine.Result
	cachedRev uint64
	cachedTol engine.Tolerance

	selection Selection
}

// Option configures a Session during creation.
type Option func(*Session)

// WithTolerance sets the session's matching tolerance.
// Invalid tolerances are ignored.
func WithTolerance(tol engine.Tolerance) Option {
	return func(s *Session) {
		if tol.Valid() {
			s.tolerance = tol
		}
	}
}

// WithDiff seeds the session with an existing diff, e.g. one loaded
// from disk. The session takes ownership.
func WithDiff(d *diff.Diff) Option {
	return func(s *Session) {
		if d != nil {
			s.diff = d
		}
	}
}

// WithLogger sets the logger used for apply diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a session over base. The session takes ownership of base;
// callers must not mutate it afterwards.
func New(base *structure.Structure, opts ...Option) *Session {
	s := &Session{
		id:        uuid.New(),
		base:      base,
		diff:      diff.New(),
		tolerance: engine.DefaultTolerance,
		logger:    slog.Default(),
		selection: newSelection(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id.String()
}

// Revision returns the current mutation counter. Two calls returning
// the same value bracket a span with no mutations.
func (s *Session) Revision() uint64 {
	return atomic.LoadUint64(&s.revision)
}

// Tolerance returns the session's matching tolerance.
func (s *Session) Tolerance() engine.Tolerance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tolerance
}

// SetTolerance changes the matching tolerance for subsequent results.
func (s *Session) SetTolerance(tol engine.Tolerance) error {
	if !tol.Valid() {
		return engine.ErrNonPositiveTolerance
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tolerance = tol
	return nil
}

// DiffSnapshot returns a deep copy of the session's diff, e.g. for
// persisting to disk.
func (s *Session) DiffSnapshot() *diff.Diff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diff.Clone()
}

// BaseSnapshot returns a deep copy of the base structure.
func (s *Session) BaseSnapshot() *structure.Structure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base.Clone()
}

// SetBase replaces the base structure, keeping the diff. Anchored
// entries re-match against the new base on the next Result; orphans
// show up in its diagnostics. The selection is cleared.
func (s *Session) SetBase(base *structure.Structure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = base
	s.selection.clearAtoms()
	s.selection.clearBonds()
	s.bumpLocked()
}

// SetDiff replaces the session's diff. The selection is cleared.
func (s *Session) SetDiff(d *diff.Diff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d == nil {
		d = diff.New()
	}
	s.diff = d
	s.selection.clearAtoms()
	s.selection.clearBonds()
	s.bumpLocked()
}

// bumpLocked invalidates the memoized result after a mutation.
// Bond selection is result-space and cannot survive a re-evaluation.
func (s *Session) bumpLocked() {
	atomic.AddUint64(&s.revision, 1)
	s.selection.clearBonds()
	s.selection.pruneEntries(func(id structure.AtomID) bool {
		_, ok := s.diff.Entry(id)
		return ok
	})
}

// Result returns the merged structure for the current base, diff, and
// tolerance. The apply is memoized: repeated calls without intervening
// mutations return the same Result.
func (s *Session) Result() (*engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultLocked()
}

func (s *Session) resultLocked() (*engine.Result, error) {
	rev := atomic.LoadUint64(&s.revision)
	if s.cached != nil && s.cachedRev == rev && s.cachedTol == s.tolerance {
		return s.cached, nil
	}
	res, err := engine.ApplyDiff(s.base, s.diff, s.tolerance)
	if err != nil {
		return nil, err
	}
	if !res.Diagnostics.IsZero() {
		s.logger.Warn("session result has stale diff references",
			"session", s.id.String(),
			"diagnostics", res.Diagnostics.String())
	}
	s.cached = res
	s.cachedRev = rev
	s.cachedTol = s.tolerance
	return res, nil
}

// ============================================================================
// Diff Editing
// ============================================================================

// AddAtom records a new atom and returns its diff entry id.
func (s *Session) AddAtom(elem structure.Element, pos structure.Vec3) structure.AtomID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.diff.AddAtom(elem, pos)
	s.bumpLocked()
	return id
}

// AddBond records a bond of the given order between two result atoms,
// creating identity entries for base endpoints as needed.
func (s *Session) AddBond(a, b structure.AtomID, order structure.BondOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ea, eb, err := s.bondEndpointsLocked(a, b)
	if err != nil {
		return err
	}
	s.diff.SetBond(ea, eb, order)
	s.bumpLocked()
	return nil
}

// DeleteBond removes the bond between two result atoms. A bond present
// in the base gets a deletion marker; a bond that exists only in the
// diff is simply dropped.
func (s *Session) DeleteBond(a, b structure.AtomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.resultLocked()
	if err != nil {
		return err
	}
	srcA, okA := res.Provenance.Sources[a]
	srcB, okB := res.Provenance.Sources[b]
	if !okA || !okB {
		return ErrAtomNotFound
	}

	inBase := srcA.BaseID != 0 && srcB.BaseID != 0 &&
		s.base.HasBond(srcA.BaseID, srcB.BaseID)

	ea, eb, err := s.bondEndpointsLocked(a, b)
	if err != nil {
		return err
	}

	if inBase {
		s.diff.MarkBondDeleted(ea, eb)
	} else if !s.diff.RemoveBond(ea, eb) {
		return ErrBondNotFound
	}
	s.bumpLocked()
	return nil
}

// bondEndpointsLocked resolves two result atom ids to diff entry ids,
// recording identity entries for untouched base atoms.
func (s *Session) bondEndpointsLocked(a, b structure.AtomID) (structure.AtomID, structure.AtomID, error) {
	ea, err := s.entryForResultLocked(a)
	if err != nil {
		return 0, 0, err
	}
	eb, err := s.entryForResultLocked(b)
	if err != nil {
		return 0, 0, err
	}
	return ea, eb, nil
}

func (s *Session) entryForResultLocked(id structure.AtomID) (structure.AtomID, error) {
	res, err := s.resultLocked()
	if err != nil {
		return 0, err
	}
	src, ok := res.Provenance.Sources[id]
	if !ok {
		return 0, ErrAtomNotFound
	}
	if src.DiffID != 0 {
		return src.DiffID, nil
	}
	atom, ok := s.base.Atom(src.BaseID)
	if !ok {
		return 0, ErrAtomNotFound
	}
	return s.diff.IdentityEntry(atom.Element, atom.Pos), nil
}

// ============================================================================
// Selection
// ============================================================================

// SelectAtom adds a result atom to the selection, classified by its
// provenance so the selection survives re-evaluation.
func (s *Session) SelectAtom(id structure.AtomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.resultLocked()
	if err != nil {
		return err
	}
	src, ok := res.Provenance.Sources[id]
	if !ok {
		return ErrAtomNotFound
	}
	if src.DiffID != 0 {
		s.selection.DiffEntries[src.DiffID] = true
	} else {
		s.selection.BaseAtoms[src.BaseID] = true
	}
	return nil
}

// SelectBond adds a result-space bond to the selection. Bond selection
// is cleared by any diff mutation.
func (s *Session) SelectBond(key structure.BondKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.resultLocked()
	if err != nil {
		return err
	}
	if !res.Structure.HasBond(key.A, key.B) {
		return ErrBondNotFound
	}
	s.selection.Bonds[key] = true
	return nil
}

// ClearSelection deselects everything.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.clearAtoms()
	s.selection.clearBonds()
}

// SelectionEmpty reports whether nothing is selected.
func (s *Session) SelectionEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection.Empty()
}

// SelectedResultAtoms translates the selection back into current result
// atom ids. Selected atoms with no counterpart in the current result
// are skipped.
func (s *Session) SelectedResultAtoms() ([]structure.AtomID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.resultLocked()
	if err != nil {
		return nil, err
	}
	seen := make(map[structure.AtomID]bool)
	var ids []structure.AtomID
	for baseID := range s.selection.BaseAtoms {
		if rid, ok := res.Provenance.BaseToResult[baseID]; ok && !seen[rid] {
			seen[rid] = true
			ids = append(ids, rid)
		}
	}
	for diffID := range s.selection.DiffEntries {
		if rid, ok := res.Provenance.DiffToResult[diffID]; ok && !seen[rid] {
			seen[rid] = true
			ids = append(ids, rid)
		}
	}
	sortAtomIDs(ids)
	return ids, nil
}

// ============================================================================
// Selection-Based Edits
// ============================================================================

// DeleteSelected deletes every selected atom from the result view:
// untouched base atoms get delete markers, additions are removed from
// the diff, and entries tracking base atoms become delete markers. The
// atom selection is cleared afterwards. Selected bonds get deletion
// markers via DeleteBond semantics.
func (s *Session) DeleteSelected() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Capture bond selection before edits clear it.
	bonds := make([]structure.BondKey, 0, len(s.selection.Bonds))
	for key := range s.selection.Bonds {
		bonds = append(bonds, key)
	}

	for baseID := range s.selection.BaseAtoms {
		atom, ok := s.base.Atom(baseID)
		if !ok {
			continue
		}
		s.diff.MarkDelete(atom.Pos)
	}
	for entryID := range s.selection.DiffEntries {
		e, ok := s.diff.Entry(entryID)
		if !ok {
			continue
		}
		if e.Kind == diff.KindAddition {
			s.diff.Remove(entryID)
		} else {
			s.diff.ConvertToDelete(entryID)
		}
	}
	for _, key := range bonds {
		// Endpoint atoms may already be gone; ignore those bonds.
		if err := s.deleteBondLocked(key.A, key.B); err != nil &&
			!errors.Is(err, ErrAtomNotFound) && !errors.Is(err, ErrBondNotFound) {
			return err
		}
	}

	s.selection.clearAtoms()
	s.bumpLocked()
	return nil
}

func (s *Session) deleteBondLocked(a, b structure.AtomID) error {
	res, err := s.resultLocked()
	if err != nil {
		return err
	}
	srcA, okA := res.Provenance.Sources[a]
	srcB, okB := res.Provenance.Sources[b]
	if !okA || !okB {
		return ErrAtomNotFound
	}
	ea, eb, err := s.bondEndpointsLocked(a, b)
	if err != nil {
		return err
	}
	if srcA.BaseID != 0 && srcB.BaseID != 0 && s.base.HasBond(srcA.BaseID, srcB.BaseID) {
		s.diff.MarkBondDeleted(ea, eb)
		return nil
	}
	if !s.diff.RemoveBond(ea, eb) {
		return ErrBondNotFound
	}
	return nil
}

// MoveSelected shifts every selected atom by delta. Untouched base
// atoms get move entries anchored at their current position; existing
// entries are translated in place. Delete markers are left alone.
func (s *Session) MoveSelected(delta structure.Vec3) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for entryID := range s.selection.DiffEntries {
		s.diff.Translate(entryID, delta)
	}
	for baseID := range s.selection.BaseAtoms {
		atom, ok := s.base.Atom(baseID)
		if !ok {
			continue
		}
		id := s.diff.Move(atom.Element, atom.Pos, atom.Pos.Add(delta))
		// The base atom is now tracked by an entry; move the selection
		// with it so repeated moves compound.
		delete(s.selection.BaseAtoms, baseID)
		s.selection.DiffEntries[id] = true
	}
	s.bumpLocked()
	return nil
}

// ReplaceSelected changes the element of every selected atom.
// Untouched base atoms get replacement entries; existing entries have
// their element rewritten. Delete markers are left alone.
func (s *Session) ReplaceSelected(elem structure.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for entryID := range s.selection.DiffEntries {
		s.diff.SetElement(entryID, elem)
	}
	for baseID := range s.selection.BaseAtoms {
		atom, ok := s.base.Atom(baseID)
		if !ok {
			continue
		}
		id := s.diff.Replace(elem, atom.Pos)
		delete(s.selection.BaseAtoms, baseID)
		s.selection.DiffEntries[id] = true
	}
	s.bumpLocked()
	return nil
}

func sortAtomIDs(ids []structure.AtomID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
