// Package diff holds the mutable record of one editing stage's edits.
//
// A Diff is a set of atom entries and a bond overlay. Each entry is a
// tagged variant with one of four kinds:
//
//   - Addition: a brand-new atom at a position.
//   - Delete: marks the base atom at a position for removal.
//   - Replacement: an element change for the base atom at the same place.
//   - Move: a repositioned base atom, tracked through its anchor (the
//     position the atom occupied before the move).
//
// Every entry has a match position (the anchor for a Move, the entry's
// own position otherwise), which is what the positional matcher searches
// the base structure for. Bonds in the overlay are keyed by entry-id
// pairs; the OrderDeleted sentinel marks an existing base bond for
// removal.
//
// A diff accumulates mutations over an editing session, driven by
// external tool code, and is the only piece of project state that gets
// persisted: the result of applying it is always recomputed.
package diff
