// Package structure provides the in-memory store for atomic structures.
//
// A Structure holds atoms (id, element, position, flags) and bonds
// (unordered atom-id pair plus an order), together with a sparse spatial
// hash grid that answers "all atoms within radius r of point p" queries.
// The same type serves both as the immutable base input of an editing
// stage and as the computed result of applying a diff.
//
// Atom ids are 1-indexed and never reused within a structure's lifetime:
// deleting an atom leaves a tombstone slot behind so that ids held by
// other subsystems stay unambiguous. All iteration orders are ascending
// by id so that downstream consumers are deterministic.
package structure
