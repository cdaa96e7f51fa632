// Package session holds one editing session: a base structure, the diff
// being authored against it, and the tolerance used to evaluate them.
//
// A Session is the mutable counterpart to the pure engine.ApplyDiff:
// tools record cheap edits into the session's diff and read the merged
// structure through Result(), which memoizes the last apply and only
// re-evaluates after a mutation. Selection is expressed in result-atom
// ids and resolved back to base atoms or diff entries through the
// result's provenance, so edit operations know whether to rewrite an
// existing entry or record a new one.
package session
