package merge

import "atomedit/internal/engine/structure"

// SourceKind tells where a result atom came from.
type SourceKind uint8

const (
	// SourceBasePassthrough is a base atom not touched by the diff.
	SourceBasePassthrough SourceKind = iota

	// SourceDiffMatchedBase is a diff entry that matched a base atom
	// (replacement or move).
	SourceDiffMatchedBase

	// SourceDiffAdded is a diff entry with no base match (new addition).
	SourceDiffAdded
)

// Source describes the origin of one result atom. BaseID is set for
// passthrough and matched sources; DiffID for matched and added sources.
type Source struct {
	Kind   SourceKind
	BaseID structure.AtomID
	DiffID structure.AtomID
}

// Provenance maps every result atom back to its origin. Sessions rely on
// it to keep selection stable across re-evaluations: base and diff ids
// survive a rebuild, result ids do not.
type Provenance struct {
	// Sources maps result atom id to its origin.
	Sources map[structure.AtomID]Source

	// BaseToResult maps surviving base atom ids to result atom ids.
	BaseToResult map[structure.AtomID]structure.AtomID

	// DiffToResult maps diff entry ids present in the result to result
	// atom ids.
	DiffToResult map[structure.AtomID]structure.AtomID
}

// NewProvenance creates an empty provenance record.
func NewProvenance() *Provenance {
	return &Provenance{
		Sources:      make(map[structure.AtomID]Source),
		BaseToResult: make(map[structure.AtomID]structure.AtomID),
		DiffToResult: make(map[structure.AtomID]structure.AtomID),
	}
}
