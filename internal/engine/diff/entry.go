package diff

import "atomedit/internal/engine/structure"

// Kind classifies a diff entry.
type Kind uint8

const (
	// KindAddition is a brand-new atom with no base counterpart.
	KindAddition Kind = iota

	// KindDelete marks the base atom at Pos for removal.
	KindDelete

	// KindReplacement changes the element of the base atom at Pos.
	KindReplacement

	// KindMove repositions the base atom tracked at Anchor to Pos.
	KindMove
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAddition:
		return "add"
	case KindDelete:
		return "delete"
	case KindReplacement:
		return "replace"
	case KindMove:
		return "move"
	default:
		return "unknown"
	}
}

// Entry is one atom edit in a diff. Element is meaningless for KindDelete
// and Anchor is meaningful only for KindMove.
type Entry struct {
	ID      structure.AtomID
	Kind    Kind
	Element structure.Element
	Pos     structure.Vec3
	Anchor  structure.Vec3
	Flags   structure.AtomFlags
}

// MatchPos returns the position the matcher should search the base
// structure for: the anchor for a move, the entry's own position
// otherwise.
func (e Entry) MatchPos() structure.Vec3 {
	if e.Kind == KindMove {
		return e.Anchor
	}
	return e.Pos
}

// TracksBase reports whether the entry targets an existing base atom
// (everything except a pure addition).
func (e Entry) TracksBase() bool {
	return e.Kind != KindAddition
}
