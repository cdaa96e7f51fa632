package structio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"atomedit/internal/engine/diff"
	"atomedit/internal/engine/structure"
)

// ErrMalformedDiff indicates a diff document that parses as TOML but
// violates the record schema.
var ErrMalformedDiff = errors.New("malformed diff document")

// maxRecordID caps entry ids in a decoded document. Restoring
// an entry grows a dense table up to its id, so an absurd id in a
// hand-edited file would otherwise force a huge allocation before any
// other validation runs.
const maxRecordID = 1 << 20

// diffDocument is the TOML shape of a persisted diff.
type diffDocument struct {
	Atoms []atomRecord `toml:"atom,omitempty"`
	Bonds []bondRecord `toml:"bond,omitempty"`
}

type atomRecord struct {
	ID      uint32    `toml:"id"`
	Kind    string    `toml:"kind"`
	Element string    `toml:"element,omitempty"`
	Pos     []float64 `toml:"pos"`
	Anchor  []float64 `toml:"anchor,omitempty"`
	Flags   uint8     `toml:"flags,omitempty"`
}

type bondRecord struct {
	A     uint32 `toml:"a"`
	B     uint32 `toml:"b"`
	Order uint8  `toml:"order"`
}

var kindNames = map[string]diff.Kind{
	"add":     diff.KindAddition,
	"delete":  diff.KindDelete,
	"replace": diff.KindReplacement,
	"move":    diff.KindMove,
}

func vecToSlice(v structure.Vec3) []float64 {
	return []float64{v.X, v.Y, v.Z}
}

func sliceToVec(s []float64) (structure.Vec3, bool) {
	if len(s) != 3 {
		return structure.Vec3{}, false
	}
	return structure.Vec3{X: s[0], Y: s[1], Z: s[2]}, true
}

// EncodeDiff writes a diff as a TOML document. Entry ids are preserved
// so bond records and external references stay valid across a
// round-trip.
func EncodeDiff(w io.Writer, d *diff.Diff) error {
	doc := diffDocument{}
	d.EachEntry(func(e diff.Entry) bool {
		rec := atomRecord{
			ID:    uint32(e.ID),
			Kind:  e.Kind.String(),
			Pos:   vecToSlice(e.Pos),
			Flags: uint8(e.Flags),
		}
		if e.Kind != diff.KindDelete {
			rec.Element = Symbol(e.Element)
		}
		if e.Kind == diff.KindMove {
			rec.Anchor = vecToSlice(e.Anchor)
		}
		doc.Atoms = append(doc.Atoms, rec)
		return true
	})
	d.EachBond(func(key structure.BondKey, order structure.BondOrder) bool {
		doc.Bonds = append(doc.Bonds, bondRecord{
			A:     uint32(key.A),
			B:     uint32(key.B),
			Order: uint8(order),
		})
		return true
	})
	return toml.NewEncoder(w).Encode(doc)
}

// DecodeDiff parses a TOML diff document.
func DecodeDiff(r io.Reader) (*diff.Diff, error) {
	var doc diffDocument
	if err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDiff, err)
	}

	d := diff.New()
	for _, rec := range doc.Atoms {
		kind, ok := kindNames[rec.Kind]
		if !ok {
			return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformedDiff, rec.Kind)
		}
		if rec.ID == 0 || rec.ID > maxRecordID {
			return nil, fmt.Errorf("%w: atom id %d out of range", ErrMalformedDiff, rec.ID)
		}
		pos, ok := sliceToVec(rec.Pos)
		if !ok {
			return nil, fmt.Errorf("%w: atom %d: pos needs 3 components", ErrMalformedDiff, rec.ID)
		}
		e := diff.Entry{
			ID:    structure.AtomID(rec.ID),
			Kind:  kind,
			Pos:   pos,
			Flags: structure.AtomFlags(rec.Flags),
		}
		if kind != diff.KindDelete {
			elem, ok := ElementFromSymbol(rec.Element)
			if !ok {
				return nil, fmt.Errorf("%w: atom %d: unknown element %q",
					ErrMalformedDiff, rec.ID, rec.Element)
			}
			e.Element = elem
		}
		if kind == diff.KindMove {
			anchor, ok := sliceToVec(rec.Anchor)
			if !ok {
				return nil, fmt.Errorf("%w: atom %d: move needs an anchor", ErrMalformedDiff, rec.ID)
			}
			e.Anchor = anchor
		}
		if err := d.Restore(e); err != nil {
			return nil, fmt.Errorf("%w: atom %d: %v", ErrMalformedDiff, rec.ID, err)
		}
	}
	for _, rec := range doc.Bonds {
		err := d.RestoreBond(structure.AtomID(rec.A), structure.AtomID(rec.B),
			structure.BondOrder(rec.Order))
		if err != nil {
			return nil, fmt.Errorf("%w: bond %d-%d: %v", ErrMalformedDiff, rec.A, rec.B, err)
		}
	}
	return d, nil
}

// LoadDiff reads a diff document from a TOML file.
func LoadDiff(path string) (*diff.Diff, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := DecodeDiff(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return d, nil
}

// SaveDiff writes a diff document to a TOML file.
func SaveDiff(path string, d *diff.Diff) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDiff(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
