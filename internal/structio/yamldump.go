package structio

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"atomedit/internal/engine/structure"
)

// structureDump is the YAML export shape of a structure.
type structureDump struct {
	Atoms []dumpAtom `yaml:"atoms"`
	Bonds []dumpBond `yaml:"bonds,omitempty"`
}

type dumpAtom struct {
	ID      uint32    `yaml:"id"`
	Element string    `yaml:"element"`
	Pos     []float64 `yaml:"pos,flow"`
}

type dumpBond struct {
	A     uint32 `yaml:"a"`
	B     uint32 `yaml:"b"`
	Order uint8  `yaml:"order"`
}

// DumpYAML writes a structure as a YAML document for export. Unknown
// elements are emitted with their atomic number as the symbol is not
// available.
func DumpYAML(w io.Writer, s *structure.Structure) error {
	doc := structureDump{}
	s.EachAtom(func(a structure.Atom) bool {
		doc.Atoms = append(doc.Atoms, dumpAtom{
			ID:      uint32(a.ID),
			Element: Symbol(a.Element),
			Pos:     vecToSlice(a.Pos),
		})
		return true
	})
	s.EachBond(func(key structure.BondKey, order structure.BondOrder) bool {
		doc.Bonds = append(doc.Bonds, dumpBond{
			A:     uint32(key.A),
			B:     uint32(key.B),
			Order: uint8(order),
		})
		return true
	})

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(doc)
}

// SaveYAML writes a YAML structure dump to a file.
func SaveYAML(path string, s *structure.Structure) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := DumpYAML(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
