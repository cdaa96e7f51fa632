package structio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"atomedit/internal/engine/structure"
)

// ErrMalformedXYZ indicates an XYZ stream that does not follow the
// count / comment / records layout.
var ErrMalformedXYZ = errors.New("malformed xyz data")

// ReadXYZ parses an XYZ stream into a structure. Atom ids are assigned
// in record order starting at 1.
func ReadXYZ(r io.Reader) (*structure.Structure, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		return nil, fmt.Errorf("%w: missing atom count line", ErrMalformedXYZ)
	}
	count, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: bad atom count %q", ErrMalformedXYZ, sc.Text())
	}

	if !sc.Scan() {
		return nil, fmt.Errorf("%w: missing comment line", ErrMalformedXYZ)
	}

	s := structure.New()
	for i := 0; i < count; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("%w: expected %d atom records, got %d",
				ErrMalformedXYZ, count, i)
		}
		line := strings.TrimSpace(sc.Text())
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("%w: atom record %q", ErrMalformedXYZ, line)
		}
		elem, ok := ElementFromSymbol(fields[0])
		if !ok {
			return nil, fmt.Errorf("%w: unknown element %q", ErrMalformedXYZ, fields[0])
		}
		var pos structure.Vec3
		coords := []*float64{&pos.X, &pos.Y, &pos.Z}
		for j, target := range coords {
			v, err := strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: coordinate %q", ErrMalformedXYZ, fields[j+1])
			}
			*target = v
		}
		s.AddAtom(elem, pos)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadXYZ reads a structure from an XYZ file.
func LoadXYZ(path string) (*structure.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := ReadXYZ(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return s, nil
}

// WriteXYZ writes a structure as XYZ. Atoms with unknown elements are
// rejected since the format has no way to express them.
func WriteXYZ(w io.Writer, s *structure.Structure, comment string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", s.NumAtoms())
	fmt.Fprintf(bw, "%s\n", strings.ReplaceAll(comment, "\n", " "))

	var writeErr error
	s.EachAtom(func(a structure.Atom) bool {
		sym := Symbol(a.Element)
		if sym == "" {
			writeErr = fmt.Errorf("atom %d: no symbol for element %d", a.ID, a.Element)
			return false
		}
		fmt.Fprintf(bw, "%s %.6f %.6f %.6f\n", sym, a.Pos.X, a.Pos.Y, a.Pos.Z)
		return true
	})
	if writeErr != nil {
		return writeErr
	}
	return bw.Flush()
}

// SaveXYZ writes a structure to an XYZ file.
func SaveXYZ(path string, s *structure.Structure, comment string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteXYZ(f, s, comment); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
