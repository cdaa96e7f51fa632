package structio

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"atomedit/internal/engine/structure"
)

const methaneXYZ = `5
methane
C 0.000000 0.000000 0.000000
H 0.629118 0.629118 0.629118
H -0.629118 -0.629118 0.629118
H -0.629118 0.629118 -0.629118
H 0.629118 -0.629118 -0.629118
`

func TestReadXYZ(t *testing.T) {
	s, err := ReadXYZ(strings.NewReader(methaneXYZ))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.NumAtoms() != 5 {
		t.Fatalf("expected 5 atoms, got %d", s.NumAtoms())
	}
	a, _ := s.Atom(1)
	if a.Element != 6 {
		t.Errorf("expected carbon first, got element %d", a.Element)
	}
	h, _ := s.Atom(2)
	if h.Element != 1 || h.Pos.X != 0.629118 {
		t.Errorf("unexpected second atom: %+v", h)
	}
}

func TestReadXYZMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"bad count":      "x\ncomment\n",
		"negative count": "-1\ncomment\n",
		"short file":     "3\ncomment\nC 0 0 0\n",
		"short record":   "1\ncomment\nC 0 0\n",
		"bad coordinate": "1\ncomment\nC a b c\n",
		"bad element":    "1\ncomment\nXx 0 0 0\n",
	}
	for name, input := range cases {
		if _, err := ReadXYZ(strings.NewReader(input)); !errors.Is(err, ErrMalformedXYZ) {
			t.Errorf("%s: expected ErrMalformedXYZ, got %v", name, err)
		}
	}
}

func TestXYZRoundTrip(t *testing.T) {
	s, err := ReadXYZ(strings.NewReader(methaneXYZ))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "methane.xyz")
	if err := SaveXYZ(path, s, "methane"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded, err := LoadXYZ(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loaded.Equal(s) {
		t.Error("round-tripped structure differs")
	}
}

func TestWriteXYZUnknownElement(t *testing.T) {
	s := structure.New()
	s.AddAtom(999, structure.Vec3{})
	if err := WriteXYZ(&strings.Builder{}, s, ""); err == nil {
		t.Error("expected error for unknown element")
	}
}

func TestLoadXYZMissingFile(t *testing.T) {
	if _, err := LoadXYZ(filepath.Join(t.TempDir(), "absent.xyz")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestElementTable(t *testing.T) {
	if sym := Symbol(6); sym != "C" {
		t.Errorf("expected C, got %q", sym)
	}
	if elem, ok := ElementFromSymbol("Si"); !ok || elem != 14 {
		t.Errorf("expected Si=14, got %d (ok=%v)", elem, ok)
	}
	if _, ok := ElementFromSymbol("Xx"); ok {
		t.Error("expected unknown symbol to fail")
	}
	if r := CovalentRadius(6); r != 0.76 {
		t.Errorf("expected carbon radius 0.76, got %v", r)
	}
	if r := CovalentRadius(999); r != fallbackRadius {
		t.Errorf("expected fallback radius, got %v", r)
	}
}
