package structio

import "atomedit/internal/engine/structure"

// elementInfo holds the per-element data the loaders and the bonder
// need: the standard symbol and the single-bond covalent radius in
// angstroms.
type elementInfo struct {
	symbol string
	radius float64
}

// elements is indexed by atomic number. Index 0 is a placeholder.
var elements = []elementInfo{
	{},
	{"H", 0.31},
	{"He", 0.28},
	{"Li", 1.28},
	{"Be", 0.96},
	{"B", 0.84},
	{"C", 0.76},
	{"N", 0.71},
	{"O", 0.66},
	{"F", 0.57},
	{"Ne", 0.58},
	{"Na", 1.66},
	{"Mg", 1.41},
	{"Al", 1.21},
	{"Si", 1.11},
	{"P", 1.07},
	{"S", 1.05},
	{"Cl", 1.02},
	{"Ar", 1.06},
	{"K", 2.03},
	{"Ca", 1.76},
	{"Sc", 1.70},
	{"Ti", 1.60},
	{"V", 1.53},
	{"Cr", 1.39},
	{"Mn", 1.39},
	{"Fe", 1.32},
	{"Co", 1.26},
	{"Ni", 1.24},
	{"Cu", 1.32},
	{"Zn", 1.22},
	{"Ga", 1.22},
	{"Ge", 1.20},
	{"As", 1.19},
	{"Se", 1.20},
	{"Br", 1.20},
	{"Kr", 1.16},
}

// symbolIndex maps element symbols back to atomic numbers.
var symbolIndex = func() map[string]structure.Element {
	m := make(map[string]structure.Element, len(elements))
	for z, info := range elements {
		if info.symbol != "" {
			m[info.symbol] = structure.Element(z)
		}
	}
	return m
}()

// fallbackRadius is used for elements outside the table.
const fallbackRadius = 1.5

// maxCovalentRadius is the largest radius in the table. The neighbor
// search in AutoBond assumes the partner could be this large, so no
// valid pair falls outside the search sphere.
var maxCovalentRadius = func() float64 {
	max := fallbackRadius
	for _, info := range elements {
		if info.radius > max {
			max = info.radius
		}
	}
	return max
}()

// Symbol returns the standard symbol for an atomic number, or an empty
// string if the element is unknown.
func Symbol(elem structure.Element) string {
	if elem <= 0 || int(elem) >= len(elements) {
		return ""
	}
	return elements[elem].symbol
}

// ElementFromSymbol resolves a symbol like "Si" to its atomic number.
func ElementFromSymbol(sym string) (structure.Element, bool) {
	elem, ok := symbolIndex[sym]
	return elem, ok
}

// CovalentRadius returns the single-bond covalent radius in angstroms.
// Elements outside the table get a conservative fallback.
func CovalentRadius(elem structure.Element) float64 {
	if elem <= 0 || int(elem) >= len(elements) {
		return fallbackRadius
	}
	return elements[elem].radius
}
