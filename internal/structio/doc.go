// Package structio reads and writes structures and diffs.
//
// Supported formats:
//
//   - XYZ for structures: count line, comment line, then one
//     "Symbol x y z" record per atom. Bonds are not part of the format;
//     use AutoBond to infer them from covalent radii.
//   - TOML for diff documents: [[atom]] and [[bond]] record tables,
//     stable across save/load including entry ids and bond deletion
//     markers.
//   - YAML for structure dumps, intended for export and interop rather
//     than round-tripping.
package structio
