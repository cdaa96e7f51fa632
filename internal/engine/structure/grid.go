package structure

import (
	"math"
	"sort"
)

// gridCellSize is the edge length of a spatial grid cell in Angstroms.
// Larger than a typical bond length so neighbor lookups touch few cells.
const gridCellSize = 4.0

// cellKey addresses one cell of the sparse spatial grid.
type cellKey struct {
	x, y, z int32
}

func cellForPos(pos Vec3) cellKey {
	return cellKey{
		x: int32(math.Floor(pos.X / gridCellSize)),
		y: int32(math.Floor(pos.Y / gridCellSize)),
		z: int32(math.Floor(pos.Z / gridCellSize)),
	}
}

func (s *Structure) addToGrid(id AtomID, pos Vec3) {
	cell := cellForPos(pos)
	s.grid[cell] = append(s.grid[cell], id)
}

func (s *Structure) removeFromGrid(id AtomID, pos Vec3) {
	cell := cellForPos(pos)
	atoms := s.grid[cell]
	for i, a := range atoms {
		if a == id {
			atoms[i] = atoms[len(atoms)-1]
			atoms = atoms[:len(atoms)-1]
			break
		}
	}
	if len(atoms) == 0 {
		delete(s.grid, cell)
	} else {
		s.grid[cell] = atoms
	}
}

// AtomsInRadius returns the ids of all atoms within radius of pos,
// inclusive of the boundary, in ascending id order.
func (s *Structure) AtomsInRadius(pos Vec3, radius float64) []AtomID {
	if radius < 0 {
		return nil
	}

	cellRadius := int32(math.Ceil(radius / gridCellSize))
	center := cellForPos(pos)
	radiusSq := radius * radius

	var result []AtomID
	for dx := -cellRadius; dx <= cellRadius; dx++ {
		for dy := -cellRadius; dy <= cellRadius; dy++ {
			for dz := -cellRadius; dz <= cellRadius; dz++ {
				cell := cellKey{x: center.x + dx, y: center.y + dy, z: center.z + dz}
				for _, id := range s.grid[cell] {
					atom := s.atomRef(id)
					if atom == nil {
						continue
					}
					if pos.DistSq(atom.Pos) <= radiusSq {
						result = append(result, id)
					}
				}
			}
		}
	}

	// Cell contents are in insertion order; sort for deterministic output.
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
