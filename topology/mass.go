// Package topology - residue mass and volume tables.
//
// Masses are standard average amino-acid residue masses in Daltons
// (monomer minus water). Volumes derive from the empirical ratio of
// 1.21 Å³ per Dalton for globular proteins; beads built without atomic
// data are sized from these values.
package topology

import (
	"fmt"
	"math"
)

// averageResidueMass is the fallback mass (Da) for unknown residue codes.
const averageResidueMass = 110.0

// volumePerDalton is the empirical protein volume-to-mass ratio (Å³/Da).
const volumePerDalton = 1.21

// residueMasses maps one-letter amino-acid codes to average residue
// masses in Daltons.
var residueMasses = map[byte]float64{
	'A': 71.08, 'R': 156.19, 'N': 114.10, 'D': 115.09, 'C': 103.14,
	'E': 129.12, 'Q': 128.13, 'G': 57.05, 'H': 137.14, 'I': 113.16,
	'L': 113.16, 'K': 128.17, 'M': 131.19, 'F': 147.18, 'P': 97.12,
	'S': 87.08, 'T': 101.10, 'W': 186.21, 'Y': 163.18, 'V': 99.13,
}

// ResidueMass returns the average mass (Da) of a one-letter residue code.
// Unknown codes fall back to averageResidueMass so that malformed
// sequences degrade to plausible sizes instead of zero-mass beads.
//
// Complexity: O(1).
func ResidueMass(code byte) float64 {
	if m, ok := residueMasses[code]; ok {
		return m
	}
	return averageResidueMass
}

// RangeMass sums ResidueMass over a residue range of the molecule.
// Returns ErrRangeOutOfBounds when the range leaves the sequence.
//
// Complexity: O(n) in the range length.
func (m *Molecule) RangeMass(rr ResidueRange) (float64, error) {
	if !rr.valid() || rr.Last > len(m.sequence) {
		return 0, fmt.Errorf("%w: molecule %s range %s (length %d)",
			ErrRangeOutOfBounds, m.name, rr, len(m.sequence))
	}
	var total float64
	for i := rr.First; i <= rr.Last; i++ {
		total += ResidueMass(m.sequence[i-1])
	}
	return total, nil
}

// VolumeFromMass converts a mass in Daltons to an approximate protein
// volume in Å³ using the empirical 1.21 Å³/Da relationship.
//
// Complexity: O(1).
func VolumeFromMass(mass float64) float64 { return mass * volumePerDalton }

// RadiusFromMass returns the radius of a sphere with VolumeFromMass(mass).
//
// Complexity: O(1).
func RadiusFromMass(mass float64) float64 {
	return math.Cbrt(3.0 * VolumeFromMass(mass) / (4.0 * math.Pi))
}
