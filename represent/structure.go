// Package represent - atomic structure input.
//
// Structure is the in-memory form of "known atomic positions for some
// sub-ranges": a bag of atoms keyed by residue index. How atoms got here
// (PDB parsing, mmCIF, synthetic) is an external collaborator's concern;
// the builder only reads positions and masses.
package represent

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Atom is one atomic position with its mass, attached to a residue.
type Atom struct {
	// Residue is the 1-based residue index the atom belongs to.
	Residue int

	// Pos is the atom's position in Å.
	Pos r3.Vec

	// Mass is the atom's mass in Daltons.
	Mass float64
}

// Structure holds the known atoms of one molecule copy, grouped by
// residue. Zero value is not usable; call NewStructure.
type Structure struct {
	atoms map[int][]Atom
}

// NewStructure returns an empty Structure.
func NewStructure() *Structure {
	return &Structure{atoms: make(map[int][]Atom)}
}

// AddAtom appends one atom. Returns ErrBadAtom for a non-positive residue
// index or mass.
//
// Complexity: O(1) amortized.
func (s *Structure) AddAtom(a Atom) error {
	if a.Residue < 1 || a.Mass <= 0 {
		return fmt.Errorf("%w: residue %d mass %g", ErrBadAtom, a.Residue, a.Mass)
	}
	s.atoms[a.Residue] = append(s.atoms[a.Residue], a)
	return nil
}

// Has reports whether residue i has at least one atom.
func (s *Structure) Has(i int) bool {
	if s == nil {
		return false
	}
	return len(s.atoms[i]) > 0
}

// residueCentroid returns the mass-weighted centroid and total mass of
// one residue's atoms. Caller guarantees Has(i).
//
// Complexity: O(atoms per residue).
func (s *Structure) residueCentroid(i int) (r3.Vec, float64) {
	var (
		sum  r3.Vec
		mass float64
	)
	for _, a := range s.atoms[i] {
		sum = r3.Add(sum, r3.Scale(a.Mass, a.Pos))
		mass += a.Mass
	}
	return r3.Scale(1/mass, sum), mass
}

// rangeAtoms returns positions and masses of all atoms inside the span,
// in ascending residue order (a stable order keeps the density fit
// deterministic).
//
// Complexity: O(atoms in range).
func (s *Structure) rangeAtoms(first, last int) ([]r3.Vec, []float64) {
	if s == nil {
		return nil, nil
	}
	var (
		pts []r3.Vec
		wts []float64
	)
	for i := first; i <= last; i++ {
		for _, a := range s.atoms[i] {
			pts = append(pts, a.Pos)
			wts = append(wts, a.Mass)
		}
	}
	return pts, wts
}
