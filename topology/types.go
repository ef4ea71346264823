// Package topology - core types and sentinel errors.
//
// This file declares ResidueRange, RepresentationKind, Representation,
// and the sentinel errors shared by the whole package.
//
// Error policy (strict):
//   - Only package-level sentinels are exposed; branch with errors.Is.
//   - Context (molecule name, residue range) is attached at the call site
//     via %w wrapping, never baked into the sentinel itself.
package topology

import (
	"errors"
	"fmt"
)

// Sentinel errors for topology construction and validation.
var (
	// ErrEmptySequence indicates a Molecule was declared with no residues.
	ErrEmptySequence = errors.New("topology: empty sequence")

	// ErrDuplicateMolecule indicates a Molecule name+copy pair already exists in the State.
	ErrDuplicateMolecule = errors.New("topology: duplicate molecule")

	// ErrUnknownMolecule indicates an operation referenced a molecule not present in the State.
	ErrUnknownMolecule = errors.New("topology: unknown molecule")

	// ErrRangeOutOfBounds indicates a residue range that does not fit the molecule's sequence.
	ErrRangeOutOfBounds = errors.New("topology: residue range out of bounds")

	// ErrInvalidRange indicates First > Last or a non-positive residue index.
	ErrInvalidRange = errors.New("topology: invalid residue range")

	// ErrInvalidResolution indicates a negative resolution or a zero resolution
	// on a representation kind that requires aggregation.
	ErrInvalidResolution = errors.New("topology: invalid resolution")

	// ErrCoverageGap indicates residues left uncovered at some resolution.
	ErrCoverageGap = errors.New("topology: coverage gap")

	// ErrCoverageOverlap indicates residues covered twice at some resolution.
	ErrCoverageOverlap = errors.New("topology: coverage overlap")
)

// ResidueRange is a contiguous, inclusive, 1-based span of residues.
type ResidueRange struct {
	// First is the index of the first residue in the span (1-based).
	First int

	// Last is the index of the last residue in the span (inclusive).
	Last int
}

// Len returns the number of residues in the range.
// Complexity: O(1).
func (r ResidueRange) Len() int { return r.Last - r.First + 1 }

// Contains reports whether residue index i falls inside the range.
// Complexity: O(1).
func (r ResidueRange) Contains(i int) bool { return i >= r.First && i <= r.Last }

// Overlaps reports whether r and o share at least one residue.
// Complexity: O(1).
func (r ResidueRange) Overlaps(o ResidueRange) bool {
	return r.First <= o.Last && o.First <= r.Last
}

// String renders the range as "first-last" for error and log messages.
func (r ResidueRange) String() string { return fmt.Sprintf("%d-%d", r.First, r.Last) }

// valid reports whether the range is well-formed (1 ≤ First ≤ Last).
func (r ResidueRange) valid() bool { return r.First >= 1 && r.Last >= r.First }

// RepresentationKind is the closed tagged variant over the ways a region
// may be rendered. Each kind has its own constructor contract in the
// represent package; there is no open-ended dispatch on resolution tags.
type RepresentationKind int

const (
	// Atomic renders one bead per residue at positions taken directly from
	// input structure. Resolution is fixed at 0; ranges lacking atomic data
	// are a fatal setup error.
	Atomic RepresentationKind = iota

	// Averaged renders one bead per group of Resolution consecutive
	// residues. Structured groups are placed at the mass-weighted average
	// of their atomic positions; structureless groups become spheres sized
	// by an empirical volume-per-residue relationship.
	Averaged

	// Idealized renders resolution-1 beads on idealized helical backbone
	// coordinates; used when secondary structure is known but atomic
	// positions are not.
	Idealized

	// Density requests a Gaussian mixture approximation of the region's
	// electron density. It produces DensityComponents, not beads, and is
	// excluded from the completeness invariant.
	Density
)

// String returns the canonical name of the kind.
func (k RepresentationKind) String() string {
	switch k {
	case Atomic:
		return "atomic"
	case Averaged:
		return "averaged"
	case Idealized:
		return "idealized"
	case Density:
		return "density"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// producesBeads reports whether the kind participates in the per-resolution
// completeness invariant (Density does not; it is a side representation).
func (k RepresentationKind) producesBeads() bool { return k != Density }

// Representation is one (kind, resolution, residue-range) rendering request.
// Representations are immutable after being added to a Molecule.
//
// Fields:
//   - Kind        — which constructor contract applies (see RepresentationKind).
//   - Resolution  — residues per bead; 0 only for Atomic, ≥1 otherwise.
//     For Density, Resolution is the residues-per-component granularity
//     (lower → more components → higher fidelity).
//   - Range       — the contiguous region this request covers.
type Representation struct {
	Kind       RepresentationKind
	Resolution int
	Range      ResidueRange
}
