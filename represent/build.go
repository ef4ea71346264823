// Package represent - the builder entry point.
//
// Build follows a staged validate-then-construct shape:
//
//	Stage 1 — validate topology coverage (fatal sentinels, §setup errors).
//	Stage 2 — construct beads per representation request, kind by kind.
//	Stage 3 — fit densities (recoverable; failures log and fall back).
//	Stage 4 — re-check the completeness invariant on the built hierarchy;
//	          a violation here is a programming contract failure → panic.
//
// Determinism: the only randomness is the density-fit initialization,
// driven by the seed option. Same inputs + same seed ⇒ identical output.
package represent

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/intmod/topology"
)

// Build constructs the multi-resolution hierarchy for every molecule of
// the State. structs maps molecule copies to their known atoms; absent
// entries mean no structure for that copy.
//
// Errors (fatal, build refuses to produce a hierarchy):
//   - topology.ErrCoverageGap / ErrCoverageOverlap — incomplete topology.
//   - ErrMissingStructure — Atomic request over a structureless range.
//   - ErrIdealHelixResolution — Idealized request at resolution ≠ 1.
//
// Recoverable (run continues, warning logged):
//   - density fit non-convergence or absent structure for a Density range.
//
// Complexity: O(atoms + beads) plus EM cost per density request.
func Build(st *topology.State, structs map[MolKey]*Structure, opts ...Option) (*Hierarchy, error) {
	cfg := newConfig(opts)

	// Stage 1 - topology must tile before any geometry happens.
	if err := topology.ValidateState(st); err != nil {
		return nil, err
	}

	h := newHierarchy()
	rng := rngFromSeed(cfg.seed)

	for _, mol := range st.Molecules() {
		key := MolKey{Name: mol.Name(), Copy: mol.Copy()}
		src := structs[key]

		for _, rep := range mol.Representations() {
			var err error
			switch rep.Kind {
			case topology.Atomic:
				err = buildAtomic(h, key, src, rep.Range)
			case topology.Averaged:
				err = buildAveraged(h, mol, key, src, rep, cfg.missingSize)
			case topology.Idealized:
				err = buildIdealized(h, mol, key, rep)
			case topology.Density:
				// Stage 3 - recoverable path; never fails the build.
				fitDensity(h, cfg, rng, key, src, rep)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	// Stage 4 - contract check on our own output.
	assertCompleteness(h, st)
	return h, nil
}

// buildAtomic emits one bead per residue with positions taken directly
// from input structure. Fatal when any residue lacks atoms.
func buildAtomic(h *Hierarchy, key MolKey, src *Structure, rr topology.ResidueRange) error {
	for i := rr.First; i <= rr.Last; i++ {
		if !src.Has(i) {
			return fmt.Errorf("%w: molecule %s.%d residue %d (atomic representation over %s)",
				ErrMissingStructure, key.Name, key.Copy, i, rr)
		}
		pos, mass := src.residueCentroid(i)
		h.addBead(&Bead{
			Mol:        key,
			Kind:       topology.Atomic,
			Resolution: 0,
			Range:      topology.ResidueRange{First: i, Last: i},
			Mass:       mass,
			Radius:     topology.RadiusFromMass(mass),
			Structured: true,
			pos:        pos,
		})
	}
	return nil
}

// buildAveraged partitions the range into consecutive groups of size
// rep.Resolution (the last group may be shorter) and emits one bead per
// group. Groups fully covered by structure are placed at the
// mass-weighted average of their atoms (smoothing along the backbone);
// structureless groups become unplaced spheres sized from residue-table
// masses. Mass is additive either way, so aggregation conserves it.
//
// With a missing-bead size configured, maximal structureless runs are
// instead grouped by that size while structured territory keeps the
// display resolution. Every bead still carries rep.Resolution, so the
// per-resolution tiling is unchanged.
func buildAveraged(h *Hierarchy, mol *topology.Molecule, key MolKey, src *Structure, rep topology.Representation, missingSize int) error {
	emit := func(group topology.ResidueRange, structured bool) error {
		var (
			pos  r3.Vec
			mass float64
		)
		if structured {
			var sum r3.Vec
			for i := group.First; i <= group.Last; i++ {
				c, m := src.residueCentroid(i)
				sum = r3.Add(sum, r3.Scale(m, c))
				mass += m
			}
			pos = r3.Scale(1/mass, sum)
		} else {
			var err error
			if mass, err = mol.RangeMass(group); err != nil {
				return err
			}
		}

		h.addBead(&Bead{
			Mol:        key,
			Kind:       topology.Averaged,
			Resolution: rep.Resolution,
			Range:      group,
			Mass:       mass,
			Radius:     topology.RadiusFromMass(mass),
			Structured: structured,
			pos:        pos,
		})
		return nil
	}

	if missingSize <= 0 {
		for first := rep.Range.First; first <= rep.Range.Last; first += rep.Resolution {
			last := first + rep.Resolution - 1
			if last > rep.Range.Last {
				last = rep.Range.Last
			}
			structured := true
			for i := first; i <= last; i++ {
				if !src.Has(i) {
					structured = false
					break
				}
			}
			if err := emit(topology.ResidueRange{First: first, Last: last}, structured); err != nil {
				return err
			}
		}
		return nil
	}

	for first := rep.Range.First; first <= rep.Range.Last; {
		structured := src.Has(first)
		last := first
		for last+1 <= rep.Range.Last && src.Has(last+1) == structured {
			last++
		}
		size := rep.Resolution
		if !structured {
			size = missingSize
		}
		for gf := first; gf <= last; gf += size {
			gl := gf + size - 1
			if gl > last {
				gl = last
			}
			if err := emit(topology.ResidueRange{First: gf, Last: gl}, structured); err != nil {
				return err
			}
		}
		first = last + 1
	}
	return nil
}

// buildIdealized emits resolution-1 beads on canonical helix coordinates.
// Masses come from the residue table (there is no atomic data by
// definition of the kind).
func buildIdealized(h *Hierarchy, mol *topology.Molecule, key MolKey, rep topology.Representation) error {
	if rep.Resolution != 1 {
		return fmt.Errorf("%w: molecule %s.%d range %s resolution %d",
			ErrIdealHelixResolution, key.Name, key.Copy, rep.Range, rep.Resolution)
	}
	coords := idealHelixPositions(rep.Range.Len())
	for i := rep.Range.First; i <= rep.Range.Last; i++ {
		group := topology.ResidueRange{First: i, Last: i}
		mass, err := mol.RangeMass(group)
		if err != nil {
			return err
		}
		h.addBead(&Bead{
			Mol:        key,
			Kind:       topology.Idealized,
			Resolution: 1,
			Range:      group,
			Mass:       mass,
			Radius:     topology.RadiusFromMass(mass),
			Structured: true,
			pos:        coords[i-rep.Range.First],
		})
	}
	return nil
}

// assertCompleteness re-derives the completeness invariant from the built
// beads: for every molecule and resolution, bead ranges must tile the
// molecule's full sequence. Build validated the topology up front, so a
// violation here means the builder itself is broken — panic, do not
// return an error a caller could be tempted to swallow.
func assertCompleteness(h *Hierarchy, st *topology.State) {
	for _, mol := range st.Molecules() {
		key := MolKey{Name: mol.Name(), Copy: mol.Copy()}
		for _, res := range h.Resolutions(key) {
			next := 1
			for _, id := range h.MoleculeBeads(key, res) {
				b := h.Bead(id)
				if b.Range.First != next {
					panic(fmt.Sprintf(
						"represent: completeness contract violated: molecule %s.%d resolution %d expected residue %d, bead covers %s",
						key.Name, key.Copy, res, next, b.Range))
				}
				next = b.Range.Last + 1
			}
			if next != mol.Length()+1 {
				panic(fmt.Sprintf(
					"represent: completeness contract violated: molecule %s.%d resolution %d ends at residue %d of %d",
					key.Name, key.Copy, res, next-1, mol.Length()))
			}
		}
	}
}
