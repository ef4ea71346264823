// Package represent turns a topology.State plus optional atomic structure
// into a concrete multi-resolution hierarchy of beads and Gaussian
// density components.
//
// Contract (per representation kind):
//
//   - Atomic — one bead per residue at resolution 0, positions taken
//     directly from input structure. Ranges lacking atomic data are a
//     fatal setup error (ErrMissingStructure).
//   - Averaged — one bead per group of Resolution consecutive residues.
//     Groups with full atomic coverage sit at the mass-weighted average
//     of their atoms; structureless groups become spheres sized by the
//     empirical volume-per-residue relationship and are left unplaced
//     (positioned by shuffling or sampling later).
//   - Idealized — resolution-1 beads on canonical α-helix backbone
//     coordinates (1.51 Å rise, 100° turn, 2.3 Å radius); for regions
//     whose secondary structure is known but whose atoms are not.
//   - Density — a Gaussian mixture fitted to the range's atomic
//     positions, one component per residues-per-component granularity.
//     Non-convergence is recoverable: the region falls back to no
//     density and a warning is logged with the molecule, range and cause.
//
// Invariants enforced on exit:
//
//   - Completeness: for every molecule and requested resolution, bead
//     ranges tile the sequence exactly. A violation here is a programming
//     contract failure and panics; bad input data is caught earlier with
//     sentinel errors.
//   - Mass conservation: the total mass of a region is identical at every
//     resolution (group masses are sums over the same sources).
//
// Positions mutate during sampling through State, an explicit flat
// position vector keyed by UnitID. Bead identity, residue range, mass
// and radius are fixed for the run.
package represent
