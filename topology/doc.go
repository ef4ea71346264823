// Package topology defines the logical description of a modeled system:
// Systems, States, Molecules, sequences, and the representation choices
// that apply to residue ranges. It is pure data — no geometry, no
// algorithms — and is constructed once at setup, then read-only.
//
// Core concepts:
//
//   - System — owns one or more States.
//   - State — one alternative global configuration; owns Molecules.
//     Every Molecule belongs to exactly one State.
//   - Molecule — a named polymer chain with a full residue sequence and
//     zero or more copies (for symmetric assemblies).
//   - Representation — a tagged (Kind, Resolution, Range) request telling
//     the builder how to render a contiguous region.
//
// Completeness invariant:
//
//	For a given Molecule, the union of residue ranges across all
//	bead-producing representations at a single resolution must cover the
//	full sequence exactly — no gaps, no overlaps. ValidateCoverage
//	enforces this and names the offending range on failure.
//
// Tabular construction:
//
//	A Table ([]Row) mirrors the columnar topology description (molecule
//	name, residue range, resolution, structure reference, rigid-body
//	group). Apply populates a State from pre-validated rows; parsing the
//	on-disk form is an external collaborator's concern.
//
// All errors are package sentinels; branch with errors.Is.
package topology
