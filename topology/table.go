// Package topology - tabular construction of a State.
//
// A Table mirrors the columnar topology description used by modeling
// pipelines: one row per (molecule, residue range, representation) with
// an optional structure-source reference and rigid-body group id. Rows
// arrive already parsed and syntactically validated; reading the on-disk
// form is an external collaborator's concern.
package topology

import "fmt"

// Row is one line of the tabular topology description.
//
// Fields:
//   - Molecule     — molecule name; the sequence must be supplied separately.
//   - Copy         — copy index (0 for the original chain).
//   - Range        — residue span the row configures.
//   - Kind         — representation kind for the span.
//   - Resolution   — residues per bead (0 only for Atomic); for Density,
//     the residues-per-component granularity.
//   - StructureRef — opaque reference to the atomic-structure source for
//     the span; empty means no structure. The core never dereferences it.
//   - RigidBody    — rigid-body group id; 0 means not rigid. Rows sharing
//     a non-zero id move as one body.
type Row struct {
	Molecule     string
	Copy         int
	Range        ResidueRange
	Kind         RepresentationKind
	Resolution   int
	StructureRef string
	RigidBody    int
}

// Table is an ordered set of Rows describing one State.
type Table []Row

// Apply populates st from the table. seqs maps molecule name to its full
// one-letter sequence; every distinct (Molecule, Copy) pair in the table
// becomes a Molecule, created in first-appearance order, with copies
// materialized in ascending copy-index order.
//
// Validation performed here: sequence presence, range/resolution rules
// (via AddRepresentation), and the completeness invariant (ValidateState)
// once all rows are in.
//
// Errors: ErrUnknownMolecule for a name missing from seqs; otherwise the
// sentinels raised by construction and validation, each naming the
// molecule and range at fault.
//
// Complexity: O(rows · copies) construction + validation cost.
func (t Table) Apply(st *State, seqs map[string]string) error {
	// Pass 1: materialize every (molecule, copy) pair before any
	// representation lands, so copies never inherit partial requests.
	for _, row := range t {
		seq, ok := seqs[row.Molecule]
		if !ok {
			return fmt.Errorf("%w: %s (no sequence provided)", ErrUnknownMolecule, row.Molecule)
		}
		if _, err := materializeCopy(st, row.Molecule, seq, row.Copy); err != nil {
			return err
		}
	}

	// Pass 2: attach representation requests row by row.
	for _, row := range t {
		mol, err := st.Molecule(row.Molecule, row.Copy)
		if err != nil {
			return err
		}
		if err = mol.AddRepresentation(Representation{
			Kind:       row.Kind,
			Resolution: row.Resolution,
			Range:      row.Range,
		}); err != nil {
			return err
		}
	}
	return ValidateState(st)
}

// RigidGroups collects the rows of each non-zero rigid-body group,
// preserving row order inside a group. The result feeds the DOF manager's
// rigid-body declarations.
//
// Complexity: O(rows).
func (t Table) RigidGroups() map[int][]Row {
	groups := make(map[int][]Row)
	for _, row := range t {
		if row.RigidBody == 0 {
			continue
		}
		groups[row.RigidBody] = append(groups[row.RigidBody], row)
	}
	return groups
}

// materializeCopy ensures copies 0..copyIndex of a molecule exist and
// returns the requested one. Representations added later apply only to
// the copy named by the row; a table wanting identical copies repeats the
// rows per copy.
func materializeCopy(st *State, name, seq string, copyIndex int) (*Molecule, error) {
	base, err := st.Molecule(name, 0)
	if err != nil {
		if base, err = st.NewMolecule(name, seq); err != nil {
			return nil, err
		}
	}
	for {
		mol, lookupErr := st.Molecule(name, copyIndex)
		if lookupErr == nil {
			return mol, nil
		}
		if _, err = st.NewCopy(base); err != nil {
			return nil, err
		}
	}
}
