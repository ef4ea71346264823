// Package topology - System, State and Molecule construction.
//
// Construction contract:
//   - A System owns States; a State owns Molecules; a Molecule owns its
//     Representations. All three are built once at setup and treated as
//     immutable afterwards (the builder and samplers only read them).
//   - Copies of a Molecule (for symmetric assemblies) share name and
//     sequence and are distinguished by a copy index assigned in order.
//
// Complexity: all accessors are O(1) or O(n) in the returned slice; no
// hidden allocations beyond defensive copies of returned slices.
package topology

import "fmt"

// System is the root of the topology model. It owns one or more States,
// each describing an alternative global configuration of the assembly.
type System struct {
	states []*State
}

// NewSystem returns an empty System.
func NewSystem() *System { return &System{} }

// NewState appends a new named State to the System and returns it.
func (s *System) NewState(name string) *State {
	st := &State{name: name}
	s.states = append(s.states, st)
	return st
}

// States returns the States in declaration order.
func (s *System) States() []*State { return append([]*State(nil), s.states...) }

// State is one alternative global configuration. Every Molecule belongs
// to exactly one State; the constructor enforces this by being the only
// way to create a Molecule.
type State struct {
	name string
	mols []*Molecule
}

// Name returns the State's name.
func (st *State) Name() string { return st.name }

// Molecules returns the State's molecules in declaration order.
func (st *State) Molecules() []*Molecule { return append([]*Molecule(nil), st.mols...) }

// Molecule looks up a molecule by name and copy index.
// Returns ErrUnknownMolecule when absent.
func (st *State) Molecule(name string, copyIndex int) (*Molecule, error) {
	for _, m := range st.mols {
		if m.name == name && m.copyIndex == copyIndex {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%d", ErrUnknownMolecule, name, copyIndex)
}

// NewMolecule creates copy 0 of a named molecule with the given one-letter
// sequence and attaches it to the State.
//
// Errors:
//   - ErrEmptySequence when seq is empty.
//   - ErrDuplicateMolecule when name+copy 0 already exists.
func (st *State) NewMolecule(name, seq string) (*Molecule, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("%w: molecule %s", ErrEmptySequence, name)
	}
	if _, err := st.Molecule(name, 0); err == nil {
		return nil, fmt.Errorf("%w: %s.0", ErrDuplicateMolecule, name)
	}
	m := &Molecule{name: name, sequence: seq}
	st.mols = append(st.mols, m)
	return m, nil
}

// NewCopy creates the next copy of an existing molecule: same name, same
// sequence, same representations, next free copy index. Used to declare
// symmetric partners before binding them in the DOF manager.
func (st *State) NewCopy(of *Molecule) (*Molecule, error) {
	if of == nil {
		return nil, fmt.Errorf("%w: nil molecule", ErrUnknownMolecule)
	}
	next := 0
	for _, m := range st.mols {
		if m.name == of.name && m.copyIndex >= next {
			next = m.copyIndex + 1
		}
	}
	c := &Molecule{
		name:      of.name,
		copyIndex: next,
		sequence:  of.sequence,
		reps:      append([]Representation(nil), of.reps...),
	}
	st.mols = append(st.mols, c)
	return c, nil
}

// Molecule is a named polymer chain: a full ordered residue sequence plus
// the representation requests that apply to its regions.
type Molecule struct {
	name      string
	copyIndex int
	sequence  string // one-letter residue codes, index 0 == residue 1
	reps      []Representation
}

// Name returns the molecule's name.
func (m *Molecule) Name() string { return m.name }

// Copy returns the molecule's copy index (0 for the original).
func (m *Molecule) Copy() int { return m.copyIndex }

// Sequence returns the full one-letter sequence.
func (m *Molecule) Sequence() string { return m.sequence }

// Length returns the number of residues.
func (m *Molecule) Length() int { return len(m.sequence) }

// Residue returns the one-letter code of residue i (1-based).
// Returns ErrRangeOutOfBounds for indices outside the sequence.
func (m *Molecule) Residue(i int) (byte, error) {
	if i < 1 || i > len(m.sequence) {
		return 0, fmt.Errorf("%w: molecule %s residue %d (length %d)",
			ErrRangeOutOfBounds, m.name, i, len(m.sequence))
	}
	return m.sequence[i-1], nil
}

// Representations returns the molecule's representation requests in the
// order they were added.
func (m *Molecule) Representations() []Representation {
	return append([]Representation(nil), m.reps...)
}

// FullRange returns the range covering the whole sequence.
func (m *Molecule) FullRange() ResidueRange {
	return ResidueRange{First: 1, Last: len(m.sequence)}
}

// AddRepresentation validates and appends one representation request.
//
// Validation:
//   - Range must be well-formed and inside the sequence (ErrInvalidRange /
//     ErrRangeOutOfBounds).
//   - Resolution must be 0 for Atomic and ≥1 for every other kind
//     (ErrInvalidResolution).
//
// Cross-representation coverage is NOT checked here; ValidateCoverage runs
// once after all requests are in, so requests may arrive in any order.
func (m *Molecule) AddRepresentation(rep Representation) error {
	if !rep.Range.valid() {
		return fmt.Errorf("%w: molecule %s range %s", ErrInvalidRange, m.name, rep.Range)
	}
	if rep.Range.Last > len(m.sequence) {
		return fmt.Errorf("%w: molecule %s range %s (length %d)",
			ErrRangeOutOfBounds, m.name, rep.Range, len(m.sequence))
	}
	switch {
	case rep.Resolution < 0:
		return fmt.Errorf("%w: molecule %s resolution %d", ErrInvalidResolution, m.name, rep.Resolution)
	case rep.Kind == Atomic && rep.Resolution != 0:
		return fmt.Errorf("%w: molecule %s atomic representation must use resolution 0",
			ErrInvalidResolution, m.name)
	case rep.Kind != Atomic && rep.Resolution == 0:
		return fmt.Errorf("%w: molecule %s %s representation requires resolution ≥ 1",
			ErrInvalidResolution, m.name, rep.Kind)
	}
	m.reps = append(m.reps, rep)
	return nil
}
