package topology_test

import (
	"testing"

	"github.com/katalvlaran/intmod/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewMolecule_EmptySequence verifies that a molecule cannot be
// declared without residues.
func TestNewMolecule_EmptySequence(t *testing.T) {
	st := topology.NewSystem().NewState("s")

	_, err := st.NewMolecule("chainA", "")
	assert.ErrorIs(t, err, topology.ErrEmptySequence, "empty sequence must error")
}

// TestNewMolecule_Duplicate verifies that declaring the same name twice
// is rejected while NewCopy mints distinct copy indices.
func TestNewMolecule_Duplicate(t *testing.T) {
	st := topology.NewSystem().NewState("s")

	a, err := st.NewMolecule("chainA", "ACDEF")
	require.NoError(t, err)

	_, err = st.NewMolecule("chainA", "ACDEF")
	assert.ErrorIs(t, err, topology.ErrDuplicateMolecule, "duplicate name must error")

	b, err := st.NewCopy(a)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Copy(), "first copy gets index 1")
	assert.Equal(t, a.Sequence(), b.Sequence(), "copies share the sequence")
}

// TestAddRepresentation_Validation exercises range and resolution rules.
func TestAddRepresentation_Validation(t *testing.T) {
	st := topology.NewSystem().NewState("s")
	m, err := st.NewMolecule("chainA", "ACDEFGHIKL") // 10 residues
	require.NoError(t, err)

	// Range past the sequence end.
	err = m.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 1,
		Range: topology.ResidueRange{First: 1, Last: 11},
	})
	assert.ErrorIs(t, err, topology.ErrRangeOutOfBounds)

	// Inverted range.
	err = m.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 1,
		Range: topology.ResidueRange{First: 5, Last: 2},
	})
	assert.ErrorIs(t, err, topology.ErrInvalidRange)

	// Atomic must be resolution 0.
	err = m.AddRepresentation(topology.Representation{
		Kind: topology.Atomic, Resolution: 1,
		Range: topology.ResidueRange{First: 1, Last: 10},
	})
	assert.ErrorIs(t, err, topology.ErrInvalidResolution)

	// Non-atomic must be resolution ≥ 1.
	err = m.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 0,
		Range: topology.ResidueRange{First: 1, Last: 10},
	})
	assert.ErrorIs(t, err, topology.ErrInvalidResolution)
}

// TestValidateCoverage_Complete accepts an exact tiling at two resolutions.
func TestValidateCoverage_Complete(t *testing.T) {
	st := topology.NewSystem().NewState("s")
	m, err := st.NewMolecule("chainA", "ACDEFGHIKL")
	require.NoError(t, err)

	require.NoError(t, m.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 1,
		Range: topology.ResidueRange{First: 1, Last: 4},
	}))
	require.NoError(t, m.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 1,
		Range: topology.ResidueRange{First: 5, Last: 10},
	}))
	require.NoError(t, m.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 5,
		Range: topology.ResidueRange{First: 1, Last: 10},
	}))

	assert.NoError(t, topology.ValidateCoverage(m), "exact tiling must validate")
}

// TestValidateCoverage_Gap reports the uncovered span.
func TestValidateCoverage_Gap(t *testing.T) {
	st := topology.NewSystem().NewState("s")
	m, err := st.NewMolecule("chainA", "ACDEFGHIKL")
	require.NoError(t, err)

	require.NoError(t, m.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 1,
		Range: topology.ResidueRange{First: 1, Last: 4},
	}))
	require.NoError(t, m.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 1,
		Range: topology.ResidueRange{First: 7, Last: 10},
	}))

	err = topology.ValidateCoverage(m)
	assert.ErrorIs(t, err, topology.ErrCoverageGap, "residues 5-6 are uncovered")
	assert.Contains(t, err.Error(), "chainA", "error must name the molecule")
	assert.Contains(t, err.Error(), "5-6", "error must name the gap")
}

// TestValidateCoverage_Overlap rejects double coverage at one resolution.
func TestValidateCoverage_Overlap(t *testing.T) {
	st := topology.NewSystem().NewState("s")
	m, err := st.NewMolecule("chainA", "ACDEFGHIKL")
	require.NoError(t, err)

	require.NoError(t, m.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 1,
		Range: topology.ResidueRange{First: 1, Last: 6},
	}))
	require.NoError(t, m.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 1,
		Range: topology.ResidueRange{First: 5, Last: 10},
	}))

	assert.ErrorIs(t, topology.ValidateCoverage(m), topology.ErrCoverageOverlap)
}

// TestValidateCoverage_DensityExempt verifies that Density requests do not
// participate in the tiling invariant.
func TestValidateCoverage_DensityExempt(t *testing.T) {
	st := topology.NewSystem().NewState("s")
	m, err := st.NewMolecule("chainA", "ACDEFGHIKL")
	require.NoError(t, err)

	require.NoError(t, m.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 1,
		Range: topology.ResidueRange{First: 1, Last: 10},
	}))
	// Density over a partial span only; must not trip the gap check.
	require.NoError(t, m.AddRepresentation(topology.Representation{
		Kind: topology.Density, Resolution: 5,
		Range: topology.ResidueRange{First: 3, Last: 8},
	}))

	assert.NoError(t, topology.ValidateCoverage(m))
}

// TestRangeMass sums the residue mass table over a range.
func TestRangeMass(t *testing.T) {
	st := topology.NewSystem().NewState("s")
	m, err := st.NewMolecule("chainA", "GG") // 2 × glycine
	require.NoError(t, err)

	mass, err := m.RangeMass(topology.ResidueRange{First: 1, Last: 2})
	require.NoError(t, err)
	assert.InDelta(t, 2*57.05, mass, 1e-9, "two glycines")

	_, err = m.RangeMass(topology.ResidueRange{First: 1, Last: 3})
	assert.ErrorIs(t, err, topology.ErrRangeOutOfBounds)
}

// TestTableApply builds two molecules from rows, validates coverage, and
// groups rigid-body declarations.
func TestTableApply(t *testing.T) {
	seqs := map[string]string{
		"chainA": "ACDEFGHIKL",
		"chainB": "MNPQR",
	}
	tbl := topology.Table{
		{Molecule: "chainA", Range: topology.ResidueRange{First: 1, Last: 10},
			Kind: topology.Averaged, Resolution: 1, StructureRef: "a.pdb", RigidBody: 1},
		{Molecule: "chainB", Range: topology.ResidueRange{First: 1, Last: 5},
			Kind: topology.Averaged, Resolution: 1, RigidBody: 1},
		{Molecule: "chainB", Copy: 1, Range: topology.ResidueRange{First: 1, Last: 5},
			Kind: topology.Averaged, Resolution: 1},
	}

	st := topology.NewSystem().NewState("s")
	require.NoError(t, tbl.Apply(st, seqs))

	assert.Len(t, st.Molecules(), 3, "chainA, chainB and chainB copy 1")

	b1, err := st.Molecule("chainB", 1)
	require.NoError(t, err)
	assert.Equal(t, "MNPQR", b1.Sequence())
	assert.Len(t, b1.Representations(), 1, "copy 1 carries only its own row")

	groups := tbl.RigidGroups()
	require.Len(t, groups, 1)
	assert.Len(t, groups[1], 2, "rows of group 1 span both chains")
}

// TestTableApply_MissingSequence rejects rows naming unknown molecules.
func TestTableApply_MissingSequence(t *testing.T) {
	tbl := topology.Table{
		{Molecule: "ghost", Range: topology.ResidueRange{First: 1, Last: 3},
			Kind: topology.Averaged, Resolution: 1},
	}
	st := topology.NewSystem().NewState("s")
	assert.ErrorIs(t, tbl.Apply(st, nil), topology.ErrUnknownMolecule)
}
