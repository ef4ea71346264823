package represent_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/intmod/represent"
	"github.com/katalvlaran/intmod/topology"
)

// buildChain declares a single fully-structured molecule of n residues
// with one atom per residue on the x axis (residue i at x=i, mass 100).
func buildChain(t *testing.T, n int, resolutions ...int) (*topology.State, map[represent.MolKey]*represent.Structure) {
	t.Helper()

	st := topology.NewSystem().NewState("s")
	mol, err := st.NewMolecule("chainA", strings.Repeat("A", n))
	require.NoError(t, err)

	full := topology.ResidueRange{First: 1, Last: n}
	for _, res := range resolutions {
		kind := topology.Averaged
		if res == 0 {
			kind = topology.Atomic
		}
		require.NoError(t, mol.AddRepresentation(topology.Representation{
			Kind: kind, Resolution: res, Range: full,
		}))
	}

	src := represent.NewStructure()
	for i := 1; i <= n; i++ {
		require.NoError(t, src.AddAtom(represent.Atom{
			Residue: i, Pos: r3.Vec{X: float64(i)}, Mass: 100,
		}))
	}
	return st, map[represent.MolKey]*represent.Structure{
		{Name: "chainA"}: src,
	}
}

// TestBuild_HundredResiduesTwoResolutions is the canonical scenario: a
// fully structured 100-residue molecule at resolutions {0, 10} yields 100
// resolution-0 beads and 10 resolution-10 beads, each coarse bead sitting
// at the mean position of its 10 constituent residues.
func TestBuild_HundredResiduesTwoResolutions(t *testing.T) {
	st, structs := buildChain(t, 100, 0, 10)

	h, err := represent.Build(st, structs)
	require.NoError(t, err)

	key := represent.MolKey{Name: "chainA"}
	fine := h.MoleculeBeads(key, 0)
	coarse := h.MoleculeBeads(key, 10)
	assert.Len(t, fine, 100, "one resolution-0 bead per residue")
	assert.Len(t, coarse, 10, "ten resolution-10 beads")

	for i, id := range coarse {
		b := h.Bead(id)
		// Bead i covers residues 10i+1..10i+10; equal masses make the
		// mass-weighted average the plain mean: x = 10i + 5.5.
		want := float64(10*i) + 5.5
		assert.InDelta(t, want, b.BuildPos().X, 1e-9, "coarse bead %d position", i)
		assert.Equal(t, topology.ResidueRange{First: 10*i + 1, Last: 10*i + 10}, b.Range)
		assert.True(t, b.Structured)
	}
}

// TestBuild_MassConservation verifies that the total mass of a molecule
// is identical at every built resolution.
func TestBuild_MassConservation(t *testing.T) {
	st, structs := buildChain(t, 100, 0, 7, 10)

	h, err := represent.Build(st, structs)
	require.NoError(t, err)

	key := represent.MolKey{Name: "chainA"}
	total := func(res int) float64 {
		var m float64
		for _, id := range h.MoleculeBeads(key, res) {
			m += h.Bead(id).Mass
		}
		return m
	}

	m0 := total(0)
	assert.InDelta(t, m0, total(7), 1e-9, "resolution 7 conserves mass")
	assert.InDelta(t, m0, total(10), 1e-9, "resolution 10 conserves mass")
}

// TestBuild_MissingStructureAtomic verifies the fatal setup error for an
// atomic request over a structureless range, naming molecule and range.
func TestBuild_MissingStructureAtomic(t *testing.T) {
	st := topology.NewSystem().NewState("s")
	mol, err := st.NewMolecule("chainA", "ACDEF")
	require.NoError(t, err)
	require.NoError(t, mol.AddRepresentation(topology.Representation{
		Kind: topology.Atomic, Resolution: 0,
		Range: topology.ResidueRange{First: 1, Last: 5},
	}))

	_, err = represent.Build(st, nil)
	assert.ErrorIs(t, err, represent.ErrMissingStructure)
	assert.Contains(t, err.Error(), "chainA", "error must name the molecule")
}

// TestBuild_UnstructuredBeads verifies that structureless groups become
// unplaced spheres with residue-table masses and a volume-derived radius.
func TestBuild_UnstructuredBeads(t *testing.T) {
	st := topology.NewSystem().NewState("s")
	mol, err := st.NewMolecule("chainA", "GGGGGGGGGG") // 10 glycines
	require.NoError(t, err)
	require.NoError(t, mol.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 5,
		Range: topology.ResidueRange{First: 1, Last: 10},
	}))

	h, err := represent.Build(st, nil)
	require.NoError(t, err)

	key := represent.MolKey{Name: "chainA"}
	ids := h.MoleculeBeads(key, 5)
	require.Len(t, ids, 2)

	wantMass := 5 * 57.05 // five glycines per bead
	for _, id := range ids {
		b := h.Bead(id)
		assert.False(t, b.Structured, "no structure means unplaced bead")
		assert.InDelta(t, wantMass, b.Mass, 1e-9)
		assert.InDelta(t, topology.RadiusFromMass(wantMass), b.Radius, 1e-9)
	}
}

// TestBuild_PartialStructure verifies the mixed path: groups fully
// covered by atoms average; groups missing any atom become unstructured.
func TestBuild_PartialStructure(t *testing.T) {
	st := topology.NewSystem().NewState("s")
	mol, err := st.NewMolecule("chainA", strings.Repeat("A", 10))
	require.NoError(t, err)
	require.NoError(t, mol.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 5,
		Range: topology.ResidueRange{First: 1, Last: 10},
	}))

	// Atoms only for residues 1..5.
	src := represent.NewStructure()
	for i := 1; i <= 5; i++ {
		require.NoError(t, src.AddAtom(represent.Atom{Residue: i, Pos: r3.Vec{X: float64(i)}, Mass: 10}))
	}

	h, err := represent.Build(st, map[represent.MolKey]*represent.Structure{{Name: "chainA"}: src})
	require.NoError(t, err)

	ids := h.MoleculeBeads(represent.MolKey{Name: "chainA"}, 5)
	require.Len(t, ids, 2)
	assert.True(t, h.Bead(ids[0]).Structured, "residues 1-5 have atoms")
	assert.InDelta(t, 3.0, h.Bead(ids[0]).BuildPos().X, 1e-9, "mean of x=1..5")
	assert.False(t, h.Bead(ids[1]).Structured, "residues 6-10 have none")
}

// TestBuild_MissingBeadSize verifies the bead-size override: maximal
// structureless runs regroup by the configured size while structured
// territory keeps the display resolution, and the per-resolution tiling
// survives intact.
func TestBuild_MissingBeadSize(t *testing.T) {
	st := topology.NewSystem().NewState("s")
	mol, err := st.NewMolecule("chainA", strings.Repeat("A", 20))
	require.NoError(t, err)
	require.NoError(t, mol.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 10,
		Range: topology.ResidueRange{First: 1, Last: 20},
	}))

	// Atoms only for residues 1..10; 11..20 are a structureless run.
	src := represent.NewStructure()
	for i := 1; i <= 10; i++ {
		require.NoError(t, src.AddAtom(represent.Atom{Residue: i, Pos: r3.Vec{X: float64(i)}, Mass: 10}))
	}

	h, err := represent.Build(st,
		map[represent.MolKey]*represent.Structure{{Name: "chainA"}: src},
		represent.WithMissingBeadSize(3))
	require.NoError(t, err)

	ids := h.MoleculeBeads(represent.MolKey{Name: "chainA"}, 10)
	require.Len(t, ids, 5, "one structured bead + 3+3+3+1 missing beads")

	first := h.Bead(ids[0])
	assert.True(t, first.Structured)
	assert.Equal(t, topology.ResidueRange{First: 1, Last: 10}, first.Range)

	wantRanges := []topology.ResidueRange{
		{First: 11, Last: 13}, {First: 14, Last: 16}, {First: 17, Last: 19}, {First: 20, Last: 20},
	}
	for i, want := range wantRanges {
		b := h.Bead(ids[i+1])
		assert.Equal(t, want, b.Range)
		assert.False(t, b.Structured)
		assert.Equal(t, 10, b.Resolution, "missing beads stay at the display resolution")
	}
}

// TestBuild_CoverageGapFails verifies the builder refuses incomplete
// topology up front.
func TestBuild_CoverageGapFails(t *testing.T) {
	st := topology.NewSystem().NewState("s")
	mol, err := st.NewMolecule("chainA", "ACDEFGHIKL")
	require.NoError(t, err)
	require.NoError(t, mol.AddRepresentation(topology.Representation{
		Kind: topology.Averaged, Resolution: 1,
		Range: topology.ResidueRange{First: 1, Last: 4},
	}))

	_, err = represent.Build(st, nil)
	assert.ErrorIs(t, err, topology.ErrCoverageGap)
}

// TestBuild_RemainderGroup verifies the last group of a non-divisible
// range is shorter, not dropped, and coverage still holds.
func TestBuild_RemainderGroup(t *testing.T) {
	st, structs := buildChain(t, 10, 3)

	h, err := represent.Build(st, structs)
	require.NoError(t, err)

	ids := h.MoleculeBeads(represent.MolKey{Name: "chainA"}, 3)
	require.Len(t, ids, 4, "10 residues at resolution 3 ⇒ 3+3+3+1 beads")
	assert.Equal(t, topology.ResidueRange{First: 10, Last: 10}, h.Bead(ids[3]).Range)
}

// TestState_CloneIndependence verifies per-replica state copies do not
// alias each other.
func TestState_CloneIndependence(t *testing.T) {
	st, structs := buildChain(t, 10, 1)
	h, err := represent.Build(st, structs)
	require.NoError(t, err)

	a := h.NewState()
	b := a.Clone()
	a.SetPos(0, r3.Vec{X: 99})

	assert.Equal(t, 99.0, a.Pos(0).X)
	assert.Equal(t, 1.0, b.Pos(0).X, "clone keeps the build position")

	err = b.SetAll(make([]r3.Vec, 3))
	assert.ErrorIs(t, err, represent.ErrStateSize)
}

// TestHelix_Geometry verifies the parametric ideal helix: 1.51 Å rise,
// 2.3 Å radius, and a 100° turn between consecutive residues.
func TestHelix_Geometry(t *testing.T) {
	st := topology.NewSystem().NewState("s")
	mol, err := st.NewMolecule("chainA", strings.Repeat("A", 21))
	require.NoError(t, err)
	require.NoError(t, mol.AddRepresentation(topology.Representation{
		Kind: topology.Idealized, Resolution: 1,
		Range: topology.ResidueRange{First: 1, Last: 21},
	}))

	h, err := represent.Build(st, nil)
	require.NoError(t, err)

	ids := h.MoleculeBeads(represent.MolKey{Name: "chainA"}, 1)
	require.Len(t, ids, 21)

	for i, id := range ids {
		b := h.Bead(id)
		p := b.BuildPos()
		assert.InDelta(t, 1.51*float64(i), p.Z, 1e-9, "rise per residue")
		assert.InDelta(t, 2.3, math.Hypot(p.X, p.Y), 1e-9, "radius from axis")
		assert.True(t, b.Structured)
	}

	// 100° per residue: check the angle swept between residues 0 and 1.
	p0, p1 := h.Bead(ids[0]).BuildPos(), h.Bead(ids[1]).BuildPos()
	a0 := math.Atan2(p0.Y, p0.X)
	a1 := math.Atan2(p1.Y, p1.X)
	assert.InDelta(t, 100.0, (a1-a0)*180/math.Pi, 1e-9)
}

// TestHelix_ResolutionRule verifies Idealized requests demand resolution 1.
func TestHelix_ResolutionRule(t *testing.T) {
	st := topology.NewSystem().NewState("s")
	mol, err := st.NewMolecule("chainA", strings.Repeat("A", 10))
	require.NoError(t, err)
	require.NoError(t, mol.AddRepresentation(topology.Representation{
		Kind: topology.Idealized, Resolution: 5,
		Range: topology.ResidueRange{First: 1, Last: 10},
	}))
	// A resolution-5 tiling must also exist so coverage validation passes
	// and the builder reaches the helix constructor.
	_, err = represent.Build(st, nil)
	assert.ErrorIs(t, err, represent.ErrIdealHelixResolution)
}
