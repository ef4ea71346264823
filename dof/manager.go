// Package dof - the degrees-of-freedom manager.
//
// Manager consumes a built hierarchy plus declarations of what moves how,
// and finalizes an ordered mover collection. Declarations are validated
// eagerly (fatal sentinels naming molecule and range); Movers() assembles
// the final, symmetry-wrapped collection.
package dof

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/intmod/represent"
)

// Manager accumulates rigid-body, flexibility, super-rigid and symmetry
// declarations over one hierarchy.
type Manager struct {
	h   *represent.Hierarchy
	cfg config

	owner  []int // unit → rigid body index, -1 when flexible
	rigid  [][]represent.UnitID
	super  [][]represent.UnitID
	flex   []represent.UnitID
	links  []symmetryLink
	frozen []represent.UnitID // symmetric partners: driven, never given movers
}

// NewManager returns an empty manager over h.
func NewManager(h *represent.Hierarchy, opts ...Option) *Manager {
	owner := make([]int, h.NumUnits())
	for i := range owner {
		owner[i] = -1
	}
	return &Manager{h: h, cfg: newConfig(opts), owner: owner}
}

// resolve expands selections into unit ids across all resolutions,
// deduplicated and sorted. ErrEmptySelection when nothing matches.
func (m *Manager) resolve(sels []Selection) ([]represent.UnitID, error) {
	seen := make(map[represent.UnitID]struct{})
	var out []represent.UnitID
	for _, sel := range sels {
		for _, id := range m.h.SelectBeads(sel.Mol, sel.Range) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySelection, describeSelections(sels))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// AddRigidBody binds every bead of the selections — at every built
// resolution — into one rigid body with immutable internal geometry, and
// returns the body's index.
//
// Errors:
//   - ErrEmptySelection when nothing matches.
//   - ErrUnitInRigidBody when any selected unit already belongs to a body
//     (every movable unit belongs to at most one rigid body).
//
// Complexity: O(selected units).
func (m *Manager) AddRigidBody(sels ...Selection) (int, error) {
	units, err := m.resolve(sels)
	if err != nil {
		return 0, err
	}
	for _, id := range units {
		if m.owner[id] != -1 {
			b := m.h.Bead(id)
			return 0, fmt.Errorf("%w: molecule %s.%d range %s (body %d)",
				ErrUnitInRigidBody, b.Mol.Name, b.Mol.Copy, b.Range, m.owner[id])
		}
	}
	idx := len(m.rigid)
	for _, id := range units {
		m.owner[id] = idx
	}
	m.rigid = append(m.rigid, units)
	return idx, nil
}

// AddFlexibleBeads gives every selected bead not owned by a rigid body an
// independent ball mover. Beads already rigid are skipped silently (they
// move with their body); selecting only rigid beads is ErrEmptySelection.
//
// Complexity: O(selected units).
func (m *Manager) AddFlexibleBeads(sels ...Selection) error {
	units, err := m.resolve(sels)
	if err != nil {
		return err
	}
	var free []represent.UnitID
	for _, id := range units {
		if m.owner[id] == -1 {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		return fmt.Errorf("%w: %s (all matched beads are rigid)",
			ErrEmptySelection, describeSelections(sels))
	}
	m.flex = append(m.flex, free...)
	return nil
}

// AddSuperRigidBody declares an additional block freedom over the
// selections: the whole group occasionally translates and rotates as one,
// on top of the members' individual freedoms. Ownership is not claimed,
// so a super-rigid group may span rigid bodies and flexible beads.
//
// Complexity: O(selected units).
func (m *Manager) AddSuperRigidBody(sels ...Selection) error {
	units, err := m.resolve(sels)
	if err != nil {
		return err
	}
	m.super = append(m.super, units)
	return nil
}

// AddSuperRigidChain declares super-rigid bodies over every contiguous
// window of fragments with length in [minLen, maxLen] — the standard way
// to improve sampling of elongated assemblies.
//
// Errors: ErrBadWindow unless 1 ≤ minLen ≤ maxLen ≤ len(frags).
//
// Complexity: O(maxLen² · fragments) selection work.
func (m *Manager) AddSuperRigidChain(frags []Selection, minLen, maxLen int) error {
	if minLen < 1 || maxLen < minLen || maxLen > len(frags) {
		return fmt.Errorf("%w: min %d max %d over %d fragments",
			ErrBadWindow, minLen, maxLen, len(frags))
	}
	for length := minLen; length <= maxLen; length++ {
		for start := 0; start+length <= len(frags); start++ {
			if err := m.AddSuperRigidBody(frags[start : start+length]...); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddSymmetry couples a clone region to a reference region through a
// rigid operator: every move of a reference bead propagates op to its
// paired clone bead inside the same delta. Clone units are driven — they
// receive no movers of their own.
//
// Pairing matches beads by resolution and by offset within the selection
// range; ErrSymmetryMismatch when the two selections do not pair
// one-to-one.
//
// Complexity: O(selected units · resolutions).
func (m *Manager) AddSymmetry(ref, clone Selection, op Transform) error {
	pairs := make(map[represent.UnitID]represent.UnitID)
	for _, res := range m.h.Resolutions(ref.Mol) {
		refs := idsInRange(m.h, ref, res)
		clones := idsInRange(m.h, clone, res)
		if len(refs) != len(clones) {
			return fmt.Errorf("%w: molecule %s.%d %s has %d beads at resolution %d, %s.%d %s has %d",
				ErrSymmetryMismatch,
				ref.Mol.Name, ref.Mol.Copy, ref.Range, len(refs), res,
				clone.Mol.Name, clone.Mol.Copy, clone.Range, len(clones))
		}
		for i := range refs {
			pairs[refs[i]] = clones[i]
		}
	}
	if len(pairs) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptySelection, describeSelections([]Selection{ref}))
	}
	m.links = append(m.links, symmetryLink{refToClone: pairs, op: op})
	for _, clone := range pairs {
		m.frozen = append(m.frozen, clone)
	}
	return nil
}

// Movers assembles the finalized, ordered mover collection:
// rigid bodies first, then flexible beads, then super-rigid groups —
// each wrapped for symmetry when it drives a coupled reference unit.
// Symmetric partner (driven) units never get movers of their own.
//
// Complexity: O(movers · symmetry links).
func (m *Manager) Movers() []Mover {
	driven := make(map[represent.UnitID]struct{}, len(m.frozen))
	for _, id := range m.frozen {
		driven[id] = struct{}{}
	}

	var out []Mover
	for i, units := range m.rigid {
		out = append(out, m.wrap(&blockMover{
			name:     moverName("rigid", i),
			units:    units,
			maxTrans: m.cfg.maxTrans,
			maxRot:   m.cfg.maxRot,
		}))
	}
	flexIdx := 0
	for _, id := range m.flex {
		if _, isDriven := driven[id]; isDriven {
			continue
		}
		out = append(out, m.wrap(&ballMover{
			name:    moverName("bead", flexIdx),
			unit:    id,
			maxStep: m.cfg.maxStep,
		}))
		flexIdx++
	}
	for i, units := range m.super {
		out = append(out, m.wrap(&blockMover{
			name:     moverName("super", i),
			units:    units,
			maxTrans: m.cfg.maxTrans,
			maxRot:   m.cfg.maxRot,
		}))
	}
	return out
}

// wrap decorates a mover with every symmetry link touching its units.
func (m *Manager) wrap(inner Mover) Mover {
	var touching []symmetryLink
	for _, l := range m.links {
		for _, id := range inner.Units() {
			if _, ok := l.refToClone[id]; ok {
				touching = append(touching, l)
				break
			}
		}
	}
	if len(touching) == 0 {
		return inner
	}
	return &symmetricMover{inner: inner, links: touching}
}

// Shuffle randomizes the initial configuration: every rigid body gets one
// shared random translation and every flexible bead an independent one,
// all drawn uniformly from [-bound, +bound]³. Symmetry links are applied
// afterwards so coupled copies start consistent.
//
// Complexity: O(units).
func (m *Manager) Shuffle(st *represent.State, bound float64, rng *rand.Rand) {
	for _, units := range m.rigid {
		t := uniformCube(rng, bound)
		for _, id := range units {
			st.SetPos(id, r3.Add(st.Pos(id), t))
		}
	}
	for _, id := range m.flex {
		st.SetPos(id, r3.Add(st.Pos(id), uniformCube(rng, bound)))
	}
	for _, l := range m.links {
		for ref, clone := range l.refToClone {
			st.SetPos(clone, l.op.Apply(st.Pos(ref)))
		}
	}
}

// idsInRange returns the bead ids of sel's molecule at one resolution
// whose range lies inside sel.Range, ascending by residue.
func idsInRange(h *represent.Hierarchy, sel Selection, res int) []represent.UnitID {
	var out []represent.UnitID
	for _, id := range h.MoleculeBeads(sel.Mol, res) {
		if h.Bead(id).Range.Overlaps(sel.Range) {
			out = append(out, id)
		}
	}
	return out
}

// describeSelections renders selections for error messages.
func describeSelections(sels []Selection) string {
	s := ""
	for i, sel := range sels {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s.%d %s", sel.Mol.Name, sel.Mol.Copy, sel.Range)
	}
	return s
}
