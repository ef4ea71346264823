// Package represent - the built hierarchy and the mutable position state.
//
// Hierarchy is an arena: beads live in one dense slice, UnitID is the
// index, and every grouping (per molecule, per resolution) is a slice of
// indices into the arena. Downstream packages reference beads by UnitID
// only — no back-pointers, so movement propagation stays auditable.
package represent

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/intmod/topology"
)

// Hierarchy is the immutable result of Build: all beads of all molecules
// at all requested resolutions, plus any fitted density components.
type Hierarchy struct {
	beads     []*Bead
	byMol     map[MolKey]map[int][]UnitID // molecule → resolution → bead ids
	densities map[MolKey][]DensityComponent
}

func newHierarchy() *Hierarchy {
	return &Hierarchy{
		byMol:     make(map[MolKey]map[int][]UnitID),
		densities: make(map[MolKey][]DensityComponent),
	}
}

// addBead appends a bead to the arena, assigns its ID, and indexes it.
func (h *Hierarchy) addBead(b *Bead) UnitID {
	b.ID = UnitID(len(h.beads))
	h.beads = append(h.beads, b)
	perRes, ok := h.byMol[b.Mol]
	if !ok {
		perRes = make(map[int][]UnitID)
		h.byMol[b.Mol] = perRes
	}
	perRes[b.Resolution] = append(perRes[b.Resolution], b.ID)
	return b.ID
}

// NumUnits returns the number of beads in the arena.
func (h *Hierarchy) NumUnits() int { return len(h.beads) }

// Bead returns the bead with the given id; nil for out-of-range ids.
func (h *Hierarchy) Bead(id UnitID) *Bead {
	if id < 0 || int(id) >= len(h.beads) {
		return nil
	}
	return h.beads[id]
}

// Beads returns all beads in construction order. The slice is a copy;
// the beads themselves are shared and must be treated as read-only.
func (h *Hierarchy) Beads() []*Bead { return append([]*Bead(nil), h.beads...) }

// MoleculeBeads returns the bead ids of one molecule copy at one
// resolution, in ascending residue order (requests may arrive out of
// sequence order, so the index is sorted on read).
func (h *Hierarchy) MoleculeBeads(mol MolKey, resolution int) []UnitID {
	ids := append([]UnitID(nil), h.byMol[mol][resolution]...)
	sort.Slice(ids, func(i, j int) bool {
		return h.beads[ids[i]].Range.First < h.beads[ids[j]].Range.First
	})
	return ids
}

// Resolutions returns the resolutions built for one molecule copy,
// ascending.
func (h *Hierarchy) Resolutions(mol MolKey) []int {
	perRes := h.byMol[mol]
	out := make([]int, 0, len(perRes))
	for res := range perRes {
		out = append(out, res)
	}
	sort.Ints(out)
	return out
}

// Molecules returns the molecule copies present in the hierarchy, sorted
// by name then copy index for deterministic iteration.
func (h *Hierarchy) Molecules() []MolKey {
	out := make([]MolKey, 0, len(h.byMol))
	for k := range h.byMol {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Copy < out[j].Copy
	})
	return out
}

// SelectBeads returns ids of beads of one molecule copy, at every built
// resolution, whose residue range overlaps rr. This is the selection
// primitive rigid bodies are declared with: binding a range binds all its
// resolutions at once.
//
// Complexity: O(beads of the molecule).
func (h *Hierarchy) SelectBeads(mol MolKey, rr topology.ResidueRange) []UnitID {
	var out []UnitID
	for _, ids := range h.byMol[mol] {
		for _, id := range ids {
			if h.beads[id].Range.Overlaps(rr) {
				out = append(out, id)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Densities returns the fitted density components of one molecule copy.
// Densities are general purpose: any restraint may consume them.
func (h *Hierarchy) Densities(mol MolKey) []DensityComponent {
	return append([]DensityComponent(nil), h.densities[mol]...)
}

// NewState snapshots all build positions into a fresh mutable State.
func (h *Hierarchy) NewState() *State {
	pos := make([]r3.Vec, len(h.beads))
	for i, b := range h.beads {
		pos[i] = b.pos
	}
	return &State{pos: pos}
}

// State is the full movable-unit configuration: one position per bead,
// indexed by UnitID. States are cheap to clone; each sampling replica
// owns its own. A State never outgrows or shrinks its hierarchy.
type State struct {
	pos []r3.Vec
}

// Len returns the number of units.
func (s *State) Len() int { return len(s.pos) }

// Pos returns the position of unit id.
func (s *State) Pos(id UnitID) r3.Vec { return s.pos[id] }

// SetPos overwrites the position of unit id.
func (s *State) SetPos(id UnitID, p r3.Vec) { s.pos[id] = p }

// Clone returns an independent deep copy.
func (s *State) Clone() *State {
	return &State{pos: append([]r3.Vec(nil), s.pos...)}
}

// Positions returns a copy of the full position vector (for snapshots
// and checkpoints).
func (s *State) Positions() []r3.Vec { return append([]r3.Vec(nil), s.pos...) }

// SetAll replaces the full position vector (checkpoint restore).
// Returns ErrStateSize when lengths differ.
func (s *State) SetAll(pos []r3.Vec) error {
	if len(pos) != len(s.pos) {
		return ErrStateSize
	}
	copy(s.pos, pos)
	return nil
}
