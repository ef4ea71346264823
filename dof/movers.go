// Package dof - concrete movers.
//
// Draw order discipline: every Propose consumes a fixed, documented
// number of RNG draws in a fixed order, so derived per-step streams make
// whole trajectories reproducible regardless of which mover is selected.
package dof

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/intmod/represent"
)

// ballMover displaces one flexible bead by a uniform draw in the cube
// [-maxStep, +maxStep]³. Draws per Propose: 3 × Float64.
type ballMover struct {
	name    string
	unit    represent.UnitID
	maxStep float64
}

func (m *ballMover) Name() string { return m.name }

func (m *ballMover) Units() []represent.UnitID { return []represent.UnitID{m.unit} }

func (m *ballMover) Propose(st *represent.State, rng *rand.Rand) Delta {
	prev := st.Pos(m.unit)
	next := r3.Add(prev, uniformCube(rng, m.maxStep))
	return Delta{
		Units: []represent.UnitID{m.unit},
		Prev:  []r3.Vec{prev},
		Next:  []r3.Vec{next},
	}
}

// blockMover rotates and translates a fixed unit set as one block about
// the set's centroid. It implements both rigid bodies (exclusive
// ownership, every resolution of a region) and super-rigid groups (the
// same motion applied occasionally over several bodies at once); the two
// differ only in how the manager assembles the unit set.
//
// Draws per Propose: 3 × NormFloat64 (axis) + 1 × Float64 (angle)
// + 3 × Float64 (translation).
type blockMover struct {
	name     string
	units    []represent.UnitID
	maxTrans float64
	maxRot   float64
}

func (m *blockMover) Name() string              { return m.name }
func (m *blockMover) Units() []represent.UnitID { return append([]represent.UnitID(nil), m.units...) }

func (m *blockMover) Propose(st *represent.State, rng *rand.Rand) Delta {
	// Fixed draw order: axis, angle, translation.
	axis := randomAxis(rng)
	angle := (2*rng.Float64() - 1) * m.maxRot
	trans := uniformCube(rng, m.maxTrans)

	rot := r3.NewRotation(angle, axis)

	// Pivot: unweighted centroid of the current member positions.
	var pivot r3.Vec
	for _, id := range m.units {
		pivot = r3.Add(pivot, st.Pos(id))
	}
	pivot = r3.Scale(1/float64(len(m.units)), pivot)

	d := Delta{
		Units: append([]represent.UnitID(nil), m.units...),
		Prev:  make([]r3.Vec, len(m.units)),
		Next:  make([]r3.Vec, len(m.units)),
	}
	for i, id := range m.units {
		p := st.Pos(id)
		d.Prev[i] = p
		d.Next[i] = r3.Add(r3.Add(pivot, rot.Rotate(r3.Sub(p, pivot))), trans)
	}
	return d
}

// symmetricMover decorates a mover so that every proposed move of the
// reference units sets each symmetric partner to the declared operator
// applied to its reference's new position. The coupling lives inside the
// Delta itself: apply and revert move reference and partners atomically.
type symmetricMover struct {
	inner Mover
	links []symmetryLink
}

// symmetryLink maps reference units to one partner set through one
// operator.
type symmetryLink struct {
	refToClone map[represent.UnitID]represent.UnitID
	op         Transform
}

func (m *symmetricMover) Name() string { return m.inner.Name() + "/sym" }

func (m *symmetricMover) Units() []represent.UnitID {
	out := m.inner.Units()
	for _, l := range m.links {
		for _, ref := range m.inner.Units() {
			if clone, ok := l.refToClone[ref]; ok {
				out = append(out, clone)
			}
		}
	}
	return out
}

func (m *symmetricMover) Propose(st *represent.State, rng *rand.Rand) Delta {
	d := m.inner.Propose(st, rng)
	for _, l := range m.links {
		for i, ref := range d.Units[:len(d.Units):len(d.Units)] {
			clone, ok := l.refToClone[ref]
			if !ok {
				continue
			}
			d.Units = append(d.Units, clone)
			d.Prev = append(d.Prev, st.Pos(clone))
			d.Next = append(d.Next, l.op.Apply(d.Next[i]))
		}
	}
	return d
}

// uniformCube draws a displacement uniformly from [-max, +max]³.
func uniformCube(rng *rand.Rand, max float64) r3.Vec {
	return r3.Vec{
		X: (2*rng.Float64() - 1) * max,
		Y: (2*rng.Float64() - 1) * max,
		Z: (2*rng.Float64() - 1) * max,
	}
}

// randomAxis draws a uniformly distributed unit vector (normalized
// Gaussian triple). A zero draw falls back to +z; the probability is
// vanishing but the fallback keeps Propose total.
func randomAxis(rng *rand.Rand) r3.Vec {
	v := r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
	n := r3.Norm(v)
	if n == 0 {
		return r3.Vec{Z: 1}
	}
	return r3.Scale(1/n, v)
}

// moverName builds stable mover names for logs and records.
func moverName(kind string, idx int) string { return fmt.Sprintf("%s[%d]", kind, idx) }
