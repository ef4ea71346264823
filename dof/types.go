// Package dof - types, sentinel errors and manager options.
//
// Error policy (strict):
//   - Only sentinel variables are exposed; branch with errors.Is.
//   - Setup errors name the offending molecule and residue range.
//   - Option constructors validate and panic on meaningless input.
package dof

import (
	"errors"
	"math/rand"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/intmod/represent"
	"github.com/katalvlaran/intmod/topology"
)

// Sentinel errors for degrees-of-freedom setup.
var (
	// ErrUnitInRigidBody indicates a unit selected into a second rigid body.
	ErrUnitInRigidBody = errors.New("dof: unit already in a rigid body")

	// ErrEmptySelection indicates a selection matching no beads.
	ErrEmptySelection = errors.New("dof: selection matches no beads")

	// ErrSymmetryMismatch indicates reference and clone selections whose
	// beads cannot be paired one-to-one by resolution and residue range.
	ErrSymmetryMismatch = errors.New("dof: symmetry selections do not pair")

	// ErrBadWindow indicates a super-rigid chain window outside
	// 1 ≤ min ≤ max ≤ len(fragments).
	ErrBadWindow = errors.New("dof: invalid super-rigid chain window")
)

// Selection addresses beads by molecule copy and residue span. It
// resolves against a hierarchy at every built resolution at once.
type Selection struct {
	Mol   represent.MolKey
	Range topology.ResidueRange
}

// Transform is a proper rigid transform x ↦ R(x) + T. Used for symmetry
// operators relating molecule copies.
type Transform struct {
	R r3.Rotation
	T r3.Vec
}

// Apply maps one point through the transform.
func (tr Transform) Apply(x r3.Vec) r3.Vec { return r3.Add(tr.R.Rotate(x), tr.T) }

// Delta is one reversible proposed move: explicit before/after positions
// for every touched unit. Apply and Revert are exact inverses.
type Delta struct {
	Units []represent.UnitID
	Prev  []r3.Vec
	Next  []r3.Vec
}

// Apply writes the proposed positions into st.
// Complexity: O(len(Units)).
func (d Delta) Apply(st *represent.State) {
	for i, id := range d.Units {
		st.SetPos(id, d.Next[i])
	}
}

// Revert restores the pre-proposal positions bit-identically.
// Complexity: O(len(Units)).
func (d Delta) Revert(st *represent.State) {
	for i, id := range d.Units {
		st.SetPos(id, d.Prev[i])
	}
}

// Mover is the sampling contract: a named handle proposing reversible
// deltas over a fixed unit set. Movers are stateless with respect to
// positions (those live in State) and randomness (that comes from rng).
type Mover interface {
	// Name identifies the mover in logs and records.
	Name() string

	// Units returns the ids this mover may displace (symmetry partners
	// included).
	Units() []represent.UnitID

	// Propose draws one candidate move from rng against the current state.
	// It does not mutate st; the caller applies or discards the Delta.
	Propose(st *represent.State, rng *rand.Rand) Delta
}

// config collects resolved manager options.
type config struct {
	log      zerolog.Logger
	maxStep  float64 // flexible bead max displacement per axis, Å
	maxTrans float64 // rigid body max translation per axis, Å
	maxRot   float64 // rigid body max rotation angle, rad
}

// Option customizes NewManager.
type Option func(*config)

// WithLogger attaches a structured logger for setup diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithMaxStep sets the flexible-bead maximum per-axis displacement (Å).
// Panics on v <= 0.
func WithMaxStep(v float64) Option {
	if v <= 0 {
		panic("dof: WithMaxStep(v<=0)")
	}
	return func(c *config) { c.maxStep = v }
}

// WithMaxTranslation sets the rigid-body maximum per-axis translation (Å).
// Panics on v <= 0.
func WithMaxTranslation(v float64) Option {
	if v <= 0 {
		panic("dof: WithMaxTranslation(v<=0)")
	}
	return func(c *config) { c.maxTrans = v }
}

// WithMaxRotation sets the rigid-body maximum rotation angle (radians).
// Panics on v <= 0.
func WithMaxRotation(v float64) Option {
	if v <= 0 {
		panic("dof: WithMaxRotation(v<=0)")
	}
	return func(c *config) { c.maxRot = v }
}

func newConfig(opts []Option) config {
	c := config{
		log:      zerolog.Nop(),
		maxStep:  4.0,
		maxTrans: 2.0,
		maxRot:   0.2,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}
