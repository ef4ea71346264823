// Package dof groups the movable units of a built hierarchy into rigid
// bodies, flexible beads and super-rigid groups, and finalizes them as
// reversible movers usable by a sampler.
//
// Key invariant — multi-resolution consistency:
//
//	Declaring a rigid range binds the beads of that range at EVERY built
//	resolution to one body, so a rigid-body move displaces all
//	resolutions of the same physical region by the identical transform.
//	Selections resolve through represent.Hierarchy.SelectBeads, which
//	spans resolutions by construction.
//
// Ownership rules:
//
//   - Every unit belongs to at most one rigid body (ErrUnitInRigidBody
//     otherwise). A unit not in any rigid body is implicitly flexible.
//   - Super-rigid groups are an additional, occasional freedom layered on
//     top: they may span several rigid bodies and flexible beads and move
//     them as one block without claiming ownership.
//   - Symmetry couples molecule copies: every transform applied to a
//     reference region propagates to its symmetric partners through a
//     declared operator within the same proposed delta, so the coupling
//     can never be observed broken.
//
// Movers and deltas:
//
//	A Mover proposes a Delta — the explicit before/after positions of
//	every unit it touches. Delta.Apply and Delta.Revert are exact
//	inverses; a rejected proposal leaves the State bit-identical.
//	All randomness comes from the *rand.Rand handed to Propose; movers
//	hold no RNG state of their own.
package dof
