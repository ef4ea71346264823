// Package restraint defines the scoring contract and the weighted
// aggregator that combines arbitrary externally supplied restraints into
// one total score.
//
// The contract is deliberately small: anything exposing
//
//	Evaluate(*represent.State) (float64, error)
//	Participants() []represent.UnitID
//	Name() string
//
// may register. The aggregator neither knows nor cares how a score is
// computed.
//
// Incremental scoring:
//
//	Total re-evaluates everything. TotalMoved reuses a caller-held cache
//	of per-restraint scores for restraints whose participant set is
//	disjoint from the moved units. The cache is an optimization, never a
//	correctness requirement — recomputing from scratch is always safe and
//	always yields the same totals.
//
// Failure semantics:
//
//	A restraint failing to evaluate (degenerate geometry and the like) is
//	an acceptance-blocking event, not a run-ending one: the error wraps
//	ErrEvaluation and samplers treat it as an implicit rejection of the
//	current proposal.
//
// Two concrete restraints ship with the package — excluded volume and a
// harmonic distance — both implemented purely against the public
// contract. They exist to exercise the boundary (and the tests); real
// modeling applications register their own.
package restraint
