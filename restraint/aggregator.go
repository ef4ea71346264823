// Package restraint - the contract and the weighted aggregator.
package restraint

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/intmod/represent"
)

// Sentinel errors for restraint aggregation.
var (
	// ErrBadWeight indicates a non-positive restraint weight.
	ErrBadWeight = errors.New("restraint: weight must be positive")

	// ErrEvaluation wraps a restraint's evaluation failure. Samplers treat
	// it as an implicit rejection of the current proposal.
	ErrEvaluation = errors.New("restraint: evaluation failed")

	// ErrCacheSize indicates a score cache whose length does not match the
	// registered restraint count.
	ErrCacheSize = errors.New("restraint: score cache size mismatch")
)

// Restraint is the opaque scoring contract. Implementations hold their
// own parameters and bead references; positions always arrive through
// the explicit State.
type Restraint interface {
	// Name identifies the restraint in records and error messages.
	Name() string

	// Evaluate returns the restraint's score for the given configuration.
	// An error marks the configuration unscorable (degenerate geometry);
	// it must not be used for permanent failures.
	Evaluate(st *represent.State) (float64, error)

	// Participants returns the unit ids whose movement can change the
	// score. Used for incremental re-scoring only; over-reporting is safe,
	// under-reporting is a correctness bug in the restraint.
	Participants() []represent.UnitID
}

// entry is one registered restraint with its weight and participant set.
type entry struct {
	r      Restraint
	weight float64
	parts  map[represent.UnitID]struct{}
}

// Aggregator combines registered restraints into one weighted total:
//
//	total(state) = Σ weight_i · restraint_i.Evaluate(state)
//
// The aggregator itself is immutable during sampling (register
// everything up front); per-replica score caches live with the caller.
type Aggregator struct {
	entries []entry
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator { return &Aggregator{} }

// Add registers a restraint with a positive weight.
// Returns ErrBadWeight otherwise.
func (a *Aggregator) Add(r Restraint, weight float64) error {
	if weight <= 0 {
		return fmt.Errorf("%w: %s weight %g", ErrBadWeight, r.Name(), weight)
	}
	parts := make(map[represent.UnitID]struct{})
	for _, id := range r.Participants() {
		parts[id] = struct{}{}
	}
	a.entries = append(a.entries, entry{r: r, weight: weight, parts: parts})
	return nil
}

// Len returns the number of registered restraints.
func (a *Aggregator) Len() int { return len(a.entries) }

// Names returns restraint names in registration order.
func (a *Aggregator) Names() []string {
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.r.Name()
	}
	return out
}

// Total evaluates every restraint from scratch and returns the weighted
// total plus the per-restraint weighted scores (registration order).
//
// Errors: ErrEvaluation (wrapped with the restraint name) on the first
// failing restraint.
//
// Complexity: Σ per-restraint evaluation cost.
func (a *Aggregator) Total(st *represent.State) (float64, []float64, error) {
	scores := make([]float64, len(a.entries))
	return a.fill(st, scores, nil)
}

// TotalMoved is the incremental form: restraints whose participant set
// is disjoint from moved reuse cache; the rest re-evaluate. cache holds
// prior per-restraint weighted scores (as returned by Total/TotalMoved)
// and is not modified.
//
// Errors: ErrCacheSize when len(cache) != Len(); ErrEvaluation as Total.
//
// Complexity: evaluation cost of the affected restraints + O(moved ·
// restraints) disjointness checks.
func (a *Aggregator) TotalMoved(st *represent.State, cache []float64, moved []represent.UnitID) (float64, []float64, error) {
	if len(cache) != len(a.entries) {
		return 0, nil, fmt.Errorf("%w: cache %d, restraints %d", ErrCacheSize, len(cache), len(a.entries))
	}
	scores := make([]float64, len(a.entries))
	return a.fill(st, scores, func(e *entry, i int) (float64, bool) {
		for _, id := range moved {
			if _, hit := e.parts[id]; hit {
				return 0, false
			}
		}
		return cache[i], true
	})
}

// fill computes weighted scores, consulting reuse (when non-nil) before
// evaluating each entry.
func (a *Aggregator) fill(st *represent.State, scores []float64, reuse func(*entry, int) (float64, bool)) (float64, []float64, error) {
	var total float64
	for i := range a.entries {
		e := &a.entries[i]
		if reuse != nil {
			if s, ok := reuse(e, i); ok {
				scores[i] = s
				total += s
				continue
			}
		}
		raw, err := e.r.Evaluate(st)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: %s: %v", ErrEvaluation, e.r.Name(), err)
		}
		scores[i] = e.weight * raw
		total += scores[i]
	}
	return total, scores, nil
}
