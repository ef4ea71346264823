// Package restraint - bundled stereochemistry restraints.
//
// ExcludedVolume and HarmonicDistance are ordinary Restraint
// implementations with no privileged access; they double as the in-repo
// proof that the public contract is sufficient for real scoring terms.
package restraint

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/intmod/represent"
)

// errDegenerate marks coincident points where a distance-based score is
// undefined. It surfaces wrapped in ErrEvaluation.
var errDegenerate = errors.New("degenerate geometry: coincident positions")

// ExcludedVolume penalizes sphere overlap between its beads with a
// soft half-quadratic:
//
//	score = Σ_{i<j} ½·k·max(0, r_i + r_j − d_ij)²
type ExcludedVolume struct {
	name  string
	units []represent.UnitID
	radii []float64
	k     float64
}

// NewExcludedVolume builds the restraint over the given beads.
// k is the force constant; beads supply ids and radii.
func NewExcludedVolume(name string, beads []*represent.Bead, k float64) *ExcludedVolume {
	ev := &ExcludedVolume{name: name, k: k}
	for _, b := range beads {
		ev.units = append(ev.units, b.ID)
		ev.radii = append(ev.radii, b.Radius)
	}
	return ev
}

// Name implements Restraint.
func (ev *ExcludedVolume) Name() string { return ev.name }

// Participants implements Restraint.
func (ev *ExcludedVolume) Participants() []represent.UnitID {
	return append([]represent.UnitID(nil), ev.units...)
}

// Evaluate implements Restraint.
// Complexity: O(n²) over the restrained beads.
func (ev *ExcludedVolume) Evaluate(st *represent.State) (float64, error) {
	var score float64
	for i := 0; i < len(ev.units); i++ {
		for j := i + 1; j < len(ev.units); j++ {
			d := r3.Norm(r3.Sub(st.Pos(ev.units[i]), st.Pos(ev.units[j])))
			if overlap := ev.radii[i] + ev.radii[j] - d; overlap > 0 {
				score += 0.5 * ev.k * overlap * overlap
			}
		}
	}
	return score, nil
}

// HarmonicDistance restrains the distance between two beads to x0 with
// spring constant k: score = ½·k·(d − x0)².
type HarmonicDistance struct {
	name string
	a, b represent.UnitID
	x0   float64
	k    float64
}

// NewHarmonicDistance builds the restraint between beads a and b.
func NewHarmonicDistance(name string, a, b represent.UnitID, x0, k float64) *HarmonicDistance {
	return &HarmonicDistance{name: name, a: a, b: b, x0: x0, k: k}
}

// Name implements Restraint.
func (hr *HarmonicDistance) Name() string { return hr.name }

// Participants implements Restraint.
func (hr *HarmonicDistance) Participants() []represent.UnitID {
	return []represent.UnitID{hr.a, hr.b}
}

// Evaluate implements Restraint. Coincident beads are reported as a
// degenerate (unscorable) configuration rather than scored as zero
// distance, so samplers reject the proposal instead of tunneling
// through it.
func (hr *HarmonicDistance) Evaluate(st *represent.State) (float64, error) {
	d := r3.Norm(r3.Sub(st.Pos(hr.a), st.Pos(hr.b)))
	if d == 0 || math.IsNaN(d) {
		return 0, errDegenerate
	}
	diff := d - hr.x0
	return 0.5 * hr.k * diff * diff, nil
}
