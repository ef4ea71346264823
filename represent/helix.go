// Package represent - idealized α-helix geometry.
//
// Canonical helix parameters: 1.51 Å rise per residue, 100° turn per
// residue, 2.3 Å radius from the helical axis. The construction is
// purely parametric; no observed structure is involved.
package represent

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	helixRise      = 1.51  // Å per residue along the axis
	helixTurnDeg   = 100.0 // degrees per residue around the axis
	helixRadius    = 2.3   // Å from the axis
	degreesToRadia = math.Pi / 180.0
)

// idealHelixPositions returns n backbone positions of an ideal α-helix
// with its axis along +z and residue 0 at angle 0.
//
// Complexity: O(n) time, O(n) space.
func idealHelixPositions(n int) []r3.Vec {
	out := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		theta := float64(i) * helixTurnDeg * degreesToRadia
		out[i] = r3.Vec{
			X: helixRadius * math.Cos(theta),
			Y: helixRadius * math.Sin(theta),
			Z: helixRise * float64(i),
		}
	}
	return out
}
