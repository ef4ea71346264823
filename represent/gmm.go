// Package represent - Gaussian mixture fitting for density components.
//
// fitDensity approximates the electron density of a residue range by a
// weighted 3-D Gaussian mixture fitted to its atomic positions with
// expectation-maximization. The component count comes from the request's
// residues-per-component granularity (lower → more components → higher
// fidelity).
//
// Failure policy (recoverable, per the error taxonomy):
//   - no structure over the range, degenerate geometry, or EM divergence
//     ⇒ the region falls back to no density representation, a warning is
//     logged with molecule, range and cause, and the build continues.
//
// Determinism: initialization draws from the builder's seeded RNG only.
package represent

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/intmod/topology"
)

// covarianceFloor keeps covariances positive definite in flat or
// collinear point clouds.
const covarianceFloor = 1e-3

// gaussian is one mixture component during fitting.
type gaussian struct {
	mean   r3.Vec
	cov    *mat.SymDense
	weight float64
}

// fitDensity runs the fit for one Density request and stores the result
// on the hierarchy. Never returns an error: failures warn and skip.
func fitDensity(h *Hierarchy, cfg config, rng *rand.Rand, key MolKey, src *Structure, rep topology.Representation) {
	pts, wts := src.rangeAtoms(rep.Range.First, rep.Range.Last)
	if len(pts) == 0 {
		cfg.log.Warn().
			Str("molecule", fmt.Sprintf("%s.%d", key.Name, key.Copy)).
			Str("range", rep.Range.String()).
			Msg("density fit skipped: no atomic structure over range")
		return
	}

	// Target component count from granularity; at least one, at most one
	// per point.
	ncomp := (rep.Range.Len() + rep.Resolution - 1) / rep.Resolution
	if ncomp < 1 {
		ncomp = 1
	}
	if ncomp > len(pts) {
		ncomp = len(pts)
	}

	comps, err := fitGMM(pts, wts, ncomp, cfg.gmmMaxIter, cfg.gmmTol, rng)
	if err != nil {
		cfg.log.Warn().
			Str("molecule", fmt.Sprintf("%s.%d", key.Name, key.Copy)).
			Str("range", rep.Range.String()).
			Err(err).
			Msg("density fit diverged: region falls back to no density")
		return
	}

	for _, c := range comps {
		h.densities[key] = append(h.densities[key], DensityComponent{
			Mol:    key,
			Range:  rep.Range,
			Weight: c.weight,
			Mean:   c.mean,
			Cov:    c.cov,
		})
	}
}

// fitGMM runs weighted EM over 3-D points.
//
// Contract:
//   - len(pts) == len(wts) ≥ ncomp ≥ 1; weights positive.
//   - Returns ErrFitDiverged when the likelihood degenerates (NaN/Inf) or
//     a covariance loses positive definiteness beyond repair.
//
// Complexity: O(maxIter · n · ncomp) with constant-size (3×3) linear
// algebra per term.
func fitGMM(pts []r3.Vec, wts []float64, ncomp, maxIter int, tol float64, rng *rand.Rand) ([]gaussian, error) {
	n := len(pts)

	comps := initComponents(pts, wts, ncomp, rng)
	resp := make([]float64, n*ncomp) // responsibilities, row-major [point][comp]

	var prevLL float64
	for iter := 0; iter < maxIter; iter++ {
		// E-step: responsibilities and the data log-likelihood.
		ll, err := eStep(pts, wts, comps, resp)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(ll) || math.IsInf(ll, 0) {
			return nil, fmt.Errorf("%w: log-likelihood degenerated at iteration %d", ErrFitDiverged, iter)
		}

		// M-step: re-estimate weights, means, covariances.
		if err = mStep(pts, wts, comps, resp); err != nil {
			return nil, err
		}

		// Convergence on relative log-likelihood change.
		if iter > 0 && math.Abs(ll-prevLL) <= tol*(math.Abs(prevLL)+tol) {
			return comps, nil
		}
		prevLL = ll
	}
	// EM is monotone; exhausting iterations still yields a usable fit.
	return comps, nil
}

// initComponents seeds means with a k-means++-style spread draw and unit
// spherical covariances scaled to the cloud extent.
func initComponents(pts []r3.Vec, wts []float64, ncomp int, rng *rand.Rand) []gaussian {
	n := len(pts)

	// First center: weighted draw.
	centers := make([]r3.Vec, 0, ncomp)
	centers = append(centers, pts[weightedDraw(wts, rng)])

	// Remaining centers: probability proportional to squared distance to
	// the nearest already-chosen center.
	d2 := make([]float64, n)
	for len(centers) < ncomp {
		var total float64
		for i, p := range pts {
			best := math.Inf(1)
			for _, c := range centers {
				if d := normSq(r3.Sub(p, c)); d < best {
					best = d
				}
			}
			d2[i] = best * wts[i]
			total += d2[i]
		}
		if total == 0 {
			// All points coincide with centers; duplicate the first.
			centers = append(centers, centers[0])
			continue
		}
		centers = append(centers, pts[weightedDraw(d2, rng)])
	}

	// Initial covariance: spherical, sized to the average spread.
	var spread float64
	mean := centroid(pts, wts)
	for i, p := range pts {
		spread += wts[i] * normSq(r3.Sub(p, mean))
	}
	spread /= sum(wts) * 3
	if spread < covarianceFloor {
		spread = covarianceFloor
	}

	comps := make([]gaussian, ncomp)
	for k := range comps {
		cov := mat.NewSymDense(3, nil)
		for d := 0; d < 3; d++ {
			cov.SetSym(d, d, spread)
		}
		comps[k] = gaussian{mean: centers[k], cov: cov, weight: 1 / float64(ncomp)}
	}
	return comps
}

// eStep fills resp and returns the weighted data log-likelihood.
func eStep(pts []r3.Vec, wts []float64, comps []gaussian, resp []float64) (float64, error) {
	var (
		ncomp = len(comps)
		lps   = make([]float64, ncomp)
		ll    float64
	)

	// Pre-factor the covariances once per iteration.
	chols := make([]mat.Cholesky, ncomp)
	for k := range comps {
		if ok := chols[k].Factorize(comps[k].cov); !ok {
			return 0, fmt.Errorf("%w: covariance not positive definite", ErrFitDiverged)
		}
	}

	for i, p := range pts {
		for k := range comps {
			lps[k] = math.Log(comps[k].weight) + logNormalPDF(p, comps[k].mean, &chols[k])
		}
		lse := logSumExp(lps)
		ll += wts[i] * lse
		for k := range comps {
			resp[i*ncomp+k] = math.Exp(lps[k] - lse)
		}
	}
	return ll, nil
}

// mStep re-estimates every component from the responsibilities.
func mStep(pts []r3.Vec, wts []float64, comps []gaussian, resp []float64) error {
	var (
		ncomp = len(comps)
		wsum  = sum(wts)
	)
	for k := range comps {
		var nk float64
		var meanAcc r3.Vec
		for i, p := range pts {
			r := resp[i*ncomp+k] * wts[i]
			nk += r
			meanAcc = r3.Add(meanAcc, r3.Scale(r, p))
		}
		if nk <= 0 || math.IsNaN(nk) {
			return fmt.Errorf("%w: component %d collapsed", ErrFitDiverged, k)
		}
		mean := r3.Scale(1/nk, meanAcc)

		cov := mat.NewSymDense(3, nil)
		for i, p := range pts {
			r := resp[i*ncomp+k] * wts[i]
			d := r3.Sub(p, mean)
			dv := [3]float64{d.X, d.Y, d.Z}
			for a := 0; a < 3; a++ {
				for b := a; b < 3; b++ {
					cov.SetSym(a, b, cov.At(a, b)+r*dv[a]*dv[b])
				}
			}
		}
		for a := 0; a < 3; a++ {
			for b := a; b < 3; b++ {
				cov.SetSym(a, b, cov.At(a, b)/nk)
			}
			// Diagonal floor keeps flat clouds factorizable.
			if cov.At(a, a) < covarianceFloor {
				cov.SetSym(a, a, covarianceFloor)
			}
		}

		comps[k].mean = mean
		comps[k].cov = cov
		comps[k].weight = nk / wsum
	}
	return nil
}

// logNormalPDF evaluates the 3-D multivariate normal log-density using a
// pre-computed Cholesky factorization.
func logNormalPDF(x, mean r3.Vec, chol *mat.Cholesky) float64 {
	d := r3.Sub(x, mean)
	dv := mat.NewVecDense(3, []float64{d.X, d.Y, d.Z})

	var solved mat.VecDense
	if err := chol.SolveVecTo(&solved, dv); err != nil {
		return math.Inf(-1)
	}
	maha := mat.Dot(dv, &solved)

	const log2pi = 1.8378770664093453 // ln(2π)
	return -0.5 * (3*log2pi + chol.LogDet() + maha)
}

// logSumExp returns log Σ exp(v_i) stably.
func logSumExp(v []float64) float64 {
	m := math.Inf(-1)
	for _, x := range v {
		if x > m {
			m = x
		}
	}
	if math.IsInf(m, -1) {
		return m
	}
	var s float64
	for _, x := range v {
		s += math.Exp(x - m)
	}
	return m + math.Log(s)
}

// weightedDraw samples an index with probability proportional to w.
func weightedDraw(w []float64, rng *rand.Rand) int {
	t := rng.Float64() * sum(w)
	for i, x := range w {
		t -= x
		if t < 0 {
			return i
		}
	}
	return len(w) - 1
}

func centroid(pts []r3.Vec, wts []float64) r3.Vec {
	var acc r3.Vec
	for i, p := range pts {
		acc = r3.Add(acc, r3.Scale(wts[i], p))
	}
	return r3.Scale(1/sum(wts), acc)
}

func normSq(v r3.Vec) float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}
