// Package represent - types, sentinel errors and build options.
//
// Error policy (strict):
//   - Only sentinel variables are exposed; branch with errors.Is.
//   - Fatal setup errors name the offending molecule and residue range.
//   - Option constructors validate and panic on meaningless input; the
//     builder itself never panics except on the internal completeness
//     contract (see build.go).
package represent

import (
	"errors"
	"math/rand"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/intmod/topology"
)

// Sentinel errors for representation building.
var (
	// ErrMissingStructure indicates a representation that requires atomic
	// data (Atomic resolution 0) over a range with none.
	ErrMissingStructure = errors.New("represent: missing atomic structure")

	// ErrBadAtom indicates an atom with a non-positive residue index or mass.
	ErrBadAtom = errors.New("represent: invalid atom")

	// ErrIdealHelixResolution indicates an Idealized representation whose
	// resolution is not 1 (ideal helices are built residue by residue).
	ErrIdealHelixResolution = errors.New("represent: ideal helix requires resolution 1")

	// ErrFitDiverged indicates the Gaussian mixture fit failed to converge.
	// Recoverable: the builder logs a warning and skips the region's density.
	ErrFitDiverged = errors.New("represent: density fit diverged")

	// ErrStateSize indicates a position vector whose length does not match
	// the hierarchy it is applied to.
	ErrStateSize = errors.New("represent: state size mismatch")
)

// UnitID identifies one movable unit (bead) within a Hierarchy. IDs are
// dense indices assigned in construction order; they index State vectors
// directly.
type UnitID int

// MolKey addresses one molecule copy inside a State.
type MolKey struct {
	Name string
	Copy int
}

// Bead is one movable unit: one or more consecutive residues rendered at
// a given resolution. Identity, range, mass and radius are fixed after
// construction; only positions move (through State).
type Bead struct {
	// ID is the bead's dense index within its Hierarchy.
	ID UnitID

	// Mol names the molecule copy this bead belongs to.
	Mol MolKey

	// Kind records which constructor produced the bead.
	Kind topology.RepresentationKind

	// Resolution is the bead's residues-per-bead granularity (0 = atomic).
	Resolution int

	// Range is the residue span the bead aggregates.
	Range topology.ResidueRange

	// Mass is the bead's total mass in Daltons, summed additively over its
	// residues (atom masses when structured, table masses otherwise).
	Mass float64

	// Radius is the bead's approximate spherical radius in Å.
	Radius float64

	// Structured reports whether the bead's build position came from data
	// (atomic averaging or idealized geometry) rather than being unplaced.
	Structured bool

	// pos is the build-time position; State snapshots start from it.
	pos r3.Vec
}

// BuildPos returns the bead's position as produced by the builder.
// Sampling positions live in State, not here.
func (b *Bead) BuildPos() r3.Vec { return b.pos }

// DensityComponent is one Gaussian of a fitted mixture: a lossy
// approximation of the electron density over a residue range. Densities
// are a general-purpose representation: any restraint may consume them.
type DensityComponent struct {
	// Mol names the molecule copy the component belongs to.
	Mol MolKey

	// Range is the residue span the parent mixture approximates.
	Range topology.ResidueRange

	// Weight is the component's share of the range's total mass.
	Weight float64

	// Mean is the Gaussian center.
	Mean r3.Vec

	// Cov is the 3×3 covariance matrix.
	Cov *mat.SymDense
}

// config collects resolved build options.
type config struct {
	log         zerolog.Logger
	seed        int64
	gmmMaxIter  int
	gmmTol      float64
	missingSize int
}

// Option customizes Build by mutating the resolved config.
type Option func(*config)

// WithLogger attaches a structured logger used for recoverable warnings
// (density fit failures). Default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithSeed fixes the RNG seed for the density-fit initialization.
// Seed 0 selects the package default, keeping reproducible defaults.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithGMMMaxIter bounds EM iterations for density fitting.
// Panics on n < 1 to surface programmer error early.
func WithGMMMaxIter(n int) Option {
	if n < 1 {
		panic("represent: WithGMMMaxIter(n<1)")
	}
	return func(c *config) { c.gmmMaxIter = n }
}

// WithMissingBeadSize sets the residues-per-bead grouping for maximal
// structureless runs in averaged representations, independent of the
// display resolution. By default structureless spans group by the
// display resolution. Panics on n < 1.
func WithMissingBeadSize(n int) Option {
	if n < 1 {
		panic("represent: WithMissingBeadSize(n<1)")
	}
	return func(c *config) { c.missingSize = n }
}

// WithGMMTol sets the relative log-likelihood convergence tolerance for
// density fitting. Panics on tol <= 0.
func WithGMMTol(tol float64) Option {
	if tol <= 0 {
		panic("represent: WithGMMTol(tol<=0)")
	}
	return func(c *config) { c.gmmTol = tol }
}

// defaultBuildSeed is the fixed seed used when callers pass seed==0.
const defaultBuildSeed int64 = 1

// newConfig resolves options over defaults.
func newConfig(opts []Option) config {
	c := config{
		log:        zerolog.Nop(),
		seed:       defaultBuildSeed,
		gmmMaxIter: 200,
		gmmTol:     1e-6,
	}
	for _, o := range opts {
		o(&c)
	}
	if c.seed == 0 {
		c.seed = defaultBuildSeed
	}
	return c
}

// rngFromSeed returns the deterministic RNG used by density-fit
// initialization. Build consumes no other randomness.
func rngFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
