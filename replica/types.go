// Package replica - types, sentinel errors and scheduler options.
//
// Error policy (strict):
//   - Only sentinel variables are exposed; branch with errors.Is.
//   - Option constructors validate and panic on meaningless input; the
//     scheduler itself returns sentinels, never panics.
package replica

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/intmod/represent"
)

// Sentinel errors for scheduling.
var (
	// ErrNoMovers indicates a scheduler built over zero movers.
	ErrNoMovers = errors.New("replica: no movers to sample with")

	// ErrBadSteps indicates a non-positive step count.
	ErrBadSteps = errors.New("replica: step count must be positive")

	// ErrInitialScore indicates the starting configuration could not be
	// scored; sampling has no reference energy to start from.
	ErrInitialScore = errors.New("replica: initial configuration unscorable")

	// ErrCheckpointFormat indicates a checkpoint that does not match the
	// scheduler it is being restored into.
	ErrCheckpointFormat = errors.New("replica: checkpoint incompatible")

	// ErrRunning indicates Run/Resume was called while a run is active.
	ErrRunning = errors.New("replica: scheduler already running")
)

// Record is one sampling statistics record emitted to the sink.
type Record struct {
	// RunID identifies the run that produced the record.
	RunID string

	// Replica is the emitting replica's index (fixed for the run).
	Replica int

	// Step is the global step the record was taken after (1-based).
	Step int64

	// Temperature is the replica's current ladder temperature.
	Temperature float64

	// Total is the replica's current weighted total score.
	Total float64

	// Scores maps restraint name to its current weighted score.
	Scores map[string]float64

	// Accepted reports whether the step's proposal was accepted.
	Accepted bool

	// Exchanged reports the outcome of the replica's most recent
	// exchange attempt (false before the first boundary).
	Exchanged bool
}

// Snapshot is one full coordinate snapshot of a replica.
type Snapshot struct {
	RunID       string
	Replica     int
	Step        int64
	Temperature float64
	Positions   []r3.Vec
}

// Sink receives records and snapshots. Implementations need not be
// goroutine-safe: the scheduler serializes all writes. Write failures
// are logged and skipped; they never stop the run.
type Sink interface {
	Write(Record) error
	WriteSnapshot(Snapshot) error
}

// nopSink discards everything (the default).
type nopSink struct{}

func (nopSink) Write(Record) error           { return nil }
func (nopSink) WriteSnapshot(Snapshot) error { return nil }

// MemorySink accumulates records and snapshots in memory; intended for
// tests and small interactive runs.
type MemorySink struct {
	Records   []Record
	Snapshots []Snapshot
}

// Write implements Sink.
func (m *MemorySink) Write(r Record) error {
	m.Records = append(m.Records, r)
	return nil
}

// WriteSnapshot implements Sink.
func (m *MemorySink) WriteSnapshot(s Snapshot) error {
	m.Snapshots = append(m.Snapshots, s)
	return nil
}

// config collects resolved scheduler options.
type config struct {
	ladder          []float64
	exchangeEvery   int64
	recordEvery     int64
	snapshotEvery   int64
	checkpointEvery int64 // in exchange rounds
	exchangeTimeout time.Duration
	sink            Sink
	log             zerolog.Logger
	init            func(replica int, st *represent.State)
}

// Option customizes New.
type Option func(*config)

// WithLadder sets the temperature ladder: one replica per entry,
// positive and strictly increasing. Panics on a malformed ladder.
func WithLadder(temps []float64) Option {
	if len(temps) == 0 {
		panic("replica: WithLadder(empty)")
	}
	for i, t := range temps {
		if t <= 0 {
			panic("replica: WithLadder(non-positive temperature)")
		}
		if i > 0 && temps[i] <= temps[i-1] {
			panic("replica: WithLadder(not strictly increasing)")
		}
	}
	return func(c *config) { c.ladder = append([]float64(nil), temps...) }
}

// WithExchangeEvery sets K, the inner steps between exchange attempts.
// Panics on k < 1.
func WithExchangeEvery(k int) Option {
	if k < 1 {
		panic("replica: WithExchangeEvery(k<1)")
	}
	return func(c *config) { c.exchangeEvery = int64(k) }
}

// WithRecordEvery sets the record cadence in steps (0 disables records).
// Panics on m < 0.
func WithRecordEvery(m int) Option {
	if m < 0 {
		panic("replica: WithRecordEvery(m<0)")
	}
	return func(c *config) { c.recordEvery = int64(m) }
}

// WithSnapshotEvery sets the coordinate snapshot cadence in steps
// (0 disables snapshots). Panics on m < 0.
func WithSnapshotEvery(m int) Option {
	if m < 0 {
		panic("replica: WithSnapshotEvery(m<0)")
	}
	return func(c *config) { c.snapshotEvery = int64(m) }
}

// WithCheckpointEvery sets the checkpoint cadence in exchange rounds
// (0 = only a final checkpoint). Panics on m < 0.
func WithCheckpointEvery(m int) Option {
	if m < 0 {
		panic("replica: WithCheckpointEvery(m<0)")
	}
	return func(c *config) { c.checkpointEvery = int64(m) }
}

// WithExchangeTimeout bounds the wait for stragglers at an exchange
// boundary; past it the round's exchange is skipped for the replicas
// that did not arrive. Zero (the default) waits indefinitely.
// Panics on negative d.
func WithExchangeTimeout(d time.Duration) Option {
	if d < 0 {
		panic("replica: WithExchangeTimeout(d<0)")
	}
	return func(c *config) { c.exchangeTimeout = d }
}

// WithInit installs a per-replica initialization hook, called once per
// replica before its first step (typically dof.Manager.Shuffle with a
// replica-derived RNG). Panics on nil.
func WithInit(fn func(replica int, st *represent.State)) Option {
	if fn == nil {
		panic("replica: WithInit(nil)")
	}
	return func(c *config) { c.init = fn }
}

// WithSink attaches the output sink. Panics on nil.
func WithSink(s Sink) Option {
	if s == nil {
		panic("replica: WithSink(nil)")
	}
	return func(c *config) { c.sink = s }
}

// WithLogger attaches a structured logger for lifecycle events,
// evaluation-failure events, straggler skips and write failures.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) { c.log = log }
}

func newConfig(opts []Option) config {
	c := config{
		ladder:        []float64{1.0},
		exchangeEvery: 10,
		recordEvery:   1,
		sink:          nopSink{},
		log:           zerolog.Nop(),
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}
