// Package replica - the replica-exchange scheduler.
//
// Control flow: Run validates, builds per-replica states (Stage 1),
// starts one worker goroutine per replica plus a coordinator (Stage 2),
// and the coordinator alone performs exchanges, checkpoints and the
// straggler policy at every boundary (Stage 3). Workers synchronize with
// the coordinator exclusively through the arrive/release channels, which
// also provide the happens-before edges that make temperature swaps safe
// without locks.
package replica

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/intmod/dof"
	"github.com/katalvlaran/intmod/represent"
	"github.com/katalvlaran/intmod/restraint"
)

// Scheduler owns the sampling machinery: the hierarchy's movers, the
// restraint aggregator and the run configuration. One scheduler runs one
// run at a time (ErrRunning otherwise).
type Scheduler struct {
	h      *represent.Hierarchy
	movers []dof.Mover
	agg    *restraint.Aggregator
	cfg    config
	names  []string // restraint names, registration order

	mu      sync.Mutex // guards running/cancel
	running bool
	cancel  context.CancelFunc

	sinkMu sync.Mutex // serializes sink writes across workers
}

// replicaState is one chain: its configuration, temperature, energy and
// per-restraint score cache. Workers own their replicaState exclusively
// between exchange boundaries.
type replicaState struct {
	index         int
	temp          float64
	st            *represent.State
	energy        float64
	scores        []float64
	lastAccepted  bool
	lastExchanged bool
}

// runState is the mutable context of one run, shared between the
// coordinator and (through parked handoffs only) the workers.
type runState struct {
	runID          string
	seed           int64
	start          int64 // completed steps at entry (0, or checkpoint step)
	target         int64
	reps           []*replicaState
	byLadder       []int // ladder slot → replica index
	checkpointPath string
}

// New builds a scheduler over a hierarchy, its movers and an aggregator.
// Returns ErrNoMovers when there is nothing to sample with.
func New(h *represent.Hierarchy, movers []dof.Mover, agg *restraint.Aggregator, opts ...Option) (*Scheduler, error) {
	if len(movers) == 0 {
		return nil, ErrNoMovers
	}
	return &Scheduler{
		h:      h,
		movers: movers,
		agg:    agg,
		cfg:    newConfig(opts),
		names:  agg.Names(),
	}, nil
}

// Run samples for the given number of steps from the hierarchy's build
// positions (after the init hook, when configured). Seed 0 selects the
// package default; the same seed and inputs reproduce the identical
// trajectory. checkpointPath may be empty to disable checkpointing.
//
// Errors: ErrBadSteps, ErrRunning, ErrInitialScore; a cancelled context
// surfaces as its ctx.Err().
func (s *Scheduler) Run(ctx context.Context, steps, seed int64, checkpointPath string) error {
	if steps <= 0 {
		return fmt.Errorf("%w: %d", ErrBadSteps, steps)
	}
	rc := &runState{
		runID:          uuid.NewString(),
		seed:           normalizeSeed(seed),
		target:         steps,
		checkpointPath: checkpointPath,
	}
	for i, temp := range s.cfg.ladder {
		st := s.h.NewState()
		if s.cfg.init != nil {
			s.cfg.init(i, st)
		}
		energy, scores, err := s.agg.Total(st)
		if err != nil {
			return fmt.Errorf("%w: replica %d: %v", ErrInitialScore, i, err)
		}
		rc.reps = append(rc.reps, &replicaState{
			index: i, temp: temp, st: st, energy: energy, scores: scores,
		})
		rc.byLadder = append(rc.byLadder, i)
	}
	return s.run(ctx, rc)
}

// Stop requests termination of the active run. Honored at the nearest
// inner-loop or exchange boundary, never mid-proposal. Safe to call at
// any time, including when no run is active.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}

// run executes the worker/coordinator machinery over a prepared runState.
func (s *Scheduler) run(ctx context.Context, rc *runState) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.mu.Unlock()
	defer func() {
		cancel()
		s.mu.Lock()
		s.running = false
		s.cancel = nil
		s.mu.Unlock()
	}()

	var (
		n = len(rc.reps)
		k = s.cfg.exchangeEvery
	)
	type arrival struct {
		replica  int
		boundary int64 // absolute step count at the rendezvous
	}
	arrive := make(chan arrival, n)
	release := make([]chan struct{}, n)
	for i := range release {
		release[i] = make(chan struct{}, 1)
	}

	s.cfg.log.Info().
		Str("run_id", rc.runID).
		Int64("from", rc.start).Int64("steps", rc.target).
		Int("replicas", n).
		Msg("sampling started")

	var wg sync.WaitGroup
	for i := range rc.reps {
		wg.Add(1)
		go func(rep *replicaState) {
			defer wg.Done()
			for step := rc.start; step < rc.target; step++ {
				select {
				case <-runCtx.Done():
					return // in-flight proposal already resolved; clean exit
				default:
				}
				s.innerStep(rc, rep, step)

				if (step+1)%k != 0 {
					continue
				}
				// EXCHANGE-PENDING: rendezvous with the coordinator.
				select {
				case arrive <- arrival{replica: rep.index, boundary: step + 1}:
				case <-runCtx.Done():
					return
				}
				select {
				case <-release[rep.index]:
				case <-runCtx.Done():
					return
				}
			}
		}(rc.reps[i])
	}

	workersDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(workersDone)
	}()

	// Coordinator: one iteration per absolute exchange boundary.
	coordErr := func() error {
		for b := (rc.start/k + 1) * k; b <= rc.target; b += k {
			var (
				round   = b / k
				present = make([]bool, n)
				count   = 0
				timeout <-chan time.Time
			)
			if s.cfg.exchangeTimeout > 0 {
				timeout = time.After(s.cfg.exchangeTimeout)
			}
		gather:
			for count < n {
				select {
				case a := <-arrive:
					if a.boundary < b {
						// Straggler from a skipped round: its exchange window
						// is gone; release it so it can keep sampling.
						s.cfg.log.Warn().
							Int("replica", a.replica).Int64("round", a.boundary/k).
							Msg("straggler released after missing its exchange round")
						release[a.replica] <- struct{}{}
						continue
					}
					present[a.replica] = true
					count++
				case <-timeout:
					s.cfg.log.Warn().
						Int64("round", round).Int("arrived", count).Int("replicas", n).
						Msg("exchange timeout: skipping round for stragglers")
					break gather
				case <-runCtx.Done():
					return runCtx.Err()
				}
			}

			s.exchange(rc, round, present)

			// Checkpoints only when every replica is parked: a straggler
			// mid-step would make the snapshot torn.
			if rc.checkpointPath != "" && count == n &&
				s.cfg.checkpointEvery > 0 && round%s.cfg.checkpointEvery == 0 {
				s.writeCheckpoint(rc, b)
			}

			for i, p := range present {
				if p {
					release[i] <- struct{}{}
				}
			}
		}
		return nil
	}()

	// Drain any stragglers still parked after the final boundary, then
	// wait the workers out.
	for {
		select {
		case a := <-arrive:
			release[a.replica] <- struct{}{}
		case <-workersDone:
			if coordErr == nil && rc.checkpointPath != "" {
				s.writeCheckpoint(rc, rc.target)
			}
			s.cfg.log.Info().
				Str("run_id", rc.runID).
				Bool("cancelled", coordErr != nil).
				Msg("sampling finished")
			return coordErr
		}
	}
}

// innerStep advances one replica by one Metropolis step:
// PROPOSING → SCORING → ACCEPTED|REJECTED.
//
// Draw order within the step's substream: mover selection, the mover's
// proposal draws, then the acceptance test.
func (s *Scheduler) innerStep(rc *runState, rep *replicaState, step int64) {
	rng := stepRNG(rc.seed, rep.index, step)

	mv := s.movers[rng.Intn(len(s.movers))]
	d := mv.Propose(rep.st, rng)
	d.Apply(rep.st)

	total, scores, err := s.agg.TotalMoved(rep.st, rep.scores, d.Units)
	switch {
	case err != nil:
		// Evaluation failure: implicit rejection, lightweight event, run
		// continues (never escalated).
		d.Revert(rep.st)
		rep.lastAccepted = false
		s.cfg.log.Warn().
			Int("replica", rep.index).Int64("step", step).Err(err).
			Msg("proposal rejected: restraint evaluation failed")
	default:
		delta := total - rep.energy
		if delta <= 0 || rng.Float64() < math.Exp(-delta/rep.temp) {
			rep.energy = total
			rep.scores = scores
			rep.lastAccepted = true
		} else {
			d.Revert(rep.st)
			rep.lastAccepted = false
		}
	}

	if s.cfg.recordEvery > 0 && (step+1)%s.cfg.recordEvery == 0 {
		s.emitRecord(rc, rep, step+1)
	}
	if s.cfg.snapshotEvery > 0 && (step+1)%s.cfg.snapshotEvery == 0 {
		s.emitSnapshot(rc, rep, step+1)
	}
}

// exchange attempts temperature swaps between ladder-adjacent replicas.
// Round parity alternates even/odd pairs so every neighbor pair is tried
// on alternating rounds. One acceptance draw is consumed per considered
// pair whether or not the pair is eligible, keeping later pairs'
// draws independent of straggler timing.
func (s *Scheduler) exchange(rc *runState, round int64, present []bool) {
	rng := roundRNG(rc.seed, round)

	for i, p := range present {
		if p {
			rc.reps[i].lastExchanged = false
		}
	}

	for slot := int(round % 2); slot+1 < len(rc.byLadder); slot += 2 {
		var (
			lo = rc.reps[rc.byLadder[slot]]   // cooler
			hi = rc.reps[rc.byLadder[slot+1]] // hotter
			u  = rng.Float64()
		)
		if !present[lo.index] || !present[hi.index] {
			continue // skipped round for a straggling member
		}
		// Detailed-balance criterion: min(1, exp((1/T_lo − 1/T_hi)(E_lo − E_hi))).
		p := math.Exp((1/lo.temp - 1/hi.temp) * (lo.energy - hi.energy))
		if u < math.Min(1, p) {
			lo.temp, hi.temp = hi.temp, lo.temp
			rc.byLadder[slot], rc.byLadder[slot+1] = rc.byLadder[slot+1], rc.byLadder[slot]
			lo.lastExchanged = true
			hi.lastExchanged = true
		}
	}
}

// emitRecord serializes one statistics record to the sink; failures are
// reported and skipped without touching sampling state.
func (s *Scheduler) emitRecord(rc *runState, rep *replicaState, step int64) {
	scores := make(map[string]float64, len(s.names))
	for i, name := range s.names {
		scores[name] = rep.scores[i]
	}
	rec := Record{
		RunID:       rc.runID,
		Replica:     rep.index,
		Step:        step,
		Temperature: rep.temp,
		Total:       rep.energy,
		Scores:      scores,
		Accepted:    rep.lastAccepted,
		Exchanged:   rep.lastExchanged,
	}

	s.sinkMu.Lock()
	err := s.cfg.sink.Write(rec)
	s.sinkMu.Unlock()
	if err != nil {
		s.cfg.log.Error().
			Int("replica", rep.index).Int64("step", step).Err(err).
			Msg("record write failed; sampling continues")
	}
}

// emitSnapshot serializes one coordinate snapshot; same failure policy
// as emitRecord.
func (s *Scheduler) emitSnapshot(rc *runState, rep *replicaState, step int64) {
	snap := Snapshot{
		RunID:       rc.runID,
		Replica:     rep.index,
		Step:        step,
		Temperature: rep.temp,
		Positions:   rep.st.Positions(),
	}

	s.sinkMu.Lock()
	err := s.cfg.sink.WriteSnapshot(snap)
	s.sinkMu.Unlock()
	if err != nil {
		s.cfg.log.Error().
			Int("replica", rep.index).Int64("step", step).Err(err).
			Msg("snapshot write failed; sampling continues")
	}
}
