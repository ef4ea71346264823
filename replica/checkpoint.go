// Package replica - JSON checkpointing and resume.
package replica

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
)

// checkpointVersion guards the on-disk layout; bump on incompatible
// changes.
const checkpointVersion = 1

// checkpointFile is the serialized run state: everything needed to
// continue the identical trajectory from the recorded boundary.
// Energies are intentionally absent; Resume recomputes them from the
// restraints in force at resume time.
type checkpointFile struct {
	Version     int                 `json:"version"`
	RunID       string              `json:"run_id"`
	Seed        int64               `json:"seed"`
	Step        int64               `json:"step"`
	TargetSteps int64               `json:"target_steps"`
	ByLadder    []int               `json:"ladder_order"`
	Replicas    []replicaCheckpoint `json:"replicas"`
}

// replicaCheckpoint is one replica's persisted chain state.
type replicaCheckpoint struct {
	Temperature float64      `json:"temperature"`
	Positions   [][3]float64 `json:"positions"`
}

// writeCheckpoint persists the run state at an exchange boundary. A
// failed write is logged and skipped; the run continues on the previous
// checkpoint. The file is written to a sibling temp path and renamed so
// a crash mid-write never corrupts an existing checkpoint.
func (s *Scheduler) writeCheckpoint(rc *runState, step int64) {
	cp := checkpointFile{
		Version:     checkpointVersion,
		RunID:       rc.runID,
		Seed:        rc.seed,
		Step:        step,
		TargetSteps: rc.target,
		ByLadder:    append([]int(nil), rc.byLadder...),
	}
	for _, rep := range rc.reps {
		pos := rep.st.Positions()
		flat := make([][3]float64, len(pos))
		for i, p := range pos {
			flat[i] = [3]float64{p.X, p.Y, p.Z}
		}
		cp.Replicas = append(cp.Replicas, replicaCheckpoint{
			Temperature: rep.temp,
			Positions:   flat,
		})
	}

	raw, err := json.Marshal(cp)
	if err == nil {
		tmp := rc.checkpointPath + ".tmp"
		if err = os.WriteFile(tmp, raw, 0o644); err == nil {
			err = os.Rename(tmp, rc.checkpointPath)
		}
	}
	if err != nil {
		s.cfg.log.Error().
			Int64("step", step).Str("path", rc.checkpointPath).Err(err).
			Msg("checkpoint write failed; sampling continues")
		return
	}
	s.cfg.log.Info().
		Int64("step", step).Str("path", rc.checkpointPath).
		Msg("checkpoint written")
}

// Resume continues a checkpointed run to its original target step count,
// writing further checkpoints to the same path. The scheduler must be
// configured identically to the original run (ladder, movers,
// restraints, cadences); the resumed trajectory is then byte-identical
// to the uninterrupted one.
//
// Errors: ErrCheckpointFormat on a checkpoint that does not match this
// scheduler, ErrInitialScore when a restored configuration cannot be
// scored, ErrRunning, plus I/O errors from reading the file.
func (s *Scheduler) Resume(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("replica: read checkpoint: %w", err)
	}
	var cp checkpointFile
	if err = json.Unmarshal(raw, &cp); err != nil {
		return fmt.Errorf("%w: %v", ErrCheckpointFormat, err)
	}
	if err = s.validateCheckpoint(&cp); err != nil {
		return err
	}

	rc := &runState{
		runID:          cp.RunID,
		seed:           cp.Seed,
		start:          cp.Step,
		target:         cp.TargetSteps,
		byLadder:       append([]int(nil), cp.ByLadder...),
		checkpointPath: path,
	}
	for i, rcp := range cp.Replicas {
		st := s.h.NewState()
		pos := make([]r3.Vec, len(rcp.Positions))
		for j, p := range rcp.Positions {
			pos[j] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
		}
		if err = st.SetAll(pos); err != nil {
			return fmt.Errorf("%w: replica %d: %v", ErrCheckpointFormat, i, err)
		}
		energy, scores, err := s.agg.Total(st)
		if err != nil {
			return fmt.Errorf("%w: replica %d: %v", ErrInitialScore, i, err)
		}
		rc.reps = append(rc.reps, &replicaState{
			index: i, temp: rcp.Temperature, st: st, energy: energy, scores: scores,
		})
	}
	if rc.start >= rc.target {
		return nil // already complete
	}
	return s.run(ctx, rc)
}

// validateCheckpoint rejects checkpoints that cannot drive this
// scheduler: wrong version, wrong replica count, malformed ladder order
// or position counts that do not match the hierarchy.
func (s *Scheduler) validateCheckpoint(cp *checkpointFile) error {
	if cp.Version != checkpointVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrCheckpointFormat, cp.Version, checkpointVersion)
	}
	if len(cp.Replicas) != len(s.cfg.ladder) {
		return fmt.Errorf("%w: %d replicas, ladder has %d", ErrCheckpointFormat, len(cp.Replicas), len(s.cfg.ladder))
	}
	if cp.Step <= 0 || cp.TargetSteps <= 0 || cp.Step > cp.TargetSteps {
		return fmt.Errorf("%w: step %d of %d", ErrCheckpointFormat, cp.Step, cp.TargetSteps)
	}
	if len(cp.ByLadder) != len(cp.Replicas) {
		return fmt.Errorf("%w: ladder order length %d", ErrCheckpointFormat, len(cp.ByLadder))
	}
	seen := make([]bool, len(cp.ByLadder))
	for _, idx := range cp.ByLadder {
		if idx < 0 || idx >= len(seen) || seen[idx] {
			return fmt.Errorf("%w: ladder order is not a permutation", ErrCheckpointFormat)
		}
		seen[idx] = true
	}
	for i, rcp := range cp.Replicas {
		if len(rcp.Positions) != s.h.NumUnits() {
			return fmt.Errorf("%w: replica %d has %d positions, hierarchy has %d units",
				ErrCheckpointFormat, i, len(rcp.Positions), s.h.NumUnits())
		}
		if rcp.Temperature <= 0 {
			return fmt.Errorf("%w: replica %d temperature %g", ErrCheckpointFormat, i, rcp.Temperature)
		}
	}
	return nil
}
