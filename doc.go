// Package intmod is a toolkit for integrative structural modeling:
// building multi-resolution spatial representations of molecular
// assemblies, declaring which parts of them may move, and sampling
// their configurations with replica-exchange Monte Carlo.
//
// 🚀 What is intmod?
//
//	A deterministic, restartable modeling core that brings together:
//		• Topology model: states, molecules, sequences & representation choices
//		• Representation builder: beads at any resolution, ideal helices,
//		  Gaussian-mixture density approximations
//		• Degrees of freedom: rigid bodies, flexible beads, super-rigid
//		  groups, symmetry coupling — all exposed as reversible movers
//		• Restraint aggregation: weighted totals with incremental re-scoring
//		• Replica exchange: parallel tempered chains, Metropolis inner
//		  loops, detailed-balance exchanges, JSON checkpoints
//
// ✨ Why choose intmod?
//
//   - Reproducible — one seed, derived substreams, byte-identical reruns
//   - Restartable — checkpoint/resume with bit-identical continuation
//   - Explicit — no ambient globals; every call receives its context
//   - Extensible — restraints and output sinks are small interfaces
//
// Under the hood, everything is organized under five subpackages:
//
//	topology/  — System, State, Molecule, Representation & coverage rules
//	represent/ — bead construction, helix generation, GMM density fitting
//	dof/       — rigid bodies, movers, symmetry, shuffling
//	restraint/ — the scoring contract and the weighted aggregator
//	replica/   — the replica-exchange scheduler, checkpoints, sinks
//
// Data flows left to right:
//
//	topology ─→ represent ─→ dof ─→ replica
//	                   └──── restraint ────┘
//
// Dive into each package's doc.go for contracts, invariants and examples.
//
//	go get github.com/katalvlaran/intmod
package intmod
