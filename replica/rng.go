// Package replica - deterministic RNG substreams.
//
// This file centralizes random generation for the whole scheduler.
//
// Goals:
//   - Determinism: same seed ⇒ identical trajectories across platforms
//     and across any degree of concurrency.
//   - Partitioning: every (replica, step) pair and every exchange round
//     gets its own independent substream, so execution order between
//     workers can never influence a draw.
//   - Encapsulation: a single derivation scheme; no time-based sources
//     hidden anywhere.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Substreams are created at
//     the point of use and never shared across goroutines.
package replica

import "math/rand"

// defaultRunSeed is the fixed “zero” seed used when callers pass seed==0.
// The value is arbitrary but stable to keep reproducible defaults.
const defaultRunSeed int64 = 1

// stream identifiers separating the scheduler's draw domains.
const (
	streamStep  uint64 = 0x5
	streamRound uint64 = 0xE
)

// normalizeSeed applies the seed==0 ⇒ defaultRunSeed policy.
//
// Complexity: O(1).
func normalizeSeed(seed int64) int64 {
	if seed == 0 {
		return defaultRunSeed
	}
	return seed
}

// mix64 applies a SplitMix64-style avalanche to eliminate correlations
// between derived seeds; the constants are the canonical SplitMix64
// multipliers/finalizer (Vigna 2014).
//
// Complexity: O(1).
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// deriveSeed mixes a parent seed and stream identifiers into a new
// 64-bit seed. Two mixing passes keep (replica, step) collisions from
// aliasing (mix(a)+b vs mix(a+b)).
//
// Complexity: O(1).
func deriveSeed(parent int64, stream, a, b uint64) int64 {
	x := mix64(uint64(parent) ^ (stream + 0x9e3779b97f4a7c15))
	x = mix64(x ^ a)
	x = mix64(x ^ b)
	return int64(x)
}

// stepRNG returns the substream for one replica's inner step: move
// selection, proposal draws, then the Metropolis test, in that order.
//
// Complexity: O(1); allocates one generator per step (setup cost is
// negligible next to scoring).
func stepRNG(seed int64, replica int, step int64) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(seed, streamStep, uint64(replica), uint64(step))))
}

// roundRNG returns the substream deciding one exchange round's swap
// acceptances, consumed pair by pair in ladder order.
//
// Complexity: O(1).
func roundRNG(seed int64, round int64) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(seed, streamRound, uint64(round), 0)))
}
