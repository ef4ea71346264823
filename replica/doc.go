// Package replica drives stochastic sampling with replica exchange:
// N parallel chains at the temperatures of a ladder, each advancing by
// Metropolis Monte Carlo over the movers of a degrees-of-freedom setup,
// with periodic temperature swaps between ladder-adjacent chains.
//
// State machine per replica:
//
//	INITIALIZED → {PROPOSING → SCORING → ACCEPTED|REJECTED} (loop)
//	            → EXCHANGE-PENDING → EXCHANGED|UNCHANGED → loop
//	            → TERMINATED
//
// Concurrency model:
//
//	One worker goroutine per replica; replicas are independent during
//	inner loops and rendezvous at exchange boundaries. The exchange is
//	the single serialization point: the coordinator swaps temperatures
//	while every participating worker is parked, so no replica ever
//	resumes with a half-swapped state. A straggling replica past the
//	configured timeout misses that round's exchange (logged, skipped);
//	it can never deadlock the run.
//
// Determinism:
//
//	Every stochastic decision draws from a substream derived from the
//	single run seed: (seed, replica, step) for proposals and Metropolis
//	tests, (seed, round) for exchange decisions. Trajectories are
//	therefore byte-identical across reruns regardless of goroutine
//	scheduling, and checkpoint/resume continues bit-identically — the
//	"RNG cursor" is fully captured by the step and round counters.
//
// Exchange criterion (detailed balance):
//
//	For ladder-adjacent replicas i (cooler) and j (hotter),
//	P(swap) = min(1, exp((1/Tᵢ − 1/Tⱼ)(Eᵢ − Eⱼ))).
//	Temperatures are swapped rather than configurations; the two are
//	functionally equivalent and swapping temperatures is O(1).
//
// Failure policy:
//
//	Restraint evaluation failures reject the proposal and the run
//	continues. Sink and checkpoint write failures are logged and skipped;
//	they never corrupt in-memory sampling state. Cancellation (Stop or
//	context) is honored at inner-loop and exchange boundaries, never
//	mid-proposal.
package replica
