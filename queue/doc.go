// Package queue implements eight lock-free FIFO queue variants spanning the
// single/multi-producer times single/multi-consumer matrix, each available
// in a bounded (fixed-capacity ring) and unbounded (linked-list) form:
//
//	BoundedSPSC / UnboundedSPSC
//	BoundedMPSC  / UnboundedMPSC
//	BoundedSPMC  / UnboundedSPMC
//	BoundedMPMC  / UnboundedMPMC
//
// All eight share one contract: TryPush(v) reports whether v was enqueued
// (false only means "bounded and full"), TryPop() reports whether a value
// was dequeued (false only means "empty"). Neither method blocks, and
// neither allocates on the bounded variants' hot path. A queue must not be
// copied after its first use.
//
// Violating a variant's producer/consumer cardinality (e.g. two producer
// goroutines racing TryPush on an SPSC queue) is undefined behavior — the
// same trade a single-writer/single-reader ring always makes in exchange for
// its wait-free, allocation-free fast path.
//
// Callers needing backoff between a failed TryPush/TryPop and a retry should
// use internal/atomics.Backoff-style spin-then-yield loops; this package
// never supplies its own retry loop since spec.md §5 explicitly leaves
// timeout/cancellation/backoff policy to the caller.
//
// © 2026 lfcore authors. MIT License.
package queue
