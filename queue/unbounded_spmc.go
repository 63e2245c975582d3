package queue

// © 2026 lfcore authors. MIT License.

import (
	"github.com/Voskan/lfcore/internal/atomics"
	"github.com/Voskan/lfcore/internal/hazard"
)

// UnboundedSPMC is a growable single-producer/multi-consumer queue. The
// single producer appends exactly as UnboundedSPSC does; consumers race each
// other to CAS head forward, and — unlike the single-consumer variants — a
// node freed by the reclaimer the instant it's unlinked could still be
// mid-read by a consumer that lost the CAS race, so every consumer protects
// the node it is about to dereference with a hazard pointer before trusting
// it (spec.md §4.4.7).
type UnboundedSPMC[T any] struct {
	_    atomics.Pad
	head atomics.Pointer[node[T]] // consumers CAS this forward
	_    atomics.Pad
	tail atomics.Pointer[node[T]] // producer-owned
	_    atomics.Pad

	hp *hazard.Manager[node[T]]
}

// NewUnboundedSPMC constructs an empty queue with its own hazard-pointer
// manager.
func NewUnboundedSPMC[T any]() *UnboundedSPMC[T] {
	dummy := &node[T]{}
	q := &UnboundedSPMC[T]{hp: hazard.NewManager[node[T]]()}
	q.head.StoreRelease(dummy)
	q.tail.StoreRelease(dummy)
	return q
}

// TryPush always succeeds for an unbounded queue; it returns bool only to
// satisfy the shared queue contract.
func (q *UnboundedSPMC[T]) TryPush(v T) bool {
	n := &node[T]{value: v}
	tail := q.tail.LoadRelaxed() // sole producer
	tail.next.StoreRelease(n)
	q.tail.StoreRelease(n)
	return true
}

// TryPop dequeues the oldest value, returning false if the queue is empty.
func (q *UnboundedSPMC[T]) TryPop() (T, bool) {
	var zero T
	handle := q.hp.Acquire()
	defer handle.Release()

	var bo atomics.Backoff
	for {
		head := handle.Acquire(0, &q.head)
		next := head.next.LoadAcquire()
		if next == nil {
			return zero, false
		}
		handle.Protect(1, next)
		if q.head.LoadAcquire() != head {
			bo.Spin()
			continue
		}

		v := next.value
		if q.head.CompareAndSwapAcqRel(head, next) {
			handle.Retire(head, func(*node[T]) {})
			return v, true
		}
		bo.Spin()
	}
}
