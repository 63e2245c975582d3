package queue

// © 2026 lfcore authors. MIT License.

import (
	"github.com/Voskan/lfcore/internal/atomics"
	"github.com/Voskan/lfcore/internal/hazard"
)

// UnboundedMPMC is a growable multi-producer/multi-consumer queue: the full
// Michael-Scott queue, combining UnboundedMPSC's two-step CAS enqueue with
// UnboundedSPMC's hazard-protected dequeue, since both ends are now
// contended (spec.md §4.4.8).
type UnboundedMPMC[T any] struct {
	_    atomics.Pad
	head atomics.Pointer[node[T]]
	_    atomics.Pad
	tail atomics.Pointer[node[T]]
	_    atomics.Pad

	hp *hazard.Manager[node[T]]
}

// NewUnboundedMPMC constructs an empty queue with its own hazard-pointer
// manager.
func NewUnboundedMPMC[T any]() *UnboundedMPMC[T] {
	dummy := &node[T]{}
	q := &UnboundedMPMC[T]{hp: hazard.NewManager[node[T]]()}
	q.head.StoreRelease(dummy)
	q.tail.StoreRelease(dummy)
	return q
}

// TryPush always succeeds for an unbounded queue; it returns bool only to
// satisfy the shared queue contract.
func (q *UnboundedMPMC[T]) TryPush(v T) bool {
	n := &node[T]{value: v}
	var bo atomics.Backoff

	for {
		tail := q.tail.LoadAcquire()
		next := tail.next.LoadAcquire()

		if next == nil {
			if tail.next.CompareAndSwapAcqRel(nil, n) {
				q.tail.CompareAndSwapAcqRel(tail, n)
				return true
			}
		} else {
			q.tail.CompareAndSwapAcqRel(tail, next)
		}
		bo.Spin()
	}
}

// TryPop dequeues the oldest value, returning false if the queue is empty.
func (q *UnboundedMPMC[T]) TryPop() (T, bool) {
	var zero T
	handle := q.hp.Acquire()
	defer handle.Release()

	var bo atomics.Backoff
	for {
		head := handle.Acquire(0, &q.head)
		tail := q.tail.LoadAcquire()
		next := head.next.LoadAcquire()

		if head != q.head.LoadAcquire() {
			bo.Spin()
			continue
		}

		if head == tail {
			if next == nil {
				return zero, false
			}
			// tail has fallen behind a linked node; help it catch up
			q.tail.CompareAndSwapAcqRel(tail, next)
			bo.Spin()
			continue
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
