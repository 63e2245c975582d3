package queue

// © 2026 lfcore authors. MIT License.

import "github.com/Voskan/lfcore/internal/atomics"

// UnboundedMPSC is a growable multi-producer/single-consumer queue using the
// Michael-Scott two-step enqueue: a producer CASes its node onto the current
// tail's next pointer, then CASes the tail pointer itself forward. A
// producer that wins the first CAS but loses a race to advance tail leaves
// the tail pointer one node behind momentarily; any other producer (or the
// same one on its next attempt) helps it along before proceeding, so the
// queue is never left inconsistent.
//
// With a single consumer, head is never contended, so — like UnboundedSPSC —
// no hazard-pointer protection is needed on the dequeue side; Go's garbage
// collector reclaims a dequeued node once the consumer's last reference to
// it drops (spec.md §4.4.6).
type UnboundedMPSC[T any] struct {
	_    atomics.Pad
	head atomics.Pointer[node[T]] // consumer-owned
	_    atomics.Pad
	tail atomics.Pointer[node[T]] // producers CAS this forward
	_    atomics.Pad
}

// NewUnboundedMPSC constructs an empty queue.
func NewUnboundedMPSC[T any]() *UnboundedMPSC[T] {
	dummy := &node[T]{}
	q := &UnboundedMPSC[T]{}
	q.head.StoreRelease(dummy)
	q.tail.StoreRelease(dummy)
	return q
}

// TryPush always succeeds for an unbounded queue; it returns bool only to
// satisfy the shared queue contract.
func (q *UnboundedMPSC[T]) TryPush(v T) bool {
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
			// another producer linked a node but hasn't advanced tail yet
			q.tail.CompareAndSwapAcqRel(tail, next)
		}
		bo.Spin()
	}
}

// TryPop dequeues the oldest value, returning false if the queue is empty.
// Only the single consumer goroutine may call this.
func (q *UnboundedMPSC[T]) TryPop() (T, bool) {
	var zero T
	head := q.head.LoadRelaxed() // sole consumer
	next := head.next.LoadAcquire()
	if next == nil {
		return zero, false
	}

	v := next.value
	next.value = zero
	q.head.StoreRelease(next)
	return v, true
}
