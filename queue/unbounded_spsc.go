package queue

// © 2026 lfcore authors. MIT License.

import "github.com/Voskan/lfcore/internal/atomics"

// UnboundedSPSC is a growable single-producer/single-consumer queue backed
// by a singly-linked list with a permanent dummy head node. With exactly one
// producer and one consumer, no node is ever reclaimed while a second thread
// might still be touching it, so neither hazard pointers nor epoch
// reclamation are needed: the consumer simply frees the old dummy once it
// advances past it (spec.md §4.4.5).
type UnboundedSPSC[T any] struct {
	_    atomics.Pad
	head atomics.Pointer[node[T]] // consumer-owned
	_    atomics.Pad
	tail atomics.Pointer[node[T]] // producer-owned
	_    atomics.Pad
}

// NewUnboundedSPSC constructs an empty queue.
func NewUnboundedSPSC[T any]() *UnboundedSPSC[T] {
	dummy := &node[T]{}
	q := &UnboundedSPSC[T]{}
	q.head.StoreRelease(dummy)
	q.tail.StoreRelease(dummy)
	return q
}

// TryPush always succeeds for an unbounded queue; it returns bool only to
// satisfy the shared queue contract.
func (q *UnboundedSPSC[T]) TryPush(v T) bool {
	n := &node[T]{value: v}
	tail := q.tail.LoadRelaxed() // sole producer
	tail.next.StoreRelease(n)
	q.tail.StoreRelease(n)
	return true
}

// TryPop dequeues the oldest value, returning false if the queue is empty.
func (q *UnboundedSPSC[T]) TryPop() (T, bool) {
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
