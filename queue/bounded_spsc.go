package queue

// © 2026 lfcore authors. MIT License.

import "github.com/Voskan/lfcore/internal/atomics"

// BoundedSPSC is a fixed-capacity single-producer/single-consumer ring
// buffer (spec.md §4.4.1). The producer goroutine owns tail and only ever
// reads head through a cached copy; the consumer goroutine owns head and
// only ever reads tail through a cached copy — this is the "cache the
// opposite index locally to avoid cross-thread reads" optimization the spec
// calls for, and it is what makes both TryPush and TryPop wait-free: no CAS,
// no retry loop, just a release-published index exchanged once per element.
type BoundedSPSC[T any] struct {
	_    atomics.Pad
	tail atomics.Uint64 // published by producer
	_    atomics.Pad
	head atomics.Uint64 // published by consumer
	_    atomics.Pad

	cells    []T
	mask     uint64
	capacity uint64

	cachedHead uint64 // producer-local, refreshed only on apparent full
	cachedTail uint64 // consumer-local, refreshed only on apparent empty
}

// NewBoundedSPSC constructs a ring of the given capacity, rounded up to the
// next power of two. Panics if capacity < 1; any other capacity that is not
// a power of two is rounded up rather than rejected.
func NewBoundedSPSC[T any](capacity int) *BoundedSPSC[T] {
	if capacity < 1 {
		panic("queue: capacity must be >= 1")
	}
	n := atomics.NextPowerOfTwo(uint64(capacity))
	return &BoundedSPSC[T]{
		cells:    make([]T, n),
		mask:     n - 1,
		capacity: n,
	}
}

// TryPush enqueues v. Returns false without side effects if the ring is
// full.
func (q *BoundedSPSC[T]) TryPush(v T) bool {
	tail := q.tail.LoadRelaxed() // only the producer writes tail
	if tail-q.cachedHead >= q.capacity {
		q.cachedHead = q.head.LoadAcquire()
		if tail-q.cachedHead >= q.capacity {
			return false
		}
	}

	q.cells[tail&q.mask] = v
	q.tail.StoreRelease(tail + 1)
	return true
}

// TryPop dequeues the oldest value. Returns false without side effects if
// the ring is empty.
func (q *BoundedSPSC[T]) TryPop() (T, bool) {
	var zero T
	head := q.head.LoadRelaxed() // only the consumer writes head
	if head == q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head == q.cachedTail {
			return zero, false
		}
	}

	v := q.cells[head&q.mask]
	q.cells[head&q.mask] = zero
	q.head.StoreRelease(head + 1)
	return v, true
}

// Cap returns the ring's usable capacity.
func (q *BoundedSPSC[T]) Cap() int { return int(q.capacity) }
